package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineKind tells which catalog entity a pricing line comes from
type LineKind string

const (
	LineOption  LineKind = "option"
	LinePackage LineKind = "package"
	LineSticker LineKind = "sticker"
	LineProduct LineKind = "product"
)

// PricingLine represents pricing information for a single line
type PricingLine struct {
	Kind      LineKind        `json:"kind"`
	RefID     uuid.UUID       `json:"refId"`     // Catalog entity ID
	Label     string          `json:"label"`     // Title, sticker text or product name
	Qty       int             `json:"qty"`       // Always 1 for configuration lines
	UnitPrice decimal.Decimal `json:"unitPrice"` // Catalog price at calculation time
	LineTotal decimal.Decimal `json:"lineTotal"` // UnitPrice * Qty
}

// PricingBreakdown represents the complete pricing calculation result
type PricingBreakdown struct {
	Currency string          `json:"currency"`
	Total    decimal.Decimal `json:"total"`
	Lines    []PricingLine   `json:"lines"`
}
