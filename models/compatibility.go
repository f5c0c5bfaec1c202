package models

import (
	"time"

	"github.com/google/uuid"
)

// Compatibility declares that a product fits a make/model across a set of years.
// Several rows may exist for the same (product, make, model); readers merge them.
type Compatibility struct {
	ID        uuid.UUID   `json:"id"`
	ProductID uuid.UUID   `json:"productId"`
	MakeID    uuid.UUID   `json:"makeId"`
	ModelID   uuid.UUID   `json:"modelId"`
	YearIDs   []uuid.UUID `json:"yearIds"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Covers reports whether the row lists the year id.
func (c *Compatibility) Covers(yearID uuid.UUID) bool {
	return containsID(c.YearIDs, yearID)
}

// AddCompatibilityRequest represents the request body for POST /compatibility
// Example: {"productId": "...", "makeId": "...", "modelId": "...", "yearIds": ["...", "..."]}
type AddCompatibilityRequest struct {
	ProductID uuid.UUID   `json:"productId"`
	MakeID    uuid.UUID   `json:"makeId"`
	ModelID   uuid.UUID   `json:"modelId"`
	YearIDs   []uuid.UUID `json:"yearIds"`
}

// CompatibilityCheck is the answer to an is-compatible query
type CompatibilityCheck struct {
	ProductID  uuid.UUID `json:"productId"`
	MakeID     uuid.UUID `json:"makeId"`
	ModelID    uuid.UUID `json:"modelId"`
	Year       int       `json:"year"`
	Compatible bool      `json:"compatible"`
}
