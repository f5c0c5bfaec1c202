package pricing

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"carmod-configurator/models"
	"carmod-configurator/utils"
)

// DefaultCurrency is used when the engine is built without one
const DefaultCurrency = "USD"

// moneyPlaces is the number of decimal places every amount is rounded to
const moneyPlaces = 2

// Engine prices configurations and order carts. Every line price comes from
// the catalog records handed to it, never from a client-supplied total.
type Engine struct {
	currency string
}

// NewEngine creates a new pricing engine
func NewEngine(currency string) *Engine {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Engine{currency: currency}
}

func (e *Engine) Currency() string {
	return e.currency
}

// PriceConfiguration builds the breakdown for a configuration's lines.
// Total = sum(options) + sum(packages) + sum(stickers).
func (e *Engine) PriceConfiguration(options []models.SelectedOption, packages []models.SelectedPackage, stickers []models.SelectedSticker) (*models.PricingBreakdown, error) {
	breakdown := e.newBreakdown(len(options) + len(packages) + len(stickers))

	for _, opt := range options {
		if err := e.addLine(breakdown, models.LineOption, opt.OptionID, opt.Title, opt.Price, 1); err != nil {
			return nil, err
		}
	}
	for _, pkg := range packages {
		if err := e.addLine(breakdown, models.LinePackage, pkg.PackageID, pkg.Title, pkg.Price, 1); err != nil {
			return nil, err
		}
	}
	for _, st := range stickers {
		if err := e.addLine(breakdown, models.LineSticker, st.StickerID, st.Text, st.Price, 1); err != nil {
			return nil, err
		}
	}

	log.Debugf("💰 PriceConfiguration: %d lines, total = %s", len(breakdown.Lines), utils.FormatMoney(breakdown.Total, e.currency))
	return breakdown, nil
}

// PriceOrder fills UnitPrice/LineTotal of each line in place and returns the
// cart breakdown. The lines become the order's price snapshot.
func (e *Engine) PriceOrder(lines []models.OrderLine) (*models.PricingBreakdown, error) {
	breakdown := e.newBreakdown(len(lines))

	for i := range lines {
		line := &lines[i]
		if line.Quantity < 1 {
			return nil, errors.Wrapf(models.ErrValidation, "quantity for product %s must be at least 1", line.ProductID)
		}
		if err := e.addLine(breakdown, models.LineProduct, line.ProductID, line.Name, line.UnitPrice, line.Quantity); err != nil {
			return nil, err
		}
		priced := breakdown.Lines[len(breakdown.Lines)-1]
		line.UnitPrice = priced.UnitPrice
		line.LineTotal = priced.LineTotal
	}

	log.Debugf("💰 PriceOrder: %d lines, total = %s", len(lines), utils.FormatMoney(breakdown.Total, e.currency))
	return breakdown, nil
}

func (e *Engine) newBreakdown(capacity int) *models.PricingBreakdown {
	return &models.PricingBreakdown{
		Currency: e.currency,
		Total:    decimal.Zero,
		Lines:    make([]models.PricingLine, 0, capacity),
	}
}

func (e *Engine) addLine(b *models.PricingBreakdown, kind models.LineKind, refID uuid.UUID, label string, price decimal.Decimal, qty int) error {
	if price.IsNegative() {
		return errors.Wrapf(models.ErrValidation, "%s %s has a negative price", kind, refID)
	}
	unit := price.Round(moneyPlaces)
	total := unit.Mul(decimal.NewFromInt(int64(qty)))
	b.Lines = append(b.Lines, models.PricingLine{
		Kind:      kind,
		RefID:     refID,
		Label:     label,
		Qty:       qty,
		UnitPrice: unit,
		LineTotal: total,
	})
	b.Total = b.Total.Add(total)
	return nil
}
