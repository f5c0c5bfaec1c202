package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carmod-configurator/models"
)

func TestPriceConfigurationSumsEveryLine(t *testing.T) {
	engine := NewEngine("")
	assert.Equal(t, DefaultCurrency, engine.Currency())

	breakdown, err := engine.PriceConfiguration(
		[]models.SelectedOption{
			{OptionID: uuid.New(), Slot: models.SlotExteriorHood, Title: "Hood", Price: decimal.NewFromInt(5000)},
			{OptionID: uuid.New(), Slot: models.SlotInteriorTrim, Title: "Trim", Price: decimal.RequireFromString("249.99")},
		},
		[]models.SelectedPackage{{PackageID: uuid.New(), Title: "Track", Price: decimal.NewFromInt(3000)}},
		[]models.SelectedSticker{{StickerID: uuid.New(), Text: "GR", Price: decimal.RequireFromString("0.015")}},
	)
	require.NoError(t, err)
	require.Len(t, breakdown.Lines, 4)
	assert.Equal(t, models.LineSticker, breakdown.Lines[3].Kind)
	assert.Equal(t, "0.02", breakdown.Lines[3].UnitPrice.StringFixed(2))
	assert.Equal(t, "8250.01", breakdown.Total.StringFixed(2))
}

func TestPriceConfigurationEmpty(t *testing.T) {
	breakdown, err := NewEngine("EUR").PriceConfiguration(nil, nil, nil)
	require.NoError(t, err)
	assert.True(t, breakdown.Total.IsZero())
	assert.Empty(t, breakdown.Lines)
	assert.Equal(t, "EUR", breakdown.Currency)
}

func TestPriceConfigurationRejectsNegativePrices(t *testing.T) {
	_, err := NewEngine("USD").PriceConfiguration(nil, []models.SelectedPackage{{PackageID: uuid.New(), Price: decimal.NewFromInt(-1)}}, nil)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestPriceOrderFillsLineTotals(t *testing.T) {
	lines := []models.OrderLine{
		{ProductID: uuid.New(), Name: "Intake", UnitPrice: decimal.RequireFromString("349.99"), Quantity: 2},
		{ProductID: uuid.New(), Name: "Filter", UnitPrice: decimal.NewFromInt(25), Quantity: 1},
	}

	breakdown, err := NewEngine("USD").PriceOrder(lines)
	require.NoError(t, err)
	assert.Equal(t, "699.98", lines[0].LineTotal.StringFixed(2))
	assert.Equal(t, "25.00", lines[1].LineTotal.StringFixed(2))
	assert.Equal(t, "724.98", breakdown.Total.StringFixed(2))
}

func TestPriceOrderRejectsZeroQuantity(t *testing.T) {
	_, err := NewEngine("USD").PriceOrder([]models.OrderLine{{ProductID: uuid.New(), UnitPrice: decimal.NewFromInt(1)}})
	assert.ErrorIs(t, err, models.ErrValidation)
}
