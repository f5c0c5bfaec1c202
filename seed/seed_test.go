package seed

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carmod-configurator/events"
	"carmod-configurator/models"
	"carmod-configurator/pricing"
	"carmod-configurator/repository/memory"
	"carmod-configurator/service"
)

func TestRun(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	compat := service.NewCompatibilityService(store, time.Minute, time.Second)
	catalog := service.NewCatalogService(store, compat, time.Second)

	res, err := Run(ctx, catalog, compat)
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Len(t, res.Models, 2)
	assert.Len(t, res.Years, 4)
	assert.Len(t, res.Products, len(demoProducts))

	years, err := compat.CompatibleYears(ctx, res.Products[1].ID, res.Make.ID, res.Models[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []int{2022, 2023}, years)

	t.Run("second run is a no-op", func(t *testing.T) {
		again, err := Run(ctx, catalog, compat)
		require.NoError(t, err)
		assert.True(t, again.Skipped)

		makes, err := catalog.ListMakes(ctx)
		require.NoError(t, err)
		assert.Len(t, makes, 1)
	})

	t.Run("seeded year is configurable", func(t *testing.T) {
		configs := service.NewConfigurationService(store, pricing.NewEngine("USD"), events.LogDispatcher{}, time.Second)
		req := newSaveRequest(res, res.Years[0].ExteriorOptionIDs[0])
		cfg, err := configs.CreateOrUpdateConfiguration(ctx, nil, req)
		require.NoError(t, err)
		assert.True(t, cfg.TotalAmount.IsPositive())
	})
}

func newSaveRequest(res *Result, optionID uuid.UUID) *models.SaveConfigurationRequest {
	year := res.Years[0]
	return &models.SaveConfigurationRequest{
		CustomerID: uuid.New(),
		MakeID:     res.Make.ID,
		ModelID:    year.ModelID,
		YearID:     year.ID,
		Selections: models.Selections{
			Options: []models.OptionSelection{{Slot: models.SlotExteriorHood, OptionID: optionID}},
		},
	}
}
