package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carmod-configurator/models"
)

func (f *fixture) compatible(product *models.Product, years ...*models.Year) *models.Compatibility {
	f.t.Helper()
	ids := make([]uuid.UUID, len(years))
	for i, y := range years {
		ids[i] = y.ID
	}
	row, err := f.compat.AddCompatibility(f.ctx, &models.AddCompatibilityRequest{
		ProductID: product.ID,
		MakeID:    f.make.ID,
		ModelID:   f.model.ID,
		YearIDs:   ids,
	})
	require.NoError(f.t, err)
	return row
}

func TestCompatibleYearsAreMergedAcrossRows(t *testing.T) {
	f := newFixture(t)
	y2021 := f.createYear(f.model.ID, 2021, models.YearOfferings{})
	y2023 := f.createYear(f.model.ID, 2023, models.YearOfferings{})
	intake := f.product("Cold air intake", 349)

	f.compatible(intake, y2021, f.year)
	f.compatible(intake, f.year, y2023)

	years, err := f.compat.CompatibleYears(f.ctx, intake.ID, f.make.ID, f.model.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{2021, 2022, 2023}, years)

	ok, err := f.compat.IsCompatible(f.ctx, intake.ID, f.make.ID, f.model.ID, 2023)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.compat.IsCompatible(f.ctx, intake.ID, f.make.ID, f.model.ID, 2024)
	require.NoError(t, err)
	assert.False(t, ok)

	rows, err := f.compat.ListCompatibilities(f.ctx, intake.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestCompatibleProducts(t *testing.T) {
	f := newFixture(t)
	intake := f.product("Cold air intake", 349)
	exhaust := f.product("Cat-back exhaust", 1299)
	f.product("Roof rack", 220)

	f.compatible(intake, f.year)
	f.compatible(exhaust, f.year)
	f.compatible(exhaust, f.year)

	products, err := f.compat.CompatibleProducts(f.ctx, f.make.ID, f.model.ID, 2022)
	require.NoError(t, err)
	var names []string
	for _, p := range products {
		names = append(names, p.Name)
	}
	assert.ElementsMatch(t, []string{"Cold air intake", "Cat-back exhaust"}, names)

	none, err := f.compat.CompatibleProducts(f.ctx, f.make.ID, f.model.ID, 1999)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAddCompatibilityValidatesHierarchy(t *testing.T) {
	f := newFixture(t)
	intake := f.product("Cold air intake", 349)
	corolla, err := f.catalog.CreateModel(f.ctx, &models.CreateModelRequest{MakeID: f.make.ID, Name: "Corolla"})
	require.NoError(t, err)
	corolla2022 := f.createYear(corolla.ID, 2022, models.YearOfferings{})

	tests := []struct {
		name string
		req  models.AddCompatibilityRequest
	}{
		{"no years", models.AddCompatibilityRequest{ProductID: intake.ID, MakeID: f.make.ID, ModelID: f.model.ID}},
		{"unknown product", models.AddCompatibilityRequest{ProductID: uuid.New(), MakeID: f.make.ID, ModelID: f.model.ID, YearIDs: []uuid.UUID{f.year.ID}}},
		{"model of another make", models.AddCompatibilityRequest{ProductID: intake.ID, MakeID: uuid.New(), ModelID: f.model.ID, YearIDs: []uuid.UUID{f.year.ID}}},
		{"year of another model", models.AddCompatibilityRequest{ProductID: intake.ID, MakeID: f.make.ID, ModelID: f.model.ID, YearIDs: []uuid.UUID{corolla2022.ID}}},
		{"unknown year", models.AddCompatibilityRequest{ProductID: intake.ID, MakeID: f.make.ID, ModelID: f.model.ID, YearIDs: []uuid.UUID{uuid.New()}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.compat.AddCompatibility(f.ctx, &tt.req)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

func TestCompatibilityCacheInvalidation(t *testing.T) {
	f := newFixture(t)
	y2023 := f.createYear(f.model.ID, 2023, models.YearOfferings{})
	intake := f.product("Cold air intake", 349)
	f.compatible(intake, f.year)

	years, err := f.compat.CompatibleYears(f.ctx, intake.ID, f.make.ID, f.model.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{2022}, years)

	// a write behind the service's back stays invisible until invalidated
	require.NoError(t, f.store.Repositories().Compatibilities.Insert(f.ctx, &models.Compatibility{
		ID:        uuid.New(),
		ProductID: intake.ID,
		MakeID:    f.make.ID,
		ModelID:   f.model.ID,
		YearIDs:   []uuid.UUID{y2023.ID},
		CreatedAt: time.Now(),
	}))
	years, err = f.compat.CompatibleYears(f.ctx, intake.ID, f.make.ID, f.model.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{2022}, years)

	f.compat.Invalidate(f.make.ID, f.model.ID)
	years, err = f.compat.CompatibleYears(f.ctx, intake.ID, f.make.ID, f.model.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{2022, 2023}, years)

	// writes through the service invalidate on their own
	row := f.compatible(intake, y2023)
	require.NoError(t, f.compat.DeleteCompatibility(f.ctx, row.ID))
	rows, err := f.compat.ListCompatibilities(f.ctx, intake.ID)
	require.NoError(t, err)
	for _, r := range rows {
		require.NoError(t, f.compat.DeleteCompatibility(f.ctx, r.ID))
	}
	years, err = f.compat.CompatibleYears(f.ctx, intake.ID, f.make.ID, f.model.ID)
	require.NoError(t, err)
	assert.Empty(t, years)
}

func TestCompatibilityCacheLoadOutlivesCaller(t *testing.T) {
	cache := newCompatibilityCache(time.Minute, time.Second)
	makeID, modelID := uuid.New(), uuid.New()

	var calls int32
	started := make(chan struct{})
	release := make(chan struct{})
	load := func(ctx context.Context) (*compatibilitySet, error) {
		atomic.AddInt32(&calls, 1)
		close(started)
		select {
		case <-release:
			return &compatibilitySet{years: map[uuid.UUID]int{}}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	first, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := cache.get(first, makeID, modelID, load)
		firstErr <- err
	}()
	<-started

	secondErr := make(chan error, 1)
	go func() {
		_, err := cache.get(context.Background(), makeID, modelID, load)
		secondErr <- err
	}()

	cancelFirst()
	close(release)

	assert.NoError(t, <-firstErr)
	assert.NoError(t, <-secondErr)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCompatibilityCacheDisabled(t *testing.T) {
	f := newFixture(t)
	f.compat = NewCompatibilityService(f.store, 0, time.Second)
	intake := f.product("Cold air intake", 349)

	years, err := f.compat.CompatibleYears(f.ctx, intake.ID, f.make.ID, f.model.ID)
	require.NoError(t, err)
	assert.Empty(t, years)

	require.NoError(t, f.store.Repositories().Compatibilities.Insert(f.ctx, &models.Compatibility{
		ID:        uuid.New(),
		ProductID: intake.ID,
		MakeID:    f.make.ID,
		ModelID:   f.model.ID,
		YearIDs:   []uuid.UUID{f.year.ID},
		CreatedAt: time.Now(),
	}))
	ok, err := f.compat.IsCompatible(f.ctx, intake.ID, f.make.ID, f.model.ID, 2022)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCompatibilityBlocksCatalogDeletes(t *testing.T) {
	f := newFixture(t)
	intake := f.product("Cold air intake", 349)
	bare := f.createYear(f.model.ID, 2023, models.YearOfferings{})
	f.compatible(intake, bare)

	assert.ErrorIs(t, f.catalog.DeleteProduct(f.ctx, intake.ID), models.ErrReferentialConflict)
	assert.ErrorIs(t, f.catalog.DeleteYear(f.ctx, bare.ID), models.ErrReferentialConflict)
}
