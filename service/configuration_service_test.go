package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carmod-configurator/models"
)

func TestSupraHoodConfigurationIsBooked(t *testing.T) {
	f := newFixture(t)

	cfg := f.saveConfiguration(f.request(pick(f.hood)))
	assertMoney(t, "5000.00", cfg.TotalAmount)
	assert.Equal(t, models.ConfigurationSaved, cfg.BookingStatus)
	assert.Equal(t, 1, cfg.Revision)
	require.Len(t, cfg.SelectedOptions, 1)
	assert.Equal(t, models.SlotExteriorHood, cfg.SelectedOptions[0].Slot)

	booking := f.book(cfg)
	assert.Equal(t, models.BookingPending, booking.BookingStatus)
	assert.Equal(t, "Toyota", booking.Make)
	assert.Equal(t, "Supra", booking.Model)
	assert.Equal(t, 2022, booking.Year)
	assert.Nil(t, booking.PaymentMethod)
	assert.Nil(t, booking.PaymentStatus)

	stored, err := f.configs.GetConfiguration(f.ctx, cfg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConfigurationPending, stored.BookingStatus)
	assert.Equal(t, []string{"BookingCreated", "ConfigurationStatusChanged"}, f.dispatcher.types()[1:])
}

func TestPricingIsRecomputedOnEveryWrite(t *testing.T) {
	f := newFixture(t)
	req := f.request(pick(f.hood), pick(f.seats))
	req.Selections.PackageIDs = []uuid.UUID{f.pkg.ID}

	first := f.saveConfiguration(req)
	second, err := f.configs.CreateOrUpdateConfiguration(f.ctx, &first.ID, req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.Revision)
	assert.True(t, first.TotalAmount.Equal(second.TotalAmount))
	assertMoney(t, "9500.00", second.TotalAmount)
}

func TestAddingLinesRaisesTotalByTheirPrice(t *testing.T) {
	f := newFixture(t)

	base := f.saveConfiguration(f.request(pick(f.hood)))

	more := f.request(pick(f.hood), pick(f.wheels))
	more.Selections.PackageIDs = []uuid.UUID{f.pkg.ID}
	more.Selections.StickerIDs = []uuid.UUID{f.sticker.ID}
	superset, err := f.configs.CreateOrUpdateConfiguration(f.ctx, &base.ID, more)
	require.NoError(t, err)

	extra := f.wheels.Price.Add(f.pkg.Price).Add(f.sticker.Price)
	assert.True(t, superset.TotalAmount.Equal(base.TotalAmount.Add(extra)))
	assert.Len(t, superset.SelectedPackages, 1)
	assert.Len(t, superset.SelectedStickers, 1)
}

func TestLaterSelectionReplacesSlot(t *testing.T) {
	f := newFixture(t)

	cfg := f.saveConfiguration(f.request(pick(f.hood), pick(f.wheels), pick(f.carbonHood)))

	require.Len(t, cfg.SelectedOptions, 2)
	opt, ok := cfg.OptionFor(models.SlotExteriorHood)
	require.True(t, ok)
	assert.Equal(t, f.carbonHood.ID, opt.OptionID)
	// hood keeps its first-selected position
	assert.Equal(t, models.SlotExteriorHood, cfg.SelectedOptions[0].Slot)
	assertMoney(t, "9000.00", cfg.TotalAmount)
}

func TestDuplicatePackagesAndStickersCollapse(t *testing.T) {
	f := newFixture(t)
	req := f.request()
	req.Selections.PackageIDs = []uuid.UUID{f.pkg.ID, f.pkg.ID}
	req.Selections.StickerIDs = []uuid.UUID{f.sticker.ID, f.sticker.ID}

	cfg := f.saveConfiguration(req)
	assert.Len(t, cfg.SelectedPackages, 1)
	assert.Len(t, cfg.SelectedStickers, 1)
	assertMoney(t, "3150.00", cfg.TotalAmount)
}

func TestSelectionsAreGatedByYearOfferings(t *testing.T) {
	f := newFixture(t)
	otherModel, err := f.catalog.CreateModel(f.ctx, &models.CreateModelRequest{MakeID: f.make.ID, Name: "Corolla"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		mutate  func(req *models.SaveConfigurationRequest)
		wantErr error
	}{
		{
			name:    "option not offered",
			mutate:  func(req *models.SaveConfigurationRequest) { req.Selections.Options = []models.OptionSelection{pick(f.spoiler)} },
			wantErr: models.ErrIncompatibleOption,
		},
		{
			name: "option under another slot",
			mutate: func(req *models.SaveConfigurationRequest) {
				req.Selections.Options = []models.OptionSelection{{Slot: models.SlotExteriorWheels, OptionID: f.hood.ID}}
			},
			wantErr: models.ErrValidation,
		},
		{
			name: "unknown slot",
			mutate: func(req *models.SaveConfigurationRequest) {
				req.Selections.Options = []models.OptionSelection{{Slot: "roof-box", OptionID: f.hood.ID}}
			},
			wantErr: models.ErrValidation,
		},
		{
			name:    "package not offered",
			mutate:  func(req *models.SaveConfigurationRequest) { req.Selections.PackageIDs = []uuid.UUID{f.otherPkg.ID} },
			wantErr: models.ErrIncompatibleOption,
		},
		{
			name:    "package missing",
			mutate:  func(req *models.SaveConfigurationRequest) { req.Selections.PackageIDs = []uuid.UUID{uuid.New()} },
			wantErr: models.ErrValidation,
		},
		{
			name:    "sticker missing",
			mutate:  func(req *models.SaveConfigurationRequest) { req.Selections.StickerIDs = []uuid.UUID{uuid.New()} },
			wantErr: models.ErrValidation,
		},
		{
			name:    "model of another make",
			mutate:  func(req *models.SaveConfigurationRequest) { req.MakeID = uuid.New() },
			wantErr: models.ErrValidation,
		},
		{
			name:    "year of another model",
			mutate:  func(req *models.SaveConfigurationRequest) { req.ModelID = otherModel.ID },
			wantErr: models.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.request(pick(f.hood))
			tt.mutate(req)
			_, err := f.configs.CreateOrUpdateConfiguration(f.ctx, nil, req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	list, err := f.configs.ListConfigurations(f.ctx, f.customer, nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSelectOptionAndClearSlot(t *testing.T) {
	f := newFixture(t)
	cfg := f.saveConfiguration(f.request(pick(f.hood)))

	cfg, err := f.configs.SelectOption(f.ctx, f.customer, cfg.ID, f.seats.ID)
	require.NoError(t, err)
	assertMoney(t, "6500.00", cfg.TotalAmount)
	assert.Equal(t, 2, cfg.Revision)

	cfg, err = f.configs.SelectOption(f.ctx, f.customer, cfg.ID, f.carbonHood.ID)
	require.NoError(t, err)
	assertMoney(t, "8500.00", cfg.TotalAmount)

	_, err = f.configs.SelectOption(f.ctx, f.customer, cfg.ID, f.spoiler.ID)
	assert.ErrorIs(t, err, models.ErrIncompatibleOption)

	// unknown ids fail the same way as un-offered ones
	_, err = f.configs.SelectOption(f.ctx, f.customer, cfg.ID, uuid.New())
	assert.ErrorIs(t, err, models.ErrIncompatibleOption)

	cfg, err = f.configs.ClearSlot(f.ctx, f.customer, cfg.ID, models.SlotExteriorHood)
	require.NoError(t, err)
	assertMoney(t, "1500.00", cfg.TotalAmount)
	assert.Equal(t, 4, cfg.Revision)

	unchanged, err := f.configs.ClearSlot(f.ctx, f.customer, cfg.ID, models.SlotExteriorHood)
	require.NoError(t, err)
	assert.Equal(t, 4, unchanged.Revision)
}

func TestStaleRevisionIsRejected(t *testing.T) {
	f := newFixture(t)
	cfg := f.saveConfiguration(f.request(pick(f.hood)))

	req := f.request(pick(f.wheels))
	stale := cfg.Revision
	req.Revision = &stale
	_, err := f.configs.CreateOrUpdateConfiguration(f.ctx, &cfg.ID, req)
	require.NoError(t, err)

	_, err = f.configs.CreateOrUpdateConfiguration(f.ctx, &cfg.ID, req)
	assert.ErrorIs(t, err, models.ErrConflict)

	stored, err := f.configs.GetConfiguration(f.ctx, cfg.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Revision)
}

func TestConfigurationOwnership(t *testing.T) {
	f := newFixture(t)
	cfg := f.saveConfiguration(f.request(pick(f.hood)))

	req := f.request(pick(f.wheels))
	req.CustomerID = uuid.New()
	_, err := f.configs.CreateOrUpdateConfiguration(f.ctx, &cfg.ID, req)
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = f.configs.CancelConfiguration(f.ctx, req.CustomerID, cfg.ID)
	assert.ErrorIs(t, err, models.ErrValidation)

	err = f.configs.DeleteConfiguration(f.ctx, req.CustomerID, cfg.ID)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestOnlySavedConfigurationsAreEditable(t *testing.T) {
	f := newFixture(t)
	cfg := f.saveConfiguration(f.request(pick(f.hood)))
	f.book(cfg)

	_, err := f.configs.CreateOrUpdateConfiguration(f.ctx, &cfg.ID, f.request(pick(f.wheels)))
	assert.ErrorIs(t, err, models.ErrInvalidState)

	_, err = f.configs.SelectOption(f.ctx, f.customer, cfg.ID, f.wheels.ID)
	assert.ErrorIs(t, err, models.ErrInvalidState)

	_, err = f.configs.CancelConfiguration(f.ctx, f.customer, cfg.ID)
	assert.ErrorIs(t, err, models.ErrInvalidState)

	err = f.configs.DeleteConfiguration(f.ctx, f.customer, cfg.ID)
	assert.ErrorIs(t, err, models.ErrInvalidState)
}

func TestConfigurationStatusNeverMovesBack(t *testing.T) {
	f := newFixture(t)
	cfg := f.saveConfiguration(f.request(pick(f.hood)))
	booking := f.book(cfg)

	_, err := f.bookings.ApplyBookingCommand(f.ctx, booking.ID, models.SetBookingStatus{Status: models.BookingConfirmed})
	require.NoError(t, err)

	for _, target := range []models.BookingStatus{models.BookingPending, models.BookingSaved, models.BookingCancelled} {
		_, err := f.bookings.ApplyBookingCommand(f.ctx, booking.ID, models.SetBookingStatus{Status: target})
		assert.ErrorIs(t, err, models.ErrIllegalTransition)
	}

	stored, err := f.configs.GetConfiguration(f.ctx, cfg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConfigurationConfirmed, stored.BookingStatus)
}

func TestCancelThenDeleteConfiguration(t *testing.T) {
	f := newFixture(t)
	cfg := f.saveConfiguration(f.request(pick(f.hood)))

	cancelled, err := f.configs.CancelConfiguration(f.ctx, f.customer, cfg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConfigurationCancelled, cancelled.BookingStatus)

	status := models.ConfigurationCancelled
	list, err := f.configs.ListConfigurations(f.ctx, f.customer, &status)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, f.configs.DeleteConfiguration(f.ctx, f.customer, cfg.ID))
	_, err = f.configs.GetConfiguration(f.ctx, cfg.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDeleteBookedConfigurationIsReferenced(t *testing.T) {
	f := newFixture(t)
	cfg := f.saveConfiguration(f.request(pick(f.hood)))
	booking := f.book(cfg)

	_, err := f.bookings.ApplyBookingCommand(f.ctx, booking.ID, models.SetBookingStatus{Status: models.BookingCancelled})
	require.NoError(t, err)

	err = f.configs.DeleteConfiguration(f.ctx, f.customer, cfg.ID)
	assert.ErrorIs(t, err, models.ErrReferentialConflict)
}

func TestListConfigurationsNeedsCustomer(t *testing.T) {
	f := newFixture(t)
	_, err := f.configs.ListConfigurations(f.ctx, uuid.Nil, nil)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestExpiredContextTimesOut(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := expiredContext()
	defer cancel()

	_, err := f.configs.CreateOrUpdateConfiguration(ctx, nil, f.request(pick(f.hood)))
	assert.ErrorIs(t, err, models.ErrTimeout)

	_, err = f.configs.ListConfigurations(ctx, f.customer, nil)
	assert.ErrorIs(t, err, models.ErrTimeout)
}
