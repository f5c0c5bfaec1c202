package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carmod-configurator/events"
	"carmod-configurator/models"
	"carmod-configurator/pricing"
	"carmod-configurator/repository"
	"carmod-configurator/repository/memory"
)

// recordingDispatcher keeps every dispatched event in order
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Dispatch(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) types() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.events))
	for i, e := range d.events {
		out[i] = e.Type()
	}
	return out
}

func (d *recordingDispatcher) reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = nil
}

// fixture is a Toyota Supra 2022 catalog over the in-memory store
type fixture struct {
	t          *testing.T
	ctx        context.Context
	store      repository.Store
	dispatcher *recordingDispatcher

	catalog  *CatalogService
	compat   *CompatibilityService
	configs  *ConfigurationService
	bookings *BookingService
	orders   *OrderService

	make  *models.Make
	model *models.VehicleModel
	year  *models.Year

	hood       *models.CustomizationOption // exterior-hood 5000
	carbonHood *models.CustomizationOption // exterior-hood 7000
	wheels     *models.CustomizationOption // exterior-wheels 2000
	seats      *models.CustomizationOption // interior-seat-material 1500
	spoiler    *models.CustomizationOption // exterior-spoiler 900, not offered
	pkg        *models.Package             // 3000, offered
	otherPkg   *models.Package             // 800, not offered
	sticker    *models.Sticker             // 150, offered

	customer uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithStore(t, memory.NewStore())
}

func newFixtureWithStore(t *testing.T, store repository.Store) *fixture {
	t.Helper()
	f := &fixture{
		t:          t,
		ctx:        context.Background(),
		store:      store,
		dispatcher: &recordingDispatcher{},
		customer:   uuid.New(),
	}
	engine := pricing.NewEngine("USD")
	f.compat = NewCompatibilityService(store, time.Minute, time.Second)
	f.catalog = NewCatalogService(store, f.compat, time.Second)
	f.configs = NewConfigurationService(store, engine, f.dispatcher, time.Second)
	f.bookings = NewBookingService(store, f.dispatcher, time.Second)
	f.orders = NewOrderService(store, engine, f.dispatcher, time.Second)

	var err error
	f.make, err = f.catalog.CreateMake(f.ctx, &models.CreateMakeRequest{Name: "Toyota"})
	require.NoError(t, err)
	f.model, err = f.catalog.CreateModel(f.ctx, &models.CreateModelRequest{MakeID: f.make.ID, Name: "Supra"})
	require.NoError(t, err)

	f.hood = f.option(models.SlotExteriorHood, "Vented hood", 5000)
	f.carbonHood = f.option(models.SlotExteriorHood, "Carbon hood", 7000)
	f.wheels = f.option(models.SlotExteriorWheels, "Forged 19in", 2000)
	f.seats = f.option(models.SlotInteriorSeatMaterial, "Alcantara", 1500)
	f.spoiler = f.option(models.SlotExteriorSpoiler, "Ducktail", 900)

	f.pkg, err = f.catalog.CreatePackage(f.ctx, &models.CreatePackageRequest{Title: "Track pack", Price: decimal.NewFromInt(3000)})
	require.NoError(t, err)
	f.otherPkg, err = f.catalog.CreatePackage(f.ctx, &models.CreatePackageRequest{Title: "Winter pack", Price: decimal.NewFromInt(800)})
	require.NoError(t, err)
	f.sticker, err = f.catalog.CreateSticker(f.ctx, &models.CreateStickerRequest{Text: "GR", Price: decimal.NewFromInt(150)})
	require.NoError(t, err)

	f.year = f.createYear(f.model.ID, 2022, models.YearOfferings{
		ExteriorOptionIDs: []uuid.UUID{f.hood.ID, f.carbonHood.ID, f.wheels.ID},
		InteriorOptionIDs: []uuid.UUID{f.seats.ID},
		PackageIDs:        []uuid.UUID{f.pkg.ID},
		StickerIDs:        []uuid.UUID{f.sticker.ID},
	})
	f.dispatcher.reset()
	return f
}

func (f *fixture) option(slot models.SlotKind, title string, price int64) *models.CustomizationOption {
	f.t.Helper()
	o, err := f.catalog.CreateOption(f.ctx, &models.CreateOptionRequest{Slot: slot, Title: title, Price: decimal.NewFromInt(price)})
	require.NoError(f.t, err)
	return o
}

func (f *fixture) createYear(modelID uuid.UUID, year int, offerings models.YearOfferings) *models.Year {
	f.t.Helper()
	y, err := f.catalog.CreateYear(f.ctx, &models.CreateYearRequest{ModelID: modelID, Year: year, YearOfferings: offerings})
	require.NoError(f.t, err)
	return y
}

func (f *fixture) product(name string, price int64) *models.Product {
	f.t.Helper()
	p, err := f.catalog.CreateProduct(f.ctx, &models.CreateProductRequest{Name: name, Price: decimal.NewFromInt(price)})
	require.NoError(f.t, err)
	return p
}

// request builds a save request for the fixture vehicle
func (f *fixture) request(options ...models.OptionSelection) *models.SaveConfigurationRequest {
	return &models.SaveConfigurationRequest{
		CustomerID: f.customer,
		MakeID:     f.make.ID,
		ModelID:    f.model.ID,
		YearID:     f.year.ID,
		Selections: models.Selections{Options: options},
	}
}

func (f *fixture) saveConfiguration(req *models.SaveConfigurationRequest) *models.Configuration {
	f.t.Helper()
	cfg, err := f.configs.CreateOrUpdateConfiguration(f.ctx, nil, req)
	require.NoError(f.t, err)
	return cfg
}

func (f *fixture) book(cfg *models.Configuration) *models.Booking {
	f.t.Helper()
	b, err := f.bookings.CreateBooking(f.ctx, f.bookingRequest(&cfg.ID))
	require.NoError(f.t, err)
	return b
}

func (f *fixture) bookingRequest(configurationID *uuid.UUID) *models.CreateBookingRequest {
	return &models.CreateBookingRequest{
		CustomerID:      f.customer,
		ConfigurationID: configurationID,
		TimeSlot:        time.Now().Add(48 * time.Hour),
		ShippingAddress: "12 Harbour Rd",
	}
}

func pick(o *models.CustomizationOption) models.OptionSelection {
	return models.OptionSelection{Slot: o.Slot, OptionID: o.ID}
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Equal(t, want, got.StringFixed(2))
}

// expiredContext is already past its deadline
func expiredContext() (context.Context, context.CancelFunc) {
	return context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
}
