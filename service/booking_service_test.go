package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carmod-configurator/models"
	"carmod-configurator/repository"
	"carmod-configurator/repository/memory"
)

// faultyStore fails every configuration update made inside a transaction
type faultyStore struct {
	*memory.Store
	armed bool
}

func (s *faultyStore) RunInTx(ctx context.Context, fn func(repos *repository.Repositories) error) error {
	return s.Store.RunInTx(ctx, func(repos *repository.Repositories) error {
		if !s.armed {
			return fn(repos)
		}
		faulty := *repos
		faulty.Configurations = failingConfigurations{repos.Configurations}
		return fn(&faulty)
	})
}

type failingConfigurations struct {
	repository.ConfigurationRepositoryInterface
}

func (failingConfigurations) Update(context.Context, *models.Configuration) error {
	return errors.Wrap(models.ErrStorageUnavailable, "connection reset")
}

func TestCreateBookingIsAtomic(t *testing.T) {
	store := &faultyStore{Store: memory.NewStore()}
	f := newFixtureWithStore(t, store)
	cfg := f.saveConfiguration(f.request(pick(f.hood)))

	store.armed = true
	_, err := f.bookings.CreateBooking(f.ctx, f.bookingRequest(&cfg.ID))
	assert.ErrorIs(t, err, models.ErrStorageUnavailable)
	store.armed = false

	list, err := f.bookings.ListBookings(f.ctx, &f.customer, nil)
	require.NoError(t, err)
	assert.Empty(t, list)

	stored, err := f.configs.GetConfiguration(f.ctx, cfg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConfigurationSaved, stored.BookingStatus)
	assert.Equal(t, 1, stored.Revision)
	assert.Equal(t, []string{"ConfigurationSaved"}, f.dispatcher.types())
}

func TestBookingStatusCommandIsAtomic(t *testing.T) {
	store := &faultyStore{Store: memory.NewStore()}
	f := newFixtureWithStore(t, store)
	booking := f.book(f.saveConfiguration(f.request(pick(f.hood))))

	store.armed = true
	_, err := f.bookings.ApplyBookingCommand(f.ctx, booking.ID, models.SetBookingStatus{Status: models.BookingConfirmed})
	assert.ErrorIs(t, err, models.ErrStorageUnavailable)
	store.armed = false

	stored, err := f.bookings.GetBooking(f.ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, stored.BookingStatus)
}

func TestCreateBookingValidation(t *testing.T) {
	f := newFixture(t)
	cfg := f.saveConfiguration(f.request(pick(f.hood)))

	tests := []struct {
		name    string
		mutate  func(req *models.CreateBookingRequest)
		wantErr error
	}{
		{"missing customer", func(req *models.CreateBookingRequest) { req.CustomerID = uuid.Nil }, models.ErrValidation},
		{"missing time slot", func(req *models.CreateBookingRequest) { req.TimeSlot = time.Time{} }, models.ErrValidation},
		{"time slot in the past", func(req *models.CreateBookingRequest) { req.TimeSlot = time.Now().Add(-time.Hour) }, models.ErrValidation},
		{"missing address", func(req *models.CreateBookingRequest) { req.ShippingAddress = "  " }, models.ErrValidation},
		{"unknown configuration", func(req *models.CreateBookingRequest) {
			id := uuid.New()
			req.ConfigurationID = &id
		}, models.ErrValidation},
		{"configuration of another customer", func(req *models.CreateBookingRequest) { req.CustomerID = uuid.New() }, models.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.bookingRequest(&cfg.ID)
			tt.mutate(req)
			_, err := f.bookings.CreateBooking(f.ctx, req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBookingAConfigurationTwiceFails(t *testing.T) {
	f := newFixture(t)
	cfg := f.saveConfiguration(f.request(pick(f.hood)))
	f.book(cfg)

	_, err := f.bookings.CreateBooking(f.ctx, f.bookingRequest(&cfg.ID))
	assert.ErrorIs(t, err, models.ErrInvalidState)
}

func TestStandaloneBooking(t *testing.T) {
	f := newFixture(t)

	req := f.bookingRequest(nil)
	_, err := f.bookings.CreateBooking(f.ctx, req)
	assert.ErrorIs(t, err, models.ErrValidation)

	req.Vehicle = models.BookingVehicle{Make: "Nissan", Model: "Skyline", Year: 1999}
	booking, err := f.bookings.CreateBooking(f.ctx, req)
	require.NoError(t, err)
	assert.Nil(t, booking.ConfigurationID)
	assert.Equal(t, "Skyline", booking.Model)
	assert.Equal(t, models.BookingPending, booking.BookingStatus)

	booking, err = f.bookings.ApplyBookingCommand(f.ctx, booking.ID, models.SetBookingStatus{Status: models.BookingConfirmed})
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, booking.BookingStatus)
}

func TestBookingPaymentCommands(t *testing.T) {
	f := newFixture(t)
	booking := f.book(f.saveConfiguration(f.request(pick(f.hood))))

	_, err := f.bookings.ApplyBookingCommand(f.ctx, booking.ID, models.SetPaymentStatus{Status: models.PaymentPaid})
	assert.ErrorIs(t, err, models.ErrInvalidState)

	booking, err = f.bookings.ApplyBookingCommand(f.ctx, booking.ID, models.SetPaymentMethod{Method: models.PaymentStripe})
	require.NoError(t, err)
	require.NotNil(t, booking.PaymentStatus)
	assert.Equal(t, models.PaymentPending, *booking.PaymentStatus)

	booking, err = f.bookings.ApplyBookingCommand(f.ctx, booking.ID, models.SetPaymentMethod{Method: models.PaymentCOD})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCOD, *booking.PaymentMethod)

	booking, err = f.bookings.ApplyBookingCommand(f.ctx, booking.ID, models.SetPaymentStatus{Status: models.PaymentPaid})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, *booking.PaymentStatus)

	_, err = f.bookings.ApplyBookingCommand(f.ctx, booking.ID, models.SetPaymentStatus{Status: models.PaymentFailed})
	assert.ErrorIs(t, err, models.ErrIllegalTransition)

	_, err = f.bookings.ApplyBookingCommand(f.ctx, booking.ID, models.SetPaymentMethod{Method: models.PaymentStripe})
	assert.ErrorIs(t, err, models.ErrInvalidState)

	stored, err := f.bookings.GetBooking(f.ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCOD, *stored.PaymentMethod)
	assert.Equal(t, models.PaymentPaid, *stored.PaymentStatus)
	// payment commands leave the workflow status alone
	assert.Equal(t, models.BookingPending, stored.BookingStatus)
}

func TestBookingStatusFollowsToConfiguration(t *testing.T) {
	f := newFixture(t)
	cfg := f.saveConfiguration(f.request(pick(f.hood)))
	booking := f.book(cfg)
	f.dispatcher.reset()

	_, err := f.bookings.ApplyBookingCommand(f.ctx, booking.ID, models.SetBookingStatus{Status: models.BookingCancelled})
	require.NoError(t, err)

	stored, err := f.configs.GetConfiguration(f.ctx, cfg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConfigurationCancelled, stored.BookingStatus)
	assert.Equal(t, []string{"BookingStatusChanged", "ConfigurationStatusChanged"}, f.dispatcher.types())
}

func TestListBookingsFilters(t *testing.T) {
	f := newFixture(t)
	f.book(f.saveConfiguration(f.request(pick(f.hood))))

	other := f.bookingRequest(nil)
	other.CustomerID = uuid.New()
	other.Vehicle = models.BookingVehicle{Model: "Civic", Year: 2020}
	_, err := f.bookings.CreateBooking(f.ctx, other)
	require.NoError(t, err)

	all, err := f.bookings.ListBookings(f.ctx, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := f.bookings.ListBookings(f.ctx, &f.customer, nil)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Supra", mine[0].Model)

	confirmed := models.BookingConfirmed
	none, err := f.bookings.ListBookings(f.ctx, nil, &confirmed)
	require.NoError(t, err)
	assert.Empty(t, none)
}
