package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"carmod-configurator/events"
	"carmod-configurator/models"
	"carmod-configurator/repository"
)

// BookingService schedules modification appointments and runs staff commands on them.
// Implements BookingServiceInterface
type BookingService struct {
	store      repository.Store
	dispatcher events.Dispatcher
	timeout    time.Duration
	now        func() time.Time
}

// NewBookingService creates a new BookingService
func NewBookingService(store repository.Store, dispatcher events.Dispatcher, timeout time.Duration) *BookingService {
	return &BookingService{
		store:      store,
		dispatcher: dispatcher,
		timeout:    timeout,
		now:        utcNow,
	}
}

var _ BookingServiceInterface = (*BookingService)(nil)

// CreateBooking writes the booking and, when linked, moves the configuration
// from saved to pending. Both writes commit together or not at all.
func (s *BookingService) CreateBooking(ctx context.Context, req *models.CreateBookingRequest) (*models.Booking, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	log.Infof("📦 CreateBooking: customer=%s configuration=%v slot=%s", req.CustomerID, req.ConfigurationID, req.TimeSlot.Format(time.RFC3339))

	if err := requireID(req.CustomerID, "customerId"); err != nil {
		return nil, err
	}
	now := s.now()
	if req.TimeSlot.IsZero() {
		return nil, errors.Wrap(models.ErrValidation, "timeSlot is required")
	}
	if req.TimeSlot.Before(now) {
		return nil, errors.Wrapf(models.ErrValidation, "timeSlot %s is in the past", req.TimeSlot.Format(time.RFC3339))
	}
	address := strings.TrimSpace(req.ShippingAddress)
	if address == "" {
		return nil, errors.Wrap(models.ErrValidation, "shippingAddress is required")
	}

	booking := &models.Booking{
		ID:              uuid.New(),
		CustomerID:      req.CustomerID,
		ConfigurationID: req.ConfigurationID,
		Make:            strings.TrimSpace(req.Vehicle.Make),
		Model:           strings.TrimSpace(req.Vehicle.Model),
		Year:            req.Vehicle.Year,
		TimeSlot:        req.TimeSlot.UTC(),
		ShippingAddress: address,
		BookingDate:     now,
		BookingStatus:   models.BookingPending,
		Notes:           strings.TrimSpace(req.Notes),
		UpdatedAt:       now,
	}

	var cfg *models.Configuration
	err := s.store.RunInTx(ctx, func(repos *repository.Repositories) error {
		if req.ConfigurationID == nil {
			if booking.Model == "" || booking.Year == 0 {
				return errors.Wrap(models.ErrValidation, "vehicle model and year are required without a configuration")
			}
			return repos.Bookings.Insert(ctx, booking)
		}

		var err error
		if cfg, err = repos.Configurations.GetByIDForUpdate(ctx, *req.ConfigurationID); err != nil {
			return referenced(err, "configuration", *req.ConfigurationID)
		}
		if err := checkOwner(cfg, req.CustomerID); err != nil {
			return err
		}
		if cfg.BookingStatus != models.ConfigurationSaved {
			return errors.Wrapf(models.ErrInvalidState, "configuration %s is %s, only saved configurations can be booked", cfg.ID, cfg.BookingStatus)
		}
		if err := fillVehicle(ctx, repos, booking, cfg); err != nil {
			return err
		}

		if err := repos.Bookings.Insert(ctx, booking); err != nil {
			return err
		}
		cfg.BookingStatus = models.ConfigurationPending
		cfg.Revision++
		cfg.UpdatedAt = now
		return repos.Configurations.Update(ctx, cfg)
	})
	if err != nil {
		log.Errorf("❌ CreateBooking: Error creating booking for customer %s: %v", req.CustomerID, err)
		return nil, err
	}

	log.Infof("✅ CreateBooking: Successfully created booking id=%s", booking.ID)
	evts := []events.Event{events.BookingCreated{
		BookingID:       booking.ID,
		CustomerID:      booking.CustomerID,
		ConfigurationID: booking.ConfigurationID,
		TimeSlot:        booking.TimeSlot,
	}}
	if cfg != nil {
		evts = append(evts, events.ConfigurationStatusChanged{
			ConfigurationID: cfg.ID,
			CustomerID:      cfg.CustomerID,
			From:            models.ConfigurationSaved,
			To:              models.ConfigurationPending,
		})
	}
	events.Publish(ctx, s.dispatcher, evts...)
	return booking, nil
}

// fillVehicle copies make, model and year from the configuration's catalog
// records into the fields the request left blank.
func fillVehicle(ctx context.Context, repos *repository.Repositories, b *models.Booking, cfg *models.Configuration) error {
	if b.Make == "" {
		m, err := repos.Makes.GetByID(ctx, cfg.MakeID)
		if err != nil {
			return err
		}
		b.Make = m.Name
	}
	if b.Model == "" {
		model, err := repos.Models.GetByID(ctx, cfg.ModelID)
		if err != nil {
			return err
		}
		b.Model = model.Name
	}
	if b.Year == 0 {
		year, err := repos.Years.GetByID(ctx, cfg.YearID)
		if err != nil {
			return err
		}
		b.Year = year.Year
	}
	return nil
}

// ApplyBookingCommand applies cmd to the booking. A status change is mirrored
// onto the linked configuration in the same transaction.
func (s *BookingService) ApplyBookingCommand(ctx context.Context, id uuid.UUID, cmd models.BookingCommand) (*models.Booking, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if cmd == nil {
		return nil, errors.Wrap(models.ErrValidation, "command is required")
	}
	log.Infof("📦 ApplyBookingCommand: booking=%s command=%s", id, cmd.Name())

	var (
		booking    *models.Booking
		fromStatus models.BookingStatus
		cfg        *models.Configuration
		cfgFrom    models.ConfigurationStatus
	)
	err := s.store.RunInTx(ctx, func(repos *repository.Repositories) error {
		var err error
		if booking, err = repos.Bookings.GetByIDForUpdate(ctx, id); err != nil {
			return err
		}
		fromStatus = booking.BookingStatus
		if err := cmd.Apply(booking); err != nil {
			return err
		}
		now := s.now()
		booking.UpdatedAt = now

		if change, ok := cmd.(models.SetBookingStatus); ok && booking.ConfigurationID != nil {
			if cfg, err = repos.Configurations.GetByIDForUpdate(ctx, *booking.ConfigurationID); err != nil {
				return err
			}
			cfgFrom = cfg.BookingStatus
			target := change.Status.ConfigurationStatus()
			if !cfg.BookingStatus.CanTransitionTo(target) {
				return errors.Wrapf(models.ErrIllegalTransition, "configuration %s cannot move from %s to %s", cfg.ID, cfg.BookingStatus, target)
			}
			cfg.BookingStatus = target
			cfg.Revision++
			cfg.UpdatedAt = now
			if err := repos.Configurations.Update(ctx, cfg); err != nil {
				return err
			}
		}
		return repos.Bookings.Update(ctx, booking)
	})
	if err != nil {
		log.Errorf("❌ ApplyBookingCommand: Error applying %s to booking %s: %v", cmd.Name(), id, err)
		return nil, err
	}

	log.Infof("✅ ApplyBookingCommand: booking=%s status=%s", id, booking.BookingStatus)
	var evts []events.Event
	switch cmd.(type) {
	case models.SetBookingStatus:
		evts = append(evts, events.BookingStatusChanged{
			BookingID:  booking.ID,
			CustomerID: booking.CustomerID,
			From:       fromStatus,
			To:         booking.BookingStatus,
		})
		if cfg != nil {
			evts = append(evts, events.ConfigurationStatusChanged{
				ConfigurationID: cfg.ID,
				CustomerID:      cfg.CustomerID,
				From:            cfgFrom,
				To:              cfg.BookingStatus,
			})
		}
	default:
		evts = append(evts, events.BookingPaymentUpdated{
			BookingID:     booking.ID,
			CustomerID:    booking.CustomerID,
			PaymentMethod: booking.PaymentMethod,
			PaymentStatus: booking.PaymentStatus,
		})
	}
	events.Publish(ctx, s.dispatcher, evts...)
	return booking, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	return s.store.Repositories().Bookings.GetByID(ctx, id)
}

func (s *BookingService) ListBookings(ctx context.Context, customerID *uuid.UUID, status *models.BookingStatus) ([]models.Booking, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if status != nil && !status.IsValid() {
		return nil, errors.Wrapf(models.ErrValidation, "invalid booking status %q", *status)
	}
	list, err := s.store.Repositories().Bookings.List(ctx, repository.BookingFilter{CustomerID: customerID, Status: status})
	if err != nil {
		log.Errorf("❌ ListBookings: Error listing bookings: %v", err)
		return nil, err
	}
	log.Debugf("📋 ListBookings: found=%d", len(list))
	return list, nil
}
