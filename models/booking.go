package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// BookingStatus represents the current state of a booking in its lifecycle
type BookingStatus string

const (
	BookingSaved     BookingStatus = "saved"
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// bookingTransitions is one-way; a confirmed booking leaves only through the
// refund path, which is handled elsewhere.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingSaved:     {BookingPending, BookingCancelled},
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {},
	BookingCancelled: {},
}

func (s BookingStatus) IsValid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

// ConfigurationStatus maps the booking status onto the linked configuration's status.
func (s BookingStatus) ConfigurationStatus() ConfigurationStatus {
	return ConfigurationStatus(s)
}

func ParseBookingStatus(raw string) (BookingStatus, error) {
	status := BookingStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !status.IsValid() {
		return "", errors.Wrapf(ErrValidation, "invalid booking status %q", raw)
	}
	return status, nil
}

// PaymentMethod is how a booking is paid
type PaymentMethod string

const (
	PaymentStripe PaymentMethod = "stripe"
	PaymentCOD    PaymentMethod = "cod"
)

func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	switch method := PaymentMethod(strings.ToLower(strings.TrimSpace(raw))); method {
	case PaymentStripe, PaymentCOD:
		return method, nil
	default:
		return "", errors.Wrapf(ErrValidation, "invalid payment method %q", raw)
	}
}

// PaymentStatus is the booking payment sub-state
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	switch status := PaymentStatus(strings.ToLower(strings.TrimSpace(raw))); status {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return status, nil
	default:
		return "", errors.Wrapf(ErrValidation, "invalid payment status %q", raw)
	}
}

// Booking is a scheduled modification appointment
type Booking struct {
	ID              uuid.UUID      `json:"id"`
	CustomerID      uuid.UUID      `json:"customerId"`
	ConfigurationID *uuid.UUID     `json:"configurationId,omitempty"`
	Make            string         `json:"make,omitempty"`
	Model           string         `json:"model"`
	Year            int            `json:"year"`
	TimeSlot        time.Time      `json:"timeSlot"`
	ShippingAddress string         `json:"shippingAddress"`
	BookingDate     time.Time      `json:"bookingDate"`
	BookingStatus   BookingStatus  `json:"bookingStatus"`
	PaymentMethod   *PaymentMethod `json:"paymentMethod"`
	PaymentStatus   *PaymentStatus `json:"paymentStatus"`
	Notes           string         `json:"notes,omitempty"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// BookingVehicle describes the vehicle of a standalone booking
type BookingVehicle struct {
	Make  string `json:"make,omitempty"`
	Model string `json:"model"`
	Year  int    `json:"year"`
}

// CreateBookingRequest represents the request body for POST /bookings
// Example: {
//   "customerId": "5d1e...",
//   "configurationId": "77ab...",
//   "vehicle": {"model": "Supra", "year": 2022},
//   "timeSlot": "2026-11-02T09:00:00Z",
//   "shippingAddress": "12 Harbour Rd"
// }
// vehicle may be omitted when configurationId is set.
type CreateBookingRequest struct {
	CustomerID      uuid.UUID      `json:"customerId"`
	ConfigurationID *uuid.UUID     `json:"configurationId,omitempty"`
	Vehicle         BookingVehicle `json:"vehicle"`
	TimeSlot        time.Time      `json:"timeSlot"`
	ShippingAddress string         `json:"shippingAddress"`
	Notes           string         `json:"notes,omitempty"`
}

// UpdateBookingRequest is the single-field update body of PUT /bookings/{id}
// Example: {"field": "bookingStatus", "value": "confirmed"}
type UpdateBookingRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// BookingCommand is one of the staff actions allowed on a booking.
type BookingCommand interface {
	Name() string
	Apply(b *Booking) error
}

// SetBookingStatus moves the booking through its status workflow
type SetBookingStatus struct {
	Status BookingStatus
}

func (c SetBookingStatus) Name() string { return "SetBookingStatus" }

func (c SetBookingStatus) Apply(b *Booking) error {
	if !b.BookingStatus.CanTransitionTo(c.Status) {
		return errors.Wrapf(ErrIllegalTransition, "booking %s cannot move from %s to %s", b.ID, b.BookingStatus, c.Status)
	}
	b.BookingStatus = c.Status
	return nil
}

// SetPaymentMethod records how the booking will be paid
type SetPaymentMethod struct {
	Method PaymentMethod
}

func (c SetPaymentMethod) Name() string { return "SetPaymentMethod" }

func (c SetPaymentMethod) Apply(b *Booking) error {
	if b.PaymentStatus != nil && *b.PaymentStatus == PaymentPaid {
		return errors.Wrapf(ErrInvalidState, "booking %s is already paid", b.ID)
	}
	method := c.Method
	b.PaymentMethod = &method
	if b.PaymentStatus == nil {
		status := PaymentPending
		b.PaymentStatus = &status
	}
	return nil
}

// SetPaymentStatus records the payment outcome reported by the gateway
type SetPaymentStatus struct {
	Status PaymentStatus
}

func (c SetPaymentStatus) Name() string { return "SetPaymentStatus" }

func (c SetPaymentStatus) Apply(b *Booking) error {
	if b.PaymentMethod == nil {
		return errors.Wrapf(ErrInvalidState, "booking %s has no payment method", b.ID)
	}
	if b.PaymentStatus != nil && *b.PaymentStatus == PaymentPaid && c.Status != PaymentPaid {
		return errors.Wrapf(ErrIllegalTransition, "booking %s payment is already paid", b.ID)
	}
	status := c.Status
	b.PaymentStatus = &status
	return nil
}

// ParseBookingCommand turns a {field, value} pair into a command. Fields that
// are not staff-settable are rejected.
func ParseBookingCommand(field, value string) (BookingCommand, error) {
	switch strings.TrimSpace(field) {
	case "bookingStatus":
		status, err := ParseBookingStatus(value)
		if err != nil {
			return nil, err
		}
		return SetBookingStatus{Status: status}, nil
	case "paymentMethod":
		method, err := ParsePaymentMethod(value)
		if err != nil {
			return nil, err
		}
		return SetPaymentMethod{Method: method}, nil
	case "paymentStatus":
		status, err := ParsePaymentStatus(value)
		if err != nil {
			return nil, err
		}
		return SetPaymentStatus{Status: status}, nil
	default:
		return nil, errors.Wrapf(ErrValidation, "field %q cannot be updated", field)
	}
}
