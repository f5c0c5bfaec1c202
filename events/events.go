package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"carmod-configurator/models"
)

// Aggregate names; also the suffix of the kafka topic an event goes to
const (
	AggregateConfiguration = "configuration"
	AggregateBooking       = "booking"
	AggregateOrder         = "order"
)

// Event is a domain fact published after a successful commit
type Event interface {
	Type() string
	Aggregate() string
	AggregateID() uuid.UUID
}

// Dispatcher delivers events to whoever listens (email collaborator, audit log).
type Dispatcher interface {
	Dispatch(ctx context.Context, event Event) error
}

type ConfigurationSaved struct {
	ConfigurationID uuid.UUID       `json:"configurationId"`
	CustomerID      uuid.UUID       `json:"customerId"`
	Revision        int             `json:"revision"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
}

func (e ConfigurationSaved) Type() string           { return "ConfigurationSaved" }
func (e ConfigurationSaved) Aggregate() string      { return AggregateConfiguration }
func (e ConfigurationSaved) AggregateID() uuid.UUID { return e.ConfigurationID }

type ConfigurationStatusChanged struct {
	ConfigurationID uuid.UUID                  `json:"configurationId"`
	CustomerID      uuid.UUID                  `json:"customerId"`
	From            models.ConfigurationStatus `json:"from"`
	To              models.ConfigurationStatus `json:"to"`
}

func (e ConfigurationStatusChanged) Type() string           { return "ConfigurationStatusChanged" }
func (e ConfigurationStatusChanged) Aggregate() string      { return AggregateConfiguration }
func (e ConfigurationStatusChanged) AggregateID() uuid.UUID { return e.ConfigurationID }

type BookingCreated struct {
	BookingID       uuid.UUID  `json:"bookingId"`
	CustomerID      uuid.UUID  `json:"customerId"`
	ConfigurationID *uuid.UUID `json:"configurationId,omitempty"`
	TimeSlot        time.Time  `json:"timeSlot"`
}

func (e BookingCreated) Type() string           { return "BookingCreated" }
func (e BookingCreated) Aggregate() string      { return AggregateBooking }
func (e BookingCreated) AggregateID() uuid.UUID { return e.BookingID }

type BookingStatusChanged struct {
	BookingID  uuid.UUID            `json:"bookingId"`
	CustomerID uuid.UUID            `json:"customerId"`
	From       models.BookingStatus `json:"from"`
	To         models.BookingStatus `json:"to"`
}

func (e BookingStatusChanged) Type() string           { return "BookingStatusChanged" }
func (e BookingStatusChanged) Aggregate() string      { return AggregateBooking }
func (e BookingStatusChanged) AggregateID() uuid.UUID { return e.BookingID }

type BookingPaymentUpdated struct {
	BookingID     uuid.UUID             `json:"bookingId"`
	CustomerID    uuid.UUID             `json:"customerId"`
	PaymentMethod *models.PaymentMethod `json:"paymentMethod"`
	PaymentStatus *models.PaymentStatus `json:"paymentStatus"`
}

func (e BookingPaymentUpdated) Type() string           { return "BookingPaymentUpdated" }
func (e BookingPaymentUpdated) Aggregate() string      { return AggregateBooking }
func (e BookingPaymentUpdated) AggregateID() uuid.UUID { return e.BookingID }

type OrderCreated struct {
	OrderID     uuid.UUID       `json:"orderId"`
	CustomerID  uuid.UUID       `json:"customerId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

func (e OrderCreated) Type() string           { return "OrderCreated" }
func (e OrderCreated) Aggregate() string      { return AggregateOrder }
func (e OrderCreated) AggregateID() uuid.UUID { return e.OrderID }

type OrderStatusChanged struct {
	OrderID    uuid.UUID          `json:"orderId"`
	CustomerID uuid.UUID          `json:"customerId"`
	From       models.OrderStatus `json:"from"`
	To         models.OrderStatus `json:"to"`
}

func (e OrderStatusChanged) Type() string           { return "OrderStatusChanged" }
func (e OrderStatusChanged) Aggregate() string      { return AggregateOrder }
func (e OrderStatusChanged) AggregateID() uuid.UUID { return e.OrderID }

type OrderPaymentStatusChanged struct {
	OrderID    uuid.UUID                 `json:"orderId"`
	CustomerID uuid.UUID                 `json:"customerId"`
	From       models.OrderPaymentStatus `json:"from"`
	To         models.OrderPaymentStatus `json:"to"`
}

func (e OrderPaymentStatusChanged) Type() string           { return "OrderPaymentStatusChanged" }
func (e OrderPaymentStatusChanged) Aggregate() string      { return AggregateOrder }
func (e OrderPaymentStatusChanged) AggregateID() uuid.UUID { return e.OrderID }

// Envelope is the wire form of an event
type Envelope struct {
	Type        string    `json:"type"`
	AggregateID uuid.UUID `json:"aggregateId"`
	OccurredAt  time.Time `json:"occurredAt"`
	Payload     Event     `json:"payload"`
}

func NewEnvelope(event Event, now time.Time) Envelope {
	return Envelope{
		Type:        event.Type(),
		AggregateID: event.AggregateID(),
		OccurredAt:  now.UTC(),
		Payload:     event,
	}
}
