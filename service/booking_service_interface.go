package service

import (
	"context"

	"github.com/google/uuid"

	"carmod-configurator/models"
)

// BookingServiceInterface defines the booking workflow
type BookingServiceInterface interface {
	// CreateBooking creates a pending booking; a linked configuration moves to pending with it
	CreateBooking(ctx context.Context, req *models.CreateBookingRequest) (*models.Booking, error)
	// ApplyBookingCommand runs one staff command against a booking
	ApplyBookingCommand(ctx context.Context, id uuid.UUID, cmd models.BookingCommand) (*models.Booking, error)
	GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	ListBookings(ctx context.Context, customerID *uuid.UUID, status *models.BookingStatus) ([]models.Booking, error)
}
