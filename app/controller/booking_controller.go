package controller

import (
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	"carmod-configurator/models"
	"carmod-configurator/service"
)

// BookingController handles HTTP requests for bookings
type BookingController struct {
	bookings service.BookingServiceInterface
}

// NewBookingController creates a new BookingController
func NewBookingController(bookings service.BookingServiceInterface) *BookingController {
	return &BookingController{bookings: bookings}
}

// Create handles POST /bookings
// Example request:
// {
//   "customerId": "5d1e...",
//   "configurationId": "77ab...",
//   "timeSlot": "2026-11-02T09:00:00Z",
//   "shippingAddress": "12 Harbour Rd"
// }
func (c *BookingController) Create(w http.ResponseWriter, r *http.Request) {
	create(w, r, "CreateBooking", c.bookings.CreateBooking)
}

// List handles GET /bookings?customerId=&status=
func (c *BookingController) List(w http.ResponseWriter, r *http.Request) {
	const op = "ListBookings"
	log.Debugf("📥 %s: Received %s request to %s", op, r.Method, r.URL.String())

	customerID, err := optionalQueryID(r, "customerId")
	if err != nil {
		writeError(w, op, err)
		return
	}
	var status *models.BookingStatus
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		parsed, err := models.ParseBookingStatus(raw)
		if err != nil {
			writeError(w, op, err)
			return
		}
		status = &parsed
	}

	bookings, err := c.bookings.ListBookings(r.Context(), customerID, status)
	if err != nil {
		writeError(w, op, err)
		return
	}
	writeJSON(w, op, http.StatusOK, bookings)
}

func (c *BookingController) Get(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, "GetBooking", c.bookings.GetBooking)
}

// Update handles PUT /bookings/{id}
// Example request: {"field": "bookingStatus", "value": "confirmed"}
// field is one of bookingStatus, paymentMethod, paymentStatus.
func (c *BookingController) Update(w http.ResponseWriter, r *http.Request) {
	const op = "UpdateBooking"
	log.Infof("📥 %s: Received %s request to %s", op, r.Method, r.URL.Path)

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, op, err)
		return
	}
	var req models.UpdateBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, op, err)
		return
	}
	cmd, err := models.ParseBookingCommand(req.Field, req.Value)
	if err != nil {
		writeError(w, op, err)
		return
	}

	booking, err := c.bookings.ApplyBookingCommand(r.Context(), id, cmd)
	if err != nil {
		writeError(w, op, err)
		return
	}
	log.Infof("✅ %s: booking=%s field=%s", op, id, req.Field)
	writeJSON(w, op, http.StatusOK, booking)
}
