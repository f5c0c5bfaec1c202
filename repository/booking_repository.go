package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"

	"carmod-configurator/models"
)

// BookingRepository handles database operations for bookings
type BookingRepository struct {
	q sqlx.ExtContext
}

func NewBookingRepository(q sqlx.ExtContext) *BookingRepository {
	return &BookingRepository{q: q}
}

var _ BookingRepositoryInterface = (*BookingRepository)(nil)

type bookingRow struct {
	ID              uuid.UUID      `db:"id"`
	CustomerID      uuid.UUID      `db:"customer_id"`
	ConfigurationID uuid.NullUUID  `db:"configuration_id"`
	Make            string         `db:"make"`
	Model           string         `db:"model"`
	Year            int            `db:"year"`
	TimeSlot        time.Time      `db:"time_slot"`
	ShippingAddress string         `db:"shipping_address"`
	BookingDate     time.Time      `db:"booking_date"`
	BookingStatus   string         `db:"booking_status"`
	PaymentMethod   sql.NullString `db:"payment_method"`
	PaymentStatus   sql.NullString `db:"payment_status"`
	Notes           string         `db:"notes"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

func (r bookingRow) toModel() models.Booking {
	b := models.Booking{
		ID:              r.ID,
		CustomerID:      r.CustomerID,
		Make:            r.Make,
		Model:           r.Model,
		Year:            r.Year,
		TimeSlot:        r.TimeSlot,
		ShippingAddress: r.ShippingAddress,
		BookingDate:     r.BookingDate,
		BookingStatus:   models.BookingStatus(r.BookingStatus),
		Notes:           r.Notes,
		UpdatedAt:       r.UpdatedAt,
	}
	if r.ConfigurationID.Valid {
		id := r.ConfigurationID.UUID
		b.ConfigurationID = &id
	}
	if r.PaymentMethod.Valid {
		method := models.PaymentMethod(r.PaymentMethod.String)
		b.PaymentMethod = &method
	}
	if r.PaymentStatus.Valid {
		status := models.PaymentStatus(r.PaymentStatus.String)
		b.PaymentStatus = &status
	}
	return b
}

func bookingNulls(b *models.Booking) (uuid.NullUUID, sql.NullString, sql.NullString) {
	var configID uuid.NullUUID
	if b.ConfigurationID != nil {
		configID = uuid.NullUUID{UUID: *b.ConfigurationID, Valid: true}
	}
	var method, status sql.NullString
	if b.PaymentMethod != nil {
		method = sql.NullString{String: string(*b.PaymentMethod), Valid: true}
	}
	if b.PaymentStatus != nil {
		status = sql.NullString{String: string(*b.PaymentStatus), Valid: true}
	}
	return configID, method, status
}

const bookingColumns = `id, customer_id, configuration_id, make, model, year, time_slot, shipping_address,
	booking_date, booking_status, payment_method, payment_status, notes, updated_at`

func (r *BookingRepository) Insert(ctx context.Context, b *models.Booking) error {
	log.Debugf("📦 Insert: Inserting booking %s for customer %s", b.ID, b.CustomerID)

	configID, method, status := bookingNulls(b)
	query := `INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.ExecContext(ctx, query, b.ID, b.CustomerID, configID, b.Make, b.Model, b.Year,
		b.TimeSlot, b.ShippingAddress, b.BookingDate, string(b.BookingStatus), method, status, b.Notes, b.UpdatedAt)
	if err != nil {
		log.Errorf("❌ Insert: Error inserting booking %s: %v", b.ID, err)
		return translateError(err, "Insert", "booking", b.ID)
	}
	return nil
}

// Update writes the mutable booking state
func (r *BookingRepository) Update(ctx context.Context, b *models.Booking) error {
	_, method, status := bookingNulls(b)
	query := `
		UPDATE bookings
		SET booking_status = $1, payment_method = $2, payment_status = $3, notes = $4, updated_at = $5
		WHERE id = $6
	`
	res, err := r.q.ExecContext(ctx, query, string(b.BookingStatus), method, status, b.Notes, b.UpdatedAt, b.ID)
	if err != nil {
		log.Errorf("❌ Update: Error updating booking %s: %v", b.ID, err)
		return translateError(err, "Update", "booking", b.ID)
	}
	return expectOneRow(res, "Update", "booking", b.ID)
}

func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return r.get(ctx, "GetByID", id, "")
}

func (r *BookingRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return r.get(ctx, "GetByIDForUpdate", id, " FOR UPDATE")
}

func (r *BookingRepository) get(ctx context.Context, op string, id uuid.UUID, lock string) (*models.Booking, error) {
	var row bookingRow
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1` + lock
	if err := sqlx.GetContext(ctx, r.q, &row, query, id); err != nil {
		return nil, translateError(err, op, "booking", id)
	}
	b := row.toModel()
	return &b, nil
}

func (r *BookingRepository) List(ctx context.Context, filter BookingFilter) ([]models.Booking, error) {
	var conditions []string
	var args []any
	argIndex := 1

	if filter.CustomerID != nil {
		conditions = append(conditions, fmt.Sprintf("customer_id = $%d", argIndex))
		args = append(args, *filter.CustomerID)
		argIndex++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("booking_status = $%d", argIndex))
		args = append(args, string(*filter.Status))
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY booking_date DESC, id"

	var rows []bookingRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, translateError(err, "List", "bookings", "*")
	}
	bookings := make([]models.Booking, 0, len(rows))
	for _, row := range rows {
		bookings = append(bookings, row.toModel())
	}
	return bookings, nil
}

func (r *BookingRepository) CountByConfiguration(ctx context.Context, configurationID uuid.UUID) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM bookings WHERE configuration_id = $1`
	if err := sqlx.GetContext(ctx, r.q, &n, query, configurationID); err != nil {
		return 0, translateError(err, "CountByConfiguration", "configuration", configurationID)
	}
	return n, nil
}
