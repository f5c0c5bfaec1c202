package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"carmod-configurator/models"
	"carmod-configurator/utils"
)

// OrderRepository handles database operations for orders and their frozen lines
type OrderRepository struct {
	q sqlx.ExtContext
}

func NewOrderRepository(q sqlx.ExtContext) *OrderRepository {
	return &OrderRepository{q: q}
}

var _ OrderRepositoryInterface = (*OrderRepository)(nil)

type orderRow struct {
	ID              uuid.UUID       `db:"id"`
	CustomerID      uuid.UUID       `db:"customer_id"`
	TotalAmount     decimal.Decimal `db:"total_amount"`
	ShippingAddress string          `db:"shipping_address"`
	OrderDate       time.Time       `db:"order_date"`
	OrderStatus     string          `db:"order_status"`
	PaymentMethod   string          `db:"payment_method"`
	PaymentStatus   string          `db:"payment_status"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

type orderLineRow struct {
	OrderID   uuid.UUID       `db:"order_id"`
	ProductID uuid.UUID       `db:"product_id"`
	Name      string          `db:"name"`
	UnitPrice decimal.Decimal `db:"unit_price"`
	Quantity  int             `db:"quantity"`
	LineTotal decimal.Decimal `db:"line_total"`
}

const orderColumns = `o.id, o.customer_id, o.total_amount, o.shipping_address, o.order_date,
	o.order_status, o.payment_method, o.payment_status, o.updated_at`

// Insert stores the order and its lines. Call it inside a transaction.
func (r *OrderRepository) Insert(ctx context.Context, o *models.Order) error {
	log.Debugf("📦 Insert: Inserting order %s with %d lines", o.ID, len(o.Lines))

	query := `
		INSERT INTO orders (id, customer_id, total_amount, shipping_address, order_date,
			order_status, payment_method, payment_status, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.q.ExecContext(ctx, query, o.ID, o.CustomerID, o.TotalAmount, o.ShippingAddress, o.OrderDate,
		string(o.OrderStatus), string(o.PaymentMethod), string(o.PaymentStatus), o.UpdatedAt)
	if err != nil {
		log.Errorf("❌ Insert: Error inserting order %s: %v", o.ID, err)
		return translateError(err, "Insert", "order", o.ID)
	}

	lineQuery := `
		INSERT INTO order_lines (order_id, position, product_id, name, unit_price, quantity, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for pos, line := range o.Lines {
		_, err := r.q.ExecContext(ctx, lineQuery, o.ID, pos, line.ProductID, line.Name, line.UnitPrice, line.Quantity, line.LineTotal)
		if err != nil {
			log.Errorf("❌ Insert: Error inserting line %d of order %s: %v", pos, o.ID, err)
			return translateError(err, "Insert", "order", o.ID)
		}
	}
	return nil
}

func (r *OrderRepository) UpdateState(ctx context.Context, o *models.Order) error {
	query := `UPDATE orders SET order_status = $1, payment_status = $2, updated_at = $3 WHERE id = $4`
	res, err := r.q.ExecContext(ctx, query, string(o.OrderStatus), string(o.PaymentStatus), o.UpdatedAt, o.ID)
	if err != nil {
		log.Errorf("❌ UpdateState: Error updating order %s: %v", o.ID, err)
		return translateError(err, "UpdateState", "order", o.ID)
	}
	return expectOneRow(res, "UpdateState", "order", o.ID)
}

func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return r.get(ctx, "GetByID", id, "")
}

func (r *OrderRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return r.get(ctx, "GetByIDForUpdate", id, " FOR UPDATE")
}

func (r *OrderRepository) get(ctx context.Context, op string, id uuid.UUID, lock string) (*models.Order, error) {
	var row orderRow
	query := `SELECT ` + orderColumns + ` FROM orders o WHERE o.id = $1` + lock
	if err := sqlx.GetContext(ctx, r.q, &row, query, id); err != nil {
		return nil, translateError(err, op, "order", id)
	}
	result, err := r.withLines(ctx, []orderRow{row})
	if err != nil {
		return nil, err
	}
	return &result[0], nil
}

func (r *OrderRepository) List(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	var conditions []string
	var args []any
	argIndex := 1

	if filter.CustomerID != nil {
		conditions = append(conditions, fmt.Sprintf("o.customer_id = $%d", argIndex))
		args = append(args, *filter.CustomerID)
		argIndex++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("o.order_status = $%d", argIndex))
		args = append(args, string(*filter.Status))
	}

	query := `SELECT ` + orderColumns + ` FROM orders o`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY o.order_date DESC, o.id"

	var rows []orderRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, translateError(err, "List", "orders", "*")
	}
	return r.withLines(ctx, rows)
}

func (r *OrderRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int, error) {
	var n int
	query := `SELECT COUNT(DISTINCT order_id) FROM order_lines WHERE product_id = $1`
	if err := sqlx.GetContext(ctx, r.q, &n, query, productID); err != nil {
		return 0, translateError(err, "CountByProduct", "product", productID)
	}
	return n, nil
}

func (r *OrderRepository) withLines(ctx context.Context, rows []orderRow) ([]models.Order, error) {
	result := make([]models.Order, 0, len(rows))
	if len(rows) == 0 {
		return result, nil
	}

	index := make(map[uuid.UUID]int, len(rows))
	ids := make([]uuid.UUID, 0, len(rows))
	for i, row := range rows {
		index[row.ID] = i
		ids = append(ids, row.ID)
		result = append(result, models.Order{
			ID:              row.ID,
			CustomerID:      row.CustomerID,
			Lines:           []models.OrderLine{},
			TotalAmount:     row.TotalAmount,
			ShippingAddress: row.ShippingAddress,
			OrderDate:       row.OrderDate,
			OrderStatus:     models.OrderStatus(row.OrderStatus),
			PaymentMethod:   models.OrderPaymentMethod(row.PaymentMethod),
			PaymentStatus:   models.OrderPaymentStatus(row.PaymentStatus),
			UpdatedAt:       row.UpdatedAt,
		})
	}

	var lines []orderLineRow
	query := `
		SELECT order_id, product_id, name, unit_price, quantity, line_total
		FROM order_lines
		WHERE order_id = ANY($1::uuid[])
		ORDER BY order_id, position
	`
	if err := sqlx.SelectContext(ctx, r.q, &lines, query, utils.IDStrings(ids)); err != nil {
		return nil, translateError(err, "withLines", "orders", ids)
	}
	for _, line := range lines {
		o := &result[index[line.OrderID]]
		o.Lines = append(o.Lines, models.OrderLine{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			LineTotal: line.LineTotal,
		})
	}
	return result, nil
}
