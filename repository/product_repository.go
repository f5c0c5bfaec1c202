package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"carmod-configurator/models"
	"carmod-configurator/utils"
)

// ProductRepository handles database operations for products
type ProductRepository struct {
	q sqlx.ExtContext
}

func NewProductRepository(q sqlx.ExtContext) *ProductRepository {
	return &ProductRepository{q: q}
}

var _ ProductRepositoryInterface = (*ProductRepository)(nil)

type productRow struct {
	ID          uuid.UUID       `db:"id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Image       string          `db:"image"`
	Price       decimal.Decimal `db:"price"`
	CreatedAt   time.Time       `db:"created_at"`
}

func toProducts(rows []productRow) []models.Product {
	out := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.Product(row))
	}
	return out
}

const productColumns = `id, name, description, image, price, created_at`

func (r *ProductRepository) Insert(ctx context.Context, p *models.Product) error {
	query := `INSERT INTO products (` + productColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.q.ExecContext(ctx, query, p.ID, p.Name, p.Description, p.Image, p.Price, p.CreatedAt); err != nil {
		log.Errorf("❌ Insert: Error inserting product %s: %v", p.Name, err)
		return translateError(err, "Insert", "product", p.ID)
	}
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var row productRow
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.q, &row, query, id); err != nil {
		return nil, translateError(err, "GetByID", "product", id)
	}
	p := models.Product(row)
	return &p, nil
}

func (r *ProductRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var rows []productRow
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1::uuid[]) ORDER BY name, id`
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, utils.IDStrings(ids)); err != nil {
		return nil, translateError(err, "GetByIDs", "products", ids)
	}
	return toProducts(rows), nil
}

func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	var rows []productRow
	query := `SELECT ` + productColumns + ` FROM products ORDER BY name, id`
	if err := sqlx.SelectContext(ctx, r.q, &rows, query); err != nil {
		return nil, translateError(err, "List", "products", "*")
	}
	return toProducts(rows), nil
}

func (r *ProductRepository) UpdatePrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) error {
	res, err := r.q.ExecContext(ctx, `UPDATE products SET price = $1 WHERE id = $2`, price, id)
	if err != nil {
		return translateError(err, "UpdatePrice", "product", id)
	}
	return expectOneRow(res, "UpdatePrice", "product", id)
}

func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "Delete", "product", id)
	}
	return expectOneRow(res, "Delete", "product", id)
}
