package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"carmod-configurator/models"
	"carmod-configurator/utils"
)

// PackageRepository handles database operations for packages
type PackageRepository struct {
	q sqlx.ExtContext
}

func NewPackageRepository(q sqlx.ExtContext) *PackageRepository {
	return &PackageRepository{q: q}
}

var _ PackageRepositoryInterface = (*PackageRepository)(nil)

type packageRow struct {
	ID        uuid.UUID       `db:"id"`
	Title     string          `db:"title"`
	Image     string          `db:"image"`
	Price     decimal.Decimal `db:"price"`
	CreatedAt time.Time       `db:"created_at"`
}

func toPackages(rows []packageRow) []models.Package {
	out := make([]models.Package, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.Package(row))
	}
	return out
}

const packageColumns = `id, title, image, price, created_at`

func (r *PackageRepository) Insert(ctx context.Context, p *models.Package) error {
	query := `INSERT INTO packages (` + packageColumns + `) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.q.ExecContext(ctx, query, p.ID, p.Title, p.Image, p.Price, p.CreatedAt); err != nil {
		return translateError(err, "Insert", "package", p.ID)
	}
	return nil
}

func (r *PackageRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Package, error) {
	var row packageRow
	query := `SELECT ` + packageColumns + ` FROM packages WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.q, &row, query, id); err != nil {
		return nil, translateError(err, "GetByID", "package", id)
	}
	p := models.Package(row)
	return &p, nil
}

func (r *PackageRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Package, error) {
	if len(ids) == 0 {
		return []models.Package{}, nil
	}
	var rows []packageRow
	query := `SELECT ` + packageColumns + ` FROM packages WHERE id = ANY($1::uuid[])`
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, utils.IDStrings(ids)); err != nil {
		return nil, translateError(err, "GetByIDs", "packages", ids)
	}
	return toPackages(rows), nil
}

func (r *PackageRepository) List(ctx context.Context) ([]models.Package, error) {
	var rows []packageRow
	query := `SELECT ` + packageColumns + ` FROM packages ORDER BY title, id`
	if err := sqlx.SelectContext(ctx, r.q, &rows, query); err != nil {
		return nil, translateError(err, "List", "packages", "*")
	}
	return toPackages(rows), nil
}

func (r *PackageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM packages WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "Delete", "package", id)
	}
	return expectOneRow(res, "Delete", "package", id)
}
