package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"

	"carmod-configurator/models"
	"carmod-configurator/utils"
)

// CompatibilityRepository handles database operations for compatibility rows
type CompatibilityRepository struct {
	q sqlx.ExtContext
}

func NewCompatibilityRepository(q sqlx.ExtContext) *CompatibilityRepository {
	return &CompatibilityRepository{q: q}
}

var _ CompatibilityRepositoryInterface = (*CompatibilityRepository)(nil)

type compatibilityRow struct {
	ID        uuid.UUID `db:"id"`
	ProductID uuid.UUID `db:"product_id"`
	MakeID    uuid.UUID `db:"make_id"`
	ModelID   uuid.UUID `db:"model_id"`
	CreatedAt time.Time `db:"created_at"`
}

type compatibilityYearRow struct {
	CompatibilityID uuid.UUID `db:"compatibility_id"`
	YearID          uuid.UUID `db:"year_id"`
}

// Insert stores the row and its year set. Call it inside a transaction.
func (r *CompatibilityRepository) Insert(ctx context.Context, c *models.Compatibility) error {
	query := `INSERT INTO compatibilities (id, product_id, make_id, model_id, created_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.q.ExecContext(ctx, query, c.ID, c.ProductID, c.MakeID, c.ModelID, c.CreatedAt); err != nil {
		log.Errorf("❌ Insert: Error inserting compatibility for product %s: %v", c.ProductID, err)
		return translateError(err, "Insert", "compatibility", c.ID)
	}

	yearQuery := `INSERT INTO compatibility_years (compatibility_id, year_id) VALUES ($1, $2)`
	for _, yearID := range c.YearIDs {
		if _, err := r.q.ExecContext(ctx, yearQuery, c.ID, yearID); err != nil {
			return translateError(err, "Insert", "compatibility", c.ID)
		}
	}
	return nil
}

func (r *CompatibilityRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Compatibility, error) {
	var row compatibilityRow
	query := `SELECT id, product_id, make_id, model_id, created_at FROM compatibilities WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.q, &row, query, id); err != nil {
		return nil, translateError(err, "GetByID", "compatibility", id)
	}
	result, err := r.withYears(ctx, []compatibilityRow{row})
	if err != nil {
		return nil, err
	}
	return &result[0], nil
}

func (r *CompatibilityRepository) List(ctx context.Context, filter CompatibilityFilter) ([]models.Compatibility, error) {
	where, args := compatibilityWhere(filter)
	query := `SELECT c.id, c.product_id, c.make_id, c.model_id, c.created_at FROM compatibilities c` + where + ` ORDER BY c.created_at, c.id`

	var rows []compatibilityRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, translateError(err, "List", "compatibilities", "*")
	}
	return r.withYears(ctx, rows)
}

func (r *CompatibilityRepository) Count(ctx context.Context, filter CompatibilityFilter) (int, error) {
	where, args := compatibilityWhere(filter)
	var n int
	if err := sqlx.GetContext(ctx, r.q, &n, `SELECT COUNT(*) FROM compatibilities c`+where, args...); err != nil {
		return 0, translateError(err, "Count", "compatibilities", "*")
	}
	return n, nil
}

func (r *CompatibilityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM compatibilities WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "Delete", "compatibility", id)
	}
	return expectOneRow(res, "Delete", "compatibility", id)
}

func compatibilityWhere(filter CompatibilityFilter) (string, []any) {
	// Build WHERE conditions dynamically
	var conditions []string
	var args []any
	argIndex := 1

	if filter.ProductID != nil {
		conditions = append(conditions, fmt.Sprintf("c.product_id = $%d", argIndex))
		args = append(args, *filter.ProductID)
		argIndex++
	}
	if filter.MakeID != nil {
		conditions = append(conditions, fmt.Sprintf("c.make_id = $%d", argIndex))
		args = append(args, *filter.MakeID)
		argIndex++
	}
	if filter.ModelID != nil {
		conditions = append(conditions, fmt.Sprintf("c.model_id = $%d", argIndex))
		args = append(args, *filter.ModelID)
		argIndex++
	}
	if filter.YearID != nil {
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM compatibility_years cy WHERE cy.compatibility_id = c.id AND cy.year_id = $%d)", argIndex))
		args = append(args, *filter.YearID)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *CompatibilityRepository) withYears(ctx context.Context, rows []compatibilityRow) ([]models.Compatibility, error) {
	result := make([]models.Compatibility, 0, len(rows))
	if len(rows) == 0 {
		return result, nil
	}

	index := make(map[uuid.UUID]int, len(rows))
	ids := make([]uuid.UUID, 0, len(rows))
	for i, row := range rows {
		index[row.ID] = i
		ids = append(ids, row.ID)
		result = append(result, models.Compatibility{
			ID:        row.ID,
			ProductID: row.ProductID,
			MakeID:    row.MakeID,
			ModelID:   row.ModelID,
			YearIDs:   []uuid.UUID{},
			CreatedAt: row.CreatedAt,
		})
	}

	var yearRows []compatibilityYearRow
	query := `
		SELECT cy.compatibility_id, cy.year_id
		FROM compatibility_years cy
		INNER JOIN vehicle_years y ON y.id = cy.year_id
		WHERE cy.compatibility_id = ANY($1::uuid[])
		ORDER BY y.year
	`
	if err := sqlx.SelectContext(ctx, r.q, &yearRows, query, utils.IDStrings(ids)); err != nil {
		return nil, translateError(err, "withYears", "compatibilities", ids)
	}
	for _, yr := range yearRows {
		c := &result[index[yr.CompatibilityID]]
		c.YearIDs = append(c.YearIDs, yr.YearID)
	}
	return result, nil
}
