package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"

	"carmod-configurator/models"
	"carmod-configurator/utils"
)

// MakeRepository handles database operations for makes
type MakeRepository struct {
	q sqlx.ExtContext
}

// NewMakeRepository creates a new MakeRepository
func NewMakeRepository(q sqlx.ExtContext) *MakeRepository {
	return &MakeRepository{q: q}
}

// Ensure MakeRepository implements MakeRepositoryInterface
var _ MakeRepositoryInterface = (*MakeRepository)(nil)

type makeRow struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

func (r makeRow) toModel() models.Make {
	return models.Make{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt}
}

func (r *MakeRepository) Insert(ctx context.Context, m *models.Make) error {
	query := `INSERT INTO makes (id, name, name_key, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.q.ExecContext(ctx, query, m.ID, m.Name, utils.NameKey(m.Name), m.CreatedAt); err != nil {
		log.Errorf("❌ Insert: Error inserting make %s: %v", m.Name, err)
		return translateError(err, "Insert", "make", m.ID)
	}
	return nil
}

func (r *MakeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Make, error) {
	var row makeRow
	query := `SELECT id, name, created_at FROM makes WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.q, &row, query, id); err != nil {
		return nil, translateError(err, "GetByID", "make", id)
	}
	m := row.toModel()
	return &m, nil
}

func (r *MakeRepository) List(ctx context.Context) ([]models.Make, error) {
	var rows []makeRow
	query := `SELECT id, name, created_at FROM makes ORDER BY name`
	if err := sqlx.SelectContext(ctx, r.q, &rows, query); err != nil {
		return nil, translateError(err, "List", "makes", "*")
	}
	makes := make([]models.Make, 0, len(rows))
	for _, row := range rows {
		makes = append(makes, row.toModel())
	}
	return makes, nil
}

func (r *MakeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM makes WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "Delete", "make", id)
	}
	return expectOneRow(res, "Delete", "make", id)
}
