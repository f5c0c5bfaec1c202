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

// ModelRepository handles database operations for vehicle models
type ModelRepository struct {
	q sqlx.ExtContext
}

func NewModelRepository(q sqlx.ExtContext) *ModelRepository {
	return &ModelRepository{q: q}
}

var _ ModelRepositoryInterface = (*ModelRepository)(nil)

type modelRow struct {
	ID        uuid.UUID `db:"id"`
	MakeID    uuid.UUID `db:"make_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

func (r modelRow) toModel() models.VehicleModel {
	return models.VehicleModel{ID: r.ID, MakeID: r.MakeID, Name: r.Name, CreatedAt: r.CreatedAt}
}

func (r *ModelRepository) Insert(ctx context.Context, m *models.VehicleModel) error {
	query := `INSERT INTO vehicle_models (id, make_id, name, name_key, created_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.q.ExecContext(ctx, query, m.ID, m.MakeID, m.Name, utils.NameKey(m.Name), m.CreatedAt); err != nil {
		log.Errorf("❌ Insert: Error inserting model %s for make %s: %v", m.Name, m.MakeID, err)
		return translateError(err, "Insert", "model", m.ID)
	}
	return nil
}

func (r *ModelRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.VehicleModel, error) {
	var row modelRow
	query := `SELECT id, make_id, name, created_at FROM vehicle_models WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.q, &row, query, id); err != nil {
		return nil, translateError(err, "GetByID", "model", id)
	}
	m := row.toModel()
	return &m, nil
}

func (r *ModelRepository) ListByMake(ctx context.Context, makeID uuid.UUID) ([]models.VehicleModel, error) {
	var rows []modelRow
	query := `SELECT id, make_id, name, created_at FROM vehicle_models WHERE make_id = $1 ORDER BY name`
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, makeID); err != nil {
		return nil, translateError(err, "ListByMake", "make", makeID)
	}
	result := make([]models.VehicleModel, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toModel())
	}
	return result, nil
}

func (r *ModelRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM vehicle_models WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "Delete", "model", id)
	}
	return expectOneRow(res, "Delete", "model", id)
}
