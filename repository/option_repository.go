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

// OptionRepository handles database operations for customization options
type OptionRepository struct {
	q sqlx.ExtContext
}

func NewOptionRepository(q sqlx.ExtContext) *OptionRepository {
	return &OptionRepository{q: q}
}

var _ OptionRepositoryInterface = (*OptionRepository)(nil)

type optionRow struct {
	ID        uuid.UUID       `db:"id"`
	Slot      string          `db:"slot"`
	Title     string          `db:"title"`
	ColorCode string          `db:"color_code"`
	Image     string          `db:"image"`
	Price     decimal.Decimal `db:"price"`
	CreatedAt time.Time       `db:"created_at"`
}

func (r optionRow) toModel() models.CustomizationOption {
	return models.CustomizationOption{
		ID:        r.ID,
		Slot:      models.SlotKind(r.Slot),
		Title:     r.Title,
		ColorCode: r.ColorCode,
		Image:     r.Image,
		Price:     r.Price,
		CreatedAt: r.CreatedAt,
	}
}

func toOptions(rows []optionRow) []models.CustomizationOption {
	out := make([]models.CustomizationOption, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out
}

const optionColumns = `id, slot, title, color_code, image, price, created_at`

func (r *OptionRepository) Insert(ctx context.Context, o *models.CustomizationOption) error {
	query := `INSERT INTO customization_options (` + optionColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.ExecContext(ctx, query, o.ID, string(o.Slot), o.Title, o.ColorCode, o.Image, o.Price, o.CreatedAt)
	if err != nil {
		log.Errorf("❌ Insert: Error inserting option %s (%s): %v", o.ID, o.Slot, err)
		return translateError(err, "Insert", "option", o.ID)
	}
	return nil
}

func (r *OptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.CustomizationOption, error) {
	var row optionRow
	query := `SELECT ` + optionColumns + ` FROM customization_options WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.q, &row, query, id); err != nil {
		return nil, translateError(err, "GetByID", "option", id)
	}
	o := row.toModel()
	return &o, nil
}

// GetByIDs returns the options that exist; missing ids are simply absent from the result
func (r *OptionRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.CustomizationOption, error) {
	if len(ids) == 0 {
		return []models.CustomizationOption{}, nil
	}
	var rows []optionRow
	query := `SELECT ` + optionColumns + ` FROM customization_options WHERE id = ANY($1::uuid[])`
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, utils.IDStrings(ids)); err != nil {
		return nil, translateError(err, "GetByIDs", "options", ids)
	}
	return toOptions(rows), nil
}

func (r *OptionRepository) List(ctx context.Context, slot *models.SlotKind) ([]models.CustomizationOption, error) {
	var rows []optionRow
	var err error
	if slot != nil {
		query := `SELECT ` + optionColumns + ` FROM customization_options WHERE slot = $1 ORDER BY title, id`
		err = sqlx.SelectContext(ctx, r.q, &rows, query, string(*slot))
	} else {
		query := `SELECT ` + optionColumns + ` FROM customization_options ORDER BY slot, title, id`
		err = sqlx.SelectContext(ctx, r.q, &rows, query)
	}
	if err != nil {
		return nil, translateError(err, "List", "options", "*")
	}
	return toOptions(rows), nil
}

func (r *OptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM customization_options WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "Delete", "option", id)
	}
	return expectOneRow(res, "Delete", "option", id)
}
