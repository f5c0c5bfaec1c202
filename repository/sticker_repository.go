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

// StickerRepository handles database operations for stickers
type StickerRepository struct {
	q sqlx.ExtContext
}

func NewStickerRepository(q sqlx.ExtContext) *StickerRepository {
	return &StickerRepository{q: q}
}

var _ StickerRepositoryInterface = (*StickerRepository)(nil)

type stickerRow struct {
	ID        uuid.UUID       `db:"id"`
	Text      string          `db:"text"`
	Image     string          `db:"image"`
	Price     decimal.Decimal `db:"price"`
	CreatedAt time.Time       `db:"created_at"`
}

func toStickers(rows []stickerRow) []models.Sticker {
	out := make([]models.Sticker, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.Sticker(row))
	}
	return out
}

const stickerColumns = `id, text, image, price, created_at`

func (r *StickerRepository) Insert(ctx context.Context, s *models.Sticker) error {
	query := `INSERT INTO stickers (` + stickerColumns + `) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.q.ExecContext(ctx, query, s.ID, s.Text, s.Image, s.Price, s.CreatedAt); err != nil {
		return translateError(err, "Insert", "sticker", s.ID)
	}
	return nil
}

func (r *StickerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Sticker, error) {
	var row stickerRow
	query := `SELECT ` + stickerColumns + ` FROM stickers WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.q, &row, query, id); err != nil {
		return nil, translateError(err, "GetByID", "sticker", id)
	}
	s := models.Sticker(row)
	return &s, nil
}

func (r *StickerRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Sticker, error) {
	if len(ids) == 0 {
		return []models.Sticker{}, nil
	}
	var rows []stickerRow
	query := `SELECT ` + stickerColumns + ` FROM stickers WHERE id = ANY($1::uuid[])`
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, utils.IDStrings(ids)); err != nil {
		return nil, translateError(err, "GetByIDs", "stickers", ids)
	}
	return toStickers(rows), nil
}

func (r *StickerRepository) List(ctx context.Context) ([]models.Sticker, error) {
	var rows []stickerRow
	query := `SELECT ` + stickerColumns + ` FROM stickers ORDER BY text, id`
	if err := sqlx.SelectContext(ctx, r.q, &rows, query); err != nil {
		return nil, translateError(err, "List", "stickers", "*")
	}
	return toStickers(rows), nil
}

func (r *StickerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM stickers WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "Delete", "sticker", id)
	}
	return expectOneRow(res, "Delete", "sticker", id)
}
