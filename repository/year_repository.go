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

// Offering kinds stored in year_offerings.kind
const (
	offeringExterior = "exterior"
	offeringInterior = "interior"
	offeringPackage  = "package"
	offeringSticker  = "sticker"
)

// YearRepository handles database operations for vehicle years and their offering lists
type YearRepository struct {
	q sqlx.ExtContext
}

func NewYearRepository(q sqlx.ExtContext) *YearRepository {
	return &YearRepository{q: q}
}

var _ YearRepositoryInterface = (*YearRepository)(nil)

type yearRow struct {
	ID              uuid.UUID `db:"id"`
	ModelID         uuid.UUID `db:"model_id"`
	Year            int       `db:"year"`
	VehicleImage    string    `db:"vehicle_image"`
	CustomizerAsset string    `db:"customizer_asset"`
	CreatedAt       time.Time `db:"created_at"`
}

func (r yearRow) toModel() models.Year {
	return models.Year{
		ID:                r.ID,
		ModelID:           r.ModelID,
		Year:              r.Year,
		VehicleImage:      r.VehicleImage,
		CustomizerAsset:   r.CustomizerAsset,
		ExteriorOptionIDs: []uuid.UUID{},
		InteriorOptionIDs: []uuid.UUID{},
		PackageIDs:        []uuid.UUID{},
		StickerIDs:        []uuid.UUID{},
		CreatedAt:         r.CreatedAt,
	}
}

type offeringRow struct {
	YearID uuid.UUID `db:"year_id"`
	Kind   string    `db:"kind"`
	ItemID uuid.UUID `db:"item_id"`
}

const yearColumns = `id, model_id, year, vehicle_image, customizer_asset, created_at`

// Insert stores the year row and its offering lists. Call it inside a transaction.
func (r *YearRepository) Insert(ctx context.Context, y *models.Year) error {
	query := `INSERT INTO vehicle_years (` + yearColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.ExecContext(ctx, query, y.ID, y.ModelID, y.Year, y.VehicleImage, y.CustomizerAsset, y.CreatedAt)
	if err != nil {
		log.Errorf("❌ Insert: Error inserting year %d for model %s: %v", y.Year, y.ModelID, err)
		return translateError(err, "Insert", "year", y.ID)
	}
	return r.insertOfferings(ctx, y.ID, y.Offerings())
}

func (r *YearRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Year, error) {
	var row yearRow
	query := `SELECT ` + yearColumns + ` FROM vehicle_years WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.q, &row, query, id); err != nil {
		return nil, translateError(err, "GetByID", "year", id)
	}
	years := []models.Year{row.toModel()}
	if err := r.attachOfferings(ctx, years); err != nil {
		return nil, err
	}
	return &years[0], nil
}

func (r *YearRepository) ListByModel(ctx context.Context, modelID uuid.UUID) ([]models.Year, error) {
	var rows []yearRow
	query := `SELECT ` + yearColumns + ` FROM vehicle_years WHERE model_id = $1 ORDER BY year`
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, modelID); err != nil {
		return nil, translateError(err, "ListByModel", "model", modelID)
	}
	return r.toModels(ctx, rows)
}

func (r *YearRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Year, error) {
	if len(ids) == 0 {
		return []models.Year{}, nil
	}
	var rows []yearRow
	query := `SELECT ` + yearColumns + ` FROM vehicle_years WHERE id = ANY($1::uuid[]) ORDER BY year`
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, utils.IDStrings(ids)); err != nil {
		return nil, translateError(err, "GetByIDs", "years", ids)
	}
	return r.toModels(ctx, rows)
}

// SetOfferings replaces the four offering lists. Call it inside a transaction.
func (r *YearRepository) SetOfferings(ctx context.Context, id uuid.UUID, offerings models.YearOfferings) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM year_offerings WHERE year_id = $1`, id); err != nil {
		return translateError(err, "SetOfferings", "year", id)
	}
	return r.insertOfferings(ctx, id, offerings)
}

func (r *YearRepository) CountOfferingsOf(ctx context.Context, itemID uuid.UUID) (int, error) {
	var n int
	query := `SELECT COUNT(DISTINCT year_id) FROM year_offerings WHERE item_id = $1`
	if err := sqlx.GetContext(ctx, r.q, &n, query, itemID); err != nil {
		return 0, translateError(err, "CountOfferingsOf", "item", itemID)
	}
	return n, nil
}

func (r *YearRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM vehicle_years WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "Delete", "year", id)
	}
	return expectOneRow(res, "Delete", "year", id)
}

func (r *YearRepository) insertOfferings(ctx context.Context, yearID uuid.UUID, offerings models.YearOfferings) error {
	lists := []struct {
		kind string
		ids  []uuid.UUID
	}{
		{offeringExterior, offerings.ExteriorOptionIDs},
		{offeringInterior, offerings.InteriorOptionIDs},
		{offeringPackage, offerings.PackageIDs},
		{offeringSticker, offerings.StickerIDs},
	}

	query := `INSERT INTO year_offerings (year_id, kind, item_id, position) VALUES ($1, $2, $3, $4)`
	for _, list := range lists {
		for pos, itemID := range list.ids {
			if _, err := r.q.ExecContext(ctx, query, yearID, list.kind, itemID, pos); err != nil {
				log.Errorf("❌ insertOfferings: Error inserting %s offering %s for year %s: %v", list.kind, itemID, yearID, err)
				return translateError(err, "SetOfferings", "year", yearID)
			}
		}
	}
	return nil
}

func (r *YearRepository) toModels(ctx context.Context, rows []yearRow) ([]models.Year, error) {
	years := make([]models.Year, 0, len(rows))
	for _, row := range rows {
		years = append(years, row.toModel())
	}
	if err := r.attachOfferings(ctx, years); err != nil {
		return nil, err
	}
	return years, nil
}

// attachOfferings loads the offering lists of every year in one query
func (r *YearRepository) attachOfferings(ctx context.Context, years []models.Year) error {
	if len(years) == 0 {
		return nil
	}
	index := make(map[uuid.UUID]int, len(years))
	ids := make([]uuid.UUID, 0, len(years))
	for i, y := range years {
		index[y.ID] = i
		ids = append(ids, y.ID)
	}

	var rows []offeringRow
	query := `
		SELECT year_id, kind, item_id
		FROM year_offerings
		WHERE year_id = ANY($1::uuid[])
		ORDER BY year_id, kind, position
	`
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, utils.IDStrings(ids)); err != nil {
		return translateError(err, "attachOfferings", "years", ids)
	}

	for _, row := range rows {
		y := &years[index[row.YearID]]
		switch row.Kind {
		case offeringExterior:
			y.ExteriorOptionIDs = append(y.ExteriorOptionIDs, row.ItemID)
		case offeringInterior:
			y.InteriorOptionIDs = append(y.InteriorOptionIDs, row.ItemID)
		case offeringPackage:
			y.PackageIDs = append(y.PackageIDs, row.ItemID)
		case offeringSticker:
			y.StickerIDs = append(y.StickerIDs, row.ItemID)
		}
	}
	return nil
}
