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

// Line kinds stored in configuration_lines.kind
const (
	lineOption  = "option"
	linePackage = "package"
	lineSticker = "sticker"
)

// ConfigurationRepository handles database operations for configurations and their lines
type ConfigurationRepository struct {
	q sqlx.ExtContext
}

func NewConfigurationRepository(q sqlx.ExtContext) *ConfigurationRepository {
	return &ConfigurationRepository{q: q}
}

var _ ConfigurationRepositoryInterface = (*ConfigurationRepository)(nil)

type configurationRow struct {
	ID            uuid.UUID       `db:"id"`
	CustomerID    uuid.UUID       `db:"customer_id"`
	MakeID        uuid.UUID       `db:"make_id"`
	ModelID       uuid.UUID       `db:"model_id"`
	YearID        uuid.UUID       `db:"year_id"`
	TotalAmount   decimal.Decimal `db:"total_amount"`
	BookingStatus string          `db:"booking_status"`
	Notes         string          `db:"notes"`
	Revision      int             `db:"revision"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

type configurationLineRow struct {
	ConfigurationID uuid.UUID       `db:"configuration_id"`
	Kind            string          `db:"kind"`
	ItemID          uuid.UUID       `db:"item_id"`
	Slot            string          `db:"slot"`
	Label           string          `db:"label"`
	Price           decimal.Decimal `db:"price"`
}

const configurationColumns = `c.id, c.customer_id, c.make_id, c.model_id, c.year_id, c.total_amount,
	c.booking_status, c.notes, c.revision, c.created_at, c.updated_at`

// Insert stores the configuration and its lines. Call it inside a transaction.
func (r *ConfigurationRepository) Insert(ctx context.Context, c *models.Configuration) error {
	log.Debugf("📦 Insert: Inserting configuration %s for customer %s", c.ID, c.CustomerID)

	query := `
		INSERT INTO configurations (id, customer_id, make_id, model_id, year_id, total_amount,
			booking_status, notes, revision, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.q.ExecContext(ctx, query, c.ID, c.CustomerID, c.MakeID, c.ModelID, c.YearID,
		c.TotalAmount, string(c.BookingStatus), c.Notes, c.Revision, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		log.Errorf("❌ Insert: Error inserting configuration %s: %v", c.ID, err)
		return translateError(err, "Insert", "configuration", c.ID)
	}
	return r.insertLines(ctx, c)
}

// Update overwrites the row and replaces its lines. Call it inside a transaction.
func (r *ConfigurationRepository) Update(ctx context.Context, c *models.Configuration) error {
	query := `
		UPDATE configurations
		SET make_id = $1, model_id = $2, year_id = $3, total_amount = $4, booking_status = $5,
			notes = $6, revision = $7, updated_at = $8
		WHERE id = $9
	`
	res, err := r.q.ExecContext(ctx, query, c.MakeID, c.ModelID, c.YearID, c.TotalAmount,
		string(c.BookingStatus), c.Notes, c.Revision, c.UpdatedAt, c.ID)
	if err != nil {
		log.Errorf("❌ Update: Error updating configuration %s: %v", c.ID, err)
		return translateError(err, "Update", "configuration", c.ID)
	}
	if err := expectOneRow(res, "Update", "configuration", c.ID); err != nil {
		return err
	}

	if _, err := r.q.ExecContext(ctx, `DELETE FROM configuration_lines WHERE configuration_id = $1`, c.ID); err != nil {
		return translateError(err, "Update", "configuration", c.ID)
	}
	return r.insertLines(ctx, c)
}

func (r *ConfigurationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Configuration, error) {
	return r.get(ctx, "GetByID", id, "")
}

func (r *ConfigurationRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Configuration, error) {
	return r.get(ctx, "GetByIDForUpdate", id, " FOR UPDATE")
}

func (r *ConfigurationRepository) get(ctx context.Context, op string, id uuid.UUID, lock string) (*models.Configuration, error) {
	var row configurationRow
	query := `SELECT ` + configurationColumns + ` FROM configurations c WHERE c.id = $1` + lock
	if err := sqlx.GetContext(ctx, r.q, &row, query, id); err != nil {
		return nil, translateError(err, op, "configuration", id)
	}
	result, err := r.withLines(ctx, []configurationRow{row})
	if err != nil {
		return nil, err
	}
	return &result[0], nil
}

func (r *ConfigurationRepository) List(ctx context.Context, filter ConfigurationFilter) ([]models.Configuration, error) {
	where, args := configurationWhere(filter)
	query := `SELECT ` + configurationColumns + ` FROM configurations c` + where + ` ORDER BY c.updated_at DESC, c.id`

	var rows []configurationRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, translateError(err, "List", "configurations", "*")
	}
	return r.withLines(ctx, rows)
}

func (r *ConfigurationRepository) Count(ctx context.Context, filter ConfigurationFilter) (int, error) {
	where, args := configurationWhere(filter)
	var n int
	if err := sqlx.GetContext(ctx, r.q, &n, `SELECT COUNT(*) FROM configurations c`+where, args...); err != nil {
		return 0, translateError(err, "Count", "configurations", "*")
	}
	return n, nil
}

func (r *ConfigurationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM configurations WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "Delete", "configuration", id)
	}
	return expectOneRow(res, "Delete", "configuration", id)
}

func configurationWhere(filter ConfigurationFilter) (string, []any) {
	// Build WHERE conditions dynamically
	var conditions []string
	var args []any
	argIndex := 1

	add := func(clause string, arg any) {
		conditions = append(conditions, fmt.Sprintf(clause, argIndex))
		args = append(args, arg)
		argIndex++
	}

	if filter.CustomerID != nil {
		add("c.customer_id = $%d", *filter.CustomerID)
	}
	if filter.Status != nil {
		add("c.booking_status = $%d", string(*filter.Status))
	}
	if filter.MakeID != nil {
		add("c.make_id = $%d", *filter.MakeID)
	}
	if filter.ModelID != nil {
		add("c.model_id = $%d", *filter.ModelID)
	}
	if filter.YearID != nil {
		add("c.year_id = $%d", *filter.YearID)
	}
	if filter.ItemID != nil {
		add("EXISTS (SELECT 1 FROM configuration_lines l WHERE l.configuration_id = c.id AND l.item_id = $%d)", *filter.ItemID)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *ConfigurationRepository) insertLines(ctx context.Context, c *models.Configuration) error {
	query := `
		INSERT INTO configuration_lines (configuration_id, position, kind, item_id, slot, label, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	pos := 0
	insert := func(kind string, itemID uuid.UUID, slot, label string, price decimal.Decimal) error {
		_, err := r.q.ExecContext(ctx, query, c.ID, pos, kind, itemID, slot, label, price)
		pos++
		if err != nil {
			log.Errorf("❌ insertLines: Error inserting %s line %s for configuration %s: %v", kind, itemID, c.ID, err)
			return translateError(err, "insertLines", "configuration", c.ID)
		}
		return nil
	}

	for _, opt := range c.SelectedOptions {
		if err := insert(lineOption, opt.OptionID, string(opt.Slot), opt.Title, opt.Price); err != nil {
			return err
		}
	}
	for _, pkg := range c.SelectedPackages {
		if err := insert(linePackage, pkg.PackageID, "", pkg.Title, pkg.Price); err != nil {
			return err
		}
	}
	for _, st := range c.SelectedStickers {
		if err := insert(lineSticker, st.StickerID, "", st.Text, st.Price); err != nil {
			return err
		}
	}
	return nil
}

func (r *ConfigurationRepository) withLines(ctx context.Context, rows []configurationRow) ([]models.Configuration, error) {
	result := make([]models.Configuration, 0, len(rows))
	if len(rows) == 0 {
		return result, nil
	}

	index := make(map[uuid.UUID]int, len(rows))
	ids := make([]uuid.UUID, 0, len(rows))
	for i, row := range rows {
		index[row.ID] = i
		ids = append(ids, row.ID)
		result = append(result, models.Configuration{
			ID:               row.ID,
			CustomerID:       row.CustomerID,
			MakeID:           row.MakeID,
			ModelID:          row.ModelID,
			YearID:           row.YearID,
			SelectedOptions:  []models.SelectedOption{},
			SelectedPackages: []models.SelectedPackage{},
			SelectedStickers: []models.SelectedSticker{},
			TotalAmount:      row.TotalAmount,
			BookingStatus:    models.ConfigurationStatus(row.BookingStatus),
			Notes:            row.Notes,
			Revision:         row.Revision,
			CreatedAt:        row.CreatedAt,
			UpdatedAt:        row.UpdatedAt,
		})
	}

	var lines []configurationLineRow
	query := `
		SELECT configuration_id, kind, item_id, slot, label, price
		FROM configuration_lines
		WHERE configuration_id = ANY($1::uuid[])
		ORDER BY configuration_id, position
	`
	if err := sqlx.SelectContext(ctx, r.q, &lines, query, utils.IDStrings(ids)); err != nil {
		return nil, translateError(err, "withLines", "configurations", ids)
	}

	for _, line := range lines {
		c := &result[index[line.ConfigurationID]]
		switch line.Kind {
		case lineOption:
			c.SelectedOptions = append(c.SelectedOptions, models.SelectedOption{
				OptionID: line.ItemID, Slot: models.SlotKind(line.Slot), Title: line.Label, Price: line.Price,
			})
		case linePackage:
			c.SelectedPackages = append(c.SelectedPackages, models.SelectedPackage{
				PackageID: line.ItemID, Title: line.Label, Price: line.Price,
			})
		case lineSticker:
			c.SelectedStickers = append(c.SelectedStickers, models.SelectedSticker{
				StickerID: line.ItemID, Text: line.Label, Price: line.Price,
			})
		}
	}
	return result, nil
}
