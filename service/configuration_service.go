package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"carmod-configurator/events"
	"carmod-configurator/models"
	"carmod-configurator/pricing"
	"carmod-configurator/repository"
)

// ConfigurationService validates, prices and persists customer configurations.
// Implements ConfigurationServiceInterface
type ConfigurationService struct {
	store      repository.Store
	engine     *pricing.Engine
	dispatcher events.Dispatcher
	timeout    time.Duration
	now        func() time.Time
}

// NewConfigurationService creates a new ConfigurationService
func NewConfigurationService(store repository.Store, engine *pricing.Engine, dispatcher events.Dispatcher, timeout time.Duration) *ConfigurationService {
	return &ConfigurationService{
		store:      store,
		engine:     engine,
		dispatcher: dispatcher,
		timeout:    timeout,
		now:        utcNow,
	}
}

var _ ConfigurationServiceInterface = (*ConfigurationService)(nil)

// draft is the caller-controlled part of a configuration before validation
type draft struct {
	makeID     uuid.UUID
	modelID    uuid.UUID
	yearID     uuid.UUID
	selections models.Selections
	notes      string
}

func draftOf(cfg *models.Configuration) *draft {
	return &draft{
		makeID:     cfg.MakeID,
		modelID:    cfg.ModelID,
		yearID:     cfg.YearID,
		selections: cfg.Selections(),
		notes:      cfg.Notes,
	}
}

// priced holds the validated lines of a draft and their total
type priced struct {
	options  []models.SelectedOption
	packages []models.SelectedPackage
	stickers []models.SelectedSticker
	total    decimal.Decimal
}

// CreateOrUpdateConfiguration validates the selections against the year's
// offerings, prices them and saves the result.
func (s *ConfigurationService) CreateOrUpdateConfiguration(ctx context.Context, configurationID *uuid.UUID, req *models.SaveConfigurationRequest) (*models.Configuration, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if err := requireID(req.CustomerID, "customerId"); err != nil {
		return nil, err
	}
	d := &draft{
		makeID:     req.MakeID,
		modelID:    req.ModelID,
		yearID:     req.YearID,
		selections: req.Selections,
		notes:      strings.TrimSpace(req.Notes),
	}

	if configurationID == nil {
		return s.create(ctx, req.CustomerID, d)
	}

	log.Infof("📦 UpdateConfiguration: id=%s customer=%s", *configurationID, req.CustomerID)
	return s.edit(ctx, "UpdateConfiguration", req.CustomerID, *configurationID, req.Revision,
		func(_ *repository.Repositories, _ *models.Configuration) (*draft, error) {
			return d, nil
		})
}

func (s *ConfigurationService) create(ctx context.Context, customerID uuid.UUID, d *draft) (*models.Configuration, error) {
	log.Infof("📦 CreateConfiguration: customer=%s year=%s options=%d", customerID, d.yearID, len(d.selections.Options))

	now := s.now()
	cfg := &models.Configuration{
		ID:            uuid.New(),
		CustomerID:    customerID,
		BookingStatus: models.ConfigurationSaved,
		CreatedAt:     now,
	}

	err := s.store.RunInTx(ctx, func(repos *repository.Repositories) error {
		p, err := s.resolve(ctx, repos, d)
		if err != nil {
			return err
		}
		s.apply(cfg, d, p, now)
		cfg.Revision = 1
		return repos.Configurations.Insert(ctx, cfg)
	})
	if err != nil {
		log.Errorf("❌ CreateConfiguration: Error creating configuration for customer %s: %v", customerID, err)
		return nil, err
	}

	log.Infof("✅ CreateConfiguration: Successfully created configuration id=%s total=%s", cfg.ID, cfg.TotalAmount)
	events.Publish(ctx, s.dispatcher, configurationSaved(cfg))
	return cfg, nil
}

func (s *ConfigurationService) SelectOption(ctx context.Context, customerID, configurationID, optionID uuid.UUID) (*models.Configuration, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if err := requireID(optionID, "optionId"); err != nil {
		return nil, err
	}

	log.Infof("📦 SelectOption: configuration=%s option=%s", configurationID, optionID)
	return s.edit(ctx, "SelectOption", customerID, configurationID, nil,
		func(repos *repository.Repositories, cfg *models.Configuration) (*draft, error) {
			year, err := repos.Years.GetByID(ctx, cfg.YearID)
			if err != nil {
				return nil, err
			}
			// an unknown id is never offered, so this check comes first
			if !year.OffersOption(optionID) {
				return nil, errors.Wrapf(models.ErrIncompatibleOption, "option %s is not offered for year %s", optionID, year.ID)
			}
			option, err := repos.Options.GetByID(ctx, optionID)
			if err != nil {
				return nil, referenced(err, "option", optionID)
			}
			d := draftOf(cfg)
			d.selections.Options = append(d.selections.Options, models.OptionSelection{Slot: option.Slot, OptionID: option.ID})
			return d, nil
		})
}

func (s *ConfigurationService) ClearSlot(ctx context.Context, customerID, configurationID uuid.UUID, slot models.SlotKind) (*models.Configuration, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	slot, err := models.ParseSlotKind(string(slot))
	if err != nil {
		return nil, err
	}

	log.Infof("📦 ClearSlot: configuration=%s slot=%s", configurationID, slot)
	return s.edit(ctx, "ClearSlot", customerID, configurationID, nil,
		func(_ *repository.Repositories, cfg *models.Configuration) (*draft, error) {
			if _, ok := cfg.OptionFor(slot); !ok {
				return nil, nil
			}
			d := draftOf(cfg)
			kept := d.selections.Options[:0]
			for _, sel := range d.selections.Options {
				if sel.Slot != slot {
					kept = append(kept, sel)
				}
			}
			d.selections.Options = kept
			return d, nil
		})
}

// edit runs one write against a saved configuration owned by customerID.
// change returns the new draft, or nil to leave the configuration untouched.
func (s *ConfigurationService) edit(ctx context.Context, op string, customerID, id uuid.UUID, revision *int,
	change func(repos *repository.Repositories, cfg *models.Configuration) (*draft, error)) (*models.Configuration, error) {
	if err := requireID(customerID, "customerId"); err != nil {
		return nil, err
	}

	var cfg *models.Configuration
	changed := false
	err := s.store.RunInTx(ctx, func(repos *repository.Repositories) error {
		var err error
		if cfg, err = repos.Configurations.GetByIDForUpdate(ctx, id); err != nil {
			return err
		}
		if err := checkOwner(cfg, customerID); err != nil {
			return err
		}
		if cfg.BookingStatus != models.ConfigurationSaved {
			return errors.Wrapf(models.ErrInvalidState, "configuration %s is %s and can no longer be edited", id, cfg.BookingStatus)
		}
		if revision != nil && *revision != cfg.Revision {
			return errors.Wrapf(models.ErrConflict, "configuration %s is at revision %d, not %d", id, cfg.Revision, *revision)
		}

		d, err := change(repos, cfg)
		if err != nil || d == nil {
			return err
		}
		p, err := s.resolve(ctx, repos, d)
		if err != nil {
			return err
		}
		s.apply(cfg, d, p, s.now())
		cfg.Revision++
		changed = true
		return repos.Configurations.Update(ctx, cfg)
	})
	if err != nil {
		log.Errorf("❌ %s: Error updating configuration %s: %v", op, id, err)
		return nil, err
	}
	if !changed {
		log.Infof("✅ %s: configuration %s unchanged", op, id)
		return cfg, nil
	}

	log.Infof("✅ %s: Successfully saved configuration id=%s revision=%d total=%s", op, cfg.ID, cfg.Revision, cfg.TotalAmount)
	events.Publish(ctx, s.dispatcher, configurationSaved(cfg))
	return cfg, nil
}

// resolve validates a draft against the catalog and prices it. Checks run in
// a fixed order: vehicle hierarchy, options, then packages and stickers.
func (s *ConfigurationService) resolve(ctx context.Context, repos *repository.Repositories, d *draft) (*priced, error) {
	year, err := s.vehicle(ctx, repos, d)
	if err != nil {
		return nil, err
	}

	options, err := s.resolveOptions(ctx, repos, year, d.selections.Options)
	if err != nil {
		return nil, err
	}
	packages, err := s.resolvePackages(ctx, repos, year, d.selections.PackageIDs)
	if err != nil {
		return nil, err
	}
	stickers, err := s.resolveStickers(ctx, repos, year, d.selections.StickerIDs)
	if err != nil {
		return nil, err
	}

	breakdown, err := s.engine.PriceConfiguration(options, packages, stickers)
	if err != nil {
		return nil, err
	}
	return &priced{options: options, packages: packages, stickers: stickers, total: breakdown.Total}, nil
}

func (s *ConfigurationService) vehicle(ctx context.Context, repos *repository.Repositories, d *draft) (*models.Year, error) {
	for _, check := range []struct {
		id   uuid.UUID
		name string
	}{{d.makeID, "makeId"}, {d.modelID, "modelId"}, {d.yearID, "yearId"}} {
		if err := requireID(check.id, check.name); err != nil {
			return nil, err
		}
	}

	if _, err := repos.Makes.GetByID(ctx, d.makeID); err != nil {
		return nil, referenced(err, "make", d.makeID)
	}
	model, err := repos.Models.GetByID(ctx, d.modelID)
	if err != nil {
		return nil, referenced(err, "model", d.modelID)
	}
	if model.MakeID != d.makeID {
		return nil, errors.Wrapf(models.ErrValidation, "model %s does not belong to make %s", d.modelID, d.makeID)
	}
	year, err := repos.Years.GetByID(ctx, d.yearID)
	if err != nil {
		return nil, referenced(err, "year", d.yearID)
	}
	if year.ModelID != d.modelID {
		return nil, errors.Wrapf(models.ErrValidation, "year %s does not belong to model %s", d.yearID, d.modelID)
	}
	return year, nil
}

// resolveOptions folds the ordered selections into one option per slot. A
// later selection for a slot replaces the earlier one; slots keep the order
// in which they were first selected.
func (s *ConfigurationService) resolveOptions(ctx context.Context, repos *repository.Repositories, year *models.Year, selections []models.OptionSelection) ([]models.SelectedOption, error) {
	ids := make([]uuid.UUID, 0, len(selections))
	for _, sel := range selections {
		ids = append(ids, sel.OptionID)
	}
	found, err := repos.Options.GetByIDs(ctx, models.UniqueIDs(ids))
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.CustomizationOption, len(found))
	for _, o := range found {
		byID[o.ID] = o
	}

	bySlot := make(map[models.SlotKind]models.SelectedOption, len(selections))
	var order []models.SlotKind
	for _, sel := range selections {
		slot, err := models.ParseSlotKind(string(sel.Slot))
		if err != nil {
			return nil, err
		}
		if !year.OffersOption(sel.OptionID) {
			return nil, errors.Wrapf(models.ErrIncompatibleOption, "option %s is not offered for year %s", sel.OptionID, year.ID)
		}
		option, ok := byID[sel.OptionID]
		if !ok {
			return nil, errors.Wrapf(models.ErrValidation, "option %s does not exist", sel.OptionID)
		}
		if option.Slot != slot {
			return nil, errors.Wrapf(models.ErrValidation, "option %s belongs to slot %s, not %s", option.ID, option.Slot, slot)
		}
		if _, seen := bySlot[slot]; !seen {
			order = append(order, slot)
		}
		bySlot[slot] = models.SelectedOption{
			OptionID: option.ID,
			Slot:     slot,
			Title:    option.Title,
			Price:    option.Price,
		}
	}

	out := make([]models.SelectedOption, 0, len(order))
	for _, slot := range order {
		out = append(out, bySlot[slot])
	}
	return out, nil
}

func (s *ConfigurationService) resolvePackages(ctx context.Context, repos *repository.Repositories, year *models.Year, requested []uuid.UUID) ([]models.SelectedPackage, error) {
	ids := models.UniqueIDs(requested)
	found, err := repos.Packages.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Package, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	out := make([]models.SelectedPackage, 0, len(ids))
	for _, id := range ids {
		pkg, ok := byID[id]
		if !ok {
			return nil, errors.Wrapf(models.ErrValidation, "package %s does not exist", id)
		}
		if !year.OffersPackage(id) {
			return nil, errors.Wrapf(models.ErrIncompatibleOption, "package %s is not offered for year %s", id, year.ID)
		}
		out = append(out, models.SelectedPackage{PackageID: pkg.ID, Title: pkg.Title, Price: pkg.Price})
	}
	return out, nil
}

func (s *ConfigurationService) resolveStickers(ctx context.Context, repos *repository.Repositories, year *models.Year, requested []uuid.UUID) ([]models.SelectedSticker, error) {
	ids := models.UniqueIDs(requested)
	found, err := repos.Stickers.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Sticker, len(found))
	for _, st := range found {
		byID[st.ID] = st
	}

	out := make([]models.SelectedSticker, 0, len(ids))
	for _, id := range ids {
		sticker, ok := byID[id]
		if !ok {
			return nil, errors.Wrapf(models.ErrValidation, "sticker %s does not exist", id)
		}
		if !year.OffersSticker(id) {
			return nil, errors.Wrapf(models.ErrIncompatibleOption, "sticker %s is not offered for year %s", id, year.ID)
		}
		out = append(out, models.SelectedSticker{StickerID: sticker.ID, Text: sticker.Text, Price: sticker.Price})
	}
	return out, nil
}

func (s *ConfigurationService) apply(cfg *models.Configuration, d *draft, p *priced, now time.Time) {
	cfg.MakeID = d.makeID
	cfg.ModelID = d.modelID
	cfg.YearID = d.yearID
	cfg.SelectedOptions = p.options
	cfg.SelectedPackages = p.packages
	cfg.SelectedStickers = p.stickers
	cfg.TotalAmount = p.total
	cfg.Notes = d.notes
	cfg.UpdatedAt = now
}

func (s *ConfigurationService) GetConfiguration(ctx context.Context, id uuid.UUID) (*models.Configuration, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	return s.store.Repositories().Configurations.GetByID(ctx, id)
}

func (s *ConfigurationService) ListConfigurations(ctx context.Context, customerID uuid.UUID, status *models.ConfigurationStatus) ([]models.Configuration, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if err := requireID(customerID, "customerId"); err != nil {
		return nil, err
	}
	if status != nil && !status.IsValid() {
		return nil, errors.Wrapf(models.ErrValidation, "invalid configuration status %q", *status)
	}

	list, err := s.store.Repositories().Configurations.List(ctx, repository.ConfigurationFilter{CustomerID: &customerID, Status: status})
	if err != nil {
		log.Errorf("❌ ListConfigurations: Error listing configurations of customer %s: %v", customerID, err)
		return nil, err
	}
	log.Debugf("📋 ListConfigurations: customer=%s found=%d", customerID, len(list))
	return list, nil
}

// CancelConfiguration withdraws a saved configuration
func (s *ConfigurationService) CancelConfiguration(ctx context.Context, customerID, id uuid.UUID) (*models.Configuration, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if err := requireID(customerID, "customerId"); err != nil {
		return nil, err
	}

	var cfg *models.Configuration
	err := s.store.RunInTx(ctx, func(repos *repository.Repositories) error {
		var err error
		if cfg, err = repos.Configurations.GetByIDForUpdate(ctx, id); err != nil {
			return err
		}
		if err := checkOwner(cfg, customerID); err != nil {
			return err
		}
		if cfg.BookingStatus != models.ConfigurationSaved {
			return errors.Wrapf(models.ErrInvalidState, "configuration %s is %s, only saved configurations can be cancelled", id, cfg.BookingStatus)
		}
		cfg.BookingStatus = models.ConfigurationCancelled
		cfg.Revision++
		cfg.UpdatedAt = s.now()
		return repos.Configurations.Update(ctx, cfg)
	})
	if err != nil {
		log.Errorf("❌ CancelConfiguration: Error cancelling configuration %s: %v", id, err)
		return nil, err
	}

	log.Infof("✅ CancelConfiguration: Successfully cancelled configuration id=%s", id)
	events.Publish(ctx, s.dispatcher, events.ConfigurationStatusChanged{
		ConfigurationID: cfg.ID,
		CustomerID:      cfg.CustomerID,
		From:            models.ConfigurationSaved,
		To:              models.ConfigurationCancelled,
	})
	return cfg, nil
}

func (s *ConfigurationService) DeleteConfiguration(ctx context.Context, customerID, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if err := requireID(customerID, "customerId"); err != nil {
		return err
	}

	err := s.store.RunInTx(ctx, func(repos *repository.Repositories) error {
		cfg, err := repos.Configurations.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := checkOwner(cfg, customerID); err != nil {
			return err
		}
		if cfg.BookingStatus != models.ConfigurationSaved && cfg.BookingStatus != models.ConfigurationCancelled {
			return errors.Wrapf(models.ErrInvalidState, "configuration %s is %s and cannot be deleted", id, cfg.BookingStatus)
		}
		err = ensureUnreferenced("configuration", id, reference{"bookings", func() (int, error) {
			return repos.Bookings.CountByConfiguration(ctx, id)
		}})
		if err != nil {
			return err
		}
		return repos.Configurations.Delete(ctx, id)
	})
	if err != nil {
		log.Errorf("❌ DeleteConfiguration: Error deleting configuration %s: %v", id, err)
		return err
	}
	log.Infof("✅ DeleteConfiguration: Successfully deleted configuration id=%s", id)
	return nil
}

func checkOwner(cfg *models.Configuration, customerID uuid.UUID) error {
	if cfg.CustomerID != customerID {
		return errors.Wrapf(models.ErrValidation, "configuration %s does not belong to customer %s", cfg.ID, customerID)
	}
	return nil
}

func configurationSaved(cfg *models.Configuration) events.ConfigurationSaved {
	return events.ConfigurationSaved{
		ConfigurationID: cfg.ID,
		CustomerID:      cfg.CustomerID,
		Revision:        cfg.Revision,
		TotalAmount:     cfg.TotalAmount,
	}
}
