package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"carmod-configurator/models"
	"carmod-configurator/repository"
	"carmod-configurator/utils"
)

// firstModelYear is the year of the first production automobile
const firstModelYear = 1886

// CatalogService manages makes, models, years and the selectable catalog.
// Implements CatalogServiceInterface
type CatalogService struct {
	store         repository.Store
	compatibility cacheInvalidator
	timeout       time.Duration
	now           func() time.Time
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(store repository.Store, compatibility cacheInvalidator, timeout time.Duration) *CatalogService {
	return &CatalogService{
		store:         store,
		compatibility: compatibility,
		timeout:       timeout,
		now:           utcNow,
	}
}

var _ CatalogServiceInterface = (*CatalogService)(nil)

// reference is one place an entity may still be used from
type reference struct {
	what  string
	count func() (int, error)
}

func ensureUnreferenced(entity string, id uuid.UUID, refs ...reference) error {
	for _, ref := range refs {
		n, err := ref.count()
		if err != nil {
			return err
		}
		if n > 0 {
			return errors.Wrapf(models.ErrReferentialConflict, "%s %s is referenced by %d %s", entity, id, n, ref.what)
		}
	}
	return nil
}

func (s *CatalogService) CreateMake(ctx context.Context, req *models.CreateMakeRequest) (*models.Make, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	name := utils.NormalizeName(req.Name)
	if name == "" {
		return nil, errors.Wrap(models.ErrValidation, "make name is required")
	}

	m := &models.Make{ID: uuid.New(), Name: name, CreatedAt: s.now()}
	if err := s.store.Repositories().Makes.Insert(ctx, m); err != nil {
		log.Errorf("❌ CreateMake: Error creating make %q: %v", name, err)
		return nil, err
	}
	log.Infof("✅ CreateMake: Successfully created make id=%s name=%s", m.ID, m.Name)
	return m, nil
}

func (s *CatalogService) GetMake(ctx context.Context, id uuid.UUID) (*models.Make, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	return s.store.Repositories().Makes.GetByID(ctx, id)
}

func (s *CatalogService) ListMakes(ctx context.Context) ([]models.Make, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	return s.store.Repositories().Makes.List(ctx)
}

func (s *CatalogService) DeleteMake(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	err := s.store.RunInTx(ctx, func(repos *repository.Repositories) error {
		if _, err := repos.Makes.GetByID(ctx, id); err != nil {
			return err
		}
		err := ensureUnreferenced("make", id,
			reference{"models", func() (int, error) {
				list, err := repos.Models.ListByMake(ctx, id)
				return len(list), err
			}},
			reference{"compatibility rows", func() (int, error) {
				return repos.Compatibilities.Count(ctx, repository.CompatibilityFilter{MakeID: &id})
			}},
			reference{"configurations", func() (int, error) {
				return repos.Configurations.Count(ctx, repository.ConfigurationFilter{MakeID: &id})
			}},
		)
		if err != nil {
			return err
		}
		return repos.Makes.Delete(ctx, id)
	})
	if err != nil {
		log.Errorf("❌ DeleteMake: Error deleting make %s: %v", id, err)
		return err
	}
	log.Infof("✅ DeleteMake: Successfully deleted make id=%s", id)
	return nil
}

func (s *CatalogService) CreateModel(ctx context.Context, req *models.CreateModelRequest) (*models.VehicleModel, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	name := utils.NormalizeName(req.Name)
	if name == "" {
		return nil, errors.Wrap(models.ErrValidation, "model name is required")
	}
	if err := requireID(req.MakeID, "makeId"); err != nil {
		return nil, err
	}

	m := &models.VehicleModel{ID: uuid.New(), MakeID: req.MakeID, Name: name, CreatedAt: s.now()}
	err := s.store.RunInTx(ctx, func(repos *repository.Repositories) error {
		if _, err := repos.Makes.GetByID(ctx, req.MakeID); err != nil {
			return referenced(err, "make", req.MakeID)
		}
		return repos.Models.Insert(ctx, m)
	})
	if err != nil {
		log.Errorf("❌ CreateModel: Error creating model %q: %v", name, err)
		return nil, err
	}
	log.Infof("✅ CreateModel: Successfully created model id=%s name=%s", m.ID, m.Name)
	return m, nil
}

func (s *CatalogService) GetModel(ctx context.Context, id uuid.UUID) (*models.VehicleModel, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	return s.store.Repositories().Models.GetByID(ctx, id)
}

func (s *CatalogService) ListModelsByMake(ctx context.Context, makeID uuid.UUID) ([]models.VehicleModel, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	repos := s.store.Repositories()
	if _, err := repos.Makes.GetByID(ctx, makeID); err != nil {
		return nil, err
	}
	return repos.Models.ListByMake(ctx, makeID)
}

func (s *CatalogService) DeleteModel(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	var model *models.VehicleModel
	err := s.store.RunInTx(ctx, func(repos *repository.Repositories) error {
		var err error
		if model, err = repos.Models.GetByID(ctx, id); err != nil {
			return err
		}
		err = ensureUnreferenced("model", id,
			reference{"years", func() (int, error) {
				list, err := repos.Years.ListByModel(ctx, id)
				return len(list), err
			}},
			reference{"compatibility rows", func() (int, error) {
				return repos.Compatibilities.Count(ctx, repository.CompatibilityFilter{ModelID: &id})
			}},
			reference{"configurations", func() (int, error) {
				return repos.Configurations.Count(ctx, repository.ConfigurationFilter{ModelID: &id})
			}},
		)
		if err != nil {
			return err
		}
		return repos.Models.Delete(ctx, id)
	})
	if err != nil {
		log.Errorf("❌ DeleteModel: Error deleting model %s: %v", id, err)
		return err
	}
	s.compatibility.Invalidate(model.MakeID, model.ID)
	log.Infof("✅ DeleteModel: Successfully deleted model id=%s", id)
	return nil
}

func (s *CatalogService) CreateYear(ctx context.Context, req *models.CreateYearRequest) (*models.Year, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if err := requireID(req.ModelID, "modelId"); err != nil {
		return nil, err
	}
	if last := s.now().Year() + 2; req.Year < firstModelYear || req.Year > last {
		return nil, errors.Wrapf(models.ErrValidation, "year %d must be between %d and %d", req.Year, firstModelYear, last)
	}

	year := &models.Year{
		ID:              uuid.New(),
		ModelID:         req.ModelID,
		Year:            req.Year,
		VehicleImage:    strings.TrimSpace(req.VehicleImage),
		CustomizerAsset: strings.TrimSpace(req.CustomizerAsset),
		CreatedAt:       s.now(),
	}

	err := s.store.RunInTx(ctx, func(repos *repository.Repositories) error {
		if _, err := repos.Models.GetByID(ctx, req.ModelID); err != nil {
			return referenced(err, "model", req.ModelID)
		}
		offerings, err := validateOfferings(ctx, repos, req.YearOfferings)
		if err != nil {
			return err
		}
		year.ExteriorOptionIDs = offerings.ExteriorOptionIDs
		year.InteriorOptionIDs = offerings.InteriorOptionIDs
		year.PackageIDs = offerings.PackageIDs
		year.StickerIDs = offerings.StickerIDs
		return repos.Years.Insert(ctx, year)
	})
	if err != nil {
		log.Errorf("❌ CreateYear: Error creating year %d for model %s: %v", req.Year, req.ModelID, err)
		return nil, err
	}
	log.Infof("✅ CreateYear: Successfully created year id=%s (%d)", year.ID, year.Year)
	return year, nil
}

func (s *CatalogService) GetYear(ctx context.Context, id uuid.UUID) (*models.Year, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	return s.store.Repositories().Years.GetByID(ctx, id)
}

func (s *CatalogService) ListYearsByModel(ctx context.Context, modelID uuid.UUID) ([]models.Year, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	repos := s.store.Repositories()
	if _, err := repos.Models.GetByID(ctx, modelID); err != nil {
		return nil, err
	}
	return repos.Years.ListByModel(ctx, modelID)
}

func (s *CatalogService) SetYearOfferings(ctx context.Context, id uuid.UUID, offerings models.YearOfferings) (*models.Year, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	var year *models.Year
	err := s.store.RunInTx(ctx, func(repos *repository.Repositories) error {
		current, err := repos.Years.GetByID(ctx, id)
		if err != nil {
			return err
		}
		clean, err := validateOfferings(ctx, repos, offerings)
		if err != nil {
			return err
		}
		if err := ensureNotWithdrawnFromLive(ctx, repos, current, clean); err != nil {
			return err
		}
		if err := repos.Years.SetOfferings(ctx, id, clean); err != nil {
			return err
		}
		year, err = repos.Years.GetByID(ctx, id)
		return err
	})
	if err != nil {
		log.Errorf("❌ SetYearOfferings: Error updating offerings of year %s: %v", id, err)
		return nil, err
	}
	log.Infof("✅ SetYearOfferings: year=%s exterior=%d interior=%d packages=%d stickers=%d",
		id, len(year.ExteriorOptionIDs), len(year.InteriorOptionIDs), len(year.PackageIDs), len(year.StickerIDs))
	return year, nil
}

// liveStatuses are the configuration statuses whose lines must stay offered
var liveStatuses = []models.ConfigurationStatus{models.ConfigurationSaved, models.ConfigurationPending}

// ensureNotWithdrawnFromLive rejects removing an offering that a saved or
// pending configuration of the year still selects.
func ensureNotWithdrawnFromLive(ctx context.Context, repos *repository.Repositories, year *models.Year, next models.YearOfferings) error {
	kept := &models.Year{
		ExteriorOptionIDs: next.ExteriorOptionIDs,
		InteriorOptionIDs: next.InteriorOptionIDs,
		PackageIDs:        next.PackageIDs,
		StickerIDs:        next.StickerIDs,
	}
	current := year.Offerings()
	lists := [][]uuid.UUID{current.ExteriorOptionIDs, current.InteriorOptionIDs, current.PackageIDs, current.StickerIDs}
	for _, ids := range lists {
		for _, itemID := range ids {
			if kept.References(itemID) {
				continue
			}
			for _, status := range liveStatuses {
				n, err := repos.Configurations.Count(ctx, repository.ConfigurationFilter{
					YearID: &year.ID,
					ItemID: &itemID,
					Status: &status,
				})
				if err != nil {
					return err
				}
				if n > 0 {
					return errors.Wrapf(models.ErrReferentialConflict,
						"%s is selected by %d %s configuration(s) of year %s", itemID, n, status, year.ID)
				}
			}
		}
	}
	return nil
}

func (s *CatalogService) DeleteYear(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	err := s.store.RunInTx(ctx, func(repos *repository.Repositories) error {
		if _, err := repos.Years.GetByID(ctx, id); err != nil {
			return err
		}
		err := ensureUnreferenced("year", id,
			reference{"compatibility rows", func() (int, error) {
				return repos.Compatibilities.Count(ctx, repository.CompatibilityFilter{YearID: &id})
			}},
			reference{"configurations", func() (int, error) {
				return repos.Configurations.Count(ctx, repository.ConfigurationFilter{YearID: &id})
			}},
		)
		if err != nil {
			return err
		}
		return repos.Years.Delete(ctx, id)
	})
	if err != nil {
		log.Errorf("❌ DeleteYear: Error deleting year %s: %v", id, err)
		return err
	}
	log.Infof("✅ DeleteYear: Successfully deleted year id=%s", id)
	return nil
}

// validateOfferings collapses duplicates and checks every id: exterior lists
// hold exterior options only, interior lists interior options only.
func validateOfferings(ctx context.Context, repos *repository.Repositories, in models.YearOfferings) (models.YearOfferings, error) {
	out := models.YearOfferings{
		ExteriorOptionIDs: models.UniqueIDs(in.ExteriorOptionIDs),
		InteriorOptionIDs: models.UniqueIDs(in.InteriorOptionIDs),
		PackageIDs:        models.UniqueIDs(in.PackageIDs),
		StickerIDs:        models.UniqueIDs(in.StickerIDs),
	}

	optionIDs := append(append([]uuid.UUID{}, out.ExteriorOptionIDs...), out.InteriorOptionIDs...)
	options, err := repos.Options.GetByIDs(ctx, optionIDs)
	if err != nil {
		return out, err
	}
	bySlot := make(map[uuid.UUID]models.SlotKind, len(options))
	for _, o := range options {
		bySlot[o.ID] = o.Slot
	}
	for _, id := range out.ExteriorOptionIDs {
		slot, ok := bySlot[id]
		if !ok {
			return out, errors.Wrapf(models.ErrValidation, "option %s does not exist", id)
		}
		if !slot.IsExterior() {
			return out, errors.Wrapf(models.ErrValidation, "option %s (%s) is not an exterior option", id, slot)
		}
	}
	for _, id := range out.InteriorOptionIDs {
		slot, ok := bySlot[id]
		if !ok {
			return out, errors.Wrapf(models.ErrValidation, "option %s does not exist", id)
		}
		if !slot.IsInterior() {
			return out, errors.Wrapf(models.ErrValidation, "option %s (%s) is not an interior option", id, slot)
		}
	}

	packages, err := repos.Packages.GetByIDs(ctx, out.PackageIDs)
	if err != nil {
		return out, err
	}
	if len(packages) != len(out.PackageIDs) {
		return out, errors.Wrapf(models.ErrValidation, "%s", missingIDs("package", out.PackageIDs, packageIDs(packages)))
	}

	stickers, err := repos.Stickers.GetByIDs(ctx, out.StickerIDs)
	if err != nil {
		return out, err
	}
	if len(stickers) != len(out.StickerIDs) {
		return out, errors.Wrapf(models.ErrValidation, "%s", missingIDs("sticker", out.StickerIDs, stickerIDs(stickers)))
	}
	return out, nil
}

func (s *CatalogService) CreateOption(ctx context.Context, req *models.CreateOptionRequest) (*models.CustomizationOption, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	slot, err := models.ParseSlotKind(string(req.Slot))
	if err != nil {
		return nil, err
	}
	price, err := validPrice(req.Price, "option")
	if err != nil {
		return nil, err
	}
	color, ok := utils.NormalizeColorCode(req.ColorCode)
	if !ok {
		return nil, errors.Wrapf(models.ErrValidation, "invalid color code %q", req.ColorCode)
	}

	option := &models.CustomizationOption{
		ID:        uuid.New(),
		Slot:      slot,
		Title:     strings.TrimSpace(req.Title),
		ColorCode: color,
		Image:     strings.TrimSpace(req.Image),
		Price:     price,
		CreatedAt: s.now(),
	}
	if err := s.store.Repositories().Options.Insert(ctx, option); err != nil {
		log.Errorf("❌ CreateOption: Error creating %s option: %v", slot, err)
		return nil, err
	}
	log.Infof("✅ CreateOption: Successfully created option id=%s slot=%s price=%s", option.ID, option.Slot, option.Price)
	return option, nil
}

func (s *CatalogService) GetOption(ctx context.Context, id uuid.UUID) (*models.CustomizationOption, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	return s.store.Repositories().Options.GetByID(ctx, id)
}

func (s *CatalogService) ListOptions(ctx context.Context, slot *models.SlotKind) ([]models.CustomizationOption, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	if slot != nil && !slot.IsValid() {
		return nil, errors.Wrapf(models.ErrValidation, "unknown slot %q", *slot)
	}
	return s.store.Repositories().Options.List(ctx, slot)
}

func (s *CatalogService) DeleteOption(ctx context.Context, id uuid.UUID) error {
	return s.deleteSelectable(ctx, "option", id, func(repos *repository.Repositories) error {
		return repos.Options.Delete(ctx, id)
	}, func(repos *repository.Repositories) error {
		_, err := repos.Options.GetByID(ctx, id)
		return err
	})
}

func (s *CatalogService) CreatePackage(ctx context.Context, req *models.CreatePackageRequest) (*models.Package, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, errors.Wrap(models.ErrValidation, "package title is required")
	}
	price, err := validPrice(req.Price, "package")
	if err != nil {
		return nil, err
	}

	pkg := &models.Package{ID: uuid.New(), Title: title, Image: strings.TrimSpace(req.Image), Price: price, CreatedAt: s.now()}
	if err := s.store.Repositories().Packages.Insert(ctx, pkg); err != nil {
		log.Errorf("❌ CreatePackage: Error creating package %q: %v", title, err)
		return nil, err
	}
	log.Infof("✅ CreatePackage: Successfully created package id=%s", pkg.ID)
	return pkg, nil
}

func (s *CatalogService) GetPackage(ctx context.Context, id uuid.UUID) (*models.Package, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	return s.store.Repositories().Packages.GetByID(ctx, id)
}

func (s *CatalogService) ListPackages(ctx context.Context) ([]models.Package, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	return s.store.Repositories().Packages.List(ctx)
}

func (s *CatalogService) DeletePackage(ctx context.Context, id uuid.UUID) error {
	return s.deleteSelectable(ctx, "package", id, func(repos *repository.Repositories) error {
		return repos.Packages.Delete(ctx, id)
	}, func(repos *repository.Repositories) error {
		_, err := repos.Packages.GetByID(ctx, id)
		return err
	})
}

func (s *CatalogService) CreateSticker(ctx context.Context, req *models.CreateStickerRequest) (*models.Sticker, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	price, err := validPrice(req.Price, "sticker")
	if err != nil {
		return nil, err
	}
	sticker := &models.Sticker{
		ID:        uuid.New(),
		Text:      strings.TrimSpace(req.Text),
		Image:     strings.TrimSpace(req.Image),
		Price:     price,
		CreatedAt: s.now(),
	}
	if err := s.store.Repositories().Stickers.Insert(ctx, sticker); err != nil {
		log.Errorf("❌ CreateSticker: Error creating sticker: %v", err)
		return nil, err
	}
	log.Infof("✅ CreateSticker: Successfully created sticker id=%s", sticker.ID)
	return sticker, nil
}

func (s *CatalogService) GetSticker(ctx context.Context, id uuid.UUID) (*models.Sticker, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	return s.store.Repositories().Stickers.GetByID(ctx, id)
}

func (s *CatalogService) ListStickers(ctx context.Context) ([]models.Sticker, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	return s.store.Repositories().Stickers.List(ctx)
}

func (s *CatalogService) DeleteSticker(ctx context.Context, id uuid.UUID) error {
	return s.deleteSelectable(ctx, "sticker", id, func(repos *repository.Repositories) error {
		return repos.Stickers.Delete(ctx, id)
	}, func(repos *repository.Repositories) error {
		_, err := repos.Stickers.GetByID(ctx, id)
		return err
	})
}

// deleteSelectable deletes an option, package or sticker unless a year
// offers it or a configuration line uses it.
func (s *CatalogService) deleteSelectable(ctx context.Context, entity string, id uuid.UUID,
	del func(repos *repository.Repositories) error, exists func(repos *repository.Repositories) error) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	err := s.store.RunInTx(ctx, func(repos *repository.Repositories) error {
		if err := exists(repos); err != nil {
			return err
		}
		err := ensureUnreferenced(entity, id,
			reference{"year offering lists", func() (int, error) {
				return repos.Years.CountOfferingsOf(ctx, id)
			}},
			reference{"configurations", func() (int, error) {
				return repos.Configurations.Count(ctx, repository.ConfigurationFilter{ItemID: &id})
			}},
		)
		if err != nil {
			return err
		}
		return del(repos)
	})
	if err != nil {
		log.Errorf("❌ Delete: Error deleting %s %s: %v", entity, id, err)
		return err
	}
	log.Infof("✅ Delete: Successfully deleted %s id=%s", entity, id)
	return nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	name := utils.NormalizeName(req.Name)
	if name == "" {
		return nil, errors.Wrap(models.ErrValidation, "product name is required")
	}
	price, err := validPrice(req.Price, "product")
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:          uuid.New(),
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Image:       strings.TrimSpace(req.Image),
		Price:       price,
		CreatedAt:   s.now(),
	}
	if err := s.store.Repositories().Products.Insert(ctx, product); err != nil {
		log.Errorf("❌ CreateProduct: Error creating product %q: %v", name, err)
		return nil, err
	}
	log.Infof("✅ CreateProduct: Successfully created product id=%s price=%s", product.ID, product.Price)
	return product, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	return s.store.Repositories().Products.GetByID(ctx, id)
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	return s.store.Repositories().Products.List(ctx)
}

func (s *CatalogService) UpdateProductPrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) (*models.Product, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	price, err := validPrice(price, "product")
	if err != nil {
		return nil, err
	}

	var product *models.Product
	err = s.store.RunInTx(ctx, func(repos *repository.Repositories) error {
		if err := repos.Products.UpdatePrice(ctx, id, price); err != nil {
			return err
		}
		var err error
		product, err = repos.Products.GetByID(ctx, id)
		return err
	})
	if err != nil {
		log.Errorf("❌ UpdateProductPrice: Error updating product %s: %v", id, err)
		return nil, err
	}
	log.Infof("✅ UpdateProductPrice: product=%s price=%s", id, price.StringFixed(2))
	return product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	err := s.store.RunInTx(ctx, func(repos *repository.Repositories) error {
		if _, err := repos.Products.GetByID(ctx, id); err != nil {
			return err
		}
		err := ensureUnreferenced("product", id,
			reference{"compatibility rows", func() (int, error) {
				return repos.Compatibilities.Count(ctx, repository.CompatibilityFilter{ProductID: &id})
			}},
			reference{"orders", func() (int, error) {
				return repos.Orders.CountByProduct(ctx, id)
			}},
		)
		if err != nil {
			return err
		}
		return repos.Products.Delete(ctx, id)
	})
	if err != nil {
		log.Errorf("❌ DeleteProduct: Error deleting product %s: %v", id, err)
		return err
	}
	log.Infof("✅ DeleteProduct: Successfully deleted product id=%s", id)
	return nil
}

func packageIDs(list []models.Package) []uuid.UUID {
	ids := make([]uuid.UUID, len(list))
	for i, p := range list {
		ids[i] = p.ID
	}
	return ids
}

func stickerIDs(list []models.Sticker) []uuid.UUID {
	ids := make([]uuid.UUID, len(list))
	for i, st := range list {
		ids[i] = st.ID
	}
	return ids
}

// missingIDs describes the first wanted id absent from found
func missingIDs(entity string, wanted, found []uuid.UUID) string {
	have := make(map[uuid.UUID]bool, len(found))
	for _, id := range found {
		have[id] = true
	}
	for _, id := range wanted {
		if !have[id] {
			return entity + " " + id.String() + " does not exist"
		}
	}
	return entity + " list contains unknown ids"
}
