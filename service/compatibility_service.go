package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"carmod-configurator/models"
	"carmod-configurator/repository"
)

// CompatibilityService answers which products fit which vehicles.
// Implements CompatibilityServiceInterface
type CompatibilityService struct {
	store   repository.Store
	cache   *compatibilityCache
	timeout time.Duration
}

// NewCompatibilityService creates a new CompatibilityService. A zero ttl disables caching.
func NewCompatibilityService(store repository.Store, cacheTTL, timeout time.Duration) *CompatibilityService {
	return &CompatibilityService{
		store:   store,
		cache:   newCompatibilityCache(cacheTTL, timeout),
		timeout: timeout,
	}
}

// Ensure CompatibilityService implements CompatibilityServiceInterface
var _ CompatibilityServiceInterface = (*CompatibilityService)(nil)

// AddCompatibility validates the product and the vehicle hierarchy and stores one row.
// Overlapping rows for the same (product, make, model) are accepted.
func (s *CompatibilityService) AddCompatibility(ctx context.Context, req *models.AddCompatibilityRequest) (*models.Compatibility, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	log.Infof("📦 AddCompatibility: product=%s make=%s model=%s years=%d", req.ProductID, req.MakeID, req.ModelID, len(req.YearIDs))

	yearIDs := models.UniqueIDs(req.YearIDs)
	if len(yearIDs) == 0 {
		return nil, errors.Wrap(models.ErrValidation, "yearIds cannot be empty")
	}

	row := &models.Compatibility{
		ID:        uuid.New(),
		ProductID: req.ProductID,
		MakeID:    req.MakeID,
		ModelID:   req.ModelID,
		YearIDs:   yearIDs,
		CreatedAt: utcNow(),
	}

	err := s.store.RunInTx(ctx, func(repos *repository.Repositories) error {
		if _, err := repos.Products.GetByID(ctx, req.ProductID); err != nil {
			return referenced(err, "product", req.ProductID)
		}
		if _, err := repos.Makes.GetByID(ctx, req.MakeID); err != nil {
			return referenced(err, "make", req.MakeID)
		}
		model, err := repos.Models.GetByID(ctx, req.ModelID)
		if err != nil {
			return referenced(err, "model", req.ModelID)
		}
		if model.MakeID != req.MakeID {
			return errors.Wrapf(models.ErrValidation, "model %s does not belong to make %s", req.ModelID, req.MakeID)
		}

		years, err := repos.Years.GetByIDs(ctx, yearIDs)
		if err != nil {
			return err
		}
		found := make(map[uuid.UUID]models.Year, len(years))
		for _, y := range years {
			found[y.ID] = y
		}
		for _, yearID := range yearIDs {
			y, ok := found[yearID]
			if !ok {
				return errors.Wrapf(models.ErrValidation, "year %s does not exist", yearID)
			}
			if y.ModelID != req.ModelID {
				return errors.Wrapf(models.ErrValidation, "year %s does not belong to model %s", yearID, req.ModelID)
			}
		}

		return repos.Compatibilities.Insert(ctx, row)
	})
	if err != nil {
		log.Errorf("❌ AddCompatibility: Error adding compatibility for product %s: %v", req.ProductID, err)
		return nil, err
	}

	s.cache.invalidate(req.MakeID, req.ModelID)
	log.Infof("✅ AddCompatibility: Successfully added compatibility id=%s", row.ID)
	return row, nil
}

func (s *CompatibilityService) IsCompatible(ctx context.Context, productID, makeID, modelID uuid.UUID, year int) (bool, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	set, err := s.load(ctx, makeID, modelID)
	if err != nil {
		return false, err
	}
	return set.yearsFor(productID)[year], nil
}

func (s *CompatibilityService) CompatibleYears(ctx context.Context, productID, makeID, modelID uuid.UUID) ([]int, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	set, err := s.load(ctx, makeID, modelID)
	if err != nil {
		return nil, err
	}
	union := set.yearsFor(productID)
	years := make([]int, 0, len(union))
	for year := range union {
		years = append(years, year)
	}
	sort.Ints(years)
	return years, nil
}

func (s *CompatibilityService) CompatibleProducts(ctx context.Context, makeID, modelID uuid.UUID, year int) ([]models.Product, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	set, err := s.load(ctx, makeID, modelID)
	if err != nil {
		return nil, err
	}

	var productIDs []uuid.UUID
	seen := map[uuid.UUID]bool{}
	for _, row := range set.rows {
		if seen[row.ProductID] {
			continue
		}
		if set.yearsFor(row.ProductID)[year] {
			seen[row.ProductID] = true
			productIDs = append(productIDs, row.ProductID)
		}
	}
	if len(productIDs) == 0 {
		return []models.Product{}, nil
	}
	return s.store.Repositories().Products.GetByIDs(ctx, productIDs)
}

func (s *CompatibilityService) ListCompatibilities(ctx context.Context, productID uuid.UUID) ([]models.Compatibility, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if err := requireID(productID, "productId"); err != nil {
		return nil, err
	}
	return s.store.Repositories().Compatibilities.List(ctx, repository.CompatibilityFilter{ProductID: &productID})
}

func (s *CompatibilityService) DeleteCompatibility(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	var row *models.Compatibility
	err := s.store.RunInTx(ctx, func(repos *repository.Repositories) error {
		var err error
		row, err = repos.Compatibilities.GetByID(ctx, id)
		if err != nil {
			return err
		}
		return repos.Compatibilities.Delete(ctx, id)
	})
	if err != nil {
		log.Errorf("❌ DeleteCompatibility: Error deleting compatibility %s: %v", id, err)
		return err
	}

	s.cache.invalidate(row.MakeID, row.ModelID)
	log.Infof("✅ DeleteCompatibility: Successfully deleted compatibility id=%s", id)
	return nil
}

func (s *CompatibilityService) Invalidate(makeID, modelID uuid.UUID) {
	s.cache.invalidate(makeID, modelID)
}

func (s *CompatibilityService) InvalidateAll() {
	s.cache.invalidateAll()
}

func (s *CompatibilityService) load(ctx context.Context, makeID, modelID uuid.UUID) (*compatibilitySet, error) {
	if err := requireID(makeID, "makeId"); err != nil {
		return nil, err
	}
	if err := requireID(modelID, "modelId"); err != nil {
		return nil, err
	}

	return s.cache.get(ctx, makeID, modelID, func(ctx context.Context) (*compatibilitySet, error) {
		log.Debugf("🔍 CompatibilityService: loading graph for make=%s model=%s", makeID, modelID)
		repos := s.store.Repositories()

		rows, err := repos.Compatibilities.List(ctx, repository.CompatibilityFilter{MakeID: &makeID, ModelID: &modelID})
		if err != nil {
			return nil, err
		}
		var yearIDs []uuid.UUID
		for _, row := range rows {
			yearIDs = append(yearIDs, row.YearIDs...)
		}
		years, err := repos.Years.GetByIDs(ctx, models.UniqueIDs(yearIDs))
		if err != nil {
			return nil, err
		}

		set := &compatibilitySet{rows: rows, years: make(map[uuid.UUID]int, len(years))}
		for _, y := range years {
			set.years[y.ID] = y.Year
		}
		return set, nil
	})
}
