package service

import (
	"context"

	"github.com/google/uuid"

	"carmod-configurator/models"
)

// CompatibilityServiceInterface defines the product ↔ vehicle compatibility graph
type CompatibilityServiceInterface interface {
	AddCompatibility(ctx context.Context, req *models.AddCompatibilityRequest) (*models.Compatibility, error)
	// IsCompatible is true iff some row for (product, make, model) covers a year whose calendar year is year
	IsCompatible(ctx context.Context, productID, makeID, modelID uuid.UUID, year int) (bool, error)
	// CompatibleYears returns the union of covered calendar years across all matching rows, ascending
	CompatibleYears(ctx context.Context, productID, makeID, modelID uuid.UUID) ([]int, error)
	CompatibleProducts(ctx context.Context, makeID, modelID uuid.UUID, year int) ([]models.Product, error)
	ListCompatibilities(ctx context.Context, productID uuid.UUID) ([]models.Compatibility, error)
	DeleteCompatibility(ctx context.Context, id uuid.UUID) error
	// Invalidate drops the cached graph of one (make, model)
	Invalidate(makeID, modelID uuid.UUID)
	InvalidateAll()
}
