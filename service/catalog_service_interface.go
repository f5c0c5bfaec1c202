package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"carmod-configurator/models"
)

// CatalogServiceInterface defines the catalog store operations.
// Every Delete rejects with ErrReferentialConflict while the entity is referenced.
type CatalogServiceInterface interface {
	CreateMake(ctx context.Context, req *models.CreateMakeRequest) (*models.Make, error)
	GetMake(ctx context.Context, id uuid.UUID) (*models.Make, error)
	ListMakes(ctx context.Context) ([]models.Make, error)
	DeleteMake(ctx context.Context, id uuid.UUID) error

	CreateModel(ctx context.Context, req *models.CreateModelRequest) (*models.VehicleModel, error)
	GetModel(ctx context.Context, id uuid.UUID) (*models.VehicleModel, error)
	ListModelsByMake(ctx context.Context, makeID uuid.UUID) ([]models.VehicleModel, error)
	DeleteModel(ctx context.Context, id uuid.UUID) error

	CreateYear(ctx context.Context, req *models.CreateYearRequest) (*models.Year, error)
	GetYear(ctx context.Context, id uuid.UUID) (*models.Year, error)
	ListYearsByModel(ctx context.Context, modelID uuid.UUID) ([]models.Year, error)
	// SetYearOfferings replaces the four offering lists after validating them
	SetYearOfferings(ctx context.Context, id uuid.UUID, offerings models.YearOfferings) (*models.Year, error)
	DeleteYear(ctx context.Context, id uuid.UUID) error

	CreateOption(ctx context.Context, req *models.CreateOptionRequest) (*models.CustomizationOption, error)
	GetOption(ctx context.Context, id uuid.UUID) (*models.CustomizationOption, error)
	ListOptions(ctx context.Context, slot *models.SlotKind) ([]models.CustomizationOption, error)
	DeleteOption(ctx context.Context, id uuid.UUID) error

	CreatePackage(ctx context.Context, req *models.CreatePackageRequest) (*models.Package, error)
	GetPackage(ctx context.Context, id uuid.UUID) (*models.Package, error)
	ListPackages(ctx context.Context) ([]models.Package, error)
	DeletePackage(ctx context.Context, id uuid.UUID) error

	CreateSticker(ctx context.Context, req *models.CreateStickerRequest) (*models.Sticker, error)
	GetSticker(ctx context.Context, id uuid.UUID) (*models.Sticker, error)
	ListStickers(ctx context.Context) ([]models.Sticker, error)
	DeleteSticker(ctx context.Context, id uuid.UUID) error

	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	// UpdateProductPrice changes the catalog price; placed orders keep their snapshot
	UpdateProductPrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

// cacheInvalidator is the part of the compatibility service catalog writes need
type cacheInvalidator interface {
	Invalidate(makeID, modelID uuid.UUID)
	InvalidateAll()
}
