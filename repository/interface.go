package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"carmod-configurator/models"
)

// MakeRepositoryInterface defines the contract for make storage
type MakeRepositoryInterface interface {
	Insert(ctx context.Context, m *models.Make) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Make, error)
	List(ctx context.Context) ([]models.Make, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ModelRepositoryInterface defines the contract for vehicle model storage
type ModelRepositoryInterface interface {
	Insert(ctx context.Context, model *models.VehicleModel) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.VehicleModel, error)
	ListByMake(ctx context.Context, makeID uuid.UUID) ([]models.VehicleModel, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// YearRepositoryInterface defines the contract for year storage, offering lists included
type YearRepositoryInterface interface {
	Insert(ctx context.Context, year *models.Year) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Year, error)
	ListByModel(ctx context.Context, modelID uuid.UUID) ([]models.Year, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Year, error)
	SetOfferings(ctx context.Context, id uuid.UUID, offerings models.YearOfferings) error
	// CountOfferingsOf counts the years whose offering lists contain itemID
	CountOfferingsOf(ctx context.Context, itemID uuid.UUID) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// OptionRepositoryInterface defines the contract for customization option storage
type OptionRepositoryInterface interface {
	Insert(ctx context.Context, option *models.CustomizationOption) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.CustomizationOption, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.CustomizationOption, error)
	// List returns every option, or only the slot's options when slot is set
	List(ctx context.Context, slot *models.SlotKind) ([]models.CustomizationOption, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PackageRepositoryInterface interface {
	Insert(ctx context.Context, pkg *models.Package) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Package, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Package, error)
	List(ctx context.Context) ([]models.Package, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type StickerRepositoryInterface interface {
	Insert(ctx context.Context, sticker *models.Sticker) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Sticker, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Sticker, error)
	List(ctx context.Context) ([]models.Sticker, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ProductRepositoryInterface interface {
	Insert(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	// UpdatePrice changes the catalog price; existing order snapshots are untouched
	UpdatePrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CompatibilityFilter narrows compatibility queries; nil fields match everything
type CompatibilityFilter struct {
	ProductID *uuid.UUID
	MakeID    *uuid.UUID
	ModelID   *uuid.UUID
	YearID    *uuid.UUID
}

// CompatibilityRepositoryInterface defines the contract for compatibility rows
type CompatibilityRepositoryInterface interface {
	Insert(ctx context.Context, c *models.Compatibility) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Compatibility, error)
	List(ctx context.Context, filter CompatibilityFilter) ([]models.Compatibility, error)
	Count(ctx context.Context, filter CompatibilityFilter) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ConfigurationFilter narrows configuration queries; nil fields match everything.
// ItemID matches configurations holding an option, package or sticker line for it.
type ConfigurationFilter struct {
	CustomerID *uuid.UUID
	Status     *models.ConfigurationStatus
	MakeID     *uuid.UUID
	ModelID    *uuid.UUID
	YearID     *uuid.UUID
	ItemID     *uuid.UUID
}

// ConfigurationRepositoryInterface defines the contract for configuration storage
type ConfigurationRepositoryInterface interface {
	Insert(ctx context.Context, c *models.Configuration) error
	// Update overwrites the stored row and its lines
	Update(ctx context.Context, c *models.Configuration) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Configuration, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Configuration, error)
	List(ctx context.Context, filter ConfigurationFilter) ([]models.Configuration, error)
	Count(ctx context.Context, filter ConfigurationFilter) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// BookingFilter narrows booking listings
type BookingFilter struct {
	CustomerID *uuid.UUID
	Status     *models.BookingStatus
}

type BookingRepositoryInterface interface {
	Insert(ctx context.Context, b *models.Booking) error
	Update(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]models.Booking, error)
	// CountByConfiguration counts bookings linked to the configuration
	CountByConfiguration(ctx context.Context, configurationID uuid.UUID) (int, error)
}

// OrderFilter narrows order listings
type OrderFilter struct {
	CustomerID *uuid.UUID
	Status     *models.OrderStatus
}

type OrderRepositoryInterface interface {
	Insert(ctx context.Context, o *models.Order) error
	// UpdateState writes status, payment status and updated_at; lines are immutable
	UpdateState(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	// CountByProduct counts orders with a line for the product
	CountByProduct(ctx context.Context, productID uuid.UUID) (int, error)
}

// Repositories groups every repository bound to the same connection or transaction
type Repositories struct {
	Makes           MakeRepositoryInterface
	Models          ModelRepositoryInterface
	Years           YearRepositoryInterface
	Options         OptionRepositoryInterface
	Packages        PackageRepositoryInterface
	Stickers        StickerRepositoryInterface
	Products        ProductRepositoryInterface
	Compatibilities CompatibilityRepositoryInterface
	Configurations  ConfigurationRepositoryInterface
	Bookings        BookingRepositoryInterface
	Orders          OrderRepositoryInterface
}

// Store hands out repositories and runs units of work.
// RunInTx commits when fn returns nil and rolls back otherwise; the
// repositories passed to fn must not be used after it returns.
type Store interface {
	Repositories() *Repositories
	RunInTx(ctx context.Context, fn func(repos *Repositories) error) error
}
