package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Make represents a vehicle manufacturer
type Make struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// VehicleModel represents a model line of a single make
type VehicleModel struct {
	ID        uuid.UUID `json:"id"`
	MakeID    uuid.UUID `json:"makeId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Year is a concrete (make, model, year) vehicle. Its offering lists decide
// which catalog entries a configuration for this vehicle may select.
type Year struct {
	ID                uuid.UUID   `json:"id"`
	ModelID           uuid.UUID   `json:"modelId"`
	Year              int         `json:"year"`
	VehicleImage      string      `json:"vehicleImage,omitempty"`
	CustomizerAsset   string      `json:"customizerAsset,omitempty"`
	ExteriorOptionIDs []uuid.UUID `json:"exteriorOptionIds"`
	InteriorOptionIDs []uuid.UUID `json:"interiorOptionIds"`
	PackageIDs        []uuid.UUID `json:"packageIds"`
	StickerIDs        []uuid.UUID `json:"stickerIds"`
	CreatedAt         time.Time   `json:"createdAt"`
}

// Offerings returns the year's offering lists.
func (y *Year) Offerings() YearOfferings {
	return YearOfferings{
		ExteriorOptionIDs: y.ExteriorOptionIDs,
		InteriorOptionIDs: y.InteriorOptionIDs,
		PackageIDs:        y.PackageIDs,
		StickerIDs:        y.StickerIDs,
	}
}

// OffersOption reports whether the option is listed as exterior or interior offering.
func (y *Year) OffersOption(optionID uuid.UUID) bool {
	return containsID(y.ExteriorOptionIDs, optionID) || containsID(y.InteriorOptionIDs, optionID)
}

func (y *Year) OffersPackage(packageID uuid.UUID) bool {
	return containsID(y.PackageIDs, packageID)
}

func (y *Year) OffersSticker(stickerID uuid.UUID) bool {
	return containsID(y.StickerIDs, stickerID)
}

// References reports whether id appears in any offering list.
func (y *Year) References(id uuid.UUID) bool {
	return y.OffersOption(id) || y.OffersPackage(id) || y.OffersSticker(id)
}

// YearOfferings groups the four offering lists of a Year
type YearOfferings struct {
	ExteriorOptionIDs []uuid.UUID `json:"exteriorOptionIds"`
	InteriorOptionIDs []uuid.UUID `json:"interiorOptionIds"`
	PackageIDs        []uuid.UUID `json:"packageIds"`
	StickerIDs        []uuid.UUID `json:"stickerIds"`
}

// CustomizationOption is a selectable option for exactly one slot
type CustomizationOption struct {
	ID        uuid.UUID       `json:"id"`
	Slot      SlotKind        `json:"type"`
	Title     string          `json:"title,omitempty"`
	ColorCode string          `json:"colorCode,omitempty"`
	Image     string          `json:"image,omitempty"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Package is a bundle that can be added to any configuration whose year offers it
type Package struct {
	ID        uuid.UUID       `json:"id"`
	Title     string          `json:"title"`
	Image     string          `json:"image,omitempty"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Sticker is a decal that can be added to any configuration whose year offers it
type Sticker struct {
	ID        uuid.UUID       `json:"id"`
	Text      string          `json:"text,omitempty"`
	Image     string          `json:"image,omitempty"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Product is a catalog part sold through orders
type Product struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Image       string          `json:"image,omitempty"`
	Price       decimal.Decimal `json:"price"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// CreateMakeRequest represents the request body for creating a make
// Example: {"name": "Toyota"}
type CreateMakeRequest struct {
	Name string `json:"name"`
}

// CreateModelRequest represents the request body for creating a model
// Example: {"makeId": "6a0f...", "name": "Supra"}
type CreateModelRequest struct {
	MakeID uuid.UUID `json:"makeId"`
	Name   string    `json:"name"`
}

// CreateYearRequest represents the request body for creating a year
// Example: {
//   "modelId": "9b1c...",
//   "year": 2022,
//   "vehicleImage": "vehicles/supra-2022.png",
//   "exteriorOptionIds": ["0c7e..."],
//   "interiorOptionIds": [],
//   "packageIds": [],
//   "stickerIds": []
// }
type CreateYearRequest struct {
	ModelID         uuid.UUID `json:"modelId"`
	Year            int       `json:"year"`
	VehicleImage    string    `json:"vehicleImage,omitempty"`
	CustomizerAsset string    `json:"customizerAsset,omitempty"`
	YearOfferings
}

// CreateOptionRequest represents the request body for creating a customization option
// Example: {"type": "exterior-hood", "title": "Carbon hood", "price": "5000"}
type CreateOptionRequest struct {
	Slot      SlotKind        `json:"type"`
	Title     string          `json:"title,omitempty"`
	ColorCode string          `json:"colorCode,omitempty"`
	Image     string          `json:"image,omitempty"`
	Price     decimal.Decimal `json:"price"`
}

// CreatePackageRequest represents the request body for creating a package
type CreatePackageRequest struct {
	Title string          `json:"title"`
	Image string          `json:"image,omitempty"`
	Price decimal.Decimal `json:"price"`
}

// CreateStickerRequest represents the request body for creating a sticker
type CreateStickerRequest struct {
	Text  string          `json:"text,omitempty"`
	Image string          `json:"image,omitempty"`
	Price decimal.Decimal `json:"price"`
}

// CreateProductRequest represents the request body for creating a product
// Example: {"name": "Cold air intake", "price": "349.99"}
type CreateProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Image       string          `json:"image,omitempty"`
	Price       decimal.Decimal `json:"price"`
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// UniqueIDs returns ids without duplicates, keeping first occurrence order.
func UniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
