package controller

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"carmod-configurator/models"
	"carmod-configurator/service"
)

// CatalogController handles HTTP requests for the vehicle and parts catalog
type CatalogController struct {
	catalog service.CatalogServiceInterface
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(catalog service.CatalogServiceInterface) *CatalogController {
	return &CatalogController{catalog: catalog}
}

// getByID serves GET /.../{id}
func getByID[T any](w http.ResponseWriter, r *http.Request, op string, get func(ctx context.Context, id uuid.UUID) (T, error)) {
	log.Debugf("📥 %s: Received %s request to %s", op, r.Method, r.URL.Path)

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, op, err)
		return
	}
	entity, err := get(r.Context(), id)
	if err != nil {
		writeError(w, op, err)
		return
	}
	writeJSON(w, op, http.StatusOK, entity)
}

// deleteByID serves DELETE /.../{id}
func deleteByID(w http.ResponseWriter, r *http.Request, op string, del func(ctx context.Context, id uuid.UUID) error) {
	log.Infof("📥 %s: Received %s request to %s", op, r.Method, r.URL.Path)

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, op, err)
		return
	}
	if err := del(r.Context(), id); err != nil {
		writeError(w, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// create decodes the body into req and answers 201 with the created entity
func create[Req any, T any](w http.ResponseWriter, r *http.Request, op string, fn func(ctx context.Context, req *Req) (T, error)) {
	log.Infof("📥 %s: Received %s request to %s", op, r.Method, r.URL.Path)

	var req Req
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, op, err)
		return
	}
	entity, err := fn(r.Context(), &req)
	if err != nil {
		writeError(w, op, err)
		return
	}
	writeJSON(w, op, http.StatusCreated, entity)
}

func list[T any](w http.ResponseWriter, r *http.Request, op string, fn func(ctx context.Context) ([]T, error)) {
	log.Debugf("📥 %s: Received %s request to %s", op, r.Method, r.URL.Path)

	items, err := fn(r.Context())
	if err != nil {
		writeError(w, op, err)
		return
	}
	writeJSON(w, op, http.StatusOK, items)
}

// CreateMake handles POST /catalog/makes
// Example request: {"name": "Toyota"}
func (c *CatalogController) CreateMake(w http.ResponseWriter, r *http.Request) {
	create(w, r, "CreateMake", c.catalog.CreateMake)
}

// ListMakes handles GET /catalog/makes
func (c *CatalogController) ListMakes(w http.ResponseWriter, r *http.Request) {
	list(w, r, "ListMakes", c.catalog.ListMakes)
}

func (c *CatalogController) GetMake(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, "GetMake", c.catalog.GetMake)
}

func (c *CatalogController) DeleteMake(w http.ResponseWriter, r *http.Request) {
	deleteByID(w, r, "DeleteMake", c.catalog.DeleteMake)
}

// ListModelsByMake handles GET /catalog/makes/{id}/models
func (c *CatalogController) ListModelsByMake(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, "ListModelsByMake", c.catalog.ListModelsByMake)
}

// CreateModel handles POST /catalog/models
// Example request: {"makeId": "6a0f...", "name": "Supra"}
func (c *CatalogController) CreateModel(w http.ResponseWriter, r *http.Request) {
	create(w, r, "CreateModel", c.catalog.CreateModel)
}

func (c *CatalogController) GetModel(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, "GetModel", c.catalog.GetModel)
}

func (c *CatalogController) DeleteModel(w http.ResponseWriter, r *http.Request) {
	deleteByID(w, r, "DeleteModel", c.catalog.DeleteModel)
}

// ListYearsByModel handles GET /catalog/models/{id}/years
func (c *CatalogController) ListYearsByModel(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, "ListYearsByModel", c.catalog.ListYearsByModel)
}

// CreateYear handles POST /catalog/years
// Example request:
// {
//   "modelId": "9b1c...",
//   "year": 2022,
//   "exteriorOptionIds": ["0c7e..."],
//   "interiorOptionIds": [],
//   "packageIds": ["4d2b..."],
//   "stickerIds": []
// }
func (c *CatalogController) CreateYear(w http.ResponseWriter, r *http.Request) {
	create(w, r, "CreateYear", c.catalog.CreateYear)
}

func (c *CatalogController) GetYear(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, "GetYear", c.catalog.GetYear)
}

func (c *CatalogController) DeleteYear(w http.ResponseWriter, r *http.Request) {
	deleteByID(w, r, "DeleteYear", c.catalog.DeleteYear)
}

// SetYearOfferings handles PUT /catalog/years/{id}/offerings
// The body replaces all four lists; omitted lists become empty.
func (c *CatalogController) SetYearOfferings(w http.ResponseWriter, r *http.Request) {
	const op = "SetYearOfferings"
	log.Infof("📥 %s: Received %s request to %s", op, r.Method, r.URL.Path)

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, op, err)
		return
	}
	var req models.YearOfferings
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, op, err)
		return
	}
	year, err := c.catalog.SetYearOfferings(r.Context(), id, req)
	if err != nil {
		writeError(w, op, err)
		return
	}
	writeJSON(w, op, http.StatusOK, year)
}

// CreateOption handles POST /catalog/options
// Example request: {"type": "exterior-hood", "title": "Carbon hood", "price": "5000"}
func (c *CatalogController) CreateOption(w http.ResponseWriter, r *http.Request) {
	create(w, r, "CreateOption", c.catalog.CreateOption)
}

// ListOptions handles GET /catalog/options?slot=exterior-hood
func (c *CatalogController) ListOptions(w http.ResponseWriter, r *http.Request) {
	const op = "ListOptions"
	log.Debugf("📥 %s: Received %s request to %s", op, r.Method, r.URL.Path)

	var slot *models.SlotKind
	if raw := strings.TrimSpace(r.URL.Query().Get("slot")); raw != "" {
		parsed, err := models.ParseSlotKind(raw)
		if err != nil {
			writeError(w, op, err)
			return
		}
		slot = &parsed
	}
	options, err := c.catalog.ListOptions(r.Context(), slot)
	if err != nil {
		writeError(w, op, err)
		return
	}
	writeJSON(w, op, http.StatusOK, options)
}

func (c *CatalogController) GetOption(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, "GetOption", c.catalog.GetOption)
}

func (c *CatalogController) DeleteOption(w http.ResponseWriter, r *http.Request) {
	deleteByID(w, r, "DeleteOption", c.catalog.DeleteOption)
}

func (c *CatalogController) CreatePackage(w http.ResponseWriter, r *http.Request) {
	create(w, r, "CreatePackage", c.catalog.CreatePackage)
}

func (c *CatalogController) ListPackages(w http.ResponseWriter, r *http.Request) {
	list(w, r, "ListPackages", c.catalog.ListPackages)
}

func (c *CatalogController) GetPackage(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, "GetPackage", c.catalog.GetPackage)
}

func (c *CatalogController) DeletePackage(w http.ResponseWriter, r *http.Request) {
	deleteByID(w, r, "DeletePackage", c.catalog.DeletePackage)
}

func (c *CatalogController) CreateSticker(w http.ResponseWriter, r *http.Request) {
	create(w, r, "CreateSticker", c.catalog.CreateSticker)
}

func (c *CatalogController) ListStickers(w http.ResponseWriter, r *http.Request) {
	list(w, r, "ListStickers", c.catalog.ListStickers)
}

func (c *CatalogController) GetSticker(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, "GetSticker", c.catalog.GetSticker)
}

func (c *CatalogController) DeleteSticker(w http.ResponseWriter, r *http.Request) {
	deleteByID(w, r, "DeleteSticker", c.catalog.DeleteSticker)
}

// CreateProduct handles POST /catalog/products
// Example request: {"name": "Cold air intake", "description": "Stage 1", "price": "349.99"}
func (c *CatalogController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	create(w, r, "CreateProduct", c.catalog.CreateProduct)
}

func (c *CatalogController) ListProducts(w http.ResponseWriter, r *http.Request) {
	list(w, r, "ListProducts", c.catalog.ListProducts)
}

func (c *CatalogController) GetProduct(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, "GetProduct", c.catalog.GetProduct)
}

func (c *CatalogController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	deleteByID(w, r, "DeleteProduct", c.catalog.DeleteProduct)
}

// UpdateProductPriceRequest is the body of PUT /catalog/products/{id}/price
// Example: {"price": "379.00"}
type UpdateProductPriceRequest struct {
	Price *decimal.Decimal `json:"price"`
}

// UpdateProductPrice handles PUT /catalog/products/{id}/price
func (c *CatalogController) UpdateProductPrice(w http.ResponseWriter, r *http.Request) {
	const op = "UpdateProductPrice"
	log.Infof("📥 %s: Received %s request to %s", op, r.Method, r.URL.Path)

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, op, err)
		return
	}
	var req UpdateProductPriceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, op, err)
		return
	}
	if req.Price == nil {
		writeError(w, op, validationError("price is required"))
		return
	}
	product, err := c.catalog.UpdateProductPrice(r.Context(), id, *req.Price)
	if err != nil {
		writeError(w, op, err)
		return
	}
	writeJSON(w, op, http.StatusOK, product)
}
