package controller

import (
	"net/http"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"carmod-configurator/models"
	"carmod-configurator/service"
)

// CompatibilityController handles HTTP requests for product ↔ vehicle compatibility
type CompatibilityController struct {
	compatibility service.CompatibilityServiceInterface
}

// NewCompatibilityController creates a new CompatibilityController
func NewCompatibilityController(compatibility service.CompatibilityServiceInterface) *CompatibilityController {
	return &CompatibilityController{compatibility: compatibility}
}

// AddCompatibility handles POST /compatibility
// Example request:
// {
//   "productId": "c3d4...",
//   "makeId": "6a0f...",
//   "modelId": "9b1c...",
//   "yearIds": ["1f2a...", "2e3b..."]
// }
func (c *CompatibilityController) AddCompatibility(w http.ResponseWriter, r *http.Request) {
	create(w, r, "AddCompatibility", c.compatibility.AddCompatibility)
}

// Check handles GET /compatibility/check?productId=&makeId=&modelId=&year=2022
func (c *CompatibilityController) Check(w http.ResponseWriter, r *http.Request) {
	const op = "CheckCompatibility"
	log.Debugf("📥 %s: Received %s request to %s", op, r.Method, r.URL.String())

	productID, makeID, modelID, err := vehicleQuery(r, true)
	if err != nil {
		writeError(w, op, err)
		return
	}
	year, err := queryInt(r, "year")
	if err != nil {
		writeError(w, op, err)
		return
	}

	ok, err := c.compatibility.IsCompatible(r.Context(), productID, makeID, modelID, year)
	if err != nil {
		writeError(w, op, err)
		return
	}
	writeJSON(w, op, http.StatusOK, models.CompatibilityCheck{
		ProductID:  productID,
		MakeID:     makeID,
		ModelID:    modelID,
		Year:       year,
		Compatible: ok,
	})
}

// Years handles GET /compatibility/years?productId=&makeId=&modelId=
// Example response: {"years": [2020, 2021, 2022]}
func (c *CompatibilityController) Years(w http.ResponseWriter, r *http.Request) {
	const op = "CompatibleYears"
	log.Debugf("📥 %s: Received %s request to %s", op, r.Method, r.URL.String())

	productID, makeID, modelID, err := vehicleQuery(r, true)
	if err != nil {
		writeError(w, op, err)
		return
	}
	years, err := c.compatibility.CompatibleYears(r.Context(), productID, makeID, modelID)
	if err != nil {
		writeError(w, op, err)
		return
	}
	writeJSON(w, op, http.StatusOK, map[string][]int{"years": years})
}

// Products handles GET /compatibility/products?makeId=&modelId=&year=
func (c *CompatibilityController) Products(w http.ResponseWriter, r *http.Request) {
	const op = "CompatibleProducts"
	log.Debugf("📥 %s: Received %s request to %s", op, r.Method, r.URL.String())

	_, makeID, modelID, err := vehicleQuery(r, false)
	if err != nil {
		writeError(w, op, err)
		return
	}
	year, err := queryInt(r, "year")
	if err != nil {
		writeError(w, op, err)
		return
	}
	products, err := c.compatibility.CompatibleProducts(r.Context(), makeID, modelID, year)
	if err != nil {
		writeError(w, op, err)
		return
	}
	writeJSON(w, op, http.StatusOK, products)
}

// List handles GET /compatibility?productId=
func (c *CompatibilityController) List(w http.ResponseWriter, r *http.Request) {
	const op = "ListCompatibilities"
	log.Debugf("📥 %s: Received %s request to %s", op, r.Method, r.URL.String())

	productID, err := queryID(r, "productId")
	if err != nil {
		writeError(w, op, err)
		return
	}
	rows, err := c.compatibility.ListCompatibilities(r.Context(), productID)
	if err != nil {
		writeError(w, op, err)
		return
	}
	writeJSON(w, op, http.StatusOK, rows)
}

// Delete handles DELETE /compatibility/{id}
func (c *CompatibilityController) Delete(w http.ResponseWriter, r *http.Request) {
	deleteByID(w, r, "DeleteCompatibility", c.compatibility.DeleteCompatibility)
}

func vehicleQuery(r *http.Request, withProduct bool) (productID, makeID, modelID uuid.UUID, err error) {
	if withProduct {
		if productID, err = queryID(r, "productId"); err != nil {
			return
		}
	}
	if makeID, err = queryID(r, "makeId"); err != nil {
		return
	}
	modelID, err = queryID(r, "modelId")
	return
}
