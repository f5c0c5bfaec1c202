package controller

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"carmod-configurator/models"
	"carmod-configurator/service"
)

// ConfigurationController handles HTTP requests for customer configurations
type ConfigurationController struct {
	configurations service.ConfigurationServiceInterface
}

// NewConfigurationController creates a new ConfigurationController
func NewConfigurationController(configurations service.ConfigurationServiceInterface) *ConfigurationController {
	return &ConfigurationController{configurations: configurations}
}

// Create handles POST /configurations
// Example request:
// {
//   "customerId": "5d1e...",
//   "makeId": "6a0f...",
//   "modelId": "9b1c...",
//   "yearId": "1f2a...",
//   "selections": {
//     "options": [{"slot": "exterior-hood", "optionId": "0c7e..."}],
//     "packageIds": [],
//     "stickerIds": []
//   }
// }
// Example response: the configuration with selectedOptions, totalAmount "5000",
// bookingStatus "saved" and revision 1.
func (c *ConfigurationController) Create(w http.ResponseWriter, r *http.Request) {
	const op = "CreateConfiguration"
	log.Infof("📥 %s: Received %s request to %s", op, r.Method, r.URL.Path)

	var req models.SaveConfigurationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, op, err)
		return
	}
	cfg, err := c.configurations.CreateOrUpdateConfiguration(r.Context(), nil, &req)
	if err != nil {
		writeError(w, op, err)
		return
	}
	writeJSON(w, op, http.StatusCreated, cfg)
}

// Update handles PUT /configurations/{id}
// Same body as Create plus an optional "revision" for optimistic checks.
func (c *ConfigurationController) Update(w http.ResponseWriter, r *http.Request) {
	const op = "UpdateConfiguration"
	log.Infof("📥 %s: Received %s request to %s", op, r.Method, r.URL.Path)

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, op, err)
		return
	}
	var req models.SaveConfigurationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, op, err)
		return
	}
	cfg, err := c.configurations.CreateOrUpdateConfiguration(r.Context(), &id, &req)
	if err != nil {
		writeError(w, op, err)
		return
	}
	writeJSON(w, op, http.StatusOK, cfg)
}

// List handles GET /configurations?customerId=&status=saved
func (c *ConfigurationController) List(w http.ResponseWriter, r *http.Request) {
	const op = "ListConfigurations"
	log.Debugf("📥 %s: Received %s request to %s", op, r.Method, r.URL.String())

	customerID, err := queryID(r, "customerId")
	if err != nil {
		writeError(w, op, err)
		return
	}
	var status *models.ConfigurationStatus
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		parsed, err := models.ParseConfigurationStatus(strings.ToLower(raw))
		if err != nil {
			writeError(w, op, err)
			return
		}
		status = &parsed
	}

	list, err := c.configurations.ListConfigurations(r.Context(), customerID, status)
	if err != nil {
		writeError(w, op, err)
		return
	}
	writeJSON(w, op, http.StatusOK, list)
}

func (c *ConfigurationController) Get(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, "GetConfiguration", c.configurations.GetConfiguration)
}

// SelectOption handles PUT /configurations/{id}/options
// Example request: {"customerId": "5d1e...", "optionId": "0c7e..."}
func (c *ConfigurationController) SelectOption(w http.ResponseWriter, r *http.Request) {
	const op = "SelectOption"
	log.Infof("📥 %s: Received %s request to %s", op, r.Method, r.URL.Path)

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, op, err)
		return
	}
	var req models.SelectOptionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, op, err)
		return
	}
	cfg, err := c.configurations.SelectOption(r.Context(), req.CustomerID, id, req.OptionID)
	if err != nil {
		writeError(w, op, err)
		return
	}
	writeJSON(w, op, http.StatusOK, cfg)
}

// ClearSlot handles DELETE /configurations/{id}/options/{slot}?customerId=
func (c *ConfigurationController) ClearSlot(w http.ResponseWriter, r *http.Request) {
	const op = "ClearSlot"
	log.Infof("📥 %s: Received %s request to %s", op, r.Method, r.URL.Path)

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, op, err)
		return
	}
	customerID, err := queryID(r, "customerId")
	if err != nil {
		writeError(w, op, err)
		return
	}
	slot, err := models.ParseSlotKind(mux.Vars(r)["slot"])
	if err != nil {
		writeError(w, op, err)
		return
	}
	cfg, err := c.configurations.ClearSlot(r.Context(), customerID, id, slot)
	if err != nil {
		writeError(w, op, err)
		return
	}
	writeJSON(w, op, http.StatusOK, cfg)
}

// Cancel handles POST /configurations/{id}/cancel
// Example request: {"customerId": "5d1e..."}
func (c *ConfigurationController) Cancel(w http.ResponseWriter, r *http.Request) {
	const op = "CancelConfiguration"
	log.Infof("📥 %s: Received %s request to %s", op, r.Method, r.URL.Path)

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, op, err)
		return
	}
	var req models.CustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, op, err)
		return
	}
	cfg, err := c.configurations.CancelConfiguration(r.Context(), req.CustomerID, id)
	if err != nil {
		writeError(w, op, err)
		return
	}
	writeJSON(w, op, http.StatusOK, cfg)
}

// Delete handles DELETE /configurations/{id}?customerId=
func (c *ConfigurationController) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "DeleteConfiguration"
	log.Infof("📥 %s: Received %s request to %s", op, r.Method, r.URL.Path)

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, op, err)
		return
	}
	customerID, err := queryID(r, "customerId")
	if err != nil {
		writeError(w, op, err)
		return
	}
	if err := c.configurations.DeleteConfiguration(r.Context(), customerID, id); err != nil {
		writeError(w, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
