package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ConfigurationStatus is the lifecycle status of a configuration
type ConfigurationStatus string

const (
	ConfigurationSaved     ConfigurationStatus = "saved"
	ConfigurationPending   ConfigurationStatus = "pending"
	ConfigurationConfirmed ConfigurationStatus = "confirmed"
	ConfigurationCancelled ConfigurationStatus = "cancelled"
)

var configurationTransitions = map[ConfigurationStatus][]ConfigurationStatus{
	ConfigurationSaved:     {ConfigurationPending, ConfigurationCancelled},
	ConfigurationPending:   {ConfigurationConfirmed, ConfigurationCancelled},
	ConfigurationConfirmed: {},
	ConfigurationCancelled: {},
}

func (s ConfigurationStatus) IsValid() bool {
	_, ok := configurationTransitions[s]
	return ok
}

// CanTransitionTo returns true if moving from s to target is allowed.
func (s ConfigurationStatus) CanTransitionTo(target ConfigurationStatus) bool {
	for _, allowed := range configurationTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

func (s ConfigurationStatus) IsTerminal() bool {
	return len(configurationTransitions[s]) == 0
}

func (s ConfigurationStatus) String() string {
	return string(s)
}

// ParseConfigurationStatus converts a string to a ConfigurationStatus
func ParseConfigurationStatus(raw string) (ConfigurationStatus, error) {
	status := ConfigurationStatus(raw)
	if !status.IsValid() {
		return "", errors.Wrapf(ErrValidation, "invalid configuration status %q", raw)
	}
	return status, nil
}

// SelectedOption is a priced line for one slot
type SelectedOption struct {
	OptionID uuid.UUID       `json:"slotOptionId"`
	Slot     SlotKind        `json:"slot"`
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
}

// SelectedPackage is a priced package line
type SelectedPackage struct {
	PackageID uuid.UUID       `json:"packageId"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
}

// SelectedSticker is a priced sticker line
type SelectedSticker struct {
	StickerID uuid.UUID       `json:"stickerId"`
	Text      string          `json:"text"`
	Price     decimal.Decimal `json:"price"`
}

// Configuration is a customer's priced set of selections for one vehicle.
// TotalAmount is always derived from the selected lines.
type Configuration struct {
	ID               uuid.UUID           `json:"id"`
	CustomerID       uuid.UUID           `json:"customerId"`
	MakeID           uuid.UUID           `json:"makeId"`
	ModelID          uuid.UUID           `json:"modelId"`
	YearID           uuid.UUID           `json:"yearId"`
	SelectedOptions  []SelectedOption    `json:"selectedOptions"`
	SelectedPackages []SelectedPackage   `json:"selectedPackages"`
	SelectedStickers []SelectedSticker   `json:"selectedStickers"`
	TotalAmount      decimal.Decimal     `json:"totalAmount"`
	BookingStatus    ConfigurationStatus `json:"bookingStatus"`
	Notes            string              `json:"notes,omitempty"`
	Revision         int                 `json:"revision"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

// OptionFor returns the selected option for slot, if any.
func (c *Configuration) OptionFor(slot SlotKind) (SelectedOption, bool) {
	for _, opt := range c.SelectedOptions {
		if opt.Slot == slot {
			return opt, true
		}
	}
	return SelectedOption{}, false
}

// References reports whether any line points at the catalog id.
func (c *Configuration) References(id uuid.UUID) bool {
	for _, opt := range c.SelectedOptions {
		if opt.OptionID == id {
			return true
		}
	}
	for _, pkg := range c.SelectedPackages {
		if pkg.PackageID == id {
			return true
		}
	}
	for _, st := range c.SelectedStickers {
		if st.StickerID == id {
			return true
		}
	}
	return false
}

// Selections returns the selection set that reproduces the configuration's lines.
func (c *Configuration) Selections() Selections {
	sel := Selections{
		Options:    make([]OptionSelection, 0, len(c.SelectedOptions)),
		PackageIDs: make([]uuid.UUID, 0, len(c.SelectedPackages)),
		StickerIDs: make([]uuid.UUID, 0, len(c.SelectedStickers)),
	}
	for _, opt := range c.SelectedOptions {
		sel.Options = append(sel.Options, OptionSelection{Slot: opt.Slot, OptionID: opt.OptionID})
	}
	for _, pkg := range c.SelectedPackages {
		sel.PackageIDs = append(sel.PackageIDs, pkg.PackageID)
	}
	for _, st := range c.SelectedStickers {
		sel.StickerIDs = append(sel.StickerIDs, st.StickerID)
	}
	return sel
}

// OptionSelection picks one option for one slot
type OptionSelection struct {
	Slot     SlotKind  `json:"slot"`
	OptionID uuid.UUID `json:"optionId"`
}

// Selections is the customer's raw choice. Options are applied in order, so a
// later entry for a slot replaces an earlier one.
type Selections struct {
	Options    []OptionSelection `json:"options"`
	PackageIDs []uuid.UUID       `json:"packageIds"`
	StickerIDs []uuid.UUID       `json:"stickerIds"`
}

// SaveConfigurationRequest represents the body of POST/PUT /configurations
// Example: {
//   "customerId": "5d1e...",
//   "makeId": "6a0f...",
//   "modelId": "9b1c...",
//   "yearId": "1f2a...",
//   "selections": {
//     "options": [{"slot": "exterior-hood", "optionId": "0c7e..."}],
//     "packageIds": [],
//     "stickerIds": []
//   },
//   "notes": "matte finish please",
//   "revision": 3
// }
// revision is optional; when present the write is rejected if the stored
// configuration has moved on.
type SaveConfigurationRequest struct {
	CustomerID uuid.UUID  `json:"customerId"`
	MakeID     uuid.UUID  `json:"makeId"`
	ModelID    uuid.UUID  `json:"modelId"`
	YearID     uuid.UUID  `json:"yearId"`
	Selections Selections `json:"selections"`
	Notes      string     `json:"notes,omitempty"`
	Revision   *int       `json:"revision,omitempty"`
}

// SelectOptionRequest represents the body of PUT /configurations/{id}/options
type SelectOptionRequest struct {
	CustomerID uuid.UUID `json:"customerId"`
	OptionID   uuid.UUID `json:"optionId"`
}

// CustomerRequest carries the acting customer for customer-only actions
type CustomerRequest struct {
	CustomerID uuid.UUID `json:"customerId"`
}
