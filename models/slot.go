package models

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// SlotKind identifies a mutually exclusive customization slot.
// A configuration holds at most one option per slot.
type SlotKind string

const (
	SlotExteriorHood        SlotKind = "exterior-hood"
	SlotExteriorFrontBumper SlotKind = "exterior-front-bumper"
	SlotExteriorRearBumper  SlotKind = "exterior-rear-bumper"
	SlotExteriorSpoiler     SlotKind = "exterior-spoiler"
	SlotExteriorWheels      SlotKind = "exterior-wheels"
	SlotExteriorPaint       SlotKind = "exterior-paint"
	SlotExteriorSideSkirts  SlotKind = "exterior-side-skirts"
	SlotExteriorHeadlights  SlotKind = "exterior-headlights"
	SlotExteriorTaillights  SlotKind = "exterior-taillights"
	SlotExteriorGrille      SlotKind = "exterior-grille"
	SlotExteriorMirrors     SlotKind = "exterior-mirrors"
	SlotExteriorExhaust     SlotKind = "exterior-exhaust"
	SlotExteriorWindowTint  SlotKind = "exterior-window-tint"

	SlotInteriorSeatMaterial  SlotKind = "interior-seat-material"
	SlotInteriorSeatColor     SlotKind = "interior-seat-color"
	SlotInteriorSteeringWheel SlotKind = "interior-steering-wheel"
	SlotInteriorDashboard     SlotKind = "interior-dashboard"
	SlotInteriorTrim          SlotKind = "interior-trim"
	SlotInteriorFloorMats     SlotKind = "interior-floor-mats"
	SlotInteriorAmbientLights SlotKind = "interior-ambient-lighting"
	SlotInteriorHeadliner     SlotKind = "interior-headliner"
)

// SlotGroup is the side of the vehicle a slot belongs to.
type SlotGroup string

const (
	SlotGroupExterior SlotGroup = "exterior"
	SlotGroupInterior SlotGroup = "interior"
)

var slotGroups = map[SlotKind]SlotGroup{
	SlotExteriorHood:        SlotGroupExterior,
	SlotExteriorFrontBumper: SlotGroupExterior,
	SlotExteriorRearBumper:  SlotGroupExterior,
	SlotExteriorSpoiler:     SlotGroupExterior,
	SlotExteriorWheels:      SlotGroupExterior,
	SlotExteriorPaint:       SlotGroupExterior,
	SlotExteriorSideSkirts:  SlotGroupExterior,
	SlotExteriorHeadlights:  SlotGroupExterior,
	SlotExteriorTaillights:  SlotGroupExterior,
	SlotExteriorGrille:      SlotGroupExterior,
	SlotExteriorMirrors:     SlotGroupExterior,
	SlotExteriorExhaust:     SlotGroupExterior,
	SlotExteriorWindowTint:  SlotGroupExterior,

	SlotInteriorSeatMaterial:  SlotGroupInterior,
	SlotInteriorSeatColor:     SlotGroupInterior,
	SlotInteriorSteeringWheel: SlotGroupInterior,
	SlotInteriorDashboard:     SlotGroupInterior,
	SlotInteriorTrim:          SlotGroupInterior,
	SlotInteriorFloorMats:     SlotGroupInterior,
	SlotInteriorAmbientLights: SlotGroupInterior,
	SlotInteriorHeadliner:     SlotGroupInterior,
}

// IsValid reports whether s is one of the known slots.
func (s SlotKind) IsValid() bool {
	_, ok := slotGroups[s]
	return ok
}

// Group returns the slot's group, or "" for unknown slots.
func (s SlotKind) Group() SlotGroup {
	return slotGroups[s]
}

func (s SlotKind) IsExterior() bool { return s.Group() == SlotGroupExterior }
func (s SlotKind) IsInterior() bool { return s.Group() == SlotGroupInterior }

func (s SlotKind) String() string {
	return string(s)
}

// ParseSlotKind normalizes and validates a slot identifier.
func ParseSlotKind(raw string) (SlotKind, error) {
	slot := SlotKind(strings.ToLower(strings.TrimSpace(raw)))
	if !slot.IsValid() {
		return "", errors.Wrapf(ErrValidation, "unknown slot %q", raw)
	}
	return slot, nil
}

// AllSlots returns every known slot in a stable order.
func AllSlots() []SlotKind {
	slots := make([]SlotKind, 0, len(slotGroups))
	for slot := range slotGroups {
		slots = append(slots, slot)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })
	return slots
}
