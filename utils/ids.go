package utils

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"carmod-configurator/models"
)

// ParseID parses a UUID taken from a path or query parameter.
// name is used in the error message ("make id", "productId", ...).
func ParseID(raw, name string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, errors.Wrapf(models.ErrValidation, "%s is required", name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.Wrapf(models.ErrValidation, "invalid %s %q", name, raw)
	}
	return id, nil
}

// ParseOptionalID is ParseID for filters: an empty value yields nil.
func ParseOptionalID(raw, name string) (*uuid.UUID, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	id, err := ParseID(raw, name)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// IDStrings converts ids to their string form, for uuid[] query parameters.
func IDStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
