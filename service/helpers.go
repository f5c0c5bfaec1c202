package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"carmod-configurator/models"
)

// DefaultTimeout bounds a service call when the constructor gets zero
const DefaultTimeout = 10 * time.Second

// withTimeout derives the per-call context. An already shorter deadline wins.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// referenced turns a NotFound on a referenced entity into a ValidationError:
// the caller sent a bad id, the resource they addressed still exists.
func referenced(err error, entity string, id uuid.UUID) error {
	if errors.Is(err, models.ErrNotFound) {
		return errors.Wrapf(models.ErrValidation, "%s %s does not exist", entity, id)
	}
	return err
}

func requireID(id uuid.UUID, name string) error {
	if id == uuid.Nil {
		return errors.Wrapf(models.ErrValidation, "%s is required", name)
	}
	return nil
}

func validPrice(price decimal.Decimal, entity string) (decimal.Decimal, error) {
	if price.IsNegative() {
		return decimal.Zero, errors.Wrapf(models.ErrValidation, "%s price cannot be negative", entity)
	}
	return price.Round(2), nil
}

func utcNow() time.Time {
	return time.Now().UTC()
}
