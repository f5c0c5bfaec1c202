// Package memory is an in-process repository.Store. It serves the dev
// server (STORE=memory) and the service tests.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"carmod-configurator/models"
	"carmod-configurator/repository"
)

// state is one complete snapshot of the data
type state struct {
	makes           map[uuid.UUID]models.Make
	models          map[uuid.UUID]models.VehicleModel
	years           map[uuid.UUID]models.Year
	options         map[uuid.UUID]models.CustomizationOption
	packages        map[uuid.UUID]models.Package
	stickers        map[uuid.UUID]models.Sticker
	products        map[uuid.UUID]models.Product
	compatibilities map[uuid.UUID]models.Compatibility
	configurations  map[uuid.UUID]models.Configuration
	bookings        map[uuid.UUID]models.Booking
	orders          map[uuid.UUID]models.Order
}

func newState() *state {
	return &state{
		makes:           map[uuid.UUID]models.Make{},
		models:          map[uuid.UUID]models.VehicleModel{},
		years:           map[uuid.UUID]models.Year{},
		options:         map[uuid.UUID]models.CustomizationOption{},
		packages:        map[uuid.UUID]models.Package{},
		stickers:        map[uuid.UUID]models.Sticker{},
		products:        map[uuid.UUID]models.Product{},
		compatibilities: map[uuid.UUID]models.Compatibility{},
		configurations:  map[uuid.UUID]models.Configuration{},
		bookings:        map[uuid.UUID]models.Booking{},
		orders:          map[uuid.UUID]models.Order{},
	}
}

// clone deep-copies the snapshot. Entity values are copied through the
// copyX helpers so no slice or pointer is shared between snapshots.
func (s *state) clone() *state {
	c := newState()
	for id, v := range s.makes {
		c.makes[id] = v
	}
	for id, v := range s.models {
		c.models[id] = v
	}
	for id, v := range s.years {
		c.years[id] = copyYear(v)
	}
	for id, v := range s.options {
		c.options[id] = v
	}
	for id, v := range s.packages {
		c.packages[id] = v
	}
	for id, v := range s.stickers {
		c.stickers[id] = v
	}
	for id, v := range s.products {
		c.products[id] = v
	}
	for id, v := range s.compatibilities {
		c.compatibilities[id] = copyCompatibility(v)
	}
	for id, v := range s.configurations {
		c.configurations[id] = copyConfiguration(v)
	}
	for id, v := range s.bookings {
		c.bookings[id] = copyBooking(v)
	}
	for id, v := range s.orders {
		c.orders[id] = copyOrder(v)
	}
	return c
}

// Store keeps the current snapshot behind a RWMutex. Transactions work on a
// private clone that replaces the snapshot only when fn succeeds.
type Store struct {
	mu    sync.RWMutex
	st    *state
	repos *repository.Repositories
}

var _ repository.Store = (*Store)(nil)

// NewStore creates an empty in-memory store
func NewStore() *Store {
	s := &Store{st: newState()}
	s.repos = newRepositories(&view{store: s})
	return s
}

func newRepositories(v *view) *repository.Repositories {
	return &repository.Repositories{
		Makes:           &MakeRepository{v},
		Models:          &ModelRepository{v},
		Years:           &YearRepository{v},
		Options:         &OptionRepository{v},
		Packages:        &PackageRepository{v},
		Stickers:        &StickerRepository{v},
		Products:        &ProductRepository{v},
		Compatibilities: &CompatibilityRepository{v},
		Configurations:  &ConfigurationRepository{v},
		Bookings:        &BookingRepository{v},
		Orders:          &OrderRepository{v},
	}
}

func (s *Store) Repositories() *repository.Repositories {
	return s.repos
}

// RunInTx holds the write lock for the whole unit of work, so transactions
// are serialised and plain reads wait for the commit.
func (s *Store) RunInTx(ctx context.Context, fn func(repos *repository.Repositories) error) error {
	if err := contextError(ctx, "RunInTx"); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.st.clone()
	if err := fn(newRepositories(&view{store: s, tx: tx})); err != nil {
		return err
	}
	// A caller that gave up mid-transaction gets a rollback, as in Postgres.
	if err := contextError(ctx, "RunInTx"); err != nil {
		return err
	}
	s.st = tx
	return nil
}

// view routes repository calls either to a transaction snapshot or to the
// shared snapshot under the store lock.
type view struct {
	store *Store
	tx    *state
}

func (v *view) read(ctx context.Context, op string, fn func(st *state) error) error {
	if err := contextError(ctx, op); err != nil {
		return err
	}
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.RLock()
	defer v.store.mu.RUnlock()
	return fn(v.store.st)
}

func (v *view) write(ctx context.Context, op string, fn func(st *state) error) error {
	if err := contextError(ctx, op); err != nil {
		return err
	}
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(v.store.st)
}

func contextError(ctx context.Context, op string) error {
	switch err := ctx.Err(); {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return errors.Wrapf(models.ErrTimeout, "%s: %v", op, err)
	default:
		return errors.Wrap(err, op)
	}
}

func notFound(op, entity string, id uuid.UUID) error {
	return errors.Wrapf(models.ErrNotFound, "%s: %s %s not found", op, entity, id)
}

func alreadyExists(op, entity string, id any) error {
	return errors.Wrapf(models.ErrValidation, "%s: %s %v already exists", op, entity, id)
}

func copyIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, len(ids))
	copy(out, ids)
	return out
}

func copyYear(y models.Year) models.Year {
	y.ExteriorOptionIDs = copyIDs(y.ExteriorOptionIDs)
	y.InteriorOptionIDs = copyIDs(y.InteriorOptionIDs)
	y.PackageIDs = copyIDs(y.PackageIDs)
	y.StickerIDs = copyIDs(y.StickerIDs)
	return y
}

func copyCompatibility(c models.Compatibility) models.Compatibility {
	c.YearIDs = copyIDs(c.YearIDs)
	return c
}

func copyConfiguration(c models.Configuration) models.Configuration {
	c.SelectedOptions = append([]models.SelectedOption{}, c.SelectedOptions...)
	c.SelectedPackages = append([]models.SelectedPackage{}, c.SelectedPackages...)
	c.SelectedStickers = append([]models.SelectedSticker{}, c.SelectedStickers...)
	return c
}

func copyBooking(b models.Booking) models.Booking {
	if b.ConfigurationID != nil {
		id := *b.ConfigurationID
		b.ConfigurationID = &id
	}
	if b.PaymentMethod != nil {
		method := *b.PaymentMethod
		b.PaymentMethod = &method
	}
	if b.PaymentStatus != nil {
		status := *b.PaymentStatus
		b.PaymentStatus = &status
	}
	return b
}

func copyOrder(o models.Order) models.Order {
	o.Lines = append([]models.OrderLine{}, o.Lines...)
	return o
}
