package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"carmod-configurator/models"
	"carmod-configurator/repository"
)

type CompatibilityRepository struct{ v *view }

var _ repository.CompatibilityRepositoryInterface = (*CompatibilityRepository)(nil)

func (r *CompatibilityRepository) Insert(ctx context.Context, c *models.Compatibility) error {
	return r.v.write(ctx, "Insert", func(st *state) error {
		if _, ok := st.compatibilities[c.ID]; ok {
			return alreadyExists("Insert", "compatibility", c.ID)
		}
		st.compatibilities[c.ID] = copyCompatibility(*c)
		return nil
	})
}

func (r *CompatibilityRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Compatibility, error) {
	var out models.Compatibility
	err := r.v.read(ctx, "GetByID", func(st *state) error {
		c, ok := st.compatibilities[id]
		if !ok {
			return notFound("GetByID", "compatibility", id)
		}
		out = copyCompatibility(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func matchesCompatibility(c models.Compatibility, f repository.CompatibilityFilter) bool {
	switch {
	case f.ProductID != nil && c.ProductID != *f.ProductID:
		return false
	case f.MakeID != nil && c.MakeID != *f.MakeID:
		return false
	case f.ModelID != nil && c.ModelID != *f.ModelID:
		return false
	case f.YearID != nil && !c.Covers(*f.YearID):
		return false
	}
	return true
}

func (r *CompatibilityRepository) List(ctx context.Context, filter repository.CompatibilityFilter) ([]models.Compatibility, error) {
	out := []models.Compatibility{}
	err := r.v.read(ctx, "List", func(st *state) error {
		for _, c := range st.compatibilities {
			if matchesCompatibility(c, filter) {
				out = append(out, copyCompatibility(c))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, err
}

func (r *CompatibilityRepository) Count(ctx context.Context, filter repository.CompatibilityFilter) (int, error) {
	n := 0
	err := r.v.read(ctx, "Count", func(st *state) error {
		for _, c := range st.compatibilities {
			if matchesCompatibility(c, filter) {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *CompatibilityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.v.write(ctx, "Delete", func(st *state) error {
		if _, ok := st.compatibilities[id]; !ok {
			return notFound("Delete", "compatibility", id)
		}
		delete(st.compatibilities, id)
		return nil
	})
}

type ConfigurationRepository struct{ v *view }

var _ repository.ConfigurationRepositoryInterface = (*ConfigurationRepository)(nil)

func (r *ConfigurationRepository) Insert(ctx context.Context, c *models.Configuration) error {
	return r.v.write(ctx, "Insert", func(st *state) error {
		if _, ok := st.configurations[c.ID]; ok {
			return alreadyExists("Insert", "configuration", c.ID)
		}
		st.configurations[c.ID] = copyConfiguration(*c)
		return nil
	})
}

func (r *ConfigurationRepository) Update(ctx context.Context, c *models.Configuration) error {
	return r.v.write(ctx, "Update", func(st *state) error {
		stored, ok := st.configurations[c.ID]
		if !ok {
			return notFound("Update", "configuration", c.ID)
		}
		updated := copyConfiguration(*c)
		updated.CustomerID = stored.CustomerID
		updated.CreatedAt = stored.CreatedAt
		st.configurations[c.ID] = updated
		return nil
	})
}

func (r *ConfigurationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Configuration, error) {
	return r.get(ctx, "GetByID", id)
}

// GetByIDForUpdate needs no row lock here: transactions already run one at a time.
func (r *ConfigurationRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Configuration, error) {
	return r.get(ctx, "GetByIDForUpdate", id)
}

func (r *ConfigurationRepository) get(ctx context.Context, op string, id uuid.UUID) (*models.Configuration, error) {
	var out models.Configuration
	err := r.v.read(ctx, op, func(st *state) error {
		c, ok := st.configurations[id]
		if !ok {
			return notFound(op, "configuration", id)
		}
		out = copyConfiguration(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func matchesConfiguration(c models.Configuration, f repository.ConfigurationFilter) bool {
	switch {
	case f.CustomerID != nil && c.CustomerID != *f.CustomerID:
		return false
	case f.Status != nil && c.BookingStatus != *f.Status:
		return false
	case f.MakeID != nil && c.MakeID != *f.MakeID:
		return false
	case f.ModelID != nil && c.ModelID != *f.ModelID:
		return false
	case f.YearID != nil && c.YearID != *f.YearID:
		return false
	case f.ItemID != nil && !c.References(*f.ItemID):
		return false
	}
	return true
}

func (r *ConfigurationRepository) List(ctx context.Context, filter repository.ConfigurationFilter) ([]models.Configuration, error) {
	out := []models.Configuration{}
	err := r.v.read(ctx, "List", func(st *state) error {
		for _, c := range st.configurations {
			if matchesConfiguration(c, filter) {
				out = append(out, copyConfiguration(c))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, err
}

func (r *ConfigurationRepository) Count(ctx context.Context, filter repository.ConfigurationFilter) (int, error) {
	n := 0
	err := r.v.read(ctx, "Count", func(st *state) error {
		for _, c := range st.configurations {
			if matchesConfiguration(c, filter) {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *ConfigurationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.v.write(ctx, "Delete", func(st *state) error {
		if _, ok := st.configurations[id]; !ok {
			return notFound("Delete", "configuration", id)
		}
		delete(st.configurations, id)
		return nil
	})
}

type BookingRepository struct{ v *view }

var _ repository.BookingRepositoryInterface = (*BookingRepository)(nil)

func (r *BookingRepository) Insert(ctx context.Context, b *models.Booking) error {
	return r.v.write(ctx, "Insert", func(st *state) error {
		if _, ok := st.bookings[b.ID]; ok {
			return alreadyExists("Insert", "booking", b.ID)
		}
		st.bookings[b.ID] = copyBooking(*b)
		return nil
	})
}

func (r *BookingRepository) Update(ctx context.Context, b *models.Booking) error {
	return r.v.write(ctx, "Update", func(st *state) error {
		stored, ok := st.bookings[b.ID]
		if !ok {
			return notFound("Update", "booking", b.ID)
		}
		updated := copyBooking(*b)
		stored.BookingStatus = updated.BookingStatus
		stored.PaymentMethod = updated.PaymentMethod
		stored.PaymentStatus = updated.PaymentStatus
		stored.Notes = updated.Notes
		stored.UpdatedAt = updated.UpdatedAt
		st.bookings[b.ID] = stored
		return nil
	})
}

func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return r.get(ctx, "GetByID", id)
}

func (r *BookingRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return r.get(ctx, "GetByIDForUpdate", id)
}

func (r *BookingRepository) get(ctx context.Context, op string, id uuid.UUID) (*models.Booking, error) {
	var out models.Booking
	err := r.v.read(ctx, op, func(st *state) error {
		b, ok := st.bookings[id]
		if !ok {
			return notFound(op, "booking", id)
		}
		out = copyBooking(b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *BookingRepository) List(ctx context.Context, filter repository.BookingFilter) ([]models.Booking, error) {
	out := []models.Booking{}
	err := r.v.read(ctx, "List", func(st *state) error {
		for _, b := range st.bookings {
			if filter.CustomerID != nil && b.CustomerID != *filter.CustomerID {
				continue
			}
			if filter.Status != nil && b.BookingStatus != *filter.Status {
				continue
			}
			out = append(out, copyBooking(b))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].BookingDate.Equal(out[j].BookingDate) {
			return out[i].BookingDate.After(out[j].BookingDate)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, err
}

func (r *BookingRepository) CountByConfiguration(ctx context.Context, configurationID uuid.UUID) (int, error) {
	n := 0
	err := r.v.read(ctx, "CountByConfiguration", func(st *state) error {
		for _, b := range st.bookings {
			if b.ConfigurationID != nil && *b.ConfigurationID == configurationID {
				n++
			}
		}
		return nil
	})
	return n, err
}

type OrderRepository struct{ v *view }

var _ repository.OrderRepositoryInterface = (*OrderRepository)(nil)

func (r *OrderRepository) Insert(ctx context.Context, o *models.Order) error {
	return r.v.write(ctx, "Insert", func(st *state) error {
		if _, ok := st.orders[o.ID]; ok {
			return alreadyExists("Insert", "order", o.ID)
		}
		st.orders[o.ID] = copyOrder(*o)
		return nil
	})
}

func (r *OrderRepository) UpdateState(ctx context.Context, o *models.Order) error {
	return r.v.write(ctx, "UpdateState", func(st *state) error {
		stored, ok := st.orders[o.ID]
		if !ok {
			return notFound("UpdateState", "order", o.ID)
		}
		stored.OrderStatus = o.OrderStatus
		stored.PaymentStatus = o.PaymentStatus
		stored.UpdatedAt = o.UpdatedAt
		st.orders[o.ID] = stored
		return nil
	})
}

func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return r.get(ctx, "GetByID", id)
}

func (r *OrderRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return r.get(ctx, "GetByIDForUpdate", id)
}

func (r *OrderRepository) get(ctx context.Context, op string, id uuid.UUID) (*models.Order, error) {
	var out models.Order
	err := r.v.read(ctx, op, func(st *state) error {
		o, ok := st.orders[id]
		if !ok {
			return notFound(op, "order", id)
		}
		out = copyOrder(o)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *OrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]models.Order, error) {
	out := []models.Order{}
	err := r.v.read(ctx, "List", func(st *state) error {
		for _, o := range st.orders {
			if filter.CustomerID != nil && o.CustomerID != *filter.CustomerID {
				continue
			}
			if filter.Status != nil && o.OrderStatus != *filter.Status {
				continue
			}
			out = append(out, copyOrder(o))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OrderDate.Equal(out[j].OrderDate) {
			return out[i].OrderDate.After(out[j].OrderDate)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, err
}

func (r *OrderRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int, error) {
	n := 0
	err := r.v.read(ctx, "CountByProduct", func(st *state) error {
		for _, o := range st.orders {
			for _, line := range o.Lines {
				if line.ProductID == productID {
					n++
					break
				}
			}
		}
		return nil
	})
	return n, err
}
