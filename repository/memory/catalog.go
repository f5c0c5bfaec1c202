package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"carmod-configurator/models"
	"carmod-configurator/repository"
	"carmod-configurator/utils"
)

type MakeRepository struct{ v *view }

var _ repository.MakeRepositoryInterface = (*MakeRepository)(nil)

func (r *MakeRepository) Insert(ctx context.Context, m *models.Make) error {
	return r.v.write(ctx, "Insert", func(st *state) error {
		if _, ok := st.makes[m.ID]; ok {
			return alreadyExists("Insert", "make", m.ID)
		}
		key := utils.NameKey(m.Name)
		for _, existing := range st.makes {
			if utils.NameKey(existing.Name) == key {
				return alreadyExists("Insert", "make", m.Name)
			}
		}
		st.makes[m.ID] = *m
		return nil
	})
}

func (r *MakeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Make, error) {
	var out models.Make
	err := r.v.read(ctx, "GetByID", func(st *state) error {
		m, ok := st.makes[id]
		if !ok {
			return notFound("GetByID", "make", id)
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *MakeRepository) List(ctx context.Context) ([]models.Make, error) {
	var out []models.Make
	err := r.v.read(ctx, "List", func(st *state) error {
		out = make([]models.Make, 0, len(st.makes))
		for _, m := range st.makes {
			out = append(out, m)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r *MakeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.v.write(ctx, "Delete", func(st *state) error {
		if _, ok := st.makes[id]; !ok {
			return notFound("Delete", "make", id)
		}
		delete(st.makes, id)
		return nil
	})
}

type ModelRepository struct{ v *view }

var _ repository.ModelRepositoryInterface = (*ModelRepository)(nil)

func (r *ModelRepository) Insert(ctx context.Context, m *models.VehicleModel) error {
	return r.v.write(ctx, "Insert", func(st *state) error {
		if _, ok := st.models[m.ID]; ok {
			return alreadyExists("Insert", "model", m.ID)
		}
		key := utils.NameKey(m.Name)
		for _, existing := range st.models {
			if existing.MakeID == m.MakeID && utils.NameKey(existing.Name) == key {
				return alreadyExists("Insert", "model", m.Name)
			}
		}
		st.models[m.ID] = *m
		return nil
	})
}

func (r *ModelRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.VehicleModel, error) {
	var out models.VehicleModel
	err := r.v.read(ctx, "GetByID", func(st *state) error {
		m, ok := st.models[id]
		if !ok {
			return notFound("GetByID", "model", id)
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ModelRepository) ListByMake(ctx context.Context, makeID uuid.UUID) ([]models.VehicleModel, error) {
	out := []models.VehicleModel{}
	err := r.v.read(ctx, "ListByMake", func(st *state) error {
		for _, m := range st.models {
			if m.MakeID == makeID {
				out = append(out, m)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r *ModelRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.v.write(ctx, "Delete", func(st *state) error {
		if _, ok := st.models[id]; !ok {
			return notFound("Delete", "model", id)
		}
		delete(st.models, id)
		return nil
	})
}

type YearRepository struct{ v *view }

var _ repository.YearRepositoryInterface = (*YearRepository)(nil)

func (r *YearRepository) Insert(ctx context.Context, y *models.Year) error {
	return r.v.write(ctx, "Insert", func(st *state) error {
		if _, ok := st.years[y.ID]; ok {
			return alreadyExists("Insert", "year", y.ID)
		}
		for _, existing := range st.years {
			if existing.ModelID == y.ModelID && existing.Year == y.Year {
				return alreadyExists("Insert", "year", y.Year)
			}
		}
		st.years[y.ID] = copyYear(*y)
		return nil
	})
}

func (r *YearRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Year, error) {
	var out models.Year
	err := r.v.read(ctx, "GetByID", func(st *state) error {
		y, ok := st.years[id]
		if !ok {
			return notFound("GetByID", "year", id)
		}
		out = copyYear(y)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *YearRepository) ListByModel(ctx context.Context, modelID uuid.UUID) ([]models.Year, error) {
	out := []models.Year{}
	err := r.v.read(ctx, "ListByModel", func(st *state) error {
		for _, y := range st.years {
			if y.ModelID == modelID {
				out = append(out, copyYear(y))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out, err
}

func (r *YearRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Year, error) {
	out := []models.Year{}
	err := r.v.read(ctx, "GetByIDs", func(st *state) error {
		for _, id := range models.UniqueIDs(ids) {
			if y, ok := st.years[id]; ok {
				out = append(out, copyYear(y))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out, err
}

func (r *YearRepository) SetOfferings(ctx context.Context, id uuid.UUID, offerings models.YearOfferings) error {
	return r.v.write(ctx, "SetOfferings", func(st *state) error {
		y, ok := st.years[id]
		if !ok {
			return notFound("SetOfferings", "year", id)
		}
		y.ExteriorOptionIDs = copyIDs(offerings.ExteriorOptionIDs)
		y.InteriorOptionIDs = copyIDs(offerings.InteriorOptionIDs)
		y.PackageIDs = copyIDs(offerings.PackageIDs)
		y.StickerIDs = copyIDs(offerings.StickerIDs)
		st.years[id] = y
		return nil
	})
}

func (r *YearRepository) CountOfferingsOf(ctx context.Context, itemID uuid.UUID) (int, error) {
	n := 0
	err := r.v.read(ctx, "CountOfferingsOf", func(st *state) error {
		for _, y := range st.years {
			if y.References(itemID) {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *YearRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.v.write(ctx, "Delete", func(st *state) error {
		if _, ok := st.years[id]; !ok {
			return notFound("Delete", "year", id)
		}
		delete(st.years, id)
		return nil
	})
}

type OptionRepository struct{ v *view }

var _ repository.OptionRepositoryInterface = (*OptionRepository)(nil)

func (r *OptionRepository) Insert(ctx context.Context, o *models.CustomizationOption) error {
	return r.v.write(ctx, "Insert", func(st *state) error {
		if _, ok := st.options[o.ID]; ok {
			return alreadyExists("Insert", "option", o.ID)
		}
		st.options[o.ID] = *o
		return nil
	})
}

func (r *OptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.CustomizationOption, error) {
	var out models.CustomizationOption
	err := r.v.read(ctx, "GetByID", func(st *state) error {
		o, ok := st.options[id]
		if !ok {
			return notFound("GetByID", "option", id)
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *OptionRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.CustomizationOption, error) {
	out := []models.CustomizationOption{}
	err := r.v.read(ctx, "GetByIDs", func(st *state) error {
		for _, id := range models.UniqueIDs(ids) {
			if o, ok := st.options[id]; ok {
				out = append(out, o)
			}
		}
		return nil
	})
	return out, err
}

func (r *OptionRepository) List(ctx context.Context, slot *models.SlotKind) ([]models.CustomizationOption, error) {
	out := []models.CustomizationOption{}
	err := r.v.read(ctx, "List", func(st *state) error {
		for _, o := range st.options {
			if slot == nil || o.Slot == *slot {
				out = append(out, o)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Slot != out[j].Slot {
			return out[i].Slot < out[j].Slot
		}
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, err
}

func (r *OptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.v.write(ctx, "Delete", func(st *state) error {
		if _, ok := st.options[id]; !ok {
			return notFound("Delete", "option", id)
		}
		delete(st.options, id)
		return nil
	})
}

type PackageRepository struct{ v *view }

var _ repository.PackageRepositoryInterface = (*PackageRepository)(nil)

func (r *PackageRepository) Insert(ctx context.Context, p *models.Package) error {
	return r.v.write(ctx, "Insert", func(st *state) error {
		if _, ok := st.packages[p.ID]; ok {
			return alreadyExists("Insert", "package", p.ID)
		}
		st.packages[p.ID] = *p
		return nil
	})
}

func (r *PackageRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Package, error) {
	var out models.Package
	err := r.v.read(ctx, "GetByID", func(st *state) error {
		p, ok := st.packages[id]
		if !ok {
			return notFound("GetByID", "package", id)
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *PackageRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Package, error) {
	out := []models.Package{}
	err := r.v.read(ctx, "GetByIDs", func(st *state) error {
		for _, id := range models.UniqueIDs(ids) {
			if p, ok := st.packages[id]; ok {
				out = append(out, p)
			}
		}
		return nil
	})
	return out, err
}

func (r *PackageRepository) List(ctx context.Context) ([]models.Package, error) {
	out := []models.Package{}
	err := r.v.read(ctx, "List", func(st *state) error {
		for _, p := range st.packages {
			out = append(out, p)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return lessByLabel(out[i].Title, out[j].Title, out[i].ID, out[j].ID) })
	return out, err
}

func (r *PackageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.v.write(ctx, "Delete", func(st *state) error {
		if _, ok := st.packages[id]; !ok {
			return notFound("Delete", "package", id)
		}
		delete(st.packages, id)
		return nil
	})
}

type StickerRepository struct{ v *view }

var _ repository.StickerRepositoryInterface = (*StickerRepository)(nil)

func (r *StickerRepository) Insert(ctx context.Context, s *models.Sticker) error {
	return r.v.write(ctx, "Insert", func(st *state) error {
		if _, ok := st.stickers[s.ID]; ok {
			return alreadyExists("Insert", "sticker", s.ID)
		}
		st.stickers[s.ID] = *s
		return nil
	})
}

func (r *StickerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Sticker, error) {
	var out models.Sticker
	err := r.v.read(ctx, "GetByID", func(st *state) error {
		s, ok := st.stickers[id]
		if !ok {
			return notFound("GetByID", "sticker", id)
		}
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *StickerRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Sticker, error) {
	out := []models.Sticker{}
	err := r.v.read(ctx, "GetByIDs", func(st *state) error {
		for _, id := range models.UniqueIDs(ids) {
			if s, ok := st.stickers[id]; ok {
				out = append(out, s)
			}
		}
		return nil
	})
	return out, err
}

func (r *StickerRepository) List(ctx context.Context) ([]models.Sticker, error) {
	out := []models.Sticker{}
	err := r.v.read(ctx, "List", func(st *state) error {
		for _, s := range st.stickers {
			out = append(out, s)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return lessByLabel(out[i].Text, out[j].Text, out[i].ID, out[j].ID) })
	return out, err
}

func (r *StickerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.v.write(ctx, "Delete", func(st *state) error {
		if _, ok := st.stickers[id]; !ok {
			return notFound("Delete", "sticker", id)
		}
		delete(st.stickers, id)
		return nil
	})
}

type ProductRepository struct{ v *view }

var _ repository.ProductRepositoryInterface = (*ProductRepository)(nil)

func (r *ProductRepository) Insert(ctx context.Context, p *models.Product) error {
	return r.v.write(ctx, "Insert", func(st *state) error {
		if _, ok := st.products[p.ID]; ok {
			return alreadyExists("Insert", "product", p.ID)
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var out models.Product
	err := r.v.read(ctx, "GetByID", func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return notFound("GetByID", "product", id)
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ProductRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	out := []models.Product{}
	err := r.v.read(ctx, "GetByIDs", func(st *state) error {
		for _, id := range models.UniqueIDs(ids) {
			if p, ok := st.products[id]; ok {
				out = append(out, p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return lessByLabel(out[i].Name, out[j].Name, out[i].ID, out[j].ID) })
	return out, err
}

func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	out := []models.Product{}
	err := r.v.read(ctx, "List", func(st *state) error {
		for _, p := range st.products {
			out = append(out, p)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return lessByLabel(out[i].Name, out[j].Name, out[i].ID, out[j].ID) })
	return out, err
}

func (r *ProductRepository) UpdatePrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) error {
	return r.v.write(ctx, "UpdatePrice", func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return notFound("UpdatePrice", "product", id)
		}
		p.Price = price
		st.products[id] = p
		return nil
	})
}

func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.v.write(ctx, "Delete", func(st *state) error {
		if _, ok := st.products[id]; !ok {
			return notFound("Delete", "product", id)
		}
		delete(st.products, id)
		return nil
	})
}

func lessByLabel(a, b string, idA, idB uuid.UUID) bool {
	if a != b {
		return strings.Compare(a, b) < 0
	}
	return idA.String() < idB.String()
}
