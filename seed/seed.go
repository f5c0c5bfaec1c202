package seed

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"carmod-configurator/models"
	"carmod-configurator/service"
)

// DemoMake is the make the demo catalog is built under
const DemoMake = "Toyota"

// Result lists what Run created
type Result struct {
	Skipped  bool
	Make     *models.Make
	Models   []models.VehicleModel
	Years    []models.Year
	Products []models.Product
}

type optionSeed struct {
	slot  models.SlotKind
	title string
	color string
	price string
}

var supraOptions = []optionSeed{
	{models.SlotExteriorHood, "Vented carbon hood", "", "5000"},
	{models.SlotExteriorWheels, "Forged 19in wheels", "", "2000"},
	{models.SlotExteriorSpoiler, "Ducktail spoiler", "", "900"},
	{models.SlotExteriorPaint, "Renaissance red", "#B0171F", "1200"},
	{models.SlotInteriorSeatMaterial, "Alcantara seats", "", "1500"},
	{models.SlotInteriorSteeringWheel, "Flat-bottom wheel", "", "450"},
}

var demoProducts = []models.CreateProductRequest{
	{Name: "Cold air intake", Description: "High-flow intake with heat shield", Price: decimal.RequireFromString("349.99")},
	{Name: "Coilover kit", Description: "Adjustable ride height and damping", Price: decimal.RequireFromString("1899.00")},
	{Name: "Cat-back exhaust", Price: decimal.RequireFromString("1249.50")},
}

// Run fills an empty catalog with a demo Toyota line-up. It is a no-op when
// the demo make already exists.
func Run(ctx context.Context, catalog service.CatalogServiceInterface, compatibility service.CompatibilityServiceInterface) (*Result, error) {
	log.Infof("🌱 Seed: Starting demo catalog")

	makes, err := catalog.ListMakes(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range makes {
		if strings.EqualFold(m.Name, DemoMake) {
			log.Infof("🌱 Seed: make %q already exists, skipping", m.Name)
			return &Result{Skipped: true}, nil
		}
	}

	res := &Result{}
	res.Make, err = catalog.CreateMake(ctx, &models.CreateMakeRequest{Name: DemoMake})
	if err != nil {
		return nil, errors.Wrap(err, "seed make")
	}

	supra, err := catalog.CreateModel(ctx, &models.CreateModelRequest{MakeID: res.Make.ID, Name: "Supra"})
	if err != nil {
		return nil, errors.Wrap(err, "seed model")
	}
	gr86, err := catalog.CreateModel(ctx, &models.CreateModelRequest{MakeID: res.Make.ID, Name: "GR86"})
	if err != nil {
		return nil, errors.Wrap(err, "seed model")
	}
	res.Models = []models.VehicleModel{*supra, *gr86}

	var offerings models.YearOfferings
	for _, o := range supraOptions {
		opt, err := catalog.CreateOption(ctx, &models.CreateOptionRequest{
			Slot:      o.slot,
			Title:     o.title,
			ColorCode: o.color,
			Price:     decimal.RequireFromString(o.price),
		})
		if err != nil {
			return nil, errors.Wrapf(err, "seed option %q", o.title)
		}
		if o.slot.Group() == models.SlotGroupInterior {
			offerings.InteriorOptionIDs = append(offerings.InteriorOptionIDs, opt.ID)
		} else {
			offerings.ExteriorOptionIDs = append(offerings.ExteriorOptionIDs, opt.ID)
		}
	}

	pkg, err := catalog.CreatePackage(ctx, &models.CreatePackageRequest{Title: "Track pack", Price: decimal.NewFromInt(3000)})
	if err != nil {
		return nil, errors.Wrap(err, "seed package")
	}
	sticker, err := catalog.CreateSticker(ctx, &models.CreateStickerRequest{Text: "GR", Price: decimal.NewFromInt(150)})
	if err != nil {
		return nil, errors.Wrap(err, "seed sticker")
	}
	offerings.PackageIDs = []uuid.UUID{pkg.ID}
	offerings.StickerIDs = []uuid.UUID{sticker.ID}

	var supraYears []uuid.UUID
	for _, y := range []int{2021, 2022, 2023} {
		year, err := catalog.CreateYear(ctx, &models.CreateYearRequest{
			ModelID:       supra.ID,
			Year:          y,
			VehicleImage:  "vehicles/supra.png",
			YearOfferings: offerings,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "seed year %d", y)
		}
		res.Years = append(res.Years, *year)
		supraYears = append(supraYears, year.ID)
	}
	gr86Year, err := catalog.CreateYear(ctx, &models.CreateYearRequest{ModelID: gr86.ID, Year: 2023})
	if err != nil {
		return nil, errors.Wrap(err, "seed year")
	}
	res.Years = append(res.Years, *gr86Year)

	for i := range demoProducts {
		p, err := catalog.CreateProduct(ctx, &demoProducts[i])
		if err != nil {
			return nil, errors.Wrapf(err, "seed product %q", demoProducts[i].Name)
		}
		res.Products = append(res.Products, *p)
	}

	// Intake fits every seeded Supra, coilovers only the later two.
	fits := []models.AddCompatibilityRequest{
		{ProductID: res.Products[0].ID, MakeID: res.Make.ID, ModelID: supra.ID, YearIDs: supraYears},
		{ProductID: res.Products[1].ID, MakeID: res.Make.ID, ModelID: supra.ID, YearIDs: supraYears[1:]},
		{ProductID: res.Products[2].ID, MakeID: res.Make.ID, ModelID: gr86.ID, YearIDs: []uuid.UUID{gr86Year.ID}},
	}
	for i := range fits {
		if _, err := compatibility.AddCompatibility(ctx, &fits[i]); err != nil {
			return nil, errors.Wrap(err, "seed compatibility")
		}
	}

	log.Infof("✅ Seed: Created %d models, %d years, %d products", len(res.Models), len(res.Years), len(res.Products))
	return res, nil
}
