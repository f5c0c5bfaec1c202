package app

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"carmod-configurator/app/controller"
	"carmod-configurator/app/router"
	"carmod-configurator/config"
	"carmod-configurator/db"
	"carmod-configurator/events"
	"carmod-configurator/pricing"
	"carmod-configurator/repository"
	"carmod-configurator/repository/memory"
	"carmod-configurator/service"
)

// App holds the wired services and the HTTP handler
type App struct {
	Config        *config.Config
	Store         repository.Store
	Catalog       *service.CatalogService
	Compatibility *service.CompatibilityService
	Configuration *service.ConfigurationService
	Booking       *service.BookingService
	Order         *service.OrderService
	Handler       http.Handler

	closers []func() error
}

// Initialize initializes the application
func Initialize(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	a.Store = store

	dispatcher := a.openDispatcher()
	engine := pricing.NewEngine(cfg.Currency)

	a.Compatibility = service.NewCompatibilityService(store, cfg.CompatibilityCacheTTL, cfg.RequestTimeout)
	a.Catalog = service.NewCatalogService(store, a.Compatibility, cfg.RequestTimeout)
	a.Configuration = service.NewConfigurationService(store, engine, dispatcher, cfg.RequestTimeout)
	a.Booking = service.NewBookingService(store, dispatcher, cfg.RequestTimeout)
	a.Order = service.NewOrderService(store, engine, dispatcher, cfg.RequestTimeout)

	a.Handler = router.NewRouter(&router.Controllers{
		Catalog:       controller.NewCatalogController(a.Catalog),
		Compatibility: controller.NewCompatibilityController(a.Compatibility),
		Configuration: controller.NewConfigurationController(a.Configuration),
		Booking:       controller.NewBookingController(a.Booking),
		Order:         controller.NewOrderController(a.Order),
	})

	log.Infof("✅ Initialize: store=%s currency=%s cacheTTL=%s", cfg.Store, engine.Currency(), cfg.CompatibilityCacheTTL)
	return a, nil
}

func (a *App) openStore(ctx context.Context) (repository.Store, error) {
	if a.Config.Store == config.StoreMemory {
		log.Warnf("⚠️ Initialize: using the in-memory store, data is lost on exit")
		return memory.NewStore(), nil
	}

	// Initialize database connection
	if err := db.InitDB(ctx, a.Config); err != nil {
		return nil, errors.Wrap(err, "failed to initialize database")
	}
	a.closers = append(a.closers, db.CloseDB)
	return repository.NewPostgresStore(db.DB), nil
}

func (a *App) openDispatcher() events.Dispatcher {
	if len(a.Config.KafkaBrokers) == 0 {
		log.Infof("📣 Initialize: no KAFKA_BROKERS, domain events go to the log")
		return events.LogDispatcher{}
	}
	d := events.NewKafkaDispatcher(a.Config.KafkaBrokers, a.Config.KafkaTopicPrefix)
	a.closers = append(a.closers, d.Close)
	log.Infof("📣 Initialize: publishing domain events to %v", a.Config.KafkaBrokers)
	return d
}

// Close releases the event writer and the database pool
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}
