package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"carmod-configurator/app"
	"carmod-configurator/config"
	"carmod-configurator/db"
	"carmod-configurator/seed"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cliApp := &cli.App{
		Name:  "carmod",
		Usage: "vehicle modification configurator API",
		// serve is the default when no command is given
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "start the HTTP server",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "seed", Usage: "load the demo catalog before serving"},
					&cli.BoolFlag{Name: "migrate", Usage: "apply pending migrations before serving (postgres only)"},
				},
				Action: serve,
			},
			{
				Name:  "migrate",
				Usage: "manage the database schema",
				Subcommands: []*cli.Command{
					{Name: "up", Usage: "apply every pending migration", Action: migrateUp},
					{
						Name:   "down",
						Usage:  "roll back migrations",
						Flags:  []cli.Flag{&cli.IntFlag{Name: "steps", Value: 1, Usage: "number of migrations to roll back"}},
						Action: migrateDown,
					},
				},
			},
			{
				Name:   "seed",
				Usage:  "load the demo catalog into the configured store",
				Action: seedCatalog,
			},
		},
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cliApp.RunContext(ctx, os.Args); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	cfg.ConfigureLogging()
	return cfg, nil
}

func serve(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := app.Initialize(c.Context, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if c.Bool("migrate") && cfg.Store == config.StorePostgres {
		if err := db.MigrateUp(); err != nil {
			return err
		}
	}
	if c.Bool("seed") {
		if _, err := seed.Run(c.Context, a.Catalog, a.Compatibility); err != nil {
			return errors.Wrap(err, "failed to seed catalog")
		}
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           a.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("🚀 Server starting on %s", cfg.Addr())
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server failed to start")
		}
		return nil
	case <-c.Context.Done():
	}

	log.Infof("🛑 Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "graceful shutdown failed")
	}
	log.Infof("✅ Server stopped")
	return nil
}

// openDB connects for the schema commands, which only make sense on postgres
func openDB(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Store != config.StorePostgres {
		return errors.Errorf("migrations need STORE=%s, got %s", config.StorePostgres, cfg.Store)
	}
	return db.InitDB(c.Context, cfg)
}

func migrateUp(c *cli.Context) error {
	if err := openDB(c); err != nil {
		return err
	}
	defer db.CloseDB()
	return db.MigrateUp()
}

func migrateDown(c *cli.Context) error {
	if err := openDB(c); err != nil {
		return err
	}
	defer db.CloseDB()
	return db.MigrateDown(c.Int("steps"))
}

func seedCatalog(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Store == config.StoreMemory {
		log.Warnf("⚠️ Seed: the in-memory store is discarded on exit, use serve --seed instead")
	}

	a, err := app.Initialize(c.Context, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := seed.Run(c.Context, a.Catalog, a.Compatibility)
	if err != nil {
		return err
	}
	if !res.Skipped {
		log.Infof("✅ Seed: demo make %s ready (%s)", res.Make.Name, res.Make.ID)
	}
	return nil
}
