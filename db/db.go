package db

import (
	"context"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"carmod-configurator/config"
)

// DB holds the database connection
var DB *sqlx.DB

// InitDB opens the pool and checks the connection
func InitDB(ctx context.Context, cfg *config.Config) error {
	dsn, err := cfg.DSN()
	if err != nil {
		return err
	}

	conn, err := sqlx.Open("pgx", dsn)
	if err != nil {
		return errors.Wrap(err, "failed to open database connection")
	}
	conn.SetMaxOpenConns(cfg.DBMaxConns)
	conn.SetMaxIdleConns(cfg.DBMaxConns)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return errors.Wrap(err, "failed to ping database")
	}

	DB = conn
	log.Infof("✅ InitDB: Database connection established successfully")
	return nil
}

// CloseDB closes the database connection
func CloseDB() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
