package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

// PostgresStore is the Store backed by the shared Postgres pool
type PostgresStore struct {
	db    *sqlx.DB
	repos *Repositories
}

// Ensure PostgresStore implements Store
var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a Store over an open connection pool
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{
		db:    db,
		repos: newRepositories(db),
	}
}

// newRepositories binds every repository to q, which is either the pool or a transaction
func newRepositories(q sqlx.ExtContext) *Repositories {
	return &Repositories{
		Makes:           NewMakeRepository(q),
		Models:          NewModelRepository(q),
		Years:           NewYearRepository(q),
		Options:         NewOptionRepository(q),
		Packages:        NewPackageRepository(q),
		Stickers:        NewStickerRepository(q),
		Products:        NewProductRepository(q),
		Compatibilities: NewCompatibilityRepository(q),
		Configurations:  NewConfigurationRepository(q),
		Bookings:        NewBookingRepository(q),
		Orders:          NewOrderRepository(q),
	}
}

func (s *PostgresStore) Repositories() *Repositories {
	return s.repos
}

// RunInTx runs fn inside BEGIN ... COMMIT. A cancelled ctx rolls the transaction back.
func (s *PostgresStore) RunInTx(ctx context.Context, fn func(repos *Repositories) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		log.Errorf("❌ RunInTx: Error starting transaction: %v", err)
		return translateError(err, "RunInTx", "transaction", "begin")
	}
	defer tx.Rollback()

	if err := fn(newRepositories(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Errorf("❌ RunInTx: Error committing transaction: %v", err)
		return translateError(err, "RunInTx", "transaction", "commit")
	}
	return nil
}
