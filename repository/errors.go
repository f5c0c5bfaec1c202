package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"

	"carmod-configurator/models"
)

// Postgres SQLSTATE codes the store maps onto domain errors
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// translateError maps driver failures onto the models error kinds. The
// result always names the operation and the entity id.
func translateError(err error, op, entity string, id any) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return errors.Wrapf(models.ErrNotFound, "%s: %s %v not found", op, entity, id)
	case errors.Is(err, context.DeadlineExceeded), pgconn.Timeout(err):
		return errors.Wrapf(models.ErrTimeout, "%s: %s %v: %v", op, entity, id, err)
	case errors.Is(err, context.Canceled):
		return errors.Wrapf(err, "%s: %s %v", op, entity, id)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return errors.Wrapf(models.ErrValidation, "%s: %s %v already exists (%s)", op, entity, id, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return errors.Wrapf(models.ErrReferentialConflict, "%s: %s %v violates %s", op, entity, id, pgErr.ConstraintName)
		case pgCheckViolation:
			return errors.Wrapf(models.ErrValidation, "%s: %s %v violates %s", op, entity, id, pgErr.ConstraintName)
		}
	}

	var connErr *pgconn.ConnectError
	var netErr net.Error
	if errors.As(err, &connErr) || errors.As(err, &netErr) ||
		errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return errors.Wrapf(models.ErrStorageUnavailable, "%s: %s %v: %v", op, entity, id, err)
	}

	return errors.Wrapf(err, "%s: %s %v", op, entity, id)
}

// expectOneRow turns a zero-row UPDATE/DELETE into ErrNotFound
func expectOneRow(res sql.Result, op, entity string, id any) error {
	n, err := res.RowsAffected()
	if err != nil {
		return translateError(err, op, entity, id)
	}
	if n == 0 {
		return errors.Wrapf(models.ErrNotFound, "%s: %s %v not found", op, entity, id)
	}
	return nil
}
