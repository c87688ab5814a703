package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no row matches the id.
	ErrNotFound = errors.New("record not found")
	// ErrDatabase wraps every failed write or read.
	ErrDatabase = errors.New("database error")
	// ErrInUse is returned when a delete would orphan invoices.
	ErrInUse = errors.New("record is referenced by invoices")
	// ErrDuplicate marks a unique constraint violation (also ErrDatabase).
	ErrDuplicate = errors.New("duplicate key")
	// ErrForeignKey marks a write pointing at a missing row (also ErrDatabase).
	ErrForeignKey = errors.New("foreign key violation")
)

const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// classify maps driver and gorm errors onto the package sentinels.
func classify(op, table string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	isPg := errors.As(err, &pgErr)
	switch {
	case errors.Is(err, gorm.ErrForeignKeyViolated), isPg && pgErr.Code == pgForeignKeyViolation:
		if op == "delete" {
			return fmt.Errorf("%s %s: %w", op, table, ErrInUse)
		}
		return fmt.Errorf("%s %s: %w: %w: %v", op, table, ErrDatabase, ErrForeignKey, err)
	case errors.Is(err, gorm.ErrDuplicatedKey), isPg && pgErr.Code == pgUniqueViolation:
		return fmt.Errorf("%s %s: %w: %w: %v", op, table, ErrDatabase, ErrDuplicate, err)
	}
	return fmt.Errorf("%s %s: %w: %v", op, table, ErrDatabase, err)
}
