package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const schemaVersionQuery = `SELECT version, dirty FROM schema_migrations LIMIT 1`

// HealthCheck reports PostgreSQL as healthy when it answers and the ledger
// schema is fully migrated. A dirty migration means writes may hit a
// half-built table, so it counts as down.
type HealthCheck struct {
	pool Pool
}

func NewHealthCheck(pool Pool) *HealthCheck {
	return &HealthCheck{pool: pool}
}

func (h *HealthCheck) Ping(ctx context.Context) error {
	if err := h.pool.Ping(ctx); err != nil {
		return err
	}

	var (
		version int64
		dirty   bool
	)
	err := h.pool.QueryRow(ctx, schemaVersionQuery).Scan(&version, &dirty)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return errors.New("schema not migrated")
	case err != nil:
		return fmt.Errorf("reading schema version: %w", err)
	case dirty:
		return fmt.Errorf("schema migration %d is dirty", version)
	}
	return nil
}

func (h *HealthCheck) Name() string {
	return "postgresql"
}
