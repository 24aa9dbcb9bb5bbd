// Package sqlite provides a SQLite column metadata provider for modeldoc.
package sqlite

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/modeldoc/pkg/adapter"
	"github.com/leapstack-labs/modeldoc/pkg/core"

	// Registers the pure-Go "sqlite" database/sql driver.
	_ "modernc.org/sqlite"
)

// Adapter implements the adapter.Provider interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

var _ adapter.Provider = (*Adapter)(nil)

// New creates a new SQLite provider instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{BaseSQLAdapter: adapter.NewBase(logger)}
}

// Driver returns the driver identifier.
func (a *Adapter) Driver() string {
	return "sqlite"
}

// Connect opens the database file named by the DSN or, failing that, the database setting.
func (a *Adapter) Connect(ctx context.Context, cfg core.ConnConfig) error {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = cfg.Database
	}
	if dsn == "" {
		return fmt.Errorf("sqlite: database path not configured")
	}
	a.Logger.Debug("connecting to sqlite", slog.String("path", dsn))
	return a.Open(ctx, "sqlite", dsn, cfg)
}

const columnsQuery = `SELECT name, type FROM pragma_table_info(?) ORDER BY cid`

// Columns lists the table's columns using the table_info pragma.
func (a *Adapter) Columns(ctx context.Context, table string) ([]core.Column, error) {
	cols, err := a.QueryColumns(ctx, table, columnsQuery, table)
	if err != nil {
		return nil, fmt.Errorf("sqlite: %w", err)
	}
	return cols, nil
}
