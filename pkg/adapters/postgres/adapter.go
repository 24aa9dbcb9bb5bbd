// Package postgres provides a PostgreSQL column metadata provider for modeldoc.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	// Registers the "pgx" database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/leapstack-labs/modeldoc/pkg/adapter"
	"github.com/leapstack-labs/modeldoc/pkg/core"
)

// Adapter implements the adapter.Provider interface for PostgreSQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

var _ adapter.Provider = (*Adapter)(nil)

// New creates a new PostgreSQL provider instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{BaseSQLAdapter: adapter.NewBase(logger)}
}

// Driver returns the driver identifier.
func (a *Adapter) Driver() string {
	return "postgres"
}

// Connect establishes a connection to PostgreSQL.
func (a *Adapter) Connect(ctx context.Context, cfg core.ConnConfig) error {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = buildPostgresDSN(cfg)
	}
	a.Logger.Debug("connecting to postgres", slog.String("host", cfg.Host), slog.String("database", cfg.Database))
	return a.Open(ctx, "pgx", dsn, cfg)
}

// buildPostgresDSN constructs a PostgreSQL connection string.
func buildPostgresDSN(cfg core.ConnConfig) string {
	// Build key=value format: host=localhost port=5432 user=postgres ...
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	sslmode := "disable"
	if mode, ok := cfg.Options["sslmode"]; ok {
		sslmode = mode
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s",
		host, port, cfg.Database, sslmode)

	if cfg.Username != "" {
		dsn += fmt.Sprintf(" user=%s", cfg.Username)
	}
	if cfg.Password != "" {
		dsn += fmt.Sprintf(" password=%s", cfg.Password)
	}

	keys := make([]string, 0, len(cfg.Options))
	for k := range cfg.Options {
		if k != "sslmode" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		dsn += fmt.Sprintf(" %s=%s", k, cfg.Options[k])
	}

	return dsn
}

// Columns lists the table's columns. Unqualified tables are looked up in the
// configured schema, or current_schema() when none is configured.
func (a *Adapter) Columns(ctx context.Context, table string) ([]core.Column, error) {
	schema, name := adapter.ParseQualifiedName(table, a.Cfg.Schema)

	var b strings.Builder
	b.WriteString(`
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_name = $1 AND table_schema = `)
	args := []any{name}
	if schema == "" {
		b.WriteString("current_schema()")
	} else {
		b.WriteString("$2")
		args = append(args, schema)
	}
	b.WriteString("\n\t\tORDER BY ordinal_position\n\t")

	cols, err := a.QueryColumns(ctx, table, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	return cols, nil
}
