package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/modeldoc/pkg/core"
)

// BaseSQLAdapter provides common database/sql functionality for providers.
// Embed this struct in concrete providers to get standard
// Close and metadata scanning implementations.
type BaseSQLAdapter struct {
	DB     *sql.DB
	Cfg    core.ConnConfig
	Logger *slog.Logger
}

// NewBase returns a base with a logger. If logger is nil, a discard logger is used.
func NewBase(logger *slog.Logger) BaseSQLAdapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return BaseSQLAdapter{Logger: logger}
}

// Open opens and pings a database/sql connection and stores it on the base.
func (b *BaseSQLAdapter) Open(ctx context.Context, driverName, dsn string, cfg core.ConnConfig) error {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return fmt.Errorf("failed to open %s connection: %w", driverName, err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping %s: %w", driverName, err)
	}

	b.DB = db
	b.Cfg = cfg
	return nil
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.DB != nil {
		if b.Logger != nil {
			b.Logger.Debug("closing database connection")
		}
		return b.DB.Close()
	}
	return nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.DB != nil
}

// Fallback reports false: providers embedding the base know their native types.
func (b *BaseSQLAdapter) Fallback() bool {
	return false
}

// QueryColumns runs a metadata query returning (name, type) rows in ordinal order
// and collects them as columns with lowercased native types.
func (b *BaseSQLAdapter) QueryColumns(ctx context.Context, table, query string, args ...any) ([]core.Column, error) {
	if !b.IsConnected() {
		return nil, fmt.Errorf("database connection not established")
	}

	if b.Logger != nil {
		b.Logger.Debug("querying column metadata", slog.String("table", table))
	}

	rows, err := b.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []core.Column
	for rows.Next() {
		var name string
		var typ sql.NullString
		if err := rows.Scan(&name, &typ); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		columns = append(columns, core.Column{
			Name: name,
			Type: strings.ToLower(typ.String),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s: %w", table, core.ErrTableNotFound)
	}

	return columns, nil
}

// ParseQualifiedName splits a table reference into schema and name.
// Uses defaultSchema if not specified.
func ParseQualifiedName(table, defaultSchema string) (schema, name string) {
	if parts := strings.Split(table, "."); len(parts) == 2 {
		return parts[0], parts[1]
	}
	return defaultSchema, table
}
