// Package sqlserver provides a Microsoft SQL Server column metadata provider for modeldoc.
package sqlserver

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"

	"github.com/leapstack-labs/modeldoc/pkg/adapter"
	"github.com/leapstack-labs/modeldoc/pkg/core"

	// Registers the "sqlserver" database/sql driver.
	_ "github.com/microsoft/go-mssqldb"
)

// Adapter implements the adapter.Provider interface for SQL Server.
type Adapter struct {
	adapter.BaseSQLAdapter
}

var _ adapter.Provider = (*Adapter)(nil)

// New creates a new SQL Server provider instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{BaseSQLAdapter: adapter.NewBase(logger)}
}

// Driver returns the driver identifier.
func (a *Adapter) Driver() string {
	return "sqlserver"
}

// Connect establishes a connection to SQL Server.
func (a *Adapter) Connect(ctx context.Context, cfg core.ConnConfig) error {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = buildSQLServerDSN(cfg)
	}
	a.Logger.Debug("connecting to sqlserver", slog.String("host", cfg.Host), slog.String("database", cfg.Database))
	return a.Open(ctx, "sqlserver", dsn, cfg)
}

// buildSQLServerDSN constructs a sqlserver:// URL.
func buildSQLServerDSN(cfg core.ConnConfig) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 1433
	}

	u := &url.URL{
		Scheme: "sqlserver",
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
	}
	if cfg.Username != "" {
		u.User = url.UserPassword(cfg.Username, cfg.Password)
	}

	q := url.Values{}
	if cfg.Database != "" {
		q.Set("database", cfg.Database)
	}
	for k, v := range cfg.Options {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Columns lists the table's columns from INFORMATION_SCHEMA.
func (a *Adapter) Columns(ctx context.Context, table string) ([]core.Column, error) {
	schema, name := adapter.ParseQualifiedName(table, a.Cfg.Schema)

	query := `
		SELECT COLUMN_NAME, DATA_TYPE
		FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_NAME = @p1`
	args := []any{name}
	if schema != "" {
		query += " AND TABLE_SCHEMA = @p2"
		args = append(args, schema)
	}
	query += "\n\t\tORDER BY ORDINAL_POSITION"

	cols, err := a.QueryColumns(ctx, table, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlserver: %w", err)
	}
	return cols, nil
}
