// Package oracle provides an Oracle column metadata provider for modeldoc.
package oracle

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/modeldoc/pkg/adapter"
	"github.com/leapstack-labs/modeldoc/pkg/core"
	goora "github.com/sijms/go-ora/v2"
)

// Adapter implements the adapter.Provider interface for Oracle.
type Adapter struct {
	adapter.BaseSQLAdapter
}

var _ adapter.Provider = (*Adapter)(nil)

// New creates a new Oracle provider instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{BaseSQLAdapter: adapter.NewBase(logger)}
}

// Driver returns the driver identifier.
func (a *Adapter) Driver() string {
	return "oracle"
}

// Connect establishes a connection to Oracle.
// The database setting is the service name.
func (a *Adapter) Connect(ctx context.Context, cfg core.ConnConfig) error {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = buildOracleDSN(cfg)
	}
	a.Logger.Debug("connecting to oracle", slog.String("host", cfg.Host), slog.String("service", cfg.Database))
	return a.Open(ctx, "oracle", dsn, cfg)
}

func buildOracleDSN(cfg core.ConnConfig) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 1521
	}
	return goora.BuildUrl(host, port, cfg.Database, cfg.Username, cfg.Password, cfg.Options)
}

const columnsQuery = `
		SELECT COLUMN_NAME, DATA_TYPE
		FROM USER_TAB_COLUMNS
		WHERE TABLE_NAME = :1
		ORDER BY COLUMN_ID
	`

// Columns lists the table's columns owned by the connected user.
// Oracle stores unquoted identifiers in upper case, so the table name is upper-cased.
func (a *Adapter) Columns(ctx context.Context, table string) ([]core.Column, error) {
	cols, err := a.QueryColumns(ctx, table, columnsQuery, strings.ToUpper(table))
	if err != nil {
		return nil, fmt.Errorf("oracle: %w", err)
	}
	return cols, nil
}
