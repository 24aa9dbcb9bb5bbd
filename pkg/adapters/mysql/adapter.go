// Package mysql provides a MySQL and MariaDB column metadata provider for modeldoc.
package mysql

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/leapstack-labs/modeldoc/pkg/adapter"
	"github.com/leapstack-labs/modeldoc/pkg/core"
)

// Adapter implements the adapter.Provider interface for MySQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

var _ adapter.Provider = (*Adapter)(nil)

// New creates a new MySQL provider instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{BaseSQLAdapter: adapter.NewBase(logger)}
}

// Driver returns the driver identifier.
func (a *Adapter) Driver() string {
	return "mysql"
}

// Connect establishes a connection to MySQL.
func (a *Adapter) Connect(ctx context.Context, cfg core.ConnConfig) error {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = buildMySQLDSN(cfg)
	}
	a.Logger.Debug("connecting to mysql", slog.String("host", cfg.Host), slog.String("database", cfg.Database))
	return a.Open(ctx, "mysql", dsn, cfg)
}

// buildMySQLDSN constructs a go-sql-driver DSN from discrete settings.
func buildMySQLDSN(cfg core.ConnConfig) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 3306
	}

	mc := mysql.NewConfig()
	mc.User = cfg.Username
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	mc.DBName = cfg.Database
	if len(cfg.Options) > 0 {
		mc.Params = make(map[string]string, len(cfg.Options))
		for k, v := range cfg.Options {
			mc.Params[k] = v
		}
	}
	return mc.FormatDSN()
}

const columnsQuery = `
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = DATABASE() AND table_name = ?
		ORDER BY ordinal_position
	`

// Columns lists the table's columns in the connection's current database.
func (a *Adapter) Columns(ctx context.Context, table string) ([]core.Column, error) {
	cols, err := a.QueryColumns(ctx, table, columnsQuery, table)
	if err != nil {
		return nil, fmt.Errorf("mysql: %w", err)
	}
	return cols, nil
}
