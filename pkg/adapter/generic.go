package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/leapstack-labs/modeldoc/pkg/core"
)

// validIdentifierRe matches plain and schema-qualified SQL identifiers.
var validIdentifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z_][a-zA-Z0-9_]*)?$`)

// isValidIdentifier checks if the string is a valid SQL identifier.
func isValidIdentifier(s string) bool {
	return s != "" && len(s) <= 128 && validIdentifierRe.MatchString(s)
}

// Generic lists columns through any registered database/sql driver.
// Column types come from the driver's column type report rather than a
// catalog query, so native types are only as precise as the driver makes them.
type Generic struct {
	BaseSQLAdapter
	driver string
}

var _ Provider = (*Generic)(nil)

// NewGeneric creates a fallback provider for a database/sql driver name.
// If logger is nil, a discard logger is used.
func NewGeneric(driver string, logger *slog.Logger) *Generic {
	return &Generic{
		BaseSQLAdapter: NewBase(logger),
		driver:         driver,
	}
}

// Driver returns the database/sql driver name.
func (g *Generic) Driver() string {
	return g.driver
}

// Fallback reports true.
func (g *Generic) Fallback() bool {
	return true
}

// Connect opens the driver with the configured DSN, or the database path when no DSN is set.
func (g *Generic) Connect(ctx context.Context, cfg core.ConnConfig) error {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = cfg.Database
	}
	g.Logger.Debug("connecting with generic driver", slog.String("driver", g.driver))
	return g.Open(ctx, g.driver, dsn, cfg)
}

// Columns selects no rows from the table and reads the driver's column types.
func (g *Generic) Columns(ctx context.Context, table string) ([]core.Column, error) {
	if !g.IsConnected() {
		return nil, fmt.Errorf("database connection not established")
	}
	if !isValidIdentifier(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	//nolint:gosec // table name validated above
	rows, err := g.DB.QueryContext(ctx, "SELECT * FROM "+table+" WHERE 1=0")
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read column types: %w", err)
	}

	columns := make([]core.Column, 0, len(types))
	for _, ct := range types {
		col := core.Column{
			Name:    ct.Name(),
			Type:    strings.ToLower(ct.DatabaseTypeName()),
			Generic: true,
		}
		if st := ct.ScanType(); st != nil {
			col.GoType = st.String()
		}
		columns = append(columns, col)
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s: %w", table, core.ErrTableNotFound)
	}
	return columns, nil
}
