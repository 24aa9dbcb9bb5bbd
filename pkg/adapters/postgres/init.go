// Package postgres provides a PostgreSQL column metadata provider for modeldoc.
//
// This file registers the PostgreSQL provider with the provider registry.
// Import this package with a blank identifier to register the provider:
//
//	import _ "github.com/leapstack-labs/modeldoc/pkg/adapters/postgres"
package postgres

import (
	"log/slog"

	"github.com/leapstack-labs/modeldoc/pkg/adapter"
)

func init() {
	adapter.Register("postgres", func(l *slog.Logger) adapter.Provider { return New(l) }, "pgsql", "pgx", "postgresql")
}
