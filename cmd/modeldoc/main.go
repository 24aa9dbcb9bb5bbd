// Package main provides the modeldoc CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/modeldoc/internal/cli"

	// Metadata providers register themselves from init().
	_ "github.com/leapstack-labs/modeldoc/pkg/adapters/mysql"
	_ "github.com/leapstack-labs/modeldoc/pkg/adapters/oracle"
	_ "github.com/leapstack-labs/modeldoc/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/modeldoc/pkg/adapters/sqlite"
	_ "github.com/leapstack-labs/modeldoc/pkg/adapters/sqlserver"

	// DuckDB has no native provider; it is served by the generic column listing.
	_ "github.com/marcboeker/go-duckdb"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
