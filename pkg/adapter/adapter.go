// Package adapter provides the column metadata provider contract for modeldoc.
//
// This package contains the public contract that all metadata providers must implement,
// a shared database/sql base, the provider registry and the driver-agnostic fallback.
// Concrete providers are in pkg/adapters/ subdirectories and register themselves from init().
package adapter

import (
	"context"

	"github.com/leapstack-labs/modeldoc/pkg/core"
)

// Provider returns the columns of a table in ordinal order.
type Provider interface {
	// Connect establishes a connection to the database using the provided config.
	Connect(ctx context.Context, cfg core.ConnConfig) error

	// Close closes the database connection and releases resources.
	Close() error

	// Columns returns the columns of table ordered by ordinal position.
	// A table without columns yields core.ErrTableNotFound.
	Columns(ctx context.Context, table string) ([]core.Column, error)

	// Driver returns the driver identifier the provider was registered under.
	Driver() string

	// Fallback reports whether the provider lists columns without native type fidelity.
	Fallback() bool
}
