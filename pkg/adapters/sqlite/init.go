package sqlite

import (
	"log/slog"

	"github.com/leapstack-labs/modeldoc/pkg/adapter"
)

func init() {
	adapter.Register("sqlite", func(l *slog.Logger) adapter.Provider { return New(l) }, "sqlite3")
}
