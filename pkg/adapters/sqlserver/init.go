package sqlserver

import (
	"log/slog"

	"github.com/leapstack-labs/modeldoc/pkg/adapter"
)

func init() {
	adapter.Register("sqlserver", func(l *slog.Logger) adapter.Provider { return New(l) }, "sqlsrv", "mssql")
}
