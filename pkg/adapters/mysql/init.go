package mysql

import (
	"log/slog"

	"github.com/leapstack-labs/modeldoc/pkg/adapter"
)

func init() {
	adapter.Register("mysql", func(l *slog.Logger) adapter.Provider { return New(l) }, "mariadb")
}
