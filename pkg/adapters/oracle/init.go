package oracle

import (
	"log/slog"

	"github.com/leapstack-labs/modeldoc/pkg/adapter"
)

func init() {
	adapter.Register("oracle", func(l *slog.Logger) adapter.Provider { return New(l) }, "oci")
}
