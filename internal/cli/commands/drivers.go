package commands

import (
	"database/sql"
	"slices"
	"strings"

	"github.com/leapstack-labs/modeldoc/pkg/adapter"
	"github.com/spf13/cobra"
)

// DriverInfo describes a driver accepted by database.driver.
type DriverInfo struct {
	Name     string   `json:"name" yaml:"name"`
	Aliases  []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Fallback bool     `json:"fallback" yaml:"fallback"`
}

// Drivers lists registered metadata providers, then database/sql drivers
// that are only served by the generic fallback.
func Drivers() []DriverInfo {
	var out []DriverInfo
	for _, name := range adapter.ListAdapters() {
		out = append(out, DriverInfo{Name: name, Aliases: adapter.Aliases(name)})
	}
	for _, name := range sql.Drivers() {
		if adapter.IsRegistered(name) {
			continue
		}
		out = append(out, DriverInfo{Name: name, Fallback: true})
	}
	return out
}

// DriverNames returns every accepted driver name and alias, sorted.
func DriverNames() []string {
	var names []string
	for _, d := range Drivers() {
		names = append(names, d.Name)
		names = append(names, d.Aliases...)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// NewDriversCommand creates the drivers command.
func NewDriversCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "drivers",
		Short: "List supported database drivers",
		Long: `List the database drivers with a native column metadata provider, and the
database/sql drivers that are served by the generic column listing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := NewCommandContext(cmd).Renderer
			drivers := Drivers()

			if written, err := r.Document(drivers); written || err != nil {
				return err
			}

			r.Header(1, "Drivers")
			for _, d := range drivers {
				detail := ""
				if len(d.Aliases) > 0 {
					detail = "aliases: " + strings.Join(d.Aliases, ", ")
				}
				status := "success"
				if d.Fallback {
					status = "warning"
					detail = "generic column listing"
				}
				r.StatusLine(d.Name, status, detail)
			}
			return nil
		},
	}
}
