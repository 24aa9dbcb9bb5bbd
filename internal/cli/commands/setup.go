// Package commands implements the modeldoc subcommands.
package commands

import (
	"log/slog"
	"os"

	"github.com/leapstack-labs/modeldoc/internal/cli/config"
	"github.com/leapstack-labs/modeldoc/internal/cli/output"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects the loaded configuration, the logger and a renderer
// writing to the command's streams.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode, err := output.ParseMode(cfg.OutputFormat)
	if err != nil {
		mode = output.ModeAuto
	}
	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode),
	}
}

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	return &config.Config{
		ModelsDir:  getEnvOrDefault("MODELDOC_MODELS_DIR", config.DefaultModelsDir),
		ModulesDir: getEnvOrDefault("MODELDOC_MODULES_DIR", config.DefaultModulesDir),
		Sort:       getEnvOrDefault("MODELDOC_SORT", config.DefaultSort),
		BaseModels: config.DefaultBaseModels,
		Marker:     config.DefaultMarker,
		Types: config.TypesConfig{
			Temporal:   config.DefaultTemporal,
			Collection: config.DefaultCollection,
		},
		Database: &config.DatabaseConfig{
			Driver: os.Getenv("MODELDOC_DATABASE_DRIVER"),
			DSN:    os.Getenv("MODELDOC_DATABASE_DSN"),
		},
		Verbose:      os.Getenv("MODELDOC_VERBOSE") == "true",
		OutputFormat: getEnvOrDefault("MODELDOC_OUTPUT", config.DefaultOutput),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
