// Package cli provides the command-line interface for modeldoc.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/leapstack-labs/modeldoc/internal/cli/commands"
	"github.com/leapstack-labs/modeldoc/internal/cli/config"
	"github.com/leapstack-labs/modeldoc/internal/cli/output"
	"github.com/spf13/cobra"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// configKey is used to store config in context.
type configKey struct{}

// rendererKey is used to store renderer in context.
type rendererKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "modeldoc",
		Short: "modeldoc - doc blocks for database-backed models",
		Long: `modeldoc reads the columns of the table behind each model struct and
writes a doc block above the type listing every column, its native database
type and its Go-facing type, followed by the model's relations.

Models are structs that embed a base model type. Their table is taken from a
TableName method, or derived from the type name.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			logger := config.NewLogger(cfg.Verbose)
			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = context.WithValue(ctx, config.LoggerKey(), logger)

			mode, err := output.ParseMode(cfg.OutputFormat)
			if err != nil {
				return err
			}
			renderer := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)
			ctx = context.WithValue(ctx, rendererKey{}, renderer)
			cmd.SetContext(ctx)

			if configFile := config.GetConfigFileUsed(); configFile != "" {
				logger.Debug("using config file", "path", configFile)
			}
			logger.Debug("project root", "path", cfg.ProjectRoot)

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./modeldoc.yaml)")
	rootCmd.PersistentFlags().String("project-dir", "", "Project root holding go.mod or go.work")
	rootCmd.PersistentFlags().String("driver", "", "Database driver (mysql, postgres, sqlite, sqlserver, oracle, or any database/sql driver)")
	rootCmd.PersistentFlags().String("dsn", "", "Database connection string")
	rootCmd.PersistentFlags().StringP("target", "t", "", "Environment whose database settings to use")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|text|json|yaml)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		modes := make([]string, 0, len(output.Modes))
		for _, m := range output.Modes {
			modes = append(modes, string(m))
		}
		return modes, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("driver", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return commands.DriverNames(), cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewVersionCommand(Version, BuildDate, GitCommit))
	rootCmd.AddCommand(commands.NewGenerateCommand())
	rootCmd.AddCommand(commands.NewDriversCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	// Return default config if none in context
	return &config.Config{
		ModelsDir:    config.DefaultModelsDir,
		ModulesDir:   config.DefaultModulesDir,
		Sort:         config.DefaultSort,
		BaseModels:   config.DefaultBaseModels,
		Marker:       config.DefaultMarker,
		Types:        config.TypesConfig{Temporal: config.DefaultTemporal, Collection: config.DefaultCollection},
		Database:     &config.DatabaseConfig{},
		OutputFormat: config.DefaultOutput,
	}
}

// GetRenderer retrieves the renderer from the command context.
func GetRenderer(ctx context.Context) *output.Renderer {
	if r, ok := ctx.Value(rendererKey{}).(*output.Renderer); ok {
		return r
	}
	return output.NewRenderer(os.Stdout, os.Stderr, output.ModeAuto)
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for modeldoc.

To load completions:

Bash:
  $ source <(modeldoc completion bash)

Zsh:
  $ modeldoc completion zsh > "${fpath[1]}/_modeldoc"

Fish:
  $ modeldoc completion fish | source

PowerShell:
  PS> modeldoc completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
