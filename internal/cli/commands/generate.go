package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/leapstack-labs/modeldoc/internal/cli/config"
	"github.com/leapstack-labs/modeldoc/internal/cli/output"
	"github.com/leapstack-labs/modeldoc/internal/generator"
	"github.com/leapstack-labs/modeldoc/pkg/adapter"
	"github.com/leapstack-labs/modeldoc/pkg/core"
	"github.com/spf13/cobra"
)

// GenerateOptions holds options for the generate command.
// Sort, DryRun and Namespaces are also read through the configuration layer,
// so the flags override modeldoc.yaml and the environment.
type GenerateOptions struct {
	Model      string
	Sort       string
	DryRun     bool
	Namespaces []string
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	opts := &GenerateOptions{}

	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Write doc blocks for database-backed models",
		Long: `Scan the models directory, each module's models directory and any extra
namespaces for model structs, read the columns of each model's table and write a
doc block above the type.

Blocks are delimited by marker comments and replaced on every run.`,
		Example: `  # Document every model
  modeldoc generate --driver postgres --dsn "postgres://app@localhost/app"

  # Preview the block of one model, properties sorted by name
  modeldoc gen --model example.com/app/models.User --sort name --dry-run

  # Also scan another package
  modeldoc generate --ns example.com/app/billing/models`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Sort, "sort", "", "Property order: type, name or db (default type)")
	cmd.Flags().StringVar(&opts.Model, "model", "", "Only document this model (<package>.<Type>)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print blocks instead of writing files")
	cmd.Flags().StringSliceVar(&opts.Namespaces, "ns", nil, "Additional package import paths to scan")

	_ = cmd.RegisterFlagCompletionFunc("sort", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		all := core.AllSortPolicies()
		policies := make([]string, 0, len(all))
		for _, p := range all {
			policies = append(policies, string(p))
		}
		return policies, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// generatorOptions maps configuration to generator options.
func generatorOptions(cfg *config.Config, model string) generator.Options {
	return generator.Options{
		Root:             cfg.ProjectRoot,
		ModelsDir:        cfg.ModelsDir,
		ModulesDir:       cfg.ModulesDir,
		Namespaces:       cfg.Namespaces,
		Model:            model,
		Sort:             cfg.Sort,
		DryRun:           cfg.DryRun,
		BaseModels:       cfg.BaseModels,
		ExcludeRelations: cfg.ExcludeRelations,
		Temporal:         cfg.Types.Temporal,
		CollectionFormat: cfg.Types.Collection,
		Marker:           cfg.Marker,
	}
}

func runGenerate(cmd *cobra.Command, opts *GenerateOptions) error {
	cc := NewCommandContext(cmd)
	cfg := cc.Cfg
	r := cc.Renderer
	ctx := cmd.Context()

	if err := cfg.ValidateDatabase(); err != nil {
		return err
	}
	if opts.Model == "" {
		if err := cfg.ValidateDirectories(); err != nil {
			return err
		}
	}

	provider, err := adapter.Open(ctx, cfg.Database.ConnConfig(), cc.Logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() { _ = provider.Close() }()

	start := time.Now()
	gen := generator.New(provider, r, generatorOptions(cfg, opts.Model), cc.Logger)
	report, err := gen.Run(ctx)
	if err != nil {
		return err
	}
	cc.Logger.Debug("generation finished",
		"run_id", report.RunID,
		"models", len(report.Results),
		"elapsed", time.Since(start).Round(time.Millisecond))

	written, err := r.Document(report)
	if err != nil {
		return err
	}
	if !written && cfg.Verbose {
		renderSummary(r, report)
	}

	if report.Failed() {
		return fmt.Errorf("%d model(s) could not be written", report.Count(core.StatusFailed))
	}
	return nil
}

// renderSummary prints one table row per processed model.
func renderSummary(r *output.Renderer, report *core.Report) {
	if len(report.Results) == 0 {
		r.Muted("No models found")
		return
	}

	rows := make([][]string, 0, len(report.Results))
	for _, res := range report.Results {
		rows = append(rows, []string{
			res.Model,
			res.Table,
			string(res.Status),
			strconv.Itoa(res.Columns),
			strconv.Itoa(res.Relations),
			res.Reason,
		})
	}

	r.Header(2, "Summary")
	r.Table([]string{"model", "table", "status", "columns", "relations", "reason"}, rows)
}
