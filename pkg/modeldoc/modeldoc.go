// Package modeldoc generates doc blocks for explicitly listed model values.
//
// The CLI discovers models by scanning package sources. Programs that already
// hold their model types can instead pass values to Generate:
//
//	type User struct {
//		modeldoc.Model
//	}
//
//	func (User) Posts() relation.HasMany[Post] { return relation.HasMany[Post]{} }
//
//	report, err := modeldoc.Generate(ctx, provider, modeldoc.Config{}, User{}, Post{})
//
// Relations are found by calling the exported, parameterless methods declared
// on each type; the declaring file is located through the project's go.mod.
package modeldoc

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/leapstack-labs/modeldoc/internal/catalog"
	"github.com/leapstack-labs/modeldoc/internal/cli/output"
	"github.com/leapstack-labs/modeldoc/internal/generator"
	"github.com/leapstack-labs/modeldoc/pkg/adapter"
	"github.com/leapstack-labs/modeldoc/pkg/core"
)

// Model marks a struct as a database-backed model when embedded.
type Model struct{}

// Config configures Generate. The zero value writes blocks, sorts by type and
// finds the project from the working directory.
type Config struct {
	// Root is the project directory. Empty selects the nearest go.mod above the working directory.
	Root string
	// Sort is the property sort policy: type, name or db.
	Sort   string
	DryRun bool
	// BaseModels are the embedded type names marking a model. Empty selects "Model".
	BaseModels       []string
	ExcludeRelations []string
	Temporal         string
	CollectionFormat string
	Marker           string

	// Out and ErrOut receive progress lines. Nil selects os.Stdout and os.Stderr.
	Out    io.Writer
	ErrOut io.Writer
	Logger *slog.Logger
}

// Generate documents the given model values against a connected provider.
// Values that are not models are reported as skipped. The error is non-nil
// only when the project or a model's declaring file cannot be found.
func Generate(ctx context.Context, provider adapter.Provider, cfg Config, models ...any) (*core.Report, error) {
	root := cfg.Root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		if root, err = catalog.FindModuleRoot(wd); err != nil {
			return nil, core.NewError(core.KindUserInput, wd, err)
		}
	}

	manifest, err := catalog.LoadManifest(root, "")
	if err != nil {
		return nil, core.NewError(core.KindUserInput, root, err)
	}

	entities := make([]*catalog.Entity, 0, len(models))
	for _, m := range models {
		e, err := catalog.Reflect(m, manifest)
		if err != nil {
			return nil, core.NewError(core.KindDiscovery, fmt.Sprintf("%T", m), err)
		}
		entities = append(entities, e)
	}

	out, errOut := cfg.Out, cfg.ErrOut
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	console := output.NewRenderer(out, errOut, output.ModeAuto)

	gen := generator.New(provider, console, generator.Options{
		Root:             root,
		Sort:             cfg.Sort,
		DryRun:           cfg.DryRun,
		BaseModels:       cfg.BaseModels,
		ExcludeRelations: cfg.ExcludeRelations,
		Temporal:         cfg.Temporal,
		CollectionFormat: cfg.CollectionFormat,
		Marker:           cfg.Marker,
	}, cfg.Logger)

	return gen.RunEntities(ctx, entities), nil
}
