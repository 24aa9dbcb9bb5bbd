// Package generator runs model doc generation: it resolves target packages,
// loads candidate types, fetches their columns, detects relations and renders
// and writes the resulting doc blocks.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/leapstack-labs/modeldoc/internal/catalog"
	"github.com/leapstack-labs/modeldoc/pkg/adapter"
	"github.com/leapstack-labs/modeldoc/pkg/core"
	"github.com/leapstack-labs/modeldoc/pkg/docblock"
	"github.com/leapstack-labs/modeldoc/pkg/relation"
	"github.com/leapstack-labs/modeldoc/pkg/typemap"
)

// Console receives user-facing progress lines.
type Console interface {
	Println(msg string)
	Progress(label, target string)
	Success(msg string)
	Warning(msg string)
	Error(msg string)
	Muted(msg string)
}

// Options configures a run.
type Options struct {
	// Root is the project directory holding go.mod or go.work.
	Root string
	// ModelsDir is the primary models directory, absolute or relative to Root.
	ModelsDir string
	// ModulesDir holds module directories, each with an optional models directory.
	// Relative paths are taken from Root.
	ModulesDir string
	// Namespaces are extra import paths to scan.
	Namespaces []string
	// Model restricts the run to a single type ("<package>.<Type>").
	Model string
	// Sort is the property sort policy; invalid values fall back to type.
	Sort string
	// DryRun prints blocks instead of writing them.
	DryRun bool
	// BaseModels are the embedded type names that mark a model.
	BaseModels []string
	// ExcludeRelations are method names never treated as relations. Nil selects the defaults.
	ExcludeRelations []string
	// Temporal is the documentation type of date and time columns.
	Temporal string
	// CollectionFormat renders the type of to-many relations.
	CollectionFormat string
	// Marker prefixes the comments delimiting generated blocks.
	Marker string
}

// Generator processes models one at a time against a single metadata provider.
type Generator struct {
	provider adapter.Provider
	console  Console
	logger   *slog.Logger
	opts     Options

	scanner  *catalog.Scanner
	mapper   typemap.Mapper
	detector *relation.Detector
	renderer docblock.Renderer
	writer   docblock.Writer
	sort     core.SortPolicy
}

// New creates a generator. If logger is nil, a discard logger is used.
func New(provider adapter.Provider, console Console, opts Options, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if len(opts.BaseModels) == 0 {
		opts.BaseModels = catalog.DefaultBaseModels
	}
	return &Generator{
		provider: provider,
		console:  console,
		logger:   logger,
		opts:     opts,
		scanner:  catalog.NewScanner(logger),
		mapper:   typemap.New(opts.Temporal),
		detector: relation.NewDetector(opts.ExcludeRelations, logger),
		renderer: docblock.Renderer{CollectionFormat: opts.CollectionFormat},
		writer:   docblock.Writer{Marker: opts.Marker},
		sort:     core.SortByType,
	}
}

// begin validates run-wide options and emits run-wide warnings.
func (g *Generator) begin() *core.Report {
	policy, ok := core.ParseSortPolicy(g.opts.Sort)
	if !ok && g.opts.Sort != "" {
		g.console.Warning(fmt.Sprintf("Invalid sort option %q, falling back to %q", g.opts.Sort, core.SortByType))
	}
	g.sort = policy

	if g.provider.Fallback() {
		g.console.Warning(fmt.Sprintf("Unsupported driver %q, using generic column listing", g.provider.Driver()))
	}

	return &core.Report{
		RunID:  uuid.NewString(),
		DryRun: g.opts.DryRun,
		Sort:   string(g.sort),
	}
}

// Run generates doc blocks for every model in the resolved targets, or for the
// single model named in the options. Per-model failures are recorded in the
// report; the returned error covers failures that stop the run.
func (g *Generator) Run(ctx context.Context) (*core.Report, error) {
	report := g.begin()

	if g.opts.Model != "" {
		if err := g.runModel(ctx, report); err != nil {
			return report, err
		}
		return report, nil
	}

	manifest, err := catalog.LoadManifest(g.opts.Root, g.opts.ModulesDir)
	if err != nil {
		return report, core.NewError(core.KindUserInput, g.opts.Root, err)
	}

	for _, target := range g.ResolveTargets(manifest) {
		g.console.Progress("Scanning", target.Prefix)
		pkgs, err := g.scanner.Walk(target.Dir, target.Prefix)
		if err != nil {
			g.console.Warning(err.Error())
			continue
		}
		for _, pkg := range pkgs {
			g.processPackage(ctx, pkg, "", report)
		}
	}

	g.console.Success("Done generating model docs.")
	return report, nil
}

// RunEntities documents the given entities. Entities that are not models are
// reported as skipped.
func (g *Generator) RunEntities(ctx context.Context, entities []*catalog.Entity) *core.Report {
	report := g.begin()
	for _, e := range entities {
		if !e.IsModel(g.opts.BaseModels) {
			g.console.Warning(fmt.Sprintf("%s is not a model", e.QualifiedName))
			report.Add(core.Result{Model: e.QualifiedName, Status: core.StatusSkipped, Reason: core.ErrNotModel.Error()})
			continue
		}
		report.Add(g.Process(ctx, e))
	}
	g.console.Success("Done generating model docs.")
	return report
}

// runModel processes the single type named by Options.Model.
func (g *Generator) runModel(ctx context.Context, report *core.Report) error {
	ref, err := catalog.ParseModelRef(g.opts.Model)
	if err != nil {
		return core.NewError(core.KindUserInput, g.opts.Model, err)
	}

	loc, err := catalog.Lookup(ctx, g.opts.Root, ref)
	if err != nil {
		return core.NewError(core.KindUserInput, ref.String(), fmt.Errorf("model %s not found: %w", ref, err))
	}

	pkg, err := g.scanner.LoadPackage(loc.Dir, loc.Package)
	if err != nil {
		return core.NewError(core.KindDiscovery, ref.String(), err)
	}
	e := pkg.Find(ref.Name)
	if e == nil || !e.IsModel(g.opts.BaseModels) {
		return core.NewError(core.KindUserInput, ref.String(), fmt.Errorf("%s: %w", ref, core.ErrNotModel))
	}

	g.console.Progress("Processing model", e.QualifiedName)
	g.processPackage(ctx, pkg, ref.Name, report)
	return nil
}

// ResolveTargets returns the directories to scan: the primary models directory,
// each module's models directory and every configured namespace. A directory
// already reached by the walk of another target is not scanned again.
func (g *Generator) ResolveTargets(m *catalog.Manifest) []core.NamespaceMapping {
	var targets []core.NamespaceMapping
	add := func(dir, prefix string) {
		dir = filepath.Clean(dir)
		for _, t := range targets {
			if covers(t.Dir, dir) {
				g.logger.Debug("target already covered",
					slog.String("namespace", prefix),
					slog.String("by", t.Prefix))
				return
			}
		}
		kept := targets[:0]
		for _, t := range targets {
			if !covers(dir, t.Dir) {
				kept = append(kept, t)
			}
		}
		targets = append(kept, core.NamespaceMapping{Prefix: prefix, Dir: dir})
	}

	addDir := func(dir string) {
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(m.Root, dir)
		}
		if ns, ok := m.ImportPath(dir); ok {
			if resolved, ok := m.Resolve(ns); ok {
				add(resolved, ns)
			}
		}
	}

	if g.opts.ModelsDir != "" {
		addDir(g.opts.ModelsDir)
	}
	if g.opts.ModulesDir != "" {
		modules := g.opts.ModulesDir
		if !filepath.IsAbs(modules) {
			modules = filepath.Join(m.Root, modules)
		}
		matches, _ := filepath.Glob(filepath.Join(modules, "*", "models"))
		for _, dir := range matches {
			addDir(dir)
		}
	}

	for _, ns := range g.opts.Namespaces {
		ns = catalog.NormalizeNamespace(ns)
		if ns == "" {
			continue
		}
		dir, ok := m.Resolve(ns)
		if !ok {
			g.console.Warning(fmt.Sprintf("Namespace %s could not be resolved to a directory", ns))
			continue
		}
		add(dir, ns)
	}

	return targets
}

// covers reports whether a recursive walk of parent reaches dir. Walks stop
// at nested modules.
func covers(parent, dir string) bool {
	rel, err := filepath.Rel(parent, dir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	for d := dir; d != parent; d = filepath.Dir(d) {
		if catalog.IsModuleDir(d) {
			return false
		}
		if d == filepath.Dir(d) {
			return false
		}
	}
	return true
}

// processPackage handles every file of a package in order. When only is set,
// other types are ignored.
func (g *Generator) processPackage(ctx context.Context, pkg *catalog.Package, only string, report *core.Report) {
	for _, file := range pkg.Files {
		if file.Err != nil {
			if only == "" {
				g.console.Warning(fmt.Sprintf("Cannot load %s: %v", file.Path, file.Err))
			}
			continue
		}
		for _, e := range file.Entities {
			if only != "" && e.Name != only {
				continue
			}
			if !e.IsModel(g.opts.BaseModels) {
				continue
			}
			report.Add(g.Process(ctx, e))
		}
	}
}

// Process documents a single model entity.
func (g *Generator) Process(ctx context.Context, e *catalog.Entity) core.Result {
	res := core.Result{
		Model: e.QualifiedName,
		Table: e.TableName,
		File:  e.SourceFilePath,
	}

	columns, err := g.provider.Columns(ctx, e.TableName)
	if err != nil {
		if errors.Is(err, core.ErrTableNotFound) {
			g.console.Warning(fmt.Sprintf("Table '%s' not found for model %s", e.TableName, e.Name))
		} else {
			g.console.Error(fmt.Sprintf("Failed to get columns for table '%s': %v", e.TableName, err))
		}
		g.logger.Debug("skipping model", slog.String("model", e.QualifiedName), slog.String("error", err.Error()))
		res.Status = core.StatusSkipped
		res.Reason = core.NewError(core.KindSchema, e.Name, err).Error()
		return res
	}
	if len(columns) == 0 {
		res.Status = core.StatusSkipped
		res.Reason = "no columns"
		return res
	}

	props := docblock.Sort(g.Properties(columns), g.sort)
	rels := g.detector.Detect(e.Name, e.Methods)
	block := g.renderer.Render(e.TableName, props, rels)

	res.Columns = len(props)
	res.Relations = len(rels)
	res.Block = block

	if g.opts.DryRun {
		g.console.Println(fmt.Sprintf("%s (preview):\n%s", e.Name, block))
		res.Status = core.StatusPreviewed
		return res
	}

	if err := g.writer.Write(e.SourceFilePath, e.Name, block); err != nil {
		werr := core.NewError(core.KindWrite, e.Name, err)
		g.console.Error(werr.Error())
		res.Status = core.StatusFailed
		res.Reason = werr.Error()
		return res
	}

	g.console.Success(fmt.Sprintf("Updated: %s", e.Name))
	res.Status = core.StatusUpdated
	return res
}

// Properties maps columns to documented properties in column order.
func (g *Generator) Properties(columns []core.Column) []core.Property {
	props := make([]core.Property, 0, len(columns))
	for _, c := range columns {
		var doc string
		if c.Generic {
			doc = g.mapper.MapGoType(c.GoType)
		} else {
			doc = g.mapper.Map(c.Type)
		}
		props = append(props, core.Property{Name: c.Name, NativeType: c.Type, DocType: doc})
	}
	return props
}
