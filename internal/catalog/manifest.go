// Package catalog discovers model types in Go source trees.
//
// Namespaces are Go import paths. They are resolved to directories through the
// module manifests of the project: the root go.mod, the modules listed by
// go.work and every go.mod found one level below the modules directory.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/leapstack-labs/modeldoc/pkg/core"
	"golang.org/x/mod/modfile"
)

// Module is a Go module declared by a manifest.
type Module struct {
	Path string
	Dir  string
}

// Manifest holds the modules of a project.
type Manifest struct {
	Root    string
	Modules []Module
}

// FindModuleRoot returns the nearest directory at or above start holding a go.mod file.
func FindModuleRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", start, err)
	}
	for {
		goModPath := filepath.Join(dir, "go.mod")
		fi, err := os.Stat(goModPath)
		if err != nil {
			if !os.IsNotExist(err) {
				return "", fmt.Errorf("failed to stat %s: %w", goModPath, err)
			}
		} else if !fi.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", errors.New("go.mod not found in directory tree")
}

// LoadManifest reads the module manifests under root.
// modulesDir is relative to root; an empty value skips module discovery.
func LoadManifest(root, modulesDir string) (*Manifest, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root: %w", err)
	}

	m := &Manifest{Root: root}
	seen := make(map[string]bool)
	add := func(dir string) error {
		dir = filepath.Clean(dir)
		if seen[dir] {
			return nil
		}
		path, err := readModulePath(filepath.Join(dir, "go.mod"))
		if err != nil {
			return err
		}
		seen[dir] = true
		m.Modules = append(m.Modules, Module{Path: path, Dir: dir})
		return nil
	}

	if _, err := os.Stat(filepath.Join(root, "go.mod")); err == nil {
		if err := add(root); err != nil {
			return nil, err
		}
	}

	if data, err := os.ReadFile(filepath.Join(root, "go.work")); err == nil {
		wf, err := modfile.ParseWork(filepath.Join(root, "go.work"), data, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to parse go.work: %w", err)
		}
		for _, use := range wf.Use {
			dir := use.Path
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(root, filepath.FromSlash(dir))
			}
			if err := add(dir); err != nil {
				return nil, err
			}
		}
	}

	if modulesDir != "" {
		matches, _ := filepath.Glob(filepath.Join(root, modulesDir, "*", "go.mod"))
		sort.Strings(matches)
		for _, gomod := range matches {
			if err := add(filepath.Dir(gomod)); err != nil {
				return nil, err
			}
		}
	}

	if len(m.Modules) == 0 {
		return nil, fmt.Errorf("no go.mod or go.work found in %s", root)
	}
	return m, nil
}

func readModulePath(gomod string) (string, error) {
	data, err := os.ReadFile(gomod)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", gomod, err)
	}
	f, err := modfile.ParseLax(gomod, data, nil)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", gomod, err)
	}
	if f.Module == nil || f.Module.Mod.Path == "" {
		return "", fmt.Errorf("%s has no module directive", gomod)
	}
	return f.Module.Mod.Path, nil
}

// Mappings returns the import path prefix to directory mappings of all modules.
func (m *Manifest) Mappings() []core.NamespaceMapping {
	out := make([]core.NamespaceMapping, 0, len(m.Modules))
	for _, mod := range m.Modules {
		out = append(out, core.NamespaceMapping{Prefix: mod.Path, Dir: mod.Dir})
	}
	return out
}

// Resolve maps an import path to an existing directory.
// The module with the longest matching path prefix wins.
func (m *Manifest) Resolve(importPath string) (string, bool) {
	importPath = strings.TrimSuffix(NormalizeNamespace(importPath), "/")

	best := -1
	for i, mod := range m.Modules {
		if importPath != mod.Path && !strings.HasPrefix(importPath, mod.Path+"/") {
			continue
		}
		if best < 0 || len(mod.Path) > len(m.Modules[best].Path) {
			best = i
		}
	}
	if best < 0 {
		return "", false
	}

	mod := m.Modules[best]
	rest := strings.TrimPrefix(strings.TrimPrefix(importPath, mod.Path), "/")
	dir := filepath.Join(mod.Dir, filepath.FromSlash(rest))
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		return "", false
	}
	return dir, true
}

// ImportPath maps a directory back to its import path.
// The module with the deepest directory containing dir wins.
func (m *Manifest) ImportPath(dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}

	best := -1
	var bestRel string
	for i, mod := range m.Modules {
		rel, err := filepath.Rel(mod.Dir, dir)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if best < 0 || len(mod.Dir) > len(m.Modules[best].Dir) {
			best, bestRel = i, rel
		}
	}
	if best < 0 {
		return "", false
	}
	if bestRel == "." {
		return m.Modules[best].Path, true
	}
	return m.Modules[best].Path + "/" + filepath.ToSlash(bestRel), true
}

// NormalizeNamespace converts backslash separators to import path slashes.
func NormalizeNamespace(ns string) string {
	return strings.ReplaceAll(strings.TrimSpace(ns), `\`, "/")
}
