package catalog

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/modeldoc/pkg/core"
	"golang.org/x/tools/go/packages"
)

// ModelRef is a type named on the command line.
type ModelRef struct {
	Package string
	Name    string
}

// ParseModelRef splits "example.com/app/models.User" or
// "example.com/app/models/User" into package and type name.
// Backslashes are accepted as separators.
func ParseModelRef(ref string) (ModelRef, error) {
	ref = NormalizeNamespace(ref)
	slash := strings.LastIndex(ref, "/")
	tail := ref[slash+1:]

	var r ModelRef
	if dot := strings.LastIndex(tail, "."); dot >= 0 {
		r = ModelRef{Package: ref[:slash+1+dot], Name: tail[dot+1:]}
	} else if slash > 0 {
		r = ModelRef{Package: ref[:slash], Name: tail}
	}

	if r.Package == "" || !token.IsIdentifier(r.Name) {
		return ModelRef{}, fmt.Errorf("invalid model reference %q: expected <package>.<Type>", ref)
	}
	return r, nil
}

// String returns the qualified name.
func (r ModelRef) String() string {
	return qualify(r.Package, r.Name)
}

// pattern returns the go/packages pattern for the reference.
// A bare package name is taken relative to the working directory.
func (r ModelRef) pattern() string {
	first, _, _ := strings.Cut(r.Package, "/")
	if !strings.Contains(first, ".") && !strings.HasPrefix(r.Package, ".") {
		return "./" + r.Package
	}
	return r.Package
}

// Location is where a referenced type is declared.
type Location struct {
	Package string
	Dir     string
	File    string
}

// Lookup locates the declaration of a referenced type with go/packages,
// running from dir.
func Lookup(ctx context.Context, dir string, ref ModelRef) (*Location, error) {
	fset := token.NewFileSet()
	cfg := &packages.Config{
		Context: ctx,
		Dir:     dir,
		Fset:    fset,
		Mode:    packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles | packages.NeedSyntax,
	}

	pkgs, err := packages.Load(cfg, ref.pattern())
	if err != nil {
		return nil, fmt.Errorf("failed to load package %s: %w", ref.Package, err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("package %s: %w", ref.Package, core.ErrTypeNotFound)
	}

	pkg := pkgs[0]
	if len(pkg.Syntax) == 0 && len(pkg.Errors) > 0 {
		return nil, fmt.Errorf("failed to load package %s: %w", ref.Package, errors.New(pkg.Errors[0].Msg))
	}

	for _, f := range pkg.Syntax {
		for _, decl := range f.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok || ts.Name.Name != ref.Name {
					continue
				}
				file := fset.Position(ts.Pos()).Filename
				return &Location{
					Package: pkg.PkgPath,
					Dir:     filepath.Dir(file),
					File:    file,
				}, nil
			}
		}
	}

	return nil, fmt.Errorf("%s: %w", ref, core.ErrTypeNotFound)
}
