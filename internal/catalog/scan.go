package catalog

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/leapstack-labs/modeldoc/pkg/core"
)

// File is one source file of a package. Err is set when the file could not be parsed.
type File struct {
	Path     string
	Entities []*Entity
	Err      error
}

// Package is a directory of Go source files sharing an import path.
type Package struct {
	Dir        string
	ImportPath string
	Files      []*File
}

// Scanner loads struct types and their methods from Go source.
type Scanner struct {
	logger *slog.Logger
}

// NewScanner creates a scanner. If logger is nil, a discard logger is used.
func NewScanner(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scanner{logger: logger}
}

// Walk loads every package at or below dir. Subdirectories extend the import path.
// Hidden directories, testdata and vendor are skipped.
func (s *Scanner) Walk(dir, importPath string) ([]*Package, error) {
	var pkgs []*Package
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir {
			name := d.Name()
			if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "testdata" || name == "vendor" {
				return filepath.SkipDir
			}
			if IsModuleDir(path) {
				return filepath.SkipDir
			}
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		pkgPath := importPath
		if rel != "." {
			pkgPath = importPath + "/" + filepath.ToSlash(rel)
		}

		pkg, err := s.LoadPackage(path, pkgPath)
		if err != nil {
			return err
		}
		if len(pkg.Files) > 0 {
			pkgs = append(pkgs, pkg)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	return pkgs, nil
}

// IsModuleDir reports whether dir holds a go.mod file, making it the root of
// its own module.
func IsModuleDir(dir string) bool {
	fi, err := os.Stat(filepath.Join(dir, "go.mod"))
	return err == nil && !fi.IsDir()
}

// sourceFiles lists the non-test Go files of dir, sorted.
func sourceFiles(dir string, includeTests bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") {
			continue
		}
		if !includeTests && strings.HasSuffix(name, "_test.go") {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}

// LoadPackage parses the Go files of one directory. A file that fails to parse
// is recorded with its error; methods declared in the remaining files still
// attach to their types.
func (s *Scanner) LoadPackage(dir, importPath string) (*Package, error) {
	paths, err := sourceFiles(dir, false)
	if err != nil {
		return nil, err
	}

	pkg := &Package{Dir: dir, ImportPath: importPath}
	fset := token.NewFileSet()
	parsed := make(map[string]*ast.File, len(paths))
	for _, path := range paths {
		f, err := parser.ParseFile(fset, path, nil, parser.SkipObjectResolution)
		if err != nil {
			s.logger.Debug("failed to parse file", slog.String("file", path), slog.String("error", err.Error()))
			pkg.Files = append(pkg.Files, &File{Path: path, Err: err})
			continue
		}
		parsed[path] = f
		pkg.Files = append(pkg.Files, &File{Path: path})
	}

	methods := make(map[string][]*ast.FuncDecl)
	for _, file := range pkg.Files {
		f, ok := parsed[file.Path]
		if !ok {
			continue
		}
		for _, decl := range f.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok || fd.Recv == nil || len(fd.Recv.List) == 0 {
				continue
			}
			if recv := baseTypeName(fd.Recv.List[0].Type); recv != "" {
				methods[recv] = append(methods[recv], fd)
			}
		}
	}

	for _, file := range pkg.Files {
		f, ok := parsed[file.Path]
		if !ok {
			continue
		}
		for _, ts := range structSpecs(f) {
			file.Entities = append(file.Entities, newEntity(ts, file.Path, importPath, methods[ts.Name.Name]))
		}
	}

	s.logger.Debug("loaded package", slog.String("dir", dir), slog.String("import_path", importPath), slog.Int("files", len(pkg.Files)))
	return pkg, nil
}

// structSpecs returns the struct type declarations of a file in source order.
func structSpecs(f *ast.File) []*ast.TypeSpec {
	var specs []*ast.TypeSpec
	for _, decl := range f.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok || ts.Assign.IsValid() {
				continue
			}
			if _, ok := ts.Type.(*ast.StructType); ok {
				specs = append(specs, ts)
			}
		}
	}
	return specs
}

func newEntity(ts *ast.TypeSpec, path, importPath string, decls []*ast.FuncDecl) *Entity {
	name := ts.Name.Name
	e := &Entity{
		Name:    name,
		Package: importPath,
		ModelTarget: core.ModelTarget{
			QualifiedName:  qualify(importPath, name),
			SourceFilePath: path,
		},
	}

	st := ts.Type.(*ast.StructType)
	for _, field := range st.Fields.List {
		if len(field.Names) == 0 {
			if embed := baseTypeName(field.Type); embed != "" {
				e.Embeds = append(e.Embeds, embed)
			}
		}
	}

	table := ""
	for _, fd := range decls {
		if fd.Name.Name == "TableName" {
			table = literalReturn(fd)
		}
		e.Methods = append(e.Methods, astMethod(name, fd))
	}
	if table == "" {
		table = DefaultTableName(name)
	}
	e.TableName = table

	return e
}

// baseTypeName returns the bare type name of a receiver or embedded field expression.
func baseTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		return t.Sel.Name
	case *ast.StarExpr:
		return baseTypeName(t.X)
	case *ast.ParenExpr:
		return baseTypeName(t.X)
	case *ast.IndexExpr:
		return baseTypeName(t.X)
	case *ast.IndexListExpr:
		return baseTypeName(t.X)
	default:
		return ""
	}
}

// literalReturn returns the string literal returned by a parameterless
// single-statement method, or "".
func literalReturn(fd *ast.FuncDecl) string {
	if fd.Body == nil || len(fd.Body.List) != 1 || fd.Type.Params.NumFields() != 0 {
		return ""
	}
	ret, ok := fd.Body.List[0].(*ast.ReturnStmt)
	if !ok || len(ret.Results) != 1 {
		return ""
	}
	lit, ok := ret.Results[0].(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return ""
	}
	s, err := strconv.Unquote(lit.Value)
	if err != nil {
		return ""
	}
	return s
}

// FindTypeFile returns the file in dir that declares typeName, test files included.
func FindTypeFile(dir, typeName string) (string, error) {
	paths, err := sourceFiles(dir, true)
	if err != nil {
		return "", err
	}
	fset := token.NewFileSet()
	for _, path := range paths {
		f, err := parser.ParseFile(fset, path, nil, parser.SkipObjectResolution)
		if err != nil {
			continue
		}
		for _, ts := range structSpecs(f) {
			if ts.Name.Name == typeName {
				return path, nil
			}
		}
	}
	return "", fmt.Errorf("%s in %s: %w", typeName, dir, core.ErrTypeNotFound)
}

// Find returns the entity named typeName, or nil.
func (p *Package) Find(typeName string) *Entity {
	for _, f := range p.Files {
		for _, e := range f.Entities {
			if e.Name == typeName {
				return e
			}
		}
	}
	return nil
}
