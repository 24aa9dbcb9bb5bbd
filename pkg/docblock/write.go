package docblock

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"strings"

	"github.com/google/renameio"
	"github.com/leapstack-labs/modeldoc/pkg/core"
)

// DefaultMarker prefixes the begin and end comments around generated blocks.
const DefaultMarker = "modeldoc"

// Writer places rendered blocks above type declarations.
type Writer struct {
	// Marker is the comment prefix of the region markers. Empty selects DefaultMarker.
	Marker string
}

func (w Writer) marker() string {
	if w.Marker == "" {
		return DefaultMarker
	}
	return w.Marker
}

func (w Writer) beginLine(typeName string) string {
	return "// " + w.marker() + ":begin " + typeName
}

func (w Writer) endLine(typeName string) string {
	return "// " + w.marker() + ":end " + typeName
}

// Strip removes every marked region belonging to typeName.
func (w Writer) Strip(src []byte, typeName string) ([]byte, error) {
	begin, end := w.beginLine(typeName), w.endLine(typeName)
	lines := bytes.SplitAfter(src, []byte("\n"))

	out := make([]byte, 0, len(src))
	inside := false
	for _, line := range lines {
		trimmed := string(bytes.TrimSpace(line))
		switch {
		case !inside && trimmed == begin:
			inside = true
		case inside && trimmed == end:
			inside = false
		case !inside:
			out = append(out, line...)
		}
	}
	if inside {
		return nil, fmt.Errorf("%s: %w", typeName, core.ErrUnterminatedBlock)
	}
	return out, nil
}

// Apply returns src with the block for typeName replaced or inserted.
// The block goes directly above the type's declaration line, after any
// existing doc comment, using the declaration's indentation.
func (w Writer) Apply(src []byte, typeName, block string) ([]byte, error) {
	src, err := w.Strip(src, typeName)
	if err != nil {
		return nil, err
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", src, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}

	pos := typeDeclPos(file, typeName)
	if !pos.IsValid() {
		return nil, fmt.Errorf("%s: %w", typeName, core.ErrTypeNotFound)
	}

	offset := fset.Position(pos).Offset
	lineStart := bytes.LastIndexByte(src[:offset], '\n') + 1
	indent := string(src[lineStart:offset])
	if strings.TrimSpace(indent) != "" {
		indent = ""
	}

	eol := lineEnding(src)

	var buf bytes.Buffer
	buf.Grow(len(src) + len(block) + 64)
	buf.Write(src[:lineStart])
	buf.WriteString(indent + w.beginLine(typeName) + eol)
	for _, line := range strings.Split(strings.TrimRight(block, "\n"), "\n") {
		buf.WriteString(indent + line + eol)
	}
	buf.WriteString(indent + w.endLine(typeName) + eol)
	buf.Write(src[lineStart:])

	return buf.Bytes(), nil
}

// lineEnding returns the line terminator of the first line of src.
func lineEnding(src []byte) string {
	if i := bytes.IndexByte(src, '\n'); i > 0 && src[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// typeDeclPos returns the position of the line that declares typeName:
// the type keyword for a single declaration, the spec inside a group.
func typeDeclPos(file *ast.File, typeName string) token.Pos {
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok || ts.Name.Name != typeName {
				continue
			}
			if gd.Lparen.IsValid() {
				return ts.Pos()
			}
			return gd.Pos()
		}
	}
	return token.NoPos
}

// Write rewrites the file at path with the block for typeName.
// The file is replaced atomically and keeps its permissions; it is left
// untouched when the content would not change.
func (w Writer) Write(path, typeName, block string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	out, err := w.Apply(src, typeName, block)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", path, err)
	}
	if bytes.Equal(out, src) {
		return nil
	}

	if err := renameio.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
