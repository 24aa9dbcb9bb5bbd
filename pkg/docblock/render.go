package docblock

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/modeldoc/pkg/core"
)

// DefaultCollectionFormat renders the type of a to-many relation.
const DefaultCollectionFormat = "[]%s"

// Renderer formats doc blocks.
type Renderer struct {
	// CollectionFormat is a fmt verb string applied to the related type of
	// to-many relations. Empty selects DefaultCollectionFormat.
	CollectionFormat string
}

// RelationType returns the documented type of a relation.
func (r Renderer) RelationType(rel core.Relation) string {
	if rel.Multiplicity != core.MultiplicityMany {
		return rel.Related
	}
	format := r.CollectionFormat
	if format == "" {
		format = DefaultCollectionFormat
	}
	return fmt.Sprintf(format, rel.Related)
}

// Render builds the doc block for a table. Properties are rendered in the given
// order with native and doc types padded to the widest value of the batch,
// followed by relations in the given order. The block ends with a blank line.
func (r Renderer) Render(table string, props []core.Property, rels []core.Relation) string {
	nativeWidth, docWidth := 0, 0
	for _, p := range props {
		nativeWidth = max(nativeWidth, len(p.NativeType))
		docWidth = max(docWidth, len(p.DocType))
	}

	lines := make([]string, 0, len(props)+len(rels)+3)
	lines = append(lines, "/**", " * @table "+table)
	for _, p := range props {
		lines = append(lines, fmt.Sprintf(" * @property  %-*s  %-*s  $%s", nativeWidth, p.NativeType, docWidth, p.DocType, p.Name))
	}
	for _, rel := range rels {
		lines = append(lines, fmt.Sprintf(" * @property-read %s $%s", r.RelationType(rel), rel.Name))
	}
	lines = append(lines, " */\n")

	return strings.Join(lines, "\n")
}
