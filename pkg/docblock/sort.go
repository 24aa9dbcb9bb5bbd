package docblock

import (
	"cmp"
	"slices"

	"github.com/leapstack-labs/modeldoc/pkg/core"
	"github.com/leapstack-labs/modeldoc/pkg/typemap"
)

// builtinRank places scalar built-in doc types before everything else.
func builtinRank(p core.Property) int {
	if typemap.IsBuiltin(p.DocType) {
		return 0
	}
	return 1
}

// Sort returns the properties ordered by policy. The input is not modified.
//
//   - type: built-ins first, then doc type, then name
//   - name: name only
//   - db:   built-ins first, then doc type, then native type, then name
func Sort(props []core.Property, policy core.SortPolicy) []core.Property {
	out := slices.Clone(props)

	var compare func(a, b core.Property) int
	switch policy {
	case core.SortByName:
		compare = func(a, b core.Property) int {
			return cmp.Compare(a.Name, b.Name)
		}
	case core.SortByDB:
		compare = func(a, b core.Property) int {
			return cmp.Or(
				cmp.Compare(builtinRank(a), builtinRank(b)),
				cmp.Compare(a.DocType, b.DocType),
				cmp.Compare(a.NativeType, b.NativeType),
				cmp.Compare(a.Name, b.Name),
			)
		}
	default:
		compare = func(a, b core.Property) int {
			return cmp.Or(
				cmp.Compare(builtinRank(a), builtinRank(b)),
				cmp.Compare(a.DocType, b.DocType),
				cmp.Compare(a.Name, b.Name),
			)
		}
	}

	slices.SortStableFunc(out, compare)
	return out
}
