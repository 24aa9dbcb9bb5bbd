// Package relation discovers declared relationships on model types.
//
// A relationship is an exported, parameterless method declared on the model
// whose result is a relation descriptor: a value implementing Descriptor, or a
// generic type named after a known relation kind such as HasMany[Post].
package relation

import (
	"reflect"
	"strings"
)

// Descriptor is implemented by values returned from relation methods.
type Descriptor interface {
	// RelationKind returns the kind, e.g. "HasMany" or "BelongsTo".
	RelationKind() string
	// RelatedType returns the related model type, qualified or not.
	RelatedType() string
}

// Method is one method of a model, as seen by the detector.
type Method struct {
	Name      string
	Exported  bool
	NumParams int
	// DeclaredOn is the type that declares the method; empty when promoted from an embedded type.
	DeclaredOn string
	// Call invokes the method. It may return an error or panic; either skips the method.
	Call func() (any, error)
}

// Kinds lists the relation kinds recognized by generic type name.
var Kinds = []string{
	"HasOne",
	"HasMany",
	"BelongsTo",
	"BelongsToMany",
	"HasOneThrough",
	"HasManyThrough",
	"MorphOne",
	"MorphMany",
	"MorphTo",
	"MorphToMany",
	"MorphedByMany",
}

// IsKind reports whether name is a recognized relation kind.
func IsKind(name string) bool {
	for _, k := range Kinds {
		if k == name {
			return true
		}
	}
	return false
}

// IsMany reports whether a kind yields a collection.
// Only the HasMany family does; every other kind renders as a single model.
func IsMany(kind string) bool {
	return strings.HasPrefix(kind, "HasMany")
}

// Classify extracts the kind and related type of a relation descriptor value.
func Classify(v any) (kind, related string, ok bool) {
	if v == nil {
		return "", "", false
	}
	if d, isDesc := v.(Descriptor); isDesc {
		return d.RelationKind(), d.RelatedType(), true
	}

	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return ParseGeneric(t.Name())
}

// ParseGeneric splits an instantiated generic type name such as
// "HasMany[example.com/app/models.Post]" into its kind and first type argument.
// It reports false when the name is not a known relation kind.
func ParseGeneric(name string) (kind, related string, ok bool) {
	open := strings.IndexByte(name, '[')
	if open <= 0 || !strings.HasSuffix(name, "]") {
		return "", "", false
	}
	kind = name[:open]
	if i := strings.LastIndexByte(kind, '.'); i >= 0 {
		kind = kind[i+1:]
	}
	if !IsKind(kind) {
		return "", "", false
	}
	return kind, firstTypeArg(name[open+1 : len(name)-1]), true
}

// firstTypeArg returns the first top-level comma separated argument.
func firstTypeArg(args string) string {
	depth := 0
	for i, r := range args {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				return strings.TrimSpace(args[:i])
			}
		}
	}
	return strings.TrimSpace(args)
}

// ShortName strips pointer and slice markers, package paths and qualifiers from a type name.
func ShortName(typ string) string {
	s := strings.TrimSpace(typ)
	for {
		switch {
		case strings.HasPrefix(s, "*"):
			s = s[1:]
		case strings.HasPrefix(s, "[]"):
			s = s[2:]
		default:
			if i := strings.IndexByte(s, '['); i > 0 {
				s = s[:i]
			}
			if i := strings.LastIndexByte(s, '.'); i >= 0 {
				s = s[i+1:]
			}
			return s
		}
	}
}
