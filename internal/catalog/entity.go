package catalog

import (
	"slices"

	"github.com/go-openapi/inflect"
	"github.com/leapstack-labs/modeldoc/pkg/core"
	"github.com/leapstack-labs/modeldoc/pkg/relation"
)

// DefaultBaseModels are the embedded type names that mark a struct as a model.
var DefaultBaseModels = []string{"Model"}

// Entity is a struct type found in a package, with what the generator needs to document it.
type Entity struct {
	core.ModelTarget
	// Name is the type name.
	Name string
	// Package is the import path of the declaring package.
	Package string
	// Embeds lists the names of embedded types, without package qualifiers.
	Embeds []string
	// Methods are the type's methods in declaration order.
	Methods []relation.Method
}

// IsModel reports whether the entity embeds one of the base model types.
func (e *Entity) IsModel(bases []string) bool {
	if len(bases) == 0 {
		bases = DefaultBaseModels
	}
	for _, embed := range e.Embeds {
		if slices.Contains(bases, embed) {
			return true
		}
	}
	return false
}

// DefaultTableName derives a table name from a type name: snake case, plural.
func DefaultTableName(typeName string) string {
	return inflect.Pluralize(inflect.Underscore(typeName))
}

// qualify joins an import path and a type name.
func qualify(importPath, name string) string {
	if importPath == "" {
		return name
	}
	return importPath + "." + name
}
