// Package typemap classifies native SQL column types into documentation types.
package typemap

import "strings"

// Documentation types produced by the mapper besides the temporal type.
const (
	Int    = "int"
	String = "string"
	Bool   = "bool"
	Float  = "float"
	Mixed  = "mixed"
)

// DefaultTemporal is the documentation type used for date and time columns.
const DefaultTemporal = "time.Time"

var builtins = map[string]bool{
	Int:    true,
	String: true,
	Bool:   true,
	Float:  true,
	Mixed:  true,
}

// IsBuiltin reports whether a documentation type is one of the scalar built-ins.
func IsBuiltin(docType string) bool {
	return builtins[docType]
}

// rule maps any of its substrings to a documentation type.
type rule struct {
	needles []string
	docType string
}

// Mapper maps native types to documentation types.
// The zero value uses DefaultTemporal.
type Mapper struct {
	// Temporal is the documentation type for date and time columns.
	Temporal string
}

// New returns a mapper using the given temporal type name.
// An empty name selects DefaultTemporal.
func New(temporal string) Mapper {
	return Mapper{Temporal: temporal}
}

func (m Mapper) temporal() string {
	if m.Temporal == "" {
		return DefaultTemporal
	}
	return m.Temporal
}

// rules are checked in order; the first rule with a matching substring wins.
func (m Mapper) rules() []rule {
	return []rule{
		{needles: []string{"int"}, docType: Int},
		{needles: []string{"bool"}, docType: Bool},
		{needles: []string{"decimal", "double", "float", "real"}, docType: Float},
		{needles: []string{"char", "text", "enum", "set"}, docType: String},
		{needles: []string{"date", "time", "year", "timestamp"}, docType: m.temporal()},
	}
}

// Map returns the documentation type for a native SQL type.
// Matching is case-insensitive; unmatched types map to Mixed.
func (m Mapper) Map(native string) string {
	t := strings.ToLower(native)
	for _, r := range m.rules() {
		for _, needle := range r.needles {
			if strings.Contains(t, needle) {
				return r.docType
			}
		}
	}
	return Mixed
}

// MapGoType returns the documentation type for a driver scan type name,
// as reported for columns listed without native type fidelity.
func (m Mapper) MapGoType(goType string) string {
	switch goType {
	case "int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64",
		"sql.NullInt16", "sql.NullInt32", "sql.NullInt64", "sql.NullByte":
		return Int
	case "float32", "float64", "sql.NullFloat64":
		return Float
	case "bool", "sql.NullBool":
		return Bool
	case "string", "sql.NullString":
		return String
	case "time.Time", "sql.NullTime":
		return m.temporal()
	default:
		return Mixed
	}
}
