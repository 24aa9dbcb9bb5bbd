package core

import "strings"

// Column is one row of column metadata as reported by a metadata provider.
type Column struct {
	// Name is the column name as stored in the database.
	Name string
	// Type is the lowercased native SQL type (e.g. "bigint", "varchar").
	Type string
	// Generic marks columns listed by the driver-agnostic fallback.
	// Their Type is the driver's database type name and GoType carries the scan type.
	Generic bool
	// GoType is the name of the Go scan type for generic columns (e.g. "int64").
	GoType string
}

// Property is a documented column: its name, native SQL type and documentation type.
type Property struct {
	Name       string
	NativeType string
	DocType    string
}

// Multiplicity is the cardinality of a relation as rendered in a doc block.
type Multiplicity string

// Multiplicity values.
const (
	MultiplicityOne  Multiplicity = "one"
	MultiplicityMany Multiplicity = "many"
)

// Relation is a declared association between two models.
type Relation struct {
	// Name is the accessor name (the method name).
	Name string
	// Related is the bare type name of the related model.
	Related string
	// Multiplicity is one or many.
	Multiplicity Multiplicity
}

// ModelTarget identifies a model type, the file that declares it and its backing table.
type ModelTarget struct {
	// QualifiedName is the import path and type name (e.g. "example.com/app/models.User").
	QualifiedName string
	// SourceFilePath is the absolute path of the declaring Go file.
	SourceFilePath string
	// TableName is the backing table.
	TableName string
}

// NamespaceMapping maps an import path prefix to the directory that holds it.
type NamespaceMapping struct {
	Prefix string
	Dir    string
}

// ConnConfig holds configuration for connecting to a database.
type ConnConfig struct {
	Driver   string
	DSN      string
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Schema   string
	Options  map[string]string
}

// SortPolicy selects the ordering of properties within a doc block.
type SortPolicy string

// Sort policies.
const (
	SortByType SortPolicy = "type"
	SortByName SortPolicy = "name"
	SortByDB   SortPolicy = "db"
)

// ParseSortPolicy converts a string to a SortPolicy.
// Unknown values return SortByType and false.
func ParseSortPolicy(s string) (SortPolicy, bool) {
	switch p := SortPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case SortByType, SortByName, SortByDB:
		return p, true
	default:
		return SortByType, false
	}
}

// AllSortPolicies returns every supported sort policy.
func AllSortPolicies() []SortPolicy {
	return []SortPolicy{SortByType, SortByName, SortByDB}
}
