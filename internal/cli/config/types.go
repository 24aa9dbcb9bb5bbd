// Package config provides configuration management for the modeldoc CLI.
//
// Configuration is layered with koanf: built-in defaults, then modeldoc.yaml,
// then MODELDOC_* environment variables, then explicitly set flags.
package config

import (
	"maps"

	"github.com/leapstack-labs/modeldoc/pkg/core"
)

// Config holds all CLI configuration options.
type Config struct {
	// ProjectRoot is the directory paths are resolved against. Not read from files.
	ProjectRoot string `koanf:"-"`

	ModelsDir        string               `koanf:"models_dir"`
	ModulesDir       string               `koanf:"modules_dir"`
	Namespaces       []string             `koanf:"namespaces"`
	Sort             string               `koanf:"sort"`
	DryRun           bool                 `koanf:"dry_run"`
	BaseModels       []string             `koanf:"base_models"`
	ExcludeRelations []string             `koanf:"exclude_relations"`
	Marker           string               `koanf:"marker"`
	Types            TypesConfig          `koanf:"types"`
	Database         *DatabaseConfig      `koanf:"database"`
	Environment      string               `koanf:"environment"`
	Environments     map[string]EnvConfig `koanf:"environments"`
	Verbose          bool                 `koanf:"verbose"`
	OutputFormat     string               `koanf:"output"`
}

// TypesConfig controls the documentation types used in generated blocks.
type TypesConfig struct {
	// Temporal is the type of date and time columns.
	Temporal string `koanf:"temporal"`
	// Collection is the fmt format of to-many relation types.
	Collection string `koanf:"collection"`
}

// DatabaseConfig describes the database connection.
type DatabaseConfig struct {
	Driver   string            `koanf:"driver"`
	DSN      string            `koanf:"dsn"`
	Host     string            `koanf:"host"`
	Port     int               `koanf:"port"`
	Database string               `koanf:"database"`
	User     string            `koanf:"user"`
	Password string            `koanf:"password"`
	Schema   string            `koanf:"schema"`
	Options  map[string]string `koanf:"options"`
}

// EnvConfig holds environment-specific overrides.
type EnvConfig struct {
	Database *DatabaseConfig      `koanf:"database"`
}

// ConnConfig converts the database settings for the provider layer.
func (d *DatabaseConfig) ConnConfig() core.ConnConfig {
	if d == nil {
		return core.ConnConfig{}
	}
	return core.ConnConfig{
		Driver:   d.Driver,
		DSN:      d.DSN,
		Host:     d.Host,
		Port:     d.Port,
		Database: d.Database,
		Username: d.User,
		Password: d.Password,
		Schema:   d.Schema,
		Options:  maps.Clone(d.Options),
	}
}

// Default configuration values.
const (
	DefaultModelsDir  = "models"
	DefaultModulesDir = "modules"
	DefaultSort       = "type"
	DefaultMarker     = "modeldoc"
	DefaultTemporal   = "time.Time"
	DefaultCollection = "[]%s"
	DefaultOutput     = "auto"
)

// DefaultBaseModels are the embedded types that mark a struct as a model.
var DefaultBaseModels = []string{"Model"}

// ConfigFileNames are the config files looked up in the project root, in order.
var ConfigFileNames = []string{"modeldoc.yaml", "modeldoc.yml"}
