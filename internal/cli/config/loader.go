package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/leapstack-labs/modeldoc/internal/catalog"
	"github.com/spf13/pflag"
)

// loggerKey is used to store logger in context.
type loggerKey struct{}

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// envPrefix prefixes environment variables read into the configuration.
const envPrefix = "MODELDOC_"

// flagKeys maps flag names to config keys where they differ.
// Flags mapped to "" are never loaded into the configuration.
var flagKeys = map[string]string{
	"ns":          "namespaces",
	"driver":      "database.driver",
	"dsn":         "database.dsn",
	"target":      "environment",
	"config":      "",
	"project-dir": "",
	"model":       "",
	"help":        "",
}

// fileDrivers are drivers whose database setting is a file path.
var fileDrivers = map[string]bool{
	"sqlite":  true,
	"sqlite3": true,
	"duckdb":  true,
}

// Package-level config file tracking
var (
	configFileUsed string
	currentConfig  *Config
)

// configIn returns the config file in dir, if any.
func configIn(dir string) string {
	for _, name := range ConfigFileNames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// findProjectRootUpward searches upward from startDir for a config file.
// Returns empty string if not found within maxUpwardSearchLevels.
func findProjectRootUpward(startDir string) string {
	dir := startDir
	for range maxUpwardSearchLevels {
		if configIn(dir) != "" {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// inferProjectRoot determines the project root.
// Priority:
//  1. Explicit --project-dir flag
//  2. Directory of an explicit config file
//  3. Search upward from CWD for modeldoc.yaml
//  4. Nearest directory holding go.mod or go.work
//  5. Current working directory
func inferProjectRoot(cfgFile string, flags *pflag.FlagSet) string {
	if flags != nil && flags.Lookup("project-dir") != nil && flags.Changed("project-dir") {
		if projectDir, _ := flags.GetString("project-dir"); projectDir != "" {
			if abs, err := filepath.Abs(projectDir); err == nil {
				return abs
			}
			return filepath.Clean(projectDir)
		}
	}

	if cfgFile != "" {
		if abs, err := filepath.Abs(cfgFile); err == nil {
			return filepath.Dir(abs)
		}
	}

	cwd, err := os.Getwd()
	if err != nil || cwd == "" {
		return "."
	}
	if root := findProjectRootUpward(cwd); root != "" {
		return root
	}
	if root, err := catalog.FindModuleRoot(cwd); err == nil {
		return root
	}
	return cwd
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// ResetConfig clears the loaded configuration. Used for testing.
func ResetConfig() {
	configFileUsed = ""
	currentConfig = nil
}

// defaults returns the built-in configuration values.
func defaults() map[string]any {
	return map[string]any{
		"models_dir":       DefaultModelsDir,
		"modules_dir":      DefaultModulesDir,
		"sort":             DefaultSort,
		"dry_run":          false,
		"base_models":      DefaultBaseModels,
		"marker":           DefaultMarker,
		"types.temporal":   DefaultTemporal,
		"types.collection": DefaultCollection,
		"verbose":          false,
		"output":           DefaultOutput,
	}
}

// envKey maps MODELDOC_DATABASE_DSN to database.dsn and MODELDOC_MODELS_DIR to models_dir.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	for _, section := range []string{"database_", "types_"} {
		if rest, ok := strings.CutPrefix(key, section); ok {
			return strings.TrimSuffix(section, "_") + "." + rest
		}
	}
	return key
}

// flagKey maps a flag to its config key. Unset flags are skipped.
func flagKey(f *pflag.Flag) string {
	if !f.Changed {
		return ""
	}
	if key, ok := flagKeys[f.Name]; ok {
		return key
	}
	return strings.ReplaceAll(f.Name, "-", "_")
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	projectRoot := inferProjectRoot(cfgFile, flags)

	// 1. Load defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	if cfgFile == "" {
		cfgFile = configIn(projectRoot)
	}
	configFileUsed = cfgFile
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// 3. Load environment variables (MODELDOC_ prefix)
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key := flagKey(f)
			if key == "" {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
				mapstructure.TextUnmarshallerHookFunc(),
			),
			WeaklyTypedInput: true,
			Result:           &cfg,
		},
	}); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// 6. Set project root and resolve relative paths
	cfg.ProjectRoot = projectRoot
	cfg.ModelsDir = resolvePathRelativeTo(cfg.ModelsDir, projectRoot)
	cfg.ModulesDir = resolvePathRelativeTo(cfg.ModulesDir, projectRoot)
	cfg.Namespaces = cleanList(cfg.Namespaces)
	cfg.BaseModels = cleanList(cfg.BaseModels)

	// Apply environment-specific database overrides
	if cfg.Environment != "" {
		envCfg, ok := cfg.Environments[cfg.Environment]
		if !ok {
			return nil, fmt.Errorf("environment %q not found in config\nHint: define it under environments in %s", cfg.Environment, ConfigFileNames[0])
		}
		cfg.Database = MergeDatabaseConfig(cfg.Database, envCfg.Database)
	}

	if cfg.Database == nil {
		cfg.Database = &DatabaseConfig{}
	}
	expandDatabaseEnvVars(cfg.Database)
	if fileDrivers[strings.ToLower(cfg.Database.Driver)] && cfg.Database.Database != ":memory:" {
		cfg.Database.Database = resolvePathRelativeTo(cfg.Database.Database, projectRoot)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	currentConfig = &cfg
	return &cfg, nil
}

// cleanList trims entries and drops empty ones.
func cleanList(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() any {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

// NewLogger creates the CLI logger: debug level when verbose, warnings otherwise.
func NewLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

var envVarRe = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	return envVarRe.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})
}

// expandDatabaseEnvVars expands environment variables in connection fields.
func expandDatabaseEnvVars(d *DatabaseConfig) {
	if d == nil {
		return
	}
	d.DSN = expandEnvVars(d.DSN)
	d.Host = expandEnvVars(d.Host)
	d.Database = expandEnvVars(d.Database)
	d.User = expandEnvVars(d.User)
	d.Password = expandEnvVars(d.Password)
	for k, v := range d.Options {
		d.Options[k] = expandEnvVars(v)
	}
}

// MergeDatabaseConfig merges two database configs, with override taking precedence.
func MergeDatabaseConfig(base, override *DatabaseConfig) *DatabaseConfig {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	merged := *base
	merged.Options = make(map[string]string, len(base.Options)+len(override.Options))
	for k, v := range base.Options {
		merged.Options[k] = v
	}

	if override.Driver != "" {
		merged.Driver = override.Driver
	}
	if override.DSN != "" {
		merged.DSN = override.DSN
	}
	if override.Host != "" {
		merged.Host = override.Host
	}
	if override.Port != 0 {
		merged.Port = override.Port
	}
	if override.Database != "" {
		merged.Database = override.Database
	}
	if override.User != "" {
		merged.User = override.User
	}
	if override.Password != "" {
		merged.Password = override.Password
	}
	if override.Schema != "" {
		merged.Schema = override.Schema
	}
	for k, v := range override.Options {
		merged.Options[k] = v
	}

	return &merged
}
