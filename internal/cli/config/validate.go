package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

// outputFormats are the accepted values of the output setting.
var outputFormats = []string{"auto", "text", "json", "yaml"}

// Validate checks if the configuration is valid.
// An unknown sort policy is not an error: generation warns and sorts by type.
func (c *Config) Validate() error {
	if c.ModelsDir == "" && c.ModulesDir == "" && len(c.Namespaces) == 0 {
		return fmt.Errorf("nothing to scan: models_dir, modules_dir and namespaces are all empty")
	}
	if !slices.Contains(outputFormats, strings.ToLower(c.OutputFormat)) {
		return fmt.Errorf("invalid output format %q (expected %s)", c.OutputFormat, strings.Join(outputFormats, ", "))
	}
	if c.Types.Collection != "" && strings.Count(c.Types.Collection, "%s") != 1 {
		return fmt.Errorf("types.collection must contain exactly one %%s, got %q", c.Types.Collection)
	}
	if c.Database != nil && c.Database.Port < 0 {
		return fmt.Errorf("database.port must not be negative")
	}
	return nil
}

// ValidateDatabase checks that a database connection is configured.
func (c *Config) ValidateDatabase() error {
	if c.Database == nil || c.Database.Driver == "" {
		return fmt.Errorf("database.driver is required\nHint: set database.driver in %s or pass --driver", ConfigFileNames[0])
	}
	return nil
}

// ValidateDirectories checks that the models directory exists when it is the only target.
func (c *Config) ValidateDirectories() error {
	if len(c.Namespaces) > 0 || c.ModelsDir == "" {
		return nil
	}
	if _, err := os.Stat(c.ModelsDir); os.IsNotExist(err) {
		if _, err := os.Stat(c.ModulesDir); err == nil {
			return nil
		}
		return fmt.Errorf("models directory does not exist: %s\nHint: Create the directory, set models_dir or pass --ns", c.ModelsDir)
	}
	return nil
}
