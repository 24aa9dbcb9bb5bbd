package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"

	"github.com/leapstack-labs/modeldoc/pkg/core"
)

// Factory creates a provider. A nil logger means a discard logger.
type Factory func(*slog.Logger) Provider

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
	aliases    = make(map[string]string)
)

// Register adds a provider factory to the registry under name and any aliases.
// Called by provider implementations in their init() functions.
func Register(name string, factory Factory, alias ...string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
	for _, a := range alias {
		aliases[a] = name
	}
}

// Get retrieves a provider factory by name or alias.
func Get(name string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}
	f, ok := registry[name]
	return f, ok
}

// NewProvider creates a provider for the configured driver.
// Drivers without a registered provider get the generic fallback.
func NewProvider(cfg core.ConnConfig, logger *slog.Logger) (Provider, error) {
	if cfg.Driver == "" {
		return nil, fmt.Errorf("database driver not specified")
	}

	if factory, ok := Get(cfg.Driver); ok {
		return factory(logger), nil
	}

	if !slices.Contains(sql.Drivers(), cfg.Driver) {
		return nil, &UnknownDriverError{
			Driver:    cfg.Driver,
			Available: ListAdapters(),
		}
	}
	return NewGeneric(cfg.Driver, logger), nil
}

// Open creates a provider for the configured driver and connects it.
func Open(ctx context.Context, cfg core.ConnConfig, logger *slog.Logger) (Provider, error) {
	p, err := NewProvider(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := p.Connect(ctx, cfg); err != nil {
		return nil, err
	}
	return p, nil
}

// ListAdapters returns all registered provider names (sorted), without aliases.
func ListAdapters() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Aliases returns the aliases registered for a provider name (sorted).
func Aliases(name string) []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	var out []string
	for alias, canonical := range aliases {
		if canonical == name {
			out = append(out, alias)
		}
	}
	sort.Strings(out)
	return out
}

// IsRegistered checks if a driver name or alias is registered.
func IsRegistered(name string) bool {
	_, ok := Get(name)
	return ok
}

// UnknownDriverError is returned when neither a provider nor a database/sql driver
// is registered under the requested name.
type UnknownDriverError struct {
	Driver    string
	Available []string
}

func (e *UnknownDriverError) Error() string {
	return fmt.Sprintf("unknown database driver %q\nAvailable providers: %v\nHint: Check database.driver in modeldoc.yaml", e.Driver, e.Available)
}
