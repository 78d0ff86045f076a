package dialect

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownDialect is returned for a dialect name with no registered
// constructor.
var ErrUnknownDialect = errors.New("unknown dialect")

// Constructor builds an adapter over raw log text.
type Constructor func(content string) Adapter

var (
	registryMu sync.RWMutex
	registry   = map[string]Constructor{
		"CPLEX":  NewCPLEX,
		"GUROBI": NewGurobi,
		"CBC":    NewCBC,
		"CPSAT":  NewCPSAT,
	}
)

// Register adds a dialect. Names are case-insensitive. Registering an
// existing name fails.
func Register(name string, ctor Constructor) error {
	key := strings.ToUpper(strings.TrimSpace(name))
	if key == "" || ctor == nil {
		return fmt.Errorf("register dialect %q: name and constructor are required", name)
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[key]; exists {
		return fmt.Errorf("register dialect %q: already registered", key)
	}
	registry[key] = ctor
	return nil
}

// New returns an adapter for the named dialect over content.
func New(name, content string) (Adapter, error) {
	registryMu.RLock()
	ctor, ok := registry[strings.ToUpper(strings.TrimSpace(name))]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownDialect, name, strings.Join(Names(), ", "))
	}
	return ctor(content), nil
}

// Known reports whether name is registered.
func Known(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[strings.ToUpper(strings.TrimSpace(name))]
	return ok
}

// Names returns the registered dialect names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
