package core

import (
	"sync"
)

// CurrentScope returns the verification scope for the given test, creating
// one if needed. Multiple calls with the same TestReporter return the same
// Scope instance, so every mock built in one test shares one ordering
// domain without threading the scope through setup by hand.
//
// If the TestReporter supports Cleanup (like *testing.T), the Scope is
// automatically removed from the registry when the test completes.
func CurrentScope(t TestReporter) *Scope {
	registryMu.Lock()
	defer registryMu.Unlock()

	if scope, ok := registry[t]; ok {
		return scope
	}

	scope := NewScope(t)
	registry[t] = scope

	// Register cleanup if the TestReporter supports it
	if cr, ok := t.(cleanupRegistrar); ok {
		cr.Cleanup(func() {
			registryMu.Lock()
			delete(registry, t)
			registryMu.Unlock()
		})
	}

	return scope
}

// unexported variables.
var (
	//nolint:gochecknoglobals // Package-level registry is intentional for test coordination
	registry = make(map[TestReporter]*Scope)
	//nolint:gochecknoglobals // Mutex for registry
	registryMu sync.Mutex
)

// cleanupRegistrar is the interface needed for registering cleanup functions.
// This is satisfied by *testing.T and *testing.B.
type cleanupRegistrar interface {
	Cleanup(cleanupFunc func())
}
