package checkout

import (
	"errors"
	"sync"
)

// ErrNotLoaded is returned when a provider is requested before its script
// has been activated
var ErrNotLoaded = errors.New("checkout script not loaded")

// Environment is the execution environment the widget script is loaded
// into. Hosts register the provider that backs each script URL; the loader
// activates it once the script has been fetched.
type Environment struct {
	mu         sync.RWMutex
	registered map[string]Provider
	active     map[string]Provider
}

// NewEnvironment returns an empty environment
func NewEnvironment() *Environment {
	return &Environment{
		registered: make(map[string]Provider),
		active:     make(map[string]Provider),
	}
}

// Register binds url to the provider its script installs
func (e *Environment) Register(url string, p Provider) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.registered[url] = p
}

// Registered reports whether a provider is bound to url
func (e *Environment) Registered(url string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.registered[url]
	return ok
}

// Loaded reports whether the script at url has been activated
func (e *Environment) Loaded(url string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.active[url]
	return ok
}

// Provider returns the active provider for url
func (e *Environment) Provider(url string) (Provider, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	p, ok := e.active[url]
	if !ok {
		return nil, ErrNotLoaded
	}
	return p, nil
}

// Activate marks the script at url as present, making its registered
// provider available. It fails when nothing is registered for url.
func (e *Environment) Activate(url string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.registered[url]
	if !ok {
		return false
	}
	e.active[url] = p
	return true
}
