package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/nfrund/fogwar/internal/config"
)

// Key names a shared service and fixes its type. Names follow
// "owner.service", e.g. "wargame.game".
type Key[T any] string

// Registry is the service locator modules use to share the game, its
// catalog, the turn feed and the event bus. Safe for concurrent use.
type Registry struct {
	services sync.Map
	cfg      config.Provider
}

// New creates a registry that also hands out the configuration.
func New(cfg config.Provider) *Registry {
	return &Registry{cfg: cfg}
}

// Config returns the configuration provider.
func (r *Registry) Config() config.Provider {
	return r.cfg
}

// Set stores value under key, replacing anything already there.
func Set[T any](r *Registry, key Key[T], value T) {
	r.services.Store(string(key), value)
}

// Provide stores value under key unless another module got there first.
func Provide[T any](r *Registry, key Key[T], value T) error {
	if _, loaded := r.services.LoadOrStore(string(key), value); loaded {
		return fmt.Errorf("service %q is already registered", string(key))
	}
	return nil
}

// Get looks up key. A value stored with a different type counts as missing.
func Get[T any](r *Registry, key Key[T]) (T, bool) {
	var zero T
	val, ok := r.services.Load(string(key))
	if !ok {
		return zero, false
	}
	result, ok := val.(T)
	if !ok {
		return zero, false
	}
	return result, true
}

// MustGet is Get for services a module cannot run without. It panics when
// the service is missing.
func MustGet[T any](r *Registry, key Key[T]) T {
	val, ok := Get(r, key)
	if !ok {
		panic(fmt.Sprintf("service not found for key: %v", key))
	}
	return val
}

// Services lists the registered service names in order.
func (r *Registry) Services() []string {
	var names []string
	r.services.Range(func(k, _ any) bool {
		names = append(names, k.(string))
		return true
	})
	sort.Strings(names)
	return names
}
