// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"runtime"
	"sort"
	"sync"
)

// Factory creates a fresh Backend value.
type Factory func() Backend

// RegistryEntry represents a registered backend.
type RegistryEntry struct {
	// Name is the unique identifier for this backend.
	Name string

	// Priority determines selection order (higher = preferred).
	// Built-in priorities:
	//   - 100: gpu (WebGPU device of the window)
	//   - 90: metal, direct3d
	//   - 80: opengl
	//   - 10: software
	Priority int

	// Factory creates backend values.
	Factory Factory

	// Available reports if the backend can work on this system.
	Available func() bool
}

// globalRegistry is the default registry.
var globalRegistry = NewRegistry()

// Registry holds backends by name.
//
// Platforms and engines can add backends without changes to this package:
//
//	func init() {
//	    surface.Register("vulkan", 95, newVulkanBackend, vulkanAvailable)
//	}
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*RegistryEntry
}

// NewRegistry creates a new empty registry.
// Most code should use the global registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*RegistryEntry),
	}
}

// Register adds a backend to the global registry.
// If available is nil, the backend is assumed always available.
// Registering a name that already exists replaces the previous entry.
func Register(name string, priority int, factory Factory, available func() bool) {
	globalRegistry.Register(name, priority, factory, available)
}

// Unregister removes a backend from the global registry.
func Unregister(name string) {
	globalRegistry.Unregister(name)
}

// List returns all registered backend names sorted by priority (highest first).
func List() []string {
	return globalRegistry.List()
}

// Available returns names of all available backends sorted by priority.
func Available() []string {
	return globalRegistry.Available()
}

// Get returns information about a specific backend.
func Get(name string) (*RegistryEntry, bool) {
	return globalRegistry.Get(name)
}

// New creates a backend by name from the global registry.
func New(name string) (Backend, error) {
	return globalRegistry.New(name)
}

// Ordered creates one value of every available backend of the global
// registry, best first.
func Ordered() []Backend {
	return globalRegistry.Ordered()
}

// Register adds a backend to this registry.
func (r *Registry) Register(name string, priority int, factory Factory, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if available == nil {
		available = func() bool { return true }
	}

	r.entries[name] = &RegistryEntry{
		Name:      name,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

// Unregister removes a backend from this registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, name)
}

// List returns all registered backend names sorted by priority.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNames(false)
}

// Available returns names of all available backends sorted by priority.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNames(true)
}

// Get returns information about a specific backend.
func (r *Registry) Get(name string) (*RegistryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	if !ok {
		return nil, false
	}

	// Return a copy to prevent modification
	entryCopy := *entry
	return &entryCopy, true
}

// New creates a backend by name.
func (r *Registry) New(name string) (Backend, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &BackendNotFoundError{Name: name}
	}
	if !entry.Available() {
		return nil, &BackendUnavailableError{Name: name}
	}
	return entry.Factory(), nil
}

// Ordered creates one value of every available backend, best first.
func (r *Registry) Ordered() []Backend {
	r.mu.RLock()
	names := r.sortedNames(true)
	factories := make([]Factory, len(names))
	for i, name := range names {
		factories[i] = r.entries[name].Factory
	}
	r.mu.RUnlock()

	backends := make([]Backend, len(factories))
	for i, f := range factories {
		backends[i] = f()
	}
	return backends
}

// sortedNames returns backend names sorted by priority (highest first),
// ties broken by name. If onlyAvailable is true, filters to available
// backends only. Must be called with lock held.
func (r *Registry) sortedNames(onlyAvailable bool) []string {
	if len(r.entries) == 0 {
		return nil
	}

	type entry struct {
		name     string
		priority int
	}

	entries := make([]entry, 0, len(r.entries))
	for name, e := range r.entries {
		if onlyAvailable && !e.Available() {
			continue
		}
		entries = append(entries, entry{name: name, priority: e.Priority})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].priority != entries[j].priority {
			return entries[i].priority > entries[j].priority
		}
		return entries[i].name < entries[j].name
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}

// Errors.
var (
	// ErrNoBackendAvailable is returned when no backend could supply a
	// context.
	ErrNoBackendAvailable = errors.New("surface: no backend available")
)

// BackendNotFoundError indicates a named backend is not registered.
type BackendNotFoundError struct {
	Name string
}

func (e *BackendNotFoundError) Error() string {
	return "surface: backend not found: " + e.Name
}

// BackendUnavailableError indicates a backend exists but is not available.
type BackendUnavailableError struct {
	Name string
}

func (e *BackendUnavailableError) Error() string {
	return "surface: backend unavailable: " + e.Name
}

func onGOOS(goos ...string) func() bool {
	return func() bool {
		for _, g := range goos {
			if runtime.GOOS == g {
				return true
			}
		}
		return false
	}
}

// init registers the built-in backends.
func init() {
	Register("gpu", 100, GPU, nil)
	Register("metal", 90, Metal, onGOOS("darwin", "ios"))
	Register("direct3d", 90, Direct3D, onGOOS("windows"))
	Register("opengl", 80, OpenGL, func() bool { return runtime.GOOS != "js" })
	Register("software", 10, Software, nil)
}
