// Package registry indexes parsed skill manifests by name and is the
// single source of truth for which skills exist. Registries are built once
// during a directory scan, frozen, and read-only thereafter; lookups are
// safe for concurrent use.
package registry

import (
	"sync"

	"github.com/kimseungbin/skillkit/pkg/manifest"
)

// Registry holds registered manifests in registration order.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*manifest.Manifest
	order  []string
	frozen bool
}

// New creates an empty, unfrozen registry.
func New() *Registry {
	return &Registry{
		byName: make(map[string]*manifest.Manifest),
	}
}

// Register adds a manifest. It is all-or-nothing: a duplicate name or a
// frozen registry leaves the registry unchanged.
func (r *Registry) Register(m *manifest.Manifest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return &RegistryError{Reason: RegistryFrozen, Name: m.Name}
	}
	if _, exists := r.byName[m.Name]; exists {
		return &RegistryError{Reason: DuplicateName, Name: m.Name}
	}

	r.byName[m.Name] = m
	r.order = append(r.order, m.Name)
	return nil
}

// Freeze forbids further registration. Loading freezes the registry once
// the scan completes; after that the manifest set is immutable for the
// life of the process.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Lookup returns the manifest registered under name. Absence is a normal
// outcome, reported via the second return value.
func (r *Registry) Lookup(name string) (*manifest.Manifest, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byName[name]
	return m, ok
}

// List returns the ready skills in registration order. Skeleton skills
// are hidden; use ListAll to include them.
func (r *Registry) List() []*manifest.Manifest {
	return r.list(false)
}

// ListAll returns every registered skill in registration order,
// regardless of status.
func (r *Registry) ListAll() []*manifest.Manifest {
	return r.list(true)
}

func (r *Registry) list(includeAll bool) []*manifest.Manifest {
	r.mu.RLock()
	defer r.mu.RUnlock()

	manifests := make([]*manifest.Manifest, 0, len(r.order))
	for _, name := range r.order {
		m := r.byName[name]
		if !includeAll && !m.Ready() {
			continue
		}
		manifests = append(manifests, m)
	}
	return manifests
}

// Len returns the number of registered skills.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
