// Package registry implements the global registry: advertising globals
// to clients, handling bind requests, and clamping versions.
package registry

import "sort"

// Global is a server-offered registry entry (§3). Name is monotonic
// within one compositor run; it is never reused even after removal.
type Global struct {
	Name       uint32
	Interface  string
	MaxVersion uint32

	removed bool
}

// Registry tracks all globals the compositor currently advertises, plus
// enough history to answer "was this ever a valid global" for bind
// requests racing a removal.
type Registry struct {
	nextName uint32
	globals  map[uint32]*Global
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{globals: make(map[uint32]*Global), nextName: 1}
}

// Add announces a new global and returns it. The caller is responsible
// for emitting wl_registry.global to every already-bound registry
// resource.
func (r *Registry) Add(iface string, maxVersion uint32) *Global {
	g := &Global{Name: r.nextName, Interface: iface, MaxVersion: maxVersion}
	r.globals[g.Name] = g
	r.nextName++
	return g
}

// Remove marks a global removed. Per §3, bound instances continue to
// function; only future binds are rejected. The caller emits
// wl_registry.global_remove to every bound registry resource.
func (r *Registry) Remove(name uint32) {
	if g, ok := r.globals[name]; ok {
		g.removed = true
	}
}

// Purge physically forgets a removed global once it is certain no client
// can still reference it by name (called after the delete_id grace
// period for any registry resources that might still bind it).
func (r *Registry) Purge(name uint32) {
	delete(r.globals, name)
}

// Bind resolves a (name, requestedVersion) pair to the clamped version to
// instantiate, per §4.2: "instantiate a resource of the requested
// interface clamped to min(client_requested_version, global_max_version)".
// It fails if the global is unknown or has been removed.
func (r *Registry) Bind(name uint32, requestedVersion uint32) (iface string, version uint32, ok bool) {
	g, exists := r.globals[name]
	if !exists || g.removed {
		return "", 0, false
	}
	v := requestedVersion
	if v > g.MaxVersion {
		v = g.MaxVersion
	}
	return g.Interface, v, true
}

// Snapshot returns all currently-advertised (non-removed) globals sorted
// by name, for sending the initial burst of wl_registry.global events to
// a freshly bound registry resource.
func (r *Registry) Snapshot() []Global {
	out := make([]Global, 0, len(r.globals))
	for _, g := range r.globals {
		if !g.removed {
			out = append(out, *g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
