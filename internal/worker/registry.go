// Copyright 2016-2021 National Technology & Engineering Solutions of Sandia, LLC (NTESS).
// Under the terms of Contract DE-NA0003525 with NTESS, the U.S. Government retains certain
// rights in this software.

package worker

import "sync"

// Registry maps a capture handle identifier to its human-readable
// interface label. It is guarded by its own lock, independent of the
// aggregator's -- it is written once per worker start and read once
// per packet, a read-mostly access pattern that doesn't belong sharing
// the aggregator's hotter lock (§5).
type Registry struct {
	mu     sync.RWMutex
	labels map[string]string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{labels: make(map[string]string)}
}

// Bind records the label for a capture handle id, called once when a
// worker starts.
func (r *Registry) Bind(handleID, label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.labels[handleID] = label
}

// Label returns the bound label for a capture handle id.
func (r *Registry) Label(handleID string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.labels[handleID]
}

// Unbind removes a capture handle's label, called when its worker
// exits.
func (r *Registry) Unbind(handleID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.labels, handleID)
}
