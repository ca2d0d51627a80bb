// Package runtime hosts the live pieces of the chat server: the client
// registry, the message router, the per-connection session state machine
// and the accept loop. Domain rules live in package domain.
package runtime

import (
	"sort"
	"sync"

	"tchat/contract"
	"tchat/errors"
)

// Registry is the shared map from display name to connection handle,
// the single source of truth for who is online. One mutex serializes
// every operation; the lock is never held across network I/O, except in
// CloseAll where holding it is what keeps shutdown atomic against
// concurrent registrations.
//
// Accepted connections that have not negotiated a name yet are tracked in
// a pending set, so the shutdown sweep reaches them too. Once closed, the
// registry refuses every new connection and registration.
type Registry struct {
	mu       sync.Mutex
	closed   bool
	sessions map[string]contract.ConnHandle
	pending  map[contract.ConnHandle]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]contract.ConnHandle),
		pending:  make(map[contract.ConnHandle]struct{}),
	}
}

// TrackPending records an accepted connection that has no name yet.
// After CloseAll it returns ErrShuttingDown and the caller must close
// the connection itself.
func (r *Registry) TrackPending(handle contract.ConnHandle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return errors.ErrShuttingDown
	}
	r.pending[handle] = struct{}{}
	return nil
}

// Discard drops a pending connection that never registered. Discarding an
// unknown handle is a no-op.
func (r *Registry) Discard(handle contract.ConnHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, handle)
}

// TryRegister atomically checks absence and inserts, moving the handle out
// of the pending set. Under concurrent identical-name negotiation exactly
// one caller wins; the others get ErrNameTaken. A registration racing
// CloseAll loses with ErrShuttingDown, it must never repopulate the
// just-emptied map.
func (r *Registry) TryRegister(name string, handle contract.ConnHandle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return errors.ErrShuttingDown
	}
	if _, exists := r.sessions[name]; exists {
		return errors.ErrNameTaken
	}
	r.sessions[name] = handle
	delete(r.pending, handle)
	return nil
}

// Unregister removes the entry if present. Removing an absent name is a
// no-op so duplicate cleanup calls are harmless.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, name)
}

func (r *Registry) Lookup(name string) (contract.ConnHandle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	handle, ok := r.sessions[name]
	return handle, ok
}

// Snapshot returns a sorted independent copy of the registered names, so
// callers may iterate without holding the lock.
func (r *Registry) Snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.sessions))
	for name := range r.sessions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Handles returns a copy of the name->handle map, minus the excluded name.
// Delivery happens on the copy, after the lock is released.
func (r *Registry) Handles(exclude string) map[string]contract.ConnHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	handles := make(map[string]contract.ConnHandle, len(r.sessions))
	for name, handle := range r.sessions {
		if name != exclude {
			handles[name] = handle
		}
	}
	return handles
}

// Count returns the number of registered clients.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// CloseAll sends the sentinel line to every registered client, closes every
// handle including the still-negotiating ones, and marks the registry
// closed. The whole operation runs under the lock so no registration can
// slip in between the snapshot and the closes. Returns the number of
// clients that were sent the sentinel.
func (r *Registry) CloseAll(sentinel string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	n := len(r.sessions)
	for name, handle := range r.sessions {
		_ = handle.SendLine(sentinel)
		_ = handle.Close()
		delete(r.sessions, name)
	}
	for handle := range r.pending {
		_ = handle.Close()
		delete(r.pending, handle)
	}
	return n
}
