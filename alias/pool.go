// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package alias

import (
	"errors"
	"fmt"
	"sync"
)

// Package errors.
var (
	// ErrInvalidKey is returned when a key does not refer to a pool entry.
	ErrInvalidKey = errors.New("alias: invalid pool key")

	// ErrScopeNotHeld is returned by Release when the entry does not hold
	// the given scope. Releasing a scope that was never acquired is an
	// authoring bug, not a soft no-op.
	ErrScopeNotHeld = errors.New("alias: scope not held by entry")

	// ErrEntriesLive is returned by Flush when entries still hold live
	// scopes.
	ErrEntriesLive = errors.New("alias: entries still hold live scopes")
)

// Key is an opaque handle to a pool entry. Keys are minted by Acquire and
// stay valid until the entry is reclaimed.
type Key uint64

// entry is one allocated backing object and the scopes holding it live.
type entry[D comparable, T any] struct {
	liveScopes []Scope
	desc       D
	object     T

	// lastUsed is the pool frame at which liveScopes last became empty.
	// Only meaningful while the entry is fully released.
	lastUsed uint64
}

// scopesOverlap reports whether any live scope overlaps the request.
func (e *entry[D, T]) scopesOverlap(scope Scope) bool {
	for _, s := range e.liveScopes {
		if s.Overlaps(scope) {
			return true
		}
	}
	return false
}

// Stats are the pool's monotonic counters.
type Stats struct {
	// Hits counts acquisitions served by reusing an existing object.
	Hits uint64

	// Misses counts acquisitions that materialized a new object.
	Misses uint64

	// Evictions counts reclaimed entries.
	Evictions uint64
}

// Pool is a keyed table of backing objects shared between transient
// resources whose scopes do not overlap. D is the equality-comparable
// description of an object's shape; T is the backing object handle.
//
// All operations are serialized by an internal mutex: multiple frames may
// acquire and release concurrently, and the scan-and-insert in Acquire is
// not atomic as two steps. Physical destruction of objects only happens
// through the callback passed to Evict or Flush; pairing those calls with a
// GPU completion wait is the caller's responsibility.
type Pool[D comparable, T any] struct {
	mu      sync.Mutex
	entries map[Key]*entry[D, T]
	nextKey Key

	// frame is the warm-retention clock, advanced by NextFrame.
	frame uint64

	stats Stats
}

// NewPool creates an empty pool.
func NewPool[D comparable, T any]() *Pool[D, T] {
	return &Pool[D, T]{
		entries: make(map[Key]*entry[D, T]),
	}
}

// Acquire returns a backing object for the given description, live under
// the given scope. An existing object is reused when its description equals
// the request and none of its live scopes overlaps the requested scope;
// otherwise materialize is called once to allocate a new object, which is
// inserted with the requested scope as its only live scope.
//
// A materialization failure is returned as-is and inserts nothing.
func (p *Pool[D, T]) Acquire(scope Scope, desc D, materialize func(D) (T, error)) (Key, T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Linear scan for a compatible entry. Pools hold at most a few dozen
	// transients per frame; a smarter index has nothing to win here.
	for k, e := range p.entries {
		if e.desc == desc && !e.scopesOverlap(scope) {
			e.liveScopes = append(e.liveScopes, scope)
			p.stats.Hits++
			return k, e.object, nil
		}
	}

	// No compatible object: materialize a new one (slow path).
	object, err := materialize(desc)
	if err != nil {
		var zero T
		return 0, zero, err
	}
	p.nextKey++
	k := p.nextKey
	p.entries[k] = &entry[D, T]{
		liveScopes: []Scope{scope},
		desc:       desc,
		object:     object,
	}
	p.stats.Misses++
	return k, object, nil
}

// Get returns the object under key, if present.
func (p *Pool[D, T]) Get(key Key) (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if e, ok := p.entries[key]; ok {
		return e.object, true
	}
	var zero T
	return zero, false
}

// Release removes the scope from the entry's live scopes. When the last
// scope is removed the entry becomes a reclamation candidate; the object is
// kept warm until Evict or Flush actually destroys it.
//
// Releasing a scope the entry does not hold fails with ErrScopeNotHeld.
func (p *Pool[D, T]) Release(key Key, scope Scope) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	e, ok := p.entries[key]
	if !ok {
		return fmt.Errorf("%w: %d", ErrInvalidKey, key)
	}
	for i, s := range e.liveScopes {
		if s == scope {
			e.liveScopes[i] = e.liveScopes[len(e.liveScopes)-1]
			e.liveScopes = e.liveScopes[:len(e.liveScopes)-1]
			if len(e.liveScopes) == 0 {
				e.lastUsed = p.frame
			}
			return nil
		}
	}
	return fmt.Errorf("%w: key %d, scope {%#x %#x}", ErrScopeNotHeld, key, scope.Value, scope.Mask)
}

// NextFrame advances the pool's frame counter and returns the new value.
// Call once per rendered frame; Evict measures idle time in these frames.
func (p *Pool[D, T]) NextFrame() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frame++
	return p.frame
}

// Evict reclaims fully-released entries that have been idle for at least
// keepFor frames, invoking destroy with ownership of each object. Pass
// keepFor == 0 to reclaim every fully-released entry immediately (only
// safe after the device has finished all work that referenced them).
//
// Returns the number of entries reclaimed.
func (p *Pool[D, T]) Evict(keepFor uint64, destroy func(D, T)) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	reclaimed := 0
	for k, e := range p.entries {
		if len(e.liveScopes) != 0 {
			continue
		}
		if p.frame-e.lastUsed < keepFor {
			continue
		}
		delete(p.entries, k)
		p.stats.Evictions++
		reclaimed++
		if destroy != nil {
			destroy(e.desc, e.object)
		}
	}
	return reclaimed
}

// Flush reclaims every entry, invoking destroy with ownership of each
// object. It fails without reclaiming anything if any entry still holds
// live scopes: flushing a pool with live resources is an authoring bug.
func (p *Pool[D, T]) Flush(destroy func(D, T)) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	live := 0
	for _, e := range p.entries {
		if len(e.liveScopes) != 0 {
			live++
		}
	}
	if live != 0 {
		return fmt.Errorf("%w: %d", ErrEntriesLive, live)
	}
	for k, e := range p.entries {
		delete(p.entries, k)
		p.stats.Evictions++
		if destroy != nil {
			destroy(e.desc, e.object)
		}
	}
	return nil
}

// Len returns the number of entries, live or warm.
func (p *Pool[D, T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// Stats returns a snapshot of the pool's counters.
func (p *Pool[D, T]) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}
