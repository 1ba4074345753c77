package person

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrNotFound     = errors.New("person not found")
	ErrDuplicateKey = errors.New("a person with this name and BBAN already exists")
)

// Store exposes person records to HTTP handlers.
type Store interface {
	List() []Person
	Find(name, bban string) (Person, error)
	Create(p Person) (Person, error)
	Update(name, bban string, p Person) (Person, error)
	Delete(name, bban string) (int, error)
	Len() int
}

// Registry implements Store with an ordered in-memory slice. A single
// RWMutex guards the slice; every mutation runs under the write lock.
type Registry struct {
	mu    sync.RWMutex
	items []Person
}

// NewRegistry returns a Registry preloaded with the supplied records, in order.
func NewRegistry(items []Person) *Registry {
	return &Registry{items: append([]Person(nil), items...)}
}

// List returns a copy of every record in insertion order.
func (r *Registry) List() []Person {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Person, len(r.items))
	copy(out, r.items)
	return out
}

// Find returns the first record matching the key.
func (r *Registry) Find(name, bban string) (Person, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(name, bban); i >= 0 {
		return r.items[i], nil
	}
	return Person{}, notFound(name, bban)
}

// Create appends p unless a record with the same key already exists.
func (r *Registry) Create(p Person) (Person, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(p.Name, p.BBAN) >= 0 {
		return Person{}, fmt.Errorf("%w: name=%s bban=%s", ErrDuplicateKey, p.Name, p.BBAN)
	}
	r.items = append(r.items, p)
	return p, nil
}

// Update overwrites every field of the first record matching the key,
// keeping its position. The key itself may change, and no duplicate check
// is made against the new key.
func (r *Registry) Update(name, bban string, p Person) (Person, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(name, bban)
	if i < 0 {
		return Person{}, notFound(name, bban)
	}
	r.items[i] = p
	return p, nil
}

// Delete removes all records matching the key and returns how many were
// removed. Only Update can leave more than one.
func (r *Registry) Delete(name, bban string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := make([]Person, 0, len(r.items))
	for _, item := range r.items {
		if !item.Matches(name, bban) {
			kept = append(kept, item)
		}
	}

	removed := len(r.items) - len(kept)
	if removed == 0 {
		return 0, notFound(name, bban)
	}
	r.items = kept
	return removed, nil
}

// Len reports the current number of records.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// indexOf expects the caller to hold r.mu.
func (r *Registry) indexOf(name, bban string) int {
	for i, item := range r.items {
		if item.Matches(name, bban) {
			return i
		}
	}
	return -1
}

func notFound(name, bban string) error {
	return fmt.Errorf("%w: name=%s bban=%s", ErrNotFound, name, bban)
}
