// file: resource/store.go
package resource

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go-facilities-admin/logger"
)

// Store errors.
var (
	ErrDuplicateResource = errors.New("resource already registered")
	ErrInputType         = errors.New("input type mismatch")
)

// Resource is the type-erased view of a Slice held by a Store.
type Resource interface {
	Name() string
	Snapshot() Snapshot
	Observe(Observer)
}

// Runner is a Resource that can be dispatched without knowing its type parameters.
type Runner interface {
	Resource
	Run(ctx context.Context, in any) (Snapshot, error)
}

// Store owns the slices of one operator. Slices live as long as the store.
type Store struct {
	owner string

	mu        sync.RWMutex
	resources map[string]Resource
	order     []string
	observers []func(owner string, snap Snapshot)
}

// NewStore creates an empty store for owner.
func NewStore(owner string) *Store {
	return &Store{owner: owner, resources: make(map[string]Resource)}
}

// Owner returns the operator the store belongs to.
func (s *Store) Owner() string { return s.owner }

// Register adds r under its name and forwards its transitions to the store observers.
func (s *Store) Register(r Resource) error {
	s.mu.Lock()
	if _, exists := s.resources[r.Name()]; exists {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDuplicateResource, r.Name())
	}
	s.resources[r.Name()] = r
	s.order = append(s.order, r.Name())
	s.mu.Unlock()

	r.Observe(func(snap Snapshot) {
		s.mu.RLock()
		obs := append(([]func(string, Snapshot))(nil), s.observers...)
		s.mu.RUnlock()
		for _, fn := range obs {
			fn(s.owner, snap)
		}
	})
	return nil
}

// Has reports whether name is registered.
func (s *Store) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.resources[name]
	return ok
}

// Get returns the resource registered under name.
func (s *Store) Get(name string) (Resource, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.resources[name]
	return r, ok
}

// Snapshots returns the state of every resource in registration order.
func (s *Store) Snapshots() []Snapshot {
	s.mu.RLock()
	names := append([]string(nil), s.order...)
	s.mu.RUnlock()

	out := make([]Snapshot, 0, len(names))
	for _, name := range names {
		if r, ok := s.Get(name); ok {
			out = append(out, r.Snapshot())
		}
	}
	return out
}

// Subscribe registers fn for every transition of every resource in the store.
func (s *Store) Subscribe(fn func(owner string, snap Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Lookup returns the typed slice registered under name.
func Lookup[In, T any](s *Store, name string) (*Slice[In, T], bool) {
	r, ok := s.Get(name)
	if !ok {
		return nil, false
	}
	slice, ok := r.(*Slice[In, T])
	if !ok {
		logger.Warn.Printf("[resource.Lookup] %s is registered with a different type (%T)", name, r)
	}
	return slice, ok
}

// ------------------- store provider -------------------

// StoreProvider hands out the store for an operator.
type StoreProvider interface {
	GetStore(owner string) *Store
}

type realStoreProvider struct {
	mu     sync.Mutex
	stores map[string]*Store
	init   func(*Store) error
}

// NewStoreProvider returns a provider that creates stores on first use and
// runs init on each new store.
func NewStoreProvider(init func(*Store) error) StoreProvider {
	return &realStoreProvider{stores: make(map[string]*Store), init: init}
}

// GetStore returns the persistent store for owner.
func (p *realStoreProvider) GetStore(owner string) *Store {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.stores[owner]; ok {
		return s
	}

	s := NewStore(owner)
	if p.init != nil {
		if err := p.init(s); err != nil {
			logger.Error.Printf("[GetStore] Initializing store for %s: %v", owner, err)
		}
	}
	p.stores[owner] = s
	logger.Info.Printf("[GetStore] Created resource store for %s", owner)
	return s
}
