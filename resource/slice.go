// file: resource/slice.go
package resource

import (
	"context"
	"fmt"
	"sync"

	"go-facilities-admin/logger"
)

// Operation performs one backend call. It must normalize its own transport
// and decoding failures into a Result; it never panics on remote errors.
type Operation[In, T any] func(ctx context.Context, in In) Result[T]

// Slice binds one named Operation to one State.
// Every Start issues a ticket; a terminal transition carrying an older
// ticket is discarded so an out-of-order response cannot overwrite a newer one.
type Slice[In, T any] struct {
	name string
	op   Operation[In, T]

	mu        sync.Mutex
	state     State[T]
	seq       uint64
	observers []Observer
}

// New creates an independent slice. Two calls with the same arguments yield
// two instances that share nothing.
func New[In, T any](name string, op Operation[In, T]) *Slice[In, T] {
	return &Slice[In, T]{name: name, op: op}
}

// Name returns the slice name.
func (s *Slice[In, T]) Name() string { return s.name }

// State returns a copy of the current state.
func (s *Slice[In, T]) State() State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot returns a type-erased copy of the current state.
func (s *Slice[In, T]) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Observe registers fn to be called after each applied transition.
func (s *Slice[In, T]) Observe(fn Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// ------------------- transitions -------------------

// Start marks a new operation in flight and returns its ticket.
// Data is untouched.
func (s *Slice[In, T]) Start() uint64 {
	s.mu.Lock()
	s.seq++
	ticket := s.seq
	s.state.Loading = true
	s.state.Success = false
	s.state.Error = nil
	snap, obs := s.snapshotLocked(), s.observersLocked()
	s.mu.Unlock()

	logger.Debug.Printf("[resource.Start] %s ticket=%d", s.name, ticket)
	notify(obs, snap)
	return ticket
}

// Succeed stores data if ticket belongs to the latest Start.
func (s *Slice[In, T]) Succeed(ticket uint64, data T) bool {
	s.mu.Lock()
	if ticket != s.seq {
		s.mu.Unlock()
		logger.Warn.Printf("[resource.Succeed] %s discarding stale response ticket=%d latest=%d", s.name, ticket, s.seq)
		return false
	}
	s.state.Loading = false
	s.state.Success = true
	s.state.Error = nil
	s.state.Data = data
	snap, obs := s.snapshotLocked(), s.observersLocked()
	s.mu.Unlock()

	notify(obs, snap)
	return true
}

// Fail records reason if ticket belongs to the latest Start. Data keeps its
// previous value.
func (s *Slice[In, T]) Fail(ticket uint64, reason string) bool {
	s.mu.Lock()
	if ticket != s.seq {
		s.mu.Unlock()
		logger.Warn.Printf("[resource.Fail] %s discarding stale failure ticket=%d latest=%d", s.name, ticket, s.seq)
		return false
	}
	s.state.Loading = false
	s.state.Success = false
	s.state.Error = &reason
	snap, obs := s.snapshotLocked(), s.observersLocked()
	s.mu.Unlock()

	logger.Info.Printf("[resource.Fail] %s: %s", s.name, reason)
	notify(obs, snap)
	return true
}

// Dispatch runs the bound operation once: Start, await, then Succeed or Fail.
// It returns the outcome of this call, even when a newer Start has since
// taken over the shared state and the transition was discarded. On failure
// Data is whatever the slice held at that moment.
func (s *Slice[In, T]) Dispatch(ctx context.Context, in In) State[T] {
	ticket := s.Start()
	res := s.op(ctx, in)
	if res.OK() {
		s.Succeed(ticket, res.Value())
		return State[T]{Success: true, Data: res.Value()}
	}
	reason := res.Reason()
	s.Fail(ticket, reason)
	return State[T]{Error: &reason, Data: s.State().Data}
}

// Run dispatches with an untyped input and returns a snapshot carrying this
// call's outcome. It fails with ErrInputType when in is not an In.
func (s *Slice[In, T]) Run(ctx context.Context, in any) (Snapshot, error) {
	v, ok := in.(In)
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: %s expects %T, got %T", ErrInputType, s.name, *new(In), in)
	}
	st := s.Dispatch(ctx, v)
	snap := s.Snapshot()
	snap.Loading = false
	snap.Success = st.Success
	snap.Error = st.Error
	snap.Data = st.Data
	return snap, nil
}

func (s *Slice[In, T]) snapshotLocked() Snapshot {
	return Snapshot{
		Name:    s.name,
		Seq:     s.seq,
		Loading: s.state.Loading,
		Success: s.state.Success,
		Error:   s.state.Error,
		Data:    s.state.Data,
	}
}

func (s *Slice[In, T]) observersLocked() []Observer {
	if len(s.observers) == 0 {
		return nil
	}
	return append([]Observer(nil), s.observers...)
}

func notify(obs []Observer, snap Snapshot) {
	for _, fn := range obs {
		fn(snap)
	}
}
