// Package resource implements the request state machine that every backend
// operation is bound to. A Slice owns exactly four fields (loading, success,
// error, data) and changes them only through Start, Succeed and Fail.
// File: resource/state.go
package resource

// State is the uniform shape stored for every bound operation.
// Error is nil unless the most recent terminal outcome was a failure.
type State[T any] struct {
	Loading bool    `json:"loading"`
	Success bool    `json:"success"`
	Error   *string `json:"error"`
	Data    T       `json:"data"`
}

// ErrorMessage returns the failure reason or "" when there is none.
func (s State[T]) ErrorMessage() string {
	if s.Error == nil {
		return ""
	}
	return *s.Error
}

// Snapshot is a type-erased copy of a State used by observers and views.
type Snapshot struct {
	Name    string  `json:"name"`
	Seq     uint64  `json:"seq"`
	Loading bool    `json:"loading"`
	Success bool    `json:"success"`
	Error   *string `json:"error"`
	Data    any     `json:"data"`
}

// Observer is called after every applied transition.
type Observer func(Snapshot)

// Result is the outcome of one operation: either a value or a failure reason.
type Result[T any] struct {
	value  T
	reason string
	ok     bool
}

// Succeeded wraps a successful value.
func Succeeded[T any](v T) Result[T] {
	return Result[T]{value: v, ok: true}
}

// Failed wraps a failure reason that has already been coerced to a display string.
func Failed[T any](reason string) Result[T] {
	return Result[T]{reason: reason}
}

// OK reports whether the operation succeeded.
func (r Result[T]) OK() bool { return r.ok }

// Value returns the success value (zero on failure).
func (r Result[T]) Value() T { return r.value }

// Reason returns the failure reason ("" on success).
func (r Result[T]) Reason() string { return r.reason }
