// file: forms/lifecycle.go
package forms

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"go-facilities-admin/logger"
)

// Form states.
const (
	StateEditing    = "editing"
	StateValidating = "validating"
	StateSubmitting = "submitting"
	StateSubmitted  = "submitted"
)

// Form events.
const (
	EventSubmit  = "submit"
	EventInvalid = "invalid"
	EventValid   = "valid"
	EventSucceed = "succeed"
	EventFail    = "fail"
)

// Lifecycle tracks one form instance:
// editing -> validating -> (editing | submitting) -> (submitted | editing).
type Lifecycle struct {
	name string
	fsm  *fsm.FSM
}

// NewLifecycle returns a lifecycle in the editing state.
func NewLifecycle(name string) *Lifecycle {
	l := &Lifecycle{name: name}
	l.fsm = fsm.NewFSM(
		StateEditing,
		fsm.Events{
			{Name: EventSubmit, Src: []string{StateEditing}, Dst: StateValidating},
			{Name: EventInvalid, Src: []string{StateValidating}, Dst: StateEditing},
			{Name: EventValid, Src: []string{StateValidating}, Dst: StateSubmitting},
			{Name: EventSucceed, Src: []string{StateSubmitting}, Dst: StateSubmitted},
			{Name: EventFail, Src: []string{StateSubmitting}, Dst: StateEditing},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				logger.Debug.Printf("[Lifecycle] %s: %s -> %s (%s)", l.name, e.Src, e.Dst, e.Event)
			},
		},
	)
	return l
}

// Current returns the current state.
func (l *Lifecycle) Current() string {
	return l.fsm.Current()
}

// Editable reports whether records may be changed.
func (l *Lifecycle) Editable() bool {
	return l.fsm.Current() == StateEditing
}

// Fire applies event.
func (l *Lifecycle) Fire(ctx context.Context, event string) error {
	if err := l.fsm.Event(ctx, event); err != nil {
		return fmt.Errorf("%s: %s from %s: %w", l.name, event, l.fsm.Current(), err)
	}
	return nil
}
