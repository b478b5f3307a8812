// file: forms/submit.go
package forms

import (
	"context"
	"fmt"

	"go-facilities-admin/logger"
	"go-facilities-admin/payload"
	"go-facilities-admin/resource"
)

// Form is the part of a form that Submit drives.
type Form interface {
	Root() string
	Lifecycle() *Lifecycle
	Notifier() Notifier
	Validate() (Errors, bool)
	Summary(Errors) string
	Flatten(b *payload.Builder)
}

// Draft is a form edited row by row over HTTP.
type Draft interface {
	Form
	Kind() string
	AddRow(collection string) error
	RemoveRow(collection string, index int) error
	SetField(collection string, index int, field, value string) error
	Attach(collection string, index int, a payload.Attachment) error
	View() any
}

// Dispatch hands a payload to a resource slice and returns the outcome of
// that one call, not the slice's shared state.
type Dispatch[T any] func(ctx context.Context, p *payload.Payload) resource.State[T]

// Submit validates f and, when valid, flattens it with scheme and dispatches
// the payload. Validation failures never reach dispatch. Form records are
// left untouched on every failure so the operator can correct and resubmit.
func Submit[T any](ctx context.Context, f Form, scheme payload.KeyScheme, dispatch Dispatch[T]) (resource.State[T], Errors, error) {
	var zero resource.State[T]
	lc := f.Lifecycle()
	if !lc.Editable() {
		return zero, nil, fmt.Errorf("%w: %s", ErrNotEditable, lc.Current())
	}
	if err := lc.Fire(ctx, EventSubmit); err != nil {
		return zero, nil, err
	}

	errs, ok := f.Validate()
	if !ok {
		if err := lc.Fire(ctx, EventInvalid); err != nil {
			return zero, errs, err
		}
		summary := f.Summary(errs)
		f.Notifier().Notify(Notification{Level: LevelError, Message: summary})
		logger.Info.Printf("Submit: %s blocked with %d field errors", f.Root(), len(errs))
		return zero, errs, fmt.Errorf("%w: %s", ErrValidation, summary)
	}
	if err := lc.Fire(ctx, EventValid); err != nil {
		return zero, errs, err
	}

	b := payload.NewBuilder(f.Root(), scheme)
	f.Flatten(b)
	p := b.Payload()
	logger.Info.Printf("Submit: %s dispatching %d fields, %d files", f.Root(), p.Len(), len(p.Files()))

	st := dispatch(ctx, p)
	if st.Success {
		if err := lc.Fire(ctx, EventSucceed); err != nil {
			return st, nil, err
		}
		f.Notifier().Notify(Notification{Level: LevelSuccess, Message: "Saved successfully"})
		return st, nil, nil
	}

	if err := lc.Fire(ctx, EventFail); err != nil {
		return st, nil, err
	}
	msg := st.ErrorMessage()
	if msg == "" {
		msg = "Submission failed"
	}
	f.Notifier().Notify(Notification{Level: LevelError, Message: msg})
	return st, nil, fmt.Errorf("%w: %s", ErrSubmitFailed, msg)
}

// ------------------- shared form state -------------------

type base struct {
	root  string
	lc    *Lifecycle
	notes *Notifications
	ids   IDSource
}

func newBase(root string) base {
	return base{root: root, lc: NewLifecycle(root), notes: &Notifications{}}
}

// Root implements Form.
func (b *base) Root() string { return b.root }

// Lifecycle implements Form.
func (b *base) Lifecycle() *Lifecycle { return b.lc }

// Notifier implements Form.
func (b *base) Notifier() Notifier { return b.notes }

// Notifications returns the queued notifications.
func (b *base) Notifications() *Notifications { return b.notes }

func (b *base) editable() error {
	if !b.lc.Editable() {
		return fmt.Errorf("%w: %s", ErrNotEditable, b.lc.Current())
	}
	return nil
}

func (b *base) notifyError(msg string) {
	b.notes.Notify(Notification{Level: LevelError, Message: msg})
}

func records[R payload.Record](rs []R) []payload.Record {
	out := make([]payload.Record, len(rs))
	for i, r := range rs {
		out[i] = r
	}
	return out
}
