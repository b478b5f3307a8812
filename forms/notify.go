// file: forms/notify.go
package forms

import "sync"

// Level of a user-facing notification.
type Level string

// Notification levels.
const (
	LevelError   Level = "error"
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
)

// Notification is a toast shown to the operator.
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier receives notifications raised by a form.
type Notifier interface {
	Notify(Notification)
}

// Notifications queues notifications until the next view drains them.
type Notifications struct {
	mu    sync.Mutex
	items []Notification
}

// Notify implements Notifier.
func (n *Notifications) Notify(note Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, note)
}

// Drain returns and clears the queued notifications.
func (n *Notifications) Drain() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.items
	n.items = nil
	return out
}

// Pending returns the queued notifications without clearing them.
func (n *Notifications) Pending() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.items...)
}
