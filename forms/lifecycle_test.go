// file: forms/lifecycle_test.go
package forms

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifecycle_Paths(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name   string
		events []string
		want   string
	}{
		{"invalid returns to editing", []string{EventSubmit, EventInvalid}, StateEditing},
		{"failure returns to editing", []string{EventSubmit, EventValid, EventFail}, StateEditing},
		{"success is terminal", []string{EventSubmit, EventValid, EventSucceed}, StateSubmitted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLifecycle("test")
			for _, ev := range tt.events {
				require.NoError(t, l.Fire(ctx, ev))
			}
			assert.Equal(t, tt.want, l.Current())
			assert.Equal(t, tt.want == StateEditing, l.Editable())
		})
	}
}

func TestLifecycle_RejectsOutOfOrder(t *testing.T) {
	l := NewLifecycle("test")
	assert.Error(t, l.Fire(context.Background(), EventSucceed))
	assert.Equal(t, StateEditing, l.Current())

	require.NoError(t, l.Fire(context.Background(), EventSubmit))
	assert.False(t, l.Editable())
	assert.Error(t, l.Fire(context.Background(), EventSubmit))
}

func TestNotifications_Drain(t *testing.T) {
	var n Notifications
	n.Notify(Notification{Level: LevelInfo, Message: "a"})
	assert.Len(t, n.Pending(), 1)
	assert.Len(t, n.Drain(), 1)
	assert.Empty(t, n.Drain())
}
