// file: resource/slice_test.go
package resource

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serverErr struct{ msg string }

func (e serverErr) Error() string         { return "request failed with status code 422" }
func (e serverErr) ServerMessage() string { return e.msg }

func noop(context.Context, string) Result[[]string] { return Succeeded[[]string](nil) }

func TestSlice_InitialState(t *testing.T) {
	s := New("fetchTickets", noop)
	st := s.State()
	assert.False(t, st.Loading)
	assert.False(t, st.Success)
	assert.Nil(t, st.Error)
	assert.Nil(t, st.Data)
}

func TestSlice_StartClearsOutcome(t *testing.T) {
	s := New("fetchTickets", noop)
	ticket := s.Start()
	s.Fail(ticket, "boom")

	s.Start()
	st := s.State()
	assert.True(t, st.Loading)
	assert.False(t, st.Success)
	assert.Nil(t, st.Error)
}

func TestSlice_SucceedAlwaysSetsSuccess(t *testing.T) {
	s := New("fetchTickets", noop)
	ticket := s.Start()
	s.Fail(ticket, "boom")

	ticket = s.Start()
	require.True(t, s.Succeed(ticket, []string{"a"}))
	st := s.State()
	assert.False(t, st.Loading)
	assert.True(t, st.Success)
	assert.Nil(t, st.Error)
	assert.Equal(t, []string{"a"}, st.Data)
}

func TestSlice_FailKeepsStaleData(t *testing.T) {
	s := New("fetchTickets", noop)
	ticket := s.Start()
	s.Succeed(ticket, []string{"kept"})

	ticket = s.Start()
	require.True(t, s.Fail(ticket, "Failed to fetch tickets"))
	st := s.State()
	assert.False(t, st.Loading)
	assert.False(t, st.Success)
	assert.Equal(t, "Failed to fetch tickets", st.ErrorMessage())
	assert.Equal(t, []string{"kept"}, st.Data)
}

func TestSlice_LoadingTracksLatestTransition(t *testing.T) {
	s := New("fetchTickets", noop)
	steps := []struct {
		op      string
		loading bool
	}{
		{"start", true}, {"succeed", false}, {"start", true}, {"start", true},
		{"fail", false}, {"start", true}, {"succeed", false},
	}
	var ticket uint64
	for i, step := range steps {
		switch step.op {
		case "start":
			ticket = s.Start()
		case "succeed":
			s.Succeed(ticket, nil)
		case "fail":
			s.Fail(ticket, "x")
		}
		assert.Equal(t, step.loading, s.State().Loading, "step %d (%s)", i, step.op)
	}
}

func TestSlice_StaleResponseDiscarded(t *testing.T) {
	s := New("fetchTickets", noop)
	first := s.Start()
	second := s.Start()

	assert.False(t, s.Succeed(first, []string{"old"}), "older ticket must be discarded")
	assert.True(t, s.State().Loading, "newer request still in flight")

	assert.True(t, s.Succeed(second, []string{"new"}))
	assert.False(t, s.Fail(first, "late failure"))

	st := s.State()
	assert.True(t, st.Success)
	assert.Equal(t, []string{"new"}, st.Data)
}

func TestSlice_DispatchSuccess(t *testing.T) {
	var got string
	s := New("fetchTickets", func(_ context.Context, in string) Result[[]string] {
		got = in
		return Succeeded([]string{"t1", "t2"})
	})

	st := s.Dispatch(context.Background(), "status=open")
	assert.Equal(t, "status=open", got)
	assert.True(t, st.Success)
	assert.Equal(t, []string{"t1", "t2"}, st.Data)
}

// Network call fails with a server-provided message: error is set, data unchanged.
func TestSlice_DispatchServerFailure(t *testing.T) {
	calls := 0
	s := New("createMeeting", func(_ context.Context, _ string) Result[map[string]int] {
		calls++
		if calls == 1 {
			return Succeeded(map[string]int{"id": 7})
		}
		return Failed[map[string]int](Reason(serverErr{msg: "Duplicate entry"}, "Failed to create meeting"))
	})

	s.Dispatch(context.Background(), "")
	st := s.Dispatch(context.Background(), "")

	assert.False(t, st.Loading)
	assert.False(t, st.Success)
	assert.Equal(t, "Duplicate entry", st.ErrorMessage())
	assert.Equal(t, map[string]int{"id": 7}, st.Data)
}

func TestSlice_ObserverSeesEachTransition(t *testing.T) {
	s := New("fetchTickets", noop)
	var seen []Snapshot
	s.Observe(func(snap Snapshot) { seen = append(seen, snap) })

	s.Dispatch(context.Background(), "")
	require.Len(t, seen, 2)
	assert.True(t, seen[0].Loading)
	assert.True(t, seen[1].Success)
	assert.Equal(t, "fetchTickets", seen[1].Name)
	assert.Equal(t, uint64(1), seen[1].Seq)
}

func TestSlice_IndependentInstances(t *testing.T) {
	a := New("fetchTickets", noop)
	b := New("fetchTickets", noop)
	a.Start()
	assert.True(t, a.State().Loading)
	assert.False(t, b.State().Loading)
}

func TestReason_PreferenceOrder(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"server message", serverErr{msg: "Duplicate entry"}, "Duplicate entry"},
		{"wrapped server message", fmt.Errorf("create: %w", serverErr{msg: "Taken"}), "Taken"},
		{"empty server message falls to exception", serverErr{}, "request failed with status code 422"},
		{"plain error", errors.New("dial tcp: refused"), "dial tcp: refused"},
		{"string", "bad input", "bad input"},
		{"blank string", "  ", "Failed to fetch X"},
		{"map message", map[string]any{"message": "Not allowed"}, "Not allowed"},
		{"map error", map[string]any{"error": "Expired"}, "Expired"},
		{"map without message", map[string]any{"code": 3}, "Failed to fetch X"},
		{"nil", nil, "Failed to fetch X"},
		{"unknown type", 42, "Failed to fetch X"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Reason(tt.in, "Failed to fetch X"))
		})
	}
}

// Each Dispatch reports its own outcome even when a newer call owns the
// shared state.
func TestSlice_OverlappingDispatchKeepsOwnOutcome(t *testing.T) {
	gates := map[string]chan struct{}{"a": make(chan struct{}), "b": make(chan struct{})}
	started := make(chan string, 2)
	s := New("createMeeting", func(_ context.Context, in string) Result[string] {
		started <- in
		<-gates[in]
		if in == "b" {
			return Failed[string]("Duplicate entry")
		}
		return Succeeded("created " + in)
	})

	first := make(chan State[string], 1)
	go func() { first <- s.Dispatch(context.Background(), "a") }()
	require.Equal(t, "a", <-started)
	second := make(chan State[string], 1)
	go func() { second <- s.Dispatch(context.Background(), "b") }()
	require.Equal(t, "b", <-started)

	close(gates["a"])
	a := <-first
	assert.True(t, a.Success)
	assert.Nil(t, a.Error)
	assert.Equal(t, "created a", a.Data)
	assert.True(t, s.State().Loading, "the newer call still owns the shared state")

	close(gates["b"])
	b := <-second
	assert.False(t, b.Success)
	assert.Equal(t, "Duplicate entry", b.ErrorMessage())
	assert.Equal(t, "Duplicate entry", s.State().ErrorMessage())
}
