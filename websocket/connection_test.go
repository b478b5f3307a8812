// connection_test.go
package websocket

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-facilities-admin/resource"
)

// fakeConn implements WSConn without network I/O.
type fakeConn struct{}

func (fc *fakeConn) WriteMessage(int, []byte) error { return nil }
func (fc *fakeConn) SetWriteDeadline(time.Time) error { return nil }
func (fc *fakeConn) ReadMessage() (int, []byte, error) { return websocket.TextMessage, nil, nil }
func (fc *fakeConn) Close() error { return nil }
func (fc *fakeConn) SetReadLimit(int64) {}
func (fc *fakeConn) SetReadDeadline(time.Time) error { return nil }
func (fc *fakeConn) SetPongHandler(func(string) error) {}
func (fc *fakeConn) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 12345}
}

func newFakeConnection(owner string) *Connection {
	return &Connection{conn: &fakeConn{}, send: make(chan []byte, 4), owner: owner}
}

func TestRegisterAndUnregisterConnection(t *testing.T) {
	h := NewHub(nil)
	c := newFakeConnection("desk")

	h.register(c)
	assert.Equal(t, 1, h.ConnectionCount("desk"))
	assert.Equal(t, 0, h.ConnectionCount("other"))

	h.unregister(c)
	h.unregister(c)
	assert.Equal(t, 0, h.ConnectionCount("desk"))
	_, open := <-c.send
	assert.False(t, open, "send channel is closed on unregister")
}

func TestDeliver_FiltersByOwner(t *testing.T) {
	h := NewHub(nil)
	mine, theirs := newFakeConnection("desk"), newFakeConnection("other")
	h.register(mine)
	h.register(theirs)

	h.PublishSnapshot("desk", resource.Snapshot{Name: "listUsers", Success: true})
	h.deliver(<-h.broadcast)

	require.Len(t, mine.send, 1)
	assert.Len(t, theirs.send, 0)

	var got ResourceChanged
	require.NoError(t, json.Unmarshal(<-mine.send, &got))
	assert.Equal(t, "resourceChanged", got.Action)
	assert.Equal(t, "listUsers", got.Resource.Name)
	assert.True(t, got.Resource.Success)
}

func TestDeliver_DropsWhenBufferFull(t *testing.T) {
	h := NewHub(nil)
	c := &Connection{conn: &fakeConn{}, send: make(chan []byte, 1), owner: "desk"}
	h.register(c)

	h.deliver(envelope{owner: "desk", data: []byte("1")})
	h.deliver(envelope{owner: "desk", data: []byte("2")})
	assert.Equal(t, []byte("1"), <-c.send)
	assert.Len(t, c.send, 0)
}

func TestHandleIncoming_Refresh(t *testing.T) {
	stores := resource.NewStoreProvider(func(s *resource.Store) error {
		if err := s.Register(resource.New("a", func(context.Context, string) resource.Result[int] { return resource.Succeeded(1) })); err != nil {
			return err
		}
		return s.Register(resource.New("b", func(context.Context, string) resource.Result[int] { return resource.Succeeded(2) }))
	})
	h := NewHub(stores)
	c := newFakeConnection("desk")
	h.register(c)

	h.handleIncoming(c, ClientMessage{Action: "refresh", Resource: "b"})
	require.Len(t, c.send, 1)
	assert.Contains(t, string(<-c.send), `"name":"b"`)

	h.handleIncoming(c, ClientMessage{Action: "refresh"})
	assert.Len(t, c.send, 2)
}

// startTestServer serves the hub for owner "desk" and dials it.
func startTestServer(t *testing.T, h *Hub) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeWs(w, r, "desk")
	}))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err, "WebSocket connection should succeed")
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestServeWs_PushesStoreTransitions(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub(nil)
	go h.Run(ctx)
	conn := startTestServer(t, h)
	require.Eventually(t, func() bool { return h.ConnectionCount("desk") == 1 }, time.Second, 10*time.Millisecond)

	store := resource.NewStore("desk")
	h.Attach(store)
	slice := resource.New("listUsers", func(context.Context, string) resource.Result[[]string] {
		return resource.Succeeded([]string{"Asha"})
	})
	require.NoError(t, store.Register(slice))
	slice.Dispatch(ctx, "")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var started, finished ResourceChanged
	require.NoError(t, conn.ReadJSON(&started))
	require.NoError(t, conn.ReadJSON(&finished))
	assert.True(t, started.Resource.Loading)
	assert.True(t, finished.Resource.Success)
	assert.Equal(t, []any{"Asha"}, finished.Resource.Data)
}

func TestServeWs_Ping(t *testing.T) {
	h := NewHub(nil)
	conn := startTestServer(t, h)

	require.NoError(t, conn.WriteJSON(ClientMessage{Action: "ping"}))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"action":"pong"}`, string(msg))
}

func TestServeWs_RejectsForeignOrigin(t *testing.T) {
	h := NewHub(nil, "https://admin.example.com")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeWs(w, r, "desk")
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Origin": {"https://evil.example.com"}})
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestServeWs_RequiresOwner(t *testing.T) {
	h := NewHub(nil)
	w := httptest.NewRecorder()
	h.ServeWs(w, httptest.NewRequest(http.MethodGet, "/resource-updates", nil), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
