package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphaelgruber/chatsync-go/internal/models"
)

var upgrader = websocket.Upgrader{}

// testServer speaks the frame protocol from the server side.
type testServer struct {
	*httptest.Server
	conns chan *websocket.Conn
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{conns: make(chan *websocket.Conn, 1)}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		ts.conns <- conn
	}))
	t.Cleanup(ts.Close)
	return ts
}

func (ts *testServer) conn(t *testing.T) *websocket.Conn {
	t.Helper()
	select {
	case c := <-ts.conns:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("client never connected")
		return nil
	}
}

func TestWebSocketDeliversMessages(t *testing.T) {
	ts := newTestServer(t)

	ws := NewWebSocket(ts.URL, nil)
	require.NoError(t, ws.Connect(context.Background()))
	defer ws.Close()
	assert.Equal(t, StatusConnected, ws.Status())

	serverConn := ts.conn(t)
	payload, _ := json.Marshal(models.Message{
		ID:         models.PermanentID("srv-1"),
		SenderID:   "u1",
		SenderName: "Ann",
		Text:       "hi",
	})
	frames := []wsFrame{
		{Type: frameKeepAlive},
		{Type: frameMessage, ChatViewID: "c1", Payload: payload},
	}
	for _, f := range frames {
		require.NoError(t, serverConn.WriteJSON(f))
	}

	select {
	case msg := <-ws.Messages():
		assert.Equal(t, models.PermanentID("srv-1"), msg.ID)
		// The envelope's conversation id is applied to the payload.
		assert.Equal(t, "c1", msg.Conversation)
	case <-time.After(2 * time.Second):
		t.Fatal("no message delivered")
	}
}

func TestWebSocketSubscribeBeforeConnectReplayed(t *testing.T) {
	ts := newTestServer(t)

	ws := NewWebSocket(ts.URL, nil)
	require.NoError(t, ws.Subscribe("c1"))
	require.NoError(t, ws.Subscribe("c1")) // duplicate is a no-op
	require.NoError(t, ws.Connect(context.Background()))
	defer ws.Close()

	serverConn := ts.conn(t)
	var frame wsFrame
	require.NoError(t, serverConn.ReadJSON(&frame))
	assert.Equal(t, frameSubscribe, frame.Type)
	assert.Equal(t, "c1", frame.ChatViewID)
}

func TestWebSocketCloseClosesChannel(t *testing.T) {
	ts := newTestServer(t)

	ws := NewWebSocket(ts.URL, nil)
	require.NoError(t, ws.Connect(context.Background()))
	ts.conn(t)

	require.NoError(t, ws.Close())
	require.NoError(t, ws.Close()) // idempotent

	select {
	case _, ok := <-ws.Messages():
		assert.False(t, ok, "channel should be closed")
	case <-time.After(2 * time.Second):
		t.Fatal("channel never closed")
	}
	assert.Equal(t, StatusDisconnected, ws.Status())
}

func TestWebSocketContextCancelTearsDown(t *testing.T) {
	ts := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	ws := NewWebSocket(ts.URL, nil)
	require.NoError(t, ws.Connect(ctx))
	ts.conn(t)

	cancel()
	select {
	case _, ok := <-ws.Messages():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("channel never closed after cancel")
	}
}

func TestWebSocketMalformedFrameSkipped(t *testing.T) {
	ts := newTestServer(t)

	ws := NewWebSocket(ts.URL, nil)
	require.NoError(t, ws.Connect(context.Background()))
	defer ws.Close()

	serverConn := ts.conn(t)
	require.NoError(t, serverConn.WriteJSON(wsFrame{Type: frameMessage, ChatViewID: "c1", Payload: json.RawMessage(`{"createdAt":"bogus"}`)}))

	good, _ := json.Marshal(models.Message{ID: models.PermanentID("srv-2"), SenderID: "u1", Text: "ok"})
	require.NoError(t, serverConn.WriteJSON(wsFrame{Type: frameMessage, ChatViewID: "c1", Payload: good}))

	select {
	case msg := <-ws.Messages():
		assert.Equal(t, models.PermanentID("srv-2"), msg.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("good message never arrived")
	}
}
