package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// 起一套完整的 Hub + Gateway，走真实 WebSocket 往返
func newTestServer(t *testing.T) (*httptest.Server, *Hub) {
	t.Helper()
	cfg := DefaultConfig()
	log := zap.NewNop().Sugar()
	metrics := &Metrics{}
	hub := NewHub(cfg, NewDirectory(), metrics, log)
	go hub.Run()

	srv := httptest.NewServer(NewGateway(cfg, hub, metrics, log))
	t.Cleanup(func() {
		srv.Close()
		hub.Close()
	})
	return srv, hub
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var env Envelope
	require.NoError(t, conn.ReadJSON(&env))
	return env
}

func sendEvent(t *testing.T, conn *websocket.Conn, event string, data string) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(Envelope{Event: event, Data: json.RawMessage(data)}))
}

func TestWebSocketJoinRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dialWS(t, srv)

	sendEvent(t, conn, EventJoin, `{"nickname":"Alice"}`)

	env := readEnvelope(t, conn)
	assert.Equal(t, EventCurrentPlayers, env.Event)
	var players []PlayerRecord
	require.NoError(t, json.Unmarshal(env.Data, &players))
	require.Len(t, players, 1)
	assert.Equal(t, "Alice", players[0].Nickname)
	assert.Equal(t, "main", players[0].Scene)
	assert.NotEmpty(t, players[0].ID)
}

func TestWebSocketRelayBetweenClients(t *testing.T) {
	srv, _ := newTestServer(t)

	alice := dialWS(t, srv)
	sendEvent(t, alice, EventJoin, `{"nickname":"Alice"}`)
	require.Equal(t, EventCurrentPlayers, readEnvelope(t, alice).Event)

	bob := dialWS(t, srv)
	sendEvent(t, bob, EventJoin, `{"nickname":"Bob"}`)
	require.Equal(t, EventCurrentPlayers, readEnvelope(t, bob).Event)

	// Alice 收到 Bob 的入场通报
	env := readEnvelope(t, alice)
	require.Equal(t, EventNewPlayer, env.Event)
	var rec PlayerRecord
	require.NoError(t, json.Unmarshal(env.Data, &rec))
	assert.Equal(t, "Bob", rec.Nickname)
	bobID := rec.ID

	// Bob 移动，Alice 收到转发
	sendEvent(t, bob, EventPlayerMovement, `{"x":100,"y":200,"animation":"walk-down"}`)
	env = readEnvelope(t, alice)
	require.Equal(t, EventPlayerMoved, env.Event)
	var moved MovedBroadcast
	require.NoError(t, json.Unmarshal(env.Data, &moved))
	assert.Equal(t, MovedBroadcast{
		ID: bobID, X: 100, Y: 200, Animation: "walk-down", Scene: "main",
	}, moved)

	// Bob 断开，Alice 收到离场广播
	require.NoError(t, bob.Close())
	env = readEnvelope(t, alice)
	require.Equal(t, EventPlayerDisconnected, env.Event)
	var leftID string
	require.NoError(t, json.Unmarshal(env.Data, &leftID))
	assert.Equal(t, bobID, leftID)
}
