package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gorillawebsocket "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/healthkonnect/healthkonnect-api/internal/utils"
)

func newTestServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws", NewHandler(hub).Serve)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, token string) *gorillawebsocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	conn, resp, err := gorillawebsocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestServe_RejectsInvalidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "ws-test-secret")
	srv := newTestServer(t, NewHub())

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=garbage"
	_, resp, err := gorillawebsocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestServe_RegistersAuthenticatedClient(t *testing.T) {
	t.Setenv("JWT_SECRET", "ws-test-secret")
	hub := NewHub()
	srv := newTestServer(t, hub)

	userID := primitive.NewObjectID().Hex()
	token, err := utils.GenerateJWT(userID, "patient")
	require.NoError(t, err)

	dial(t, srv, token)

	// Give the server a moment to register the connection.
	require.Eventually(t, func() bool {
		return hub.ClientCount() == 1 && hub.RoomCount(UserRoom(userID)) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestServe_JoinAndRelay(t *testing.T) {
	t.Setenv("JWT_SECRET", "ws-test-secret")
	hub := NewHub()
	srv := newTestServer(t, hub)

	aliceID := primitive.NewObjectID().Hex()
	bobID := primitive.NewObjectID().Hex()

	aliceToken, err := utils.GenerateJWT(aliceID, "patient")
	require.NoError(t, err)
	bobToken, err := utils.GenerateJWT(bobID, "doctor")
	require.NoError(t, err)

	alice := dial(t, srv, aliceToken)
	bob := dial(t, srv, bobToken)

	room := ChatRoom(aliceID, bobID)

	// Both sides join the conversation.
	require.NoError(t, alice.WriteJSON(Inbound{Type: "join", PeerID: bobID}))
	require.NoError(t, bob.WriteJSON(Inbound{Type: "join", PeerID: aliceID}))

	alice.SetReadDeadline(time.Now().Add(2 * time.Second))
	var joined Event
	require.NoError(t, alice.ReadJSON(&joined))
	assert.Equal(t, "joined", joined.Type)
	assert.Equal(t, room, joined.Room)

	bob.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, bob.ReadJSON(&joined))
	assert.Equal(t, "joined", joined.Type)

	require.Eventually(t, func() bool { return hub.RoomCount(room) == 2 }, time.Second, 10*time.Millisecond)

	// Alice sends; Bob receives the relayed event.
	require.NoError(t, alice.WriteJSON(Inbound{Type: "message", PeerID: bobID, Content: "hello bob"}))

	bob.SetReadDeadline(time.Now().Add(2 * time.Second))
	var relayed Event
	require.NoError(t, bob.ReadJSON(&relayed))
	assert.Equal(t, "message", relayed.Type)
	assert.Equal(t, "hello bob", relayed.Content)
	assert.Equal(t, aliceID, relayed.SenderID)
	assert.Equal(t, room, relayed.Room)
}

func TestServe_MessageWithoutJoinRefused(t *testing.T) {
	t.Setenv("JWT_SECRET", "ws-test-secret")
	hub := NewHub()
	srv := newTestServer(t, hub)

	userID := primitive.NewObjectID().Hex()
	peerID := primitive.NewObjectID().Hex()
	token, err := utils.GenerateJWT(userID, "patient")
	require.NoError(t, err)

	conn := dial(t, srv, token)

	require.NoError(t, conn.WriteJSON(Inbound{Type: "message", PeerID: peerID, Content: "sneaky"}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "error", ev.Type)
	assert.Equal(t, 0, hub.RoomCount(ChatRoom(userID, peerID)))
}

func TestServe_JoinRejectsMalformedPeer(t *testing.T) {
	t.Setenv("JWT_SECRET", "ws-test-secret")
	hub := NewHub()
	srv := newTestServer(t, hub)

	userID := primitive.NewObjectID().Hex()
	token, err := utils.GenerateJWT(userID, "patient")
	require.NoError(t, err)

	conn := dial(t, srv, token)

	require.NoError(t, conn.WriteJSON(Inbound{Type: "join", PeerID: "not-an-object-id"}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "error", ev.Type)
}
