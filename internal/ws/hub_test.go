package ws

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(userID string) *Client {
	return &Client{
		ID:     "test-" + userID,
		UserID: userID,
		Send:   make(chan []byte, 256),
	}
}

func receiveEvent(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case data := <-c.Send:
		var ev Event
		require.NoError(t, json.Unmarshal(data, &ev))
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func assertNoEvent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case <-c.Send:
		t.Fatal("unexpected event received")
	default:
	}
}

func TestChatRoom_OrderIndependent(t *testing.T) {
	assert.Equal(t, ChatRoom("alice", "bob"), ChatRoom("bob", "alice"))
	assert.Equal(t, "chat:alice:bob", ChatRoom("bob", "alice"))
	assert.NotEqual(t, ChatRoom("alice", "bob"), ChatRoom("alice", "carol"))
}

func TestHub_RegisterJoinsUserRoom(t *testing.T) {
	hub := NewHub()
	client := newTestClient("u1")

	hub.Register(client)

	assert.Equal(t, 1, hub.ClientCount())
	assert.Equal(t, 1, hub.RoomCount(UserRoom("u1")))
	assert.True(t, hub.InRoom(client, UserRoom("u1")))
}

func TestHub_BroadcastToRoomMembersOnly(t *testing.T) {
	hub := NewHub()
	a := newTestClient("u1")
	b := newTestClient("u2")
	outsider := newTestClient("u3")

	hub.Register(a)
	hub.Register(b)
	hub.Register(outsider)

	room := ChatRoom("u1", "u2")
	hub.Join(a, room)
	hub.Join(b, room)

	hub.Broadcast(room, Event{Type: "message", Room: room, SenderID: "u1", Content: "hello"})

	for _, c := range []*Client{a, b} {
		ev := receiveEvent(t, c)
		assert.Equal(t, "message", ev.Type)
		assert.Equal(t, "hello", ev.Content)
		assert.Equal(t, room, ev.Room)
	}
	assertNoEvent(t, outsider)
}

func TestHub_BroadcastToEmptyRoom(t *testing.T) {
	hub := NewHub()
	// Must not panic.
	hub.Broadcast("chat:nobody:here", Event{Type: "message"})
}

func TestHub_UnregisterLeavesAllRoomsAndClosesSend(t *testing.T) {
	hub := NewHub()
	client := newTestClient("u1")
	hub.Register(client)

	room := ChatRoom("u1", "u2")
	hub.Join(client, room)
	require.Equal(t, 1, hub.RoomCount(room))

	hub.Unregister(client)

	assert.Equal(t, 0, hub.ClientCount())
	assert.Equal(t, 0, hub.RoomCount(room))
	assert.Equal(t, 0, hub.RoomCount(UserRoom("u1")))

	_, open := <-client.Send
	assert.False(t, open, "Send should be closed after unregister")

	// Double unregister is a no-op.
	hub.Unregister(client)
}

func TestHub_JoinUnknownClientIgnored(t *testing.T) {
	hub := NewHub()
	ghost := newTestClient("ghost")

	hub.Join(ghost, "chat:a:b")

	assert.Equal(t, 0, hub.RoomCount("chat:a:b"))
	assert.False(t, hub.InRoom(ghost, "chat:a:b"))
}

func TestHub_SkipsFullSendBuffers(t *testing.T) {
	hub := NewHub()
	slow := &Client{ID: "slow", UserID: "u1", Send: make(chan []byte, 1)}
	hub.Register(slow)

	room := UserRoom("u1")
	hub.Broadcast(room, Event{Type: "notification", Content: "one"})
	hub.Broadcast(room, Event{Type: "notification", Content: "two"}) // dropped, buffer full

	ev := receiveEvent(t, slow)
	assert.Equal(t, "one", ev.Content)
	assertNoEvent(t, slow)
}

func TestHub_ConcurrentRegisterUnregister(t *testing.T) {
	hub := NewHub()
	const n = 100

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			c := newTestClient("user")
			hub.Register(c)
			hub.Join(c, "chat:a:b")
			hub.Broadcast("chat:a:b", Event{Type: "message", Content: "x"})
			hub.Unregister(c)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 0, hub.ClientCount())
	assert.Equal(t, 0, hub.RoomCount("chat:a:b"))
}
