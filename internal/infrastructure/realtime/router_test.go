package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestConn builds a connection without a backing websocket. Send only
// touches the buffered channel, so these are safe as long as the tests never
// call Start.
func newTestConn(userID int64) *Connection {
	return NewConnection(userID, "", nil)
}

func drain(c *Connection) [][]byte {
	var out [][]byte
	for {
		select {
		case msg := <-c.send:
			out = append(out, msg)
		default:
			return out
		}
	}
}

func TestPairRoomCommutative(t *testing.T) {
	assert.Equal(t, PairRoom(7, 3), PairRoom(3, 7))
	assert.Equal(t, "chat_3_7", PairRoom(7, 3))
	assert.Equal(t, "user_12", InboxRoom(12))
}

func TestBroadcastRoom(t *testing.T) {
	r := NewRouter()

	a := newTestConn(1)
	b := newTestConn(2)
	outsider := newTestConn(3)
	for _, c := range []*Connection{a, b, outsider} {
		r.mu.Lock()
		r.sessions[c.ID] = c
		r.sessionRooms[c.ID] = make(map[string]struct{})
		r.mu.Unlock()
	}

	room := PairRoom(1, 2)
	r.Join(room, a)
	r.Join(room, b)

	delivered := r.BroadcastRoom(room, []byte(`{"event":"typing"}`))
	assert.Equal(t, 2, delivered)
	assert.Len(t, drain(a), 1)
	assert.Len(t, drain(b), 1)
	assert.Empty(t, drain(outsider))
}

func TestBroadcastAllReachesEverySession(t *testing.T) {
	r := NewRouter()
	conns := []*Connection{newTestConn(1), newTestConn(1), newTestConn(2)}
	for _, c := range conns {
		r.mu.Lock()
		r.sessions[c.ID] = c
		r.mu.Unlock()
	}

	delivered := r.BroadcastAll([]byte(`{"event":"presence_update"}`))
	assert.Equal(t, 3, delivered)
	for _, c := range conns {
		assert.Len(t, drain(c), 1)
	}
}

func TestDetachLeavesAllRooms(t *testing.T) {
	r := NewRouter()
	c := newTestConn(5)
	r.mu.Lock()
	r.sessions[c.ID] = c
	r.sessionRooms[c.ID] = make(map[string]struct{})
	r.mu.Unlock()

	r.Join(InboxRoom(5), c)
	r.Join(PairRoom(5, 9), c)
	require.Equal(t, 1, r.BroadcastRoom(InboxRoom(5), []byte("x")))

	r.Detach(c)
	assert.Equal(t, 0, r.BroadcastRoom(InboxRoom(5), []byte("x")))
	assert.Equal(t, 0, r.BroadcastRoom(PairRoom(5, 9), []byte("x")))
	assert.Equal(t, 0, r.SessionCount(5))
}

func TestJoinUnknownSessionIgnored(t *testing.T) {
	r := NewRouter()
	c := newTestConn(4)
	r.Join(InboxRoom(4), c) // never attached

	assert.Equal(t, 0, r.BroadcastRoom(InboxRoom(4), []byte("x")))
}
