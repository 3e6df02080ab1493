package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPresenceSingleConnection(t *testing.T) {
	p := NewPresence()

	assert.True(t, p.Connected(1), "first connection brings the user online")
	assert.True(t, p.Online(1))

	assert.True(t, p.Disconnected(1), "last connection takes the user offline")
	assert.False(t, p.Online(1))
}

func TestPresenceCountsDoubleConnectionsOnce(t *testing.T) {
	p := NewPresence()

	assert.True(t, p.Connected(7))
	assert.False(t, p.Connected(7), "second connection is not a fresh online transition")

	assert.False(t, p.Disconnected(7), "one connection still live")
	assert.True(t, p.Online(7))
	assert.True(t, p.Disconnected(7))
	assert.False(t, p.Online(7))
}

func TestPresenceUnknownDisconnect(t *testing.T) {
	p := NewPresence()
	assert.False(t, p.Disconnected(42))
}

func TestPresenceSnapshot(t *testing.T) {
	p := NewPresence()
	p.Connected(1)
	p.Connected(2)
	p.Connected(2)

	assert.ElementsMatch(t, []int64{1, 2}, p.Snapshot())
}
