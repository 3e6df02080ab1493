package realtime

import "sync"

// Presence tracks which users currently hold at least one live connection.
// It is process memory only and starts empty after a restart.
type Presence struct {
	mu     sync.RWMutex
	counts map[int64]int // userID -> live connection count
}

// NewPresence constructs an empty tracker.
func NewPresence() *Presence {
	return &Presence{counts: make(map[int64]int)}
}

// Connected records a new connection for the user. It reports true when this
// is the user's first live connection, i.e. the user just came online.
func (p *Presence) Connected(userID int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.counts[userID]++
	return p.counts[userID] == 1
}

// Disconnected records a dropped connection. It reports true when no
// connections remain and the user went offline.
func (p *Presence) Disconnected(userID int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	n, ok := p.counts[userID]
	if !ok {
		return false
	}
	if n <= 1 {
		delete(p.counts, userID)
		return true
	}
	p.counts[userID] = n - 1
	return false
}

// Online reports whether the user has any live connection.
func (p *Presence) Online(userID int64) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.counts[userID] > 0
}

// Snapshot returns the ids of all currently online users.
func (p *Presence) Snapshot() []int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ids := make([]int64, 0, len(p.counts))
	for id := range p.counts {
		ids = append(ids, id)
	}
	return ids
}
