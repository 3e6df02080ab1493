package social

// MaxPinned bounds the number of pinned chats per user. Ranks run 1 (top)
// through MaxPinned; 0 means unpinned.
const MaxPinned = 3

// ChatListEntry is one direction of a connection between two users. Entries
// are created in pairs when a friend request is accepted and never deleted.
//
// Invariant maintained by Pin/Unpin: for a fixed UserID, the positive
// PinPriority values form a contiguous run 1..k with no duplicates, k <= MaxPinned.
type ChatListEntry struct {
	ID          int64 `db:"id"`
	UserID      int64 `db:"user_id"`
	OtherUserID int64 `db:"other_user_id"`
	IsFavorite  bool  `db:"is_favorite"`
	PinPriority int   `db:"pin_priority"`
}

// Pinned reports whether the entry currently holds a rank.
func (e ChatListEntry) Pinned() bool { return e.PinPriority > 0 }

// Pin promotes entry to rank 1. pinned holds all of the user's currently
// ranked entries, entry itself included when it is already ranked.
//
// Re-pinning a ranked entry rotates the entries above it down one slot.
// Pinning a fresh entry pushes every rank down by one; whoever falls past
// MaxPinned is evicted back to 0, so the pinned set stays bounded with the
// oldest promotion leaving first.
func Pin(entry *ChatListEntry, pinned []*ChatListEntry) {
	if entry.PinPriority > 0 {
		old := entry.PinPriority
		for _, p := range pinned {
			if p.ID == entry.ID {
				continue
			}
			if p.PinPriority < old {
				p.PinPriority++
			}
		}
		entry.PinPriority = 1
		return
	}

	for _, p := range pinned {
		if p.ID == entry.ID {
			continue
		}
		p.PinPriority++
		if p.PinPriority > MaxPinned {
			p.PinPriority = 0
		}
	}
	entry.PinPriority = 1
}

// Unpin clears entry's rank and closes the gap it leaves behind.
func Unpin(entry *ChatListEntry, pinned []*ChatListEntry) {
	removed := entry.PinPriority
	entry.PinPriority = 0
	if removed <= 0 {
		return
	}
	for _, p := range pinned {
		if p.ID == entry.ID {
			continue
		}
		if p.PinPriority > removed {
			p.PinPriority--
		}
	}
}
