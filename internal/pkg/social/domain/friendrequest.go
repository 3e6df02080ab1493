package social

import "time"

// FriendRequest is a pending connection offer. At most one may exist between
// any unordered pair of users; resolution deletes the row, leaving the
// Notification records as the durable trace.
type FriendRequest struct {
	ID         int64     `db:"id"`
	SenderID   int64     `db:"sender_id"`
	ReceiverID int64     `db:"receiver_id"`
	Timestamp  time.Time `db:"timestamp"`
}

// Request resolution actions.
const (
	ActionAccept = "accept"
	ActionReject = "reject"
)

// ValidAction reports whether action is a recognized resolution.
func ValidAction(action string) bool {
	return action == ActionAccept || action == ActionReject
}
