package realtime

import "fmt"

// InboxRoom names the room containing all of one user's connections. It
// carries notifications, chat-list updates and other user-directed events.
func InboxRoom(userID int64) string {
	return fmt.Sprintf("user_%d", userID)
}

// PairRoom names the direct-message room shared by two users. The ids are
// sorted so the name is identical regardless of argument order.
func PairRoom(a, b int64) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("chat_%d_%d", a, b)
}
