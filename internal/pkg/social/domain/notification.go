package social

import "time"

// NotificationType enumerates the append-only notification kinds this core
// produces.
type NotificationType string

const (
	NotificationRequestResponse NotificationType = "request_response"
	NotificationRequestResolved NotificationType = "request_resolved"
	NotificationNewUserVerified NotificationType = "new_user_verified"
	NotificationBirthdayWish    NotificationType = "birthday_wish"
)

// Notification is a durable, user-directed event record.
type Notification struct {
	ID        int64            `db:"id"`
	UserID    int64            `db:"user_id"` // recipient
	Type      NotificationType `db:"type"`
	Content   string           `db:"content"`
	ActorID   int64            `db:"actor_id"`
	RequestID *int64           `db:"request_id"`
	Timestamp time.Time        `db:"timestamp"`
}
