package controller

import repository "go-huddle/internal/pkg/social/persistence/repository/port"

// Outbound frames. Every payload carries an "event" discriminator so
// clients can multiplex a single socket.

type presenceUpdatePayload struct {
	Event    string  `json:"event"`
	UserID   int64   `json:"user_id"`
	Online   bool    `json:"online"`
	LastSeen *string `json:"last_seen"`
}

type typingPayload struct {
	Event    string `json:"event"`
	FromID   int64  `json:"from_id"`
	ToID     int64  `json:"to_id"`
	IsTyping bool   `json:"is_typing"`
}

type newMessagePayload struct {
	Event      string  `json:"event"`
	ID         int64   `json:"id"`
	SenderID   int64   `json:"sender_id"`
	ReceiverID int64   `json:"receiver_id"`
	Content    string  `json:"content"`
	Timestamp  string  `json:"timestamp"`
	MediaURL   *string `json:"media_url"`
	MediaType  *string `json:"media_type"`
}

type friendRequestPayload struct {
	Event      string `json:"event"`
	ID         int64  `json:"id"`
	SenderID   int64  `json:"sender_id"`
	SenderName string `json:"sender_name"`
	Timestamp  string `json:"timestamp"`
	Type       string `json:"type"`
}

type requestSentPayload struct {
	Event      string `json:"event"`
	ReceiverID int64  `json:"receiver_id"`
}

type chatListUpdatePayload struct {
	Event     string `json:"event"`
	UserID    int64  `json:"user_id"`
	UserName  string `json:"user_name"`
	OtherID   int64  `json:"other_id"`
	OtherName string `json:"other_name"`
	Type      string `json:"type"`
}

type requestResolutionPayload struct {
	Event      string `json:"event"`
	ID         int64  `json:"id"`
	Action     string `json:"action"`
	SenderID   int64  `json:"sender_id"`
	SenderName string `json:"sender_name"`
	Type       string `json:"type"`
	Timestamp  string `json:"timestamp"`
}

type messageEditedPayload struct {
	Event      string `json:"event"`
	MessageID  int64  `json:"message_id"`
	NewContent string `json:"new_content"`
	IsEdited   bool   `json:"is_edited"`
}

type messageDeletedPayload struct {
	Event     string `json:"event"`
	MessageID int64  `json:"message_id"`
	Action    string `json:"action"`
}

type chatPinsUpdatedPayload struct {
	Event string                  `json:"event"`
	Pins  []repository.PinnedChat `json:"pins"`
}

type favoriteEntry struct {
	OtherUserID int64 `json:"other_user_id"`
	IsFavorite  bool  `json:"is_favorite"`
}

type favoritesUpdatedPayload struct {
	Event     string          `json:"event"`
	UserID    int64           `json:"user_id"`
	Favorites []favoriteEntry `json:"favorites"`
}
