package social

import (
	"strings"
	"time"
)

// Message is a direct message between two users. Content is encrypted at
// rest; rows are never physically removed, deletion flips the soft-delete
// flags.
type Message struct {
	ID                    int64     `db:"id"`
	SenderID              int64     `db:"sender_id"`
	ReceiverID            int64     `db:"receiver_id"`
	Content               string    `db:"content"` // ciphertext
	Timestamp             time.Time `db:"timestamp"`
	MediaURL              *string   `db:"media_url"`
	MediaType             *string   `db:"media_type"`
	IsEdited              bool      `db:"is_edited"`
	IsDeletedForEveryone  bool      `db:"is_deleted_for_everyone"`
	IsDeletedForSender    bool      `db:"is_deleted_for_sender"`
	IsDeletedForRecipient bool      `db:"is_deleted_for_recipient"`
}

// OtherParty returns the message participant that is not userID.
func (m Message) OtherParty(userID int64) int64 {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}

// NewMessage validates and normalizes an outgoing message. Content here is
// still plaintext; the application layer encrypts before persisting.
func NewMessage(m Message) (*Message, error) {
	m.Content = strings.TrimSpace(m.Content)
	if m.Content == "" && m.MediaURL == nil {
		return nil, ErrEmptyMessage
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	return &m, nil
}
