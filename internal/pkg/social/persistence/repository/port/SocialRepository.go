package repository

import (
	"context"
	"time"

	social "go-huddle/internal/pkg/social/domain"
)

// DeleteFlag selects which soft-delete flag a delete_message event flips.
type DeleteFlag int

const (
	DeleteForEveryone DeleteFlag = iota
	DeleteForSender
	DeleteForRecipient
)

// PinnedChat is one row of a user's pinned-chat ranking, ordered by priority.
type PinnedChat struct {
	OtherUserID int64 `json:"other_user_id"`
	PinPriority int   `json:"pin_priority"`
}

// ResolveRequestInput carries everything the resolution transaction needs.
// The notifications are pre-built by the caller (content strings need display
// names); the repository assigns their ids and timestamps on insert.
type ResolveRequestInput struct {
	Request      social.FriendRequest
	Accept       bool
	SenderNote   social.Notification // directed at the request sender
	ReceiverNote social.Notification // directed at the responder
}

// ResolveRequestResult returns the durably committed notification rows.
type ResolveRequestResult struct {
	SenderNote   social.Notification
	ReceiverNote social.Notification
}

// SocialRepository is the persistence contract for the social store.
//
// Multi-row mutations (ResolveFriendRequest, PinChat, SaveNotifications) run
// as single transactions; callers emit only after these return successfully.
type SocialRepository interface {
	GetUser(ctx context.Context, id int64) (*social.User, error)
	UpdateLastSeen(ctx context.Context, userID int64, at time.Time) error

	ChatEntryExists(ctx context.Context, userID, otherID int64) (bool, error)
	SetFavorite(ctx context.Context, userID, otherID int64, favorite bool) (bool, error)

	// PinChat applies the rank algorithm for (userID, otherID) and returns
	// the user's resulting ranking ordered by priority. The rank shift is
	// serialized per user against concurrent pin calls. Returns
	// social.ErrNotFound when no chat entry exists.
	PinChat(ctx context.Context, userID, otherID int64, pin bool) ([]PinnedChat, error)

	SaveMessage(ctx context.Context, m social.Message) (int64, error)
	GetMessage(ctx context.Context, id int64) (*social.Message, error)
	UpdateMessageContent(ctx context.Context, id int64, ciphertext string) error
	MarkMessageDeleted(ctx context.Context, id int64, flag DeleteFlag) error

	PendingRequestBetween(ctx context.Context, a, b int64) (bool, error)
	SaveFriendRequest(ctx context.Context, fr social.FriendRequest) (*social.FriendRequest, error)
	GetFriendRequest(ctx context.Context, id int64) (*social.FriendRequest, error)

	// ResolveFriendRequest deletes the request, inserts both notifications
	// and, on accept, creates the two chat-list rows (skipping any that
	// already exist) — all in one transaction.
	ResolveFriendRequest(ctx context.Context, in ResolveRequestInput) (*ResolveRequestResult, error)

	ListUserIDsExcept(ctx context.Context, id int64) ([]int64, error)

	// SaveNotifications inserts the batch in a single transaction and
	// returns the rows with ids and timestamps assigned.
	SaveNotifications(ctx context.Context, ns []social.Notification) ([]social.Notification, error)

	FindBirthdayUsers(ctx context.Context, month time.Month, day int) ([]social.User, error)

	// ListWatcherIDs returns users that have userID in their chat list.
	ListWatcherIDs(ctx context.Context, userID int64) ([]int64, error)
}
