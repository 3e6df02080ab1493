package social

import "errors"

// Domain-level errors. The socket layer maps every one of them to the same
// client-visible outcome (the event is dropped); the split exists so logs
// and tests can tell authorization failures from validation failures.
var (
	ErrNotInChatList      = errors.New("social: users are not in each other's chat list")
	ErrNotMessageOwner    = errors.New("social: user is not the sender of the message")
	ErrNotMessageParty    = errors.New("social: user is neither sender nor receiver of the message")
	ErrSelfRequest        = errors.New("social: cannot send a friend request to yourself")
	ErrDuplicateRequest   = errors.New("social: a pending request already exists between the users")
	ErrAlreadyConnected   = errors.New("social: users are already connected")
	ErrNotRequestReceiver = errors.New("social: user is not the receiver of the request")
	ErrEmptyMessage       = errors.New("social: message needs a body or a media url")
	ErrUnknownAction      = errors.New("social: unknown action")
	ErrNotFound           = errors.New("social: not found")
)
