package usecase

import (
	"context"
	"fmt"

	social "go-huddle/internal/pkg/social/domain"
	repository "go-huddle/internal/pkg/social/persistence/repository/port"
)

// Delete actions accepted on the wire.
const (
	DeleteActionEveryone = "delete_for_everyone"
	DeleteActionForMe    = "delete_for_me"
)

type DeleteMessageInput struct {
	UserID    int64
	MessageID int64
	Action    string
}

// DeleteMessageResult tells the caller which broadcast scope applies:
// Everyone goes to the pair room, otherwise only the deleter's inbox.
type DeleteMessageResult struct {
	Message  *social.Message
	Everyone bool
}

// DeleteMessageUseCase flips soft-delete flags. delete_for_everyone is
// restricted to the sender; delete_for_me is available to either party and
// flips only that party's flag.
type DeleteMessageUseCase struct {
	Repo repository.SocialRepository
}

func NewDeleteMessageUseCase(repo repository.SocialRepository) *DeleteMessageUseCase {
	return &DeleteMessageUseCase{Repo: repo}
}

func (uc *DeleteMessageUseCase) Execute(ctx context.Context, in DeleteMessageInput) (*DeleteMessageResult, error) {
	msg, err := uc.Repo.GetMessage(ctx, in.MessageID)
	if err != nil {
		if err == social.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	var flag repository.DeleteFlag
	everyone := false
	switch in.Action {
	case DeleteActionEveryone:
		if msg.SenderID != in.UserID {
			return nil, social.ErrNotMessageOwner
		}
		flag = repository.DeleteForEveryone
		everyone = true
	case DeleteActionForMe:
		switch in.UserID {
		case msg.SenderID:
			flag = repository.DeleteForSender
		case msg.ReceiverID:
			flag = repository.DeleteForRecipient
		default:
			return nil, social.ErrNotMessageParty
		}
	default:
		return nil, social.ErrUnknownAction
	}

	if err := uc.Repo.MarkMessageDeleted(ctx, msg.ID, flag); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return &DeleteMessageResult{Message: msg, Everyone: everyone}, nil
}
