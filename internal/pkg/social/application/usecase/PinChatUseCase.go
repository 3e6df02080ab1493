package usecase

import (
	"context"
	"fmt"

	social "go-huddle/internal/pkg/social/domain"
	repository "go-huddle/internal/pkg/social/persistence/repository/port"
)

type PinChatInput struct {
	UserID      int64
	OtherUserID int64
	Pin         bool
}

// PinChatUseCase applies the bounded pin ranking. The rank arithmetic and
// its serialization live in the repository transaction; this layer maps the
// missing-entry case to the chat-list authorization error.
type PinChatUseCase struct {
	Repo repository.SocialRepository
}

func NewPinChatUseCase(repo repository.SocialRepository) *PinChatUseCase {
	return &PinChatUseCase{Repo: repo}
}

func (uc *PinChatUseCase) Execute(ctx context.Context, in PinChatInput) ([]repository.PinnedChat, error) {
	pins, err := uc.Repo.PinChat(ctx, in.UserID, in.OtherUserID, in.Pin)
	if err != nil {
		if err == social.ErrNotFound {
			return nil, social.ErrNotInChatList
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return pins, nil
}
