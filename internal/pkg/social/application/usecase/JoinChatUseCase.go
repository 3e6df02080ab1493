package usecase

import (
	"context"
	"fmt"

	social "go-huddle/internal/pkg/social/domain"
	repository "go-huddle/internal/pkg/social/persistence/repository/port"
)

// JoinChatUseCase authorizes a pair-room join: the two users must be in each
// other's chat list. The room membership itself is transport state managed
// by the socket layer.
type JoinChatUseCase struct {
	Repo repository.SocialRepository
}

func NewJoinChatUseCase(repo repository.SocialRepository) *JoinChatUseCase {
	return &JoinChatUseCase{Repo: repo}
}

func (uc *JoinChatUseCase) Execute(ctx context.Context, userID, otherID int64) error {
	ok, err := uc.Repo.ChatEntryExists(ctx, userID, otherID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !ok {
		return social.ErrNotInChatList
	}
	return nil
}
