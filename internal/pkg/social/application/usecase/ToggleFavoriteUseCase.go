package usecase

import (
	"context"
	"fmt"

	social "go-huddle/internal/pkg/social/domain"
	repository "go-huddle/internal/pkg/social/persistence/repository/port"
)

type ToggleFavoriteInput struct {
	UserID      int64
	OtherUserID int64
	Favorite    bool
}

// ToggleFavoriteUseCase flips the favorite flag on an existing chat entry.
type ToggleFavoriteUseCase struct {
	Repo repository.SocialRepository
}

func NewToggleFavoriteUseCase(repo repository.SocialRepository) *ToggleFavoriteUseCase {
	return &ToggleFavoriteUseCase{Repo: repo}
}

func (uc *ToggleFavoriteUseCase) Execute(ctx context.Context, in ToggleFavoriteInput) error {
	updated, err := uc.Repo.SetFavorite(ctx, in.UserID, in.OtherUserID, in.Favorite)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !updated {
		return social.ErrNotInChatList
	}
	return nil
}
