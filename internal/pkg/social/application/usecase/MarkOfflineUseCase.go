package usecase

import (
	"context"
	"fmt"
	"time"

	repository "go-huddle/internal/pkg/social/persistence/repository/port"
)

// MarkOfflineUseCase persists last_seen when a user's final connection
// drops. The returned timestamp goes into the presence broadcast.
type MarkOfflineUseCase struct {
	Repo repository.SocialRepository
}

func NewMarkOfflineUseCase(repo repository.SocialRepository) *MarkOfflineUseCase {
	return &MarkOfflineUseCase{Repo: repo}
}

func (uc *MarkOfflineUseCase) Execute(ctx context.Context, userID int64) (time.Time, error) {
	now := time.Now().UTC()
	if err := uc.Repo.UpdateLastSeen(ctx, userID, now); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return now, nil
}
