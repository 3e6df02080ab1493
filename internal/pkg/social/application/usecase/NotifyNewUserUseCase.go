package usecase

import (
	"context"
	"fmt"

	social "go-huddle/internal/pkg/social/domain"
	repository "go-huddle/internal/pkg/social/persistence/repository/port"
)

// NotifyNewUserResult lists who to tell about the newly verified user. The
// notification rows are committed before any emission happens.
type NotifyNewUserResult struct {
	User       social.User
	Recipients []int64
}

// NotifyNewUserUseCase fans a new_user_verified notification out to every
// other user. All rows are written in one transaction so a mid-batch failure
// rolls back with zero partial emissions.
type NotifyNewUserUseCase struct {
	Repo repository.SocialRepository
}

func NewNotifyNewUserUseCase(repo repository.SocialRepository) *NotifyNewUserUseCase {
	return &NotifyNewUserUseCase{Repo: repo}
}

func (uc *NotifyNewUserUseCase) Execute(ctx context.Context, userID int64) (*NotifyNewUserResult, error) {
	user, err := uc.Repo.GetUser(ctx, userID)
	if err != nil {
		if err == social.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	recipients, err := uc.Repo.ListUserIDsExcept(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if len(recipients) == 0 {
		return &NotifyNewUserResult{User: *user}, nil
	}

	notes := make([]social.Notification, 0, len(recipients))
	for _, rid := range recipients {
		notes = append(notes, social.Notification{
			UserID:  rid,
			Type:    social.NotificationNewUserVerified,
			Content: fmt.Sprintf("%s just joined the app!", user.Name),
			ActorID: user.ID,
		})
	}
	if _, err := uc.Repo.SaveNotifications(ctx, notes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return &NotifyNewUserResult{User: *user, Recipients: recipients}, nil
}
