package usecase

import (
	"context"
	"fmt"
	"time"

	social "go-huddle/internal/pkg/social/domain"
	repository "go-huddle/internal/pkg/social/persistence/repository/port"
)

// BirthdayNotice is one committed notification plus the display name the
// outbound payload carries.
type BirthdayNotice struct {
	Note         social.Notification
	BirthdayName string
}

// BirthdaySweepUseCase finds users whose birthday falls on the given day
// (year-agnostic) and records one notification per user that has them in
// their chat list. The whole sweep commits as one transaction; the returned
// notices carry durably committed ids, so emission after this call can never
// reference a rolled-back row.
type BirthdaySweepUseCase struct {
	Repo repository.SocialRepository
}

func NewBirthdaySweepUseCase(repo repository.SocialRepository) *BirthdaySweepUseCase {
	return &BirthdaySweepUseCase{Repo: repo}
}

func (uc *BirthdaySweepUseCase) Execute(ctx context.Context, today time.Time) ([]BirthdayNotice, error) {
	birthdayUsers, err := uc.Repo.FindBirthdayUsers(ctx, today.Month(), today.Day())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if len(birthdayUsers) == 0 {
		return nil, nil
	}

	var notes []social.Notification
	var names []string
	for _, bu := range birthdayUsers {
		friendIDs, err := uc.Repo.ListWatcherIDs(ctx, bu.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		for _, fid := range friendIDs {
			notes = append(notes, social.Notification{
				UserID:  fid,
				Type:    social.NotificationBirthdayWish,
				Content: fmt.Sprintf("It's %s's birthday today! Send a warm message 🎉", bu.Name),
				ActorID: bu.ID,
			})
			names = append(names, bu.Name)
		}
	}
	if len(notes) == 0 {
		return nil, nil
	}

	saved, err := uc.Repo.SaveNotifications(ctx, notes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	notices := make([]BirthdayNotice, len(saved))
	for i, n := range saved {
		notices[i] = BirthdayNotice{Note: n, BirthdayName: names[i]}
	}
	return notices, nil
}
