package task

import (
	"context"
	"time"

	qport "go-huddle/internal/infrastructure/queue/port"
	"go-huddle/internal/infrastructure/realtime"
	"go-huddle/internal/pkg/social/application/usecase"
	repoAdapter "go-huddle/internal/pkg/social/persistence/repository/adapter"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// BirthdaySweepTaskType runs once a day via the queue scheduler.
const BirthdaySweepTaskType = "social:birthday_sweep"

// BirthdaySweepCronspec fires the sweep at midnight.
const BirthdaySweepCronspec = "0 0 * * *"

type birthdayNotificationPayload struct {
	Event      string `json:"event"`
	ID         int64  `json:"id"`
	SenderID   int64  `json:"sender_id"`
	SenderName string `json:"sender_name"`
	Type       string `json:"type"`
	Content    string `json:"content"`
	Timestamp  string `json:"timestamp"`
}

// RegisterBirthdaySweepTask binds the birthday handler to the worker server.
// A failed sweep is just logged by the queue and retried on the next
// scheduled run; no partial notification set is ever visible because the
// use case commits once.
func RegisterBirthdaySweepTask(srv qport.Server, pool *pgxpool.Pool, emitter *realtime.Emitter, log *zap.Logger) {
	uc := usecase.NewBirthdaySweepUseCase(repoAdapter.NewPgSocialRepository(pool))

	srv.Register(BirthdaySweepTaskType, func(ctx context.Context, t qport.Task) error {
		ctx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()

		notices, err := uc.Execute(ctx, time.Now().UTC())
		if err != nil {
			return err
		}
		if len(notices) == 0 {
			log.Info("no birthdays today")
			return nil
		}

		for _, n := range notices {
			emitter.Room(realtime.InboxRoom(n.Note.UserID), birthdayNotificationPayload{
				Event:      "notification",
				ID:         n.Note.ID,
				SenderID:   n.Note.ActorID,
				SenderName: n.BirthdayName,
				Type:       "birthday_wish",
				Content:    n.Note.Content,
				Timestamp:  n.Note.Timestamp.UTC().Format(time.RFC3339),
			})
		}
		log.Info("birthday sweep complete", zap.Int("notifications", len(notices)))
		return nil
	})
}
