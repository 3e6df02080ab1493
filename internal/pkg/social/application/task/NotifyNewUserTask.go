package task

import (
	"context"
	"encoding/json"
	"time"

	qport "go-huddle/internal/infrastructure/queue/port"
	"go-huddle/internal/infrastructure/realtime"
	"go-huddle/internal/pkg/social/application/usecase"
	repoAdapter "go-huddle/internal/pkg/social/persistence/repository/adapter"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// NotifyNewUserTaskType is enqueued by the registration service once a new
// account is verified.
const NotifyNewUserTaskType = "social:notify_new_user"

// NotifyNewUserTaskPayload is the JSON payload transported via the queue.
type NotifyNewUserTaskPayload struct {
	UserID int64 `json:"user_id"`
}

type newUserNotificationPayload struct {
	Event     string `json:"event"`
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
}

// RegisterNotifyNewUserTask binds the fan-out handler to the worker server.
// All notification rows commit before the first emission, so a mid-batch
// failure retries with zero partial emissions.
func RegisterNotifyNewUserTask(srv qport.Server, pool *pgxpool.Pool, emitter *realtime.Emitter, log *zap.Logger) {
	uc := usecase.NewNotifyNewUserUseCase(repoAdapter.NewPgSocialRepository(pool))

	srv.Register(NotifyNewUserTaskType, func(ctx context.Context, t qport.Task) error {
		var p NotifyNewUserTaskPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		res, err := uc.Execute(ctx, p.UserID)
		if err != nil {
			return err
		}

		payload := newUserNotificationPayload{
			Event:     "notification",
			ID:        res.User.ID,
			Name:      res.User.Name,
			Type:      "new_user_verified",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}
		for _, rid := range res.Recipients {
			emitter.Room(realtime.InboxRoom(rid), payload)
		}
		log.Info("new user fan-out complete",
			zap.Int64("user_id", p.UserID),
			zap.Int("recipients", len(res.Recipients)),
		)
		return nil
	})
}
