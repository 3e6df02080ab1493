package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	queueport "go-huddle/internal/infrastructure/queue/port"
	"go-huddle/internal/pkg/social/application/task"

	"github.com/gin-gonic/gin"
)

// NotifyNewUserController handles the announce-new-user endpoint only (one
// controller per endpoint). The registration flow calls it after email
// verification; the actual fan-out runs on the worker.
type NotifyNewUserController struct {
	Q queueport.Client
}

func NewNotifyNewUserController(client queueport.Client) *NotifyNewUserController {
	return &NotifyNewUserController{Q: client}
}

type notifyNewUserRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}

// Handle returns a gin handler that enqueues the new-user announcement task.
func (h *NotifyNewUserController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req notifyNewUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		b, err := json.Marshal(task.NotifyNewUserTaskPayload{UserID: req.UserID})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode task payload"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		opts := queueport.EnqueueOption{Queue: "social", MaxRetry: 10}
		id, err := h.Q.Enqueue(ctx, queueport.Task{Type: task.NotifyNewUserTaskType, Payload: b}, opts)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to enqueue announcement"})
			return
		}

		c.JSON(http.StatusAccepted, gin.H{
			"status":  "queued",
			"task_id": id,
			"user_id": req.UserID,
		})
	}
}
