package controller

import (
	"net/http"

	"go-huddle/internal/infrastructure/realtime"

	"github.com/gin-gonic/gin"
)

// PresenceController serves a snapshot of currently-online user ids.
type PresenceController struct {
	presence *realtime.Presence
}

func NewPresenceController(presence *realtime.Presence) *PresenceController {
	return &PresenceController{presence: presence}
}

func (h *PresenceController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		online := h.presence.Snapshot()
		if online == nil {
			online = []int64{}
		}
		c.JSON(http.StatusOK, gin.H{"online": online})
	}
}
