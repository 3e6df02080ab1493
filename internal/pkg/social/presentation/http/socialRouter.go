package http

import (
	cacheport "go-huddle/internal/infrastructure/cache/port"
	qport "go-huddle/internal/infrastructure/queue/port"
	"go-huddle/internal/infrastructure/realtime"
	"go-huddle/internal/infrastructure/token"
	"go-huddle/internal/pkg/social/application/usecase"
	"go-huddle/internal/pkg/social/presentation/controller"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// RegisterRoutes registers social endpoints under the given router group.
// It constructs per-endpoint controllers and binds them directly to routes.
func RegisterRoutes(
	g *gin.RouterGroup,
	pool *pgxpool.Pool,
	cache cacheport.Cache,
	client qport.Client,
	router *realtime.Router,
	presence *realtime.Presence,
	tokens *token.Validator,
	cipher usecase.Cipher,
	log *zap.Logger,
) {
	socketCtl := controller.NewSocialSocketController(pool, cache, router, presence, tokens, cipher, log)
	presenceCtl := controller.NewPresenceController(presence)
	notifyCtl := controller.NewNotifyNewUserController(client)

	// GET /api/v1/social/ws -> websocket endpoint for the realtime session
	g.GET("/social/ws", socketCtl.Handle())

	// GET /api/v1/social/presence -> snapshot of online user ids
	g.GET("/social/presence", presenceCtl.Handle())

	// POST /api/v1/social/announce -> fan out a new-user announcement
	g.POST("/social/announce", notifyCtl.Handle())
}
