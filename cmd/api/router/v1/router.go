package v1

import (
	cacheport "go-huddle/internal/infrastructure/cache/port"
	qport "go-huddle/internal/infrastructure/queue/port"
	"go-huddle/internal/infrastructure/realtime"
	"go-huddle/internal/infrastructure/token"
	"go-huddle/internal/pkg/social/application/usecase"
	httpHandler "go-huddle/internal/pkg/social/presentation/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Deps bundles everything the version 1 routes need.
type Deps struct {
	Pool     *pgxpool.Pool
	Cache    cacheport.Cache
	Queue    qport.Client
	Router   *realtime.Router
	Presence *realtime.Presence
	Tokens   *token.Validator
	Cipher   usecase.Cipher
	Log      *zap.Logger
}

// RegisterRoutes mounts all version 1 API routes under /api/v1
func RegisterRoutes(r *gin.Engine, d Deps) {
	v1 := r.Group("/api/v1")
	httpHandler.RegisterRoutes(v1, d.Pool, d.Cache, d.Queue, d.Router, d.Presence, d.Tokens, d.Cipher, d.Log)
}
