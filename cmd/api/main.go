package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	v1 "go-huddle/cmd/api/router/v1"
	cacheAdapter "go-huddle/internal/infrastructure/cache/adapter"
	"go-huddle/internal/infrastructure/database"
	"go-huddle/internal/infrastructure/logger"
	queueAdapter "go-huddle/internal/infrastructure/queue/adapter"
	qport "go-huddle/internal/infrastructure/queue/port"
	"go-huddle/internal/infrastructure/realtime"
	"go-huddle/internal/infrastructure/secret"
	"go-huddle/internal/infrastructure/token"
	"go-huddle/internal/pkg/social/application/task"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	zl, err := logger.New(logger.ConfigFromEnv())
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to the database on startup
	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	pool, err := database.NewPoolFromEnv(connectCtx)
	cancel()
	if err != nil {
		zl.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	cache, err := cacheAdapter.NewRedisAdapter()
	if err != nil {
		zl.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer func() { _ = cache.Close() }()

	tokens, err := token.NewValidatorFromEnv()
	if err != nil {
		zl.Fatal("failed to build token validator", zap.Error(err))
	}

	box, err := secret.NewBoxFromEnv()
	if err != nil {
		zl.Fatal("failed to build message cipher", zap.Error(err))
	}

	queueClient, err := queueAdapter.NewAsynqClientFromEnv()
	if err != nil {
		zl.Fatal("failed to build queue client", zap.Error(err))
	}
	defer func() { _ = queueClient.Close() }()

	queueServer, err := queueAdapter.NewAsynqServer(zl)
	if err != nil {
		zl.Fatal("failed to build queue server", zap.Error(err))
	}

	scheduler, err := queueAdapter.NewAsynqScheduler()
	if err != nil {
		zl.Fatal("failed to build queue scheduler", zap.Error(err))
	}

	rt := realtime.NewRouter()
	defer rt.Close()
	presence := realtime.NewPresence()
	emitter := realtime.NewEmitter(rt, zl)

	// Background jobs share the process with the API so handlers can emit
	// straight into connected sessions.
	task.RegisterNotifyNewUserTask(queueServer, pool, emitter, zl)
	task.RegisterBirthdaySweepTask(queueServer, pool, emitter, zl)

	if _, err := scheduler.Schedule(
		task.BirthdaySweepCronspec,
		qport.Task{Type: task.BirthdaySweepTaskType, Payload: []byte("{}")},
		qport.EnqueueOption{Queue: "social"},
	); err != nil {
		zl.Fatal("failed to schedule birthday sweep", zap.Error(err))
	}

	go func() {
		if err := queueServer.Run(ctx); err != nil {
			zl.Error("queue server stopped", zap.Error(err))
			stop()
		}
	}()
	go func() {
		if err := scheduler.Run(ctx); err != nil {
			zl.Error("queue scheduler stopped", zap.Error(err))
			stop()
		}
	}()

	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "OK",
		})
	})

	v1.RegisterRoutes(r, v1.Deps{
		Pool:     pool,
		Cache:    cache,
		Queue:    queueClient,
		Router:   rt,
		Presence: presence,
		Tokens:   tokens,
		Cipher:   box,
		Log:      zl,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{Addr: ":" + port, Handler: r}

	go func() {
		zl.Info("api listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Error("http server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("http shutdown", zap.Error(err))
	}
}
