package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/voxly-app/voxly/internal/cache"
	"github.com/voxly-app/voxly/internal/db"
	"github.com/voxly-app/voxly/internal/handlers"
	"github.com/voxly-app/voxly/internal/handlers/middleware"
	"github.com/voxly-app/voxly/internal/logger"
	"github.com/voxly-app/voxly/internal/media"
	"github.com/voxly-app/voxly/internal/repository/postgres"
	"github.com/voxly-app/voxly/internal/service/auth"
	"github.com/voxly-app/voxly/internal/service/auth/tokenmanager"
	"github.com/voxly-app/voxly/internal/service/post"
	"github.com/voxly-app/voxly/internal/service/stats"
	"github.com/voxly-app/voxly/internal/service/user"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	logger, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Media store for avatars and post images
	mediaStore, err := media.NewS3Store(ctx, media.S3Config{
		Endpoint:  c.S3Endpoint,
		Region:    c.S3Region,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
		Bucket:    c.S3Bucket,
		PublicURL: c.S3PublicURL,
	})
	if err != nil {
		return nil, fmt.Errorf("error while creating media store. Err: %w", err)
	}

	// Stats cache is optional, nil disables it
	var statsCache cache.Cache
	if c.RedisAddr != "" {
		redisCache, err := cache.NewRedis(ctx, c.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("error while connecting to redis. Err: %w", err)
		}
		statsCache = redisCache
	}

	// Initialize services
	tokenManager, err := tokenmanager.New(tokenmanager.Config{
		SecretKey: c.SecretKey,
		AccessTTL: c.AccessTokenTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("error while creating token manager. Err: %w", err)
	}
	authService, err := auth.NewService(auth.Config{}, tokenManager, storage.User())
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}
	userService := user.NewService(nil, storage.User(), mediaStore)
	postService := post.NewService(storage.Post(), storage.Comment(), mediaStore)
	statsService := stats.NewService(storage.Stats(), statsCache)

	// Initialize handlers
	authHandler := handlers.NewAuth(authService)
	userHandler := handlers.NewUser(userService)
	postHandler := handlers.NewPost(postService)
	statsHandler := handlers.NewStats(statsService)
	authMiddleware := middleware.AuthMiddleware(authService)

	mux := handlers.NewRouter(
		authHandler,
		userHandler,
		postHandler,
		statsHandler,
		authMiddleware,
		middleware.LoggerMiddleware(logger),
		middleware.CORSMiddleware(c.CORSOrigins),
	)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			slog.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		slog.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	slog.Info("Starting server")
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
