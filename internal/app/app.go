package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go-social-api/internal/config"
	"go-social-api/internal/database"
	"go-social-api/internal/event"
	"go-social-api/internal/handler"
	"go-social-api/internal/logger"
	"go-social-api/internal/middleware"
	"go-social-api/internal/repository"
	"go-social-api/internal/router"
	"go-social-api/internal/service"
	"go-social-api/internal/storage"
	"go-social-api/internal/token"
	"go-social-api/internal/websocket"
)

type App struct {
	server          *http.Server
	shutdownTimeout time.Duration
	cleanupFuncs    []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.SetDefault(logger.New(os.Stdout, cfg.LogFormat, cfg.LogLevel))

	issuer, err := token.NewIssuer(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token issuer: %w", err)
	}

	staging, err := storage.NewStaging(filepath.Join(cfg.UploadTempDir, "social-uploads"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize upload staging: %w", err)
	}

	var store storage.ObjectStore = storage.Disabled{}
	if cfg.UploadsEnabled() {
		s3Store, s3Err := storage.NewS3Store(context.Background(), storage.S3Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.S3PublicBaseURL,
			UsePathStyle:  cfg.S3UsePathStyle,
		})
		if s3Err != nil {
			return nil, fmt.Errorf("failed to initialize object storage: %w", s3Err)
		}
		store = s3Store
		slog.Info("object storage ready", "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("S3_BUCKET not set; image uploads are disabled")
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	postRepo := repository.NewPostRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	slog.Info("database ready")

	bus := event.NewBus()
	hub := websocket.NewHub(bus)
	hubCtx, hubCancel := context.WithCancel(context.Background())
	go hub.Run(hubCtx)

	media := service.NewMediaService(store, staging, cfg.S3KeyPrefix, cfg.MaxImageDimension)
	authService := service.NewAuthService(userRepo, issuer, media, cfg.BcryptCost)
	userService := service.NewUserService(userRepo, media, bus, cfg.LeaderboardDefaultRange, cfg.LeaderboardMaxRange)
	postService := service.NewPostService(postRepo, commentRepo, media, bus, cfg.MaxPostImages)

	cookies := handler.CookieConfig{
		Secure:     cfg.CookieSecure,
		SameSite:   cfg.CookieSameSite,
		Domain:     cfg.CookieDomain,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	}

	appRouter := router.New(cfg, middleware.NewAuthMiddleware(authService), router.Handlers{
		Auth:   handler.NewAuthHandler(authService, cookies),
		User:   handler.NewUserHandler(userService),
		Post:   handler.NewPostHandler(postService),
		Feed:   handler.NewFeedHandler(hub, cfg.CORSOrigins),
		Health: handler.NewHealthHandler(db),
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		cleanupFuncs: []func(){
			func() {
				hubCancel()
			},
			func() {
				db.Close()
			},
		},
	}, nil
}

func (a *App) Run() error {
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		a.cleanup()
		return fmt.Errorf("server failed: %w", err)
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	shutdownErr := a.server.Shutdown(ctx)
	a.cleanup()
	if shutdownErr != nil {
		return fmt.Errorf("graceful shutdown failed: %w", shutdownErr)
	}

	slog.Info("server stopped")
	return nil
}

func (a *App) cleanup() {
	for _, fn := range a.cleanupFuncs {
		fn()
	}
}
