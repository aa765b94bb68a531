package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"internsaathi/internal/app"
	"internsaathi/internal/config"
	"internsaathi/internal/database"
	apphttp "internsaathi/internal/http"
	"internsaathi/internal/http/handlers"
	"internsaathi/internal/http/metrics"
	httpmw "internsaathi/internal/http/middleware"
	"internsaathi/internal/http/response"
	"internsaathi/internal/observability"
	"internsaathi/internal/repository/postgres"
	"internsaathi/internal/security"
	"internsaathi/internal/storage"
)

func main() {
	if err := run(); err != nil {
		slog.Error("api stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := observability.NewLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, database.PostgresConfig{
		Driver:          cfg.DBDriver,
		DSN:             cfg.PostgresDSN,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxIdle:     cfg.DBConnMaxIdle,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	}, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		if err := database.Migrate(db); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	accountRepo := postgres.NewAccountRepository(db)
	internshipRepo := postgres.NewInternshipRepository(db)
	applicationRepo := postgres.NewApplicationRepository(db)
	availabilityRepo := postgres.NewAvailabilityRepository(db)

	jwtProvider := security.NewJWTProvider(cfg.JWTSecret, cfg.TokenTTL)
	hasher := security.NewPasswordHasher(cfg.BcryptCost)
	files := storage.NewCloudinary(storage.CloudinaryConfig{
		CloudName: cfg.CloudinaryName,
		APIKey:    cfg.CloudinaryKey,
		APISecret: cfg.CloudinarySecret,
	}, nil)
	if cfg.CloudinaryName == "" {
		logger.Warn("cloudinary is not configured, uploads will fail")
	}

	authService := app.NewAuthService(accountRepo, hasher, jwtProvider, logger)
	internshipService := app.NewInternshipService(internshipRepo, logger)
	applicationService := app.NewApplicationService(applicationRepo, internshipRepo, accountRepo, files, logger)
	verificationService := app.NewVerificationService(accountRepo, logger)
	availabilityService := app.NewAvailabilityService(availabilityRepo)
	directoryService := app.NewDirectoryService(accountRepo, availabilityRepo)
	uploadService := app.NewUploadService(files, logger)

	if cfg.AdminEmail != "" {
		if err := authService.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return err
		}
	}

	var limiter httpmw.Limiter = httpmw.NewRateLimiter()
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return err
		}
		client := redis.NewClient(opts)
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis ping failed, falling back to in-process rate limits", "error", err)
		}
		limiter = httpmw.NewRedisLimiter(client, limiter, logger)
	}

	collector := metrics.NewCollector()
	response.SetErrorCollector(collector)

	router := apphttp.NewRouter(apphttp.RouterDependencies{
		AuthHandler:         handlers.NewAuthHandler(authService, directoryService, limiter),
		InternshipHandler:   handlers.NewInternshipHandler(internshipService),
		ApplicationHandler:  handlers.NewApplicationHandler(applicationService, limiter),
		AvailabilityHandler: handlers.NewAvailabilityHandler(availabilityService),
		DirectoryHandler:    handlers.NewDirectoryHandler(directoryService),
		AdminHandler:        handlers.NewAdminHandler(verificationService),
		UploadHandler:       handlers.NewUploadHandler(uploadService, limiter),
		AuthMiddleware:      httpmw.NewAuthMiddleware(authService),
		Metrics:             collector,
		RequestTimeout:      cfg.RequestTimeout,
		CORSOrigins:         cfg.CORSOrigins,
	})
	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("API started on :" + cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
