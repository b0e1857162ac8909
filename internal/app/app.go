package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"church-portal/internal/config"
	"church-portal/internal/database"
	"church-portal/internal/event"
	"church-portal/internal/handler"
	"church-portal/internal/middleware"
	"church-portal/internal/repository"
	"church-portal/internal/router"
	"church-portal/internal/service"
	"church-portal/internal/storage"
)

type App struct {
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, err := storage.New(cfg.UploadsDir, cfg.MaxUploadSize)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
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
	fileRepo := repository.NewFileRepository(pool)
	ministryRepo := repository.NewMinistryRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)
	slog.Info("database ready")

	logger := slog.Default()
	bus := event.NewBus()

	authService := service.NewAuthService(userRepo, service.NewLogMailer(logger), logger, cfg.JWTSecret, cfg.JWTTTL)
	authMiddleware := middleware.NewAuthMiddleware(authService)
	authHandler := handler.NewAuthHandler(authService, cfg.ResetBaseURL)

	fileService := service.NewFileService(fileRepo, store, bus, logger, cfg.ThumbnailRoot, cfg.OrphanSweepInterval, cfg.OrphanMinAge)
	fileHandler := handler.NewFileHandler(fileService, cfg.MaxUploadSize)

	userService := service.NewUserService(userRepo, logger)
	userHandler := handler.NewUserHandler(userService)

	catalogService := service.NewCatalogService(ministryRepo, roleRepo)
	catalogHandler := handler.NewCatalogHandler(catalogService)

	auditService := service.NewAuditService(auditRepo, bus, logger)
	auditHandler := handler.NewAuditHandler(auditService)

	backgroundCtx, backgroundCancel := context.WithCancel(context.Background())
	auditService.StartRecorder(backgroundCtx)
	fileService.StartOrphanSweep(backgroundCtx)

	appRouter := router.New(cfg, authMiddleware, authHandler, fileHandler, userHandler, catalogHandler, auditHandler)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		db:     db,
		cleanupFuncs: []func(){
			backgroundCancel,
			db.Close,
		},
	}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	shutdownErr := a.server.Shutdown(ctx)

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	if shutdownErr != nil {
		return fmt.Errorf("graceful shutdown failed: %w", shutdownErr)
	}

	slog.Info("server stopped")
	return nil
}
