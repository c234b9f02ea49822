package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/supplier-service/internal/api/http"
	"github.com/spec-kit/supplier-service/internal/api/http/handlers"
	"github.com/spec-kit/supplier-service/internal/auth"
	"github.com/spec-kit/supplier-service/internal/config"
	"github.com/spec-kit/supplier-service/internal/observability"
	"github.com/spec-kit/supplier-service/internal/persistence"
	"github.com/spec-kit/supplier-service/internal/repository"
	"github.com/spec-kit/supplier-service/internal/service"
	"github.com/spec-kit/supplier-service/internal/upload"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	avatarStore, err := upload.NewDiskStore(cfg.Upload.AvatarDir)
	if err != nil {
		logger.Fatal("failed to prepare avatar dir", zap.Error(err))
	}
	imageStore, err := upload.NewDiskStore(cfg.Upload.Dir)
	if err != nil {
		logger.Fatal("failed to prepare upload dir", zap.Error(err))
	}
	avatars := upload.NewManager(avatarStore, cfg.Upload.MaxSizeBytes, logger)
	images := upload.NewManager(imageStore, cfg.Upload.MaxSizeBytes, logger)

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	supplierRepo := repository.NewSupplierRepository(pool)
	productRepo := repository.NewProductRepository(pool)

	tokenMgr := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	revoked := auth.NewRevocationList(redis.Client, logger)

	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:   userRepo,
		TokenMgr:   tokenMgr,
		Revoked:    revoked,
		Avatars:    avatars,
		BcryptCost: cfg.Auth.BcryptCost,
		Logger:     logger,
	})
	supplierService := service.NewSupplierService(supplierRepo)
	productService := service.NewProductService(productRepo, supplierRepo, images)

	authMiddleware := auth.NewAuthMiddleware(tokenMgr, revoked)

	if cfg.Metrics.Enabled {
		observability.ServeMetrics(cfg.Metrics.Addr, logger)
	}

	// Body limit sits above the upload ceiling so oversized files reach the
	// upload policy and get the taxonomy's 413 instead of fiber's.
	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: int(cfg.Upload.MaxSizeBytes) + 1024*1024,
	})
	httptransport.RegisterMiddlewares(app, logger, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(authService),
		Suppliers:      handlers.NewSuppliersHandler(supplierService),
		Products:       handlers.NewProductsHandler(productService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
