package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/admin-console/internal/api/http"
	"github.com/spec-kit/admin-console/internal/api/http/handlers"
	"github.com/spec-kit/admin-console/internal/auth"
	"github.com/spec-kit/admin-console/internal/config"
	"github.com/spec-kit/admin-console/internal/directory"
	"github.com/spec-kit/admin-console/internal/observability"
	"github.com/spec-kit/admin-console/internal/service"
	"github.com/spec-kit/admin-console/internal/session"
	"github.com/spec-kit/admin-console/internal/staffsync"
	"github.com/spec-kit/admin-console/internal/token"
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

	codec := token.NewCodec(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	sessions := session.NewStore(cfg.Cookie, cfg.App.IsProduction())
	gate := auth.NewGate(codec, sessions, cfg.Auth.EnforceExpiryOnRoute)

	local := directory.NewLocal(directory.SeedStaff(), cfg.Directory.LocalLatency(), codec)

	var dir directory.Directory
	var primary, fallback directory.Authenticator
	switch cfg.Directory.Mode {
	case config.DirectoryModeLocal:
		logger.Info("staff directory in local mode")
		dir = local
		primary = local
	default:
		remote := directory.NewRemote(cfg.Directory.BaseURL, cfg.Directory.Timeout())
		dir = remote
		primary = remote
		if cfg.Directory.FallbackToLocal {
			logger.Info("login fallback to local directory enabled")
			fallback = local
		}
	}

	staffSync := staffsync.New(dir, logger)
	authService := service.NewAuthService(primary, fallback, staffSync, logger)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, cfg.Directory.Mode, staffSync),
		Auth:   handlers.NewAuthHandler(authService, sessions),
		Staff:  handlers.NewStaffHandler(staffSync),
		Gate:   gate,
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
