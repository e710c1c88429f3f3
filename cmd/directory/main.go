package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/admin-console/internal/api/http"
	"github.com/spec-kit/admin-console/internal/config"
	"github.com/spec-kit/admin-console/internal/dirserver"
	"github.com/spec-kit/admin-console/internal/events"
	"github.com/spec-kit/admin-console/internal/observability"
	"github.com/spec-kit/admin-console/internal/persistence"
	"github.com/spec-kit/admin-console/internal/repository"
	"github.com/spec-kit/admin-console/internal/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if os.Getenv("APP_NAME") == "" {
		cfg.App.Name = "staff-directory"
	}
	if os.Getenv("APP_PORT") == "" {
		cfg.App.Port = "8000"
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

	codec := token.NewCodec(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	staffRepo := repository.NewStaffRepository(pg.PoolHandle())
	denylist := dirserver.NewTokenDenylist(redis.Client)

	dispatcher := events.NewInMemoryDispatcher()
	subscribeAuditLog(dispatcher, logger)

	svc := dirserver.NewService(staffRepo, codec, denylist, dispatcher, cfg.Auth.BcryptCost, logger)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	dirserver.RegisterRoutes(app, dirserver.RouteConfig{
		Handler:        dirserver.NewHandler(svc),
		Health:         dirserver.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		AuthMiddleware: dirserver.NewAuthMiddleware(svc),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func subscribeAuditLog(dispatcher events.Dispatcher, logger *zap.Logger) {
	handler := func(_ context.Context, event events.Event) error {
		fields := []zap.Field{
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)),
			zap.Int64("staff_id", event.StaffID),
		}
		if event.ActorID != nil {
			fields = append(fields, zap.Int64("actor_id", *event.ActorID))
		}
		logger.Info("staff audit event", fields...)
		return nil
	}
	for _, eventType := range []events.EventType{
		events.EventStaffCreated,
		events.EventStaffUpdated,
		events.EventStaffDeleted,
		events.EventStaffLogin,
		events.EventStaffLogout,
	} {
		dispatcher.Subscribe(eventType, handler)
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
