package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/jsancolett-dev/agency-os/internal/api/http"
	"github.com/jsancolett-dev/agency-os/internal/api/http/handlers"
	"github.com/jsancolett-dev/agency-os/internal/config"
	"github.com/jsancolett-dev/agency-os/internal/events"
	"github.com/jsancolett-dev/agency-os/internal/gateway"
	"github.com/jsancolett-dev/agency-os/internal/observability"
	"github.com/jsancolett-dev/agency-os/internal/persistence"
	"github.com/jsancolett-dev/agency-os/internal/repository"
	"github.com/jsancolett-dev/agency-os/internal/service"
	"github.com/jsancolett-dev/agency-os/internal/worker"
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

	metrics := observability.NewMetrics()

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	store := repository.NewStore(pg.PoolHandle())
	intakeService := service.NewIntakeService(service.IntakeDependencies{
		Store:      store,
		Dispatcher: dispatcher,
		Logger:     logger,
		Provider:   cfg.Webhook.Provider,
	})

	forwarder := gateway.NewForwarder(cfg.Dashboard, logger, metrics)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, forwarder)
	webhookHandler := handlers.NewWebhookHandler(intakeService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:      healthHandler,
		Webhook:     webhookHandler,
		WebhookPath: cfg.Webhook.Path(),
		Forwarder:   forwarder,
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
