package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/report-desk/internal/api/http"
	"github.com/spec-kit/report-desk/internal/api/http/handlers"
	"github.com/spec-kit/report-desk/internal/auth"
	"github.com/spec-kit/report-desk/internal/bootstrap"
	"github.com/spec-kit/report-desk/internal/clock"
	"github.com/spec-kit/report-desk/internal/config"
	"github.com/spec-kit/report-desk/internal/domain"
	"github.com/spec-kit/report-desk/internal/events"
	"github.com/spec-kit/report-desk/internal/media"
	"github.com/spec-kit/report-desk/internal/notify"
	"github.com/spec-kit/report-desk/internal/observability"
	"github.com/spec-kit/report-desk/internal/service"
	"github.com/spec-kit/report-desk/internal/worker"
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

	clk := clock.Real()

	storage, err := bootstrap.OpenStorage(ctx, cfg, clk, logger)
	if err != nil {
		logger.Fatal("failed to open storage", zap.Error(err))
	}
	defer storage.Close()

	var uploader media.Uploader
	if cfg.Media.CloudinaryEnabled() {
		cld, err := media.NewCloudinaryUploader(cfg.Media)
		if err != nil {
			logger.Fatal("failed to init cloudinary", zap.Error(err))
		}
		uploader = cld
		logger.Info("cloudinary image hosting enabled", zap.String("folder", cfg.Media.CloudinaryFolder))
	}

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, notify.NewCenter(clk, cfg.Notification.TTL()), logger, cfg.Notification)
	defer notificationService.Close()
	notificationWorker := worker.NewNotificationWorker(notificationService, worker.DefaultQueueSize, logger)
	notificationWorker.Attach(dispatcher)
	workerCtx, stopWorker := context.WithCancel(ctx)
	notificationWorker.Start(workerCtx)

	ticketService := service.NewTicketService(service.TicketDependencies{
		Store:          storage.Store,
		HistoryRepo:    storage.History,
		Dispatcher:     dispatcher,
		Images:         media.NewResolver(cfg.Media.MaxImageBytes, uploader, logger),
		Clock:          clk,
		Logger:         logger,
		SubmitDelay:    cfg.Tickets.SubmitDelay(),
		ExportLocation: cfg.Export.Location(),
	})

	authService, err := service.NewAuthService(cfg.Auth, clk, logger)
	if err != nil {
		logger.Fatal("failed to init auth", zap.Error(err))
	}
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager())
	maintenanceOpen := !authService.RequiresLogin(domain.RoleMaintenance)
	if maintenanceOpen {
		logger.Warn("MAINTENANCE_ACCESS_CODE not set; maintenance routes are open")
	}

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: cfg.App.BodyLimitBytes,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			cfg.Storage.Driver: storage.Backend.Slot,
		}),
		Tickets:         handlers.NewTicketsHandler(ticketService),
		Auth:            handlers.NewAuthHandler(authService),
		Admin:           handlers.NewAdminHandler(ticketService),
		Maintenance:     handlers.NewMaintenanceHandler(ticketService),
		Notifications:   handlers.NewNotificationsHandler(notificationService),
		Metrics:         handlers.NewMetricsHandler(metrics),
		AuthMiddleware:  authMiddleware,
		MaintenanceOpen: maintenanceOpen,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Error("fiber shutdown", zap.Error(err))
	}
	stopWorker()
	notificationWorker.Wait()
	if dropped := notificationWorker.Dropped(); dropped > 0 {
		logger.Warn("notifications dropped", zap.Int64("count", dropped))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
