package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/Shukladev7/escalation-tracker/internal/api/http"
	"github.com/Shukladev7/escalation-tracker/internal/api/http/handlers"
	"github.com/Shukladev7/escalation-tracker/internal/auth"
	"github.com/Shukladev7/escalation-tracker/internal/config"
	"github.com/Shukladev7/escalation-tracker/internal/events"
	"github.com/Shukladev7/escalation-tracker/internal/notification"
	"github.com/Shukladev7/escalation-tracker/internal/observability"
	"github.com/Shukladev7/escalation-tracker/internal/persistence"
	"github.com/Shukladev7/escalation-tracker/internal/projection"
	"github.com/Shukladev7/escalation-tracker/internal/repository"
	"github.com/Shukladev7/escalation-tracker/internal/service"
	"github.com/Shukladev7/escalation-tracker/internal/worker"
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

	pool := pg.PoolHandle()
	escalationRepo := repository.NewEscalationRepository(pool)
	employeeRepo := repository.NewEmployeeRepository(pool)
	settingsRepo := repository.NewSettingsRepository(pool)
	outboxRepo := repository.NewOutboxRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	feed := projection.NewRedisFeed(redis.Client, logger)
	projection.RegisterFeedPublisher(dispatcher, feed, logger)

	settingsService := service.NewSettingsService(settingsRepo, dispatcher, logger)
	directoryService := service.NewDirectoryService(service.DirectoryDependencies{
		EmployeeRepo: employeeRepo,
		Settings:     settingsService,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	escalationService := service.NewEscalationService(service.EscalationDependencies{
		EscalationRepo: escalationRepo,
		Directory:      directoryService,
		Settings:       settingsService,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})

	mailer := notification.NewSMTPMailer(cfg.SMTP, logger)
	notificationService := service.NewNotificationService(mailer, logger, metrics, cfg.SMTP.SendTimeout())
	suggestionService := service.NewSuggestionService(cfg.Suggest, settingsService, logger)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authService := service.NewAuthService(employeeRepo, resetRepo, tokens, notificationService, cfg.Auth, logger)
	authMiddleware := auth.NewAuthMiddleware(tokens)

	if cfg.App.SeedOnStart {
		seeder := service.NewSeedService(settingsRepo, employeeRepo, escalationRepo, logger)
		if err := seeder.Run(ctx, cfg.App.SeedPassword); err != nil {
			logger.Fatal("failed to seed database", zap.Error(err))
		}
	}

	projectionManager := projection.NewManager(feed, projection.Sources{
		Escalations: escalationRepo,
		Employees:   employeeRepo,
		Settings:    settingsRepo,
	}, logger)
	defer projectionManager.Stop()

	outboxWorker := worker.NewNotificationWorker(outboxRepo, notificationService, cfg.Outbox, logger)
	outboxWorker.Start(ctx)
	defer outboxWorker.Stop()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService, projectionManager),
		Escalations:    handlers.NewEscalationsHandler(escalationService),
		Employees:      handlers.NewEmployeesHandler(directoryService),
		Settings:       handlers.NewSettingsHandler(settingsService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		Suggest:        handlers.NewSuggestHandler(suggestionService),
		Feed:           handlers.NewFeedHandler(projectionManager),
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
