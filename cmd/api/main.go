package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	httptransport "github.com/svn-hms/complaint-service/internal/api/http"
	"github.com/svn-hms/complaint-service/internal/api/http/handlers"
	"github.com/svn-hms/complaint-service/internal/auth"
	"github.com/svn-hms/complaint-service/internal/config"
	"github.com/svn-hms/complaint-service/internal/events"
	"github.com/svn-hms/complaint-service/internal/observability"
	"github.com/svn-hms/complaint-service/internal/persistence"
	"github.com/svn-hms/complaint-service/internal/qr"
	"github.com/svn-hms/complaint-service/internal/repository"
	"github.com/svn-hms/complaint-service/internal/service"
	"github.com/svn-hms/complaint-service/internal/storage"
	"github.com/svn-hms/complaint-service/internal/worker"
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
	userRepo := repository.NewUserRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)
	categoryRepo := repository.NewIssueCategoryRepository(pool)
	roomRepo := repository.NewRoomRepository(pool)
	complaintRepo := repository.NewComplaintRepository(pool)
	imageRepo := repository.NewComplaintImageRepository(pool)

	signer := qr.NewSigner(cfg.QR.Secret, cfg.QR.FormBaseURL)
	qrQueue := worker.NewQRQueue(redis.Client, cfg.QR.QueueKey)
	mediaStore, err := storage.NewLocalMediaStore(cfg.Media.Dir)
	if err != nil {
		logger.Fatal("failed to prepare media storage", zap.Error(err))
	}
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:       userRepo,
		DepartmentRepo: departmentRepo,
	})
	taxonomyService := service.NewTaxonomyService(departmentRepo, categoryRepo)
	roomService := service.NewRoomService(roomRepo, signer, qrQueue, logger)
	complaintService := service.NewComplaintService(service.ComplaintDependencies{
		ComplaintRepo: complaintRepo,
		ImageRepo:     imageRepo,
		RoomRepo:      roomRepo,
		CategoryRepo:  categoryRepo,
		DeptRepo:      departmentRepo,
		UserRepo:      userRepo,
		Media:         mediaStore,
		Dispatcher:    dispatcher,
		Logger:        logger,
	})
	reportService := service.NewReportService(complaintRepo, departmentRepo)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)

	worker.StartNotificationWorker(notificationService)
	qrWorker := worker.NewQRWorker(qrQueue, roomRepo, signer, cfg.QR, logger)
	go qrWorker.Run(ctx)

	bootstrapMasterAdmin(ctx, cfg.Bootstrap, userRepo, authService, logger)

	cookieAuth := auth.NewCookieAuth(authService.TokenManager(), userRepo, cfg.Auth)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:          handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:            handlers.NewAuthHandler(authService, cfg.Auth),
		Rooms:           handlers.NewRoomsHandler(roomService),
		Departments:     handlers.NewDepartmentsHandler(taxonomyService),
		IssueCategories: handlers.NewIssueCategoriesHandler(taxonomyService),
		Complaints:      handlers.NewComplaintsHandler(complaintService),
		Reports:         handlers.NewReportsHandler(reportService),
		CookieAuth:      cookieAuth,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

// bootstrapMasterAdmin seeds the initial master admin account when configured
// and not already present. Failures are logged, not fatal, so a misconfigured
// bootstrap never blocks startup.
func bootstrapMasterAdmin(ctx context.Context, cfg config.Bootstrap, users repository.UserRepository, authService *service.AuthService, logger *zap.Logger) {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return
	}
	if _, err := users.GetByUsername(ctx, cfg.AdminUsername); err == nil {
		return
	} else if !errors.Is(err, pgx.ErrNoRows) {
		logger.Error("bootstrap admin lookup", zap.Error(err))
		return
	}

	_, err := authService.CreateUser(ctx, service.CreateUserInput{
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		Role:     "master_admin",
	})
	if err != nil {
		logger.Error("bootstrap admin create", zap.Error(err))
		return
	}
	logger.Info("bootstrap master admin created", zap.String("username", cfg.AdminUsername))
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
