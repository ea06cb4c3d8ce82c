package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/complaint-service/internal/api/http"
	"github.com/spec-kit/complaint-service/internal/api/http/handlers"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/directory"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/observability"
	"github.com/spec-kit/complaint-service/internal/persistence"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/routing"
	"github.com/spec-kit/complaint-service/internal/service"
	"github.com/spec-kit/complaint-service/internal/worker"
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	historyRepo := repository.NewTicketHistoryRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)

	dir := loadDirectory(cfg.Routing.DirectoryPath, logger)
	if pool != nil {
		if err := syncDepartments(ctx, dir, departmentRepo); err != nil {
			logger.Fatal("failed to sync departments", zap.Error(err))
		}
	}
	resolver := routing.NewResolver(dir)
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	complaintService := service.NewComplaintService(service.ComplaintDependencies{
		TicketRepo:  ticketRepo,
		UserRepo:    userRepo,
		HistoryRepo: historyRepo,
		Resolver:    resolver,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
		Logger:      logger,
		OpTimeout:   cfg.Routing.OpTimeout(),
	})
	dashboardService := service.NewDashboardService(service.DashboardDependencies{
		TicketRepo:    ticketRepo,
		UserRepo:      userRepo,
		Directory:     dir,
		Resolver:      resolver,
		Cache:         redis.ClientHandle(),
		CacheTTL:      cfg.Dashboard.OverviewCacheTTL(),
		SnapshotLimit: cfg.Dashboard.SnapshotLimit,
	})
	authService := service.NewAuthService(*cfg, userRepo)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Tickets:        handlers.NewTicketsHandler(complaintService, dashboardService),
		StaffTickets:   handlers.NewStaffTicketsHandler(complaintService, dashboardService),
		Dashboards:     handlers.NewDashboardsHandler(dashboardService),
		Directory:      handlers.NewDirectoryHandler(dir, departmentRepo, cfg.Routing.DirectoryPath, logger),
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

// loadDirectory prefers the configured document; without one the shipped
// seed mapping is used.
func loadDirectory(path string, logger *zap.Logger) *directory.Directory {
	if path == "" {
		logger.Info("using seed routing directory")
		return directory.Seed()
	}
	dir, err := directory.LoadFile(path)
	if err != nil {
		logger.Fatal("failed to load routing directory", zap.String("path", path), zap.Error(err))
	}
	logger.Info("routing directory loaded", zap.String("path", path), zap.String("version", dir.Version()))
	return dir
}

// syncDepartments mirrors the routing directory into department rows so
// ticket placement always references an existing department.
func syncDepartments(ctx context.Context, dir *directory.Directory, repo repository.DepartmentRepository) error {
	for _, id := range dir.Departments() {
		dept := &domain.Department{ID: id, Name: dir.NameOf(id), IsActive: true}
		if err := repo.Upsert(ctx, dept); err != nil {
			return err
		}
		if head, ok := dir.HeadOf(id); ok {
			headID := head
			if err := repo.SetHead(ctx, id, &headID); err != nil {
				return err
			}
		}
	}
	return nil
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
