package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/shift-service/internal/api/http"
	"github.com/spec-kit/shift-service/internal/api/http/handlers"
	"github.com/spec-kit/shift-service/internal/auth"
	"github.com/spec-kit/shift-service/internal/config"
	"github.com/spec-kit/shift-service/internal/events"
	"github.com/spec-kit/shift-service/internal/observability"
	"github.com/spec-kit/shift-service/internal/persistence"
	"github.com/spec-kit/shift-service/internal/repository"
	"github.com/spec-kit/shift-service/internal/service"
	"github.com/spec-kit/shift-service/internal/worker"
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
	txRunner := persistence.NewTxRunner(pool)

	storeRepo := repository.NewStoreRepository(pool)
	employeeRepo := repository.NewEmployeeRepository(pool)
	scheduleRepo := repository.NewScheduleRepository(pool)
	availabilityRepo := repository.NewAvailabilityRepository(pool)
	policyRepo := repository.NewStaffingPolicyRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)
	holidayRepo := repository.NewHolidayRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, employeeRepo)
	scheduleService := service.NewScheduleService(service.ScheduleDependencies{
		ScheduleRepo: scheduleRepo,
		StoreRepo:    storeRepo,
		TxRunner:     txRunner,
		Dispatcher:   dispatcher,
	})
	availabilityService := service.NewAvailabilityService(service.AvailabilityDependencies{
		ScheduleRepo:     scheduleRepo,
		AvailabilityRepo: availabilityRepo,
		TxRunner:         txRunner,
		Dispatcher:       dispatcher,
	})
	assignmentService, err := service.NewAssignmentService(cfg.Scheduling, service.AssignmentDependencies{
		ScheduleRepo:     scheduleRepo,
		AvailabilityRepo: availabilityRepo,
		AssignmentRepo:   assignmentRepo,
		PolicyRepo:       policyRepo,
		HolidayRepo:      holidayRepo,
		TxRunner:         txRunner,
		Dispatcher:       dispatcher,
	})
	if err != nil {
		logger.Fatal("failed to init assignment engine", zap.Error(err))
	}
	payrollService := service.NewPayrollService(cfg.Payroll, service.PayrollDependencies{
		AssignmentRepo: assignmentRepo,
		EmployeeRepo:   employeeRepo,
		StoreRepo:      storeRepo,
		PolicyRepo:     policyRepo,
		HolidayRepo:    holidayRepo,
	})
	staffingService := service.NewStaffingService(policyRepo, storeRepo)

	notificationService := service.NewNotificationService(dispatcher, redis, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), employeeRepo)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Schedules:      handlers.NewSchedulesHandler(scheduleService, assignmentService),
		Availability:   handlers.NewAvailabilityHandler(availabilityService),
		Payroll:        handlers.NewPayrollHandler(payrollService),
		Staffing:       handlers.NewStaffingHandler(staffingService),
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
