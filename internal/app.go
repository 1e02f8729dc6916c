// internal/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	router "leadcredit/internal/api"
	"leadcredit/internal/api/handler"
	"leadcredit/internal/config"
	"leadcredit/internal/notify"
	"leadcredit/internal/repository"
	"leadcredit/internal/repository/postgres"
	"leadcredit/internal/service"
	"leadcredit/internal/util"
	"leadcredit/pkg/db"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *zap.Logger
	DB     *sqlx.DB
	Redis  *redis.Client

	// Repositories
	BuyerRepository       repository.BuyerRepository
	WalletRepository      repository.WalletRepository
	TransactionRepository repository.TransactionRepository
	LeadRepository        repository.LeadRepository
	AllocationRepository  repository.AllocationRepository

	// Services
	WalletService     service.WalletService
	AllocationService service.AllocationService
	ReportService     service.ReportService
	LeadService       service.LeadService

	// Notification worker, nil when Redis is not configured.
	Worker *notify.Worker

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger(cfg.Log.Level, cfg.Log.Format)
	app.Logger = util.GetLogger()
	app.Logger.Info("application configuration loaded")

	// 3. Connect to Database
	database, err := db.NewPostgresDB(cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("database connection established", zap.String("host", cfg.DB.Host), zap.String("db", cfg.DB.DBName))

	if cfg.AutoMigrate {
		if err := db.RunMigrations(app.DB); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		app.Logger.Info("database migrations applied")
	}

	// 4. Initialize Repositories
	app.BuyerRepository = postgres.NewBuyerRepository()
	app.WalletRepository = postgres.NewWalletRepository()
	app.TransactionRepository = postgres.NewTransactionRepository()
	app.LeadRepository = postgres.NewLeadRepository()
	app.AllocationRepository = postgres.NewAllocationRepository()

	// 5. Notifications
	notifier, err := app.initNotifications(ctx)
	if err != nil {
		return err
	}

	// 6. Initialize Services
	// Pass the concrete db.BeginTx, db.CommitTx, db.RollbackTx functions from pkg/db
	retry := service.RetryPolicy{
		MaxAttempts: cfg.Purchase.MaxAttempts,
		MinDelay:    service.DefaultRetryPolicy.MinDelay,
		MaxDelay:    service.DefaultRetryPolicy.MaxDelay,
	}
	app.WalletService = service.NewWalletService(
		app.DB, // DBTxBeginner
		app.DB, // DBExecutor
		app.BuyerRepository,
		app.WalletRepository,
		app.TransactionRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
		retry,
		app.Logger,
	)
	app.AllocationService = service.NewAllocationService(
		app.DB,
		app.DB,
		app.BuyerRepository,
		app.WalletRepository,
		app.LeadRepository,
		app.AllocationRepository,
		app.TransactionRepository,
		notifier,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
		service.PurchaseOptions{Retry: retry, LockTimeout: cfg.Purchase.LockTimeout},
		app.Logger,
	)
	app.ReportService = service.NewReportService(
		app.DB,
		app.WalletRepository,
		app.TransactionRepository,
		app.LeadRepository,
		app.AllocationRepository,
	)
	app.LeadService = service.NewLeadService(
		app.DB,
		app.DB,
		app.LeadRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
		app.Logger,
	)

	// 7. Initialize HTTP Handlers and Router
	app.HTTPHandler = router.NewRouter(
		handler.NewLeadHandler(app.AllocationService, app.ReportService, app.Logger),
		handler.NewWalletHandler(app.WalletService, app.ReportService, app.Logger),
		handler.NewAdminHandler(app.WalletService, app.LeadService, app.Logger),
		router.RouterOptions{
			AdminUser:      cfg.Admin.User,
			AdminPassword:  cfg.Admin.Password,
			QuoteRateLimit: cfg.Quote.RPS,
			QuoteBurst:     cfg.Quote.Burst,
		},
		app.Logger,
	)
	app.Logger.Info("HTTP router and handlers initialized")

	return nil
}

// initNotifications connects the Redis queue and builds the worker. Without
// REDIS_ADDR allocation notices are dropped.
func (app *Application) initNotifications(ctx context.Context) (notify.Notifier, error) {
	cfg := app.Config
	if cfg.Redis.Addr == "" {
		app.Logger.Warn("REDIS_ADDR not set, allocation notifications disabled")
		return notify.Nop{}, nil
	}

	app.Redis = redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := app.Redis.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
	}

	var mailer notify.Mailer = notify.LogMailer{Logger: app.Logger}
	if cfg.SMTP.Host != "" {
		mailer = notify.NewBreakerMailer(
			notify.NewSMTPMailer(notify.SMTPConfig{
				Host:     cfg.SMTP.Host,
				Port:     strconv.Itoa(cfg.SMTP.Port),
				User:     cfg.SMTP.User,
				Password: cfg.SMTP.Password,
				From:     cfg.SMTP.From,
			}),
			5,
			30*time.Second,
			app.Logger,
		)
	}
	app.Worker = notify.NewWorker(app.Redis, mailer, app.Logger)
	app.Logger.Info("notification queue connected", zap.String("addr", cfg.Redis.Addr))

	return notify.NewRedisQueue(app.Redis, app.Logger), nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("shutting down application")
	var errs []error
	if app.Redis != nil {
		if err := app.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis client: %w", err))
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database connection: %w", err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		app.Logger.Error("shutdown failed", zap.Error(err))
		return err
	}
	app.Logger.Info("application shut down gracefully")
	_ = app.Logger.Sync()
	return nil
}
