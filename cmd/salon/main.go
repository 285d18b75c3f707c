package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/app"
	"github.com/Freeeeeet/salon_scheduler/internal/config"
	"github.com/Freeeeeet/salon_scheduler/internal/controller"
	"github.com/Freeeeeet/salon_scheduler/internal/controller/httpapi"
	"github.com/Freeeeeet/salon_scheduler/internal/lock"
	"github.com/Freeeeeet/salon_scheduler/internal/repository"
	"github.com/Freeeeeet/salon_scheduler/internal/scheduling"
	"github.com/Freeeeeet/salon_scheduler/internal/service"
	"github.com/Freeeeeet/salon_scheduler/internal/store"
	"github.com/Freeeeeet/salon_scheduler/internal/store/firestore"
	"github.com/Freeeeeet/salon_scheduler/internal/store/memory"
	"github.com/Freeeeeet/salon_scheduler/internal/store/mongo"
	"github.com/Freeeeeet/salon_scheduler/internal/store/postgres"
	"github.com/go-telegram/bot"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, envLoaded, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := app.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting salon scheduler",
		zap.String("environment", cfg.Environment),
		zap.String("store", cfg.StoreBackend),
		zap.Bool("dotenv", envLoaded),
		zap.Int("admins", len(cfg.AdminIDs)),
	)

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Salon scheduler stopped with error", zap.Error(err))
	}
	logger.Info("Salon scheduler stopped")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slots := scheduling.SlotOptions{
		GranularityMinutes: cfg.SlotMinutes,
		WorkStartHour:      cfg.WorkStartHour,
		WorkEndHour:        cfg.WorkEndHour,
	}
	if err := slots.Validate(); err != nil {
		return fmt.Errorf("work hours: %w", err)
	}

	st, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	locker, closeLocker, err := newLocker(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeLocker()

	// Repositories
	customerRepo := repository.NewCustomerRepository(st)
	appointmentRepo := repository.NewAppointmentRepository(st)
	templateRepo := repository.NewPackageTemplateRepository(st)
	packageRepo := repository.NewCustomerPackageRepository(st)
	planRepo := repository.NewPaymentPlanRepository(st)

	// Services
	appointmentService := service.NewAppointmentService(appointmentRepo, customerRepo, locker, service.AppointmentOptions{
		Policy:   service.ConflictPolicy(cfg.ConflictPolicy),
		Slots:    slots,
		Location: cfg.Location,
	}, logger)
	customerService := service.NewCustomerService(customerRepo, logger)
	packageService := service.NewPackageService(st, templateRepo, packageRepo, planRepo, customerRepo, logger)
	paymentService := service.NewPaymentService(planRepo, locker, logger)

	var wg sync.WaitGroup
	defer wg.Wait()

	if cfg.TelegramToken != "" {
		b, err := bot.New(cfg.TelegramToken)
		if err != nil {
			return fmt.Errorf("create telegram bot: %w", err)
		}

		botController := controller.NewBotController(b, appointmentService, customerService, paymentService, cfg.AdminIDs, logger)
		if err := botController.RegisterHandlers(ctx); err != nil {
			return fmt.Errorf("register bot handlers: %w", err)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			botController.Start(ctx)
		}()

		if cfg.DigestHour >= 0 {
			scheduler := app.NewScheduler(appointmentService, botController, cfg.DigestHour, cfg.Location, logger)
			scheduler.Start(ctx)
			defer scheduler.Stop()
		}
	}

	if cfg.HTTPAddr != "" {
		api := httpapi.New(appointmentService, customerService, packageService, paymentService, logger)
		srv := &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      api.Router(),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("HTTP API listening", zap.String("addr", cfg.HTTPAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("HTTP server failed", zap.Error(err))
				stop()
			}
		}()

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("HTTP graceful shutdown failed", zap.Error(err))
			}
		}()
	}

	<-ctx.Done()
	logger.Info("Shutting down...")
	return nil
}

// openStore подключает выбранный бэкенд и возвращает функцию закрытия
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.Store, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pool, err := postgres.Open(ctx, cfg.DBDSN)
		if err != nil {
			return nil, nil, err
		}

		migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		defer migrator.Close()
		if err := migrator.Run(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}

		logger.Info("Connected to PostgreSQL")
		return postgres.New(pool), pool.Close, nil

	case config.BackendMongo:
		st, err := mongo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Connected to MongoDB", zap.String("database", cfg.MongoDatabase))
		return st, closer(st, logger), nil

	case config.BackendFirestore:
		st, err := firestore.Connect(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentials)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Connected to Firestore", zap.String("project", cfg.FirebaseProjectID))
		return st, closer(st, logger), nil

	case config.BackendMemory:
		logger.Warn("Using in-memory store, data is lost on restart")
		return memory.New(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

func closer(st store.Store, logger *zap.Logger) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(ctx); err != nil {
			logger.Error("Failed to close store", zap.Error(err))
		}
	}
}

// newLocker Redis блокировка, если задан REDIS_ADDR, иначе блокировка в процессе
func newLocker(ctx context.Context, cfg *config.Config, logger *zap.Logger) (lock.Locker, func(), error) {
	if cfg.RedisAddr == "" {
		if cfg.StoreBackend != config.BackendMemory {
			logger.Warn("REDIS_ADDR is not set, locks work within a single process only")
		}
		return lock.NewLocal(), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}

	logger.Info("Connected to Redis", zap.String("addr", cfg.RedisAddr))
	return lock.NewRedis(rdb, 0, logger), func() { _ = rdb.Close() }, nil
}
