// Command api runs the HR management REST backend.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/hrmanager/hrm-api/internal/api"
	"github.com/hrmanager/hrm-api/internal/api/handler"
	"github.com/hrmanager/hrm-api/internal/core/domain"
	"github.com/hrmanager/hrm-api/internal/core/ports"
	"github.com/hrmanager/hrm-api/internal/core/service"
	"github.com/hrmanager/hrm-api/internal/core/validation"
	"github.com/hrmanager/hrm-api/internal/infrastructure/config"
	mongodb "github.com/hrmanager/hrm-api/internal/infrastructure/db/mongo"
	redisdb "github.com/hrmanager/hrm-api/internal/infrastructure/db/redis"
	"github.com/hrmanager/hrm-api/internal/infrastructure/queue"
	"github.com/hrmanager/hrm-api/internal/infrastructure/seed"
	"github.com/hrmanager/hrm-api/pkg/logger"
)

const (
	serviceName     = "hrm-api"
	shutdownTimeout = 15 * time.Second
)

func main() {
	envFile := pflag.String("env-file", ".env", "dotenv file loaded before reading the environment")
	pflag.Parse()

	if err := run(*envFile); err != nil {
		fmt.Fprintln(os.Stderr, serviceName+":", err)
		os.Exit(1)
	}
}

func run(envFile string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Configuration
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	policy, err := cfg.Resources.Policy()
	if err != nil {
		return err
	}

	// 2. Logger
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
		Version: cfg.Version,
	})

	// 3. Storage
	store, err := mongodb.Connect(ctx, mongodb.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		AppName:     serviceName,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
		Timeout:     cfg.Mongo.Timeout,
	})
	if err != nil {
		return err
	}
	defer closeWith(logger.Component("mongo"), store.Close)
	db := store.DB
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongo connected")

	redisClient, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
		Timeout:  cfg.Redis.Timeout,
	})
	if err != nil {
		return err
	}
	defer closeWith(logger.Component("redis"), redisClient.Close)
	sessions := redisdb.NewSessionStore(redisClient)
	log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")

	// 4. Repositories
	users := mongodb.NewUserRepository(db)
	installs := mongodb.NewInstallationRepository(db)
	settings := mongodb.NewRepository[domain.Setting](db, domain.KindSetting)
	notifications := mongodb.NewRepository[domain.Notification](db, domain.KindNotification)
	attendance := mongodb.NewRepository[domain.Attendance](db, domain.KindAttendance)
	leaves := mongodb.NewRepository[domain.Leave](db, domain.KindLeave)
	expenses := mongodb.NewRepository[domain.Expense](db, domain.KindExpense)
	projects := mongodb.NewRepository[domain.Project](db, domain.KindProject)
	tasks := mongodb.NewRepository[domain.Task](db, domain.KindTask)
	departments := mongodb.NewRepository[domain.Department](db, domain.KindDepartment)
	designations := mongodb.NewRepository[domain.Designation](db, domain.KindDesignation)
	announcements := mongodb.NewRepository[domain.Announcement](db, domain.KindAnnouncement)

	for _, r := range []interface{ EnsureIndexes(context.Context) error }{
		users, settings, notifications, attendance, leaves, expenses,
		projects, tasks, departments, designations, announcements,
	} {
		if err := r.EnsureIndexes(ctx); err != nil {
			return err
		}
	}

	// 5. Services
	v := validation.New()
	tokens := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, sessions)
	authService := service.NewAuthService(users, tokens, logger.Component("auth"))

	dispatcher := queue.NewDispatcher(cfg.Notify.Workers,
		service.NewNotificationService(notifications, logger.Component("notifications")),
		logger.Component("dispatcher"))
	// workers outlive the signal context; Stop drains them after the server is down
	dispatcher.Start(context.Background())

	defaults, err := seed.DefaultSettings()
	if err != nil {
		return err
	}
	installService := service.NewInstallService(installs, users, settings, defaults, v, logger.Component("install"))

	k := kinds{validator: v, log: logger.Component("resources"), policy: policy, maxBatch: cfg.Resources.MaxBatch}
	resources := []api.Resource{
		api.Routes(resourceHandler[domain.User](k, domain.KindUser, users, service.UserHooks())),
		api.Routes(resourceHandler[domain.Attendance](k, domain.KindAttendance, attendance, service.AttendanceHooks())),
		api.Routes(resourceHandler[domain.Leave](k, domain.KindLeave, leaves, service.LeaveHooks(dispatcher))),
		api.Routes(resourceHandler[domain.Expense](k, domain.KindExpense, expenses, service.ExpenseHooks(dispatcher, settings))),
		api.Routes(resourceHandler[domain.Project](k, domain.KindProject, projects, service.ProjectHooks(dispatcher))),
		api.Routes(resourceHandler[domain.Task](k, domain.KindTask, tasks, service.TaskHooks(dispatcher))),
		api.Routes(resourceHandler[domain.Department](k, domain.KindDepartment, departments, service.DepartmentHooks())),
		api.Routes(resourceHandler[domain.Designation](k, domain.KindDesignation, designations, service.DesignationHooks())),
		api.Routes(resourceHandler[domain.Announcement](k, domain.KindAnnouncement, announcements, service.AnnouncementHooks(dispatcher))),
		// settings are created by the installer only
		api.Routes(resourceHandler[domain.Setting](k, domain.KindSetting, settings, service.Hooks[domain.Setting]{}),
			domain.ActionList, domain.ActionGet, domain.ActionUpdate, domain.ActionDelete),
		// notifications are produced internally
		api.Routes(resourceHandler[domain.Notification](k, domain.KindNotification, notifications, service.Hooks[domain.Notification]{}),
			domain.ActionList),
	}

	// 6. HTTP
	e := api.NewRouter(api.Deps{
		Log:       logger.Component("http"),
		Verifier:  tokens,
		Policy:    service.NewRolePolicy(),
		Auth:      authService,
		Install:   installService,
		Resources: resources,
		Health: map[string]handler.Pinger{
			"mongo": store,
			"redis": sessions,
		},
		Version:   cfg.Version,
		BodyLimit: cfg.BodyLimit,
		StaticDir: cfg.StaticDir,
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// 7. Graceful shutdown
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := dispatcher.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("notification queue not drained")
	}
	log.Info().Msg("server stopped")
	return nil
}

// kinds carries what every resource service shares.
type kinds struct {
	validator *validation.Validator
	log       zerolog.Logger
	policy    domain.DeletePolicy
	maxBatch  int
}

func resourceHandler[T any, PT ports.Entity[T]](k kinds, kind domain.Kind, repo ports.ResourceRepository[T], hooks service.Hooks[T]) *handler.ResourceHandler[T] {
	svc := service.NewResourceService[T, PT](kind, repo, k.validator, k.log, service.ResourceConfig[T]{
		Hooks:        hooks,
		DeletePolicy: k.policy,
		MaxBatch:     k.maxBatch,
	})
	return handler.NewResourceHandler[T](svc)
}

func closeWith(log zerolog.Logger, fn func() error) {
	if err := fn(); err != nil {
		log.Error().Err(err).Msg("close")
	}
}
