package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/space-reservation/internal/config"
	"github.com/iliyamo/space-reservation/internal/database"
	"github.com/iliyamo/space-reservation/internal/handler"
	"github.com/iliyamo/space-reservation/internal/logger"
	"github.com/iliyamo/space-reservation/internal/middleware"
	"github.com/iliyamo/space-reservation/internal/model"
	"github.com/iliyamo/space-reservation/internal/queue"
	"github.com/iliyamo/space-reservation/internal/repository"
	"github.com/iliyamo/space-reservation/internal/router"
	"github.com/iliyamo/space-reservation/internal/service"
)

func main() {
	cfg := config.Load()

	lg, err := logger.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		lg.Fatal("open database", zap.Error(err))
	}
	defer db.Close()
	if cfg.DBMigrate {
		if err := database.Migrate(db); err != nil {
			lg.Fatal("migrate", zap.Error(err))
		}
	}

	var rdb *redis.Client
	if cfg.RateLimit.Enabled || cfg.Cache.Enabled {
		rdb, err = config.NewRedisClient(cfg.Redis)
		if err != nil {
			// Limiter and cache degrade to pass-through.
			lg.Warn("redis unavailable", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var events service.EventPublisher = queue.NopPublisher{}
	if cfg.Broker.Enabled {
		pub := queue.NewPublisher(cfg.Broker.URL, cfg.Broker.Queue, lg.Named("publisher"))
		defer pub.Close()
		events = pub

		consumer := queue.NewConsumer(cfg.Broker.URL, cfg.Broker.Queue, cfg.Broker.Prefetch,
			queue.NewAuditLog(cfg.Broker.LogPath), lg.Named("consumer"))
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				lg.Error("event consumer stopped", zap.Error(err))
			}
		}()
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	spaces := repository.NewSpaceRepo(db)
	resources := repository.NewResourceRepo(db)
	spaceResources := repository.NewSpaceResourceRepo(db)
	store := repository.NewStore(db)

	transitions := model.TransitionPolicy{AllowRevertToPending: cfg.Reservation.AllowRevertToPending}
	authSvc := service.NewAuthService(service.AuthConfig{
		JWTSecret:      cfg.JWTSecret,
		AccessTTLMin:   cfg.AccessTTLMin,
		RefreshTTLDays: cfg.RefreshTTLDays,
		BcryptCost:     cfg.BcryptCost,
	}, users, tokens, lg.Named("auth"))
	reservationSvc := service.NewReservationService(store, transitions, events, lg.Named("reservations"))

	e := echo.New()
	e.HideBanner = true
	handler.Configure(e, lg)
	e.Use(middleware.RequestID(), middleware.RequestLogger(lg.Named("http")), middleware.Recover(lg))

	router.Register(e, router.Deps{
		JWTSecret:    cfg.JWTSecret,
		RateLimit:    cfg.RateLimit,
		Cache:        cfg.Cache,
		Redis:        rdb,
		Health:       db,
		Log:          lg,
		Auth:         handler.NewAuthHandler(authSvc),
		Users:        handler.NewUserHandler(service.NewUserService(users, lg.Named("users"))),
		Spaces:       handler.NewSpaceHandler(service.NewSpaceService(spaces, users, spaceResources, lg.Named("spaces"))),
		Catalog:      handler.NewCatalogHandler(service.NewCatalogService(resources, spaces, spaceResources, lg.Named("catalog"))),
		Reservations: handler.NewReservationHandler(reservationSvc),
	})

	addr := ":" + cfg.Port
	go func() {
		lg.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env),
			zap.Bool("broker", cfg.Broker.Enabled), zap.Bool("redis", rdb != nil))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	lg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		lg.Error("shutdown", zap.Error(err))
	}
}
