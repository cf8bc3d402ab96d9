package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/kanso-study/internal/adapters/cache"
	adapterHTTP "github.com/comitanigiacomo/kanso-study/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-study/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-study/internal/config"
	"github.com/comitanigiacomo/kanso-study/internal/core/domain"
	"github.com/comitanigiacomo/kanso-study/internal/core/services"
	"github.com/comitanigiacomo/kanso-study/internal/core/workers"
	"github.com/comitanigiacomo/kanso-study/internal/logging"
)

type app struct {
	db     *sqlx.DB
	redis  *redis.Client
	worker *workers.StreakWorker
	router *gin.Engine
}

type storage struct {
	users    domain.UserRepository
	sessions domain.StudySessionRepository
	schedule domain.ScheduleRepository
}

func openStorage(ctx context.Context, cfg *config.Config) (storage, *sqlx.DB, error) {
	log := logging.Component("storage")

	if cfg.Storage == config.StorageMemory {
		log.Warn("using in-memory storage, data is lost on restart")
		return storage{
			users:    repository.NewInMemoryUserRepository(),
			sessions: repository.NewInMemoryStudySessionRepository(),
			schedule: repository.NewInMemoryScheduleRepository(),
		}, nil, nil
	}

	log.WithField("host", cfg.DB.Host).Info("connecting to database")
	dsn := repository.DSN(cfg.DB.User, cfg.DB.Password, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name)
	db, err := repository.Connect(ctx, dsn, repository.DefaultPoolConfig)
	if err != nil {
		return storage{}, nil, err
	}
	log.Info("database connected")

	return storage{
		users:    repository.NewPostgresUserRepository(db),
		sessions: repository.NewPostgresStudySessionRepository(db),
		schedule: repository.NewPostgresScheduleRepository(db),
	}, db, nil
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	store, db, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var rdb *redis.Client
	if cfg.RedisEnabled() {
		rdb, err = cache.NewRedisClient(ctx, cache.Options{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			if db != nil {
				_ = db.Close()
			}
			return nil, fmt.Errorf("redis: %w", err)
		}
		store.sessions = repository.NewCachedStudySessionRepository(store.sessions, rdb)
		logging.Component("cache").Info("session cache enabled")
	}

	worker := workers.NewStreakWorker(store.users, store.sessions)

	tokenService := services.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL, store.users)
	authService := services.NewAuthService(store.users, tokenService)
	sessionService := services.NewSessionService(store.sessions, worker)
	scheduleService := services.NewScheduleService(store.schedule)
	analyticsService := services.NewAnalyticsService(store.sessions)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:      adapterHTTP.NewAuthHandler(authService),
		SessionHandler:   adapterHTTP.NewSessionHandler(sessionService),
		ScheduleHandler:  adapterHTTP.NewScheduleHandler(scheduleService),
		AnalyticsHandler: adapterHTTP.NewAnalyticsHandler(analyticsService),
		TokenValidator:   tokenService,
		DB:               db,
		Redis:            rdb,
		RateLimit:        adapterHTTP.RateLimit{Requests: cfg.RateLimit, Window: cfg.RateWindow},
		Registry:         registry,
		StartTime:        time.Now(),
	})

	return &app{
		db:     db,
		redis:  rdb,
		worker: worker,
		router: router,
	}, nil
}

func (a *app) close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}
