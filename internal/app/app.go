package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/zivana-montessori/core/internal/config"
	"github.com/zivana-montessori/core/internal/database"
	"github.com/zivana-montessori/core/internal/middleware"
	"github.com/zivana-montessori/core/internal/modules/auth/user"
	pkgcron "github.com/zivana-montessori/core/internal/pkg/cron"
	jwtpkg "github.com/zivana-montessori/core/internal/pkg/jwt"
	"github.com/zivana-montessori/core/internal/pkg/metrics"
	pkgredis "github.com/zivana-montessori/core/internal/pkg/redis"
	sessionpkg "github.com/zivana-montessori/core/internal/pkg/session"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds all application dependencies.
type App struct {
	cfg      *config.AppConfig
	router   *gin.Engine
	db       *gorm.DB
	rdb      *redis.Client
	logger   *zap.Logger
	cancel   context.CancelFunc
	sched    *pkgcron.Scheduler
	metrics  *metrics.Metrics
	sessions *sessionpkg.Manager
	started  time.Time
}

// New initializes the application: config → DB → Redis → routes → cron.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := applyRuntimeSettings(cfg); err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg, logger, true)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	// Redis backs the response cache, rate limits and idempotence keys.
	// Without it those layers stand down and the site keeps serving.
	rdb, err := pkgredis.Connect(context.Background(), cfg.Redis.URLValue())
	if err != nil {
		logger.Warn("redis unavailable, running without cache and rate limits", zap.Error(err))
		rdb = nil
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	a, err := build(logger, cfg, db, rdb)
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}

	if err := user.NewService(db, a.sessions, logger).EnsureAdmin(context.Background(), cfg.Admin); err != nil {
		logger.Error("admin bootstrap failed", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.sched.Start(ctx)
	return a, nil
}

// build wires routes and background jobs around already-open stores. rdb may be nil.
func build(logger *zap.Logger, cfg *config.AppConfig, db *gorm.DB, rdb *redis.Client) (*App, error) {
	secret, generated, err := resolveJWTSecret(cfg.JWTSecret)
	if err != nil {
		return nil, err
	}
	if generated {
		logger.Warn("jwt_secret is empty, using a random secret; admin sessions end on restart")
	}
	signer, err := jwtpkg.NewSigner(secret)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))

	a := &App{
		cfg:      cfg,
		router:   router,
		db:       db,
		rdb:      rdb,
		logger:   logger,
		cancel:   func() {},
		sched:    pkgcron.New(logger),
		metrics:  metrics.New(),
		sessions: sessionpkg.NewManager(db, signer, sessionpkg.DefaultTTL),
		started:  time.Now(),
	}
	router.Use(a.metrics.Middleware())
	router.Use(newCORS(cfg))

	registerCronJobs(a.sched, a.sessions, logger)
	a.registerRoutes()
	return a, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown stops cron loops and closes the stores.
func (a *App) Shutdown() {
	a.cancel()
	a.sched.Wait()
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if err := database.Close(a.db); err != nil {
		a.logger.Warn("close database", zap.Error(err))
	}
}
