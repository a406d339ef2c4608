package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zivana-montessori/core/internal/middleware"
	"github.com/zivana-montessori/core/internal/modules/auth/user"
	"github.com/zivana-montessori/core/internal/modules/content/article"
	"github.com/zivana-montessori/core/internal/modules/content/employee"
	"github.com/zivana-montessori/core/internal/modules/content/profile"
	"github.com/zivana-montessori/core/internal/modules/content/program"
	"github.com/zivana-montessori/core/internal/modules/registration"
	"github.com/zivana-montessori/core/internal/modules/registration/fields"
	"github.com/zivana-montessori/core/internal/modules/stats/aggregate"
	"github.com/zivana-montessori/core/internal/modules/storage/file"
	"github.com/zivana-montessori/core/internal/modules/syndication"
	"github.com/zivana-montessori/core/internal/modules/system/settings"
	pkgcron "github.com/zivana-montessori/core/internal/pkg/cron"
	"github.com/zivana-montessori/core/internal/pkg/response"
	"go.uber.org/zap"
)

// APIPrefix is the mount point of every JSON route.
const APIPrefix = "/api/v1"

func (a *App) registerRoutes() {
	r := a.router
	db := a.db
	rdb := a.rdb
	authMW := middleware.Auth(a.sessions)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	appInfo := gin.H{
		"name":     "zivana-core",
		"author":   "Zivana Montessori",
		"version":  "1.0.0",
		"homepage": "https://github.com/zivana-montessori/core",
	}

	// The response cache stays off in development so edits show up at once.
	cacheRDB := rdb
	if a.cfg.IsDev() {
		cacheRDB = nil
	}

	// Feeds and sitemap live at the site root for crawlers and readers.
	feeds := syndication.NewHandler(db, a.cfg.SiteURL)
	feeds.RegisterRoutes(r.Group(""))

	api := r.Group(APIPrefix)
	api.Use(middleware.OptionalAuth(a.sessions))
	api.Use(middleware.RateLimit(rdb, middleware.RateLimitOptions{
		Name:   "api",
		Max:    120,
		Window: time.Minute,
	}, a.logger))
	api.Use(middleware.Idempotence(rdb, APIPrefix+"/auth/login"))
	api.Use(middleware.HTTPCache(cacheRDB, middleware.HTTPCacheOptions{
		TTL:          15 * time.Second,
		SkipPrefixes: httpCacheSkipPrefixes(APIPrefix),
	}))
	api.Use(middleware.PurgeOnWrite(cacheRDB))

	api.GET("", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/info", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })
	api.GET("/uptime", func(c *gin.Context) {
		up := time.Since(a.started)
		c.JSON(http.StatusOK, gin.H{
			"timestamp": up.Milliseconds(),
			"humanize":  humanizeDuration(up),
		})
	})
	api.GET("/metrics", gin.WrapH(a.metrics.Handler()))

	health := api.Group("/health", authMW)
	health.GET("/cron", func(c *gin.Context) {
		response.OK(c, a.sched.List())
	})
	health.POST("/cron/run/:name", func(c *gin.Context) {
		item, err := a.sched.RunNow(c.Request.Context(), c.Param("name"))
		if err != nil {
			if errors.Is(err, pkgcron.ErrJobNotFound) {
				response.NotFoundMsg(c, "Tugas terjadwal tidak ditemukan")
				return
			}
			response.InternalError(c, err)
			return
		}
		response.OK(c, item)
	})
	api.GET("/clean_cache", authMW, func(c *gin.Context) {
		deleted, err := middleware.PurgeHTTPCache(c.Request.Context(), rdb)
		if err != nil {
			response.InternalError(c, err)
			return
		}
		response.OK(c, gin.H{"deleted": deleted})
	})

	// Registration form engine
	settingsSvc := settings.NewService(db)
	registry := fields.NewRegistry(fields.NewGormStore(db), a.logger)
	settings.NewHandler(settingsSvc).RegisterRoutes(api, authMW)
	fields.NewHandler(registry).RegisterRoutes(api, authMW)
	registration.NewHandler(registration.Deps{
		Registry:      registry,
		Settings:      settingsSvc,
		FallbackPhone: a.cfg.WhatsAppFallbackNumber(),
		Log:           a.logger,
		Recorder:      a.metrics,
		SubmitLimiter: middleware.RateLimit(rdb, middleware.RateLimitOptions{
			Name:   "registration",
			Max:    5,
			Window: time.Minute,
		}, a.logger),
	}).RegisterRoutes(api, authMW)

	// Admin account
	user.NewHandler(user.NewService(db, a.sessions, a.logger), a.sessions).RegisterRoutes(api, authMW)

	// Site content
	program.NewHandler(program.NewService(db)).RegisterRoutes(api, authMW)
	article.NewHandler(article.NewService(db)).RegisterRoutes(api, authMW)
	employee.NewHandler(employee.NewService(db)).RegisterRoutes(api, authMW)
	profile.NewHandler(profile.NewService(db)).RegisterRoutes(api, authMW)

	// Uploads
	local := file.NewLocalStore(a.cfg.StaticDir(), APIPrefix+"/files")
	var store file.Store = local
	if a.cfg.Storage.S3.Enabled() {
		s3Store, err := file.NewS3Store(a.cfg.Storage.S3)
		if err != nil {
			a.logger.Warn("s3 storage misconfigured, falling back to local disk", zap.Error(err))
		} else {
			store = s3Store
		}
	}
	maxBytes := int64(a.cfg.Storage.UploadMaxMB) << 20
	file.NewHandler(file.NewService(store, maxBytes, a.logger), local).RegisterRoutes(api, authMW)

	feeds.RegisterRoutes(api)

	// Dashboard
	aggregate.NewHandler(aggregate.NewService(db)).RegisterRoutes(api, authMW)
}

// httpCacheSkipPrefixes lists routes whose responses depend on the caller
// or change on every request.
func httpCacheSkipPrefixes(apiPrefix string) []string {
	return []string{
		apiPrefix + "/auth",
		apiPrefix + "/registration",
		apiPrefix + "/health",
		apiPrefix + "/uptime",
		apiPrefix + "/metrics",
		apiPrefix + "/files",
		apiPrefix + "/clean_cache",
	}
}
