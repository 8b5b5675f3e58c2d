package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/aulaplan/aula-sync-api/api/swagger"
	"github.com/aulaplan/aula-sync-api/internal/handler"
	"github.com/aulaplan/aula-sync-api/internal/middleware"
	"github.com/aulaplan/aula-sync-api/internal/repository"
	"github.com/aulaplan/aula-sync-api/internal/service"
	rediscache "github.com/aulaplan/aula-sync-api/pkg/cache"
	"github.com/aulaplan/aula-sync-api/pkg/config"
	"github.com/aulaplan/aula-sync-api/pkg/database"
	"github.com/aulaplan/aula-sync-api/pkg/export"
	"github.com/aulaplan/aula-sync-api/pkg/logger"
	corsmiddleware "github.com/aulaplan/aula-sync-api/pkg/middleware/cors"
	reqidmiddleware "github.com/aulaplan/aula-sync-api/pkg/middleware/requestid"
	"github.com/aulaplan/aula-sync-api/pkg/paypal"
)

// @title Aula Sync API
// @version 1.0.0
// @description Sync backend for the classroom management app
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()

	syncRepo := repository.NewSyncRepository(db)
	userRepo := repository.NewUserRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	// Tables are created on boot so a fresh database serves the first
	// device immediately. Uploads re-ensure them as a safety net.
	ensureCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := syncRepo.EnsureSchema(ensureCtx); err != nil {
		cancel()
		logr.Sugar().Fatalw("failed to ensure schema", "error", err)
	}
	cancel()

	cacheSvc := service.NewCacheService(nil, metricsSvc, cfg.Sync.CacheTTL, logr, false)
	if cfg.Sync.CacheEnabled {
		redisClient, err := rediscache.NewRedis(cfg.Redis)
		if err != nil {
			// The cache is an optimization; the API stays up without it.
			logr.Sugar().Warnw("redis unavailable, sync cache disabled", "error", err)
		} else {
			defer redisClient.Close() //nolint:errcheck
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Sync.CacheTTL, logr, true)
		}
	}

	syncSvc := service.NewSyncService(syncRepo, cacheSvc, metricsSvc, logr, cfg.Sync.CacheTTL)
	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	paymentSvc := service.NewPaymentService(paypal.New(cfg.PayPal), paymentRepo, nil, logr)

	syncHandler := handler.NewSyncHandler(syncSvc)
	authHandler := handler.NewAuthHandler(authSvc, syncSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	sync := r.Group("/sync")
	if cfg.JWT.Enforce {
		sync.Use(middleware.JWT(authSvc))
	}
	sync.POST("/:tabla", syncHandler.Upload)
	sync.GET("/:tabla", syncHandler.Download)
	sync.GET("/:tabla/:userId", syncHandler.Download)
	sync.DELETE("/:tabla/:id", syncHandler.Delete)

	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.POST("/recover-password", authHandler.RecoverPassword)
	r.POST("/check-user", authHandler.CheckUser)
	r.POST("/usuarios-sync", authHandler.UsersSync)

	r.POST("/verify-payment", paymentHandler.Verify)

	if cfg.Exports.Enabled {
		exportSvc := service.NewExportService(syncRepo, export.NewCSVExporter(), export.NewPDFExporter(), logr)
		exportHandler := handler.NewExportHandler(exportSvc)
		r.GET("/export/:tabla/:profesorId", exportHandler.Export)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
