package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/fabricerp/backend/internal/application/billing"
	catalogapp "github.com/fabricerp/backend/internal/application/catalog"
	tradeapp "github.com/fabricerp/backend/internal/application/trade"
	"github.com/fabricerp/backend/internal/domain/shared"
	"github.com/fabricerp/backend/internal/infrastructure/auth"
	"github.com/fabricerp/backend/internal/infrastructure/cache"
	"github.com/fabricerp/backend/internal/infrastructure/config"
	"github.com/fabricerp/backend/internal/infrastructure/logger"
	"github.com/fabricerp/backend/internal/infrastructure/persistence"
	"github.com/fabricerp/backend/internal/interfaces/http/handler"
	"github.com/fabricerp/backend/internal/interfaces/http/middleware"
	"github.com/fabricerp/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting fabric ERP backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database with a GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	salesOrderRepo := persistence.NewGormSalesOrderRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)

	// Application services share the system clock; today's date for
	// overdue derivation is taken from it at request time
	clock := shared.SystemClock{}
	productService := catalogapp.NewProductService(productRepo)
	purchaseOrderService := tradeapp.NewPurchaseOrderService(purchaseOrderRepo, productRepo, clock)
	salesOrderService := tradeapp.NewSalesOrderService(salesOrderRepo, productRepo, clock)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, salesOrderRepo, clock)

	jwtService := auth.NewJWTService(cfg.JWT)

	// Gin engine and middleware chain
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	middleware.SetupValidator()
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		var store cache.RateLimitStore
		store, err = cache.NewRedisRateLimitStore(cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, using in-memory rate limiting", zap.Error(err))
			store = cache.NewInMemoryRateLimitStore()
		}
		defer func() {
			_ = store.Close()
		}()

		engine.Use(middleware.RateLimit(middleware.RateLimitConfig{
			Store:  store,
			Limit:  cfg.HTTP.RateLimitRequests,
			Window: cfg.HTTP.RateLimitWindow,
			Logger: log,
		}))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check outside API versioning
	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Tokens are issued by the identity gateway; the API only validates
	// them. Without a configured secret (local development) the API is open.
	if cfg.JWT.Secret != "" {
		r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
			JWTService: jwtService,
			SkipPaths:  []string{"/api/v1/ping"},
			Logger:     log,
		}))
	} else {
		log.Warn("JWT secret not configured, API authentication disabled")
	}

	r.Register(handler.NewProductHandler(productService)).
		Register(handler.NewPurchaseOrderHandler(purchaseOrderService)).
		Register(handler.NewSalesOrderHandler(salesOrderService)).
		Register(handler.NewInvoiceHandler(invoiceService)).
		Register(router.RegisterFunc(func(rg *gin.RouterGroup) {
			// inside the group so the JWT skip list governs it
			rg.GET("/ping", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"message": "pong"})
			})
		}))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports process and database health
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
