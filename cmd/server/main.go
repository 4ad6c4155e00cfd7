package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	auditapp "github.com/stocker/backend/internal/application/audit"
	directoryapp "github.com/stocker/backend/internal/application/directory"
	financeapp "github.com/stocker/backend/internal/application/finance"
	inventoryapp "github.com/stocker/backend/internal/application/inventory"
	purchaseapp "github.com/stocker/backend/internal/application/purchase"
	salesapp "github.com/stocker/backend/internal/application/sales"
	"github.com/stocker/backend/internal/domain/shared"
	"github.com/stocker/backend/internal/infrastructure/auth"
	"github.com/stocker/backend/internal/infrastructure/cache"
	"github.com/stocker/backend/internal/infrastructure/config"
	"github.com/stocker/backend/internal/infrastructure/logger"
	"github.com/stocker/backend/internal/infrastructure/persistence"
	"github.com/stocker/backend/internal/infrastructure/realtime"
	"github.com/stocker/backend/internal/infrastructure/telemetry"
	"github.com/stocker/backend/internal/interfaces/http/handler"
	"github.com/stocker/backend/internal/interfaces/http/middleware"
	"github.com/stocker/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Stocker Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	ctx := context.Background()

	// Initialize OpenTelemetry providers
	var tracerProvider *telemetry.TracerProvider
	var meterProvider *telemetry.MeterProvider
	var businessMetrics *telemetry.BusinessMetrics

	if cfg.Telemetry.Enabled {
		tracerProvider, err = telemetry.NewTracerProvider(ctx, telemetry.Config{
			Enabled:           true,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			SamplingRatio:     cfg.Telemetry.SamplingRatio,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize tracer provider", zap.Error(err))
		}

		meterProvider, err = telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
			Enabled:           true,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize meter provider", zap.Error(err))
		}

		businessMetrics, err = telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:  meterProvider.Meter("stocker-backend"),
			Logger: log,
		})
		if err != nil {
			log.Fatal("Failed to initialize business metrics", zap.Error(err))
		}

		if cfg.Telemetry.DBTraceEnabled {
			dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
				Enabled:         true,
				LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
				SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			}, log)
			if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
				log.Fatal("Failed to register database tracing", zap.Error(err))
			}
		}
	}

	// Initialize Redis client, shared by the code resolver, token
	// revocation store and realtime notifier
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	redisAvailable := true
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn("Redis unavailable, falling back to in-memory stores", zap.Error(err))
		redisAvailable = false
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis client", zap.Error(err))
		}
	}()

	// Initialize repositories
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	securityLogRepo := persistence.NewGormSecurityLogRepository(db.DB)
	babsFormRepo := persistence.NewGormBaBsFormRepository(db.DB)
	purchaseRequestRepo := persistence.NewGormPurchaseRequestRepository(db.DB)
	salesReturnRepo := persistence.NewGormSalesReturnRepository(db.DB)
	productVariantRepo := persistence.NewGormProductVariantRepository(db.DB)

	// Audit writes resolve tenant codes through a cached lookup
	var auditService *auditapp.SecurityLogService
	if redisAvailable {
		resolver := cache.NewRedisCodeResolver(redisClient, tenantRepo,
			cache.WithResolverLogger(log),
		)
		auditService = auditapp.NewSecurityLogService(securityLogRepo, resolver)
	} else {
		resolver := cache.NewInMemoryCodeResolver(tenantRepo, 5*time.Minute)
		auditService = auditapp.NewSecurityLogService(securityLogRepo, resolver)
	}

	// Realtime notifier publishes domain events to Redis pub/sub
	var notifier shared.EventPublisher
	if cfg.Realtime.Enabled && redisAvailable {
		notifier = realtime.NewRedisNotifier(redisClient, cfg.Realtime.ChannelPrefix, log)
	} else {
		notifier = realtime.NewNoopNotifier()
	}

	// Initialize application services
	tenantService := directoryapp.NewTenantService(tenantRepo)
	tenantService.SetEventPublisher(notifier)

	babsFormService := financeapp.NewBaBsFormService(babsFormRepo)
	babsFormService.SetEventPublisher(notifier)

	purchaseRequestService := purchaseapp.NewPurchaseRequestService(purchaseRequestRepo)
	purchaseRequestService.SetEventPublisher(notifier)

	salesReturnService := salesapp.NewSalesReturnService(salesReturnRepo)
	salesReturnService.SetEventPublisher(notifier)

	productVariantService := inventoryapp.NewProductVariantService(productVariantRepo)
	productVariantService.SetEventPublisher(notifier)

	if businessMetrics != nil {
		auditService.SetBusinessMetrics(businessMetrics)
		babsFormService.SetBusinessMetrics(businessMetrics)
		purchaseRequestService.SetBusinessMetrics(businessMetrics)
		salesReturnService.SetBusinessMetrics(businessMetrics)
		productVariantService.SetBusinessMetrics(businessMetrics)
	}

	// JWT service and token revocation store
	jwtService := auth.NewJWTService(cfg.JWT)
	var revocations auth.TokenRevocations
	if redisAvailable {
		revocations = auth.NewRedisTokenRevocationsWithClient(redisClient)
	} else {
		revocations = auth.NewInMemoryTokenRevocations()
	}

	// Build the HTTP engine
	engine := router.New(router.Dependencies{
		Logger:        log,
		JWTService:    jwtService,
		Revocations:   revocations,
		MeterProvider: meterProvider,

		TracingEnabled: cfg.Telemetry.Enabled,
		MetricsEnabled: cfg.Telemetry.Enabled,
		CORS: &middleware.CORSConfig{
			AllowOrigins: cfg.HTTP.CORSAllowOrigins,
			AllowMethods: cfg.HTTP.CORSAllowMethods,
			AllowHeaders: cfg.HTTP.CORSAllowHeaders,
		},

		System:           handler.NewSystemHandler(db),
		Auth:             handler.NewAuthHandler(jwtService, revocations),
		Tenants:          handler.NewTenantHandler(tenantService),
		AuditLogs:        handler.NewSecurityLogHandler(auditService),
		BaBsForms:        handler.NewBaBsFormHandler(babsFormService),
		PurchaseRequests: handler.NewPurchaseRequestHandler(purchaseRequestService),
		SalesReturns:     handler.NewSalesReturnHandler(salesReturnService),
		ProductVariants:  handler.NewProductVariantHandler(productVariantService),
	})

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if meterProvider != nil {
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}
	if tracerProvider != nil {
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}

	log.Info("Server exited")
}
