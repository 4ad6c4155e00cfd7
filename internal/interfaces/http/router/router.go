// Package router wires middleware and handlers into the gin engine.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stocker/backend/internal/infrastructure/auth"
	"github.com/stocker/backend/internal/infrastructure/logger"
	"github.com/stocker/backend/internal/infrastructure/telemetry"
	"github.com/stocker/backend/internal/interfaces/http/handler"
	"github.com/stocker/backend/internal/interfaces/http/middleware"
)

// maxBodyBytes limits request bodies; list payloads here are small.
const maxBodyBytes = 2 << 20

// Dependencies holds everything the router needs to build the engine
type Dependencies struct {
	Logger        *zap.Logger
	JWTService    *auth.JWTService
	Revocations   auth.TokenRevocations
	MeterProvider *telemetry.MeterProvider

	TracingEnabled bool
	MetricsEnabled bool
	CORS           *middleware.CORSConfig

	System           *handler.SystemHandler
	Auth             *handler.AuthHandler
	Tenants          *handler.TenantHandler
	AuditLogs        *handler.SecurityLogHandler
	BaBsForms        *handler.BaBsFormHandler
	PurchaseRequests *handler.PurchaseRequestHandler
	SalesReturns     *handler.SalesReturnHandler
	ProductVariants  *handler.ProductVariantHandler
}

// New builds the gin engine with the full middleware chain and all
// API routes registered under /api/v1
func New(deps Dependencies) *gin.Engine {
	middleware.SetupValidator()

	engine := gin.New()

	engine.Use(logger.Recovery(deps.Logger))
	engine.Use(middleware.RequestID())

	corsConfig := middleware.DefaultCORSConfig()
	if deps.CORS != nil {
		corsConfig = *deps.CORS
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.Secure())
	engine.Use(middleware.BodyLimit(maxBodyBytes))
	engine.Use(logger.GinMiddleware(deps.Logger))

	if deps.TracingEnabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: "stocker-backend",
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
	}

	if deps.MetricsEnabled {
		engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: deps.MeterProvider,
			Enabled:       true,
		}))
	}

	if deps.JWTService != nil {
		jwtConfig := middleware.DefaultJWTConfig(deps.JWTService)
		jwtConfig.Revocations = deps.Revocations
		jwtConfig.Logger = deps.Logger
		engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

		tenantConfig := middleware.DefaultTenantConfig()
		tenantConfig.Logger = deps.Logger
		engine.Use(middleware.TenantMiddlewareWithConfig(tenantConfig))
	}

	registerRoutes(engine, deps)

	return engine
}

func registerRoutes(engine *gin.Engine, deps Dependencies) {
	api := engine.Group("/api/v1")

	if deps.System != nil {
		api.GET("/health", deps.System.Health)
		api.GET("/ready", deps.System.Ready)
	}

	if deps.Auth != nil {
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/refresh", deps.Auth.Refresh)
			authGroup.POST("/logout", deps.Auth.Logout)
		}
	}

	if deps.Tenants != nil {
		tenants := api.Group("/tenants")
		{
			tenants.POST("", deps.Tenants.Create)
			tenants.GET("", deps.Tenants.List)
			tenants.GET("/:id", deps.Tenants.GetByID)
			tenants.GET("/code/:code", deps.Tenants.GetByCode)
			tenants.PUT("/:id", deps.Tenants.Update)
			tenants.POST("/:id/suspend", deps.Tenants.Suspend)
			tenants.POST("/:id/reactivate", deps.Tenants.Reactivate)
			tenants.POST("/:id/terminate", deps.Tenants.Terminate)
		}
	}

	if deps.AuditLogs != nil {
		audit := api.Group("/audit")
		{
			audit.POST("/logs", deps.AuditLogs.Record)
			audit.GET("/logs", deps.AuditLogs.List)
			audit.GET("/logs/statistics", deps.AuditLogs.Statistics)
		}
	}

	if deps.BaBsForms != nil {
		forms := api.Group("/finance/babs-forms")
		{
			forms.POST("", deps.BaBsForms.Create)
			forms.GET("", deps.BaBsForms.List)
			forms.GET("/overdue", deps.BaBsForms.ListOverdue)
			forms.GET("/:id", deps.BaBsForms.GetByID)
			forms.DELETE("/:id", deps.BaBsForms.Delete)
			forms.POST("/:id/items", deps.BaBsForms.AddItem)
			forms.DELETE("/:id/items/:itemId", deps.BaBsForms.RemoveItem)
			forms.POST("/:id/ready", deps.BaBsForms.MarkReady)
			forms.POST("/:id/approve", deps.BaBsForms.Approve)
			forms.POST("/:id/file", deps.BaBsForms.File)
			forms.POST("/:id/gib-result", deps.BaBsForms.RecordGibResult)
			forms.POST("/:id/cancel", deps.BaBsForms.Cancel)
			forms.POST("/:id/corrections", deps.BaBsForms.CreateCorrection)
		}
	}

	if deps.PurchaseRequests != nil {
		requests := api.Group("/purchase/requests")
		{
			requests.POST("", deps.PurchaseRequests.Create)
			requests.GET("", deps.PurchaseRequests.List)
			requests.GET("/:id", deps.PurchaseRequests.GetByID)
			requests.DELETE("/:id", deps.PurchaseRequests.Delete)
			requests.POST("/:id/items", deps.PurchaseRequests.AddItem)
			requests.PUT("/:id/items/:itemId", deps.PurchaseRequests.UpdateItem)
			requests.DELETE("/:id/items/:itemId", deps.PurchaseRequests.RemoveItem)
			requests.POST("/:id/submit", deps.PurchaseRequests.Submit)
			requests.POST("/:id/approve", deps.PurchaseRequests.Approve)
			requests.POST("/:id/reject", deps.PurchaseRequests.Reject)
			requests.POST("/:id/cancel", deps.PurchaseRequests.Cancel)
		}
	}

	if deps.SalesReturns != nil {
		returns := api.Group("/sales/returns")
		{
			returns.POST("", deps.SalesReturns.Create)
			returns.GET("", deps.SalesReturns.List)
			returns.GET("/:id", deps.SalesReturns.GetByID)
			returns.DELETE("/:id", deps.SalesReturns.Delete)
			returns.POST("/:id/items", deps.SalesReturns.AddItem)
			returns.DELETE("/:id/items/:itemId", deps.SalesReturns.RemoveItem)
			returns.POST("/:id/submit", deps.SalesReturns.Submit)
			returns.POST("/:id/approve", deps.SalesReturns.Approve)
			returns.POST("/:id/complete", deps.SalesReturns.Complete)
			returns.POST("/:id/reject", deps.SalesReturns.Reject)
			returns.POST("/:id/cancel", deps.SalesReturns.Cancel)
		}
	}

	if deps.ProductVariants != nil {
		variants := api.Group("/inventory/variants")
		{
			variants.POST("", deps.ProductVariants.Create)
			variants.GET("", deps.ProductVariants.List)
			variants.GET("/:id", deps.ProductVariants.GetByID)
			variants.PUT("/:id", deps.ProductVariants.Update)
			variants.DELETE("/:id", deps.ProductVariants.Delete)
			variants.POST("/:id/receive", deps.ProductVariants.ReceiveStock)
			variants.POST("/:id/issue", deps.ProductVariants.IssueStock)
		}
	}
}
