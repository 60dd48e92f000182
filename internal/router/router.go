package router

import (
	"github.com/gin-gonic/gin"

	"smartinvoice/internal/handler"
	"smartinvoice/internal/middleware"
	"smartinvoice/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	authSvc service.AuthService,
	allowedOrigins []string,
	authH *handler.AuthHandler,
	invoiceH *handler.InvoiceHandler,
	statsH *handler.StatsHandler,
	exportH *handler.ExportHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.Refresh)

	// Protected routes - require valid JWT when a password is configured
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	// Invoice routes
	invoices := protected.Group("/invoices")
	invoices.POST("", invoiceH.Upload)
	invoices.GET("", invoiceH.List)
	invoices.GET("/:id", invoiceH.GetByID)
	invoices.GET("/:id/preview", invoiceH.Preview)
	invoices.PATCH("/:id/line-items/:index", invoiceH.EditLineItem)
	invoices.PATCH("/:id/tax", invoiceH.EditTax)
	invoices.PUT("/:id/data", invoiceH.ReplaceData)

	// Dashboard and exports
	protected.GET("/dashboard", statsH.Dashboard)
	protected.GET("/export/csv", exportH.CSV)
	protected.GET("/export/xlsx", exportH.XLSX)

	return r
}
