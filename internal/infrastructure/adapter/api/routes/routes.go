package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/amirhossein-jamali/property-purchase/internal/domain/port/core"
	"github.com/amirhossein-jamali/property-purchase/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/property-purchase/internal/infrastructure/adapter/api/middleware"
)

// SetupRoutes configures all the routes for the API. metricsHandler may be nil.
func SetupRoutes(
	router *gin.Engine,
	transactionHandler *handler.TransactionHandler,
	healthHandler *handler.HealthHandler,
	metricsPath string,
	metricsHandler http.Handler,
) {
	router.GET("/health", healthHandler.Live)
	router.GET("/health/ready", healthHandler.Ready)
	if metricsHandler != nil {
		router.GET(metricsPath, gin.WrapH(metricsHandler))
	}

	transactions := router.Group("/transactions", middleware.Actor())
	{
		transactions.POST("", transactionHandler.Reserve)
		transactions.GET("", transactionHandler.List)
		transactions.GET("/active", transactionHandler.ListActive)
		transactions.GET("/summary", transactionHandler.Summary)

		transactions.GET("/:id", transactionHandler.Get)
		transactions.DELETE("/:id", transactionHandler.Delete)
		transactions.GET("/:id/progress", transactionHandler.Progress)
		transactions.POST("/:id/status", transactionHandler.SetStatus)
		transactions.POST("/:id/claim", transactionHandler.Claim)
		transactions.PUT("/:id/documents/:type", transactionHandler.UploadDocument)
		transactions.POST("/:id/documents/:type/validation", transactionHandler.ValidateDocument)
		transactions.POST("/:id/meetings", transactionHandler.ScheduleMeeting)
		transactions.PATCH("/:id/meetings/:meetingId", transactionHandler.UpdateMeeting)
		transactions.POST("/:id/meetings/:meetingId/reschedule", transactionHandler.RescheduleMeeting)
		transactions.POST("/:id/notes", transactionHandler.AddNote)
	}

	properties := router.Group("/properties", middleware.Actor())
	properties.GET("/:propertyId/transactions", transactionHandler.ListByProperty)
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger, timeProvider coreport.TimeProvider) {
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger, timeProvider))
}
