package occurrence

import (
	"siat-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, occurrenceService OccurrenceServicePort, logService AuditPort, guard middlewares.Guard) {
	occurrenceController := &OccurrenceController{OccurrenceService: occurrenceService, LogService: logService}

	group := r.Group("/api/occurrences")
	group.Use(guard.Auth()...)
	{
		group.GET("", occurrenceController.GetEvents)
		group.GET("/list", occurrenceController.ListRecords)
		group.GET("/:id", occurrenceController.GetOccurrence)
		group.POST("", occurrenceController.CreateOccurrence)
		group.PUT("/:id", guard.AdminOnly(occurrenceController.UpdateOccurrence)...)
		group.DELETE("/:id", guard.AdminOnly(occurrenceController.DeleteOccurrence)...)
	}
}
