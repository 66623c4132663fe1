package calendar

import (
	"siat-api/internal/middlewares"
	"siat-api/internal/occurrence"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, occurrenceService occurrence.OccurrenceServicePort, guard middlewares.Guard) {
	calendarController := &CalendarController{OccurrenceService: occurrenceService}

	group := r.Group("/api/calendar")
	group.Use(guard.Auth()...)
	{
		group.GET("", calendarController.GetMonth)
	}
}
