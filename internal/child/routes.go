package child

import (
	"siat-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, childService ChildServicePort, logService AuditPort, guard middlewares.Guard) {
	childController := &ChildController{ChildService: childService, LogService: logService}

	group := r.Group("/api/children")
	group.Use(guard.Auth()...)
	{
		group.GET("", childController.ListChildren)
		group.GET("/list", childController.ListChildren)
		group.GET("/export", childController.ExportChildren)
		group.GET("/:id", childController.GetChild)
		group.POST("", childController.CreateChild)
		group.PUT("/:id", childController.UpdateChild)
		group.DELETE("/:id", childController.DeleteChild)
	}
}
