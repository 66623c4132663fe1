package logs

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the audit search. guard runs before the handler and
// is expected to authenticate and require an administrator.
func RegisterRoutes(r *gin.Engine, logService *LogService, guard ...gin.HandlerFunc) {
	logController := &LogController{LogService: logService}

	logGroup := r.Group("/api/logs")
	logGroup.Use(guard...)
	{
		logGroup.POST("", logController.GetLogs)
	}
}
