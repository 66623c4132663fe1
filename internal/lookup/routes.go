package lookup

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, lookupService LookupServiceAPI, guard ...gin.HandlerFunc) {
	lookupController := &LookupController{Service: lookupService}

	lookupGroup := r.Group("/api/lookup")
	lookupGroup.Use(guard...)
	{
		lookupGroup.GET("/states", lookupController.GetAllStates)
		lookupGroup.GET("/cities/:uf", lookupController.GetCitiesByState)
		lookupGroup.GET("/categories", lookupController.GetOccurrenceCategories)
	}
}
