package lookup

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
)

type LookupController struct {
	Service LookupServiceAPI
}

func (lc *LookupController) GetAllStates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"states": lc.Service.GetAllStates()})
}

func (lc *LookupController) GetCitiesByState(c *gin.Context) {
	uf := strings.ToUpper(strings.TrimSpace(c.Param("uf")))
	if !slices.Contains(StateCodes(), uf) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "valid uf is required"})
		return
	}

	cities, err := lc.Service.GetCitiesByState(uf)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load cities"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"uf": uf, "cities": cities})
}

func (lc *LookupController) GetOccurrenceCategories(c *gin.Context) {
	categories, err := lc.Service.GetOccurrenceCategories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
