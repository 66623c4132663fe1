package logs

import (
	"net/http"
	"siat-api/internal/apperr"

	"github.com/gin-gonic/gin"
)

type LogController struct {
	LogService *LogService
}

// GetLogs answers an audit search. The response echoes the paging actually
// applied, so a clamped page_size is visible to the caller.
func (lc *LogController) GetLogs(c *gin.Context) {
	var input LogFilterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperr.Respond(c, apperr.Validation("invalid log filter: %v", err))
		return
	}
	input.normalizePaging()

	rows, aggs, total, totalPages, err := lc.LogService.GetLogs(input)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":        rows,
		"page":        input.Page,
		"page_size":   input.PageSize,
		"total":       total,
		"total_pages": totalPages,
		"aggregates":  aggs,
	})
}
