package occurrence

import (
	"fmt"
	"net/http"
	"siat-api/internal/apperr"
	"siat-api/internal/logs"
	"siat-api/internal/middlewares"
	"strconv"

	"github.com/gin-gonic/gin"
)

type OccurrenceController struct {
	OccurrenceService OccurrenceServicePort
	LogService        AuditPort
}

func optionalQuery(c *gin.Context, key string) *string {
	if v, ok := c.GetQuery(key); ok {
		return &v
	}
	return nil
}

func filterFromQuery(c *gin.Context) Filter {
	return Filter{
		Start:    optionalQuery(c, "start"),
		End:      optionalQuery(c, "end"),
		Statuses: c.QueryArray("status"),
	}
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("invalid id %q", c.Param("id"))
	}
	return uint(id), nil
}

// GetEvents answers the calendar-shaped list.
func (oc *OccurrenceController) GetEvents(c *gin.Context) {
	records, err := oc.OccurrenceService.List(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, ToEvents(records))
}

func (oc *OccurrenceController) ListRecords(c *gin.Context) {
	records, err := oc.OccurrenceService.List(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": records})
}

func (oc *OccurrenceController) GetOccurrence(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	record, err := oc.OccurrenceService.Get(c.Request.Context(), id)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (oc *OccurrenceController) CreateOccurrence(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := oc.OccurrenceService.Create(c.Request.Context(), in)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	oc.audit(c, logs.LevelInfo, "CREATE_OCCURRENCE", id, fmt.Sprintf("Occurrence created for %s", in.SubjectName))
	c.JSON(http.StatusCreated, gin.H{"ok": true, "id": id})
}

func (oc *OccurrenceController) UpdateOccurrence(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := oc.OccurrenceService.Update(c.Request.Context(), id, in); err != nil {
		apperr.Respond(c, err)
		return
	}

	oc.audit(c, logs.LevelInfo, "UPDATE_OCCURRENCE", id, fmt.Sprintf("Occurrence %d updated", id))
	c.JSON(http.StatusOK, gin.H{"ok": true, "id": id})
}

func (oc *OccurrenceController) DeleteOccurrence(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	if err := oc.OccurrenceService.Delete(c.Request.Context(), id); err != nil {
		apperr.Respond(c, err)
		return
	}

	oc.audit(c, logs.LevelWarn, "DELETE_OCCURRENCE", id, fmt.Sprintf("Occurrence %d deleted", id))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (oc *OccurrenceController) audit(c *gin.Context, level, action string, id uint, msg string) {
	if oc.LogService == nil {
		return
	}
	oc.LogService.Record(logs.SystemLog{
		Level:      level,
		Service:    "occurrence",
		UserID:     middlewares.UserID(c),
		Action:     action,
		Message:    msg,
		ResourceID: &id,
	}, nil)
}
