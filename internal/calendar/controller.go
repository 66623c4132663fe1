package calendar

import (
	"net/http"
	"siat-api/internal/apperr"
	"siat-api/internal/occurrence"
	"siat-api/internal/util"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type CalendarController struct {
	OccurrenceService occurrence.OccurrenceServicePort
	Now               func() time.Time
}

func (cc *CalendarController) now() time.Time {
	if cc.Now != nil {
		return cc.Now()
	}
	return time.Now()
}

func queryInt(c *gin.Context, key string, def, min, max int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min || v > max {
		return 0, apperr.Validation("invalid %s %q", key, raw)
	}
	return v, nil
}

// GetMonth builds the month grid server-side. Year and month default to the
// current month.
func (cc *CalendarController) GetMonth(c *gin.Context) {
	now := cc.now()
	year, err := queryInt(c, "year", now.Year(), 1, 9999)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	month, err := queryInt(c, "month", int(now.Month()), 1, 12)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	first, last := util.MonthBounds(year, time.Month(month))
	start, end := util.FormatDay(first), util.FormatDay(last)
	records, err := cc.OccurrenceService.List(c.Request.Context(), occurrence.Filter{Start: &start, End: &end})
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, BuildMonth(ItemsFromOccurrences(records), year, time.Month(month)))
}
