package logs

import (
	"encoding/json"
	"math"
	"siat-api/internal/apperr"
	"siat-api/internal/util"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type LogService struct {
	DB     *gorm.DB
	Logger *logrus.Logger
}

func (ls *LogService) Log(log SystemLog, metadata interface{}) error {
	var metaStr *string

	// Marshal failures drop the metadata, the entry is still written.
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			str := string(b)
			metaStr = &str
		}
	}

	newLog := SystemLog{
		Level:      log.Level,
		Service:    log.Service,
		UserID:     log.UserID,
		Action:     log.Action,
		Message:    log.Message,
		ResourceID: log.ResourceID,
		Metadata:   metaStr,
		CreatedAt:  time.Now(),
	}

	return ls.DB.Create(&newLog).Error
}

// Record writes an audit entry and only reports failures to the process log.
// A nil service records nothing.
func (ls *LogService) Record(log SystemLog, metadata interface{}) {
	if ls == nil || ls.DB == nil {
		return
	}
	if err := ls.Log(log, metadata); err != nil && ls.Logger != nil {
		ls.Logger.WithError(err).WithFields(logrus.Fields{
			"service": log.Service,
			"action":  log.Action,
		}).Warn("audit log write failed")
	}
}

// normalizePaging defaults a missing page and clamps the page size to maxPageSize.
func (in *LogFilterInput) normalizePaging() {
	if in.Page <= 0 {
		in.Page = 1
	}
	switch {
	case in.PageSize <= 0:
		in.PageSize = defaultPageSize
	case in.PageSize > maxPageSize:
		in.PageSize = maxPageSize
	}
}

func (ls *LogService) GetLogs(input LogFilterInput) ([]SystemLog, LogAggregates, int64, int, error) {
	input.normalizePaging()

	base := ls.DB.Model(&SystemLog{})

	// Default: last 30 days if no dates
	if input.StartDate == nil && input.EndDate == nil {
		base = base.Where("logs.created_at >= ?", time.Now().AddDate(0, 0, -30))
	}

	if input.UserID != nil {
		base = base.Where("logs.user_id = ?", *input.UserID)
	}
	if input.ResourceID != nil {
		base = base.Where("logs.resource_id = ?", *input.ResourceID)
	}
	if input.Level != nil && strings.TrimSpace(*input.Level) != "" {
		base = base.Where("logs.level = ?", strings.ToUpper(strings.TrimSpace(*input.Level)))
	}
	if input.Service != nil && strings.TrimSpace(*input.Service) != "" {
		base = base.Where("logs.service = ?", strings.TrimSpace(*input.Service))
	}
	if input.Action != nil && strings.TrimSpace(*input.Action) != "" {
		base = base.Where("logs.action = ?", strings.TrimSpace(*input.Action))
	}

	start, hasStart, endExclusive, hasEnd, err := util.ParseDateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, LogAggregates{}, 0, 0, apperr.Validation("invalid date range: %v", err)
	}
	if hasStart {
		base = base.Where("logs.created_at >= ?", start)
	}
	if hasEnd {
		base = base.Where("logs.created_at < ?", endExclusive)
	}

	if input.Search != nil && strings.TrimSpace(*input.Search) != "" {
		like := "%" + strings.ToLower(strings.TrimSpace(*input.Search)) + "%"
		base = base.Where(
			`LOWER(logs.service) LIKE ?
			 OR LOWER(logs.action) LIKE ?
			 OR LOWER(logs.message) LIKE ?`,
			like, like, like,
		)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, LogAggregates{}, 0, 0, apperr.Persistence("could not search logs", err)
	}

	totalPages := int(math.Ceil(float64(total) / float64(input.PageSize)))
	if totalPages == 0 {
		totalPages = 1
	}

	var rows []SystemLog
	if err := base.
		Session(&gorm.Session{}).
		Order("logs.created_at DESC").
		Order("logs.id DESC").
		Limit(input.PageSize).
		Offset((input.Page - 1) * input.PageSize).
		Find(&rows).Error; err != nil {
		return nil, LogAggregates{}, 0, 0, apperr.Persistence("could not search logs", err)
	}

	aggs, err := getAggregatesFromBase(base)
	if err != nil {
		return nil, LogAggregates{}, 0, 0, apperr.Persistence("could not aggregate logs", err)
	}

	return rows, aggs, total, totalPages, nil
}

func getAggregatesFromBase(base *gorm.DB) (LogAggregates, error) {
	var aggs LogAggregates
	var err error

	if aggs.ByService, err = countBy(base, "logs.service"); err != nil {
		return LogAggregates{}, err
	}
	if aggs.ByAction, err = countBy(base, "logs.action"); err != nil {
		return LogAggregates{}, err
	}
	if aggs.ByLevel, err = countBy(base, "logs.level"); err != nil {
		return LogAggregates{}, err
	}
	return aggs, nil
}

func countBy(base *gorm.DB, column string) ([]AggItem, error) {
	const limit = 12

	var out []AggItem
	if err := base.Session(&gorm.Session{}).
		Select(column + " AS label, COUNT(*) AS count").
		Group(column).
		Order("count DESC").
		Limit(limit).
		Scan(&out).Error; err != nil {
		return nil, err
	}
	if out == nil {
		out = []AggItem{}
	}
	return out, nil
}
