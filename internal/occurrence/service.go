package occurrence

import (
	"context"
	"errors"
	"siat-api/internal/apperr"
	"siat-api/internal/metrics"
	"siat-api/internal/util"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ListCap bounds a List that lacks either end of its date range.
const ListCap = 500

type OccurrenceService struct {
	DB      *gorm.DB
	Metrics *metrics.Metrics
}

func (s *OccurrenceService) Create(ctx context.Context, in Input) (uint, error) {
	o, err := fromInput(in)
	if err != nil {
		return 0, err
	}

	err = s.DB.WithContext(ctx).Create(&o).Error
	s.Metrics.ObserveOccurrence("create", err)
	if err != nil {
		return 0, apperr.Persistence("could not save occurrence", err)
	}
	return o.ID, nil
}

func (s *OccurrenceService) Update(ctx context.Context, id uint, in Input) (uint, error) {
	o, err := fromInput(in)
	if err != nil {
		return 0, err
	}

	res := s.DB.WithContext(ctx).Model(&Occurrence{}).Where("id = ?", id).Updates(map[string]interface{}{
		"child_id":     o.ChildID,
		"subject_name": o.SubjectName,
		"day":          o.Day,
		"start_time":   o.StartTime,
		"end_time":     o.EndTime,
		"category":     o.Category,
		"status":       o.Status,
		"description":  o.Description,
	})
	s.Metrics.ObserveOccurrence("update", res.Error)
	if res.Error != nil {
		return 0, apperr.Persistence("could not update occurrence", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, apperr.NotFound("occurrence")
	}
	return id, nil
}

func (s *OccurrenceService) Delete(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&Occurrence{}, id)
	s.Metrics.ObserveOccurrence("delete", res.Error)
	if res.Error != nil {
		return apperr.Persistence("could not delete occurrence", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("occurrence")
	}
	return nil
}

func (s *OccurrenceService) Get(ctx context.Context, id uint) (Record, error) {
	var o Occurrence
	if err := s.DB.WithContext(ctx).First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Record{}, apperr.NotFound("occurrence")
		}
		return Record{}, apperr.Persistence("could not load occurrence", err)
	}
	return o.Record(), nil
}

// List returns occurrences newest day first. Unless both bounds are given it
// stops at ListCap rows.
func (s *OccurrenceService) List(ctx context.Context, f Filter) ([]Record, error) {
	start, hasStart, endExclusive, hasEnd, err := util.ParseDateRange(dayBound(f.Start), dayBound(f.End))
	if err != nil {
		return nil, apperr.Validation("invalid date range: %v", err)
	}

	q := s.DB.WithContext(ctx).Model(&Occurrence{})
	if hasStart {
		q = q.Where("day >= ?", datatypes.Date(start))
	}
	if hasEnd {
		q = q.Where("day < ?", datatypes.Date(endExclusive))
	}
	if !hasStart || !hasEnd {
		q = q.Limit(ListCap)
	}

	if len(f.Statuses) > 0 {
		statuses := make([]Status, 0, len(f.Statuses))
		for _, raw := range util.ParseCommaSeparated(f.Statuses) {
			st, ok := ParseStatus(raw)
			if !ok {
				return nil, apperr.Validation("unknown status %q", raw)
			}
			statuses = append(statuses, st)
		}
		if len(statuses) > 0 {
			q = q.Where("status IN ?", statuses)
		}
	}

	var rows []Occurrence
	if err := q.Order("day DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, apperr.Persistence("could not list occurrences", err)
	}

	out := make([]Record, 0, len(rows))
	for _, o := range rows {
		out = append(out, o.Record())
	}
	return out, nil
}

// UnlinkChild clears the child reference of every occurrence pointing at
// childID. It runs inside the caller's transaction.
func (s *OccurrenceService) UnlinkChild(tx *gorm.DB, childID uint) error {
	return tx.Model(&Occurrence{}).
		Where("child_id = ?", childID).
		Update("child_id", nil).Error
}

func fromInput(in Input) (Occurrence, error) {
	name := util.ClampText(in.SubjectName, 255)
	category := util.ClampText(in.Category, 100)
	description := strings.TrimSpace(in.Description)

	var missing []string
	if name == "" {
		missing = append(missing, "subjectName")
	}
	if strings.TrimSpace(in.Day) == "" {
		missing = append(missing, "day")
	}
	if category == "" {
		missing = append(missing, "category")
	}
	if strings.TrimSpace(in.Status) == "" {
		missing = append(missing, "status")
	}
	if description == "" {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return Occurrence{}, apperr.Validation("required fields: %s", strings.Join(missing, ", "))
	}

	day, err := util.ParseDay(in.Day)
	if err != nil {
		return Occurrence{}, apperr.Validation("invalid day %q (use YYYY-MM-DD)", in.Day)
	}
	status, ok := ParseStatus(in.Status)
	if !ok {
		return Occurrence{}, apperr.Validation("unknown status %q", in.Status)
	}
	startTime, err := clockTime(in.StartTime)
	if err != nil {
		return Occurrence{}, err
	}
	endTime, err := clockTime(in.EndTime)
	if err != nil {
		return Occurrence{}, err
	}

	return Occurrence{
		ChildID:     in.ChildID,
		SubjectName: name,
		Day:         datatypes.Date(day),
		StartTime:   startTime,
		EndTime:     endTime,
		Category:    category,
		Status:      status,
		Description: description,
	}, nil
}

// clockTime validates an optional "HH:MM" value.
func clockTime(s string) (*string, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse("15:04", v)
	if err != nil {
		return nil, apperr.Validation("invalid time %q (use HH:MM)", s)
	}
	out := t.Format("15:04")
	return &out, nil
}

func dayBound(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if len(v) > len(util.DayLayout) {
		v = v[:len(util.DayLayout)]
	}
	return &v
}
