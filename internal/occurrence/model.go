package occurrence

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
)

var statusAliases = map[string]Status{
	"pending":      StatusPending,
	"pendente":     StatusPending,
	"in_progress":  StatusInProgress,
	"in progress":  StatusInProgress,
	"in-progress":  StatusInProgress,
	"andamento":    StatusInProgress,
	"em_andamento": StatusInProgress,
	"em andamento": StatusInProgress,
	"resolved":     StatusResolved,
	"resolvido":    StatusResolved,
}

// ParseStatus normalizes a status, accepting the Portuguese names the web
// client sends.
func ParseStatus(s string) (Status, bool) {
	st, ok := statusAliases[strings.ToLower(strings.TrimSpace(s))]
	return st, ok
}

type Occurrence struct {
	ID          uint           `gorm:"primaryKey;autoIncrement"`
	ChildID     *uint          `gorm:"index"`
	SubjectName string         `gorm:"size:255;not null"`
	Day         datatypes.Date `gorm:"not null;index"`
	StartTime   *string        `gorm:"size:5"`
	EndTime     *string        `gorm:"size:5"`
	Category    string         `gorm:"size:100;not null"`
	Status      Status         `gorm:"size:20;not null;index"`
	Description string         `gorm:"type:text;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Occurrence) TableName() string {
	return "occurrences"
}

// Input is the create/update body.
type Input struct {
	ChildID     *uint  `json:"childId"`
	SubjectName string `json:"subjectName"`
	Day         string `json:"day"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Category    string `json:"category"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

type Record struct {
	ID          uint    `json:"id"`
	ChildID     *uint   `json:"childId"`
	SubjectName string  `json:"subjectName"`
	Day         string  `json:"day"`
	StartTime   *string `json:"startTime,omitempty"`
	EndTime     *string `json:"endTime,omitempty"`
	Category    string  `json:"category"`
	Status      Status  `json:"status"`
	Description string  `json:"description"`
}

// Filter narrows List. Bounds are inclusive days; only their first ten
// characters are read, so calendar timestamps work too.
type Filter struct {
	Start    *string
	End      *string
	Statuses []string
}

// CalendarEvent is the all-day event shape calendar widgets consume.
type CalendarEvent struct {
	ID            uint        `json:"id"`
	Title         string      `json:"title"`
	Start         string      `json:"start"`
	AllDay        bool        `json:"allDay"`
	ExtendedProps EventDetail `json:"extendedProps"`
}

type EventDetail struct {
	ChildID     *uint   `json:"childId"`
	SubjectName string  `json:"subjectName"`
	Category    string  `json:"category"`
	Status      Status  `json:"status"`
	Description string  `json:"description"`
	StartTime   *string `json:"startTime,omitempty"`
	EndTime     *string `json:"endTime,omitempty"`
}

func (o Occurrence) Record() Record {
	return Record{
		ID:          o.ID,
		ChildID:     o.ChildID,
		SubjectName: o.SubjectName,
		Day:         time.Time(o.Day).UTC().Format("2006-01-02"),
		StartTime:   o.StartTime,
		EndTime:     o.EndTime,
		Category:    o.Category,
		Status:      o.Status,
		Description: o.Description,
	}
}

func (r Record) Event() CalendarEvent {
	return CalendarEvent{
		ID:     r.ID,
		Title:  r.SubjectName + " - " + capitalize(r.Category),
		Start:  r.Day,
		AllDay: true,
		ExtendedProps: EventDetail{
			ChildID:     r.ChildID,
			SubjectName: r.SubjectName,
			Category:    r.Category,
			Status:      r.Status,
			Description: r.Description,
			StartTime:   r.StartTime,
			EndTime:     r.EndTime,
		},
	}
}

func ToEvents(records []Record) []CalendarEvent {
	events := make([]CalendarEvent, 0, len(records))
	for _, r := range records {
		events = append(events, r.Event())
	}
	return events
}

func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return strings.ToUpper(string(r[:1])) + string(r[1:])
}
