package calendar

import (
	"siat-api/internal/occurrence"
	"strings"
)

// MaxEntries is how many entries a day cell shows before collapsing the rest
// into its overflow count.
const MaxEntries = 3

const (
	ColorPending    = "#f59e0b"
	ColorInProgress = "#3b82f6"
	ColorResolved   = "#10b981"
	ColorUnknown    = "#64748b"
)

// Item is one occurrence as the grid sees it. Day is YYYY-MM-DD; StartTime
// and EndTime are HH:MM or empty.
type Item struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Day       string `json:"day"`
	StartTime string `json:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty"`
	Status    string `json:"status"`
}

type Entry struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	StartTime string `json:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty"`
	Status    string `json:"status"`
	Color     string `json:"color"`
}

type DayCell struct {
	Date     string  `json:"date"`
	Day      int     `json:"day"`
	Entries  []Entry `json:"entries"`
	Overflow int     `json:"overflow"`
}

// Week runs Sunday to Saturday. Cells outside the month are nil.
type Week [7]*DayCell

type MonthView struct {
	Year          int    `json:"year"`
	Month         int    `json:"month"`
	LeadingBlanks int    `json:"leadingBlanks"`
	DaysInMonth   int    `json:"daysInMonth"`
	Weeks         []Week `json:"weeks"`
}

// StatusColor maps a status, English or Portuguese, to its chip color.
func StatusColor(status string) string {
	st, ok := occurrence.ParseStatus(status)
	if !ok {
		return ColorUnknown
	}
	switch st {
	case occurrence.StatusPending:
		return ColorPending
	case occurrence.StatusInProgress:
		return ColorInProgress
	case occurrence.StatusResolved:
		return ColorResolved
	}
	return ColorUnknown
}

func ItemsFromEvents(events []occurrence.CalendarEvent) []Item {
	items := make([]Item, 0, len(events))
	for _, ev := range events {
		items = append(items, Item{
			ID:        ev.ID,
			Title:     ev.Title,
			Day:       truncate(ev.Start, 10),
			StartTime: truncate(deref(ev.ExtendedProps.StartTime), 5),
			EndTime:   truncate(deref(ev.ExtendedProps.EndTime), 5),
			Status:    strings.ToLower(string(ev.ExtendedProps.Status)),
		})
	}
	return items
}

func ItemsFromOccurrences(records []occurrence.Record) []Item {
	return ItemsFromEvents(occurrence.ToEvents(records))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) > n {
		return s[:n]
	}
	return s
}
