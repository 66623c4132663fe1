package calendar

import (
	"cmp"
	"fmt"
	"siat-api/internal/util"
	"slices"
	"strings"
	"time"
)

// BuildMonth lays items out on a Sunday-first grid for the given month. It is
// a pure function of its arguments.
func BuildMonth(items []Item, year int, month time.Month) MonthView {
	first, last := util.MonthBounds(year, month)
	lead := int(first.Weekday())
	days := last.Day()
	rows := (lead + days + 6) / 7

	byDay := make(map[string][]Item)
	for _, it := range items {
		byDay[it.Day] = append(byDay[it.Day], it)
	}

	view := MonthView{
		Year:          first.Year(),
		Month:         int(first.Month()),
		LeadingBlanks: lead,
		DaysInMonth:   days,
		Weeks:         make([]Week, rows),
	}
	for d := 1; d <= days; d++ {
		pos := lead + d - 1
		date := first.AddDate(0, 0, d-1).Format(util.DayLayout)
		view.Weeks[pos/7][pos%7] = buildCell(date, d, byDay[date])
	}
	return view
}

func buildCell(date string, day int, items []Item) *DayCell {
	sorted := slices.Clone(items)
	slices.SortFunc(sorted, func(a, b Item) int {
		if c := cmp.Compare(a.StartTime, b.StartTime); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	cell := &DayCell{Date: date, Day: day, Entries: []Entry{}}
	for i, it := range sorted {
		if i == MaxEntries {
			cell.Overflow = len(sorted) - MaxEntries
			break
		}
		cell.Entries = append(cell.Entries, Entry{
			ID:        it.ID,
			Title:     it.Title,
			StartTime: it.StartTime,
			EndTime:   it.EndTime,
			Status:    it.Status,
			Color:     StatusColor(it.Status),
		})
	}
	return cell
}

// Cells counts every slot in the grid, blanks included.
func (v MonthView) Cells() int {
	return len(v.Weeks) * 7
}

// Cell returns the cell for a day of the month, or nil when out of range.
func (v MonthView) Cell(day int) *DayCell {
	if day < 1 || day > v.DaysInMonth {
		return nil
	}
	pos := v.LeadingBlanks + day - 1
	return v.Weeks[pos/7][pos%7]
}

var weekdayHeader = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// RenderText draws the grid for a terminal followed by the entries of each
// busy day. Days with entries are marked with an asterisk.
func RenderText(v MonthView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d\n", time.Month(v.Month), v.Year)
	for _, h := range weekdayHeader {
		fmt.Fprintf(&b, "%5s", h)
	}
	b.WriteByte('\n')

	for _, w := range v.Weeks {
		for _, cell := range w {
			switch {
			case cell == nil:
				b.WriteString("     ")
			case len(cell.Entries) > 0:
				fmt.Fprintf(&b, "%4d*", cell.Day)
			default:
				fmt.Fprintf(&b, "%4d ", cell.Day)
			}
		}
		b.WriteByte('\n')
	}

	for d := 1; d <= v.DaysInMonth; d++ {
		cell := v.Cell(d)
		if cell == nil || len(cell.Entries) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s\n", cell.Date)
		for _, e := range cell.Entries {
			fmt.Fprintf(&b, "  %-11s %s [%s]\n", timeSpan(e), e.Title, e.Status)
		}
		if cell.Overflow > 0 {
			fmt.Fprintf(&b, "  +%d more\n", cell.Overflow)
		}
	}
	return b.String()
}

func timeSpan(e Entry) string {
	switch {
	case e.StartTime != "" && e.EndTime != "":
		return e.StartTime + "-" + e.EndTime
	case e.StartTime != "":
		return e.StartTime
	default:
		return "all day"
	}
}
