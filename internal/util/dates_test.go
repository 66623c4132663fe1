package util

import (
	"testing"
	"time"
)

func sptr(s string) *string { return &s }

func mustTimeRFC3339(t *testing.T, s string) time.Time {
	t.Helper()
	tt, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse RFC3339 %q: %v", s, err)
	}
	return tt
}

func mustTimeDate(t *testing.T, s string) time.Time {
	t.Helper()
	tt, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return tt
}

func TestParseDateRange_AllNil(t *testing.T) {
	start, hasStart, endExcl, hasEnd, err := ParseDateRange(nil, nil)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if hasStart || hasEnd {
		t.Fatalf("expected no start/end, got hasStart=%v hasEnd=%v", hasStart, hasEnd)
	}
	if !start.IsZero() || !endExcl.IsZero() {
		t.Fatalf("expected zero times, got start=%v end=%v", start, endExcl)
	}
}

func TestParseDateRange_BlankStrings_TreatedAsMissing(t *testing.T) {
	start, hasStart, endExcl, hasEnd, err := ParseDateRange(sptr("   "), sptr(""))
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if hasStart || hasEnd {
		t.Fatalf("expected no start/end, got hasStart=%v hasEnd=%v", hasStart, hasEnd)
	}
	if !start.IsZero() || !endExcl.IsZero() {
		t.Fatalf("expected zero times, got start=%v end=%v", start, endExcl)
	}
}

func TestParseDateRange_DateOnlyStart_DateOnlyEnd(t *testing.T) {
	startStr := "2026-02-03"
	endStr := "2026-02-05"

	start, hasStart, endExcl, hasEnd, err := ParseDateRange(sptr(startStr), sptr(endStr))
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if !hasStart || !hasEnd {
		t.Fatalf("expected hasStart/hasEnd true, got %v %v", hasStart, hasEnd)
	}

	wantStart := mustTimeDate(t, startStr)
	wantEndExcl := mustTimeDate(t, endStr).AddDate(0, 0, 1)

	if !start.Equal(wantStart) {
		t.Fatalf("start mismatch: got=%v want=%v", start, wantStart)
	}
	if !endExcl.Equal(wantEndExcl) {
		t.Fatalf("endExclusive mismatch: got=%v want=%v", endExcl, wantEndExcl)
	}
}

func TestParseDateRange_InvalidStartFormat_ReturnsError(t *testing.T) {
	start, hasStart, endExcl, hasEnd, err := ParseDateRange(sptr("02/03/2026"), nil)
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if hasStart || hasEnd {
		t.Fatalf("expected hasStart/hasEnd false, got %v %v", hasStart, hasEnd)
	}
	if !start.IsZero() || !endExcl.IsZero() {
		t.Fatalf("expected zero times on error, got start=%v end=%v", start, endExcl)
	}
}

func TestParseDateRange_Reversed_DateOnly_DateOnly_SwapsAndEndExclusiveFromEndStr(t *testing.T) {
	startStr := "2026-02-10"
	endStr := "2026-02-01"

	start, hasStart, endExcl, hasEnd, err := ParseDateRange(sptr(startStr), sptr(endStr))
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if !hasStart || !hasEnd {
		t.Fatalf("expected hasStart/hasEnd true, got %v %v", hasStart, hasEnd)
	}

	wantStart := mustTimeDate(t, endStr)                      // swapped
	wantEndExcl := mustTimeDate(t, startStr).AddDate(0, 0, 1) // endStr is date-only => add 1 day to swapped rawEnd

	if !start.Equal(wantStart) {
		t.Fatalf("start mismatch: got=%v want=%v", start, wantStart)
	}
	if !endExcl.Equal(wantEndExcl) {
		t.Fatalf("endExclusive mismatch: got=%v want=%v", endExcl, wantEndExcl)
	}
}

func TestParseDateRange_Reversed_StartDateOnly_EndTimestamp_SwapsButDoesNotAddDay(t *testing.T) {
	startStr := "2026-02-10"
	endStr := "2026-02-01T12:00:00Z"

	start, hasStart, endExcl, hasEnd, err := ParseDateRange(sptr(startStr), sptr(endStr))
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if !hasStart || !hasEnd {
		t.Fatalf("expected hasStart/hasEnd true, got %v %v", hasStart, hasEnd)
	}

	wantStart := mustTimeRFC3339(t, endStr)  // swapped
	wantEndExcl := mustTimeDate(t, startStr) // endStr is timestamp => endExclusive is rawEnd, no +1 day

	if !start.Equal(wantStart) {
		t.Fatalf("start mismatch: got=%v want=%v", start, wantStart)
	}
	if !endExcl.Equal(wantEndExcl) {
		t.Fatalf("endExclusive mismatch: got=%v want=%v", endExcl, wantEndExcl)
	}
}

func TestParseDateRange_OnlyEndProvided_DateOnlyAddsOneDay(t *testing.T) {
	endStr := "2026-02-03"

	start, hasStart, endExcl, hasEnd, err := ParseDateRange(nil, sptr(endStr))
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if hasStart || !hasEnd {
		t.Fatalf("expected hasStart=false hasEnd=true, got %v %v", hasStart, hasEnd)
	}
	if !start.IsZero() {
		t.Fatalf("expected start zero, got %v", start)
	}
	wantEndExcl := mustTimeDate(t, endStr).AddDate(0, 0, 1)
	if !endExcl.Equal(wantEndExcl) {
		t.Fatalf("endExclusive mismatch: got=%v want=%v", endExcl, wantEndExcl)
	}
}

func TestParseDay_DateOnly(t *testing.T) {
	got, err := ParseDay("2024-03-01")
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if !got.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected day: %v", got)
	}
}

func TestParseDay_TimestampIsTruncatedToDate(t *testing.T) {
	got, err := ParseDay(" 2024-03-31T23:59:00-03:00 ")
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if FormatDay(got) != "2024-03-31" {
		t.Fatalf("expected 2024-03-31, got %s", FormatDay(got))
	}
}

func TestParseDay_Invalid(t *testing.T) {
	for _, in := range []string{
		"", "31/03/2024", "2024-13-01", "yesterday",
		"2015-04-02 not a date", "2015-04-02x", "2015-04-02 10:00", "2015-04-02T10:00",
	} {
		if _, err := ParseDay(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestParseDay_FractionalTimestampKeepsWrittenDate(t *testing.T) {
	got, err := ParseDay("2024-01-01T00:30:00.123+05:00")
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if !got.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected day: %v", got)
	}
}

func TestDateOnly_DropsClockAndZone(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	got := DateOnly(time.Date(2024, 2, 29, 22, 15, 0, 0, loc))
	want := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("DateOnly=%v want %v", got, want)
	}
}

func TestFormatDay_ZeroIsEmpty(t *testing.T) {
	if FormatDay(time.Time{}) != "" {
		t.Fatalf("expected empty string for zero time")
	}
}

func TestMonthBounds_LeapFebruary(t *testing.T) {
	first, last := MonthBounds(2024, time.February)
	if FormatDay(first) != "2024-02-01" || FormatDay(last) != "2024-02-29" {
		t.Fatalf("bounds=%s..%s", FormatDay(first), FormatDay(last))
	}
}
