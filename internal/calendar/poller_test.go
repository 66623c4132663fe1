package calendar

import (
	"context"
	"errors"
	"siat-api/internal/occurrence"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

type fetchResult struct {
	events []occurrence.CalendarEvent
	err    error
}

// scriptedFetcher replays results in order and repeats the last one.
type scriptedFetcher struct {
	mu      sync.Mutex
	results []fetchResult
	calls   int
	ranges  [][2]string
}

func (f *scriptedFetcher) Fetch(_ context.Context, start, end string) ([]occurrence.CalendarEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ranges = append(f.ranges, [2]string{start, end})
	i := f.calls
	if i >= len(f.results) {
		i = len(f.results) - 1
	}
	f.calls++
	return f.results[i].events, f.results[i].err
}

func (f *scriptedFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func event(id uint, day, status string) occurrence.CalendarEvent {
	return occurrence.CalendarEvent{
		ID:            id,
		Title:         "Ana - Visita",
		Start:         day,
		AllDay:        true,
		ExtendedProps: occurrence.EventDetail{Status: occurrence.Status(status)},
	}
}

func TestPoller_Poll_RebuildsOnlyOnChange(t *testing.T) {
	first := []occurrence.CalendarEvent{event(1, "2024-03-05", "pending")}
	second := []occurrence.CalendarEvent{event(1, "2024-03-05", "resolved")}
	f := &scriptedFetcher{results: []fetchResult{
		{events: first},
		{events: first},
		{events: second},
	}}

	var views []MonthView
	p := &Poller{Fetcher: f, Year: 2024, Month: time.March, OnChange: func(v MonthView) { views = append(views, v) }}
	ctx := context.Background()

	changed, err := p.Poll(ctx)
	require.NoError(t, err)
	require.True(t, changed)

	changed, err = p.Poll(ctx)
	require.NoError(t, err)
	require.False(t, changed)

	changed, err = p.Poll(ctx)
	require.NoError(t, err)
	require.True(t, changed)

	require.Len(t, views, 2)
	require.Equal(t, ColorPending, views[0].Cell(5).Entries[0].Color)
	require.Equal(t, ColorResolved, views[1].Cell(5).Entries[0].Color)
	require.Equal(t, views[1], p.View())
	require.Equal(t, [2]string{"2024-03-01", "2024-03-31"}, f.ranges[0])
}

func TestPoller_Poll_EmptyFirstFetchStillRenders(t *testing.T) {
	f := &scriptedFetcher{results: []fetchResult{{events: nil}}}
	calls := 0
	p := &Poller{Fetcher: f, Year: 2024, Month: time.February, OnChange: func(MonthView) { calls++ }}

	changed, err := p.Poll(context.Background())
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, 1, calls)
	require.Equal(t, 29, p.View().DaysInMonth)
}

func TestPoller_Poll_ErrorKeepsPreviousGrid(t *testing.T) {
	f := &scriptedFetcher{results: []fetchResult{
		{events: []occurrence.CalendarEvent{event(1, "2024-03-05", "pending")}},
		{err: errors.New("connection refused")},
	}}
	calls := 0
	p := &Poller{Fetcher: f, Year: 2024, Month: time.March, OnChange: func(MonthView) { calls++ }}
	ctx := context.Background()

	_, err := p.Poll(ctx)
	require.NoError(t, err)
	before := p.View()

	changed, err := p.Poll(ctx)
	require.Error(t, err)
	require.False(t, changed)
	require.Equal(t, before, p.View())
	require.Equal(t, 1, calls)
}

func TestPoller_Run_StopsOnCancel(t *testing.T) {
	f := &scriptedFetcher{results: []fetchResult{
		{events: []occurrence.CalendarEvent{event(1, "2024-03-05", "pending")}},
	}}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := &Poller{Fetcher: f, Year: 2024, Month: time.March, Interval: 5 * time.Millisecond}

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.Eventually(t, func() bool { return f.Calls() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		require.FailNow(t, "Run did not return after cancel")
	}

	n := f.Calls()
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, n, f.Calls(), "no polls after Run returned")
}

func TestPoller_Run_LogsFailures(t *testing.T) {
	logger, hook := test.NewNullLogger()
	f := &scriptedFetcher{results: []fetchResult{{err: errors.New("boom")}}}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := &Poller{Fetcher: f, Year: 2024, Month: time.March, Interval: 5 * time.Millisecond, Logger: logger}

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()
	require.Eventually(t, func() bool { return f.Calls() >= 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done

	entries := hook.AllEntries()
	require.NotEmpty(t, entries)
	require.Equal(t, logrus.WarnLevel, entries[0].Level)
	require.Equal(t, "calendar poll failed, keeping previous grid", entries[0].Message)
	require.Equal(t, 3, entries[0].Data["month"])
}
