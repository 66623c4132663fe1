package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"siat-api/internal/occurrence"
	"siat-api/internal/util"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const DefaultPollInterval = 5 * time.Second

// Fetcher loads the calendar events between two inclusive days.
type Fetcher interface {
	Fetch(ctx context.Context, start, end string) ([]occurrence.CalendarEvent, error)
}

// Poller keeps a month grid in sync with the server by refetching on a fixed
// interval. OnChange runs only when the fetched events differ from the last
// successful fetch. A failed fetch keeps the previous grid.
type Poller struct {
	Fetcher  Fetcher
	Year     int
	Month    time.Month
	Interval time.Duration
	OnChange func(MonthView)
	Logger   *logrus.Logger

	mu       sync.Mutex
	snapshot []byte
	view     MonthView
}

// View returns the grid of the last successful fetch.
func (p *Poller) View() MonthView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view
}

// Poll fetches once and reports whether the grid changed.
func (p *Poller) Poll(ctx context.Context) (bool, error) {
	first, last := util.MonthBounds(p.Year, p.Month)
	events, err := p.Fetcher.Fetch(ctx, util.FormatDay(first), util.FormatDay(last))
	if err != nil {
		return false, err
	}
	snap, err := json.Marshal(events)
	if err != nil {
		return false, err
	}

	p.mu.Lock()
	if p.snapshot != nil && bytes.Equal(snap, p.snapshot) {
		p.mu.Unlock()
		return false, nil
	}
	p.snapshot = snap
	p.view = BuildMonth(ItemsFromEvents(events), p.Year, p.Month)
	view := p.view
	p.mu.Unlock()

	if p.OnChange != nil {
		p.OnChange(view)
	}
	return true, nil
}

// Run polls immediately and then every Interval until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := p.Poll(ctx); err != nil && ctx.Err() == nil {
			p.logger().WithError(err).WithFields(logrus.Fields{
				"year":  p.Year,
				"month": int(p.Month),
			}).Warn("calendar poll failed, keeping previous grid")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (p *Poller) logger() *logrus.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return logrus.StandardLogger()
}
