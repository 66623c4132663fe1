package calendar

import (
	"context"
	"fmt"
	"siat-api/internal/occurrence"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPFetcher reads events from GET /api/occurrences.
type HTTPFetcher struct {
	Client *resty.Client
}

// NewHTTPFetcher builds a fetcher for baseURL. A non-empty token is sent as a
// bearer credential, which the server accepts as either a JWT or the admin
// API key.
func NewHTTPFetcher(baseURL, token string, timeout time.Duration) *HTTPFetcher {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(time.Second).
		SetHeader("Accept", "application/json")
	if token != "" {
		client.SetAuthToken(token)
	}
	return &HTTPFetcher{Client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, start, end string) ([]occurrence.CalendarEvent, error) {
	var events []occurrence.CalendarEvent
	resp, err := f.Client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"start": start, "end": end}).
		SetResult(&events).
		Get("/api/occurrences")
	if err != nil {
		return nil, fmt.Errorf("fetch occurrences: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch occurrences: unexpected status %d", resp.StatusCode())
	}
	return events, nil
}
