package attachment

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// RunSweeper calls Sweep every interval until ctx is cancelled. Staged files
// older than maxAge are orphans of requests that never reached Commit or
// Discard, usually because the process died mid-request.
func RunSweeper(ctx context.Context, s Store, interval, maxAge time.Duration, log *logrus.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		n, err := s.Sweep(ctx, maxAge)
		entry := log.WithField("backend", s.Backend())
		switch {
		case err != nil && ctx.Err() == nil:
			entry.WithError(err).Warn("attachment sweep failed")
		case n > 0:
			entry.WithField("removed", n).Info("removed stale staged attachments")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
