// Command calendar-watch prints a month grid of occurrences and redraws it
// whenever the server's data for that month changes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"siat-api/config"
	"siat-api/internal/calendar"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.WithError(err).Fatal("could not read .env")
	}

	now := time.Now()
	baseURL := flag.String("url", envOr("SIAT_URL", "http://localhost:8080"), "server base URL")
	token := flag.String("token", os.Getenv("SIAT_TOKEN"), "bearer token (JWT or admin API key)")
	year := flag.Int("year", now.Year(), "year to show")
	month := flag.Int("month", int(now.Month()), "month to show (1-12)")
	interval := flag.Duration("interval", calendar.DefaultPollInterval, "poll interval")
	once := flag.Bool("once", false, "print the grid once and exit")
	flag.Parse()

	log := config.ConfigureLogger(config.LoadConfig())
	if *month < 1 || *month > 12 {
		log.Fatalf("invalid month %d", *month)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := &calendar.Poller{
		Fetcher:  calendar.NewHTTPFetcher(*baseURL, *token, 15*time.Second),
		Year:     *year,
		Month:    time.Month(*month),
		Interval: *interval,
		Logger:   log,
		OnChange: func(v calendar.MonthView) {
			fmt.Print("\033[H\033[2J")
			fmt.Print(calendar.RenderText(v))
		},
	}

	if *once {
		if _, err := p.Poll(ctx); err != nil {
			log.WithError(err).Fatal("fetch failed")
		}
		return
	}
	if err := p.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("poller stopped")
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
