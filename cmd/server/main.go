package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"siat-api/config"
	"siat-api/internal/attachment"
	"siat-api/internal/calendar"
	"siat-api/internal/child"
	"siat-api/internal/database"
	"siat-api/internal/logs"
	"siat-api/internal/lookup"
	"siat-api/internal/metrics"
	"siat-api/internal/middlewares"
	"siat-api/internal/occurrence"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const (
	sweepInterval   = time.Hour
	stagedMaxAge    = time.Hour
	shutdownTimeout = 10 * time.Second
)

func main() {
	// .env is optional; Cloud Run injects plain env vars.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.WithError(err).Fatal("could not read .env")
	}

	cfg := config.LoadConfig()
	log := config.ConfigureLogger(cfg)

	db, err := database.Open(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, local, err := newAttachmentStore(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to set up attachment storage")
	}
	go attachment.RunSweeper(ctx, store, sweepInterval, stagedMaxAge, log)

	m := metrics.New(prometheus.DefaultRegisterer)

	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger(log))
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-API-Key"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
	}))

	apiKey := middlewares.APIKeyPolicy{Key: cfg.AdminAPIKey}
	guard := middlewares.Guard{
		Authenticate: middlewares.KeyOrToken(apiKey, middlewares.AuthMiddleware(cfg.JWTSecret)),
		Admin:        middlewares.RequireAdmin(middlewares.AnyPolicy{apiKey, middlewares.RoleClaimPolicy{}}),
	}

	logService := &logs.LogService{DB: db, Logger: log}
	logs.RegisterRoutes(r, logService, guard.Authenticate, guard.Admin)

	occurrenceService := &occurrence.OccurrenceService{DB: db, Metrics: m}
	occurrence.RegisterRoutes(r, occurrenceService, logService, guard)

	childService := &child.ChildService{
		DB:          db,
		Attachments: store,
		Unlinkers:   []child.ChildUnlinker{occurrenceService},
		Metrics:     m,
	}
	child.RegisterRoutes(r, childService, logService, guard)

	calendar.RegisterRoutes(r, occurrenceService, guard)
	lookup.RegisterRoutes(r, lookup.NewLookupService(db), guard.Auth()...)

	if local != nil {
		attachment.RegisterRoutes(r, local)
	}
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	// --- Cloud Run expects plain HTTP, on $PORT, bind to 0.0.0.0 ---
	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.WithField("addr", srv.Addr).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// newAttachmentStore picks the photo backend. The LocalStore is returned
// separately so its files can be served.
func newAttachmentStore(ctx context.Context, cfg config.Config) (attachment.Store, *attachment.LocalStore, error) {
	switch cfg.UploadBackend {
	case "gcs":
		if cfg.GCSBucket == "" {
			return nil, nil, errors.New("GCS_BUCKET is required when UPLOAD_BACKEND=gcs")
		}
		s, err := attachment.NewGCSStore(ctx, cfg.GCSBucket, "photos")
		if err != nil {
			return nil, nil, err
		}
		return s, nil, nil
	case "local", "":
		s := attachment.NewLocalStore(cfg.UploadDir, cfg.UploadPublicPrefix)
		return s, s, nil
	default:
		return nil, nil, errors.New("unknown UPLOAD_BACKEND " + cfg.UploadBackend)
	}
}
