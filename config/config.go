package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	DBDriver       string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBPath         string
	DBMaxOpenConns int
	DBMaxIdleConns int

	JWTSecret   string
	AdminAPIKey string

	UploadBackend      string
	UploadDir          string
	UploadPublicPrefix string
	GCSBucket          string

	Port        string
	CORSOrigins []string
	LogLevel    string
}

const (
	defaultMaxOpenConns = 10
	defaultMaxIdleConns = 5
)

func LoadConfig() Config {
	return Config{
		DBDriver:       withDefault(os.Getenv("DB_DRIVER"), "postgres"),
		DBHost:         os.Getenv("DB_HOST"),
		DBPort:         os.Getenv("DB_PORT"),
		DBUser:         os.Getenv("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         os.Getenv("DB_NAME"),
		DBPath:         os.Getenv("DB_PATH"),
		DBMaxOpenConns: intFromEnv("DB_MAX_OPEN_CONNS", defaultMaxOpenConns),
		DBMaxIdleConns: intFromEnv("DB_MAX_IDLE_CONNS", defaultMaxIdleConns),

		JWTSecret:   os.Getenv("JWT_SECRET"),
		AdminAPIKey: strings.TrimSpace(os.Getenv("ADMIN_API_KEY")),

		UploadBackend:      withDefault(os.Getenv("UPLOAD_BACKEND"), "local"),
		UploadDir:          withDefault(os.Getenv("UPLOAD_DIR"), "uploads"),
		UploadPublicPrefix: withDefault(os.Getenv("UPLOAD_PUBLIC_PREFIX"), "/uploads"),
		GCSBucket:          os.Getenv("GCS_BUCKET"),

		Port:        withDefault(os.Getenv("PORT"), "8080"),
		CORSOrigins: splitList(os.Getenv("CORS_ORIGINS")),
		LogLevel:    withDefault(os.Getenv("LOG_LEVEL"), "info"),
	}
}

// DSN builds the postgres connection string.
func (c Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=disable"
}

func withDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}

func intFromEnv(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
