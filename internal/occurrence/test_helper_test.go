package occurrence

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"siat-api/internal/logs"
	"siat-api/internal/middlewares"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Unique in-memory DB per test to avoid cross-test contamination
	dsn := fmt.Sprintf("file:%d?mode=memory&cache=shared", time.Now().UnixNano())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err, "open sqlite")
	require.NoError(t, db.AutoMigrate(&Occurrence{}, &logs.SystemLog{}), "automigrate")
	return db
}

const testAdminKey = "admin-key"

// mockAuthMiddleware stands in for JWT auth: every request is user 1.
func mockAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middlewares.ContextUserID, float64(1))
		c.Next()
	}
}

func setupOccurrenceRouter(svc *OccurrenceService, logSvc *logs.LogService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, svc, logSvc, middlewares.Guard{
		Authenticate: mockAuthMiddleware(),
		Admin:        middlewares.RequireAdmin(middlewares.APIKeyPolicy{Key: testAdminKey}),
	})
	return r
}

func doJSON(r http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	r.ServeHTTP(w, req)
	return w
}

func adminHeaders() map[string]string {
	return map[string]string{"X-API-Key": testAdminKey}
}

func decodeJSON(t *testing.T, b []byte, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(b, out), "json unmarshal body=%s", string(b))
}

func validInput(day string) Input {
	return Input{
		SubjectName: "Ana",
		Day:         day,
		Category:    "visita",
		Status:      "pendente",
		Description: "home visit",
	}
}

func itoa(id uint) string {
	return fmt.Sprintf("%d", id)
}
