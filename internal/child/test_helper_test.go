package child

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"siat-api/internal/attachment"
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

func openTestDB(t *testing.T, models ...any) *gorm.DB {
	t.Helper()

	// Unique in-memory DB per test to avoid cross-test contamination
	dsn := fmt.Sprintf("file:%d?mode=memory&cache=shared", time.Now().UnixNano())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err, "open sqlite")
	require.NoError(t, db.AutoMigrate(models...), "automigrate")
	return db
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return openTestDB(t, &Child{}, &Address{}, &Guardian{}, &logs.SystemLog{})
}

func newTestStore(t *testing.T) *attachment.LocalStore {
	t.Helper()
	return attachment.NewLocalStore(filepath.Join(t.TempDir(), "uploads"), "/uploads")
}

func newTestService(t *testing.T) (*ChildService, *attachment.LocalStore) {
	t.Helper()
	store := newTestStore(t)
	return &ChildService{DB: newTestDB(t), Attachments: store}, store
}

func anaInput() RegistrationInput {
	return RegistrationInput{
		Name:         "Ana",
		BirthDate:    "2015-04-02",
		Gender:       "feminino",
		Comorbidity:  "nenhuma",
		Education:    "fundamental",
		UF:           "SP",
		City:         "Campinas",
		GuardianName: "Maria",
	}
}

func photo(name, content string) *Upload {
	return &Upload{Filename: name, Content: bytes.NewBufferString(content)}
}

// mockAuthMiddleware stands in for JWT auth: every request is user 1.
func mockAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middlewares.ContextUserID, float64(1))
		c.Next()
	}
}

func setupChildRouter(svc ChildServicePort, logSvc *logs.LogService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, svc, logSvc, middlewares.Guard{Authenticate: mockAuthMiddleware()})
	return r
}

type formFile struct {
	field, name, content string
}

func multipartReq(t *testing.T, method, path string, fields map[string]string, files ...formFile) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v), "write field")
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(t, err, "create form file")
		_, err = fw.Write([]byte(f.content))
		require.NoError(t, err, "write form file")
	}
	require.NoError(t, mw.Close(), "close multipart")

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func getReq(r http.Handler, path string) *httptest.ResponseRecorder {
	return serve(r, httptest.NewRequest(http.MethodGet, path, nil))
}

func decodeJSON(t *testing.T, b []byte, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(b, out), "json unmarshal body=%s", string(b))
}

// publicFiles lists committed attachment names, ignoring the staging area.
func publicFiles(t *testing.T, s *attachment.LocalStore) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(s.Dir, "*"))
	require.NoError(t, err, "glob")
	var out []string
	for _, m := range matches {
		if filepath.Base(m) != ".staging" {
			out = append(out, filepath.Base(m))
		}
	}
	return out
}

func stagedFiles(t *testing.T, s *attachment.LocalStore) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(s.Dir, ".staging", "*"))
	require.NoError(t, err, "glob")
	return matches
}
