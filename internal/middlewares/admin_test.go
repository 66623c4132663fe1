package middlewares

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newAdminRouter(policy AdminPolicy, pre ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append(pre, RequireAdmin(policy), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.DELETE("/thing", handlers...)
	return r
}

func deleteWith(r http.Handler, header, value string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/thing", nil)
	if header != "" {
		req.Header.Set(header, value)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAdmin_APIKey(t *testing.T) {
	r := newAdminRouter(APIKeyPolicy{Key: "k3y"})

	if w := deleteWith(r, "Authorization", "Bearer k3y"); w.Code != http.StatusOK {
		t.Fatalf("bearer: expected 200, got %d", w.Code)
	}
	if w := deleteWith(r, "X-API-Key", "k3y"); w.Code != http.StatusOK {
		t.Fatalf("x-api-key: expected 200, got %d", w.Code)
	}

	w := deleteWith(r, "X-API-Key", "wrong")
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "administrator capability required") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestAPIKeyPolicy_EmptyKeyNeverMatches(t *testing.T) {
	r := newAdminRouter(APIKeyPolicy{})

	if w := deleteWith(r, "X-API-Key", ""); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestRequireAdmin_RoleClaim(t *testing.T) {
	setRole := func(role string) gin.HandlerFunc {
		return func(c *gin.Context) { c.Set(ContextRole, role) }
	}

	if w := deleteWith(newAdminRouter(RoleClaimPolicy{}, setRole(RoleAdmin)), "", ""); w.Code != http.StatusOK {
		t.Fatalf("admin role: expected 200, got %d", w.Code)
	}
	if w := deleteWith(newAdminRouter(RoleClaimPolicy{}, setRole("tecnico")), "", ""); w.Code != http.StatusForbidden {
		t.Fatalf("other role: expected 403, got %d", w.Code)
	}
}

func TestRequireAdmin_AnyPolicyAndNil(t *testing.T) {
	r := newAdminRouter(AnyPolicy{nil, RoleClaimPolicy{}, APIKeyPolicy{Key: "k"}})
	if w := deleteWith(r, "X-API-Key", "k"); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	if w := deleteWith(newAdminRouter(nil), "", ""); w.Code != http.StatusForbidden {
		t.Fatalf("nil policy: expected 403, got %d", w.Code)
	}
}

func TestKeyOrToken_APIKeySkipsJWT(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(KeyOrToken(APIKeyPolicy{Key: "k"}, AuthMiddleware(testSecret)))
	r.GET("/ok", RequireAdmin(RoleClaimPolicy{}), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("X-API-Key", "k")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key or token, got %d", w.Code)
	}
}

func TestGuard_NilMembersAreSkipped(t *testing.T) {
	var g Guard
	if len(g.Auth()) != 0 {
		t.Fatalf("expected no auth handlers")
	}
	if len(g.AdminOnly(func(*gin.Context) {})) != 1 {
		t.Fatalf("expected only the handler")
	}
}
