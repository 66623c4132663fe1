package middlewares

import (
	"crypto/subtle"
	"siat-api/internal/apperr"
	"strings"

	"github.com/gin-gonic/gin"
)

const RoleAdmin = "administrador"

// AdminPolicy decides whether a request carries administrator capability.
type AdminPolicy interface {
	IsAdmin(c *gin.Context) bool
}

// APIKeyPolicy accepts the shared admin key as a bearer token or X-API-Key.
// An empty key never matches.
type APIKeyPolicy struct {
	Key string
}

func (p APIKeyPolicy) IsAdmin(c *gin.Context) bool {
	if p.Key == "" {
		return false
	}
	for _, candidate := range []string{bearerToken(c), strings.TrimSpace(c.GetHeader("X-API-Key"))} {
		if candidate != "" && subtle.ConstantTimeCompare([]byte(candidate), []byte(p.Key)) == 1 {
			return true
		}
	}
	return false
}

// RoleClaimPolicy trusts the role set by AuthMiddleware.
type RoleClaimPolicy struct{}

func (RoleClaimPolicy) IsAdmin(c *gin.Context) bool {
	role := c.GetString(ContextRole)
	return role == RoleAdmin || role == "admin"
}

// AnyPolicy grants when any of its policies grants.
type AnyPolicy []AdminPolicy

func (p AnyPolicy) IsAdmin(c *gin.Context) bool {
	for _, policy := range p {
		if policy != nil && policy.IsAdmin(c) {
			return true
		}
	}
	return false
}

func RequireAdmin(policy AdminPolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		if policy == nil || !policy.IsAdmin(c) {
			apperr.Respond(c, apperr.Authorization("administrator capability required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// KeyOrToken lets requests holding the admin API key through as
// administrators and sends everything else to auth.
func KeyOrToken(key APIKeyPolicy, auth gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key.IsAdmin(c) {
			c.Set(ContextRole, RoleAdmin)
			c.Next()
			return
		}
		auth(c)
	}
}

// Guard bundles the handlers routes put in front of their controllers.
// Nil members are skipped, which is how tests mount open routes.
type Guard struct {
	Authenticate gin.HandlerFunc
	Admin        gin.HandlerFunc
}

func (g Guard) Auth() []gin.HandlerFunc {
	if g.Authenticate == nil {
		return nil
	}
	return []gin.HandlerFunc{g.Authenticate}
}

// AdminOnly returns the admin check followed by h.
func (g Guard) AdminOnly(h gin.HandlerFunc) []gin.HandlerFunc {
	if g.Admin == nil {
		return []gin.HandlerFunc{h}
	}
	return []gin.HandlerFunc{g.Admin, h}
}
