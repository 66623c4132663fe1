package attachment

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ServeLocal serves committed files of a LocalStore. Staged files are not
// reachable because names may not contain path separators.
func ServeLocal(s *LocalStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := s.Path(s.PublicPrefix + "/" + c.Param("name"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "attachment not found"})
			return
		}
		c.File(p)
	}
}

func RegisterRoutes(r *gin.Engine, s *LocalStore) {
	r.GET(s.PublicPrefix+"/:name", ServeLocal(s))
	r.HEAD(s.PublicPrefix+"/:name", ServeLocal(s))
}
