package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/landingkit/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/security"
)

// SessionID rejects requests whose session path parameter is not a ULID.
// Such ids can never name a session, so they get the same 404 as an
// expired one without reaching the store.
func SessionID(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !security.IsValidULID(c.Param(param)) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": stores.ErrSessionNotFound.Error()})
			return
		}
		c.Next()
	}
}
