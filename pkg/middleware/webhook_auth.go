package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"sapipay/pkg/utils"
)

// WebhookAuthMiddleware gates provider callbacks behind the shared secret
// agreed with Multibank. Business-key matching alone is not an
// authentication boundary.
func WebhookAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			// secret not provisioned yet; fall through so staging keeps working
			c.Next()
			return
		}
		got := c.GetHeader("X-Multibank-Token")
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			utils.RespondError(c, http.StatusUnauthorized, "invalid webhook token")
			c.Abort()
			return
		}
		c.Next()
	}
}
