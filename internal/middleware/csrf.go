package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "spendtrack/internal/errors"
)

const (
	// CSRFCookieName is the cookie carrying the anti-forgery token.
	CSRFCookieName = "csrf_token"
	// CSRFHeaderName is the request header that must echo the cookie value.
	CSRFHeaderName = "X-CSRF-Token"

	csrfCookieMaxAge = 12 * 60 * 60
)

// CSRF returns a Gin middleware implementing the double-submit cookie pattern.
// Safe methods (GET, HEAD, OPTIONS) issue the token cookie when missing.
// Mutating methods must present a header matching the cookie or are rejected
// before reaching any handler.
func CSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case "GET", "HEAD", "OPTIONS":
			if _, err := c.Cookie(CSRFCookieName); err != nil {
				token := uuid.New().String()
				// Not HttpOnly: the client reads the cookie to echo it back.
				c.SetCookie(CSRFCookieName, token, csrfCookieMaxAge, "/", "", false, false)
			}
			c.Next()
			return
		}

		cookie, err := c.Cookie(CSRFCookieName)
		header := c.GetHeader(CSRFHeaderName)
		if err != nil || cookie == "" || header == "" || cookie != header {
			c.AbortWithStatusJSON(apperrors.ErrForgeryToken.StatusCode, gin.H{
				"error": gin.H{
					"code":    apperrors.ErrForgeryToken.Code,
					"message": apperrors.ErrForgeryToken.Message,
				},
			})
			return
		}

		c.Next()
	}
}
