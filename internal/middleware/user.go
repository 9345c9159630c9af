package middleware

import (
	"net/http"

	"Finary/internal/pkg"

	"github.com/gin-gonic/gin"
)

const (
	UserIDHeader = "X-User-ID"
	UserIDKey    = "user_id"
)

// RequireUser trusts the upstream gateway to have authenticated the caller
// and put their id in X-User-ID.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(UserIDHeader)
		userID, err := pkg.ParseULID(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "UNAUTHORIZED",
				"message": "Missing or invalid " + UserIDHeader + " header",
			})
			return
		}

		c.Set(UserIDKey, userID.String())
		c.Next()
	}
}
