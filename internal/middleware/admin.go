package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/novabank/banking/internal/store"
)

// RequireAdmin gates the review endpoints. It runs after AuthMiddleware and
// checks the caller's role against the profile store on every request, so a
// revoked admin loses access without waiting for token expiry.
func RequireAdmin(profiles store.ProfileRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Authentication required",
			})
			c.Abort()
			return
		}

		isAdmin, err := profiles.IsAdmin(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"message": "Failed to verify permissions",
			})
			c.Abort()
			return
		}
		if !isAdmin {
			c.JSON(http.StatusForbidden, gin.H{
				"message": "Administrator access required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
