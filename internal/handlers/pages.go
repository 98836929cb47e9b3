package handlers

import (
	"net/http"

	"Tasks/internal/auth"

	"github.com/gin-gonic/gin"
)

// Page answers a UI route that passed the access gate. The UI itself is
// served elsewhere; this only tells the client who it is.
func Page(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := auth.IdentityFromContext(c)
		c.JSON(http.StatusOK, gin.H{
			"page":   name,
			"userId": id.UserID,
			"role":   id.Role.String(),
		})
	}
}
