package access

import (
	"net/http"
	"strings"

	"Tasks/internal/auth"

	"github.com/gin-gonic/gin"
)

// Gate enforces Decide on every request. It must run after auth.Resolve.
// Browser routes are redirected; API routes get a JSON 401 or 403 instead,
// since an API client cannot act on a redirect to a sign-up page.
func Gate() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := auth.IdentityFromContext(c)
		d := Decide(id, Classify(c.Request.URL.Path))
		if d.Allowed() {
			c.Next()
			return
		}
		if isAPI(c.Request.URL.Path) {
			status, msg := apiDenial(id, d)
			c.AbortWithStatusJSON(status, gin.H{"error": msg})
			return
		}
		c.Redirect(http.StatusTemporaryRedirect, d.Location)
		c.Abort()
	}
}

func apiDenial(id auth.Identity, d Decision) (int, string) {
	switch {
	case !id.Authenticated():
		return http.StatusUnauthorized, "authorization required"
	case d.Location == AdminDashboardPath:
		return http.StatusForbidden, "admin accounts must use the admin API"
	}
	return http.StatusForbidden, "forbidden"
}

func isAPI(path string) bool {
	return path == "/api" || strings.HasPrefix(path, "/api/")
}
