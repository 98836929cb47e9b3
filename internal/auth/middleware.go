package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SessionCookieName is the cookie the identity provider's frontend SDK sets.
const SessionCookieName = "__session"

const contextKeyIdentity = "identity"

// IdentityFromContext returns the caller set by Resolve. Anonymous if not set.
func IdentityFromContext(c *gin.Context) Identity {
	v, ok := c.Get(contextKeyIdentity)
	if !ok {
		return Anonymous
	}
	id, ok := v.(Identity)
	if !ok {
		return Anonymous
	}
	return id
}

// SetIdentity stores the caller for IdentityFromContext.
func SetIdentity(c *gin.Context, id Identity) {
	c.Set(contextKeyIdentity, id)
}

// Resolve returns a middleware that verifies the session token, if any, and
// stores the caller in context. It never rejects a request: a missing or
// invalid token resolves to Anonymous and the access gate decides.
func Resolve(v *Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := Anonymous
		if token := sessionToken(c); token != "" {
			verified, err := v.Verify(token)
			if err != nil {
				zerolog.Ctx(c.Request.Context()).Debug().Err(err).Msg("session token rejected")
			} else {
				id = verified
			}
		}
		SetIdentity(c, id)
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		return cookie
	}
	return ""
}
