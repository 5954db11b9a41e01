package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"incubator/internal/auth"
)

const (
	// ContextSessionKey stores the authenticated session on the Gin context.
	ContextSessionKey = "incubator/session"

	// SessionCookie is the cookie the login handlers issue.
	SessionCookie = "incubator.session"
)

// RequireSession validates that a room session token is present and valid.
func RequireSession(manager *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := sessionFromRequest(c, manager)
		if !ok || session.Admin {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "请先登录"})
			return
		}
		c.Set(ContextSessionKey, session)
		c.Next()
	}
}

// RequireAdmin validates that an administrator session is present.
func RequireAdmin(manager *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := sessionFromRequest(c, manager)
		if !ok || !session.Admin {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "请先登录"})
			return
		}
		c.Set(ContextSessionKey, session)
		c.Next()
	}
}

// SessionFromContext returns the session a Require middleware stored.
func SessionFromContext(c *gin.Context) (*auth.Session, bool) {
	value, ok := c.Get(ContextSessionKey)
	if !ok {
		return nil, false
	}
	session, ok := value.(*auth.Session)
	return session, ok
}

// SessionToken extracts the session token from the Authorization header or,
// failing that, the session cookie.
func SessionToken(c *gin.Context) (string, bool) {
	if token := c.GetHeader("Authorization"); token != "" {
		return strings.TrimPrefix(token, "Bearer "), true
	}
	cookie, err := c.Request.Cookie(SessionCookie)
	if err != nil || cookie == nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func sessionFromRequest(c *gin.Context, manager *auth.Manager) (*auth.Session, bool) {
	token, ok := SessionToken(c)
	if !ok {
		return nil, false
	}
	return manager.Validate(token)
}

// CORS adds permissive CORS headers to all responses to support requests
// served from a different origin. It mirrors the Origin header to support
// credentialed requests and terminates preflight checks early.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}
		c.Writer.Header().Set("Vary", "Origin")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Accept, Origin, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}

		c.Next()
	}
}
