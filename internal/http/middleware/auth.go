package middleware

import (
	"net/http"
	"strings"

	"backoffice/internal/domain"

	"github.com/gin-gonic/gin"
)

const authKey = "auth"

// TokenParser turns a bearer token into the caller's identity.
type TokenParser func(raw string) (domain.RequestContext, error)

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(parse TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			unauthorized(c, "missing bearer token")
			return
		}
		rc, err := parse(strings.TrimSpace(raw))
		if err != nil {
			unauthorized(c, err.Error())
			return
		}
		c.Set(authKey, rc)
		c.Next()
	}
}

// RequireRole lets through only the listed roles. Use after RequireAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rc := GetAuth(c)
		for _, r := range roles {
			if rc.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":      "insufficient role",
			"code":       "forbidden",
			"message":    "insufficient role",
			"request_id": GetRequestID(c),
		})
	}
}

// GetAuth returns the identity stored by RequireAuth, zero when absent.
func GetAuth(c *gin.Context) domain.RequestContext {
	if v, ok := c.Get(authKey); ok {
		if rc, ok := v.(domain.RequestContext); ok {
			return rc
		}
	}
	return domain.RequestContext{}
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":      msg,
		"code":       "unauthorized",
		"message":    msg,
		"request_id": GetRequestID(c),
	})
}
