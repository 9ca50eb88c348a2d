package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mzfirozuddin/elib-apis/internal/common"
	"github.com/mzfirozuddin/elib-apis/internal/server/auth"
	"github.com/mzfirozuddin/elib-apis/internal/server/models"
)

const identityKey = "elib.identity"

// requireSession gates a route on a valid access token. The cookie takes
// precedence over the Authorization header. On success the caller's sanitized
// identity is stored on the gin context; secret fields never reach handlers.
func (s *Server) requireSession() gin.HandlerFunc {
	secret := []byte(s.cfg.AccessTokenSecret)

	return func(c *gin.Context) {
		token := accessTokenFrom(c)
		if token == "" {
			s.abortUnauthorized(c, common.ErrorUnauthorized)
			return
		}

		claims, err := auth.ParseToken(token, secret)
		if err != nil {
			s.abortUnauthorized(c, err)
			return
		}

		user, err := s.users.Self(c.Request.Context(), claims.Subject)
		if err != nil {
			s.abortUnauthorized(c, common.ErrorUnauthorized)
			return
		}

		c.Set(identityKey, user.Identity())
		c.Next()
	}
}

func (s *Server) abortUnauthorized(c *gin.Context, err error) {
	s.respondError(c, err)
	c.Abort()
}

// identityFrom returns the identity the auth guard resolved for this request.
func identityFrom(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return models.Identity{}, false
	}
	id, ok := v.(models.Identity)
	return id, ok
}

func accessTokenFrom(c *gin.Context) string {
	if v, err := c.Cookie("accessToken"); err == nil && v != "" {
		return v
	}
	return bearerToken(c)
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return ""
	}
	return strings.TrimSpace(token)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// cors allows the single configured browser origin, with credentials so the
// session cookies travel.
func (s *Server) cors() gin.HandlerFunc {
	origin := s.cfg.CORSAllowedOrigin

	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
