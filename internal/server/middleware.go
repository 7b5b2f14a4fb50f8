package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"autoboard/internal/auth"
)

const (
	requestIDHeader = "X-Request-ID"
	ctxRequestID    = "request_id"
	ctxIdentity     = "identity"
)

// requestLogger tags every request with an id and logs it once it has been served.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(requestIDHeader, id)

		start := time.Now()
		c.Next()

		logger.Info("request",
			slog.String("request_id", id),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
		)
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(ctxRequestID)
}

// identify verifies the Authorization header. On failure the request is
// aborted with 401 and body.
func (s *Server) identify(c *gin.Context, body any) (*auth.Identity, bool) {
	id, err := s.verifier.Verify(c.Request.Context(), c.GetHeader("Authorization"))
	if err != nil {
		s.logger.Warn("token rejected",
			slog.String("path", c.FullPath()),
			slog.String("request_id", requestID(c)),
			slog.Any("error", err),
		)
		c.AbortWithStatusJSON(http.StatusUnauthorized, body)
		return nil, false
	}
	return id, true
}

// requireToken guards mutating endpoints and stores the caller's identity.
func (s *Server) requireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := s.identify(c, gin.H{"error": "invalid or expired token"})
		if !ok {
			return
		}
		c.Set(ctxIdentity, id)
		c.Next()
	}
}

// identity returns the caller stored by requireToken.
func identity(c *gin.Context) *auth.Identity {
	v, _ := c.Get(ctxIdentity)
	id, _ := v.(*auth.Identity)
	return id
}

// actor returns the user id stored by requireToken.
func actor(c *gin.Context) string {
	if id := identity(c); id != nil {
		return id.UserID
	}
	return ""
}
