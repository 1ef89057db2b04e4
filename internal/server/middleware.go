package server

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/xid"

	"github.com/agenthands/ragsearch/internal/core/model"
)

const headerRequestID = "X-Request-ID"

// requestLogger tags each request with an id and stores a request-scoped
// logger in the request context.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = xid.New().String()
		}
		c.Header(headerRequestID, id)

		logger := s.Logger.With().Str("request_id", id).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))

		c.Next()

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("Request handled")
	}
}

// requireAuth accepts only a bearer token equal to the configured key. An
// empty configured key rejects everyone.
func (s *Server) requireAuth() gin.HandlerFunc {
	want := []byte(s.AuthAPIKey)
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if len(want) == 0 || subtle.ConstantTimeCompare([]byte(token), want) != 1 {
			c.AbortWithStatusJSON(http.StatusOK, model.RespErr(msgAccessDenied))
			return
		}
		c.Next()
	}
}
