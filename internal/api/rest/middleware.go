package rest

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDKey    = "requestId"
	sessionIDKey    = "sessionId"
	headerRequestID = "X-Request-Id"
	headerSession   = "X-Session-Token"
)

// RequestID присваивает запросу идентификатор и возвращает его в заголовке
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(headerRequestID, id)
		c.Next()
	}
}

// Session берёт токен сессии из заголовка, при отсутствии выдаёт новый.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(headerSession)
		if token == "" {
			token = uuid.NewString()
		}
		c.Set(sessionIDKey, token)
		c.Writer.Header().Set(headerSession, token)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}

// Logging пишет одну структурированную запись на запрос
func Logging(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request.complete",
			slog.String("request_id", c.GetString(requestIDKey)),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Float64("duration_ms", float64(time.Since(start).Microseconds())/1000.0),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}

// Recovery перехватывает панику и отвечает стандартной ошибкой
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic",
					slog.String("request_id", c.GetString(requestIDKey)),
					slog.Any("error", rec),
					slog.String("stack", string(debug.Stack())),
					slog.String("path", c.Request.URL.Path),
				)
				abortWithError(c, http.StatusInternalServerError, codeInternal, "Unexpected server error")
			}
		}()
		c.Next()
	}
}
