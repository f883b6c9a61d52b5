package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/strokeguard-backend/internal/platform/ctxutil"
	"github.com/yungbote/strokeguard-backend/internal/platform/logger"
)

// Recover turns a handler panic into a 500 JSON reply.
func Recover(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if log != nil {
				fields := []interface{}{"panic", rec, "stack", string(debug.Stack())}
				fields = append(fields, ctxutil.LogFields(c.Request.Context())...)
				log.Error("panic recovered", fields...)
			}
			if !c.Writer.Written() {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
				return
			}
			c.Abort()
		}()
		c.Next()
	}
}

// MaxBodyBytes caps how much of a request body handlers may read.
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if n > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}
