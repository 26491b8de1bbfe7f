// Package middleware provides HTTP middleware components.
package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"balcao/internal/core/apperror"
	"balcao/pkg/logger"
)

// Recovery middleware recovers from panics and returns 500 error.
// Logs the stack trace but never exposes internal details to the client.
// It writes the response itself: a panic skips the post-Next rendering of
// the downstream error middleware.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error(c.Request.Context(), "panic recovered",
					"error", err,
					"stack", string(debug.Stack()),
				)

				_ = c.Error(apperror.NewInternal(fmt.Errorf("panic: %v", err)))
				if !c.Writer.Written() {
					c.JSON(http.StatusInternalServerError, gin.H{
						"code":    apperror.CodeInternal,
						"message": "Internal server error",
						"details": map[string]any{
							"request_id": c.GetString("request_id"),
						},
					})
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}
