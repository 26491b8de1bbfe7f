package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"balcao/internal/core/appctx"
	"balcao/internal/core/apperror"
)

// TokenValidator validates an access token and returns the user context
// it carries.
type TokenValidator interface {
	ValidateToken(token string) (*appctx.UserContext, error)
}

// Auth middleware validates the bearer token and places the account and
// resolved owner into the request context. Domain services never perform
// authorization themselves.
func Auth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			abortUnauthorized(c, "invalid authorization header")
			return
		}

		user, err := validator.ValidateToken(token)
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		ctx := appctx.WithUser(c.Request.Context(), user)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthorized(message))
	c.Abort()
}
