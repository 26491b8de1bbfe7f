// Package handlers wires HTTP requests to domain services. Handlers bind
// and validate input, call the service, and register errors on the gin
// context for the error middleware to render.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"balcao/internal/core/apperror"
	"balcao/internal/core/appctx"
	"balcao/internal/core/id"
)

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		_ = c.Error(apperror.NewValidation("invalid request body").WithCause(err))
		return false
	}
	return true
}

func parseIDParam(c *gin.Context, name string) (id.ID, bool) {
	v, err := id.Parse(c.Param(name))
	if err != nil {
		_ = c.Error(apperror.NewValidation("invalid " + name).WithDetail("param", name))
		return id.Nil(), false
	}
	return v, true
}

func parseRequestID(c *gin.Context, raw, field string) (id.ID, bool) {
	v, err := id.Parse(raw)
	if err != nil {
		_ = c.Error(apperror.NewValidation("invalid " + field).WithDetail("field", field))
		return id.Nil(), false
	}
	return v, true
}

func intQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}

// ownerID pulls the resolved owner from the authenticated context. The auth
// middleware guarantees it is present on protected routes.
func ownerID(c *gin.Context) (id.ID, bool) {
	user := appctx.GetUser(c.Request.Context())
	if user == nil {
		_ = c.Error(apperror.NewUnauthorized("missing authentication"))
		return id.Nil(), false
	}
	owner, err := id.Parse(user.OwnerID)
	if err != nil {
		_ = c.Error(apperror.NewUnauthorized("invalid token subject"))
		return id.Nil(), false
	}
	return owner, true
}

func respondOK(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
}

func respondCreated(c *gin.Context, body any) {
	c.JSON(http.StatusCreated, body)
}

func respondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
