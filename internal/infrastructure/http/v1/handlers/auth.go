package handlers

import (
	"github.com/gin-gonic/gin"

	"balcao/internal/core/apperror"
	"balcao/internal/core/id"
	"balcao/internal/domain/auth"
	"balcao/internal/infrastructure/http/v1/dto"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	service *auth.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(service *auth.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	in := auth.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     auth.Role(req.Role),
	}
	if req.ManagerID != "" {
		managerID, err := id.Parse(req.ManagerID)
		if err != nil {
			_ = c.Error(apperror.NewValidation("invalid managerId").WithDetail("field", "managerId"))
			return
		}
		in.ManagerID = &managerID
	}

	account, err := h.service.Register(c.Request.Context(), in)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respondCreated(c, dto.ToAccountResponse(account))
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respondOK(c, dto.ToTokenResponse(result))
}
