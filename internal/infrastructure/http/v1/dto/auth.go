package dto

import (
	"time"

	"balcao/internal/domain/auth"
)

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Name      string `json:"name" binding:"required"`
	Role      string `json:"role" binding:"required,oneof=manager collaborator"`
	ManagerID string `json:"managerId"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AccountResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	ManagerID string    `json:"managerId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type TokenResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Account   AccountResponse `json:"account"`
}

func ToAccountResponse(a *auth.Account) AccountResponse {
	resp := AccountResponse{
		ID:        a.ID.String(),
		Email:     a.Email,
		Name:      a.Name,
		Role:      string(a.Role),
		CreatedAt: a.CreatedAt,
	}
	if a.ManagerID != nil {
		resp.ManagerID = a.ManagerID.String()
	}
	return resp
}

func ToTokenResponse(r *auth.TokenResult) TokenResponse {
	return TokenResponse{
		Token:     r.Token,
		ExpiresAt: r.ExpiresAt,
		Account:   ToAccountResponse(r.Account),
	}
}
