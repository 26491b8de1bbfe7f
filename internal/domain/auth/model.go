// Package auth provides account management and owner resolution.
// Managers own a catalog; collaborators act on behalf of their manager.
// The rest of the domain only ever sees the resolved owner id.
package auth

import (
	"strings"
	"time"

	"balcao/internal/core/apperror"
	"balcao/internal/core/id"
)

// Role defines the account kind.
type Role string

const (
	RoleManager      Role = "manager"
	RoleCollaborator Role = "collaborator"
)

// Account represents a login identity.
type Account struct {
	ID           id.ID  `db:"id" json:"id"`
	Email        string `db:"email" json:"email"`
	PasswordHash string `db:"password_hash" json:"-"`
	Name         string `db:"name" json:"name"`
	Role         Role   `db:"role" json:"role"`

	// ManagerID is set for collaborators and points at the manager whose
	// catalog they operate.
	ManagerID *id.ID `db:"manager_id" json:"managerId,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// EffectiveOwner resolves the catalog owner this account operates:
// collaborators map to their manager, managers map to themselves.
func (a *Account) EffectiveOwner() id.ID {
	if a.Role == RoleCollaborator && a.ManagerID != nil {
		return *a.ManagerID
	}
	return a.ID
}

// Validate checks account invariants.
func (a *Account) Validate() error {
	if strings.TrimSpace(a.Email) == "" {
		return apperror.NewValidation("email is required").
			WithDetail("field", "email")
	}
	if strings.TrimSpace(a.Name) == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	switch a.Role {
	case RoleManager, RoleCollaborator:
	default:
		return apperror.NewValidation("invalid role").
			WithDetail("field", "role").
			WithDetail("value", string(a.Role))
	}
	if a.Role == RoleCollaborator && (a.ManagerID == nil || id.IsNil(*a.ManagerID)) {
		return apperror.NewValidation("collaborator requires a manager").
			WithDetail("field", "managerId")
	}
	return nil
}
