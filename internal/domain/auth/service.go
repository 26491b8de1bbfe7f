package auth

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"balcao/internal/core/apperror"
	"balcao/internal/core/id"
	"balcao/pkg/logger"
)

// Service provides registration, login and owner resolution.
type Service struct {
	repo Repository
	jwt  *JWTService
}

// NewService creates a new auth service.
func NewService(repo Repository, jwt *JWTService) *Service {
	return &Service{repo: repo, jwt: jwt}
}

// RegisterInput carries the fields for account creation.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     Role
	// ManagerID is required for collaborators.
	ManagerID *id.ID
}

// TokenResult is a successful authentication outcome.
type TokenResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Account   *Account  `json:"account"`
}

// Register creates an account. Collaborators must reference an existing
// manager account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Account, error) {
	if len(in.Password) < 8 {
		return nil, apperror.NewValidation("password must be at least 8 characters").
			WithDetail("field", "password")
	}

	role := in.Role
	if role == "" {
		role = RoleManager
	}

	account := &Account{
		ID:        id.New(),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Name:      strings.TrimSpace(in.Name),
		Role:      role,
		ManagerID: in.ManagerID,
		CreatedAt: time.Now().UTC(),
	}
	if err := account.Validate(); err != nil {
		return nil, err
	}

	if account.Role == RoleCollaborator {
		manager, err := s.repo.GetByID(ctx, *account.ManagerID)
		if err != nil {
			return nil, err
		}
		if manager.Role != RoleManager {
			return nil, apperror.NewValidation("collaborators must reference a manager account").
				WithDetail("field", "managerId")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	account.PasswordHash = string(hash)

	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}

	logger.Info(ctx, "account registered",
		"account_id", account.ID,
		"role", account.Role)

	return account, nil
}

// Login verifies credentials and issues an access token.
func (s *Service) Login(ctx context.Context, email, password string) (*TokenResult, error) {
	account, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, apperror.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.jwt.GenerateAccessToken(account)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	return &TokenResult{Token: token, ExpiresAt: expiresAt, Account: account}, nil
}

// ResolveOwner maps an account id to the effective catalog owner.
func (s *Service) ResolveOwner(ctx context.Context, accountID id.ID) (id.ID, error) {
	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return id.Nil(), err
	}
	return account.EffectiveOwner(), nil
}
