package appctx

import (
	"context"
)

// UserContext contains authenticated account information.
// OwnerID is the effective catalog owner: for collaborator accounts it is
// the manager's account id, for managers it equals AccountID.
type UserContext struct {
	AccountID string
	OwnerID   string
	Email     string
	Role      string
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetAccountID returns the account id from context or empty string.
func GetAccountID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.AccountID
	}
	return ""
}

// GetOwnerID returns the effective owner id from context or empty string.
func GetOwnerID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.OwnerID
	}
	return ""
}
