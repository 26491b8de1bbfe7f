// Package auth_repo provides the PostgreSQL implementation of the account
// repository.
package auth_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"balcao/internal/core/apperror"
	"balcao/internal/core/id"
	"balcao/internal/domain/auth"
	"balcao/internal/infrastructure/storage/postgres"
)

const accountsTable = "accounts"

var accountColumns = []string{
	"id", "email", "password_hash", "name", "role", "manager_id", "created_at",
}

const uniqueViolation = "23505"

// AccountRepo implements auth.Repository.
type AccountRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

var _ auth.Repository = (*AccountRepo)(nil)

// NewAccountRepo creates a new account repository.
func NewAccountRepo(txm *postgres.TxManager) *AccountRepo {
	return &AccountRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts an account, mapping the email unique violation to a
// duplicate error.
func (r *AccountRepo) Create(ctx context.Context, a *auth.Account) error {
	q := r.builder.Insert(accountsTable).
		Columns(accountColumns...).
		Values(a.ID, a.Email, a.PasswordHash, a.Name, a.Role, a.ManagerID, a.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperror.NewDuplicate("account", "email", a.Email).WithCause(err)
		}
		return fmt.Errorf("insert account: %w", err)
	}

	return nil
}

// GetByID retrieves an account.
func (r *AccountRepo) GetByID(ctx context.Context, accountID id.ID) (*auth.Account, error) {
	q := r.builder.Select(accountColumns...).
		From(accountsTable).
		Where(squirrel.Eq{"id": accountID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var a auth.Account
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &a, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("account", accountID)
		}
		return nil, fmt.Errorf("get account: %w", err)
	}

	return &a, nil
}

// GetByEmail retrieves an account by email.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*auth.Account, error) {
	q := r.builder.Select(accountColumns...).
		From(accountsTable).
		Where(squirrel.Eq{"email": email}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var a auth.Account
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &a, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("account", email)
		}
		return nil, fmt.Errorf("get account by email: %w", err)
	}

	return &a, nil
}
