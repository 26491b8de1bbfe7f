// Package ledger_repo provides the PostgreSQL implementation of the
// movement ledger repository.
package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"balcao/internal/core/apperror"
	"balcao/internal/core/id"
	"balcao/internal/core/types"
	"balcao/internal/domain/ledger"
	"balcao/internal/infrastructure/storage/postgres"
)

const movementsTable = "movements"

var movementColumns = []string{
	"id", "product_id", "type", "quantity",
	"unit_cost", "cost_at_transaction",
	"status", "amount_paid",
	"client_name", "expiry_date", "created_at",
}

// MovementRepo implements ledger.Repository.
type MovementRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

var _ ledger.Repository = (*MovementRepo)(nil)

// NewMovementRepo creates a new movement repository.
func NewMovementRepo(txm *postgres.TxManager) *MovementRepo {
	return &MovementRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Insert appends a movement row.
func (r *MovementRepo) Insert(ctx context.Context, m *ledger.Movement) error {
	q := r.builder.Insert(movementsTable).
		Columns(movementColumns...).
		Values(
			m.ID, m.ProductID, m.Type, m.Quantity,
			m.UnitCost, m.CostAtTransaction,
			m.Status, m.AmountPaid,
			m.ClientName, m.ExpiryDate, m.CreatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}

	return nil
}

// GetByID retrieves a movement.
func (r *MovementRepo) GetByID(ctx context.Context, movementID id.ID) (*ledger.Movement, error) {
	q := r.builder.Select(movementColumns...).
		From(movementsTable).
		Where(squirrel.Eq{"id": movementID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var m ledger.Movement
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &m, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("movement", movementID)
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}

	return &m, nil
}

// GetForUpdate retrieves one of the owner's movements with a pessimistic
// row lock, so concurrent payments against the same row are serialized.
// Ownership goes through the product join; a foreign movement is not found.
func (r *MovementRepo) GetForUpdate(ctx context.Context, ownerID, movementID id.ID) (*ledger.Movement, error) {
	sql := `
		SELECT m.id, m.product_id, m.type, m.quantity,
		       m.unit_cost, m.cost_at_transaction,
		       m.status, m.amount_paid,
		       m.client_name, m.expiry_date, m.created_at
		FROM movements m
		JOIN products p ON p.id = m.product_id
		WHERE m.id = $1 AND p.owner_id = $2
		FOR UPDATE OF m
	`

	var m ledger.Movement
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &m, sql, movementID, ownerID); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("movement", movementID)
		}
		return nil, fmt.Errorf("get movement for update: %w", err)
	}

	return &m, nil
}

// UpdatePayment mutates the amount-paid/status pair, the only mutable
// fields of a ledger row.
func (r *MovementRepo) UpdatePayment(ctx context.Context, movementID id.ID, amountPaid types.Money, status ledger.PaymentStatus) error {
	q := r.builder.Update(movementsTable).
		Set("amount_paid", amountPaid).
		Set("status", status).
		Where(squirrel.Eq{"id": movementID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("movement", movementID)
	}

	return nil
}

// ListByProduct retrieves the product's movement history newest-first.
func (r *MovementRepo) ListByProduct(ctx context.Context, productID id.ID, filter ledger.ListFilter) ([]ledger.Movement, error) {
	q := r.builder.Select(movementColumns...).
		From(movementsTable).
		Where(squirrel.Eq{"product_id": productID}).
		OrderBy("created_at DESC")

	if filter.Type != nil {
		q = q.Where(squirrel.Eq{"type": *filter.Type})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []ledger.Movement
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}

	return movements, nil
}

func (r *MovementRepo) joinedSelect() squirrel.SelectBuilder {
	return r.builder.Select(
		"m.id", "m.product_id", "m.type", "m.quantity",
		"m.unit_cost", "m.cost_at_transaction",
		"m.status", "m.amount_paid",
		"m.client_name", "m.expiry_date", "m.created_at",
		"p.name AS product_name", "p.sku AS product_sku",
	).
		From(movementsTable + " m").
		Join("products p ON p.id = m.product_id")
}

// ListExitsByOwner returns every exit row of the owner's catalog joined
// with its product.
func (r *MovementRepo) ListExitsByOwner(ctx context.Context, ownerID id.ID) ([]ledger.MovementWithProduct, error) {
	q := r.joinedSelect().
		Where(squirrel.Eq{"p.owner_id": ownerID}).
		Where(squirrel.Eq{"m.type": ledger.TypeExit}).
		OrderBy("m.created_at ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []ledger.MovementWithProduct
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list exits: %w", err)
	}

	return rows, nil
}

// ListPendingByOwner returns pending exit rows newest-first.
func (r *MovementRepo) ListPendingByOwner(ctx context.Context, ownerID id.ID) ([]ledger.MovementWithProduct, error) {
	q := r.joinedSelect().
		Where(squirrel.Eq{"p.owner_id": ownerID}).
		Where(squirrel.Eq{"m.type": ledger.TypeExit}).
		Where(squirrel.Eq{"m.status": ledger.StatusPending}).
		OrderBy("m.created_at DESC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []ledger.MovementWithProduct
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}

	return rows, nil
}
