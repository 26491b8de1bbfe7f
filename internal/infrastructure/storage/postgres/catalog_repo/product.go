// Package catalog_repo provides the PostgreSQL implementation of the
// product catalog repository.
package catalog_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"balcao/internal/core/apperror"
	"balcao/internal/core/id"
	"balcao/internal/core/types"
	"balcao/internal/domain/catalog"
	"balcao/internal/infrastructure/storage/postgres"
)

const productsTable = "products"

var productColumns = []string{
	"id", "owner_id", "sku", "name", "min_stock",
	"current_stock", "average_cost", "sale_price",
	"expiry_date", "created_at", "updated_at",
}

// uniqueViolation is the PostgreSQL error code for unique constraints.
const uniqueViolation = "23505"

// ProductRepo implements catalog.Repository.
type ProductRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

var _ catalog.Repository = (*ProductRepo)(nil)

// NewProductRepo creates a new product repository.
func NewProductRepo(txm *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *ProductRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder.Select(productColumns...).From(productsTable)
}

// Create inserts a product, mapping the (owner, sku) unique violation to a
// DuplicateSKU error.
func (r *ProductRepo) Create(ctx context.Context, p *catalog.Product) error {
	q := r.builder.Insert(productsTable).
		Columns(productColumns...).
		Values(
			p.ID, p.OwnerID, p.SKU, p.Name, p.MinStock,
			p.CurrentStock, p.AverageCost, p.SalePrice,
			p.ExpiryDate, p.CreatedAt, p.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperror.NewDuplicateSKU(p.SKU).WithCause(err)
		}
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

// GetByID retrieves a product.
func (r *ProductRepo) GetByID(ctx context.Context, productID id.ID) (*catalog.Product, error) {
	q := r.baseSelect().Where(squirrel.Eq{"id": productID}).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p catalog.Product
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", productID)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	return &p, nil
}

// GetForUpdate retrieves a product with a pessimistic row lock. Concurrent
// movements on the same product queue behind this lock.
func (r *ProductRepo) GetForUpdate(ctx context.Context, productID id.ID) (*catalog.Product, error) {
	sql := `
		SELECT id, owner_id, sku, name, min_stock,
		       current_stock, average_cost, sale_price,
		       expiry_date, created_at, updated_at
		FROM products
		WHERE id = $1
		FOR UPDATE
	`

	var p catalog.Product
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &p, sql, productID); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", productID)
		}
		return nil, fmt.Errorf("get product for update: %w", err)
	}

	return &p, nil
}

// ListByOwner retrieves the owner's products ordered by name.
func (r *ProductRepo) ListByOwner(ctx context.Context, ownerID id.ID, filter catalog.ListFilter) ([]catalog.Product, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("name ASC")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"sku": pattern},
		})
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

	var products []catalog.Product
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &products, sql, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return products, nil
}

// ApplyMovement persists the stock/cost state produced by a ledger movement.
// A nil expiry preserves the stored value.
func (r *ProductRepo) ApplyMovement(ctx context.Context, productID id.ID, stock int64, averageCost types.Money, expiry *time.Time) error {
	q := r.builder.Update(productsTable).
		Set("current_stock", stock).
		Set("average_cost", averageCost).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": productID})

	if expiry != nil {
		q = q.Set("expiry_date", *expiry)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("apply movement: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("product", productID)
	}

	return nil
}

// UpdateSalePrice changes the listed sale price only.
func (r *ProductRepo) UpdateSalePrice(ctx context.Context, productID id.ID, price types.Money) error {
	q := r.builder.Update(productsTable).
		Set("sale_price", price).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update sale price: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("product", productID)
	}

	return nil
}

// Delete removes the product; its movements go with it (ON DELETE CASCADE).
func (r *ProductRepo) Delete(ctx context.Context, productID id.ID) error {
	q := r.builder.Delete(productsTable).Where(squirrel.Eq{"id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("product", productID)
	}

	return nil
}

// FindLowStock retrieves products whose stock fell below their minimum.
func (r *ProductRepo) FindLowStock(ctx context.Context, ownerID id.ID) ([]catalog.Product, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"owner_id": ownerID}).
		Where("current_stock < min_stock").
		OrderBy("name ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var products []catalog.Product
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &products, sql, args...); err != nil {
		return nil, fmt.Errorf("find low stock: %w", err)
	}

	return products, nil
}
