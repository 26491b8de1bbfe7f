package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"balcao/internal/core/apperror"
	"balcao/internal/core/id"
	"balcao/internal/core/types"
)

type memRepo struct {
	items map[id.ID]*Product
}

func newMemRepo() *memRepo {
	return &memRepo{items: make(map[id.ID]*Product)}
}

func (m *memRepo) Create(_ context.Context, p *Product) error {
	for _, existing := range m.items {
		if existing.OwnerID == p.OwnerID && existing.SKU == p.SKU {
			return apperror.NewDuplicateSKU(p.SKU)
		}
	}
	cp := *p
	m.items[p.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(_ context.Context, productID id.ID) (*Product, error) {
	p, ok := m.items[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID)
	}
	cp := *p
	return &cp, nil
}

func (m *memRepo) GetForUpdate(ctx context.Context, productID id.ID) (*Product, error) {
	return m.GetByID(ctx, productID)
}

func (m *memRepo) ListByOwner(_ context.Context, ownerID id.ID, filter ListFilter) ([]Product, error) {
	var out []Product
	for _, p := range m.items {
		if p.OwnerID == ownerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memRepo) ApplyMovement(_ context.Context, productID id.ID, stock int64, averageCost types.Money, expiry *time.Time) error {
	p, ok := m.items[productID]
	if !ok {
		return apperror.NewNotFound("product", productID)
	}
	p.CurrentStock = stock
	p.AverageCost = averageCost
	if expiry != nil {
		p.ExpiryDate = expiry
	}
	return nil
}

func (m *memRepo) UpdateSalePrice(_ context.Context, productID id.ID, price types.Money) error {
	p, ok := m.items[productID]
	if !ok {
		return apperror.NewNotFound("product", productID)
	}
	p.SalePrice = price
	return nil
}

func (m *memRepo) Delete(_ context.Context, productID id.ID) error {
	delete(m.items, productID)
	return nil
}

func (m *memRepo) FindLowStock(_ context.Context, ownerID id.ID) ([]Product, error) {
	var out []Product
	for _, p := range m.items {
		if p.OwnerID == ownerID && p.BelowMinStock() {
			out = append(out, *p)
		}
	}
	return out, nil
}

func TestCreate(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	owner := id.New()

	p, err := svc.Create(context.Background(), CreateInput{
		OwnerID: owner, Name: "  Coffee Beans ", SKU: " CF-001 ", MinStock: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, "Coffee Beans", p.Name)
	assert.Equal(t, "CF-001", p.SKU)
	assert.Equal(t, int64(5), p.MinStock)
	assert.Equal(t, int64(0), p.CurrentStock)
	assert.True(t, p.AverageCost.IsZero())
	assert.False(t, id.IsNil(p.ID))
}

func TestCreate_DuplicateSKU(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	owner := id.New()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{OwnerID: owner, Name: "Coffee", SKU: "CF-001"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateInput{OwnerID: owner, Name: "Other Coffee", SKU: "CF-001"})
	require.Error(t, err)
	assert.True(t, apperror.IsDuplicateSKU(err))

	// A different owner may reuse the SKU.
	_, err = svc.Create(ctx, CreateInput{OwnerID: id.New(), Name: "Coffee", SKU: "CF-001"})
	assert.NoError(t, err)
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()
	owner := id.New()

	_, err := svc.Create(ctx, CreateInput{OwnerID: owner, Name: "", SKU: "X"})
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.Create(ctx, CreateInput{OwnerID: owner, Name: "X", SKU: "   "})
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.Create(ctx, CreateInput{OwnerID: owner, Name: "X", SKU: "X", MinStock: -1})
	assert.True(t, apperror.IsValidation(err))
}

func TestGetByID_OwnerScoped(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	owner := id.New()
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateInput{OwnerID: owner, Name: "Coffee", SKU: "CF-001"})
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, owner, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	// Foreign products look like they do not exist.
	_, err = svc.GetByID(ctx, id.New(), p.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestUpdateSalePrice(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	owner := id.New()
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateInput{OwnerID: owner, Name: "Coffee", SKU: "CF-001"})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateSalePrice(ctx, owner, p.ID, types.MustMoney("12.50")))
	assert.True(t, repo.items[p.ID].SalePrice.Equal(types.MustMoney("12.50")))

	err = svc.UpdateSalePrice(ctx, owner, p.ID, types.MustMoney("-1"))
	assert.True(t, apperror.IsValidation(err))

	err = svc.UpdateSalePrice(ctx, owner, id.New(), types.MustMoney("1"))
	assert.True(t, apperror.IsNotFound(err))
}

func TestDelete(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	owner := id.New()
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateInput{OwnerID: owner, Name: "Coffee", SKU: "CF-001"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, owner, p.ID))
	_, err = svc.GetByID(ctx, owner, p.ID)
	assert.True(t, apperror.IsNotFound(err))

	err = svc.Delete(ctx, owner, p.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestFindLowStock(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	owner := id.New()
	ctx := context.Background()

	low, err := svc.Create(ctx, CreateInput{OwnerID: owner, Name: "Coffee", SKU: "CF-001", MinStock: 10})
	require.NoError(t, err)
	ok, err := svc.Create(ctx, CreateInput{OwnerID: owner, Name: "Tea", SKU: "TE-002", MinStock: 5})
	require.NoError(t, err)

	repo.items[low.ID].CurrentStock = 3
	repo.items[ok.ID].CurrentStock = 5

	products, err := svc.FindLowStock(ctx, owner)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, low.ID, products[0].ID)
}
