package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"balcao/internal/core/apperror"
	"balcao/internal/core/id"
	"balcao/internal/core/types"
	"balcao/internal/domain/catalog"
)

// memTx serializes transaction callbacks with a mutex, standing in for the
// row locks the real store provides.
type memTx struct {
	mu sync.Mutex
}

func (m *memTx) RunInTransaction(_ context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(context.Background())
}

type memProducts struct {
	items map[id.ID]*catalog.Product
}

func newMemProducts(products ...*catalog.Product) *memProducts {
	m := &memProducts{items: make(map[id.ID]*catalog.Product)}
	for _, p := range products {
		cp := *p
		m.items[p.ID] = &cp
	}
	return m
}

func (m *memProducts) Create(_ context.Context, p *catalog.Product) error {
	cp := *p
	m.items[p.ID] = &cp
	return nil
}

func (m *memProducts) GetByID(_ context.Context, productID id.ID) (*catalog.Product, error) {
	p, ok := m.items[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID)
	}
	cp := *p
	return &cp, nil
}

func (m *memProducts) GetForUpdate(ctx context.Context, productID id.ID) (*catalog.Product, error) {
	return m.GetByID(ctx, productID)
}

func (m *memProducts) ListByOwner(_ context.Context, ownerID id.ID, _ catalog.ListFilter) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range m.items {
		if p.OwnerID == ownerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memProducts) ApplyMovement(_ context.Context, productID id.ID, stock int64, averageCost types.Money, expiry *time.Time) error {
	p, ok := m.items[productID]
	if !ok {
		return apperror.NewNotFound("product", productID)
	}
	p.CurrentStock = stock
	p.AverageCost = averageCost
	if expiry != nil {
		p.ExpiryDate = expiry
	}
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *memProducts) UpdateSalePrice(_ context.Context, productID id.ID, price types.Money) error {
	p, ok := m.items[productID]
	if !ok {
		return apperror.NewNotFound("product", productID)
	}
	p.SalePrice = price
	return nil
}

func (m *memProducts) Delete(_ context.Context, productID id.ID) error {
	delete(m.items, productID)
	return nil
}

func (m *memProducts) FindLowStock(_ context.Context, ownerID id.ID) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range m.items {
		if p.OwnerID == ownerID && p.BelowMinStock() {
			out = append(out, *p)
		}
	}
	return out, nil
}

type memMovements struct {
	products *memProducts
	rows     []*Movement
}

func newMemMovements(products *memProducts) *memMovements {
	return &memMovements{products: products}
}

func (m *memMovements) Insert(_ context.Context, mv *Movement) error {
	cp := *mv
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *memMovements) GetByID(_ context.Context, movementID id.ID) (*Movement, error) {
	for _, mv := range m.rows {
		if mv.ID == movementID {
			cp := *mv
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("movement", movementID)
}

func (m *memMovements) GetForUpdate(_ context.Context, ownerID, movementID id.ID) (*Movement, error) {
	for _, mv := range m.rows {
		if mv.ID != movementID {
			continue
		}
		p, ok := m.products.items[mv.ProductID]
		if !ok || p.OwnerID != ownerID {
			break
		}
		cp := *mv
		return &cp, nil
	}
	return nil, apperror.NewNotFound("movement", movementID)
}

func (m *memMovements) UpdatePayment(_ context.Context, movementID id.ID, amountPaid types.Money, status PaymentStatus) error {
	for _, mv := range m.rows {
		if mv.ID == movementID {
			mv.AmountPaid = amountPaid
			mv.Status = status
			return nil
		}
	}
	return apperror.NewNotFound("movement", movementID)
}

func (m *memMovements) ListByProduct(_ context.Context, productID id.ID, filter ListFilter) ([]Movement, error) {
	var out []Movement
	for i := len(m.rows) - 1; i >= 0; i-- {
		mv := m.rows[i]
		if mv.ProductID != productID {
			continue
		}
		if filter.Type != nil && mv.Type != *filter.Type {
			continue
		}
		out = append(out, *mv)
	}
	return out, nil
}

func (m *memMovements) joined(mv *Movement) (MovementWithProduct, bool) {
	p, ok := m.products.items[mv.ProductID]
	if !ok {
		return MovementWithProduct{}, false
	}
	return MovementWithProduct{
		Movement:    *mv,
		ProductName: p.Name,
		ProductSKU:  p.SKU,
	}, true
}

func (m *memMovements) ListExitsByOwner(_ context.Context, ownerID id.ID) ([]MovementWithProduct, error) {
	var out []MovementWithProduct
	for _, mv := range m.rows {
		if mv.Type != TypeExit {
			continue
		}
		row, ok := m.joined(mv)
		if !ok || m.products.items[mv.ProductID].OwnerID != ownerID {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (m *memMovements) ListPendingByOwner(_ context.Context, ownerID id.ID) ([]MovementWithProduct, error) {
	var out []MovementWithProduct
	for i := len(m.rows) - 1; i >= 0; i-- {
		mv := m.rows[i]
		if mv.Type != TypeExit || mv.Status != StatusPending {
			continue
		}
		row, ok := m.joined(mv)
		if !ok || m.products.items[mv.ProductID].OwnerID != ownerID {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func testProduct(owner id.ID, stock int64, averageCost string) *catalog.Product {
	p := catalog.NewProduct(owner, "Test Product", "SKU-1", 0)
	p.CurrentStock = stock
	p.AverageCost = types.MustMoney(averageCost)
	return p
}

func newLedgerService(products *memProducts) (*Service, *memMovements) {
	movements := newMemMovements(products)
	return NewService(products, movements, &memTx{}), movements
}

func TestRecordEntry_UpdatesStockAndAverage(t *testing.T) {
	owner := id.New()
	p := testProduct(owner, 10, "5")
	products := newMemProducts(p)
	svc, movements := newLedgerService(products)

	mv, err := svc.RecordEntry(context.Background(), EntryInput{
		OwnerID:   owner,
		ProductID: p.ID,
		Quantity:  10,
		UnitCost:  types.MustMoney("15"),
	})
	require.NoError(t, err)

	stored := products.items[p.ID]
	assert.Equal(t, int64(20), stored.CurrentStock)
	assert.True(t, stored.AverageCost.Equal(types.MustMoney("10")),
		"average cost: got %s", stored.AverageCost)

	// The row freezes the post-mutation average as cost basis.
	assert.Equal(t, TypeEntry, mv.Type)
	assert.True(t, mv.CostAtTransaction.Equal(types.MustMoney("10")))
	assert.Equal(t, StatusPaid, mv.Status)
	assert.True(t, mv.AmountPaid.Equal(types.MustMoney("150")))
	assert.Len(t, movements.rows, 1)
}

func TestRecordEntry_ExpiryPolicy(t *testing.T) {
	owner := id.New()
	oldExpiry := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	newExpiry := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	p := testProduct(owner, 0, "0")
	p.ExpiryDate = &oldExpiry
	products := newMemProducts(p)
	svc, _ := newLedgerService(products)

	// Omitted expiry preserves the stored one.
	mv, err := svc.RecordEntry(context.Background(), EntryInput{
		OwnerID: owner, ProductID: p.ID, Quantity: 5, UnitCost: types.MustMoney("1"),
	})
	require.NoError(t, err)
	require.NotNil(t, products.items[p.ID].ExpiryDate)
	assert.Equal(t, oldExpiry, *products.items[p.ID].ExpiryDate)
	require.NotNil(t, mv.ExpiryDate)
	assert.Equal(t, oldExpiry, *mv.ExpiryDate)

	// An explicit expiry replaces it.
	mv, err = svc.RecordEntry(context.Background(), EntryInput{
		OwnerID: owner, ProductID: p.ID, Quantity: 5, UnitCost: types.MustMoney("1"),
		ExpiryDate: &newExpiry,
	})
	require.NoError(t, err)
	assert.Equal(t, newExpiry, *products.items[p.ID].ExpiryDate)
	assert.Equal(t, newExpiry, *mv.ExpiryDate)
}

func TestRecordEntry_Validation(t *testing.T) {
	owner := id.New()
	p := testProduct(owner, 0, "0")
	svc, movements := newLedgerService(newMemProducts(p))

	_, err := svc.RecordEntry(context.Background(), EntryInput{
		OwnerID: owner, ProductID: p.ID, Quantity: 0, UnitCost: types.MustMoney("1"),
	})
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.RecordEntry(context.Background(), EntryInput{
		OwnerID: owner, ProductID: p.ID, Quantity: 1, UnitCost: types.MustMoney("-1"),
	})
	assert.True(t, apperror.IsValidation(err))

	assert.Empty(t, movements.rows)
}

func TestRecordEntry_ForeignProductNotFound(t *testing.T) {
	owner := id.New()
	p := testProduct(id.New(), 10, "5")
	svc, movements := newLedgerService(newMemProducts(p))

	_, err := svc.RecordEntry(context.Background(), EntryInput{
		OwnerID: owner, ProductID: p.ID, Quantity: 1, UnitCost: types.MustMoney("1"),
	})
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, movements.rows)
}

func TestRecordExit_DecrementsStockKeepsAverage(t *testing.T) {
	owner := id.New()
	p := testProduct(owner, 20, "10")
	products := newMemProducts(p)
	svc, _ := newLedgerService(products)

	mv, err := svc.RecordExit(context.Background(), ExitInput{
		OwnerID:   owner,
		ProductID: p.ID,
		Quantity:  5,
		UnitPrice: types.MustMoney("25"),
		Status:    StatusPaid,
	})
	require.NoError(t, err)

	stored := products.items[p.ID]
	assert.Equal(t, int64(15), stored.CurrentStock)
	assert.True(t, stored.AverageCost.Equal(types.MustMoney("10")))

	// The row freezes the pre-mutation average as cost basis.
	assert.True(t, mv.CostAtTransaction.Equal(types.MustMoney("10")))
	assert.True(t, mv.AmountPaid.Equal(types.MustMoney("125")))
	assert.Equal(t, StatusPaid, mv.Status)
}

func TestRecordExit_PendingStartsUnpaid(t *testing.T) {
	owner := id.New()
	p := testProduct(owner, 10, "4")
	svc, _ := newLedgerService(newMemProducts(p))

	mv, err := svc.RecordExit(context.Background(), ExitInput{
		OwnerID:    owner,
		ProductID:  p.ID,
		Quantity:   2,
		UnitPrice:  types.MustMoney("9"),
		Status:     StatusPending,
		ClientName: "Maria",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, mv.Status)
	assert.True(t, mv.AmountPaid.IsZero())
	require.NotNil(t, mv.ClientName)
	assert.Equal(t, "Maria", *mv.ClientName)
	assert.True(t, mv.Outstanding().Equal(types.MustMoney("18")))
}

func TestRecordExit_PendingRequiresClientName(t *testing.T) {
	owner := id.New()
	p := testProduct(owner, 10, "4")
	svc, movements := newLedgerService(newMemProducts(p))

	_, err := svc.RecordExit(context.Background(), ExitInput{
		OwnerID: owner, ProductID: p.ID, Quantity: 1,
		UnitPrice: types.MustMoney("9"), Status: StatusPending,
	})
	assert.True(t, apperror.IsValidation(err))
	assert.Empty(t, movements.rows)
}

func TestRecordExit_InsufficientStockLeavesNoTrace(t *testing.T) {
	owner := id.New()
	p := testProduct(owner, 3, "10")
	products := newMemProducts(p)
	svc, movements := newLedgerService(products)

	_, err := svc.RecordExit(context.Background(), ExitInput{
		OwnerID: owner, ProductID: p.ID, Quantity: 5,
		UnitPrice: types.MustMoney("20"), Status: StatusPaid,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, p.ID.String(), appErr.Details["product_id"])

	// The rejected sale left neither a ledger row nor a stock change.
	assert.Empty(t, movements.rows)
	assert.Equal(t, int64(3), products.items[p.ID].CurrentStock)
}

func TestRecordExit_InvalidStatus(t *testing.T) {
	owner := id.New()
	p := testProduct(owner, 10, "4")
	svc, _ := newLedgerService(newMemProducts(p))

	_, err := svc.RecordExit(context.Background(), ExitInput{
		OwnerID: owner, ProductID: p.ID, Quantity: 1,
		UnitPrice: types.MustMoney("9"), Status: "SETTLED",
	})
	assert.True(t, apperror.IsValidation(err))
}

func TestRecordExit_ConcurrentExitsNeverOversell(t *testing.T) {
	owner := id.New()
	p := testProduct(owner, 10, "5")
	products := newMemProducts(p)
	svc, movements := newLedgerService(products)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.RecordExit(context.Background(), ExitInput{
				OwnerID: owner, ProductID: p.ID, Quantity: 8,
				UnitPrice: types.MustMoney("10"), Status: StatusPaid,
			})
		}(i)
	}
	wg.Wait()

	var succeeded, rejected int
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else if apperror.IsInsufficientStock(err) {
			rejected++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, rejected)
	assert.Equal(t, int64(2), products.items[p.ID].CurrentStock)
	assert.Len(t, movements.rows, 1)
}

func TestRecordExit_ConcurrentHalvesDrainExactly(t *testing.T) {
	owner := id.New()
	p := testProduct(owner, 10, "5")
	products := newMemProducts(p)
	svc, movements := newLedgerService(products)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RecordExit(context.Background(), ExitInput{
				OwnerID: owner, ProductID: p.ID, Quantity: 5,
				UnitPrice: types.MustMoney("10"), Status: StatusPaid,
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(0), products.items[p.ID].CurrentStock)
	assert.Len(t, movements.rows, 2)
}

func TestStockConservation(t *testing.T) {
	owner := id.New()
	p := testProduct(owner, 0, "0")
	products := newMemProducts(p)
	svc, movements := newLedgerService(products)
	ctx := context.Background()

	_, err := svc.RecordEntry(ctx, EntryInput{OwnerID: owner, ProductID: p.ID, Quantity: 100, UnitCost: types.MustMoney("2")})
	require.NoError(t, err)
	_, err = svc.RecordExit(ctx, ExitInput{OwnerID: owner, ProductID: p.ID, Quantity: 30, UnitPrice: types.MustMoney("5"), Status: StatusPaid})
	require.NoError(t, err)
	_, err = svc.RecordEntry(ctx, EntryInput{OwnerID: owner, ProductID: p.ID, Quantity: 20, UnitCost: types.MustMoney("3")})
	require.NoError(t, err)
	_, err = svc.RecordExit(ctx, ExitInput{OwnerID: owner, ProductID: p.ID, Quantity: 40, UnitPrice: types.MustMoney("5"), Status: StatusPaid})
	require.NoError(t, err)

	// Stock equals entries minus exits across the whole history.
	var entries, exits int64
	for _, mv := range movements.rows {
		switch mv.Type {
		case TypeEntry:
			entries += mv.Quantity
		case TypeExit:
			exits += mv.Quantity
		}
	}
	assert.Equal(t, entries-exits, products.items[p.ID].CurrentStock)
	assert.Equal(t, int64(50), products.items[p.ID].CurrentStock)
}

func TestListByProduct(t *testing.T) {
	owner := id.New()
	p := testProduct(owner, 0, "0")
	svc, _ := newLedgerService(newMemProducts(p))
	ctx := context.Background()

	_, err := svc.RecordEntry(ctx, EntryInput{OwnerID: owner, ProductID: p.ID, Quantity: 10, UnitCost: types.MustMoney("1")})
	require.NoError(t, err)
	_, err = svc.RecordExit(ctx, ExitInput{OwnerID: owner, ProductID: p.ID, Quantity: 3, UnitPrice: types.MustMoney("2"), Status: StatusPaid})
	require.NoError(t, err)

	all, err := svc.ListByProduct(ctx, owner, p.ID, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	entryType := TypeEntry
	onlyEntries, err := svc.ListByProduct(ctx, owner, p.ID, ListFilter{Type: &entryType})
	require.NoError(t, err)
	require.Len(t, onlyEntries, 1)
	assert.Equal(t, TypeEntry, onlyEntries[0].Type)

	_, err = svc.ListByProduct(ctx, id.New(), p.ID, ListFilter{})
	assert.True(t, apperror.IsNotFound(err))
}
