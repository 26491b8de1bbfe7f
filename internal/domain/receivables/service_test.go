package receivables

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
	"balcao/internal/domain/ledger"
)

type memTx struct {
	mu sync.Mutex
}

func (m *memTx) RunInTransaction(_ context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(context.Background())
}

// memLedger holds movements keyed by owner, mimicking the product join the
// real store uses for ownership.
type memLedger struct {
	rows   []*ledger.MovementWithProduct
	owners map[id.ID]id.ID
}

func newMemLedger() *memLedger {
	return &memLedger{owners: make(map[id.ID]id.ID)}
}

func (m *memLedger) add(owner id.ID, mv ledger.Movement, productName, productSKU string) *ledger.Movement {
	row := &ledger.MovementWithProduct{
		Movement:    mv,
		ProductName: productName,
		ProductSKU:  productSKU,
	}
	m.rows = append(m.rows, row)
	m.owners[mv.ID] = owner
	return &row.Movement
}

func (m *memLedger) GetForUpdate(_ context.Context, ownerID, movementID id.ID) (*ledger.Movement, error) {
	for _, row := range m.rows {
		if row.ID == movementID && m.owners[movementID] == ownerID {
			cp := row.Movement
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("movement", movementID)
}

func (m *memLedger) UpdatePayment(_ context.Context, movementID id.ID, amountPaid types.Money, status ledger.PaymentStatus) error {
	for _, row := range m.rows {
		if row.ID == movementID {
			row.AmountPaid = amountPaid
			row.Status = status
			return nil
		}
	}
	return apperror.NewNotFound("movement", movementID)
}

func (m *memLedger) ListPendingByOwner(_ context.Context, ownerID id.ID) ([]ledger.MovementWithProduct, error) {
	var out []ledger.MovementWithProduct
	for i := len(m.rows) - 1; i >= 0; i-- {
		row := m.rows[i]
		if row.Type == ledger.TypeExit && row.Status == ledger.StatusPending && m.owners[row.ID] == ownerID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func pendingExit(quantity int64, unitPrice, costAt string, client string, at time.Time) ledger.Movement {
	return ledger.Movement{
		ID:                id.New(),
		ProductID:         id.New(),
		Type:              ledger.TypeExit,
		Quantity:          quantity,
		UnitCost:          types.MustMoney(unitPrice),
		CostAtTransaction: types.MustMoney(costAt),
		Status:            ledger.StatusPending,
		AmountPaid:        types.Zero(),
		ClientName:        &client,
		CreatedAt:         at,
	}
}

func money(s string) *types.Money {
	m := types.MustMoney(s)
	return &m
}

func TestRecordPayment_PartialThenSettled(t *testing.T) {
	owner := id.New()
	store := newMemLedger()
	// 10 units at 10 each: total 100.
	mv := store.add(owner, pendingExit(10, "10", "6", "Ana", time.Now().UTC()), "Coffee", "CF-1")
	svc := NewService(store, &memTx{})
	ctx := context.Background()

	result, err := svc.RecordPayment(ctx, owner, mv.ID, money("40"))
	require.NoError(t, err)
	assert.True(t, result.AmountPaid.Equal(types.MustMoney("40")))
	assert.Equal(t, ledger.StatusPending, result.Status)

	result, err = svc.RecordPayment(ctx, owner, mv.ID, money("60"))
	require.NoError(t, err)
	assert.True(t, result.AmountPaid.Equal(types.MustMoney("100")))
	assert.Equal(t, ledger.StatusPaid, result.Status)
}

func TestRecordPayment_OverpaymentClamped(t *testing.T) {
	owner := id.New()
	store := newMemLedger()
	mv := store.add(owner, pendingExit(10, "10", "6", "Ana", time.Now().UTC()), "Coffee", "CF-1")
	svc := NewService(store, &memTx{})

	result, err := svc.RecordPayment(context.Background(), owner, mv.ID, money("150"))
	require.NoError(t, err)
	assert.True(t, result.AmountPaid.Equal(types.MustMoney("100")),
		"amount paid: got %s", result.AmountPaid)
	assert.Equal(t, ledger.StatusPaid, result.Status)
}

func TestRecordPayment_NilAmountSettlesInFull(t *testing.T) {
	owner := id.New()
	store := newMemLedger()
	mv := store.add(owner, pendingExit(4, "25", "10", "rui", time.Now().UTC()), "Tea", "TE-2")
	svc := NewService(store, &memTx{})
	ctx := context.Background()

	_, err := svc.RecordPayment(ctx, owner, mv.ID, money("30"))
	require.NoError(t, err)

	result, err := svc.RecordPayment(ctx, owner, mv.ID, nil)
	require.NoError(t, err)
	assert.True(t, result.AmountPaid.Equal(types.MustMoney("100")))
	assert.Equal(t, ledger.StatusPaid, result.Status)
}

func TestRecordPayment_PaidIsTerminal(t *testing.T) {
	owner := id.New()
	store := newMemLedger()
	mv := store.add(owner, pendingExit(2, "50", "20", "Bia", time.Now().UTC()), "Mug", "MG-3")
	svc := NewService(store, &memTx{})
	ctx := context.Background()

	_, err := svc.RecordPayment(ctx, owner, mv.ID, nil)
	require.NoError(t, err)

	// Paying again is a no-op returning the settled state unchanged.
	result, err := svc.RecordPayment(ctx, owner, mv.ID, money("999"))
	require.NoError(t, err)
	assert.True(t, result.AmountPaid.Equal(types.MustMoney("100")))
	assert.Equal(t, ledger.StatusPaid, result.Status)
}

func TestRecordPayment_RejectsEntryMovement(t *testing.T) {
	owner := id.New()
	store := newMemLedger()
	entry := ledger.Movement{
		ID:                id.New(),
		ProductID:         id.New(),
		Type:              ledger.TypeEntry,
		Quantity:          5,
		UnitCost:          types.MustMoney("3"),
		CostAtTransaction: types.MustMoney("3"),
		Status:            ledger.StatusPaid,
		AmountPaid:        types.MustMoney("15"),
		CreatedAt:         time.Now().UTC(),
	}
	mv := store.add(owner, entry, "Sugar", "SG-4")
	svc := NewService(store, &memTx{})

	_, err := svc.RecordPayment(context.Background(), owner, mv.ID, money("5"))
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestRecordPayment_NegativeAmountRejected(t *testing.T) {
	svc := NewService(newMemLedger(), &memTx{})

	_, err := svc.RecordPayment(context.Background(), id.New(), id.New(), money("-1"))
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestRecordPayment_ForeignMovementNotFound(t *testing.T) {
	owner := id.New()
	store := newMemLedger()
	mv := store.add(owner, pendingExit(1, "10", "5", "Leo", time.Now().UTC()), "Pen", "PN-5")
	svc := NewService(store, &memTx{})

	_, err := svc.RecordPayment(context.Background(), id.New(), mv.ID, money("5"))
	assert.True(t, apperror.IsNotFound(err))
}

func TestListReceivables(t *testing.T) {
	owner := id.New()
	store := newMemLedger()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	// 5 units at 30, cost basis 10: expected profit 100.
	older := store.add(owner, pendingExit(5, "30", "10", "Ana", base), "Coffee", "CF-1")
	// 2 units at 15, cost basis 12: expected profit 6.
	newer := store.add(owner, pendingExit(2, "15", "12", "rui", base.Add(time.Hour)), "Tea", "TE-2")
	// Settled sales never appear.
	settled := pendingExit(1, "99", "1", "Bia", base.Add(2*time.Hour))
	settled.Status = ledger.StatusPaid
	settled.AmountPaid = types.MustMoney("99")
	store.add(owner, settled, "Mug", "MG-3")
	// Other owners' rows never appear.
	store.add(id.New(), pendingExit(9, "9", "9", "x", base), "Other", "OT-9")

	svc := NewService(store, &memTx{})
	items, err := svc.ListReceivables(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Newest first.
	assert.Equal(t, newer.ID, items[0].ID)
	assert.Equal(t, older.ID, items[1].ID)

	assert.True(t, items[0].ExpectedProfit.Equal(types.MustMoney("6")))
	assert.True(t, items[1].ExpectedProfit.Equal(types.MustMoney("100")))
	assert.Equal(t, "Coffee", items[1].ProductName)
	assert.True(t, items[1].Outstanding().Equal(types.MustMoney("150")))
}
