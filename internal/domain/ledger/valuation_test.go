package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"balcao/internal/core/apperror"
	"balcao/internal/core/types"
)

func TestApplyEntry_WeightedAverage(t *testing.T) {
	tests := []struct {
		name        string
		stock       int64
		averageCost string
		quantity    int64
		unitCost    string
		wantStock   int64
		wantAverage string
	}{
		{
			name:  "first purchase sets the average",
			stock: 0, averageCost: "0",
			quantity: 10, unitCost: "5",
			wantStock: 10, wantAverage: "5",
		},
		{
			name:  "equal batches average the costs",
			stock: 10, averageCost: "5",
			quantity: 10, unitCost: "15",
			wantStock: 20, wantAverage: "10",
		},
		{
			name:  "unequal batches weight by quantity",
			stock: 30, averageCost: "10",
			quantity: 10, unitCost: "20",
			wantStock: 40, wantAverage: "12.5",
		},
		{
			name:  "zero cost batch dilutes the average",
			stock: 10, averageCost: "10",
			quantity: 10, unitCost: "0",
			wantStock: 20, wantAverage: "5",
		},
		{
			name:  "same cost leaves the average unchanged",
			stock: 7, averageCost: "3.33",
			quantity: 13, unitCost: "3.33",
			wantStock: 20, wantAverage: "3.33",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ApplyEntry(tt.stock, types.MustMoney(tt.averageCost), tt.quantity, types.MustMoney(tt.unitCost))
			require.NoError(t, err)

			assert.Equal(t, tt.wantStock, res.NewStock)
			assert.True(t, res.NewAverageCost.Equal(types.MustMoney(tt.wantAverage)),
				"average cost: want %s, got %s", tt.wantAverage, res.NewAverageCost)
		})
	}
}

func TestApplyEntry_Invalid(t *testing.T) {
	_, err := ApplyEntry(10, types.MustMoney("5"), 0, types.MustMoney("1"))
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	_, err = ApplyEntry(10, types.MustMoney("5"), -3, types.MustMoney("1"))
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	_, err = ApplyEntry(10, types.MustMoney("5"), 1, types.MustMoney("-1"))
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestApplyExit(t *testing.T) {
	newStock, err := ApplyExit(10, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(6), newStock)

	// Selling everything is fine.
	newStock, err = ApplyExit(10, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), newStock)
}

func TestApplyExit_InsufficientStock(t *testing.T) {
	_, err := ApplyExit(3, 5)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, int64(5), appErr.Details["requested"])
	assert.Equal(t, int64(3), appErr.Details["available"])
}

func TestApplyExit_Invalid(t *testing.T) {
	_, err := ApplyExit(10, 0)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}
