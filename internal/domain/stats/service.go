package stats

import (
	"context"
	"sort"
	"time"

	"balcao/internal/core/id"
	"balcao/internal/core/types"
	"balcao/internal/domain/ledger"
	"balcao/pkg/logger"
)

// Repository is the subset of ledger persistence the aggregator reads.
type Repository interface {
	ListExitsByOwner(ctx context.Context, ownerID id.ID) ([]ledger.MovementWithProduct, error)
}

// Cache is a read-through cache for the owner summary. The datastore stays
// normalized; this only shortcuts repeated dashboard reads.
type Cache interface {
	GetSummary(ctx context.Context, ownerID id.ID) (*Summary, bool, error)
	SetSummary(ctx context.Context, ownerID id.ID, s *Summary, ttl time.Duration) error
	Invalidate(ctx context.Context, ownerID id.ID) error
}

// NoopCache satisfies Cache without caching anything.
type NoopCache struct{}

func (NoopCache) GetSummary(context.Context, id.ID) (*Summary, bool, error) { return nil, false, nil }
func (NoopCache) SetSummary(context.Context, id.ID, *Summary, time.Duration) error {
	return nil
}
func (NoopCache) Invalidate(context.Context, id.ID) error { return nil }

// Service computes profit aggregates by scanning exit rows.
type Service struct {
	repo       Repository
	cache      Cache
	summaryTTL time.Duration
}

// NewService creates a new stats service. A nil cache disables caching.
func NewService(repo Repository, cache Cache) *Service {
	if cache == nil {
		cache = NoopCache{}
	}
	return &Service{
		repo:       repo,
		cache:      cache,
		summaryTTL: 30 * time.Second,
	}
}

// realizedShare is the profit attributable to the collected portion of a
// sale. Cost of goods is apportioned to the fraction of the sale actually
// paid:
//
//	realized = amount_paid - cost_at * (amount_paid / unit_price)
//
// A zero unit price would divide by zero; such rows contribute nothing
// (their amount_paid is clamped to the zero total anyway).
func realizedShare(m *ledger.Movement) types.Money {
	if m.UnitCost.IsZero() {
		return types.Zero()
	}
	unitsPaid := m.AmountPaid.Div(m.UnitCost)
	return m.AmountPaid.Sub(m.CostAtTransaction.Mul(unitsPaid))
}

// pendingShare applies the same proportional logic to the unpaid remainder
// of a pending sale.
func pendingShare(m *ledger.Movement) types.Money {
	if m.Status != ledger.StatusPending {
		return types.Zero()
	}
	if m.UnitCost.IsZero() {
		return types.Zero()
	}
	remainder := m.Outstanding()
	unitsOwed := remainder.Div(m.UnitCost)
	return remainder.Sub(m.CostAtTransaction.Mul(unitsOwed))
}

// Summary returns the owner's realized and pending profit.
func (s *Service) Summary(ctx context.Context, ownerID id.ID) (Summary, error) {
	if cached, ok, err := s.cache.GetSummary(ctx, ownerID); err != nil {
		logger.Warn(ctx, "stats cache read failed", "error", err)
	} else if ok {
		return *cached, nil
	}

	rows, err := s.repo.ListExitsByOwner(ctx, ownerID)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		RealizedProfit: types.Zero(),
		PendingProfit:  types.Zero(),
	}
	for i := range rows {
		mv := &rows[i].Movement
		summary.RealizedProfit = summary.RealizedProfit.Add(realizedShare(mv))
		summary.PendingProfit = summary.PendingProfit.Add(pendingShare(mv))
	}

	if err := s.cache.SetSummary(ctx, ownerID, &summary, s.summaryTTL); err != nil {
		logger.Warn(ctx, "stats cache write failed", "error", err)
	}

	return summary, nil
}

// ProductStats groups exit rows by product, summing sold units and realized
// profit, sorted by profit descending.
func (s *Service) ProductStats(ctx context.Context, ownerID id.ID) ([]ProductStat, error) {
	rows, err := s.repo.ListExitsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	byProduct := make(map[id.ID]*ProductStat)
	order := make([]id.ID, 0)
	for i := range rows {
		row := &rows[i]
		stat, ok := byProduct[row.ProductID]
		if !ok {
			stat = &ProductStat{
				ProductID: row.ProductID.String(),
				Name:      row.ProductName,
				SKU:       row.ProductSKU,
				Profit:    types.Zero(),
			}
			byProduct[row.ProductID] = stat
			order = append(order, row.ProductID)
		}
		stat.TotalSold += row.Quantity
		stat.Profit = stat.Profit.Add(realizedShare(&row.Movement))
	}

	result := make([]ProductStat, 0, len(order))
	for _, pid := range order {
		result = append(result, *byProduct[pid])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Profit.GreaterThan(result[j].Profit)
	})

	return result, nil
}

// MonthlyStats returns realized profit per year-month bucket for the
// trailing months window ending at the current month, oldest first.
// Months without sales appear with zero profit.
func (s *Service) MonthlyStats(ctx context.Context, ownerID id.ID, months int) ([]PeriodStat, error) {
	if months <= 0 {
		months = 1
	}

	rows, err := s.repo.ListExitsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	byPeriod := make(map[string]types.Money)
	for i := range rows {
		mv := &rows[i].Movement
		period := mv.CreatedAt.UTC().Format("2006-01")
		byPeriod[period] = byPeriod[period].Add(realizedShare(mv))
	}

	now := time.Now().UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, -(months - 1), 0)

	result := make([]PeriodStat, 0, months)
	for i := 0; i < months; i++ {
		period := first.AddDate(0, i, 0).Format("2006-01")
		profit, ok := byPeriod[period]
		if !ok {
			profit = types.Zero()
		}
		result = append(result, PeriodStat{Period: period, Profit: profit})
	}

	return result, nil
}

// Invalidate drops the cached summary for the owner. Movement and payment
// writers call it after committing.
func (s *Service) Invalidate(ctx context.Context, ownerID id.ID) {
	if err := s.cache.Invalidate(ctx, ownerID); err != nil {
		logger.Warn(ctx, "stats cache invalidation failed", "error", err)
	}
}
