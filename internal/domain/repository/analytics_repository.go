package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/nexus-bills/internal/domain/entity"
)

// BillFilter date-string bounds for read-only bill queries. Empty means unbounded.
type BillFilter struct {
	DateFrom   string // billDate >= DateFrom
	DateTo     string // billDate <= DateTo
	DateBefore string // billDate < DateBefore
}

// AnalyticsRepository read-only queries backing the dashboard.
type AnalyticsRepository interface {
	Count(ctx context.Context, tenantID string, stage entity.Stage, f BillFilter) (int64, error)

	// AggregateTotals sums totalAmount server side.
	AggregateTotals(ctx context.Context, tenantID string, stage entity.Stage) (entity.AmountTotals, error)

	// ScanAmounts reads every totalAmount for a manual sum when aggregation fails.
	ScanAmounts(ctx context.Context, tenantID string, stage entity.Stage) ([]decimal.Decimal, error)

	// CustomerNames returns customerName of every bill in natural store order.
	CustomerNames(ctx context.Context, tenantID string, stage entity.Stage) ([]string, error)

	// OldestBillDate smallest billDate matching f, "" when none.
	OldestBillDate(ctx context.Context, tenantID string, stage entity.Stage, f BillFilter) (string, error)
}
