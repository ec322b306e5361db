package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/nexus-bills/internal/application/analytics"
	"github.com/jhoicas/nexus-bills/internal/domain/entity"
	"github.com/jhoicas/nexus-bills/internal/infrastructure/memory"
)

var today = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func insert(t *testing.T, s *memory.BillStore, tenant string, stage entity.Stage, date, customer string, amount int64) {
	t.Helper()
	_, err := s.Insert(context.Background(), tenant, stage, &entity.Bill{
		BillDate:     date,
		CustomerName: customer,
		TotalAmount:  decimal.NewFromInt(amount),
	})
	require.NoError(t, err)
}

func TestGetDashboard_EmptyTenant(t *testing.T) {
	s := memory.NewBillStore()
	uc := analytics.NewDashboardUseCase(s, s, nil).WithClock(func() time.Time { return today })

	out, err := uc.GetDashboard(context.Background(), "t1")
	require.NoError(t, err)
	d := out.Data
	assert.Zero(t, d.Counts.TotalBills)
	assert.True(t, d.Totals.Kacha.Amount.IsZero())
	assert.Zero(t, d.Totals.Kacha.Count)
	assert.True(t, d.Totals.AverageBillAmount.IsZero())
	assert.Len(t, d.MonthlyTrends, 6)
	assert.Empty(t, d.TopCustomers)
	assert.NotNil(t, d.RecentActivity.Drafts)
}

func TestGetDashboard(t *testing.T) {
	s := memory.NewBillStore()
	insert(t, s, "t1", entity.StageDraft, "2025-03-14", "Zed", 10)
	insert(t, s, "t1", entity.StageKacha, "2025-03-15", "Ravi", 100)
	insert(t, s, "t1", entity.StageKacha, "2025-02-10", "Asha", 50)
	insert(t, s, "t1", entity.StageKacha, "2024-08-15", "Asha", 5)
	insert(t, s, "t1", entity.StagePakka, "2025-03-10", "Ravi", 45)
	insert(t, s, "t1", entity.StagePakka, "2025-01-05", "Mohan", 0)
	insert(t, s, "t1", entity.StagePakka, "2025-03-12", "", 0)
	insert(t, s, "t2", entity.StageKacha, "2025-03-15", "Other", 999)

	uc := analytics.NewDashboardUseCase(s, s, nil).WithClock(func() time.Time { return today })
	out, err := uc.GetDashboard(context.Background(), "t1")
	require.NoError(t, err)
	d := out.Data

	assert.EqualValues(t, 1, d.Counts.Drafts)
	assert.EqualValues(t, 3, d.Counts.KachaBills)
	assert.EqualValues(t, 3, d.Counts.PakkaBills)
	assert.EqualValues(t, 6, d.Counts.TotalBills)

	// billDate >= 2025-03-08
	assert.EqualValues(t, 1, d.WeeklyActivity.Drafts)
	assert.EqualValues(t, 1, d.WeeklyActivity.KachaBills)
	assert.EqualValues(t, 2, d.WeeklyActivity.PakkaBills)
	assert.EqualValues(t, 4, d.WeeklyActivity.Total)
	assert.EqualValues(t, 4, d.Counts.ThisWeekTotal)
	assert.Len(t, d.RecentActivity.PakkaBills, 2)

	assert.True(t, d.Totals.Kacha.Amount.Equal(decimal.NewFromInt(155)))
	assert.True(t, d.Totals.Pakka.Amount.Equal(decimal.NewFromInt(45)))
	assert.True(t, d.Totals.Revenue.Equal(decimal.NewFromInt(200)))
	assert.True(t, d.Totals.AverageBillAmount.Equal(decimal.RequireFromString("33.33")))

	require.Len(t, d.MonthlyTrends, 6)
	assert.Equal(t, "Oct 2024", d.MonthlyTrends[0].Month)
	cur := d.MonthlyTrends[5]
	assert.Equal(t, "Mar 2025", cur.Month)
	assert.EqualValues(t, 1, cur.KachaBills)
	assert.EqualValues(t, 2, cur.PakkaBills)
	assert.EqualValues(t, 3, cur.Total)
	var total int64
	for _, m := range d.MonthlyTrends {
		total += m.Total
	}
	// the 2024-08 bill falls outside the window
	assert.EqualValues(t, 5, total)

	require.Len(t, d.TopCustomers, 3)
	assert.Equal(t, "Ravi", d.TopCustomers[0].Name)
	assert.EqualValues(t, 2, d.TopCustomers[0].Count)
	assert.Equal(t, "Asha", d.TopCustomers[1].Name)
	assert.Equal(t, "Mohan", d.TopCustomers[2].Name)
}

type failingAnalytics struct {
	*memory.BillStore
	scanErr error
}

func (f failingAnalytics) AggregateTotals(context.Context, string, entity.Stage) (entity.AmountTotals, error) {
	return entity.AmountTotals{}, errors.New("aggregation unavailable")
}

func (f failingAnalytics) ScanAmounts(ctx context.Context, tenantID string, stage entity.Stage) ([]decimal.Decimal, error) {
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	return f.BillStore.ScanAmounts(ctx, tenantID, stage)
}

func TestGetDashboard_TotalsFallback(t *testing.T) {
	s := memory.NewBillStore()
	insert(t, s, "t1", entity.StageKacha, "2025-03-01", "A", 100)
	insert(t, s, "t1", entity.StageKacha, "2025-03-02", "B", 50)

	uc := analytics.NewDashboardUseCase(failingAnalytics{BillStore: s}, s, nil).WithClock(func() time.Time { return today })
	out, err := uc.GetDashboard(context.Background(), "t1")
	require.NoError(t, err)
	assert.True(t, out.Data.Totals.Kacha.Amount.Equal(decimal.NewFromInt(150)))
	assert.EqualValues(t, 2, out.Data.Totals.Kacha.Count)

	uc = analytics.NewDashboardUseCase(failingAnalytics{BillStore: s, scanErr: errors.New("down")}, s, nil).WithClock(func() time.Time { return today })
	out, err = uc.GetDashboard(context.Background(), "t1")
	require.NoError(t, err)
	assert.True(t, out.Data.Totals.Kacha.Amount.IsZero())
	assert.Zero(t, out.Data.Totals.Kacha.Count)
}
