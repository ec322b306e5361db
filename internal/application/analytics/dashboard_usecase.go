// Package analytics builds the read-only dashboard of a tenant from its bills.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/nexus-bills/internal/application/dto"
	"github.com/jhoicas/nexus-bills/internal/domain/entity"
	"github.com/jhoicas/nexus-bills/internal/domain/repository"
	"github.com/jhoicas/nexus-bills/pkg/logger"
)

const (
	dashboardTopCustomers = 5
	dashboardRecentBills  = 5
	trendMonths           = 6
	weekWindow            = 7 * 24 * time.Hour
)

// DashboardUseCase computes dashboard statistics.
//
// Data source: AnalyticsRepository for counts and sums, BillRepository for
// the recent-activity listings. Nothing here writes.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	billRepo      repository.BillRepository
	log           *logger.Logger
	now           func() time.Time
}

// NewDashboardUseCase builds the use case.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository, billRepo repository.BillRepository, log *logger.Logger) *DashboardUseCase {
	if log == nil {
		log = logger.NewNop()
	}
	return &DashboardUseCase{
		analyticsRepo: analyticsRepo,
		billRepo:      billRepo,
		log:           log,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source. Used by tests.
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetDashboard builds the full dashboard for a tenant.
func (uc *DashboardUseCase) GetDashboard(ctx context.Context, tenantID string) (*dto.DashboardResponse, error) {
	now := uc.now()
	weekAgo := now.Add(-weekWindow).Format(time.DateOnly)

	// ── Totals: one goroutine per stage ──────────────────────────────────────
	type totalsResult struct {
		stage  entity.Stage
		totals entity.AmountTotals
	}
	totalsCh := make(chan totalsResult, len(entity.Stages))
	for _, st := range entity.Stages {
		go func(st entity.Stage) {
			totalsCh <- totalsResult{st, uc.stageTotals(ctx, tenantID, st)}
		}(st)
	}

	// ── Counts and weekly activity ───────────────────────────────────────────
	var data dto.DashboardData
	counts := make(map[entity.Stage]int64, len(entity.Stages))
	weekly := make(map[entity.Stage]int64, len(entity.Stages))
	for _, st := range entity.Stages {
		n, err := uc.analyticsRepo.Count(ctx, tenantID, st, repository.BillFilter{})
		if err != nil {
			drain(totalsCh, len(entity.Stages))
			return nil, fmt.Errorf("dashboard: count %s: %w", st, err)
		}
		counts[st] = n
		w, err := uc.analyticsRepo.Count(ctx, tenantID, st, repository.BillFilter{DateFrom: weekAgo})
		if err != nil {
			drain(totalsCh, len(entity.Stages))
			return nil, fmt.Errorf("dashboard: weekly count %s: %w", st, err)
		}
		weekly[st] = w
	}
	weekTotal := weekly[entity.StageDraft] + weekly[entity.StageKacha] + weekly[entity.StagePakka]
	data.Counts = dto.DashboardCounts{
		Drafts:        counts[entity.StageDraft],
		KachaBills:    counts[entity.StageKacha],
		PakkaBills:    counts[entity.StagePakka],
		TotalBills:    counts[entity.StageKacha] + counts[entity.StagePakka],
		ThisWeekTotal: weekTotal,
	}
	data.WeeklyActivity = dto.WeeklyActivity{
		Drafts:     weekly[entity.StageDraft],
		KachaBills: weekly[entity.StageKacha],
		PakkaBills: weekly[entity.StagePakka],
		Total:      weekTotal,
	}

	// ── Recent activity ──────────────────────────────────────────────────────
	recent := make(map[entity.Stage][]dto.BillDTO, len(entity.Stages))
	for _, st := range entity.Stages {
		bills, err := uc.billRepo.List(ctx, tenantID, st, repository.ListOptions{DateFrom: weekAgo, Limit: dashboardRecentBills})
		if err != nil {
			drain(totalsCh, len(entity.Stages))
			return nil, fmt.Errorf("dashboard: recent %s: %w", st, err)
		}
		recent[st] = dto.BillsFromEntities(bills)
	}
	data.RecentActivity = dto.RecentActivity{
		Drafts:     recent[entity.StageDraft],
		KachaBills: recent[entity.StageKacha],
		PakkaBills: recent[entity.StagePakka],
	}

	trends, err := uc.monthlyTrends(ctx, tenantID, now)
	if err != nil {
		drain(totalsCh, len(entity.Stages))
		return nil, err
	}
	data.MonthlyTrends = trends
	data.TopCustomers = uc.topCustomers(ctx, tenantID)

	totals := make(map[entity.Stage]entity.AmountTotals, len(entity.Stages))
	for range entity.Stages {
		r := <-totalsCh
		totals[r.stage] = r.totals
	}
	data.Totals = buildTotals(totals)

	return &dto.DashboardResponse{Status: dto.StatusSuccess, Data: data}, nil
}

func drain[T any](ch <-chan T, n int) {
	for i := 0; i < n; i++ {
		<-ch
	}
}

// stageTotals prefers the server-side sum, falls back to scanning amounts and
// yields zero totals when both fail.
func (uc *DashboardUseCase) stageTotals(ctx context.Context, tenantID string, stage entity.Stage) entity.AmountTotals {
	t, err := uc.analyticsRepo.AggregateTotals(ctx, tenantID, stage)
	if err == nil {
		return t
	}
	uc.log.Warn().Err(err).Str("stage", stage.String()).Msg("aggregate totals failed, scanning")

	amounts, err := uc.analyticsRepo.ScanAmounts(ctx, tenantID, stage)
	if err != nil {
		uc.log.Error().Err(err).Str("stage", stage.String()).Msg("manual totals failed")
		return entity.AmountTotals{Amount: decimal.Zero}
	}
	return entity.AmountTotals{
		Amount: decimal.Sum(decimal.Zero, amounts...),
		Count:  int64(len(amounts)),
	}
}

func buildTotals(t map[entity.Stage]entity.AmountTotals) dto.DashboardTotals {
	toDTO := func(a entity.AmountTotals) dto.StageTotals {
		return dto.StageTotals{Amount: a.Amount, Count: a.Count}
	}
	kacha, pakka := t[entity.StageKacha], t[entity.StagePakka]
	revenue := kacha.Amount.Add(pakka.Amount)
	avg := decimal.Zero
	if n := kacha.Count + pakka.Count; n > 0 {
		avg = revenue.Div(decimal.NewFromInt(n)).Round(2)
	}
	return dto.DashboardTotals{
		Drafts:            toDTO(t[entity.StageDraft]),
		Kacha:             toDTO(kacha),
		Pakka:             toDTO(pakka),
		Revenue:           revenue,
		AverageBillAmount: avg,
	}
}

// monthlyTrends counts kacha and pakka bills per calendar month, oldest first,
// ending with the month of now.
func (uc *DashboardUseCase) monthlyTrends(ctx context.Context, tenantID string, now time.Time) ([]dto.MonthlyTrend, error) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	out := make([]dto.MonthlyTrend, 0, trendMonths)
	for i := trendMonths - 1; i >= 0; i-- {
		start := first.AddDate(0, -i, 0)
		end := start.AddDate(0, 1, -1)
		f := repository.BillFilter{DateFrom: start.Format(time.DateOnly), DateTo: end.Format(time.DateOnly)}

		k, err := uc.analyticsRepo.Count(ctx, tenantID, entity.StageKacha, f)
		if err != nil {
			return nil, fmt.Errorf("dashboard: trend kacha %s: %w", f.DateFrom, err)
		}
		p, err := uc.analyticsRepo.Count(ctx, tenantID, entity.StagePakka, f)
		if err != nil {
			return nil, fmt.Errorf("dashboard: trend pakka %s: %w", f.DateFrom, err)
		}
		out = append(out, dto.MonthlyTrend{
			Month:      start.Format("Jan 2006"),
			KachaBills: k,
			PakkaBills: p,
			Total:      k + p,
		})
	}
	return out, nil
}

// topCustomers ranks customer names by bill count over kacha then pakka bills.
// Ties keep the order in which names were first seen. Errors yield an empty ranking.
func (uc *DashboardUseCase) topCustomers(ctx context.Context, tenantID string) []dto.TopCustomer {
	ranking := make([]dto.TopCustomer, 0, dashboardTopCustomers)
	index := make(map[string]int)
	for _, st := range []entity.Stage{entity.StageKacha, entity.StagePakka} {
		names, err := uc.analyticsRepo.CustomerNames(ctx, tenantID, st)
		if err != nil {
			uc.log.Error().Err(err).Str("stage", st.String()).Msg("top customers scan failed")
			return []dto.TopCustomer{}
		}
		for _, name := range lo.Filter(names, func(n string, _ int) bool { return strings.TrimSpace(n) != "" }) {
			if i, ok := index[name]; ok {
				ranking[i].Count++
				continue
			}
			index[name] = len(ranking)
			ranking = append(ranking, dto.TopCustomer{Name: name, Count: 1})
		}
	}
	sort.SliceStable(ranking, func(i, j int) bool { return ranking[i].Count > ranking[j].Count })
	if len(ranking) > dashboardTopCustomers {
		ranking = ranking[:dashboardTopCustomers]
	}
	return ranking
}
