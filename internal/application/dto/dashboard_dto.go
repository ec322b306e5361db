package dto

import "github.com/shopspring/decimal"

// DashboardResponse body of GET /api/dashboard-data.
type DashboardResponse struct {
	Status string        `json:"status"`
	Data   DashboardData `json:"data"`
}

// DashboardData aggregate statistics of one tenant.
type DashboardData struct {
	Counts         DashboardCounts `json:"counts"`
	Totals         DashboardTotals `json:"totals"`
	RecentActivity RecentActivity  `json:"recent_activity"`
	MonthlyTrends  []MonthlyTrend  `json:"monthly_trends"`
	TopCustomers   []TopCustomer   `json:"top_customers"`
	WeeklyActivity WeeklyActivity  `json:"weekly_activity"`
}

// DashboardCounts document counts per stage.
type DashboardCounts struct {
	Drafts        int64 `json:"drafts"`
	KachaBills    int64 `json:"kacha_bills"`
	PakkaBills    int64 `json:"pakka_bills"`
	TotalBills    int64 `json:"total_bills"`
	ThisWeekTotal int64 `json:"this_week_total"`
}

// StageTotals amount sum and count of one stage.
type StageTotals struct {
	Amount decimal.Decimal `json:"amount"`
	Count  int64           `json:"count"`
}

// DashboardTotals sums per stage plus revenue (kacha + pakka).
type DashboardTotals struct {
	Drafts            StageTotals     `json:"drafts"`
	Kacha             StageTotals     `json:"kacha"`
	Pakka             StageTotals     `json:"pakka"`
	Revenue           decimal.Decimal `json:"revenue"`
	AverageBillAmount decimal.Decimal `json:"average_bill_amount"`
}

// RecentActivity up to five bills per stage dated within the last week.
type RecentActivity struct {
	Drafts     []BillDTO `json:"drafts"`
	KachaBills []BillDTO `json:"kacha_bills"`
	PakkaBills []BillDTO `json:"pakka_bills"`
}

// MonthlyTrend one calendar month bucket.
type MonthlyTrend struct {
	Month      string `json:"month"`
	KachaBills int64  `json:"kacha_bills"`
	PakkaBills int64  `json:"pakka_bills"`
	Total      int64  `json:"total"`
}

// TopCustomer a customer name and its bill count.
type TopCustomer struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// WeeklyActivity bills dated within the last seven days.
type WeeklyActivity struct {
	Drafts     int64 `json:"drafts"`
	KachaBills int64 `json:"kacha_bills"`
	PakkaBills int64 `json:"pakka_bills"`
	Total      int64 `json:"total"`
}
