package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stage is where a bill currently lives. A bill's stage is its storage
// location, not a tag: moving between stages means a new document.
type Stage string

const (
	StageDraft Stage = "draft"
	StageKacha Stage = "kacha"
	StagePakka Stage = "pakka"
)

// Stages lists every stage in lifecycle order.
var Stages = []Stage{StageDraft, StageKacha, StagePakka}

// Valid reports whether s is a known stage.
func (s Stage) Valid() bool {
	switch s {
	case StageDraft, StageKacha, StagePakka:
		return true
	}
	return false
}

func (s Stage) String() string { return string(s) }

// LineItem one product row on a bill.
type LineItem struct {
	Name     string
	Quantity decimal.Decimal
	Rate     decimal.Decimal
	Amount   decimal.Decimal
}

// Bill a draft, kacha or pakka document owned by one tenant.
type Bill struct {
	ID         string // store-assigned
	TenantID   string
	BillNumber string
	BillDate   string // YYYY-MM-DD, compared lexically by range queries
	BillType   string

	FirmName        string
	CustomerName    string
	CustomerAddress string
	CustomerGST     string
	Products        []LineItem
	TotalAmount     decimal.Decimal
	Notes           string
	Terms           string

	// Seller data, stamped from the company profile on pakka bills.
	GSTNumber     string
	SellerAddress string
	SellerPhone   string
	SellerEmail   string
	BankName      string
	AccountNumber string
	IFSCCode      string

	// Provenance, set only on converted bills.
	ConvertedFrom   Stage
	OriginalDraftID string
	OriginalKachaID string
	ConvertedAt     *time.Time

	// Extra keeps client fields the API does not model explicitly.
	Extra map[string]any

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy.
func (b *Bill) Clone() *Bill {
	if b == nil {
		return nil
	}
	c := *b
	if b.Products != nil {
		c.Products = make([]LineItem, len(b.Products))
		copy(c.Products, b.Products)
	}
	if b.ConvertedAt != nil {
		t := *b.ConvertedAt
		c.ConvertedAt = &t
	}
	if b.Extra != nil {
		c.Extra = make(map[string]any, len(b.Extra))
		for k, v := range b.Extra {
			c.Extra[k] = v
		}
	}
	return &c
}

// LineItemsTotal sums line amounts, using quantity*rate where the amount is zero.
func (b *Bill) LineItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range b.Products {
		amount := p.Amount
		if amount.IsZero() {
			amount = p.Quantity.Mul(p.Rate)
		}
		total = total.Add(amount)
	}
	return total
}

// AmountTotals sum and count of bill amounts for one stage.
type AmountTotals struct {
	Amount decimal.Decimal
	Count  int64
}
