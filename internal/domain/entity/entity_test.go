package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNotification_FormattedTime(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		age  time.Duration
		want string
	}{
		{10 * time.Second, "Just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{30 * time.Hour, "Yesterday"},
		{4 * 24 * time.Hour, "4d ago"},
		{10 * 24 * time.Hour, "Mar 05, 2026"},
	}
	for _, tc := range cases {
		n := Notification{CreatedAt: now.Add(-tc.age)}
		assert.Equal(t, tc.want, n.FormattedTime(now))
	}
}

func TestCompanyProfile_IsComplete(t *testing.T) {
	p := &CompanyProfile{
		CompanyName: "Acme", GSTNumber: "27AAAAA0000A1Z5",
		Address: "12 MG Road", City: "Pune", State: "MH", Pincode: "411001",
	}
	assert.False(t, p.IsComplete(), "flag not set")

	p.OnboardingComplete = true
	assert.True(t, p.IsComplete())

	p.Pincode = " "
	assert.False(t, p.IsComplete())

	var nilProfile *CompanyProfile
	assert.False(t, nilProfile.IsComplete())
}

func TestBill_CloneIsDeep(t *testing.T) {
	at := time.Now()
	b := &Bill{
		Products:    []LineItem{{Name: "Rice", Quantity: decimal.NewFromInt(2)}},
		ConvertedAt: &at,
		Extra:       map[string]any{"vehicle": "MH12"},
	}
	c := b.Clone()
	c.Products[0].Name = "Wheat"
	c.Extra["vehicle"] = "KA01"
	*c.ConvertedAt = at.Add(time.Hour)

	assert.Equal(t, "Rice", b.Products[0].Name)
	assert.Equal(t, "MH12", b.Extra["vehicle"])
	assert.Equal(t, at, *b.ConvertedAt)
}

func TestBill_LineItemsTotal(t *testing.T) {
	b := &Bill{Products: []LineItem{
		{Quantity: decimal.NewFromInt(2), Rate: decimal.NewFromInt(50)},
		{Amount: decimal.RequireFromString("10.50")},
	}}
	assert.True(t, decimal.RequireFromString("110.50").Equal(b.LineItemsTotal()))
}
