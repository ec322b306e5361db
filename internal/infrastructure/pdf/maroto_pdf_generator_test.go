package pdf

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/nexus-bills/internal/domain/entity"
)

func TestFormatINR(t *testing.T) {
	cases := map[string]string{
		"0":          "0.00",
		"999":        "999.00",
		"1000":       "1,000.00",
		"123456.789": "1,23,456.79",
		"1234567.5":  "12,34,567.50",
		"-25000":     "-25,000.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatINR(decimal.RequireFromString(in)), in)
	}
}

func TestGenerateBillPDF(t *testing.T) {
	b := &entity.Bill{
		ID:           "b1",
		BillNumber:   "PAKKA-001",
		BillDate:     "2026-03-01",
		FirmName:     "Acme Traders",
		CustomerName: "Ravi Stores",
		GSTNumber:    "27ABCDE1234F1Z5",
		BankName:     "SBI",
		Terms:        "Payment due in 15 days",
		Products: []entity.LineItem{
			{Name: "Rice", Quantity: decimal.NewFromInt(2), Rate: decimal.NewFromInt(50), Amount: decimal.NewFromInt(100)},
		},
		TotalAmount: decimal.NewFromInt(100),
	}

	g := NewMarotoPDFGenerator()
	for _, stage := range entity.Stages {
		out, err := g.GenerateBillPDF(context.Background(), stage, b)
		require.NoError(t, err, stage)
		assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), stage)
	}
}

func TestPresentParts(t *testing.T) {
	assert.Equal(t, []string{"a", "Phone: 1"}, presentParts("a", "", prefixed("Phone: ", "1"), prefixed("Email: ", " ")))
}
