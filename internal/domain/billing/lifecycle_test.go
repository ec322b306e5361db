package billing

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/nexus-bills/internal/domain"
	"github.com/jhoicas/nexus-bills/internal/domain/entity"
)

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(entity.StageDraft, entity.StageKacha))
	assert.True(t, CanTransition(entity.StageDraft, entity.StagePakka))
	assert.True(t, CanTransition(entity.StageKacha, entity.StagePakka))

	for _, s := range entity.Stages {
		assert.False(t, CanTransition(s, entity.StageDraft), "nothing targets draft (from %s)", s)
		assert.False(t, CanTransition(entity.StagePakka, s), "pakka is terminal (to %s)", s)
	}
}

func TestCheckTransition(t *testing.T) {
	require.NoError(t, CheckTransition(entity.StageKacha, entity.StagePakka))

	err := CheckTransition(entity.StagePakka, entity.StageKacha)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))

	err = CheckTransition("final", entity.StagePakka)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestFormatBillNumber(t *testing.T) {
	assert.Equal(t, "DRAFT-001", FormatBillNumber("draft", 1))
	assert.Equal(t, "KACHA-042", FormatBillNumber("kacha", 42))
	assert.Equal(t, "PAKKA-1234", FormatBillNumber("PAKKA", 1234))
	assert.Equal(t, "BILL-007", FormatBillNumber("estimate", 7))
	assert.Regexp(t, `^KACHA-\d{3,}$`, FormatBillNumber("kacha", 5))
}

func TestCounterName(t *testing.T) {
	assert.Equal(t, "t1:kacha_bill_number", CounterName("t1", "Kacha"))
}

func TestSellerAddress(t *testing.T) {
	p := &entity.CompanyProfile{Address: "12 MG Road", City: "Pune", State: "MH", Pincode: "411001"}
	assert.Equal(t, "12 MG Road, Pune, MH, 411001", SellerAddress(p))

	p = &entity.CompanyProfile{Address: "12 MG Road", City: "Pune"}
	assert.Equal(t, "12 MG Road, Pune", SellerAddress(p))

	p = &entity.CompanyProfile{City: "Pune", Pincode: "411001"}
	assert.Equal(t, "Pune, 411001", SellerAddress(p))

	assert.Equal(t, "", SellerAddress(&entity.CompanyProfile{}))
	assert.Equal(t, "", SellerAddress(nil))
}

func TestBuildConverted_DraftToPakka(t *testing.T) {
	src := &entity.Bill{
		ID:           "d1",
		TenantID:     "t1",
		BillNumber:   "DRAFT-003",
		CustomerName: "Ravi Traders",
		TotalAmount:  decimal.NewFromInt(150),
		Extra:        map[string]any{"vehicle": "MH12"},
	}
	profile := &entity.CompanyProfile{
		CompanyName: "Acme", GSTNumber: "GST1", Address: "12 MG Road",
		City: "Pune", State: "MH", Pincode: "411001", BankName: "SBI",
		OnboardingComplete: true,
	}
	at := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	dst := BuildConverted(src, entity.StageDraft, entity.StagePakka, "PAKKA-001", profile, at)

	assert.Empty(t, dst.ID)
	assert.Equal(t, "t1", dst.TenantID)
	assert.Equal(t, "PAKKA-001", dst.BillNumber)
	assert.Equal(t, entity.StageDraft, dst.ConvertedFrom)
	assert.Equal(t, "d1", dst.OriginalDraftID)
	assert.Empty(t, dst.OriginalKachaID)
	assert.Equal(t, at, *dst.ConvertedAt)
	assert.Equal(t, "pakka", dst.BillType)
	assert.Equal(t, "Acme", dst.FirmName)
	assert.Equal(t, "12 MG Road, Pune, MH, 411001", dst.SellerAddress)
	assert.Equal(t, "GST1", dst.GSTNumber)
	assert.Equal(t, "SBI", dst.BankName)
	assert.Empty(t, dst.SellerPhone, "absent profile fields are not stamped")
	assert.Equal(t, "MH12", dst.Extra["vehicle"])
	assert.Equal(t, "DRAFT-003", src.BillNumber, "source untouched")
}

func TestBuildConverted_KachaToPakkaDefaults(t *testing.T) {
	src := &entity.Bill{ID: "k1", BillNumber: "KACHA-001"}
	dst := BuildConverted(src, entity.StageKacha, entity.StagePakka, "PAKKA-002", &entity.CompanyProfile{}, time.Now())

	assert.Equal(t, "k1", dst.OriginalKachaID)
	assert.Equal(t, Placeholder, dst.GSTNumber)
	assert.Equal(t, Placeholder, dst.SellerAddress)
	assert.Equal(t, "", dst.Terms)
	assert.Equal(t, "", dst.CustomerGST)
}

func TestBuildConverted_DraftToKachaHasNoSellerData(t *testing.T) {
	src := &entity.Bill{ID: "d9"}
	dst := BuildConverted(src, entity.StageDraft, entity.StageKacha, "KACHA-010", nil, time.Now())
	assert.Equal(t, "kacha", dst.BillType)
	assert.Empty(t, dst.GSTNumber)
	assert.Empty(t, dst.SellerAddress)
}
