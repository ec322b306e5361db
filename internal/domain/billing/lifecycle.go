// Package billing holds the pure rules of the bill lifecycle: which stage
// transitions exist, how bill numbers look and how seller data is stamped
// onto a pakka bill.
package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/jhoicas/nexus-bills/internal/domain"
	"github.com/jhoicas/nexus-bills/internal/domain/entity"
)

// Placeholder written into required pakka fields the source bill lacks.
const Placeholder = "TO_BE_ADDED"

var transitions = map[entity.Stage][]entity.Stage{
	entity.StageDraft: {entity.StageKacha, entity.StagePakka},
	entity.StageKacha: {entity.StagePakka},
}

// CanTransition reports whether a bill may move from one stage to another.
// Nothing ever targets draft and pakka is terminal.
func CanTransition(from, to entity.Stage) bool {
	return lo.Contains(transitions[from], to)
}

// CheckTransition is CanTransition as an error.
func CheckTransition(from, to entity.Stage) error {
	if !from.Valid() || !to.Valid() {
		return fmt.Errorf("%w: unknown stage %q -> %q", domain.ErrInvalidInput, from, to)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, to)
	}
	return nil
}

// Prefix returns the bill number prefix for a bill type; unknown types get BILL.
func Prefix(billType string) string {
	switch entity.Stage(strings.ToLower(billType)) {
	case entity.StageDraft:
		return "DRAFT"
	case entity.StageKacha:
		return "KACHA"
	case entity.StagePakka:
		return "PAKKA"
	default:
		return "BILL"
	}
}

// FormatBillNumber renders e.g. KACHA-007. Values above 999 keep all digits.
func FormatBillNumber(billType string, value int64) string {
	return fmt.Sprintf("%s-%03d", Prefix(billType), value)
}

// CounterName the counter key for one tenant and bill type.
func CounterName(tenantID, billType string) string {
	return tenantID + ":" + strings.ToLower(billType) + "_bill_number"
}

// SellerAddress joins address + "city, state, pincode" with ", ", skipping empty parts.
func SellerAddress(p *entity.CompanyProfile) string {
	if p == nil {
		return ""
	}
	locality := strings.Join(lo.Compact(trimAll(p.City, p.State, p.Pincode)), ", ")
	return strings.Join(lo.Compact(trimAll(p.Address, locality)), ", ")
}

func trimAll(parts ...string) []string {
	return lo.Map(parts, func(s string, _ int) string { return strings.TrimSpace(s) })
}

// StampSeller copies company data onto a pakka bill. Optional contact and
// bank fields are written only when the profile has them.
func StampSeller(b *entity.Bill, p *entity.CompanyProfile) {
	if p == nil {
		return
	}
	if name := strings.TrimSpace(p.CompanyName); name != "" {
		b.FirmName = name
	}
	if addr := SellerAddress(p); addr != "" {
		b.SellerAddress = addr
	}
	if p.GSTNumber != "" {
		b.GSTNumber = p.GSTNumber
	}
	if p.Phone != "" {
		b.SellerPhone = p.Phone
	}
	if p.Email != "" {
		b.SellerEmail = p.Email
	}
	if p.BankName != "" {
		b.BankName = p.BankName
	}
	if p.AccountNumber != "" {
		b.AccountNumber = p.AccountNumber
	}
	if p.IFSCCode != "" {
		b.IFSCCode = p.IFSCCode
	}
}

// ApplyPakkaDefaults fills required pakka fields that are still empty.
func ApplyPakkaDefaults(b *entity.Bill) {
	if b.GSTNumber == "" {
		b.GSTNumber = Placeholder
	}
	if b.SellerAddress == "" {
		b.SellerAddress = Placeholder
	}
	// terms, customerGst and customerAddress default to empty strings,
	// which is already the zero value.
}

// BuildConverted derives the target bill of a transition from its source.
// The result has no id; number is the freshly generated target number.
func BuildConverted(src *entity.Bill, from, to entity.Stage, number string, profile *entity.CompanyProfile, at time.Time) *entity.Bill {
	dst := src.Clone()
	dst.ID = ""
	dst.BillNumber = number
	dst.ConvertedFrom = from
	switch from {
	case entity.StageDraft:
		dst.OriginalDraftID = src.ID
	case entity.StageKacha:
		dst.OriginalKachaID = src.ID
	}
	t := at.UTC()
	dst.ConvertedAt = &t
	dst.CreatedAt = t
	dst.UpdatedAt = t
	if to == entity.StagePakka {
		dst.BillType = string(entity.StagePakka)
		StampSeller(dst, profile)
		ApplyPakkaDefaults(dst)
	} else {
		dst.BillType = string(to)
	}
	return dst
}
