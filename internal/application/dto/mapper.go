package dto

import (
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/nexus-bills/internal/domain/entity"
)

// BillToEntity maps the wire shape onto a bill. Id, tenant and timestamps are left to the caller.
func BillToEntity(in BillDTO) *entity.Bill {
	b := &entity.Bill{
		BillNumber:      strings.TrimSpace(in.BillNumber),
		BillDate:        strings.TrimSpace(in.BillDate),
		BillType:        in.BillType,
		FirmName:        in.FirmName,
		CustomerName:    in.CustomerName,
		CustomerAddress: in.CustomerAddress,
		CustomerGST:     in.CustomerGST,
		TotalAmount:     in.TotalAmount,
		Notes:           in.Notes,
		Terms:           in.Terms,
		GSTNumber:       in.GSTNumber,
		SellerAddress:   in.SellerAddress,
		SellerPhone:     in.SellerPhone,
		SellerEmail:     in.SellerEmail,
		BankName:        in.BankName,
		AccountNumber:   in.AccountNumber,
		IFSCCode:        in.IFSCCode,
		Products: lo.Map(in.Products, func(p LineItemDTO, _ int) entity.LineItem {
			return entity.LineItem{Name: p.Name, Quantity: p.Quantity, Rate: p.Rate, Amount: p.Amount}
		}),
	}
	if len(in.Extra) > 0 {
		b.Extra = lo.Assign(in.Extra)
	}
	return b
}

// billUpdates copies one editable key from the wire shape onto a bill.
var billUpdates = map[string]func(b *entity.Bill, in BillDTO){
	"billDate":        func(b *entity.Bill, in BillDTO) { b.BillDate = strings.TrimSpace(in.BillDate) },
	"firmName":        func(b *entity.Bill, in BillDTO) { b.FirmName = in.FirmName },
	"customerName":    func(b *entity.Bill, in BillDTO) { b.CustomerName = in.CustomerName },
	"customerAddress": func(b *entity.Bill, in BillDTO) { b.CustomerAddress = in.CustomerAddress },
	"customerGst":     func(b *entity.Bill, in BillDTO) { b.CustomerGST = in.CustomerGST },
	"totalAmount":     func(b *entity.Bill, in BillDTO) { b.TotalAmount = in.TotalAmount },
	"notes":           func(b *entity.Bill, in BillDTO) { b.Notes = in.Notes },
	"terms":           func(b *entity.Bill, in BillDTO) { b.Terms = in.Terms },
	"gstNumber":       func(b *entity.Bill, in BillDTO) { b.GSTNumber = in.GSTNumber },
	"sellerAddress":   func(b *entity.Bill, in BillDTO) { b.SellerAddress = in.SellerAddress },
	"sellerPhone":     func(b *entity.Bill, in BillDTO) { b.SellerPhone = in.SellerPhone },
	"sellerEmail":     func(b *entity.Bill, in BillDTO) { b.SellerEmail = in.SellerEmail },
	"bankName":        func(b *entity.Bill, in BillDTO) { b.BankName = in.BankName },
	"accountNumber":   func(b *entity.Bill, in BillDTO) { b.AccountNumber = in.AccountNumber },
	"ifscCode":        func(b *entity.Bill, in BillDTO) { b.IFSCCode = in.IFSCCode },
	"products": func(b *entity.Bill, in BillDTO) {
		b.Products = lo.Map(in.Products, func(p LineItemDTO, _ int) entity.LineItem {
			return entity.LineItem{Name: p.Name, Quantity: p.Quantity, Rate: p.Rate, Amount: p.Amount}
		})
	},
}

// MergeBillUpdate applies in onto a copy of stored, touching only the keys the
// client sent. Extra keys are merged. When in was not decoded from JSON every
// editable field is taken from it.
func MergeBillUpdate(stored *entity.Bill, in BillDTO) *entity.Bill {
	b := stored.Clone()
	for key, apply := range billUpdates {
		if _, ok := in.Sent[key]; ok || in.Sent == nil {
			apply(b, in)
		}
	}
	if len(in.Extra) > 0 {
		b.Extra = lo.Assign(b.Extra, in.Extra)
	}
	return b
}

// BillFromEntity maps a stored bill to its wire shape.
func BillFromEntity(b *entity.Bill) BillDTO {
	out := BillDTO{
		ID:              b.ID,
		BillNumber:      b.BillNumber,
		BillDate:        b.BillDate,
		BillType:        b.BillType,
		FirmName:        b.FirmName,
		CustomerName:    b.CustomerName,
		CustomerAddress: b.CustomerAddress,
		CustomerGST:     b.CustomerGST,
		TotalAmount:     b.TotalAmount,
		Notes:           b.Notes,
		Terms:           b.Terms,
		GSTNumber:       b.GSTNumber,
		SellerAddress:   b.SellerAddress,
		SellerPhone:     b.SellerPhone,
		SellerEmail:     b.SellerEmail,
		BankName:        b.BankName,
		AccountNumber:   b.AccountNumber,
		IFSCCode:        b.IFSCCode,
		ConvertedFrom:   string(b.ConvertedFrom),
		OriginalDraftID: b.OriginalDraftID,
		OriginalKachaID: b.OriginalKachaID,
		ConvertedAt:     b.ConvertedAt,
		CreatedAt:       timePtr(b.CreatedAt),
		UpdatedAt:       timePtr(b.UpdatedAt),
		Extra:           b.Extra,
		Products: lo.Map(b.Products, func(p entity.LineItem, _ int) LineItemDTO {
			return LineItemDTO{Name: p.Name, Quantity: p.Quantity, Rate: p.Rate, Amount: p.Amount}
		}),
	}
	if out.Products == nil {
		out.Products = []LineItemDTO{}
	}
	return out
}

// BillsFromEntities maps a slice, never returning nil.
func BillsFromEntities(bills []*entity.Bill) []BillDTO {
	out := lo.Map(bills, func(b *entity.Bill, _ int) BillDTO { return BillFromEntity(b) })
	if out == nil {
		return []BillDTO{}
	}
	return out
}

// CompanyFromEntity maps a profile to its wire shape.
func CompanyFromEntity(p *entity.CompanyProfile) *CompanyResponse {
	if p == nil {
		return nil
	}
	return &CompanyResponse{
		CompanyName:           p.CompanyName,
		GSTNumber:             p.GSTNumber,
		Address:               p.Address,
		City:                  p.City,
		State:                 p.State,
		Pincode:               p.Pincode,
		Phone:                 p.Phone,
		Email:                 p.Email,
		Website:               p.Website,
		BankName:              p.BankName,
		AccountNumber:         p.AccountNumber,
		IFSCCode:              p.IFSCCode,
		OnboardingComplete:    p.OnboardingComplete,
		OnboardingCompletedAt: p.OnboardingCompletedAt,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
}

// UserFromEntity maps a user without its password hash.
func UserFromEntity(u *entity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		FullName:    u.FullName(),
		Status:      u.Status,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// NotificationFromEntity maps a notification, rendering its age relative to now.
func NotificationFromEntity(n *entity.Notification, now time.Time) NotificationDTO {
	out := NotificationDTO{
		ID:            n.ID,
		Title:         n.Title,
		Message:       n.Message,
		Type:          n.Type,
		Timestamp:     n.CreatedAt,
		Read:          n.Read,
		ActionURL:     optional(n.ActionURL),
		BillType:      optional(n.BillType),
		CustomerName:  optional(n.CustomerName),
		FormattedTime: n.FormattedTime(now),
	}
	if n.Amount.Valid && !n.Amount.Decimal.Equal(decimal.Zero) {
		s := n.Amount.Decimal.StringFixed(2)
		out.Amount = &s
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
