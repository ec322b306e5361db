package dto

import (
	"encoding/json"
	"reflect"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// LineItemDTO one product row.
type LineItemDTO struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Rate     decimal.Decimal `json:"rate"`
	Amount   decimal.Decimal `json:"amount"`
}

// BillDTO wire shape of a bill. Keys the API does not model are kept in
// Extra and written back at the top level.
type BillDTO struct {
	ID              string          `json:"_id,omitempty"`
	BillNumber      string          `json:"billNumber"`
	BillDate        string          `json:"billDate" validate:"omitempty,datetime=2006-01-02"`
	BillType        string          `json:"billType,omitempty"`
	FirmName        string          `json:"firmName"`
	CustomerName    string          `json:"customerName"`
	CustomerAddress string          `json:"customerAddress"`
	CustomerGST     string          `json:"customerGst"`
	Products        []LineItemDTO   `json:"products"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Notes           string          `json:"notes"`
	Terms           string          `json:"terms"`

	GSTNumber     string `json:"gstNumber,omitempty"`
	SellerAddress string `json:"sellerAddress,omitempty"`
	SellerPhone   string `json:"sellerPhone,omitempty"`
	SellerEmail   string `json:"sellerEmail,omitempty"`
	BankName      string `json:"bankName,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	IFSCCode      string `json:"ifscCode,omitempty"`

	ConvertedFrom   string     `json:"converted_from,omitempty"`
	OriginalDraftID string     `json:"original_draft_id,omitempty"`
	OriginalKachaID string     `json:"original_kacha_id,omitempty"`
	ConvertedAt     *time.Time `json:"converted_at,omitempty"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`

	Extra map[string]any `json:"-"`
	// Sent holds the top-level keys present in the decoded body. Nil when the
	// value was not decoded from JSON.
	Sent map[string]struct{} `json:"-"`
}

// reservedBillKeys never end up in Extra.
var reservedBillKeys = func() map[string]struct{} {
	keys := map[string]struct{}{
		"status": {}, "draftId": {}, "user_id": {}, "id": {},
	}
	t := reflect.TypeOf(BillDTO{})
	for i := 0; i < t.NumField(); i++ {
		name := strings.SplitN(t.Field(i).Tag.Get("json"), ",", 2)[0]
		if name != "" && name != "-" {
			keys[name] = struct{}{}
		}
	}
	return keys
}()

func (b *BillDTO) UnmarshalJSON(data []byte) error {
	type plain BillDTO
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	extra := make(map[string]any)
	sent := make(map[string]struct{}, len(raw))
	for k, v := range raw {
		sent[k] = struct{}{}
		if _, ok := reservedBillKeys[k]; ok {
			continue
		}
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return err
		}
		extra[k] = val
	}
	*b = BillDTO(p)
	b.Sent = sent
	if len(extra) > 0 {
		b.Extra = extra
	}
	return nil
}

func (b BillDTO) MarshalJSON() ([]byte, error) {
	type plain BillDTO
	base, err := json.Marshal(plain(b))
	if err != nil || len(b.Extra) == 0 {
		return base, err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(base, &m); err != nil {
		return nil, err
	}
	for k, v := range b.Extra {
		if _, taken := m[k]; taken {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		m[k] = raw
	}
	return json.Marshal(m)
}

// SaveBillRequest body of POST /api/save.
type SaveBillRequest struct {
	Status  string `json:"status" validate:"omitempty,oneof=draft kacha pakka"`
	DraftID string `json:"draftId"`
	Bill    BillDTO
}

func (r *SaveBillRequest) UnmarshalJSON(data []byte) error {
	var head struct {
		Status  string `json:"status"`
		DraftID string `json:"draftId"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	if err := json.Unmarshal(data, &r.Bill); err != nil {
		return err
	}
	r.Status = strings.ToLower(strings.TrimSpace(head.Status))
	r.DraftID = strings.TrimSpace(head.DraftID)
	return nil
}

// SaveBillResponse result of POST /api/save.
type SaveBillResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	BillID     string `json:"bill_id"`
	BillNumber string `json:"bill_number"`
	Updated    bool   `json:"updated"`
}

// BillListResponse list envelope for every stage.
type BillListResponse struct {
	Status string    `json:"status"`
	Bills  []BillDTO `json:"bills"`
	Count  int       `json:"count"`
}

// ConvertResponse result of a stage conversion.
type ConvertResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	BillID     string `json:"bill_id"`
	BillNumber string `json:"bill_number"`
	From       string `json:"from"`
	To         string `json:"to"`
}

// OverdueResponse result of GET /api/check-overdue-bills.
type OverdueResponse struct {
	Status         string  `json:"status"`
	OverdueCount   int64   `json:"overdue_count"`
	OldestBillDate *string `json:"oldest_bill_date"`
}

// BillResponse body of the single-bill getters.
type BillResponse struct {
	Status string   `json:"status"`
	Bill   *BillDTO `json:"bill"`
}
