package mongo

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/jhoicas/nexus-bills/internal/domain/entity"
)

// ==================== Bill models ====================

// billModel mirrors the stored document. Amounts are written as Decimal128
// but read back from any numeric or string form older documents may hold.
type billModel struct {
	ID              bson.ObjectID `bson:"_id,omitempty"`
	UserID          string        `bson:"user_id"`
	BillNumber      string        `bson:"billNumber"`
	BillDate        string        `bson:"billDate"`
	BillType        string        `bson:"billType,omitempty"`
	FirmName        string        `bson:"firmName"`
	CustomerName    string        `bson:"customerName"`
	CustomerAddress string        `bson:"customerAddress"`
	CustomerGST     string        `bson:"customerGst"`
	Products        []lineModel   `bson:"products"`
	TotalAmount     any           `bson:"totalAmount"`
	Notes           string        `bson:"notes"`
	Terms           string        `bson:"terms"`

	GSTNumber     string `bson:"gstNumber,omitempty"`
	SellerAddress string `bson:"sellerAddress,omitempty"`
	SellerPhone   string `bson:"sellerPhone,omitempty"`
	SellerEmail   string `bson:"sellerEmail,omitempty"`
	BankName      string `bson:"bankName,omitempty"`
	AccountNumber string `bson:"accountNumber,omitempty"`
	IFSCCode      string `bson:"ifscCode,omitempty"`

	ConvertedFrom   string     `bson:"converted_from,omitempty"`
	OriginalDraftID string     `bson:"original_draft_id,omitempty"`
	OriginalKachaID string     `bson:"original_kacha_id,omitempty"`
	ConvertedAt     *time.Time `bson:"converted_at,omitempty"`
	CreatedAt       time.Time  `bson:"created_at"`
	UpdatedAt       time.Time  `bson:"updated_at"`

	Extra map[string]any `bson:",inline"`
}

type lineModel struct {
	Name     string `bson:"name"`
	Quantity any    `bson:"quantity"`
	Rate     any    `bson:"rate"`
	Amount   any    `bson:"amount"`
}

type counterModel struct {
	ID    string `bson:"_id"`
	Value int64  `bson:"sequence_value"`
}

func toBillModel(tenantID string, b *entity.Bill) (*billModel, error) {
	m := &billModel{
		UserID:          tenantID,
		BillNumber:      b.BillNumber,
		BillDate:        b.BillDate,
		BillType:        b.BillType,
		FirmName:        b.FirmName,
		CustomerName:    b.CustomerName,
		CustomerAddress: b.CustomerAddress,
		CustomerGST:     b.CustomerGST,
		TotalAmount:     toDecimal128(b.TotalAmount),
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
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
		Products:        make([]lineModel, len(b.Products)),
	}
	for i, p := range b.Products {
		m.Products[i] = lineModel{
			Name:     p.Name,
			Quantity: toDecimal128(p.Quantity),
			Rate:     toDecimal128(p.Rate),
			Amount:   toDecimal128(p.Amount),
		}
	}
	if len(b.Extra) > 0 {
		m.Extra = make(map[string]any, len(b.Extra))
		for k, v := range b.Extra {
			m.Extra[k] = v
		}
	}
	if b.ID != "" {
		oid, err := bson.ObjectIDFromHex(b.ID)
		if err != nil {
			return nil, fmt.Errorf("mongo: bill id %q: %w", b.ID, err)
		}
		m.ID = oid
	}
	return m, nil
}

func fromBillModel(m *billModel) (*entity.Bill, error) {
	total, err := toDecimal(m.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("mongo: bill %s totalAmount: %w", m.ID.Hex(), err)
	}
	b := &entity.Bill{
		ID:              m.ID.Hex(),
		TenantID:        m.UserID,
		BillNumber:      m.BillNumber,
		BillDate:        m.BillDate,
		BillType:        m.BillType,
		FirmName:        m.FirmName,
		CustomerName:    m.CustomerName,
		CustomerAddress: m.CustomerAddress,
		CustomerGST:     m.CustomerGST,
		TotalAmount:     total,
		Notes:           m.Notes,
		Terms:           m.Terms,
		GSTNumber:       m.GSTNumber,
		SellerAddress:   m.SellerAddress,
		SellerPhone:     m.SellerPhone,
		SellerEmail:     m.SellerEmail,
		BankName:        m.BankName,
		AccountNumber:   m.AccountNumber,
		IFSCCode:        m.IFSCCode,
		ConvertedFrom:   entity.Stage(m.ConvertedFrom),
		OriginalDraftID: m.OriginalDraftID,
		OriginalKachaID: m.OriginalKachaID,
		ConvertedAt:     m.ConvertedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	for _, p := range m.Products {
		item := entity.LineItem{Name: p.Name}
		if item.Quantity, err = toDecimal(p.Quantity); err != nil {
			return nil, fmt.Errorf("mongo: bill %s quantity: %w", m.ID.Hex(), err)
		}
		if item.Rate, err = toDecimal(p.Rate); err != nil {
			return nil, fmt.Errorf("mongo: bill %s rate: %w", m.ID.Hex(), err)
		}
		if item.Amount, err = toDecimal(p.Amount); err != nil {
			return nil, fmt.Errorf("mongo: bill %s amount: %w", m.ID.Hex(), err)
		}
		b.Products = append(b.Products, item)
	}
	if len(m.Extra) > 0 {
		b.Extra = make(map[string]any, len(m.Extra))
		for k, v := range m.Extra {
			b.Extra[k] = normalize(v)
		}
	}
	return b, nil
}

// ==================== Value conversion ====================

func toDecimal128(d decimal.Decimal) bson.Decimal128 {
	v, err := bson.ParseDecimal128(d.String())
	if err != nil {
		// more than 34 significant digits; fall back to a rounded value
		v, _ = bson.ParseDecimal128(d.Round(8).String())
	}
	return v
}

// toDecimal reads an amount stored as Decimal128, double, int32, int64 or string.
// A missing value is zero.
func toDecimal(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case nil:
		return decimal.Zero, nil
	case bson.Decimal128:
		return decimal.NewFromString(x.String())
	case float64:
		return decimal.NewFromFloat(x), nil
	case int32:
		return decimal.NewFromInt32(x), nil
	case int64:
		return decimal.NewFromInt(x), nil
	case string:
		if x == "" {
			return decimal.Zero, nil
		}
		return decimal.NewFromString(x)
	default:
		return decimal.Zero, fmt.Errorf("unsupported amount type %T", v)
	}
}

// normalize turns driver types found in free-form fields into plain Go
// values that encode to JSON the way clients sent them.
func normalize(v any) any {
	switch x := v.(type) {
	case bson.D:
		m := make(map[string]any, len(x))
		for _, e := range x {
			m[e.Key] = normalize(e.Value)
		}
		return m
	case bson.M:
		m := make(map[string]any, len(x))
		for k, e := range x {
			m[k] = normalize(e)
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(x))
		for k, e := range x {
			m[k] = normalize(e)
		}
		return m
	case bson.A:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	case bson.ObjectID:
		return x.Hex()
	case bson.Decimal128:
		return x.String()
	case bson.DateTime:
		return x.Time().UTC()
	default:
		return v
	}
}
