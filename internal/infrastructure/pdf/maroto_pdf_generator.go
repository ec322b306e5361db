// Package pdf renders bills as A4 documents.
//
// Page layout:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: firm name + GSTIN   │  document title, no., date   │
//	│  SELLER: address / phone / email                            │
//	│  BILL TO: customer name, address, GSTIN                     │
//	│  TABLE: # | Item | Qty | Rate | Amount                      │
//	│  TOTAL                                                      │
//	│  BANK DETAILS (pakka) / NOTES / TERMS                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/nexus-bills/internal/application/billing"
	"github.com/jhoicas/nexus-bills/internal/domain/entity"
)

var _ billing.BillPDFGenerator = (*MarotoPDFGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 33, Green: 37, Blue: 41}
	colorAccent  = &props.Color{Red: 13, Green: 110, Blue: 253}
	colorGray    = &props.Color{Red: 108, Green: 117, Blue: 125}
)

var documentTitles = map[entity.Stage]string{
	entity.StageDraft: "DRAFT",
	entity.StageKacha: "ESTIMATE",
	entity.StagePakka: "TAX INVOICE",
}

// MarotoPDFGenerator renders bills with maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator builds the generator.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateBillPDF renders b and returns the document bytes.
func (g *MarotoPDFGenerator) GenerateBillPDF(_ context.Context, stage entity.Stage, b *entity.Bill) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(documentTitles[stage]+" "+b.BillNumber, true).
		WithAuthor(nonEmpty(b.FirmName, "Nexus Bills"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(stage, b))
	m.AddRows(line.NewRow(1, props.Line{Color: colorAccent, Thickness: 0.5}))
	m.AddRows(sellerRow(b))
	m.AddRows(customerRow(b))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(b.Products)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(totalRow(b.TotalAmount))

	m.AddRows(footerRows(stage, b)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(stage entity.Stage, b *entity.Bill) core.Row {
	gst := ""
	if b.GSTNumber != "" {
		gst = "GSTIN: " + b.GSTNumber
	}
	return row.New(20).Add(
		col.New(7).Add(
			text.New(nonEmpty(b.FirmName, "-"), props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New(gst, props.Text{Size: 9, Top: 10, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(documentTitles[stage], props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Color: colorAccent, Top: 1,
			}),
			text.New("No. "+b.BillNumber, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 8,
			}),
			text.New("Date: "+b.BillDate, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func sellerRow(b *entity.Bill) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New(strings.Join(presentParts(
				b.SellerAddress,
				prefixed("Phone: ", b.SellerPhone),
				prefixed("Email: ", b.SellerEmail),
			), "  |  "), props.Text{Size: 8, Top: 2, Color: colorGray}),
		),
	)
}

func customerRow(b *entity.Bill) core.Row {
	return row.New(18).Add(
		col.New(12).Add(
			text.New("BILL TO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorAccent, Top: 1}),
			text.New(nonEmpty(b.CustomerName, "-"), props.Text{Style: fontstyle.Bold, Size: 10, Top: 5}),
			text.New(strings.Join(presentParts(
				b.CustomerAddress,
				prefixed("GSTIN: ", b.CustomerGST),
			), "  |  "), props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Item", 5, align.Left),
		h("Qty", 2, align.Right),
		h("Rate", 2, align.Right),
		h("Amount", 2, align.Right),
	)
}

func itemRows(items []entity.LineItem) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for i, it := range items {
		rows = append(rows, row.New(7).Add(
			col.New(1).Add(text.New(strconv.Itoa(i+1), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(it.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(it.Quantity.String(), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(FormatINR(it.Rate), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(FormatINR(it.Amount), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

func totalRow(total decimal.Decimal) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorAccent, Top: 2, Right: 2,
		})),
		col.New(3).Add(text.New("Rs. "+FormatINR(total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorAccent, Top: 2, Right: 1,
		})),
	)
}

func footerRows(stage entity.Stage, b *entity.Bill) []core.Row {
	var rows []core.Row
	section := func(title, body string) {
		if strings.TrimSpace(body) == "" {
			return
		}
		rows = append(rows,
			row.New(6).Add(col.New(12).Add(text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorAccent, Top: 2,
			}))),
			row.New(8).Add(col.New(12).Add(text.New(body, props.Text{Size: 8, Color: colorGray, Top: 1}))),
		)
	}

	if stage == entity.StagePakka {
		section("BANK DETAILS", strings.Join(presentParts(
			prefixed("Bank: ", b.BankName),
			prefixed("A/C: ", b.AccountNumber),
			prefixed("IFSC: ", b.IFSCCode),
		), "  |  "))
	}
	section("NOTES", b.Notes)
	section("TERMS & CONDITIONS", b.Terms)

	if stage != entity.StagePakka {
		rows = append(rows, row.New(10).Add(col.New(12).Add(text.New(
			"This is not a tax invoice.", props.Text{
				Style: fontstyle.Italic, Size: 8, Align: align.Center, Color: colorGray, Top: 4,
			}))))
	}
	return rows
}

// FormatINR renders d with two decimals and Indian digit grouping: 1234567.5 -> "12,34,567.50".
func FormatINR(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var grouped string
	if len(intPart) <= 3 {
		grouped = intPart
	} else {
		head, tail := intPart[:len(intPart)-3], intPart[len(intPart)-3:]
		var parts []string
		for len(head) > 2 {
			parts = append([]string{head[len(head)-2:]}, parts...)
			head = head[:len(head)-2]
		}
		if head != "" {
			parts = append([]string{head}, parts...)
		}
		grouped = strings.Join(parts, ",") + "," + tail
	}
	if d.IsNegative() {
		grouped = "-" + grouped
	}
	return grouped + "." + frac
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

func prefixed(prefix, s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return prefix + s
}

func presentParts(parts ...string) []string {
	out := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}
