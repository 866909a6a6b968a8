package services

import (
	"fmt"

	"salonhub-backend/models"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// SalonInfo is printed in the receipt header.
type SalonInfo struct {
	Name    string
	Address string
	Phone   string
}

// RenderReceipt draws a one-page PDF receipt for bill.
func RenderReceipt(bill models.Billing, salon SalonInfo) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)
	small := props.Text{Size: 9}
	right := props.Text{Size: 9, Align: align.Right}
	bold := props.Text{Size: 9, Style: fontstyle.Bold}
	boldRight := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}

	m.AddRow(20,
		text.NewCol(8, salon.Name, props.Text{Size: 18, Style: fontstyle.Bold}),
		text.NewCol(4, "Receipt", props.Text{Size: 14, Style: fontstyle.Bold, Align: align.Right}),
	)
	m.AddRow(16,
		col.New(6).Add(
			text.New(salon.Address, props.Text{Size: 9}),
			text.New(salon.Phone, props.Text{Size: 9, Top: 5}),
		),
		col.New(6).Add(
			text.New("Bill number: "+bill.BillNumber, right),
			text.New("Date: "+bill.CreatedAt.Format("02 Jan 2006 15:04"), props.Text{Size: 9, Top: 5, Align: align.Right}),
		),
	)
	m.AddRow(14,
		col.New(12).Add(
			text.New("Bill to", bold),
			text.New(bill.CustomerName+"  "+bill.PhoneNumber, props.Text{Size: 9, Top: 5}),
		),
	)

	m.AddRow(8,
		text.NewCol(5, "Item", bold),
		text.NewCol(3, "Staff", bold),
		text.NewCol(1, "Qty", boldRight),
		text.NewCol(3, "Amount", boldRight),
	)
	for _, s := range bill.Services {
		m.AddRow(7,
			text.NewCol(5, s.Name, small),
			text.NewCol(3, s.StaffName, small),
			text.NewCol(1, "1", right),
			text.NewCol(3, money(s.FinalPrice), right),
		)
	}
	for _, p := range bill.Products {
		m.AddRow(7,
			text.NewCol(5, p.Name, small),
			text.NewCol(3, "", small),
			text.NewCol(1, fmt.Sprintf("%d", p.Quantity), right),
			text.NewCol(3, money(p.FinalPrice), right),
		)
	}

	totals := []struct {
		label string
		value int64
	}{
		{"Subtotal", bill.Subtotal},
		{fmt.Sprintf("GST (%g%%)", bill.GSTPercentage), bill.GST},
		{"Grand total", bill.GrandTotal},
		{"Cashback", bill.Cashback},
		{"Total", bill.FinalTotal},
		{"Paid (" + bill.PaymentMethod + ")", bill.AmountPaid},
	}
	for _, t := range totals {
		m.AddRow(7,
			col.New(6),
			text.NewCol(3, t.label, small),
			text.NewCol(3, fmt.Sprintf("%d", t.value), right),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return doc.GetBytes(), nil
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
