package services

import (
	"testing"

	"salonhub-backend/models"

	"github.com/stretchr/testify/assert"
)

func consistentBill() models.Billing {
	return models.Billing{
		PhoneNumber: "555",
		Services: []models.ServiceLine{
			{Name: "Haircut", Price: 500, Discount: 50, FinalPrice: 450},
		},
		Products: []models.ProductLine{
			{Name: "Gel", Price: 100, Quantity: 2, Discount: 10, FinalPrice: 180},
		},
		Subtotal:      630,
		GSTPercentage: 18,
		GST:           113,
		GrandTotal:    743,
		Cashback:      43,
		FinalTotal:    700,
	}
}

func TestCheckTotals(t *testing.T) {
	assert.Empty(t, CheckTotals(consistentBill()))

	tests := []struct {
		name   string
		mutate func(b *models.Billing)
	}{
		{"grand total", func(b *models.Billing) { b.GrandTotal = 1 }},
		{"final total", func(b *models.Billing) { b.FinalTotal = 1 }},
		{"service line", func(b *models.Billing) { b.Services[0].FinalPrice = 500 }},
		{"product line", func(b *models.Billing) { b.Products[0].FinalPrice = 90 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := consistentBill()
			tt.mutate(&b)
			assert.NotEmpty(t, CheckTotals(b))
		})
	}
}

func TestTotalsErrorUnwraps(t *testing.T) {
	err := &TotalsError{Violations: []string{"x"}}
	assert.ErrorIs(t, err, ErrTotalsMismatch)
}
