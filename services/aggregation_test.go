package services

import (
	"context"
	"testing"
	"time"

	"salonhub-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bill(phone, method string, finalTotal int64, at time.Time) models.Billing {
	b := models.Billing{
		PhoneNumber:   phone,
		FirstName:     "Cust",
		LastName:      phone,
		PaymentMethod: method,
		Subtotal:      finalTotal,
		GrandTotal:    finalTotal,
		FinalTotal:    finalTotal,
		AmountPaid:    finalTotal,
	}
	b.CreatedAt = at
	b.SetCustomerName()
	return b
}

func TestSummarizeExample(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	bills := []models.Billing{
		bill("555", models.PaymentCash, 1000, at),
		bill("555", models.PaymentUPI, 2000, at.Add(time.Hour)),
	}

	s := Summarize(bills)

	assert.Equal(t, int64(3000), s.TotalRevenue)
	assert.Equal(t, int64(1000), s.Payments.Cash)
	assert.Equal(t, int64(2000), s.Payments.UPI)
	assert.Equal(t, int64(0), s.Payments.Card)
	assert.Equal(t, 1, s.Customers.Total)
	assert.Equal(t, 2, s.Transactions.Total)
	assert.Equal(t, 1500.0, s.Transactions.Average)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, models.SalesSummary{}, s)
	assert.Equal(t, 0.0, s.Transactions.Average)
}

func TestSummarizeLines(t *testing.T) {
	b := bill("555", models.PaymentCard, 0, time.Now())
	b.Services = []models.ServiceLine{
		{Name: "Haircut", Price: 500, Discount: 50, FinalPrice: 450, StaffName: "Asha"},
		{Name: "Shave", Price: 200.25, Discount: 0, FinalPrice: 200.25, StaffName: "Ben"},
	}
	b.Products = []models.ProductLine{
		{Name: "Gel", Price: 100, Quantity: 3, Discount: 10, FinalPrice: 270},
	}

	s := Summarize([]models.Billing{b})

	assert.Equal(t, 2, s.Services.Count)
	assert.Equal(t, int64(650), s.Services.Revenue)
	assert.Equal(t, int64(50), s.Services.Discount)
	assert.Equal(t, 1, s.Products.Count)
	assert.Equal(t, int64(270), s.Products.Revenue)
	assert.Equal(t, int64(30), s.Products.Discount)
}

func TestSummarizeMatchesArithmeticSum(t *testing.T) {
	var bills []models.Billing
	var want int64
	for i := int64(1); i <= 50; i++ {
		bills = append(bills, bill("p", models.PaymentCash, i*37, time.Now()))
		want += i * 37
	}
	assert.Equal(t, want, Summarize(bills).TotalRevenue)
}

func TestBreakdownTopN(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	var bills []models.Billing
	for i, name := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		b := bill("p"+name, models.PaymentCash, int64(100*(i+1)), at)
		b.Services = []models.ServiceLine{{Name: "svc-" + name, Price: float64(100 * (i + 1)), FinalPrice: float64(100 * (i + 1)), StaffName: "staff-" + name}}
		bills = append(bills, b)
	}

	for _, by := range []GroupBy{GroupByService, GroupByStaff, GroupByCustomer} {
		top := Breakdown(bills, by, MetricRevenue, TopLimit)
		require.Len(t, top, TopLimit, by)
		for i := 1; i < len(top); i++ {
			assert.GreaterOrEqual(t, top[i-1].Revenue, top[i].Revenue, by)
		}
		assert.Equal(t, int64(700), top[0].Revenue, by)
	}

	all := Breakdown(bills, GroupByStaff, MetricRevenue, 0)
	assert.Len(t, all, 7)
}

func TestBreakdownTiesKeepInsertionOrder(t *testing.T) {
	at := time.Now()
	bills := []models.Billing{
		bill("1", models.PaymentCash, 100, at),
		bill("2", models.PaymentCash, 100, at),
		bill("3", models.PaymentCash, 100, at),
	}
	top := Breakdown(bills, GroupByCustomer, MetricRevenue, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "1", top[0].Key)
	assert.Equal(t, "2", top[1].Key)
}

func TestBreakdownServiceStaffSplit(t *testing.T) {
	b := bill("1", models.PaymentCash, 0, time.Now())
	b.Services = []models.ServiceLine{
		{Name: "Haircut", Price: 300, FinalPrice: 300, StaffName: "Asha"},
		{Name: "Haircut", Price: 300, FinalPrice: 250, Discount: 50, StaffName: "Ben"},
		{Name: "Haircut", Price: 300, FinalPrice: 300, StaffName: "Asha"},
	}

	top := Breakdown([]models.Billing{b}, GroupByService, MetricRevenue, TopLimit)
	require.Len(t, top, 1)
	assert.Equal(t, 3, top[0].Count)
	assert.Equal(t, int64(850), top[0].Revenue)
	assert.Equal(t, int64(50), top[0].Discount)
	require.Len(t, top[0].Staff, 2)
	assert.Equal(t, "Asha", top[0].Staff[0].Key)
	assert.Equal(t, int64(600), top[0].Staff[0].Revenue)
}

func TestBreakdownProductsByQuantity(t *testing.T) {
	b := bill("1", models.PaymentCash, 0, time.Now())
	b.Products = []models.ProductLine{
		{Name: "Gel", Price: 100, Quantity: 1, FinalPrice: 100},
		{Name: "Wax", Price: 10, Quantity: 5, FinalPrice: 50},
	}
	top := Breakdown([]models.Billing{b}, GroupByProduct, MetricQuantity, TopLimit)
	require.Len(t, top, 2)
	assert.Equal(t, "Wax", top[0].Key)
	assert.Equal(t, 5, top[0].Quantity)
}

func TestDailySales(t *testing.T) {
	day1 := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
	day0 := day1.AddDate(0, 0, -1)

	a := bill("1", models.PaymentCash, 500, day1)
	a.Services = []models.ServiceLine{{Name: "Cut", Price: 400, FinalPrice: 400}}
	a.Products = []models.ProductLine{{Name: "Gel", Price: 50, Quantity: 2, FinalPrice: 100}}
	b := bill("2", models.PaymentCash, 300, day0)

	points := DailySales([]models.Billing{a, b})
	require.Len(t, points, 2)
	assert.Equal(t, DailyPoint{Date: "2024-05-01", Sales: 300, Expenses: 0}, points[0])
	assert.Equal(t, DailyPoint{Date: "2024-05-02", Sales: 500, Expenses: 500}, points[1])
}

func TestAggregatorSummaryRange(t *testing.T) {
	db := newTestDB(t)
	agg := NewAggregator(db)
	ctx := context.Background()

	in := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	rows := []models.Billing{
		bill("555", models.PaymentCash, 1000, in),
		bill("555", models.PaymentUPI, 2000, in.Add(2*time.Hour)),
		bill("777", models.PaymentCard, 9999, in.AddDate(0, 0, 5)),
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	r := DateRange{
		Start: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 5, 10, 23, 59, 59, 999000000, time.UTC),
	}
	s, err := agg.Summary(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), s.TotalRevenue)
	assert.Equal(t, 2, s.Transactions.Total)
	assert.Equal(t, 1, s.Customers.Total)

	revenue, err := agg.Revenue(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), revenue)

	empty, err := agg.Summary(ctx, DateRange{Start: r.Start.AddDate(1, 0, 0), End: r.End.AddDate(1, 0, 0)})
	require.NoError(t, err)
	assert.Equal(t, models.SalesSummary{}, empty)

	_, err = agg.Summary(ctx, DateRange{Start: r.End, End: r.Start})
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}
