package controllers

import (
	"net/http"
	"testing"
	"time"

	"salonhub-backend/models"
	"salonhub-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedBill(t *testing.T, db *gorm.DB, phone, name, method string, total int64, at time.Time) {
	t.Helper()
	b := models.Billing{
		BillNumber:   "BILL-" + phone + at.Format("20060102150405"),
		FirstName:    name,
		CustomerName: name,
		PhoneNumber:  phone,
		Services: []models.ServiceLine{
			{Name: "Haircut", Price: float64(total), StaffName: "Rita", FinalPrice: float64(total)},
		},
		Subtotal:      total,
		GrandTotal:    total,
		FinalTotal:    total,
		AmountPaid:    total,
		PaymentMethod: method,
	}
	b.CreatedAt = at
	require.NoError(t, db.Create(&b).Error)
}

func TestDashboard(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	dc := &DashboardController{
		DB:  db,
		Agg: services.NewAggregator(db),
		Loc: time.UTC,
		Now: func() time.Time { return now },
	}
	r := gin.New()
	r.GET("/dashboard", dc.GetDashboard)

	w := perform(r, http.MethodGet, "/dashboard", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = perform(r, http.MethodGet, "/dashboard?startDate=2024-03-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	seedBill(t, db, "9000000001", "Ana", models.PaymentCash, 1000, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	seedBill(t, db, "9000000002", "Ben", models.PaymentCard, 2000, time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC))
	seedBill(t, db, "9000000001", "Ana", models.PaymentUPI, 500, time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC))
	seedBill(t, db, "9000000003", "Cal", models.PaymentCash, 9999, time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC))

	dob := time.Date(1990, 3, 12, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.Customer{FirstName: "Ana", PhoneNumber: "9000000001", DateOfBirth: &dob}).Error)

	w = perform(r, http.MethodGet, "/dashboard?startDate=2024-03-01&endDate=2024-03-31", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp DashboardOverview
	decode(t, w, &resp)
	assert.Equal(t, int64(3500), resp.TotalSales)
	assert.Equal(t, 2, resp.TotalCustomers)
	assert.Equal(t, 3, resp.TotalVisits)
	assert.Equal(t, int64(3500), resp.TotalServiceCost)

	require.Len(t, resp.Charts.SalesVsExpenses, 3)
	assert.Equal(t, "2024-03-01", resp.Charts.SalesVsExpenses[0].Date)

	require.Len(t, resp.Charts.TopCustomers, 2)
	assert.Equal(t, "Ben", resp.Charts.TopCustomers[0].Label)
	assert.Equal(t, int64(1500), resp.Charts.TopCustomers[1].Revenue)

	require.Len(t, resp.RecentCustomers, 2)
	assert.Equal(t, "Ana", resp.RecentCustomers[0].Name)
	assert.Equal(t, "Today", resp.RecentCustomers[0].VisitDate)
	assert.Equal(t, "Yesterday", resp.RecentCustomers[1].VisitDate)

	require.Len(t, resp.UpcomingBirthdays, 1)
	assert.Equal(t, "2 days", resp.UpcomingBirthdays[0].Date)
}
