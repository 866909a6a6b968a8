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

func reportRouter(db *gorm.DB, now time.Time) *gin.Engine {
	agg := services.NewAggregator(db)
	reports := services.NewReportService(db, agg, time.UTC)
	reports.Now = func() time.Time { return now }

	rc := &ReportController{DB: db, Reports: reports, Agg: agg, Loc: time.UTC}
	r := gin.New()
	r.GET("/reports", rc.GetReports)
	r.GET("/reports/summary", rc.GetSummary)
	r.GET("/reports/analytics", rc.GetReportAnalytics)
	r.POST("/reports/generate", rc.GenerateCustomReport)
	r.POST("/reports/generate/:period", rc.GenerateReport)
	r.GET("/reports/:id", rc.GetReport)
	return r
}

func TestGenerateReport(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC) // a Wednesday
	r := reportRouter(db, now)

	seedBill(t, db, "9000000001", "Ana", models.PaymentCash, 1000, time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC))
	seedBill(t, db, "9000000002", "Ben", models.PaymentCard, 2000, time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC))

	w := perform(r, http.MethodPost, "/reports/generate/yearly", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(r, http.MethodPost, "/reports/generate/weekly", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var weekly models.Report
	decode(t, w, &weekly)
	assert.Equal(t, models.ReportWeekly, weekly.ReportType)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), weekly.StartDate.UTC())
	assert.Equal(t, int64(3000), weekly.Summary.Data().TotalRevenue)
	assert.Equal(t, 1500.0, weekly.Summary.Data().Transactions.Average)

	w = perform(r, http.MethodPost, "/reports/generate/daily", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var daily models.Report
	decode(t, w, &daily)
	assert.Equal(t, int64(2000), daily.Summary.Data().TotalRevenue)

	w = perform(r, http.MethodPost, "/reports/generate", jsonBody(t, gin.H{"startDate": "2024-03-14", "endDate": "2024-03-01"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(r, http.MethodPost, "/reports/generate", jsonBody(t, gin.H{"startDate": "2024-01-01", "endDate": "2024-01-31"}))
	require.Equal(t, http.StatusCreated, w.Code)
	var empty models.Report
	decode(t, w, &empty)
	assert.Equal(t, models.ReportCustom, empty.ReportType)
	assert.Zero(t, empty.Summary.Data().Transactions.Average)

	w = perform(r, http.MethodGet, "/reports?reportType=weekly", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Reports []models.Report `json:"reports"`
	}
	decode(t, w, &list)
	assert.Len(t, list.Reports, 1)

	w = perform(r, http.MethodGet, "/reports/"+weekly.ID.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReportSummary(t *testing.T) {
	db := newTestDB(t)
	r := reportRouter(db, time.Now())

	seedBill(t, db, "9000000001", "Ana", models.PaymentCash, 1000, time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC))
	seedBill(t, db, "9000000002", "Ben", models.PaymentUPI, 2000, time.Date(2024, 3, 13, 23, 30, 0, 0, time.UTC))

	w := perform(r, http.MethodGet, "/reports/summary?startDate=2024-03-10&endDate=2024-03-13", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var summary models.SalesSummary
	decode(t, w, &summary)
	assert.Equal(t, int64(3000), summary.TotalRevenue)
	assert.Equal(t, int64(2000), summary.Payments.UPI)

	w = perform(r, http.MethodGet, "/reports/summary?startDate=bad&endDate=2024-03-13", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportAnalytics(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	r := reportRouter(db, now)

	seedBill(t, db, "9000000001", "Ana", models.PaymentCash, 1000, time.Date(2024, 4, 10, 10, 0, 0, 0, time.UTC))
	seedBill(t, db, "9000000002", "Ben", models.PaymentCash, 1500, time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC))
	seedBill(t, db, "9000000001", "Ana", models.PaymentCash, 500, time.Date(2024, 5, 3, 10, 0, 0, 0, time.UTC))

	w := perform(r, http.MethodGet, "/reports/analytics", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp AnalyticsSummary
	decode(t, w, &resp)
	assert.Equal(t, int64(2000), resp.CurrentMonthRevenue)
	assert.Equal(t, 100.0, resp.MonthGrowth)
	assert.Equal(t, int64(3000), resp.CurrentQuarterRevenue)
	assert.Equal(t, 100.0, resp.QuarterGrowth)
	require.Len(t, resp.TopCustomers, 2)
	assert.Equal(t, "Ben", resp.TopCustomers[0].Name)
	assert.Equal(t, 3, resp.QuickStats.TotalBills)
	assert.Equal(t, 1.5, resp.QuickStats.AvgMonthlyVisits)
	assert.Equal(t, 1000.0, resp.QuickStats.AvgOrderValue)
}

func TestCalculateGrowthPercentage(t *testing.T) {
	rc := &ReportController{}
	assert.Equal(t, 0.0, rc.calculateGrowthPercentage(0, 0))
	assert.Equal(t, 100.0, rc.calculateGrowthPercentage(50, 0))
	assert.Equal(t, -50.0, rc.calculateGrowthPercentage(50, 100))
	assert.Equal(t, 25.0, rc.calculateGrowthPercentage(125, 100))
}
