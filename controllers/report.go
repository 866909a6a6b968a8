// controllers/report.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"salonhub-backend/models"
	"salonhub-backend/services"
	"salonhub-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReportController handles all reporting functions
type ReportController struct {
	DB      *gorm.DB
	Reports *services.ReportService
	Agg     *services.Aggregator
	Loc     *time.Location
}

// AnalyticsSummary represents the Analytics data
type AnalyticsSummary struct {
	CurrentMonthRevenue   int64             `json:"currentMonthRevenue"`
	MonthGrowth           float64           `json:"monthGrowth"`
	CurrentQuarterRevenue int64             `json:"currentQuarterRevenue"`
	QuarterGrowth         float64           `json:"quarterGrowth"`
	CurrentYearRevenue    int64             `json:"currentYearRevenue"`
	YearGrowth            float64           `json:"yearGrowth"`
	TopServices           []ServiceSummary  `json:"topServices"`
	TopCustomers          []CustomerSummary `json:"topCustomers"`
	QuickStats            QuickStatistics   `json:"quickStats"`
}

type ServiceSummary struct {
	Name    string `json:"name"`
	Count   int    `json:"count"`
	Revenue int64  `json:"revenue"`
}

type CustomerSummary struct {
	Name   string `json:"name"`
	Visits int    `json:"visits"`
	Spent  int64  `json:"spent"`
}

type QuickStatistics struct {
	TotalCustomers   int     `json:"totalCustomers"`
	TotalBills       int     `json:"totalBills"`
	AvgMonthlyVisits float64 `json:"avgMonthlyVisits"`
	AvgOrderValue    float64 `json:"avgOrderValue"`
}

type CustomReportInput struct {
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
}

const analyticsTopLimit = 4

// GetReports lists stored reports, newest first
func (rc *ReportController) GetReports(c *gin.Context) {
	page, limit := utils.ParsePagination(c)

	reportType := c.Query("reportType")
	if reportType != "" && reportType != models.ReportCustom && !models.ValidPeriod(reportType) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid report type")
		return
	}

	reports, total, err := rc.Reports.List(c.Request.Context(), reportType, page, limit)
	if err != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to retrieve reports", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reports":    reports,
		"pagination": utils.NewPagination(total, page, limit),
	})
}

func (rc *ReportController) GetReport(c *gin.Context) {
	id, ok := parseID(c, "report")
	if !ok {
		return
	}

	report, err := rc.Reports.Get(c.Request.Context(), id)
	if err != nil {
		respondLookupError(c, err, "Report")
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetSummary computes the sales summary for startDate..endDate without
// storing it
func (rc *ReportController) GetSummary(c *gin.Context) {
	r, ok := dateRangeQuery(c, rc.Loc)
	if !ok {
		return
	}

	summary, err := rc.Agg.Summary(c.Request.Context(), r)
	if err != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to compute summary", err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GenerateReport stores a daily, weekly or monthly report
func (rc *ReportController) GenerateReport(c *gin.Context) {
	report, err := rc.Reports.Generate(c.Request.Context(), c.Param("period"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidPeriod) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid period. Must be daily, weekly or monthly")
			return
		}
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to generate report", err)
		return
	}

	c.JSON(http.StatusCreated, report)
}

// GenerateCustomReport stores a report over an explicit date range
func (rc *ReportController) GenerateCustomReport(c *gin.Context) {
	var input CustomReportInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	start, end, err := utils.ParseDateRange(input.StartDate, input.EndDate, rc.Loc)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	report, err := rc.Reports.GenerateCustom(c.Request.Context(), services.DateRange{Start: start, End: end})
	if err != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to generate report", err)
		return
	}

	c.JSON(http.StatusCreated, report)
}

// GetReportAnalytics returns revenue growth and top lists for the current month
func (rc *ReportController) GetReportAnalytics(c *gin.Context) {
	ctx := c.Request.Context()

	// Get current time
	now := rc.Reports.Now().In(rc.Loc)
	currentYear, currentMonth, _ := now.Date()

	// Calculate date ranges
	firstOfMonth := time.Date(currentYear, currentMonth, 1, 0, 0, 0, 0, rc.Loc)
	month := window(firstOfMonth, firstOfMonth.AddDate(0, 1, -1))
	lastMonth := window(firstOfMonth.AddDate(0, -1, 0), firstOfMonth.AddDate(0, 0, -1))
	quarter := window(rc.getQuarterStart(now), rc.getQuarterEnd(now))
	prevQuarterStart := rc.getQuarterStart(now).AddDate(0, -3, 0)
	lastQuarter := window(prevQuarterStart, rc.getQuarterEnd(prevQuarterStart))
	year := window(time.Date(currentYear, 1, 1, 0, 0, 0, 0, rc.Loc), time.Date(currentYear, 12, 31, 0, 0, 0, 0, rc.Loc))
	lastYear := window(time.Date(currentYear-1, 1, 1, 0, 0, 0, 0, rc.Loc), time.Date(currentYear-1, 12, 31, 0, 0, 0, 0, rc.Loc))

	revenue := make(map[string]int64, 6)
	for name, r := range map[string]services.DateRange{
		"month": month, "lastMonth": lastMonth,
		"quarter": quarter, "lastQuarter": lastQuarter,
		"year": year, "lastYear": lastYear,
	} {
		total, err := rc.Agg.Revenue(ctx, r)
		if err != nil {
			utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to get revenue", err)
			return
		}
		revenue[name] = total
	}

	bills, err := rc.Agg.Bills(ctx, month)
	if err != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to get monthly bills", err)
		return
	}

	// Get quick statistics
	quickStats, err := rc.getQuickStatistics(c)
	if err != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to get quick statistics", err)
		return
	}

	summary := AnalyticsSummary{
		CurrentMonthRevenue:   revenue["month"],
		MonthGrowth:           rc.calculateGrowthPercentage(revenue["month"], revenue["lastMonth"]),
		CurrentQuarterRevenue: revenue["quarter"],
		QuarterGrowth:         rc.calculateGrowthPercentage(revenue["quarter"], revenue["lastQuarter"]),
		CurrentYearRevenue:    revenue["year"],
		YearGrowth:            rc.calculateGrowthPercentage(revenue["year"], revenue["lastYear"]),
		TopServices:           []ServiceSummary{},
		TopCustomers:          []CustomerSummary{},
		QuickStats:            quickStats,
	}
	for _, g := range services.Breakdown(bills, services.GroupByService, services.MetricRevenue, analyticsTopLimit) {
		summary.TopServices = append(summary.TopServices, ServiceSummary{Name: g.Label, Count: g.Count, Revenue: g.Revenue})
	}
	for _, g := range services.Breakdown(bills, services.GroupByCustomer, services.MetricRevenue, analyticsTopLimit) {
		summary.TopCustomers = append(summary.TopCustomers, CustomerSummary{Name: g.Label, Visits: g.Count, Spent: g.Revenue})
	}

	c.JSON(http.StatusOK, summary)
}

// Helper functions for reports

func window(start, lastDay time.Time) services.DateRange {
	return services.DateRange{Start: start, End: utils.EndOfDay(lastDay)}
}

func (rc *ReportController) getQuarterStart(date time.Time) time.Time {
	quarter := (int(date.Month())-1)/3 + 1
	startMonth := time.Month((quarter-1)*3 + 1)
	return time.Date(date.Year(), startMonth, 1, 0, 0, 0, 0, date.Location())
}

func (rc *ReportController) getQuarterEnd(date time.Time) time.Time {
	return rc.getQuarterStart(date).AddDate(0, 3, -1)
}

func (rc *ReportController) calculateGrowthPercentage(current, previous int64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	growth := decimal.NewFromInt(current - previous).
		DivRound(decimal.NewFromInt(previous), 4).
		Mul(decimal.NewFromInt(100))
	return growth.InexactFloat64()
}

func (rc *ReportController) getQuickStatistics(c *gin.Context) (QuickStatistics, error) {
	var stats QuickStatistics
	db := rc.DB.WithContext(c.Request.Context())

	// Total Customers
	var totalCustomers int64
	if err := db.Model(&models.Customer{}).Count(&totalCustomers).Error; err != nil {
		return stats, err
	}
	stats.TotalCustomers = int(totalCustomers)

	// Bill times and totals; month grouping is done here so it works on
	// every dialect
	var rows []struct {
		CreatedAt  time.Time
		FinalTotal int64
	}
	if err := db.Model(&models.Billing{}).Select("created_at", "final_total").Scan(&rows).Error; err != nil {
		return stats, err
	}
	stats.TotalBills = len(rows)
	if len(rows) == 0 {
		return stats, nil
	}

	months := make(map[string]struct{})
	revenue := decimal.Zero
	for _, r := range rows {
		months[r.CreatedAt.In(rc.Loc).Format("2006-01")] = struct{}{}
		revenue = revenue.Add(decimal.NewFromInt(r.FinalTotal))
	}

	count := decimal.NewFromInt(int64(len(rows)))
	stats.AvgMonthlyVisits = count.DivRound(decimal.NewFromInt(int64(len(months))), 2).InexactFloat64()
	stats.AvgOrderValue = revenue.DivRound(count, 2).InexactFloat64()

	return stats, nil
}
