package controllers

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"salonhub-backend/models"
	"salonhub-backend/services"
	"salonhub-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DashboardController struct {
	DB  *gorm.DB
	Agg *services.Aggregator
	Loc *time.Location
	Now func() time.Time
}

type DashboardCharts struct {
	SalesVsExpenses     []services.DailyPoint `json:"salesVsExpenses"`
	CustomerGrowth      []models.GroupTotal   `json:"customerGrowth"`
	EmployeeSales       []models.GroupTotal   `json:"employeeSales"`
	ServiceDistribution []models.GroupTotal   `json:"serviceDistribution"`
	TopProducts         []models.GroupTotal   `json:"topProducts"`
	TopCustomers        []models.GroupTotal   `json:"topCustomers"`
}

type DashboardOverview struct {
	TotalSales        int64            `json:"totalSales"`
	TotalCustomers    int              `json:"totalCustomers"`
	TotalServiceCost  int64            `json:"totalServiceCost"`
	TotalVisits       int              `json:"totalVisits"`
	Charts            DashboardCharts  `json:"charts"`
	RecentCustomers   []RecentCustomer `json:"recentCustomers"`
	UpcomingBirthdays []UpcomingEvent  `json:"upcomingBirthdays"`
}

type UpcomingEvent struct {
	Name string `json:"name"`
	Date string `json:"date"` // e.g. "Tomorrow", "3 days"
}

type RecentCustomer struct {
	Name      string `json:"name"`
	Service   string `json:"service"`
	VisitDate string `json:"visitDate"` // e.g. "Today", "Yesterday"
}

const (
	recentCustomerLimit = 3
	birthdayWindowDays  = 7
)

func (dc *DashboardController) now() time.Time {
	if dc.Now != nil {
		return dc.Now().In(dc.Loc)
	}
	return time.Now().In(dc.Loc)
}

// GetDashboard returns the totals and charts for startDate..endDate.
func (dc *DashboardController) GetDashboard(c *gin.Context) {
	r, ok := dateRangeQuery(c, dc.Loc)
	if !ok {
		return
	}

	bills, err := dc.Agg.Bills(c.Request.Context(), r)
	if err != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to load dashboard", err)
		return
	}
	for i := range bills {
		bills[i].CreatedAt = bills[i].CreatedAt.In(dc.Loc)
	}

	summary := services.Summarize(bills)
	now := dc.now()

	birthdays, err := dc.upcomingBirthdays(c, now)
	if err != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to load birthdays", err)
		return
	}

	c.JSON(http.StatusOK, DashboardOverview{
		TotalSales:       summary.TotalRevenue,
		TotalCustomers:   summary.Customers.Total,
		TotalServiceCost: summary.Services.Revenue,
		TotalVisits:      summary.Transactions.Total,
		Charts: DashboardCharts{
			SalesVsExpenses:     services.DailySales(bills),
			CustomerGrowth:      services.Breakdown(bills, services.GroupByCustomer, services.MetricRevenue, 0),
			EmployeeSales:       services.Breakdown(bills, services.GroupByStaff, services.MetricRevenue, 0),
			ServiceDistribution: services.Breakdown(bills, services.GroupByService, services.MetricRevenue, services.TopLimit),
			TopProducts:         services.Breakdown(bills, services.GroupByProduct, services.MetricRevenue, services.TopLimit),
			TopCustomers:        services.Breakdown(bills, services.GroupByCustomer, services.MetricRevenue, services.TopLimit),
		},
		RecentCustomers:   recentCustomers(bills, now),
		UpcomingBirthdays: birthdays,
	})
}

// recentCustomers lists the last few distinct customers seen in bills.
func recentCustomers(bills []models.Billing, now time.Time) []RecentCustomer {
	out := []RecentCustomer{}
	seen := make(map[string]bool)
	today := utils.BeginningOfDay(now)

	for i := len(bills) - 1; i >= 0 && len(out) < recentCustomerLimit; i-- {
		b := bills[i]
		if seen[b.PhoneNumber] {
			continue
		}
		seen[b.PhoneNumber] = true

		names := make([]string, 0, len(b.Services))
		for _, s := range b.Services {
			names = append(names, s.Name)
		}

		var visitDate string
		switch daysAgo := utils.DaysBetween(utils.BeginningOfDay(b.CreatedAt), today); daysAgo {
		case 0:
			visitDate = "Today"
		case 1:
			visitDate = "Yesterday"
		default:
			visitDate = fmt.Sprintf("%d days ago", daysAgo)
		}

		out = append(out, RecentCustomer{
			Name:      b.CustomerName,
			Service:   strings.Join(names, ", "),
			VisitDate: visitDate,
		})
	}
	return out
}

func (dc *DashboardController) upcomingBirthdays(c *gin.Context, now time.Time) ([]UpcomingEvent, error) {
	var customers []models.Customer
	err := dc.DB.WithContext(c.Request.Context()).
		Select("first_name", "last_name", "date_of_birth").
		Where("date_of_birth IS NOT NULL").
		Find(&customers).Error
	if err != nil {
		return nil, err
	}

	type upcoming struct {
		name string
		days int
	}
	today := utils.BeginningOfDay(now)
	var found []upcoming
	for _, cu := range customers {
		dob := cu.DateOfBirth.In(dc.Loc)
		next := time.Date(today.Year(), dob.Month(), dob.Day(), 0, 0, 0, 0, dc.Loc)
		if next.Before(today) {
			next = next.AddDate(1, 0, 0)
		}
		days := utils.DaysBetween(today, next)
		if days < birthdayWindowDays {
			found = append(found, upcoming{name: cu.FullName(), days: days})
		}
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].days < found[j].days })

	events := make([]UpcomingEvent, 0, len(found))
	for _, f := range found {
		var label string
		switch f.days {
		case 0:
			label = "Today"
		case 1:
			label = "Tomorrow"
		default:
			label = fmt.Sprintf("%d days", f.days)
		}
		events = append(events, UpcomingEvent{Name: f.name, Date: label})
	}
	return events, nil
}
