package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"salonhub-backend/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DateRange is an inclusive [Start, End] window over bill creation time.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// UTC returns r with both bounds in UTC, the zone timestamps are stored in.
func (r DateRange) UTC() DateRange {
	return DateRange{Start: r.Start.UTC(), End: r.End.UTC()}
}

func (r DateRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() || r.Start.After(r.End) {
		return ErrInvalidDateRange
	}
	return nil
}

// GroupBy names the key a breakdown is grouped on.
type GroupBy string

const (
	GroupByStaff    GroupBy = "staff"
	GroupByService  GroupBy = "service"
	GroupByProduct  GroupBy = "product"
	GroupByCustomer GroupBy = "customer"
	GroupByDay      GroupBy = "day"
	GroupByHour     GroupBy = "hour"
	GroupByWeekday  GroupBy = "weekday"
	GroupByPayment  GroupBy = "paymentMethod"
)

// Metric is the value a breakdown is ranked by.
type Metric string

const (
	MetricRevenue  Metric = "revenue"
	MetricCount    Metric = "count"
	MetricQuantity Metric = "quantity"
)

const TopLimit = 5

// Aggregator reads bills for a date range and folds them into summaries.
type Aggregator struct {
	db *gorm.DB
}

func NewAggregator(db *gorm.DB) *Aggregator {
	return &Aggregator{db: db}
}

// Bills returns every bill created within r, oldest first.
func (a *Aggregator) Bills(ctx context.Context, r DateRange) ([]models.Billing, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	r = r.UTC()
	var bills []models.Billing
	err := a.db.WithContext(ctx).
		Where("created_at BETWEEN ? AND ?", r.Start, r.End).
		Order("created_at ASC").
		Find(&bills).Error
	if err != nil {
		return nil, fmt.Errorf("load bills: %w", err)
	}
	return bills, nil
}

func (a *Aggregator) Summary(ctx context.Context, r DateRange) (models.SalesSummary, error) {
	bills, err := a.Bills(ctx, r)
	if err != nil {
		return models.SalesSummary{}, err
	}
	return Summarize(bills), nil
}

// Revenue is the sum of final totals in r, computed by the database.
func (a *Aggregator) Revenue(ctx context.Context, r DateRange) (int64, error) {
	r = r.UTC()
	var total int64
	err := a.db.WithContext(ctx).Model(&models.Billing{}).
		Where("created_at BETWEEN ? AND ?", r.Start, r.End).
		Select("COALESCE(SUM(final_total), 0)").
		Scan(&total).Error
	return total, err
}

// Summarize computes the sales summary for bills. Money is summed exactly and
// rounded to whole units once at the end.
func Summarize(bills []models.Billing) models.SalesSummary {
	var (
		revenue, gst, cashback    decimal.Decimal
		svcRevenue, svcDiscount   decimal.Decimal
		prodRevenue, prodDiscount decimal.Decimal
		cash, card, upi           decimal.Decimal
		svcCount, prodCount       int
	)
	phones := make(map[string]struct{})

	for _, b := range bills {
		total := decimal.NewFromInt(b.FinalTotal)
		revenue = revenue.Add(total)
		gst = gst.Add(decimal.NewFromInt(b.GST))
		cashback = cashback.Add(decimal.NewFromInt(b.Cashback))
		phones[b.PhoneNumber] = struct{}{}

		switch b.PaymentMethod {
		case models.PaymentCash:
			cash = cash.Add(total)
		case models.PaymentCard:
			card = card.Add(total)
		case models.PaymentUPI:
			upi = upi.Add(total)
		}

		for _, s := range b.Services {
			svcCount++
			svcRevenue = svcRevenue.Add(decimal.NewFromFloat(s.FinalPrice))
			svcDiscount = svcDiscount.Add(decimal.NewFromFloat(s.Discount))
		}
		for _, p := range b.Products {
			prodCount++
			prodRevenue = prodRevenue.Add(decimal.NewFromFloat(p.FinalPrice))
			prodDiscount = prodDiscount.Add(decimal.NewFromFloat(p.Discount).Mul(decimal.NewFromInt(int64(p.Quantity))))
		}
	}

	summary := models.SalesSummary{
		TotalRevenue: round(revenue),
		Services:     models.LineTotals{Count: svcCount, Revenue: round(svcRevenue), Discount: round(svcDiscount)},
		Products:     models.LineTotals{Count: prodCount, Revenue: round(prodRevenue), Discount: round(prodDiscount)},
		Transactions: models.TransactionTotals{Total: len(bills)},
		Payments:     models.PaymentTotals{Cash: round(cash), Card: round(card), UPI: round(upi)},
		Customers:    models.CustomerTotals{Total: len(phones)},
		GST:          round(gst),
		Cashback:     round(cashback),
	}
	if len(bills) > 0 {
		summary.Transactions.Average = revenue.DivRound(decimal.NewFromInt(int64(len(bills))), 2).InexactFloat64()
	}
	return summary
}

type groupAcc struct {
	key, label string
	count      int
	quantity   int
	revenue    decimal.Decimal
	discount   decimal.Decimal
	staff      map[string]*groupAcc
	staffOrder []string
}

type groupSet struct {
	byKey map[string]*groupAcc
	order []string
}

func newGroupSet() *groupSet {
	return &groupSet{byKey: make(map[string]*groupAcc)}
}

func (g *groupSet) get(key, label string) *groupAcc {
	acc, ok := g.byKey[key]
	if !ok {
		acc = &groupAcc{key: key, label: label}
		g.byKey[key] = acc
		g.order = append(g.order, key)
	}
	return acc
}

func (a *groupAcc) staffAcc(name string) *groupAcc {
	if a.staff == nil {
		a.staff = make(map[string]*groupAcc)
	}
	s, ok := a.staff[name]
	if !ok {
		s = &groupAcc{key: name, label: name}
		a.staff[name] = s
		a.staffOrder = append(a.staffOrder, name)
	}
	return s
}

func (a *groupAcc) total() models.GroupTotal {
	t := models.GroupTotal{
		Key:      a.key,
		Label:    a.label,
		Count:    a.count,
		Quantity: a.quantity,
		Revenue:  round(a.revenue),
		Discount: round(a.discount),
	}
	for _, name := range a.staffOrder {
		t.Staff = append(t.Staff, a.staff[name].total())
	}
	return t
}

// Breakdown groups bills by key and ranks the groups by metric, largest
// first. Groups that tie keep the order in which they were first seen.
// n <= 0 returns every group.
func Breakdown(bills []models.Billing, by GroupBy, metric Metric, n int) []models.GroupTotal {
	set := newGroupSet()

	for _, b := range bills {
		total := decimal.NewFromInt(b.FinalTotal)
		switch by {
		case GroupByStaff:
			for _, s := range b.Services {
				name := s.StaffName
				if name == "" {
					name = "Unassigned"
				}
				acc := set.get(name, name)
				acc.count++
				acc.revenue = acc.revenue.Add(decimal.NewFromFloat(s.FinalPrice))
				acc.discount = acc.discount.Add(decimal.NewFromFloat(s.Discount))
			}
		case GroupByService:
			for _, s := range b.Services {
				acc := set.get(s.Name, s.Name)
				acc.count++
				acc.revenue = acc.revenue.Add(decimal.NewFromFloat(s.FinalPrice))
				acc.discount = acc.discount.Add(decimal.NewFromFloat(s.Discount))
				if s.StaffName != "" {
					st := acc.staffAcc(s.StaffName)
					st.count++
					st.revenue = st.revenue.Add(decimal.NewFromFloat(s.FinalPrice))
				}
			}
		case GroupByProduct:
			for _, p := range b.Products {
				acc := set.get(p.Name, p.Name)
				acc.count++
				acc.quantity += p.Quantity
				acc.revenue = acc.revenue.Add(decimal.NewFromFloat(p.FinalPrice))
				acc.discount = acc.discount.Add(decimal.NewFromFloat(p.Discount).Mul(decimal.NewFromInt(int64(p.Quantity))))
			}
		case GroupByCustomer:
			acc := set.get(b.PhoneNumber, b.CustomerName)
			if acc.label == "" {
				acc.label = b.CustomerName
			}
			acc.count++
			acc.revenue = acc.revenue.Add(total)
		case GroupByDay:
			day := b.CreatedAt.Format("2006-01-02")
			acc := set.get(day, day)
			acc.count++
			acc.revenue = acc.revenue.Add(total)
		case GroupByHour:
			hour := strconv.Itoa(b.CreatedAt.Hour())
			acc := set.get(hour, fmt.Sprintf("%02d:00", b.CreatedAt.Hour()))
			acc.count++
			acc.revenue = acc.revenue.Add(total)
		case GroupByWeekday:
			wd := b.CreatedAt.Weekday().String()
			acc := set.get(wd, wd)
			acc.count++
			acc.revenue = acc.revenue.Add(total)
		case GroupByPayment:
			acc := set.get(b.PaymentMethod, b.PaymentMethod)
			acc.count++
			acc.revenue = acc.revenue.Add(total)
		}
	}

	groups := make([]*groupAcc, 0, len(set.order))
	for _, key := range set.order {
		groups = append(groups, set.byKey[key])
	}
	sort.SliceStable(groups, func(i, j int) bool {
		switch metric {
		case MetricCount:
			return groups[i].count > groups[j].count
		case MetricQuantity:
			return groups[i].quantity > groups[j].quantity
		default:
			return groups[i].revenue.GreaterThan(groups[j].revenue)
		}
	})
	if n > 0 && len(groups) > n {
		groups = groups[:n]
	}

	out := make([]models.GroupTotal, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.total())
	}
	return out
}

// DailyPoint is one day of the sales vs expenses chart.
type DailyPoint struct {
	Date     string `json:"date"`
	Sales    int64  `json:"sales"`
	Expenses int64  `json:"expenses"`
}

// DailySales returns per-day sales (final totals) and expenses (service plus
// product line totals) in calendar order.
func DailySales(bills []models.Billing) []DailyPoint {
	type acc struct{ sales, expenses decimal.Decimal }
	days := make(map[string]*acc)
	var order []string

	for _, b := range bills {
		day := b.CreatedAt.Format("2006-01-02")
		a, ok := days[day]
		if !ok {
			a = &acc{}
			days[day] = a
			order = append(order, day)
		}
		a.sales = a.sales.Add(decimal.NewFromInt(b.FinalTotal))
		for _, s := range b.Services {
			a.expenses = a.expenses.Add(decimal.NewFromFloat(s.FinalPrice))
		}
		for _, p := range b.Products {
			a.expenses = a.expenses.Add(decimal.NewFromFloat(p.FinalPrice))
		}
	}

	sort.Strings(order)
	points := make([]DailyPoint, 0, len(order))
	for _, day := range order {
		points = append(points, DailyPoint{Date: day, Sales: round(days[day].sales), Expenses: round(days[day].expenses)})
	}
	return points
}

func round(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}
