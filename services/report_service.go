package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salonhub-backend/models"
	"salonhub-backend/utils"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReportService materializes period reports from bills.
type ReportService struct {
	db  *gorm.DB
	agg *Aggregator
	loc *time.Location
	Now func() time.Time
}

func NewReportService(db *gorm.DB, agg *Aggregator, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{db: db, agg: agg, loc: loc, Now: time.Now}
}

// Window returns the range covered by period, anchored at the current time.
// Weeks run Sunday through Saturday.
func (s *ReportService) Window(period string) (DateRange, error) {
	now := s.Now().In(s.loc)
	today := utils.BeginningOfDay(now)

	switch period {
	case models.ReportDaily:
		return DateRange{Start: today, End: utils.EndOfDay(now)}, nil
	case models.ReportWeekly:
		start := today.AddDate(0, 0, -int(today.Weekday()))
		return DateRange{Start: start, End: utils.EndOfDay(start.AddDate(0, 0, 6))}, nil
	case models.ReportMonthly:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)
		return DateRange{Start: start, End: utils.EndOfDay(start.AddDate(0, 1, -1))}, nil
	default:
		return DateRange{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}
}

// Generate builds and stores a new report for period. Every call creates a
// new row; earlier reports for the same window are left alone.
func (s *ReportService) Generate(ctx context.Context, period string) (*models.Report, error) {
	r, err := s.Window(period)
	if err != nil {
		return nil, err
	}
	return s.materialize(ctx, period, r)
}

// GenerateCustom stores a report for an explicit range.
func (s *ReportService) GenerateCustom(ctx context.Context, r DateRange) (*models.Report, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return s.materialize(ctx, models.ReportCustom, r)
}

func (s *ReportService) materialize(ctx context.Context, reportType string, r DateRange) (*models.Report, error) {
	summary, err := s.Build(ctx, r)
	if err != nil {
		return nil, err
	}

	report := &models.Report{
		ReportType: reportType,
		StartDate:  r.Start,
		EndDate:    r.End,
		Summary:    datatypes.NewJSONType(summary),
	}
	if err := s.db.WithContext(ctx).Create(report).Error; err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}
	return report, nil
}

// Build computes the full report summary for r without storing it.
func (s *ReportService) Build(ctx context.Context, r DateRange) (models.ReportSummary, error) {
	bills, err := s.agg.Bills(ctx, r)
	if err != nil {
		return models.ReportSummary{}, err
	}
	for i := range bills {
		bills[i].CreatedAt = bills[i].CreatedAt.In(s.loc)
	}

	segmentation, err := s.segment(ctx, bills, r)
	if err != nil {
		return models.ReportSummary{}, err
	}

	return models.ReportSummary{
		SalesSummary:         Summarize(bills),
		StaffPerformance:     Breakdown(bills, GroupByStaff, MetricRevenue, 0),
		TopServices:          Breakdown(bills, GroupByService, MetricRevenue, TopLimit),
		TopProducts:          Breakdown(bills, GroupByProduct, MetricRevenue, TopLimit),
		TopCustomers:         Breakdown(bills, GroupByCustomer, MetricRevenue, TopLimit),
		PaymentDistribution:  Breakdown(bills, GroupByPayment, MetricRevenue, 0),
		CustomerSegmentation: segmentation,
		TimeAnalysis: models.TimeAnalysis{
			PeakHours:           Breakdown(bills, GroupByHour, MetricCount, TopLimit),
			WeekdayDistribution: Breakdown(bills, GroupByWeekday, MetricCount, 0),
		},
	}, nil
}

// segment splits the window's customers into those first seen inside it and
// those who were already known.
func (s *ReportService) segment(ctx context.Context, bills []models.Billing, r DateRange) (models.Segmentation, error) {
	seen := make(map[string]struct{})
	var phones []string
	for _, b := range bills {
		if _, ok := seen[b.PhoneNumber]; !ok {
			seen[b.PhoneNumber] = struct{}{}
			phones = append(phones, b.PhoneNumber)
		}
	}
	if len(phones) == 0 {
		return models.Segmentation{}, nil
	}

	var customers []models.Customer
	if err := s.db.WithContext(ctx).
		Select("phone_number", "created_at").
		Where("phone_number IN ?", phones).
		Find(&customers).Error; err != nil {
		return models.Segmentation{}, fmt.Errorf("load customers: %w", err)
	}

	var seg models.Segmentation
	known := make(map[string]time.Time, len(customers))
	for _, c := range customers {
		known[c.PhoneNumber] = c.CreatedAt
	}
	for _, phone := range phones {
		created, ok := known[phone]
		if ok && created.Before(r.Start) {
			seg.Returning++
		} else {
			seg.New++
		}
	}
	return seg, nil
}

func (s *ReportService) List(ctx context.Context, reportType string, page, limit int) ([]models.Report, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Report{})
	if reportType != "" {
		q = q.Where("report_type = ?", reportType)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []models.Report
	err := q.Order("created_at DESC").
		Offset(utils.Offset(page, limit)).
		Limit(limit).
		Find(&reports).Error
	return reports, total, err
}

func (s *ReportService) Get(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	var report models.Report
	if err := s.db.WithContext(ctx).First(&report, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &report, nil
}
