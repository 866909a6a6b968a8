package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ReportDaily   = "daily"
	ReportWeekly  = "weekly"
	ReportMonthly = "monthly"
	ReportCustom  = "custom"
)

// LineTotals sums one kind of bill line.
type LineTotals struct {
	Count    int   `json:"count"`
	Revenue  int64 `json:"revenue"`
	Discount int64 `json:"discount"`
}

type TransactionTotals struct {
	Total   int     `json:"total"`
	Average float64 `json:"average"`
}

type PaymentTotals struct {
	Cash int64 `json:"cash"`
	Card int64 `json:"card"`
	UPI  int64 `json:"upi"`
}

type CustomerTotals struct {
	Total int `json:"total"`
}

// SalesSummary is the aggregate over every bill in a date range.
type SalesSummary struct {
	TotalRevenue int64             `json:"totalRevenue"`
	Services     LineTotals        `json:"services"`
	Products     LineTotals        `json:"products"`
	Transactions TransactionTotals `json:"transactions"`
	Payments     PaymentTotals     `json:"payments"`
	Customers    CustomerTotals    `json:"customers"`
	GST          int64             `json:"gst"`
	Cashback     int64             `json:"cashback"`
}

// GroupTotal is one row of a ranked breakdown.
type GroupTotal struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Count    int    `json:"count"`
	Quantity int    `json:"quantity,omitempty"`
	Revenue  int64  `json:"revenue"`
	Discount int64  `json:"discount"`
	// Staff splits a service's revenue by who performed it.
	Staff []GroupTotal `json:"staff,omitempty"`
}

type Segmentation struct {
	New       int `json:"new"`
	Returning int `json:"returning"`
}

type TimeAnalysis struct {
	PeakHours           []GroupTotal `json:"peakHours"`
	WeekdayDistribution []GroupTotal `json:"weekdayDistribution"`
}

// ReportSummary is what a materialized report stores.
type ReportSummary struct {
	SalesSummary

	StaffPerformance     []GroupTotal `json:"staffPerformance"`
	TopServices          []GroupTotal `json:"topServices"`
	TopProducts          []GroupTotal `json:"topProducts"`
	TopCustomers         []GroupTotal `json:"topCustomers"`
	PaymentDistribution  []GroupTotal `json:"paymentDistribution"`
	CustomerSegmentation Segmentation `json:"customerSegmentation"`
	TimeAnalysis         TimeAnalysis `json:"timeAnalysis"`
}

// Report is an immutable snapshot; it has no update path.
type Report struct {
	Base

	ReportType string                            `gorm:"size:10;index;not null" json:"reportType"`
	StartDate  time.Time                         `gorm:"index" json:"startDate"`
	EndDate    time.Time                         `json:"endDate"`
	Summary    datatypes.JSONType[ReportSummary] `json:"summary"`
}

func ValidPeriod(p string) bool {
	switch p {
	case ReportDaily, ReportWeekly, ReportMonthly:
		return true
	}
	return false
}
