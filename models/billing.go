package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	PaymentCash = "cash"
	PaymentCard = "card"
	PaymentUPI  = "upi"
)

// ServiceLine is one service rendered on a bill.
type ServiceLine struct {
	ServiceID  *uuid.UUID `json:"serviceId,omitempty"`
	Name       string     `json:"name" binding:"required"`
	Price      float64    `json:"price" binding:"gte=0"`
	StaffID    *uuid.UUID `json:"staffId,omitempty"`
	StaffName  string     `json:"staffName"`
	Discount   float64    `json:"discount" binding:"gte=0"`
	FinalPrice float64    `json:"finalPrice" binding:"gte=0"`
}

// ProductLine is one product sold on a bill. Discount is per unit and
// FinalPrice is the line total.
type ProductLine struct {
	ProductID          *uuid.UUID `json:"productId,omitempty"`
	Name               string     `json:"name" binding:"required"`
	Price              float64    `json:"price" binding:"gte=0"`
	Quantity           int        `json:"quantity" binding:"gte=1"`
	Discount           float64    `json:"discount" binding:"gte=0"`
	DiscountPercentage float64    `json:"discountPercentage" binding:"gte=0,lte=100"`
	FinalPrice         float64    `json:"finalPrice" binding:"gte=0"`
}

type Billing struct {
	Base

	BillNumber string     `gorm:"size:40;uniqueIndex" json:"billNumber"`
	CustomerID *uuid.UUID `gorm:"size:36;index" json:"customerId"`

	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	CustomerName string     `json:"customerName"`
	PhoneNumber  string     `gorm:"size:32;index;not null" json:"phoneNumber"`
	Email        string     `json:"email"`
	DateOfBirth  *time.Time `json:"dateOfBirth"`

	Services datatypes.JSONSlice[ServiceLine] `json:"services"`
	Products datatypes.JSONSlice[ProductLine] `json:"products"`

	Subtotal      int64   `json:"subtotal"`
	GSTPercentage float64 `gorm:"column:gst_percentage" json:"gstPercentage"`
	GST           int64   `gorm:"column:gst" json:"gst"`
	GrandTotal    int64   `json:"grandTotal"`
	Cashback      int64   `json:"cashback"`
	FinalTotal    int64   `gorm:"index" json:"finalTotal"`
	AmountPaid    int64   `json:"amountPaid"`
	PaymentMethod string  `gorm:"size:10;index" json:"paymentMethod"`

	TotalsMismatch bool `gorm:"default:false" json:"totalsMismatch"`
}

// TableName keeps the singular table name.
func (Billing) TableName() string {
	return "billing"
}

func (b *Billing) SetCustomerName() {
	b.CustomerName = joinName(b.FirstName, b.LastName)
}

func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentUPI:
		return true
	}
	return false
}
