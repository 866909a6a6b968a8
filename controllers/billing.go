package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"salonhub-backend/models"
	"salonhub-backend/services"
	"salonhub-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BillingController struct {
	DB      *gorm.DB
	Billing *services.BillingService
	Salon   services.SalonInfo
	Loc     *time.Location
}

// BillingInput is accepted by both create and full replace.
type BillingInput struct {
	CustomerID    *uuid.UUID           `json:"customerId"`
	FirstName     string               `json:"firstName" binding:"required"`
	LastName      string               `json:"lastName"`
	PhoneNumber   string               `json:"phoneNumber" binding:"required"`
	Email         string               `json:"email" binding:"omitempty,email"`
	DateOfBirth   *time.Time           `json:"dateOfBirth"`
	Services      []models.ServiceLine `json:"services" binding:"dive"`
	Products      []models.ProductLine `json:"products" binding:"dive"`
	Subtotal      int64                `json:"subtotal" binding:"gte=0"`
	GSTPercentage float64              `json:"gstPercentage" binding:"gte=0,lte=100"`
	GST           int64                `json:"gst" binding:"gte=0"`
	GrandTotal    int64                `json:"grandTotal" binding:"gte=0"`
	Cashback      int64                `json:"cashback" binding:"gte=0"`
	FinalTotal    int64                `json:"finalTotal" binding:"gte=0"`
	AmountPaid    int64                `json:"amountPaid" binding:"gte=0"`
	PaymentMethod string               `json:"paymentMethod" binding:"required"`
}

func (in BillingInput) toModel() models.Billing {
	return models.Billing{
		CustomerID:    in.CustomerID,
		FirstName:     strings.TrimSpace(in.FirstName),
		LastName:      strings.TrimSpace(in.LastName),
		PhoneNumber:   utils.CleanPhone(in.PhoneNumber),
		Email:         strings.ToLower(in.Email),
		DateOfBirth:   in.DateOfBirth,
		Services:      in.Services,
		Products:      in.Products,
		Subtotal:      in.Subtotal,
		GSTPercentage: in.GSTPercentage,
		GST:           in.GST,
		GrandTotal:    in.GrandTotal,
		Cashback:      in.Cashback,
		FinalTotal:    in.FinalTotal,
		AmountPaid:    in.AmountPaid,
		PaymentMethod: in.PaymentMethod,
	}
}

// bindBilling binds and validates the request body. It answers 400 itself.
func bindBilling(c *gin.Context) (models.Billing, bool) {
	var input BillingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return models.Billing{}, false
	}
	if !models.ValidPaymentMethod(input.PaymentMethod) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid payment method. Must be cash, card or upi")
		return models.Billing{}, false
	}
	if !utils.ValidatePhone(input.PhoneNumber) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return models.Billing{}, false
	}
	if len(input.Services) == 0 && len(input.Products) == 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "A bill needs at least one service or product")
		return models.Billing{}, false
	}
	return input.toModel(), true
}

func respondBillingError(c *gin.Context, err error, msg string) {
	var totals *services.TotalsError
	switch {
	case errors.As(err, &totals):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message":    "Bill totals are inconsistent",
			"violations": totals.Violations,
		})
	case errors.Is(err, services.ErrNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Bill not found")
	default:
		utils.RespondWithServerError(c, http.StatusInternalServerError, msg, err)
	}
}

func (bc *BillingController) CreateBill(c *gin.Context) {
	bill, ok := bindBilling(c)
	if !ok {
		return
	}

	if err := bc.Billing.Create(c.Request.Context(), &bill); err != nil {
		respondBillingError(c, err, "Failed to create bill")
		return
	}

	c.JSON(http.StatusCreated, bill)
}

// GetBills returns the newest bills first.
func (bc *BillingController) GetBills(c *gin.Context) {
	page, limit := utils.ParsePagination(c)
	q := bc.DB.WithContext(c.Request.Context()).Model(&models.Billing{}).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to retrieve bills", err)
		return
	}

	var bills []models.Billing
	if err := q.Order("created_at DESC").Offset(utils.Offset(page, limit)).Limit(limit).Find(&bills).Error; err != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to retrieve bills", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bills":      bills,
		"pagination": utils.NewPagination(total, page, limit),
	})
}

var billSortColumns = map[string]string{
	"createdAt":     "created_at",
	"billNumber":    "bill_number",
	"customerName":  "customer_name",
	"finalTotal":    "final_total",
	"grandTotal":    "grand_total",
	"paymentMethod": "payment_method",
}

// lineFilter matches bills by staff, service or product name. These live
// inside the JSON line columns so they are applied after the query.
type lineFilter struct {
	staff, service, product string
}

func (f lineFilter) empty() bool {
	return f.staff == "" && f.service == "" && f.product == ""
}

func (f lineFilter) match(b models.Billing) bool {
	if f.staff != "" || f.service != "" {
		found := false
		for _, s := range b.Services {
			if contains(s.StaffName, f.staff) && contains(s.Name, f.service) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.product != "" {
		for _, p := range b.Products {
			if contains(p.Name, f.product) {
				return true
			}
		}
		return false
	}
	return true
}

func contains(s, sub string) bool {
	return sub == "" || strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// ListBills is the filtered bill search.
func (bc *BillingController) ListBills(c *gin.Context) {
	page, limit := utils.ParsePagination(c)

	q := bc.DB.WithContext(c.Request.Context()).Model(&models.Billing{})

	startDate, endDate := c.Query("startDate"), c.Query("endDate")
	if startDate != "" || endDate != "" {
		r, ok := dateRangeQuery(c, bc.Loc)
		if !ok {
			return
		}
		q = q.Where("created_at BETWEEN ? AND ?", r.Start.UTC(), r.End.UTC())
	}
	if phone := utils.CleanPhone(c.Query("phoneNumber")); phone != "" {
		q = q.Where("phone_number LIKE ?", "%"+phone+"%")
	}
	if method := c.Query("paymentMethod"); method != "" {
		if !models.ValidPaymentMethod(method) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid payment method")
			return
		}
		q = q.Where("payment_method = ?", method)
	}
	for param, op := range map[string]string{"minAmount": ">=", "maxAmount": "<="} {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		amount, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+param)
			return
		}
		q = q.Where(fmt.Sprintf("final_total %s ?", op), amount)
	}

	column := "created_at"
	if sortBy := c.Query("sortBy"); sortBy != "" {
		col, ok := billSortColumns[sortBy]
		if !ok {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid sortBy")
			return
		}
		column = col
	}
	direction := "DESC"
	if strings.EqualFold(c.Query("sortOrder"), "asc") {
		direction = "ASC"
	}
	q = q.Order(column + " " + direction).Session(&gorm.Session{})

	filter := lineFilter{
		staff:   strings.TrimSpace(c.Query("staffName")),
		service: strings.TrimSpace(c.Query("serviceName")),
		product: strings.TrimSpace(c.Query("productName")),
	}

	var (
		bills []models.Billing
		total int64
	)
	if filter.empty() {
		if err := q.Count(&total).Error; err != nil {
			utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to retrieve bills", err)
			return
		}
		if err := q.Offset(utils.Offset(page, limit)).Limit(limit).Find(&bills).Error; err != nil {
			utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to retrieve bills", err)
			return
		}
	} else {
		var all []models.Billing
		if err := q.Find(&all).Error; err != nil {
			utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to retrieve bills", err)
			return
		}
		matched := all[:0]
		for _, b := range all {
			if filter.match(b) {
				matched = append(matched, b)
			}
		}
		total = int64(len(matched))
		from := utils.Offset(page, limit)
		if from > len(matched) {
			from = len(matched)
		}
		to := from + limit
		if to > len(matched) {
			to = len(matched)
		}
		bills = matched[from:to]
	}

	if bills == nil {
		bills = []models.Billing{}
	}
	c.JSON(http.StatusOK, gin.H{
		"bills":      bills,
		"pagination": utils.NewPagination(total, page, limit),
	})
}

func (bc *BillingController) GetBill(c *gin.Context) {
	id, ok := parseID(c, "bill")
	if !ok {
		return
	}

	var bill models.Billing
	if err := bc.DB.WithContext(c.Request.Context()).First(&bill, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "Bill")
		return
	}

	c.JSON(http.StatusOK, bill)
}

// UpdateBill replaces the whole bill. The bill number and creation time are
// kept.
func (bc *BillingController) UpdateBill(c *gin.Context) {
	id, ok := parseID(c, "bill")
	if !ok {
		return
	}

	bill, ok := bindBilling(c)
	if !ok {
		return
	}

	updated, err := bc.Billing.Replace(c.Request.Context(), id, &bill)
	if err != nil {
		respondBillingError(c, err, "Failed to update bill")
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (bc *BillingController) DeleteBill(c *gin.Context) {
	id, ok := parseID(c, "bill")
	if !ok {
		return
	}

	res := bc.DB.WithContext(c.Request.Context()).Delete(&models.Billing{}, "id = ?", id)
	if res.Error != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to delete bill", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Bill not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bill deleted successfully"})
}

// GetReceipt renders the bill as a PDF.
func (bc *BillingController) GetReceipt(c *gin.Context) {
	id, ok := parseID(c, "bill")
	if !ok {
		return
	}

	var bill models.Billing
	if err := bc.DB.WithContext(c.Request.Context()).First(&bill, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "Bill")
		return
	}
	bill.CreatedAt = bill.CreatedAt.In(bc.Loc)

	pdf, err := services.RenderReceipt(bill, bc.Salon)
	if err != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to render receipt", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s.pdf"`, bill.BillNumber))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
