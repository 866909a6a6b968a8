package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"salonhub-backend/models"
	"salonhub-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CustomerController struct {
	DB *gorm.DB
}

// CreateCustomerInput defines the expected JSON structure for creating a customer
type CreateCustomerInput struct {
	FirstName   string     `json:"firstName" binding:"required"`
	LastName    string     `json:"lastName"`
	PhoneNumber string     `json:"phoneNumber" binding:"required"`
	Email       string     `json:"email" binding:"omitempty,email"`
	Address     string     `json:"address"`
	DateOfBirth *time.Time `json:"dateOfBirth"`
	Gender      string     `json:"gender" binding:"omitempty,oneof=male female other prefer_not_to_say"`
	Notes       string     `json:"notes"`
}

// UpdateCustomerInput defines the expected JSON structure for updating a customer
type UpdateCustomerInput struct {
	FirstName   *string    `json:"firstName"`
	LastName    *string    `json:"lastName"`
	PhoneNumber *string    `json:"phoneNumber"`
	Email       *string    `json:"email" binding:"omitempty,email"`
	Address     *string    `json:"address"`
	DateOfBirth *time.Time `json:"dateOfBirth"`
	Gender      *string    `json:"gender" binding:"omitempty,oneof=male female other prefer_not_to_say"`
	Notes       *string    `json:"notes"`
}

// CreateCustomer creates a new customer
func (cc *CustomerController) CreateCustomer(c *gin.Context) {
	var input CreateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// Validate phone format
	if !utils.ValidatePhone(input.PhoneNumber) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	customer := models.Customer{
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		PhoneNumber: utils.CleanPhone(input.PhoneNumber),
		Email:       strings.ToLower(input.Email),
		Address:     input.Address,
		DateOfBirth: input.DateOfBirth,
		Gender:      input.Gender,
		Notes:       input.Notes,
	}

	if err := cc.DB.WithContext(c.Request.Context()).Create(&customer).Error; err != nil {
		if utils.IsDuplicateKeyErr(err) {
			utils.RespondWithError(c, http.StatusConflict, "Customer with this phone number already exists")
			return
		}
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to create customer", err)
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// GetCustomers lists customers, optionally filtered by a name or phone search
func (cc *CustomerController) GetCustomers(c *gin.Context) {
	page, limit := utils.ParsePagination(c)

	q := cc.DB.WithContext(c.Request.Context()).Model(&models.Customer{})
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR phone_number LIKE ?", like, like, like)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to retrieve customers", err)
		return
	}

	var customers []models.Customer
	if err := q.Order("created_at DESC").Offset(utils.Offset(page, limit)).Limit(limit).Find(&customers).Error; err != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to retrieve customers", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customers":  customers,
		"pagination": utils.NewPagination(total, page, limit),
	})
}

// GetCustomer retrieves a specific customer by ID
func (cc *CustomerController) GetCustomer(c *gin.Context) {
	id, ok := parseID(c, "customer")
	if !ok {
		return
	}

	var customer models.Customer
	if err := cc.DB.WithContext(c.Request.Context()).First(&customer, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "Customer")
		return
	}

	c.JSON(http.StatusOK, customer)
}

// GetCustomerByPhone looks a customer up by phone number
func (cc *CustomerController) GetCustomerByPhone(c *gin.Context) {
	var customer models.Customer
	err := cc.DB.WithContext(c.Request.Context()).
		Where("phone_number = ?", utils.CleanPhone(c.Param("phoneNumber"))).
		First(&customer).Error
	if err != nil {
		respondLookupError(c, err, "Customer")
		return
	}

	c.JSON(http.StatusOK, customer)
}

// UpdateCustomer updates an existing customer
func (cc *CustomerController) UpdateCustomer(c *gin.Context) {
	id, ok := parseID(c, "customer")
	if !ok {
		return
	}

	var input UpdateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	db := cc.DB.WithContext(c.Request.Context())

	// Retrieve existing customer
	var customer models.Customer
	if err := db.First(&customer, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "Customer")
		return
	}

	// Update fields if provided
	if input.FirstName != nil {
		customer.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		customer.LastName = *input.LastName
	}
	if input.PhoneNumber != nil {
		if !utils.ValidatePhone(*input.PhoneNumber) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		customer.PhoneNumber = utils.CleanPhone(*input.PhoneNumber)
	}
	if input.Email != nil {
		customer.Email = strings.ToLower(*input.Email)
	}
	if input.Address != nil {
		customer.Address = *input.Address
	}
	if input.DateOfBirth != nil {
		customer.DateOfBirth = input.DateOfBirth
	}
	if input.Gender != nil {
		customer.Gender = *input.Gender
	}
	if input.Notes != nil {
		customer.Notes = *input.Notes
	}

	if err := db.Save(&customer).Error; err != nil {
		if utils.IsDuplicateKeyErr(err) {
			utils.RespondWithError(c, http.StatusConflict, "Another customer with this phone number already exists")
			return
		}
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to update customer", err)
		return
	}

	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer removes a customer and their appointments. Bills keep the
// customer snapshot.
func (cc *CustomerController) DeleteCustomer(c *gin.Context) {
	id, ok := parseID(c, "customer")
	if !ok {
		return
	}

	err := cc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Billing{}).Where("customer_id = ?", id).Update("customer_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("customer_id = ?", id).Delete(&models.Appointment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Customer{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
			return
		}
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to delete customer", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}
