package controllers

import (
	"net/http"
	"time"

	"salonhub-backend/models"
	"salonhub-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type StaffController struct {
	DB *gorm.DB
}

type CreateStaffInput struct {
	FirstName    string     `json:"firstName" binding:"required"`
	LastName     string     `json:"lastName"`
	PhoneNumber  string     `json:"phoneNumber"`
	Email        string     `json:"email" binding:"omitempty,email"`
	HireDate     *time.Time `json:"hireDate"`
	Salary       float64    `json:"salary" binding:"min=0"`
	Availability *bool      `json:"availability"`
	Notes        string     `json:"notes"`
}

type UpdateStaffInput struct {
	FirstName    *string    `json:"firstName" binding:"omitempty,min=1"`
	LastName     *string    `json:"lastName"`
	PhoneNumber  *string    `json:"phoneNumber"`
	Email        *string    `json:"email" binding:"omitempty,email"`
	HireDate     *time.Time `json:"hireDate"`
	Salary       *float64   `json:"salary" binding:"omitempty,min=0"`
	Availability *bool      `json:"availability"`
	Notes        *string    `json:"notes"`
}

// AvailabilityInput needs a pointer so a missing field is told apart from false.
type AvailabilityInput struct {
	Availability *bool `json:"availability" binding:"required"`
}

func (sc *StaffController) CreateStaff(c *gin.Context) {
	var input CreateStaffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.PhoneNumber != "" && !utils.ValidatePhone(input.PhoneNumber) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	staff := models.Staff{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PhoneNumber:  utils.CleanPhone(input.PhoneNumber),
		Email:        input.Email,
		HireDate:     input.HireDate,
		Salary:       input.Salary,
		Availability: true,
		Notes:        input.Notes,
	}
	if input.Availability != nil {
		staff.Availability = *input.Availability
	}

	// Select("*") so an explicit false is written instead of the column default.
	if err := sc.DB.WithContext(c.Request.Context()).Select("*").Create(&staff).Error; err != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to create staff member", err)
		return
	}

	c.JSON(http.StatusCreated, staff)
}

func (sc *StaffController) GetStaff(c *gin.Context) {
	q := sc.DB.WithContext(c.Request.Context()).Order("first_name ASC")
	if c.Query("available") == "true" {
		q = q.Where("availability = ?", true)
	}

	var staff []models.Staff
	if err := q.Find(&staff).Error; err != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to retrieve staff", err)
		return
	}

	c.JSON(http.StatusOK, staff)
}

func (sc *StaffController) GetStaffMember(c *gin.Context) {
	id, ok := parseID(c, "staff")
	if !ok {
		return
	}

	var staff models.Staff
	if err := sc.DB.WithContext(c.Request.Context()).First(&staff, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "Staff member")
		return
	}

	c.JSON(http.StatusOK, staff)
}

func (sc *StaffController) UpdateStaff(c *gin.Context) {
	id, ok := parseID(c, "staff")
	if !ok {
		return
	}

	var input UpdateStaffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	db := sc.DB.WithContext(c.Request.Context())
	var staff models.Staff
	if err := db.First(&staff, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "Staff member")
		return
	}

	if input.FirstName != nil {
		staff.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		staff.LastName = *input.LastName
	}
	if input.PhoneNumber != nil {
		if *input.PhoneNumber != "" && !utils.ValidatePhone(*input.PhoneNumber) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		staff.PhoneNumber = utils.CleanPhone(*input.PhoneNumber)
	}
	if input.Email != nil {
		staff.Email = *input.Email
	}
	if input.HireDate != nil {
		staff.HireDate = input.HireDate
	}
	if input.Salary != nil {
		staff.Salary = *input.Salary
	}
	if input.Availability != nil {
		staff.Availability = *input.Availability
	}
	if input.Notes != nil {
		staff.Notes = *input.Notes
	}

	if err := db.Save(&staff).Error; err != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to update staff member", err)
		return
	}

	c.JSON(http.StatusOK, staff)
}

// UpdateAvailability toggles whether a staff member can take bookings.
func (sc *StaffController) UpdateAvailability(c *gin.Context) {
	id, ok := parseID(c, "staff")
	if !ok {
		return
	}

	var input AvailabilityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Availability must be a boolean value")
		return
	}

	db := sc.DB.WithContext(c.Request.Context())
	res := db.Model(&models.Staff{}).Where("id = ?", id).Update("availability", *input.Availability)
	if res.Error != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to update availability", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Staff member not found")
		return
	}

	var staff models.Staff
	if err := db.First(&staff, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "Staff member")
		return
	}
	c.JSON(http.StatusOK, staff)
}

func (sc *StaffController) DeleteStaff(c *gin.Context) {
	id, ok := parseID(c, "staff")
	if !ok {
		return
	}

	err := sc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Appointment{}).Where("staff_id = ?", id).Update("staff_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Staff{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		respondLookupError(c, err, "Staff member")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Staff member deleted successfully"})
}
