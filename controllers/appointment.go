package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"salonhub-backend/models"
	"salonhub-backend/services"
	"salonhub-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentController struct {
	DB        *gorm.DB
	Tasks     *services.Tasks
	Reminders *services.ReminderService
	Loc       *time.Location
}

// CreateAppointmentInput identifies the customer either by id or by the
// contact details used to find or create them.
type CreateAppointmentInput struct {
	CustomerID  *uuid.UUID `json:"customerId"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	PhoneNumber string     `json:"phoneNumber"`
	Email       string     `json:"email" binding:"omitempty,email"`
	ServiceID   uuid.UUID  `json:"serviceId" binding:"required"`
	StaffID     *uuid.UUID `json:"staffId"`
	DateTime    time.Time  `json:"dateTime" binding:"required"`
	Notes       string     `json:"notes"`
}

type UpdateAppointmentInput struct {
	ServiceID *uuid.UUID `json:"serviceId"`
	StaffID   *uuid.UUID `json:"staffId"`
	DateTime  *time.Time `json:"dateTime"`
	Status    *string    `json:"status" binding:"omitempty,oneof=confirmed cancelled completed"`
	Notes     *string    `json:"notes"`
}

var errMissingCustomer = errors.New("customerId or phoneNumber is required")

func (ac *AppointmentController) withRefs(db *gorm.DB) *gorm.DB {
	return db.Preload("Customer").Preload("Service").Preload("Staff")
}

func (ac *AppointmentController) CreateAppointment(c *gin.Context) {
	var input CreateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	db := ac.DB.WithContext(c.Request.Context())
	var appointment models.Appointment

	err := db.Transaction(func(tx *gorm.DB) error {
		customer, err := ac.resolveCustomer(tx, input)
		if err != nil {
			return err
		}
		if err := tx.First(&models.Service{}, "id = ?", input.ServiceID).Error; err != nil {
			return err
		}
		if input.StaffID != nil {
			if err := tx.First(&models.Staff{}, "id = ?", *input.StaffID).Error; err != nil {
				return err
			}
		}

		appointment = models.Appointment{
			CustomerID: customer.ID,
			ServiceID:  input.ServiceID,
			StaffID:    input.StaffID,
			DateTime:   input.DateTime.UTC(),
			Status:     models.AppointmentConfirmed,
			Notes:      input.Notes,
		}
		return tx.Create(&appointment).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, errMissingCustomer):
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.RespondWithError(c, http.StatusBadRequest, "Referenced customer, service or staff member does not exist")
		default:
			utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to create appointment", err)
		}
		return
	}

	if err := ac.withRefs(db).First(&appointment, "id = ?", appointment.ID).Error; err != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to load appointment", err)
		return
	}

	if ac.Reminders != nil && appointment.Customer != nil {
		customer := *appointment.Customer
		at := appointment.DateTime
		ac.Tasks.Go("appointment-confirmation", func(ctx context.Context) error {
			return ac.Reminders.SendAppointmentConfirmation(ctx, customer, at)
		})
	}

	c.JSON(http.StatusCreated, appointment)
}

// resolveCustomer returns the customer named by id, or finds one by phone
// number and creates it when absent.
func (ac *AppointmentController) resolveCustomer(tx *gorm.DB, input CreateAppointmentInput) (models.Customer, error) {
	var customer models.Customer
	if input.CustomerID != nil {
		err := tx.First(&customer, "id = ?", *input.CustomerID).Error
		return customer, err
	}

	phone := utils.CleanPhone(input.PhoneNumber)
	if phone == "" {
		return customer, errMissingCustomer
	}

	err := tx.Where("phone_number = ?", phone).First(&customer).Error
	if err == nil || !errors.Is(err, gorm.ErrRecordNotFound) {
		return customer, err
	}

	customer = models.Customer{
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		PhoneNumber: phone,
		Email:       strings.ToLower(input.Email),
	}
	return customer, tx.Create(&customer).Error
}

func (ac *AppointmentController) GetAppointments(c *gin.Context) {
	page, limit := utils.ParsePagination(c)

	q := ac.DB.WithContext(c.Request.Context()).Model(&models.Appointment{})
	if status := c.Query("status"); status != "" {
		if !models.ValidAppointmentStatus(status) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid status")
			return
		}
		q = q.Where("status = ?", status)
	}
	if date := c.Query("date"); date != "" {
		day, err := utils.ParseDate(date, false, ac.Loc)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		q = q.Where("date_time BETWEEN ? AND ?", utils.BeginningOfDay(day).UTC(), utils.EndOfDay(day).UTC())
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to retrieve appointments", err)
		return
	}

	var appointments []models.Appointment
	err := ac.withRefs(q).Order("date_time ASC").Offset(utils.Offset(page, limit)).Limit(limit).Find(&appointments).Error
	if err != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to retrieve appointments", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"appointments": appointments,
		"pagination":   utils.NewPagination(total, page, limit),
	})
}

func (ac *AppointmentController) GetAppointment(c *gin.Context) {
	id, ok := parseID(c, "appointment")
	if !ok {
		return
	}

	var appointment models.Appointment
	if err := ac.withRefs(ac.DB.WithContext(c.Request.Context())).First(&appointment, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "Appointment")
		return
	}

	c.JSON(http.StatusOK, appointment)
}

func (ac *AppointmentController) UpdateAppointment(c *gin.Context) {
	id, ok := parseID(c, "appointment")
	if !ok {
		return
	}

	var input UpdateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	db := ac.DB.WithContext(c.Request.Context())
	var appointment models.Appointment
	if err := db.First(&appointment, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "Appointment")
		return
	}

	if input.ServiceID != nil {
		if err := db.First(&models.Service{}, "id = ?", *input.ServiceID).Error; err != nil {
			respondLookupError(c, err, "Service")
			return
		}
		appointment.ServiceID = *input.ServiceID
	}
	if input.StaffID != nil {
		if err := db.First(&models.Staff{}, "id = ?", *input.StaffID).Error; err != nil {
			respondLookupError(c, err, "Staff member")
			return
		}
		appointment.StaffID = input.StaffID
	}
	if input.DateTime != nil {
		appointment.DateTime = input.DateTime.UTC()
	}
	if input.Status != nil {
		appointment.Status = *input.Status
	}
	if input.Notes != nil {
		appointment.Notes = *input.Notes
	}

	if err := db.Omit("Customer", "Service", "Staff").Save(&appointment).Error; err != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to update appointment", err)
		return
	}

	if err := ac.withRefs(db).First(&appointment, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "Appointment")
		return
	}
	c.JSON(http.StatusOK, appointment)
}

func (ac *AppointmentController) DeleteAppointment(c *gin.Context) {
	id, ok := parseID(c, "appointment")
	if !ok {
		return
	}

	res := ac.DB.WithContext(c.Request.Context()).Delete(&models.Appointment{}, "id = ?", id)
	if res.Error != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to delete appointment", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Appointment deleted successfully"})
}
