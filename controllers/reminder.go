// controllers/reminder.go
package controllers

import (
	"errors"
	"net/http"

	"salonhub-backend/models"
	"salonhub-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReminderController struct {
	DB *gorm.DB
}

// UpdateReminderTemplateInput defines the expected JSON structure
type UpdateReminderTemplateInput struct {
	Message  *string `json:"message" binding:"omitempty,min=1"`
	IsActive *bool   `json:"isActive"`
}

// GetReminderTemplates retrieves all reminder templates
func (rc *ReminderController) GetReminderTemplates(c *gin.Context) {
	var templates []models.ReminderTemplate
	if err := rc.DB.WithContext(c.Request.Context()).Order("type").Find(&templates).Error; err != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to retrieve templates", err)
		return
	}

	c.JSON(http.StatusOK, templates)
}

// UpdateReminderTemplate edits the template for :type, creating it when the
// type has none yet
func (rc *ReminderController) UpdateReminderTemplate(c *gin.Context) {
	typ := c.Param("type")
	if !models.ValidReminderType(typ) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid template type. Must be birthday or appointment")
		return
	}

	var input UpdateReminderTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	db := rc.DB.WithContext(c.Request.Context())

	var template models.ReminderTemplate
	err := db.Where("type = ?", typ).First(&template).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Database error", err)
		return
	}
	exists := err == nil

	if !exists {
		if input.Message == nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Message is required for a new template")
			return
		}
		template = models.ReminderTemplate{Type: typ, IsActive: true}
	}
	if input.Message != nil {
		template.Message = *input.Message
	}
	if input.IsActive != nil {
		template.IsActive = *input.IsActive
	}

	if exists {
		err = db.Save(&template).Error
	} else {
		err = db.Select("*").Create(&template).Error
	}
	if err != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to save template", err)
		return
	}

	c.JSON(http.StatusOK, template)
}

// GetReminderLogs lists delivery attempts, newest first
func (rc *ReminderController) GetReminderLogs(c *gin.Context) {
	page, limit := utils.ParsePagination(c)

	q := rc.DB.WithContext(c.Request.Context()).Model(&models.ReminderLog{})
	if typ := c.Query("type"); typ != "" {
		q = q.Where("type = ?", typ)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if customerID := c.Query("customerId"); customerID != "" {
		id, err := uuid.Parse(customerID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
			return
		}
		q = q.Where("customer_id = ?", id)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to retrieve logs", err)
		return
	}

	var logs []models.ReminderLog
	if err := q.Order("sent_at DESC").Offset(utils.Offset(page, limit)).Limit(limit).Find(&logs).Error; err != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to retrieve logs", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":       logs,
		"pagination": utils.NewPagination(total, page, limit),
	})
}
