// controllers/service.go
package controllers

import (
	"net/http"

	"salonhub-backend/models"
	"salonhub-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ServiceController struct {
	DB *gorm.DB
}

// CreateServiceInput defines the expected JSON structure for creating a service
type CreateServiceInput struct {
	ServiceName string  `json:"serviceName" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"min=0"`
	Duration    int     `json:"duration" binding:"min=0"` // in minutes
}

// UpdateServiceInput defines the expected JSON structure for updating a service
type UpdateServiceInput struct {
	ServiceName *string  `json:"serviceName" binding:"omitempty,min=1"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,min=0"`
	Duration    *int     `json:"duration" binding:"omitempty,min=0"`
}

// CreateService creates a new service
func (sc *ServiceController) CreateService(c *gin.Context) {
	var input CreateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	service := models.Service{
		ServiceName: input.ServiceName,
		Description: input.Description,
		Price:       input.Price,
		Duration:    input.Duration,
	}
	if err := sc.DB.WithContext(c.Request.Context()).Create(&service).Error; err != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to create service", err)
		return
	}

	c.JSON(http.StatusCreated, service)
}

// GetServices retrieves all services
func (sc *ServiceController) GetServices(c *gin.Context) {
	var services []models.Service
	if err := sc.DB.WithContext(c.Request.Context()).Order("service_name ASC").Find(&services).Error; err != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to retrieve services", err)
		return
	}

	c.JSON(http.StatusOK, services)
}

// GetService retrieves a specific service by ID
func (sc *ServiceController) GetService(c *gin.Context) {
	id, ok := parseID(c, "service")
	if !ok {
		return
	}

	var service models.Service
	if err := sc.DB.WithContext(c.Request.Context()).First(&service, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "Service")
		return
	}

	c.JSON(http.StatusOK, service)
}

// UpdateService updates an existing service
func (sc *ServiceController) UpdateService(c *gin.Context) {
	id, ok := parseID(c, "service")
	if !ok {
		return
	}

	var input UpdateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	db := sc.DB.WithContext(c.Request.Context())
	var service models.Service
	if err := db.First(&service, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "Service")
		return
	}

	if input.ServiceName != nil {
		service.ServiceName = *input.ServiceName
	}
	if input.Description != nil {
		service.Description = *input.Description
	}
	if input.Price != nil {
		service.Price = *input.Price
	}
	if input.Duration != nil {
		service.Duration = *input.Duration
	}

	if err := db.Save(&service).Error; err != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to update service", err)
		return
	}

	c.JSON(http.StatusOK, service)
}

// DeleteService deletes a service
func (sc *ServiceController) DeleteService(c *gin.Context) {
	id, ok := parseID(c, "service")
	if !ok {
		return
	}

	res := sc.DB.WithContext(c.Request.Context()).Delete(&models.Service{}, "id = ?", id)
	if res.Error != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to delete service", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}
