package controllers

import (
	"errors"
	"net/http"
	"time"

	"salonhub-backend/services"
	"salonhub-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// parseID reads the :id path parameter, answering 400 when it is malformed.
func parseID(c *gin.Context, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+resource+" ID format")
		return uuid.Nil, false
	}
	return id, true
}

// respondLookupError maps a failed single-row lookup to 404 or 500.
func respondLookupError(c *gin.Context, err error, resource string) {
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, services.ErrNotFound) {
		utils.RespondWithError(c, http.StatusNotFound, resource+" not found")
		return
	}
	utils.RespondWithServerError(c, http.StatusInternalServerError, "Database error", err)
}

// dateRangeQuery reads the required startDate and endDate query parameters.
func dateRangeQuery(c *gin.Context, loc *time.Location) (services.DateRange, bool) {
	start, end, err := utils.ParseDateRange(c.Query("startDate"), c.Query("endDate"), loc)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return services.DateRange{}, false
	}
	return services.DateRange{Start: start, End: end}, true
}
