package controllers

import (
	"net/http"
	"strings"

	"salonhub-backend/models"
	"salonhub-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserController struct {
	DB *gorm.DB
}

type CreateUserInput struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Role      string `json:"role" binding:"omitempty,oneof=admin superadmin"`
	Branch    string `json:"branch"`
	Status    string `json:"status" binding:"omitempty,oneof=active inactive"`
}

type UpdateUserInput struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Password  *string `json:"password" binding:"omitempty,min=6"`
	Role      *string `json:"role" binding:"omitempty,oneof=admin superadmin"`
	Branch    *string `json:"branch"`
	Status    *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

func (uc *UserController) CreateUser(c *gin.Context) {
	var input CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	user := models.User{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Email:     input.Email,
		Password:  input.Password, // hashed in BeforeCreate
		Role:      input.Role,
		Branch:    input.Branch,
		Status:    input.Status,
	}

	if err := uc.DB.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		if utils.IsDuplicateKeyErr(err) {
			utils.RespondWithError(c, http.StatusBadRequest, "A user with this email already exists")
			return
		}
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to create user", err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (uc *UserController) GetUsers(c *gin.Context) {
	page, limit := utils.ParsePagination(c)

	q := uc.DB.WithContext(c.Request.Context()).Model(&models.User{})
	if role := c.Query("role"); role != "" {
		q = q.Where("role = ?", role)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to retrieve users", err)
		return
	}

	var users []models.User
	if err := q.Order("created_at DESC").Offset(utils.Offset(page, limit)).Limit(limit).Find(&users).Error; err != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to retrieve users", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":      users,
		"pagination": utils.NewPagination(total, page, limit),
	})
}

func (uc *UserController) GetUser(c *gin.Context) {
	id, ok := parseID(c, "user")
	if !ok {
		return
	}

	var user models.User
	if err := uc.DB.WithContext(c.Request.Context()).First(&user, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "User")
		return
	}

	c.JSON(http.StatusOK, user)
}

func (uc *UserController) UpdateUser(c *gin.Context) {
	id, ok := parseID(c, "user")
	if !ok {
		return
	}

	var input UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	db := uc.DB.WithContext(c.Request.Context())

	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "User")
		return
	}

	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.Branch != nil {
		user.Branch = *input.Branch
	}
	if input.Status != nil {
		user.Status = *input.Status
	}
	if input.Password != nil {
		hashed, err := utils.HashPassword(*input.Password)
		if err != nil {
			utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to hash password", err)
			return
		}
		user.Password = hashed
	}

	if err := db.Save(&user).Error; err != nil {
		if utils.IsDuplicateKeyErr(err) {
			utils.RespondWithError(c, http.StatusBadRequest, "A user with this email already exists")
			return
		}
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to update user", err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (uc *UserController) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "user")
	if !ok {
		return
	}
	if c.GetString(utils.ContextUserID) == id.String() {
		utils.RespondWithError(c, http.StatusBadRequest, "You cannot delete your own account")
		return
	}

	res := uc.DB.WithContext(c.Request.Context()).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to delete user", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
