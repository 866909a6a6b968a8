package controllers

import (
	"net/http"

	"salonhub-backend/models"
	"salonhub-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProductController struct {
	DB *gorm.DB
}

type CreateProductInput struct {
	ProductName string  `json:"productName" binding:"required"`
	Price       float64 `json:"price" binding:"min=0"`
	Stock       int     `json:"stock" binding:"min=0"`
	Description string  `json:"description"`
}

type UpdateProductInput struct {
	ProductName *string  `json:"productName" binding:"omitempty,min=1"`
	Price       *float64 `json:"price" binding:"omitempty,min=0"`
	Stock       *int     `json:"stock" binding:"omitempty,min=0"`
	Description *string  `json:"description"`
}

func (pc *ProductController) CreateProduct(c *gin.Context) {
	var input CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	product := models.Product{
		ProductName: input.ProductName,
		Price:       input.Price,
		Stock:       input.Stock,
		Description: input.Description,
	}
	if err := pc.DB.WithContext(c.Request.Context()).Create(&product).Error; err != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to create product", err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

func (pc *ProductController) GetProducts(c *gin.Context) {
	var products []models.Product
	if err := pc.DB.WithContext(c.Request.Context()).Order("product_name ASC").Find(&products).Error; err != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to retrieve products", err)
		return
	}

	c.JSON(http.StatusOK, products)
}

func (pc *ProductController) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "product")
	if !ok {
		return
	}

	var product models.Product
	if err := pc.DB.WithContext(c.Request.Context()).First(&product, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "Product")
		return
	}

	c.JSON(http.StatusOK, product)
}

func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c, "product")
	if !ok {
		return
	}

	var input UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	db := pc.DB.WithContext(c.Request.Context())
	var product models.Product
	if err := db.First(&product, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "Product")
		return
	}

	if input.ProductName != nil {
		product.ProductName = *input.ProductName
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.Description != nil {
		product.Description = *input.Description
	}

	if err := db.Save(&product).Error; err != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to update product", err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "product")
	if !ok {
		return
	}

	res := pc.DB.WithContext(c.Request.Context()).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to delete product", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
