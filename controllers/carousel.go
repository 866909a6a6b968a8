package controllers

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"salonhub-backend/models"
	"salonhub-backend/utils"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	MaxCarouselImages   = 2
	MaxCarouselFileSize = 5 << 20

	carouselURLPrefix = "/uploads/carousel/"
)

var errCarouselFull = errors.New("carousel is full")

type CarouselController struct {
	DB  *gorm.DB
	Log *zap.Logger
	// Dir is where uploaded files are written.
	Dir string
}

type UpdateCarouselInput struct {
	Title       *string `json:"title" binding:"omitempty,min=1"`
	Address     *string `json:"address"`
	Phone       *string `json:"phone"`
	Description *string `json:"description"`
}

// GetCarouselImages is public.
func (cc *CarouselController) GetCarouselImages(c *gin.Context) {
	var images []models.CarouselImage
	if err := cc.DB.WithContext(c.Request.Context()).Order("created_at ASC").Find(&images).Error; err != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to retrieve carousel images", err)
		return
	}
	c.JSON(http.StatusOK, images)
}

// UploadCarouselImage stores a multipart "image" file. The count limit is
// checked before anything is written, and the file is removed again if the
// row cannot be saved.
func (cc *CarouselController) UploadCarouselImage(c *gin.Context) {
	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Title is required")
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Image file is required")
		return
	}
	if header.Size > MaxCarouselFileSize {
		utils.RespondWithError(c, http.StatusBadRequest, "Image must be 5MB or smaller")
		return
	}

	file, err := header.Open()
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Could not read image")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxCarouselFileSize+1))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Could not read image")
		return
	}
	if len(data) > MaxCarouselFileSize {
		utils.RespondWithError(c, http.StatusBadRequest, "Image must be 5MB or smaller")
		return
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		utils.RespondWithError(c, http.StatusBadRequest, "Only image files are allowed")
		return
	}

	db := cc.DB.WithContext(c.Request.Context())
	var count int64
	if err := db.Model(&models.CarouselImage{}).Count(&count).Error; err != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Database error", err)
		return
	}
	if count >= MaxCarouselImages {
		utils.RespondWithError(c, http.StatusBadRequest, "Maximum of 2 carousel images allowed. Delete one first")
		return
	}

	name := slug.Make(strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename)))
	if name == "" {
		name = "image"
	}
	filename := name + "-" + uuid.NewString() + mtype.Extension()
	path := filepath.Join(cc.Dir, filename)

	if err := os.MkdirAll(cc.Dir, 0o755); err != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to store image", err)
		return
	}
	if err := writeFile(path, data); err != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to store image", err)
		return
	}

	image := models.CarouselImage{
		Title:       title,
		URL:         carouselURLPrefix + filename,
		Filename:    filename,
		Address:     valueOr(c.PostForm("address"), models.DefaultCarouselAddress),
		Phone:       valueOr(c.PostForm("phone"), models.DefaultCarouselPhone),
		Description: c.PostForm("description"),
	}

	// count again under the transaction before inserting
	err = db.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.CarouselImage{}).Count(&n).Error; err != nil {
			return err
		}
		if n >= MaxCarouselImages {
			return errCarouselFull
		}
		return tx.Create(&image).Error
	})
	if err != nil {
		cc.removeFile(filename)
		if errors.Is(err, errCarouselFull) {
			utils.RespondWithError(c, http.StatusBadRequest, "Maximum of 2 carousel images allowed. Delete one first")
			return
		}
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to save carousel image", err)
		return
	}

	c.JSON(http.StatusCreated, image)
}

func (cc *CarouselController) UpdateCarouselImage(c *gin.Context) {
	id, ok := parseID(c, "carousel image")
	if !ok {
		return
	}

	var input UpdateCarouselInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	db := cc.DB.WithContext(c.Request.Context())
	var image models.CarouselImage
	if err := db.First(&image, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "Carousel image")
		return
	}

	if input.Title != nil {
		image.Title = strings.TrimSpace(*input.Title)
	}
	if input.Address != nil {
		image.Address = *input.Address
	}
	if input.Phone != nil {
		image.Phone = *input.Phone
	}
	if input.Description != nil {
		image.Description = *input.Description
	}

	if err := db.Save(&image).Error; err != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to update carousel image", err)
		return
	}

	c.JSON(http.StatusOK, image)
}

// DeleteCarouselImage removes the row and then its file.
func (cc *CarouselController) DeleteCarouselImage(c *gin.Context) {
	id, ok := parseID(c, "carousel image")
	if !ok {
		return
	}

	db := cc.DB.WithContext(c.Request.Context())
	var image models.CarouselImage
	if err := db.First(&image, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "Carousel image")
		return
	}

	if err := db.Delete(&image).Error; err != nil {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to delete carousel image", err)
		return
	}
	cc.removeFile(image.Filename)

	c.JSON(http.StatusOK, gin.H{"message": "Carousel image deleted successfully"})
}

func (cc *CarouselController) removeFile(filename string) {
	if filename == "" {
		return
	}
	err := os.Remove(filepath.Join(cc.Dir, filepath.Base(filename)))
	if err != nil && !errors.Is(err, os.ErrNotExist) && cc.Log != nil {
		cc.Log.Warn("Failed to remove carousel file", zap.String("file", filename), zap.Error(err))
	}
}

func writeFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, bytes.NewReader(data)); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

func valueOr(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}
