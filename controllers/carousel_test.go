package controllers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"salonhub-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// pngHeader is enough of a PNG for content sniffing.
var pngHeader = []byte{
	0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n',
	0x00, 0x00, 0x00, 0x0d, 'I', 'H', 'D', 'R',
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x02, 0x00, 0x00, 0x00,
}

func uploadRequest(t *testing.T, title, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", title))
	fw, err := mw.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/carousel-images", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func carouselRouter(cc *CarouselController) *gin.Engine {
	r := gin.New()
	r.GET("/carousel-images", cc.GetCarouselImages)
	r.POST("/carousel-images", cc.UploadCarouselImage)
	r.PUT("/carousel-images/:id", cc.UpdateCarouselImage)
	r.DELETE("/carousel-images/:id", cc.DeleteCarouselImage)
	return r
}

func TestCarouselUploadLimit(t *testing.T) {
	db := newTestDB(t)
	dir := t.TempDir()
	r := carouselRouter(&CarouselController{DB: db, Log: zap.NewNop(), Dir: dir})

	for _, title := range []string{"Spring", "Summer"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, uploadRequest(t, title, "My Photo.png", pngHeader))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var image models.CarouselImage
		decode(t, w, &image)
		assert.Equal(t, title, image.Title)
		assert.Contains(t, image.URL, "/uploads/carousel/my-photo-")
		assert.Equal(t, models.DefaultCarouselAddress, image.Address)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "Autumn", "third.png", pngHeader))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestCarouselRejectsNonImage(t *testing.T) {
	db := newTestDB(t)
	dir := t.TempDir()
	r := carouselRouter(&CarouselController{DB: db, Log: zap.NewNop(), Dir: dir})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "Notes", "notes.png", []byte("just some text")))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCarouselDeleteRemovesFile(t *testing.T) {
	db := newTestDB(t)
	dir := t.TempDir()
	r := carouselRouter(&CarouselController{DB: db, Log: zap.NewNop(), Dir: dir})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "Spring", "spring.png", pngHeader))
	require.Equal(t, http.StatusCreated, w.Code)
	var image models.CarouselImage
	decode(t, w, &image)

	w = perform(r, http.MethodDelete, "/carousel-images/"+image.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	w = perform(r, http.MethodDelete, "/carousel-images/"+image.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
