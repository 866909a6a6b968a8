package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"salonhub-backend/models"
	"salonhub-backend/services"
	"salonhub-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type captureMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *captureMailer) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, body)
	return nil
}

func authRouter(t *testing.T, db *gorm.DB) (*gin.Engine, *captureMailer, *services.Tasks) {
	t.Helper()
	tasks := services.NewTasks(zap.NewNop(), 1, 8)
	t.Cleanup(tasks.Close)
	mailer := &captureMailer{}

	issuer := utils.NewTokenIssuer("test-secret", time.Hour)
	ac := &AuthController{
		Auth:        services.NewAuthService(db, issuer),
		Mailer:      mailer,
		Tasks:       tasks,
		FrontendURL: "http://app.test/",
	}
	r := gin.New()
	r.POST("/auth/login", ac.Login)
	r.GET("/auth/verify", ac.Verify)
	r.POST("/auth/forgot-password", ac.ForgotPassword)
	r.GET("/auth/validate-reset-token/:token", ac.ValidateResetToken)
	r.POST("/auth/reset-password/:token", ac.ResetPassword)
	return r, mailer, tasks
}

func createUser(t *testing.T, db *gorm.DB, email, password, status string) models.User {
	t.Helper()
	u := models.User{FirstName: "Lee", Email: email, Password: password, Status: status}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	r, _, _ := authRouter(t, db)
	createUser(t, db, "Owner@Salon.test", "secret1", models.UserActive)
	createUser(t, db, "gone@salon.test", "secret1", models.UserInactive)

	w := perform(r, http.MethodPost, "/auth/login", jsonBody(t, gin.H{"email": "owner@salon.test", "password": "secret1"}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string         `json:"token"`
		User  map[string]any `json:"user"`
	}
	decode(t, w, &resp)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "owner@salon.test", resp.User["email"])
	assert.NotContains(t, resp.User, "password")
	assert.NotNil(t, resp.User["lastLogin"])

	req := httptest.NewRequest(http.MethodGet, "/auth/verify", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	vw := httptest.NewRecorder()
	r.ServeHTTP(vw, req)
	assert.Equal(t, http.StatusOK, vw.Code)
	assert.Contains(t, vw.Body.String(), `"valid":true`)

	vw = perform(r, http.MethodGet, "/auth/verify", nil)
	assert.Equal(t, http.StatusUnauthorized, vw.Code)

	w = perform(r, http.MethodPost, "/auth/login", jsonBody(t, gin.H{"email": "owner@salon.test", "password": "wrong"}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = perform(r, http.MethodPost, "/auth/login", jsonBody(t, gin.H{"email": "gone@salon.test", "password": "secret1"}))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

var resetLink = regexp.MustCompile(`http://app\.test/reset-password/([0-9a-f]+)`)

func TestPasswordResetFlow(t *testing.T) {
	db := newTestDB(t)
	r, mailer, tasks := authRouter(t, db)
	createUser(t, db, "owner@salon.test", "secret1", models.UserActive)

	w := perform(r, http.MethodPost, "/auth/forgot-password", jsonBody(t, gin.H{"email": "nobody@salon.test"}))
	require.Equal(t, http.StatusOK, w.Code)
	unknown := w.Body.String()

	w = perform(r, http.MethodPost, "/auth/forgot-password", jsonBody(t, gin.H{"email": "owner@salon.test"}))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, unknown, w.Body.String())

	tasks.Close()
	require.Len(t, mailer.sent, 1)
	m := resetLink.FindStringSubmatch(mailer.sent[0])
	require.Len(t, m, 2)
	token := m[1]

	var stored models.User
	require.NoError(t, db.First(&stored, "email = ?", "owner@salon.test").Error)
	require.NotNil(t, stored.ResetPasswordToken)
	assert.NotEqual(t, token, *stored.ResetPasswordToken)

	w = perform(r, http.MethodGet, "/auth/validate-reset-token/"+token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = perform(r, http.MethodPost, "/auth/reset-password/"+token, jsonBody(t, gin.H{"password": "123"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(r, http.MethodPost, "/auth/reset-password/"+token, jsonBody(t, gin.H{"password": "newsecret"}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// single use
	w = perform(r, http.MethodPost, "/auth/reset-password/"+token, jsonBody(t, gin.H{"password": "another"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = perform(r, http.MethodGet, "/auth/validate-reset-token/"+token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(r, http.MethodPost, "/auth/login", jsonBody(t, gin.H{"email": "owner@salon.test", "password": "newsecret"}))
	assert.Equal(t, http.StatusOK, w.Code)
}
