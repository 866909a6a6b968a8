package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"salonhub-backend/services"
	"salonhub-backend/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Auth        *services.AuthService
	Mailer      services.Mailer
	Tasks       *services.Tasks
	FrontendURL string
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordInput struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordInput struct {
	Password string `json:"password" binding:"required,min=6"`
}

const forgotPasswordMessage = "If an account exists for that email, a reset link has been sent"

// Login exchanges email and password for a token.
func (ac *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	token, user, err := ac.Auth.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, services.ErrInactiveUser):
			utils.RespondWithError(c, http.StatusForbidden, "Account is inactive")
		default:
			utils.RespondWithServerError(c, http.StatusInternalServerError, "Login failed", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

func (ac *AuthController) Verify(c *gin.Context) {
	token := utils.BearerToken(c.GetHeader("Authorization"))
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"valid": false, "message": "Authorization header required"})
		return
	}

	user, err := ac.Auth.Verify(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidToken) || errors.Is(err, services.ErrInactiveUser) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"valid": false, "message": "Invalid token"})
			return
		}
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to verify token", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true, "user": user})
}

// ForgotPassword answers with the same message whether or not the account
// exists.
func (ac *AuthController) ForgotPassword(c *gin.Context) {
	var input ForgotPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	token, user, err := ac.Auth.RequestReset(c.Request.Context(), input.Email)
	if err != nil && !errors.Is(err, services.ErrNotFound) {
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to process request", err)
		return
	}

	if err == nil {
		link := fmt.Sprintf("%s/reset-password/%s", strings.TrimRight(ac.FrontendURL, "/"), token)
		to, name := user.Email, user.FirstName
		ac.Tasks.Go("password-reset-email", func(ctx context.Context) error {
			body := fmt.Sprintf("Hi %s,\n\nUse the link below to reset your password. It expires in one hour.\n\n%s\n\nIf you did not ask for this you can ignore this email.\n", name, link)
			return ac.Mailer.Send(ctx, to, "Reset your password", body)
		})
	}

	c.JSON(http.StatusOK, gin.H{"message": forgotPasswordMessage})
}

func (ac *AuthController) ValidateResetToken(c *gin.Context) {
	if _, err := ac.Auth.ValidateResetToken(c.Request.Context(), c.Param("token")); err != nil {
		if errors.Is(err, services.ErrInvalidResetToken) {
			utils.RespondWithError(c, http.StatusBadRequest, "Password reset token is invalid or has expired")
			return
		}
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to validate token", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true})
}

func (ac *AuthController) ResetPassword(c *gin.Context) {
	var input ResetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	if err := ac.Auth.ResetPassword(c.Request.Context(), c.Param("token"), input.Password); err != nil {
		if errors.Is(err, services.ErrInvalidResetToken) {
			utils.RespondWithError(c, http.StatusBadRequest, "Password reset token is invalid or has expired")
			return
		}
		utils.RespondWithServerError(c, http.StatusInternalServerError, "Failed to reset password", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset"})
}
