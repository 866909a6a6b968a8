package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"salonhub-backend/config"
	"salonhub-backend/models"
	"salonhub-backend/utils"

	"gorm.io/gorm"
)

const ResetTokenTTL = time.Hour

// AuthService checks credentials and runs the password reset flow.
type AuthService struct {
	db     *gorm.DB
	issuer *utils.TokenIssuer
	now    func() time.Time
}

func NewAuthService(db *gorm.DB, issuer *utils.TokenIssuer) *AuthService {
	return &AuthService{db: db, issuer: issuer, now: config.NowUTC}
}

// Login returns a signed token for the user with email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return "", nil, ErrInvalidCredentials
	}
	if user.Status != models.UserActive {
		return "", nil, ErrInactiveUser
	}

	token, err := s.issuer.Generate(user.ID.String(), user.Role, user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	now := s.now()
	if err := s.db.WithContext(ctx).Model(&user).Update("last_login", now).Error; err != nil {
		return "", nil, err
	}
	user.LastLogin = &now
	return token, &user, nil
}

// Verify resolves a token to its active user.
func (s *AuthService) Verify(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.issuer.Parse(token)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", claims.Subject).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrInvalidToken
		}
		return nil, err
	}
	if user.Status != models.UserActive {
		return nil, ErrInactiveUser
	}
	return &user, nil
}

// Active reports whether the user with id exists and is active.
func (s *AuthService) Active(ctx context.Context, id string) (bool, error) {
	var user models.User
	err := s.db.WithContext(ctx).Select("id", "status").First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.Status == models.UserActive, nil
}

// RequestReset stores a fresh reset token hash for email and returns the
// plain token. Unknown emails give ErrNotFound.
func (s *AuthService) RequestReset(ctx context.Context, email string) (string, *models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrNotFound
		}
		return "", nil, err
	}

	token, hash, err := utils.GenerateResetToken()
	if err != nil {
		return "", nil, err
	}
	expires := s.now().Add(ResetTokenTTL)
	err = s.db.WithContext(ctx).Model(&user).Updates(map[string]any{
		"reset_password_token":   hash,
		"reset_password_expires": expires,
	}).Error
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}

// ValidateResetToken returns the user owning an unexpired token.
func (s *AuthService) ValidateResetToken(ctx context.Context, token string) (*models.User, error) {
	return s.userByResetToken(s.db.WithContext(ctx), token)
}

// ResetPassword sets a new password and consumes the token.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.userByResetToken(tx, token)
		if err != nil {
			return err
		}
		hashed, err := utils.HashPassword(password)
		if err != nil {
			return err
		}
		return tx.Model(user).Updates(map[string]any{
			"password":               hashed,
			"reset_password_token":   nil,
			"reset_password_expires": nil,
		}).Error
	})
}

func (s *AuthService) userByResetToken(db *gorm.DB, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrInvalidResetToken
	}
	var user models.User
	err := db.Where("reset_password_token = ? AND reset_password_expires > ?", utils.HashResetToken(token), s.now()).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidResetToken
		}
		return nil, err
	}
	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
