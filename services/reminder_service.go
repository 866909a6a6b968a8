// services/reminder_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"salonhub-backend/config"
	"salonhub-backend/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultBirthdayMessage    = "Happy birthday, [CustomerName]! Treat yourself with a visit to the salon this month."
	defaultAppointmentMessage = "Hi [CustomerName], your appointment is confirmed for [DateTime]. See you soon!"
)

type ReminderService struct {
	db        *gorm.DB
	log       *zap.Logger
	messenger Messenger
	loc       *time.Location
	now       func() time.Time
}

func NewReminderService(db *gorm.DB, log *zap.Logger, messenger Messenger, loc *time.Location) *ReminderService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReminderService{db: db, log: log, messenger: messenger, loc: loc, now: config.NowUTC}
}

// EnsureTemplates creates the default template for any reminder type that
// does not have one yet.
func (s *ReminderService) EnsureTemplates(ctx context.Context) error {
	defaults := map[string]string{
		models.ReminderBirthday:    defaultBirthdayMessage,
		models.ReminderAppointment: defaultAppointmentMessage,
	}
	for _, typ := range []string{models.ReminderBirthday, models.ReminderAppointment} {
		tmpl := models.ReminderTemplate{Type: typ, Message: defaults[typ], IsActive: true}
		err := s.db.WithContext(ctx).Where(models.ReminderTemplate{Type: typ}).FirstOrCreate(&tmpl).Error
		if err != nil {
			return fmt.Errorf("ensure %s template: %w", typ, err)
		}
	}
	return nil
}

// SendDailyReminders greets every customer whose birthday is today.
func (s *ReminderService) SendDailyReminders(ctx context.Context) {
	s.log.Info("Starting daily reminder processing")

	template, err := s.activeTemplate(ctx, models.ReminderBirthday)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Error("Failed to fetch birthday template", zap.Error(err))
		}
		return
	}

	var customers []models.Customer
	if err := s.db.WithContext(ctx).Where("date_of_birth IS NOT NULL").Find(&customers).Error; err != nil {
		s.log.Error("Failed to fetch customers", zap.Error(err))
		return
	}

	today := s.now().In(s.loc)
	sent := 0
	for _, customer := range customers {
		dob := customer.DateOfBirth.In(s.loc)
		if dob.Month() != today.Month() || dob.Day() != today.Day() {
			continue
		}
		s.send(ctx, customer, models.ReminderBirthday, render(template.Message, customer, time.Time{}))
		sent++
	}
	s.log.Info("Daily reminders processed", zap.Int("birthdays", sent))
}

// SendAppointmentConfirmation messages the customer about a booked appointment.
func (s *ReminderService) SendAppointmentConfirmation(ctx context.Context, customer models.Customer, at time.Time) error {
	template, err := s.activeTemplate(ctx, models.ReminderAppointment)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return s.send(ctx, customer, models.ReminderAppointment, render(template.Message, customer, at.In(s.loc)))
}

func (s *ReminderService) activeTemplate(ctx context.Context, typ string) (models.ReminderTemplate, error) {
	var template models.ReminderTemplate
	err := s.db.WithContext(ctx).Where("type = ? AND is_active = ?", typ, true).First(&template).Error
	return template, err
}

func (s *ReminderService) send(ctx context.Context, customer models.Customer, typ, message string) error {
	channel, err := s.messenger.Send(ctx, customer.PhoneNumber, message)
	status := "sent"
	errorMsg := ""
	if err != nil {
		s.log.Warn("Failed to send message", zap.String("phone", customer.PhoneNumber), zap.Error(err))
		status = "failed"
		errorMsg = err.Error()
	}

	reminderLog := models.ReminderLog{
		CustomerID:   customer.ID,
		Type:         typ,
		Message:      message,
		Status:       status,
		ErrorMessage: errorMsg,
		Channel:      channel,
		SentAt:       s.now(),
	}
	if logErr := s.db.WithContext(ctx).Create(&reminderLog).Error; logErr != nil {
		s.log.Error("Failed to log reminder", zap.String("customerId", customer.ID.String()), zap.Error(logErr))
	}
	return err
}

func render(message string, customer models.Customer, at time.Time) string {
	out := strings.ReplaceAll(message, "[CustomerName]", customer.FullName())
	if !at.IsZero() {
		out = strings.ReplaceAll(out, "[DateTime]", at.Format("Mon, 02 Jan 2006 03:04 PM"))
	}
	return out
}
