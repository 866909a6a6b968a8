package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the generated identity and timestamps shared by every table.
type Base struct {
	ID        uuid.UUID `gorm:"size:36;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Initialize UUID before creating. Explicit creation times are stored in UTC.
func (b *Base) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if !b.CreatedAt.IsZero() {
		b.CreatedAt = b.CreatedAt.UTC()
	}
	return
}

// All lists every model migrated at startup.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Customer{},
		&Staff{},
		&Service{},
		&Product{},
		&Appointment{},
		&Billing{},
		&Report{},
		&CarouselImage{},
		&ReminderTemplate{},
		&ReminderLog{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
