package models

type Service struct {
	Base

	ServiceName string  `gorm:"not null" json:"serviceName"`
	Price       float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	Duration    int     `json:"duration"` // in minutes
	Description string  `gorm:"type:text" json:"description"`
}
