package models

const (
	DefaultCarouselAddress = "123 Beauty Street, City"
	DefaultCarouselPhone   = "+1 234 567 8900"
)

type CarouselImage struct {
	Base

	Title       string `gorm:"not null" json:"title"`
	URL         string `gorm:"not null" json:"url"`
	Filename    string `json:"-"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Description string `gorm:"type:text" json:"description"`
}
