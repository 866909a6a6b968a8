package models

type Product struct {
	Base

	ProductName string  `gorm:"not null" json:"productName"`
	Price       float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock       int     `gorm:"default:0" json:"stock"`
	Description string  `gorm:"type:text" json:"description"`
}
