package models

import "time"

type Product struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string `gorm:"size:150;not null" json:"name"`
	Category    string `gorm:"size:50;not null" json:"category"`
	Description string `gorm:"size:500" json:"description"`

	UnitPrice float64 `gorm:"not null" json:"unit_price"`
	CostPrice float64 `json:"cost_price"`

	StockQuantity int `gorm:"default:0" json:"stock_quantity"`
	MinStockAlert int `gorm:"default:5" json:"min_stock_alert"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
