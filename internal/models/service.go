package models

import "time"

type Service struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string  `gorm:"size:150;not null" json:"name"`
	Category    string  `gorm:"size:50;not null" json:"category"`
	Price       float64 `gorm:"not null" json:"price"`
	DurationMin int     `gorm:"default:60" json:"duration_minutes"`
	Description string  `gorm:"size:500" json:"description"`

	Status string `gorm:"size:20;default:'active'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
