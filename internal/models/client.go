package models

import "time"

// Cliente da clínica, sem login próprio
type Client struct {
	ID uint `gorm:"primaryKey" json:"id"`

	FullName string  `gorm:"size:100;not null" json:"full_name"`
	Email    *string `gorm:"size:100;uniqueIndex" json:"email,omitempty"`
	Phone    string  `gorm:"size:20;not null" json:"phone"`

	BirthDate    *string `gorm:"size:10" json:"birth_date,omitempty"`
	Gender       string  `gorm:"size:20;default:'nao_informado'" json:"gender"`
	Address      string  `gorm:"size:255" json:"address"`
	Observations string  `gorm:"size:255" json:"observations"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
