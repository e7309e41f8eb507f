package models

import "time"

type Setting struct {
	ID        uint    `gorm:"primaryKey"`
	Chave     string  `gorm:"size:100;uniqueIndex;not null"`
	Valor     *string `gorm:"size:500"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
