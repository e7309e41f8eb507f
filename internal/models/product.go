package models

import "time"

type Product struct {
	ID        uint   `gorm:"primaryKey"`
	Nome      string `gorm:"size:150;not null"`
	Ativo     *bool  `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
