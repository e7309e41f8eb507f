package models

import "time"

type ServiceType struct {
	ID          uint   `gorm:"primaryKey"`
	Nome        string `gorm:"size:150;not null"`
	ValorPadrao *float64
	Ativo       *bool `gorm:"default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
