package models

import "time"

type Employee struct {
	ID     uint    `gorm:"primaryKey"`
	Nome   string  `gorm:"size:150;not null"`
	CPF    string  `gorm:"size:14"`
	Funcao *string `gorm:"size:100"`
	Status *string `gorm:"size:30"`
	// Serviços que o funcionário atende, como array JSON
	Servicos  string `gorm:"type:jsonb"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
