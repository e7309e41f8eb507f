package models

import "time"

// Appointment guarda data e hora como texto ("2006-01-02" / "15:04"), o mesmo
// formato das colunas date/time dos dados originais. O nome do funcionário é
// texto livre, não uma foreign key.
type Appointment struct {
	ID              uint     `gorm:"primaryKey"`
	ClienteNome     *string  `gorm:"size:150"`
	FuncionarioNome *string  `gorm:"size:150"`
	Data            string   `gorm:"size:10;not null;index"`
	Hora            string   `gorm:"size:5;not null"`
	Tipo            string   `gorm:"size:100;not null"`
	Urgencia        *string  `gorm:"size:30"`
	Endereco        *string  `gorm:"size:255"`
	Modalidade      *string  `gorm:"size:30"`
	Valor           *float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
