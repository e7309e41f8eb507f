package models

import "time"

type BlockTipo string

const (
	BloqueioGeral       BlockTipo = "geral"
	BloqueioFuncionario BlockTipo = "funcionario"
)

// ScheduleBlock é um intervalo de bloqueio da agenda, fechado nas duas pontas.
// Invariante: tipo=funcionario exige FuncionarioID; tipo=geral exige nulo.
type ScheduleBlock struct {
	ID            uint      `gorm:"primaryKey"`
	Descricao     string    `gorm:"size:255;not null"`
	DataInicio    string    `gorm:"size:10;not null;index"`
	DataFim       string    `gorm:"size:10;not null"`
	HoraInicio    *string   `gorm:"size:5"` // nulo = 00:00
	HoraFim       *string   `gorm:"size:5"` // nulo = 23:59
	Tipo          BlockTipo `gorm:"size:20;not null;default:geral"`
	FuncionarioID *uint
	CreatedAt     time.Time
}
