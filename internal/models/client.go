package models

import "time"

type ClientTipo string

const (
	ClientePF ClientTipo = "PF"
	ClientePJ ClientTipo = "PJ"
)

type ClientEtiqueta string

const (
	EtiquetaGreen ClientEtiqueta = "green"
	EtiquetaBlue  ClientEtiqueta = "blue"
	EtiquetaRed   ClientEtiqueta = "red"
)

type Client struct {
	ID        uint           `gorm:"primaryKey"`
	Nome      string         `gorm:"size:150;not null"`
	Documento string         `gorm:"size:20"` // CPF ou CNPJ
	Tipo      ClientTipo     `gorm:"size:2;not null;default:PF"`
	Telefone  string         `gorm:"size:30"`
	Etiqueta  ClientEtiqueta `gorm:"size:10;not null;default:blue"`
	// Lista de produtos contratados, como array JSON
	Produtos  string `gorm:"type:jsonb"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
