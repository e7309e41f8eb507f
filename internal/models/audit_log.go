package models

import "time"

type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
)

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	// Tabela e registro afetados
	TableName string `gorm:"size:50;index" json:"table_name"`
	RecordID  string `gorm:"size:40;index" json:"record_id"`

	Action AuditAction `gorm:"size:20" json:"action"`

	// Email de quem fez a alteração (denormalizado)
	ChangedBy string `gorm:"size:100" json:"changed_by"`

	// Snapshot da alteração (JSON)
	Changes string `gorm:"type:jsonb" json:"changes"`
}
