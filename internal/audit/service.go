package audit

import (
	"encoding/json"
	"log"

	"agenda-backend/internal/auth"
	"agenda-backend/internal/database"
	"agenda-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type LogOptions struct {
	TableName string
	RecordID  string
	Action    models.AuditAction
	ChangedBy string
	Changes   any
}

// WriteLog registra a trilha de auditoria. É best-effort: falha de auditoria
// nunca derruba a mutação que a originou, só é logada.
func WriteLog(opts LogOptions) {
	// jsonb não aceita string vazia; "null" é o default
	changesStr := "null"
	if opts.Changes != nil {
		if b, err := json.Marshal(opts.Changes); err == nil {
			changesStr = string(b)
		}
	}

	entry := models.AuditLog{
		TableName: opts.TableName,
		RecordID:  opts.RecordID,
		Action:    opts.Action,
		ChangedBy: opts.ChangedBy,
		Changes:   changesStr,
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		log.Println("[WARN] Não foi possível gravar log de auditoria:", err)
	}
}

// ChangedByFromCtx extrai o email do usuário autenticado da requisição.
func ChangedByFromCtx(c *fiber.Ctx) string {
	if email, ok := c.Locals(auth.CtxUserEmailKey).(string); ok {
		return email
	}
	return ""
}
