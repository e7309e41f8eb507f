package audit

import (
	"fmt"

	"agenda-backend/internal/database"
	"agenda-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type AuditLogResponse struct {
	ID        uint               `json:"id"`
	CreatedAt string             `json:"created_at"`
	TableName string             `json:"table_name"`
	RecordID  string             `json:"record_id"`
	Action    models.AuditAction `json:"action"`
	ChangedBy string             `json:"changed_by"`
	Changes   string             `json:"changes"`
}

// GET /api/audit-logs?table_name=appointments&action=create&limit=50
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := 100
		if limitStr := c.Query("limit"); limitStr != "" {
			var l int
			if _, err := fmt.Sscan(limitStr, &l); err == nil && l > 0 && l <= 1000 {
				limit = l
			}
		}

		dbq := database.DB.Model(&models.AuditLog{})

		if tableName := c.Query("table_name"); tableName != "" {
			dbq = dbq.Where("table_name = ?", tableName)
		}
		if action := c.Query("action"); action != "" {
			dbq = dbq.Where("action = ?", action)
		}
		if changedBy := c.Query("changed_by"); changedBy != "" {
			dbq = dbq.Where("changed_by = ?", changedBy)
		}

		var logs []models.AuditLog
		if err := dbq.Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os logs")
		}

		resp := make([]AuditLogResponse, 0, len(logs))
		for _, entry := range logs {
			resp = append(resp, AuditLogResponse{
				ID:        entry.ID,
				CreatedAt: entry.CreatedAt.Format("2006-01-02 15:04:05"),
				TableName: entry.TableName,
				RecordID:  entry.RecordID,
				Action:    entry.Action,
				ChangedBy: entry.ChangedBy,
				Changes:   entry.Changes,
			})
		}

		return c.JSON(resp)
	}
}
