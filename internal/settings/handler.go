package settings

import (
	"strings"
	"time"

	"agenda-backend/internal/audit"
	"agenda-backend/internal/database"
	"agenda-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm/clause"
)

type UpdateSettingRequest struct {
	Chave string `json:"chave"`
	Valor string `json:"valor"`
}

// GET /api/settings devolve as configurações como mapa chave/valor
func GetSettingsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var settings []models.Setting
		if err := database.DB.Find(&settings).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível buscar as configurações")
		}

		res := make(map[string]string, len(settings))
		for _, s := range settings {
			valor := ""
			if s.Valor != nil {
				valor = *s.Valor
			}
			res[s.Chave] = valor
		}
		return c.JSON(res)
	}
}

// PUT /api/admin/settings faz upsert por chave
func UpdateSettingHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpdateSettingRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados inválidos")
		}

		body.Chave = strings.TrimSpace(body.Chave)
		if body.Chave == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Chave é obrigatória")
		}

		setting := models.Setting{
			Chave:     body.Chave,
			Valor:     &body.Valor,
			UpdatedAt: time.Now(),
		}

		err := database.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "chave"}},
			DoUpdates: clause.AssignmentColumns([]string{"valor", "updated_at"}),
		}).Create(&setting).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar a configuração")
		}

		audit.WriteLog(audit.LogOptions{
			TableName: "settings",
			RecordID:  body.Chave,
			Action:    models.AuditActionUpdate,
			ChangedBy: audit.ChangedByFromCtx(c),
			Changes:   body,
		})

		return c.JSON(fiber.Map{
			"chave": body.Chave,
			"valor": body.Valor,
		})
	}
}
