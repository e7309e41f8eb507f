package dashboard

import (
	"time"

	"agenda-backend/internal/database"
	"agenda-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type TipoCount struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}

type StatsResponse struct {
	TotalClientes     int64       `json:"total_clientes"`
	ClientesAtivos    int64       `json:"clientes_ativos"`
	TotalAgendamentos int64       `json:"total_agendamentos"`
	AgendamentosHoje  int64       `json:"agendamentos_hoje"`
	PorTipo           []TipoCount `json:"agendamentos_por_tipo"`
}

// GET /api/dashboard/stats
func StatsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var resp StatsResponse
		hoje := time.Now().Format("2006-01-02")

		if err := database.DB.Model(&models.Client{}).Count(&resp.TotalClientes).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível calcular as estatísticas")
		}
		if err := database.DB.Model(&models.Appointment{}).Count(&resp.TotalAgendamentos).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível calcular as estatísticas")
		}
		if err := database.DB.Model(&models.Appointment{}).Where("data = ?", hoje).Count(&resp.AgendamentosHoje).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível calcular as estatísticas")
		}

		// Cliente "ativo" = tem agendamento de hoje em diante
		if err := database.DB.Model(&models.Appointment{}).
			Where("data >= ? AND cliente_nome IS NOT NULL", hoje).
			Distinct("cliente_nome").
			Count(&resp.ClientesAtivos).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível calcular as estatísticas")
		}

		type row struct {
			Tipo  string `gorm:"column:tipo"`
			Total int64  `gorm:"column:total"`
		}
		var rows []row
		if err := database.DB.Model(&models.Appointment{}).
			Select("tipo, COUNT(*) AS total").
			Group("tipo").
			Order("total DESC").
			Scan(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível calcular as estatísticas")
		}

		resp.PorTipo = make([]TipoCount, 0, len(rows))
		for _, r := range rows {
			resp.PorTipo = append(resp.PorTipo, TipoCount{Label: r.Tipo, Value: r.Total})
		}

		return c.JSON(resp)
	}
}
