package schedule

import (
	"fmt"
	"strings"

	"agenda-backend/internal/audit"
	"agenda-backend/internal/database"
	"agenda-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ScheduleBlockResponse struct {
	ID            uint             `json:"id"`
	Descricao     string           `json:"descricao"`
	DataInicio    string           `json:"data_inicio"`
	DataFim       string           `json:"data_fim"`
	HoraInicio    *string          `json:"hora_inicio"`
	HoraFim       *string          `json:"hora_fim"`
	Tipo          models.BlockTipo `json:"tipo"`
	FuncionarioID *uint            `json:"funcionario_id"`
	CreatedAt     string           `json:"created_at"`
}

type CreateScheduleBlockRequest struct {
	Descricao     string           `json:"descricao"`
	DataInicio    string           `json:"data_inicio"`
	DataFim       string           `json:"data_fim"`
	HoraInicio    *string          `json:"hora_inicio"`
	HoraFim       *string          `json:"hora_fim"`
	Tipo          models.BlockTipo `json:"tipo"`
	FuncionarioID *uint            `json:"funcionario_id"`
}

func toBlockResponse(b models.ScheduleBlock) ScheduleBlockResponse {
	return ScheduleBlockResponse{
		ID:            b.ID,
		Descricao:     b.Descricao,
		DataInicio:    b.DataInicio,
		DataFim:       b.DataFim,
		HoraInicio:    b.HoraInicio,
		HoraFim:       b.HoraFim,
		Tipo:          b.Tipo,
		FuncionarioID: b.FuncionarioID,
		CreatedAt:     b.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func ListScheduleBlocksHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var blocks []models.ScheduleBlock
		if err := database.DB.Order("data_inicio ASC").Find(&blocks).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os bloqueios")
		}

		res := make([]ScheduleBlockResponse, 0, len(blocks))
		for _, b := range blocks {
			res = append(res, toBlockResponse(b))
		}
		return c.JSON(res)
	}
}

func CreateScheduleBlockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateScheduleBlockRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados inválidos")
		}

		body.Descricao = strings.TrimSpace(body.Descricao)
		if body.Descricao == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Descrição é obrigatória")
		}
		if body.DataInicio == "" || body.DataFim == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Data início e data fim são obrigatórias")
		}

		if body.Tipo == "" {
			body.Tipo = models.BloqueioGeral
		}
		if body.Tipo != models.BloqueioGeral && body.Tipo != models.BloqueioFuncionario {
			return fiber.NewError(fiber.StatusBadRequest, "Tipo de bloqueio inválido")
		}

		// Invariante: bloqueio de funcionário sempre com funcionario_id;
		// bloqueio geral nunca
		if body.Tipo == models.BloqueioFuncionario && body.FuncionarioID == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Bloqueio de funcionário exige funcionario_id")
		}
		if body.Tipo == models.BloqueioGeral {
			body.FuncionarioID = nil
		}

		if body.FuncionarioID != nil {
			var funcionario models.Employee
			if err := database.DB.First(&funcionario, "id = ?", *body.FuncionarioID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Funcionário não encontrado")
			}
		}

		block := models.ScheduleBlock{
			Descricao:     body.Descricao,
			DataInicio:    body.DataInicio,
			DataFim:       body.DataFim,
			HoraInicio:    body.HoraInicio,
			HoraFim:       body.HoraFim,
			Tipo:          body.Tipo,
			FuncionarioID: body.FuncionarioID,
		}

		if err := database.DB.Create(&block).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar o bloqueio")
		}

		audit.WriteLog(audit.LogOptions{
			TableName: "schedule_blocks",
			RecordID:  fmt.Sprint(block.ID),
			Action:    models.AuditActionCreate,
			ChangedBy: audit.ChangedByFromCtx(c),
			Changes:   block,
		})

		return c.Status(fiber.StatusCreated).JSON(toBlockResponse(block))
	}
}

func DeleteScheduleBlockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := c.Params("id")
		var id uint
		if _, err := fmt.Sscan(idStr, &id); err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}

		var block models.ScheduleBlock
		if err := database.DB.First(&block, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Bloqueio não encontrado")
		}

		if err := database.DB.Delete(&block).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir o bloqueio")
		}

		audit.WriteLog(audit.LogOptions{
			TableName: "schedule_blocks",
			RecordID:  fmt.Sprint(block.ID),
			Action:    models.AuditActionDelete,
			ChangedBy: audit.ChangedByFromCtx(c),
			Changes:   block,
		})

		return c.JSON(fiber.Map{"message": "Bloqueio excluído com sucesso"})
	}
}

// GET /api/schedule-blocks/check?data=2024-12-25&hora=10:00&funcionario=Carlos
// Pré-checagem usada pelo formulário; a criação do agendamento revalida.
func CheckConflictHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		data := c.Query("data")
		hora := c.Query("hora")
		if data == "" || hora == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Parâmetros data e hora são obrigatórios")
		}

		result := CheckConflict(data, hora, c.Query("funcionario"))
		return c.JSON(result)
	}
}
