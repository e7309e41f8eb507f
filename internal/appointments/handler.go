package appointments

import (
	"fmt"
	"strings"
	"time"

	"agenda-backend/internal/audit"
	"agenda-backend/internal/database"
	"agenda-backend/internal/models"
	"agenda-backend/internal/schedule"

	"github.com/gofiber/fiber/v2"
)

type AppointmentResponse struct {
	ID              uint     `json:"id"`
	ClienteNome     *string  `json:"cliente_nome"`
	FuncionarioNome *string  `json:"funcionario_nome"`
	Data            string   `json:"data"`
	Hora            string   `json:"hora"`
	Tipo            string   `json:"tipo"`
	Urgencia        *string  `json:"urgencia"`
	Endereco        *string  `json:"endereco"`
	Modalidade      *string  `json:"modalidade"`
	Valor           *float64 `json:"valor"`
	CreatedAt       string   `json:"created_at"`
}

type CreateAppointmentRequest struct {
	ClienteNome     string   `json:"cliente_nome"`
	FuncionarioNome string   `json:"funcionario_nome"`
	Data            string   `json:"data"`
	Hora            string   `json:"hora"`
	Tipo            string   `json:"tipo"`
	Urgencia        *string  `json:"urgencia"`
	Endereco        *string  `json:"endereco"`
	Modalidade      *string  `json:"modalidade"`
	Valor           *float64 `json:"valor"`
}

type UpdateAppointmentRequest struct {
	ClienteNome     *string  `json:"cliente_nome"`
	FuncionarioNome *string  `json:"funcionario_nome"`
	Data            *string  `json:"data"`
	Hora            *string  `json:"hora"`
	Tipo            *string  `json:"tipo"`
	Urgencia        *string  `json:"urgencia"`
	Endereco        *string  `json:"endereco"`
	Modalidade      *string  `json:"modalidade"`
	Valor           *float64 `json:"valor"`
}

func toResponse(a models.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:              a.ID,
		ClienteNome:     a.ClienteNome,
		FuncionarioNome: a.FuncionarioNome,
		Data:            a.Data,
		Hora:            a.Hora,
		Tipo:            a.Tipo,
		Urgencia:        a.Urgencia,
		Endereco:        a.Endereco,
		Modalidade:      a.Modalidade,
		Valor:           a.Valor,
		CreatedAt:       a.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func validateDataHora(data, hora string) error {
	if _, err := time.Parse("2006-01-02", data); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Data deve estar no formato AAAA-MM-DD")
	}
	if _, err := time.Parse("15:04", hora); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Hora deve estar no formato HH:MM")
	}
	return nil
}

// GET /api/appointments?year=2024&month=12
func ListAppointmentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Appointment{})

		yearStr := c.Query("year")
		monthStr := c.Query("month")
		if yearStr != "" && monthStr != "" {
			var year, month int
			if _, err := fmt.Sscan(yearStr, &year); err != nil || year < 2000 {
				return fiber.NewError(fiber.StatusBadRequest, "year inválido")
			}
			if _, err := fmt.Sscan(monthStr, &month); err != nil || month < 1 || month > 12 {
				return fiber.NewError(fiber.StatusBadRequest, "month inválido")
			}
			inicio := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
			fim := inicio.AddDate(0, 1, -1)
			dbq = dbq.Where("data >= ? AND data <= ?", inicio.Format("2006-01-02"), fim.Format("2006-01-02"))
		}

		var appointments []models.Appointment
		if err := dbq.Order("data ASC, hora ASC").Find(&appointments).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os agendamentos")
		}

		res := make([]AppointmentResponse, 0, len(appointments))
		for _, a := range appointments {
			res = append(res, toResponse(a))
		}
		return c.JSON(res)
	}
}

// GET /api/appointments/today
func ListTodayAppointmentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		hoje := time.Now().Format("2006-01-02")

		var appointments []models.Appointment
		if err := database.DB.Where("data = ?", hoje).Order("hora ASC").Find(&appointments).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os agendamentos de hoje")
		}

		res := make([]AppointmentResponse, 0, len(appointments))
		for _, a := range appointments {
			res = append(res, toResponse(a))
		}
		return c.JSON(res)
	}
}

func CreateAppointmentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateAppointmentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados inválidos")
		}

		body.ClienteNome = strings.TrimSpace(body.ClienteNome)
		body.FuncionarioNome = strings.TrimSpace(body.FuncionarioNome)
		body.Tipo = strings.TrimSpace(body.Tipo)

		if body.ClienteNome == "" || body.FuncionarioNome == "" || body.Data == "" || body.Hora == "" || body.Tipo == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Cliente, funcionário, data, hora e tipo são obrigatórios")
		}
		if err := validateDataHora(body.Data, body.Hora); err != nil {
			return err
		}

		// Revalida o bloqueio no servidor; o formulário já pré-checou
		conflict := schedule.CheckConflict(body.Data, body.Hora, body.FuncionarioNome)
		if conflict.Blocked {
			return fiber.NewError(fiber.StatusConflict, conflict.Reason)
		}

		appointment := models.Appointment{
			ClienteNome:     &body.ClienteNome,
			FuncionarioNome: &body.FuncionarioNome,
			Data:            body.Data,
			Hora:            body.Hora,
			Tipo:            body.Tipo,
			Urgencia:        body.Urgencia,
			Endereco:        body.Endereco,
			Modalidade:      body.Modalidade,
			Valor:           body.Valor,
		}

		if err := database.DB.Create(&appointment).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar o agendamento")
		}

		audit.WriteLog(audit.LogOptions{
			TableName: "appointments",
			RecordID:  fmt.Sprint(appointment.ID),
			Action:    models.AuditActionCreate,
			ChangedBy: audit.ChangedByFromCtx(c),
			Changes:   appointment,
		})

		return c.Status(fiber.StatusCreated).JSON(toResponse(appointment))
	}
}

func UpdateAppointmentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := c.Params("id")
		var id uint
		if _, err := fmt.Sscan(idStr, &id); err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}

		var appointment models.Appointment
		if err := database.DB.First(&appointment, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Agendamento não encontrado")
		}

		var body UpdateAppointmentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados inválidos")
		}

		if body.ClienteNome != nil {
			nome := strings.TrimSpace(*body.ClienteNome)
			if nome == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Cliente não pode ser vazio")
			}
			appointment.ClienteNome = &nome
		}
		if body.FuncionarioNome != nil {
			nome := strings.TrimSpace(*body.FuncionarioNome)
			if nome == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Funcionário não pode ser vazio")
			}
			appointment.FuncionarioNome = &nome
		}
		if body.Data != nil {
			appointment.Data = *body.Data
		}
		if body.Hora != nil {
			appointment.Hora = *body.Hora
		}
		if body.Tipo != nil {
			tipo := strings.TrimSpace(*body.Tipo)
			if tipo == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Tipo não pode ser vazio")
			}
			appointment.Tipo = tipo
		}
		if body.Urgencia != nil {
			appointment.Urgencia = body.Urgencia
		}
		if body.Endereco != nil {
			appointment.Endereco = body.Endereco
		}
		if body.Modalidade != nil {
			appointment.Modalidade = body.Modalidade
		}
		if body.Valor != nil {
			appointment.Valor = body.Valor
		}

		if err := validateDataHora(appointment.Data, appointment.Hora); err != nil {
			return err
		}

		funcionarioNome := ""
		if appointment.FuncionarioNome != nil {
			funcionarioNome = *appointment.FuncionarioNome
		}
		conflict := schedule.CheckConflict(appointment.Data, appointment.Hora, funcionarioNome)
		if conflict.Blocked {
			return fiber.NewError(fiber.StatusConflict, conflict.Reason)
		}

		if err := database.DB.Save(&appointment).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar o agendamento")
		}

		audit.WriteLog(audit.LogOptions{
			TableName: "appointments",
			RecordID:  fmt.Sprint(appointment.ID),
			Action:    models.AuditActionUpdate,
			ChangedBy: audit.ChangedByFromCtx(c),
			Changes:   appointment,
		})

		return c.JSON(toResponse(appointment))
	}
}

func DeleteAppointmentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := c.Params("id")
		var id uint
		if _, err := fmt.Sscan(idStr, &id); err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}

		var appointment models.Appointment
		if err := database.DB.First(&appointment, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Agendamento não encontrado")
		}

		if err := database.DB.Delete(&appointment).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir o agendamento")
		}

		audit.WriteLog(audit.LogOptions{
			TableName: "appointments",
			RecordID:  fmt.Sprint(appointment.ID),
			Action:    models.AuditActionDelete,
			ChangedBy: audit.ChangedByFromCtx(c),
			Changes:   appointment,
		})

		return c.JSON(fiber.Map{"message": "Agendamento excluído com sucesso"})
	}
}
