package employees

import (
	"encoding/json"
	"fmt"
	"strings"

	"agenda-backend/internal/audit"
	"agenda-backend/internal/database"
	"agenda-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type EmployeeResponse struct {
	ID        uint     `json:"id"`
	Nome      string   `json:"nome"`
	CPF       string   `json:"cpf"`
	Funcao    *string  `json:"funcao"`
	Status    *string  `json:"status"`
	Servicos  []string `json:"servicos"`
	CreatedAt string   `json:"created_at"`
}

type CreateEmployeeRequest struct {
	Nome     string   `json:"nome"`
	CPF      string   `json:"cpf"`
	Funcao   *string  `json:"funcao"`
	Status   *string  `json:"status"`
	Servicos []string `json:"servicos"`
}

type UpdateEmployeeRequest struct {
	Nome     *string  `json:"nome"`
	CPF      *string  `json:"cpf"`
	Funcao   *string  `json:"funcao"`
	Status   *string  `json:"status"`
	Servicos []string `json:"servicos"`
}

func servicosFromJSON(raw string) []string {
	if raw == "" || raw == "null" {
		return []string{}
	}
	var servicos []string
	if err := json.Unmarshal([]byte(raw), &servicos); err != nil {
		return []string{}
	}
	return servicos
}

func servicosToJSON(servicos []string) string {
	if servicos == nil {
		servicos = []string{}
	}
	b, err := json.Marshal(servicos)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func toResponse(e models.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:        e.ID,
		Nome:      e.Nome,
		CPF:       e.CPF,
		Funcao:    e.Funcao,
		Status:    e.Status,
		Servicos:  servicosFromJSON(e.Servicos),
		CreatedAt: e.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func ListEmployeesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var funcionarios []models.Employee
		if err := database.DB.Order("nome ASC").Find(&funcionarios).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os funcionários")
		}

		res := make([]EmployeeResponse, 0, len(funcionarios))
		for _, f := range funcionarios {
			res = append(res, toResponse(f))
		}
		return c.JSON(res)
	}
}

func CreateEmployeeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateEmployeeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados inválidos")
		}

		body.Nome = strings.TrimSpace(body.Nome)
		if body.Nome == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nome é obrigatório")
		}

		funcionario := models.Employee{
			Nome:     body.Nome,
			CPF:      strings.TrimSpace(body.CPF),
			Funcao:   body.Funcao,
			Status:   body.Status,
			Servicos: servicosToJSON(body.Servicos),
		}

		if err := database.DB.Create(&funcionario).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar o funcionário")
		}

		audit.WriteLog(audit.LogOptions{
			TableName: "employees",
			RecordID:  fmt.Sprint(funcionario.ID),
			Action:    models.AuditActionCreate,
			ChangedBy: audit.ChangedByFromCtx(c),
			Changes:   funcionario,
		})

		return c.Status(fiber.StatusCreated).JSON(toResponse(funcionario))
	}
}

func UpdateEmployeeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := c.Params("id")
		var id uint
		if _, err := fmt.Sscan(idStr, &id); err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}

		var funcionario models.Employee
		if err := database.DB.First(&funcionario, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Funcionário não encontrado")
		}

		var body UpdateEmployeeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados inválidos")
		}

		if body.Nome != nil {
			nome := strings.TrimSpace(*body.Nome)
			if nome == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Nome não pode ser vazio")
			}
			funcionario.Nome = nome
		}
		if body.CPF != nil {
			funcionario.CPF = strings.TrimSpace(*body.CPF)
		}
		if body.Funcao != nil {
			funcionario.Funcao = body.Funcao
		}
		if body.Status != nil {
			funcionario.Status = body.Status
		}
		if body.Servicos != nil {
			funcionario.Servicos = servicosToJSON(body.Servicos)
		}

		if err := database.DB.Save(&funcionario).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar o funcionário")
		}

		audit.WriteLog(audit.LogOptions{
			TableName: "employees",
			RecordID:  fmt.Sprint(funcionario.ID),
			Action:    models.AuditActionUpdate,
			ChangedBy: audit.ChangedByFromCtx(c),
			Changes:   funcionario,
		})

		return c.JSON(toResponse(funcionario))
	}
}

func DeleteEmployeeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := c.Params("id")
		var id uint
		if _, err := fmt.Sscan(idStr, &id); err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}

		var funcionario models.Employee
		if err := database.DB.First(&funcionario, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Funcionário não encontrado")
		}

		if err := database.DB.Delete(&funcionario).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir o funcionário")
		}

		audit.WriteLog(audit.LogOptions{
			TableName: "employees",
			RecordID:  fmt.Sprint(funcionario.ID),
			Action:    models.AuditActionDelete,
			ChangedBy: audit.ChangedByFromCtx(c),
			Changes:   funcionario,
		})

		return c.JSON(fiber.Map{"message": "Funcionário excluído com sucesso"})
	}
}
