package clients

import (
	"encoding/json"
	"fmt"
	"strings"

	"agenda-backend/internal/audit"
	"agenda-backend/internal/database"
	"agenda-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ClientResponse struct {
	ID        uint                  `json:"id"`
	Nome      string                `json:"nome"`
	Documento string                `json:"documento"`
	Tipo      models.ClientTipo     `json:"tipo"`
	Telefone  string                `json:"telefone"`
	Etiqueta  models.ClientEtiqueta `json:"etiqueta"`
	Produtos  []string              `json:"produtos"`
	CreatedAt string                `json:"created_at"`
}

type CreateClientRequest struct {
	Nome      string                 `json:"nome"`
	Documento string                 `json:"documento"`
	Tipo      models.ClientTipo      `json:"tipo"`
	Telefone  *string                `json:"telefone"`
	Etiqueta  *models.ClientEtiqueta `json:"etiqueta"`
	Produtos  []string               `json:"produtos"`
}

type UpdateClientRequest struct {
	Nome      *string                `json:"nome"`
	Documento *string                `json:"documento"`
	Tipo      *models.ClientTipo     `json:"tipo"`
	Telefone  *string                `json:"telefone"`
	Etiqueta  *models.ClientEtiqueta `json:"etiqueta"`
	Produtos  []string               `json:"produtos"`
}

// produtosFromJSON tolera tanto array quanto string JSON gravada em dobro
// (dados antigos têm os dois formatos)
func produtosFromJSON(raw string) []string {
	if raw == "" || raw == "null" {
		return []string{}
	}
	var produtos []string
	if err := json.Unmarshal([]byte(raw), &produtos); err == nil {
		return produtos
	}
	var nested string
	if err := json.Unmarshal([]byte(raw), &nested); err == nil {
		if err := json.Unmarshal([]byte(nested), &produtos); err == nil {
			return produtos
		}
	}
	return []string{}
}

func produtosToJSON(produtos []string) string {
	if produtos == nil {
		produtos = []string{}
	}
	b, err := json.Marshal(produtos)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func toResponse(cl models.Client) ClientResponse {
	return ClientResponse{
		ID:        cl.ID,
		Nome:      cl.Nome,
		Documento: cl.Documento,
		Tipo:      cl.Tipo,
		Telefone:  cl.Telefone,
		Etiqueta:  cl.Etiqueta,
		Produtos:  produtosFromJSON(cl.Produtos),
		CreatedAt: cl.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func validTipo(t models.ClientTipo) bool {
	return t == models.ClientePF || t == models.ClientePJ
}

func validEtiqueta(e models.ClientEtiqueta) bool {
	return e == models.EtiquetaGreen || e == models.EtiquetaBlue || e == models.EtiquetaRed
}

func ListClientsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var clientes []models.Client
		if err := database.DB.Order("id ASC").Find(&clientes).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os clientes")
		}

		res := make([]ClientResponse, 0, len(clientes))
		for _, cl := range clientes {
			res = append(res, toResponse(cl))
		}
		return c.JSON(res)
	}
}

func CreateClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateClientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados inválidos")
		}

		body.Nome = strings.TrimSpace(body.Nome)
		if body.Nome == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nome é obrigatório")
		}
		if body.Tipo == "" {
			body.Tipo = models.ClientePF
		}
		if !validTipo(body.Tipo) {
			return fiber.NewError(fiber.StatusBadRequest, "Tipo deve ser PF ou PJ")
		}

		etiqueta := models.EtiquetaBlue
		if body.Etiqueta != nil {
			if !validEtiqueta(*body.Etiqueta) {
				return fiber.NewError(fiber.StatusBadRequest, "Etiqueta inválida")
			}
			etiqueta = *body.Etiqueta
		}

		cliente := models.Client{
			Nome:      body.Nome,
			Documento: strings.TrimSpace(body.Documento),
			Tipo:      body.Tipo,
			Etiqueta:  etiqueta,
			Produtos:  produtosToJSON(body.Produtos),
		}
		if body.Telefone != nil {
			cliente.Telefone = strings.TrimSpace(*body.Telefone)
		}

		if err := database.DB.Create(&cliente).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar o cliente")
		}

		audit.WriteLog(audit.LogOptions{
			TableName: "clients",
			RecordID:  fmt.Sprint(cliente.ID),
			Action:    models.AuditActionCreate,
			ChangedBy: audit.ChangedByFromCtx(c),
			Changes:   cliente,
		})

		return c.Status(fiber.StatusCreated).JSON(toResponse(cliente))
	}
}

func UpdateClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := c.Params("id")
		var id uint
		if _, err := fmt.Sscan(idStr, &id); err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}

		var cliente models.Client
		if err := database.DB.First(&cliente, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Cliente não encontrado")
		}

		var body UpdateClientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados inválidos")
		}

		if body.Nome != nil {
			nome := strings.TrimSpace(*body.Nome)
			if nome == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Nome não pode ser vazio")
			}
			cliente.Nome = nome
		}
		if body.Documento != nil {
			cliente.Documento = strings.TrimSpace(*body.Documento)
		}
		if body.Tipo != nil {
			if !validTipo(*body.Tipo) {
				return fiber.NewError(fiber.StatusBadRequest, "Tipo deve ser PF ou PJ")
			}
			cliente.Tipo = *body.Tipo
		}
		if body.Telefone != nil {
			cliente.Telefone = strings.TrimSpace(*body.Telefone)
		}
		if body.Etiqueta != nil {
			if !validEtiqueta(*body.Etiqueta) {
				return fiber.NewError(fiber.StatusBadRequest, "Etiqueta inválida")
			}
			cliente.Etiqueta = *body.Etiqueta
		}
		if body.Produtos != nil {
			cliente.Produtos = produtosToJSON(body.Produtos)
		}

		if err := database.DB.Save(&cliente).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar o cliente")
		}

		audit.WriteLog(audit.LogOptions{
			TableName: "clients",
			RecordID:  fmt.Sprint(cliente.ID),
			Action:    models.AuditActionUpdate,
			ChangedBy: audit.ChangedByFromCtx(c),
			Changes:   cliente,
		})

		return c.JSON(toResponse(cliente))
	}
}

func DeleteClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := c.Params("id")
		var id uint
		if _, err := fmt.Sscan(idStr, &id); err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}

		var cliente models.Client
		if err := database.DB.First(&cliente, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Cliente não encontrado")
		}

		if err := database.DB.Delete(&cliente).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir o cliente")
		}

		audit.WriteLog(audit.LogOptions{
			TableName: "clients",
			RecordID:  fmt.Sprint(cliente.ID),
			Action:    models.AuditActionDelete,
			ChangedBy: audit.ChangedByFromCtx(c),
			Changes:   cliente,
		})

		return c.JSON(fiber.Map{"message": "Cliente excluído com sucesso"})
	}
}
