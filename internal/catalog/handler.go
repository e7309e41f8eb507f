package catalog

import (
	"fmt"
	"strings"

	"agenda-backend/internal/audit"
	"agenda-backend/internal/database"
	"agenda-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ProductResponse struct {
	ID        uint   `json:"id"`
	Nome      string `json:"nome"`
	Ativo     *bool  `json:"ativo"`
	CreatedAt string `json:"created_at"`
}

type CreateProductRequest struct {
	Nome string `json:"nome"`
}

type UpdateProductRequest struct {
	Nome  *string `json:"nome"`
	Ativo *bool   `json:"ativo"`
}

type ServiceTypeResponse struct {
	ID          uint     `json:"id"`
	Nome        string   `json:"nome"`
	ValorPadrao *float64 `json:"valor_padrao"`
	Ativo       *bool    `json:"ativo"`
	CreatedAt   string   `json:"created_at"`
}

type CreateServiceTypeRequest struct {
	Nome        string   `json:"nome"`
	ValorPadrao *float64 `json:"valor_padrao"`
}

// ----------------------------------------
// PRODUTOS
// ----------------------------------------

func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var produtos []models.Product
		if err := database.DB.Order("nome ASC").Find(&produtos).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os produtos")
		}

		res := make([]ProductResponse, 0, len(produtos))
		for _, p := range produtos {
			res = append(res, ProductResponse{
				ID:        p.ID,
				Nome:      p.Nome,
				Ativo:     p.Ativo,
				CreatedAt: p.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		return c.JSON(res)
	}
}

func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados inválidos")
		}

		body.Nome = strings.TrimSpace(body.Nome)
		if body.Nome == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nome é obrigatório")
		}

		produto := models.Product{Nome: body.Nome}
		if err := database.DB.Create(&produto).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar o produto")
		}

		audit.WriteLog(audit.LogOptions{
			TableName: "products",
			RecordID:  fmt.Sprint(produto.ID),
			Action:    models.AuditActionCreate,
			ChangedBy: audit.ChangedByFromCtx(c),
			Changes:   produto,
		})

		return c.Status(fiber.StatusCreated).JSON(ProductResponse{
			ID:        produto.ID,
			Nome:      produto.Nome,
			Ativo:     produto.Ativo,
			CreatedAt: produto.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := c.Params("id")
		var id uint
		if _, err := fmt.Sscan(idStr, &id); err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}

		var produto models.Product
		if err := database.DB.First(&produto, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Produto não encontrado")
		}

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados inválidos")
		}

		if body.Nome != nil {
			nome := strings.TrimSpace(*body.Nome)
			if nome == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Nome não pode ser vazio")
			}
			produto.Nome = nome
		}
		if body.Ativo != nil {
			produto.Ativo = body.Ativo
		}

		if err := database.DB.Save(&produto).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar o produto")
		}

		audit.WriteLog(audit.LogOptions{
			TableName: "products",
			RecordID:  fmt.Sprint(produto.ID),
			Action:    models.AuditActionUpdate,
			ChangedBy: audit.ChangedByFromCtx(c),
			Changes:   produto,
		})

		return c.JSON(ProductResponse{
			ID:        produto.ID,
			Nome:      produto.Nome,
			Ativo:     produto.Ativo,
			CreatedAt: produto.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := c.Params("id")
		var id uint
		if _, err := fmt.Sscan(idStr, &id); err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}

		var produto models.Product
		if err := database.DB.First(&produto, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Produto não encontrado")
		}

		if err := database.DB.Delete(&produto).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir o produto")
		}

		audit.WriteLog(audit.LogOptions{
			TableName: "products",
			RecordID:  fmt.Sprint(produto.ID),
			Action:    models.AuditActionDelete,
			ChangedBy: audit.ChangedByFromCtx(c),
			Changes:   produto,
		})

		return c.JSON(fiber.Map{"message": "Produto excluído com sucesso"})
	}
}

// ----------------------------------------
// TIPOS DE SERVIÇO
// ----------------------------------------

func ListServiceTypesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var tipos []models.ServiceType
		if err := database.DB.Order("nome ASC").Find(&tipos).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os tipos de serviço")
		}

		res := make([]ServiceTypeResponse, 0, len(tipos))
		for _, t := range tipos {
			res = append(res, ServiceTypeResponse{
				ID:          t.ID,
				Nome:        t.Nome,
				ValorPadrao: t.ValorPadrao,
				Ativo:       t.Ativo,
				CreatedAt:   t.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		return c.JSON(res)
	}
}

func CreateServiceTypeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateServiceTypeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados inválidos")
		}

		body.Nome = strings.TrimSpace(body.Nome)
		if body.Nome == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nome é obrigatório")
		}

		tipo := models.ServiceType{
			Nome:        body.Nome,
			ValorPadrao: body.ValorPadrao,
		}
		if err := database.DB.Create(&tipo).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar o tipo de serviço")
		}

		audit.WriteLog(audit.LogOptions{
			TableName: "service_types",
			RecordID:  fmt.Sprint(tipo.ID),
			Action:    models.AuditActionCreate,
			ChangedBy: audit.ChangedByFromCtx(c),
			Changes:   tipo,
		})

		return c.Status(fiber.StatusCreated).JSON(ServiceTypeResponse{
			ID:          tipo.ID,
			Nome:        tipo.Nome,
			ValorPadrao: tipo.ValorPadrao,
			Ativo:       tipo.Ativo,
			CreatedAt:   tipo.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

func DeleteServiceTypeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := c.Params("id")
		var id uint
		if _, err := fmt.Sscan(idStr, &id); err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}

		var tipo models.ServiceType
		if err := database.DB.First(&tipo, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tipo de serviço não encontrado")
		}

		if err := database.DB.Delete(&tipo).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir o tipo de serviço")
		}

		audit.WriteLog(audit.LogOptions{
			TableName: "service_types",
			RecordID:  fmt.Sprint(tipo.ID),
			Action:    models.AuditActionDelete,
			ChangedBy: audit.ChangedByFromCtx(c),
			Changes:   tipo,
		})

		return c.JSON(fiber.Map{"message": "Tipo de serviço excluído com sucesso"})
	}
}
