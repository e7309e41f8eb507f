package auth

import (
	"errors"
	"strings"

	"agenda-backend/internal/database"
	"agenda-backend/internal/gate"
	"agenda-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type RegisterAdminRequest struct {
	Nome  string `json:"nome"`
	Email string `json:"email"`
	Senha string `json:"senha"`
}

type LoginRequest struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

// RegisterAdminHandler cria o primeiro admin. Depois disso a rota é
// bloqueada; novos usuários só via painel de administração.
func RegisterAdminHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterAdminRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		if body.Email == "" || body.Senha == "" || body.Nome == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nome, email e senha são obrigatórios")
		}

		var count int64
		database.DB.Model(&models.User{}).
			Where("role = ?", models.RoleAdmin).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusForbidden, "Já existe um administrador cadastrado")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Senha), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível proteger a senha")
		}

		user := models.User{
			Nome:      &body.Nome,
			Email:     body.Email,
			SenhaHash: string(hash),
			Role:      models.RoleAdmin,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar o usuário")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		})
	}
}

func LoginHandler(provider *PasswordProvider) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		session, err := provider.SignInWithPassword(c.Context(), body.Email, body.Senha)
		if err != nil {
			if errors.Is(err, gate.ErrInvalidCredentials) {
				return fiber.NewError(fiber.StatusUnauthorized, "Email ou senha incorretos")
			}
			return fiber.NewError(fiber.StatusServiceUnavailable, "Serviço de autenticação indisponível")
		}

		var user models.User
		if err := database.DB.First(&user, "id = ?", session.UserID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Usuário não encontrado")
		}

		return c.JSON(fiber.Map{
			"token":      session.Token,
			"expires_at": session.ExpiresAt,
			"user": fiber.Map{
				"id":    user.ID,
				"nome":  user.Nome,
				"email": user.Email,
				"role":  user.Role,
			},
		})
	}
}

func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userIDVal := c.Locals(CtxUserIDKey)

		if userID, ok := userIDVal.(string); ok {
			var user models.User
			if err := database.DB.First(&user, "id = ?", userID).Error; err == nil {
				return c.JSON(fiber.Map{
					"user_id": user.ID,
					"nome":    user.Nome,
					"email":   user.Email,
					"role":    user.Role,
				})
			}
		}

		// Fallback: devolve o que está nas claims
		return c.JSON(fiber.Map{
			"user_id": userIDVal,
			"email":   c.Locals(CtxUserEmailKey),
			"role":    c.Locals(CtxUserRoleKey),
		})
	}
}
