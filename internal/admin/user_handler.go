package admin

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"agenda-backend/internal/audit"
	"agenda-backend/internal/auth"
	"agenda-backend/internal/database"
	"agenda-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

type UserResponse struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	Nome      *string         `json:"nome"`
	Role      models.UserRole `json:"role"`
	CreatedAt string          `json:"created_at"`
}

type CreateUserRequest struct {
	Email string          `json:"email"`
	Senha string          `json:"senha"`
	Nome  *string         `json:"nome"`
	Role  models.UserRole `json:"role"`
}

type UpdateRoleRequest struct {
	Role models.UserRole `json:"role"`
}

// O provedor de identidade original limita a criação de contas em sequência;
// mantemos o mesmo comportamento: 1 criação a cada 30s.
var createUserLimiter = rate.NewLimiter(rate.Every(30*time.Second), 1)

func ListUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var users []models.User
		if err := database.DB.Order("email ASC").Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os usuários")
		}

		res := make([]UserResponse, 0, len(users))
		for _, u := range users {
			res = append(res, UserResponse{
				ID:        u.ID,
				Email:     u.Email,
				Nome:      u.Nome,
				Role:      u.Role,
				CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		return c.JSON(res)
	}
}

func CreateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reservation := createUserLimiter.Reserve()
		if delay := reservation.Delay(); delay > 0 {
			reservation.Cancel()
			seconds := int(math.Ceil(delay.Seconds()))
			return fiber.NewError(fiber.StatusTooManyRequests,
				fmt.Sprintf("Aguarde %d segundos antes de criar outro usuário.", seconds))
		}

		var body CreateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if body.Email == "" || body.Senha == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Email e senha são obrigatórios")
		}
		if body.Role == "" {
			body.Role = models.RoleUser
		}
		if !models.ValidRole(body.Role) {
			return fiber.NewError(fiber.StatusBadRequest, "Role inválida")
		}

		var count int64
		database.DB.Model(&models.User{}).Where("email = ?", body.Email).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Este email já está cadastrado")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Senha), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível proteger a senha")
		}

		var nome *string
		if body.Nome != nil {
			trimmed := strings.TrimSpace(*body.Nome)
			if trimmed != "" {
				nome = &trimmed
			}
		}

		user := models.User{
			Email:     body.Email,
			Nome:      nome,
			SenhaHash: string(hash),
			Role:      body.Role,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar o usuário")
		}

		audit.WriteLog(audit.LogOptions{
			TableName: "profiles",
			RecordID:  user.ID,
			Action:    models.AuditActionCreate,
			ChangedBy: audit.ChangedByFromCtx(c),
			Changes:   fiber.Map{"email": user.Email, "role": user.Role},
		})

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":    user.ID,
			"email": user.Email,
		})
	}
}

func UpdateUserRoleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var body UpdateRoleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if !models.ValidRole(body.Role) {
			return fiber.NewError(fiber.StatusBadRequest, "Role inválida")
		}

		var user models.User
		if err := database.DB.First(&user, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Usuário não encontrado")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível buscar o usuário")
		}

		anterior := user.Role
		user.Role = body.Role
		if err := database.DB.Save(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar a role")
		}

		audit.WriteLog(audit.LogOptions{
			TableName: "profiles",
			RecordID:  user.ID,
			Action:    models.AuditActionUpdate,
			ChangedBy: audit.ChangedByFromCtx(c),
			Changes:   fiber.Map{"role_anterior": anterior, "role": user.Role},
		})

		return c.JSON(fiber.Map{"id": user.ID, "role": user.Role})
	}
}

func DeleteUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		// Auto-exclusão bloqueada: um admin não apaga a própria conta
		if callerID, ok := c.Locals(auth.CtxUserIDKey).(string); ok && callerID == id {
			return fiber.NewError(fiber.StatusBadRequest, "Você não pode excluir sua própria conta")
		}

		var user models.User
		if err := database.DB.First(&user, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Usuário não encontrado")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível buscar o usuário")
		}

		if err := database.DB.Delete(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir o usuário")
		}

		audit.WriteLog(audit.LogOptions{
			TableName: "profiles",
			RecordID:  user.ID,
			Action:    models.AuditActionDelete,
			ChangedBy: audit.ChangedByFromCtx(c),
			Changes:   fiber.Map{"email": user.Email},
		})

		return c.JSON(fiber.Map{"message": "Usuário excluído com sucesso"})
	}
}
