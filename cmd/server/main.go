package main

import (
	"log"
	"strings"

	"agenda-backend/internal/admin"
	"agenda-backend/internal/appointments"
	"agenda-backend/internal/audit"
	"agenda-backend/internal/auth"
	"agenda-backend/internal/catalog"
	"agenda-backend/internal/clients"
	"agenda-backend/internal/config"
	"agenda-backend/internal/dashboard"
	"agenda-backend/internal/database"
	"agenda-backend/internal/employees"
	"agenda-backend/internal/models"
	"agenda-backend/internal/reports"
	"agenda-backend/internal/schedule"
	"agenda-backend/internal/settings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Erro inesperado:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Erro inesperado do servidor",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	provider := auth.NewPasswordProvider(cfg.JWTSecret)

	api := app.Group("/api")

	// Auth pública
	api.Post("/auth/register-admin", auth.RegisterAdminHandler())
	api.Post("/auth/login", auth.LoginHandler(provider))

	// Rotas autenticadas
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Clientes
	protected.Get("/clients", clients.ListClientsHandler())
	protected.Post("/clients", clients.CreateClientHandler())
	protected.Put("/clients/:id", clients.UpdateClientHandler())
	protected.Delete("/clients/:id", clients.DeleteClientHandler())

	// Agendamentos (com checagem de bloqueio no create/update)
	protected.Get("/appointments", appointments.ListAppointmentsHandler())
	protected.Get("/appointments/today", appointments.ListTodayAppointmentsHandler())
	protected.Post("/appointments", appointments.CreateAppointmentHandler())
	protected.Put("/appointments/:id", appointments.UpdateAppointmentHandler())
	protected.Delete("/appointments/:id", appointments.DeleteAppointmentHandler())

	// Funcionários (listagem liberada: o formulário de agendamento precisa)
	protected.Get("/employees", employees.ListEmployeesHandler())

	// Catálogo e configurações (leitura)
	protected.Get("/products", catalog.ListProductsHandler())
	protected.Get("/service-types", catalog.ListServiceTypesHandler())
	protected.Get("/settings", settings.GetSettingsHandler())

	// Bloqueios de agenda (leitura + pré-checagem de conflito)
	protected.Get("/schedule-blocks", schedule.ListScheduleBlocksHandler())
	protected.Get("/schedule-blocks/check", schedule.CheckConflictHandler())

	// Dashboard e auditoria
	protected.Get("/dashboard/stats", dashboard.StatsHandler())
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	// Rotas de administrador
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	// Gestão de usuários
	adminRoutes.Get("/users", admin.ListUsersHandler())
	adminRoutes.Post("/users", admin.CreateUserHandler())
	adminRoutes.Put("/users/:id/role", admin.UpdateUserRoleHandler())
	adminRoutes.Delete("/users/:id", admin.DeleteUserHandler())

	// Funcionários
	adminRoutes.Post("/employees", employees.CreateEmployeeHandler())
	adminRoutes.Put("/employees/:id", employees.UpdateEmployeeHandler())
	adminRoutes.Delete("/employees/:id", employees.DeleteEmployeeHandler())

	// Catálogo
	adminRoutes.Post("/products", catalog.CreateProductHandler())
	adminRoutes.Put("/products/:id", catalog.UpdateProductHandler())
	adminRoutes.Delete("/products/:id", catalog.DeleteProductHandler())
	adminRoutes.Post("/service-types", catalog.CreateServiceTypeHandler())
	adminRoutes.Delete("/service-types/:id", catalog.DeleteServiceTypeHandler())

	// Bloqueios de agenda
	adminRoutes.Post("/schedule-blocks", schedule.CreateScheduleBlockHandler())
	adminRoutes.Delete("/schedule-blocks/:id", schedule.DeleteScheduleBlockHandler())

	// Configurações
	adminRoutes.Put("/settings", settings.UpdateSettingHandler())

	// Relatórios
	adminRoutes.Get("/reports/stats", reports.StatsHandler())
	adminRoutes.Get("/reports/export", reports.ExportHandler())

	log.Println("Servidor rodando na porta:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
