package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agenda-backend/internal/config"
	"agenda-backend/internal/database/testdb"
	"agenda-backend/internal/gate"
	"agenda-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "segredo-de-teste-com-tamanho-suficiente"

func testConfig() *config.Config {
	return &config.Config{JWTSecret: testSecret}
}

func criaUsuario(t *testing.T, db *gorm.DB, email, senha string, role models.UserRole) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{Email: email, SenhaHash: string(hash), Role: role}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func doJSON(t *testing.T, app *fiber.App, method, url string, body any, token string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestRegisterAdminSoFuncionaUmaVez(t *testing.T) {
	testdb.Open(t)
	app := fiber.New()
	app.Post("/auth/register-admin", RegisterAdminHandler())

	body := fiber.Map{"nome": "Dona Ana", "email": "ana@empresa.com", "senha": "senha-forte"}
	resp := doJSON(t, app, "POST", "/auth/register-admin", body, "")
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Segundo bootstrap é recusado
	body["email"] = "outro@empresa.com"
	resp = doJSON(t, app, "POST", "/auth/register-admin", body, "")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	db := testdb.Open(t)
	criaUsuario(t, db, "ana@empresa.com", "senha-forte", models.RoleAdmin)

	provider := NewPasswordProvider(testSecret)
	app := fiber.New()
	app.Post("/auth/login", LoginHandler(provider))

	resp := doJSON(t, app, "POST", "/auth/login", fiber.Map{
		"email": "ana@empresa.com",
		"senha": "senha-forte",
	}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var res struct {
		Token string `json:"token"`
		User  struct {
			Email string          `json:"email"`
			Role  models.UserRole `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "ana@empresa.com", res.User.Email)
	assert.Equal(t, models.RoleAdmin, res.User.Role)

	// Email é normalizado antes da busca
	resp = doJSON(t, app, "POST", "/auth/login", fiber.Map{
		"email": "  ANA@empresa.com ",
		"senha": "senha-forte",
	}, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestLoginComCredenciaisErradas(t *testing.T) {
	db := testdb.Open(t)
	criaUsuario(t, db, "ana@empresa.com", "senha-forte", models.RoleAdmin)

	provider := NewPasswordProvider(testSecret)
	app := fiber.New()
	app.Post("/auth/login", LoginHandler(provider))

	resp := doJSON(t, app, "POST", "/auth/login", fiber.Map{
		"email": "ana@empresa.com",
		"senha": "errada",
	}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// Usuário inexistente recebe a mesma resposta, sem vazar a diferença
	resp = doJSON(t, app, "POST", "/auth/login", fiber.Map{
		"email": "ninguem@empresa.com",
		"senha": "tanto-faz",
	}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestMiddlewareProtegeRotas(t *testing.T) {
	db := testdb.Open(t)
	admin := criaUsuario(t, db, "ana@empresa.com", "senha-forte", models.RoleAdmin)
	comum := criaUsuario(t, db, "joao@empresa.com", "senha-forte", models.RoleUser)

	cfg := testConfig()
	app := fiber.New()
	protegida := app.Group("", JWTMiddleware(cfg))
	protegida.Get("/qualquer", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	adminRotas := protegida.Group("/admin", RequireRole(models.RoleAdmin))
	adminRotas.Get("/painel", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	tokenAdmin, _, err := GenerateToken(cfg.JWTSecret, &admin)
	require.NoError(t, err)
	tokenComum, _, err := GenerateToken(cfg.JWTSecret, &comum)
	require.NoError(t, err)

	// Sem token: redireciona para login (401)
	resp := doJSON(t, app, "GET", "/qualquer", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// Token adulterado
	resp = doJSON(t, app, "GET", "/qualquer", nil, tokenComum+"x")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// Usuário comum passa na rota comum e é barrado na rota admin (403)
	resp = doJSON(t, app, "GET", "/qualquer", nil, tokenComum)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = doJSON(t, app, "GET", "/admin/painel", nil, tokenComum)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Admin passa nas duas
	resp = doJSON(t, app, "GET", "/admin/painel", nil, tokenAdmin)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestTokenExpiradoERecusado(t *testing.T) {
	db := testdb.Open(t)
	admin := criaUsuario(t, db, "ana@empresa.com", "senha-forte", models.RoleAdmin)

	cfg := testConfig()
	app := fiber.New()
	app.Get("/qualquer", JWTMiddleware(cfg), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	token := tokenExpirado(t, cfg.JWTSecret, &admin)
	resp := doJSON(t, app, "GET", "/qualquer", nil, token)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func tokenExpirado(t *testing.T, secret string, user *models.User) string {
	t.Helper()
	claims := &JWTCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

// Gate ligado no provider e no store reais, do login ao logout.
func TestGateComProviderReal(t *testing.T) {
	db := testdb.Open(t)
	criaUsuario(t, db, "ana@empresa.com", "senha-forte", models.RoleAdmin)

	provider := NewPasswordProvider(testSecret)
	g := gate.New(provider, GormProfileStore{})
	g.Start(context.Background())
	defer g.Close()

	require.Eventually(t, func() bool {
		return g.Snapshot().State == gate.StateUnauthenticated
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, gate.RedirectToLogin, g.ResolveAccess(""))

	require.NoError(t, g.SignIn(context.Background(), "ana@empresa.com", "senha-forte"))
	require.Eventually(t, func() bool {
		return g.Snapshot().State == gate.StateAuthenticatedAdmin
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, gate.Allow, g.ResolveAccess(models.RoleAdmin))

	require.NoError(t, g.SignOut(context.Background()))
	assert.Equal(t, gate.StateUnauthenticated, g.Snapshot().State)
	assert.Equal(t, gate.RedirectToLogin, g.ResolveAccess(""))
}
