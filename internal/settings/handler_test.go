package settings

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"agenda-backend/internal/database/testdb"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp() *fiber.App {
	app := fiber.New()
	app.Get("/settings", GetSettingsHandler())
	app.Put("/settings", UpdateSettingHandler())
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func getSettings(t *testing.T, app *fiber.App) map[string]string {
	t.Helper()
	resp := doJSON(t, app, "GET", "/settings", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var res map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	return res
}

func TestUpsertDeConfiguracao(t *testing.T) {
	testdb.Open(t)
	app := newApp()

	assert.Empty(t, getSettings(t, app))

	resp := doJSON(t, app, "PUT", "/settings", fiber.Map{
		"chave": "nome_empresa",
		"valor": "Agenda & Cia",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Agenda & Cia", getSettings(t, app)["nome_empresa"])

	// Mesma chave de novo atualiza em vez de duplicar
	resp = doJSON(t, app, "PUT", "/settings", fiber.Map{
		"chave": "nome_empresa",
		"valor": "Agenda Nova",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	res := getSettings(t, app)
	assert.Len(t, res, 1)
	assert.Equal(t, "Agenda Nova", res["nome_empresa"])
}

func TestUpsertSemChave(t *testing.T) {
	testdb.Open(t)
	app := newApp()

	resp := doJSON(t, app, "PUT", "/settings", fiber.Map{"valor": "x"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
