package clients

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"agenda-backend/internal/database/testdb"
	"agenda-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp() *fiber.App {
	app := fiber.New()
	app.Get("/clients", ListClientsHandler())
	app.Post("/clients", CreateClientHandler())
	app.Put("/clients/:id", UpdateClientHandler())
	app.Delete("/clients/:id", DeleteClientHandler())
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

func TestCriaClienteComPadroes(t *testing.T) {
	db := testdb.Open(t)
	app := newApp()

	resp := doJSON(t, app, "POST", "/clients", fiber.Map{
		"nome": "Maria Souza",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var res ClientResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, models.ClientePF, res.Tipo)
	assert.Equal(t, models.EtiquetaBlue, res.Etiqueta)
	assert.Empty(t, res.Produtos)

	var salvo models.Client
	require.NoError(t, db.First(&salvo).Error)
	assert.Equal(t, "[]", salvo.Produtos)
}

func TestCriaClienteComEtiquetaInvalida(t *testing.T) {
	testdb.Open(t)
	app := newApp()

	resp := doJSON(t, app, "POST", "/clients", fiber.Map{
		"nome":     "Maria Souza",
		"etiqueta": "roxo",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/clients", fiber.Map{
		"nome": "Maria Souza",
		"tipo": "MEI",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestProdutosIdaEVolta(t *testing.T) {
	testdb.Open(t)
	app := newApp()

	resp := doJSON(t, app, "POST", "/clients", fiber.Map{
		"nome":     "Empresa X",
		"tipo":     "PJ",
		"produtos": []string{"Plano A", "Plano B"},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var res ClientResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, []string{"Plano A", "Plano B"}, res.Produtos)
}

// Dados antigos têm o array gravado como string JSON em dobro; a listagem
// precisa decodificar os dois formatos.
func TestProdutosGravadosEmDobro(t *testing.T) {
	db := testdb.Open(t)
	app := newApp()

	require.NoError(t, db.Create(&models.Client{
		Nome:     "Legado",
		Tipo:     models.ClientePF,
		Etiqueta: models.EtiquetaBlue,
		Produtos: `"[\"Plano A\"]"`,
	}).Error)

	resp := doJSON(t, app, "GET", "/clients", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var res []ClientResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	require.Len(t, res, 1)
	assert.Equal(t, []string{"Plano A"}, res[0].Produtos)
}

func TestAtualizaEExcluiCliente(t *testing.T) {
	db := testdb.Open(t)
	app := newApp()

	require.NoError(t, db.Create(&models.Client{
		Nome:     "Maria Souza",
		Tipo:     models.ClientePF,
		Etiqueta: models.EtiquetaBlue,
		Produtos: "[]",
	}).Error)

	resp := doJSON(t, app, "PUT", "/clients/1", fiber.Map{"etiqueta": "red"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var salvo models.Client
	require.NoError(t, db.First(&salvo).Error)
	assert.Equal(t, models.EtiquetaRed, salvo.Etiqueta)

	resp = doJSON(t, app, "DELETE", "/clients/1", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Client{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}
