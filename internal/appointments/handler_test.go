package appointments

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agenda-backend/internal/database/testdb"
	"agenda-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp() *fiber.App {
	app := fiber.New()
	app.Get("/appointments", ListAppointmentsHandler())
	app.Get("/appointments/today", ListTodayAppointmentsHandler())
	app.Post("/appointments", CreateAppointmentHandler())
	app.Put("/appointments/:id", UpdateAppointmentHandler())
	app.Delete("/appointments/:id", DeleteAppointmentHandler())
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

func bodyString(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestCriaAgendamento(t *testing.T) {
	db := testdb.Open(t)
	app := newApp()

	resp := doJSON(t, app, "POST", "/appointments", fiber.Map{
		"cliente_nome":     "Maria Souza",
		"funcionario_nome": "Carlos",
		"data":             "2024-12-10",
		"hora":             "14:00",
		"tipo":             "Consultoria",
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Appointment{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// Mutação deixa rastro na auditoria
	var logs []models.AuditLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "appointments", logs[0].TableName)
	assert.Equal(t, models.AuditActionCreate, logs[0].Action)
}

func TestCriaAgendamentoSemCamposObrigatorios(t *testing.T) {
	testdb.Open(t)
	app := newApp()

	resp := doJSON(t, app, "POST", "/appointments", fiber.Map{
		"cliente_nome": "Maria Souza",
		"data":         "2024-12-10",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/appointments", fiber.Map{
		"cliente_nome":     "Maria Souza",
		"funcionario_nome": "Carlos",
		"data":             "10/12/2024",
		"hora":             "14:00",
		"tipo":             "Consultoria",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCriaAgendamentoEmHorarioBloqueado(t *testing.T) {
	db := testdb.Open(t)
	app := newApp()

	require.NoError(t, db.Create(&models.ScheduleBlock{
		Descricao:  "Natal",
		DataInicio: "2024-12-25",
		DataFim:    "2024-12-25",
		Tipo:       models.BloqueioGeral,
	}).Error)

	resp := doJSON(t, app, "POST", "/appointments", fiber.Map{
		"cliente_nome":     "Maria Souza",
		"funcionario_nome": "Carlos",
		"data":             "2024-12-25",
		"hora":             "10:00",
		"tipo":             "Consultoria",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "Natal")

	// Nada foi gravado
	var count int64
	require.NoError(t, db.Model(&models.Appointment{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestAtualizaAgendamentoParaHorarioBloqueado(t *testing.T) {
	db := testdb.Open(t)
	app := newApp()

	carlos := models.Employee{Nome: "Carlos", Servicos: "[]"}
	require.NoError(t, db.Create(&carlos).Error)
	require.NoError(t, db.Create(&models.ScheduleBlock{
		Descricao:     "Férias",
		DataInicio:    "2024-12-20",
		DataFim:       "2025-01-05",
		Tipo:          models.BloqueioFuncionario,
		FuncionarioID: &carlos.ID,
	}).Error)

	nome := "Carlos"
	cliente := "Maria Souza"
	apt := models.Appointment{
		ClienteNome:     &cliente,
		FuncionarioNome: &nome,
		Data:            "2024-12-10",
		Hora:            "14:00",
		Tipo:            "Consultoria",
	}
	require.NoError(t, db.Create(&apt).Error)

	// Mover para dentro das férias do Carlos é recusado
	resp := doJSON(t, app, "PUT", "/appointments/1", fiber.Map{"data": "2024-12-22"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "Carlos está em Férias")

	var salvo models.Appointment
	require.NoError(t, db.First(&salvo, apt.ID).Error)
	assert.Equal(t, "2024-12-10", salvo.Data)

	// Mover para um dia livre funciona
	resp = doJSON(t, app, "PUT", "/appointments/1", fiber.Map{"data": "2025-01-10"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestExcluiAgendamentoInexistente(t *testing.T) {
	testdb.Open(t)
	app := newApp()

	resp := doJSON(t, app, "DELETE", "/appointments/42", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestListaAgendamentosDeHoje(t *testing.T) {
	db := testdb.Open(t)
	app := newApp()

	hoje := time.Now().Format("2006-01-02")
	ontem := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	cliente := "Maria Souza"
	criar := func(data, hora string) {
		require.NoError(t, db.Create(&models.Appointment{
			ClienteNome: &cliente,
			Data:        data,
			Hora:        hora,
			Tipo:        "Consultoria",
		}).Error)
	}
	criar(ontem, "09:00")
	criar(hoje, "15:00")
	criar(hoje, "09:30")

	resp := doJSON(t, app, "GET", "/appointments/today", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var res []AppointmentResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	require.Len(t, res, 2)
	// Ordenados por hora
	assert.Equal(t, "09:30", res[0].Hora)
	assert.Equal(t, "15:00", res[1].Hora)
}

func TestListaAgendamentosPorMes(t *testing.T) {
	db := testdb.Open(t)
	app := newApp()

	cliente := "Maria Souza"
	for _, data := range []string{"2024-11-30", "2024-12-01", "2024-12-31", "2025-01-01"} {
		require.NoError(t, db.Create(&models.Appointment{
			ClienteNome: &cliente,
			Data:        data,
			Hora:        "10:00",
			Tipo:        "Consultoria",
		}).Error)
	}

	resp := doJSON(t, app, "GET", "/appointments?year=2024&month=12", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var res []AppointmentResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	require.Len(t, res, 2)
	assert.Equal(t, "2024-12-01", res[0].Data)
	assert.Equal(t, "2024-12-31", res[1].Data)
}
