package audit

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"agenda-backend/internal/database/testdb"
	"agenda-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteLogGravaEntrada(t *testing.T) {
	db := testdb.Open(t)

	WriteLog(LogOptions{
		TableName: "clients",
		RecordID:  "7",
		Action:    models.AuditActionUpdate,
		ChangedBy: "ana@empresa.com",
		Changes:   fiber.Map{"etiqueta": "red"},
	})

	var entry models.AuditLog
	require.NoError(t, db.First(&entry).Error)
	assert.Equal(t, "clients", entry.TableName)
	assert.Equal(t, "7", entry.RecordID)
	assert.Equal(t, "ana@empresa.com", entry.ChangedBy)
	assert.JSONEq(t, `{"etiqueta":"red"}`, entry.Changes)
}

func TestWriteLogSemChangesGravaNull(t *testing.T) {
	db := testdb.Open(t)

	WriteLog(LogOptions{
		TableName: "settings",
		RecordID:  "nome_empresa",
		Action:    models.AuditActionUpdate,
	})

	var entry models.AuditLog
	require.NoError(t, db.First(&entry).Error)
	assert.Equal(t, "null", entry.Changes)
}

// Auditoria é best-effort: com a tabela fora do ar a chamada não pode
// entrar em pânico nem devolver erro para a mutação que a originou.
func TestWriteLogNaoQuebraComTabelaAusente(t *testing.T) {
	db := testdb.Open(t)
	require.NoError(t, db.Migrator().DropTable(&models.AuditLog{}))

	assert.NotPanics(t, func() {
		WriteLog(LogOptions{
			TableName: "clients",
			RecordID:  "7",
			Action:    models.AuditActionDelete,
		})
	})
}

func TestListaLogsComFiltros(t *testing.T) {
	db := testdb.Open(t)
	app := fiber.New()
	app.Get("/audit-logs", ListAuditLogsHandler())

	seed := []models.AuditLog{
		{TableName: "clients", Action: models.AuditActionCreate, ChangedBy: "ana@empresa.com", Changes: "null"},
		{TableName: "clients", Action: models.AuditActionDelete, ChangedBy: "joao@empresa.com", Changes: "null"},
		{TableName: "appointments", Action: models.AuditActionCreate, ChangedBy: "ana@empresa.com", Changes: "null"},
	}
	for i := range seed {
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	listar := func(url string) []AuditLogResponse {
		req := httptest.NewRequest("GET", url, nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		var res []AuditLogResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		return res
	}

	assert.Len(t, listar("/audit-logs"), 3)
	assert.Len(t, listar("/audit-logs?table_name=clients"), 2)
	assert.Len(t, listar("/audit-logs?table_name=clients&action=delete"), 1)
	assert.Len(t, listar("/audit-logs?changed_by=ana@empresa.com"), 2)
	assert.Len(t, listar("/audit-logs?limit=1"), 1)
}
