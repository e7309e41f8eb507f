// Package testdb abre bancos sqlite em memória para os testes e os instala
// como database.DB até o fim de cada teste.
package testdb

import (
	"fmt"
	"strings"
	"testing"

	"agenda-backend/internal/database"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open cria um banco isolado por teste e roda as migrations. O banco vira o
// database.DB global enquanto o teste durar; o anterior é restaurado no fim.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	nome := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", nome)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = prev
		sqlDB.Close()
	})
	return db
}
