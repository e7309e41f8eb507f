package database

import (
	"log"

	"agenda-backend/internal/config"
	"agenda-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Não foi possível conectar ao banco: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("Erro no AutoMigrate: %v", err)
	}

	log.Println("Conexão com o banco estabelecida. Migration concluída.")
}

// Migrate roda o AutoMigrate de todas as tabelas. Separado do Init para os
// testes poderem usar um banco próprio.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Employee{},
		&models.Appointment{},
		&models.Product{},
		&models.ServiceType{},
		&models.ScheduleBlock{},
		&models.Setting{},
		&models.AuditLog{},
	)
}
