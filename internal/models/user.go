package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin       UserRole = "admin"
	RoleUser        UserRole = "user"
	RoleFuncionario UserRole = "funcionario"
)

// ValidRole informa se o valor é uma role conhecida.
func ValidRole(r UserRole) bool {
	return r == RoleAdmin || r == RoleUser || r == RoleFuncionario
}

// User é o perfil de acesso (tabela profiles no modelo original).
// O ID é um uuid opaco, igual ao subject da sessão.
type User struct {
	ID        string   `gorm:"type:uuid;primaryKey"`
	Email     string   `gorm:"size:100;uniqueIndex;not null"`
	Nome      *string  `gorm:"size:100"`
	SenhaHash string   `gorm:"size:255;not null"`
	Role      UserRole `gorm:"size:20;not null;default:user"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
