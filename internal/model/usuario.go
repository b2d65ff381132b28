package model

import "time"

const (
	RoleCliente = "cliente"
	RoleLojista = "lojista"
)

// Usuario representa uma conta de acesso. O papel "lojista" dá acesso ao painel.
type Usuario struct {
	ID        uint   `gorm:"primaryKey"`
	Username  string `gorm:"unique;not null;size:150"`
	Nome      string `gorm:"not null"`
	Email     string `gorm:"unique;not null"`
	SenhaHash string `gorm:"not null"`
	Tipo      string `gorm:"default:'cliente';not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
