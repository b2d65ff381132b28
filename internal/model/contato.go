package model

import "time"

// Contato guarda uma mensagem enviada pelo formulário de contato.
type Contato struct {
	ID         uint   `gorm:"primaryKey"`
	Nome       string `gorm:"not null;size:100"`
	Email      string `gorm:"not null"`
	Telefone   string `gorm:"size:20"`
	Assunto    string `gorm:"not null;size:200"`
	Mensagem   string `gorm:"type:text;not null"`
	Respondido bool   `gorm:"default:false"`
	CreatedAt  time.Time
}
