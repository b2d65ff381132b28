package model

import "time"

// Cliente guarda os dados de entrega de um usuário. É criado no cadastro ou,
// se faltar, na primeira finalização de compra.
type Cliente struct {
	ID        uint    `gorm:"primaryKey"`
	UsuarioID uint    `gorm:"uniqueIndex;not null"`
	Usuario   Usuario `gorm:"foreignKey:UsuarioID"`
	CPF       string  `gorm:"size:14;unique"`
	Telefone  string  `gorm:"size:20"`
	Endereco  string  `gorm:"size:255"`
	Cidade    string  `gorm:"size:100"`
	Estado    string  `gorm:"size:2"`
	CEP       string  `gorm:"size:9"`
	CreatedAt time.Time
}
