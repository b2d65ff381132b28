package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Produto representa um item à venda na loja.
// Excluir a categoria apaga os produtos dela em cascata.
type Produto struct {
	ID             uint      `gorm:"primaryKey"`
	Nome           string    `gorm:"not null;size:200"`
	CategoriaID    uint      `gorm:"not null"`
	Categoria      Categoria `gorm:"foreignKey:CategoriaID;constraint:OnDelete:CASCADE"`
	Descricao      string    `gorm:"type:text"`
	Preco          decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Estoque        int             `gorm:"not null;default:0"`
	ImagemURL      string
	Especificacoes string `gorm:"type:text"`
	Destaque       bool   `gorm:"default:false"`
	Ativo          bool   `gorm:"default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Disponivel indica se o produto pode ser comprado.
func (p Produto) Disponivel() bool {
	return p.Ativo && p.Estoque > 0
}
