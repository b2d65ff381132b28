package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatusPedido define os possíveis status de um pedido.
type StatusPedido string

const (
	StatusPendente   StatusPedido = "pendente"
	StatusConfirmado StatusPedido = "confirmado"
	StatusEnviado    StatusPedido = "enviado"
	StatusEntregue   StatusPedido = "entregue"
	StatusCancelado  StatusPedido = "cancelado"
)

// Pedido representa uma ordem de compra. ValorTotal é gravado no checkout a
// partir do carrinho e não é recalculado depois a partir dos itens.
type Pedido struct {
	ID         uint         `gorm:"primaryKey"`
	ClienteID  uint         `gorm:"not null"`
	Cliente    Cliente      `gorm:"foreignKey:ClienteID"`
	Status     StatusPedido `gorm:"type:varchar(20);not null;default:'pendente'"`
	ValorTotal decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Itens      []ItemPedido    `gorm:"foreignKey:PedidoID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time
}

// ItemPedido representa um item dentro de um Pedido. PrecoUnitario é o preço
// no momento da compra, não o preço atual do produto.
type ItemPedido struct {
	ID            uint    `gorm:"primaryKey"`
	PedidoID      uint    `gorm:"not null"`
	Pedido        Pedido  `gorm:"foreignKey:PedidoID"`
	ProdutoID     uint    `gorm:"not null"`
	Produto       Produto `gorm:"foreignKey:ProdutoID"`
	Quantidade    int     `gorm:"not null;default:1"`
	PrecoUnitario decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	CreatedAt     time.Time
}
