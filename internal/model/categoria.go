package model

type Categoria struct {
	ID        uint   `gorm:"primaryKey"`
	Nome      string `gorm:"not null;size:100"`
	Descricao string `gorm:"type:text"`
	Ativo     bool   `gorm:"default:true"`
}
