package models

import "time"

type PedidoEstado string

const (
	PedidoPendiente     PedidoEstado = "pendiente"
	PedidoEnPreparacion PedidoEstado = "en_preparacion"
	PedidoServido       PedidoEstado = "servido"
	PedidoPagado        PedidoEstado = "pagado"
)

func (e PedidoEstado) Valid() bool {
	switch e {
	case PedidoPendiente, PedidoEnPreparacion, PedidoServido, PedidoPagado:
		return true
	}
	return false
}

func (e PedidoEstado) Display() string {
	switch e {
	case PedidoPendiente:
		return "Pendiente"
	case PedidoEnPreparacion:
		return "En Preparación"
	case PedidoServido:
		return "Servido"
	case PedidoPagado:
		return "Pagado"
	}
	return string(e)
}

type Pedido struct {
	ID          uint `gorm:"primaryKey"`
	MesaID      uint `gorm:"not null;index"`
	Mesa        Mesa
	Descripcion string       `gorm:"type:text;not null"`
	Total       float64      `gorm:"not null;default:0"`
	Estado      PedidoEstado `gorm:"size:20;not null;default:pendiente"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
