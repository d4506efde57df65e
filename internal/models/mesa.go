package models

import "time"

type MesaEstado string

const (
	MesaDisponible MesaEstado = "disponible"
	MesaOcupada    MesaEstado = "ocupada"
	MesaReservada  MesaEstado = "reservada"
)

// Valid indica si el estado es uno de los tres valores permitidos.
func (e MesaEstado) Valid() bool {
	switch e {
	case MesaDisponible, MesaOcupada, MesaReservada:
		return true
	}
	return false
}

func (e MesaEstado) Display() string {
	switch e {
	case MesaDisponible:
		return "Disponible"
	case MesaOcupada:
		return "Ocupada"
	case MesaReservada:
		return "Reservada"
	}
	return string(e)
}

type Mesa struct {
	ID        uint       `gorm:"primaryKey"`
	Numero    uint       `gorm:"uniqueIndex;not null"`
	Capacidad uint       `gorm:"not null"`
	Estado    MesaEstado `gorm:"size:20;not null;default:disponible"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Pedidos []Pedido `gorm:"constraint:OnDelete:CASCADE"`
}
