package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direcciones de un movimiento de stock.
const (
	DirectionIn  = "IN"
	DirectionOut = "OUT"
)

// Razones de un movimiento de stock.
const (
	ReasonPurchase         = "PURCHASE"          // compra / recepción
	ReasonAdjustment       = "ADJUSTMENT"        // conteo de inventario
	ReasonOrderConsumption = "ORDER_CONSUMPTION" // consumo por orden de servicio
	ReasonReturn           = "RETURN"            // devolución (compensación)
	ReasonLoss             = "LOSS"              // pérdida / baja
)

// StockMovement fila append-only del libro de inventario. Nunca se actualiza
// ni se borra: las correcciones son movimientos compensatorios nuevos.
// Invariante: el stock de un repuesto es la suma de sus movimientos
// (IN positivo, OUT negativo).
type StockMovement struct {
	ID        string
	PartID    string
	OrderID   string // vacío para ajustes manuales
	Direction string
	Quantity  decimal.Decimal // siempre positiva; el signo lo da Direction
	Reason    string
	Note      string
	CreatedAt time.Time
	CreatedBy string // UserID
}

// Signed devuelve la cantidad con signo según la dirección.
func (m *StockMovement) Signed() decimal.Decimal {
	if m.Direction == DirectionOut {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// ValidReason valida la razón recibida desde la API.
func ValidReason(r string) bool {
	switch r {
	case ReasonPurchase, ReasonAdjustment, ReasonOrderConsumption, ReasonReturn, ReasonLoss:
		return true
	}
	return false
}
