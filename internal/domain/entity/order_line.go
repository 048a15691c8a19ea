package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderServiceLine servicio cobrado en una orden. Subtotal = Quantity * UnitPrice.
// Independiente del stock: se crea y elimina sin tocar inventario.
type OrderServiceLine struct {
	ID           string
	OrderID      string
	Description  string
	TechnicianID string // opcional, override del técnico de la orden
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	Subtotal     decimal.Decimal
	CreatedAt    time.Time
}

// OrderPartLine repuesto consumido por una orden. UnitPrice es un snapshot
// del precio de venta al momento del consumo, no el precio vivo del catálogo.
// Cada línea nace atada a un movimiento OUT y su eliminación genera el
// movimiento IN compensatorio.
type OrderPartLine struct {
	ID        string
	OrderID   string
	PartID    string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
	CreatedAt time.Time
}
