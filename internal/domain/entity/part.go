package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Part repuesto del catálogo. StockQuantity solo se modifica a través del
// libro de movimientos (nunca un UPDATE suelto) y jamás queda negativo.
type Part struct {
	ID            string
	SKU           string
	Name          string
	StockQuantity decimal.Decimal
	MinStock      decimal.Decimal
	CostPrice     decimal.Decimal
	SalePrice     decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BelowMinStock indica si el repuesto está en o bajo su punto de reposición.
func (p *Part) BelowMinStock() bool {
	return p.StockQuantity.LessThanOrEqual(p.MinStock)
}
