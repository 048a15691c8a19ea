package repository

import (
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StockMovementRepository libro append-only de movimientos de stock.
// No existe Update ni Delete: las correcciones son movimientos nuevos.
type StockMovementRepository interface {
	Create(m *entity.StockMovement) error
	ListByPart(partID string, limit, offset int) ([]*entity.StockMovement, error)
	ListByOrder(orderID string) ([]*entity.StockMovement, error)
	// SumByPart suma firmada (IN positivo, OUT negativo) del historial;
	// debe coincidir con parts.stock_quantity en todo estado confirmado.
	SumByPart(partID string) (decimal.Decimal, error)
}
