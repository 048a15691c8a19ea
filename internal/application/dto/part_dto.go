package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// CreatePartRequest alta de repuesto en el catálogo (stock inicial cero; las
// entradas van por ajustes de stock).
type CreatePartRequest struct {
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	MinStock  decimal.Decimal `json:"min_stock"`
	CostPrice decimal.Decimal `json:"cost_price"`
	SalePrice decimal.Decimal `json:"sale_price"`
}

// UpdatePartRequest edición de precios y punto de reposición.
type UpdatePartRequest struct {
	Name      string          `json:"name"`
	MinStock  decimal.Decimal `json:"min_stock"`
	CostPrice decimal.Decimal `json:"cost_price"`
	SalePrice decimal.Decimal `json:"sale_price"`
}

// PartResponse repuesto del catálogo.
type PartResponse struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	StockQuantity decimal.Decimal `json:"stock_quantity"`
	MinStock      decimal.Decimal `json:"min_stock"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
}

// StockAdjustmentRequest ajuste manual de stock.
type StockAdjustmentRequest struct {
	PartID    string          `json:"part_id"`
	Direction string          `json:"direction"` // IN / OUT
	Reason    string          `json:"reason"`    // PURCHASE, ADJUSTMENT, RETURN, LOSS
	Note      string          `json:"note"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// StockMovementResponse fila del libro de movimientos.
type StockMovementResponse struct {
	ID        string          `json:"id"`
	PartID    string          `json:"part_id"`
	OrderID   string          `json:"order_id,omitempty"`
	Direction string          `json:"direction"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reason    string          `json:"reason"`
	Note      string          `json:"note,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	CreatedBy string          `json:"created_by,omitempty"`
}

// FromPart mapea la entidad a la respuesta.
func FromPart(p *entity.Part) PartResponse {
	return PartResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		StockQuantity: p.StockQuantity,
		MinStock:      p.MinStock,
		CostPrice:     p.CostPrice,
		SalePrice:     p.SalePrice,
	}
}

// FromMovement mapea el movimiento a la respuesta.
func FromMovement(m *entity.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:        m.ID,
		PartID:    m.PartID,
		OrderID:   m.OrderID,
		Direction: m.Direction,
		Quantity:  m.Quantity,
		Reason:    m.Reason,
		Note:      m.Note,
		CreatedAt: m.CreatedAt,
		CreatedBy: m.CreatedBy,
	}
}
