package repository

import (
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// PartRepository persistencia del catálogo de repuestos. El contador de stock
// solo se escribe con la fila bloqueada y junto a su movimiento (mismo tx).
type PartRepository interface {
	Create(p *entity.Part) error
	GetByID(id string) (*entity.Part, error)
	// GetForUpdate bloquea la fila del repuesto (SELECT FOR UPDATE); es el
	// recurso más disputado del sistema.
	GetForUpdate(id string) (*entity.Part, error)
	Update(p *entity.Part) error
	// UpdateStock escribe solo el contador de stock.
	UpdateStock(id string, quantity decimal.Decimal) error
	List(limit, offset int) ([]*entity.Part, error)
	// ListBelowMinStock repuestos en o bajo su punto de reposición.
	ListBelowMinStock() ([]*entity.Part, error)
}
