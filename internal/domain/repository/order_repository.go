package repository

import (
	"time"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// OrderRepository persistencia de órdenes de servicio. Las implementaciones
// aceptan pool o tx; los mutadores del orquestador siempre las usan atadas a
// una transacción.
type OrderRepository interface {
	Create(o *entity.Order) error
	GetByID(id string) (*entity.Order, error)
	// GetForUpdate bloquea la fila de la orden (SELECT FOR UPDATE) para
	// serializar mutaciones concurrentes sobre la misma orden.
	GetForUpdate(id string) (*entity.Order, error)
	Update(o *entity.Order) error
	// UpdateTotals escribe solo los campos derivados del recálculo.
	UpdateTotals(o *entity.Order) error
	List(limit, offset int) ([]*entity.Order, error)
	// ListOverdue órdenes con plazo de ejecución vencido y sin terminar.
	ListOverdue(now time.Time) ([]*entity.Order, error)
	// NextSequence incrementa y devuelve el consecutivo del par (prefijo, año)
	// de forma atómica (upsert con RETURNING).
	NextSequence(prefix string, year int) (int, error)
}
