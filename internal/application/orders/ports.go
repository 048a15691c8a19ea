package orders

import (
	"context"

	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los cinco
// repositorios que componen una mutación de orden atados a esa tx. Es la
// unidad de exclusión mutua del orquestador: estado, stock y totales se
// confirman juntos o se revierten juntos.
type TxRunner interface {
	RunOrder(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		lineRepo repository.OrderLineRepository,
		partRepo repository.PartRepository,
		movRepo repository.StockMovementRepository,
		historyRepo repository.StatusHistoryRepository,
	) error) error
}

// Notifier recibe eventos de ciclo de vida para efectos colaterales
// (correo, push, in-app). El orquestador publica SOLO después del commit y
// nunca espera ni depende del resultado: un fallo de notificación jamás
// invalida una mutación confirmada.
type Notifier interface {
	Publish(ctx context.Context, eventType, orderID string, payload map[string]any)
}

// Tipos de evento publicados por el orquestador y los jobs.
const (
	EventOrderCreated    = "order.created"
	EventOrderAssigned   = "order.assigned"
	EventStatusChanged   = "order.status_changed"
	EventDeadlineOverdue = "order.deadline_overdue"
)
