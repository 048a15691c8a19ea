package repository

import "github.com/jhoicas/Taller-api/internal/domain/entity"

// StatusHistoryRepository auditoría append-only de cambios de estado.
type StatusHistoryRepository interface {
	Create(e *entity.StatusHistoryEntry) error
	ListByOrder(orderID string) ([]*entity.StatusHistoryEntry, error)
}
