package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var _ repository.StatusHistoryRepository = (*StatusHistoryRepo)(nil)

// StatusHistoryRepo bitácora de cambios de estado, solo inserción y lectura.
type StatusHistoryRepo struct {
	q Querier
}

func NewStatusHistoryRepository(q Querier) *StatusHistoryRepo {
	return &StatusHistoryRepo{q: q}
}

// Create registra una entrada de auditoría.
func (r *StatusHistoryRepo) Create(e *entity.StatusHistoryEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	query := `
		INSERT INTO status_history (id, order_id, from_status, to_status, note, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		e.ID, e.OrderID, e.FromStatus, e.ToStatus, nullIfEmpty(e.Note), e.CreatedAt, nullIfEmpty(e.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("insert status history: %w", err)
	}
	return nil
}

// ListByOrder historial completo de una orden en orden cronológico.
func (r *StatusHistoryRepo) ListByOrder(orderID string) ([]*entity.StatusHistoryEntry, error) {
	query := `
		SELECT id, order_id, from_status, to_status, note, created_at, created_by
		FROM status_history WHERE order_id = $1
		ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list status history: %w", err)
	}
	defer rows.Close()

	var list []*entity.StatusHistoryEntry
	for rows.Next() {
		var e entity.StatusHistoryEntry
		var note, createdBy *string
		if err := rows.Scan(&e.ID, &e.OrderID, &e.FromStatus, &e.ToStatus, &note, &e.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan status history: %w", err)
		}
		if note != nil {
			e.Note = *note
		}
		if createdBy != nil {
			e.CreatedBy = *createdBy
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
