package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo libro append-only de movimientos sobre PostgreSQL
// (usable con pool o tx). Sin Update ni Delete a propósito.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento.
func (r *StockMovementRepo) Create(m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, part_id, order_id, direction, quantity, reason, note, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.PartID, nullIfEmpty(m.OrderID), m.Direction, m.Quantity, m.Reason,
		nullIfEmpty(m.Note), m.CreatedAt, nullIfEmpty(m.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByPart movimientos de un repuesto, más reciente primero.
func (r *StockMovementRepo) ListByPart(partID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, part_id, order_id, direction, quantity, reason, note, created_at, created_by
		FROM stock_movements WHERE part_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, partID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements by part: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// ListByOrder movimientos generados por una orden.
func (r *StockMovementRepo) ListByOrder(orderID string) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, part_id, order_id, direction, quantity, reason, note, created_at, created_by
		FROM stock_movements WHERE order_id = $1
		ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list movements by order: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// SumByPart suma firmada del historial (IN positivo, OUT negativo). Debe
// coincidir con parts.stock_quantity en todo estado confirmado.
func (r *StockMovementRepo) SumByPart(partID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN direction = 'OUT' THEN -quantity ELSE quantity END), 0)
		FROM stock_movements WHERE part_id = $1`
	var sum decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, partID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum movements by part: %w", err)
	}
	return sum, nil
}

func scanMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var orderID, note, createdBy *string
		if err := rows.Scan(&m.ID, &m.PartID, &orderID, &m.Direction, &m.Quantity, &m.Reason,
			&note, &m.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		if orderID != nil {
			m.OrderID = *orderID
		}
		if note != nil {
			m.Note = *note
		}
		if createdBy != nil {
			m.CreatedBy = *createdBy
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
