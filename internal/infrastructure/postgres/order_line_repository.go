package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var _ repository.OrderLineRepository = (*OrderLineRepo)(nil)

// OrderLineRepo implementación de OrderLineRepository (usable con pool o tx).
// Servicios y repuestos viven en tablas separadas.
type OrderLineRepo struct {
	q Querier
}

// NewOrderLineRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderLineRepository(q Querier) *OrderLineRepo {
	return &OrderLineRepo{q: q}
}

// CreateService persiste una línea de servicio.
func (r *OrderLineRepo) CreateService(l *entity.OrderServiceLine) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	query := `
		INSERT INTO order_service_lines (id, order_id, description, technician_id, quantity, unit_price, subtotal, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		l.ID, l.OrderID, l.Description, nullIfEmpty(l.TechnicianID),
		l.Quantity, l.UnitPrice, l.Subtotal, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert service line: %w", err)
	}
	return nil
}

// GetServiceByID obtiene una línea de servicio (nil si no existe).
func (r *OrderLineRepo) GetServiceByID(id string) (*entity.OrderServiceLine, error) {
	query := `
		SELECT id, order_id, description, technician_id, quantity, unit_price, subtotal, created_at
		FROM order_service_lines WHERE id = $1`
	var l entity.OrderServiceLine
	var technicianID *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&l.ID, &l.OrderID, &l.Description, &technicianID, &l.Quantity, &l.UnitPrice, &l.Subtotal, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service line: %w", err)
	}
	if technicianID != nil {
		l.TechnicianID = *technicianID
	}
	return &l, nil
}

// UpdateService actualiza la línea de servicio.
func (r *OrderLineRepo) UpdateService(l *entity.OrderServiceLine) error {
	query := `
		UPDATE order_service_lines
		SET description = $2, technician_id = $3, quantity = $4, unit_price = $5, subtotal = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		l.ID, l.Description, nullIfEmpty(l.TechnicianID), l.Quantity, l.UnitPrice, l.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("update service line: %w", err)
	}
	return nil
}

// DeleteService elimina la línea de servicio.
func (r *OrderLineRepo) DeleteService(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM order_service_lines WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete service line: %w", err)
	}
	return nil
}

// ListServicesByOrder líneas de servicio vigentes de una orden.
func (r *OrderLineRepo) ListServicesByOrder(orderID string) ([]*entity.OrderServiceLine, error) {
	query := `
		SELECT id, order_id, description, technician_id, quantity, unit_price, subtotal, created_at
		FROM order_service_lines WHERE order_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list service lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.OrderServiceLine
	for rows.Next() {
		var l entity.OrderServiceLine
		var technicianID *string
		if err := rows.Scan(&l.ID, &l.OrderID, &l.Description, &technicianID,
			&l.Quantity, &l.UnitPrice, &l.Subtotal, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan service line: %w", err)
		}
		if technicianID != nil {
			l.TechnicianID = *technicianID
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// CreatePart persiste una línea de repuesto.
func (r *OrderLineRepo) CreatePart(l *entity.OrderPartLine) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	query := `
		INSERT INTO order_part_lines (id, order_id, part_id, quantity, unit_price, subtotal, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		l.ID, l.OrderID, l.PartID, l.Quantity, l.UnitPrice, l.Subtotal, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert part line: %w", err)
	}
	return nil
}

// GetPartLineByID obtiene una línea de repuesto (nil si no existe).
func (r *OrderLineRepo) GetPartLineByID(id string) (*entity.OrderPartLine, error) {
	query := `
		SELECT id, order_id, part_id, quantity, unit_price, subtotal, created_at
		FROM order_part_lines WHERE id = $1`
	var l entity.OrderPartLine
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&l.ID, &l.OrderID, &l.PartID, &l.Quantity, &l.UnitPrice, &l.Subtotal, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get part line: %w", err)
	}
	return &l, nil
}

// UpdatePart actualiza cantidad, precio y subtotal de la línea de repuesto.
func (r *OrderLineRepo) UpdatePart(l *entity.OrderPartLine) error {
	query := `
		UPDATE order_part_lines
		SET quantity = $2, unit_price = $3, subtotal = $4
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, l.ID, l.Quantity, l.UnitPrice, l.Subtotal)
	if err != nil {
		return fmt.Errorf("update part line: %w", err)
	}
	return nil
}

// DeletePart elimina la línea de repuesto (el movimiento compensatorio ya
// quedó registrado por el libro de stock en la misma tx).
func (r *OrderLineRepo) DeletePart(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM order_part_lines WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete part line: %w", err)
	}
	return nil
}

// ListPartsByOrder líneas de repuesto vigentes de una orden.
func (r *OrderLineRepo) ListPartsByOrder(orderID string) ([]*entity.OrderPartLine, error) {
	query := `
		SELECT id, order_id, part_id, quantity, unit_price, subtotal, created_at
		FROM order_part_lines WHERE order_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list part lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.OrderPartLine
	for rows.Next() {
		var l entity.OrderPartLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.PartID, &l.Quantity, &l.UnitPrice, &l.Subtotal, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan part line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
