package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `
	id, code, client_id, equipment_id, status, priority, type, service_location,
	diagnosis, solution, technician_id,
	total_services, total_parts, labor_cost, displacement, discount, total,
	created_at, updated_at, started_at, finished_at, delivered_to_expedition_at, execution_deadline`

// Create persiste la orden recién abierta.
func (r *OrderRepo) Create(o *entity.Order) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`
	_, err := r.q.Exec(context.Background(), query,
		o.ID, o.Code, o.ClientID, nullIfEmpty(o.EquipmentID), o.Status, o.Priority, o.Type, o.ServiceLocation,
		nullIfEmpty(o.Diagnosis), nullIfEmpty(o.Solution), nullIfEmpty(o.TechnicianID),
		o.TotalServices, o.TotalParts, o.LaborCost, o.Displacement, o.Discount, o.Total,
		o.CreatedAt, o.UpdatedAt, o.StartedAt, o.FinishedAt, o.DeliveredToExpeditionAt, o.ExecutionDeadline,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("order code already exists: %w", err)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID (nil si no existe).
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtiene la orden y bloquea su fila (SELECT FOR UPDATE) para
// serializar mutaciones concurrentes sobre la misma orden.
func (r *OrderRepo) GetForUpdate(id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`
	o, err := r.scanOne(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		return nil, mapLockError(err)
	}
	return o, nil
}

// Update escribe la cabecera completa (estado, textos técnicos, sellos y
// campos manuales). Los derivados se escriben con UpdateTotals.
func (r *OrderRepo) Update(o *entity.Order) error {
	query := `
		UPDATE orders
		SET status = $2, priority = $3, diagnosis = $4, solution = $5,
		    technician_id = $6, labor_cost = $7, displacement = $8, discount = $9,
		    updated_at = $10, started_at = $11, finished_at = $12,
		    delivered_to_expedition_at = $13, execution_deadline = $14
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		o.ID, o.Status, o.Priority, nullIfEmpty(o.Diagnosis), nullIfEmpty(o.Solution),
		nullIfEmpty(o.TechnicianID), o.LaborCost, o.Displacement, o.Discount,
		o.UpdatedAt, o.StartedAt, o.FinishedAt, o.DeliveredToExpeditionAt, o.ExecutionDeadline,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update order: sin filas afectadas")
	}
	return nil
}

// UpdateTotals escribe solo los campos derivados del recálculo financiero.
func (r *OrderRepo) UpdateTotals(o *entity.Order) error {
	query := `
		UPDATE orders
		SET total_services = $2, total_parts = $3, total = $4, updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, o.ID, o.TotalServices, o.TotalParts, o.Total)
	if err != nil {
		return fmt.Errorf("update order totals: %w", err)
	}
	return nil
}

// List listado paginado, más reciente primero.
func (r *OrderRepo) List(limit, offset int) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// ListOverdue órdenes con plazo de ejecución vencido que no han terminado ni
// están en estado terminal.
func (r *OrderRepo) ListOverdue(now time.Time) ([]*entity.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE execution_deadline IS NOT NULL
		  AND execution_deadline < $1
		  AND finished_at IS NULL
		  AND status NOT IN ('DISPATCHED', 'SCRAPPED', 'ABANDONED', 'CANCELED')
		ORDER BY execution_deadline`
	rows, err := r.q.Query(context.Background(), query, now)
	if err != nil {
		return nil, fmt.Errorf("list overdue orders: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// NextSequence incrementa y devuelve el consecutivo del par (prefijo, año)
// de forma atómica. El upsert con RETURNING elimina la carrera de leer el
// último código y parsear su sufijo.
func (r *OrderRepo) NextSequence(prefix string, year int) (int, error) {
	query := `
		INSERT INTO order_sequences (prefix, year, last_number)
		VALUES ($1, $2, 1)
		ON CONFLICT (prefix, year)
		DO UPDATE SET last_number = order_sequences.last_number + 1
		RETURNING last_number`
	var n int
	if err := r.q.QueryRow(context.Background(), query, prefix, year).Scan(&n); err != nil {
		return 0, fmt.Errorf("next order sequence: %w", err)
	}
	return n, nil
}

func (r *OrderRepo) scanOne(row pgx.Row) (*entity.Order, error) {
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

func (r *OrderRepo) scanMany(rows pgx.Rows) ([]*entity.Order, error) {
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// scanOrder lee una fila de orders manejando las columnas opcionales.
func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	var equipmentID, diagnosis, solution, technicianID *string
	err := row.Scan(
		&o.ID, &o.Code, &o.ClientID, &equipmentID, &o.Status, &o.Priority, &o.Type, &o.ServiceLocation,
		&diagnosis, &solution, &technicianID,
		&o.TotalServices, &o.TotalParts, &o.LaborCost, &o.Displacement, &o.Discount, &o.Total,
		&o.CreatedAt, &o.UpdatedAt, &o.StartedAt, &o.FinishedAt, &o.DeliveredToExpeditionAt, &o.ExecutionDeadline,
	)
	if err != nil {
		return nil, err
	}
	if equipmentID != nil {
		o.EquipmentID = *equipmentID
	}
	if diagnosis != nil {
		o.Diagnosis = *diagnosis
	}
	if solution != nil {
		o.Solution = *solution
	}
	if technicianID != nil {
		o.TechnicianID = *technicianID
	}
	return &o, nil
}
