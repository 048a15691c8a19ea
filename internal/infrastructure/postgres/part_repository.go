package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var _ repository.PartRepository = (*PartRepo)(nil)

// PartRepo implementación de PartRepository sobre PostgreSQL (usable con pool o tx).
type PartRepo struct {
	q Querier
}

// NewPartRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPartRepository(q Querier) *PartRepo {
	return &PartRepo{q: q}
}

const partColumns = `id, sku, name, stock_quantity, min_stock, cost_price, sale_price, created_at, updated_at`

// Create da de alta el repuesto.
func (r *PartRepo) Create(p *entity.Part) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	query := `
		INSERT INTO parts (` + partColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.SKU, p.Name, p.StockQuantity, p.MinStock, p.CostPrice, p.SalePrice, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: sku %s", domain.ErrDuplicate, p.SKU)
		}
		return fmt.Errorf("insert part: %w", err)
	}
	return nil
}

// GetByID obtiene un repuesto (nil si no existe).
func (r *PartRepo) GetByID(id string) (*entity.Part, error) {
	query := `SELECT ` + partColumns + ` FROM parts WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtiene el repuesto y bloquea su fila (SELECT FOR UPDATE).
// Es la exclusión mutua del recurso más disputado del sistema.
func (r *PartRepo) GetForUpdate(id string) (*entity.Part, error) {
	query := `SELECT ` + partColumns + ` FROM parts WHERE id = $1 FOR UPDATE`
	p, err := r.scanOne(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		return nil, mapLockError(err)
	}
	return p, nil
}

// Update escribe nombre, precios y mínimo. El stock NO: ese campo solo lo
// escribe UpdateStock con la fila bloqueada y junto a su movimiento.
func (r *PartRepo) Update(p *entity.Part) error {
	query := `
		UPDATE parts
		SET name = $2, min_stock = $3, cost_price = $4, sale_price = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, p.ID, p.Name, p.MinStock, p.CostPrice, p.SalePrice, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update part: %w", err)
	}
	return nil
}

// UpdateStock escribe solo el contador de stock.
func (r *PartRepo) UpdateStock(id string, quantity decimal.Decimal) error {
	query := `UPDATE parts SET stock_quantity = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, quantity)
	if err != nil {
		return fmt.Errorf("update part stock: %w", err)
	}
	return nil
}

// List listado paginado del catálogo por SKU.
func (r *PartRepo) List(limit, offset int) ([]*entity.Part, error) {
	query := `SELECT ` + partColumns + ` FROM parts ORDER BY sku LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list parts: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// ListBelowMinStock repuestos en o bajo su punto de reposición.
func (r *PartRepo) ListBelowMinStock() ([]*entity.Part, error) {
	query := `SELECT ` + partColumns + ` FROM parts WHERE stock_quantity <= min_stock ORDER BY sku`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list parts below min stock: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

func (r *PartRepo) scanOne(row pgx.Row) (*entity.Part, error) {
	var p entity.Part
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.StockQuantity, &p.MinStock, &p.CostPrice, &p.SalePrice, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get part: %w", err)
	}
	return &p, nil
}

func (r *PartRepo) scanMany(rows pgx.Rows) ([]*entity.Part, error) {
	var list []*entity.Part
	for rows.Next() {
		var p entity.Part
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.StockQuantity, &p.MinStock, &p.CostPrice, &p.SalePrice, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan part: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
