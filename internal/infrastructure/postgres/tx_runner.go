package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Taller-api/internal/application/orders"
	"github.com/jhoicas/Taller-api/internal/application/stock"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// Ensure TxRunner implements stock.TxRunner y orders.TxRunner.
var _ stock.TxRunner = (*TxRunner)(nil)
var _ orders.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción para mutaciones de stock (ajustes manuales):
// repuesto y movimiento atados a la misma tx, Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	partRepo repository.PartRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	partRepo := NewPartRepository(tx)
	movRepo := NewStockMovementRepository(tx)

	if err := fn(partRepo, movRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunOrder inicia una transacción con los cinco repositorios de una mutación
// de orden (estado + stock + totales + auditoría juntos o nada).
func (r *TxRunner) RunOrder(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
	lineRepo repository.OrderLineRepository,
	partRepo repository.PartRepository,
	movRepo repository.StockMovementRepository,
	historyRepo repository.StatusHistoryRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	orderRepo := NewOrderRepository(tx)
	lineRepo := NewOrderLineRepository(tx)
	partRepo := NewPartRepository(tx)
	movRepo := NewStockMovementRepository(tx)
	historyRepo := NewStatusHistoryRepository(tx)

	if err := fn(orderRepo, lineRepo, partRepo, movRepo, historyRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
