package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// AdjustStockUseCase registra correcciones manuales de stock no ligadas a
// órdenes (compras, conteos, bajas) de forma transaccional con bloqueo de
// fila y Commit/Rollback.
type AdjustStockUseCase struct {
	txRunner TxRunner
	movRepo  repository.StockMovementRepository
}

// NewAdjustStockUseCase construye el caso de uso. movRepo atado al pool se
// usa solo para lecturas (listados).
func NewAdjustStockUseCase(txRunner TxRunner, movRepo repository.StockMovementRepository) *AdjustStockUseCase {
	return &AdjustStockUseCase{txRunner: txRunner, movRepo: movRepo}
}

// AdjustmentInput entrada para un ajuste manual.
type AdjustmentInput struct {
	PartID    string
	Direction string // IN / OUT
	Reason    string // PURCHASE, ADJUSTMENT, RETURN, LOSS
	Note      string
	Quantity  decimal.Decimal
	UserID    string
}

// RegisterAdjustment aplica el ajuste: bloquea la fila del repuesto, valida
// el invariante de no-negatividad para salidas y escribe contador y
// movimiento en la misma transacción.
func (uc *AdjustStockUseCase) RegisterAdjustment(ctx context.Context, in AdjustmentInput) error {
	if in.PartID == "" || !in.Quantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	if in.Direction != entity.DirectionIn && in.Direction != entity.DirectionOut {
		return domain.ErrInvalidInput
	}
	if !entity.ValidReason(in.Reason) || in.Reason == entity.ReasonOrderConsumption {
		// El consumo por orden solo lo genera el orquestador de órdenes.
		return domain.ErrInvalidInput
	}
	now := time.Now()

	return uc.txRunner.Run(ctx, func(
		partRepo repository.PartRepository,
		movRepo repository.StockMovementRepository,
	) error {
		part, err := partRepo.GetForUpdate(in.PartID)
		if err != nil {
			return err
		}
		if part == nil {
			return domain.ErrNotFound
		}
		if in.Direction == entity.DirectionOut {
			if part.StockQuantity.LessThan(in.Quantity) {
				return fmt.Errorf("%w: %s disponibles de %s",
					domain.ErrInsufficientStock, part.StockQuantity, part.SKU)
			}
			part.StockQuantity = part.StockQuantity.Sub(in.Quantity)
		} else {
			part.StockQuantity = part.StockQuantity.Add(in.Quantity)
		}
		if err := partRepo.UpdateStock(part.ID, part.StockQuantity); err != nil {
			return err
		}
		mov := &entity.StockMovement{
			PartID:    part.ID,
			Direction: in.Direction,
			Quantity:  in.Quantity,
			Reason:    in.Reason,
			Note:      in.Note,
			CreatedAt: now,
			CreatedBy: in.UserID,
		}
		return movRepo.Create(mov)
	})
}

// ListMovementsByPart historial de movimientos de un repuesto, más reciente primero.
func (uc *AdjustStockUseCase) ListMovementsByPart(ctx context.Context, partID string, limit, offset int) ([]*entity.StockMovement, error) {
	if partID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.movRepo.ListByPart(partID, limit, offset)
}

// ListMovementsByOrder movimientos que una orden generó sobre el libro
// (consumos, deltas y devoluciones), en orden cronológico.
func (uc *AdjustStockUseCase) ListMovementsByOrder(ctx context.Context, orderID string) ([]*entity.StockMovement, error) {
	if orderID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.movRepo.ListByOrder(orderID)
}
