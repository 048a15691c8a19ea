package orders

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// FinancialsInput campos financieros manuales de la cabecera. Nil = no tocar.
type FinancialsInput struct {
	LaborCost    *decimal.Decimal
	Displacement *decimal.Decimal
	Discount     *decimal.Decimal
}

// UpdateFinancials escribe los campos manuales y recalcula el total derivado
// en la misma transacción.
func (uc *OrderUseCase) UpdateFinancials(ctx context.Context, actor Actor, orderID string, in FinancialsInput) (*entity.Order, error) {
	if in.LaborCost == nil && in.Displacement == nil && in.Discount == nil {
		return nil, domain.ErrInvalidInput
	}
	for _, v := range []*decimal.Decimal{in.LaborCost, in.Displacement, in.Discount} {
		if v != nil && v.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}
	var updated *entity.Order
	err := uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		lineRepo repository.OrderLineRepository,
		_ repository.PartRepository,
		_ repository.StockMovementRepository,
		_ repository.StatusHistoryRepository,
	) error {
		o, err := lockOrder(orderRepo, orderID)
		if err != nil {
			return err
		}
		if in.LaborCost != nil {
			o.LaborCost = *in.LaborCost
		}
		if in.Displacement != nil {
			o.Displacement = *in.Displacement
		}
		if in.Discount != nil {
			o.Discount = *in.Discount
		}
		o.UpdatedAt = time.Now()
		if err := orderRepo.Update(o); err != nil {
			return err
		}
		if err := recalcInTx(orderRepo, lineRepo, o); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
