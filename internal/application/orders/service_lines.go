package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// ServiceLineInput entrada para crear o editar una línea de servicio.
type ServiceLineInput struct {
	Description  string
	TechnicianID string // opcional
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
}

func (in ServiceLineInput) validate() error {
	if in.Description == "" {
		return domain.ErrInvalidInput
	}
	if !in.Quantity.GreaterThan(decimal.Zero) || in.UnitPrice.LessThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	return nil
}

// AddServiceLine crea una línea de servicio y recalcula los totales en la
// misma transacción. No toca inventario.
func (uc *OrderUseCase) AddServiceLine(ctx context.Context, actor Actor, orderID string, in ServiceLineInput) (*entity.OrderServiceLine, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	line := &entity.OrderServiceLine{
		ID:           uuid.New().String(),
		OrderID:      orderID,
		Description:  in.Description,
		TechnicianID: in.TechnicianID,
		Quantity:     in.Quantity,
		UnitPrice:    in.UnitPrice,
		Subtotal:     in.Quantity.Mul(in.UnitPrice),
		CreatedAt:    time.Now(),
	}
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
		if err := lineRepo.CreateService(line); err != nil {
			return err
		}
		return recalcInTx(orderRepo, lineRepo, o)
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

// UpdateServiceLine edita cantidad, precio, descripción o técnico de una
// línea de servicio y recalcula.
func (uc *OrderUseCase) UpdateServiceLine(ctx context.Context, actor Actor, orderID, lineID string, in ServiceLineInput) (*entity.OrderServiceLine, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var updated *entity.OrderServiceLine
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
		line, err := lineRepo.GetServiceByID(lineID)
		if err != nil {
			return err
		}
		if line == nil || line.OrderID != o.ID {
			return domain.ErrNotFound
		}
		line.Description = in.Description
		line.TechnicianID = in.TechnicianID
		line.Quantity = in.Quantity
		line.UnitPrice = in.UnitPrice
		line.Subtotal = in.Quantity.Mul(in.UnitPrice)
		if err := lineRepo.UpdateService(line); err != nil {
			return err
		}
		updated = line
		return recalcInTx(orderRepo, lineRepo, o)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// RemoveServiceLine elimina la línea y recalcula.
func (uc *OrderUseCase) RemoveServiceLine(ctx context.Context, actor Actor, orderID, lineID string) error {
	return uc.txRunner.RunOrder(ctx, func(
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
		line, err := lineRepo.GetServiceByID(lineID)
		if err != nil {
			return err
		}
		if line == nil || line.OrderID != o.ID {
			return domain.ErrNotFound
		}
		if err := lineRepo.DeleteService(lineID); err != nil {
			return err
		}
		return recalcInTx(orderRepo, lineRepo, o)
	})
}
