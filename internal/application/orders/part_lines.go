package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/application/stock"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// PartLineInput entrada para consumir un repuesto en una orden. UnitPrice
// opcional: cero toma el precio de venta vigente del catálogo como snapshot.
type PartLineInput struct {
	PartID    string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// AddPartLine consume stock y crea la línea de repuesto en una sola
// transacción: primero el libro de stock (puede fallar con
// ErrInsufficientStock sin haber escrito nada), luego la línea, luego el
// recálculo. Si algo falla, nada queda a medias.
func (uc *OrderUseCase) AddPartLine(ctx context.Context, actor Actor, orderID string, in PartLineInput) (*entity.OrderPartLine, error) {
	if in.PartID == "" || !in.Quantity.GreaterThan(decimal.Zero) || in.UnitPrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	var line *entity.OrderPartLine
	err := uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		lineRepo repository.OrderLineRepository,
		partRepo repository.PartRepository,
		movRepo repository.StockMovementRepository,
		_ repository.StatusHistoryRepository,
	) error {
		o, err := lockOrder(orderRepo, orderID)
		if err != nil {
			return err
		}
		part, err := stock.ConsumeInTx(partRepo, movRepo, in.PartID, in.Quantity, o.ID, actor.UserID, now)
		if err != nil {
			return err
		}
		unitPrice := in.UnitPrice
		if unitPrice.IsZero() {
			unitPrice = part.SalePrice // snapshot, no precio vivo
		}
		line = &entity.OrderPartLine{
			ID:        uuid.New().String(),
			OrderID:   o.ID,
			PartID:    part.ID,
			Quantity:  in.Quantity,
			UnitPrice: unitPrice,
			Subtotal:  in.Quantity.Mul(unitPrice),
			CreatedAt: now,
		}
		if err := lineRepo.CreatePart(line); err != nil {
			return err
		}
		return recalcInTx(orderRepo, lineRepo, o)
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

// UpdatePartLine reajusta cantidad y/o precio de una línea de repuesto. El
// stock se mueve solo por el delta de cantidad (Reprice); si el delta
// adicional no tiene stock, la línea queda intacta.
func (uc *OrderUseCase) UpdatePartLine(ctx context.Context, actor Actor, orderID, lineID string, newQuantity, newUnitPrice decimal.Decimal) (*entity.OrderPartLine, error) {
	if !newQuantity.GreaterThan(decimal.Zero) || newUnitPrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	var updated *entity.OrderPartLine
	err := uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		lineRepo repository.OrderLineRepository,
		partRepo repository.PartRepository,
		movRepo repository.StockMovementRepository,
		_ repository.StatusHistoryRepository,
	) error {
		o, err := lockOrder(orderRepo, orderID)
		if err != nil {
			return err
		}
		line, err := lineRepo.GetPartLineByID(lineID)
		if err != nil {
			return err
		}
		if line == nil || line.OrderID != o.ID {
			return domain.ErrNotFound
		}
		if err := stock.RepriceInTx(partRepo, movRepo, line, newQuantity, actor.UserID, now); err != nil {
			return err
		}
		if newUnitPrice.IsZero() {
			newUnitPrice = line.UnitPrice // conservar snapshot original
		}
		line.Quantity = newQuantity
		line.UnitPrice = newUnitPrice
		line.Subtotal = newQuantity.Mul(newUnitPrice)
		if err := lineRepo.UpdatePart(line); err != nil {
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

// RemovePartLine devuelve el stock de la línea (movimiento IN compensatorio),
// borra la línea y recalcula, todo en la misma transacción.
func (uc *OrderUseCase) RemovePartLine(ctx context.Context, actor Actor, orderID, lineID string) error {
	now := time.Now()
	return uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		lineRepo repository.OrderLineRepository,
		partRepo repository.PartRepository,
		movRepo repository.StockMovementRepository,
		_ repository.StatusHistoryRepository,
	) error {
		o, err := lockOrder(orderRepo, orderID)
		if err != nil {
			return err
		}
		line, err := lineRepo.GetPartLineByID(lineID)
		if err != nil {
			return err
		}
		if line == nil || line.OrderID != o.ID {
			return domain.ErrNotFound
		}
		if err := stock.ReleaseInTx(partRepo, movRepo, line, actor.UserID, now); err != nil {
			return err
		}
		if err := lineRepo.DeletePart(lineID); err != nil {
			return err
		}
		return recalcInTx(orderRepo, lineRepo, o)
	})
}
