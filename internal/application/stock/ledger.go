package stock

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// Primitivas del libro de stock. Operan SIEMPRE con repositorios atados a la
// transacción del caller (patrón *InTx): el contador del repuesto y su
// movimiento se escriben juntos o no se escribe ninguno. Toda primitiva
// bloquea la fila del repuesto (SELECT FOR UPDATE) antes de leer cantidades.

// ConsumeInTx descuenta stock para una orden: bloquea la fila, verifica
// stock suficiente, resta y registra el movimiento OUT con razón
// ORDER_CONSUMPTION. Devuelve el repuesto bloqueado para que el caller tome
// el snapshot de precio de venta. Falla con ErrInsufficientStock antes de
// cualquier escritura.
func ConsumeInTx(
	partRepo repository.PartRepository,
	movRepo repository.StockMovementRepository,
	partID string,
	quantity decimal.Decimal,
	orderID, userID string,
	now time.Time,
) (*entity.Part, error) {
	if !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	part, err := partRepo.GetForUpdate(partID)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, domain.ErrNotFound
	}
	if part.StockQuantity.LessThan(quantity) {
		return nil, fmt.Errorf("%w: %s disponibles de %s",
			domain.ErrInsufficientStock, part.StockQuantity, part.SKU)
	}
	part.StockQuantity = part.StockQuantity.Sub(quantity)
	if err := partRepo.UpdateStock(part.ID, part.StockQuantity); err != nil {
		return nil, err
	}
	mov := &entity.StockMovement{
		PartID:    part.ID,
		OrderID:   orderID,
		Direction: entity.DirectionOut,
		Quantity:  quantity,
		Reason:    entity.ReasonOrderConsumption,
		CreatedAt: now,
		CreatedBy: userID,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return part, nil
}

// ReleaseInTx devuelve al stock la cantidad completa de una línea de repuesto
// que se elimina: bloquea la fila, suma y registra el movimiento IN
// compensatorio con razón RETURN. El borrado de la línea queda a cargo del
// caller dentro de la misma transacción.
func ReleaseInTx(
	partRepo repository.PartRepository,
	movRepo repository.StockMovementRepository,
	line *entity.OrderPartLine,
	userID string,
	now time.Time,
) error {
	part, err := partRepo.GetForUpdate(line.PartID)
	if err != nil {
		return err
	}
	if part == nil {
		return domain.ErrNotFound
	}
	part.StockQuantity = part.StockQuantity.Add(line.Quantity)
	if err := partRepo.UpdateStock(part.ID, part.StockQuantity); err != nil {
		return err
	}
	mov := &entity.StockMovement{
		PartID:    part.ID,
		OrderID:   line.OrderID,
		Direction: entity.DirectionIn,
		Quantity:  line.Quantity,
		Reason:    entity.ReasonReturn,
		CreatedAt: now,
		CreatedBy: userID,
	}
	return movRepo.Create(mov)
}

// RepriceInTx ajusta el stock por el delta entre la cantidad nueva y la
// actual de una línea. Delta positivo = más consumo (revalida stock solo por
// el delta, movimiento OUT); delta negativo = devolución parcial (movimiento
// IN con razón RETURN). El movimiento registra SOLO el delta para mantener el
// libro aditivo y auditable. Delta cero no escribe nada.
func RepriceInTx(
	partRepo repository.PartRepository,
	movRepo repository.StockMovementRepository,
	line *entity.OrderPartLine,
	newQuantity decimal.Decimal,
	userID string,
	now time.Time,
) error {
	if !newQuantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	delta := newQuantity.Sub(line.Quantity)
	if delta.IsZero() {
		return nil
	}
	part, err := partRepo.GetForUpdate(line.PartID)
	if err != nil {
		return err
	}
	if part == nil {
		return domain.ErrNotFound
	}
	mov := &entity.StockMovement{
		PartID:    part.ID,
		OrderID:   line.OrderID,
		CreatedAt: now,
		CreatedBy: userID,
	}
	if delta.GreaterThan(decimal.Zero) {
		if part.StockQuantity.LessThan(delta) {
			return fmt.Errorf("%w: %s disponibles de %s, se requieren %s adicionales",
				domain.ErrInsufficientStock, part.StockQuantity, part.SKU, delta)
		}
		part.StockQuantity = part.StockQuantity.Sub(delta)
		mov.Direction = entity.DirectionOut
		mov.Quantity = delta
		mov.Reason = entity.ReasonOrderConsumption
	} else {
		part.StockQuantity = part.StockQuantity.Add(delta.Neg())
		mov.Direction = entity.DirectionIn
		mov.Quantity = delta.Neg()
		mov.Reason = entity.ReasonReturn
	}
	if err := partRepo.UpdateStock(part.ID, part.StockQuantity); err != nil {
		return err
	}
	return movRepo.Create(mov)
}
