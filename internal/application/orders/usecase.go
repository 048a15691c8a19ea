package orders

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// OrderUseCase orquesta las mutaciones de órdenes de servicio: cada intención
// (línea de servicio, línea de repuesto, cambio de estado, financieros de
// cabecera) es una transacción atómica que termina SIEMPRE en el recálculo
// financiero. Ningún caller queda a cargo de recordar recalcular.
type OrderUseCase struct {
	txRunner    TxRunner
	orderRepo   repository.OrderRepository
	lineRepo    repository.OrderLineRepository
	historyRepo repository.StatusHistoryRepository
	notifier    Notifier
}

// NewOrderUseCase construye el orquestador. Los repos atados al pool se usan
// solo para lecturas; toda mutación pasa por txRunner.
func NewOrderUseCase(
	txRunner TxRunner,
	orderRepo repository.OrderRepository,
	lineRepo repository.OrderLineRepository,
	historyRepo repository.StatusHistoryRepository,
	notifier Notifier,
) *OrderUseCase {
	return &OrderUseCase{
		txRunner:    txRunner,
		orderRepo:   orderRepo,
		lineRepo:    lineRepo,
		historyRepo: historyRepo,
		notifier:    notifier,
	}
}

// Actor identidad ya resuelta por el caller (el núcleo nunca resuelve
// identidad por sí mismo).
type Actor struct {
	UserID string
	Role   entity.Role
}

// recalcInTx motor de recálculo financiero: suma los subtotales vigentes de
// servicios y repuestos y deriva el total con los campos manuales de la
// cabecera. Idempotente; se invoca tras CADA mutación con la fila de la
// orden ya bloqueada.
//
//	Total = TotalServices + TotalParts + LaborCost + Displacement - Discount
func recalcInTx(
	orderRepo repository.OrderRepository,
	lineRepo repository.OrderLineRepository,
	o *entity.Order,
) error {
	services, err := lineRepo.ListServicesByOrder(o.ID)
	if err != nil {
		return err
	}
	parts, err := lineRepo.ListPartsByOrder(o.ID)
	if err != nil {
		return err
	}
	totalServices := decimal.Zero
	for _, l := range services {
		totalServices = totalServices.Add(l.Subtotal)
	}
	totalParts := decimal.Zero
	for _, l := range parts {
		totalParts = totalParts.Add(l.Subtotal)
	}
	o.TotalServices = totalServices
	o.TotalParts = totalParts
	o.Total = o.TotalServices.Add(o.TotalParts).Add(o.LaborCost).Add(o.Displacement).Sub(o.Discount)
	return orderRepo.UpdateTotals(o)
}

// lockOrder obtiene la orden con su fila bloqueada o ErrNotFound.
func lockOrder(orderRepo repository.OrderRepository, orderID string) (*entity.Order, error) {
	o, err := orderRepo.GetForUpdate(orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

// publish emite el evento tras un commit exitoso. No bloquea ni propaga
// fallos: la implementación del Notifier es responsable de absorberlos.
func (uc *OrderUseCase) publish(ctx context.Context, eventType, orderID string, payload map[string]any) {
	if uc.notifier == nil {
		return
	}
	uc.notifier.Publish(ctx, eventType, orderID, payload)
}

// GetOrder lectura de una orden con sus líneas.
func (uc *OrderUseCase) GetOrder(ctx context.Context, orderID string) (*entity.Order, []*entity.OrderServiceLine, []*entity.OrderPartLine, error) {
	o, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, nil, nil, err
	}
	if o == nil {
		return nil, nil, nil, domain.ErrNotFound
	}
	services, err := uc.lineRepo.ListServicesByOrder(orderID)
	if err != nil {
		return nil, nil, nil, err
	}
	parts, err := uc.lineRepo.ListPartsByOrder(orderID)
	if err != nil {
		return nil, nil, nil, err
	}
	return o, services, parts, nil
}

// ListOrders listado paginado.
func (uc *OrderUseCase) ListOrders(ctx context.Context, limit, offset int) ([]*entity.Order, error) {
	return uc.orderRepo.List(limit, offset)
}

// ListHistory auditoría de cambios de estado de una orden.
func (uc *OrderUseCase) ListHistory(ctx context.Context, orderID string) ([]*entity.StatusHistoryEntry, error) {
	o, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return uc.historyRepo.ListByOrder(orderID)
}
