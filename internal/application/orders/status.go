package orders

import (
	"context"
	"time"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/jhoicas/Taller-api/internal/domain/workflow"
)

// ChangeStatusInput solicitud de transición de estado.
type ChangeStatusInput struct {
	To                entity.Status
	Note              string
	ExecutionDeadline *time.Time // exigido al aprobar si la orden no lo tiene
}

// ChangeStatus aplica una transición: consulta la autoridad de transiciones
// con la fila de la orden bloqueada; si permite, escribe el nuevo estado,
// aplica los sellos de tiempo idempotentes, registra EXACTAMENTE una entrada
// de auditoría y recalcula. Una denegación no escribe nada.
func (uc *OrderUseCase) ChangeStatus(ctx context.Context, actor Actor, orderID string, in ChangeStatusInput) (*entity.Order, error) {
	now := time.Now()
	var updated *entity.Order
	var from entity.Status
	err := uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		lineRepo repository.OrderLineRepository,
		_ repository.PartRepository,
		_ repository.StockMovementRepository,
		historyRepo repository.StatusHistoryRepository,
	) error {
		o, err := lockOrder(orderRepo, orderID)
		if err != nil {
			return err
		}
		chg := workflow.ChangeContext{Note: in.Note, ExecutionDeadline: in.ExecutionDeadline}
		if err := workflow.CheckTransition(o, in.To, actor.Role, chg); err != nil {
			return err
		}
		from = o.Status
		o.Status = in.To
		stampTimestamps(o, in, now)
		o.UpdatedAt = now
		if err := orderRepo.Update(o); err != nil {
			return err
		}
		if err := historyRepo.Create(&entity.StatusHistoryEntry{
			OrderID:    o.ID,
			FromStatus: from,
			ToStatus:   in.To,
			Note:       in.Note,
			CreatedAt:  now,
			CreatedBy:  actor.UserID,
		}); err != nil {
			return err
		}
		// Recalcular siempre es seguro e idempotente; mantiene el gancho
		// obligatorio uniforme en todas las intenciones.
		if err := recalcInTx(orderRepo, lineRepo, o); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, EventStatusChanged, orderID, map[string]any{
		"from": string(from),
		"to":   string(in.To),
	})
	return updated, nil
}

// stampTimestamps sellos de tiempo de la transición, solo si aún no estaban
// fijados (idempotentes ante repeticiones).
func stampTimestamps(o *entity.Order, in ChangeStatusInput, now time.Time) {
	switch o.Status {
	case entity.StatusInProgress:
		if o.StartedAt == nil {
			t := now
			o.StartedAt = &t
		}
	case entity.StatusFinished:
		if o.FinishedAt == nil {
			t := now
			o.FinishedAt = &t
		}
	case entity.StatusApproved:
		if o.ExecutionDeadline == nil && in.ExecutionDeadline != nil {
			o.ExecutionDeadline = in.ExecutionDeadline
		}
	case entity.StatusWaitingCollection, entity.StatusWaitingPickup:
		if o.DeliveredToExpeditionAt == nil {
			t := now
			o.DeliveredToExpeditionAt = &t
		}
	}
}

// Successors transiciones legales desde el estado actual para el rol del
// actor (consulta pura, para la capa de presentación).
func (uc *OrderUseCase) Successors(ctx context.Context, actor Actor, orderID string) ([]entity.Status, error) {
	o, _, _, err := uc.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return workflow.SuccessorsOf(o.Status, actor.Role), nil
}
