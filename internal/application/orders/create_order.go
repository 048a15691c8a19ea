package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// CreateOrderInput entrada para la apertura de una orden de servicio.
type CreateOrderInput struct {
	ClientID        string
	EquipmentID     string
	Type            entity.OrderType
	Priority        entity.Priority
	ServiceLocation entity.ServiceLocation
	TechnicianID    string // opcional
	Displacement    decimal.Decimal
}

// CreateOrder abre una orden en estado OPEN con código consecutivo por
// (prefijo, año). El consecutivo se toma de un contador atómico dentro de la
// misma transacción: dos aperturas concurrentes del mismo prefijo+año nunca
// obtienen el mismo número.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, actor Actor, in CreateOrderInput) (*entity.Order, error) {
	if in.ClientID == "" || !entity.ValidOrderType(in.Type) {
		return nil, domain.ErrInvalidInput
	}
	if in.Priority == "" {
		in.Priority = entity.PriorityNormal
	}
	if !entity.ValidPriority(in.Priority) {
		return nil, domain.ErrInvalidInput
	}
	if in.ServiceLocation == "" {
		in.ServiceLocation = entity.LocationInternal
	}
	if in.Displacement.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	o := &entity.Order{
		ID:              uuid.New().String(),
		ClientID:        in.ClientID,
		EquipmentID:     in.EquipmentID,
		Status:          entity.StatusOpen,
		Priority:        in.Priority,
		Type:            in.Type,
		ServiceLocation: in.ServiceLocation,
		TechnicianID:    in.TechnicianID,
		Displacement:    in.Displacement,
		Total:           in.Displacement,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		_ repository.OrderLineRepository,
		_ repository.PartRepository,
		_ repository.StockMovementRepository,
		historyRepo repository.StatusHistoryRepository,
	) error {
		prefix := in.Type.CodePrefix()
		seq, err := orderRepo.NextSequence(prefix, now.Year())
		if err != nil {
			return err
		}
		o.Code = fmt.Sprintf("%s-%d-%04d", prefix, now.Year(), seq)
		if err := orderRepo.Create(o); err != nil {
			return err
		}
		// Primera entrada de auditoría: apertura en OPEN.
		return historyRepo.Create(&entity.StatusHistoryEntry{
			OrderID:    o.ID,
			FromStatus: entity.StatusOpen,
			ToStatus:   entity.StatusOpen,
			Note:       "apertura de la orden",
			CreatedAt:  now,
			CreatedBy:  actor.UserID,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, EventOrderCreated, o.ID, map[string]any{"code": o.Code, "type": string(o.Type)})
	if o.TechnicianID != "" {
		uc.publish(ctx, EventOrderAssigned, o.ID, map[string]any{"technician_id": o.TechnicianID})
	}
	return o, nil
}

// AssignTechnician asigna (o reasigna) el técnico responsable.
func (uc *OrderUseCase) AssignTechnician(ctx context.Context, actor Actor, orderID, technicianID string) (*entity.Order, error) {
	if technicianID == "" {
		return nil, domain.ErrInvalidInput
	}
	var updated *entity.Order
	err := uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		_ repository.OrderLineRepository,
		_ repository.PartRepository,
		_ repository.StockMovementRepository,
		_ repository.StatusHistoryRepository,
	) error {
		o, err := lockOrder(orderRepo, orderID)
		if err != nil {
			return err
		}
		if o.Status.IsTerminal() {
			return fmt.Errorf("%w: la orden %s está en estado terminal %s",
				domain.ErrIllegalTransition, o.Code, o.Status)
		}
		o.TechnicianID = technicianID
		o.UpdatedAt = time.Now()
		if err := orderRepo.Update(o); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.publish(ctx, EventOrderAssigned, orderID, map[string]any{"technician_id": technicianID})
	return updated, nil
}

// UpdateDiagnosis registra diagnóstico y solución técnica (precondición para
// enviar a aprobación).
func (uc *OrderUseCase) UpdateDiagnosis(ctx context.Context, actor Actor, orderID, diagnosis, solution string) (*entity.Order, error) {
	var updated *entity.Order
	err := uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		_ repository.OrderLineRepository,
		_ repository.PartRepository,
		_ repository.StockMovementRepository,
		_ repository.StatusHistoryRepository,
	) error {
		o, err := lockOrder(orderRepo, orderID)
		if err != nil {
			return err
		}
		if o.Status.IsTerminal() {
			return fmt.Errorf("%w: la orden %s está en estado terminal %s",
				domain.ErrIllegalTransition, o.Code, o.Status)
		}
		o.Diagnosis = diagnosis
		o.Solution = solution
		o.UpdatedAt = time.Now()
		if err := orderRepo.Update(o); err != nil {
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
