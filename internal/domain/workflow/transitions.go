// Package workflow decide si un cambio de estado de una orden de servicio es
// legal. Es puro: consulta la tabla de transiciones, los roles habilitados y
// las precondiciones, y nunca muta nada. Los efectos colaterales de una
// transición exitosa (timestamps, auditoría) los aplica el orquestador.
package workflow

import (
	"fmt"
	"time"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// ChangeContext datos que acompañan la solicitud de transición y que algunas
// precondiciones exigen (ej. plazo de ejecución al aprobar).
type ChangeContext struct {
	Note              string
	ExecutionDeadline *time.Time
}

// transitions tabla declarativa: estado → sucesores legales. Un estado
// terminal no aparece como clave.
var transitions = map[entity.Status][]entity.Status{
	entity.StatusOpen: {
		entity.StatusInAnalysis, entity.StatusWarrantyReturn,
		entity.StatusCanceled, entity.StatusAbandoned,
	},
	entity.StatusInAnalysis: {
		entity.StatusPricing, entity.StatusWaitingApproval,
		entity.StatusInProgress, entity.StatusCanceled,
	},
	entity.StatusPricing: {
		entity.StatusWaitingApproval, entity.StatusCanceled,
	},
	entity.StatusWaitingApproval: {
		entity.StatusApproved, entity.StatusRejected, entity.StatusNegotiating,
	},
	entity.StatusNegotiating: {
		entity.StatusApproved, entity.StatusRejected, entity.StatusWaitingApproval,
	},
	entity.StatusApproved: {
		entity.StatusInProgress, entity.StatusWaitingParts, entity.StatusCanceled,
	},
	entity.StatusRejected: {
		entity.StatusNegotiating, entity.StatusWaitingPickup,
		entity.StatusScrapped, entity.StatusAbandoned,
	},
	entity.StatusInProgress: {
		entity.StatusWaitingParts, entity.StatusPaused,
		entity.StatusTesting, entity.StatusCanceled,
	},
	entity.StatusWaitingParts: {
		entity.StatusInProgress, entity.StatusPaused, entity.StatusCanceled,
	},
	entity.StatusPaused: {
		entity.StatusInProgress, entity.StatusCanceled,
	},
	entity.StatusTesting: {
		entity.StatusRework, entity.StatusFinished,
	},
	entity.StatusRework: {
		entity.StatusInProgress, entity.StatusTesting,
	},
	entity.StatusFinished: {
		entity.StatusInvoiced, entity.StatusWaitingCollection,
	},
	entity.StatusInvoiced: {
		entity.StatusWaitingCollection, entity.StatusWaitingPickup, entity.StatusDispatched,
	},
	entity.StatusWaitingCollection: {
		entity.StatusWaitingPickup, entity.StatusDispatched, entity.StatusAbandoned,
	},
	entity.StatusWaitingPickup: {
		entity.StatusDispatched, entity.StatusAbandoned,
	},
	entity.StatusWarrantyReturn: {
		entity.StatusInAnalysis, entity.StatusInProgress,
	},
}

// transitionKey par (desde, hacia) para reglas por transición.
type transitionKey struct {
	from, to entity.Status
}

// roleGates roles habilitados por transición. Si un par no aparece, cualquier
// rol autenticado puede invocarla.
var roleGates = map[transitionKey][]entity.Role{
	// Decisión comercial sobre el presupuesto.
	{entity.StatusWaitingApproval, entity.StatusApproved}: {entity.RoleCommercial, entity.RoleAdmin},
	{entity.StatusWaitingApproval, entity.StatusRejected}: {entity.RoleCommercial, entity.RoleAdmin},
	{entity.StatusNegotiating, entity.StatusApproved}:     {entity.RoleCommercial, entity.RoleAdmin},
	{entity.StatusNegotiating, entity.StatusRejected}:     {entity.RoleCommercial, entity.RoleAdmin},
	// Trabajo técnico.
	{entity.StatusInAnalysis, entity.StatusPricing}:         {entity.RoleTechnician, entity.RoleAdmin},
	{entity.StatusInAnalysis, entity.StatusInProgress}:      {entity.RoleTechnician, entity.RoleAdmin},
	{entity.StatusInAnalysis, entity.StatusWaitingApproval}: {entity.RoleTechnician, entity.RoleAdmin},
	// Despacho.
	{entity.StatusWaitingCollection, entity.StatusDispatched}: {entity.RoleExpedition, entity.RoleAdmin},
	{entity.StatusWaitingPickup, entity.StatusDispatched}:     {entity.RoleExpedition, entity.RoleAdmin},
	{entity.StatusInvoiced, entity.StatusDispatched}:          {entity.RoleExpedition, entity.RoleAdmin},
}

// CheckTransition decide si la transición propuesta es legal para el actor.
// No muta nada. Devuelve nil (permitida) o un error que distingue:
//   - ErrIllegalTransition: el par no está en la tabla
//   - ErrRolePermissionDenied: el par existe pero el rol no está habilitado
//   - ErrPreconditionFailed: falta un dato/estado exigido por la transición
func CheckTransition(o *entity.Order, to entity.Status, role entity.Role, ctx ChangeContext) error {
	if !legal(o.Status, to) {
		return fmt.Errorf("%w: %s → %s", domain.ErrIllegalTransition, o.Status, to)
	}
	if gates, ok := roleGates[transitionKey{o.Status, to}]; ok && !roleAllowed(role, gates) {
		return fmt.Errorf("%w: rol %s no habilitado para %s → %s",
			domain.ErrRolePermissionDenied, role, o.Status, to)
	}
	return checkPreconditions(o, to, ctx)
}

// SuccessorsOf devuelve los estados alcanzables desde el actual para el rol
// dado, ignorando precondiciones (esas dependen de datos del request).
// Pensado para que la capa de presentación arme sus opciones.
func SuccessorsOf(status entity.Status, role entity.Role) []entity.Status {
	var out []entity.Status
	for _, to := range transitions[status] {
		if gates, ok := roleGates[transitionKey{status, to}]; ok && !roleAllowed(role, gates) {
			continue
		}
		out = append(out, to)
	}
	return out
}

func legal(from, to entity.Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func roleAllowed(role entity.Role, gates []entity.Role) bool {
	for _, g := range gates {
		if g == role {
			return true
		}
	}
	return false
}

// checkPreconditions valida los requisitos de datos de la transición ya
// declarada legal y habilitada para el rol.
func checkPreconditions(o *entity.Order, to entity.Status, ctx ChangeContext) error {
	switch to {
	case entity.StatusWaitingApproval:
		// Enviar a aprobación exige diagnóstico y solución diligenciados.
		if o.Diagnosis == "" || o.Solution == "" {
			return fmt.Errorf("%w: diagnóstico y solución son obligatorios antes de enviar a aprobación",
				domain.ErrPreconditionFailed)
		}
	case entity.StatusApproved:
		// Aprobar exige el plazo de ejecución en la misma solicitud
		// (salvo que la orden ya lo tenga fijado).
		if ctx.ExecutionDeadline == nil && o.ExecutionDeadline == nil {
			return fmt.Errorf("%w: la aprobación requiere un plazo de ejecución",
				domain.ErrPreconditionFailed)
		}
	case entity.StatusInProgress:
		// Saltar directo de análisis a ejecución solo aplica a garantías.
		if o.Status == entity.StatusInAnalysis && o.Type != entity.TypeWarranty {
			return fmt.Errorf("%w: solo órdenes de garantía pasan de análisis directo a ejecución",
				domain.ErrPreconditionFailed)
		}
	case entity.StatusWarrantyReturn:
		if o.Type != entity.TypeWarranty {
			return fmt.Errorf("%w: solo órdenes de garantía entran a retorno de garantía",
				domain.ErrPreconditionFailed)
		}
	}
	return nil
}
