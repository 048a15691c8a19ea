package workflow_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/workflow"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func orderIn(status entity.Status) *entity.Order {
	return &entity.Order{
		ID:     "ord-1",
		Code:   "COR-2026-0001",
		Status: status,
		Type:   entity.TypeCorrective,
	}
}

func deadline() *time.Time {
	d := time.Now().Add(72 * time.Hour)
	return &d
}

// ──────────────────────────────────────────────────────────────────────────────
// Tabla de transiciones
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckTransition_TransicionesLegales(t *testing.T) {
	cases := []struct {
		name string
		from entity.Status
		to   entity.Status
		role entity.Role
	}{
		{"apertura a análisis", entity.StatusOpen, entity.StatusInAnalysis, entity.RoleReception},
		{"análisis a cotización", entity.StatusInAnalysis, entity.StatusPricing, entity.RoleTechnician},
		{"cotización a aprobación", entity.StatusPricing, entity.StatusWaitingApproval, entity.RoleCommercial},
		{"aprobación a negociación", entity.StatusWaitingApproval, entity.StatusNegotiating, entity.RoleCommercial},
		{"negociación vuelve a aprobación", entity.StatusNegotiating, entity.StatusWaitingApproval, entity.RoleCommercial},
		{"aprobado a ejecución", entity.StatusApproved, entity.StatusInProgress, entity.RoleTechnician},
		{"ejecución a espera de repuestos", entity.StatusInProgress, entity.StatusWaitingParts, entity.RoleTechnician},
		{"espera de repuestos retoma ejecución", entity.StatusWaitingParts, entity.StatusInProgress, entity.RoleTechnician},
		{"ejecución pausada", entity.StatusInProgress, entity.StatusPaused, entity.RoleTechnician},
		{"pausa retoma ejecución", entity.StatusPaused, entity.StatusInProgress, entity.RoleTechnician},
		{"ejecución a pruebas", entity.StatusInProgress, entity.StatusTesting, entity.RoleTechnician},
		{"pruebas a reproceso", entity.StatusTesting, entity.StatusRework, entity.RoleTechnician},
		{"reproceso vuelve a pruebas", entity.StatusRework, entity.StatusTesting, entity.RoleTechnician},
		{"pruebas a terminado", entity.StatusTesting, entity.StatusFinished, entity.RoleTechnician},
		{"terminado a facturado", entity.StatusFinished, entity.StatusInvoiced, entity.RoleCommercial},
		{"facturado a espera de recaudo", entity.StatusInvoiced, entity.StatusWaitingCollection, entity.RoleCommercial},
		{"recaudo a espera de retiro", entity.StatusWaitingCollection, entity.StatusWaitingPickup, entity.RoleReception},
		{"retiro a despachado", entity.StatusWaitingPickup, entity.StatusDispatched, entity.RoleExpedition},
		{"rechazado a chatarrización", entity.StatusRejected, entity.StatusScrapped, entity.RoleReception},
		{"rechazado a negociación", entity.StatusRejected, entity.StatusNegotiating, entity.RoleCommercial},
		{"retiro a abandono", entity.StatusWaitingPickup, entity.StatusAbandoned, entity.RoleReception},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := orderIn(tc.from)
			o.Diagnosis = "falla en tarjeta"
			o.Solution = "reemplazo de tarjeta"
			err := workflow.CheckTransition(o, tc.to, tc.role, workflow.ChangeContext{})
			assert.NoError(t, err, "la transición %s → %s debe ser legal para %s", tc.from, tc.to, tc.role)
		})
	}
}

func TestCheckTransition_TransicionesIlegales(t *testing.T) {
	cases := []struct {
		name string
		from entity.Status
		to   entity.Status
	}{
		{"apertura no salta a ejecución", entity.StatusOpen, entity.StatusInProgress},
		{"apertura no salta a terminado", entity.StatusOpen, entity.StatusFinished},
		{"análisis no salta a facturado", entity.StatusInAnalysis, entity.StatusInvoiced},
		{"pruebas no retrocede a cotización", entity.StatusTesting, entity.StatusPricing},
		{"terminado no vuelve a ejecución", entity.StatusFinished, entity.StatusInProgress},
		{"rechazado no pasa a aprobado", entity.StatusRejected, entity.StatusApproved},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := workflow.CheckTransition(orderIn(tc.from), tc.to, entity.RoleAdmin, workflow.ChangeContext{})
			assert.ErrorIs(t, err, domain.ErrIllegalTransition)
		})
	}
}

// Los estados terminales no tienen sucesores: ninguna transición sale de ellos.
func TestCheckTransition_EstadosTerminalesSinSalida(t *testing.T) {
	terminals := []entity.Status{
		entity.StatusDispatched, entity.StatusScrapped,
		entity.StatusAbandoned, entity.StatusCanceled,
	}
	destinations := []entity.Status{
		entity.StatusOpen, entity.StatusInAnalysis, entity.StatusInProgress,
		entity.StatusFinished, entity.StatusCanceled,
	}
	for _, from := range terminals {
		require.True(t, from.IsTerminal(), "%s debe ser terminal", from)
		for _, to := range destinations {
			err := workflow.CheckTransition(orderIn(from), to, entity.RoleAdmin, workflow.ChangeContext{})
			assert.ErrorIs(t, err, domain.ErrIllegalTransition,
				"no debe existir salida %s → %s", from, to)
		}
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Compuertas por rol
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckTransition_RolSinHabilitacion(t *testing.T) {
	cases := []struct {
		name string
		from entity.Status
		to   entity.Status
		role entity.Role
	}{
		{"técnico no aprueba presupuestos", entity.StatusWaitingApproval, entity.StatusApproved, entity.RoleTechnician},
		{"recepción no rechaza presupuestos", entity.StatusWaitingApproval, entity.StatusRejected, entity.RoleReception},
		{"expedición no decide negociaciones", entity.StatusNegotiating, entity.StatusApproved, entity.RoleExpedition},
		{"comercial no envía a cotización", entity.StatusInAnalysis, entity.StatusPricing, entity.RoleCommercial},
		{"recepción no despacha", entity.StatusWaitingPickup, entity.StatusDispatched, entity.RoleReception},
		{"técnico no despacha desde facturado", entity.StatusInvoiced, entity.StatusDispatched, entity.RoleTechnician},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := orderIn(tc.from)
			o.Diagnosis = "falla en tarjeta"
			o.Solution = "reemplazo de tarjeta"
			err := workflow.CheckTransition(o, tc.to, tc.role, workflow.ChangeContext{ExecutionDeadline: deadline()})
			assert.ErrorIs(t, err, domain.ErrRolePermissionDenied)
		})
	}
}

// Admin está habilitado en todas las compuertas.
func TestCheckTransition_AdminPasaTodasLasCompuertas(t *testing.T) {
	o := orderIn(entity.StatusWaitingApproval)
	err := workflow.CheckTransition(o, entity.StatusApproved, entity.RoleAdmin,
		workflow.ChangeContext{ExecutionDeadline: deadline()})
	assert.NoError(t, err)

	err = workflow.CheckTransition(orderIn(entity.StatusWaitingPickup), entity.StatusDispatched,
		entity.RoleAdmin, workflow.ChangeContext{})
	assert.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Precondiciones
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckTransition_AprobacionExigeDiagnosticoYSolucion(t *testing.T) {
	o := orderIn(entity.StatusPricing)
	err := workflow.CheckTransition(o, entity.StatusWaitingApproval, entity.RoleAdmin, workflow.ChangeContext{})
	assert.ErrorIs(t, err, domain.ErrPreconditionFailed,
		"sin diagnóstico ni solución no se envía a aprobación")

	o.Diagnosis = "rodamiento desgastado"
	err = workflow.CheckTransition(o, entity.StatusWaitingApproval, entity.RoleAdmin, workflow.ChangeContext{})
	assert.ErrorIs(t, err, domain.ErrPreconditionFailed, "falta la solución")

	o.Solution = "cambio de rodamiento y balanceo"
	err = workflow.CheckTransition(o, entity.StatusWaitingApproval, entity.RoleAdmin, workflow.ChangeContext{})
	assert.NoError(t, err)
}

func TestCheckTransition_AprobarExigePlazoDeEjecucion(t *testing.T) {
	o := orderIn(entity.StatusWaitingApproval)
	err := workflow.CheckTransition(o, entity.StatusApproved, entity.RoleCommercial, workflow.ChangeContext{})
	assert.ErrorIs(t, err, domain.ErrPreconditionFailed)

	// Con plazo en la solicitud pasa.
	err = workflow.CheckTransition(o, entity.StatusApproved, entity.RoleCommercial,
		workflow.ChangeContext{ExecutionDeadline: deadline()})
	assert.NoError(t, err)

	// Con plazo ya fijado en la orden también pasa.
	o.ExecutionDeadline = deadline()
	err = workflow.CheckTransition(o, entity.StatusApproved, entity.RoleCommercial, workflow.ChangeContext{})
	assert.NoError(t, err)
}

func TestCheckTransition_AnalisisDirectoAEjecucionSoloGarantia(t *testing.T) {
	corrective := orderIn(entity.StatusInAnalysis)
	err := workflow.CheckTransition(corrective, entity.StatusInProgress, entity.RoleTechnician, workflow.ChangeContext{})
	assert.ErrorIs(t, err, domain.ErrPreconditionFailed,
		"una orden correctiva no salta de análisis a ejecución")

	warranty := orderIn(entity.StatusInAnalysis)
	warranty.Type = entity.TypeWarranty
	err = workflow.CheckTransition(warranty, entity.StatusInProgress, entity.RoleTechnician, workflow.ChangeContext{})
	assert.NoError(t, err)
}

func TestCheckTransition_RetornoDeGarantiaSoloParaGarantias(t *testing.T) {
	corrective := orderIn(entity.StatusOpen)
	err := workflow.CheckTransition(corrective, entity.StatusWarrantyReturn, entity.RoleReception, workflow.ChangeContext{})
	assert.ErrorIs(t, err, domain.ErrPreconditionFailed)

	warranty := orderIn(entity.StatusOpen)
	warranty.Type = entity.TypeWarranty
	err = workflow.CheckTransition(warranty, entity.StatusWarrantyReturn, entity.RoleReception, workflow.ChangeContext{})
	assert.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Sucesores por rol
// ──────────────────────────────────────────────────────────────────────────────

func TestSuccessorsOf_FiltraPorRol(t *testing.T) {
	// Para recepción, las decisiones comerciales no aparecen como opción.
	got := workflow.SuccessorsOf(entity.StatusWaitingApproval, entity.RoleReception)
	assert.ElementsMatch(t, []entity.Status{entity.StatusNegotiating}, got)

	// Comercial ve el abanico completo.
	got = workflow.SuccessorsOf(entity.StatusWaitingApproval, entity.RoleCommercial)
	assert.ElementsMatch(t, []entity.Status{
		entity.StatusApproved, entity.StatusRejected, entity.StatusNegotiating,
	}, got)
}

func TestSuccessorsOf_TerminalDevuelveVacio(t *testing.T) {
	assert.Empty(t, workflow.SuccessorsOf(entity.StatusDispatched, entity.RoleAdmin))
	assert.Empty(t, workflow.SuccessorsOf(entity.StatusCanceled, entity.RoleAdmin))
}
