package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status estado de una orden de servicio dentro del ciclo de vida del taller.
type Status string

// Estados del ciclo de vida. Los terminales no tienen sucesores
// (DISPATCHED, SCRAPPED, ABANDONED, CANCELED).
const (
	StatusOpen              Status = "OPEN"
	StatusInAnalysis        Status = "IN_ANALYSIS"
	StatusPricing           Status = "PRICING"
	StatusWaitingApproval   Status = "WAITING_APPROVAL"
	StatusNegotiating       Status = "NEGOTIATING"
	StatusApproved          Status = "APPROVED"
	StatusRejected          Status = "REJECTED"
	StatusInProgress        Status = "IN_PROGRESS"
	StatusWaitingParts      Status = "WAITING_PARTS"
	StatusPaused            Status = "PAUSED"
	StatusTesting           Status = "TESTING"
	StatusRework            Status = "REWORK"
	StatusFinished          Status = "FINISHED"
	StatusInvoiced          Status = "INVOICED"
	StatusWaitingCollection Status = "WAITING_COLLECTION"
	StatusWaitingPickup     Status = "WAITING_PICKUP"
	StatusDispatched        Status = "DISPATCHED"
	StatusWarrantyReturn    Status = "WARRANTY_RETURN"
	StatusScrapped          Status = "SCRAPPED"
	StatusAbandoned         Status = "ABANDONED"
	StatusCanceled          Status = "CANCELED"
)

// Role rol del actor que solicita una operación. Se resuelve fuera del
// núcleo (JWT en la capa HTTP) y se pasa explícito a cada chequeo.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleTechnician Role = "tecnico"
	RoleCommercial Role = "comercial"
	RoleReception  Role = "recepcion"
	RoleExpedition Role = "expedicion"
)

// OrderType tipo de servicio de la orden.
type OrderType string

const (
	TypeCorrective   OrderType = "CORRECTIVE"
	TypePreventive   OrderType = "PREVENTIVE"
	TypeInstallation OrderType = "INSTALLATION"
	TypeCalibration  OrderType = "CALIBRATION"
	TypeWarranty     OrderType = "WARRANTY"
)

// Priority prioridad de atención.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityNormal Priority = "NORMAL"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// ServiceLocation dónde se ejecuta el servicio.
type ServiceLocation string

const (
	LocationInternal ServiceLocation = "INTERNAL"
	LocationExternal ServiceLocation = "EXTERNAL"
)

// Order orden de servicio. Los campos monetarios derivados
// (TotalServices, TotalParts, Total) solo los escribe el recálculo
// financiero; LaborCost, Displacement y Discount son entrada manual.
// Invariante tras cada commit:
//
//	Total = TotalServices + TotalParts + LaborCost + Displacement - Discount
type Order struct {
	ID              string
	Code            string // legible, secuencia por prefijo+año (ej. COR-2026-0042)
	ClientID        string
	EquipmentID     string
	Status          Status
	Priority        Priority
	Type            OrderType
	ServiceLocation ServiceLocation
	Diagnosis       string
	Solution        string
	TechnicianID    string // opcional

	TotalServices decimal.Decimal
	TotalParts    decimal.Decimal
	LaborCost     decimal.Decimal
	Displacement  decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal

	CreatedAt               time.Time
	UpdatedAt               time.Time
	StartedAt               *time.Time // primera entrada a IN_PROGRESS
	FinishedAt              *time.Time // primera entrada a FINISHED
	DeliveredToExpeditionAt *time.Time // primera entrada a WAITING_COLLECTION/WAITING_PICKUP
	ExecutionDeadline       *time.Time // fijado al aprobar
}

// IsTerminal indica si el estado no admite sucesores.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusDispatched, StatusScrapped, StatusAbandoned, StatusCanceled:
		return true
	}
	return false
}

// ValidOrderType valida el tipo recibido desde la API.
func ValidOrderType(t OrderType) bool {
	switch t {
	case TypeCorrective, TypePreventive, TypeInstallation, TypeCalibration, TypeWarranty:
		return true
	}
	return false
}

// ValidPriority valida la prioridad recibida desde la API.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// CodePrefix prefijo del consecutivo según el tipo de orden.
func (t OrderType) CodePrefix() string {
	switch t {
	case TypePreventive:
		return "PRE"
	case TypeInstallation:
		return "INS"
	case TypeCalibration:
		return "CAL"
	case TypeWarranty:
		return "GAR"
	default:
		return "COR"
	}
}
