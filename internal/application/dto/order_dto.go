package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// CreateOrderRequest apertura de una orden de servicio.
type CreateOrderRequest struct {
	ClientID        string          `json:"client_id"`
	EquipmentID     string          `json:"equipment_id"`
	Type            string          `json:"type"`     // CORRECTIVE, PREVENTIVE, INSTALLATION, CALIBRATION, WARRANTY
	Priority        string          `json:"priority"` // LOW, NORMAL, HIGH, URGENT
	ServiceLocation string          `json:"service_location"`
	TechnicianID    string          `json:"technician_id"`
	Displacement    decimal.Decimal `json:"displacement"`
}

// ChangeStatusRequest solicitud de transición de estado.
type ChangeStatusRequest struct {
	To                string     `json:"to"`
	Note              string     `json:"note"`
	ExecutionDeadline *time.Time `json:"execution_deadline"`
}

// ServiceLineRequest alta/edición de línea de servicio.
type ServiceLineRequest struct {
	Description  string          `json:"description"`
	TechnicianID string          `json:"technician_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
}

// PartLineRequest consumo de repuesto. unit_price cero = snapshot del
// precio de venta del catálogo.
type PartLineRequest struct {
	PartID    string          `json:"part_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// FinancialsRequest edición de los campos financieros manuales de cabecera.
type FinancialsRequest struct {
	LaborCost    *decimal.Decimal `json:"labor_cost"`
	Displacement *decimal.Decimal `json:"displacement"`
	Discount     *decimal.Decimal `json:"discount"`
}

// AssignTechnicianRequest asignación de técnico.
type AssignTechnicianRequest struct {
	TechnicianID string `json:"technician_id"`
}

// DiagnosisRequest registro de diagnóstico y solución.
type DiagnosisRequest struct {
	Diagnosis string `json:"diagnosis"`
	Solution  string `json:"solution"`
}

// OrderResponse cabecera de la orden con sus totales derivados.
type OrderResponse struct {
	ID              string          `json:"id"`
	Code            string          `json:"code"`
	ClientID        string          `json:"client_id"`
	EquipmentID     string          `json:"equipment_id,omitempty"`
	Status          string          `json:"status"`
	Priority        string          `json:"priority"`
	Type            string          `json:"type"`
	ServiceLocation string          `json:"service_location"`
	Diagnosis       string          `json:"diagnosis,omitempty"`
	Solution        string          `json:"solution,omitempty"`
	TechnicianID    string          `json:"technician_id,omitempty"`
	TotalServices   decimal.Decimal `json:"total_services"`
	TotalParts      decimal.Decimal `json:"total_parts"`
	LaborCost       decimal.Decimal `json:"labor_cost"`
	Displacement    decimal.Decimal `json:"displacement"`
	Discount        decimal.Decimal `json:"discount"`
	Total           decimal.Decimal `json:"total"`
	CreatedAt       time.Time       `json:"created_at"`
	StartedAt       *time.Time      `json:"started_at,omitempty"`
	FinishedAt      *time.Time      `json:"finished_at,omitempty"`
	DeliveredAt     *time.Time      `json:"delivered_to_expedition_at,omitempty"`
	Deadline        *time.Time      `json:"execution_deadline,omitempty"`
}

// ServiceLineResponse línea de servicio.
type ServiceLineResponse struct {
	ID           string          `json:"id"`
	Description  string          `json:"description"`
	TechnicianID string          `json:"technician_id,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// PartLineResponse línea de repuesto.
type PartLineResponse struct {
	ID        string          `json:"id"`
	PartID    string          `json:"part_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderDetailResponse orden con sus líneas.
type OrderDetailResponse struct {
	Order    OrderResponse         `json:"order"`
	Services []ServiceLineResponse `json:"services"`
	Parts    []PartLineResponse    `json:"parts"`
}

// StatusHistoryResponse entrada de auditoría.
type StatusHistoryResponse struct {
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	CreatedBy  string    `json:"created_by"`
}

// FromOrder mapea la entidad a la respuesta.
func FromOrder(o *entity.Order) OrderResponse {
	return OrderResponse{
		ID:              o.ID,
		Code:            o.Code,
		ClientID:        o.ClientID,
		EquipmentID:     o.EquipmentID,
		Status:          string(o.Status),
		Priority:        string(o.Priority),
		Type:            string(o.Type),
		ServiceLocation: string(o.ServiceLocation),
		Diagnosis:       o.Diagnosis,
		Solution:        o.Solution,
		TechnicianID:    o.TechnicianID,
		TotalServices:   o.TotalServices,
		TotalParts:      o.TotalParts,
		LaborCost:       o.LaborCost,
		Displacement:    o.Displacement,
		Discount:        o.Discount,
		Total:           o.Total,
		CreatedAt:       o.CreatedAt,
		StartedAt:       o.StartedAt,
		FinishedAt:      o.FinishedAt,
		DeliveredAt:     o.DeliveredToExpeditionAt,
		Deadline:        o.ExecutionDeadline,
	}
}

// FromServiceLine mapea la línea de servicio.
func FromServiceLine(l *entity.OrderServiceLine) ServiceLineResponse {
	return ServiceLineResponse{
		ID:           l.ID,
		Description:  l.Description,
		TechnicianID: l.TechnicianID,
		Quantity:     l.Quantity,
		UnitPrice:    l.UnitPrice,
		Subtotal:     l.Subtotal,
	}
}

// FromPartLine mapea la línea de repuesto.
func FromPartLine(l *entity.OrderPartLine) PartLineResponse {
	return PartLineResponse{
		ID:        l.ID,
		PartID:    l.PartID,
		Quantity:  l.Quantity,
		UnitPrice: l.UnitPrice,
		Subtotal:  l.Subtotal,
	}
}
