package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/orders"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// OrderHandler maneja las peticiones HTTP para órdenes de servicio (protegido).
type OrderHandler struct {
	uc *orders.OrderUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *orders.OrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// actor arma el actor de la operación con las claims cargadas por el
// middleware de auth.
func actor(c *fiber.Ctx) orders.Actor {
	return orders.Actor{
		UserID: GetUserID(c),
		Role:   entity.Role(GetRole(c)),
	}
}

// Create godoc
// @Summary      Abrir orden de servicio
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Datos de apertura"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ClientID == "" || in.Type == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "client_id y type son requeridos"})
	}
	o, err := h.uc.CreateOrder(c.UserContext(), actor(c), orders.CreateOrderInput{
		ClientID:        in.ClientID,
		EquipmentID:     in.EquipmentID,
		Type:            entity.OrderType(in.Type),
		Priority:        entity.Priority(in.Priority),
		ServiceLocation: entity.ServiceLocation(in.ServiceLocation),
		TechnicianID:    in.TechnicianID,
		Displacement:    in.Displacement,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromOrder(o))
}

// List godoc
// @Summary      Listar órdenes
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.OrderResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	list, err := h.uc.ListOrders(c.UserContext(), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, dto.FromOrder(o))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener orden con sus líneas
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	o, services, parts, err := h.uc.GetOrder(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	out := dto.OrderDetailResponse{
		Order:    dto.FromOrder(o),
		Services: make([]dto.ServiceLineResponse, 0, len(services)),
		Parts:    make([]dto.PartLineResponse, 0, len(parts)),
	}
	for _, l := range services {
		out.Services = append(out.Services, dto.FromServiceLine(l))
	}
	for _, l := range parts {
		out.Parts = append(out.Parts, dto.FromPartLine(l))
	}
	return c.JSON(out)
}

// ChangeStatus godoc
// @Summary      Cambiar estado de la orden
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.ChangeStatusRequest  true  "Transición solicitada"
// @Success      200   {object}  dto.OrderResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/status [post]
func (h *OrderHandler) ChangeStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.ChangeStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.To == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to es requerido"})
	}
	o, err := h.uc.ChangeStatus(c.UserContext(), actor(c), id, orders.ChangeStatusInput{
		To:                entity.Status(in.To),
		Note:              in.Note,
		ExecutionDeadline: in.ExecutionDeadline,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromOrder(o))
}

// Successors godoc
// @Summary      Transiciones disponibles para el rol actual
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {array}  string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/transitions [get]
func (h *OrderHandler) Successors(c *fiber.Ctx) error {
	id := c.Params("id")
	statuses, err := h.uc.Successors(c.UserContext(), actor(c), id)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historial de estados de la orden
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {array}  dto.StatusHistoryResponse
// @Router       /api/orders/{id}/history [get]
func (h *OrderHandler) History(c *fiber.Ctx) error {
	id := c.Params("id")
	entries, err := h.uc.ListHistory(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.StatusHistoryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.StatusHistoryResponse{
			FromStatus: string(e.FromStatus),
			ToStatus:   string(e.ToStatus),
			Note:       e.Note,
			CreatedAt:  e.CreatedAt,
			CreatedBy:  e.CreatedBy,
		})
	}
	return c.JSON(out)
}

// AssignTechnician godoc
// @Summary      Asignar técnico responsable
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.AssignTechnicianRequest  true  "Técnico"
// @Success      200   {object}  dto.OrderResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/technician [put]
func (h *OrderHandler) AssignTechnician(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.AssignTechnicianRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.TechnicianID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "technician_id es requerido"})
	}
	o, err := h.uc.AssignTechnician(c.UserContext(), actor(c), id, in.TechnicianID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromOrder(o))
}

// UpdateDiagnosis godoc
// @Summary      Registrar diagnóstico y solución propuesta
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.DiagnosisRequest  true  "Diagnóstico"
// @Success      200   {object}  dto.OrderResponse
// @Router       /api/orders/{id}/diagnosis [put]
func (h *OrderHandler) UpdateDiagnosis(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.DiagnosisRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	o, err := h.uc.UpdateDiagnosis(c.UserContext(), actor(c), id, in.Diagnosis, in.Solution)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromOrder(o))
}

// UpdateFinancials godoc
// @Summary      Editar campos financieros manuales
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.FinancialsRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/financials [put]
func (h *OrderHandler) UpdateFinancials(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.FinancialsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	o, err := h.uc.UpdateFinancials(c.UserContext(), actor(c), id, orders.FinancialsInput{
		LaborCost:    in.LaborCost,
		Displacement: in.Displacement,
		Discount:     in.Discount,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromOrder(o))
}

// AddServiceLine godoc
// @Summary      Agregar línea de servicio
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.ServiceLineRequest  true  "Línea de servicio"
// @Success      201   {object}  dto.ServiceLineResponse
// @Router       /api/orders/{id}/services [post]
func (h *OrderHandler) AddServiceLine(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.ServiceLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	l, err := h.uc.AddServiceLine(c.UserContext(), actor(c), id, orders.ServiceLineInput{
		Description:  in.Description,
		TechnicianID: in.TechnicianID,
		Quantity:     in.Quantity,
		UnitPrice:    in.UnitPrice,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromServiceLine(l))
}

// UpdateServiceLine godoc
// @Summary      Editar línea de servicio
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path  string  true  "ID de la orden"
// @Param        lineId  path  string  true  "ID de la línea"
// @Param        body    body  dto.ServiceLineRequest  true  "Línea de servicio"
// @Success      200     {object}  dto.ServiceLineResponse
// @Router       /api/orders/{id}/services/{lineId} [put]
func (h *OrderHandler) UpdateServiceLine(c *fiber.Ctx) error {
	id := c.Params("id")
	lineID := c.Params("lineId")
	var in dto.ServiceLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	l, err := h.uc.UpdateServiceLine(c.UserContext(), actor(c), id, lineID, orders.ServiceLineInput{
		Description:  in.Description,
		TechnicianID: in.TechnicianID,
		Quantity:     in.Quantity,
		UnitPrice:    in.UnitPrice,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromServiceLine(l))
}

// RemoveServiceLine godoc
// @Summary      Eliminar línea de servicio
// @Tags         orders
// @Security     Bearer
// @Param        id      path  string  true  "ID de la orden"
// @Param        lineId  path  string  true  "ID de la línea"
// @Success      204
// @Router       /api/orders/{id}/services/{lineId} [delete]
func (h *OrderHandler) RemoveServiceLine(c *fiber.Ctx) error {
	if err := h.uc.RemoveServiceLine(c.UserContext(), actor(c), c.Params("id"), c.Params("lineId")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddPartLine godoc
// @Summary      Consumir repuesto en la orden
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.PartLineRequest  true  "Línea de repuesto"
// @Success      201   {object}  dto.PartLineResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/parts [post]
func (h *OrderHandler) AddPartLine(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.PartLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	l, err := h.uc.AddPartLine(c.UserContext(), actor(c), id, orders.PartLineInput{
		PartID:    in.PartID,
		Quantity:  in.Quantity,
		UnitPrice: in.UnitPrice,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromPartLine(l))
}

// UpdatePartLine godoc
// @Summary      Ajustar cantidad o precio de un repuesto consumido
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path  string  true  "ID de la orden"
// @Param        lineId  path  string  true  "ID de la línea"
// @Param        body    body  dto.PartLineRequest  true  "Nueva cantidad y precio"
// @Success      200     {object}  dto.PartLineResponse
// @Failure      409     {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/parts/{lineId} [put]
func (h *OrderHandler) UpdatePartLine(c *fiber.Ctx) error {
	id := c.Params("id")
	lineID := c.Params("lineId")
	var in dto.PartLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	l, err := h.uc.UpdatePartLine(c.UserContext(), actor(c), id, lineID, in.Quantity, in.UnitPrice)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromPartLine(l))
}

// RemovePartLine godoc
// @Summary      Devolver repuesto y eliminar la línea
// @Tags         orders
// @Security     Bearer
// @Param        id      path  string  true  "ID de la orden"
// @Param        lineId  path  string  true  "ID de la línea"
// @Success      204
// @Router       /api/orders/{id}/parts/{lineId} [delete]
func (h *OrderHandler) RemovePartLine(c *fiber.Ctx) error {
	if err := h.uc.RemovePartLine(c.UserContext(), actor(c), c.Params("id"), c.Params("lineId")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
