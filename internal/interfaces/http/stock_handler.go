package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/stock"
)

// StockHandler maneja los ajustes manuales de stock y la consulta del libro
// de movimientos (protegido).
type StockHandler struct {
	uc *stock.AdjustStockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *stock.AdjustStockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// RegisterAdjustment godoc
// @Summary      Registrar ajuste manual de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockAdjustmentRequest  true  "Ajuste"
// @Success      201
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/adjustments [post]
func (h *StockHandler) RegisterAdjustment(c *fiber.Ctx) error {
	var in dto.StockAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.PartID == "" || in.Direction == "" || in.Reason == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "part_id, direction y reason son requeridos"})
	}
	err := h.uc.RegisterAdjustment(c.UserContext(), stock.AdjustmentInput{
		PartID:    in.PartID,
		Direction: in.Direction,
		Reason:    in.Reason,
		Note:      in.Note,
		Quantity:  in.Quantity,
		UserID:    GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// ListMovements godoc
// @Summary      Movimientos de stock de un repuesto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del repuesto"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {array}  dto.StockMovementResponse
// @Router       /api/parts/{id}/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
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
	list, err := h.uc.ListMovementsByPart(c.UserContext(), id, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.FromMovement(m))
	}
	return c.JSON(out)
}

// ListMovementsByOrder godoc
// @Summary      Movimientos de stock generados por una orden
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {array}  dto.StockMovementResponse
// @Router       /api/orders/{id}/movements [get]
func (h *StockHandler) ListMovementsByOrder(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	list, err := h.uc.ListMovementsByOrder(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.FromMovement(m))
	}
	return c.JSON(out)
}
