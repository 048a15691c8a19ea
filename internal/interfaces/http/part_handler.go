package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/parts"
)

// PartHandler maneja las peticiones HTTP del catálogo de repuestos (protegido).
type PartHandler struct {
	uc *parts.PartUseCase
}

// NewPartHandler construye el handler.
func NewPartHandler(uc *parts.PartUseCase) *PartHandler {
	return &PartHandler{uc: uc}
}

// Create godoc
// @Summary      Crear repuesto
// @Tags         parts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePartRequest  true  "Datos del repuesto"
// @Success      201   {object}  dto.PartResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/parts [post]
func (h *PartHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePartRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.SKU == "" || in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "sku y name son requeridos"})
	}
	p, err := h.uc.Create(c.UserContext(), parts.CreatePartInput{
		SKU:       in.SKU,
		Name:      in.Name,
		MinStock:  in.MinStock,
		CostPrice: in.CostPrice,
		SalePrice: in.SalePrice,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromPart(p))
}

// GetByID godoc
// @Summary      Obtener repuesto por ID
// @Tags         parts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del repuesto"
// @Success      200  {object}  dto.PartResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/parts/{id} [get]
func (h *PartHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	p, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromPart(p))
}

// List godoc
// @Summary      Listar repuestos
// @Tags         parts
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.PartResponse
// @Router       /api/parts [get]
func (h *PartHandler) List(c *fiber.Ctx) error {
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
	list, err := h.uc.List(c.UserContext(), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.PartResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.FromPart(p))
	}
	return c.JSON(out)
}

// ListBelowMinStock godoc
// @Summary      Repuestos bajo el punto de reposición
// @Tags         parts
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PartResponse
// @Router       /api/parts/low-stock [get]
func (h *PartHandler) ListBelowMinStock(c *fiber.Ctx) error {
	list, err := h.uc.ListBelowMinStock(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.PartResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.FromPart(p))
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar repuesto (precios y punto de reposición)
// @Tags         parts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del repuesto"
// @Param        body  body  dto.UpdatePartRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.PartResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/parts/{id} [put]
func (h *PartHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.UpdatePartRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	p, err := h.uc.Update(c.UserContext(), id, parts.UpdatePricesInput{
		Name:      in.Name,
		MinStock:  in.MinStock,
		CostPrice: in.CostPrice,
		SalePrice: in.SalePrice,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromPart(p))
}
