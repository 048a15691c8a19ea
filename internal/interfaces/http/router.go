package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Taller-api/internal/application/orders"
	"github.com/jhoicas/Taller-api/internal/application/parts"
	"github.com/jhoicas/Taller-api/internal/application/stock"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	OrderUC   *orders.OrderUseCase
	PartUC    *parts.PartUseCase
	AdjustUC  *stock.AdjustStockUseCase
	JWTSecret string
}

// Router registra las rutas de la API. Todas las rutas requieren Bearer
// Token; el control fino por rol de las transiciones de estado vive en la
// capa de aplicación, aquí solo se restringen el catálogo y los ajustes.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	orderHandler := NewOrderHandler(deps.OrderUC)
	partHandler := NewPartHandler(deps.PartUC)
	stockHandler := NewStockHandler(deps.AdjustUC)

	// Órdenes de servicio
	ordersGroup := api.Group("/orders")
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Post("/:id/status", orderHandler.ChangeStatus)
	ordersGroup.Get("/:id/transitions", orderHandler.Successors)
	ordersGroup.Get("/:id/history", orderHandler.History)
	ordersGroup.Put("/:id/technician", orderHandler.AssignTechnician)
	ordersGroup.Put("/:id/diagnosis", orderHandler.UpdateDiagnosis)
	ordersGroup.Put("/:id/financials", orderHandler.UpdateFinancials)
	ordersGroup.Post("/:id/services", orderHandler.AddServiceLine)
	ordersGroup.Put("/:id/services/:lineId", orderHandler.UpdateServiceLine)
	ordersGroup.Delete("/:id/services/:lineId", orderHandler.RemoveServiceLine)
	ordersGroup.Post("/:id/parts", orderHandler.AddPartLine)
	ordersGroup.Put("/:id/parts/:lineId", orderHandler.UpdatePartLine)
	ordersGroup.Delete("/:id/parts/:lineId", orderHandler.RemovePartLine)
	ordersGroup.Get("/:id/movements", stockHandler.ListMovementsByOrder)

	// Catálogo de repuestos
	partsGroup := api.Group("/parts")
	partsGroup.Get("/", partHandler.List)
	partsGroup.Get("/low-stock", partHandler.ListBelowMinStock)
	partsGroup.Get("/:id", partHandler.GetByID)
	partsGroup.Get("/:id/movements", stockHandler.ListMovements)
	partsGroup.Post("/", RequireRole("admin", "recepcion"), partHandler.Create)
	partsGroup.Put("/:id", RequireRole("admin", "recepcion"), partHandler.Update)

	// Ajustes manuales de stock (restringido)
	stockGroup := api.Group("/stock")
	stockGroup.Post("/adjustments", RequireRole("admin", "recepcion"), stockHandler.RegisterAdjustment)
}
