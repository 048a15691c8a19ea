package http

import (
	"os"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
)

// RegisterSwagger monta la UI de Swagger en /docs si el documento existe.
// El middleware de contrib entra en pánico con el archivo ausente, así que en
// despliegues sin docs/ simplemente no se monta. Devuelve si quedó montada.
func RegisterSwagger(app *fiber.App, filePath, title string) bool {
	if _, err := os.Stat(filePath); err != nil {
		return false
	}
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: filePath,
		Path:     "docs",
		Title:    title,
	}))
	return true
}
