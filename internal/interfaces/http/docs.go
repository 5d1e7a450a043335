package http

import (
	"os"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
)

// DocsConfig ubicación del swagger.json generado con swag.
type DocsConfig struct {
	FilePath string
	Title    string
}

// Docs sirve Swagger UI en /docs si el archivo generado existe. Devuelve false si no existe.
func Docs(app *fiber.App, cfg DocsConfig) bool {
	if _, err := os.Stat(cfg.FilePath); err != nil {
		return false
	}
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: cfg.FilePath,
		Path:     "docs",
		Title:    cfg.Title,
	}))
	return true
}
