package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Turismo-api/internal/application/auth"
	"github.com/jhoicas/Turismo-api/internal/application/pagos"
	"github.com/jhoicas/Turismo-api/internal/application/reservas"
	"github.com/jhoicas/Turismo-api/internal/application/stock"
	"github.com/jhoicas/Turismo-api/internal/application/usecase"
	"github.com/jhoicas/Turismo-api/internal/application/ventas"
	"github.com/jhoicas/Turismo-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	UserUC       *usecase.UserUseCase
	ClienteUC    *usecase.ClienteUseCase
	TourUC       *reservas.TourUseCase
	ReservaUC    *reservas.ReservaUseCase
	ProductoUC   *stock.ProductoUseCase
	InventarioUC *stock.InventarioUseCase
	VentaUC      *ventas.VentaUseCase
	PagoUC       *pagos.PagoUseCase
	JWTSecret    string
	ServiceName  string
}

// AppConfig configuración del servidor Fiber. Immutable copia params, headers y método
// fuera del buffer de la petición: los repositorios en memoria guardan esos strings como llaves.
func AppConfig(appName string) fiber.Config {
	return fiber.Config{
		AppName:      appName,
		Immutable:    true,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	}
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// Públicas
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	api.Post("/auth/login", authHandler.Login)
	pagoHandler := NewPagoHandler(deps.PagoUC)
	api.Post("/pagos/wompi/webhook", pagoHandler.Webhook)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	soloAdmin := RequireRole(entity.RoleAdmin)
	cualquiera := RequireRole(entity.RoleAdmin, entity.RoleEmpleado)

	protected.Post("/auth/register", soloAdmin, authHandler.Register)
	protected.Get("/auth/me", cualquiera, authHandler.Me)

	clientes := protected.Group("/clientes", cualquiera)
	clienteHandler := NewClienteHandler(deps.ClienteUC)
	clientes.Post("/", clienteHandler.Create)
	clientes.Get("/", clienteHandler.List)
	clientes.Get("/:id", clienteHandler.GetByID)

	tours := protected.Group("/tours", cualquiera)
	tourHandler := NewTourHandler(deps.TourUC)
	tours.Get("/", tourHandler.List)
	tours.Get("/:id", tourHandler.GetByID)
	tours.Post("/", soloAdmin, tourHandler.Create)
	tours.Put("/:id", soloAdmin, tourHandler.Update)
	tours.Patch("/:id/estado", soloAdmin, tourHandler.CambiarEstado)

	reservasGroup := protected.Group("/reservas", cualquiera)
	reservaHandler := NewReservaHandler(deps.ReservaUC)
	reservasGroup.Post("/", reservaHandler.Create)
	reservasGroup.Get("/", reservaHandler.List)
	reservasGroup.Get("/:id", reservaHandler.GetByID)
	reservasGroup.Patch("/:id/confirmar", reservaHandler.Confirmar)
	reservasGroup.Patch("/:id/rechazar", reservaHandler.Rechazar)
	reservasGroup.Patch("/:id/reprogramar", reservaHandler.Reprogramar)
	reservasGroup.Patch("/:id/finalizar", reservaHandler.Finalizar)
	reservasGroup.Patch("/:id/empleado", soloAdmin, reservaHandler.AsignarEmpleado)

	productos := protected.Group("/productos", cualquiera)
	productoHandler := NewProductoHandler(deps.ProductoUC, deps.InventarioUC)
	productos.Get("/", productoHandler.List)
	productos.Get("/bajo-stock", productoHandler.BajoStock)
	productos.Get("/:id", productoHandler.GetByID)
	productos.Get("/:id/kardex", productoHandler.Kardex)
	productos.Post("/", soloAdmin, productoHandler.Create)
	productos.Put("/:id", soloAdmin, productoHandler.Update)
	productos.Post("/:id/stock", soloAdmin, productoHandler.ActualizarStock)

	ventasGroup := protected.Group("/ventas", cualquiera)
	ventaHandler := NewVentaHandler(deps.VentaUC)
	ventasGroup.Post("/", ventaHandler.Create)
	ventasGroup.Get("/", ventaHandler.List)
	ventasGroup.Get("/:id", ventaHandler.GetByID)
	ventasGroup.Patch("/:id/anular", ventaHandler.Anular)

	protected.Post("/pagos", cualquiera, pagoHandler.Iniciar)
}
