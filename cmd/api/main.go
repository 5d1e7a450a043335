package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/Turismo-api/internal/application/auth"
	"github.com/jhoicas/Turismo-api/internal/application/pagos"
	"github.com/jhoicas/Turismo-api/internal/application/ports"
	"github.com/jhoicas/Turismo-api/internal/application/reservas"
	"github.com/jhoicas/Turismo-api/internal/application/stock"
	"github.com/jhoicas/Turismo-api/internal/application/usecase"
	"github.com/jhoicas/Turismo-api/internal/application/ventas"
	"github.com/jhoicas/Turismo-api/internal/infrastructure/broker"
	"github.com/jhoicas/Turismo-api/internal/infrastructure/cache"
	"github.com/jhoicas/Turismo-api/internal/infrastructure/mail"
	"github.com/jhoicas/Turismo-api/internal/infrastructure/wompi"
	httpRouter "github.com/jhoicas/Turismo-api/internal/interfaces/http"
	"github.com/jhoicas/Turismo-api/pkg/config"
	"github.com/jhoicas/Turismo-api/pkg/logger"
	"github.com/jhoicas/Turismo-api/pkg/tracing"
)

//go:generate go tool swag init -g main.go -d ./,../../internal/interfaces/http,../../internal/application/dto -o ../../docs --outputTypes json

// @title                       Turismo API
// @version                     1.0
// @description                 Tours, reservas, inventario, ventas y pagos Wompi de la agencia.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	zl := log.Zerolog()
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	if cfg.Tracing.JaegerEndpoint != "" {
		tp, err := tracing.Init(cfg.App.Name, cfg.Tracing.JaegerEndpoint)
		if err != nil {
			log.Fatal().Err(err).Msg("inicializar tracing")
		}
		defer func() { _ = tp.Shutdown(context.Background()) }()
	}

	store, err := openStorage(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a almacenamiento")
	}
	defer store.close()

	var idem ports.IdempotencyStore = cache.NewMemoryIdempotency()
	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		idem = cache.NewRedisIdempotency(rdb)
	}

	var publisher ports.EventPublisher = broker.NewLogPublisher(zl)
	if len(cfg.Kafka.Brokers) > 0 {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, zl)
		defer producer.Close()
		publisher = producer
	}

	var notificador ports.Notificador = mail.NewLogNotificador(zl)
	if cfg.SMTP.Host != "" {
		notificador = mail.NewSMTPNotificador(cfg.SMTP)
	}

	authUC := auth.NewAuthUseCase(store.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	userUC := usecase.NewUserUseCase(store.users)
	clienteUC := usecase.NewClienteUseCase(store.clientes)
	tourUC := reservas.NewTourUseCase(store.tx, store.tours)
	reservaUC := reservas.NewReservaUseCase(store.tx, store.reservas, store.clientes, store.users, notificador, publisher, zl)
	productoUC := stock.NewProductoUseCase(store.tx, store.productos)
	inventarioUC := stock.NewInventarioUseCase(store.tx, store.productos, store.inventario, zl)
	ventaUC := ventas.NewVentaUseCase(store.tx, store.ventas, store.pagos, store.clientes, publisher, zl)
	pagoUC := pagos.NewPagoUseCase(
		store.tx, store.pagos, store.ventas, store.reservas,
		wompi.NewClient(cfg.Wompi), idem, reservaUC, publisher, zl,
	)

	created, err := authUC.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password)
	if err != nil {
		log.Fatal().Err(err).Msg("crear administrador inicial")
	}
	if created {
		log.Info().Str("email", cfg.Admin.Email).Msg("administrador inicial creado")
	}

	app := fiber.New(httpRouter.AppConfig(cfg.App.Name))
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.AccessLog(zl))
	app.Use(httpRouter.Metrics())

	// Swagger UI en local: http://localhost:<port>/docs
	if !httpRouter.Docs(app, httpRouter.DocsConfig{FilePath: cfg.HTTP.SwaggerFile, Title: "Turismo API"}) {
		log.Warn().Str("archivo", cfg.HTTP.SwaggerFile).Msg("swagger.json no encontrado; ejecutar go generate ./cmd/api")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		UserUC:       userUC,
		ClienteUC:    clienteUC,
		TourUC:       tourUC,
		ReservaUC:    reservaUC,
		ProductoUC:   productoUC,
		InventarioUC: inventarioUC,
		VentaUC:      ventaUC,
		PagoUC:       pagoUC,
		JWTSecret:    cfg.JWT.Secret,
		ServiceName:  cfg.App.Name,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
