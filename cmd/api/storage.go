package main

import (
	"context"

	"github.com/jhoicas/Turismo-api/internal/domain/repository"
	"github.com/jhoicas/Turismo-api/internal/infrastructure/memory"
	"github.com/jhoicas/Turismo-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Turismo-api/pkg/config"
)

// storage agrupa los repositorios del driver elegido.
type storage struct {
	tx         repository.TxRunner
	tours      repository.TourRepository
	reservas   repository.ReservaRepository
	productos  repository.ProductoRepository
	inventario repository.InventarioRepository
	ventas     repository.VentaRepository
	pagos      repository.PagoRepository
	clientes   repository.ClienteRepository
	users      repository.UserRepository
	close      func()
}

func openStorage(ctx context.Context, cfg config.DBConfig) (*storage, error) {
	if cfg.Driver == "memory" {
		s := memory.NewStore()
		return &storage{
			tx:         memory.NewTxRunner(s),
			tours:      memory.NewTourRepository(s),
			reservas:   memory.NewReservaRepository(s),
			productos:  memory.NewProductoRepository(s),
			inventario: memory.NewInventarioRepository(s),
			ventas:     memory.NewVentaRepository(s),
			pagos:      memory.NewPagoRepository(s),
			clientes:   memory.NewClienteRepository(s),
			users:      memory.NewUserRepository(s),
			close:      func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &storage{
		tx:         postgres.NewTxRunner(pool),
		tours:      postgres.NewTourRepository(pool),
		reservas:   postgres.NewReservaRepository(pool),
		productos:  postgres.NewProductoRepository(pool),
		inventario: postgres.NewInventarioRepository(pool),
		ventas:     postgres.NewVentaRepository(pool),
		pagos:      postgres.NewPagoRepository(pool),
		clientes:   postgres.NewClienteRepository(pool),
		users:      postgres.NewUserRepository(pool),
		close:      pool.Close,
	}, nil
}
