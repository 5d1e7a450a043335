package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Turismo-api/internal/domain"
	"github.com/jhoicas/Turismo-api/internal/domain/entity"
	"github.com/jhoicas/Turismo-api/internal/domain/repository"
	"github.com/jhoicas/Turismo-api/internal/infrastructure/memory"
)

func producto(id string, stock int) *entity.Producto {
	now := time.Now().UTC()
	return &entity.Producto{ID: id, Codigo: "C-" + id, Nombre: "P " + id, StockActual: stock, CreatedAt: now, UpdatedAt: now}
}

func TestTxRunner_ErrorDescartaCambios(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	repo := memory.NewProductoRepository(s)
	require.NoError(t, repo.Create(ctx, producto("p1", 5)))

	boom := errors.New("boom")
	err := memory.NewTxRunner(s).Run(ctx, func(repos repository.TxRepos) error {
		if err := repos.Productos.UpdateStock(ctx, "p1", 99); err != nil {
			return err
		}
		if err := repos.Productos.Create(ctx, producto("p2", 1)); err != nil {
			return err
		}
		p, err := repos.Productos.GetByID(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, 99, p.StockActual, "la transacción ve sus propias escrituras")
		return boom
	})
	require.ErrorIs(t, err, boom)

	p, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 5, p.StockActual)
	p2, err := repo.GetByID(ctx, "p2")
	require.NoError(t, err)
	assert.Nil(t, p2)
}

func TestTxRunner_CommitPublicaCambios(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	repo := memory.NewProductoRepository(s)
	require.NoError(t, repo.Create(ctx, producto("p1", 5)))

	err := memory.NewTxRunner(s).Run(ctx, func(repos repository.TxRepos) error {
		return repos.Productos.UpdateStock(ctx, "p1", 3)
	})
	require.NoError(t, err)

	p, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, p.StockActual)
}

func TestTxRunner_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	llamado := false
	err := memory.NewTxRunner(memory.NewStore()).Run(ctx, func(repository.TxRepos) error {
		llamado = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, llamado)
}

func TestRepos_NoEncontradoDevuelveNil(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()

	tour, err := memory.NewTourRepository(s).GetByID(ctx, "x")
	require.NoError(t, err)
	assert.Nil(t, tour)

	res, err := memory.NewReservaRepository(s).GetByID(ctx, "x")
	require.NoError(t, err)
	assert.Nil(t, res)

	err = memory.NewReservaRepository(s).CreateDetalle(ctx, &entity.DetalleReservaTour{ID: "d", ReservaID: "x", TourID: "t"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCuposReservados_IncluyeEstadoDeLaReserva(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	tours := memory.NewTourRepository(s)
	reservas := memory.NewReservaRepository(s)
	require.NoError(t, tours.Create(ctx, &entity.Tour{ID: "t1", Nombre: "Guatapé", CupoMax: 10, Estado: entity.TourDisponible}))
	for _, r := range []struct{ id, estado string }{{"r1", "PENDIENTE"}, {"r2", "rechazada"}} {
		require.NoError(t, reservas.Create(ctx, &entity.Reserva{ID: r.id, Estado: r.estado, MayoresEdad: 2}))
		require.NoError(t, reservas.CreateDetalle(ctx, &entity.DetalleReservaTour{ID: "d" + r.id, ReservaID: r.id, TourID: "t1", CuposReservados: 2}))
	}

	cupos, err := tours.CuposReservados(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, cupos, 2)
	estados := map[string]string{}
	for _, c := range cupos {
		estados[c.ReservaID] = c.EstadoReserva
	}
	assert.Equal(t, "PENDIENTE", estados["r1"])
	assert.Equal(t, "rechazada", estados["r2"])
}
