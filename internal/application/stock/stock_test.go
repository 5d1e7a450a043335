package stock_test

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Turismo-api/internal/application/dto"
	"github.com/jhoicas/Turismo-api/internal/application/stock"
	"github.com/jhoicas/Turismo-api/internal/domain"
	"github.com/jhoicas/Turismo-api/internal/domain/entity"
	"github.com/jhoicas/Turismo-api/internal/infrastructure/memory"
)

const operador = "7d0c2a0e-0000-4000-8000-000000000001"

func nuevosCasos(t *testing.T) (*stock.ProductoUseCase, *stock.InventarioUseCase) {
	t.Helper()
	s := memory.NewStore()
	tx := memory.NewTxRunner(s)
	productos := memory.NewProductoRepository(s)
	return stock.NewProductoUseCase(tx, productos),
		stock.NewInventarioUseCase(tx, productos, memory.NewInventarioRepository(s), zerolog.Nop())
}

func crearProducto(t *testing.T, uc *stock.ProductoUseCase, codigo string, inicial, minimo int) *dto.ProductoResponse {
	t.Helper()
	p, err := uc.Create(context.Background(), operador, dto.CreateProductoRequest{
		Codigo:       codigo,
		Nombre:       "Mochila impermeable",
		Precio:       decimal.NewFromInt(85000),
		StockInicial: inicial,
		StockMinimo:  minimo,
	})
	require.NoError(t, err)
	return p
}

func intPtr(n int) *int { return &n }

func TestCreate_StockInicialQuedaEnElLibro(t *testing.T) {
	productos, inv := nuevosCasos(t)
	p := crearProducto(t, productos, "MOCH-01", 12, 3)
	assert.Equal(t, 12, p.StockActual)

	k, err := inv.Kardex(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, k.Movimientos, 1)
	m := k.Movimientos[0]
	assert.Equal(t, entity.MovimientoEntrada, m.TipoMovimiento)
	assert.Equal(t, 12, m.Cantidad)
	assert.Equal(t, 0, m.StockAnterior)
	assert.Equal(t, 12, m.StockResultante)
	assert.Equal(t, stock.MotivoStockInicial, m.Motivo)
	assert.True(t, k.Consistente)
}

func TestCreate_SinStockInicialNoRegistraMovimiento(t *testing.T) {
	productos, inv := nuevosCasos(t)
	p := crearProducto(t, productos, "GORRA-01", 0, 0)

	k, err := inv.Kardex(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Empty(t, k.Movimientos)
	assert.Equal(t, 0, k.SumaLibro)
	assert.True(t, k.Consistente)
}

func TestCreate_CodigoDuplicado(t *testing.T) {
	productos, _ := nuevosCasos(t)
	crearProducto(t, productos, "MOCH-01", 1, 0)

	_, err := productos.Create(context.Background(), operador, dto.CreateProductoRequest{Codigo: "MOCH-01", Nombre: "Otra"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestActualizarStock_Movimientos(t *testing.T) {
	ctx := context.Background()
	productos, inv := nuevosCasos(t)
	p := crearProducto(t, productos, "LINT-01", 10, 2)

	casos := []struct {
		nombre   string
		tipo     string
		cantidad int
		final    int
	}{
		{"entrada suma", entity.MovimientoEntrada, 5, 15},
		{"salida resta", entity.MovimientoSalida, 4, 11},
		{"ajuste negativo", entity.MovimientoAjuste, -3, 8},
		{"ajuste positivo", entity.MovimientoAjuste, 2, 10},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			mov, err := inv.ActualizarStock(ctx, p.ID, operador, dto.ActualizarStockRequest{
				TipoMovimiento:  c.tipo,
				Cantidad:        c.cantidad,
				Motivo:          c.nombre,
				StockResultante: intPtr(c.final),
			})
			require.NoError(t, err)
			assert.Equal(t, c.final, mov.StockResultante)
			assert.Equal(t, operador, mov.UserID)
		})
	}

	got, err := productos.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.StockActual)
}

func TestActualizarStock_ResultanteNoCoincide(t *testing.T) {
	ctx := context.Background()
	productos, inv := nuevosCasos(t)
	p := crearProducto(t, productos, "LINT-02", 10, 0)

	_, err := inv.ActualizarStock(ctx, p.ID, operador, dto.ActualizarStockRequest{
		TipoMovimiento:  entity.MovimientoSalida,
		Cantidad:        3,
		Motivo:          "venta mostrador",
		StockResultante: intPtr(8),
	})
	require.ErrorIs(t, err, domain.ErrStockMismatch)
	var mis *domain.StockMismatchError
	require.True(t, errors.As(err, &mis))
	assert.Equal(t, 7, mis.Esperado)
	assert.Equal(t, 8, mis.Recibido)

	got, err := productos.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.StockActual, "el rechazo no toca el stock")
	k, err := inv.Kardex(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, k.Movimientos, 1)
}

func TestActualizarStock_SalidaSinStock(t *testing.T) {
	productos, inv := nuevosCasos(t)
	p := crearProducto(t, productos, "LINT-03", 2, 0)

	_, err := inv.ActualizarStock(context.Background(), p.ID, operador, dto.ActualizarStockRequest{
		TipoMovimiento:  entity.MovimientoSalida,
		Cantidad:        3,
		Motivo:          "pérdida",
		StockResultante: intPtr(-1),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestActualizarStock_EntradasInvalidas(t *testing.T) {
	productos, inv := nuevosCasos(t)
	p := crearProducto(t, productos, "LINT-04", 2, 0)
	ctx := context.Background()

	_, err := inv.ActualizarStock(ctx, p.ID, operador, dto.ActualizarStockRequest{
		TipoMovimiento: entity.MovimientoEntrada, Cantidad: 0, Motivo: "x", StockResultante: intPtr(2),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = inv.ActualizarStock(ctx, p.ID, operador, dto.ActualizarStockRequest{
		TipoMovimiento: "TRASLADO", Cantidad: 1, Motivo: "x", StockResultante: intPtr(3),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = inv.ActualizarStock(ctx, p.ID, operador, dto.ActualizarStockRequest{
		TipoMovimiento: entity.MovimientoEntrada, Cantidad: 1, Motivo: "x",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "stock_resultante es obligatorio")

	_, err = inv.ActualizarStock(ctx, "no-existe", operador, dto.ActualizarStockRequest{
		TipoMovimiento: entity.MovimientoEntrada, Cantidad: 1, Motivo: "x", StockResultante: intPtr(1),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Cualquier secuencia de movimientos aceptados deja la suma del libro igual al stock.
func TestLibro_SumaIgualAlStock(t *testing.T) {
	ctx := context.Background()
	productos, inv := nuevosCasos(t)
	p := crearProducto(t, productos, "PROP-01", 20, 5)

	rng := rand.New(rand.NewSource(7))
	tipos := []string{entity.MovimientoEntrada, entity.MovimientoSalida, entity.MovimientoAjuste}
	actual := 20
	for i := 0; i < 200; i++ {
		tipo := tipos[rng.Intn(len(tipos))]
		cantidad := rng.Intn(9) + 1
		if tipo == entity.MovimientoAjuste && rng.Intn(2) == 0 {
			cantidad = -cantidad
		}
		esperado := actual
		switch tipo {
		case entity.MovimientoEntrada:
			esperado += cantidad
		case entity.MovimientoSalida:
			esperado -= cantidad
		default:
			esperado += cantidad
		}
		_, err := inv.ActualizarStock(ctx, p.ID, operador, dto.ActualizarStockRequest{
			TipoMovimiento: tipo, Cantidad: cantidad, Motivo: "aleatorio", StockResultante: intPtr(esperado),
		})
		if esperado < 0 {
			require.ErrorIs(t, err, domain.ErrInsufficientStock)
			continue
		}
		require.NoError(t, err)
		actual = esperado
	}

	k, err := inv.Kardex(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, actual, k.Producto.StockActual)
	assert.Equal(t, actual, k.SumaLibro)
	assert.True(t, k.Consistente)
	for i := 1; i < len(k.Movimientos); i++ {
		assert.Equal(t, k.Movimientos[i-1].StockResultante, k.Movimientos[i].StockAnterior)
	}
}

func TestListBajoStock_SugiereReposicion(t *testing.T) {
	ctx := context.Background()
	productos, _ := nuevosCasos(t)
	crearProducto(t, productos, "BAJO-01", 2, 10)
	crearProducto(t, productos, "OK-01", 50, 10)

	out, err := productos.ListBajoStock(ctx)
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "BAJO-01", out.Items[0].Codigo)
	assert.True(t, out.Items[0].BajoStock)
	assert.Equal(t, 13, out.Items[0].ReposicionSugerida)
}

func TestUpdate_NoTocaStock(t *testing.T) {
	ctx := context.Background()
	productos, _ := nuevosCasos(t)
	p := crearProducto(t, productos, "UPD-01", 4, 1)

	nombre := "Mochila 30L"
	out, err := productos.Update(ctx, p.ID, dto.UpdateProductoRequest{Nombre: &nombre})
	require.NoError(t, err)
	assert.Equal(t, nombre, out.Nombre)
	assert.Equal(t, 4, out.StockActual)

	negativo := decimal.NewFromInt(-1)
	_, err = productos.Update(ctx, p.ID, dto.UpdateProductoRequest{Precio: &negativo})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestKardex_DetectaStockFueraDelLibro(t *testing.T) {
	s := memory.NewStore()
	tx := memory.NewTxRunner(s)
	productos := memory.NewProductoRepository(s)
	var logs bytes.Buffer
	inv := stock.NewInventarioUseCase(tx, productos, memory.NewInventarioRepository(s), zerolog.New(&logs))
	p := crearProducto(t, stock.NewProductoUseCase(tx, productos), "CANT-01", 6, 1)

	// escritura directa sobre stock_actual, sin movimiento en el libro
	require.NoError(t, productos.UpdateStock(context.Background(), p.ID, 9))

	k, err := inv.Kardex(context.Background(), p.ID)
	require.NoError(t, err)
	assert.False(t, k.Consistente)
	assert.Equal(t, 6, k.SumaLibro)
	assert.Equal(t, 9, k.Producto.StockActual)
	assert.Contains(t, logs.String(), "kardex descuadrado")

	_, err = inv.Kardex(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
