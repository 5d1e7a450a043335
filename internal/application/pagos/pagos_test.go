package pagos_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Turismo-api/internal/application/dto"
	"github.com/jhoicas/Turismo-api/internal/application/pagos"
	"github.com/jhoicas/Turismo-api/internal/application/ports"
	"github.com/jhoicas/Turismo-api/internal/application/reservas"
	"github.com/jhoicas/Turismo-api/internal/domain"
	"github.com/jhoicas/Turismo-api/internal/domain/entity"
	"github.com/jhoicas/Turismo-api/internal/domain/venta"
	"github.com/jhoicas/Turismo-api/internal/infrastructure/cache"
	"github.com/jhoicas/Turismo-api/internal/infrastructure/memory"
)

// pasarelaFake acepta como evento el JSON de pagos.EventoTransaccion; "firma-invalida" falla la verificación.
type pasarelaFake struct{}

func (pasarelaFake) PublicKey() string { return "pub_test_fake" }
func (pasarelaFake) Moneda() string    { return "COP" }

func (pasarelaFake) FirmaIntegridad(referencia string, monto int64, moneda string) string {
	return "firma:" + referencia
}

func (pasarelaFake) VerificarEvento(body []byte) (*pagos.EventoTransaccion, error) {
	if string(body) == "firma-invalida" {
		return nil, domain.ErrInvalidSignature
	}
	var evt pagos.EventoTransaccion
	if err := json.Unmarshal(body, &evt); err != nil {
		return nil, domain.ErrInvalidInput
	}
	return &evt, nil
}

type publisherFake struct {
	mu    sync.Mutex
	tipos []string
}

func (p *publisherFake) Publish(_ context.Context, evt ports.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tipos = append(p.tipos, evt.Tipo)
	return nil
}

type notificadorNop struct{}

func (notificadorNop) NotificarReserva(context.Context, ports.NotificacionReserva) error { return nil }

type entorno struct {
	store *memory.Store
	uc    *pagos.PagoUseCase
	pub   *publisherFake
}

func nuevoEntorno(t *testing.T) *entorno {
	t.Helper()
	s := memory.NewStore()
	tx := memory.NewTxRunner(s)
	pub := &publisherFake{}
	reservaUC := reservas.NewReservaUseCase(tx, memory.NewReservaRepository(s), memory.NewClienteRepository(s),
		memory.NewUserRepository(s), notificadorNop{}, pub, zerolog.Nop())
	return &entorno{
		store: s,
		uc: pagos.NewPagoUseCase(tx, memory.NewPagoRepository(s), memory.NewVentaRepository(s),
			memory.NewReservaRepository(s), pasarelaFake{}, cache.NewMemoryIdempotency(), reservaUC, pub, zerolog.Nop()),
		pub: pub,
	}
}

func (e *entorno) venta(t *testing.T, total int64) string {
	t.Helper()
	now := time.Now().UTC()
	v := &entity.Venta{ID: uuid.NewString(), UserID: uuid.NewString(), Fecha: now, Total: decimal.NewFromInt(total),
		Estado: entity.VentaPendiente, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, memory.NewVentaRepository(e.store).Create(context.Background(), v))
	return v.ID
}

func (e *entorno) reserva(t *testing.T, estado string, total int64) string {
	t.Helper()
	now := time.Now().UTC()
	r := &entity.Reserva{ID: uuid.NewString(), Fecha: now.Add(72 * time.Hour), Estado: estado, MayoresEdad: 1,
		Total: decimal.NewFromInt(total), ClienteID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	require.NoError(t, memory.NewReservaRepository(e.store).Create(context.Background(), r))
	return r.ID
}

func (e *entorno) estadoVenta(t *testing.T, id string) string {
	t.Helper()
	v, err := memory.NewVentaRepository(e.store).GetByID(context.Background(), id)
	require.NoError(t, err)
	return v.Estado
}

func (e *entorno) pago(t *testing.T, referencia string) *entity.Pago {
	t.Helper()
	p, err := memory.NewPagoRepository(e.store).GetByReferencia(context.Background(), referencia)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

func eventoJSON(t *testing.T, txID, referencia, status string, centavos int64) []byte {
	t.Helper()
	b, err := json.Marshal(pagos.EventoTransaccion{
		Evento:          "transaction.updated",
		TransaccionID:   txID,
		Referencia:      referencia,
		Estado:          status,
		Metodo:          "NEQUI",
		Moneda:          "COP",
		MontoEnCentavos: centavos,
	})
	require.NoError(t, err)
	return b
}

func TestIniciarPago_Venta(t *testing.T) {
	e := nuevoEntorno(t)
	ventaID := e.venta(t, 44900)

	out, err := e.uc.IniciarPago(context.Background(), dto.IniciarPagoRequest{VentaID: ventaID})
	require.NoError(t, err)
	assert.Equal(t, int64(4490000), out.MontoEnCentavos)
	assert.Equal(t, "COP", out.Moneda)
	assert.Equal(t, "pub_test_fake", out.PublicKey)
	assert.Equal(t, "firma:"+out.Referencia, out.FirmaIntegridad)

	p := e.pago(t, out.Referencia)
	assert.Equal(t, entity.PagoPendiente, p.Estado)
	require.NotNil(t, p.VentaID)
	assert.Equal(t, ventaID, *p.VentaID)
	assert.Nil(t, p.ReservaID)
}

func TestIniciarPago_Validaciones(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()

	_, err := e.uc.IniciarPago(ctx, dto.IniciarPagoRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin ids")

	_, err = e.uc.IniciarPago(ctx, dto.IniciarPagoRequest{VentaID: "a", ReservaID: "b"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "los dos ids")

	_, err = e.uc.IniciarPago(ctx, dto.IniciarPagoRequest{VentaID: uuid.NewString()})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	rechazada := e.reserva(t, entity.ReservaRechazada, 1000)
	_, err = e.uc.IniciarPago(ctx, dto.IniciarPagoRequest{ReservaID: rechazada})
	assert.ErrorIs(t, err, domain.ErrConflict)

	gratis := e.venta(t, 0)
	_, err = e.uc.IniciarPago(ctx, dto.IniciarPagoRequest{VentaID: gratis})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestWebhook_FirmaInvalida(t *testing.T) {
	e := nuevoEntorno(t)
	_, err := e.uc.ProcesarEventoWompi(context.Background(), []byte("firma-invalida"))
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestWebhook_AprobadoMarcaVentaPagada(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	ventaID := e.venta(t, 44900)
	ini, err := e.uc.IniciarPago(ctx, dto.IniciarPagoRequest{VentaID: ventaID})
	require.NoError(t, err)

	res, err := e.uc.ProcesarEventoWompi(ctx, eventoJSON(t, "tx-1", ini.Referencia, "APPROVED", 4490000))
	require.NoError(t, err)
	assert.True(t, res.Procesado)

	p := e.pago(t, ini.Referencia)
	assert.Equal(t, entity.PagoAprobado, p.Estado)
	assert.Equal(t, "tx-1", p.TransaccionID)
	assert.Equal(t, "NEQUI", p.Metodo)
	assert.Equal(t, entity.VentaPagada, e.estadoVenta(t, ventaID))
	assert.Contains(t, e.pub.tipos, ports.EventoVentaPagada)
	assert.Contains(t, e.pub.tipos, ports.EventoPagoActualizado)
}

func TestWebhook_EventoDuplicadoEsIdempotente(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	ventaID := e.venta(t, 1000)
	ini, err := e.uc.IniciarPago(ctx, dto.IniciarPagoRequest{VentaID: ventaID})
	require.NoError(t, err)
	body := eventoJSON(t, "tx-dup", ini.Referencia, "APPROVED", 100000)

	primero, err := e.uc.ProcesarEventoWompi(ctx, body)
	require.NoError(t, err)
	assert.True(t, primero.Procesado)
	eventos := len(e.pub.tipos)

	segundo, err := e.uc.ProcesarEventoWompi(ctx, body)
	require.NoError(t, err)
	assert.False(t, segundo.Procesado)
	assert.Len(t, e.pub.tipos, eventos, "el duplicado no publica nada")
	assert.Equal(t, entity.VentaPagada, e.estadoVenta(t, ventaID))
}

func TestWebhook_RechazadoNoPagaLaVenta(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	ventaID := e.venta(t, 1000)
	ini, err := e.uc.IniciarPago(ctx, dto.IniciarPagoRequest{VentaID: ventaID})
	require.NoError(t, err)

	_, err = e.uc.ProcesarEventoWompi(ctx, eventoJSON(t, "tx-2", ini.Referencia, "DECLINED", 100000))
	require.NoError(t, err)
	assert.Equal(t, entity.PagoRechazado, e.pago(t, ini.Referencia).Estado)
	assert.Equal(t, entity.VentaPendiente, e.estadoVenta(t, ventaID))
}

func TestWebhook_MontoDistintoQuedaEnError(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	ventaID := e.venta(t, 1000)
	ini, err := e.uc.IniciarPago(ctx, dto.IniciarPagoRequest{VentaID: ventaID})
	require.NoError(t, err)

	res, err := e.uc.ProcesarEventoWompi(ctx, eventoJSON(t, "tx-3", ini.Referencia, "APPROVED", 100))
	require.NoError(t, err)
	assert.True(t, res.Procesado)
	assert.Equal(t, entity.PagoError, e.pago(t, ini.Referencia).Estado)
	assert.Equal(t, entity.VentaPendiente, e.estadoVenta(t, ventaID))
}

func TestWebhook_ReferenciaDesconocidaSeAcepta(t *testing.T) {
	e := nuevoEntorno(t)
	res, err := e.uc.ProcesarEventoWompi(context.Background(), eventoJSON(t, "tx-4", "VTA-otra", "APPROVED", 100))
	require.NoError(t, err)
	assert.False(t, res.Procesado)
	assert.Equal(t, "referencia desconocida", res.Detalle)
}

func TestWebhook_PendingSeIgnora(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	ventaID := e.venta(t, 1000)
	ini, err := e.uc.IniciarPago(ctx, dto.IniciarPagoRequest{VentaID: ventaID})
	require.NoError(t, err)

	res, err := e.uc.ProcesarEventoWompi(ctx, eventoJSON(t, "tx-5", ini.Referencia, "PENDING", 100000))
	require.NoError(t, err)
	assert.False(t, res.Procesado)
	assert.Equal(t, entity.PagoPendiente, e.pago(t, ini.Referencia).Estado)

	// el PENDING no consume la clave del APPROVED posterior
	res, err = e.uc.ProcesarEventoWompi(ctx, eventoJSON(t, "tx-5", ini.Referencia, "APPROVED", 100000))
	require.NoError(t, err)
	assert.True(t, res.Procesado)
}

func TestWebhook_AprobadoConfirmaReservaPendiente(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	reservaID := e.reserva(t, "pendiente", 350000)
	ini, err := e.uc.IniciarPago(ctx, dto.IniciarPagoRequest{ReservaID: reservaID})
	require.NoError(t, err)

	_, err = e.uc.ProcesarEventoWompi(ctx, eventoJSON(t, "tx-6", ini.Referencia, "APPROVED", 35000000))
	require.NoError(t, err)

	r, err := memory.NewReservaRepository(e.store).GetByID(ctx, reservaID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReservaConfirmada, r.Estado)
	assert.Contains(t, e.pub.tipos, ports.EventoReservaTransicion)
}

func TestWebhook_AprobadoNoTocaReservaConfirmada(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	reservaID := e.reserva(t, entity.ReservaConfirmada, 1000)
	ini, err := e.uc.IniciarPago(ctx, dto.IniciarPagoRequest{ReservaID: reservaID})
	require.NoError(t, err)

	res, err := e.uc.ProcesarEventoWompi(ctx, eventoJSON(t, "tx-7", ini.Referencia, "APPROVED", 100000))
	require.NoError(t, err)
	assert.True(t, res.Procesado)

	r, err := memory.NewReservaRepository(e.store).GetByID(ctx, reservaID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReservaConfirmada, r.Estado)
}

func TestWebhook_SegundoAprobadoQuedaEnError(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	ventaID := e.venta(t, 20000)
	primero, err := e.uc.IniciarPago(ctx, dto.IniciarPagoRequest{VentaID: ventaID})
	require.NoError(t, err)
	segundo, err := e.uc.IniciarPago(ctx, dto.IniciarPagoRequest{VentaID: ventaID})
	require.NoError(t, err)

	_, err = e.uc.ProcesarEventoWompi(ctx, eventoJSON(t, "tx-a", primero.Referencia, "APPROVED", 2000000))
	require.NoError(t, err)
	res, err := e.uc.ProcesarEventoWompi(ctx, eventoJSON(t, "tx-b", segundo.Referencia, "APPROVED", 2000000))
	require.NoError(t, err)
	assert.Equal(t, "pago "+entity.PagoError, res.Detalle)

	assert.Equal(t, entity.PagoAprobado, e.pago(t, primero.Referencia).Estado)
	assert.Equal(t, entity.PagoError, e.pago(t, segundo.Referencia).Estado)
	assert.Equal(t, entity.VentaPagada, e.estadoVenta(t, ventaID))

	pagosVenta, err := memory.NewPagoRepository(e.store).ListByVenta(ctx, ventaID)
	require.NoError(t, err)
	assert.Equal(t, 1, venta.PagosAprobados(pagosVenta))
}

func TestIniciarPago_ReservaYaPagada(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	reservaID := e.reserva(t, entity.ReservaPendiente, 100000)
	ini, err := e.uc.IniciarPago(ctx, dto.IniciarPagoRequest{ReservaID: reservaID})
	require.NoError(t, err)
	_, err = e.uc.ProcesarEventoWompi(ctx, eventoJSON(t, "tx-r", ini.Referencia, "APPROVED", 10000000))
	require.NoError(t, err)

	_, err = e.uc.IniciarPago(ctx, dto.IniciarPagoRequest{ReservaID: reservaID})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestEnCentavosYMapearEstado(t *testing.T) {
	assert.Equal(t, int64(4490000), pagos.EnCentavos(decimal.NewFromInt(44900)))
	assert.Equal(t, int64(1001), pagos.EnCentavos(decimal.RequireFromString("10.005")))

	estado, ok := pagos.MapearEstado("VOIDED")
	assert.True(t, ok)
	assert.Equal(t, entity.PagoAnulado, estado)
	_, ok = pagos.MapearEstado("PENDING")
	assert.False(t, ok)
}
