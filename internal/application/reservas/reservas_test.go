package reservas_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Turismo-api/internal/application/dto"
	"github.com/jhoicas/Turismo-api/internal/application/ports"
	"github.com/jhoicas/Turismo-api/internal/application/reservas"
	"github.com/jhoicas/Turismo-api/internal/domain"
	"github.com/jhoicas/Turismo-api/internal/domain/entity"
	"github.com/jhoicas/Turismo-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de notificación y eventos
// ──────────────────────────────────────────────────────────────────────────────

type notificadorFake struct {
	mu     sync.Mutex
	enviad []ports.NotificacionReserva
	err    error
}

func (n *notificadorFake) NotificarReserva(_ context.Context, not ports.NotificacionReserva) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enviad = append(n.enviad, not)
	return n.err
}

func (n *notificadorFake) total() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.enviad)
}

type publisherFake struct {
	mu      sync.Mutex
	eventos []ports.DomainEvent
	err     error
}

func (p *publisherFake) Publish(_ context.Context, evt ports.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.eventos = append(p.eventos, evt)
	return p.err
}

func (p *publisherFake) tipos() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.eventos))
	for _, e := range p.eventos {
		out = append(out, e.Tipo)
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Entorno de prueba sobre el almacén en memoria
// ──────────────────────────────────────────────────────────────────────────────

type entorno struct {
	store     *memory.Store
	tours     *reservas.TourUseCase
	uc        *reservas.ReservaUseCase
	notif     *notificadorFake
	pub       *publisherFake
	clienteID string
	userID    string
}

func nuevoEntorno(t *testing.T) *entorno {
	t.Helper()
	s := memory.NewStore()
	tx := memory.NewTxRunner(s)
	notif := &notificadorFake{}
	pub := &publisherFake{}

	ctx := context.Background()
	cliente := &entity.Cliente{ID: uuid.NewString(), Nombre: "Ana Gómez", Documento: "1020304050", Email: "ana@example.com"}
	require.NoError(t, memory.NewClienteRepository(s).Create(ctx, cliente))
	user := &entity.User{ID: uuid.NewString(), Email: "guia@example.com", Name: "Guía", Role: entity.RoleEmpleado, Status: "active"}
	require.NoError(t, memory.NewUserRepository(s).Create(ctx, user))

	return &entorno{
		store: s,
		tours: reservas.NewTourUseCase(tx, memory.NewTourRepository(s)),
		uc: reservas.NewReservaUseCase(tx,
			memory.NewReservaRepository(s), memory.NewClienteRepository(s), memory.NewUserRepository(s),
			notif, pub, zerolog.Nop()),
		notif:     notif,
		pub:       pub,
		clienteID: cliente.ID,
		userID:    user.ID,
	}
}

func (e *entorno) crearTour(t *testing.T, cupoMax int) *dto.TourResponse {
	t.Helper()
	salida := time.Now().UTC().Add(7 * 24 * time.Hour).Truncate(time.Second)
	tour, err := e.tours.Create(context.Background(), dto.CreateTourRequest{
		Nombre:       "Caño Cristales",
		CupoMin:      1,
		CupoMax:      cupoMax,
		FechaSalida:  salida,
		FechaRegreso: salida.Add(48 * time.Hour),
		Precio:       decimal.NewFromInt(350000),
	})
	require.NoError(t, err)
	return tour
}

func (e *entorno) reservar(tourID string, mayores, menores int) (*dto.ReservaResponse, error) {
	return e.uc.CrearReservaTour(context.Background(), dto.CrearReservaRequest{
		ClienteID:   e.clienteID,
		MayoresEdad: mayores,
		MenoresEdad: menores,
		Tours:       []dto.ReservaTourItem{{TourID: tourID, Cupos: mayores + menores}},
	})
}

// reservaLegada inserta una reserva con una grafía de estado histórica.
func (e *entorno) reservaLegada(t *testing.T, tourID, estado string, cupos int) string {
	t.Helper()
	ctx := context.Background()
	repo := memory.NewReservaRepository(e.store)
	id := uuid.NewString()
	require.NoError(t, repo.Create(ctx, &entity.Reserva{
		ID: id, Fecha: time.Now().UTC(), Estado: estado, MayoresEdad: cupos, ClienteID: e.clienteID,
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}))
	require.NoError(t, repo.CreateDetalle(ctx, &entity.DetalleReservaTour{
		ID: uuid.NewString(), ReservaID: id, TourID: tourID, CuposReservados: cupos,
	}))
	return id
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación y cupos
// ──────────────────────────────────────────────────────────────────────────────

func TestCrearReserva_CalculaTotalYCupos(t *testing.T) {
	e := nuevoEntorno(t)
	tour := e.crearTour(t, 10)

	res, err := e.reservar(tour.ID, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, entity.ReservaPendiente, res.Estado)
	require.Len(t, res.Detalles, 1)
	assert.Equal(t, 3, res.Detalles[0].CuposReservados)
	assert.True(t, decimal.NewFromInt(1050000).Equal(res.Total), "total = 3 x 350000")
	assert.True(t, tour.FechaSalida.Equal(res.Fecha), "sin fecha se usa la salida del tour")

	got, err := e.tours.GetByID(context.Background(), tour.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.CuposReservados)
	assert.Equal(t, 7, got.CuposDisponibles)
	assert.Contains(t, e.pub.tipos(), ports.EventoReservaCreada)
}

func TestCrearReserva_TourLlenoRechazaNuevaReserva(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	tour := e.crearTour(t, 10)

	res, err := e.reservar(tour.ID, 10, 0)
	require.NoError(t, err)
	_, err = e.uc.Confirmar(ctx, res.ID, e.userID)
	require.NoError(t, err)

	got, err := e.tours.GetByID(ctx, tour.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.CuposDisponibles)
	assert.Equal(t, entity.TourAgotado, got.Estado)

	_, err = e.reservar(tour.ID, 1, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCuposInsuficientes)
	var cerr *domain.CuposError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, 0, cerr.Disponibles)
	assert.Equal(t, 1, cerr.Solicitados)
}

func TestCrearReserva_CuposNoCoincidenConPersonas(t *testing.T) {
	e := nuevoEntorno(t)
	tour := e.crearTour(t, 10)

	_, err := e.uc.CrearReservaTour(context.Background(), dto.CrearReservaRequest{
		ClienteID:   e.clienteID,
		MayoresEdad: 2,
		Tours:       []dto.ReservaTourItem{{TourID: tour.ID, Cupos: 3}},
	})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "tours")
}

func TestCrearReserva_SinPersonas(t *testing.T) {
	e := nuevoEntorno(t)
	tour := e.crearTour(t, 10)

	_, err := e.uc.CrearReservaTour(context.Background(), dto.CrearReservaRequest{
		ClienteID: e.clienteID,
		Tours:     []dto.ReservaTourItem{{TourID: tour.ID, Cupos: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCrearReserva_ClienteInexistente(t *testing.T) {
	e := nuevoEntorno(t)
	tour := e.crearTour(t, 10)
	e.clienteID = uuid.NewString()

	_, err := e.reservar(tour.ID, 1, 0)
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "cliente_id")
}

func TestCrearReserva_TourInexistente(t *testing.T) {
	e := nuevoEntorno(t)
	_, err := e.reservar(uuid.NewString(), 1, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCrearReserva_TourCancelado(t *testing.T) {
	e := nuevoEntorno(t)
	tour := e.crearTour(t, 10)
	_, err := e.tours.CambiarEstado(context.Background(), tour.ID, dto.CambiarEstadoTourRequest{Estado: entity.TourCancelado})
	require.NoError(t, err)

	_, err = e.reservar(tour.ID, 1, 0)
	assert.ErrorIs(t, err, domain.ErrTourNoDisponible)
}

func TestCrearReserva_VariosToursEsAtomica(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	amplio := e.crearTour(t, 10)
	pequeno := e.crearTour(t, 1)

	_, err := e.uc.CrearReservaTour(ctx, dto.CrearReservaRequest{
		ClienteID:   e.clienteID,
		MayoresEdad: 4,
		Tours: []dto.ReservaTourItem{
			{TourID: amplio.ID, Cupos: 2},
			{TourID: pequeno.ID, Cupos: 2},
		},
	})
	require.ErrorIs(t, err, domain.ErrCuposInsuficientes)

	got, err := e.tours.GetByID(ctx, amplio.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.CuposDisponibles, "el fallo en un tour no deja cupos tomados en otro")

	lista, err := e.uc.ListarReservas(ctx, "", "", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, lista.Items)
}

func TestCrearReserva_UltimoCupoConcurrente(t *testing.T) {
	e := nuevoEntorno(t)
	tour := e.crearTour(t, 5)
	_, err := e.reservar(tour.ID, 4, 0)
	require.NoError(t, err)

	const intentos = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		exitosas int
		sinCupo  int
	)
	wg.Add(intentos)
	for i := 0; i < intentos; i++ {
		go func() {
			defer wg.Done()
			_, err := e.reservar(tour.ID, 1, 0)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				exitosas++
			case errors.Is(err, domain.ErrCuposInsuficientes):
				sinCupo++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, exitosas, "solo una reserva puede tomar el último cupo")
	assert.Equal(t, intentos-1, sinCupo)

	got, err := e.tours.GetByID(context.Background(), tour.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.CuposDisponibles)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transiciones
// ──────────────────────────────────────────────────────────────────────────────

func TestTransiciones_FlujoCompleto(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	tour := e.crearTour(t, 10)
	res, err := e.reservar(tour.ID, 2, 0)
	require.NoError(t, err)

	nueva := time.Now().UTC().Add(30 * 24 * time.Hour)
	out, err := e.uc.Reprogramar(ctx, res.ID, e.userID, nueva)
	require.NoError(t, err)
	assert.Equal(t, entity.ReservaReprogramada, out.Estado)
	assert.True(t, nueva.Equal(out.Fecha))

	out, err = e.uc.Confirmar(ctx, res.ID, e.userID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReservaConfirmada, out.Estado)

	out, err = e.uc.Finalizar(ctx, res.ID, e.userID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReservaFinalizada, out.Estado)

	assert.Equal(t, 3, e.notif.total(), "una notificación por transición")
	assert.Contains(t, e.pub.tipos(), ports.EventoReservaTransicion)
}

func TestTransiciones_InvalidaNoCambiaEstado(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	tour := e.crearTour(t, 10)
	res, err := e.reservar(tour.ID, 1, 0)
	require.NoError(t, err)

	_, err = e.uc.Finalizar(ctx, res.ID, e.userID)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	got, err := e.uc.ObtenerReserva(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReservaPendiente, got.Estado)
	assert.Equal(t, 0, e.notif.total())
}

func TestTransiciones_DesdeTerminal(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	tour := e.crearTour(t, 10)
	res, err := e.reservar(tour.ID, 1, 0)
	require.NoError(t, err)
	_, err = e.uc.Rechazar(ctx, res.ID, e.userID)
	require.NoError(t, err)

	_, err = e.uc.Confirmar(ctx, res.ID, e.userID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = e.uc.Reprogramar(ctx, res.ID, e.userID, time.Now().Add(48*time.Hour))
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestTransiciones_ReservaInexistente(t *testing.T) {
	e := nuevoEntorno(t)
	_, err := e.uc.Confirmar(context.Background(), uuid.NewString(), e.userID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransiciones_GrafiaHistorica(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	tour := e.crearTour(t, 10)
	id := e.reservaLegada(t, tour.ID, "pendiente", 2)

	got, err := e.uc.ObtenerReserva(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entity.ReservaPendiente, got.Estado, "la salida normaliza la grafía")

	out, err := e.uc.Confirmar(ctx, id, e.userID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReservaConfirmada, out.Estado)
}

func TestTransiciones_GrafiaCanceladaEsTerminal(t *testing.T) {
	e := nuevoEntorno(t)
	tour := e.crearTour(t, 10)
	id := e.reservaLegada(t, tour.ID, "Cancelada", 3)

	_, err := e.uc.Confirmar(context.Background(), id, e.userID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	got, err := e.tours.GetByID(context.Background(), tour.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.CuposDisponibles, "una reserva cancelada no ocupa cupos")
}

func TestRechazar_LiberaCuposYReabreTour(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	tour := e.crearTour(t, 3)
	res, err := e.reservar(tour.ID, 3, 0)
	require.NoError(t, err)

	got, err := e.tours.GetByID(ctx, tour.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TourAgotado, got.Estado)

	_, err = e.uc.Rechazar(ctx, res.ID, e.userID)
	require.NoError(t, err)

	got, err = e.tours.GetByID(ctx, tour.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TourDisponible, got.Estado)
	assert.Equal(t, 3, got.CuposDisponibles)
}

func TestReprogramar_FechaPasada(t *testing.T) {
	e := nuevoEntorno(t)
	tour := e.crearTour(t, 10)
	res, err := e.reservar(tour.ID, 1, 0)
	require.NoError(t, err)

	_, err = e.uc.Reprogramar(context.Background(), res.ID, e.userID, time.Now().AddDate(0, 0, -2))
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "fecha")

	r, err := e.uc.ObtenerReserva(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReservaPendiente, r.Estado)
}

func TestReprogramar_ReservaInexistenteConFechaPasadaEsNotFound(t *testing.T) {
	e := nuevoEntorno(t)
	_, err := e.uc.Reprogramar(context.Background(), uuid.NewString(), e.userID, time.Now().AddDate(0, 0, -2))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.uc.Reprogramar(context.Background(), uuid.NewString(), e.userID, time.Time{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransiciones_FalloDeNotificacionNoRevierte(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	e.notif.err = errors.New("smtp caído")
	e.pub.err = errors.New("kafka caído")
	tour := e.crearTour(t, 10)
	res, err := e.reservar(tour.ID, 1, 0)
	require.NoError(t, err)

	out, err := e.uc.Confirmar(ctx, res.ID, e.userID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReservaConfirmada, out.Estado)
}

func TestAsignarEmpleado(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	tour := e.crearTour(t, 10)
	res, err := e.reservar(tour.ID, 1, 0)
	require.NoError(t, err)

	out, err := e.uc.AsignarEmpleado(ctx, res.ID, dto.AsignarEmpleadoRequest{EmpleadoID: e.userID})
	require.NoError(t, err)
	require.NotNil(t, out.EmpleadoID)
	assert.Equal(t, e.userID, *out.EmpleadoID)

	_, err = e.uc.AsignarEmpleado(ctx, res.ID, dto.AsignarEmpleadoRequest{EmpleadoID: uuid.NewString()})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas y tours
// ──────────────────────────────────────────────────────────────────────────────

func TestListarReservas_FiltraPorEstadoEnCualquierGrafia(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	tour := e.crearTour(t, 20)
	e.reservaLegada(t, tour.ID, "pendiente", 1)
	_, err := e.reservar(tour.ID, 1, 0)
	require.NoError(t, err)
	confirmada, err := e.reservar(tour.ID, 1, 0)
	require.NoError(t, err)
	_, err = e.uc.Confirmar(ctx, confirmada.ID, e.userID)
	require.NoError(t, err)

	lista, err := e.uc.ListarReservas(ctx, "Pendiente", "", 0, 0)
	require.NoError(t, err)
	assert.Len(t, lista.Items, 2)
	for _, r := range lista.Items {
		assert.Equal(t, entity.ReservaPendiente, r.Estado)
	}

	_, err = e.uc.ListarReservas(ctx, "archivada", "", 0, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.uc.ListarReservas(ctx, "", "cliente-7", 0, 0)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "cliente_id")
}

func TestTourUpdate_CupoMaxNoBajaDeReservados(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	tour := e.crearTour(t, 10)
	_, err := e.reservar(tour.ID, 6, 0)
	require.NoError(t, err)

	cinco := 5
	_, err = e.tours.Update(ctx, tour.ID, dto.UpdateTourRequest{CupoMax: &cinco})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "cupo_max")

	seis := 6
	out, err := e.tours.Update(ctx, tour.ID, dto.UpdateTourRequest{CupoMax: &seis})
	require.NoError(t, err)
	assert.Equal(t, 0, out.CuposDisponibles)
	assert.Equal(t, entity.TourAgotado, out.Estado)
}

func TestTourCreate_FechasInvertidas(t *testing.T) {
	e := nuevoEntorno(t)
	salida := time.Now().Add(72 * time.Hour)
	_, err := e.tours.Create(context.Background(), dto.CreateTourRequest{
		Nombre:       "Tayrona",
		CupoMax:      5,
		FechaSalida:  salida,
		FechaRegreso: salida.Add(-time.Hour),
	})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "fecha_regreso")
}

func TestTourCambiarEstado(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	tour := e.crearTour(t, 2)

	out, err := e.tours.CambiarEstado(ctx, tour.ID, dto.CambiarEstadoTourRequest{Estado: entity.TourSuspendido})
	require.NoError(t, err)
	assert.Equal(t, entity.TourSuspendido, out.Estado)
	_, err = e.reservar(tour.ID, 1, 0)
	assert.ErrorIs(t, err, domain.ErrTourNoDisponible, "un tour suspendido no recibe reservas")

	out, err = e.tours.CambiarEstado(ctx, tour.ID, dto.CambiarEstadoTourRequest{Estado: entity.TourDisponible})
	require.NoError(t, err)
	assert.Equal(t, entity.TourDisponible, out.Estado)
	_, err = e.reservar(tour.ID, 2, 0)
	require.NoError(t, err)

	// sin cupos, DISPONIBLE se guarda como AGOTADO
	out, err = e.tours.CambiarEstado(ctx, tour.ID, dto.CambiarEstadoTourRequest{Estado: entity.TourDisponible})
	require.NoError(t, err)
	assert.Equal(t, entity.TourAgotado, out.Estado)
	assert.Equal(t, 0, out.CuposDisponibles)

	got, err := e.tours.GetByID(ctx, tour.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TourAgotado, got.Estado)
}

func TestTourCambiarEstado_Errores(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	tour := e.crearTour(t, 5)

	_, err := e.tours.CambiarEstado(ctx, tour.ID, dto.CambiarEstadoTourRequest{Estado: "cerrado"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "estado")

	_, err = e.tours.CambiarEstado(ctx, uuid.NewString(), dto.CambiarEstadoTourRequest{Estado: entity.TourCancelado})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := e.tours.GetByID(ctx, tour.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TourDisponible, got.Estado)
}
