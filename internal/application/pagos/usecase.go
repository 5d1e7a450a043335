package pagos

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Turismo-api/internal/application/dto"
	"github.com/jhoicas/Turismo-api/internal/application/ports"
	"github.com/jhoicas/Turismo-api/internal/domain"
	"github.com/jhoicas/Turismo-api/internal/domain/entity"
	"github.com/jhoicas/Turismo-api/internal/domain/repository"
	"github.com/jhoicas/Turismo-api/internal/domain/reserva"
	"github.com/jhoicas/Turismo-api/internal/domain/venta"
	"github.com/jhoicas/Turismo-api/pkg/validate"
)

// ActorPasarela actor registrado en transiciones disparadas por un pago.
const ActorPasarela = "wompi"

// TTLEvento tiempo que se recuerda un evento ya procesado.
const TTLEvento = 24 * time.Hour

// PagoUseCase inicia pagos y procesa los eventos de la pasarela.
type PagoUseCase struct {
	tx          repository.TxRunner
	pagoRepo    repository.PagoRepository
	ventaRepo   repository.VentaRepository
	reservaRepo repository.ReservaRepository
	pasarela    Pasarela
	idem        ports.IdempotencyStore
	reservas    ConfirmadorReserva
	publisher   ports.EventPublisher
	log         zerolog.Logger
}

// NewPagoUseCase construye el caso de uso de pagos.
func NewPagoUseCase(
	tx repository.TxRunner,
	pagoRepo repository.PagoRepository,
	ventaRepo repository.VentaRepository,
	reservaRepo repository.ReservaRepository,
	pasarela Pasarela,
	idem ports.IdempotencyStore,
	reservas ConfirmadorReserva,
	publisher ports.EventPublisher,
	log zerolog.Logger,
) *PagoUseCase {
	return &PagoUseCase{
		tx:          tx,
		pagoRepo:    pagoRepo,
		ventaRepo:   ventaRepo,
		reservaRepo: reservaRepo,
		pasarela:    pasarela,
		idem:        idem,
		reservas:    reservas,
		publisher:   publisher,
		log:         log.With().Str("component", "pagos").Logger(),
	}
}

// IniciarPago crea un Pago PENDIENTE para una venta o una reserva y devuelve los datos
// firmados para el widget de checkout.
func (uc *PagoUseCase) IniciarPago(ctx context.Context, in dto.IniciarPagoRequest) (*dto.IniciarPagoResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	pago := &entity.Pago{
		ID:        uuid.New().String(),
		Moneda:    uc.pasarela.Moneda(),
		Estado:    entity.PagoPendiente,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.VentaID != "" {
		v, err := uc.ventaRepo.GetByID(ctx, in.VentaID)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, domain.ErrNotFound
		}
		if v.Estado != entity.VentaPendiente {
			return nil, fmt.Errorf("venta en estado %s: %w", v.Estado, domain.ErrConflict)
		}
		aprobado, err := uc.tienePagoAprobado(ctx, uc.pagoRepo.ListByVenta, v.ID)
		if err != nil {
			return nil, err
		}
		if aprobado {
			return nil, fmt.Errorf("venta %s ya tiene un pago aprobado: %w", v.ID, domain.ErrConflict)
		}
		pago.VentaID = &v.ID
		pago.Monto = v.Total
		pago.Referencia = "VTA-" + uuid.New().String()
	} else {
		r, err := uc.reservaRepo.GetByID(ctx, in.ReservaID)
		if err != nil {
			return nil, err
		}
		if r == nil {
			return nil, domain.ErrNotFound
		}
		if estado, ok := reserva.NormalizarEstado(r.Estado); ok && reserva.EsTerminal(estado) {
			return nil, fmt.Errorf("reserva en estado %s: %w", estado, domain.ErrConflict)
		}
		aprobado, err := uc.tienePagoAprobado(ctx, uc.pagoRepo.ListByReserva, r.ID)
		if err != nil {
			return nil, err
		}
		if aprobado {
			return nil, fmt.Errorf("reserva %s ya tiene un pago aprobado: %w", r.ID, domain.ErrConflict)
		}
		pago.ReservaID = &r.ID
		pago.Monto = r.Total
		pago.Referencia = "RES-" + uuid.New().String()
	}
	if !pago.Monto.IsPositive() {
		return nil, fmt.Errorf("monto a pagar en cero: %w", domain.ErrConflict)
	}
	centavos := EnCentavos(pago.Monto)
	if err := uc.pagoRepo.Create(ctx, pago); err != nil {
		return nil, err
	}
	return &dto.IniciarPagoResponse{
		PagoID:          pago.ID,
		Referencia:      pago.Referencia,
		Monto:           pago.Monto,
		MontoEnCentavos: centavos,
		Moneda:          pago.Moneda,
		PublicKey:       uc.pasarela.PublicKey(),
		FirmaIntegridad: uc.pasarela.FirmaIntegridad(pago.Referencia, centavos, pago.Moneda),
	}, nil
}

func (uc *PagoUseCase) tienePagoAprobado(
	ctx context.Context,
	listar func(context.Context, string) ([]*entity.Pago, error),
	id string,
) (bool, error) {
	pagos, err := listar(ctx, id)
	if err != nil {
		return false, err
	}
	return venta.TienePagoAprobado(pagos), nil
}

// EnCentavos convierte un monto a centavos redondeando al entero más cercano.
func EnCentavos(monto decimal.Decimal) int64 {
	return monto.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// MapearEstado traduce el estado de la transacción al estado del Pago.
// PENDING y estados desconocidos devuelven false.
func MapearEstado(status string) (string, bool) {
	switch status {
	case "APPROVED":
		return entity.PagoAprobado, true
	case "DECLINED":
		return entity.PagoRechazado, true
	case "VOIDED":
		return entity.PagoAnulado, true
	case "ERROR":
		return entity.PagoError, true
	}
	return "", false
}
