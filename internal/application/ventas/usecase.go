// Package ventas casos de uso de ventas de productos y auditoría contra pagos.
package ventas

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Turismo-api/internal/application/dto"
	"github.com/jhoicas/Turismo-api/internal/application/ports"
	"github.com/jhoicas/Turismo-api/internal/application/stock"
	"github.com/jhoicas/Turismo-api/internal/domain"
	"github.com/jhoicas/Turismo-api/internal/domain/entity"
	"github.com/jhoicas/Turismo-api/internal/domain/repository"
	"github.com/jhoicas/Turismo-api/internal/domain/venta"
	"github.com/jhoicas/Turismo-api/pkg/metrics"
	"github.com/jhoicas/Turismo-api/pkg/tracing"
	"github.com/jhoicas/Turismo-api/pkg/validate"
)

// VentaUseCase registra, anula y consulta ventas.
type VentaUseCase struct {
	tx          repository.TxRunner
	ventaRepo   repository.VentaRepository
	pagoRepo    repository.PagoRepository
	clienteRepo repository.ClienteRepository
	publisher   ports.EventPublisher
	log         zerolog.Logger
}

// NewVentaUseCase construye el caso de uso de ventas.
func NewVentaUseCase(
	tx repository.TxRunner,
	ventaRepo repository.VentaRepository,
	pagoRepo repository.PagoRepository,
	clienteRepo repository.ClienteRepository,
	publisher ports.EventPublisher,
	log zerolog.Logger,
) *VentaUseCase {
	return &VentaUseCase{
		tx:          tx,
		ventaRepo:   ventaRepo,
		pagoRepo:    pagoRepo,
		clienteRepo: clienteRepo,
		publisher:   publisher,
		log:         log.With().Str("component", "ventas").Logger(),
	}
}

// CrearVenta registra la venta PENDIENTE y una SALIDA en el libro por cada línea,
// todo en una transacción: si una línea no tiene stock no se escribe nada.
func (uc *VentaUseCase) CrearVenta(ctx context.Context, userID string, in dto.CrearVentaRequest) (*dto.VentaResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "ventas.CrearVenta")
	defer span.End()

	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	if in.ClienteID != nil && *in.ClienteID != "" {
		c, err := uc.clienteRepo.GetByID(ctx, *in.ClienteID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, domain.NewValidationError("cliente_id", "el cliente no existe")
		}
	} else {
		in.ClienteID = nil
	}
	for i, it := range in.Items {
		if it.PrecioUnitario != nil && it.PrecioUnitario.IsNegative() {
			return nil, domain.NewValidationError(fmt.Sprintf("items[%d].precio_unitario", i), "no puede ser negativo")
		}
	}

	items := make([]dto.VentaItemRequest, len(in.Items))
	copy(items, in.Items)
	sort.SliceStable(items, func(i, j int) bool { return items[i].ProductoID < items[j].ProductoID })

	now := time.Now().UTC()
	v := &entity.Venta{
		ID:        uuid.New().String(),
		ClienteID: in.ClienteID,
		UserID:    userID,
		Fecha:     now,
		Estado:    entity.VentaPendiente,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		total := decimal.Zero
		detalles := make([]*entity.DetalleVenta, 0, len(items))
		for _, it := range items {
			p, err := repos.Productos.GetForUpdate(ctx, it.ProductoID)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("producto %s: %w", it.ProductoID, domain.ErrNotFound)
			}
			if _, err := stock.RegistrarMovimiento(ctx, repos, stock.Movimiento{
				ProductoID: p.ID,
				Tipo:       entity.MovimientoSalida,
				Cantidad:   it.Cantidad,
				Motivo:     "Venta " + v.ID,
				Referencia: v.ID,
				UserID:     userID,
			}); err != nil {
				return fmt.Errorf("producto %s: %w", p.ID, err)
			}
			precio := p.Precio
			if it.PrecioUnitario != nil {
				precio = *it.PrecioUnitario
			}
			subtotal := precio.Mul(decimal.NewFromInt(int64(it.Cantidad)))
			total = total.Add(subtotal)
			detalles = append(detalles, &entity.DetalleVenta{
				ID:             uuid.New().String(),
				VentaID:        v.ID,
				ProductoID:     p.ID,
				Cantidad:       it.Cantidad,
				PrecioUnitario: precio,
				Subtotal:       subtotal,
			})
		}
		v.Total = total
		if err := repos.Ventas.Create(ctx, v); err != nil {
			return err
		}
		for _, d := range detalles {
			if err := repos.Ventas.CreateDetalle(ctx, d); err != nil {
				return err
			}
		}
		v.Detalles = detalles
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.VentasCreadasTotal.Inc()
	uc.log.Info().Str("venta_id", v.ID).Str("total", v.Total.String()).Msg("venta creada")
	uc.publicar(ctx, ports.DomainEvent{
		Tipo:      ports.EventoVentaCreada,
		EntidadID: v.ID,
		Estado:    v.Estado,
		ActorID:   userID,
		Datos:     map[string]any{"total": v.Total.String()},
	})
	return toVentaResponse(v, venta.ValidarConsistenciaConPagos(v, nil), false), nil
}

// AnularVenta anula una venta PENDIENTE sin pago aprobado y devuelve el stock con ENTRADAS.
func (uc *VentaUseCase) AnularVenta(ctx context.Context, id, userID string) (*dto.VentaResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "ventas.AnularVenta")
	defer span.End()

	var anulada *entity.Venta
	err := uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		v, err := repos.Ventas.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if v == nil {
			return domain.ErrNotFound
		}
		if v.Estado != entity.VentaPendiente {
			return fmt.Errorf("venta en estado %s: %w", v.Estado, domain.ErrConflict)
		}
		pagos, err := repos.Pagos.ListByVenta(ctx, id)
		if err != nil {
			return err
		}
		if venta.TienePagoAprobado(pagos) {
			return fmt.Errorf("la venta tiene un pago aprobado: %w", domain.ErrConflict)
		}
		detalles := make([]*entity.DetalleVenta, len(v.Detalles))
		copy(detalles, v.Detalles)
		sort.SliceStable(detalles, func(i, j int) bool { return detalles[i].ProductoID < detalles[j].ProductoID })
		for _, d := range detalles {
			if _, err := stock.RegistrarMovimiento(ctx, repos, stock.Movimiento{
				ProductoID: d.ProductoID,
				Tipo:       entity.MovimientoEntrada,
				Cantidad:   d.Cantidad,
				Motivo:     "Anulación venta " + v.ID,
				Referencia: v.ID,
				UserID:     userID,
			}); err != nil {
				return err
			}
		}
		if err := repos.Ventas.UpdateEstado(ctx, id, entity.VentaAnulada); err != nil {
			return err
		}
		v.Estado = entity.VentaAnulada
		v.UpdatedAt = time.Now().UTC()
		anulada = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.publicar(ctx, ports.DomainEvent{
		Tipo:           ports.EventoVentaAnulada,
		EntidadID:      id,
		Estado:         entity.VentaAnulada,
		EstadoAnterior: entity.VentaPendiente,
		ActorID:        userID,
	})
	return toVentaResponse(anulada, venta.ValidarConsistenciaConPagos(anulada, nil), false), nil
}

// ObtenerVenta devuelve la venta con el resultado de auditarla contra sus pagos.
func (uc *VentaUseCase) ObtenerVenta(ctx context.Context, id string) (*dto.VentaResponse, error) {
	v, err := uc.ventaRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	pagos, err := uc.pagoRepo.ListByVenta(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.auditar(v, pagos), nil
}

// ListarVentas lista ventas auditando cada una contra sus pagos.
func (uc *VentaUseCase) ListarVentas(ctx context.Context, estado string, limit, offset int) (*dto.VentaListResponse, error) {
	switch estado {
	case "", entity.VentaPendiente, entity.VentaPagada, entity.VentaAnulada:
	default:
		return nil, domain.NewValidationError("estado", "debe ser PENDIENTE, PAGADA o ANULADA")
	}
	limit, offset = dto.NormalizePage(limit, offset)
	list, err := uc.ventaRepo.List(ctx, estado, limit, offset)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(list))
	for _, v := range list {
		ids = append(ids, v.ID)
	}
	pagos, err := uc.pagoRepo.ListByVentas(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := &dto.VentaListResponse{
		Items: make([]dto.VentaResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, v := range list {
		r := uc.auditar(v, pagos[v.ID])
		if !r.Consistencia.Consistente {
			out.Inconsistentes++
		}
		out.Items = append(out.Items, *r)
	}
	return out, nil
}

func (uc *VentaUseCase) auditar(v *entity.Venta, pagos []*entity.Pago) *dto.VentaResponse {
	c := venta.ValidarConsistenciaConPagos(v, pagos)
	if !c.Consistente {
		metrics.VentasInconsistentes.Inc()
		uc.log.Warn().Str("venta_id", v.ID).Str("estado", v.Estado).
			Str("estado_esperado", c.EstadoEsperado).Msg(c.Detalle)
	}
	return toVentaResponse(v, c, venta.TienePagoAprobado(pagos))
}

func (uc *VentaUseCase) publicar(ctx context.Context, evt ports.DomainEvent) {
	evt.Ocurrido = time.Now().UTC()
	if err := uc.publisher.Publish(ctx, evt); err != nil {
		metrics.NotificacionesFallidasTotal.WithLabelValues("evento").Inc()
		uc.log.Error().Err(err).Str("tipo", evt.Tipo).Str("venta_id", evt.EntidadID).Msg("publicación de evento fallida")
	}
}

func toVentaResponse(v *entity.Venta, c venta.Consistencia, aprobado bool) *dto.VentaResponse {
	out := &dto.VentaResponse{
		ID:        v.ID,
		ClienteID: v.ClienteID,
		UserID:    v.UserID,
		Fecha:     v.Fecha,
		Total:     v.Total,
		Estado:    v.Estado,
		Consistencia: dto.ConsistenciaResponse{
			Consistente:       c.Consistente,
			TienePagoAprobado: aprobado,
			EstadoEsperado:    c.EstadoEsperado,
			Detalle:           c.Detalle,
		},
	}
	for _, d := range v.Detalles {
		out.Detalles = append(out.Detalles, dto.DetalleVentaResponse{
			ID:             d.ID,
			ProductoID:     d.ProductoID,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Subtotal:       d.Subtotal,
		})
	}
	return out
}
