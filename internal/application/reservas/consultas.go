package reservas

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/Turismo-api/internal/application/dto"
	"github.com/jhoicas/Turismo-api/internal/domain"
	"github.com/jhoicas/Turismo-api/internal/domain/entity"
	"github.com/jhoicas/Turismo-api/internal/domain/repository"
	"github.com/jhoicas/Turismo-api/internal/domain/reserva"
)

// ObtenerReserva devuelve la reserva con sus detalles o ErrNotFound.
func (uc *ReservaUseCase) ObtenerReserva(ctx context.Context, id string) (*dto.ReservaResponse, error) {
	r, err := uc.reservaRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	return toReservaResponse(r), nil
}

// ListarReservas lista reservas filtrando por estado (cualquier grafía) y cliente.
func (uc *ReservaUseCase) ListarReservas(ctx context.Context, estado, clienteID string, limit, offset int) (*dto.ReservaListResponse, error) {
	limit, offset = dto.NormalizePage(limit, offset)
	filtro := repository.ReservaFiltro{ClienteID: clienteID, Limit: limit, Offset: offset}
	if clienteID != "" {
		if _, err := uuid.Parse(clienteID); err != nil {
			return nil, domain.NewValidationError("cliente_id", "debe ser un UUID")
		}
	}
	if estado != "" {
		canonico, ok := reserva.NormalizarEstado(estado)
		if !ok {
			return nil, domain.NewValidationError("estado", "estado de reserva desconocido")
		}
		filtro.Estado = canonico
	}
	list, err := uc.reservaRepo.List(ctx, filtro)
	if err != nil {
		return nil, err
	}
	out := &dto.ReservaListResponse{
		Items: make([]dto.ReservaResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, r := range list {
		out.Items = append(out.Items, *toReservaResponse(r))
	}
	return out, nil
}

func toReservaResponse(r *entity.Reserva) *dto.ReservaResponse {
	if r == nil {
		return nil
	}
	estado := r.Estado
	if canonico, ok := reserva.NormalizarEstado(r.Estado); ok {
		estado = canonico
	}
	out := &dto.ReservaResponse{
		ID:          r.ID,
		Fecha:       r.Fecha,
		Estado:      estado,
		MayoresEdad: r.MayoresEdad,
		MenoresEdad: r.MenoresEdad,
		Total:       r.Total,
		ClienteID:   r.ClienteID,
		EmpleadoID:  r.EmpleadoID,
		Detalles:    make([]dto.DetalleReservaResponse, 0, len(r.Detalles)),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	for _, d := range r.Detalles {
		out.Detalles = append(out.Detalles, dto.DetalleReservaResponse{
			ID:              d.ID,
			TourID:          d.TourID,
			CuposReservados: d.CuposReservados,
			PrecioUnitario:  d.PrecioUnitario,
			PrecioTotal:     d.PrecioTotal,
		})
	}
	return out
}
