package reservas

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Turismo-api/internal/application/dto"
	"github.com/jhoicas/Turismo-api/internal/domain"
	"github.com/jhoicas/Turismo-api/internal/domain/entity"
	"github.com/jhoicas/Turismo-api/internal/domain/repository"
	"github.com/jhoicas/Turismo-api/internal/domain/reserva"
	"github.com/jhoicas/Turismo-api/pkg/validate"
)

// TourUseCase casos de uso CRUD de tours. Los cupos disponibles siempre se calculan.
type TourUseCase struct {
	tx       repository.TxRunner
	tourRepo repository.TourRepository
}

// NewTourUseCase construye el caso de uso de tours.
func NewTourUseCase(tx repository.TxRunner, tourRepo repository.TourRepository) *TourUseCase {
	return &TourUseCase{tx: tx, tourRepo: tourRepo}
}

// Create valida y persiste un tour. Sin estado se crea DISPONIBLE.
func (uc *TourUseCase) Create(ctx context.Context, in dto.CreateTourRequest) (*dto.TourResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	estado := in.Estado
	if estado == "" {
		estado = entity.TourDisponible
	}
	now := time.Now().UTC()
	tour := &entity.Tour{
		ID:           uuid.New().String(),
		Nombre:       in.Nombre,
		Descripcion:  in.Descripcion,
		CupoMin:      in.CupoMin,
		CupoMax:      in.CupoMax,
		FechaSalida:  in.FechaSalida,
		FechaRegreso: in.FechaRegreso,
		Precio:       in.Precio,
		Estado:       estado,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := validarTour(tour); err != nil {
		return nil, err
	}
	if err := uc.tourRepo.Create(ctx, tour); err != nil {
		return nil, err
	}
	return toTourResponse(tour, nil), nil
}

// GetByID devuelve el tour con sus cupos o ErrNotFound.
func (uc *TourUseCase) GetByID(ctx context.Context, id string) (*dto.TourResponse, error) {
	tour, err := uc.tourRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tour == nil {
		return nil, domain.ErrNotFound
	}
	reservados, err := uc.tourRepo.CuposReservados(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTourResponse(tour, reservados), nil
}

// List lista tours, opcionalmente por estado.
func (uc *TourUseCase) List(ctx context.Context, estado string, limit, offset int) (*dto.TourListResponse, error) {
	if estado != "" && !entity.EsEstadoTourValido(estado) {
		return nil, domain.NewValidationError("estado", "estado de tour desconocido")
	}
	limit, offset = dto.NormalizePage(limit, offset)
	list, err := uc.tourRepo.List(ctx, estado, limit, offset)
	if err != nil {
		return nil, err
	}
	out := &dto.TourListResponse{
		Items: make([]dto.TourResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, t := range list {
		reservados, err := uc.tourRepo.CuposReservados(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		out.Items = append(out.Items, *toTourResponse(t, reservados))
	}
	return out, nil
}

// Update aplica los campos presentes. cupo_max no puede quedar por debajo de los cupos ya reservados.
func (uc *TourUseCase) Update(ctx context.Context, id string, in dto.UpdateTourRequest) (*dto.TourResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	var (
		tour       *entity.Tour
		reservados []entity.CupoReservado
	)
	err := uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		t, err := repos.Tours.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.ErrNotFound
		}
		if in.Nombre != nil {
			t.Nombre = *in.Nombre
		}
		if in.Descripcion != nil {
			t.Descripcion = *in.Descripcion
		}
		if in.CupoMin != nil {
			t.CupoMin = *in.CupoMin
		}
		if in.CupoMax != nil {
			t.CupoMax = *in.CupoMax
		}
		if in.FechaSalida != nil {
			t.FechaSalida = *in.FechaSalida
		}
		if in.FechaRegreso != nil {
			t.FechaRegreso = *in.FechaRegreso
		}
		if in.Precio != nil {
			t.Precio = *in.Precio
		}
		if err := validarTour(t); err != nil {
			return err
		}
		reservados, err = repos.Tours.CuposReservados(ctx, id)
		if err != nil {
			return err
		}
		if ocupados := reserva.CuposReservados(reservados); t.CupoMax < ocupados {
			return domain.NewValidationError("cupo_max",
				fmt.Sprintf("no puede ser menor que los cupos ya reservados (%d)", ocupados))
		}
		t.Estado = reserva.EstadoTourTrasCambio(t.Estado, reserva.CuposDisponibles(t.CupoMax, reservados))
		t.UpdatedAt = time.Now().UTC()
		if err := repos.Tours.Update(ctx, t); err != nil {
			return err
		}
		tour = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toTourResponse(tour, reservados), nil
}

// CambiarEstado fija el estado del tour. Un DISPONIBLE sin cupos queda AGOTADO.
func (uc *TourUseCase) CambiarEstado(ctx context.Context, id string, in dto.CambiarEstadoTourRequest) (*dto.TourResponse, error) {
	if !entity.EsEstadoTourValido(in.Estado) {
		return nil, domain.NewValidationError("estado", "estado de tour desconocido")
	}
	var (
		tour       *entity.Tour
		reservados []entity.CupoReservado
	)
	err := uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		t, err := repos.Tours.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.ErrNotFound
		}
		reservados, err = repos.Tours.CuposReservados(ctx, id)
		if err != nil {
			return err
		}
		t.Estado = reserva.EstadoTourTrasCambio(in.Estado, reserva.CuposDisponibles(t.CupoMax, reservados))
		if err := repos.Tours.UpdateEstado(ctx, id, t.Estado); err != nil {
			return err
		}
		tour = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toTourResponse(tour, reservados), nil
}

func validarTour(t *entity.Tour) error {
	v := &domain.ValidationError{Fields: map[string]string{}}
	if t.CupoMin > t.CupoMax {
		v.Fields["cupo_min"] = "no puede ser mayor que cupo_max"
	}
	if t.FechaRegreso.Before(t.FechaSalida) {
		v.Fields["fecha_regreso"] = "no puede ser anterior a fecha_salida"
	}
	if t.Precio.IsNegative() {
		v.Fields["precio"] = "no puede ser negativo"
	}
	if !entity.EsEstadoTourValido(t.Estado) {
		v.Fields["estado"] = "estado de tour desconocido"
	}
	if len(v.Fields) > 0 {
		return v
	}
	return nil
}

func toTourResponse(t *entity.Tour, reservados []entity.CupoReservado) *dto.TourResponse {
	return &dto.TourResponse{
		ID:               t.ID,
		Nombre:           t.Nombre,
		Descripcion:      t.Descripcion,
		CupoMin:          t.CupoMin,
		CupoMax:          t.CupoMax,
		CuposReservados:  reserva.CuposReservados(reservados),
		CuposDisponibles: reserva.CuposDisponibles(t.CupoMax, reservados),
		FechaSalida:      t.FechaSalida,
		FechaRegreso:     t.FechaRegreso,
		Precio:           t.Precio,
		Estado:           t.Estado,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}
