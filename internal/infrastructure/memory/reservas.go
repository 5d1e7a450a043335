package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Turismo-api/internal/domain"
	"github.com/jhoicas/Turismo-api/internal/domain/entity"
	"github.com/jhoicas/Turismo-api/internal/domain/repository"
	"github.com/jhoicas/Turismo-api/internal/domain/reserva"
)

var (
	_ repository.TourRepository    = (*TourRepo)(nil)
	_ repository.ReservaRepository = (*ReservaRepo)(nil)
)

// TourRepo tours en memoria.
type TourRepo struct {
	s  *Store
	tx *data
}

// NewTourRepository repositorio fuera de transacción.
func NewTourRepository(s *Store) *TourRepo { return &TourRepo{s: s} }

func (r *TourRepo) Create(_ context.Context, t *entity.Tour) error {
	return r.s.write(r.tx, func(d *data) error {
		if _, ok := d.tours[t.ID]; ok {
			return domain.ErrDuplicate
		}
		d.tours[t.ID] = *t
		return nil
	})
}

func (r *TourRepo) GetByID(_ context.Context, id string) (*entity.Tour, error) {
	var out *entity.Tour
	r.s.read(r.tx, func(d *data) {
		if t, ok := d.tours[id]; ok {
			out = &t
		}
	})
	return out, nil
}

func (r *TourRepo) GetForUpdate(ctx context.Context, id string) (*entity.Tour, error) {
	return r.GetByID(ctx, id)
}

func (r *TourRepo) Update(_ context.Context, t *entity.Tour) error {
	return r.s.write(r.tx, func(d *data) error {
		if _, ok := d.tours[t.ID]; ok {
			d.tours[t.ID] = *t
		}
		return nil
	})
}

func (r *TourRepo) UpdateEstado(_ context.Context, id, estado string) error {
	return r.s.write(r.tx, func(d *data) error {
		if t, ok := d.tours[id]; ok {
			t.Estado = estado
			t.UpdatedAt = time.Now().UTC()
			d.tours[t.ID] = t
		}
		return nil
	})
}

func (r *TourRepo) List(_ context.Context, estado string, limit, offset int) ([]*entity.Tour, error) {
	var list []*entity.Tour
	r.s.read(r.tx, func(d *data) {
		for _, t := range d.tours {
			if estado == "" || t.Estado == estado {
				t := t
				list = append(list, &t)
			}
		}
	})
	sort.Slice(list, func(i, j int) bool {
		if !list[i].FechaSalida.Equal(list[j].FechaSalida) {
			return list[i].FechaSalida.Before(list[j].FechaSalida)
		}
		return list[i].ID < list[j].ID
	})
	from, to := page(len(list), limit, offset)
	return list[from:to], nil
}

func (r *TourRepo) CuposReservados(_ context.Context, tourID string) ([]entity.CupoReservado, error) {
	var out []entity.CupoReservado
	r.s.read(r.tx, func(d *data) {
		for _, det := range d.detallesReserva {
			if det.TourID != tourID {
				continue
			}
			res, ok := d.reservas[det.ReservaID]
			if !ok {
				continue
			}
			out = append(out, entity.CupoReservado{ReservaID: res.ID, EstadoReserva: res.Estado, Cupos: det.CuposReservados})
		}
	})
	return out, nil
}

// ReservaRepo reservas en memoria.
type ReservaRepo struct {
	s  *Store
	tx *data
}

// NewReservaRepository repositorio fuera de transacción.
func NewReservaRepository(s *Store) *ReservaRepo { return &ReservaRepo{s: s} }

func (r *ReservaRepo) Create(_ context.Context, res *entity.Reserva) error {
	return r.s.write(r.tx, func(d *data) error {
		if _, ok := d.reservas[res.ID]; ok {
			return domain.ErrDuplicate
		}
		v := *res
		v.Detalles = nil
		d.reservas[res.ID] = v
		return nil
	})
}

func (r *ReservaRepo) CreateDetalle(_ context.Context, det *entity.DetalleReservaTour) error {
	return r.s.write(r.tx, func(d *data) error {
		if _, ok := d.reservas[det.ReservaID]; !ok {
			return domain.ErrNotFound
		}
		d.detallesReserva = append(d.detallesReserva, *det)
		return nil
	})
}

func (r *ReservaRepo) GetByID(_ context.Context, id string) (*entity.Reserva, error) {
	var out *entity.Reserva
	r.s.read(r.tx, func(d *data) {
		if res, ok := d.reservas[id]; ok {
			out = d.conDetallesReserva(res)
		}
	})
	return out, nil
}

func (d *data) conDetallesReserva(res entity.Reserva) *entity.Reserva {
	res.Detalles = nil
	for _, det := range d.detallesReserva {
		if det.ReservaID == res.ID {
			det := det
			res.Detalles = append(res.Detalles, &det)
		}
	}
	return &res
}

func (r *ReservaRepo) GetForUpdate(ctx context.Context, id string) (*entity.Reserva, error) {
	return r.GetByID(ctx, id)
}

func (r *ReservaRepo) update(id string, fn func(res *entity.Reserva)) error {
	return r.s.write(r.tx, func(d *data) error {
		res, ok := d.reservas[id]
		if !ok {
			return nil
		}
		fn(&res)
		res.UpdatedAt = time.Now().UTC()
		d.reservas[res.ID] = res
		return nil
	})
}

func (r *ReservaRepo) UpdateEstado(_ context.Context, id, estado string) error {
	return r.update(id, func(res *entity.Reserva) { res.Estado = estado })
}

func (r *ReservaRepo) UpdateEstadoYFecha(_ context.Context, id, estado string, fecha time.Time) error {
	return r.update(id, func(res *entity.Reserva) {
		res.Estado = estado
		res.Fecha = fecha
	})
}

func (r *ReservaRepo) AsignarEmpleado(_ context.Context, id, empleadoID string) error {
	return r.update(id, func(res *entity.Reserva) { res.EmpleadoID = &empleadoID })
}

func (r *ReservaRepo) List(_ context.Context, f repository.ReservaFiltro) ([]*entity.Reserva, error) {
	var list []*entity.Reserva
	r.s.read(r.tx, func(d *data) {
		for _, res := range d.reservas {
			if f.Estado != "" {
				if e, _ := reserva.NormalizarEstado(res.Estado); e != f.Estado {
					continue
				}
			}
			if f.ClienteID != "" && res.ClienteID != f.ClienteID {
				continue
			}
			list = append(list, d.conDetallesReserva(res))
		}
	})
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	from, to := page(len(list), f.Limit, f.Offset)
	return list[from:to], nil
}
