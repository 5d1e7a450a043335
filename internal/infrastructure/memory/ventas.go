package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Turismo-api/internal/domain"
	"github.com/jhoicas/Turismo-api/internal/domain/entity"
	"github.com/jhoicas/Turismo-api/internal/domain/repository"
)

var (
	_ repository.VentaRepository = (*VentaRepo)(nil)
	_ repository.PagoRepository  = (*PagoRepo)(nil)
)

// VentaRepo ventas en memoria.
type VentaRepo struct {
	s  *Store
	tx *data
}

// NewVentaRepository repositorio fuera de transacción.
func NewVentaRepository(s *Store) *VentaRepo { return &VentaRepo{s: s} }

func (r *VentaRepo) Create(_ context.Context, v *entity.Venta) error {
	return r.s.write(r.tx, func(d *data) error {
		if _, ok := d.ventas[v.ID]; ok {
			return domain.ErrDuplicate
		}
		x := *v
		x.Detalles = nil
		d.ventas[v.ID] = x
		return nil
	})
}

func (r *VentaRepo) CreateDetalle(_ context.Context, det *entity.DetalleVenta) error {
	return r.s.write(r.tx, func(d *data) error {
		if _, ok := d.ventas[det.VentaID]; !ok {
			return domain.ErrNotFound
		}
		d.detallesVenta = append(d.detallesVenta, *det)
		return nil
	})
}

func (d *data) conDetallesVenta(v entity.Venta) *entity.Venta {
	v.Detalles = nil
	for _, det := range d.detallesVenta {
		if det.VentaID == v.ID {
			det := det
			v.Detalles = append(v.Detalles, &det)
		}
	}
	return &v
}

func (r *VentaRepo) GetByID(_ context.Context, id string) (*entity.Venta, error) {
	var out *entity.Venta
	r.s.read(r.tx, func(d *data) {
		if v, ok := d.ventas[id]; ok {
			out = d.conDetallesVenta(v)
		}
	})
	return out, nil
}

func (r *VentaRepo) GetForUpdate(ctx context.Context, id string) (*entity.Venta, error) {
	return r.GetByID(ctx, id)
}

func (r *VentaRepo) UpdateEstado(_ context.Context, id, estado string) error {
	return r.s.write(r.tx, func(d *data) error {
		if v, ok := d.ventas[id]; ok {
			v.Estado = estado
			v.UpdatedAt = time.Now().UTC()
			d.ventas[v.ID] = v
		}
		return nil
	})
}

func (r *VentaRepo) List(_ context.Context, estado string, limit, offset int) ([]*entity.Venta, error) {
	var list []*entity.Venta
	r.s.read(r.tx, func(d *data) {
		for _, v := range d.ventas {
			if estado == "" || v.Estado == estado {
				list = append(list, d.conDetallesVenta(v))
			}
		}
	})
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Fecha.Equal(list[j].Fecha) {
			return list[i].Fecha.After(list[j].Fecha)
		}
		return list[i].ID < list[j].ID
	})
	from, to := page(len(list), limit, offset)
	return list[from:to], nil
}

// PagoRepo pagos en memoria.
type PagoRepo struct {
	s  *Store
	tx *data
}

// NewPagoRepository repositorio fuera de transacción.
func NewPagoRepository(s *Store) *PagoRepo { return &PagoRepo{s: s} }

func (r *PagoRepo) Create(_ context.Context, p *entity.Pago) error {
	return r.s.write(r.tx, func(d *data) error {
		for _, x := range d.pagos {
			if x.Referencia == p.Referencia {
				return domain.ErrDuplicate
			}
		}
		d.pagos[p.ID] = *p
		return nil
	})
}

func (r *PagoRepo) GetByReferencia(_ context.Context, referencia string) (*entity.Pago, error) {
	var out *entity.Pago
	r.s.read(r.tx, func(d *data) {
		for _, p := range d.pagos {
			if p.Referencia == referencia {
				p := p
				out = &p
				return
			}
		}
	})
	return out, nil
}

func (r *PagoRepo) Update(_ context.Context, p *entity.Pago) error {
	return r.s.write(r.tx, func(d *data) error {
		if _, ok := d.pagos[p.ID]; !ok {
			return domain.ErrNotFound
		}
		x := *p
		x.UpdatedAt = time.Now().UTC()
		d.pagos[p.ID] = x
		return nil
	})
}

func (r *PagoRepo) filtrar(keep func(p entity.Pago) bool) []*entity.Pago {
	var list []*entity.Pago
	r.s.read(r.tx, func(d *data) {
		for _, p := range d.pagos {
			if keep(p) {
				p := p
				list = append(list, &p)
			}
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list
}

func (r *PagoRepo) ListByVenta(_ context.Context, ventaID string) ([]*entity.Pago, error) {
	return r.filtrar(func(p entity.Pago) bool { return p.VentaID != nil && *p.VentaID == ventaID }), nil
}

func (r *PagoRepo) ListByVentas(_ context.Context, ventaIDs []string) (map[string][]*entity.Pago, error) {
	ids := make(map[string]bool, len(ventaIDs))
	for _, id := range ventaIDs {
		ids[id] = true
	}
	out := make(map[string][]*entity.Pago)
	for _, p := range r.filtrar(func(p entity.Pago) bool { return p.VentaID != nil && ids[*p.VentaID] }) {
		out[*p.VentaID] = append(out[*p.VentaID], p)
	}
	return out, nil
}

func (r *PagoRepo) ListByReserva(_ context.Context, reservaID string) ([]*entity.Pago, error) {
	return r.filtrar(func(p entity.Pago) bool { return p.ReservaID != nil && *p.ReservaID == reservaID }), nil
}
