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
	_ repository.ProductoRepository   = (*ProductoRepo)(nil)
	_ repository.InventarioRepository = (*InventarioRepo)(nil)
)

// ProductoRepo productos en memoria.
type ProductoRepo struct {
	s  *Store
	tx *data
}

// NewProductoRepository repositorio fuera de transacción.
func NewProductoRepository(s *Store) *ProductoRepo { return &ProductoRepo{s: s} }

func (r *ProductoRepo) Create(_ context.Context, p *entity.Producto) error {
	return r.s.write(r.tx, func(d *data) error {
		for _, x := range d.productos {
			if x.Codigo == p.Codigo {
				return domain.ErrDuplicate
			}
		}
		d.productos[p.ID] = *p
		return nil
	})
}

func (r *ProductoRepo) GetByID(_ context.Context, id string) (*entity.Producto, error) {
	var out *entity.Producto
	r.s.read(r.tx, func(d *data) {
		if p, ok := d.productos[id]; ok {
			out = &p
		}
	})
	return out, nil
}

func (r *ProductoRepo) GetByCodigo(_ context.Context, codigo string) (*entity.Producto, error) {
	var out *entity.Producto
	r.s.read(r.tx, func(d *data) {
		for _, p := range d.productos {
			if p.Codigo == codigo {
				p := p
				out = &p
				return
			}
		}
	})
	return out, nil
}

func (r *ProductoRepo) GetForUpdate(ctx context.Context, id string) (*entity.Producto, error) {
	return r.GetByID(ctx, id)
}

// Update no modifica stock_actual.
func (r *ProductoRepo) Update(_ context.Context, p *entity.Producto) error {
	return r.s.write(r.tx, func(d *data) error {
		cur, ok := d.productos[p.ID]
		if !ok {
			return nil
		}
		v := *p
		v.StockActual = cur.StockActual
		d.productos[p.ID] = v
		return nil
	})
}

func (r *ProductoRepo) UpdateStock(_ context.Context, id string, stock int) error {
	return r.s.write(r.tx, func(d *data) error {
		p, ok := d.productos[id]
		if !ok {
			return domain.ErrNotFound
		}
		p.StockActual = stock
		p.UpdatedAt = time.Now().UTC()
		d.productos[p.ID] = p
		return nil
	})
}

func (r *ProductoRepo) List(_ context.Context, limit, offset int) ([]*entity.Producto, error) {
	list := r.filtrar(func(*entity.Producto) bool { return true })
	from, to := page(len(list), limit, offset)
	return list[from:to], nil
}

func (r *ProductoRepo) ListBajoStock(_ context.Context) ([]*entity.Producto, error) {
	return r.filtrar((*entity.Producto).BajoStock), nil
}

func (r *ProductoRepo) filtrar(keep func(*entity.Producto) bool) []*entity.Producto {
	var list []*entity.Producto
	r.s.read(r.tx, func(d *data) {
		for _, p := range d.productos {
			p := p
			if keep(&p) {
				list = append(list, &p)
			}
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Nombre < list[j].Nombre })
	return list
}

// InventarioRepo libro de inventario en memoria (solo inserción).
type InventarioRepo struct {
	s  *Store
	tx *data
}

// NewInventarioRepository repositorio fuera de transacción.
func NewInventarioRepository(s *Store) *InventarioRepo { return &InventarioRepo{s: s} }

func (r *InventarioRepo) Create(_ context.Context, m *entity.Inventario) error {
	return r.s.write(r.tx, func(d *data) error {
		if _, ok := d.productos[m.ProductoID]; !ok {
			return domain.ErrNotFound
		}
		d.movimientos = append(d.movimientos, *m)
		return nil
	})
}

func (r *InventarioRepo) ListByProducto(_ context.Context, productoID string) ([]*entity.Inventario, error) {
	var list []*entity.Inventario
	r.s.read(r.tx, func(d *data) {
		for _, m := range d.movimientos {
			if m.ProductoID == productoID {
				m := m
				list = append(list, &m)
			}
		}
	})
	return list, nil
}
