package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Turismo-api/internal/domain"
	"github.com/jhoicas/Turismo-api/internal/domain/entity"
	"github.com/jhoicas/Turismo-api/internal/domain/repository"
)

var _ repository.VentaRepository = (*VentaRepo)(nil)

const ventaColumns = `id, cliente_id, COALESCE(user_id::text, ''), fecha, total, estado, created_at, updated_at`

// VentaRepo implementación del puerto VentaRepository sobre PostgreSQL.
type VentaRepo struct {
	q Querier
}

// NewVentaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVentaRepository(q Querier) *VentaRepo {
	return &VentaRepo{q: q}
}

func scanVenta(row pgx.Row) (*entity.Venta, error) {
	var v entity.Venta
	if err := row.Scan(&v.ID, &v.ClienteID, &v.UserID, &v.Fecha, &v.Total, &v.Estado, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}

// Create persiste la cabecera de la venta.
func (r *VentaRepo) Create(ctx context.Context, v *entity.Venta) error {
	query := `
		INSERT INTO ventas (id, cliente_id, user_id, fecha, total, estado, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, v.ID, v.ClienteID, v.UserID, v.Fecha, v.Total, v.Estado, v.CreatedAt, v.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert venta: %w", err)
	}
	return nil
}

// CreateDetalle persiste una línea de venta.
func (r *VentaRepo) CreateDetalle(ctx context.Context, d *entity.DetalleVenta) error {
	query := `
		INSERT INTO detalle_ventas (id, venta_id, producto_id, cantidad, precio_unitario, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, d.ID, d.VentaID, d.ProductoID, d.Cantidad, d.PrecioUnitario, d.Subtotal)
	if err != nil {
		return fmt.Errorf("insert detalle venta: %w", err)
	}
	return nil
}

// GetByID obtiene la venta con sus detalles; nil si no existe.
func (r *VentaRepo) GetByID(ctx context.Context, id string) (*entity.Venta, error) {
	return r.get(ctx, `SELECT `+ventaColumns+` FROM ventas WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila de la venta.
func (r *VentaRepo) GetForUpdate(ctx context.Context, id string) (*entity.Venta, error) {
	return r.get(ctx, `SELECT `+ventaColumns+` FROM ventas WHERE id = $1 FOR UPDATE`, id)
}

func (r *VentaRepo) get(ctx context.Context, query, id string) (*entity.Venta, error) {
	v, err := scanVenta(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if noEncontrado(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get venta: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, venta_id, producto_id, cantidad, precio_unitario, subtotal
		FROM detalle_ventas WHERE venta_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("list detalles venta: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d entity.DetalleVenta
		if err := rows.Scan(&d.ID, &d.VentaID, &d.ProductoID, &d.Cantidad, &d.PrecioUnitario, &d.Subtotal); err != nil {
			return nil, fmt.Errorf("scan detalle venta: %w", err)
		}
		v.Detalles = append(v.Detalles, &d)
	}
	return v, rows.Err()
}

// UpdateEstado escribe solo el estado.
func (r *VentaRepo) UpdateEstado(ctx context.Context, id, estado string) error {
	_, err := r.q.Exec(ctx, `UPDATE ventas SET estado = $2, updated_at = now() WHERE id = $1`, id, estado)
	if err != nil {
		return fmt.Errorf("update venta estado: %w", err)
	}
	return nil
}

// List lista ventas recientes primero (sin detalles).
func (r *VentaRepo) List(ctx context.Context, estado string, limit, offset int) ([]*entity.Venta, error) {
	query := `
		SELECT ` + ventaColumns + ` FROM ventas
		WHERE ($1 = '' OR estado = $1)
		ORDER BY fecha DESC, id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, estado, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list ventas: %w", err)
	}
	defer rows.Close()
	var list []*entity.Venta
	for rows.Next() {
		v, err := scanVenta(rows)
		if err != nil {
			return nil, fmt.Errorf("scan venta: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}
