package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Turismo-api/internal/domain"
	"github.com/jhoicas/Turismo-api/internal/domain/entity"
	"github.com/jhoicas/Turismo-api/internal/domain/repository"
)

var (
	_ repository.ProductoRepository   = (*ProductoRepo)(nil)
	_ repository.InventarioRepository = (*InventarioRepo)(nil)
)

const productoColumns = `id, codigo, nombre, descripcion, precio, stock_actual, stock_minimo, created_at, updated_at`

// ProductoRepo implementación del puerto ProductoRepository sobre PostgreSQL (usable con pool o tx).
type ProductoRepo struct {
	q Querier
}

// NewProductoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductoRepository(q Querier) *ProductoRepo {
	return &ProductoRepo{q: q}
}

func scanProducto(row pgx.Row) (*entity.Producto, error) {
	var p entity.Producto
	err := row.Scan(&p.ID, &p.Codigo, &p.Nombre, &p.Descripcion, &p.Precio, &p.StockActual, &p.StockMinimo,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto.
func (r *ProductoRepo) Create(ctx context.Context, p *entity.Producto) error {
	query := `
		INSERT INTO productos (` + productoColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Codigo, p.Nombre, p.Descripcion, p.Precio, p.StockActual, p.StockMinimo, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert producto: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID; nil si no existe.
func (r *ProductoRepo) GetByID(ctx context.Context, id string) (*entity.Producto, error) {
	return r.get(ctx, `SELECT `+productoColumns+` FROM productos WHERE id = $1`, id)
}

// GetByCodigo obtiene un producto por código.
func (r *ProductoRepo) GetByCodigo(ctx context.Context, codigo string) (*entity.Producto, error) {
	return r.get(ctx, `SELECT `+productoColumns+` FROM productos WHERE codigo = $1`, codigo)
}

// GetForUpdate bloquea la fila del producto hasta el fin de la transacción.
func (r *ProductoRepo) GetForUpdate(ctx context.Context, id string) (*entity.Producto, error) {
	return r.get(ctx, `SELECT `+productoColumns+` FROM productos WHERE id = $1 FOR UPDATE`, id)
}

func (r *ProductoRepo) get(ctx context.Context, query, arg string) (*entity.Producto, error) {
	p, err := scanProducto(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if noEncontrado(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get producto: %w", err)
	}
	return p, nil
}

// Update actualiza un producto existente. No toca stock_actual (se maneja vía movimientos).
func (r *ProductoRepo) Update(ctx context.Context, p *entity.Producto) error {
	query := `
		UPDATE productos SET nombre = $2, descripcion = $3, precio = $4, stock_minimo = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, p.ID, p.Nombre, p.Descripcion, p.Precio, p.StockMinimo, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update producto: %w", err)
	}
	return nil
}

// UpdateStock escribe el stock materializado (usado por el libro de inventario).
func (r *ProductoRepo) UpdateStock(ctx context.Context, id string, stock int) error {
	cmd, err := r.q.Exec(ctx, `UPDATE productos SET stock_actual = $2, updated_at = now() WHERE id = $1`, id, stock)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientStock
		}
		return fmt.Errorf("update producto stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos por nombre con paginación.
func (r *ProductoRepo) List(ctx context.Context, limit, offset int) ([]*entity.Producto, error) {
	return r.list(ctx, `SELECT `+productoColumns+` FROM productos ORDER BY nombre, id LIMIT $1 OFFSET $2`, limit, offset)
}

// ListBajoStock productos con stock_actual <= stock_minimo.
func (r *ProductoRepo) ListBajoStock(ctx context.Context) ([]*entity.Producto, error) {
	return r.list(ctx, `SELECT `+productoColumns+` FROM productos WHERE stock_actual <= stock_minimo ORDER BY nombre, id`)
}

func (r *ProductoRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Producto, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list productos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Producto
	for rows.Next() {
		p, err := scanProducto(rows)
		if err != nil {
			return nil, fmt.Errorf("scan producto: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// InventarioRepo libro de inventario sobre PostgreSQL. Solo inserción.
type InventarioRepo struct {
	q Querier
}

// NewInventarioRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventarioRepository(q Querier) *InventarioRepo {
	return &InventarioRepo{q: q}
}

// Create inserta una fila del libro.
func (r *InventarioRepo) Create(ctx context.Context, m *entity.Inventario) error {
	query := `
		INSERT INTO inventarios (id, producto_id, tipo_movimiento, cantidad, stock_anterior, stock_resultante,
			motivo, referencia, user_id, fecha_movimiento)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, '')::uuid, $10)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductoID, m.TipoMovimiento, m.Cantidad, m.StockAnterior, m.StockResultante,
		m.Motivo, m.Referencia, m.UserID, m.FechaMovimiento,
	)
	if err != nil {
		return fmt.Errorf("insert movimiento: %w", err)
	}
	return nil
}

// ListByProducto movimientos del producto en orden cronológico.
func (r *InventarioRepo) ListByProducto(ctx context.Context, productoID string) ([]*entity.Inventario, error) {
	query := `
		SELECT id, producto_id, tipo_movimiento, cantidad, stock_anterior, stock_resultante, motivo, referencia,
			COALESCE(user_id::text, ''), fecha_movimiento
		FROM inventarios WHERE producto_id = $1 ORDER BY seq`
	rows, err := r.q.Query(ctx, query, productoID)
	if err != nil {
		return nil, fmt.Errorf("list movimientos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Inventario
	for rows.Next() {
		var m entity.Inventario
		if err := rows.Scan(&m.ID, &m.ProductoID, &m.TipoMovimiento, &m.Cantidad, &m.StockAnterior, &m.StockResultante,
			&m.Motivo, &m.Referencia, &m.UserID, &m.FechaMovimiento); err != nil {
			return nil, fmt.Errorf("scan movimiento: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
