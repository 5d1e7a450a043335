package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Turismo-api/internal/domain"
	"github.com/jhoicas/Turismo-api/internal/domain/entity"
	"github.com/jhoicas/Turismo-api/internal/domain/repository"
)

var _ repository.PagoRepository = (*PagoRepo)(nil)

const pagoColumns = `id, venta_id, reserva_id, referencia, transaccion_id, monto, moneda, estado, metodo, created_at, updated_at`

// PagoRepo implementación del puerto PagoRepository sobre PostgreSQL.
type PagoRepo struct {
	q Querier
}

// NewPagoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPagoRepository(q Querier) *PagoRepo {
	return &PagoRepo{q: q}
}

func scanPago(row pgx.Row) (*entity.Pago, error) {
	var p entity.Pago
	err := row.Scan(&p.ID, &p.VentaID, &p.ReservaID, &p.Referencia, &p.TransaccionID, &p.Monto, &p.Moneda,
		&p.Estado, &p.Metodo, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un pago nuevo.
func (r *PagoRepo) Create(ctx context.Context, p *entity.Pago) error {
	query := `
		INSERT INTO pagos (` + pagoColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.VentaID, p.ReservaID, p.Referencia, p.TransaccionID, p.Monto, p.Moneda, p.Estado, p.Metodo,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert pago: %w", err)
	}
	return nil
}

// GetByReferencia obtiene el pago por su referencia; nil si no existe.
func (r *PagoRepo) GetByReferencia(ctx context.Context, referencia string) (*entity.Pago, error) {
	p, err := scanPago(r.q.QueryRow(ctx, `SELECT `+pagoColumns+` FROM pagos WHERE referencia = $1`, referencia))
	if err != nil {
		if noEncontrado(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pago: %w", err)
	}
	return p, nil
}

// Update actualiza estado, transacción y método.
func (r *PagoRepo) Update(ctx context.Context, p *entity.Pago) error {
	_, err := r.q.Exec(ctx, `
		UPDATE pagos SET estado = $2, transaccion_id = $3, metodo = $4, updated_at = now()
		WHERE id = $1`, p.ID, p.Estado, p.TransaccionID, p.Metodo)
	if err != nil {
		return fmt.Errorf("update pago: %w", err)
	}
	return nil
}

// ListByVenta pagos de una venta.
func (r *PagoRepo) ListByVenta(ctx context.Context, ventaID string) ([]*entity.Pago, error) {
	return r.list(ctx, `SELECT `+pagoColumns+` FROM pagos WHERE venta_id = $1 ORDER BY created_at`, ventaID)
}

// ListByReserva pagos de una reserva.
func (r *PagoRepo) ListByReserva(ctx context.Context, reservaID string) ([]*entity.Pago, error) {
	return r.list(ctx, `SELECT `+pagoColumns+` FROM pagos WHERE reserva_id = $1 ORDER BY created_at`, reservaID)
}

// ListByVentas pagos de varias ventas agrupados por venta_id.
func (r *PagoRepo) ListByVentas(ctx context.Context, ventaIDs []string) (map[string][]*entity.Pago, error) {
	out := make(map[string][]*entity.Pago)
	if len(ventaIDs) == 0 {
		return out, nil
	}
	list, err := r.list(ctx, `SELECT `+pagoColumns+` FROM pagos WHERE venta_id = ANY($1::uuid[]) ORDER BY created_at`, ventaIDs)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		out[*p.VentaID] = append(out[*p.VentaID], p)
	}
	return out, nil
}

func (r *PagoRepo) list(ctx context.Context, query string, arg any) ([]*entity.Pago, error) {
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list pagos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Pago
	for rows.Next() {
		p, err := scanPago(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pago: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
