package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Turismo-api/internal/domain"
	"github.com/jhoicas/Turismo-api/internal/domain/entity"
	"github.com/jhoicas/Turismo-api/internal/domain/repository"
	"github.com/jhoicas/Turismo-api/internal/domain/reserva"
)

var _ repository.ReservaRepository = (*ReservaRepo)(nil)

const reservaColumns = `id, fecha, estado, mayores_edad, menores_edad, total, cliente_id, empleado_id, created_at, updated_at`

// ReservaRepo implementación del puerto ReservaRepository sobre PostgreSQL.
type ReservaRepo struct {
	q Querier
}

// NewReservaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReservaRepository(q Querier) *ReservaRepo {
	return &ReservaRepo{q: q}
}

func scanReserva(row pgx.Row) (*entity.Reserva, error) {
	var r entity.Reserva
	err := row.Scan(&r.ID, &r.Fecha, &r.Estado, &r.MayoresEdad, &r.MenoresEdad, &r.Total, &r.ClienteID,
		&r.EmpleadoID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Create persiste la cabecera de la reserva.
func (r *ReservaRepo) Create(ctx context.Context, res *entity.Reserva) error {
	query := `
		INSERT INTO reservas (` + reservaColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		res.ID, res.Fecha, res.Estado, res.MayoresEdad, res.MenoresEdad, res.Total, res.ClienteID,
		res.EmpleadoID, res.CreatedAt, res.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.NewValidationError("cliente_id", "el cliente no existe")
		}
		return fmt.Errorf("insert reserva: %w", err)
	}
	return nil
}

// CreateDetalle persiste una línea de la reserva.
func (r *ReservaRepo) CreateDetalle(ctx context.Context, d *entity.DetalleReservaTour) error {
	query := `
		INSERT INTO detalle_reserva_tours (id, reserva_id, tour_id, cupos_reservados, precio_unitario, precio_total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.ReservaID, d.TourID, d.CuposReservados, d.PrecioUnitario, d.PrecioTotal, d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert detalle reserva: %w", err)
	}
	return nil
}

// GetByID obtiene la reserva con sus detalles; nil si no existe.
func (r *ReservaRepo) GetByID(ctx context.Context, id string) (*entity.Reserva, error) {
	return r.get(ctx, `SELECT `+reservaColumns+` FROM reservas WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila de la reserva (los detalles son inmutables).
func (r *ReservaRepo) GetForUpdate(ctx context.Context, id string) (*entity.Reserva, error) {
	return r.get(ctx, `SELECT `+reservaColumns+` FROM reservas WHERE id = $1 FOR UPDATE`, id)
}

func (r *ReservaRepo) get(ctx context.Context, query, id string) (*entity.Reserva, error) {
	res, err := scanReserva(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if noEncontrado(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reserva: %w", err)
	}
	detalles, err := r.detalles(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	res.Detalles = detalles[id]
	return res, nil
}

func (r *ReservaRepo) detalles(ctx context.Context, ids []string) (map[string][]*entity.DetalleReservaTour, error) {
	query := `
		SELECT id, reserva_id, tour_id, cupos_reservados, precio_unitario, precio_total, created_at
		FROM detalle_reserva_tours WHERE reserva_id = ANY($1::uuid[]) ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list detalles reserva: %w", err)
	}
	defer rows.Close()
	out := make(map[string][]*entity.DetalleReservaTour)
	for rows.Next() {
		var d entity.DetalleReservaTour
		if err := rows.Scan(&d.ID, &d.ReservaID, &d.TourID, &d.CuposReservados, &d.PrecioUnitario, &d.PrecioTotal, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan detalle reserva: %w", err)
		}
		out[d.ReservaID] = append(out[d.ReservaID], &d)
	}
	return out, rows.Err()
}

// UpdateEstado escribe solo el estado.
func (r *ReservaRepo) UpdateEstado(ctx context.Context, id, estado string) error {
	_, err := r.q.Exec(ctx, `UPDATE reservas SET estado = $2, updated_at = now() WHERE id = $1`, id, estado)
	if err != nil {
		return fmt.Errorf("update reserva estado: %w", err)
	}
	return nil
}

// UpdateEstadoYFecha escribe estado y fecha (reprogramación).
func (r *ReservaRepo) UpdateEstadoYFecha(ctx context.Context, id, estado string, fecha time.Time) error {
	_, err := r.q.Exec(ctx, `UPDATE reservas SET estado = $2, fecha = $3, updated_at = now() WHERE id = $1`, id, estado, fecha)
	if err != nil {
		return fmt.Errorf("update reserva fecha: %w", err)
	}
	return nil
}

// AsignarEmpleado fija empleado_id.
func (r *ReservaRepo) AsignarEmpleado(ctx context.Context, id, empleadoID string) error {
	_, err := r.q.Exec(ctx, `UPDATE reservas SET empleado_id = $2, updated_at = now() WHERE id = $1`, id, empleadoID)
	if err != nil {
		return fmt.Errorf("asignar empleado: %w", err)
	}
	return nil
}

// List lista reservas recientes primero, con sus detalles.
func (r *ReservaRepo) List(ctx context.Context, f repository.ReservaFiltro) ([]*entity.Reserva, error) {
	query := `
		SELECT ` + reservaColumns + ` FROM reservas
		WHERE ($1::text[] IS NULL OR upper(translate(estado, 'ÁÉÍÓÚáéíóú -_.', 'AEIOUaeiou')) = ANY($1))
		  AND ($2 = '' OR cliente_id::text = $2)
		ORDER BY created_at DESC, id LIMIT $3 OFFSET $4`
	var grafias []string
	if f.Estado != "" {
		grafias = reserva.Grafias(f.Estado)
	}
	rows, err := r.q.Query(ctx, query, grafias, f.ClienteID, f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list reservas: %w", err)
	}
	var (
		list []*entity.Reserva
		ids  []string
	)
	for rows.Next() {
		res, err := scanReserva(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan reserva: %w", err)
		}
		list = append(list, res)
		ids = append(ids, res.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return list, nil
	}
	detalles, err := r.detalles(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, res := range list {
		res.Detalles = detalles[res.ID]
	}
	return list, nil
}
