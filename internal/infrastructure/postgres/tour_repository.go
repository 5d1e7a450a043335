package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Turismo-api/internal/domain"
	"github.com/jhoicas/Turismo-api/internal/domain/entity"
	"github.com/jhoicas/Turismo-api/internal/domain/repository"
)

var _ repository.TourRepository = (*TourRepo)(nil)

const tourColumns = `id, nombre, descripcion, cupo_min, cupo_max, fecha_salida, fecha_regreso, precio, estado, created_at, updated_at`

// TourRepo implementación del puerto TourRepository sobre PostgreSQL (usable con pool o tx).
type TourRepo struct {
	q Querier
}

// NewTourRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTourRepository(q Querier) *TourRepo {
	return &TourRepo{q: q}
}

func scanTour(row pgx.Row) (*entity.Tour, error) {
	var t entity.Tour
	err := row.Scan(&t.ID, &t.Nombre, &t.Descripcion, &t.CupoMin, &t.CupoMax, &t.FechaSalida, &t.FechaRegreso,
		&t.Precio, &t.Estado, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create persiste un nuevo tour.
func (r *TourRepo) Create(ctx context.Context, t *entity.Tour) error {
	query := `
		INSERT INTO tours (` + tourColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.Nombre, t.Descripcion, t.CupoMin, t.CupoMax, t.FechaSalida, t.FechaRegreso,
		t.Precio, t.Estado, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert tour: %w", err)
	}
	return nil
}

// GetByID obtiene un tour por ID; nil si no existe.
func (r *TourRepo) GetByID(ctx context.Context, id string) (*entity.Tour, error) {
	return r.get(ctx, `SELECT `+tourColumns+` FROM tours WHERE id = $1`, id)
}

// GetForUpdate igual que GetByID pero bloquea la fila hasta el fin de la transacción.
func (r *TourRepo) GetForUpdate(ctx context.Context, id string) (*entity.Tour, error) {
	return r.get(ctx, `SELECT `+tourColumns+` FROM tours WHERE id = $1 FOR UPDATE`, id)
}

func (r *TourRepo) get(ctx context.Context, query, id string) (*entity.Tour, error) {
	t, err := scanTour(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if noEncontrado(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tour: %w", err)
	}
	return t, nil
}

// Update actualiza los datos del tour.
func (r *TourRepo) Update(ctx context.Context, t *entity.Tour) error {
	query := `
		UPDATE tours SET nombre = $2, descripcion = $3, cupo_min = $4, cupo_max = $5, fecha_salida = $6,
			fecha_regreso = $7, precio = $8, estado = $9, updated_at = $10
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.Nombre, t.Descripcion, t.CupoMin, t.CupoMax, t.FechaSalida, t.FechaRegreso, t.Precio, t.Estado, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update tour: %w", err)
	}
	return nil
}

// UpdateEstado cambia solo el estado.
func (r *TourRepo) UpdateEstado(ctx context.Context, id, estado string) error {
	_, err := r.q.Exec(ctx, `UPDATE tours SET estado = $2, updated_at = now() WHERE id = $1`, id, estado)
	if err != nil {
		return fmt.Errorf("update tour estado: %w", err)
	}
	return nil
}

// List lista tours por fecha de salida, opcionalmente filtrando por estado.
func (r *TourRepo) List(ctx context.Context, estado string, limit, offset int) ([]*entity.Tour, error) {
	query := `
		SELECT ` + tourColumns + ` FROM tours
		WHERE ($1 = '' OR estado = $1)
		ORDER BY fecha_salida, id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, estado, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list tours: %w", err)
	}
	defer rows.Close()
	var list []*entity.Tour
	for rows.Next() {
		t, err := scanTour(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tour: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// CuposReservados cupos de cada detalle del tour con el estado actual de su reserva.
func (r *TourRepo) CuposReservados(ctx context.Context, tourID string) ([]entity.CupoReservado, error) {
	query := `
		SELECT d.reserva_id, r.estado, d.cupos_reservados
		FROM detalle_reserva_tours d
		JOIN reservas r ON r.id = d.reserva_id
		WHERE d.tour_id = $1`
	rows, err := r.q.Query(ctx, query, tourID)
	if err != nil {
		return nil, fmt.Errorf("cupos reservados: %w", err)
	}
	defer rows.Close()
	var out []entity.CupoReservado
	for rows.Next() {
		var c entity.CupoReservado
		if err := rows.Scan(&c.ReservaID, &c.EstadoReserva, &c.Cupos); err != nil {
			return nil, fmt.Errorf("scan cupo: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
