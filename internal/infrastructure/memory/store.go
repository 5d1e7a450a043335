// Package memory almacenamiento en memoria con transacciones por snapshot.
// Se usa con DB_DRIVER=memory y como doble de la base de datos en tests.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Turismo-api/internal/domain/entity"
	"github.com/jhoicas/Turismo-api/internal/domain/repository"
)

type data struct {
	tours           map[string]entity.Tour
	reservas        map[string]entity.Reserva
	detallesReserva []entity.DetalleReservaTour
	productos       map[string]entity.Producto
	movimientos     []entity.Inventario
	ventas          map[string]entity.Venta
	detallesVenta   []entity.DetalleVenta
	pagos           map[string]entity.Pago
	clientes        map[string]entity.Cliente
	users           map[string]entity.User
}

func newData() *data {
	return &data{
		tours:     map[string]entity.Tour{},
		reservas:  map[string]entity.Reserva{},
		productos: map[string]entity.Producto{},
		ventas:    map[string]entity.Venta{},
		pagos:     map[string]entity.Pago{},
		clientes:  map[string]entity.Cliente{},
		users:     map[string]entity.User{},
	}
}

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (d *data) clone() *data {
	return &data{
		tours:           copyMap(d.tours),
		reservas:        copyMap(d.reservas),
		detallesReserva: append([]entity.DetalleReservaTour(nil), d.detallesReserva...),
		productos:       copyMap(d.productos),
		movimientos:     append([]entity.Inventario(nil), d.movimientos...),
		ventas:          copyMap(d.ventas),
		detallesVenta:   append([]entity.DetalleVenta(nil), d.detallesVenta...),
		pagos:           copyMap(d.pagos),
		clientes:        copyMap(d.clientes),
		users:           copyMap(d.users),
	}
}

// Store estado compartido. Las transacciones se serializan con txMu: equivale a que
// cada transacción tome el bloqueo de todas las filas que toca.
type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex
	d    *data
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{d: newData()}
}

// read ejecuta fn sobre la copia de la transacción o sobre el estado confirmado.
func (s *Store) read(tx *data, fn func(d *data)) {
	if tx != nil {
		fn(tx)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.d)
}

// write fuera de transacción se comporta como una transacción de una sola sentencia.
func (s *Store) write(tx *data, fn func(d *data) error) error {
	if tx != nil {
		return fn(tx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.d)
}

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta fn sobre una copia del estado y la publica solo si fn no falla.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run serializa la transacción; un error de fn descarta la copia (rollback).
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	r.s.mu.Lock()
	tx := r.s.d.clone()
	r.s.mu.Unlock()

	repos := repository.TxRepos{
		Tours:      &TourRepo{s: r.s, tx: tx},
		Reservas:   &ReservaRepo{s: r.s, tx: tx},
		Productos:  &ProductoRepo{s: r.s, tx: tx},
		Inventario: &InventarioRepo{s: r.s, tx: tx},
		Ventas:     &VentaRepo{s: r.s, tx: tx},
		Pagos:      &PagoRepo{s: r.s, tx: tx},
	}
	if err := fn(repos); err != nil {
		return err
	}

	r.s.mu.Lock()
	r.s.d = tx
	r.s.mu.Unlock()
	return nil
}

func page(n, limit, offset int) (int, int) {
	if offset > n {
		offset = n
	}
	end := n
	if limit > 0 && offset+limit < n {
		end = offset + limit
	}
	return offset, end
}
