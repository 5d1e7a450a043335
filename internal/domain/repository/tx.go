package repository

import "context"

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Tours      TourRepository
	Reservas   ReservaRepository
	Productos  ProductoRepository
	Inventario InventarioRepository
	Ventas     VentaRepository
	Pagos      PagoRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD: Commit si fn devuelve nil, Rollback si no.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
