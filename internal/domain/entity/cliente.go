package entity

import "time"

// Cliente titular de reservas y compras.
type Cliente struct {
	ID        string
	Nombre    string
	Documento string
	Email     string
	Telefono  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
