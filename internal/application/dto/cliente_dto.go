package dto

import "time"

// CreateClienteRequest entrada para registrar un cliente.
type CreateClienteRequest struct {
	Nombre    string `json:"nombre" validate:"required,max=200"`
	Documento string `json:"documento" validate:"required,max=30"`
	Email     string `json:"email" validate:"required,email"`
	Telefono  string `json:"telefono" validate:"omitempty,max=30"`
}

// ClienteResponse salida de cliente.
type ClienteResponse struct {
	ID        string    `json:"id"`
	Nombre    string    `json:"nombre"`
	Documento string    `json:"documento"`
	Email     string    `json:"email"`
	Telefono  string    `json:"telefono"`
	CreatedAt time.Time `json:"created_at"`
}
