package ports

import (
	"context"
	"time"
)

// IdempotencyStore registra claves ya procesadas (eventos de webhook).
type IdempotencyStore interface {
	// MarcarSiNuevo guarda la clave con ttl; devuelve false si ya existía.
	MarcarSiNuevo(ctx context.Context, clave string, ttl time.Duration) (bool, error)
	// Liberar borra la clave para permitir reintentos tras un fallo.
	Liberar(ctx context.Context, clave string) error
}
