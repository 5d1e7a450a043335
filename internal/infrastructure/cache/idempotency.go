// Package cache almacenes de claves de idempotencia (Redis o memoria).
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/jhoicas/Turismo-api/internal/application/ports"
)

var (
	_ ports.IdempotencyStore = (*RedisIdempotency)(nil)
	_ ports.IdempotencyStore = (*MemoryIdempotency)(nil)
)

// RedisIdempotency usa SETNX con TTL; sirve entre varias réplicas de la API.
type RedisIdempotency struct {
	rdb *redis.Client
}

// NewRedisClient conecta y hace ping a Redis.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// NewRedisIdempotency construye el almacén sobre un cliente ya conectado.
func NewRedisIdempotency(rdb *redis.Client) *RedisIdempotency {
	return &RedisIdempotency{rdb: rdb}
}

// MarcarSiNuevo devuelve true si la clave no existía.
func (s *RedisIdempotency) MarcarSiNuevo(ctx context.Context, clave string, ttl time.Duration) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, "idempotency:"+clave, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

// Liberar borra la clave.
func (s *RedisIdempotency) Liberar(ctx context.Context, clave string) error {
	return s.rdb.Del(ctx, "idempotency:"+clave).Err()
}

// MemoryIdempotency almacén local para una sola instancia y para tests.
type MemoryIdempotency struct {
	mu     sync.Mutex
	claves map[string]time.Time
	now    func() time.Time
}

// NewMemoryIdempotency construye el almacén en memoria.
func NewMemoryIdempotency() *MemoryIdempotency {
	return &MemoryIdempotency{claves: make(map[string]time.Time), now: time.Now}
}

// MarcarSiNuevo devuelve true si la clave no existía o ya expiró.
func (s *MemoryIdempotency) MarcarSiNuevo(_ context.Context, clave string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if vence, ok := s.claves[clave]; ok && now.Before(vence) {
		return false, nil
	}
	s.claves[clave] = now.Add(ttl)
	return true, nil
}

// Liberar borra la clave.
func (s *MemoryIdempotency) Liberar(_ context.Context, clave string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.claves, clave)
	return nil
}
