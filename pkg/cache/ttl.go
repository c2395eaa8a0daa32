package cache

import (
	"sync"
	"time"
)

// Cache es un cache en memoria con TTL y reloj inyectable. Se construye uno
// por proceso y se pasa explícitamente a quien lo necesite (los resolvers),
// en lugar de mantener estado mutable compartido a nivel de paquete.
type Cache[V any] struct {
	ttl time.Duration
	now func() time.Time

	mu    sync.RWMutex
	items map[string]item[V]
}

type item[V any] struct {
	value     V
	expiresAt time.Time
}

// New crea el cache. now permite inyectar un reloj falso en tests;
// nil usa time.Now.
func New[V any](ttl time.Duration, now func() time.Time) *Cache[V] {
	if now == nil {
		now = time.Now
	}
	return &Cache[V]{
		ttl:   ttl,
		now:   now,
		items: make(map[string]item[V]),
	}
}

// Get devuelve el valor si existe y no ha expirado.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || c.now().After(it.expiresAt) {
		var zero V
		return zero, false
	}
	return it.value, true
}

// Set guarda el valor con el TTL configurado.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	c.items[key] = item[V]{value: value, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// Purge elimina todas las entradas.
func (c *Cache[V]) Purge() {
	c.mu.Lock()
	c.items = make(map[string]item[V])
	c.mu.Unlock()
}

// Len devuelve el número de entradas (incluidas las expiradas aún no recolectadas).
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
