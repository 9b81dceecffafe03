package query

import (
	"sync"
	"time"
)

// ttlCache es un caché en proceso de una sola entrada con TTL acotado, para
// vistas derivadas tolerantes a obsolescencia (la reconciliación provisional
// es explícitamente no autoritativa). Se invalida de forma anticipada en cada
// mutación de diario o balance y expira pasivamente.
// No hay una librería de caché en el stack del proyecto; el alcance (una
// entrada, un TTL) no justifica sumar una.
type ttlCache[T any] struct {
	mu      sync.Mutex
	value   T
	expires time.Time
	ttl     time.Duration
}

func newTTLCache[T any](ttl time.Duration) *ttlCache[T] {
	return &ttlCache[T]{ttl: ttl}
}

// get devuelve el valor vigente y si sigue siendo válido.
func (c *ttlCache[T]) get() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ttl <= 0 || time.Now().After(c.expires) {
		var zero T
		return zero, false
	}
	return c.value, true
}

// set guarda el valor y arranca el TTL.
func (c *ttlCache[T]) set(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = v
	c.expires = time.Now().Add(c.ttl)
}

// Invalidate descarta la entrada (hook de invalidación de mutaciones).
func (c *ttlCache[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expires = time.Time{}
}
