package cache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinukasrimal/agency-sync-api/pkg/cache"
)

// fakeClock es un reloj manual para controlar la expiración en tests.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func TestCache_GetYSet(t *testing.T) {
	clk := newFakeClock()
	c := cache.New[string](5*time.Minute, clk.Now)

	_, ok := c.Get("k")
	assert.False(t, ok, "una clave nunca escrita no debe existir")

	c.Set("k", "valor")
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "valor", got)
}

func TestCache_ExpiraDespuesDelTTL(t *testing.T) {
	clk := newFakeClock()
	c := cache.New[int](5*time.Minute, clk.Now)
	c.Set("k", 42)

	// Justo en el límite todavía es válido.
	clk.Advance(5 * time.Minute)
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 42, got)

	// Un instante después ya no.
	clk.Advance(time.Nanosecond)
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestCache_SetRenuevaElTTL(t *testing.T) {
	clk := newFakeClock()
	c := cache.New[string](time.Minute, clk.Now)
	c.Set("k", "v1")

	clk.Advance(50 * time.Second)
	c.Set("k", "v2")

	// El primer TTL ya habría vencido; el re-Set lo renovó.
	clk.Advance(30 * time.Second)
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v2", got)
}

func TestCache_PurgeYLen(t *testing.T) {
	c := cache.New[string](time.Minute, nil)
	c.Set("a", "1")
	c.Set("b", "2")
	assert.Equal(t, 2, c.Len())

	c.Purge()
	assert.Equal(t, 0, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
}

// El cache admite valores nil tipados: un "miss negativo" cacheado debe
// distinguirse de una clave ausente.
func TestCache_ValorNilCacheado(t *testing.T) {
	c := cache.New[*string](time.Minute, nil)
	c.Set("sin-match", nil)

	got, ok := c.Get("sin-match")
	require.True(t, ok)
	assert.Nil(t, got)
}
