// Package idx genera identificadores ULID ordenables por tiempo.
// Ambos stores (postgres y memoria) asignan IDs con este paquete para que
// el formato sea idéntico sin importar el backend activo.
package idx

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// New devuelve un ULID nuevo con la hora actual (UTC).
// Dentro del mismo milisegundo la entropía monotónica mantiene el orden de generación.
func New() string {
	return NewAt(time.Now().UTC())
}

// NewAt genera un ULID con el instante t; útil en tests.
func NewAt(t time.Time) string {
	mu.Lock()
	defer mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// Valid indica si s es un ULID bien formado.
func Valid(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}
