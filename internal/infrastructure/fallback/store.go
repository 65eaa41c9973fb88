// Package fallback compone el store primario y el de respaldo detrás de un único
// repository.Store. Cada operación va primero al primario; si éste responde con
// domain.ErrBackendUnavailable la misma operación lógica se repite en el respaldo.
// Los errores de negocio del primario se devuelven sin reintentar.
package fallback

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/jhoicas/clocwise-api/internal/domain"
	"github.com/jhoicas/clocwise-api/internal/domain/repository"
	"github.com/jhoicas/clocwise-api/pkg/logger"
	"github.com/jhoicas/clocwise-api/pkg/metrics"
)

// Nombres del backend activo, como los reporta Active.
const (
	ActivePrimary  = "primary"
	ActiveFallback = "fallback"
	ActiveMemory   = "memory" // sin primario configurado
)

// DefaultProbeInterval espacio entre reintentos al primario mientras está caído.
const DefaultProbeInterval = 5 * time.Second

// Pinger lo implementa el primario para que el health check pueda sondearlo.
type Pinger interface {
	Ping(ctx context.Context) error
}

var _ repository.Store = (*Store)(nil)

// Store enruta cada operación entre primary y fallback.
type Store struct {
	primary  repository.Store
	fallback repository.Store

	healthy atomic.Bool
	probe   *rate.Limiter
	log     *logger.Logger
}

// Option personaliza el Store.
type Option func(*Store)

// WithProbeInterval fija cada cuánto se reintenta el primario caído. 0 = en cada operación.
func WithProbeInterval(d time.Duration) Option {
	return func(s *Store) {
		if d <= 0 {
			s.probe = rate.NewLimiter(rate.Inf, 1)
			return
		}
		s.probe = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithLogger inyecta el logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Store) { s.log = l.Component("fallback") }
}

// New compone los stores. primary puede ser nil: entonces todo va al respaldo.
func New(primary, fallback repository.Store, opts ...Option) *Store {
	s := &Store{
		primary:  primary,
		fallback: fallback,
		probe:    rate.NewLimiter(rate.Every(DefaultProbeInterval), 1),
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.healthy.Store(primary != nil)
	metrics.SetPrimaryUp(primary != nil)
	return s
}

func (s *Store) Users() repository.UserRepository           { return userRepo{s: s} }
func (s *Store) Clients() repository.ClientRepository       { return clientRepo{s: s} }
func (s *Store) Projects() repository.ProjectRepository     { return projectRepo{s: s} }
func (s *Store) TimeEntries() repository.TimeEntryRepository { return timeEntryRepo{s: s} }
func (s *Store) Stats() repository.StatsRepository          { return statsRepo{s: s} }

// Active indica qué backend atendería la próxima operación.
func (s *Store) Active() string {
	switch {
	case s.primary == nil:
		return ActiveMemory
	case s.healthy.Load():
		return ActivePrimary
	default:
		return ActiveFallback
	}
}

// Check sondea el primario (si sabe hacer Ping) y actualiza el estado.
// Lo usa el health check; respeta el mismo limitador que las operaciones.
func (s *Store) Check(ctx context.Context) string {
	pinger, ok := s.primary.(Pinger)
	if !ok || !s.tryPrimary() {
		return s.Active()
	}
	if err := pinger.Ping(ctx); err != nil {
		if domain.IsUnavailable(err) {
			s.markDown("ping", err)
		}
		return s.Active()
	}
	s.markUp("ping")
	return s.Active()
}

// tryPrimary decide si la operación actual debe intentar el primario.
func (s *Store) tryPrimary() bool {
	if s.primary == nil {
		return false
	}
	if s.healthy.Load() {
		return true
	}
	return s.probe.Allow()
}

func (s *Store) markDown(op string, err error) {
	if s.healthy.CompareAndSwap(true, false) {
		s.probe.Allow() // el próximo sondeo espera un intervalo completo
		metrics.SetPrimaryUp(false)
		s.log.Warn().Err(err).Str("operation", op).Msg("store primario no disponible, usando respaldo en memoria")
		return
	}
	s.log.Debug().Err(err).Str("operation", op).Msg("sondeo al primario falló")
}

func (s *Store) markUp(op string) {
	if s.healthy.CompareAndSwap(false, true) {
		metrics.SetPrimaryUp(true)
		s.log.Info().Str("operation", op).Msg("store primario recuperado")
	}
}

// call ejecuta fn contra el primario y, si éste no está disponible, contra el respaldo.
func call[T any](ctx context.Context, s *Store, op string, fn func(repository.Store) (T, error)) (T, error) {
	if s.tryPrimary() {
		v, err := fn(s.primary)
		if !domain.IsUnavailable(err) {
			s.markUp(op)
			metrics.RecordStoreOperation(metrics.BackendPrimary, op, result(err))
			return v, err
		}
		metrics.RecordStoreOperation(metrics.BackendPrimary, op, metrics.ResultUnavailable)
		s.markDown(op, err)
	}
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}
	v, err := fn(s.fallback)
	metrics.RecordStoreOperation(metrics.BackendFallback, op, result(err))
	return v, err
}

// exec es call para operaciones sin valor de retorno.
func exec(ctx context.Context, s *Store, op string, fn func(repository.Store) error) error {
	_, err := call(ctx, s, op, func(b repository.Store) (struct{}, error) {
		return struct{}{}, fn(b)
	})
	return err
}

func result(err error) string {
	if err != nil {
		return metrics.ResultError
	}
	return metrics.ResultOK
}
