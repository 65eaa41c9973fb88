// Package postgres implementa el store primario sobre pgx.
package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/clocwise-api/internal/domain/repository"
)

//go:embed schema.sql
var schemaSQL string

var _ repository.Store = (*Store)(nil)

// Store agrupa los repositorios PostgreSQL sobre un mismo pool.
// Cada operación queda acotada por queryTimeout y sus errores de conectividad
// salen envueltos en domain.ErrBackendUnavailable.
type Store struct {
	pool         *pgxpool.Pool
	tx           *TxRunner
	queryTimeout time.Duration

	schemaMu    sync.Mutex
	schemaReady atomic.Bool
}

// NewStore construye el store. queryTimeout <= 0 desactiva la cota por operación.
func NewStore(pool *pgxpool.Pool, queryTimeout time.Duration) *Store {
	return &Store{
		pool:         pool,
		tx:           NewTxRunner(pool),
		queryTimeout: queryTimeout,
	}
}

func (s *Store) Users() repository.UserRepository           { return &UserRepo{s: s} }
func (s *Store) Clients() repository.ClientRepository       { return &ClientRepo{s: s} }
func (s *Store) Projects() repository.ProjectRepository     { return &ProjectRepo{s: s} }
func (s *Store) TimeEntries() repository.TimeEntryRepository { return &TimeEntryRepo{s: s} }
func (s *Store) Stats() repository.StatsRepository          { return &StatsRepo{s: s} }

// Ping comprueba que el primario responde (y que el esquema está aplicado).
func (s *Store) Ping(ctx context.Context) error {
	return s.do(ctx, func(ctx context.Context) error {
		return s.pool.Ping(ctx)
	})
}

// do acota la operación, asegura el esquema y clasifica el error resultante.
func (s *Store) do(ctx context.Context, fn func(ctx context.Context) error) error {
	opCtx := ctx
	if s.queryTimeout > 0 {
		var cancel context.CancelFunc
		opCtx, cancel = context.WithTimeout(ctx, s.queryTimeout)
		defer cancel()
	}
	if err := s.ensureSchema(opCtx); err != nil {
		return classify(ctx, fmt.Errorf("apply schema: %w", err))
	}
	return classify(ctx, fn(opCtx))
}

// ensureSchema aplica schema.sql una vez por proceso. Si falla se reintenta
// en la siguiente operación.
func (s *Store) ensureSchema(ctx context.Context) error {
	if s.schemaReady.Load() {
		return nil
	}
	s.schemaMu.Lock()
	defer s.schemaMu.Unlock()
	if s.schemaReady.Load() {
		return nil
	}
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return err
	}
	s.schemaReady.Store(true)
	return nil
}
