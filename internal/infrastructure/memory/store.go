// Package memory implementa el store de respaldo: volátil, en proceso y con
// bloqueo explícito. Se crea una vez al arrancar y sus datos se pierden al
// reiniciar el proceso.
//
// Hay un lock por familia lógica: uno para usuarios y otro para el árbol
// cliente → proyecto → registro de tiempo. Toda operación compuesta
// (buscar-e-insertar, cascada) corre completa dentro de su sección crítica.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/clocwise-api/internal/domain/entity"
	"github.com/jhoicas/clocwise-api/internal/domain/repository"
)

var _ repository.Store = (*Store)(nil)

// Store mantiene todas las entidades en mapas protegidos por mutex.
type Store struct {
	usersMu      sync.RWMutex
	usersByID    map[string]*entity.User
	usersByEmail map[string]string // email normalizado → id

	ledgerMu sync.RWMutex
	clients  map[string]*entity.Client // sin Projects; el árbol se arma al leer
	projects map[string]*entity.Project
	entries  map[string]*entity.TimeEntry

	now func() time.Time
}

// Option personaliza el Store.
type Option func(*Store)

// WithClock reemplaza el reloj usado para CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New crea un store vacío.
func New(opts ...Option) *Store {
	s := &Store{
		usersByID:    make(map[string]*entity.User),
		usersByEmail: make(map[string]string),
		clients:      make(map[string]*entity.Client),
		projects:     make(map[string]*entity.Project),
		entries:      make(map[string]*entity.TimeEntry),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Users() repository.UserRepository           { return &userRepo{s: s} }
func (s *Store) Clients() repository.ClientRepository       { return &clientRepo{s: s} }
func (s *Store) Projects() repository.ProjectRepository     { return &projectRepo{s: s} }
func (s *Store) TimeEntries() repository.TimeEntryRepository { return &timeEntryRepo{s: s} }
func (s *Store) Stats() repository.StatsRepository          { return &statsRepo{s: s} }

// timestamp imita la precisión de TIMESTAMPTZ (microsegundos) para que ambos backends
// devuelvan exactamente la misma forma.
func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// ownerOfProject devuelve el cliente dueño del proyecto. Requiere ledgerMu tomado.
func (s *Store) ownerOfProject(projectID string) (*entity.Project, *entity.Client, bool) {
	p, ok := s.projects[projectID]
	if !ok {
		return nil, nil, false
	}
	c, ok := s.clients[p.ClientID]
	if !ok {
		return nil, nil, false
	}
	return p, c, true
}

func alive(ctx context.Context) error {
	return ctx.Err()
}
