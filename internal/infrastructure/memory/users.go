package memory

import (
	"context"

	"github.com/jhoicas/clocwise-api/internal/domain"
	"github.com/jhoicas/clocwise-api/internal/domain/entity"
	"github.com/jhoicas/clocwise-api/pkg/idx"
)

type userRepo struct {
	s *Store
}

// Create verifica unicidad e inserta bajo el mismo lock: dos registros
// concurrentes con el mismo email nunca tienen éxito ambos.
func (r *userRepo) Create(ctx context.Context, user *entity.User) error {
	if err := alive(ctx); err != nil {
		return err
	}
	email := entity.NormalizeEmail(user.Email)
	plan := user.Plan
	if plan == "" {
		plan = entity.PlanStarter
	}
	if !entity.IsValidPlan(plan) {
		return domain.NewValidationError("plan", "plan desconocido")
	}

	r.s.usersMu.Lock()
	defer r.s.usersMu.Unlock()

	if _, exists := r.s.usersByEmail[email]; exists {
		return domain.ErrEmailAlreadyExists
	}
	user.ID = idx.New()
	user.Email = email
	user.Plan = plan
	user.CreatedAt = r.s.timestamp()

	stored := *user
	r.s.usersByID[stored.ID] = &stored
	r.s.usersByEmail[email] = stored.ID
	return nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	r.s.usersMu.RLock()
	defer r.s.usersMu.RUnlock()

	id, ok := r.s.usersByEmail[entity.NormalizeEmail(email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u := *r.s.usersByID[id]
	return &u, nil
}

func (r *userRepo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	r.s.usersMu.RLock()
	defer r.s.usersMu.RUnlock()

	u, ok := r.s.usersByID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *u
	return &out, nil
}
