package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/clocwise-api/internal/domain"
	"github.com/jhoicas/clocwise-api/internal/domain/entity"
	"github.com/jhoicas/clocwise-api/internal/domain/repository"
	"github.com/jhoicas/clocwise-api/pkg/idx"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	s *Store
}

const userColumns = `id, full_name, email, password_hash, plan, created_at`

// Create persiste un nuevo usuario. El índice único sobre lower(email) arbitra
// los registros concurrentes.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, full_name, email, password_hash, plan)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	id := idx.New()
	email := entity.NormalizeEmail(user.Email)
	plan := user.Plan
	if plan == "" {
		plan = entity.PlanStarter
	}
	if !entity.IsValidPlan(plan) {
		return domain.NewValidationError("plan", "plan desconocido")
	}

	var createdAt time.Time
	err := r.s.do(ctx, func(ctx context.Context) error {
		err := r.s.pool.QueryRow(ctx, query, id, user.FullName, email, user.PasswordHash, plan).Scan(&createdAt)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrEmailAlreadyExists
			}
			return fmt.Errorf("insert user: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	user.ID = id
	user.Email = email
	user.Plan = plan
	user.CreatedAt = createdAt.UTC()
	return nil
}

// FindByEmail obtiene un usuario por email (sin distinguir mayúsculas).
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return r.findOne(ctx, "get user by email", query, entity.NormalizeEmail(email))
}

// FindByID obtiene un usuario por ID.
func (r *UserRepo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.findOne(ctx, "get user by id", query, id)
}

func (r *UserRepo) findOne(ctx context.Context, op, query string, arg any) (*entity.User, error) {
	var u entity.User
	err := r.s.do(ctx, func(ctx context.Context) error {
		err := r.s.pool.QueryRow(ctx, query, arg).Scan(
			&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.Plan, &u.CreatedAt,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}
