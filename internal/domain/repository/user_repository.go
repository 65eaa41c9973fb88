package repository

import (
	"context"

	"github.com/jhoicas/clocwise-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	// Create asigna ID y CreatedAt y persiste el usuario.
	// Devuelve domain.ErrEmailAlreadyExists si el email (normalizado) ya existe.
	Create(ctx context.Context, user *entity.User) error
	// FindByEmail devuelve domain.ErrNotFound si no existe.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id string) (*entity.User, error)
}
