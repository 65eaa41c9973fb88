package repository

import (
	"context"

	"github.com/jhoicas/clocwise-api/internal/domain/entity"
)

// ProjectRepository define las lecturas de Project con verificación de pertenencia.
type ProjectRepository interface {
	// FindOwnedBy devuelve el proyecto solo si su cliente pertenece a userID; si no, domain.ErrNotFound.
	// TimeEntryRepository.Create verifica la propiedad dentro de su propia escritura; este método
	// fija la regla de propiedad que comparten los backends.
	FindOwnedBy(ctx context.Context, userID, projectID string) (*entity.Project, error)
}
