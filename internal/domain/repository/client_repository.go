package repository

import (
	"context"

	"github.com/jhoicas/clocwise-api/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para Client y su árbol de proyectos.
type ClientRepository interface {
	// CreateWithProject crea el cliente y su proyecto inicial como una unidad atómica.
	// Asigna IDs, CreatedAt y project.ClientID.
	CreateWithProject(ctx context.Context, client *entity.Client, project *entity.Project) error
	// ListWithProjects lista los clientes del usuario (más recientes primero) con sus proyectos.
	ListWithProjects(ctx context.Context, userID string) ([]*entity.Client, error)
	// DeleteCascade elimina registros de tiempo, proyectos y el cliente, en ese orden y de forma atómica.
	// Un cliente ajeno se trata igual que uno inexistente: domain.ErrNotFound.
	DeleteCascade(ctx context.Context, userID, clientID string) error
}
