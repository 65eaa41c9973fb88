package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/clocwise-api/internal/domain"
	"github.com/jhoicas/clocwise-api/internal/domain/entity"
	"github.com/jhoicas/clocwise-api/internal/domain/repository"
)

var _ repository.ProjectRepository = (*ProjectRepo)(nil)

// ProjectRepo implementación del puerto ProjectRepository sobre PostgreSQL.
type ProjectRepo struct {
	s *Store
}

// FindOwnedBy devuelve el proyecto solo si su cliente pertenece al usuario.
func (r *ProjectRepo) FindOwnedBy(ctx context.Context, userID, projectID string) (*entity.Project, error) {
	query := `
		SELECT p.id, p.client_id, p.name, p.description, p.status, p.created_at
		FROM projects p
		JOIN clients c ON c.id = p.client_id
		WHERE p.id = $1 AND c.user_id = $2`

	var p *entity.Project
	err := r.s.do(ctx, func(ctx context.Context) error {
		rows, err := r.s.pool.Query(ctx, query, projectID, userID)
		if err != nil {
			return fmt.Errorf("find project: %w", err)
		}
		p, err = pgx.CollectExactlyOneRow(rows, scanProject)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("scan project: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}
