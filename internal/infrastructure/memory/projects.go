package memory

import (
	"context"

	"github.com/jhoicas/clocwise-api/internal/domain"
	"github.com/jhoicas/clocwise-api/internal/domain/entity"
)

type projectRepo struct {
	s *Store
}

func (r *projectRepo) FindOwnedBy(ctx context.Context, userID, projectID string) (*entity.Project, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	r.s.ledgerMu.RLock()
	defer r.s.ledgerMu.RUnlock()

	p, c, ok := r.s.ownerOfProject(projectID)
	if !ok || c.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return p.Clone(), nil
}
