package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/clocwise-api/internal/domain"
	"github.com/jhoicas/clocwise-api/internal/domain/entity"
	"github.com/jhoicas/clocwise-api/pkg/idx"
)

type clientRepo struct {
	s *Store
}

// CreateWithProject emula la transacción: ambos registros se construyen
// completos antes de publicarse, y se publican dentro de una sola sección crítica.
func (r *clientRepo) CreateWithProject(ctx context.Context, client *entity.Client, project *entity.Project) error {
	if err := alive(ctx); err != nil {
		return err
	}
	now := r.s.timestamp()

	c := client.Clone()
	c.ID = idx.New()
	c.CreatedAt = now
	c.Projects = nil

	p := project.Clone()
	p.ID = idx.New()
	p.ClientID = c.ID
	p.CreatedAt = now
	if p.Status == "" {
		p.Status = entity.ProjectStatusActive
	}
	if !entity.IsValidProjectStatus(p.Status) {
		return domain.NewValidationError("status", "estado de proyecto desconocido")
	}

	r.s.ledgerMu.Lock()
	r.s.clients[c.ID] = c
	r.s.projects[p.ID] = p
	r.s.ledgerMu.Unlock()

	client.ID, client.CreatedAt = c.ID, c.CreatedAt
	project.ID, project.ClientID, project.Status, project.CreatedAt = p.ID, p.ClientID, p.Status, p.CreatedAt
	client.Projects = []*entity.Project{p.Clone()}
	return nil
}

func (r *clientRepo) ListWithProjects(ctx context.Context, userID string) ([]*entity.Client, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	r.s.ledgerMu.RLock()
	defer r.s.ledgerMu.RUnlock()

	byClient := make(map[string][]*entity.Project)
	for _, p := range r.s.projects {
		byClient[p.ClientID] = append(byClient[p.ClientID], p.Clone())
	}

	out := make([]*entity.Client, 0)
	for _, c := range r.s.clients {
		if c.UserID != userID {
			continue
		}
		cc := c.Clone()
		cc.Projects = byClient[c.ID]
		if cc.Projects == nil {
			cc.Projects = []*entity.Project{}
		}
		sort.Slice(cc.Projects, func(i, j int) bool {
			return newerFirst(cc.Projects[i].CreatedAt.UnixNano(), cc.Projects[j].CreatedAt.UnixNano(), cc.Projects[i].ID, cc.Projects[j].ID)
		})
		out = append(out, cc)
	}
	sort.Slice(out, func(i, j int) bool {
		return newerFirst(out[i].CreatedAt.UnixNano(), out[j].CreatedAt.UnixNano(), out[i].ID, out[j].ID)
	})
	return out, nil
}

// DeleteCascade borra hojas antes que raíces: registros → proyectos → cliente.
func (r *clientRepo) DeleteCascade(ctx context.Context, userID, clientID string) error {
	if err := alive(ctx); err != nil {
		return err
	}
	r.s.ledgerMu.Lock()
	defer r.s.ledgerMu.Unlock()

	c, ok := r.s.clients[clientID]
	if !ok || c.UserID != userID {
		return domain.ErrNotFound
	}

	doomed := make(map[string]struct{})
	for id, p := range r.s.projects {
		if p.ClientID == clientID {
			doomed[id] = struct{}{}
		}
	}
	for id, e := range r.s.entries {
		if _, hit := doomed[e.ProjectID]; hit {
			delete(r.s.entries, id)
		}
	}
	for id := range doomed {
		delete(r.s.projects, id)
	}
	delete(r.s.clients, clientID)
	return nil
}

// newerFirst ordena por instante descendente y desempata por ID (ULID) descendente.
func newerFirst(aNanos, bNanos int64, aID, bID string) bool {
	if aNanos != bNanos {
		return aNanos > bNanos
	}
	return aID > bID
}
