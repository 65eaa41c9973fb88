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

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación del puerto ClientRepository sobre PostgreSQL.
type ClientRepo struct {
	s *Store
}

// CreateWithProject inserta cliente y proyecto en una sola transacción.
func (r *ClientRepo) CreateWithProject(ctx context.Context, client *entity.Client, project *entity.Project) error {
	insertClient := `
		INSERT INTO clients (id, user_id, name, email, hourly_rate)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5)
		RETURNING created_at`
	insertProject := `
		INSERT INTO projects (id, client_id, name, description, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	clientID, projectID := idx.New(), idx.New()
	var clientCreated, projectCreated time.Time
	status := project.Status
	if status == "" {
		status = entity.ProjectStatusActive
	}
	if !entity.IsValidProjectStatus(status) {
		return domain.NewValidationError("status", "estado de proyecto desconocido")
	}

	err := r.s.do(ctx, func(ctx context.Context) error {
		return r.s.tx.Run(ctx, txReadWrite, func(q Querier) error {
			err := q.QueryRow(ctx, insertClient,
				clientID, client.UserID, client.Name, client.Email, client.HourlyRate,
			).Scan(&clientCreated)
			if err != nil {
				if isForeignKeyViolation(err) {
					return domain.ErrNotFound // el usuario no existe en este backend
				}
				return fmt.Errorf("insert client: %w", err)
			}
			err = q.QueryRow(ctx, insertProject,
				projectID, clientID, project.Name, project.Description, status,
			).Scan(&projectCreated)
			if err != nil {
				return fmt.Errorf("insert project: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return err
	}

	client.ID = clientID
	client.CreatedAt = clientCreated.UTC()
	project.ID = projectID
	project.ClientID = clientID
	project.Status = status
	project.CreatedAt = projectCreated.UTC()
	client.Projects = []*entity.Project{project.Clone()}
	return nil
}

// ListWithProjects lee clientes y proyectos con dos consultas dentro de una
// transacción REPEATABLE READ de solo lectura, para que ambas vean el mismo estado.
func (r *ClientRepo) ListWithProjects(ctx context.Context, userID string) ([]*entity.Client, error) {
	clientsQuery := `
		SELECT id, user_id, name, COALESCE(email, ''), hourly_rate, created_at
		FROM clients
		WHERE user_id = $1
		ORDER BY created_at DESC, id COLLATE "C" DESC`
	projectsQuery := `
		SELECT p.id, p.client_id, p.name, p.description, p.status, p.created_at
		FROM projects p
		JOIN clients c ON c.id = p.client_id
		WHERE c.user_id = $1
		ORDER BY p.created_at DESC, p.id COLLATE "C" DESC`

	var clients []*entity.Client
	err := r.s.do(ctx, func(ctx context.Context) error {
		return r.s.tx.Run(ctx, txSnapshot, func(q Querier) error {
			rows, err := q.Query(ctx, clientsQuery, userID)
			if err != nil {
				return fmt.Errorf("list clients: %w", err)
			}
			clients, err = pgx.CollectRows(rows, scanClient)
			if err != nil {
				return fmt.Errorf("scan clients: %w", err)
			}

			rows, err = q.Query(ctx, projectsQuery, userID)
			if err != nil {
				return fmt.Errorf("list projects: %w", err)
			}
			projects, err := pgx.CollectRows(rows, scanProject)
			if err != nil {
				return fmt.Errorf("scan projects: %w", err)
			}

			byClient := make(map[string][]*entity.Project, len(clients))
			for _, p := range projects {
				byClient[p.ClientID] = append(byClient[p.ClientID], p)
			}
			for _, c := range clients {
				c.Projects = byClient[c.ID]
				if c.Projects == nil {
					c.Projects = []*entity.Project{}
				}
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if clients == nil {
		clients = []*entity.Client{}
	}
	return clients, nil
}

// DeleteCascade bloquea el cliente verificando pertenencia y borra hojas antes que raíces.
func (r *ClientRepo) DeleteCascade(ctx context.Context, userID, clientID string) error {
	return r.s.do(ctx, func(ctx context.Context) error {
		return r.s.tx.Run(ctx, txReadWrite, func(q Querier) error {
			var locked string
			err := q.QueryRow(ctx,
				`SELECT id FROM clients WHERE id = $1 AND user_id = $2 FOR UPDATE`,
				clientID, userID,
			).Scan(&locked)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return domain.ErrNotFound
				}
				return fmt.Errorf("lock client: %w", err)
			}

			if _, err := q.Exec(ctx,
				`DELETE FROM time_entries WHERE project_id IN (SELECT id FROM projects WHERE client_id = $1)`,
				clientID,
			); err != nil {
				return fmt.Errorf("delete time entries: %w", err)
			}
			if _, err := q.Exec(ctx, `DELETE FROM projects WHERE client_id = $1`, clientID); err != nil {
				return fmt.Errorf("delete projects: %w", err)
			}
			if _, err := q.Exec(ctx, `DELETE FROM clients WHERE id = $1`, clientID); err != nil {
				return fmt.Errorf("delete client: %w", err)
			}
			return nil
		})
	})
}

func scanClient(row pgx.CollectableRow) (*entity.Client, error) {
	var c entity.Client
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.HourlyRate, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return &c, nil
}

func scanProject(row pgx.CollectableRow) (*entity.Project, error) {
	var p entity.Project
	if err := row.Scan(&p.ID, &p.ClientID, &p.Name, &p.Description, &p.Status, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return &p, nil
}
