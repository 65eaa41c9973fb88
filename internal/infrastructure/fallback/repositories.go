package fallback

import (
	"context"

	"github.com/jhoicas/clocwise-api/internal/domain/entity"
	"github.com/jhoicas/clocwise-api/internal/domain/repository"
)

type userRepo struct{ s *Store }

func (r userRepo) Create(ctx context.Context, user *entity.User) error {
	return exec(ctx, r.s, "user.create", func(b repository.Store) error {
		return b.Users().Create(ctx, user)
	})
}

func (r userRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return call(ctx, r.s, "user.find_by_email", func(b repository.Store) (*entity.User, error) {
		return b.Users().FindByEmail(ctx, email)
	})
}

func (r userRepo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return call(ctx, r.s, "user.find_by_id", func(b repository.Store) (*entity.User, error) {
		return b.Users().FindByID(ctx, id)
	})
}

type clientRepo struct{ s *Store }

func (r clientRepo) CreateWithProject(ctx context.Context, client *entity.Client, project *entity.Project) error {
	return exec(ctx, r.s, "client.create_with_project", func(b repository.Store) error {
		return b.Clients().CreateWithProject(ctx, client, project)
	})
}

func (r clientRepo) ListWithProjects(ctx context.Context, userID string) ([]*entity.Client, error) {
	return call(ctx, r.s, "client.list_with_projects", func(b repository.Store) ([]*entity.Client, error) {
		return b.Clients().ListWithProjects(ctx, userID)
	})
}

func (r clientRepo) DeleteCascade(ctx context.Context, userID, clientID string) error {
	return exec(ctx, r.s, "client.delete_cascade", func(b repository.Store) error {
		return b.Clients().DeleteCascade(ctx, userID, clientID)
	})
}

type projectRepo struct{ s *Store }

func (r projectRepo) FindOwnedBy(ctx context.Context, userID, projectID string) (*entity.Project, error) {
	return call(ctx, r.s, "project.find_owned_by", func(b repository.Store) (*entity.Project, error) {
		return b.Projects().FindOwnedBy(ctx, userID, projectID)
	})
}

type timeEntryRepo struct{ s *Store }

func (r timeEntryRepo) Create(ctx context.Context, userID string, entry *entity.TimeEntry) error {
	return exec(ctx, r.s, "time_entry.create", func(b repository.Store) error {
		return b.TimeEntries().Create(ctx, userID, entry)
	})
}

func (r timeEntryRepo) List(ctx context.Context, userID string, filter repository.TimeEntryFilter) ([]*repository.TimeEntryDetail, error) {
	return call(ctx, r.s, "time_entry.list", func(b repository.Store) ([]*repository.TimeEntryDetail, error) {
		return b.TimeEntries().List(ctx, userID, filter)
	})
}

func (r timeEntryRepo) Delete(ctx context.Context, userID, entryID string) error {
	return exec(ctx, r.s, "time_entry.delete", func(b repository.Store) error {
		return b.TimeEntries().Delete(ctx, userID, entryID)
	})
}

type statsRepo struct{ s *Store }

func (r statsRepo) SumByWindows(ctx context.Context, userID string, windows []repository.DateRange) ([]repository.WindowTotals, error) {
	return call(ctx, r.s, "stats.sum_by_windows", func(b repository.Store) ([]repository.WindowTotals, error) {
		return b.Stats().SumByWindows(ctx, userID, windows)
	})
}
