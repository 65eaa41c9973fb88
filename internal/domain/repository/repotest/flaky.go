package repotest

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/jhoicas/clocwise-api/internal/domain"
	"github.com/jhoicas/clocwise-api/internal/domain/entity"
	"github.com/jhoicas/clocwise-api/internal/domain/repository"
)

var _ repository.Store = (*Flaky)(nil)

var errDial = errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")

// Flaky envuelve un store real y lo "apaga" a voluntad devolviendo
// domain.ErrBackendUnavailable, como haría el primario con la base caída.
type Flaky struct {
	inner repository.Store
	down  atomic.Bool
	calls atomic.Int64
}

// NewFlaky envuelve inner; arranca encendido.
func NewFlaky(inner repository.Store) *Flaky { return &Flaky{inner: inner} }

// SetDown apaga (true) o enciende (false) el store.
func (f *Flaky) SetDown(down bool) { f.down.Store(down) }

// Calls cuenta las operaciones que llegaron al store, respondidas o no.
func (f *Flaky) Calls() int64 { return f.calls.Load() }

func (f *Flaky) gate() error {
	f.calls.Add(1)
	if f.down.Load() {
		return domain.Unavailable(errDial)
	}
	return nil
}

func (f *Flaky) Ping(context.Context) error { return f.gate() }

func (f *Flaky) Users() repository.UserRepository { return flakyUsers{f, f.inner.Users()} }
func (f *Flaky) Clients() repository.ClientRepository {
	return flakyClients{f, f.inner.Clients()}
}
func (f *Flaky) Projects() repository.ProjectRepository {
	return flakyProjects{f, f.inner.Projects()}
}
func (f *Flaky) TimeEntries() repository.TimeEntryRepository {
	return flakyEntries{f, f.inner.TimeEntries()}
}
func (f *Flaky) Stats() repository.StatsRepository { return flakyStats{f, f.inner.Stats()} }

type flakyUsers struct {
	f *Flaky
	repository.UserRepository
}

func (r flakyUsers) Create(ctx context.Context, u *entity.User) error {
	if err := r.f.gate(); err != nil {
		return err
	}
	return r.UserRepository.Create(ctx, u)
}

func (r flakyUsers) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if err := r.f.gate(); err != nil {
		return nil, err
	}
	return r.UserRepository.FindByEmail(ctx, email)
}

func (r flakyUsers) FindByID(ctx context.Context, id string) (*entity.User, error) {
	if err := r.f.gate(); err != nil {
		return nil, err
	}
	return r.UserRepository.FindByID(ctx, id)
}

type flakyClients struct {
	f *Flaky
	repository.ClientRepository
}

func (r flakyClients) CreateWithProject(ctx context.Context, c *entity.Client, p *entity.Project) error {
	if err := r.f.gate(); err != nil {
		return err
	}
	return r.ClientRepository.CreateWithProject(ctx, c, p)
}

func (r flakyClients) ListWithProjects(ctx context.Context, userID string) ([]*entity.Client, error) {
	if err := r.f.gate(); err != nil {
		return nil, err
	}
	return r.ClientRepository.ListWithProjects(ctx, userID)
}

func (r flakyClients) DeleteCascade(ctx context.Context, userID, clientID string) error {
	if err := r.f.gate(); err != nil {
		return err
	}
	return r.ClientRepository.DeleteCascade(ctx, userID, clientID)
}

type flakyProjects struct {
	f *Flaky
	repository.ProjectRepository
}

func (r flakyProjects) FindOwnedBy(ctx context.Context, userID, projectID string) (*entity.Project, error) {
	if err := r.f.gate(); err != nil {
		return nil, err
	}
	return r.ProjectRepository.FindOwnedBy(ctx, userID, projectID)
}

type flakyEntries struct {
	f *Flaky
	repository.TimeEntryRepository
}

func (r flakyEntries) Create(ctx context.Context, userID string, e *entity.TimeEntry) error {
	if err := r.f.gate(); err != nil {
		return err
	}
	return r.TimeEntryRepository.Create(ctx, userID, e)
}

func (r flakyEntries) List(ctx context.Context, userID string, filter repository.TimeEntryFilter) ([]*repository.TimeEntryDetail, error) {
	if err := r.f.gate(); err != nil {
		return nil, err
	}
	return r.TimeEntryRepository.List(ctx, userID, filter)
}

func (r flakyEntries) Delete(ctx context.Context, userID, entryID string) error {
	if err := r.f.gate(); err != nil {
		return err
	}
	return r.TimeEntryRepository.Delete(ctx, userID, entryID)
}

type flakyStats struct {
	f *Flaky
	repository.StatsRepository
}

func (r flakyStats) SumByWindows(ctx context.Context, userID string, w []repository.DateRange) ([]repository.WindowTotals, error) {
	if err := r.f.gate(); err != nil {
		return nil, err
	}
	return r.StatsRepository.SumByWindows(ctx, userID, w)
}
