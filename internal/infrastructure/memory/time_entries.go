package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/clocwise-api/internal/domain"
	"github.com/jhoicas/clocwise-api/internal/domain/entity"
	"github.com/jhoicas/clocwise-api/internal/domain/repository"
	"github.com/jhoicas/clocwise-api/pkg/idx"
)

type timeEntryRepo struct {
	s *Store
}

// Create comprueba la pertenencia del proyecto e inserta sin soltar el lock,
// así un borrado en cascada concurrente no puede dejar el registro huérfano.
func (r *timeEntryRepo) Create(ctx context.Context, userID string, entry *entity.TimeEntry) error {
	if err := alive(ctx); err != nil {
		return err
	}
	r.s.ledgerMu.Lock()
	defer r.s.ledgerMu.Unlock()

	_, c, ok := r.s.ownerOfProject(entry.ProjectID)
	if !ok || c.UserID != userID {
		return domain.ErrNotFound
	}
	entry.ID = idx.New()
	entry.Date = entity.DateOnly(entry.Date)
	entry.CreatedAt = r.s.timestamp()
	r.s.entries[entry.ID] = entry.Clone()
	return nil
}

func (r *timeEntryRepo) List(ctx context.Context, userID string, filter repository.TimeEntryFilter) ([]*repository.TimeEntryDetail, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	r.s.ledgerMu.RLock()
	defer r.s.ledgerMu.RUnlock()

	matched := make([]*repository.TimeEntryDetail, 0)
	for _, e := range r.s.entries {
		p, c, ok := r.s.ownerOfProject(e.ProjectID)
		if !ok || c.UserID != userID {
			continue
		}
		if filter.StartDate != nil && e.Date.Before(entity.DateOnly(*filter.StartDate)) {
			continue
		}
		if filter.EndDate != nil && e.Date.After(entity.DateOnly(*filter.EndDate)) {
			continue
		}
		matched = append(matched, &repository.TimeEntryDetail{
			TimeEntry:   *e,
			ProjectName: p.Name,
			ClientName:  c.Name,
			HourlyRate:  c.HourlyRate,
		})
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return newerFirst(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano(), a.ID, b.ID)
	})

	return paginate(matched, filter.Limit, filter.Offset), nil
}

func (r *timeEntryRepo) Delete(ctx context.Context, userID, entryID string) error {
	if err := alive(ctx); err != nil {
		return err
	}
	r.s.ledgerMu.Lock()
	defer r.s.ledgerMu.Unlock()

	e, ok := r.s.entries[entryID]
	if !ok {
		return domain.ErrNotFound
	}
	if _, c, owned := r.s.ownerOfProject(e.ProjectID); !owned || c.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.s.entries, entryID)
	return nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if limit <= 0 {
		limit = repository.DefaultTimeEntryLimit
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return items[:0]
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
