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

var _ repository.TimeEntryRepository = (*TimeEntryRepo)(nil)

// TimeEntryRepo implementación del puerto TimeEntryRepository sobre PostgreSQL.
type TimeEntryRepo struct {
	s *Store
}

// Create verifica la pertenencia e inserta en una sola sentencia: si el proyecto
// no es del usuario el SELECT no produce filas y no se inserta nada.
func (r *TimeEntryRepo) Create(ctx context.Context, userID string, entry *entity.TimeEntry) error {
	query := `
		INSERT INTO time_entries (id, project_id, date, start_time, duration_seconds, description)
		SELECT $1::text, p.id, $3::date, $4::time, $5::bigint, $6::text
		FROM projects p
		JOIN clients c ON c.id = p.client_id
		WHERE p.id = $2 AND c.user_id = $7
		RETURNING created_at`

	id := idx.New()
	date := entity.DateOnly(entry.Date)
	var createdAt time.Time

	err := r.s.do(ctx, func(ctx context.Context) error {
		err := r.s.pool.QueryRow(ctx, query,
			id, entry.ProjectID, date, entry.StartTime, entry.DurationSeconds, entry.Description, userID,
		).Scan(&createdAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) || isForeignKeyViolation(err) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("insert time entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	entry.ID = id
	entry.Date = date
	entry.CreatedAt = createdAt.UTC()
	return nil
}

// List devuelve los registros del usuario con nombre de proyecto, cliente y tarifa.
func (r *TimeEntryRepo) List(ctx context.Context, userID string, filter repository.TimeEntryFilter) ([]*repository.TimeEntryDetail, error) {
	query := `
		SELECT te.id, te.project_id, te.date, to_char(te.start_time, 'HH24:MI:SS'),
		       te.duration_seconds, te.description, te.created_at,
		       p.name, c.name, c.hourly_rate
		FROM time_entries te
		JOIN projects p ON p.id = te.project_id
		JOIN clients c ON c.id = p.client_id
		WHERE c.user_id = $1
		  AND ($2::date IS NULL OR te.date >= $2::date)
		  AND ($3::date IS NULL OR te.date <= $3::date)
		ORDER BY te.date DESC, te.created_at DESC, te.id COLLATE "C" DESC
		LIMIT $4 OFFSET $5`

	limit, offset := filter.Limit, filter.Offset
	if limit <= 0 {
		limit = repository.DefaultTimeEntryLimit
	}
	if offset < 0 {
		offset = 0
	}

	var out []*repository.TimeEntryDetail
	err := r.s.do(ctx, func(ctx context.Context) error {
		rows, err := r.s.pool.Query(ctx, query,
			userID, dateArg(filter.StartDate), dateArg(filter.EndDate), limit, offset,
		)
		if err != nil {
			return fmt.Errorf("list time entries: %w", err)
		}
		out, err = pgx.CollectRows(rows, scanTimeEntryDetail)
		if err != nil {
			return fmt.Errorf("scan time entries: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []*repository.TimeEntryDetail{}
	}
	return out, nil
}

// Delete borra el registro solo si pertenece al usuario.
func (r *TimeEntryRepo) Delete(ctx context.Context, userID, entryID string) error {
	query := `
		DELETE FROM time_entries te
		USING projects p, clients c
		WHERE te.id = $1
		  AND p.id = te.project_id
		  AND c.id = p.client_id
		  AND c.user_id = $2`

	return r.s.do(ctx, func(ctx context.Context) error {
		tag, err := r.s.pool.Exec(ctx, query, entryID, userID)
		if err != nil {
			return fmt.Errorf("delete time entry: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func scanTimeEntryDetail(row pgx.CollectableRow) (*repository.TimeEntryDetail, error) {
	var d repository.TimeEntryDetail
	err := row.Scan(
		&d.ID, &d.ProjectID, &d.Date, &d.StartTime,
		&d.DurationSeconds, &d.Description, &d.CreatedAt,
		&d.ProjectName, &d.ClientName, &d.HourlyRate,
	)
	if err != nil {
		return nil, err
	}
	d.Date = entity.DateOnly(d.Date)
	d.CreatedAt = d.CreatedAt.UTC()
	return &d, nil
}

// dateArg convierte un filtro opcional en parámetro: nil se envía como NULL.
func dateArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return entity.DateOnly(*t)
}
