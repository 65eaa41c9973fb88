package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/clocwise-api/internal/domain/repository"
)

var _ repository.StatsRepository = (*StatsRepo)(nil)

// StatsRepo implementación del puerto StatsRepository sobre PostgreSQL.
type StatsRepo struct {
	s *Store
}

// SumByWindows calcula todas las ventanas en una sola sentencia con agregados
// FILTER, de modo que todas salen del mismo snapshot.
func (r *StatsRepo) SumByWindows(ctx context.Context, userID string, windows []repository.DateRange) ([]repository.WindowTotals, error) {
	out := make([]repository.WindowTotals, len(windows))
	if len(windows) == 0 {
		return out, nil
	}
	query, args := buildWindowsQuery(userID, windows)

	err := r.s.do(ctx, func(ctx context.Context) error {
		dest := make([]any, 0, 2*len(windows))
		for i := range out {
			dest = append(dest, &out[i].Seconds, &out[i].RateSeconds)
		}
		if err := r.s.pool.QueryRow(ctx, query, args...).Scan(dest...); err != nil {
			return fmt.Errorf("sum time entries: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// buildWindowsQuery arma un par de columnas (segundos, segundos×tarifa) por ventana.
func buildWindowsQuery(userID string, windows []repository.DateRange) (string, []any) {
	args := make([]any, 0, 1+2*len(windows))
	args = append(args, userID)

	cols := make([]string, 0, 2*len(windows))
	for _, w := range windows {
		from, to := len(args)+1, len(args)+2
		args = append(args, w.From, w.To)
		filter := fmt.Sprintf("FILTER (WHERE te.date BETWEEN $%d::date AND $%d::date)", from, to)
		cols = append(cols,
			"COALESCE(SUM(te.duration_seconds) "+filter+", 0)::bigint",
			"COALESCE(SUM(te.duration_seconds * c.hourly_rate) "+filter+", 0)",
		)
	}

	query := "SELECT " + strings.Join(cols, ",\n\t\t") + `
		FROM time_entries te
		JOIN projects p ON p.id = te.project_id
		JOIN clients c ON c.id = p.client_id
		WHERE c.user_id = $1`
	return query, args
}
