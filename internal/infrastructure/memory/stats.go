package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/clocwise-api/internal/domain/repository"
)

type statsRepo struct {
	s *Store
}

// SumByWindows recorre los registros una sola vez bajo el lock de lectura,
// de modo que todas las ventanas salen del mismo estado.
func (r *statsRepo) SumByWindows(ctx context.Context, userID string, windows []repository.DateRange) ([]repository.WindowTotals, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	out := make([]repository.WindowTotals, len(windows))
	for i := range out {
		out[i].RateSeconds = decimal.Zero
	}

	r.s.ledgerMu.RLock()
	defer r.s.ledgerMu.RUnlock()

	for _, e := range r.s.entries {
		_, c, ok := r.s.ownerOfProject(e.ProjectID)
		if !ok || c.UserID != userID {
			continue
		}
		billed := decimal.NewFromInt(e.DurationSeconds).Mul(c.HourlyRate)
		for i, w := range windows {
			if !w.Contains(e.Date) {
				continue
			}
			out[i].Seconds += e.DurationSeconds
			out[i].RateSeconds = out[i].RateSeconds.Add(billed)
		}
	}
	return out, nil
}
