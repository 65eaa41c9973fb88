package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DateRange rango de fechas de calendario, ambos extremos inclusivos.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains indica si la fecha d cae dentro del rango.
func (r DateRange) Contains(d time.Time) bool {
	return !d.Before(r.From) && !d.After(r.To)
}

// WindowTotals totales crudos de una ventana.
// RateSeconds = Σ(duration_seconds × hourly_rate); dividido entre 3600 da las ganancias.
type WindowTotals struct {
	Seconds     int64
	RateSeconds decimal.Decimal
}

// StatsRepository consultas de solo lectura para el agregador de estadísticas.
type StatsRepository interface {
	// SumByWindows devuelve un WindowTotals por ventana, en el mismo orden.
	// Todas las ventanas se calculan en una sola lectura (mismo backend, mismo snapshot).
	SumByWindows(ctx context.Context, userID string, windows []DateRange) ([]WindowTotals, error)
}
