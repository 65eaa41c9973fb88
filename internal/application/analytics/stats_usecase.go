// Package analytics contiene el agregador de estadísticas de horas y ganancias.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/clocwise-api/internal/application/dto"
	"github.com/jhoicas/clocwise-api/internal/domain/repository"
)

var secondsPerHour = decimal.NewFromInt(3600)

// Windows rangos de fecha inclusivos que alimentan la respuesta de estadísticas.
type Windows struct {
	Today repository.DateRange
	Week  repository.DateRange
	Month repository.DateRange
}

// WindowsAt calcula las ventanas para el instante now visto en loc:
// hoy, desde el último inicio de semana hasta hoy, y desde el día 1 del mes hasta hoy.
func WindowsAt(now time.Time, weekStart time.Weekday, loc *time.Location) Windows {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	y, m, d := local.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	back := (int(local.Weekday()) - int(weekStart) + 7) % 7
	return Windows{
		Today: repository.DateRange{From: today, To: today},
		Week:  repository.DateRange{From: today.AddDate(0, 0, -back), To: today},
		Month: repository.DateRange{From: time.Date(y, m, 1, 0, 0, 0, 0, time.UTC), To: today},
	}
}

// StatsUseCase compone la lectura de ventanas del repositorio en la respuesta de estadísticas.
//
// Las tres ventanas se piden en una sola llamada: el store responde todas desde
// el mismo backend y el mismo estado, así hoy ≤ semana ≤ mes se cumple siempre.
type StatsUseCase struct {
	repo      repository.StatsRepository
	weekStart time.Weekday
	loc       *time.Location
	now       func() time.Time
}

// Option personaliza el StatsUseCase.
type Option func(*StatsUseCase)

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(uc *StatsUseCase) { uc.now = now }
}

// NewStatsUseCase construye el caso de uso.
func NewStatsUseCase(repo repository.StatsRepository, weekStart time.Weekday, loc *time.Location, opts ...Option) *StatsUseCase {
	if loc == nil {
		loc = time.UTC
	}
	uc := &StatsUseCase{repo: repo, weekStart: weekStart, loc: loc, now: time.Now}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Get devuelve horas de hoy, semana y mes (un decimal) y ganancias del mes (sin decimales).
func (uc *StatsUseCase) Get(ctx context.Context, userID string) (*dto.StatsResponse, error) {
	w := WindowsAt(uc.now(), uc.weekStart, uc.loc)

	totals, err := uc.repo.SumByWindows(ctx, userID, []repository.DateRange{w.Today, w.Week, w.Month})
	if err != nil {
		return nil, err
	}
	if len(totals) != 3 {
		return nil, fmt.Errorf("sum by windows: se esperaban 3 ventanas, llegaron %d", len(totals))
	}

	return &dto.StatsResponse{
		TodayHours:    Hours(totals[0].Seconds),
		WeekHours:     Hours(totals[1].Seconds),
		MonthHours:    Hours(totals[2].Seconds),
		TotalEarnings: Earnings(totals[2].RateSeconds),
	}, nil
}

// Hours convierte segundos a horas con un decimal ("1.5").
func Hours(seconds int64) string {
	return decimal.NewFromInt(seconds).Div(secondsPerHour).StringFixed(1)
}

// Earnings convierte Σ(segundos × tarifa) a dinero sin decimales ("15").
func Earnings(rateSeconds decimal.Decimal) string {
	return rateSeconds.Div(secondsPerHour).StringFixed(0)
}
