package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clocwise-api/internal/application/analytics"
	"github.com/jhoicas/clocwise-api/internal/domain/repository"
	"github.com/jhoicas/clocwise-api/internal/domain/repository/repotest"
	"github.com/jhoicas/clocwise-api/internal/infrastructure/memory"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestWindowsAt(t *testing.T) {
	// Miércoles 17 de junio de 2026, 10:00 UTC.
	now := time.Date(2026, 6, 17, 10, 0, 0, 0, time.UTC)

	w := analytics.WindowsAt(now, time.Sunday, time.UTC)
	assert.Equal(t, date(t, "2026-06-17"), w.Today.From)
	assert.Equal(t, date(t, "2026-06-17"), w.Today.To)
	assert.Equal(t, date(t, "2026-06-14"), w.Week.From)
	assert.Equal(t, date(t, "2026-06-01"), w.Month.From)
	assert.Equal(t, date(t, "2026-06-17"), w.Month.To)

	monday := analytics.WindowsAt(now, time.Monday, time.UTC)
	assert.Equal(t, date(t, "2026-06-15"), monday.Week.From)

	// El propio día de inicio de semana: la ventana es solo hoy.
	sunday := analytics.WindowsAt(time.Date(2026, 6, 14, 8, 0, 0, 0, time.UTC), time.Sunday, time.UTC)
	assert.Equal(t, sunday.Today, sunday.Week)

	// La semana puede empezar en el mes anterior.
	early := analytics.WindowsAt(time.Date(2026, 7, 2, 8, 0, 0, 0, time.UTC), time.Sunday, time.UTC)
	assert.Equal(t, date(t, "2026-06-28"), early.Week.From)
	assert.Equal(t, date(t, "2026-07-01"), early.Month.From)
}

func TestWindowsAt_Timezone(t *testing.T) {
	bogota, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)

	// 1 de julio 03:00 UTC es todavía 30 de junio en Bogotá (UTC-5).
	now := time.Date(2026, 7, 1, 3, 0, 0, 0, time.UTC)
	w := analytics.WindowsAt(now, time.Sunday, bogota)
	assert.Equal(t, date(t, "2026-06-30"), w.Today.From)
	assert.Equal(t, date(t, "2026-06-01"), w.Month.From)

	utc := analytics.WindowsAt(now, time.Sunday, nil)
	assert.Equal(t, date(t, "2026-07-01"), utc.Today.From)
}

func TestHoursAndEarnings(t *testing.T) {
	assert.Equal(t, "0.0", analytics.Hours(0))
	assert.Equal(t, "1.5", analytics.Hours(5400))
	assert.Equal(t, "0.1", analytics.Hours(180)) // 0.05 redondea hacia arriba
	assert.Equal(t, "0.0", analytics.Hours(179))
	assert.Equal(t, "0", analytics.Earnings(decimal.Zero))
	assert.Equal(t, "15", analytics.Earnings(decimal.NewFromInt(54000)))
	assert.Equal(t, "1", analytics.Earnings(decimal.NewFromInt(1800))) // 0.5 se aleja de cero
}

func TestStatsUseCase_Get(t *testing.T) {
	store := memory.New()
	u := repotest.MustUser(t, store, "stats@example.com")
	_, p := repotest.MustClient(t, store, u.ID, "Diez", "10")
	repotest.MustEntry(t, store, u.ID, p.ID, "2026-06-17", 3600)
	repotest.MustEntry(t, store, u.ID, p.ID, "2026-06-17", 1800)

	uc := analytics.NewStatsUseCase(store.Stats(), time.Sunday, time.UTC,
		analytics.WithClock(fixedClock(time.Date(2026, 6, 17, 18, 0, 0, 0, time.UTC))))

	got, err := uc.Get(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "1.5", got.TodayHours)
	assert.Equal(t, "1.5", got.WeekHours)
	assert.Equal(t, "1.5", got.MonthHours)
	assert.Equal(t, "15", got.TotalEarnings)
}

func TestStatsUseCase_WindowsSeparateCorrectly(t *testing.T) {
	store := memory.New()
	u := repotest.MustUser(t, store, "ventanas@example.com")
	_, p := repotest.MustClient(t, store, u.ID, "Veinte", "20")
	repotest.MustEntry(t, store, u.ID, p.ID, "2026-06-17", 3600) // hoy
	repotest.MustEntry(t, store, u.ID, p.ID, "2026-06-15", 7200) // esta semana
	repotest.MustEntry(t, store, u.ID, p.ID, "2026-06-02", 3600) // este mes
	repotest.MustEntry(t, store, u.ID, p.ID, "2026-05-31", 3600) // mes anterior
	repotest.MustEntry(t, store, u.ID, p.ID, "2026-06-18", 3600) // futuro: fuera de toda ventana

	uc := analytics.NewStatsUseCase(store.Stats(), time.Sunday, time.UTC,
		analytics.WithClock(fixedClock(time.Date(2026, 6, 17, 12, 0, 0, 0, time.UTC))))

	got, err := uc.Get(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "1.0", got.TodayHours)
	assert.Equal(t, "3.0", got.WeekHours)
	assert.Equal(t, "4.0", got.MonthHours)
	assert.Equal(t, "80", got.TotalEarnings)
}

func TestStatsUseCase_Empty(t *testing.T) {
	store := memory.New()
	u := repotest.MustUser(t, store, "vacio@example.com")
	uc := analytics.NewStatsUseCase(store.Stats(), time.Sunday, time.UTC)

	got, err := uc.Get(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "0.0", got.TodayHours)
	assert.Equal(t, "0.0", got.WeekHours)
	assert.Equal(t, "0.0", got.MonthHours)
	assert.Equal(t, "0", got.TotalEarnings)
}

type failingStats struct{}

func (failingStats) SumByWindows(context.Context, string, []repository.DateRange) ([]repository.WindowTotals, error) {
	return nil, errors.New("boom")
}

func TestStatsUseCase_PropagatesErrors(t *testing.T) {
	uc := analytics.NewStatsUseCase(failingStats{}, time.Sunday, time.UTC)
	_, err := uc.Get(context.Background(), "u")
	assert.EqualError(t, err, "boom")
}
