// Package repotest contiene la batería de contrato que todo repository.Store debe cumplir.
// La usan los tests del store en memoria, el de integración de postgres y el de fallback,
// así los tres backends quedan obligados a devolver exactamente la misma forma.
package repotest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clocwise-api/internal/domain"
	"github.com/jhoicas/clocwise-api/internal/domain/entity"
	"github.com/jhoicas/clocwise-api/internal/domain/repository"
)

// Factory construye un store vacío y aislado para cada subtest.
type Factory func(t *testing.T) repository.Store

// Run ejecuta la batería completa contra los stores que produce newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()
	t.Run("Users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("UsersConcurrentDuplicate", func(t *testing.T) { testConcurrentDuplicate(t, newStore(t)) })
	t.Run("ClientWithProject", func(t *testing.T) { testClientWithProject(t, newStore(t)) })
	t.Run("DeleteCascade", func(t *testing.T) { testDeleteCascade(t, newStore(t)) })
	t.Run("Ownership", func(t *testing.T) { testOwnership(t, newStore(t)) })
	t.Run("TimeEntryFiltersAndPaging", func(t *testing.T) { testTimeEntryListing(t, newStore(t)) })
	t.Run("Stats", func(t *testing.T) { testStats(t, newStore(t)) })
	t.Run("RejectsUnknownPlanAndStatus", func(t *testing.T) { testUnknownPlanAndStatus(t, newStore(t)) })
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

// MustUser crea un usuario con el email dado.
func MustUser(t *testing.T, s repository.Store, email string) *entity.User {
	t.Helper()
	u := &entity.User{
		FullName:     "Usuario " + email,
		Email:        entity.NormalizeEmail(email),
		PasswordHash: []byte("hash-opaco"),
		Plan:         entity.PlanStarter,
	}
	require.NoError(t, s.Users().Create(context.Background(), u))
	return u
}

// MustClient crea un cliente con su proyecto inicial.
func MustClient(t *testing.T, s repository.Store, userID, name string, rate string) (*entity.Client, *entity.Project) {
	t.Helper()
	c := &entity.Client{UserID: userID, Name: name, HourlyRate: decimal.RequireFromString(rate)}
	p := &entity.Project{Name: "Proyecto " + name, Status: entity.ProjectStatusActive}
	require.NoError(t, s.Clients().CreateWithProject(context.Background(), c, p))
	return c, p
}

// MustEntry crea un registro de tiempo en la fecha indicada (YYYY-MM-DD).
func MustEntry(t *testing.T, s repository.Store, userID, projectID, date string, seconds int64) *entity.TimeEntry {
	t.Helper()
	d, err := entity.ParseDate(date)
	require.NoError(t, err)
	e := &entity.TimeEntry{ProjectID: projectID, Date: d, StartTime: "09:00:00", DurationSeconds: seconds}
	require.NoError(t, s.TimeEntries().Create(context.Background(), userID, e))
	return e
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := entity.ParseDate(s)
	require.NoError(t, err)
	return d
}

// ──────────────────────────────────────────────────────────────────────────────
// Casos
// ──────────────────────────────────────────────────────────────────────────────

func testUsers(t *testing.T, s repository.Store) {
	ctx := context.Background()
	u := MustUser(t, s, "Ana@Example.com")

	assert.NotEmpty(t, u.ID, "el store asigna el ID")
	assert.False(t, u.CreatedAt.IsZero(), "el store asigna CreatedAt")
	assert.Equal(t, "ana@example.com", u.Email)

	byEmail, err := s.Users().FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.Equal(t, []byte("hash-opaco"), byEmail.PasswordHash)
	assert.Equal(t, entity.PlanStarter, byEmail.Plan)
	assert.True(t, u.CreatedAt.Equal(byEmail.CreatedAt))

	byID, err := s.Users().FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", byID.Email)

	dup := &entity.User{FullName: "Otra", Email: entity.NormalizeEmail("ANA@example.COM"), PasswordHash: []byte("x"), Plan: entity.PlanStarter}
	assert.ErrorIs(t, s.Users().Create(ctx, dup), domain.ErrEmailAlreadyExists)

	_, err = s.Users().FindByEmail(ctx, "nadie@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.Users().FindByID(ctx, "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func testConcurrentDuplicate(t *testing.T, s repository.Store) {
	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u := &entity.User{
				FullName:     fmt.Sprintf("Intento %d", i),
				Email:        "carrera@example.com",
				PasswordHash: []byte("h"),
				Plan:         entity.PlanStarter,
			}
			err := s.Users().Create(context.Background(), u)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists):
				conflicts++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes, "exactamente un registro gana la carrera")
	assert.Equal(t, attempts-1, conflicts)
}

func testClientWithProject(t *testing.T, s repository.Store) {
	ctx := context.Background()
	u := MustUser(t, s, "clientes@example.com")

	c := &entity.Client{UserID: u.ID, Name: "Acme", Email: "pagos@acme.test", HourlyRate: decimal.RequireFromString("45.50")}
	p := &entity.Project{Name: "Web", Description: "", Status: entity.ProjectStatusActive}
	require.NoError(t, s.Clients().CreateWithProject(ctx, c, p))

	assert.NotEmpty(t, c.ID)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, c.ID, p.ClientID)
	require.Len(t, c.Projects, 1)

	list, err := s.Clients().ListWithProjects(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	got := list[0]
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, u.ID, got.UserID)
	assert.Equal(t, "Acme", got.Name)
	assert.Equal(t, "pagos@acme.test", got.Email)
	assert.True(t, got.HourlyRate.Equal(decimal.RequireFromString("45.5")))
	require.Len(t, got.Projects, 1)
	assert.Equal(t, p.ID, got.Projects[0].ID)
	assert.Equal(t, "Web", got.Projects[0].Name)
	assert.Equal(t, entity.ProjectStatusActive, got.Projects[0].Status)

	// Un segundo cliente aparece primero (más reciente).
	c2, _ := MustClient(t, s, u.ID, "Globex", "10")
	list, err = s.Clients().ListWithProjects(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, c2.ID, list[0].ID)

	other := MustUser(t, s, "otro@example.com")
	list, err = s.Clients().ListWithProjects(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func testDeleteCascade(t *testing.T, s repository.Store) {
	ctx := context.Background()
	u := MustUser(t, s, "cascada@example.com")
	c, p := MustClient(t, s, u.ID, "Borrable", "20")
	keep, keepP := MustClient(t, s, u.ID, "Se queda", "20")
	MustEntry(t, s, u.ID, p.ID, "2026-03-01", 3600)
	MustEntry(t, s, u.ID, p.ID, "2026-03-02", 1800)
	kept := MustEntry(t, s, u.ID, keepP.ID, "2026-03-02", 600)

	require.NoError(t, s.Clients().DeleteCascade(ctx, u.ID, c.ID))

	list, err := s.Clients().ListWithProjects(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, keep.ID, list[0].ID)

	_, err = s.Projects().FindOwnedBy(ctx, u.ID, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "el proyecto se fue con el cliente")

	entries, err := s.TimeEntries().List(ctx, u.ID, repository.TimeEntryFilter{Limit: 100})
	require.NoError(t, err)
	require.Len(t, entries, 1, "solo sobreviven los registros del otro cliente")
	assert.Equal(t, kept.ID, entries[0].ID)

	assert.ErrorIs(t, s.Clients().DeleteCascade(ctx, u.ID, c.ID), domain.ErrNotFound, "borrar dos veces es not-found")
}

func testOwnership(t *testing.T, s repository.Store) {
	ctx := context.Background()
	owner := MustUser(t, s, "duena@example.com")
	intruder := MustUser(t, s, "intruso@example.com")
	c, p := MustClient(t, s, owner.ID, "Privado", "30")
	e := MustEntry(t, s, owner.ID, p.ID, "2026-04-10", 900)

	_, err := s.Projects().FindOwnedBy(ctx, intruder.ID, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	foreign := &entity.TimeEntry{ProjectID: p.ID, Date: day(t, "2026-04-10"), StartTime: "10:00:00", DurationSeconds: 60}
	assert.ErrorIs(t, s.TimeEntries().Create(ctx, intruder.ID, foreign), domain.ErrNotFound)

	assert.ErrorIs(t, s.TimeEntries().Delete(ctx, intruder.ID, e.ID), domain.ErrNotFound)
	assert.ErrorIs(t, s.Clients().DeleteCascade(ctx, intruder.ID, c.ID), domain.ErrNotFound)

	list, err := s.TimeEntries().List(ctx, intruder.ID, repository.TimeEntryFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	// Nada de lo anterior tocó los datos de la dueña.
	got, err := s.Projects().FindOwnedBy(ctx, owner.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	require.NoError(t, s.TimeEntries().Delete(ctx, owner.ID, e.ID))
	assert.ErrorIs(t, s.TimeEntries().Delete(ctx, owner.ID, e.ID), domain.ErrNotFound)
}

func testTimeEntryListing(t *testing.T, s repository.Store) {
	ctx := context.Background()
	u := MustUser(t, s, "listado@example.com")
	_, p := MustClient(t, s, u.ID, "Cliente", "12.5")

	first := MustEntry(t, s, u.ID, p.ID, "2026-05-02", 100)
	second := MustEntry(t, s, u.ID, p.ID, "2026-05-02", 200)
	MustEntry(t, s, u.ID, p.ID, "2026-05-01", 300)
	MustEntry(t, s, u.ID, p.ID, "2026-05-03", 400)
	MustEntry(t, s, u.ID, p.ID, "2026-04-30", 500)

	all, err := s.TimeEntries().List(ctx, u.ID, repository.TimeEntryFilter{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, day(t, "2026-05-03"), all[0].Date)
	assert.Equal(t, second.ID, all[1].ID, "mismo día: el más reciente primero")
	assert.Equal(t, first.ID, all[2].ID)
	assert.Equal(t, day(t, "2026-04-30"), all[4].Date)
	assert.Equal(t, "Cliente", all[0].ClientName)
	assert.Equal(t, "Proyecto Cliente", all[0].ProjectName)
	assert.True(t, all[0].HourlyRate.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, "09:00:00", all[0].StartTime)

	from, to := day(t, "2026-05-01"), day(t, "2026-05-02")
	ranged, err := s.TimeEntries().List(ctx, u.ID, repository.TimeEntryFilter{StartDate: &from, EndDate: &to})
	require.NoError(t, err)
	require.Len(t, ranged, 3, "rango inclusivo en ambos extremos")
	for _, e := range ranged {
		assert.False(t, e.Date.Before(from) || e.Date.After(to))
	}

	onlyStart, err := s.TimeEntries().List(ctx, u.ID, repository.TimeEntryFilter{StartDate: &to})
	require.NoError(t, err)
	assert.Len(t, onlyStart, 3)

	page, err := s.TimeEntries().List(ctx, u.ID, repository.TimeEntryFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, all[1].ID, page[0].ID)
	assert.Equal(t, all[2].ID, page[1].ID)

	beyond, err := s.TimeEntries().List(ctx, u.ID, repository.TimeEntryFilter{Limit: 10, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func testStats(t *testing.T, s repository.Store) {
	ctx := context.Background()
	u := MustUser(t, s, "stats@example.com")
	_, p := MustClient(t, s, u.ID, "Por hora", "10")
	_, p2 := MustClient(t, s, u.ID, "Caro", "100")

	MustEntry(t, s, u.ID, p.ID, "2026-06-15", 3600)
	MustEntry(t, s, u.ID, p.ID, "2026-06-15", 1800)
	MustEntry(t, s, u.ID, p2.ID, "2026-06-10", 360)
	MustEntry(t, s, u.ID, p.ID, "2026-05-31", 7200) // fuera del mes

	other := MustUser(t, s, "ajeno@example.com")
	_, op := MustClient(t, s, other.ID, "Ajeno", "999")
	MustEntry(t, s, other.ID, op.ID, "2026-06-15", 99999)

	windows := []repository.DateRange{
		{From: day(t, "2026-06-15"), To: day(t, "2026-06-15")},
		{From: day(t, "2026-06-14"), To: day(t, "2026-06-15")},
		{From: day(t, "2026-06-01"), To: day(t, "2026-06-15")},
	}
	totals, err := s.Stats().SumByWindows(ctx, u.ID, windows)
	require.NoError(t, err)
	require.Len(t, totals, 3)

	assert.Equal(t, int64(5400), totals[0].Seconds)
	assert.Equal(t, int64(5400), totals[1].Seconds)
	assert.Equal(t, int64(5760), totals[2].Seconds)
	// 5400×10 + 360×100
	assert.True(t, totals[2].RateSeconds.Equal(decimal.NewFromInt(90000)), "got %s", totals[2].RateSeconds)

	empty, err := s.Stats().SumByWindows(ctx, MustUser(t, s, "vacio@example.com").ID, windows)
	require.NoError(t, err)
	for _, w := range empty {
		assert.Zero(t, w.Seconds)
		assert.True(t, w.RateSeconds.IsZero())
	}
}

func testUnknownPlanAndStatus(t *testing.T, s repository.Store) {
	ctx := context.Background()

	u := &entity.User{FullName: "Plan", Email: "plan@example.com", PasswordHash: []byte("x"), Plan: "gratis"}
	err := s.Users().Create(ctx, u)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = s.Users().FindByEmail(ctx, "plan@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound, "no debe quedar registrado")

	owner := MustUser(t, s, "estado@example.com")
	c := &entity.Client{UserID: owner.ID, Name: "Estado", HourlyRate: decimal.NewFromInt(1)}
	p := &entity.Project{Name: "Proyecto Estado", Status: "pausado"}
	require.ErrorIs(t, s.Clients().CreateWithProject(ctx, c, p), domain.ErrInvalidInput)

	list, err := s.Clients().ListWithProjects(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
