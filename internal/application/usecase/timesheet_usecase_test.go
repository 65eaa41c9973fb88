package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clocwise-api/internal/application/dto"
	"github.com/jhoicas/clocwise-api/internal/application/usecase"
	"github.com/jhoicas/clocwise-api/internal/domain"
	"github.com/jhoicas/clocwise-api/internal/domain/repository/repotest"
	"github.com/jhoicas/clocwise-api/internal/infrastructure/memory"
)

// captureGenerator guarda la última hoja recibida.
type captureGenerator struct {
	sheet *usecase.Timesheet
	err   error
}

func (g *captureGenerator) GenerateTimesheetPDF(_ context.Context, sheet *usecase.Timesheet) ([]byte, error) {
	g.sheet = sheet
	if g.err != nil {
		return nil, g.err
	}
	return []byte("%PDF-fake"), nil
}

func TestTimesheetUseCase_ExportPDF(t *testing.T) {
	store := memory.New()
	gen := &captureGenerator{}
	uc := usecase.NewTimesheetUseCase(store.TimeEntries(), gen)
	u := repotest.MustUser(t, store, "hoja@example.com")
	_, p10 := repotest.MustClient(t, store, u.ID, "Diez", "10")
	_, p100 := repotest.MustClient(t, store, u.ID, "Cien", "100")

	repotest.MustEntry(t, store, u.ID, p10.ID, "2026-03-02", 3600)
	repotest.MustEntry(t, store, u.ID, p100.ID, "2026-03-03", 1800)
	repotest.MustEntry(t, store, u.ID, p10.ID, "2026-04-01", 3600) // fuera del rango

	out, filename, err := uc.ExportPDF(context.Background(), u.ID, u.Email, dto.TimeEntryQuery{
		StartDate: "2026-03-01", EndDate: "2026-03-31",
	})
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(out))
	assert.Equal(t, "horas_2026-03-01_2026-03-31.pdf", filename)

	sheet := gen.sheet
	require.NotNil(t, sheet)
	assert.Equal(t, "hoja@example.com", sheet.Owner)
	require.Len(t, sheet.Lines, 2)
	assert.Equal(t, "2026-03-03", sheet.Lines[0].Date, "más reciente primero")
	assert.Equal(t, "Cien", sheet.Lines[0].Client)
	assert.True(t, sheet.Lines[0].Amount.Equal(decimal.NewFromInt(50)))
	assert.True(t, sheet.TotalHours.Equal(decimal.NewFromFloat(1.5)))
	assert.True(t, sheet.TotalAmount.Equal(decimal.NewFromInt(60)))
	assert.False(t, sheet.Truncated)
}

func TestTimesheetUseCase_RecorreTodasLasPaginas(t *testing.T) {
	store := memory.New()
	gen := &captureGenerator{}
	uc := usecase.NewTimesheetUseCase(store.TimeEntries(), gen)
	u := repotest.MustUser(t, store, "paginas@example.com")
	_, p := repotest.MustClient(t, store, u.ID, "Muchos", "1")

	total := dto.MaxPageLimit + 3
	for i := 0; i < total; i++ {
		repotest.MustEntry(t, store, u.ID, p.ID, "2026-03-02", 360)
	}

	sheet, err := uc.Build(context.Background(), u.ID, u.Email, dto.TimeEntryQuery{Limit: 1, Offset: 10})
	require.NoError(t, err)
	assert.Len(t, sheet.Lines, total, "limit y offset no aplican a la exportación")
	assert.Equal(t, "50.3", sheet.TotalHours.String())
}

func TestTimesheetUseCase_Errores(t *testing.T) {
	store := memory.New()
	u := repotest.MustUser(t, store, "errores@example.com")

	uc := usecase.NewTimesheetUseCase(store.TimeEntries(), &captureGenerator{})
	_, _, err := uc.ExportPDF(context.Background(), u.ID, u.Email, dto.TimeEntryQuery{StartDate: "marzo"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = uc.ExportPDF(context.Background(), u.ID, u.Email, dto.TimeEntryQuery{StartDate: "2026-03-10", EndDate: "2026-03-01"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "endDate", ve.Field)

	boom := errors.New("boom")
	uc = usecase.NewTimesheetUseCase(store.TimeEntries(), &captureGenerator{err: boom})
	_, _, err = uc.ExportPDF(context.Background(), u.ID, u.Email, dto.TimeEntryQuery{})
	assert.ErrorIs(t, err, boom)

	sheet, err := uc.Build(context.Background(), u.ID, u.Email, dto.TimeEntryQuery{})
	require.NoError(t, err)
	assert.Empty(t, sheet.Lines)
	assert.True(t, sheet.TotalAmount.IsZero())
}
