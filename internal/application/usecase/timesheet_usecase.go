package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/clocwise-api/internal/application/dto"
	"github.com/jhoicas/clocwise-api/internal/domain"
	"github.com/jhoicas/clocwise-api/internal/domain/entity"
	"github.com/jhoicas/clocwise-api/internal/domain/repository"
)

// MaxTimesheetLines tope de registros por hoja exportada.
const MaxTimesheetLines = 5000

var secondsPerHour = decimal.NewFromInt(3600)

// TimesheetPDFGenerator puerto del generador de la hoja de horas en PDF.
type TimesheetPDFGenerator interface {
	GenerateTimesheetPDF(ctx context.Context, sheet *Timesheet) ([]byte, error)
}

// TimesheetLine una fila de la hoja: un registro de tiempo con su importe.
type TimesheetLine struct {
	Date        string
	StartTime   string
	Client      string
	Project     string
	Description string
	Hours       decimal.Decimal
	Amount      decimal.Decimal
}

// Timesheet datos listos para renderizar. Los totales son la suma de Lines.
type Timesheet struct {
	Owner       string
	From        string // vacío = sin límite
	To          string
	GeneratedAt time.Time
	Lines       []TimesheetLine
	TotalHours  decimal.Decimal
	TotalAmount decimal.Decimal
	Truncated   bool // se alcanzó MaxTimesheetLines
}

// TimesheetUseCase exporta el listado de registros como hoja de horas.
type TimesheetUseCase struct {
	repo      repository.TimeEntryRepository
	generator TimesheetPDFGenerator
	now       func() time.Time
}

// NewTimesheetUseCase construye el caso de uso.
func NewTimesheetUseCase(repo repository.TimeEntryRepository, generator TimesheetPDFGenerator) *TimesheetUseCase {
	return &TimesheetUseCase{repo: repo, generator: generator, now: time.Now}
}

// Build arma la hoja con los mismos filtros de fecha que el listado, recorriendo
// todas las páginas hasta MaxTimesheetLines. limit y offset de q se ignoran.
func (uc *TimesheetUseCase) Build(ctx context.Context, userID, owner string, q dto.TimeEntryQuery) (*Timesheet, error) {
	start, err := optionalDate("startDate", q.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := optionalDate("endDate", q.EndDate)
	if err != nil {
		return nil, err
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, domain.NewValidationError("endDate", "no puede ser anterior a startDate")
	}

	sheet := &Timesheet{
		Owner:       owner,
		GeneratedAt: uc.now().UTC(),
		Lines:       make([]TimesheetLine, 0),
	}
	if start != nil {
		sheet.From = start.Format(entity.DateLayout)
	}
	if end != nil {
		sheet.To = end.Format(entity.DateLayout)
	}

	for offset := 0; ; offset += dto.MaxPageLimit {
		page, err := uc.repo.List(ctx, userID, repository.TimeEntryFilter{
			StartDate: start,
			EndDate:   end,
			Limit:     dto.MaxPageLimit,
			Offset:    offset,
		})
		if err != nil {
			return nil, err
		}
		for _, d := range page {
			if len(sheet.Lines) == MaxTimesheetLines {
				sheet.Truncated = true
				return sheet, nil
			}
			hours := decimal.NewFromInt(d.DurationSeconds).Div(secondsPerHour)
			line := TimesheetLine{
				Date:        d.Date.Format(entity.DateLayout),
				StartTime:   d.StartTime,
				Client:      d.ClientName,
				Project:     d.ProjectName,
				Description: d.Description,
				Hours:       hours,
				Amount:      hours.Mul(d.HourlyRate),
			}
			sheet.Lines = append(sheet.Lines, line)
			sheet.TotalHours = sheet.TotalHours.Add(line.Hours)
			sheet.TotalAmount = sheet.TotalAmount.Add(line.Amount)
		}
		if len(page) < dto.MaxPageLimit {
			return sheet, nil
		}
	}
}

// ExportPDF genera el PDF de la hoja y un nombre de archivo sugerido.
func (uc *TimesheetUseCase) ExportPDF(ctx context.Context, userID, owner string, q dto.TimeEntryQuery) (pdfBytes []byte, filename string, err error) {
	sheet, err := uc.Build(ctx, userID, owner, q)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.generator.GenerateTimesheetPDF(ctx, sheet)
	if err != nil {
		return nil, "", fmt.Errorf("timesheet: generación fallida: %w", err)
	}
	return pdfBytes, timesheetFilename(sheet), nil
}

func timesheetFilename(s *Timesheet) string {
	switch {
	case s.From != "" && s.To != "":
		return fmt.Sprintf("horas_%s_%s.pdf", s.From, s.To)
	case s.From != "":
		return fmt.Sprintf("horas_desde_%s.pdf", s.From)
	case s.To != "":
		return fmt.Sprintf("horas_hasta_%s.pdf", s.To)
	}
	return "horas.pdf"
}
