package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/clocwise-api/internal/application/dto"
	"github.com/jhoicas/clocwise-api/internal/domain"
	"github.com/jhoicas/clocwise-api/internal/domain/entity"
	"github.com/jhoicas/clocwise-api/internal/domain/repository"
)

// TimeEntryUseCase aplica reglas de negocio para registros de tiempo.
type TimeEntryUseCase struct {
	repo repository.TimeEntryRepository
}

// NewTimeEntryUseCase construye el caso de uso con el puerto de persistencia.
func NewTimeEntryUseCase(repo repository.TimeEntryRepository) *TimeEntryUseCase {
	return &TimeEntryUseCase{repo: repo}
}

// Create registra tiempo contra un proyecto del usuario. Proyecto ajeno o inexistente: ErrNotFound.
func (uc *TimeEntryUseCase) Create(ctx context.Context, userID string, in dto.CreateTimeEntryRequest) (*dto.TimeEntryResponse, error) {
	in.ProjectID = strings.TrimSpace(in.ProjectID)
	in.Date = strings.TrimSpace(in.Date)
	in.StartTime = strings.TrimSpace(in.StartTime)
	in.Description = strings.TrimSpace(in.Description)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	date, err := entity.ParseDate(in.Date)
	if err != nil {
		return nil, domain.NewValidationError("date", "debe tener formato YYYY-MM-DD")
	}
	start, err := entity.ParseStartTime(in.StartTime)
	if err != nil {
		return nil, domain.NewValidationError("startTime", "debe tener formato HH:MM o HH:MM:SS")
	}

	entry := &entity.TimeEntry{
		ProjectID:       in.ProjectID,
		Date:            date,
		StartTime:       start,
		DurationSeconds: in.Duration,
		Description:     in.Description,
	}
	if err := uc.repo.Create(ctx, userID, entry); err != nil {
		return nil, err
	}
	out := ToTimeEntryResponse(entry)
	return &out, nil
}

// List devuelve los registros del usuario filtrados por rango de fechas inclusivo y paginados.
func (uc *TimeEntryUseCase) List(ctx context.Context, userID string, q dto.TimeEntryQuery) ([]dto.TimeEntryResponse, error) {
	start, err := optionalDate("startDate", q.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := optionalDate("endDate", q.EndDate)
	if err != nil {
		return nil, err
	}
	if q.Limit < 0 || q.Offset < 0 {
		return nil, domain.NewValidationError("limit", "limit y offset no pueden ser negativos")
	}
	page := q.Page()

	list, err := uc.repo.List(ctx, userID, repository.TimeEntryFilter{
		StartDate: start,
		EndDate:   end,
		Limit:     page.Limit,
		Offset:    page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.TimeEntryResponse, 0, len(list))
	for _, d := range list {
		item := ToTimeEntryResponse(&d.TimeEntry)
		item.ProjectName = d.ProjectName
		item.ClientName = d.ClientName
		item.HourlyRate = d.HourlyRate.StringFixed(2)
		items = append(items, item)
	}
	return items, nil
}

// Delete elimina un registro del usuario. Ajeno o inexistente: ErrNotFound.
func (uc *TimeEntryUseCase) Delete(ctx context.Context, userID, entryID string) error {
	if strings.TrimSpace(entryID) == "" {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(ctx, userID, entryID)
}

// ToTimeEntryResponse convierte la entidad a DTO.
func ToTimeEntryResponse(e *entity.TimeEntry) dto.TimeEntryResponse {
	return dto.TimeEntryResponse{
		ID:          e.ID,
		ProjectID:   e.ProjectID,
		Date:        e.Date.Format(entity.DateLayout),
		StartTime:   e.StartTime,
		Duration:    e.DurationSeconds,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	}
}

func optionalDate(field, s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := entity.ParseDate(s)
	if err != nil {
		return nil, domain.NewValidationError(field, "debe tener formato YYYY-MM-DD")
	}
	return &d, nil
}
