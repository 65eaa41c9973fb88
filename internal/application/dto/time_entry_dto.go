package dto

import "time"

// CreateTimeEntryRequest entrada para registrar tiempo. Duration en segundos.
type CreateTimeEntryRequest struct {
	ProjectID   string `json:"projectId" validate:"required"`
	Date        string `json:"date" validate:"required"`      // YYYY-MM-DD
	StartTime   string `json:"startTime" validate:"required"` // HH:MM o HH:MM:SS
	Duration    int64  `json:"duration" validate:"required,gt=0"`
	Description string `json:"description"`
}

// TimeEntryQuery filtros del listado de registros.
type TimeEntryQuery struct {
	StartDate string `query:"startDate"`
	EndDate   string `query:"endDate"`
	Limit     int    `query:"limit"`
	Offset    int    `query:"offset"`
}

// Page devuelve la paginación con los valores por defecto aplicados.
func (q TimeEntryQuery) Page() PageRequest {
	p := PageRequest{Limit: q.Limit, Offset: q.Offset}
	p.DefaultPage()
	return p
}

// TimeEntryResponse salida de un registro. Los campos del proyecto y cliente
// solo vienen en el listado.
type TimeEntryResponse struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"projectId"`
	Date        string    `json:"date"`
	StartTime   string    `json:"startTime"`
	Duration    int64     `json:"duration"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	ProjectName string    `json:"projectName,omitempty"`
	ClientName  string    `json:"clientName,omitempty"`
	HourlyRate  string    `json:"hourlyRate,omitempty"`
}
