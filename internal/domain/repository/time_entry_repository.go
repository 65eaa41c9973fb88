package repository

import (
	"context"
	"time"

	"github.com/jhoicas/clocwise-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Paginación por defecto de los registros de tiempo.
const (
	DefaultTimeEntryLimit = 50
)

// TimeEntryFilter filtros del listado. Fechas inclusivas y opcionales.
type TimeEntryFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// TimeEntryDetail modelo de lectura: el registro más los datos de proyecto y cliente.
type TimeEntryDetail struct {
	entity.TimeEntry
	ProjectName string
	ClientName  string
	HourlyRate  decimal.Decimal
}

// TimeEntryRepository define el puerto de persistencia para TimeEntry, siempre acotado al usuario.
type TimeEntryRepository interface {
	// Create inserta el registro si el proyecto pertenece a userID; si no, domain.ErrNotFound.
	Create(ctx context.Context, userID string, entry *entity.TimeEntry) error
	// List ordena por fecha DESC, creación DESC.
	List(ctx context.Context, userID string, filter TimeEntryFilter) ([]*TimeEntryDetail, error)
	// Delete elimina el registro; ajeno o inexistente → domain.ErrNotFound.
	Delete(ctx context.Context, userID, entryID string) error
}
