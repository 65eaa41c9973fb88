package entity

import (
	"fmt"
	"time"
)

// DateLayout formato de fecha de calendario usado en la API y en el store.
const DateLayout = "2006-01-02"

// TimeEntry registro de tiempo trabajado sobre un Project.
// Date es una fecha de calendario: medianoche UTC, sin componente horario.
type TimeEntry struct {
	ID              string
	ProjectID       string
	Date            time.Time
	StartTime       string // HH:MM o HH:MM:SS
	DurationSeconds int64
	Description     string
	CreatedAt       time.Time
}

// Clone devuelve una copia del registro.
func (e *TimeEntry) Clone() *TimeEntry {
	if e == nil {
		return nil
	}
	out := *e
	return &out
}

// DateOnly trunca t a su fecha de calendario (medianoche UTC) en la zona de t.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate interpreta s como YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha inválida %q: se espera YYYY-MM-DD", s)
	}
	return t, nil
}

// ParseStartTime valida una hora del día (HH:MM o HH:MM:SS) y la devuelve normalizada.
func ParseStartTime(s string) (string, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04:05"), nil
		}
	}
	return "", fmt.Errorf("hora inválida %q: se espera HH:MM", s)
}
