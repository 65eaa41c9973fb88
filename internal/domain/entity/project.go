package entity

import "time"

// Estados de un proyecto.
const (
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
	ProjectStatusArchived  = "archived"
)

// Project pertenece a un único Client.
type Project struct {
	ID          string
	ClientID    string
	Name        string
	Description string
	Status      string
	CreatedAt   time.Time
}

// Clone devuelve una copia del proyecto.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	out := *p
	return &out
}

// IsValidProjectStatus indica si status es un estado conocido.
func IsValidProjectStatus(status string) bool {
	switch status {
	case ProjectStatusActive, ProjectStatusCompleted, ProjectStatusArchived:
		return true
	}
	return false
}
