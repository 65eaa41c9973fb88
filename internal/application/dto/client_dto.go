package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateClientRequest entrada para crear un cliente junto con su primer proyecto.
// HourlyRate acepta número o string JSON ("45.50").
type CreateClientRequest struct {
	Name               string           `json:"name" validate:"required"`
	Email              string           `json:"email" validate:"omitempty,email"`
	HourlyRate         *decimal.Decimal `json:"hourlyRate" validate:"required"`
	ProjectName        string           `json:"projectName" validate:"required"`
	ProjectDescription string           `json:"projectDescription"`
}

// ProjectResponse salida de un proyecto.
type ProjectResponse struct {
	ID          string    `json:"id"`
	ClientID    string    `json:"clientId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ClientResponse salida de un cliente con sus proyectos.
type ClientResponse struct {
	ID         string            `json:"id"`
	UserID     string            `json:"userId"`
	Name       string            `json:"name"`
	Email      string            `json:"email,omitempty"`
	HourlyRate string            `json:"hourlyRate"` // dos decimales, ej. "45.50"
	CreatedAt  time.Time         `json:"createdAt"`
	Projects   []ProjectResponse `json:"projects"`
}
