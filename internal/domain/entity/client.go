package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client representa un cliente facturable de un usuario.
// Projects solo viene poblado en los listados (ListWithProjects).
type Client struct {
	ID         string
	UserID     string
	Name       string
	Email      string // opcional; vacío = sin email
	HourlyRate decimal.Decimal
	CreatedAt  time.Time
	Projects   []*Project
}

// Clone devuelve una copia profunda (el store en memoria nunca expone sus punteros).
func (c *Client) Clone() *Client {
	if c == nil {
		return nil
	}
	out := *c
	if c.Projects != nil {
		out.Projects = make([]*Project, 0, len(c.Projects))
		for _, p := range c.Projects {
			out.Projects = append(out.Projects, p.Clone())
		}
	}
	return &out
}
