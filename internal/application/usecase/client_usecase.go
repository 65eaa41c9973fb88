package usecase

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/clocwise-api/internal/application/dto"
	"github.com/jhoicas/clocwise-api/internal/domain"
	"github.com/jhoicas/clocwise-api/internal/domain/entity"
	"github.com/jhoicas/clocwise-api/internal/domain/repository"
)

// MaxHourlyRate mayor tarifa representable en NUMERIC(12,2).
var MaxHourlyRate = decimal.RequireFromString("9999999999.99")

// ClientUseCase aplica reglas de negocio para clientes y su árbol de proyectos.
type ClientUseCase struct {
	repo repository.ClientRepository
}

// NewClientUseCase construye el caso de uso con el puerto de persistencia.
func NewClientUseCase(repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo}
}

// Create crea el cliente y su proyecto inicial (estado active) como una unidad.
func (uc *ClientUseCase) Create(ctx context.Context, userID string, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.ProjectName = strings.TrimSpace(in.ProjectName)
	in.ProjectDescription = strings.TrimSpace(in.ProjectDescription)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.HourlyRate.IsNegative() {
		return nil, domain.NewValidationError("hourlyRate", "no puede ser negativa")
	}
	hourlyRate := in.HourlyRate.Round(2)
	if hourlyRate.GreaterThan(MaxHourlyRate) {
		return nil, domain.NewValidationError("hourlyRate", "no puede superar "+MaxHourlyRate.StringFixed(2))
	}

	client := &entity.Client{
		UserID:     userID,
		Name:       in.Name,
		Email:      in.Email,
		HourlyRate: hourlyRate,
	}
	project := &entity.Project{
		Name:        in.ProjectName,
		Description: in.ProjectDescription,
		Status:      entity.ProjectStatusActive,
	}
	if err := uc.repo.CreateWithProject(ctx, client, project); err != nil {
		return nil, err
	}
	out := ToClientResponse(client)
	return &out, nil
}

// List devuelve los clientes del usuario, más recientes primero, con sus proyectos.
func (uc *ClientUseCase) List(ctx context.Context, userID string) ([]dto.ClientResponse, error) {
	clients, err := uc.repo.ListWithProjects(ctx, userID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ClientResponse, 0, len(clients))
	for _, c := range clients {
		items = append(items, ToClientResponse(c))
	}
	return items, nil
}

// Delete elimina el cliente con sus proyectos y registros. Ajeno o inexistente: ErrNotFound.
func (uc *ClientUseCase) Delete(ctx context.Context, userID, clientID string) error {
	if strings.TrimSpace(clientID) == "" {
		return domain.ErrNotFound
	}
	return uc.repo.DeleteCascade(ctx, userID, clientID)
}

// ToClientResponse convierte la entidad (con sus proyectos) a DTO.
func ToClientResponse(c *entity.Client) dto.ClientResponse {
	projects := make([]dto.ProjectResponse, 0, len(c.Projects))
	for _, p := range c.Projects {
		projects = append(projects, ToProjectResponse(p))
	}
	return dto.ClientResponse{
		ID:         c.ID,
		UserID:     c.UserID,
		Name:       c.Name,
		Email:      c.Email,
		HourlyRate: c.HourlyRate.StringFixed(2),
		CreatedAt:  c.CreatedAt,
		Projects:   projects,
	}
}

// ToProjectResponse convierte un proyecto a DTO.
func ToProjectResponse(p *entity.Project) dto.ProjectResponse {
	return dto.ProjectResponse{
		ID:          p.ID,
		ClientID:    p.ClientID,
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
	}
}
