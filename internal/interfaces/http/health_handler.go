package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/clocwise-api/internal/application/dto"
)

// StoreChecker informa qué backend de persistencia está atendiendo.
type StoreChecker interface {
	Check(ctx context.Context) string
}

// HealthHandler responde el health check público.
type HealthHandler struct {
	store StoreChecker
	now   func() time.Time
}

// NewHealthHandler construye el handler. store puede ser nil.
func NewHealthHandler(store StoreChecker) *HealthHandler {
	return &HealthHandler{store: store, now: time.Now}
}

// Get godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Router       /api/health [get]
func (h *HealthHandler) Get(c *fiber.Ctx) error {
	store := "unknown"
	if h.store != nil {
		store = h.store.Check(c.UserContext())
	}
	return c.JSON(dto.HealthResponse{
		Status:    "OK",
		Timestamp: h.now().UTC(),
		Store:     store,
	})
}
