package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/clocwise-api/internal/application/analytics"
	"github.com/jhoicas/clocwise-api/pkg/logger"
)

// StatsHandler expone las estadísticas del usuario.
type StatsHandler struct {
	uc  *analytics.StatsUseCase
	log *logger.Logger
}

// NewStatsHandler construye el handler de estadísticas.
func NewStatsHandler(uc *analytics.StatsUseCase, log *logger.Logger) *StatsHandler {
	return &StatsHandler{uc: uc, log: log}
}

// Get godoc
// @Summary      Horas de hoy, semana y mes y ganancias del mes
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.StatsResponse
// @Router       /api/stats [get]
func (h *StatsHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
