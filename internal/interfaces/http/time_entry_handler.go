package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/clocwise-api/internal/application/dto"
	"github.com/jhoicas/clocwise-api/internal/application/usecase"
	"github.com/jhoicas/clocwise-api/pkg/logger"
)

// TimeEntryHandler maneja los registros de tiempo.
type TimeEntryHandler struct {
	uc  *usecase.TimeEntryUseCase
	log *logger.Logger
}

// NewTimeEntryHandler construye el handler de registros de tiempo.
func NewTimeEntryHandler(uc *usecase.TimeEntryUseCase, log *logger.Logger) *TimeEntryHandler {
	return &TimeEntryHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar registros de tiempo
// @Tags         time-entries
// @Produce      json
// @Security     BearerAuth
// @Param        startDate  query  string  false  "YYYY-MM-DD inclusivo"
// @Param        endDate    query  string  false  "YYYY-MM-DD inclusivo"
// @Param        limit      query  int     false  "por defecto 50"
// @Param        offset     query  int     false  "por defecto 0"
// @Success      200  {array}  dto.TimeEntryResponse
// @Router       /api/time-entries [get]
func (h *TimeEntryHandler) List(c *fiber.Ctx) error {
	var q dto.TimeEntryQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: CodeValidation, Message: "parámetros de consulta inválidos"})
	}
	out, err := h.uc.List(c.UserContext(), GetUserID(c), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Registrar tiempo
// @Tags         time-entries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateTimeEntryRequest  true  "registro"
// @Success      201   {object}  dto.TimeEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/time-entries [post]
func (h *TimeEntryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTimeEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Delete godoc
// @Summary      Eliminar registro de tiempo
// @Tags         time-entries
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del registro"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/time-entries/{id} [delete]
func (h *TimeEntryHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Registro eliminado correctamente"})
}
