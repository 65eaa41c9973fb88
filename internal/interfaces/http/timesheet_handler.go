package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/clocwise-api/internal/application/dto"
	"github.com/jhoicas/clocwise-api/internal/application/usecase"
	"github.com/jhoicas/clocwise-api/pkg/logger"
)

// TimesheetHandler exporta la hoja de horas.
type TimesheetHandler struct {
	uc  *usecase.TimesheetUseCase
	log *logger.Logger
}

// NewTimesheetHandler construye el handler.
func NewTimesheetHandler(uc *usecase.TimesheetUseCase, log *logger.Logger) *TimesheetHandler {
	return &TimesheetHandler{uc: uc, log: log}
}

// Export godoc
// @Summary      Descargar hoja de horas en PDF
// @Tags         time-entries
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        startDate  query  string  false  "YYYY-MM-DD inclusivo"
// @Param        endDate    query  string  false  "YYYY-MM-DD inclusivo"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/time-entries/export [get]
func (h *TimesheetHandler) Export(c *fiber.Ctx) error {
	var q dto.TimeEntryQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: CodeValidation, Message: "parámetros de consulta inválidos"})
	}
	pdfBytes, filename, err := h.uc.ExportPDF(c.UserContext(), GetUserID(c), GetEmail(c), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdfBytes)
}
