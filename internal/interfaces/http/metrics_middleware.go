package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/clocwise-api/pkg/metrics"
)

// MetricsMiddleware registra conteo y duración de cada petición por ruta
// (el patrón registrado, no el path concreto, para acotar la cardinalidad).
func MetricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		if route == "" || route == "/" && c.Path() != "/" {
			route = "unmatched"
		}
		metrics.RecordHTTPRequest(c.Method(), route, status, time.Since(start))
		return err
	}
}
