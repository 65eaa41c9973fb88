package http

import (
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/clocwise-api/internal/application/analytics"
	"github.com/jhoicas/clocwise-api/internal/application/auth"
	"github.com/jhoicas/clocwise-api/internal/application/usecase"
	"github.com/jhoicas/clocwise-api/pkg/logger"
	"github.com/jhoicas/clocwise-api/pkg/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ClientUC    *usecase.ClientUseCase
	TimeEntryUC *usecase.TimeEntryUseCase
	TimesheetUC *usecase.TimesheetUseCase
	StatsUC     *analytics.StatsUseCase
	Health      StoreChecker
	Log         *logger.Logger
}

// AppConfig parámetros de la aplicación Fiber.
type AppConfig struct {
	Name        string
	StaticDir   string // vacío = sin frontend estático
	SwaggerFile string // vacío o inexistente = sin /docs
}

// NewApp construye la aplicación Fiber con middlewares, rutas de la API y,
// si existen, el frontend estático y la documentación Swagger.
func NewApp(cfg AppConfig, deps RouterDeps) *fiber.App {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("http")
	deps.Log = log

	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(MetricsMiddleware())

	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	// Swagger UI: http://localhost:<port>/docs
	if fileExists(cfg.SwaggerFile) {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.SwaggerFile,
			Path:     "docs",
			Title:    "Clocwise API",
		}))
	}

	Router(app, deps)

	if cfg.StaticDir != "" {
		mountStatic(app, cfg.StaticDir)
	}
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	api.Get("/health", NewHealthHandler(deps.Health).Get)

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.Log)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	requireAuth := AuthMiddleware(deps.AuthUC)

	// Clients
	clients := api.Group("/clients", requireAuth)
	clientHandler := NewClientHandler(deps.ClientUC, deps.Log)
	clients.Get("/", clientHandler.List)
	clients.Post("/", clientHandler.Create)
	clients.Delete("/:id", clientHandler.Delete)

	// Time entries
	entries := api.Group("/time-entries", requireAuth)
	entryHandler := NewTimeEntryHandler(deps.TimeEntryUC, deps.Log)
	entries.Get("/", entryHandler.List)
	entries.Get("/export", NewTimesheetHandler(deps.TimesheetUC, deps.Log).Export)
	entries.Post("/", entryHandler.Create)
	entries.Delete("/:id", entryHandler.Delete)

	// Stats
	statsHandler := NewStatsHandler(deps.StatsUC, deps.Log)
	api.Get("/stats", requireAuth, statsHandler.Get)
}

// mountStatic sirve el frontend: index en "/" y las páginas sueltas por nombre.
func mountStatic(app *fiber.App, dir string) {
	if !dirExists(dir) {
		return
	}
	for _, page := range []string{"auth", "dashboard", "debug"} {
		file := filepath.Join(dir, page+".html")
		if !fileExists(file) {
			continue
		}
		app.Get("/"+page, func(c *fiber.Ctx) error {
			return c.SendFile(file)
		})
	}
	app.Static("/", dir)
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
