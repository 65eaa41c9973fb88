package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/clocwise-api/internal/application/analytics"
	"github.com/jhoicas/clocwise-api/internal/application/auth"
	"github.com/jhoicas/clocwise-api/internal/application/usecase"
	"github.com/jhoicas/clocwise-api/internal/domain/repository"
	"github.com/jhoicas/clocwise-api/internal/infrastructure/fallback"
	"github.com/jhoicas/clocwise-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/clocwise-api/internal/infrastructure/pdf"
	"github.com/jhoicas/clocwise-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/clocwise-api/internal/interfaces/http"
	"github.com/jhoicas/clocwise-api/pkg/config"
	"github.com/jhoicas/clocwise-api/pkg/jwt"
	"github.com/jhoicas/clocwise-api/pkg/logger"
	"github.com/jhoicas/clocwise-api/pkg/password"
)

// devJWTSecret solo se usa fuera de production cuando JWT_SECRET no está definido.
const devJWTSecret = "clocwise-dev-secret-no-usar-en-produccion"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Primario opcional: sin configuración de base de datos todo corre en memoria.
	var primary repository.Store
	if cfg.DB.Configured() {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("configuración de PostgreSQL")
		}
		defer pool.Close()
		primary = postgres.NewStore(pool, cfg.DB.QueryTimeout)
	} else {
		log.Warn().Msg("PostgreSQL no configurado, usando solo el store en memoria")
	}

	store := fallback.New(primary, memory.New(),
		fallback.WithProbeInterval(cfg.Store.ProbeInterval),
		fallback.WithLogger(log),
	)
	log.Info().Str("store", store.Check(ctx)).Msg("store inicial")

	secret := cfg.JWT.Secret
	if secret == "" {
		log.Warn().Msg("JWT_SECRET vacío, usando secreto de desarrollo")
		secret = devJWTSecret
	}
	tokens, err := jwt.NewManager(secret, cfg.JWT.Issuer)
	if err != nil {
		log.Fatal().Err(err).Msg("configuración JWT")
	}

	authUC := auth.NewAuthUseCase(store.Users(), password.NewBcryptHasher(0), tokens, cfg.JWT.TTL)
	clientUC := usecase.NewClientUseCase(store.Clients())
	timeEntryUC := usecase.NewTimeEntryUseCase(store.TimeEntries())
	timesheetUC := usecase.NewTimesheetUseCase(store.TimeEntries(), infrapdf.NewMarotoTimesheetGenerator())
	statsUC := analytics.NewStatsUseCase(store.Stats(), cfg.Stats.WeekStart, cfg.Stats.Location)

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:        cfg.App.Name,
		StaticDir:   cfg.HTTP.StaticDir,
		SwaggerFile: cfg.HTTP.SwaggerFile,
	}, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ClientUC:    clientUC,
		TimeEntryUC: timeEntryUC,
		TimesheetUC: timesheetUC,
		StatsUC:     statsUC,
		Health:      store,
		Log:         log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
