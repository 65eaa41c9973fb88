package fallback_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clocwise-api/internal/domain"
	"github.com/jhoicas/clocwise-api/internal/domain/entity"
	"github.com/jhoicas/clocwise-api/internal/domain/repository"
	"github.com/jhoicas/clocwise-api/internal/domain/repository/repotest"
	"github.com/jhoicas/clocwise-api/internal/infrastructure/fallback"
	"github.com/jhoicas/clocwise-api/internal/infrastructure/memory"
)

func TestStore_Contract(t *testing.T) {
	t.Run("MemoryOnly", func(t *testing.T) {
		repotest.Run(t, func(t *testing.T) repository.Store {
			return fallback.New(nil, memory.New())
		})
	})
	t.Run("PrimaryHealthy", func(t *testing.T) {
		repotest.Run(t, func(t *testing.T) repository.Store {
			return fallback.New(repotest.NewFlaky(memory.New()), memory.New())
		})
	})
	t.Run("PrimaryDown", func(t *testing.T) {
		repotest.Run(t, func(t *testing.T) repository.Store {
			primary := repotest.NewFlaky(memory.New())
			primary.SetDown(true)
			return fallback.New(primary, memory.New(), fallback.WithProbeInterval(0))
		})
	})
}

func TestStore_UnavailablePrimaryUsesFallback(t *testing.T) {
	primaryData, fallbackData := memory.New(), memory.New()
	primary := repotest.NewFlaky(primaryData)
	primary.SetDown(true)
	s := fallback.New(primary, fallbackData, fallback.WithProbeInterval(time.Hour))
	ctx := context.Background()

	u := repotest.MustUser(t, s, "caida@example.com")

	assert.Equal(t, fallback.ActiveFallback, s.Active())
	_, err := fallbackData.Users().FindByID(ctx, u.ID)
	assert.NoError(t, err, "el registro quedó en el respaldo")
	_, err = primaryData.Users().FindByID(ctx, u.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Con el primario marcado caído y sin ranura de sondeo, no se vuelve a intentar.
	callsAfterFailure := primary.Calls()
	repotest.MustClient(t, s, u.ID, "Respaldo", "10")
	_, err = s.Stats().SumByWindows(ctx, u.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, callsAfterFailure, primary.Calls())
}

func TestStore_BusinessErrorsAreNotRetried(t *testing.T) {
	primaryData, fallbackData := memory.New(), memory.New()
	s := fallback.New(repotest.NewFlaky(primaryData), fallbackData)
	ctx := context.Background()

	repotest.MustUser(t, s, "dup@example.com")
	err := s.Users().Create(ctx, &entity.User{FullName: "Dup", Email: "DUP@example.com", PasswordHash: []byte("h")})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = s.Projects().FindOwnedBy(ctx, "nadie", "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = fallbackData.Users().FindByEmail(ctx, "dup@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound, "el respaldo nunca se tocó")
	assert.Equal(t, fallback.ActivePrimary, s.Active())
}

func TestStore_RecoversWhenPrimaryAnswers(t *testing.T) {
	primaryData, fallbackData := memory.New(), memory.New()
	primary := repotest.NewFlaky(primaryData)
	s := fallback.New(primary, fallbackData, fallback.WithProbeInterval(0))
	ctx := context.Background()

	primary.SetDown(true)
	repotest.MustUser(t, s, "durante@example.com")
	assert.Equal(t, fallback.ActiveFallback, s.Active())

	primary.SetDown(false)
	after := repotest.MustUser(t, s, "despues@example.com")
	assert.Equal(t, fallback.ActivePrimary, s.Active())

	_, err := primaryData.Users().FindByID(ctx, after.ID)
	assert.NoError(t, err)
	_, err = fallbackData.Users().FindByEmail(ctx, "despues@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Check(t *testing.T) {
	primary := repotest.NewFlaky(memory.New())
	s := fallback.New(primary, memory.New(), fallback.WithProbeInterval(0))
	ctx := context.Background()

	assert.Equal(t, fallback.ActivePrimary, s.Check(ctx))

	primary.SetDown(true)
	assert.Equal(t, fallback.ActiveFallback, s.Check(ctx))

	primary.SetDown(false)
	assert.Equal(t, fallback.ActivePrimary, s.Check(ctx))

	memOnly := fallback.New(nil, memory.New())
	assert.Equal(t, fallback.ActiveMemory, memOnly.Check(ctx))
}

func TestStore_CanceledContextSkipsFallback(t *testing.T) {
	primary := repotest.NewFlaky(memory.New())
	primary.SetDown(true)
	s := fallback.New(primary, memory.New(), fallback.WithProbeInterval(0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Users().FindByEmail(ctx, "x@example.com")
	assert.ErrorIs(t, err, context.Canceled)
}
