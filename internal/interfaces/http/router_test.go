package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/clocwise-api/internal/application/analytics"
	"github.com/jhoicas/clocwise-api/internal/application/auth"
	"github.com/jhoicas/clocwise-api/internal/application/dto"
	"github.com/jhoicas/clocwise-api/internal/application/usecase"
	"github.com/jhoicas/clocwise-api/internal/domain/repository/repotest"
	"github.com/jhoicas/clocwise-api/internal/infrastructure/fallback"
	"github.com/jhoicas/clocwise-api/internal/infrastructure/memory"
	"github.com/jhoicas/clocwise-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/clocwise-api/internal/interfaces/http"
	"github.com/jhoicas/clocwise-api/pkg/jwt"
	"github.com/jhoicas/clocwise-api/pkg/password"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testJWTSecret = "test-secret-key-for-unit-tests"

// testNow miércoles 11 de marzo de 2026, mediodía UTC.
var testNow = time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)

// buildApp arma la aplicación completa sobre store, con reloj fijo para estadísticas.
func buildApp(t *testing.T, store *fallback.Store, cfg apphttp.AppConfig) *fiber.App {
	t.Helper()
	tokens, err := jwt.NewManager(testJWTSecret, "clocwise-test")
	require.NoError(t, err)

	return apphttp.NewApp(cfg, apphttp.RouterDeps{
		AuthUC:      auth.NewAuthUseCase(store.Users(), password.NewBcryptHasher(bcrypt.MinCost), tokens, 0),
		ClientUC:    usecase.NewClientUseCase(store.Clients()),
		TimeEntryUC: usecase.NewTimeEntryUseCase(store.TimeEntries()),
		TimesheetUC: usecase.NewTimesheetUseCase(store.TimeEntries(), pdf.NewMarotoTimesheetGenerator()),
		StatsUC: analytics.NewStatsUseCase(store.Stats(), time.Monday, time.UTC,
			analytics.WithClock(func() time.Time { return testNow })),
		Health: store,
	})
}

func memoryApp(t *testing.T) *fiber.App {
	return buildApp(t, fallback.New(nil, memory.New()), apphttp.AppConfig{Name: "clocwise-test"})
}

// do envía la petición y devuelve status y cuerpo crudo.
func do(t *testing.T, app *fiber.App, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

// register crea un usuario y devuelve su token.
func register(t *testing.T, app *fiber.App, email string) dto.AuthResponse {
	t.Helper()
	status, raw := do(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"fullName": "Usuaria de Prueba",
		"email":    email,
		"password": "secreto1",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	return decode[dto.AuthResponse](t, raw)
}

func createClient(t *testing.T, app *fiber.App, token, name string, rate any) dto.ClientResponse {
	t.Helper()
	status, raw := do(t, app, http.MethodPost, "/api/clients", token, fiber.Map{
		"name":        name,
		"hourlyRate":  rate,
		"projectName": "Web " + name,
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	return decode[dto.ClientResponse](t, raw)
}

func createEntry(t *testing.T, app *fiber.App, token, projectID, date string, seconds int64) dto.TimeEntryResponse {
	t.Helper()
	status, raw := do(t, app, http.MethodPost, "/api/time-entries", token, fiber.Map{
		"projectId": projectID,
		"date":      date,
		"startTime": "09:30",
		"duration":  seconds,
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	return decode[dto.TimeEntryResponse](t, raw)
}

// keys devuelve las claves de primer nivel de un objeto JSON, ordenadas.
func keys(t *testing.T, raw []byte) []string {
	t.Helper()
	m := decode[map[string]json.RawMessage](t, raw)
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	app := memoryApp(t)
	status, raw := do(t, app, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, status)

	body := decode[dto.HealthResponse](t, raw)
	assert.Equal(t, "OK", body.Status)
	assert.Equal(t, fallback.ActiveMemory, body.Store)
	assert.False(t, body.Timestamp.IsZero())
}

func TestAuth_RegisterLoginAndErrors(t *testing.T) {
	app := memoryApp(t)
	reg := register(t, app, "ana@example.com")
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, "ana@example.com", reg.User.Email)

	t.Run("login correcto", func(t *testing.T) {
		status, raw := do(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "ANA@example.com", "password": "secreto1"})
		require.Equal(t, http.StatusOK, status)
		login := decode[dto.AuthResponse](t, raw)
		assert.Equal(t, reg.User.ID, login.User.ID)
	})

	t.Run("duplicado", func(t *testing.T) {
		status, raw := do(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
			"fullName": "Otra", "email": "Ana@Example.com", "password": "secreto2",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, apphttp.CodeEmailExists, decode[dto.ErrorResponse](t, raw).Code)
	})

	t.Run("credenciales iguales para usuario inexistente y password malo", func(t *testing.T) {
		s1, r1 := do(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "ana@example.com", "password": "otra-cosa"})
		s2, r2 := do(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "nadie@example.com", "password": "otra-cosa"})
		assert.Equal(t, http.StatusUnauthorized, s1)
		assert.Equal(t, s1, s2)
		assert.JSONEq(t, string(r1), string(r2))
	})

	t.Run("validación", func(t *testing.T) {
		status, raw := do(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{"email": "x@example.com", "password": "secreto1"})
		assert.Equal(t, http.StatusBadRequest, status)
		body := decode[dto.ErrorResponse](t, raw)
		assert.Equal(t, apphttp.CodeValidation, body.Code)
		assert.Contains(t, body.Message, "fullName")
	})

	t.Run("cuerpo inválido", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString("{no es json"))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	app := memoryApp(t)
	for _, path := range []string{"/api/clients", "/api/time-entries", "/api/stats"} {
		status, _ := do(t, app, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, status, path)

		status, _ = do(t, app, http.MethodGet, path, "no-es-un-jwt", nil)
		assert.Equal(t, http.StatusForbidden, status, path)
	}
}

func TestClients_CreateListDelete(t *testing.T) {
	app := memoryApp(t)
	token := register(t, app, "clientes@example.com").Token

	created := createClient(t, app, token, "Acme", "45.5")
	assert.Equal(t, "Acme", created.Name)
	assert.Equal(t, "45.50", created.HourlyRate)
	require.Len(t, created.Projects, 1)
	assert.Equal(t, "Web Acme", created.Projects[0].Name)
	assert.Equal(t, "active", created.Projects[0].Status)

	status, raw := do(t, app, http.MethodGet, "/api/clients", token, nil)
	require.Equal(t, http.StatusOK, status)
	list := decode[[]dto.ClientResponse](t, raw)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
	assert.Equal(t, created.Projects[0].ID, list[0].Projects[0].ID)

	entry := createEntry(t, app, token, created.Projects[0].ID, "2026-03-11", 3600)
	assert.Equal(t, "09:30:00", entry.StartTime)

	status, _ = do(t, app, http.MethodDelete, "/api/clients/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, status)

	status, raw = do(t, app, http.MethodGet, "/api/time-entries", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(raw), "la cascada elimina los registros")

	status, raw = do(t, app, http.MethodDelete, "/api/clients/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, apphttp.CodeNotFound, decode[dto.ErrorResponse](t, raw).Code)
}

func TestClients_Validation(t *testing.T) {
	app := memoryApp(t)
	token := register(t, app, "val@example.com").Token

	cases := map[string]fiber.Map{
		"sin nombre":      {"hourlyRate": 10, "projectName": "P"},
		"sin tarifa":      {"name": "C", "projectName": "P"},
		"tarifa negativa": {"name": "C", "hourlyRate": -1, "projectName": "P"},
		"sin proyecto":    {"name": "C", "hourlyRate": 10},
		"email inválido":  {"name": "C", "email": "no-es-email", "hourlyRate": 10, "projectName": "P"},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			status, raw := do(t, app, http.MethodPost, "/api/clients", token, body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, apphttp.CodeValidation, decode[dto.ErrorResponse](t, raw).Code)
		})
	}
}

func TestOwnership_OtherUserSeesNotFound(t *testing.T) {
	app := memoryApp(t)
	owner := register(t, app, "duena@example.com").Token
	intruder := register(t, app, "intruso@example.com").Token

	client := createClient(t, app, owner, "Privado", 20)
	entry := createEntry(t, app, owner, client.Projects[0].ID, "2026-03-10", 600)

	status, _ := do(t, app, http.MethodDelete, "/api/clients/"+client.ID, intruder, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, app, http.MethodDelete, "/api/time-entries/"+entry.ID, intruder, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, app, http.MethodPost, "/api/time-entries", intruder, fiber.Map{
		"projectId": client.Projects[0].ID, "date": "2026-03-10", "startTime": "08:00", "duration": 60,
	})
	assert.Equal(t, http.StatusNotFound, status)

	status, raw := do(t, app, http.MethodGet, "/api/clients", intruder, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestTimeEntries_FiltersAndPaging(t *testing.T) {
	app := memoryApp(t)
	token := register(t, app, "filtros@example.com").Token
	client := createClient(t, app, token, "Filtros", 10)
	projectID := client.Projects[0].ID

	for _, date := range []string{"2026-03-01", "2026-03-05", "2026-03-09", "2026-03-11"} {
		createEntry(t, app, token, projectID, date, 900)
	}

	status, raw := do(t, app, http.MethodGet, "/api/time-entries?startDate=2026-03-05&endDate=2026-03-09", token, nil)
	require.Equal(t, http.StatusOK, status)
	ranged := decode[[]dto.TimeEntryResponse](t, raw)
	require.Len(t, ranged, 2)
	assert.Equal(t, "2026-03-09", ranged[0].Date, "más reciente primero")
	assert.Equal(t, "2026-03-05", ranged[1].Date)
	assert.Equal(t, "Filtros", ranged[0].ClientName)
	assert.Equal(t, "Web Filtros", ranged[0].ProjectName)
	assert.Equal(t, "10.00", ranged[0].HourlyRate)

	status, raw = do(t, app, http.MethodGet, "/api/time-entries?limit=1&offset=1", token, nil)
	require.Equal(t, http.StatusOK, status)
	paged := decode[[]dto.TimeEntryResponse](t, raw)
	require.Len(t, paged, 1)
	assert.Equal(t, "2026-03-09", paged[0].Date)

	status, raw = do(t, app, http.MethodGet, "/api/time-entries?startDate=11-03-2026", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, apphttp.CodeValidation, decode[dto.ErrorResponse](t, raw).Code)

	status, _ = do(t, app, http.MethodGet, "/api/time-entries?limit=abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestTimeEntries_CreateValidationAndDelete(t *testing.T) {
	app := memoryApp(t)
	token := register(t, app, "registros@example.com").Token
	projectID := createClient(t, app, token, "R", 10).Projects[0].ID

	status, raw := do(t, app, http.MethodPost, "/api/time-entries", token, fiber.Map{
		"projectId": projectID, "date": "2026-03-11", "startTime": "09:00", "duration": 0,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, apphttp.CodeValidation, decode[dto.ErrorResponse](t, raw).Code)

	status, _ = do(t, app, http.MethodPost, "/api/time-entries", token, fiber.Map{
		"projectId": projectID, "date": "2026-02-30", "startTime": "09:00", "duration": 60,
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodPost, "/api/time-entries", token, fiber.Map{
		"projectId": "no-existe", "date": "2026-03-11", "startTime": "09:00", "duration": 60,
	})
	assert.Equal(t, http.StatusNotFound, status)

	entry := createEntry(t, app, token, projectID, "2026-03-11", 60)
	status, raw = do(t, app, http.MethodDelete, "/api/time-entries/"+entry.ID, token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, decode[dto.MessageResponse](t, raw).Message)

	status, _ = do(t, app, http.MethodDelete, "/api/time-entries/"+entry.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestStats(t *testing.T) {
	app := memoryApp(t)
	token := register(t, app, "stats@example.com").Token

	status, raw := do(t, app, http.MethodGet, "/api/stats", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"todayHours":"0.0","weekHours":"0.0","monthHours":"0.0","totalEarnings":"0"}`, string(raw))

	projectID := createClient(t, app, token, "Stats", 10).Projects[0].ID
	createEntry(t, app, token, projectID, "2026-03-11", 3600)
	createEntry(t, app, token, projectID, "2026-03-11", 1800)
	createEntry(t, app, token, projectID, "2026-03-02", 1800) // mismo mes, semana anterior

	status, raw = do(t, app, http.MethodGet, "/api/stats", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"todayHours":"1.5","weekHours":"1.5","monthHours":"2.0","totalEarnings":"20"}`, string(raw))
}

func TestTimesheetExport(t *testing.T) {
	app := memoryApp(t)
	token := register(t, app, "export@example.com").Token
	projectID := createClient(t, app, token, "Export", 40).Projects[0].ID
	createEntry(t, app, token, projectID, "2026-03-10", 5400)

	req := httptest.NewRequest(http.MethodGet, "/api/time-entries/export?startDate=2026-03-01&endDate=2026-03-31", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "horas_2026-03-01_2026-03-31.pdf")
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))

	status, _ := do(t, app, http.MethodGet, "/api/time-entries/export?endDate=ayer", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodGet, "/api/time-entries/export", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestNotFoundRoute(t *testing.T) {
	app := memoryApp(t)
	status, raw := do(t, app, http.MethodGet, "/api/no-existe", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, apphttp.CodeNotFound, decode[dto.ErrorResponse](t, raw).Code)
}

func TestMetricsEndpoint(t *testing.T) {
	app := memoryApp(t)
	do(t, app, http.MethodGet, "/api/health", "", nil)

	status, raw := do(t, app, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), "clocwise_http_requests_total")
}

// Con el primario caído las respuestas deben tener exactamente la misma forma.
func TestPrimaryDown_SameShapes(t *testing.T) {
	run := func(t *testing.T, down bool) map[string][]string {
		primary := repotest.NewFlaky(memory.New())
		primary.SetDown(down)
		store := fallback.New(primary, memory.New(), fallback.WithProbeInterval(time.Hour))
		app := buildApp(t, store, apphttp.AppConfig{})

		shapes := make(map[string][]string)

		status, raw := do(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
			"fullName": "Caída", "email": "caida@example.com", "password": "secreto1",
		})
		require.Equal(t, http.StatusCreated, status, string(raw))
		shapes["register"] = keys(t, raw)
		token := decode[dto.AuthResponse](t, raw).Token

		status, raw = do(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "caida@example.com", "password": "secreto1"})
		require.Equal(t, http.StatusOK, status, string(raw))
		shapes["login"] = keys(t, raw)

		client := createClient(t, app, token, "Caída", 10)
		status, raw = do(t, app, http.MethodGet, "/api/clients", token, nil)
		require.Equal(t, http.StatusOK, status)
		list := decode[[]json.RawMessage](t, raw)
		require.Len(t, list, 1)
		shapes["client"] = keys(t, list[0])

		createEntry(t, app, token, client.Projects[0].ID, "2026-03-11", 3600)
		status, raw = do(t, app, http.MethodGet, "/api/stats", token, nil)
		require.Equal(t, http.StatusOK, status)
		shapes["stats"] = keys(t, raw)
		assert.Equal(t, "1.0", decode[dto.StatsResponse](t, raw).TodayHours)

		status, raw = do(t, app, http.MethodGet, "/api/health", "", nil)
		require.Equal(t, http.StatusOK, status)
		want := fallback.ActivePrimary
		if down {
			want = fallback.ActiveFallback
		}
		assert.Equal(t, want, decode[dto.HealthResponse](t, raw).Store)
		return shapes
	}

	healthy := run(t, false)
	degraded := run(t, true)
	assert.Equal(t, healthy, degraded)
}

func TestStaticPages(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>inicio</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "auth.html"), []byte("<h1>login</h1>"), 0o644))

	app := buildApp(t, fallback.New(nil, memory.New()), apphttp.AppConfig{StaticDir: dir})

	status, raw := do(t, app, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), "inicio")

	status, raw = do(t, app, http.MethodGet, "/auth", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), "login")

	status, _ = do(t, app, http.MethodGet, "/dashboard", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	// La API sigue respondiendo con el frontend montado.
	status, _ = do(t, app, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestSwaggerDocs(t *testing.T) {
	docsFile := filepath.Join("..", "..", "..", "docs", "swagger.json")
	var app *fiber.App
	require.NotPanics(t, func() {
		app = buildApp(t, fallback.New(nil, memory.New()), apphttp.AppConfig{SwaggerFile: docsFile})
	})
	status, _ := do(t, app, http.MethodGet, "/docs", "", nil)
	assert.Equal(t, http.StatusOK, status)
}
