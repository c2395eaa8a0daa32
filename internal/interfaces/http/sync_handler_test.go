package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsync "github.com/dinukasrimal/agency-sync-api/internal/application/sync"
	"github.com/dinukasrimal/agency-sync-api/internal/domain/entity"
	apihttp "github.com/dinukasrimal/agency-sync-api/internal/interfaces/http"
	"github.com/dinukasrimal/agency-sync-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Arnés: app Fiber con un runner controlable.
// ──────────────────────────────────────────────────────────────────────────────

// stubRunner devuelve un resultado fijo y registra el input recibido.
type stubRunner struct {
	result appsync.RunResult
	lastIn appsync.TriggerInput
	calls  int
}

func (s *stubRunner) Run(ctx context.Context, in appsync.TriggerInput) appsync.RunResult {
	s.calls++
	s.lastIn = in
	return s.result
}

type stubRunLogRepo struct {
	logs []*entity.SyncRunLog
}

func (s *stubRunLogRepo) Create(ctx context.Context, log *entity.SyncRunLog) error {
	s.logs = append(s.logs, log)
	return nil
}

func (s *stubRunLogRepo) ListRecent(ctx context.Context, limit int) ([]*entity.SyncRunLog, error) {
	if limit > len(s.logs) {
		limit = len(s.logs)
	}
	return s.logs[:limit], nil
}

func buildTestApp(runner *stubRunner, logs *stubRunLogRepo, jwtSecret string) *fiber.App {
	app := fiber.New()
	handler := apihttp.NewSyncHandler(runner, appsync.NewRunLogQuery(logs))
	apihttp.Router(app, apihttp.RouterDeps{SyncHandler: handler, JWTSecret: jwtSecret})
	return app
}

func okResult() appsync.RunResult {
	return appsync.RunResult{
		Success:     true,
		Message:     "sincronización completada: 3 transacciones nuevas de 2 facturas",
		SyncedCount: 3,
		Timestamp:   time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func doRequest(t *testing.T, app *fiber.App, req *nethttp.Request) (*nethttp.Response, map[string]any) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &body))
	}
	return resp, body
}

// ──────────────────────────────────────────────────────────────────────────────
// POST /api/sync/trigger
// ──────────────────────────────────────────────────────────────────────────────

func TestTrigger_SinCuerpoUsaDefaults(t *testing.T) {
	runner := &stubRunner{result: okResult()}
	app := buildTestApp(runner, &stubRunLogRepo{}, "")

	req := httptest.NewRequest(nethttp.MethodPost, "/api/sync/trigger", nil)
	resp, body := doRequest(t, app, req)

	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, runner.calls)
	assert.Equal(t, "manual", runner.lastIn.Source)
	assert.False(t, runner.lastIn.FullResync)

	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(3), body["synced_count"])
	assert.Equal(t, "2024-06-01T12:00:00Z", body["timestamp"])
}

func TestTrigger_PropagaElCuerpoDelRequest(t *testing.T) {
	runner := &stubRunner{result: okResult()}
	app := buildTestApp(runner, &stubRunLogRepo{}, "")

	payload := `{"trigger_source":"scheduled","full_resync":true,"metadata":{"reason":"backfill"}}`
	req := httptest.NewRequest(nethttp.MethodPost, "/api/sync/trigger", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := doRequest(t, app, req)

	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "scheduled", runner.lastIn.Source)
	assert.True(t, runner.lastIn.FullResync)
	assert.Equal(t, "backfill", runner.lastIn.Metadata["reason"])
}

func TestTrigger_CuerpoInvalidoDevuelve400(t *testing.T) {
	runner := &stubRunner{result: okResult()}
	app := buildTestApp(runner, &stubRunLogRepo{}, "")

	req := httptest.NewRequest(nethttp.MethodPost, "/api/sync/trigger", bytes.NewBufferString(`{no es json`))
	req.Header.Set("Content-Type", "application/json")
	resp, body := doRequest(t, app, req)

	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", body["code"])
	assert.Equal(t, 0, runner.calls, "un cuerpo ilegible no debe disparar el run")
}

// Un fallo fatal del run mantiene el resultado estructurado pero con 500.
func TestTrigger_RunFatalDevuelve500ConResultado(t *testing.T) {
	runner := &stubRunner{result: appsync.RunResult{
		Success:    false,
		Message:    "fetch de facturas externas falló: connection refused",
		ErrorCount: 1,
		Errors:     []string{"fetch de facturas externas falló: connection refused"},
		Timestamp:  time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}}
	app := buildTestApp(runner, &stubRunLogRepo{}, "")

	req := httptest.NewRequest(nethttp.MethodPost, "/api/sync/trigger", nil)
	resp, body := doRequest(t, app, req)

	assert.Equal(t, nethttp.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, float64(1), body["error_count"])
	assert.Contains(t, body["message"], "fetch")
}

// ──────────────────────────────────────────────────────────────────────────────
// Autenticación del gateway.
// ──────────────────────────────────────────────────────────────────────────────

func TestTrigger_RequiereTokenCuandoHaySecret(t *testing.T) {
	runner := &stubRunner{result: okResult()}
	app := buildTestApp(runner, &stubRunLogRepo{}, "secreto-de-prueba")

	// Sin header.
	req := httptest.NewRequest(nethttp.MethodPost, "/api/sync/trigger", nil)
	resp, body := doRequest(t, app, req)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", body["code"])

	// Token basura.
	req = httptest.NewRequest(nethttp.MethodPost, "/api/sync/trigger", nil)
	req.Header.Set("Authorization", "Bearer no-es-un-jwt")
	resp, body = doRequest(t, app, req)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", body["code"])

	assert.Equal(t, 0, runner.calls)

	// Token válido.
	token, err := jwt.Generate("secreto-de-prueba", "ops", "cron", "agency-sync-api", 5)
	require.NoError(t, err)
	req = httptest.NewRequest(nethttp.MethodPost, "/api/sync/trigger", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, _ = doRequest(t, app, req)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, runner.calls)
}

// ──────────────────────────────────────────────────────────────────────────────
// GET /api/sync/logs
// ──────────────────────────────────────────────────────────────────────────────

func TestLogs_DevuelveElHistorial(t *testing.T) {
	logs := &stubRunLogRepo{logs: []*entity.SyncRunLog{
		{
			ID:            "L1",
			RunAt:         time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
			Status:        entity.SyncStatusSuccess,
			RecordsSynced: 7,
			Message:       "sincronización completada",
			Details:       json.RawMessage(`{"trigger_source":"scheduled"}`),
		},
	}}
	app := buildTestApp(&stubRunner{result: okResult()}, logs, "")

	req := httptest.NewRequest(nethttp.MethodGet, "/api/sync/logs", nil)
	resp, body := doRequest(t, app, req)

	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["total"])
	runs, ok := body["runs"].([]any)
	require.True(t, ok)
	require.Len(t, runs, 1)
	first := runs[0].(map[string]any)
	assert.Equal(t, "L1", first["id"])
	assert.Equal(t, "success", first["status"])
	assert.Equal(t, float64(7), first["records_synced"])
	assert.Equal(t, "2024-06-01T12:00:00Z", first["run_at"])
}
