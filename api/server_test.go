package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/liliang-cn/datacron/api/handlers"
	"github.com/liliang-cn/datacron/pkg/cronexpr"
	"github.com/liliang-cn/datacron/pkg/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	storage, err := schedule.NewStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { storage.Close() })

	cfg := &Config{Host: "127.0.0.1", Port: 7130, PreviewCount: 3, Version: "test"}
	return NewServer(cfg, Deps{
		Catalog: cronexpr.DefaultCatalog(),
		Service: schedule.NewService(storage, nil),
		Store:   storage,
	})
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestServerAddr(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, "127.0.0.1:7130", s.Addr())
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[handlers.HealthResponse](t, rec)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "healthy", resp.Components["storage"].Status)
	assert.Equal(t, "test", resp.Version)
}

func TestFieldEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/cron/fields", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	specs := decode[[]cronexpr.FieldSpec](t, rec)
	assert.Len(t, specs, 7)

	rec = do(t, s, http.MethodGet, "/api/cron/fields/weekday?locale=en", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	spec := decode[cronexpr.FieldSpec](t, rec)
	assert.Equal(t, "Sunday", spec.WeekdayNames[0])

	rec = do(t, s, http.MethodGet, "/api/cron/fields/weekday/options", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	opts := decode[[]cronexpr.Option](t, rec)
	assert.Contains(t, opts, cronexpr.Option{Label: "7 (周日)", Value: "7"})

	rec = do(t, s, http.MethodGet, "/api/cron/fields/quarter", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/cron/fields?locale=xx", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidateEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/cron/validate", handlers.ValidateRequest{Field: "hour", Value: "24"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[handlers.ValidateResponse](t, rec).Valid)

	rec = do(t, s, http.MethodPost, "/api/cron/validate", handlers.ValidateRequest{Field: "hour", Value: "23"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[handlers.ValidateResponse](t, rec).Valid)

	rec = do(t, s, http.MethodPost, "/api/cron/validate", handlers.ValidateRequest{Field: "fortnight", Value: "1"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestComposeDecomposeDescribe(t *testing.T) {
	s := newTestServer(t)

	fields := cronexpr.DefaultFields()
	fields.Hour = "9"
	fields.Weekday = "1-5"
	rec := do(t, s, http.MethodPost, "/api/cron/compose", fields)
	require.Equal(t, http.StatusOK, rec.Code)
	composed := decode[handlers.ComposeResponse](t, rec)
	assert.Equal(t, "0 0 9 * * 1-5", composed.Expression)
	assert.Equal(t, "09:00 工作日", composed.Description)
	assert.Empty(t, composed.Invalid)

	fields.Minute = "75"
	rec = do(t, s, http.MethodPost, "/api/cron/compose?locale=en", fields)
	require.Equal(t, http.StatusOK, rec.Code)
	composed = decode[handlers.ComposeResponse](t, rec)
	assert.Equal(t, []cronexpr.FieldName{cronexpr.FieldMinute}, composed.Invalid)

	rec = do(t, s, http.MethodPost, "/api/cron/decompose", handlers.ExpressionRequest{Expression: "0 0 12 1 1 ? 2030"})
	require.Equal(t, http.StatusOK, rec.Code)
	decomposed := decode[handlers.DecomposeResponse](t, rec)
	assert.Equal(t, "2030", decomposed.Fields.Year)
	assert.Equal(t, "0 0 12 1 1 ? 2030", decomposed.Expression)

	rec = do(t, s, http.MethodPost, "/api/cron/decompose", handlers.ExpressionRequest{Expression: "0 0"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/cron/describe?locale=en", handlers.ExpressionRequest{Expression: "0 0 9 ? * 1-5"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "09:00 workdays", decode[handlers.DescribeResponse](t, rec).Description)
}

func TestPreviewEndpoint(t *testing.T) {
	s := newTestServer(t)
	from := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

	rec := do(t, s, http.MethodPost, "/api/cron/preview", handlers.PreviewRequest{Expression: "0 0 9 ? * 1-5", From: &from})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[handlers.PreviewResponse](t, rec)
	require.Len(t, resp.Runs, 3)
	assert.Equal(t, time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC), resp.Runs[0].UTC())

	rec = do(t, s, http.MethodPost, "/api/cron/preview", handlers.PreviewRequest{Expression: "0 0 25 * * ?"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPreviewUnschedulableExpression(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/cron/preview", handlers.PreviewRequest{Expression: "0 */0 * * * ?"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	errResp := decode[handlers.ErrorResponse](t, rec)
	assert.Equal(t, "expression", errResp.Field)
	assert.Contains(t, errResp.Message, "positive number")

	// every field is in range, so the schedule is stored
	rec = do(t, s, http.MethodPost, "/api/schedules", schedule.Input{
		Name:       "overnight",
		TaskKind:   schedule.TaskKindEvaluation,
		Expression: "0 0 17-9 * * ?",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[schedule.Schedule](t, rec)

	rec = do(t, s, http.MethodGet, "/api/schedules/"+created.ID+"/preview", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	assert.Contains(t, decode[handlers.ErrorResponse](t, rec).Message, "beyond end of range")
}

func TestScheduleLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/schedules", schedule.Input{
		Name:       "nightly synthesis",
		TaskKind:   schedule.TaskKindSynthesis,
		TaskID:     "syn-7",
		Expression: "0 30 2 * * ?",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[schedule.Schedule](t, rec)
	assert.Equal(t, "02:30", created.Description)
	require.NotEmpty(t, created.ID)

	rec = do(t, s, http.MethodGet, "/api/schedules/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodPut, "/api/schedules/"+created.ID, schedule.Input{
		Name:       "nightly synthesis",
		TaskKind:   schedule.TaskKindSynthesis,
		Expression: "0 0 3 * * ?",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0 0 3 * * ?", decode[schedule.Schedule](t, rec).Expression)

	rec = do(t, s, http.MethodPost, "/api/schedules/"+created.ID+"/disable", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[schedule.Schedule](t, rec).Enabled)

	rec = do(t, s, http.MethodGet, "/api/schedules", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decode[handlers.ScheduleListResponse](t, rec).Count)

	rec = do(t, s, http.MethodGet, "/api/schedules?all=true&task_kind=synthesis", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[handlers.ScheduleListResponse](t, rec).Count)

	rec = do(t, s, http.MethodGet, "/api/schedules/"+created.ID+"/preview?count=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[handlers.SchedulePreviewResponse](t, rec).Runs, 2)

	rec = do(t, s, http.MethodDelete, "/api/schedules/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/schedules/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScheduleValidationErrors(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/schedules", schedule.Input{
		Name:       "bad",
		TaskKind:   schedule.TaskKindRatio,
		Expression: "0 0 24 * * ?",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errResp := decode[handlers.ErrorResponse](t, rec)
	assert.Equal(t, "expression", errResp.Field)

	rec = do(t, s, http.MethodGet, "/api/schedules?all=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/schedules/nope/preview?count=0", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNoScheduleRoutesWithoutService(t *testing.T) {
	s := NewServer(&Config{Host: "localhost", Port: 1, PreviewCount: 1}, Deps{})

	rec := do(t, s, http.MethodGet, "/api/schedules", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "disabled", decode[handlers.HealthResponse](t, rec).Components["storage"].Status)
}
