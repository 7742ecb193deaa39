package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	config "task-vault.com/task-vault/internal/configs"
	"task-vault.com/task-vault/internal/constants"
	dto "task-vault.com/task-vault/internal/data_models"
	apperrors "task-vault.com/task-vault/internal/errors"
	"task-vault.com/task-vault/internal/lock"
	model "task-vault.com/task-vault/internal/models"
	repository "task-vault.com/task-vault/internal/repositories"
	"task-vault.com/task-vault/internal/services"
)

// memLogStore is a minimal in-memory LogStore for API tests.
type memLogStore struct {
	entries []model.TaskLog
}

func (m *memLogStore) Create(ctx context.Context, entry *model.TaskLog) error {
	if entry.ID == "" {
		entry.ID = model.NewLogID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memLogStore) FindByID(ctx context.Context, id string) (*model.TaskLog, error) {
	for i := range m.entries {
		if m.entries[i].ID == id {
			entry := m.entries[i]
			return &entry, nil
		}
	}
	return nil, apperrors.ErrLogNotFound
}

func (m *memLogStore) FindByTask(ctx context.Context, taskID uint, limit int) ([]model.TaskLog, error) {
	out := []model.TaskLog{}
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if m.entries[i].TaskID == taskID {
			out = append(out, m.entries[i])
		}
	}
	return out, nil
}

func (m *memLogStore) FindRecent(ctx context.Context, limit int) ([]model.TaskLog, error) {
	out := []model.TaskLog{}
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

func (m *memLogStore) FindWithFilters(ctx context.Context, f dto.LogFilters, limit, offset int) ([]model.TaskLog, error) {
	return m.FindRecent(ctx, limit)
}

func (m *memLogStore) CountWithFilters(ctx context.Context, f dto.LogFilters) (int, error) {
	return len(m.entries), nil
}

func (m *memLogStore) CountByAction(ctx context.Context) (map[constants.LogAction]int, error) {
	counts := map[constants.LogAction]int{}
	for _, e := range m.entries {
		counts[e.Action]++
	}
	return counts, nil
}

func (m *memLogStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	return 0, nil
}

func (m *memLogStore) Ping(ctx context.Context) error {
	return nil
}

func setupAPI(t *testing.T) (*echo.Echo, *memLogStore) {
	t.Helper()
	return setupAPIWithTimeout(t, 5*time.Second)
}

func setupAPIWithTimeout(t *testing.T, requestTimeout time.Duration) (*echo.Echo, *memLogStore) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Task{}))
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	logs := &memLogStore{}
	taskRepo := repository.NewTaskRepository(db)
	locks := lock.NewKeyedMutex(time.Minute)
	cfg := config.Config{AppURL: "127.0.0.1:0", RedisAddr: "127.0.0.1:6379"}

	e := echo.New()
	Register(
		e,
		NewTaskHandler(services.NewTaskService(taskRepo, logs, locks), 50, 1000),
		NewLogHandler(services.NewLogService(logs), 50, 1000, 90),
		NewHealthHandler(services.NewHealthService(db, logs, cfg)),
		100000,
		requestTimeout,
	)
	return e, logs
}

func doRequest(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func TestAPI_TaskLifecycle(t *testing.T) {
	e, logs := setupAPI(t)

	// create
	rec := doRequest(e, http.MethodPost, "/api/v1/tasks", `{"title":"Write release notes"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	require.True(t, body["success"].(bool))
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "pending", data["status"])
	id := fmt.Sprintf("%.0f", data["id"].(float64))

	// complete via PATCH
	rec = doRequest(e, http.MethodPatch, "/api/v1/tasks/"+id, `{"status":"completed"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	task := body["data"].(map[string]interface{})["task"].(map[string]interface{})
	assert.NotNil(t, task["completed_at"])

	// completed is terminal
	rec = doRequest(e, http.MethodPatch, "/api/v1/tasks/"+id, `{"status":"pending"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// soft delete
	rec = doRequest(e, http.MethodDelete, "/api/v1/tasks/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(e, http.MethodGet, "/api/v1/tasks/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(e, http.MethodGet, "/api/v1/tasks/trashed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	trashed := decode(t, rec)["data"].([]interface{})
	require.Len(t, trashed, 1)

	// restore
	rec = doRequest(e, http.MethodPost, "/api/v1/tasks/"+id+"/restore", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(e, http.MethodGet, "/api/v1/tasks/"+id, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	// force delete
	rec = doRequest(e, http.MethodDelete, "/api/v1/tasks/"+id+"/force", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(e, http.MethodDelete, "/api/v1/tasks/"+id+"/force", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// every mutation produced an audit record
	actions := []constants.LogAction{}
	for _, entry := range logs.entries {
		actions = append(actions, entry.Action)
	}
	assert.Equal(t, []constants.LogAction{
		constants.ActionCreated,
		constants.ActionUpdated,
		constants.ActionDeleted,
		constants.ActionRestored,
		constants.ActionForceDeleted,
	}, actions)
}

func TestAPI_CreateValidation(t *testing.T) {
	e, _ := setupAPI(t)

	rec := doRequest(e, http.MethodPost, "/api/v1/tasks", `{"description":"no title"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := decode(t, rec)
	assert.False(t, body["success"].(bool))
	assert.Equal(t, "validation_error", body["code"])
	details := body["details"].(map[string]interface{})
	assert.Contains(t, details, "title")
}

func TestAPI_RestoreConflictShape(t *testing.T) {
	e, _ := setupAPI(t)

	rec := doRequest(e, http.MethodPost, "/api/v1/tasks", `{"title":"Active task"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := fmt.Sprintf("%.0f", decode(t, rec)["data"].(map[string]interface{})["id"].(float64))

	rec = doRequest(e, http.MethodPost, "/api/v1/tasks/"+id+"/restore", "")
	require.Equal(t, http.StatusConflict, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "restore_not_applicable", body["code"])
	assert.Equal(t, "already_restored", body["details"].(map[string]interface{})["reason"])

	rec = doRequest(e, http.MethodPost, "/api/v1/tasks/424242/restore", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, "not_found", body["details"].(map[string]interface{})["reason"])
}

func TestAPI_ListPaginationMeta(t *testing.T) {
	e, _ := setupAPI(t)

	for i := 0; i < 5; i++ {
		rec := doRequest(e, http.MethodPost, "/api/v1/tasks", `{"title":"Task"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doRequest(e, http.MethodGet, "/api/v1/tasks?limit=2&page=2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	pagination := body["meta"].(map[string]interface{})["pagination"].(map[string]interface{})
	assert.Equal(t, float64(2), pagination["current_page"])
	assert.Equal(t, float64(5), pagination["total"])
	assert.Equal(t, float64(3), pagination["total_pages"])
	assert.Equal(t, true, pagination["has_next_page"])
	assert.Equal(t, true, pagination["has_previous_page"])
	assert.Len(t, body["data"].([]interface{}), 2)
}

func TestAPI_InvalidPagination(t *testing.T) {
	e, _ := setupAPI(t)

	rec := doRequest(e, http.MethodGet, "/api/v1/tasks?limit=5000", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(e, http.MethodGet, "/api/v1/tasks?page=0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_BulkCreateSummary(t *testing.T) {
	e, _ := setupAPI(t)

	rec := doRequest(e, http.MethodPost, "/api/v1/tasks/bulk",
		`{"tasks":[{"title":"A"},{"title":""},{"title":"C"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	summary := decode(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, float64(3), summary["total"])
	assert.Equal(t, float64(2), summary["succeeded"])
	assert.Equal(t, float64(1), summary["failed"])
}

func TestAPI_LogIDFormatHint(t *testing.T) {
	e, _ := setupAPI(t)

	rec := doRequest(e, http.MethodGet, "/api/v1/logs/zzz", "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode(t, rec)
	assert.Contains(t, body["error"].(string), "24-character hexadecimal")
}

func TestAPI_HealthHealthy(t *testing.T) {
	e, _ := setupAPI(t)

	rec := doRequest(e, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	report := decode(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "healthy", report["status"])
	assert.Len(t, report["connections"].([]interface{}), 2)
}

func TestAPI_UnknownConnectionName(t *testing.T) {
	e, _ := setupAPI(t)

	rec := doRequest(e, http.MethodGet, "/health/connections/mainframe", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_RequestTimeoutBudgetExceeded(t *testing.T) {
	e, _ := setupAPIWithTimeout(t, time.Nanosecond)

	rec := doRequest(e, http.MethodPost, "/api/v1/tasks", `{"title":"Write release notes"}`)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "request_timeout", body["code"])
}
