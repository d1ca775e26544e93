package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/mrsa/internal/application"
	"github.com/turtacn/mrsa/internal/config"
	"github.com/turtacn/mrsa/internal/domain/models"
	"github.com/turtacn/mrsa/internal/infrastructure/audit"
	"github.com/turtacn/mrsa/internal/infrastructure/monitoring"
	"github.com/turtacn/mrsa/internal/infrastructure/persistence/sqlite"
	mrsahttp "github.com/turtacn/mrsa/internal/interfaces/http"
	"github.com/turtacn/mrsa/internal/interfaces/http/handlers"
	"github.com/turtacn/mrsa/internal/interfaces/http/middleware"
	"github.com/turtacn/mrsa/pkg/constants"
	"github.com/turtacn/mrsa/pkg/logger"
	"github.com/turtacn/mrsa/pkg/mrsa"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Error string `json:"error"`
	} `json:"error"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	log := logger.NewNoopLogger()

	cfg := &config.Config{
		KeyGen:  config.KeyGenConfig{BatchConcurrency: 2, MaxBatchSize: 8},
		Store:   config.StoreConfig{DSN: ":memory:", CacheTTL: constants.DefaultCacheTTL, CacheCleanup: constants.DefaultCacheCleanupInterval},
		Server:  config.ServerConfig{Environment: "test", AllowedOrigins: []string{"*"}},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}

	db, err := sqlite.Open(ctx, cfg.Store.DSN, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close(db) })
	sqlDB, err := db.DB()
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(reg)

	var seed [32]byte
	seed[0] = 42
	gen := mrsa.NewGenerator(mrsa.NewSeededSource(seed), mrsa.WithObserver(metrics))
	svc := application.NewKeyManagementService(gen, sqlite.NewKeyRepository(db), metrics, audit.NewGormAuditService(db), cfg, log)

	router := mrsahttp.NewRouter(
		cfg,
		log,
		handlers.NewHealthHandler(sqlDB, log),
		handlers.NewKeyHandler(svc, log),
		handlers.NewPrimalityHandler(),
		middleware.NewHTTPMetrics(reg),
		reg,
	)
	return router.Engine()
}

func do(t *testing.T, engine *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func createKey(t *testing.T, engine *gin.Engine) models.KeyInfo {
	t.Helper()
	w, env := do(t, engine, http.MethodPost, "/v1/keys", `{"label":"test"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var info models.KeyInfo
	require.NoError(t, json.Unmarshal(env.Data, &info))
	return info
}

func TestRouter_Health(t *testing.T) {
	engine := newTestRouter(t)
	w, _ := do(t, engine, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"healthy"`)
	assert.NotEmpty(t, w.Header().Get(constants.HeaderRequestID))
}

func TestRouter_RequestIDPropagated(t *testing.T) {
	engine := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/primality/7", nil)
	req.Header.Set(constants.HeaderRequestID, "req-123")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(constants.HeaderRequestID))
	assert.Contains(t, w.Body.String(), `"request_id":"req-123"`)
}

func TestRouter_KeyLifecycle(t *testing.T) {
	engine := newTestRouter(t)
	info := createKey(t, engine)

	assert.Equal(t, "test", info.Label)
	assert.GreaterOrEqual(t, info.N, constants.MinimumModulus)
	assert.Equal(t, constants.KeyStatusActive, info.Status)

	// public part only
	w, _ := do(t, engine, http.MethodGet, "/v1/keys/"+info.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `"d"`)

	const plain uint64 = 1234567890123
	w, env := do(t, engine, http.MethodPost, "/v1/keys/"+info.ID+"/encrypt", fmt.Sprintf(`{"value":%d}`, plain))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var enc struct {
		Value uint64 `json:"value"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &enc))

	w, env = do(t, engine, http.MethodPost, "/v1/keys/"+info.ID+"/decrypt", fmt.Sprintf(`{"value":%d}`, enc.Value))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var dec struct {
		Value uint64 `json:"value"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &dec))
	assert.Equal(t, plain, dec.Value)

	w, _ = do(t, engine, http.MethodGet, "/v1/keys", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), info.ID)

	w, _ = do(t, engine, http.MethodDelete, "/v1/keys/"+info.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	// repeat revokes are no-ops
	w, _ = do(t, engine, http.MethodDelete, "/v1/keys/"+info.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, env = do(t, engine, http.MethodGet, "/v1/keys/"+info.ID+"/events", "")
	require.Equal(t, http.StatusOK, w.Code)
	var trail struct {
		Events []models.AuditEvent `json:"events"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &trail))
	require.Len(t, trail.Events, 2)
	assert.Equal(t, constants.AuditEventKeyGenerated, trail.Events[0].EventType)
	assert.Equal(t, constants.AuditEventKeyRevoked, trail.Events[1].EventType)
	assert.NotEmpty(t, trail.Events[1].RequestID)

	w, env = do(t, engine, http.MethodPost, "/v1/keys/"+info.ID+"/encrypt", `{"value":1}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, string(constants.ErrCodeKeyRevoked), env.Error.Error)
}

func TestRouter_CipherErrors(t *testing.T) {
	engine := newTestRouter(t)
	info := createKey(t, engine)

	w, env := do(t, engine, http.MethodPost, "/v1/keys/"+info.ID+"/encrypt", fmt.Sprintf(`{"value":%d}`, info.N+1))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, string(constants.ErrCodeInvalidBlock), env.Error.Error)

	// m == n is admitted
	w, _ = do(t, engine, http.MethodPost, "/v1/keys/"+info.ID+"/encrypt", fmt.Sprintf(`{"value":%d}`, info.N))
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = do(t, engine, http.MethodPost, "/v1/keys/"+info.ID+"/encrypt", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, string(constants.ErrCodeInvalidRequest), env.Error.Error)

	w, env = do(t, engine, http.MethodPost, "/v1/keys/missing/decrypt", `{"value":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, string(constants.ErrCodeKeyNotFound), env.Error.Error)
}

func TestRouter_BatchGeneration(t *testing.T) {
	engine := newTestRouter(t)

	w, env := do(t, engine, http.MethodPost, "/v1/keys", `{"count":3}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var list struct {
		Keys  []models.KeyInfo `json:"keys"`
		Total int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, 3, list.Total)

	w, _ = do(t, engine, http.MethodPost, "/v1/keys", `{"count":100}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, engine, http.MethodPost, "/v1/keys", `{"count":-1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_EmptyBodyGeneratesOneKey(t *testing.T) {
	engine := newTestRouter(t)
	w, _ := do(t, engine, http.MethodPost, "/v1/keys", "")
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestRouter_Primality(t *testing.T) {
	engine := newTestRouter(t)

	tests := []struct {
		n     string
		prime bool
	}{
		{"2147483659", true},
		{"2147483677", false},
		{"3215031751", false},
		{"18446744073709551557", true},
	}
	for _, tt := range tests {
		w, env := do(t, engine, http.MethodGet, "/v1/primality/"+tt.n, "")
		require.Equal(t, http.StatusOK, w.Code)
		var res struct {
			Prime bool `json:"prime"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &res))
		assert.Equal(t, tt.prime, res.Prime, tt.n)
	}

	w, _ := do(t, engine, http.MethodGet, "/v1/primality/-3", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_Metrics(t *testing.T) {
	engine := newTestRouter(t)
	createKey(t, engine)

	w, _ := do(t, engine, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "mrsa_keys_generated_total 1")
	assert.Contains(t, body, "mrsa_http_requests_total")
}

func TestRouter_NotFound(t *testing.T) {
	engine := newTestRouter(t)
	w, env := do(t, engine, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "not_found", env.Error.Error)
}
