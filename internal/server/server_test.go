package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jonathan/career-pathfinder/internal/db"
	"github.com/jonathan/career-pathfinder/internal/fallback"
	"github.com/jonathan/career-pathfinder/internal/schemas"
	"github.com/jonathan/career-pathfinder/internal/server/ratelimit"
	"github.com/jonathan/career-pathfinder/internal/types"
)

const testUser = "4f6c2c1e-8f3b-4d55-9a41-7d2f0f3e9b10"

type generatorFunc func(ctx context.Context, userID string, body []byte) (types.Result, error)

func (f generatorFunc) Generate(ctx context.Context, userID string, body []byte) (types.Result, error) {
	return f(ctx, userID, body)
}

type resultsFunc func(ctx context.Context, id string) (*db.StoredResult, error)

func (f resultsFunc) GetResult(ctx context.Context, id string) (*db.StoredResult, error) {
	return f(ctx, id)
}

func newTestServer(t *testing.T, gen Generator, opts ...Option) http.Handler {
	t.Helper()
	s := New(Config{RequestTimeout: time.Second, RateLimit: ratelimit.Config{Enabled: false}}, gen, zaptest.NewLogger(t), opts...)
	t.Cleanup(s.rateLimiter.Stop)
	return s.Handler()
}

func TestGenerate_ReturnsResult(t *testing.T) {
	var gotUser string
	var gotBody string
	h := newTestServer(t, generatorFunc(func(ctx context.Context, userID string, body []byte) (types.Result, error) {
		gotUser, gotBody = userID, string(body)
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return fallback.Build("Nurse", nil), nil
	}))

	req := httptest.NewRequest(http.MethodPost, "/career-paths", strings.NewReader(`{"targetRole":"Nurse"}`))
	req.Header.Set(userIDHeader, testUser)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testUser, gotUser)
	assert.JSONEq(t, `{"targetRole":"Nurse"}`, gotBody)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "profile_guidance", body["kind"])
	assert.NotEmpty(t, body["tasks"])
}

func TestGenerate_ValidationErrorIs400(t *testing.T) {
	h := newTestServer(t, generatorFunc(func(_ context.Context, _ string, body []byte) (types.Result, error) {
		_, err := schemas.ValidateInput(body)
		return nil, err
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/career-paths", strings.NewReader(`{"targetRole":"   "}`)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body struct {
		Error  string               `json:"error"`
		Fields []schemas.FieldError `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "validation_failed", body.Error)
	require.Len(t, body.Fields, 1)
	assert.Equal(t, "targetRole", body.Fields[0].Field)
}

func TestGenerate_OversizedBodyIs400(t *testing.T) {
	var gotLen int
	h := newTestServer(t, generatorFunc(func(_ context.Context, _ string, body []byte) (types.Result, error) {
		gotLen = len(body)
		_, err := schemas.ValidateInput(body)
		return nil, err
	}))

	big := `{"targetRole":"` + strings.Repeat("a", schemas.MaxRequestBytes) + `"}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/career-paths", strings.NewReader(big)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, schemas.MaxRequestBytes+1, gotLen)
}

func TestGenerate_InvalidUserHeader(t *testing.T) {
	called := false
	h := newTestServer(t, generatorFunc(func(context.Context, string, []byte) (types.Result, error) {
		called = true
		return nil, nil
	}))

	req := httptest.NewRequest(http.MethodPost, "/career-paths", strings.NewReader(`{"targetRole":"Nurse"}`))
	req.Header.Set(userIDHeader, "not-a-uuid")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), userIDHeader)
	assert.False(t, called)
}

func TestGenerate_InternalErrorHidesDetails(t *testing.T) {
	h := newTestServer(t, generatorFunc(func(context.Context, string, []byte) (types.Result, error) {
		return nil, errors.New("pool exhausted at 10.0.0.5")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/career-paths", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}

func TestGetResult(t *testing.T) {
	const id = "0b0f6a53-0f63-4a5e-8a3f-0d7a0e5b7c11"
	reader := resultsFunc(func(_ context.Context, got string) (*db.StoredResult, error) {
		if got != id {
			return nil, nil
		}
		return &db.StoredResult{
			ID:      id,
			OwnerID: testUser,
			Kind:    types.KindCareerPath,
			Payload: json.RawMessage(`{"kind":"career_path","id":"` + id + `"}`),
		}, nil
	})
	h := newTestServer(t, nil, WithResults(reader))

	tests := []struct {
		name   string
		path   string
		user   string
		status int
	}{
		{name: "owner", path: "/career-paths/" + id, user: testUser, status: http.StatusOK},
		{name: "other user", path: "/career-paths/" + id, user: "9a7f3d2e-1111-4c2b-8d3e-2f1e0a9b8c7d", status: http.StatusNotFound},
		{name: "missing", path: "/career-paths/5d1c0f2e-2222-4c2b-8d3e-2f1e0a9b8c7d", user: testUser, status: http.StatusNotFound},
		{name: "bad id", path: "/career-paths/xyz", user: testUser, status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set(userIDHeader, tt.user)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestHealth(t *testing.T) {
	t.Run("no checks", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newTestServer(t, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	})

	t.Run("failing dependency", func(t *testing.T) {
		h := newTestServer(t, nil,
			WithHealthCheck("postgres", func(context.Context) error { return nil }),
			WithHealthCheck("redis", func(context.Context) error { return errors.New("connection refused") }))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.JSONEq(t, `{"status":"degraded","dependencies":{"postgres":"ok","redis":"connection refused"}}`, rec.Body.String())
	})
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t, nil)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "careerpath_http_requests_total")
}

func TestCORSPreflight(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(t, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/career-paths", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), userIDHeader)
}

func TestRateLimit(t *testing.T) {
	cfg := Config{RateLimit: ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		Endpoints:     []ratelimit.EndpointConfig{{Path: "/career-paths", Method: "POST", Limit: 2, Window: time.Hour}},
	}}
	s := New(cfg, generatorFunc(func(context.Context, string, []byte) (types.Result, error) {
		return fallback.Build("Nurse", nil), nil
	}), zaptest.NewLogger(t))
	t.Cleanup(s.rateLimiter.Stop)

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/career-paths", strings.NewReader(`{"targetRole":"Nurse"}`))
		req.Header.Set(userIDHeader, testUser)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, send().Code)
	assert.Equal(t, http.StatusOK, send().Code)
	rec := send()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
}
