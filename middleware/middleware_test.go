// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/rnd-tracker/models"
)

func TestWithLogging_PassesResponseThrough(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusCreated, http.StatusConflict, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			called := false
			h := WithLogging(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(status)
				w.Write([]byte("body"))
			})

			w := httptest.NewRecorder()
			h(w, httptest.NewRequest(http.MethodPost, "/worklogs", nil))

			assert.True(t, called)
			assert.Equal(t, status, w.Code)
			assert.Equal(t, "body", w.Body.String())
		})
	}
}

func TestStatusRecorder_DefaultsToOK(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}
	rec.Write([]byte("x"))
	assert.Equal(t, http.StatusOK, rec.status)

	rec.WriteHeader(http.StatusForbidden)
	assert.Equal(t, http.StatusForbidden, rec.status)
}

func TestJSONResponse(t *testing.T) {
	tests := []struct {
		name     string
		data     interface{}
		expected string
	}{
		{"map", map[string]string{"stage": "설계"}, `{"stage":"설계"}`},
		{"user key", models.UserKeyResponse{UserID: "USR-001", Key: "k"}, `{"user_id":"USR-001","key":"k"}`},
		{"empty slice", []string{}, `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			JSONResponse(w, http.StatusOK, tt.data)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, tt.expected, strings.TrimSpace(w.Body.String()))
		})
	}
}

func TestErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()
	ErrorResponse(w, http.StatusConflict, "stage change needs confirmation")

	assert.Equal(t, http.StatusConflict, w.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "Conflict", resp.Error)
	assert.Equal(t, "stage change needs confirmation", resp.Message)
}

func TestParseJSONBody(t *testing.T) {
	t.Run("project request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/projects",
			strings.NewReader(`{"name":"Pump","stages":["검토","설계"],"current_stage":"설계","extra":1}`))

		var parsed models.ProjectRequest
		require.NoError(t, ParseJSONBody(req, &parsed))
		assert.Equal(t, "Pump", parsed.Name)
		assert.Equal(t, []string{"검토", "설계"}, parsed.Stages)
		assert.Equal(t, "설계", parsed.CurrentStage)
	})

	t.Run("malformed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/projects", strings.NewReader(`{bad`))
		var parsed models.ProjectRequest
		assert.Error(t, ParseJSONBody(req, &parsed))
	})

	t.Run("empty", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/projects", strings.NewReader(""))
		var parsed models.ProjectRequest
		assert.Error(t, ParseJSONBody(req, &parsed))
	})
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("handled"))
	})
	h := CORS(next)

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/projects", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		for _, hdr := range []string{"X-User-ID", "X-User-Key", "Content-Type"} {
			assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), hdr)
		}
		for _, m := range []string{"GET", "POST", "PUT", "DELETE"} {
			assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), m)
		}
	})

	t.Run("regular request", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/projects", nil))

		assert.Equal(t, "handled", w.Body.String())
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "X-Request-ID", w.Header().Get("Access-Control-Expose-Headers"))
	})
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "203.0.113.195, 70.41.3.18"}, "127.0.0.1:1", "203.0.113.195"},
		{"forwarded wins over real ip", map[string]string{"X-Forwarded-For": "192.168.1.100", "X-Real-IP": "203.0.113.50"}, "10.0.0.1:1", "192.168.1.100"},
		{"real ip", map[string]string{"X-Real-IP": "203.0.113.50"}, "10.0.0.1:1", "203.0.113.50"},
		{"remote with port", nil, "192.168.1.50:54321", "192.168.1.50"},
		{"remote without port", nil, "192.168.1.50", "192.168.1.50"},
		{"ipv6 remote", nil, "[::1]:12345", "[::1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, GetClientIP(req))
		})
	}
}
