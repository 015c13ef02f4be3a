// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/rnd-tracker/auth"
	"github.com/danielhkuo/rnd-tracker/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gateSalt = "gate-salt"

type fakeUsers map[string]models.User

func (f fakeUsers) LookupUser(id string) (models.User, error) {
	if id == "USR-BROKEN" {
		return models.User{}, errors.New("disk on fire")
	}
	u, ok := f[id]
	if !ok {
		return models.User{}, sql.ErrNoRows
	}
	return u, nil
}

func newTestGate() *Gate {
	return NewGate(fakeUsers{
		"USR-001": {ID: "USR-001", Role: models.RoleAdmin, Active: true},
		"USR-002": {ID: "USR-002", Role: models.RoleViewer, Active: true},
		"USR-003": {ID: "USR-003", Role: models.RoleMember, Active: false},
	}, gateSalt)
}

func gateRequest(userID, key string) *http.Request {
	req := httptest.NewRequest("GET", "/projects", nil)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	if key != "" {
		req.Header.Set("X-User-Key", key)
	}
	return req
}

func TestGate_Require(t *testing.T) {
	gate := newTestGate()

	tests := []struct {
		name   string
		userID string
		key    string
		perm   auth.Permission
		want   int
	}{
		{"admin allowed", "USR-001", auth.GenerateUserKey("USR-001", gateSalt), auth.PermAdmin, http.StatusOK},
		{"viewer reads", "USR-002", auth.GenerateUserKey("USR-002", gateSalt), auth.PermRead, http.StatusOK},
		{"viewer cannot write", "USR-002", auth.GenerateUserKey("USR-002", gateSalt), auth.PermWrite, http.StatusForbidden},
		{"missing headers", "", "", auth.PermRead, http.StatusUnauthorized},
		{"wrong key", "USR-001", auth.GenerateUserKey("USR-002", gateSalt), auth.PermRead, http.StatusUnauthorized},
		{"unknown user", "USR-404", auth.GenerateUserKey("USR-404", gateSalt), auth.PermRead, http.StatusUnauthorized},
		{"inactive user", "USR-003", auth.GenerateUserKey("USR-003", gateSalt), auth.PermRead, http.StatusUnauthorized},
		{"lookup failure", "USR-BROKEN", auth.GenerateUserKey("USR-BROKEN", gateSalt), auth.PermRead, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen models.User
			handler := gate.Require(tt.perm, func(w http.ResponseWriter, r *http.Request) {
				u, ok := CurrentUser(r)
				require.True(t, ok)
				seen = u
				w.WriteHeader(http.StatusOK)
			})

			w := httptest.NewRecorder()
			handler(w, gateRequest(tt.userID, tt.key))

			assert.Equal(t, tt.want, w.Code, w.Body.String())
			if tt.want == http.StatusOK {
				assert.Equal(t, tt.userID, seen.ID)
			}
		})
	}
}

func TestCurrentUser_Missing(t *testing.T) {
	_, ok := CurrentUser(httptest.NewRequest("GET", "/", nil))
	assert.False(t, ok)
}

func TestWithLogging_RequestID(t *testing.T) {
	handler := WithLogging(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	handler(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}
