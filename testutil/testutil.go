// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/rnd-tracker/auth"
	"github.com/danielhkuo/rnd-tracker/cliparse"
	"github.com/danielhkuo/rnd-tracker/db"
	"github.com/danielhkuo/rnd-tracker/ids"
	"github.com/danielhkuo/rnd-tracker/models"
)

// SetupTestDB opens a fresh SQLite sheet store with the full schema.
// The file lives in t.TempDir and is closed when the test ends.
func SetupTestDB(t *testing.T) *db.DB {
	t.Helper()

	store, err := db.Open(db.DialectSQLite, filepath.Join(t.TempDir(), "tracker.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := db.CreateSchema(store); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return store
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  "tracker.db",
		DatabaseType: cliparse.DatabaseSQLite,
		UserKeySalt:  "test-user-salt",
	}
}

// CreateTestUser inserts an active user with the given role and returns it
// with its key.
func CreateTestUser(t *testing.T, store *db.DB, cfg cliparse.Config, role string) (models.User, string) {
	t.Helper()

	existing, err := store.ColumnValues(db.SheetUsers, "id")
	if err != nil {
		t.Fatalf("Failed to read user keys: %v", err)
	}
	id := ids.Next(ids.PrefixUser, existing)

	user := models.User{
		ID:        id,
		Name:      role + "-" + id,
		Email:     fmt.Sprintf("%s@example.com", id),
		Role:      role,
		Active:    true,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	_, err = store.Exec(`
		INSERT INTO users (id, name, email, role, department, active, created_at)
		VALUES (?, ?, ?, ?, '', 'true', ?)
	`, user.ID, user.Name, user.Email, user.Role, user.CreatedAt)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user, auth.GenerateUserKey(user.ID, cfg.UserKeySalt)
}

// CreateTestProject inserts an active project using the default stages and
// returns its ID. An empty stage means the first stage.
func CreateTestProject(t *testing.T, store *db.DB, name, customer, stage string) string {
	t.Helper()

	existing, err := store.ColumnValues(db.SheetProjects, "id")
	if err != nil {
		t.Fatalf("Failed to read project keys: %v", err)
	}
	id := ids.Next(ids.PrefixProject, existing)
	if stage == "" {
		stage = models.DefaultStages[0]
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = store.Exec(`
		INSERT INTO projects (id, name, customer, item, manager, stages, current_stage,
			start_date, end_date, status, description, created_at, updated_at)
		VALUES (?, ?, ?, '', '', ?, ?, '', '', ?, '', ?, ?)
	`, id, name, customer, db.JoinCell(models.DefaultStages), stage, models.ProjectActive, now, now)
	if err != nil {
		t.Fatalf("Failed to create test project: %v", err)
	}

	return id
}

// AuthHeaders returns the headers identifying a user to the API.
func AuthHeaders(userID, key string) map[string]string {
	return map[string]string{
		"X-User-ID":  userID,
		"X-User-Key": key,
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
