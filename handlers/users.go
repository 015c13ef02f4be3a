// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/rnd-tracker/auth"
	"github.com/danielhkuo/rnd-tracker/cliparse"
	"github.com/danielhkuo/rnd-tracker/db"
	"github.com/danielhkuo/rnd-tracker/ids"
	"github.com/danielhkuo/rnd-tracker/middleware"
	"github.com/danielhkuo/rnd-tracker/models"
)

type UserHandler struct {
	db  *db.DB
	cfg cliparse.Config
	now func() time.Time
}

func NewUserHandler(d *db.DB, cfg cliparse.Config) *UserHandler {
	return &UserHandler{db: d, cfg: cfg, now: time.Now}
}

// LookupUser loads a user for middleware.Gate.
func (h *UserHandler) LookupUser(id string) (models.User, error) {
	return loadUser(h.db, id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateUser checks a user row and email uniqueness.
func (h *UserHandler) validateUser(u models.User) (int, error) {
	if u.Name == "" {
		return http.StatusBadRequest, errors.New("name is required")
	}
	if !strings.Contains(u.Email, "@") {
		return http.StatusBadRequest, errors.New("a valid email is required")
	}
	if !auth.ValidRole(u.Role) {
		return http.StatusBadRequest, fmt.Errorf("role must be one of: %s, %s, %s, %s",
			models.RoleAdmin, models.RoleExecutive, models.RoleMember, models.RoleViewer)
	}

	var n int
	if err := h.db.QueryRow(`SELECT COUNT(*) FROM users WHERE email = ? AND id <> ?`, u.Email, u.ID).Scan(&n); err != nil {
		return http.StatusInternalServerError, err
	}
	if n > 0 {
		return http.StatusConflict, errors.New("email is already registered")
	}
	return 0, nil
}

func (h *UserHandler) activeAdmins() (int, error) {
	var n int
	err := h.db.QueryRow(`SELECT COUNT(*) FROM users WHERE role = ? AND active = 'true'`, models.RoleAdmin).Scan(&n)
	return n, err
}

func (h *UserHandler) insertUser(u *models.User) error {
	id, err := nextKey(h.db, db.SheetUsers, ids.PrefixUser)
	if err != nil {
		return err
	}
	u.ID = id
	_, err = h.db.Exec(`
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, u.ID, u.Name, u.Email, u.Role, u.Department, boolCell(u.Active), u.CreatedAt)
	return err
}

// Bootstrap creates an admin for email when the users sheet is empty and
// returns it with its key. created is false when users already exist.
func (h *UserHandler) Bootstrap(email string) (user models.User, key string, created bool, err error) {
	keyMu.Lock()
	defer keyMu.Unlock()

	var n int
	if err := h.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return models.User{}, "", false, fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		return models.User{}, "", false, nil
	}

	email = normalizeEmail(email)
	name, _, _ := strings.Cut(email, "@")
	user = models.User{
		Name:      name,
		Email:     email,
		Role:      models.RoleAdmin,
		Active:    true,
		CreatedAt: timestamp(h.now()),
	}
	if err := h.insertUser(&user); err != nil {
		return models.User{}, "", false, fmt.Errorf("insert bootstrap admin: %w", err)
	}
	return user, auth.GenerateUserKey(user.ID, h.cfg.UserKeySalt), true, nil
}

// Me handles GET /me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)
	middleware.JSONResponse(w, http.StatusOK, user)
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := loadUsers(h.db)
	if err != nil {
		slog.Error("failed to load users", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, users)
}

// CreateUser handles POST /users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.UserRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	u := models.User{
		Name:       strings.TrimSpace(req.Name),
		Email:      normalizeEmail(req.Email),
		Role:       req.Role,
		Department: strings.TrimSpace(req.Department),
		Active:     true,
		CreatedAt:  timestamp(h.now()),
	}
	if req.Active != nil {
		u.Active = *req.Active
	}

	keyMu.Lock()
	defer keyMu.Unlock()

	if status, err := h.validateUser(u); err != nil {
		if status == http.StatusInternalServerError {
			slog.Error("failed to validate user", "error", err)
			middleware.ErrorResponse(w, status, "Database error")
			return
		}
		middleware.ErrorResponse(w, status, err.Error())
		return
	}

	if err := h.insertUser(&u); err != nil {
		slog.Error("failed to insert user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	slog.Info("user created", "user_id", u.ID, "role", u.Role)
	middleware.JSONResponse(w, http.StatusCreated, u)
}

// UpdateUser handles PUT /users/{id}
// The last active admin can't be demoted or deactivated.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.findUser(w, r.PathValue("id"))
	if !ok {
		return
	}

	var req models.UserRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	u := models.User{
		ID:         existing.ID,
		Name:       strings.TrimSpace(req.Name),
		Email:      normalizeEmail(req.Email),
		Role:       req.Role,
		Department: strings.TrimSpace(req.Department),
		Active:     existing.Active,
		CreatedAt:  existing.CreatedAt,
	}
	if req.Active != nil {
		u.Active = *req.Active
	}

	keyMu.Lock()
	defer keyMu.Unlock()

	if status, err := h.validateUser(u); err != nil {
		if status == http.StatusInternalServerError {
			slog.Error("failed to validate user", "error", err)
			middleware.ErrorResponse(w, status, "Database error")
			return
		}
		middleware.ErrorResponse(w, status, err.Error())
		return
	}

	losesAdmin := existing.Active && existing.Role == models.RoleAdmin && (!u.Active || u.Role != models.RoleAdmin)
	if losesAdmin && !h.otherAdminsRemain(w) {
		return
	}

	_, err := h.db.Exec(`
		UPDATE users SET name = ?, email = ?, role = ?, department = ?, active = ? WHERE id = ?
	`, u.Name, u.Email, u.Role, u.Department, boolCell(u.Active), u.ID)
	if err != nil {
		slog.Error("failed to update user", "user_id", u.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update user")
		return
	}

	slog.Info("user updated", "user_id", u.ID, "role", u.Role, "active", u.Active)
	middleware.JSONResponse(w, http.StatusOK, u)
}

// DeleteUser handles DELETE /users/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	u, ok := h.findUser(w, r.PathValue("id"))
	if !ok {
		return
	}

	keyMu.Lock()
	defer keyMu.Unlock()

	if u.Active && u.Role == models.RoleAdmin && !h.otherAdminsRemain(w) {
		return
	}

	if _, err := h.db.Exec(`DELETE FROM users WHERE id = ?`, u.ID); err != nil {
		slog.Error("failed to delete user", "user_id", u.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	slog.Info("user deleted", "user_id", u.ID)
	w.WriteHeader(http.StatusNoContent)
}

// IssueKey handles POST /users/{id}/key
func (h *UserHandler) IssueKey(w http.ResponseWriter, r *http.Request) {
	u, ok := h.findUser(w, r.PathValue("id"))
	if !ok {
		return
	}

	slog.Info("user key issued", "user_id", u.ID)
	middleware.JSONResponse(w, http.StatusOK, models.UserKeyResponse{
		UserID: u.ID,
		Key:    auth.GenerateUserKey(u.ID, h.cfg.UserKeySalt),
	})
}

// otherAdminsRemain writes a 409 when removing one active admin would leave none.
func (h *UserHandler) otherAdminsRemain(w http.ResponseWriter) bool {
	n, err := h.activeAdmins()
	if err != nil {
		slog.Error("failed to count admins", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return false
	}
	if n <= 1 {
		middleware.ErrorResponse(w, http.StatusConflict, "Cannot remove the last active admin")
		return false
	}
	return true
}

func (h *UserHandler) findUser(w http.ResponseWriter, id string) (models.User, bool) {
	u, err := loadUser(h.db, id)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return models.User{}, false
	}
	if err != nil {
		slog.Error("failed to query user", "user_id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.User{}, false
	}
	return u, true
}
