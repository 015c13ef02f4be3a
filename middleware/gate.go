// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/rnd-tracker/auth"
	"github.com/danielhkuo/rnd-tracker/models"
)

// UserLookup loads a user row by ID. It returns sql.ErrNoRows for unknown IDs.
type UserLookup interface {
	LookupUser(id string) (models.User, error)
}

type userKey struct{}

// Gate authenticates requests by X-User-ID / X-User-Key and checks the
// caller's role against a permission.
type Gate struct {
	users UserLookup
	salt  string
}

func NewGate(users UserLookup, salt string) *Gate {
	return &Gate{users: users, salt: salt}
}

// Require wraps next so it only runs for active users whose role grants perm.
func (g *Gate) Require(perm auth.Permission, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")
		key := r.Header.Get("X-User-Key")
		if err := auth.ValidateUserKey(userID, key, g.salt); err != nil {
			ErrorResponse(w, http.StatusUnauthorized, "Invalid user credentials")
			return
		}

		user, err := g.users.LookupUser(userID)
		if errors.Is(err, sql.ErrNoRows) {
			ErrorResponse(w, http.StatusUnauthorized, "Unknown user")
			return
		}
		if err != nil {
			slog.Error("failed to load user", "user_id", userID, "error", err)
			ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if !user.Active {
			ErrorResponse(w, http.StatusUnauthorized, "User is inactive")
			return
		}

		if !auth.Can(user.Role, perm) {
			slog.Warn("permission denied", "user_id", user.ID, "role", user.Role, "permission", perm, "path", r.URL.Path)
			ErrorResponse(w, http.StatusForbidden, "Role "+user.Role+" may not "+string(perm))
			return
		}

		next(w, r.WithContext(WithUser(r.Context(), user)))
	}
}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// CurrentUser returns the user stored by Require.
func CurrentUser(r *http.Request) (models.User, bool) {
	user, ok := r.Context().Value(userKey{}).(models.User)
	return user, ok
}
