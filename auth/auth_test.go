// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"
	"testing"

	"github.com/danielhkuo/rnd-tracker/models"
)

func TestGenerateUserKey(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		salt   string
	}{
		{"standard", "USR-001", "secret-salt"},
		{"empty user id", "", "salt"},
		{"empty salt", "USR-002", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := GenerateUserKey(tt.userID, tt.salt)

			if key == "" {
				t.Error("GenerateUserKey() returned empty string")
			}

			// Should be deterministic
			if key != GenerateUserKey(tt.userID, tt.salt) {
				t.Error("GenerateUserKey() is not deterministic")
			}

			if tt.userID != "" && key == GenerateUserKey(tt.userID+"x", tt.salt) {
				t.Error("GenerateUserKey() produced same key for different users")
			}

			// URL-safe, no padding
			if strings.ContainsAny(key, "+/=") {
				t.Errorf("GenerateUserKey() contains non URL-safe characters: %s", key)
			}
		})
	}
}

func TestValidateUserKey(t *testing.T) {
	salt := "test-salt"
	key := GenerateUserKey("USR-001", salt)

	tests := []struct {
		name    string
		userID  string
		key     string
		salt    string
		wantErr bool
	}{
		{"valid key", "USR-001", key, salt, false},
		{"wrong user", "USR-002", key, salt, true},
		{"wrong salt", "USR-001", key, "other", true},
		{"empty key", "USR-001", "", salt, true},
		{"empty user", "", key, salt, true},
		{"tampered key", "USR-001", key + "x", salt, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUserKey(tt.userID, tt.key, tt.salt)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUserKey() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && err != ErrInvalidUserKey {
				t.Errorf("ValidateUserKey() error = %v, want ErrInvalidUserKey", err)
			}
		})
	}
}

func TestNewRequestID(t *testing.T) {
	a, b := NewRequestID(), NewRequestID()
	if len(a) != 36 {
		t.Errorf("NewRequestID() length = %d, want 36", len(a))
	}
	if a == b {
		t.Error("NewRequestID() produced duplicate IDs")
	}
}

func TestCan(t *testing.T) {
	tests := []struct {
		role string
		perm Permission
		want bool
	}{
		{models.RoleViewer, PermRead, true},
		{models.RoleViewer, PermWrite, false},
		{models.RoleMember, PermWrite, true},
		{models.RoleMember, PermComment, false},
		{models.RoleExecutive, PermComment, true},
		{models.RoleExecutive, PermAdmin, false},
		{models.RoleAdmin, PermAdmin, true},
		{"intern", PermRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.role+"/"+string(tt.perm), func(t *testing.T) {
			if got := Can(tt.role, tt.perm); got != tt.want {
				t.Errorf("Can(%q, %q) = %v, want %v", tt.role, tt.perm, got, tt.want)
			}
		})
	}
}

func TestCanModify(t *testing.T) {
	if !CanModify(models.RoleAdmin, "USR-001", "USR-002") {
		t.Error("admin should modify any row")
	}
	if !CanModify(models.RoleMember, "USR-002", "USR-002") {
		t.Error("author should modify own row")
	}
	if CanModify(models.RoleMember, "USR-003", "USR-002") {
		t.Error("member should not modify another author's row")
	}
	if CanModify(models.RoleViewer, "USR-002", "USR-002") {
		t.Error("viewer should not modify rows")
	}
}

func TestValidRole(t *testing.T) {
	for _, r := range []string{models.RoleAdmin, models.RoleExecutive, models.RoleMember, models.RoleViewer} {
		if !ValidRole(r) {
			t.Errorf("ValidRole(%q) = false", r)
		}
	}
	if ValidRole("root") {
		t.Error("ValidRole(\"root\") = true")
	}
}
