// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/danielhkuo/rnd-tracker/cliparse"
	"github.com/danielhkuo/rnd-tracker/db"
	"github.com/danielhkuo/rnd-tracker/middleware"
	"github.com/danielhkuo/rnd-tracker/models"
)

type MasterHandler struct {
	db  *db.DB
	cfg cliparse.Config
}

func NewMasterHandler(d *db.DB, cfg cliparse.Config) *MasterHandler {
	return &MasterHandler{db: d, cfg: cfg}
}

func validCategory(c string) bool {
	switch c {
	case models.CategoryCustomer, models.CategoryItem, models.CategoryStage, models.CategoryDepartment:
		return true
	}
	return false
}

// category reads and checks the {category} path value.
func category(w http.ResponseWriter, r *http.Request) (string, bool) {
	c := r.PathValue("category")
	if !validCategory(c) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "category must be one of: customer, item, stage, department")
		return "", false
	}
	return c, true
}

// ListMaster handles GET /master/{category}
func (h *MasterHandler) ListMaster(w http.ResponseWriter, r *http.Request) {
	c, ok := category(w, r)
	if !ok {
		return
	}

	items, err := loadMaster(h.db, c)
	if err != nil {
		slog.Error("failed to load master data", "category", c, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, items)
}

// AddMaster handles POST /master/{category}
func (h *MasterHandler) AddMaster(w http.ResponseWriter, r *http.Request) {
	c, ok := category(w, r)
	if !ok {
		return
	}

	var req models.MasterItemRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	value := strings.TrimSpace(req.Value)
	if value == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "value is required")
		return
	}
	if strings.Contains(value, ",") {
		middleware.ErrorResponse(w, http.StatusBadRequest, "value must not contain commas")
		return
	}

	var n int
	if err := h.db.QueryRow(`SELECT COUNT(*) FROM master_data WHERE category = ? AND value = ?`, c, value).Scan(&n); err != nil {
		slog.Error("failed to query master data", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if n > 0 {
		middleware.ErrorResponse(w, http.StatusConflict, value+" already exists in "+c)
		return
	}

	_, err := h.db.Exec(`INSERT INTO master_data (category, value, sort_order) VALUES (?, ?, ?)`,
		c, value, strconv.Itoa(req.SortOrder))
	if err != nil {
		slog.Error("failed to insert master data", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add item")
		return
	}

	slog.Info("master data added", "category", c, "value", value)
	middleware.JSONResponse(w, http.StatusCreated, models.MasterItem{Category: c, Value: value, SortOrder: req.SortOrder})
}

// DeleteMaster handles DELETE /master/{category}/{value}
func (h *MasterHandler) DeleteMaster(w http.ResponseWriter, r *http.Request) {
	c, ok := category(w, r)
	if !ok {
		return
	}
	value := r.PathValue("value")

	res, err := h.db.Exec(`DELETE FROM master_data WHERE category = ? AND value = ?`, c, value)
	if err != nil {
		slog.Error("failed to delete master data", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete item")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Item not found")
		return
	}

	slog.Info("master data deleted", "category", c, "value", value)
	w.WriteHeader(http.StatusNoContent)
}
