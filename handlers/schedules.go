// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/rnd-tracker/cliparse"
	"github.com/danielhkuo/rnd-tracker/db"
	"github.com/danielhkuo/rnd-tracker/ids"
	"github.com/danielhkuo/rnd-tracker/middleware"
	"github.com/danielhkuo/rnd-tracker/models"
	"github.com/danielhkuo/rnd-tracker/workflow"
)

type ScheduleHandler struct {
	db  *db.DB
	cfg cliparse.Config
	now func() time.Time
}

func NewScheduleHandler(d *db.DB, cfg cliparse.Config) *ScheduleHandler {
	return &ScheduleHandler{db: d, cfg: cfg, now: time.Now}
}

func scheduleFromRequest(req models.ScheduleRequest) models.Schedule {
	return models.Schedule{
		Name:         strings.TrimSpace(req.Name),
		Assignee:     strings.TrimSpace(req.Assignee),
		PlannedStart: req.PlannedStart,
		PlannedEnd:   req.PlannedEnd,
		ActualStart:  req.ActualStart,
		ActualEnd:    req.ActualEnd,
		Status:       req.Status,
		SortOrder:    req.SortOrder,
		Note:         req.Note,
	}
}

// CreateSchedule handles POST /projects/{id}/schedules
func (h *ScheduleHandler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	project, ok := findProject(h.db, w, r.PathValue("id"))
	if !ok {
		return
	}

	var req models.ScheduleRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	s := scheduleFromRequest(req)
	s.ProjectID = project.ID
	if s.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if err := workflow.NormalizeSchedule(&s, h.now()); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	keyMu.Lock()
	defer keyMu.Unlock()

	id, err := nextKey(h.db, db.SheetSchedules, ids.PrefixSchedule)
	if err != nil {
		slog.Error("failed to generate schedule ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create schedule")
		return
	}
	s.ID = id

	_, err = h.db.Exec(`
		INSERT INTO schedules (`+scheduleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.ID, s.ProjectID, s.Name, s.Assignee, s.PlannedStart, s.PlannedEnd,
		s.ActualStart, s.ActualEnd, s.Status, strconv.Itoa(s.SortOrder), s.Note)
	if err != nil {
		slog.Error("failed to insert schedule", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create schedule")
		return
	}

	slog.Info("schedule created", "schedule_id", s.ID, "project_id", s.ProjectID, "status", s.Status)
	middleware.JSONResponse(w, http.StatusCreated, s)
}

// ListSchedules handles GET /projects/{id}/schedules
// Status is recomputed for today, so overdue items read as delayed.
func (h *ScheduleHandler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	project, ok := findProject(h.db, w, r.PathValue("id"))
	if !ok {
		return
	}

	schedules, err := loadSchedules(h.db, project.ID)
	if err != nil {
		slog.Error("failed to load schedules", "project_id", project.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	today := h.now()
	for i := range schedules {
		schedules[i].Status = workflow.ScheduleStatus(schedules[i], today)
	}

	middleware.JSONResponse(w, http.StatusOK, schedules)
}

// UpdateSchedule handles PUT /schedules/{id}
func (h *ScheduleHandler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.findSchedule(w, r.PathValue("id"))
	if !ok {
		return
	}

	var req models.ScheduleRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	s := scheduleFromRequest(req)
	s.ID, s.ProjectID = existing.ID, existing.ProjectID
	if s.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if err := workflow.NormalizeSchedule(&s, h.now()); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	_, err := h.db.Exec(`
		UPDATE schedules
		SET name = ?, assignee = ?, planned_start = ?, planned_end = ?, actual_start = ?,
		    actual_end = ?, status = ?, sort_order = ?, note = ?
		WHERE id = ?
	`, s.Name, s.Assignee, s.PlannedStart, s.PlannedEnd, s.ActualStart,
		s.ActualEnd, s.Status, strconv.Itoa(s.SortOrder), s.Note, s.ID)
	if err != nil {
		slog.Error("failed to update schedule", "schedule_id", s.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update schedule")
		return
	}

	slog.Info("schedule updated", "schedule_id", s.ID, "status", s.Status)
	middleware.JSONResponse(w, http.StatusOK, s)
}

// DeleteSchedule handles DELETE /schedules/{id}
func (h *ScheduleHandler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	s, ok := h.findSchedule(w, r.PathValue("id"))
	if !ok {
		return
	}

	if _, err := h.db.Exec(`DELETE FROM schedules WHERE id = ?`, s.ID); err != nil {
		slog.Error("failed to delete schedule", "schedule_id", s.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete schedule")
		return
	}

	slog.Info("schedule deleted", "schedule_id", s.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *ScheduleHandler) findSchedule(w http.ResponseWriter, id string) (models.Schedule, bool) {
	s, err := loadSchedule(h.db, id)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Schedule not found")
		return models.Schedule{}, false
	}
	if err != nil {
		slog.Error("failed to query schedule", "schedule_id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Schedule{}, false
	}
	return s, true
}
