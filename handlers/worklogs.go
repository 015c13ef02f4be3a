// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/danielhkuo/rnd-tracker/auth"
	"github.com/danielhkuo/rnd-tracker/cliparse"
	"github.com/danielhkuo/rnd-tracker/db"
	"github.com/danielhkuo/rnd-tracker/ids"
	"github.com/danielhkuo/rnd-tracker/middleware"
	"github.com/danielhkuo/rnd-tracker/models"
	"github.com/danielhkuo/rnd-tracker/workflow"
)

type WorklogHandler struct {
	db  *db.DB
	cfg cliparse.Config
	now func() time.Time
}

func NewWorklogHandler(d *db.DB, cfg cliparse.Config) *WorklogHandler {
	return &WorklogHandler{db: d, cfg: cfg, now: time.Now}
}

// hoursPattern is a plain non-negative decimal such as 3 or 1.5.
var hoursPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)

func checkHours(hours string) error {
	if hours == "" {
		return nil
	}
	if !hoursPattern.MatchString(hours) {
		return errors.New("hours must be a non-negative decimal number")
	}
	return nil
}

// CreateWorklog handles POST /worklogs
// A stage ahead of the project's current stage moves the project forward,
// but only with advance_stage=true.
func (h *WorklogHandler) CreateWorklog(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)

	var req models.WorklogRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.ProjectID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "project_id is required")
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "content is required")
		return
	}
	if err := checkHours(req.Hours); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	now := h.now()
	date := req.Date
	if date == "" {
		date = workflow.FormatDate(now)
	}
	day, err := workflow.ParseDate(date)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	project, err := loadProject(h.db, req.ProjectID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Project not found")
		return
	}
	if err != nil {
		slog.Error("failed to query project", "project_id", req.ProjectID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	stage := strings.TrimSpace(req.Stage)
	if stage == "" {
		stage = project.CurrentStage
	}
	if workflow.StageIndex(project.Stages, stage) < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("stage %s is not in the project's stage list", stage))
		return
	}

	advance := workflow.IsAhead(project.Stages, project.CurrentStage, stage)
	if advance && !req.AdvanceStage {
		confirmationRequired(w, fmt.Sprintf("logging %s moves the project from %s; set advance_stage to confirm", stage, project.CurrentStage),
			project.CurrentStage, stage)
		return
	}

	wl := models.Worklog{
		ProjectID: project.ID,
		Date:      date,
		Author:    user.ID,
		Stage:     stage,
		Content:   content,
		Hours:     req.Hours,
		CreatedAt: timestamp(now),
	}

	keyMu.Lock()
	defer keyMu.Unlock()

	existing, err := h.db.ColumnValues(db.SheetWorklogs, "id")
	if err != nil {
		slog.Error("failed to generate worklog ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create worklog")
		return
	}
	wl.ID = ids.NextDaily(ids.PrefixWorklog, day, existing)

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO worklogs (`+worklogColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, wl.ID, wl.ProjectID, wl.Date, wl.Author, wl.Stage, wl.Content, wl.Hours, wl.CreatedAt)
	if err != nil {
		slog.Error("failed to insert worklog", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create worklog")
		return
	}

	if advance {
		_, err = tx.Exec(`UPDATE projects SET current_stage = ?, updated_at = ? WHERE id = ?`, stage, wl.CreatedAt, project.ID)
		if err != nil {
			slog.Error("failed to advance project stage", "project_id", project.ID, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create worklog")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create worklog")
		return
	}

	slog.Info("worklog created", "worklog_id", wl.ID, "project_id", project.ID, "stage_advanced", advance)
	middleware.JSONResponse(w, http.StatusCreated, models.CreateWorklogResponse{Worklog: wl, StageAdvanced: advance})
}

// ListWorklogs handles GET /worklogs
// Optional filters: project_id, author, from, to (inclusive dates)
func (h *WorklogHandler) ListWorklogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")
	if err := workflow.CheckDate(from); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := workflow.CheckDate(to); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	worklogs, err := loadWorklogs(h.db, q.Get("project_id"))
	if err != nil {
		slog.Error("failed to load worklogs", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	author := q.Get("author")
	filtered := []models.Worklog{}
	for _, wl := range worklogs {
		if author != "" && wl.Author != author {
			continue
		}
		if from != "" && wl.Date < from {
			continue
		}
		if to != "" && wl.Date > to {
			continue
		}
		filtered = append(filtered, wl)
	}

	middleware.JSONResponse(w, http.StatusOK, filtered)
}

// GetWorklog handles GET /worklogs/{id}
func (h *WorklogHandler) GetWorklog(w http.ResponseWriter, r *http.Request) {
	wl, ok := h.findWorklog(w, r.PathValue("id"))
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, wl)
}

// UpdateWorklog handles PUT /worklogs/{id}
// The project stays fixed; the stage must be one of its stages.
func (h *WorklogHandler) UpdateWorklog(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)

	wl, ok := h.findWorklog(w, r.PathValue("id"))
	if !ok {
		return
	}
	if !auth.CanModify(user.Role, user.ID, wl.Author) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Only the author or an admin may edit this worklog")
		return
	}

	var req models.WorklogRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.ProjectID != "" && req.ProjectID != wl.ProjectID {
		middleware.ErrorResponse(w, http.StatusBadRequest, "project_id cannot be changed")
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "content is required")
		return
	}
	if err := checkHours(req.Hours); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Date != "" {
		if err := workflow.CheckDate(req.Date); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		wl.Date = req.Date
	}

	if stage := strings.TrimSpace(req.Stage); stage != "" {
		project, err := loadProject(h.db, wl.ProjectID)
		if err != nil {
			slog.Error("failed to query project", "project_id", wl.ProjectID, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if workflow.StageIndex(project.Stages, stage) < 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("stage %s is not in the project's stage list", stage))
			return
		}
		wl.Stage = stage
	}
	wl.Content = content
	wl.Hours = req.Hours

	_, err := h.db.Exec(`
		UPDATE worklogs SET date = ?, stage = ?, content = ?, hours = ? WHERE id = ?
	`, wl.Date, wl.Stage, wl.Content, wl.Hours, wl.ID)
	if err != nil {
		slog.Error("failed to update worklog", "worklog_id", wl.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update worklog")
		return
	}

	slog.Info("worklog updated", "worklog_id", wl.ID)
	middleware.JSONResponse(w, http.StatusOK, wl)
}

// DeleteWorklog handles DELETE /worklogs/{id}
func (h *WorklogHandler) DeleteWorklog(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)

	wl, ok := h.findWorklog(w, r.PathValue("id"))
	if !ok {
		return
	}
	if !auth.CanModify(user.Role, user.ID, wl.Author) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Only the author or an admin may delete this worklog")
		return
	}

	if _, err := h.db.Exec(`DELETE FROM worklogs WHERE id = ?`, wl.ID); err != nil {
		slog.Error("failed to delete worklog", "worklog_id", wl.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete worklog")
		return
	}

	slog.Info("worklog deleted", "worklog_id", wl.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *WorklogHandler) findWorklog(w http.ResponseWriter, id string) (models.Worklog, bool) {
	wl, err := loadWorklog(h.db, id)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Worklog not found")
		return models.Worklog{}, false
	}
	if err != nil {
		slog.Error("failed to query worklog", "worklog_id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Worklog{}, false
	}
	return wl, true
}
