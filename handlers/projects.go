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

	"github.com/danielhkuo/rnd-tracker/cliparse"
	"github.com/danielhkuo/rnd-tracker/db"
	"github.com/danielhkuo/rnd-tracker/ids"
	"github.com/danielhkuo/rnd-tracker/middleware"
	"github.com/danielhkuo/rnd-tracker/models"
	"github.com/danielhkuo/rnd-tracker/workflow"
)

const recentWorklogLimit = 10

type ProjectHandler struct {
	db  *db.DB
	cfg cliparse.Config
	now func() time.Time
}

func NewProjectHandler(d *db.DB, cfg cliparse.Config) *ProjectHandler {
	return &ProjectHandler{db: d, cfg: cfg, now: time.Now}
}

func validProjectStatus(s string) bool {
	switch s {
	case models.ProjectActive, models.ProjectOnHold, models.ProjectCompleted, models.ProjectDropped:
		return true
	}
	return false
}

// cleanList trims a list field the way it will read back from its cell.
func cleanList(values []string) []string {
	return db.SplitCell(db.JoinCell(values))
}

// validateProject checks the row invariants shared by create and update.
func validateProject(p models.Project) error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	if !validProjectStatus(p.Status) {
		return fmt.Errorf("status must be one of: %s, %s, %s, %s",
			models.ProjectActive, models.ProjectOnHold, models.ProjectCompleted, models.ProjectDropped)
	}
	if err := workflow.ValidateStages(p.Stages, p.CurrentStage); err != nil {
		if errors.Is(err, workflow.ErrStageNotInList) {
			return errors.New("current stage must remain in the stages list")
		}
		return err
	}
	if err := workflow.CheckDate(p.StartDate); err != nil {
		return err
	}
	if err := workflow.CheckDate(p.EndDate); err != nil {
		return err
	}
	if p.StartDate != "" && p.EndDate != "" && p.StartDate > p.EndDate {
		return errors.New("start_date must not be after end_date")
	}
	return nil
}

// CreateProject handles POST /projects
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req models.ProjectRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	p := models.Project{
		Name:         strings.TrimSpace(req.Name),
		Customer:     strings.TrimSpace(req.Customer),
		Item:         strings.TrimSpace(req.Item),
		Manager:      strings.TrimSpace(req.Manager),
		Stages:       cleanList(req.Stages),
		CurrentStage: strings.TrimSpace(req.CurrentStage),
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Status:       req.Status,
		Description:  req.Description,
	}
	if p.Status == "" {
		p.Status = models.ProjectActive
	}
	if len(p.Stages) == 0 {
		stages, err := stageList(h.db)
		if err != nil {
			slog.Error("failed to load stage master", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		p.Stages = stages
	}
	if p.CurrentStage == "" {
		p.CurrentStage = p.Stages[0]
	}

	if err := validateProject(p); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	now := timestamp(h.now())
	p.CreatedAt, p.UpdatedAt = now, now

	keyMu.Lock()
	defer keyMu.Unlock()

	id, err := nextKey(h.db, db.SheetProjects, ids.PrefixProject)
	if err != nil {
		slog.Error("failed to generate project ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create project")
		return
	}
	p.ID = id

	_, err = h.db.Exec(`
		INSERT INTO projects (`+projectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Customer, p.Item, p.Manager, db.JoinCell(p.Stages), p.CurrentStage,
		p.StartDate, p.EndDate, p.Status, p.Description, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		slog.Error("failed to insert project", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create project")
		return
	}

	slog.Info("project created", "project_id", p.ID, "stage", p.CurrentStage)
	middleware.JSONResponse(w, http.StatusCreated, p)
}

// ListProjects handles GET /projects
// Optional filters: customer, stage, status, manager
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := loadProjects(h.db)
	if err != nil {
		slog.Error("failed to load projects", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	q := r.URL.Query()
	filtered := []models.Project{}
	for _, p := range projects {
		if v := q.Get("customer"); v != "" && p.Customer != v {
			continue
		}
		if v := q.Get("stage"); v != "" && p.CurrentStage != v {
			continue
		}
		if v := q.Get("status"); v != "" && p.Status != v {
			continue
		}
		if v := q.Get("manager"); v != "" && p.Manager != v {
			continue
		}
		filtered = append(filtered, p)
	}

	middleware.JSONResponse(w, http.StatusOK, filtered)
}

// GetProject handles GET /projects/{id}
// Returns the project with its schedules, recent worklogs and comment count
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	p, ok := h.findProject(w, r.PathValue("id"))
	if !ok {
		return
	}

	schedules, err := loadSchedules(h.db, p.ID)
	if err != nil {
		slog.Error("failed to load schedules", "project_id", p.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	today := h.now()
	for i := range schedules {
		schedules[i].Status = workflow.ScheduleStatus(schedules[i], today)
	}

	worklogs, err := loadWorklogs(h.db, p.ID)
	if err != nil {
		slog.Error("failed to load worklogs", "project_id", p.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if len(worklogs) > recentWorklogLimit {
		worklogs = worklogs[:recentWorklogLimit]
	}

	var commentCount int
	err = h.db.QueryRow(`SELECT COUNT(*) FROM comments WHERE project_id = ? AND parent_id = ''`, p.ID).Scan(&commentCount)
	if err != nil {
		slog.Error("failed to count comments", "project_id", p.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ProjectDetail{
		Project:        p,
		Schedules:      schedules,
		RecentWorklogs: worklogs,
		CommentCount:   commentCount,
	})
}

// UpdateProject handles PUT /projects/{id}
// Overwrites the whole row. Omitted stages or current_stage keep their
// stored values; every other field is replaced.
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.findProject(w, r.PathValue("id"))
	if !ok {
		return
	}

	var req models.ProjectRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	p := models.Project{
		ID:           existing.ID,
		Name:         strings.TrimSpace(req.Name),
		Customer:     strings.TrimSpace(req.Customer),
		Item:         strings.TrimSpace(req.Item),
		Manager:      strings.TrimSpace(req.Manager),
		Stages:       cleanList(req.Stages),
		CurrentStage: strings.TrimSpace(req.CurrentStage),
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Status:       req.Status,
		Description:  req.Description,
		CreatedAt:    existing.CreatedAt,
		UpdatedAt:    timestamp(h.now()),
	}
	if len(p.Stages) == 0 {
		p.Stages = existing.Stages
	}
	if p.CurrentStage == "" {
		p.CurrentStage = existing.CurrentStage
	}
	if p.Status == "" {
		p.Status = existing.Status
	}

	if err := validateProject(p); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	_, err := h.db.Exec(`
		UPDATE projects
		SET name = ?, customer = ?, item = ?, manager = ?, stages = ?, current_stage = ?,
		    start_date = ?, end_date = ?, status = ?, description = ?, updated_at = ?
		WHERE id = ?
	`, p.Name, p.Customer, p.Item, p.Manager, db.JoinCell(p.Stages), p.CurrentStage,
		p.StartDate, p.EndDate, p.Status, p.Description, p.UpdatedAt, p.ID)
	if err != nil {
		slog.Error("failed to update project", "project_id", p.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update project")
		return
	}

	slog.Info("project updated", "project_id", p.ID)
	middleware.JSONResponse(w, http.StatusOK, p)
}

// DeleteProject handles DELETE /projects/{id}
// Dependent worklogs, schedules, comments and reports go with it; meetings
// are unlinked.
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	p, ok := h.findProject(w, r.PathValue("id"))
	if !ok {
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	stmts := []string{
		`DELETE FROM worklogs WHERE project_id = ?`,
		`DELETE FROM schedules WHERE project_id = ?`,
		`DELETE FROM comments WHERE project_id = ?`,
		`DELETE FROM reports WHERE project_id = ?`,
		`UPDATE meetings SET project_id = '' WHERE project_id = ?`,
		`DELETE FROM projects WHERE id = ?`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt, p.ID); err != nil {
			slog.Error("failed to delete project rows", "project_id", p.ID, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete project")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete project")
		return
	}

	slog.Info("project deleted", "project_id", p.ID)
	w.WriteHeader(http.StatusNoContent)
}

// ChangeStage handles POST /projects/{id}/stage
// Moving to the next stage is applied directly; skipping ahead or moving
// back needs confirm=true.
func (h *ProjectHandler) ChangeStage(w http.ResponseWriter, r *http.Request) {
	p, ok := h.findProject(w, r.PathValue("id"))
	if !ok {
		return
	}

	var req models.StageChangeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	target := strings.TrimSpace(req.Stage)

	tr, err := workflow.ClassifyTransition(p.Stages, p.CurrentStage, target)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	previous := p.CurrentStage
	if tr == workflow.TransitionNone {
		middleware.JSONResponse(w, http.StatusOK, models.StageChangeResponse{Project: p, Previous: previous})
		return
	}

	if tr.NeedsConfirmation() && !req.Confirm {
		confirmationRequired(w, fmt.Sprintf("moving %s from %s to %s needs confirmation", tr, previous, target), previous, target)
		return
	}

	p.CurrentStage = target
	p.UpdatedAt = timestamp(h.now())
	_, err = h.db.Exec(`UPDATE projects SET current_stage = ?, updated_at = ? WHERE id = ?`, p.CurrentStage, p.UpdatedAt, p.ID)
	if err != nil {
		slog.Error("failed to change stage", "project_id", p.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to change stage")
		return
	}

	slog.Info("project stage changed", "project_id", p.ID, "from", previous, "to", target, "transition", tr.String())
	middleware.JSONResponse(w, http.StatusOK, models.StageChangeResponse{Project: p, Previous: previous, Changed: true})
}

// GetGantt handles GET /projects/{id}/gantt
func (h *ProjectHandler) GetGantt(w http.ResponseWriter, r *http.Request) {
	p, ok := h.findProject(w, r.PathValue("id"))
	if !ok {
		return
	}

	schedules, err := loadSchedules(h.db, p.ID)
	if err != nil {
		slog.Error("failed to load schedules", "project_id", p.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	today := h.now()
	tasks := make([]models.GanttTask, 0, len(schedules))
	for _, s := range schedules {
		tasks = append(tasks, workflow.GanttTask(s, today))
	}

	middleware.JSONResponse(w, http.StatusOK, tasks)
}

// findProject loads a project and writes the error response when it can't.
func (h *ProjectHandler) findProject(w http.ResponseWriter, id string) (models.Project, bool) {
	return findProject(h.db, w, id)
}

func findProject(d *db.DB, w http.ResponseWriter, id string) (models.Project, bool) {
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "project id is required")
		return models.Project{}, false
	}
	p, err := loadProject(d, id)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Project not found")
		return models.Project{}, false
	}
	if err != nil {
		slog.Error("failed to query project", "project_id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Project{}, false
	}
	return p, true
}

func confirmationRequired(w http.ResponseWriter, message, from, to string) {
	middleware.JSONResponse(w, http.StatusConflict, models.ConfirmationRequired{
		Error:                http.StatusText(http.StatusConflict),
		Message:              message,
		RequiresConfirmation: true,
		From:                 from,
		To:                   to,
	})
}
