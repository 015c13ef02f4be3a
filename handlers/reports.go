// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
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

type ReportHandler struct {
	db  *db.DB
	cfg cliparse.Config
	now func() time.Time
}

func NewReportHandler(d *db.DB, cfg cliparse.Config) *ReportHandler {
	return &ReportHandler{db: d, cfg: cfg, now: time.Now}
}

// weekOf snaps a date cell to its Monday. An empty cell means this week.
func (h *ReportHandler) weekOf(date string) (string, error) {
	if date == "" {
		return workflow.FormatDate(workflow.WeekStart(h.now())), nil
	}
	t, err := workflow.ParseDate(date)
	if err != nil {
		return "", err
	}
	return workflow.FormatDate(workflow.WeekStart(t)), nil
}

// reportExists reports whether another report holds the same
// project/week/author slot.
func (h *ReportHandler) reportExists(projectID, weekStart, author, exceptID string) (bool, error) {
	var n int
	err := h.db.QueryRow(`
		SELECT COUNT(*) FROM reports
		WHERE project_id = ? AND week_start = ? AND author = ? AND id <> ?
	`, projectID, weekStart, author, exceptID).Scan(&n)
	return n > 0, err
}

// CreateReport handles POST /reports
func (h *ReportHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)

	var req models.ReportRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.ProjectID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "project_id is required")
		return
	}
	week, err := h.weekOf(req.WeekStart)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := loadProject(h.db, req.ProjectID); err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Project not found")
		return
	} else if err != nil {
		slog.Error("failed to query project", "project_id", req.ProjectID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	rp := models.Report{
		ProjectID: req.ProjectID,
		WeekStart: week,
		Author:    user.ID,
		ThisWeek:  req.ThisWeek,
		NextWeek:  req.NextWeek,
		Issues:    req.Issues,
		CreatedAt: timestamp(h.now()),
	}

	keyMu.Lock()
	defer keyMu.Unlock()

	exists, err := h.reportExists(rp.ProjectID, rp.WeekStart, rp.Author, "")
	if err != nil {
		slog.Error("failed to check report", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if exists {
		middleware.ErrorResponse(w, http.StatusConflict, "A report for this project and week already exists")
		return
	}

	id, err := nextKey(h.db, db.SheetReports, ids.PrefixReport)
	if err != nil {
		slog.Error("failed to generate report ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create report")
		return
	}
	rp.ID = id

	_, err = h.db.Exec(`
		INSERT INTO reports (`+reportColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rp.ID, rp.ProjectID, rp.WeekStart, rp.Author, rp.ThisWeek, rp.NextWeek, rp.Issues, rp.CreatedAt)
	if err != nil {
		slog.Error("failed to insert report", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create report")
		return
	}

	slog.Info("report created", "report_id", rp.ID, "project_id", rp.ProjectID, "week_start", rp.WeekStart)
	middleware.JSONResponse(w, http.StatusCreated, rp)
}

// ListReports handles GET /reports
// Optional filters: project_id, week_start (any day of the week)
func (h *ReportHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	projectID := q.Get("project_id")
	week := ""
	if v := q.Get("week_start"); v != "" {
		var err error
		if week, err = h.weekOf(v); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	reports, err := loadReports(h.db)
	if err != nil {
		slog.Error("failed to load reports", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	filtered := []models.Report{}
	for _, rp := range reports {
		if projectID != "" && rp.ProjectID != projectID {
			continue
		}
		if week != "" && rp.WeekStart != week {
			continue
		}
		filtered = append(filtered, rp)
	}

	middleware.JSONResponse(w, http.StatusOK, filtered)
}

// GetReport handles GET /reports/{id}
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	rp, ok := h.findReport(w, r.PathValue("id"))
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, rp)
}

// UpdateReport handles PUT /reports/{id}
func (h *ReportHandler) UpdateReport(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)

	rp, ok := h.findReport(w, r.PathValue("id"))
	if !ok {
		return
	}
	if !auth.CanModify(user.Role, user.ID, rp.Author) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Only the author or an admin may edit this report")
		return
	}

	var req models.ReportRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.ProjectID != "" && req.ProjectID != rp.ProjectID {
		middleware.ErrorResponse(w, http.StatusBadRequest, "project_id cannot be changed")
		return
	}
	if req.WeekStart != "" {
		week, err := h.weekOf(req.WeekStart)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		rp.WeekStart = week
	}
	rp.ThisWeek, rp.NextWeek, rp.Issues = req.ThisWeek, req.NextWeek, req.Issues

	exists, err := h.reportExists(rp.ProjectID, rp.WeekStart, rp.Author, rp.ID)
	if err != nil {
		slog.Error("failed to check report", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if exists {
		middleware.ErrorResponse(w, http.StatusConflict, "A report for this project and week already exists")
		return
	}

	_, err = h.db.Exec(`
		UPDATE reports SET week_start = ?, this_week = ?, next_week = ?, issues = ? WHERE id = ?
	`, rp.WeekStart, rp.ThisWeek, rp.NextWeek, rp.Issues, rp.ID)
	if err != nil {
		slog.Error("failed to update report", "report_id", rp.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update report")
		return
	}

	slog.Info("report updated", "report_id", rp.ID)
	middleware.JSONResponse(w, http.StatusOK, rp)
}

// DeleteReport handles DELETE /reports/{id}
func (h *ReportHandler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)

	rp, ok := h.findReport(w, r.PathValue("id"))
	if !ok {
		return
	}
	if !auth.CanModify(user.Role, user.ID, rp.Author) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Only the author or an admin may delete this report")
		return
	}

	if _, err := h.db.Exec(`DELETE FROM reports WHERE id = ?`, rp.ID); err != nil {
		slog.Error("failed to delete report", "report_id", rp.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete report")
		return
	}

	slog.Info("report deleted", "report_id", rp.ID)
	w.WriteHeader(http.StatusNoContent)
}

// DraftReport handles GET /reports/draft?project_id=&week_start=
// Composes this week's section from the project's worklogs of that week.
func (h *ReportHandler) DraftReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	project, ok := findProject(h.db, w, q.Get("project_id"))
	if !ok {
		return
	}

	week, err := h.weekOf(q.Get("week_start"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	start, _ := workflow.ParseDate(week)
	weekEnd := workflow.FormatDate(start.AddDate(0, 0, 6))

	worklogs, err := loadWorklogs(h.db, project.ID)
	if err != nil {
		slog.Error("failed to load worklogs", "project_id", project.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	inWeek := []models.Worklog{}
	for _, wl := range worklogs {
		if wl.Date >= week && wl.Date <= weekEnd {
			inWeek = append(inWeek, wl)
		}
	}
	sort.SliceStable(inWeek, func(i, j int) bool {
		if inWeek[i].Date != inWeek[j].Date {
			return inWeek[i].Date < inWeek[j].Date
		}
		return ids.Less(inWeek[i].ID, inWeek[j].ID)
	})

	lines := make([]string, 0, len(inWeek))
	for _, wl := range inWeek {
		lines = append(lines, fmt.Sprintf("- %s [%s] %s", wl.Date, wl.Stage, wl.Content))
	}

	middleware.JSONResponse(w, http.StatusOK, models.ReportDraft{
		ProjectID:    project.ID,
		WeekStart:    week,
		WeekEnd:      weekEnd,
		ThisWeek:     strings.Join(lines, "\n"),
		WorklogCount: len(inWeek),
	})
}

func (h *ReportHandler) findReport(w http.ResponseWriter, id string) (models.Report, bool) {
	rp, err := loadReport(h.db, id)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Report not found")
		return models.Report{}, false
	}
	if err != nil {
		slog.Error("failed to query report", "report_id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Report{}, false
	}
	return rp, true
}
