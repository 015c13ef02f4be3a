// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
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
	"github.com/danielhkuo/rnd-tracker/workflow"
)

type MeetingHandler struct {
	db  *db.DB
	cfg cliparse.Config
	now func() time.Time
}

func NewMeetingHandler(d *db.DB, cfg cliparse.Config) *MeetingHandler {
	return &MeetingHandler{db: d, cfg: cfg, now: time.Now}
}

// meetingFromRequest validates a request into a row. Writes the error
// response and returns false when it is invalid.
func (h *MeetingHandler) meetingFromRequest(w http.ResponseWriter, req models.MeetingRequest) (models.Meeting, bool) {
	m := models.Meeting{
		Title:       strings.TrimSpace(req.Title),
		Date:        req.Date,
		Attendees:   cleanList(req.Attendees),
		ProjectID:   req.ProjectID,
		Agenda:      req.Agenda,
		Content:     req.Content,
		Decisions:   req.Decisions,
		ActionItems: req.ActionItems,
	}
	if m.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return m, false
	}
	if m.Date == "" {
		m.Date = workflow.FormatDate(h.now())
	}
	if err := workflow.CheckDate(m.Date); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return m, false
	}
	if m.ProjectID != "" {
		_, err := loadProject(h.db, m.ProjectID)
		if err == sql.ErrNoRows {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Project not found")
			return m, false
		}
		if err != nil {
			slog.Error("failed to query project", "project_id", m.ProjectID, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return m, false
		}
	}
	return m, true
}

// CreateMeeting handles POST /meetings
func (h *MeetingHandler) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)

	var req models.MeetingRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	m, ok := h.meetingFromRequest(w, req)
	if !ok {
		return
	}
	m.Author = user.ID
	m.CreatedAt = timestamp(h.now())

	keyMu.Lock()
	defer keyMu.Unlock()

	id, err := nextKey(h.db, db.SheetMeetings, ids.PrefixMeeting)
	if err != nil {
		slog.Error("failed to generate meeting ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create meeting")
		return
	}
	m.ID = id

	_, err = h.db.Exec(`
		INSERT INTO meetings (`+meetingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.Title, m.Date, db.JoinCell(m.Attendees), m.ProjectID, m.Agenda, m.Content,
		m.Decisions, m.ActionItems, m.Author, m.CreatedAt)
	if err != nil {
		slog.Error("failed to insert meeting", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create meeting")
		return
	}

	slog.Info("meeting created", "meeting_id", m.ID)
	middleware.JSONResponse(w, http.StatusCreated, m)
}

// ListMeetings handles GET /meetings
// Optional filters: project_id, from, to
func (h *MeetingHandler) ListMeetings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	projectID, from, to := q.Get("project_id"), q.Get("from"), q.Get("to")
	if err := workflow.CheckDate(from); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := workflow.CheckDate(to); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	meetings, err := loadMeetings(h.db)
	if err != nil {
		slog.Error("failed to load meetings", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	filtered := []models.Meeting{}
	for _, m := range meetings {
		if projectID != "" && m.ProjectID != projectID {
			continue
		}
		if from != "" && m.Date < from {
			continue
		}
		if to != "" && m.Date > to {
			continue
		}
		filtered = append(filtered, m)
	}

	middleware.JSONResponse(w, http.StatusOK, filtered)
}

// GetMeeting handles GET /meetings/{id}
func (h *MeetingHandler) GetMeeting(w http.ResponseWriter, r *http.Request) {
	m, ok := h.findMeeting(w, r.PathValue("id"))
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, m)
}

// UpdateMeeting handles PUT /meetings/{id}
func (h *MeetingHandler) UpdateMeeting(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)

	existing, ok := h.findMeeting(w, r.PathValue("id"))
	if !ok {
		return
	}
	if !auth.CanModify(user.Role, user.ID, existing.Author) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Only the author or an admin may edit these minutes")
		return
	}

	var req models.MeetingRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	m, ok := h.meetingFromRequest(w, req)
	if !ok {
		return
	}
	m.ID, m.Author, m.CreatedAt = existing.ID, existing.Author, existing.CreatedAt

	_, err := h.db.Exec(`
		UPDATE meetings
		SET title = ?, date = ?, attendees = ?, project_id = ?, agenda = ?, content = ?,
		    decisions = ?, action_items = ?
		WHERE id = ?
	`, m.Title, m.Date, db.JoinCell(m.Attendees), m.ProjectID, m.Agenda, m.Content,
		m.Decisions, m.ActionItems, m.ID)
	if err != nil {
		slog.Error("failed to update meeting", "meeting_id", m.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update meeting")
		return
	}

	slog.Info("meeting updated", "meeting_id", m.ID)
	middleware.JSONResponse(w, http.StatusOK, m)
}

// DeleteMeeting handles DELETE /meetings/{id}
func (h *MeetingHandler) DeleteMeeting(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)

	m, ok := h.findMeeting(w, r.PathValue("id"))
	if !ok {
		return
	}
	if !auth.CanModify(user.Role, user.ID, m.Author) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Only the author or an admin may delete these minutes")
		return
	}

	if _, err := h.db.Exec(`DELETE FROM meetings WHERE id = ?`, m.ID); err != nil {
		slog.Error("failed to delete meeting", "meeting_id", m.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete meeting")
		return
	}

	slog.Info("meeting deleted", "meeting_id", m.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *MeetingHandler) findMeeting(w http.ResponseWriter, id string) (models.Meeting, bool) {
	m, err := loadMeeting(h.db, id)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Meeting not found")
		return models.Meeting{}, false
	}
	if err != nil {
		slog.Error("failed to query meeting", "meeting_id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Meeting{}, false
	}
	return m, true
}
