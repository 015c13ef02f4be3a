// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
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
)

type CommentHandler struct {
	db  *db.DB
	cfg cliparse.Config
	now func() time.Time
}

func NewCommentHandler(d *db.DB, cfg cliparse.Config) *CommentHandler {
	return &CommentHandler{db: d, cfg: cfg, now: time.Now}
}

// CreateComment handles POST /projects/{id}/comments
// Top-level comments are reserved for roles with the comment permission;
// anyone who can write may reply. Replies are one level deep.
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)

	project, ok := findProject(h.db, w, r.PathValue("id"))
	if !ok {
		return
	}

	var req models.CommentRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "content is required")
		return
	}

	if req.ParentID == "" {
		if !auth.Can(user.Role, auth.PermComment) {
			middleware.ErrorResponse(w, http.StatusForbidden, "Only executives may start a comment thread")
			return
		}
	} else {
		parent, err := loadComment(h.db, req.ParentID)
		if err == sql.ErrNoRows {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Parent comment not found")
			return
		}
		if err != nil {
			slog.Error("failed to query comment", "comment_id", req.ParentID, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if parent.ProjectID != project.ID {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Parent comment belongs to another project")
			return
		}
		if parent.ParentID != "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Cannot reply to a reply")
			return
		}
	}

	now := timestamp(h.now())
	c := models.Comment{
		ProjectID:  project.ID,
		ParentID:   req.ParentID,
		Author:     user.ID,
		AuthorRole: user.Role,
		Content:    content,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	keyMu.Lock()
	defer keyMu.Unlock()

	id, err := nextKey(h.db, db.SheetComments, ids.PrefixComment)
	if err != nil {
		slog.Error("failed to generate comment ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create comment")
		return
	}
	c.ID = id

	_, err = h.db.Exec(`
		INSERT INTO comments (`+commentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.ProjectID, c.ParentID, c.Author, c.AuthorRole, c.Content, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		slog.Error("failed to insert comment", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create comment")
		return
	}

	slog.Info("comment created", "comment_id", c.ID, "project_id", c.ProjectID, "reply", c.ParentID != "")
	middleware.JSONResponse(w, http.StatusCreated, c)
}

// ListComments handles GET /projects/{id}/comments
// Threads come newest first; replies inside a thread oldest first.
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	project, ok := findProject(h.db, w, r.PathValue("id"))
	if !ok {
		return
	}

	comments, err := loadComments(h.db, project.ID)
	if err != nil {
		slog.Error("failed to load comments", "project_id", project.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, buildThreads(comments))
}

// buildThreads groups replies under their parents. Input is oldest first.
func buildThreads(comments []models.Comment) []models.CommentThread {
	threads := []models.CommentThread{}
	index := map[string]int{}
	for _, c := range comments {
		if c.ParentID == "" {
			index[c.ID] = len(threads)
			threads = append(threads, models.CommentThread{Comment: c, Replies: []models.Comment{}})
		}
	}
	for _, c := range comments {
		if c.ParentID == "" {
			continue
		}
		if i, ok := index[c.ParentID]; ok {
			threads[i].Replies = append(threads[i].Replies, c)
		}
	}

	sort.SliceStable(threads, func(i, j int) bool {
		if threads[i].CreatedAt != threads[j].CreatedAt {
			return threads[i].CreatedAt > threads[j].CreatedAt
		}
		return ids.Less(threads[j].ID, threads[i].ID)
	})
	return threads
}

// UpdateComment handles PUT /comments/{id}
func (h *CommentHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)

	c, ok := h.findComment(w, r.PathValue("id"))
	if !ok {
		return
	}
	if !auth.CanModify(user.Role, user.ID, c.Author) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Only the author or an admin may edit this comment")
		return
	}

	var req models.CommentRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "content is required")
		return
	}

	c.Content = content
	c.UpdatedAt = timestamp(h.now())
	_, err := h.db.Exec(`UPDATE comments SET content = ?, updated_at = ? WHERE id = ?`, c.Content, c.UpdatedAt, c.ID)
	if err != nil {
		slog.Error("failed to update comment", "comment_id", c.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update comment")
		return
	}

	slog.Info("comment updated", "comment_id", c.ID)
	middleware.JSONResponse(w, http.StatusOK, c)
}

// DeleteComment handles DELETE /comments/{id}
// Deleting a thread's first comment removes its replies too.
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)

	c, ok := h.findComment(w, r.PathValue("id"))
	if !ok {
		return
	}
	if !auth.CanModify(user.Role, user.ID, c.Author) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Only the author or an admin may delete this comment")
		return
	}

	_, err := h.db.Exec(`DELETE FROM comments WHERE id = ? OR parent_id = ?`, c.ID, c.ID)
	if err != nil {
		slog.Error("failed to delete comment", "comment_id", c.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete comment")
		return
	}

	slog.Info("comment deleted", "comment_id", c.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *CommentHandler) findComment(w http.ResponseWriter, id string) (models.Comment, bool) {
	c, err := loadComment(h.db, id)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Comment not found")
		return models.Comment{}, false
	}
	if err != nil {
		slog.Error("failed to query comment", "comment_id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Comment{}, false
	}
	return c, true
}
