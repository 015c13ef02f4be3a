// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/rnd-tracker/cliparse"
	"github.com/danielhkuo/rnd-tracker/db"
	"github.com/danielhkuo/rnd-tracker/ids"
	"github.com/danielhkuo/rnd-tracker/middleware"
	"github.com/danielhkuo/rnd-tracker/models"
	"github.com/danielhkuo/rnd-tracker/workflow"
)

// Unassigned is the dashboard key for projects without a customer.
const Unassigned = "미지정"

const (
	defaultActivityLimit = 20
	maxActivityLimit     = 100
)

var projectStatuses = []string{models.ProjectActive, models.ProjectOnHold, models.ProjectCompleted, models.ProjectDropped}

var scheduleStatuses = []string{models.SchedulePlanned, models.ScheduleInProgress, models.ScheduleCompleted, models.ScheduleDelayed}

type DashboardHandler struct {
	db  *db.DB
	cfg cliparse.Config
	now func() time.Time
}

func NewDashboardHandler(d *db.DB, cfg cliparse.Config) *DashboardHandler {
	return &DashboardHandler{db: d, cfg: cfg, now: time.Now}
}

// countInOrder counts values, listing fixed keys first (zero counts kept)
// and any other keys after them alphabetically.
func countInOrder(values []string, fixed []string) []models.Count {
	counts := map[string]int{}
	for _, v := range values {
		counts[v]++
	}

	out := make([]models.Count, 0, len(counts)+len(fixed))
	seen := map[string]bool{}
	for _, k := range fixed {
		out = append(out, models.Count{Key: k, Count: counts[k]})
		seen[k] = true
	}

	var rest []string
	for k := range counts {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		out = append(out, models.Count{Key: k, Count: counts[k]})
	}
	return out
}

// countByFrequency counts values, most frequent first.
func countByFrequency(values []string) []models.Count {
	out := countInOrder(values, nil)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

func customerKey(p models.Project) string {
	if p.Customer == "" {
		return Unassigned
	}
	return p.Customer
}

// Summary handles GET /dashboard/summary
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	projects, err := loadProjects(h.db)
	if err != nil {
		slog.Error("failed to load projects", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	schedules, err := loadSchedules(h.db, "")
	if err != nil {
		slog.Error("failed to load schedules", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	worklogs, err := loadWorklogs(h.db, "")
	if err != nil {
		slog.Error("failed to load worklogs", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	stages, err := stageList(h.db)
	if err != nil {
		slog.Error("failed to load stage master", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	today := h.now()
	weekStart, weekEnd := workflow.WeekRange(today)

	var byStage, byStatus, byCustomer []string
	for _, p := range projects {
		byStage = append(byStage, p.CurrentStage)
		byStatus = append(byStatus, p.Status)
		byCustomer = append(byCustomer, customerKey(p))
	}

	var bySchedule []string
	delayed := 0
	for _, s := range schedules {
		status := workflow.ScheduleStatus(s, today)
		bySchedule = append(bySchedule, status)
		if status == models.ScheduleDelayed {
			delayed++
		}
	}

	thisWeek := 0
	for _, wl := range worklogs {
		if wl.Date >= weekStart && wl.Date <= weekEnd {
			thisWeek++
		}
	}

	middleware.JSONResponse(w, http.StatusOK, models.DashboardSummary{
		TotalProjects:      len(projects),
		ProjectsByStage:    countInOrder(byStage, stages),
		ProjectsByStatus:   countInOrder(byStatus, projectStatuses),
		ProjectsByCustomer: countByFrequency(byCustomer),
		SchedulesByStatus:  countInOrder(bySchedule, scheduleStatuses),
		DelayedSchedules:   delayed,
		WorklogsThisWeek:   thisWeek,
		WeekStart:          weekStart,
		WeekEnd:            weekEnd,
	})
}

// Drilldown handles GET /dashboard/drilldown?metric=&value=
// Returns the projects behind one cell of the summary.
func (h *DashboardHandler) Drilldown(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	metric, value := q.Get("metric"), q.Get("value")
	if value == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "value is required")
		return
	}

	var match func(models.Project) bool
	switch metric {
	case "stage":
		match = func(p models.Project) bool { return p.CurrentStage == value }
	case "status":
		match = func(p models.Project) bool { return p.Status == value }
	case "customer":
		match = func(p models.Project) bool { return customerKey(p) == value }
	case "schedule_status":
		schedules, err := loadSchedules(h.db, "")
		if err != nil {
			slog.Error("failed to load schedules", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		today := h.now()
		hit := map[string]bool{}
		for _, s := range schedules {
			if workflow.ScheduleStatus(s, today) == value {
				hit[s.ProjectID] = true
			}
		}
		match = func(p models.Project) bool { return hit[p.ID] }
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "metric must be one of: stage, status, customer, schedule_status")
		return
	}

	projects, err := loadProjects(h.db)
	if err != nil {
		slog.Error("failed to load projects", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	filtered := []models.Project{}
	for _, p := range projects {
		if match(p) {
			filtered = append(filtered, p)
		}
	}

	middleware.JSONResponse(w, http.StatusOK, filtered)
}

// Activity handles GET /dashboard/activity?limit=
// Merges recent worklogs, comments and meetings, newest first.
func (h *DashboardHandler) Activity(w http.ResponseWriter, r *http.Request) {
	limit := defaultActivityLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxActivityLimit)
	}

	worklogs, err := loadWorklogs(h.db, "")
	if err != nil {
		slog.Error("failed to load worklogs", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	comments, err := loadComments(h.db, "")
	if err != nil {
		slog.Error("failed to load comments", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	meetings, err := loadMeetings(h.db)
	if err != nil {
		slog.Error("failed to load meetings", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	items := make([]models.Activity, 0, len(worklogs)+len(comments)+len(meetings))
	for _, wl := range worklogs {
		items = append(items, models.Activity{Kind: "worklog", ID: wl.ID, ProjectID: wl.ProjectID, Actor: wl.Author, Summary: wl.Content, At: wl.CreatedAt})
	}
	for _, c := range comments {
		items = append(items, models.Activity{Kind: "comment", ID: c.ID, ProjectID: c.ProjectID, Actor: c.Author, Summary: c.Content, At: c.CreatedAt})
	}
	for _, m := range meetings {
		items = append(items, models.Activity{Kind: "meeting", ID: m.ID, ProjectID: m.ProjectID, Actor: m.Author, Summary: m.Title, At: m.CreatedAt})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].At != items[j].At {
			return items[i].At > items[j].At
		}
		return ids.Less(items[j].ID, items[i].ID)
	})
	if len(items) > limit {
		items = items[:limit]
	}

	now := h.now()
	for i := range items {
		if at, err := time.Parse(time.RFC3339, items[i].At); err == nil {
			items[i].Age = humanize.RelTime(at, now, "ago", "from now")
		}
	}

	middleware.JSONResponse(w, http.StatusOK, items)
}
