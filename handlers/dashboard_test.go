// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/rnd-tracker/models"
	"github.com/danielhkuo/rnd-tracker/testutil"
)

// seedDashboard loads three projects with schedules, worklogs, a comment and
// a meeting around testNow.
func seedDashboard(t *testing.T) (*DashboardHandler, models.User) {
	t.Helper()
	store := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	viewer, _ := testutil.CreateTestUser(t, store, cfg, models.RoleViewer)

	testutil.CreateTestProject(t, store, "Radar", "ACME", "검토")
	testutil.CreateTestProject(t, store, "Lidar", "", "설계")
	testutil.CreateTestProject(t, store, "Sonar", "ACME", "설계")

	stmts := []string{
		`UPDATE projects SET status = 'on_hold' WHERE id = 'PRJ-003'`,
		`INSERT INTO schedules (id, project_id, name, assignee, planned_start, planned_end, actual_start, actual_end, status, sort_order, note) VALUES
			('SCH-001', 'PRJ-001', 'Late', '', '2025-02-20', '2025-03-01', '', '', 'planned', '0', ''),
			('SCH-002', 'PRJ-002', 'Done', '', '2025-02-20', '2025-03-01', '2025-02-20', '2025-02-28', 'completed', '0', ''),
			('SCH-003', 'PRJ-002', 'Next', '', '2025-03-20', '2025-03-30', '', '', 'planned', '1', '')`,
		`INSERT INTO worklogs (id, project_id, date, author, stage, content, hours, created_at) VALUES
			('WL-20250309-001', 'PRJ-001', '2025-03-09', 'USR-001', '검토', 'Sunday fix', '', '2025-03-09T10:00:00Z'),
			('WL-20250310-001', 'PRJ-001', '2025-03-10', 'USR-001', '검토', 'Review', '', '2025-03-10T10:00:00Z'),
			('WL-20250311-001', 'PRJ-002', '2025-03-11', 'USR-001', '설계', 'Layout', '', '2025-03-12T07:00:00Z')`,
		`INSERT INTO comments (id, project_id, parent_id, author, author_role, content, created_at, updated_at) VALUES
			('CMT-001', 'PRJ-002', '', 'USR-009', 'executive', 'Ship it', '2025-03-12T08:00:00Z', '2025-03-12T08:00:00Z')`,
		`INSERT INTO meetings (id, title, date, attendees, project_id, agenda, content, decisions, action_items, author, created_at) VALUES
			('MTG-001', 'Weekly', '2025-03-11', 'Kim,Lee', '', '', '', '', '', 'USR-001', '2025-03-11T09:00:00Z')`,
	}
	for _, stmt := range stmts {
		_, err := store.Exec(stmt)
		require.NoError(t, err)
	}

	h := NewDashboardHandler(store, cfg)
	h.now = fixedNow
	return h, viewer
}

func TestDashboardSummary(t *testing.T) {
	h, viewer := seedDashboard(t)

	w := serve(h.Summary, request("GET", "/dashboard/summary", nil, viewer))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var s models.DashboardSummary
	testutil.AssertJSON(t, w, &s)

	assert.Equal(t, 3, s.TotalProjects)
	assert.Equal(t, []models.Count{
		{Key: "검토", Count: 1}, {Key: "설계", Count: 2}, {Key: "개발", Count: 0}, {Key: "검증", Count: 0}, {Key: "양산", Count: 0},
	}, s.ProjectsByStage)
	assert.Equal(t, []models.Count{
		{Key: models.ProjectActive, Count: 2}, {Key: models.ProjectOnHold, Count: 1},
		{Key: models.ProjectCompleted, Count: 0}, {Key: models.ProjectDropped, Count: 0},
	}, s.ProjectsByStatus)
	assert.Equal(t, []models.Count{{Key: "ACME", Count: 2}, {Key: Unassigned, Count: 1}}, s.ProjectsByCustomer)
	assert.Equal(t, []models.Count{
		{Key: models.SchedulePlanned, Count: 1}, {Key: models.ScheduleInProgress, Count: 0},
		{Key: models.ScheduleCompleted, Count: 1}, {Key: models.ScheduleDelayed, Count: 1},
	}, s.SchedulesByStatus)
	assert.Equal(t, 1, s.DelayedSchedules)
	assert.Equal(t, 2, s.WorklogsThisWeek)
	assert.Equal(t, "2025-03-10", s.WeekStart)
	assert.Equal(t, "2025-03-16", s.WeekEnd)
}

func TestDashboardSummary_Empty(t *testing.T) {
	store := testutil.SetupTestDB(t)
	h := NewDashboardHandler(store, testutil.GetTestConfig())
	h.now = fixedNow

	w := serve(h.Summary, request("GET", "/dashboard/summary", nil, models.User{Role: models.RoleViewer}))
	require.Equal(t, http.StatusOK, w.Code)

	var s models.DashboardSummary
	testutil.AssertJSON(t, w, &s)
	assert.Zero(t, s.TotalProjects)
	assert.Len(t, s.ProjectsByStage, len(models.DefaultStages))
	assert.Empty(t, s.ProjectsByCustomer)
}

func TestDashboardDrilldown(t *testing.T) {
	h, viewer := seedDashboard(t)

	tests := []struct {
		metric string
		value  string
		ids    []string
	}{
		{"stage", "설계", []string{"PRJ-002", "PRJ-003"}},
		{"status", models.ProjectOnHold, []string{"PRJ-003"}},
		{"customer", Unassigned, []string{"PRJ-002"}},
		{"customer", "ACME", []string{"PRJ-001", "PRJ-003"}},
		{"schedule_status", models.ScheduleDelayed, []string{"PRJ-001"}},
		{"schedule_status", models.ScheduleInProgress, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.metric+"="+tt.value, func(t *testing.T) {
			q := url.Values{"metric": {tt.metric}, "value": {tt.value}}
			w := serve(h.Drilldown, request("GET", "/dashboard/drilldown?"+q.Encode(), nil, viewer))
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var projects []models.Project
			testutil.AssertJSON(t, w, &projects)
			got := []string{}
			for _, p := range projects {
				got = append(got, p.ID)
			}
			assert.Equal(t, tt.ids, got)
		})
	}

	w := serve(h.Drilldown, request("GET", "/dashboard/drilldown?metric=owner&value=x", nil, viewer))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = serve(h.Drilldown, request("GET", "/dashboard/drilldown?metric=stage", nil, viewer))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardActivity(t *testing.T) {
	h, viewer := seedDashboard(t)

	w := serve(h.Activity, request("GET", "/dashboard/activity?limit=3", nil, viewer))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var items []models.Activity
	testutil.AssertJSON(t, w, &items)
	require.Len(t, items, 3)

	assert.Equal(t, "comment", items[0].Kind)
	assert.Equal(t, "CMT-001", items[0].ID)
	assert.Equal(t, "1 hour ago", items[0].Age)

	assert.Equal(t, "worklog", items[1].Kind)
	assert.Equal(t, "WL-20250311-001", items[1].ID)
	assert.Equal(t, "Layout", items[1].Summary)
	assert.Equal(t, "2 hours ago", items[1].Age)

	assert.Equal(t, "meeting", items[2].Kind)
	assert.Equal(t, "Weekly", items[2].Summary)
	assert.Equal(t, "1 day ago", items[2].Age)

	w = serve(h.Activity, request("GET", "/dashboard/activity?limit=500", nil, viewer))
	require.Equal(t, http.StatusOK, w.Code)
	testutil.AssertJSON(t, w, &items)
	assert.Len(t, items, 5)

	w = serve(h.Activity, request("GET", "/dashboard/activity?limit=0", nil, viewer))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
