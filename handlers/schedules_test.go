// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/rnd-tracker/models"
	"github.com/danielhkuo/rnd-tracker/testutil"
)

func newScheduleHandler(t *testing.T) (*ScheduleHandler, models.User, string) {
	t.Helper()
	store := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	member, _ := testutil.CreateTestUser(t, store, cfg, models.RoleMember)
	projectID := testutil.CreateTestProject(t, store, "Radar", "ACME", "")

	h := NewScheduleHandler(store, cfg)
	h.now = fixedNow
	return h, member, projectID
}

func createSchedule(t *testing.T, h *ScheduleHandler, user models.User, projectID string, req models.ScheduleRequest) models.Schedule {
	t.Helper()
	w := serve(h.CreateSchedule, request("POST", "/projects/"+projectID+"/schedules", req, user, "id", projectID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var s models.Schedule
	testutil.AssertJSON(t, w, &s)
	return s
}

func TestCreateSchedule_Status(t *testing.T) {
	h, member, projectID := newScheduleHandler(t)

	tests := []struct {
		name        string
		req         models.ScheduleRequest
		status      string
		actualStart string
		actualEnd   string
	}{
		{"future work is planned", models.ScheduleRequest{Name: "Drawings", PlannedStart: "2025-03-20", PlannedEnd: "2025-03-25"},
			models.SchedulePlanned, "", ""},
		{"started work is in progress", models.ScheduleRequest{Name: "Build", PlannedEnd: "2025-03-30", ActualStart: "2025-03-11"},
			models.ScheduleInProgress, "2025-03-11", ""},
		{"overdue work is delayed", models.ScheduleRequest{Name: "Late", PlannedStart: "2025-03-01", PlannedEnd: "2025-03-05"},
			models.ScheduleDelayed, "", ""},
		{"requested in_progress fills actual start", models.ScheduleRequest{Name: "Go", Status: models.ScheduleInProgress},
			models.ScheduleInProgress, "2025-03-12", ""},
		{"requested completed fills actual dates", models.ScheduleRequest{Name: "Done", Status: models.ScheduleCompleted},
			models.ScheduleCompleted, "2025-03-12", "2025-03-12"},
		{"completed wins over overdue", models.ScheduleRequest{Name: "Closed", PlannedEnd: "2025-03-01", ActualStart: "2025-02-20", ActualEnd: "2025-03-03"},
			models.ScheduleCompleted, "2025-02-20", "2025-03-03"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := createSchedule(t, h, member, projectID, tt.req)
			assert.Equal(t, tt.status, s.Status)
			assert.Equal(t, tt.actualStart, s.ActualStart)
			assert.Equal(t, tt.actualEnd, s.ActualEnd)
			assert.Equal(t, projectID, s.ProjectID)
		})
	}
}

func TestCreateSchedule_Validation(t *testing.T) {
	h, member, projectID := newScheduleHandler(t)

	tests := []struct {
		name string
		req  models.ScheduleRequest
	}{
		{"missing name", models.ScheduleRequest{}},
		{"unknown status", models.ScheduleRequest{Name: "x", Status: "blocked"}},
		{"bad date", models.ScheduleRequest{Name: "x", PlannedEnd: "soon"}},
		{"planned range reversed", models.ScheduleRequest{Name: "x", PlannedStart: "2025-04-02", PlannedEnd: "2025-04-01"}},
		{"actual range reversed", models.ScheduleRequest{Name: "x", ActualStart: "2025-03-05", ActualEnd: "2025-03-01"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(h.CreateSchedule, request("POST", "/projects/"+projectID+"/schedules", tt.req, member, "id", projectID))
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}

	w := serve(h.CreateSchedule, request("POST", "/projects/PRJ-404/schedules",
		models.ScheduleRequest{Name: "x"}, member, "id", "PRJ-404"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListSchedules_OrderAndRecomputedStatus(t *testing.T) {
	h, member, projectID := newScheduleHandler(t)

	createSchedule(t, h, member, projectID, models.ScheduleRequest{Name: "Third", SortOrder: 10})
	createSchedule(t, h, member, projectID, models.ScheduleRequest{Name: "First", SortOrder: 1})
	createSchedule(t, h, member, projectID, models.ScheduleRequest{Name: "Second", SortOrder: 2, PlannedEnd: "2025-03-14"})

	// three days later the Second item is overdue
	h.now = func() time.Time { return testNow.AddDate(0, 0, 3) }

	w := serve(h.ListSchedules, request("GET", "/projects/"+projectID+"/schedules", nil, member, "id", projectID))
	require.Equal(t, http.StatusOK, w.Code)

	var schedules []models.Schedule
	testutil.AssertJSON(t, w, &schedules)
	require.Len(t, schedules, 3)
	assert.Equal(t, "First", schedules[0].Name)
	assert.Equal(t, "Second", schedules[1].Name)
	assert.Equal(t, "Third", schedules[2].Name)
	assert.Equal(t, models.ScheduleDelayed, schedules[1].Status)
}

func TestUpdateAndDeleteSchedule(t *testing.T) {
	h, member, projectID := newScheduleHandler(t)
	s := createSchedule(t, h, member, projectID, models.ScheduleRequest{Name: "Build", PlannedEnd: "2025-03-30"})
	assert.Equal(t, "SCH-001", s.ID)

	w := serve(h.UpdateSchedule, request("PUT", "/schedules/"+s.ID,
		models.ScheduleRequest{Name: "Build", PlannedEnd: "2025-03-30", Status: models.ScheduleCompleted}, member, "id", s.ID))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated models.Schedule
	testutil.AssertJSON(t, w, &updated)
	assert.Equal(t, models.ScheduleCompleted, updated.Status)
	assert.Equal(t, "2025-03-12", updated.ActualEnd)
	assert.Equal(t, projectID, updated.ProjectID)

	stored, err := loadSchedule(h.db, s.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ScheduleCompleted, stored.Status)

	w = serve(h.DeleteSchedule, request("DELETE", "/schedules/"+s.ID, nil, member, "id", s.ID))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = serve(h.UpdateSchedule, request("PUT", "/schedules/"+s.ID, models.ScheduleRequest{Name: "x"}, member, "id", s.ID))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
