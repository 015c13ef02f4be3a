// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/rnd-tracker/models"
	"github.com/danielhkuo/rnd-tracker/testutil"
)

func newReportHandler(t *testing.T) (*ReportHandler, models.User, string) {
	t.Helper()
	store := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	member, _ := testutil.CreateTestUser(t, store, cfg, models.RoleMember)
	projectID := testutil.CreateTestProject(t, store, "Radar", "ACME", "")

	h := NewReportHandler(store, cfg)
	h.now = fixedNow
	return h, member, projectID
}

func TestCreateReport(t *testing.T) {
	h, member, projectID := newReportHandler(t)

	w := serve(h.CreateReport, request("POST", "/reports", models.ReportRequest{
		ProjectID: projectID,
		ThisWeek:  "Board bring-up",
		NextWeek:  "Firmware",
	}, member))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var rp models.Report
	testutil.AssertJSON(t, w, &rp)
	assert.Equal(t, "RPT-001", rp.ID)
	assert.Equal(t, "2025-03-10", rp.WeekStart)
	assert.Equal(t, member.ID, rp.Author)

	t.Run("same week from another day is a duplicate", func(t *testing.T) {
		w := serve(h.CreateReport, request("POST", "/reports", models.ReportRequest{
			ProjectID: projectID, WeekStart: "2025-03-14",
		}, member))
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("another author may report the same week", func(t *testing.T) {
		other, _ := testutil.CreateTestUser(t, h.db, h.cfg, models.RoleMember)
		w := serve(h.CreateReport, request("POST", "/reports", models.ReportRequest{ProjectID: projectID}, other))
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("previous week snaps to its monday", func(t *testing.T) {
		w := serve(h.CreateReport, request("POST", "/reports", models.ReportRequest{
			ProjectID: projectID, WeekStart: "2025-03-09",
		}, member))
		require.Equal(t, http.StatusCreated, w.Code)
		var prev models.Report
		testutil.AssertJSON(t, w, &prev)
		assert.Equal(t, "2025-03-03", prev.WeekStart)
	})

	t.Run("invalid input", func(t *testing.T) {
		for _, req := range []models.ReportRequest{
			{},
			{ProjectID: "PRJ-404"},
			{ProjectID: projectID, WeekStart: "next week"},
		} {
			w := serve(h.CreateReport, request("POST", "/reports", req, member))
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		}
	})
}

func TestListReports_WeekFilter(t *testing.T) {
	h, member, projectID := newReportHandler(t)

	for _, week := range []string{"2025-03-03", "2025-03-10"} {
		w := serve(h.CreateReport, request("POST", "/reports", models.ReportRequest{ProjectID: projectID, WeekStart: week}, member))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := serve(h.ListReports, request("GET", "/reports?week_start=2025-03-05", nil, member))
	require.Equal(t, http.StatusOK, w.Code)
	var reports []models.Report
	testutil.AssertJSON(t, w, &reports)
	require.Len(t, reports, 1)
	assert.Equal(t, "2025-03-03", reports[0].WeekStart)

	w = serve(h.ListReports, request("GET", "/reports?project_id="+projectID, nil, member))
	require.Equal(t, http.StatusOK, w.Code)
	testutil.AssertJSON(t, w, &reports)
	require.Len(t, reports, 2)
	assert.Equal(t, "2025-03-10", reports[0].WeekStart)
}

func TestUpdateReport(t *testing.T) {
	h, member, projectID := newReportHandler(t)
	other, _ := testutil.CreateTestUser(t, h.db, h.cfg, models.RoleMember)

	var first, second models.Report
	for i, week := range []string{"2025-03-03", "2025-03-10"} {
		w := serve(h.CreateReport, request("POST", "/reports", models.ReportRequest{ProjectID: projectID, WeekStart: week}, member))
		require.Equal(t, http.StatusCreated, w.Code)
		testutil.AssertJSON(t, w, []*models.Report{&first, &second}[i])
	}

	w := serve(h.UpdateReport, request("PUT", "/reports/"+first.ID,
		models.ReportRequest{ThisWeek: "x"}, other, "id", first.ID))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(h.UpdateReport, request("PUT", "/reports/"+first.ID,
		models.ReportRequest{WeekStart: "2025-03-12"}, member, "id", first.ID))
	assert.Equal(t, http.StatusConflict, w.Code, "moving onto an occupied week")

	w = serve(h.UpdateReport, request("PUT", "/reports/"+first.ID,
		models.ReportRequest{ThisWeek: "Done", Issues: "Supplier delay"}, member, "id", first.ID))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	stored, err := loadReport(h.db, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Done", stored.ThisWeek)
	assert.Equal(t, "Supplier delay", stored.Issues)
	assert.Equal(t, "2025-03-03", stored.WeekStart)

	w = serve(h.DeleteReport, request("DELETE", "/reports/"+second.ID, nil, member, "id", second.ID))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestDraftReport(t *testing.T) {
	h, member, projectID := newReportHandler(t)

	rows := []struct{ id, date, stage, content string }{
		{"WL-20250311-001", "2025-03-11", "설계", "Layout"},
		{"WL-20250310-001", "2025-03-10", "검토", "Kickoff"},
		{"WL-20250309-001", "2025-03-09", "검토", "Last week"},
		{"WL-20250317-001", "2025-03-17", "설계", "Next week"},
	}
	for _, r := range rows {
		_, err := h.db.Exec(`INSERT INTO worklogs (id, project_id, date, author, stage, content, hours, created_at)
			VALUES (?, ?, ?, ?, ?, ?, '', '')`, r.id, projectID, r.date, member.ID, r.stage, r.content)
		require.NoError(t, err)
	}

	w := serve(h.DraftReport, request("GET", "/reports/draft?project_id="+projectID, nil, member))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var draft models.ReportDraft
	testutil.AssertJSON(t, w, &draft)
	assert.Equal(t, "2025-03-10", draft.WeekStart)
	assert.Equal(t, "2025-03-16", draft.WeekEnd)
	assert.Equal(t, 2, draft.WorklogCount)
	assert.Equal(t, "- 2025-03-10 [검토] Kickoff\n- 2025-03-11 [설계] Layout", draft.ThisWeek)

	w = serve(h.DraftReport, request("GET", "/reports/draft", nil, member))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
