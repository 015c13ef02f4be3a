// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/danielhkuo/rnd-tracker/db"
	"github.com/danielhkuo/rnd-tracker/ids"
	"github.com/danielhkuo/rnd-tracker/models"
)

// keyMu serializes key generation with the insert that uses the key, so two
// creates on one sheet never pick the same sequence number.
var keyMu sync.Mutex

type rowScanner interface {
	Scan(dest ...any) error
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func boolCell(b bool) string {
	return strconv.FormatBool(b)
}

func intCell(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// nextKey returns the next PREFIX-NNN key of a sheet. Callers hold keyMu.
func nextKey(d *db.DB, sheet, prefix string) (string, error) {
	existing, err := d.ColumnValues(sheet, "id")
	if err != nil {
		return "", err
	}
	return ids.Next(prefix, existing), nil
}

// Projects

const projectColumns = `id, name, customer, item, manager, stages, current_stage,
	start_date, end_date, status, description, created_at, updated_at`

func scanProject(s rowScanner) (models.Project, error) {
	var p models.Project
	var stages string
	err := s.Scan(&p.ID, &p.Name, &p.Customer, &p.Item, &p.Manager, &stages, &p.CurrentStage,
		&p.StartDate, &p.EndDate, &p.Status, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	p.Stages = db.SplitCell(stages)
	return p, err
}

func loadProject(d *db.DB, id string) (models.Project, error) {
	return scanProject(d.QueryRow(`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id))
}

func loadProjects(d *db.DB) ([]models.Project, error) {
	rows, err := d.Query(`SELECT ` + projectColumns + ` FROM projects`)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(projects, func(i, j int) bool {
		return ids.Less(projects[i].ID, projects[j].ID)
	})
	return projects, nil
}

// Worklogs

const worklogColumns = `id, project_id, date, author, stage, content, hours, created_at`

func scanWorklog(s rowScanner) (models.Worklog, error) {
	var wl models.Worklog
	err := s.Scan(&wl.ID, &wl.ProjectID, &wl.Date, &wl.Author, &wl.Stage, &wl.Content, &wl.Hours, &wl.CreatedAt)
	return wl, err
}

func loadWorklog(d *db.DB, id string) (models.Worklog, error) {
	return scanWorklog(d.QueryRow(`SELECT `+worklogColumns+` FROM worklogs WHERE id = ?`, id))
}

// loadWorklogs returns worklogs newest first, optionally for one project.
func loadWorklogs(d *db.DB, projectID string) ([]models.Worklog, error) {
	query := `SELECT ` + worklogColumns + ` FROM worklogs`
	var args []any
	if projectID != "" {
		query += ` WHERE project_id = ?`
		args = append(args, projectID)
	}
	query += ` ORDER BY date DESC`

	rows, err := d.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query worklogs: %w", err)
	}
	defer rows.Close()

	worklogs := []models.Worklog{}
	for rows.Next() {
		wl, err := scanWorklog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan worklog: %w", err)
		}
		worklogs = append(worklogs, wl)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(worklogs, func(i, j int) bool {
		if worklogs[i].Date != worklogs[j].Date {
			return worklogs[i].Date > worklogs[j].Date
		}
		return ids.Less(worklogs[j].ID, worklogs[i].ID)
	})
	return worklogs, nil
}

// Schedules

const scheduleColumns = `id, project_id, name, assignee, planned_start, planned_end,
	actual_start, actual_end, status, sort_order, note`

func scanSchedule(s rowScanner) (models.Schedule, error) {
	var sc models.Schedule
	var order string
	err := s.Scan(&sc.ID, &sc.ProjectID, &sc.Name, &sc.Assignee, &sc.PlannedStart, &sc.PlannedEnd,
		&sc.ActualStart, &sc.ActualEnd, &sc.Status, &order, &sc.Note)
	sc.SortOrder = intCell(order)
	return sc, err
}

func loadSchedule(d *db.DB, id string) (models.Schedule, error) {
	return scanSchedule(d.QueryRow(`SELECT `+scheduleColumns+` FROM schedules WHERE id = ?`, id))
}

// loadSchedules returns schedules ordered by sort order then id, optionally
// for one project.
func loadSchedules(d *db.DB, projectID string) ([]models.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules`
	var args []any
	if projectID != "" {
		query += ` WHERE project_id = ?`
		args = append(args, projectID)
	}

	rows, err := d.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query schedules: %w", err)
	}
	defer rows.Close()

	schedules := []models.Schedule{}
	for rows.Next() {
		sc, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		schedules = append(schedules, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// sort_order is a string cell; order numerically
	sort.SliceStable(schedules, func(i, j int) bool {
		if schedules[i].SortOrder != schedules[j].SortOrder {
			return schedules[i].SortOrder < schedules[j].SortOrder
		}
		return ids.Less(schedules[i].ID, schedules[j].ID)
	})
	return schedules, nil
}

// Comments

const commentColumns = `id, project_id, parent_id, author, author_role, content, created_at, updated_at`

func scanComment(s rowScanner) (models.Comment, error) {
	var c models.Comment
	err := s.Scan(&c.ID, &c.ProjectID, &c.ParentID, &c.Author, &c.AuthorRole, &c.Content, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func loadComment(d *db.DB, id string) (models.Comment, error) {
	return scanComment(d.QueryRow(`SELECT `+commentColumns+` FROM comments WHERE id = ?`, id))
}

func loadComments(d *db.DB, projectID string) ([]models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments`
	var args []any
	if projectID != "" {
		query += ` WHERE project_id = ?`
		args = append(args, projectID)
	}
	query += ` ORDER BY created_at`

	rows, err := d.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(comments, func(i, j int) bool {
		if comments[i].CreatedAt != comments[j].CreatedAt {
			return comments[i].CreatedAt < comments[j].CreatedAt
		}
		return ids.Less(comments[i].ID, comments[j].ID)
	})
	return comments, nil
}

// Meetings

const meetingColumns = `id, title, date, attendees, project_id, agenda, content,
	decisions, action_items, author, created_at`

func scanMeeting(s rowScanner) (models.Meeting, error) {
	var m models.Meeting
	var attendees string
	err := s.Scan(&m.ID, &m.Title, &m.Date, &attendees, &m.ProjectID, &m.Agenda, &m.Content,
		&m.Decisions, &m.ActionItems, &m.Author, &m.CreatedAt)
	m.Attendees = db.SplitCell(attendees)
	return m, err
}

func loadMeeting(d *db.DB, id string) (models.Meeting, error) {
	return scanMeeting(d.QueryRow(`SELECT `+meetingColumns+` FROM meetings WHERE id = ?`, id))
}

func loadMeetings(d *db.DB) ([]models.Meeting, error) {
	rows, err := d.Query(`SELECT ` + meetingColumns + ` FROM meetings ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("query meetings: %w", err)
	}
	defer rows.Close()

	meetings := []models.Meeting{}
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, fmt.Errorf("scan meeting: %w", err)
		}
		meetings = append(meetings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(meetings, func(i, j int) bool {
		if meetings[i].Date != meetings[j].Date {
			return meetings[i].Date > meetings[j].Date
		}
		return ids.Less(meetings[j].ID, meetings[i].ID)
	})
	return meetings, nil
}

// Reports

const reportColumns = `id, project_id, week_start, author, this_week, next_week, issues, created_at`

func scanReport(s rowScanner) (models.Report, error) {
	var rp models.Report
	err := s.Scan(&rp.ID, &rp.ProjectID, &rp.WeekStart, &rp.Author, &rp.ThisWeek, &rp.NextWeek, &rp.Issues, &rp.CreatedAt)
	return rp, err
}

func loadReport(d *db.DB, id string) (models.Report, error) {
	return scanReport(d.QueryRow(`SELECT `+reportColumns+` FROM reports WHERE id = ?`, id))
}

func loadReports(d *db.DB) ([]models.Report, error) {
	rows, err := d.Query(`SELECT ` + reportColumns + ` FROM reports ORDER BY week_start DESC`)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	reports := []models.Report{}
	for rows.Next() {
		rp, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, rp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(reports, func(i, j int) bool {
		if reports[i].WeekStart != reports[j].WeekStart {
			return reports[i].WeekStart > reports[j].WeekStart
		}
		return ids.Less(reports[j].ID, reports[i].ID)
	})
	return reports, nil
}

// Users

const userColumns = `id, name, email, role, department, active, created_at`

func scanUser(s rowScanner) (models.User, error) {
	var u models.User
	var active string
	err := s.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Department, &active, &u.CreatedAt)
	u.Active = active == "true"
	return u, err
}

func loadUser(d *db.DB, id string) (models.User, error) {
	return scanUser(d.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func loadUsers(d *db.DB) ([]models.User, error) {
	rows, err := d.Query(`SELECT ` + userColumns + ` FROM users`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(users, func(i, j int) bool {
		return ids.Less(users[i].ID, users[j].ID)
	})
	return users, nil
}

// Master data

// loadMaster returns the items of one category ordered by sort order then value.
func loadMaster(d *db.DB, category string) ([]models.MasterItem, error) {
	rows, err := d.Query(`SELECT category, value, sort_order FROM master_data WHERE category = ?`, category)
	if err != nil {
		return nil, fmt.Errorf("query master data: %w", err)
	}
	defer rows.Close()

	items := []models.MasterItem{}
	for rows.Next() {
		var it models.MasterItem
		var order string
		if err := rows.Scan(&it.Category, &it.Value, &order); err != nil {
			return nil, fmt.Errorf("scan master data: %w", err)
		}
		it.SortOrder = intCell(order)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].SortOrder != items[j].SortOrder {
			return items[i].SortOrder < items[j].SortOrder
		}
		return items[i].Value < items[j].Value
	})
	return items, nil
}

// stageList returns the stage master list, falling back to the defaults.
func stageList(d *db.DB) ([]string, error) {
	items, err := loadMaster(d, models.CategoryStage)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return append([]string(nil), models.DefaultStages...), nil
	}
	stages := make([]string, len(items))
	for i, it := range items {
		stages[i] = it.Value
	}
	return stages, nil
}
