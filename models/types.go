// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// User role constants
const (
	RoleAdmin     = "admin"
	RoleExecutive = "executive"
	RoleMember    = "member"
	RoleViewer    = "viewer"
)

// Project status constants
const (
	ProjectActive    = "active"
	ProjectOnHold    = "on_hold"
	ProjectCompleted = "completed"
	ProjectDropped   = "dropped"
)

// Schedule status constants
const (
	SchedulePlanned    = "planned"
	ScheduleInProgress = "in_progress"
	ScheduleCompleted  = "completed"
	ScheduleDelayed    = "delayed"
)

// Master data categories
const (
	CategoryCustomer   = "customer"
	CategoryItem       = "item"
	CategoryStage      = "stage"
	CategoryDepartment = "department"
)

// DefaultStages is used when neither the request nor the stage master list
// provides one.
var DefaultStages = []string{"검토", "설계", "개발", "검증", "양산"}

// Request types

type ProjectRequest struct {
	Name         string   `json:"name"`
	Customer     string   `json:"customer"`
	Item         string   `json:"item"`
	Manager      string   `json:"manager"`
	Stages       []string `json:"stages"`
	CurrentStage string   `json:"current_stage"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	Status       string   `json:"status"`
	Description  string   `json:"description"`
}

type StageChangeRequest struct {
	Stage   string `json:"stage"`
	Confirm bool   `json:"confirm"`
}

type WorklogRequest struct {
	ProjectID    string `json:"project_id"`
	Date         string `json:"date"`
	Stage        string `json:"stage"`
	Content      string `json:"content"`
	Hours        string `json:"hours"`
	AdvanceStage bool   `json:"advance_stage"`
}

type ScheduleRequest struct {
	Name         string `json:"name"`
	Assignee     string `json:"assignee"`
	PlannedStart string `json:"planned_start"`
	PlannedEnd   string `json:"planned_end"`
	ActualStart  string `json:"actual_start"`
	ActualEnd    string `json:"actual_end"`
	Status       string `json:"status"`
	SortOrder    int    `json:"sort_order"`
	Note         string `json:"note"`
}

type CommentRequest struct {
	ParentID string `json:"parent_id"`
	Content  string `json:"content"`
}

type MeetingRequest struct {
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Attendees   []string `json:"attendees"`
	ProjectID   string   `json:"project_id"`
	Agenda      string   `json:"agenda"`
	Content     string   `json:"content"`
	Decisions   string   `json:"decisions"`
	ActionItems string   `json:"action_items"`
}

type ReportRequest struct {
	ProjectID string `json:"project_id"`
	WeekStart string `json:"week_start"`
	ThisWeek  string `json:"this_week"`
	NextWeek  string `json:"next_week"`
	Issues    string `json:"issues"`
}

type MasterItemRequest struct {
	Value     string `json:"value"`
	SortOrder int    `json:"sort_order"`
}

type UserRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department"`
	Active     *bool  `json:"active,omitempty"`
}

// Response types

type StageChangeResponse struct {
	Project  Project `json:"project"`
	Previous string  `json:"previous_stage"`
	Changed  bool    `json:"changed"`
}

// ConfirmationRequired is returned with 409 when a stage move needs an
// explicit confirm flag.
type ConfirmationRequired struct {
	Error                string `json:"error"`
	Message              string `json:"message"`
	RequiresConfirmation bool   `json:"requires_confirmation"`
	From                 string `json:"from"`
	To                   string `json:"to"`
}

type CreateWorklogResponse struct {
	Worklog       Worklog `json:"worklog"`
	StageAdvanced bool    `json:"stage_advanced"`
}

type UserKeyResponse struct {
	UserID string `json:"user_id"`
	Key    string `json:"key"`
}

// Domain types

type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department"`
	Active     bool   `json:"active"`
	CreatedAt  string `json:"created_at"`
}

type Project struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Customer     string   `json:"customer"`
	Item         string   `json:"item"`
	Manager      string   `json:"manager"`
	Stages       []string `json:"stages"`
	CurrentStage string   `json:"current_stage"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	Status       string   `json:"status"`
	Description  string   `json:"description"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

type ProjectDetail struct {
	Project        Project    `json:"project"`
	Schedules      []Schedule `json:"schedules"`
	RecentWorklogs []Worklog  `json:"recent_worklogs"`
	CommentCount   int        `json:"comment_count"`
}

type Worklog struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Date      string `json:"date"`
	Author    string `json:"author"`
	Stage     string `json:"stage"`
	Content   string `json:"content"`
	Hours     string `json:"hours"`
	CreatedAt string `json:"created_at"`
}

type Schedule struct {
	ID           string `json:"id"`
	ProjectID    string `json:"project_id"`
	Name         string `json:"name"`
	Assignee     string `json:"assignee"`
	PlannedStart string `json:"planned_start"`
	PlannedEnd   string `json:"planned_end"`
	ActualStart  string `json:"actual_start"`
	ActualEnd    string `json:"actual_end"`
	Status       string `json:"status"`
	SortOrder    int    `json:"sort_order"`
	Note         string `json:"note"`
}

type GanttTask struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Progress int    `json:"progress"`
	Status   string `json:"status"`
}

type Comment struct {
	ID         string `json:"id"`
	ProjectID  string `json:"project_id"`
	ParentID   string `json:"parent_id,omitempty"`
	Author     string `json:"author"`
	AuthorRole string `json:"author_role"`
	Content    string `json:"content"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

type CommentThread struct {
	Comment
	Replies []Comment `json:"replies"`
}

type Meeting struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Attendees   []string `json:"attendees"`
	ProjectID   string   `json:"project_id,omitempty"`
	Agenda      string   `json:"agenda"`
	Content     string   `json:"content"`
	Decisions   string   `json:"decisions"`
	ActionItems string   `json:"action_items"`
	Author      string   `json:"author"`
	CreatedAt   string   `json:"created_at"`
}

type Report struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	WeekStart string `json:"week_start"`
	Author    string `json:"author"`
	ThisWeek  string `json:"this_week"`
	NextWeek  string `json:"next_week"`
	Issues    string `json:"issues"`
	CreatedAt string `json:"created_at"`
}

type ReportDraft struct {
	ProjectID    string `json:"project_id"`
	WeekStart    string `json:"week_start"`
	WeekEnd      string `json:"week_end"`
	ThisWeek     string `json:"this_week"`
	WorklogCount int    `json:"worklog_count"`
}

type MasterItem struct {
	Category  string `json:"category"`
	Value     string `json:"value"`
	SortOrder int    `json:"sort_order"`
}

// Dashboard types

type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

type DashboardSummary struct {
	TotalProjects      int     `json:"total_projects"`
	ProjectsByStage    []Count `json:"projects_by_stage"`
	ProjectsByStatus   []Count `json:"projects_by_status"`
	ProjectsByCustomer []Count `json:"projects_by_customer"`
	SchedulesByStatus  []Count `json:"schedules_by_status"`
	DelayedSchedules   int     `json:"delayed_schedules"`
	WorklogsThisWeek   int     `json:"worklogs_this_week"`
	WeekStart          string  `json:"week_start"`
	WeekEnd            string  `json:"week_end"`
}

type Activity struct {
	Kind      string `json:"kind"`
	ID        string `json:"id"`
	ProjectID string `json:"project_id,omitempty"`
	Actor     string `json:"actor"`
	Summary   string `json:"summary"`
	At        string `json:"at"`
	Age       string `json:"age"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
