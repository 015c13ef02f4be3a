// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"fmt"
)

// Sheet names. Every column is a string cell.
const (
	SheetUsers      = "users"
	SheetProjects   = "projects"
	SheetWorklogs   = "worklogs"
	SheetSchedules  = "schedules"
	SheetComments   = "comments"
	SheetMeetings   = "meetings"
	SheetReports    = "reports"
	SheetMasterData = "master_data"
)

var sheets = []string{
	SheetUsers, SheetProjects, SheetWorklogs, SheetSchedules,
	SheetComments, SheetMeetings, SheetReports, SheetMasterData,
}

func isSheet(name string) bool {
	for _, s := range sheets {
		if s == name {
			return true
		}
	}
	return false
}

// CreateSchema creates all sheets needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(d *DB) error {
	for _, stmt := range schema {
		if _, err := d.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    role TEXT NOT NULL,
    department TEXT NOT NULL DEFAULT '',
    active TEXT NOT NULL DEFAULT 'true',
    created_at TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS projects (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    customer TEXT NOT NULL DEFAULT '',
    item TEXT NOT NULL DEFAULT '',
    manager TEXT NOT NULL DEFAULT '',
    stages TEXT NOT NULL,
    current_stage TEXT NOT NULL,
    start_date TEXT NOT NULL DEFAULT '',
    end_date TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS worklogs (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL,
    date TEXT NOT NULL,
    author TEXT NOT NULL,
    stage TEXT NOT NULL,
    content TEXT NOT NULL,
    hours TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_worklogs_project_id ON worklogs(project_id)`,
	`CREATE TABLE IF NOT EXISTS schedules (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL,
    name TEXT NOT NULL,
    assignee TEXT NOT NULL DEFAULT '',
    planned_start TEXT NOT NULL DEFAULT '',
    planned_end TEXT NOT NULL DEFAULT '',
    actual_start TEXT NOT NULL DEFAULT '',
    actual_end TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL,
    sort_order TEXT NOT NULL DEFAULT '0',
    note TEXT NOT NULL DEFAULT ''
)`,
	`CREATE INDEX IF NOT EXISTS idx_schedules_project_id ON schedules(project_id)`,
	`CREATE TABLE IF NOT EXISTS comments (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL,
    parent_id TEXT NOT NULL DEFAULT '',
    author TEXT NOT NULL,
    author_role TEXT NOT NULL,
    content TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_project_id ON comments(project_id)`,
	`CREATE TABLE IF NOT EXISTS meetings (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    date TEXT NOT NULL,
    attendees TEXT NOT NULL DEFAULT '',
    project_id TEXT NOT NULL DEFAULT '',
    agenda TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL DEFAULT '',
    decisions TEXT NOT NULL DEFAULT '',
    action_items TEXT NOT NULL DEFAULT '',
    author TEXT NOT NULL,
    created_at TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS reports (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL,
    week_start TEXT NOT NULL,
    author TEXT NOT NULL,
    this_week TEXT NOT NULL DEFAULT '',
    next_week TEXT NOT NULL DEFAULT '',
    issues TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    UNIQUE (project_id, week_start, author)
)`,
	`CREATE TABLE IF NOT EXISTS master_data (
    category TEXT NOT NULL,
    value TEXT NOT NULL,
    sort_order TEXT NOT NULL DEFAULT '0',
    PRIMARY KEY (category, value)
)`,
}
