// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the R&D tracker API.

# Handler Types

Each handler is a struct with store and config dependencies:

  - ProjectHandler: projects, stage changes, Gantt rows
  - WorklogHandler: daily work logs
  - ScheduleHandler: detailed work items per project
  - CommentHandler: executive comments and replies
  - MeetingHandler: meeting minutes
  - ReportHandler: weekly reports and drafts built from work logs
  - MasterHandler: customer, item, stage and department lists
  - UserHandler: accounts, keys, and the user lookup for middleware.Gate
  - DashboardHandler: summary counts, drill-down, recent activity

Handlers are created via constructor functions that accept *db.DB and Config:

	projectHandler := handlers.NewProjectHandler(store, cfg)

# Rows

Every resource follows the same shape: load the rows, filter in memory,
write one row back. Keys are PREFIX-NNN (WL-YYYYMMDD-NNN for work logs),
generated under a package lock together with the insert.

# Stage Progression

	POST /projects/{id}/stage {"stage": "개발"}

The next stage is applied at once. Skipping ahead or moving back answers
409 with requires_confirmation until the request carries "confirm": true.
A work log for a stage ahead of the project does the same with
"advance_stage": true and moves the project along with the insert.

# Ownership

Work logs, comments, minutes and reports can be changed by their author or
an admin. Route-level role checks live in the router.
*/
package handlers
