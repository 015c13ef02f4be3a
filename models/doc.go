// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

  - ProjectRequest, StageChangeRequest
  - WorklogRequest (advance_stage confirms a forward stage move)
  - ScheduleRequest, CommentRequest, MeetingRequest, ReportRequest
  - MasterItemRequest, UserRequest

# Domain Types

All dates are YYYY-MM-DD strings and timestamps RFC 3339 strings, matching
how they are stored as sheet cells.

  - Project: stages, current_stage, status (active, on_hold, completed, dropped)
  - Worklog: one day of work on a project stage
  - Schedule: planned/actual ranges, status (planned, in_progress, completed, delayed)
  - Comment: executive comment; replies carry parent_id
  - Meeting, Report, MasterItem, User

# Roles

	admin > executive > member > viewer

See package auth for what each role may do.
*/
package models
