// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the rnd-tracker API server.

rnd-tracker keeps the records of an R&D department: projects moving through
development stages, daily work logs, detailed schedules, weekly reports,
meeting minutes and executive comments. Each record type lives in its own
sheet-shaped table, and every request is gated by the caller's role.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=tracker.db USER_KEY_SALT=... go run .

Or with flags, against PostgreSQL:

	go run . -t postgres -d "postgres://..." -user-salt ...

Variables can also come from a .env file (see -env-file).

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file or PostgreSQL connection string
  - USER_KEY_SALT (-user-salt): Secret for user key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - BOOTSTRAP_ADMIN_EMAIL (-bootstrap-admin): admin created on an empty store

# Architecture

  - handlers: HTTP request handlers (projects, worklogs, schedules, comments,
    meetings, reports, master data, users, dashboard)
  - router: Route definitions using Go 1.22+ routing, with role gates
  - middleware: CORS, logging, JSON helpers, user gate
  - workflow: Stage transitions, schedule status, date helpers
  - models: Request/response and row types
  - auth: User keys and role permissions
  - ids: Prefixed sequential row keys
  - db: Store connection, placeholder rebinding, schema
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
