// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the R&D tracker API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(store, cfg)

Every route except /health and / goes through middleware.Gate, which checks
X-User-ID and X-User-Key and the role permission named below.

# Endpoints

Health:

	GET /health

Projects (read; write for changes; admin for delete):

	GET    /projects             - List, filter by customer/stage/status/manager
	POST   /projects             - Create project
	GET    /projects/{id}        - Detail with schedules and recent work logs
	PUT    /projects/{id}        - Update project
	DELETE /projects/{id}        - Delete project and its rows
	POST   /projects/{id}/stage  - Change current stage
	GET    /projects/{id}/gantt  - Gantt rows from schedules

Schedules, comments:

	GET/POST   /projects/{id}/schedules
	PUT/DELETE /schedules/{id}
	GET/POST   /projects/{id}/comments
	PUT/DELETE /comments/{id}

Work logs, minutes, weekly reports:

	GET/POST       /worklogs, /meetings, /reports
	GET/PUT/DELETE /worklogs/{id}, /meetings/{id}, /reports/{id}
	GET            /reports/draft?project_id=&week_start=

Master data and users (admin for changes):

	GET    /master/{category}
	POST   /master/{category}
	DELETE /master/{category}/{value}
	GET    /me
	GET/POST   /users
	PUT/DELETE /users/{id}
	POST   /users/{id}/key

Dashboard:

	GET /dashboard/summary
	GET /dashboard/drilldown?metric=stage&value=설계
	GET /dashboard/activity?limit=20
*/
package router
