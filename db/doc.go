// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db is the sheet-as-DB store.

Each resource lives in its own sheet (a table whose columns are all string
cells). The store runs on SQLite (modernc.org/sqlite, the default) or
PostgreSQL (lib/pq):

	store, err := db.Open(db.DialectSQLite, "tracker.db")
	if err != nil {
		log.Fatal(err)
	}
	if err := db.CreateSchema(store); err != nil {
		log.Fatal(err)
	}

Queries use ? placeholders; DB and Tx rebind them to $n on postgres.

# Sheets

  - users: accounts and roles
  - projects: tracked projects, stage list and current stage
  - worklogs: daily activity per project and stage
  - schedules: detailed work items with planned/actual ranges
  - comments: executive comments and replies (parent_id)
  - meetings: meeting minutes
  - reports: weekly reports, one per project/week/author
  - master_data: customer, item, stage and department lists

# Relationships

	projects 1──* worklogs
	projects 1──* schedules
	projects 1──* comments
	comments 1──* comments (replies via parent_id)

Relationships are plain ID strings; dependent rows are removed by the
handlers that delete their parent.

# Cells

List-valued fields are stored comma-joined:

	db.JoinCell([]string{"검토", "설계"}) // "검토,설계"
	db.SplitCell("검토, 설계,")           // ["검토" "설계"]
*/
package db
