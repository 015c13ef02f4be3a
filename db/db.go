// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// DB is the sheet store. Queries are written with ? placeholders and
// rebound for the active dialect.
type DB struct {
	*sql.DB
	dialect string
}

// Tx is a transaction on the sheet store with the same placeholder rules as DB.
type Tx struct {
	*sql.Tx
	dialect string
}

// Open connects to the store and verifies the connection.
func Open(dialect, url string) (*DB, error) {
	if dialect != DialectSQLite && dialect != DialectPostgres {
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}

	conn, err := sql.Open(dialect, url)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}

	// SQLite allows a single writer; serialize through one connection.
	if dialect == DialectSQLite {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}

	return &DB{DB: conn, dialect: dialect}, nil
}

func (d *DB) Dialect() string { return d.dialect }

func (d *DB) Exec(query string, args ...any) (sql.Result, error) {
	return d.DB.Exec(Rebind(d.dialect, query), args...)
}

func (d *DB) Query(query string, args ...any) (*sql.Rows, error) {
	return d.DB.Query(Rebind(d.dialect, query), args...)
}

func (d *DB) QueryRow(query string, args ...any) *sql.Row {
	return d.DB.QueryRow(Rebind(d.dialect, query), args...)
}

func (d *DB) Begin() (*Tx, error) {
	tx, err := d.DB.Begin()
	if err != nil {
		return nil, err
	}
	return &Tx{Tx: tx, dialect: d.dialect}, nil
}

func (t *Tx) Exec(query string, args ...any) (sql.Result, error) {
	return t.Tx.Exec(Rebind(t.dialect, query), args...)
}

func (t *Tx) QueryRow(query string, args ...any) *sql.Row {
	return t.Tx.QueryRow(Rebind(t.dialect, query), args...)
}

// Rebind rewrites ? placeholders to $1..$n for postgres. Question marks
// inside single-quoted literals are left alone.
func Rebind(dialect, query string) string {
	if dialect != DialectPostgres || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// ColumnValues returns every value of one column of a sheet. Used for ID
// sequencing, which scans the existing keys the way a sheet lookup would.
func (d *DB) ColumnValues(sheet, column string) ([]string, error) {
	if !isSheet(sheet) || !isIdent(column) {
		return nil, fmt.Errorf("invalid column %s.%s", sheet, column)
	}

	rows, err := d.Query("SELECT " + column + " FROM " + sheet)
	if err != nil {
		return nil, fmt.Errorf("scan %s.%s: %w", sheet, column, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan %s.%s: %w", sheet, column, err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
}
