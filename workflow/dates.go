// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package workflow

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the cell format of every date field.
const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

// ParseDate parses a YYYY-MM-DD cell.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// CheckDate accepts an empty cell or a valid date.
func CheckDate(s string) error {
	if s == "" {
		return nil
	}
	_, err := ParseDate(s)
	return err
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// WeekStart returns the Monday of t's week.
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WeekRange returns the Monday and Sunday of t's week as date cells.
func WeekRange(t time.Time) (string, string) {
	start := WeekStart(t)
	return FormatDate(start), FormatDate(start.AddDate(0, 0, 6))
}
