// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package workflow

import (
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/rnd-tracker/models"
)

var (
	ErrInvalidStatus = errors.New("invalid schedule status")
	ErrInvalidRange  = errors.New("start date is after end date")
)

// ValidScheduleStatus reports whether s is one of the schedule statuses.
func ValidScheduleStatus(s string) bool {
	switch s {
	case models.SchedulePlanned, models.ScheduleInProgress, models.ScheduleCompleted, models.ScheduleDelayed:
		return true
	}
	return false
}

// ScheduleStatus derives the effective status of s on the given day.
func ScheduleStatus(s models.Schedule, today time.Time) string {
	day := FormatDate(today)
	switch {
	case s.ActualEnd != "":
		return models.ScheduleCompleted
	case s.PlannedEnd != "" && s.PlannedEnd < day:
		return models.ScheduleDelayed
	case s.ActualStart != "":
		return models.ScheduleInProgress
	default:
		return models.SchedulePlanned
	}
}

// NormalizeSchedule validates dates, applies an explicitly requested status
// by filling the matching actual dates, and stores the effective status.
func NormalizeSchedule(s *models.Schedule, today time.Time) error {
	for _, d := range []string{s.PlannedStart, s.PlannedEnd, s.ActualStart, s.ActualEnd} {
		if err := CheckDate(d); err != nil {
			return err
		}
	}
	if s.Status != "" && !ValidScheduleStatus(s.Status) {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, s.Status)
	}

	day := FormatDate(today)
	switch s.Status {
	case models.ScheduleCompleted:
		if s.ActualEnd == "" {
			s.ActualEnd = day
		}
	case models.ScheduleInProgress:
		if s.ActualStart == "" {
			s.ActualStart = day
		}
	}
	if s.ActualEnd != "" && s.ActualStart == "" {
		s.ActualStart = s.ActualEnd
	}

	if s.PlannedStart != "" && s.PlannedEnd != "" && s.PlannedStart > s.PlannedEnd {
		return fmt.Errorf("%w: planned %s > %s", ErrInvalidRange, s.PlannedStart, s.PlannedEnd)
	}
	if s.ActualStart != "" && s.ActualEnd != "" && s.ActualStart > s.ActualEnd {
		return fmt.Errorf("%w: actual %s > %s", ErrInvalidRange, s.ActualStart, s.ActualEnd)
	}

	s.Status = ScheduleStatus(*s, today)
	return nil
}

// GanttTask maps a schedule onto a chart bar. Actual dates win over
// planned ones.
func GanttTask(s models.Schedule, today time.Time) models.GanttTask {
	start := s.PlannedStart
	if s.ActualStart != "" {
		start = s.ActualStart
	}
	end := s.PlannedEnd
	if s.ActualEnd != "" {
		end = s.ActualEnd
	}

	status := ScheduleStatus(s, today)
	progress := 0
	switch {
	case status == models.ScheduleCompleted:
		progress = 100
	case s.ActualStart != "":
		progress = 50
	}

	return models.GanttTask{
		ID:       s.ID,
		Name:     s.Name,
		Start:    start,
		End:      end,
		Progress: progress,
		Status:   status,
	}
}
