// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package workflow

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyStages    = errors.New("stages must not be empty")
	ErrDuplicateStage = errors.New("duplicate stage")
	ErrStageNotInList = errors.New("stage is not in the project's stage list")
)

// Transition classifies a move between two stages of one project.
type Transition int

const (
	TransitionNone Transition = iota
	TransitionNext
	TransitionSkip
	TransitionBackward
)

func (t Transition) String() string {
	switch t {
	case TransitionNone:
		return "none"
	case TransitionNext:
		return "next"
	case TransitionSkip:
		return "skip"
	case TransitionBackward:
		return "backward"
	}
	return "unknown"
}

// NeedsConfirmation reports whether the move must be confirmed by the caller.
func (t Transition) NeedsConfirmation() bool {
	return t == TransitionSkip || t == TransitionBackward
}

// StageIndex returns the position of stage in stages, or -1.
func StageIndex(stages []string, stage string) int {
	for i, s := range stages {
		if s == stage {
			return i
		}
	}
	return -1
}

// ValidateStages checks a project's stage list and that current is part of it.
func ValidateStages(stages []string, current string) error {
	if len(stages) == 0 {
		return ErrEmptyStages
	}
	seen := make(map[string]bool, len(stages))
	for _, s := range stages {
		if seen[s] {
			return fmt.Errorf("%w: %s", ErrDuplicateStage, s)
		}
		seen[s] = true
	}
	if !seen[current] {
		return fmt.Errorf("%w: %s", ErrStageNotInList, current)
	}
	return nil
}

// ClassifyTransition compares from and to by position in stages. A from
// stage missing from the list counts as being before the first stage.
func ClassifyTransition(stages []string, from, to string) (Transition, error) {
	toIdx := StageIndex(stages, to)
	if toIdx < 0 {
		return TransitionNone, fmt.Errorf("%w: %s", ErrStageNotInList, to)
	}
	fromIdx := StageIndex(stages, from)

	switch {
	case toIdx == fromIdx:
		return TransitionNone, nil
	case toIdx == fromIdx+1:
		return TransitionNext, nil
	case toIdx > fromIdx:
		return TransitionSkip, nil
	default:
		return TransitionBackward, nil
	}
}

// IsAhead reports whether stage comes after current in stages.
func IsAhead(stages []string, current, stage string) bool {
	return StageIndex(stages, stage) > StageIndex(stages, current)
}
