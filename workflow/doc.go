// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package workflow holds the project stage and schedule status rules.

# Stages

A project carries an ordered stage list and a current stage that must stay
in the list. Moving to the next stage is free; skipping ahead or moving back
must be confirmed:

	tr, err := workflow.ClassifyTransition(stages, current, target)
	if tr.NeedsConfirmation() && !confirm {
		// 409, ask the user
	}

# Schedule Status

The stored status of a schedule is always derived from its dates:

	actual_end set            → completed
	planned_end before today  → delayed
	actual_start set          → in_progress
	otherwise                 → planned

Requesting completed or in_progress fills the missing actual date with today.
*/
package workflow
