// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package ids generates the human-readable row keys used by every sheet,
// e.g. PRJ-001, MTG-012 or WL-20260213-003.
package ids

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Sheet key prefixes.
const (
	PrefixUser     = "USR"
	PrefixProject  = "PRJ"
	PrefixWorklog  = "WL"
	PrefixSchedule = "SCH"
	PrefixComment  = "CMT"
	PrefixMeeting  = "MTG"
	PrefixReport   = "RPT"
)

const dayLayout = "20060102"

// Next returns PREFIX-NNN, one past the highest sequence among existing
// keys with the same prefix. Keys that don't parse are ignored.
func Next(prefix string, existing []string) string {
	return format(prefix+"-", maxSeq(prefix+"-", existing)+1)
}

// NextDaily returns PREFIX-YYYYMMDD-NNN with the sequence scoped to day.
func NextDaily(prefix string, day time.Time, existing []string) string {
	head := prefix + "-" + day.Format(dayLayout) + "-"
	return format(head, maxSeq(head, existing)+1)
}

func format(head string, seq int) string {
	return fmt.Sprintf("%s%03d", head, seq)
}

// parseSeq parses an all-digit sequence suffix.
func parseSeq(rest string) (int, bool) {
	if rest == "" {
		return 0, false
	}
	for i := 0; i < len(rest); i++ {
		if rest[i] < '0' || rest[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(rest)
	return n, err == nil
}

func maxSeq(head string, existing []string) int {
	highest := 0
	for _, id := range existing {
		rest, ok := strings.CutPrefix(id, head)
		if !ok {
			continue
		}
		if n, ok := parseSeq(rest); ok && n > highest {
			highest = n
		}
	}
	return highest
}

// split breaks a key into everything up to its last hyphen and the sequence
// after it.
func split(id string) (string, int, bool) {
	i := strings.LastIndexByte(id, '-')
	if i < 0 {
		return id, 0, false
	}
	n, ok := parseSeq(id[i+1:])
	return id[:i+1], n, ok
}

// Compare orders keys by head, then by numeric sequence, so PRJ-999 comes
// before PRJ-1000. Keys without a numeric sequence fall back to string order
// after the well-formed keys sharing their head.
func Compare(a, b string) int {
	ha, na, oka := split(a)
	hb, nb, okb := split(b)
	if c := strings.Compare(ha, hb); c != 0 {
		return c
	}
	switch {
	case oka && okb:
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return strings.Compare(a, b)
	case oka:
		return -1
	case okb:
		return 1
	}
	return strings.Compare(a, b)
}

// Less reports whether key a sorts before key b.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}
