// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import "strings"

const listSeparator = ","

// JoinCell encodes a list-valued field into a single string cell.
func JoinCell(values []string) string {
	clean := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			clean = append(clean, v)
		}
	}
	return strings.Join(clean, listSeparator)
}

// SplitCell decodes a list-valued cell. Blank entries are dropped.
func SplitCell(cell string) []string {
	out := []string{}
	for _, v := range strings.Split(cell, listSeparator) {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
