package parser

import "strings"

// parsePlainList handles the last-resort format: one profile per non-blank
// line, optionally "username,display name" or "username - display name".
func parsePlainList(contents string) []RawRow {
	var rows []RawRow
	for _, line := range strings.Split(contents, "\n") {
		cleaned := strings.TrimSpace(line)
		if cleaned == "" {
			continue
		}

		if username, fullName, found := strings.Cut(cleaned, ","); found {
			rows = append(rows, RawRow{Username: username, FullName: fullName})
			continue
		}
		if username, fullName, found := strings.Cut(cleaned, " - "); found {
			rows = append(rows, RawRow{Username: username, FullName: fullName})
			continue
		}
		rows = append(rows, RawRow{Username: cleaned})
	}
	return rows
}
