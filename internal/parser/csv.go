package parser

import (
	"encoding/csv"
	"strings"
)

// Header aliases accepted for the username and display-name columns, in
// priority order. Matching is case-insensitive.
var (
	usernameAliases = []string{"username", "handle", "user", "profile url", "profile"}
	fullNameAliases = []string{"full_name", "name", "title"}
)

func parseDelimited(contents string) []RawRow {
	firstLine, _, _ := strings.Cut(contents, "\n")
	delimiter := ','
	if strings.Contains(firstLine, ";") && !strings.Contains(firstLine, ",") {
		delimiter = ';'
	}

	reader := csv.NewReader(strings.NewReader(contents))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil || len(records) == 0 {
		return nil
	}

	usernameCols := aliasColumns(records[0], usernameAliases)
	if len(usernameCols) == 0 {
		return parseHeaderless(records)
	}
	fullNameCols := aliasColumns(records[0], fullNameAliases)

	var rows []RawRow
	for _, record := range records[1:] {
		username := firstField(record, usernameCols)
		if username == "" {
			continue
		}
		rows = append(rows, RawRow{
			Username: username,
			FullName: firstField(record, fullNameCols),
		})
	}
	return rows
}

// parseHeaderless treats every record as data: first column is the username,
// second (when present) the display name.
func parseHeaderless(records [][]string) []RawRow {
	var rows []RawRow
	for _, record := range records {
		if len(record) == 0 || strings.TrimSpace(record[0]) == "" {
			continue
		}
		row := RawRow{Username: record[0]}
		if len(record) > 1 {
			row.FullName = record[1]
		}
		rows = append(rows, row)
	}
	return rows
}

// aliasColumns maps aliases to the header columns they occur in, preserving
// alias priority: per row, the first alias with a non-empty field wins.
func aliasColumns(header []string, aliases []string) []int {
	var cols []int
	for _, alias := range aliases {
		for i, field := range header {
			if strings.EqualFold(strings.TrimSpace(field), alias) {
				cols = append(cols, i)
				break
			}
		}
	}
	return cols
}

func firstField(record []string, cols []int) string {
	for _, col := range cols {
		if col < len(record) && strings.TrimSpace(record[col]) != "" {
			return record[col]
		}
	}
	return ""
}
