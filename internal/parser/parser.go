// Package parser turns uploaded Instagram export files (JSON exports, CSV
// files or plain username lists) into deduplicated snapshot rows.
package parser

import (
	"bytes"
	"strings"

	"github.com/igfollow/snapshot-service/internal/model"
)

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// RawRow is a not-yet-normalized (username, display name) pair, as produced
// by a parse strategy or received from an external fetch.
type RawRow struct {
	Username  string
	FullName  string
	AvatarURL string
}

// Parse extracts snapshot rows from a raw upload. Strategies are tried in
// order (JSON export, delimited, plain list) and the first one yielding rows
// wins; the filename is only a hint, so the chain runs even without a
// recognizable extension. Malformed input never fails: it falls through to
// the next strategy and worst case produces no rows.
func Parse(content []byte, filename string) []model.SnapshotRow {
	content = bytes.TrimPrefix(content, utf8BOM)
	text := strings.TrimSpace(string(content))
	if text == "" {
		return nil
	}
	name := strings.ToLower(filename)

	var raw []RawRow
	if looksLikeJSON(name, text) {
		raw = parseJSONExport(text)
	}
	if len(raw) == 0 && looksLikeCSV(name, text) {
		raw = parseDelimited(text)
	}
	if len(raw) == 0 {
		raw = parsePlainList(text)
	}

	return Rows(raw)
}

// Rows normalizes raw pairs into unique snapshot rows. Usernames that
// normalize to the empty string are dropped; the first occurrence of an
// identity wins and later duplicates are discarded, even when they carry a
// fuller display name. Order of first appearance is preserved.
func Rows(raw []RawRow) []model.SnapshotRow {
	seen := make(map[string]struct{}, len(raw))
	var rows []model.SnapshotRow
	for _, r := range raw {
		username := NormalizeUsername(r.Username)
		if username == "" {
			continue
		}
		if _, ok := seen[username]; ok {
			continue
		}
		seen[username] = struct{}{}

		row := model.SnapshotRow{Username: username}
		if fullName := strings.TrimSpace(r.FullName); fullName != "" {
			row.FullName = &fullName
		}
		if avatarURL := strings.TrimSpace(r.AvatarURL); avatarURL != "" {
			row.AvatarURL = &avatarURL
		}
		rows = append(rows, row)
	}
	return rows
}

func looksLikeJSON(filename, contents string) bool {
	return strings.HasSuffix(filename, ".json") || strings.HasPrefix(contents, "[") || strings.HasPrefix(contents, "{")
}

func looksLikeCSV(filename, contents string) bool {
	if strings.HasSuffix(filename, ".csv") {
		return true
	}
	header, _, _ := strings.Cut(contents, "\n")
	return strings.Contains(header, ",") || strings.Contains(header, ";")
}
