package parser

import (
	"encoding/json"
	"net/url"
	"sort"
	"strings"
)

// jsonExtractor accumulates rows found while walking a decoded JSON value.
// Entries are deduplicated by (username, display name) pair within one parse.
type jsonExtractor struct {
	rows []RawRow
	seen map[[2]string]struct{}
}

func parseJSONExport(contents string) []RawRow {
	var payload any
	if err := json.Unmarshal([]byte(contents), &payload); err != nil {
		return nil
	}

	e := &jsonExtractor{seen: make(map[[2]string]struct{})}
	e.walk(payload, "")
	return e.rows
}

// walk recurses through arrays and objects looking for the shapes Instagram
// export files use. contextName is the nearest ancestor object's title and
// serves as a display-name fallback for bare "value" entries.
func (e *jsonExtractor) walk(node any, contextName string) {
	switch val := node.(type) {
	case map[string]any:
		e.walkObject(val, contextName)
	case []any:
		for _, item := range val {
			e.walk(item, contextName)
		}
	}
}

func (e *jsonExtractor) walkObject(obj map[string]any, contextName string) {
	if list, ok := obj["string_list_data"].([]any); ok {
		displayName := firstString(obj, "title", "name")
		if displayName == "" {
			displayName = contextName
		}
		for _, item := range list {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			username := stringValue(entry["value"])
			if username == "" {
				username = usernameFromHref(stringValue(entry["href"]))
			}
			if username == "" {
				continue
			}
			fullName := displayName
			if fullName == "" {
				fullName = firstString(entry, "title", "name")
			}
			e.add(username, fullName)
		}
		return
	}

	if username := stringValue(obj["username"]); username != "" {
		e.add(username, firstString(obj, "full_name", "name"))
	}

	if username := scalarValue(obj["value"]); username != "" {
		fullName := firstString(obj, "title", "name")
		if fullName == "" {
			fullName = contextName
		}
		e.add(username, fullName)
	}

	next := stringValue(obj["title"])
	if next == "" {
		next = contextName
	}
	for _, key := range sortedKeys(obj) {
		if key == "string_list_data" {
			continue
		}
		switch obj[key].(type) {
		case map[string]any, []any:
			e.walk(obj[key], next)
		}
	}
}

func (e *jsonExtractor) add(username, fullName string) {
	key := [2]string{username, fullName}
	if _, ok := e.seen[key]; ok {
		return
	}
	e.seen[key] = struct{}{}
	e.rows = append(e.rows, RawRow{Username: username, FullName: fullName})
}

// sortedKeys keeps the walk deterministic; Go map iteration order is not.
func sortedKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

// scalarValue accepts a string-typed "value" field only; lists, objects and
// other scalar types are skipped rather than coerced.
func scalarValue(v any) string {
	return stringValue(v)
}

// usernameFromHref extracts the leading path segment of a profile URL, e.g.
// "https://www.instagram.com/alice/" -> "alice".
func usernameFromHref(href string) string {
	if href == "" {
		return ""
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return ""
	}
	segment, _, _ := strings.Cut(path, "/")
	return segment
}

func firstString(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := stringValue(obj[key]); s != "" {
			return s
		}
	}
	return ""
}
