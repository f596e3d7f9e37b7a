package parser

import "strings"

// NormalizeUsername canonicalizes a raw Instagram handle: whitespace is
// trimmed, leading "@" is stripped and the rest is lowercased. Applying it
// twice yields the same result as applying it once.
func NormalizeUsername(username string) string {
	cleaned := strings.TrimSpace(username)
	cleaned = strings.TrimLeft(cleaned, "@")
	cleaned = strings.TrimSpace(cleaned)
	return strings.ToLower(cleaned)
}
