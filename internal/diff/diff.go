// Package diff computes added/removed identity sets between two snapshots.
package diff

import (
	"sort"
	"strings"
)

// Diff holds the identities that appeared in and disappeared from a snapshot
// relative to the previous one of the same type. Both slices are sorted
// ascending.
type Diff struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
}

// Compute returns the set difference between two username sequences.
// Usernames are compared after trimming and lowercasing, so case or
// whitespace variance never produces a spurious diff. Pure function:
// identical input always yields identical output.
func Compute(old, new []string) Diff {
	oldSet := toSet(old)
	newSet := toSet(new)

	return Diff{
		Added:   missingFrom(newSet, oldSet),
		Removed: missingFrom(oldSet, newSet),
	}
}

func toSet(usernames []string) map[string]struct{} {
	set := make(map[string]struct{}, len(usernames))
	for _, username := range usernames {
		cleaned := strings.ToLower(strings.TrimSpace(username))
		if cleaned == "" {
			continue
		}
		set[cleaned] = struct{}{}
	}
	return set
}

// missingFrom returns the members of set absent from other, sorted.
func missingFrom(set, other map[string]struct{}) []string {
	result := make([]string, 0)
	for username := range set {
		if _, ok := other[username]; !ok {
			result = append(result, username)
		}
	}
	sort.Strings(result)
	return result
}
