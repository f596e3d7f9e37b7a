package parser

import (
	"testing"

	"github.com/igfollow/snapshot-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeUsername(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "Alice", "alice"},
		{"strips at prefix", "@dave", "dave"},
		{"trims whitespace", "  bob \t", "bob"},
		{"combined", " @Carol_99 ", "carol_99"},
		{"space after at", "@ eve ", "eve"},
		{"empty", "   ", ""},
		{"only at", "@", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeUsername(tt.input))
		})
	}
}

func TestNormalizeUsernameIsIdempotent(t *testing.T) {
	for _, input := range []string{"@Alice", "  BOB ", "@@carol", "dave", "@ eve "} {
		once := NormalizeUsername(input)
		assert.Equal(t, once, NormalizeUsername(once), "input %q", input)
	}
}

func usernames(rows []model.SnapshotRow) []string {
	result := make([]string, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.Username)
	}
	return result
}

func TestParseCSVExportHandlesCommonHeaders(t *testing.T) {
	rows := Parse([]byte("username,full_name\nalice,Alice\nBob,"), "followers.csv")

	require.Len(t, rows, 2)
	assert.Equal(t, "alice", rows[0].Username)
	require.NotNil(t, rows[0].FullName)
	assert.Equal(t, "Alice", *rows[0].FullName)
	assert.Equal(t, "bob", rows[1].Username)
	assert.Nil(t, rows[1].FullName)
}

func TestParseCSVHeaderAliases(t *testing.T) {
	rows := Parse([]byte("Handle;Name\n@alice;Alice A\nbob;"), "export.csv")

	require.Len(t, rows, 2)
	assert.Equal(t, "alice", rows[0].Username)
	require.NotNil(t, rows[0].FullName)
	assert.Equal(t, "Alice A", *rows[0].FullName)
	assert.Equal(t, "bob", rows[1].Username)
}

func TestParseCSVWithoutHeaderUsesColumnPositions(t *testing.T) {
	rows := Parse([]byte("alice,Alice\nbob,Bob B\ncarol"), "")

	require.Len(t, rows, 3)
	assert.Equal(t, []string{"alice", "bob", "carol"}, usernames(rows))
	require.NotNil(t, rows[1].FullName)
	assert.Equal(t, "Bob B", *rows[1].FullName)
	assert.Nil(t, rows[2].FullName)
}

func TestParseCSVStripsBOM(t *testing.T) {
	rows := Parse([]byte("\xef\xbb\xbfusername\nalice\n"), "followers.csv")

	require.Len(t, rows, 1)
	assert.Equal(t, "alice", rows[0].Username)
}

func TestParseJSONStringListData(t *testing.T) {
	payload := `
	[
	  {
	    "title": "Alice",
	    "string_list_data": [
	      {"value": "alice", "href": "https://www.instagram.com/alice/"}
	    ]
	  },
	  {
	    "string_list_data": [
	      {"value": "bob"}
	    ]
	  }
	]
	`
	rows := Parse([]byte(payload), "followers.json")

	require.Len(t, rows, 2)
	assert.Equal(t, "alice", rows[0].Username)
	require.NotNil(t, rows[0].FullName)
	assert.Equal(t, "Alice", *rows[0].FullName)
	assert.Equal(t, "bob", rows[1].Username)
	assert.Nil(t, rows[1].FullName)
}

func TestParseJSONDerivesUsernameFromHref(t *testing.T) {
	payload := `[{"string_list_data": [{"href": "https://www.instagram.com/carol/extra/"}]}]`
	rows := Parse([]byte(payload), "following.json")

	require.Len(t, rows, 1)
	assert.Equal(t, "carol", rows[0].Username)
}

func TestParseJSONNestedRelationships(t *testing.T) {
	payload := `
	{
	  "relationships_followers": [
	    {
	      "title": "Dave D",
	      "string_list_data": [{"value": "dave"}]
	    },
	    {"username": "eve", "full_name": "Eve E"}
	  ]
	}
	`
	rows := Parse([]byte(payload), "")

	require.Len(t, rows, 2)
	assert.Equal(t, "dave", rows[0].Username)
	require.NotNil(t, rows[0].FullName)
	assert.Equal(t, "Dave D", *rows[0].FullName)
	assert.Equal(t, "eve", rows[1].Username)
	require.NotNil(t, rows[1].FullName)
	assert.Equal(t, "Eve E", *rows[1].FullName)
}

func TestParseJSONBareValueInheritsAncestorTitle(t *testing.T) {
	payload := `{"title": "Frank", "entries": [{"value": "frank_ig"}]}`
	rows := Parse([]byte(payload), "export.json")

	require.Len(t, rows, 1)
	assert.Equal(t, "frank_ig", rows[0].Username)
	require.NotNil(t, rows[0].FullName)
	assert.Equal(t, "Frank", *rows[0].FullName)
}

func TestParseJSONSkipsEntriesWithoutUsernameShape(t *testing.T) {
	payload := `[{"media": {"uri": "whatever"}}, {"string_list_data": [{"value": "alice"}]}]`
	rows := Parse([]byte(payload), "followers.json")

	require.Len(t, rows, 1)
	assert.Equal(t, "alice", rows[0].Username)
}

func TestParseMalformedJSONFallsThroughToPlainList(t *testing.T) {
	// Starts with "{" so the JSON strategy runs first, fails, and the
	// content ends up in the plain-list fallback.
	rows := Parse([]byte("{not json at all"), "")

	require.Len(t, rows, 1)
	assert.Equal(t, "{not json at all", rows[0].Username)
}

func TestParsePlainTextList(t *testing.T) {
	rows := Parse([]byte("carol\n@dave\n"), "followers.txt")

	require.Len(t, rows, 2)
	assert.Equal(t, "carol", rows[0].Username)
	assert.Nil(t, rows[0].FullName)
	assert.Equal(t, "dave", rows[1].Username)
	assert.Nil(t, rows[1].FullName)
}

func TestParsePlainTextWithDashSeparator(t *testing.T) {
	rows := Parse([]byte("grace - Grace G\nheidi\n"), "list.txt")

	require.Len(t, rows, 2)
	assert.Equal(t, "grace", rows[0].Username)
	require.NotNil(t, rows[0].FullName)
	assert.Equal(t, "Grace G", *rows[0].FullName)
	assert.Equal(t, "heidi", rows[1].Username)
}

func TestParseDeduplicatesFirstSeenWins(t *testing.T) {
	rows := Parse([]byte("username,full_name\nalice,\nALICE,Alice Fullname\n@alice,Other"), "followers.csv")

	require.Len(t, rows, 1)
	assert.Equal(t, "alice", rows[0].Username)
	assert.Nil(t, rows[0].FullName)
}

func TestParseEmptyInput(t *testing.T) {
	assert.Empty(t, Parse(nil, "followers.csv"))
	assert.Empty(t, Parse([]byte("   \n \n"), ""))
}

func TestParseDropsRowsWithEmptyNormalizedUsername(t *testing.T) {
	rows := Parse([]byte("@\nalice\n  \n"), "list.txt")

	require.Len(t, rows, 1)
	assert.Equal(t, "alice", rows[0].Username)
}

func TestRowsKeepsAvatarURL(t *testing.T) {
	rows := Rows([]RawRow{{Username: "@Alice", FullName: " Alice ", AvatarURL: "https://cdn/alice.jpg"}})

	require.Len(t, rows, 1)
	assert.Equal(t, "alice", rows[0].Username)
	require.NotNil(t, rows[0].FullName)
	assert.Equal(t, "Alice", *rows[0].FullName)
	require.NotNil(t, rows[0].AvatarURL)
	assert.Equal(t, "https://cdn/alice.jpg", *rows[0].AvatarURL)
}
