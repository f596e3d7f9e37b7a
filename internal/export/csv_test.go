package export

import (
	"strings"
	"testing"

	"github.com/igfollow/snapshot-service/internal/model"
	"github.com/igfollow/snapshot-service/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestWriteCSVRoundTripsThroughParser(t *testing.T) {
	rows := []model.SnapshotRow{
		{Username: "alice", FullName: strptr("Alice")},
		{Username: "bob"},
	}

	data, err := WriteCSV(rows)
	require.NoError(t, err)

	parsed := parser.Parse(data, "export.csv")
	require.Len(t, parsed, 2)
	assert.Equal(t, "alice", parsed[0].Username)
	require.NotNil(t, parsed[0].FullName)
	assert.Equal(t, "Alice", *parsed[0].FullName)
	assert.Equal(t, "bob", parsed[1].Username)
	assert.Nil(t, parsed[1].FullName)
}

func TestWriteCSVHeaderOnlyForNoRows(t *testing.T) {
	data, err := WriteCSV(nil)
	require.NoError(t, err)
	assert.Equal(t, "username,full_name\n", string(data))
}

func TestFilename(t *testing.T) {
	name := Filename("igfollowdemo", "followers", "csv")
	assert.True(t, strings.HasPrefix(name, "igfollowdemo-followers-"))
	assert.True(t, strings.HasSuffix(name, ".csv"))
}

func TestWriteXLSXProducesWorkbook(t *testing.T) {
	data, err := WriteXLSX("Followers", []model.SnapshotRow{{Username: "alice", FullName: strptr("Alice")}})
	require.NoError(t, err)
	// XLSX files are zip archives.
	assert.Equal(t, "PK", string(data[:2]))
}
