package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeHandlesNewAndRemovedEntries(t *testing.T) {
	previous := []string{"alice", "Bob", "charlie"}
	current := []string{"bob", "charlie", "diana", "eve"}

	d := Compute(previous, current)

	assert.Equal(t, []string{"diana", "eve"}, d.Added)
	assert.Equal(t, []string{"alice"}, d.Removed)
}

func TestComputeWithEmptyInputs(t *testing.T) {
	d := Compute(nil, nil)
	assert.Empty(t, d.Added)
	assert.Empty(t, d.Removed)
}

func TestComputeIdenticalSequencesProduceNoDiff(t *testing.T) {
	usernames := []string{"alice", "bob", "charlie"}
	d := Compute(usernames, usernames)
	assert.Empty(t, d.Added)
	assert.Empty(t, d.Removed)
}

func TestComputeAgainstEmptyOldTreatsAllAsAdded(t *testing.T) {
	d := Compute(nil, []string{"zoe", "alice", "alice"})
	assert.Equal(t, []string{"alice", "zoe"}, d.Added)
	assert.Empty(t, d.Removed)
}

func TestComputeAgainstEmptyNewTreatsAllAsRemoved(t *testing.T) {
	d := Compute([]string{"zoe", "alice"}, nil)
	assert.Empty(t, d.Added)
	assert.Equal(t, []string{"alice", "zoe"}, d.Removed)
}

func TestComputeIsCaseAndWhitespaceInsensitive(t *testing.T) {
	d := Compute([]string{"Alice", "BOB"}, []string{" alice", "bob "})
	assert.Empty(t, d.Added)
	assert.Empty(t, d.Removed)
}

func TestComputeSkipsBlankEntries(t *testing.T) {
	d := Compute([]string{"", "  "}, []string{"alice", ""})
	assert.Equal(t, []string{"alice"}, d.Added)
	assert.Empty(t, d.Removed)
}

func TestComputeOutputIsSorted(t *testing.T) {
	d := Compute([]string{"mallory", "zoe", "bob"}, []string{"eve", "alice", "diana"})
	assert.Equal(t, []string{"alice", "diana", "eve"}, d.Added)
	assert.Equal(t, []string{"bob", "mallory", "zoe"}, d.Removed)
}
