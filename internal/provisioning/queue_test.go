package provisioning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueAddRejectsDuplicateNames(t *testing.T) {
	t.Parallel()

	q := NewQueue()
	require.NoError(t, q.Add(WorkItem{Name: "WoW8"}))

	// Names collide case-insensitively.
	err := q.Add(WorkItem{Name: "wow8"})
	assert.ErrorContains(t, err, "already queued")

	assert.ErrorContains(t, q.Add(WorkItem{Name: "  "}), "required")
	assert.Equal(t, 1, q.Len())
}

func TestQueueRemove(t *testing.T) {
	t.Parallel()

	q := NewQueue()
	require.NoError(t, q.Add(WorkItem{Name: "WoW8"}))
	require.NoError(t, q.Add(WorkItem{Name: "WoW9"}))

	assert.True(t, q.Remove("wow8"))
	assert.False(t, q.Remove("WoW8"))
	assert.Equal(t, []string{"WoW9"}, q.Names())
}

func TestQueueClear(t *testing.T) {
	t.Parallel()

	q := NewQueue()
	require.NoError(t, q.Add(WorkItem{Name: "WoW8"}))
	q.Clear()
	assert.Equal(t, 0, q.Len())
}

func TestQueueSnapshotIsACopy(t *testing.T) {
	t.Parallel()

	q := NewQueue()
	require.NoError(t, q.Add(WorkItem{Name: "WoW8"}))

	snap := q.Snapshot()
	snap[0].Name = "mutated"
	snap[0].Configured = true

	items := q.Snapshot()
	assert.Equal(t, "WoW8", items[0].Name)
	assert.False(t, items[0].Configured)
}

func TestQueueMarks(t *testing.T) {
	t.Parallel()

	q := NewQueue()
	require.NoError(t, q.Add(WorkItem{Name: "WoW8"}))

	q.MarkCloned("wow8", 108)
	item := q.Snapshot()[0]
	assert.True(t, item.CloneCompleted)
	assert.Equal(t, 108, item.VMID)
	assert.False(t, item.Configured)

	q.MarkConfigured("WoW8")
	assert.True(t, q.Snapshot()[0].Configured)

	// Unknown names are ignored.
	q.MarkCloned("WoW99", 1)
	q.SetVMID("WoW99", 1)
	q.MarkConfigured("WoW99")
	assert.Equal(t, 1, q.Len())
}
