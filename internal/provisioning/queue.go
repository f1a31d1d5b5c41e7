package provisioning

import (
	"fmt"
	"strings"
	"sync"
)

// WorkItem is one queued machine provisioning request.
type WorkItem struct {
	// Name must be unique within the queue, case-insensitively.
	Name string

	// Storage and Format select the clone target; both must be among the
	// configured options.
	Storage string
	Format  string

	// CloneCompleted is set by the clone phase, Configured by the
	// configure phase. Items are never removed automatically.
	CloneCompleted bool
	Configured     bool

	// VMID is assigned after a clone, or resolved by name lookup when a
	// previous run cloned the machine but did not finish configuring it.
	VMID int
}

// Queue holds the WorkItems of a provisioning run. Operator actions
// (add/remove/clear) happen between runs; phases take a snapshot and
// write results back through the Mark methods.
type Queue struct {
	mu    sync.Mutex
	items []WorkItem
}

func NewQueue() *Queue {
	return &Queue{}
}

// Add appends an item. The name must be non-empty and not already taken
// in the queue, compared case-insensitively.
func (q *Queue) Add(item WorkItem) error {
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("item name is required")
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	for _, existing := range q.items {
		if strings.EqualFold(existing.Name, item.Name) {
			return fmt.Errorf("name %q already queued", item.Name)
		}
	}
	q.items = append(q.items, item)
	return nil
}

// Remove deletes the named item; it reports whether the item existed.
func (q *Queue) Remove(name string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, item := range q.items {
		if strings.EqualFold(item.Name, name) {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the queue.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
}

// Len returns the number of queued items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Snapshot returns a copy of the queue, so a phase iterates stable state
// while results land through the Mark methods.
func (q *Queue) Snapshot() []WorkItem {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]WorkItem, len(q.items))
	copy(out, q.items)
	return out
}

// Names returns the queued names in order.
func (q *Queue) Names() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	names := make([]string, len(q.items))
	for i, item := range q.items {
		names[i] = item.Name
	}
	return names
}

// MarkCloned records a completed clone and its assigned machine id.
func (q *Queue) MarkCloned(name string, vmid int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := range q.items {
		if strings.EqualFold(q.items[i].Name, name) {
			q.items[i].CloneCompleted = true
			q.items[i].VMID = vmid
			return
		}
	}
}

// SetVMID records a machine id resolved by name lookup.
func (q *Queue) SetVMID(name string, vmid int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := range q.items {
		if strings.EqualFold(q.items[i].Name, name) {
			q.items[i].VMID = vmid
			return
		}
	}
}

// MarkConfigured records an acknowledged config write-back.
func (q *Queue) MarkConfigured(name string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := range q.items {
		if strings.EqualFold(q.items[i].Name, name) {
			q.items[i].Configured = true
			return
		}
	}
}
