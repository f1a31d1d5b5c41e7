package naming

import (
	"fmt"
	"strings"
	"testing"
)

func TestNextName(t *testing.T) {
	tests := []struct {
		name        string
		remoteIDs   []int
		remoteNames []string
		queueNames  []string
		expected    string
	}{
		{
			name:     "empty snapshot",
			expected: "WoW1",
		},
		{
			name:        "first name taken remotely",
			remoteNames: []string{"WoW1"},
			expected:    "WoW2",
		},
		{
			name:        "case insensitive remote match",
			remoteNames: []string{"wow1", "WOW2"},
			expected:    "WoW3",
		},
		{
			name:       "queue names count as taken",
			queueNames: []string{"WoW1", "WoW2", "WoW3"},
			expected:   "WoW4",
		},
		{
			name:      "derived id taken",
			remoteIDs: []int{101},
			expected:  "WoW2",
		},
		{
			name:        "gap in sequence is reused",
			remoteNames: []string{"WoW1", "WoW3"},
			expected:    "WoW2",
		},
		{
			name:        "mixed remote and queue",
			remoteIDs:   []int{101},
			remoteNames: []string{"WoW2"},
			queueNames:  []string{"wow3"},
			expected:    "WoW4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := NewSnapshot(tt.remoteIDs, tt.remoteNames, tt.queueNames)
			got := NextName(DefaultPrefix, snap)
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestNextName_EmptyPrefixFallsBack(t *testing.T) {
	got := NextName("", NewSnapshot(nil, nil, nil))
	if got != "WoW1" {
		t.Errorf("Expected WoW1 for empty prefix, got %q", got)
	}
}

func TestNextName_TerminatesWithThousandTaken(t *testing.T) {
	names := make([]string, 0, 1000)
	ids := make([]int, 0, 1000)
	for i := 1; i <= 1000; i++ {
		names = append(names, fmt.Sprintf("WoW%d", i))
		ids = append(ids, 100+i)
	}
	snap := NewSnapshot(ids, names, nil)

	got := NextName(DefaultPrefix, snap)
	if got != "WoW1001" {
		t.Errorf("Expected WoW1001, got %q", got)
	}
}

func TestNextName_NeverCollides(t *testing.T) {
	remote := []string{"WoW1", "wow2", "WOW5"}
	queue := []string{"WoW3"}
	snap := NewSnapshot(nil, remote, queue)

	got := NextName(DefaultPrefix, snap)
	for _, n := range append(remote, queue...) {
		if strings.EqualFold(got, n) {
			t.Fatalf("Generated name %q collides with %q", got, n)
		}
	}
	if got != "WoW4" {
		t.Errorf("Expected WoW4, got %q", got)
	}
}
