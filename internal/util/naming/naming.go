package naming

import (
	"fmt"
	"strings"
)

// DefaultPrefix is the base pattern for generated machine names.
const DefaultPrefix = "WoW"

// idOffset maps the name counter to the candidate machine id: WoW1 pairs
// with id 101, WoW2 with 102, and so on. Template machines occupy the ids
// at and below the offset.
const idOffset = 100

// Snapshot carries the identities a candidate name must not collide with.
// Remote ids/names come from the session driver's current listing; queue
// names are whatever the operator already queued. Name comparison is
// case-insensitive throughout.
type Snapshot struct {
	RemoteIDs   map[int]struct{}
	RemoteNames map[string]struct{} // keys lowercased
	QueueNames  map[string]struct{} // keys lowercased
}

// NewSnapshot builds a Snapshot from raw listings.
func NewSnapshot(remoteIDs []int, remoteNames, queueNames []string) Snapshot {
	s := Snapshot{
		RemoteIDs:   make(map[int]struct{}, len(remoteIDs)),
		RemoteNames: make(map[string]struct{}, len(remoteNames)),
		QueueNames:  make(map[string]struct{}, len(queueNames)),
	}
	for _, id := range remoteIDs {
		s.RemoteIDs[id] = struct{}{}
	}
	for _, n := range remoteNames {
		if n != "" {
			s.RemoteNames[strings.ToLower(n)] = struct{}{}
		}
	}
	for _, n := range queueNames {
		if n != "" {
			s.QueueNames[strings.ToLower(n)] = struct{}{}
		}
	}
	return s
}

// taken reports whether the candidate (id, name) pair collides with the
// snapshot.
func (s Snapshot) taken(id int, name string) bool {
	if _, ok := s.RemoteIDs[id]; ok {
		return true
	}
	lower := strings.ToLower(name)
	if _, ok := s.RemoteNames[lower]; ok {
		return true
	}
	_, ok := s.QueueNames[lower]
	return ok
}

// NextName returns the first free prefix+counter name, scanning upward from 1.
// A candidate is free only when both the name and its derived id (idOffset +
// counter) are unused. The scan always terminates: counters grow without
// bound while the snapshot is finite.
func NextName(prefix string, snap Snapshot) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s%d", prefix, i)
		if !snap.taken(idOffset+i, candidate) {
			return candidate
		}
	}
}
