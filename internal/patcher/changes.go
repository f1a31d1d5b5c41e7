package patcher

// Change records one logical field rewritten by a patch: the value found in
// the pre-patch text (empty when absent) and the value written. Changes are
// immutable observability artifacts; nothing re-consumes them.
type Change struct {
	Field string
	Old   string
	New   string
}
