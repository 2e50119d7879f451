package types

// ListMode selects how a ListUpdate combines with an existing list.
type ListMode int

// List update modes.
const (
	// Replace overwrites the existing list.
	Replace ListMode = iota
	// Append concatenates onto the existing list.
	Append
)

// ListUpdate is a change to a list-valued field. A nil *ListUpdate means
// the field is left untouched.
type ListUpdate struct {
	Mode  ListMode
	Items []string
}

// ReplaceList returns an update that overwrites a list with items.
func ReplaceList(items ...string) *ListUpdate {
	return &ListUpdate{Mode: Replace, Items: items}
}

// AppendList returns an update that appends items to a list.
func AppendList(items ...string) *ListUpdate {
	return &ListUpdate{Mode: Append, Items: items}
}

// NewListUpdate builds an update from items and an append flag, the shape
// callers pass at the boundary.
func NewListUpdate(items []string, appendItems bool) *ListUpdate {
	if appendItems {
		return AppendList(items...)
	}
	return ReplaceList(items...)
}

// Apply returns the result of applying u to current. The returned slice
// never aliases current or u.Items.
func (u *ListUpdate) Apply(current []string) []string {
	if u == nil {
		return current
	}
	if u.Mode == Append {
		out := make([]string, 0, len(current)+len(u.Items))
		out = append(out, current...)
		return append(out, u.Items...)
	}
	out := make([]string, len(u.Items))
	copy(out, u.Items)
	return out
}
