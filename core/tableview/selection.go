package tableview

import "encoding/json"

// Selection is the ordered set of checked row identifiers.
// It is independent of the current sort, filter and page, and every operation returns a new
// Selection leaving the receiver untouched.
type Selection struct {
	ids []string
}

// NewSelection returns a Selection of ids, dropping duplicates.
func NewSelection(ids ...string) Selection {
	s := Selection{ids: make([]string, 0, len(ids))}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		s.ids = append(s.ids, id)
	}
	return s
}

// SelectAll selects every row of the collection, not only the rows of the visible page.
func SelectAll[R Row](rows []R) Selection {
	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.RowID()
	}
	return NewSelection(ids...)
}

// Prune drops the identifiers that are not in rows anymore, e.g. after the collection was re-fetched.
func Prune[R Row](s Selection, rows []R) Selection {
	present := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		present[row.RowID()] = struct{}{}
	}
	pruned := Selection{ids: make([]string, 0, len(s.ids))}
	for _, id := range s.ids {
		if _, ok := present[id]; ok {
			pruned.ids = append(pruned.ids, id)
		}
	}
	return pruned
}

func (s Selection) DeselectAll() Selection {
	return Selection{ids: make([]string, 0)}
}

// Toggle removes id when selected and appends it otherwise.
// The remaining identifiers keep their order.
func (s Selection) Toggle(id string) Selection {
	idx := s.indexOf(id)
	if idx == -1 {
		ids := make([]string, len(s.ids), len(s.ids)+1)
		copy(ids, s.ids)
		return Selection{ids: append(ids, id)}
	}

	ids := make([]string, 0, len(s.ids)-1)
	ids = append(ids, s.ids[:idx]...)
	ids = append(ids, s.ids[idx+1:]...)
	return Selection{ids: ids}
}

func (s Selection) Has(id string) bool {
	return s.indexOf(id) != -1
}

func (s Selection) Len() int {
	return len(s.ids)
}

// IDs returns a copy of the selected identifiers in selection order.
func (s Selection) IDs() []string {
	ids := make([]string, len(s.ids))
	copy(ids, s.ids)
	return ids
}

func (s Selection) indexOf(id string) int {
	for i, sid := range s.ids {
		if sid == id {
			return i
		}
	}
	return -1
}

func (s Selection) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.IDs())
}

func (s *Selection) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewSelection(ids...)
	return nil
}

// Action is a selection change triggered from the table.
type Action string

const (
	ActionSelectAll   Action = "select_all"
	ActionDeselectAll Action = "deselect_all"
	ActionToggle      Action = "toggle"
)

func (a Action) IsValid() bool {
	switch a {
	case ActionSelectAll, ActionDeselectAll, ActionToggle:
		return true
	}
	return false
}

// ApplyAction applies action to s over the unfiltered collection rows.
// The result only holds identifiers present in rows; toggling an unknown id is a no-op.
// Unknown actions leave s pruned but otherwise unchanged.
func ApplyAction[R Row](s Selection, rows []R, action Action, id string) Selection {
	switch action {
	case ActionSelectAll:
		return SelectAll(rows)
	case ActionDeselectAll:
		return s.DeselectAll()
	case ActionToggle:
		s = s.Toggle(id)
	}
	return Prune(s, rows)
}
