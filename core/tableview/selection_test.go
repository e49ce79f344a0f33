package tableview

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelection_Toggle(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		id   string
		want []string
	}{
		{name: "add to empty", ids: nil, id: "a", want: []string{"a"}},
		{name: "add appends", ids: []string{"a", "b"}, id: "c", want: []string{"a", "b", "c"}},
		{name: "remove first", ids: []string{"a", "b", "c"}, id: "a", want: []string{"b", "c"}},
		{name: "remove middle", ids: []string{"a", "b", "c"}, id: "b", want: []string{"a", "c"}},
		{name: "remove last", ids: []string{"a", "b", "c"}, id: "c", want: []string{"a", "b"}},
		{name: "remove only", ids: []string{"a"}, id: "a", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSelection(tt.ids...)
			got := s.Toggle(tt.id)
			assert.Equal(t, tt.want, got.IDs())
			assert.Equal(t, NewSelection(tt.ids...).IDs(), s.IDs(), "receiver must not change")
		})
	}
}

func TestSelection_SelectAllThenToggle(t *testing.T) {
	rows := bac()

	all := SelectAll(rows)
	assert.Equal(t, []string{"B", "A", "C"}, all.IDs())

	one := all.Toggle("A")
	assert.Equal(t, len(rows)-1, one.Len())
	assert.False(t, one.Has("A"))

	back := one.Toggle("A")
	assert.Equal(t, len(rows), back.Len())
	assert.ElementsMatch(t, all.IDs(), back.IDs())

	assert.Equal(t, 0, back.DeselectAll().Len())
}

func TestSelection_SelectAllIgnoresFilter(t *testing.T) {
	rows := rowsNamed(12)
	page := Apply(rows, SortState{OrderBy: "name"}, FilterState{Field: "name", Query: "r1"}, PageState{RowsPerPage: 5})
	require.Len(t, page.Rows, 2)

	assert.Equal(t, 12, SelectAll(rows).Len())
}

func TestSelection_SurvivesResort(t *testing.T) {
	rows := bac()
	s := NewSelection().Toggle("C")

	for _, order := range []Order{Ascending, Descending} {
		view := Compute(rows, SortState{OrderBy: "name", Order: order}, FilterState{})
		var checked []string
		for _, r := range view.Rows {
			if s.Has(r.RowID()) {
				checked = append(checked, r.RowID())
			}
		}
		assert.Equal(t, []string{"C"}, checked)
	}
}

func TestPrune(t *testing.T) {
	s := NewSelection("A", "gone", "C", "A")
	assert.Equal(t, []string{"A", "gone", "C"}, s.IDs())
	assert.Equal(t, []string{"A", "C"}, Prune(s, bac()).IDs())
}

func TestApplyAction(t *testing.T) {
	rows := bac()
	tests := []struct {
		name   string
		sel    Selection
		action Action
		id     string
		want   []string
	}{
		{name: "select all", sel: NewSelection(), action: ActionSelectAll, want: []string{"B", "A", "C"}},
		{name: "deselect all", sel: NewSelection("A"), action: ActionDeselectAll, want: []string{}},
		{name: "toggle on", sel: NewSelection("A"), action: ActionToggle, id: "C", want: []string{"A", "C"}},
		{name: "toggle off", sel: NewSelection("A", "C"), action: ActionToggle, id: "A", want: []string{"C"}},
		{name: "toggle unknown id", sel: NewSelection("A"), action: ActionToggle, id: "Z", want: []string{"A"}},
		{name: "stale ids dropped", sel: NewSelection("A", "Z"), action: "lol", want: []string{"A"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ApplyAction(tt.sel, rows, tt.action, tt.id).IDs())
		})
	}
}

func TestSelection_JSON(t *testing.T) {
	data, err := json.Marshal(NewSelection("b", "a"))
	require.NoError(t, err)
	assert.JSONEq(t, `["b","a"]`, string(data))

	var s Selection
	require.NoError(t, json.Unmarshal([]byte(`["x","y","x"]`), &s))
	assert.Equal(t, []string{"x", "y"}, s.IDs())

	data, err = json.Marshal(Selection{})
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}
