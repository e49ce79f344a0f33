package tableview

import (
	"fmt"
	"sort"
	"strings"
)

// FilterState is a case-insensitive substring query on a single field.
type FilterState struct {
	Field string `json:"field"`
	Query string `json:"query"`
}

// View is the ordered sequence of rows a table shows, before pagination.
type View[R Row] struct {
	Rows []R

	// IsEmpty is true when a non-empty filter query matched nothing.
	// An empty collection is not reported as IsEmpty.
	IsEmpty bool

	// Total is the size of the unfiltered collection.
	Total int
}

// Compute returns the rows of the table for the given sort and filter.
//
// When filter.Query is not empty the result is the rows matching it in their original
// collection order: the filter bypasses the sort.
func Compute[R Row](rows []R, ordering SortState, filter FilterState) View[R] {
	view := View[R]{Total: len(rows)}

	if filter.Query != "" {
		view.Rows = applyFilter(rows, filter)
		view.IsEmpty = len(view.Rows) == 0
		return view
	}

	view.Rows = applySort(rows, ordering)
	return view
}

// applySort sorts a copy of rows, keeping the input order among equal keys.
func applySort[R Row](rows []R, ordering SortState) []R {
	type stabilized struct {
		row R
		idx int
	}
	items := make([]stabilized, len(rows))
	for i, row := range rows {
		items[i] = stabilized{row: row, idx: i}
	}

	sort.Slice(items, func(i, j int) bool {
		if order := Compare(items[i].row, items[j].row, ordering); order != 0 {
			return order < 0
		}
		return items[i].idx < items[j].idx
	})

	sorted := make([]R, len(items))
	for i, it := range items {
		sorted[i] = it.row
	}
	return sorted
}

func applyFilter[R Row](rows []R, filter FilterState) []R {
	query := strings.ToLower(filter.Query)
	matched := make([]R, 0)
	for _, row := range rows {
		val, ok := row.FieldValue(filter.Field)
		if !ok || val == nil {
			continue
		}
		if strings.Contains(strings.ToLower(filterText(val)), query) {
			matched = append(matched, row)
		}
	}
	return matched
}

func filterText(val interface{}) string {
	if s, ok := val.(string); ok {
		return s
	}
	return fmt.Sprint(val)
}
