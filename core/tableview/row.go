// Package tableview computes what a dashboard table shows: the sorted or filtered rows of a
// collection, the page of them to render and the set of checked rows.
//
// Every function is pure: the same collection and state always give the same view, and rows are
// never mutated. The state itself (sort, filter, page, selection) is owned by the caller.
package tableview

// Row is one record of a displayed collection.
type Row interface {
	// RowID is the identifier a Selection is made of.
	RowID() string

	// FieldValue returns the value of the named field, used both as sort key and filter target.
	// ok is false when the row has no such field.
	FieldValue(field string) (value interface{}, ok bool)
}
