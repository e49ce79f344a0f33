package tableview

// PageState is the zero-based page of a table and its size.
type PageState struct {
	Page        int `json:"page"`
	RowsPerPage int `json:"rows_per_page"`
}

// Page is the slice of a View to render.
type Page[R Row] struct {
	Rows []R `json:"rows"`

	// EmptyRows is the number of blank rows keeping a short page at full height.
	EmptyRows int `json:"empty_rows"`

	// Count is the number of rows in the View, Total the size of the unfiltered collection.
	Count int `json:"count"`
	Total int `json:"total"`

	Page        int  `json:"page"`
	RowsPerPage int  `json:"rows_per_page"`
	IsEmpty     bool `json:"is_empty"`
}

// Paginate returns rows [page*rowsPerPage, page*rowsPerPage+rowsPerPage) of the view.
// A page past the last one is empty, never an error; a negative page is read as the first one.
//
// Blank rows are counted against the unfiltered Total and only after the first page:
// max(0, (page+1)*rowsPerPage - Total).
func (v View[R]) Paginate(p PageState) Page[R] {
	if p.Page < 0 {
		p.Page = 0
	}
	page := Page[R]{
		Rows:        make([]R, 0),
		Count:       len(v.Rows),
		Total:       v.Total,
		Page:        p.Page,
		RowsPerPage: p.RowsPerPage,
		IsEmpty:     v.IsEmpty,
	}
	if p.RowsPerPage <= 0 {
		return page
	}

	// compare page numbers rather than offsets so huge pages cannot overflow
	if p.Page < pageCount(len(v.Rows), p.RowsPerPage) {
		start := p.Page * p.RowsPerPage
		end := start + p.RowsPerPage
		if end > len(v.Rows) {
			end = len(v.Rows)
		}
		page.Rows = v.Rows[start:end]
	}

	if p.Page > 0 {
		page.EmptyRows = emptyRows(p, v.Total)
	}
	return page
}

// Apply computes the view of rows and returns the requested page of it.
func Apply[R Row](rows []R, ordering SortState, filter FilterState, p PageState) Page[R] {
	return Compute(rows, ordering, filter).Paginate(p)
}

func pageCount(n, rowsPerPage int) int {
	return (n + rowsPerPage - 1) / rowsPerPage
}

func emptyRows(p PageState, total int) int {
	n := (p.Page+1)*p.RowsPerPage - total
	if n < 0 {
		return 0
	}
	return n
}

// Query bundles the state of a table a caller asks a page for.
type Query struct {
	Sort   SortState   `json:"sort"`
	Filter FilterState `json:"filter"`
	Page   PageState   `json:"page"`
}
