package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pkg/errors"

	"github.com/trezcool/dashboard/core"
	"github.com/trezcool/dashboard/core/room"
	"github.com/trezcool/dashboard/core/tableview"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Faint(true)
)

// listRooms prints a page of the rooms table. Pages after the first are padded with
// blank rows so that every page has the same height.
func (cli *commandLine) listRooms(ordering, search string, page, rowsPerPage int) error {
	q := tableview.Query{
		Sort:   tableview.ParseOrdering(ordering, room.DefaultSort),
		Filter: tableview.FilterState{Query: core.CleanString(search)},
		Page:   tableview.PageState{Page: page, RowsPerPage: rowsPerPage},
	}
	p, err := cli.roomSvc.List(context.Background(), q)
	if err != nil {
		return errors.Wrap(err, "listing rooms")
	}

	rows := make([][]string, 0, len(p.Rows)+p.EmptyRows)
	for _, rm := range p.Rows {
		rows = append(rows, []string{rm.Name, rm.Description, strconv.Itoa(rm.NumberOfCameras)})
	}
	for i := 0; i < p.EmptyRows; i++ {
		rows = append(rows, []string{"", "", ""})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("NAME", "DESCRIPTION", "CAMERAS").
		Rows(rows...)
	fmt.Fprintln(cli.out, t.Render())

	if p.IsEmpty {
		fmt.Fprintln(cli.out, footerStyle.Render(fmt.Sprintf("No results found for %q.", q.Filter.Query)))
		return nil
	}
	fmt.Fprintln(cli.out, footerStyle.Render(fmt.Sprintf(
		"page %d, %d of %d rooms, sorted by %s", p.Page, len(p.Rows), p.Count, q.Sort,
	)))
	return nil
}
