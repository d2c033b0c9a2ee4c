package main

import (
	"sort"
	"strings"
)

// FilterPredicate decides whether a record stays in the result set. Criteria
// compose with AND; a nil predicate keeps everything.
type FilterPredicate func(Record) bool

// listFilter builds a predicate from the configured criteria. Absent
// criteria impose no constraint.
type listFilter struct {
	// Search keeps records whose search attribute contains this substring,
	// case-insensitively.
	Search string
	// SearchAttr is the attribute Search matches against (name for most
	// kinds, note for time entries).
	SearchAttr string
	// Archived, when set, keeps only records whose archived flag equals it.
	Archived *bool
}

func (f listFilter) predicate() FilterPredicate {
	if f.Search == "" && f.Archived == nil {
		return nil
	}
	search := strings.ToLower(f.Search)
	return func(rec Record) bool {
		if search != "" && !strings.Contains(strings.ToLower(rec.String(f.SearchAttr)), search) {
			return false
		}
		if f.Archived != nil && rec.Bool("archived") != *f.Archived {
			return false
		}
		return true
	}
}

// Grid is the formatted result set: a header row plus one row of cell
// strings per record. Dimmed marks rows whose record is archived; the mark
// travels with the row regardless of selected columns and only matters to
// renderers that can style output.
type Grid struct {
	Columns []ColumnDefinition
	Header  []string
	Rows    [][]string
	Dimmed  []bool
}

// buildGrid runs records through filter, sort and projection. Sorting is
// stable and compares the string form of the sort attribute
// case-insensitively; the empty sortAttr leaves the fetched order untouched.
func buildGrid(records []Record, pred FilterPredicate, sortAttr string, cols []ColumnDefinition) Grid {
	kept := records
	if pred != nil {
		kept = make([]Record, 0, len(records))
		for _, rec := range records {
			if pred(rec) {
				kept = append(kept, rec)
			}
		}
	}

	if sortAttr != "" {
		sorted := make([]Record, len(kept))
		copy(sorted, kept)
		sort.SliceStable(sorted, func(i, j int) bool {
			a := strings.ToLower(sorted[i].String(sortAttr))
			b := strings.ToLower(sorted[j].String(sortAttr))
			return a < b
		})
		kept = sorted
	}

	grid := Grid{
		Columns: cols,
		Header:  make([]string, len(cols)),
		Rows:    make([][]string, 0, len(kept)),
		Dimmed:  make([]bool, 0, len(kept)),
	}
	for i, col := range cols {
		grid.Header[i] = col.Label
	}

	for _, rec := range kept {
		row := make([]string, len(cols))
		for i, col := range cols {
			raw := rec[col.Attribute]
			if col.Format != nil {
				row[i] = col.Format(raw, rec)
			} else {
				row[i] = displayString(raw)
			}
		}
		grid.Rows = append(grid.Rows, row)
		grid.Dimmed = append(grid.Dimmed, rec.Bool("archived"))
	}

	return grid
}
