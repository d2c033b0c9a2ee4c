package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/mitchellh/go-wordwrap"
)

const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatJSON  = "json"
)

var errUnknownFormat = errors.New("unknown output format")

// validateFormat rejects unsupported output formats before anything is
// fetched or printed.
func validateFormat(format string) error {
	switch format {
	case FormatTable, FormatCSV, FormatJSON:
		return nil
	}
	return fmt.Errorf("%w %q, valid formats: table, csv, json", errUnknownFormat, format)
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

// renderGrid serializes the grid in the requested format. The machine
// formats (csv, json) carry the plain formatted cell contents and ignore
// widths, wrapping and row styling, so the output survives piping.
func renderGrid(w io.Writer, g Grid, format string, color bool) error {
	switch format {
	case FormatTable:
		return renderTable(w, g, color)
	case FormatCSV:
		return renderCSV(w, g)
	case FormatJSON:
		return renderJSON(w, g)
	}
	return fmt.Errorf("%w %q, valid formats: table, csv, json", errUnknownFormat, format)
}

func renderCSV(w io.Writer, g Grid) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(g.Header); err != nil {
		return fmt.Errorf("error writing csv: %w", err)
	}
	for _, row := range g.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("error writing csv: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// renderJSON emits an array of objects keyed by column label, so the output
// can be parsed back losslessly by the next tool in the pipe.
func renderJSON(w io.Writer, g Grid) error {
	rows := make([]map[string]string, 0, len(g.Rows))
	for _, row := range g.Rows {
		obj := make(map[string]string, len(g.Header))
		for i, label := range g.Header {
			obj[label] = row[i]
		}
		rows = append(rows, obj)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("error encoding json: %w", err)
	}
	return nil
}

func renderTable(w io.Writer, g Grid, color bool) error {
	widths := columnWidths(g)

	// header
	cells := make([]string, len(g.Header))
	for i, label := range g.Header {
		cell := pad(label, widths[i], g.Columns[i].Align)
		if color {
			cell = headerStyle.Render(cell)
		}
		cells[i] = cell
	}
	if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " ")); err != nil {
		return err
	}

	// rows; wrapped columns may need several physical lines per record
	for rowIdx, row := range g.Rows {
		lines := rowLines(row, g.Columns, widths)
		for _, line := range lines {
			for i, cell := range line {
				cell = pad(cell, widths[i], g.Columns[i].Align)
				if color && g.Dimmed[rowIdx] {
					cell = dimStyle.Render(cell)
				}
				line[i] = cell
			}
			if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(line, "  "), " ")); err != nil {
				return err
			}
		}
	}

	return nil
}

// columnWidths computes the display width of each column: the configured
// width when set, otherwise the widest cell including the header.
func columnWidths(g Grid) []int {
	widths := make([]int, len(g.Columns))
	for i, col := range g.Columns {
		if col.Width > 0 {
			widths[i] = col.Width
			continue
		}
		widths[i] = runewidth.StringWidth(g.Header[i])
		for _, row := range g.Rows {
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

// rowLines expands one logical row into physical lines. Wrapped columns
// break at word boundaries within their width; fixed-width columns without
// wrap truncate; auto-sized columns always fit.
func rowLines(row []string, cols []ColumnDefinition, widths []int) [][]string {
	split := make([][]string, len(row))
	height := 1
	for i, cell := range row {
		switch {
		case cols[i].Wrap && widths[i] > 0:
			split[i] = strings.Split(wordwrap.WrapString(cell, uint(widths[i])), "\n")
		case cols[i].Width > 0:
			split[i] = []string{runewidth.Truncate(cell, widths[i], "…")}
		default:
			split[i] = []string{cell}
		}
		if len(split[i]) > height {
			height = len(split[i])
		}
	}

	lines := make([][]string, height)
	for lineIdx := range lines {
		line := make([]string, len(row))
		for i := range row {
			if lineIdx < len(split[i]) {
				line[i] = split[i][lineIdx]
			}
		}
		lines[lineIdx] = line
	}
	return lines
}

// pad aligns a cell within its column width, display-width aware so wide
// runes line up.
func pad(cell string, width int, align Alignment) string {
	gap := width - runewidth.StringWidth(cell)
	if gap <= 0 {
		return cell
	}
	if align == AlignRight {
		return strings.Repeat(" ", gap) + cell
	}
	return cell + strings.Repeat(" ", gap)
}
