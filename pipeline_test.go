package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func namedCols() []ColumnDefinition {
	return []ColumnDefinition{
		{Name: "id", Label: "id", Attribute: "id", Align: AlignRight},
		{Name: "name", Label: "name", Attribute: "name"},
	}
}

func TestBuildGridFilterKeepsOrder(t *testing.T) {
	records := []Record{
		{"id": float64(1), "name": "Delta", "archived": false},
		{"id": float64(2), "name": "Alpha", "archived": true},
		{"id": float64(3), "name": "Echo", "archived": false},
		{"id": float64(4), "name": "Alphabet", "archived": false},
	}

	archived := false
	filter := listFilter{Search: "al", SearchAttr: "name", Archived: &archived}

	grid := buildGrid(records, filter.predicate(), "", namedCols())

	// only the unarchived records containing "al", in fetch order
	require.Len(t, grid.Rows, 2)
	assert.Equal(t, []string{"1", "Delta"}, grid.Rows[0])
	assert.Equal(t, []string{"4", "Alphabet"}, grid.Rows[1])
}

func TestBuildGridNoCriteriaPassesEverything(t *testing.T) {
	records := []Record{
		{"id": float64(1), "name": "B"},
		{"id": float64(2), "name": "A"},
	}

	grid := buildGrid(records, listFilter{}.predicate(), "", namedCols())

	require.Len(t, grid.Rows, 2)
	// no sort key configured: fetch order is preserved exactly
	assert.Equal(t, "B", grid.Rows[0][1])
	assert.Equal(t, "A", grid.Rows[1][1])
}

func TestBuildGridSortIsStable(t *testing.T) {
	records := []Record{
		{"id": float64(1), "name": "same"},
		{"id": float64(2), "name": "same"},
		{"id": float64(3), "name": "aaa"},
		{"id": float64(4), "name": "same"},
	}

	grid := buildGrid(records, nil, "name", namedCols())

	require.Len(t, grid.Rows, 4)
	assert.Equal(t, "3", grid.Rows[0][0])
	// equal keys keep their relative fetch order
	assert.Equal(t, "1", grid.Rows[1][0])
	assert.Equal(t, "2", grid.Rows[2][0])
	assert.Equal(t, "4", grid.Rows[3][0])
}

func TestBuildGridSortIsCaseInsensitive(t *testing.T) {
	records := []Record{
		{"id": float64(1), "name": "zebra"},
		{"id": float64(2), "name": "Apple"},
		{"id": float64(3), "name": "apricot"},
	}

	grid := buildGrid(records, nil, "name", namedCols())

	assert.Equal(t, "Apple", grid.Rows[0][1])
	assert.Equal(t, "apricot", grid.Rows[1][1])
	assert.Equal(t, "zebra", grid.Rows[2][1])
}

func TestBuildGridSortMissingAttributeFallsBackToStringForm(t *testing.T) {
	records := []Record{
		{"id": float64(1), "name": "b", "hourly_rate": float64(900)},
		{"id": float64(2), "name": "a"},
	}

	// records without the attribute compare as the empty string, first
	grid := buildGrid(records, nil, "hourly_rate", namedCols())

	assert.Equal(t, "2", grid.Rows[0][0])
	assert.Equal(t, "1", grid.Rows[1][0])
}

func TestBuildGridProjection(t *testing.T) {
	records := []Record{
		{"id": float64(7), "name": nil, "hourly_rate": float64(1050)},
	}
	cols := []ColumnDefinition{
		{Name: "name", Label: "name", Attribute: "name"},
		{Name: "rate", Label: "rate", Attribute: "hourly_rate", Format: formatMoney},
		{Name: "missing", Label: "missing", Attribute: "no_such_attr"},
	}

	grid := buildGrid(records, nil, "", cols)

	require.Len(t, grid.Rows, 1)
	// nulls and absent attributes render empty, formatters apply per column
	assert.Equal(t, []string{"", "10.50", ""}, grid.Rows[0])
}

func TestBuildGridMarksArchivedRowsDimmed(t *testing.T) {
	records := []Record{
		{"id": float64(1), "name": "B", "archived": false},
		{"id": float64(2), "name": "A", "archived": true},
	}

	// the mark travels with the row even though no archived column was asked for
	grid := buildGrid(records, nil, "name", namedCols())

	require.Equal(t, []string{"id", "name"}, grid.Header)
	require.Len(t, grid.Rows, 2)
	assert.Equal(t, []string{"2", "A"}, grid.Rows[0])
	assert.Equal(t, []string{"1", "B"}, grid.Rows[1])
	assert.Equal(t, []bool{true, false}, grid.Dimmed)
}
