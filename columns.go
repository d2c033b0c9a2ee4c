package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// Formatter turns a raw attribute value into its display string. The whole
// record is passed along for formatters that need a second attribute.
type Formatter func(v any, rec Record) string

// ColumnDefinition describes one output column: where its value comes from
// and how it is displayed.
type ColumnDefinition struct {
	Name      string // catalog key, what --columns refers to
	Label     string // header text
	Attribute string // record key to read
	Width     int    // fixed display width; 0 auto-sizes
	Align     Alignment
	Wrap      bool // wrap at word boundaries instead of truncating
	Format    Formatter
}

var (
	errUnknownColumn  = errors.New("unknown column")
	errUnknownSortKey = errors.New("unknown sort key")
)

// Catalog is the fixed registry of output columns for one entity kind, plus
// the sort keys the kind exposes. Sort keys may alias a different underlying
// attribute (user-facing "rate" sorts on "hourly_rate").
type Catalog struct {
	kind     EntityKind
	columns  map[string]ColumnDefinition
	defaults []string
	sortKeys map[string]string
}

func newCatalog(kind EntityKind, defaults []string, sortKeys map[string]string, cols ...ColumnDefinition) *Catalog {
	byName := make(map[string]ColumnDefinition, len(cols))
	for _, col := range cols {
		byName[col.Name] = col
	}
	return &Catalog{kind: kind, columns: byName, defaults: defaults, sortKeys: sortKeys}
}

// Resolve looks up the requested column names in order. An unknown name is a
// configuration error naming the offender and the valid set.
func (c *Catalog) Resolve(names []string) ([]ColumnDefinition, error) {
	if len(names) == 0 {
		names = c.defaults
	}
	cols := make([]ColumnDefinition, 0, len(names))
	for _, name := range names {
		col, ok := c.columns[name]
		if !ok {
			return nil, fmt.Errorf("%w %q for %s, valid columns: %s",
				errUnknownColumn, name, c.kind, strings.Join(c.ColumnNames(), ", "))
		}
		cols = append(cols, col)
	}
	return cols, nil
}

// SortAttribute maps a user-facing sort key to the underlying attribute.
// The empty key means no sorting and resolves to the empty attribute.
func (c *Catalog) SortAttribute(key string) (string, error) {
	if key == "" {
		return "", nil
	}
	attr, ok := c.sortKeys[key]
	if !ok {
		return "", fmt.Errorf("%w %q for %s, valid keys: %s",
			errUnknownSortKey, key, c.kind, strings.Join(c.SortKeyNames(), ", "))
	}
	return attr, nil
}

func (c *Catalog) ColumnNames() []string {
	names := make([]string, 0, len(c.columns))
	for name := range c.columns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Catalog) SortKeyNames() []string {
	names := make([]string, 0, len(c.sortKeys))
	for name := range c.sortKeys {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// catalogFor returns the column registry for an entity kind.
func catalogFor(kind EntityKind) *Catalog {
	switch kind {
	case EntityCustomer:
		return customerCatalog
	case EntityService:
		return serviceCatalog
	case EntityProject:
		return projectCatalog
	case EntityTimeEntry:
		return timeEntryCatalog
	}
	return nil
}

var customerCatalog = newCatalog(EntityCustomer,
	[]string{"id", "name", "rate", "note", "archived"},
	map[string]string{
		"id":      "id",
		"name":    "name",
		"rate":    "hourly_rate",
		"created": "created_at",
		"updated": "updated_at",
	},
	ColumnDefinition{Name: "id", Label: "id", Attribute: "id", Align: AlignRight},
	ColumnDefinition{Name: "name", Label: "name", Attribute: "name"},
	ColumnDefinition{Name: "rate", Label: "rate", Attribute: "hourly_rate", Align: AlignRight, Format: formatMoney},
	ColumnDefinition{Name: "note", Label: "note", Attribute: "note", Width: 50, Wrap: true},
	ColumnDefinition{Name: "archived", Label: "archived", Attribute: "archived"},
	ColumnDefinition{Name: "created", Label: "created", Attribute: "created_at", Format: formatTimestamp},
	ColumnDefinition{Name: "updated", Label: "updated", Attribute: "updated_at", Format: formatTimestamp},
)

var serviceCatalog = newCatalog(EntityService,
	[]string{"id", "name", "rate", "billable", "note", "archived"},
	map[string]string{
		"id":      "id",
		"name":    "name",
		"rate":    "hourly_rate",
		"created": "created_at",
		"updated": "updated_at",
	},
	ColumnDefinition{Name: "id", Label: "id", Attribute: "id", Align: AlignRight},
	ColumnDefinition{Name: "name", Label: "name", Attribute: "name"},
	ColumnDefinition{Name: "rate", Label: "rate", Attribute: "hourly_rate", Align: AlignRight, Format: formatMoney},
	ColumnDefinition{Name: "billable", Label: "billable", Attribute: "billable"},
	ColumnDefinition{Name: "note", Label: "note", Attribute: "note", Width: 50, Wrap: true},
	ColumnDefinition{Name: "archived", Label: "archived", Attribute: "archived"},
	ColumnDefinition{Name: "created", Label: "created", Attribute: "created_at", Format: formatTimestamp},
	ColumnDefinition{Name: "updated", Label: "updated", Attribute: "updated_at", Format: formatTimestamp},
)

var projectCatalog = newCatalog(EntityProject,
	[]string{"id", "name", "customer", "budget", "rate", "archived"},
	map[string]string{
		"id":       "id",
		"name":     "name",
		"customer": "customer_name",
		"rate":     "hourly_rate",
		"budget":   "budget",
		"created":  "created_at",
		"updated":  "updated_at",
	},
	ColumnDefinition{Name: "id", Label: "id", Attribute: "id", Align: AlignRight},
	ColumnDefinition{Name: "name", Label: "name", Attribute: "name"},
	ColumnDefinition{Name: "customer", Label: "customer", Attribute: "customer_name"},
	ColumnDefinition{Name: "budget", Label: "budget", Attribute: "budget", Align: AlignRight, Format: formatMoney},
	ColumnDefinition{Name: "rate", Label: "rate", Attribute: "hourly_rate", Align: AlignRight, Format: formatMoney},
	ColumnDefinition{Name: "note", Label: "note", Attribute: "note", Width: 50, Wrap: true},
	ColumnDefinition{Name: "archived", Label: "archived", Attribute: "archived"},
	ColumnDefinition{Name: "created", Label: "created", Attribute: "created_at", Format: formatTimestamp},
	ColumnDefinition{Name: "updated", Label: "updated", Attribute: "updated_at", Format: formatTimestamp},
)

var timeEntryCatalog = newCatalog(EntityTimeEntry,
	[]string{"id", "date", "customer", "project", "service", "time", "note"},
	map[string]string{
		"id":       "id",
		"date":     "date_at",
		"customer": "customer_name",
		"project":  "project_name",
		"service":  "service_name",
		"time":     "minutes",
		"user":     "user_name",
	},
	ColumnDefinition{Name: "id", Label: "id", Attribute: "id", Align: AlignRight},
	ColumnDefinition{Name: "date", Label: "date", Attribute: "date_at", Format: formatTimestamp},
	ColumnDefinition{Name: "customer", Label: "customer", Attribute: "customer_name"},
	ColumnDefinition{Name: "project", Label: "project", Attribute: "project_name"},
	ColumnDefinition{Name: "service", Label: "service", Attribute: "service_name"},
	ColumnDefinition{Name: "time", Label: "time", Attribute: "minutes", Align: AlignRight, Format: formatMinutes},
	ColumnDefinition{Name: "note", Label: "note", Attribute: "note", Width: 50, Wrap: true},
	ColumnDefinition{Name: "billable", Label: "billable", Attribute: "billable"},
	ColumnDefinition{Name: "locked", Label: "locked", Attribute: "locked"},
	ColumnDefinition{Name: "user", Label: "user", Attribute: "user_name"},
)

// formatMoney renders an amount in minor units (cents) as a fixed-point
// decimal. Zero and missing values render as "-", not "0.00": a customer
// without a rate has no rate, rather than a free one.
func formatMoney(v any, _ Record) string {
	cents := toInt64(v)
	if cents == 0 {
		return "-"
	}
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// formatMinutes renders a whole-minute amount as hours and minutes.
func formatMinutes(v any, _ Record) string {
	return FormatDuration(toInt64(v))
}

// formatTimestamp trims an RFC 3339 timestamp down to its date. Bare dates
// and unparseable values pass through unchanged.
func formatTimestamp(v any, _ Record) string {
	s := displayString(v)
	if s == "" {
		return ""
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format("2006-01-02")
	}
	return s
}
