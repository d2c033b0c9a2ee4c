package main

import "strconv"

// Record is one entity instance as returned by the API: a flat mapping from
// attribute name to a scalar value (string, number, bool or nil).
type Record map[string]any

// String returns the display form of an attribute. Missing and nil values
// come back as the empty string.
func (r Record) String(attr string) string {
	return displayString(r[attr])
}

// Int reads a numeric attribute. JSON numbers decode as float64, so both
// shapes are accepted.
func (r Record) Int(attr string) int64 {
	return toInt64(r[attr])
}

func toInt64(v any) int64 {
	switch val := v.(type) {
	case float64:
		return int64(val)
	case int64:
		return val
	case int:
		return int64(val)
	case string:
		n, _ := strconv.ParseInt(val, 10, 64)
		return n
	}
	return 0
}

// Bool reads a boolean attribute; anything but a true bool is false.
func (r Record) Bool(attr string) bool {
	b, _ := r[attr].(bool)
	return b
}

type EntityKind string

const (
	EntityCustomer  EntityKind = "customers"
	EntityService   EntityKind = "services"
	EntityProject   EntityKind = "projects"
	EntityTimeEntry EntityKind = "time_entries"
)

// singular returns the envelope key the API wraps a single record in.
func (k EntityKind) singular() string {
	switch k {
	case EntityCustomer:
		return "customer"
	case EntityService:
		return "service"
	case EntityProject:
		return "project"
	case EntityTimeEntry:
		return "time_entry"
	}
	return string(k)
}

// Candidate is a named, identified option handed to the name resolver or an
// interactive menu.
type Candidate struct {
	Name string
	ID   int64
}

// candidatesFromRecords flattens records to name+id pairs, keeping order.
func candidatesFromRecords(records []Record) []Candidate {
	candidates := make([]Candidate, 0, len(records))
	for _, rec := range records {
		candidates = append(candidates, Candidate{
			Name: rec.String("name"),
			ID:   rec.Int("id"),
		})
	}
	return candidates
}
