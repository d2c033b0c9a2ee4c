package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// displayString converts a raw record value to its display form. Nil renders
// as the empty string; JSON numbers drop a trailing ".0" so ids stay clean.
func displayString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// truthy tokens accepted by tri-state flags.
var truthyTokens = []string{"true", "yes", "ja", "ok", "1"}

// parseTriState maps a flag value to a tri-state archived/billable filter.
// The empty string means unset; a truthy token means true; everything else
// is treated as false.
func parseTriState(s string) *bool {
	if s == "" {
		return nil
	}
	v := truthy(s)
	return &v
}

func truthy(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, tok := range truthyTokens {
		if s == tok {
			return true
		}
	}
	return false
}

// splitColumns splits a comma-separated column list, dropping empty entries.
func splitColumns(s string) []string {
	var names []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			names = append(names, part)
		}
	}
	return names
}

// FormatDuration renders whole minutes as hours and minutes, "1:15" style.
func FormatDuration(minutes int64) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}

// parseDay accepts a YYYY-MM-DD day for the --date, --from and --to flags.
func parseDay(s string) (string, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t.Format("2006-01-02"), nil
}
