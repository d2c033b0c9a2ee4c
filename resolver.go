package main

import (
	"errors"
	"fmt"
	"strings"
)

var (
	errNoMatch        = errors.New("no match")
	errAmbiguousMatch = errors.New("ambiguous match")
)

// resolveCandidate turns a free-text query into the unique candidate whose
// name contains it, case-insensitively. Zero matches and multiple matches
// are both terminal: ambiguity is reported back to the user, never resolved
// by picking one.
func resolveCandidate(candidates []Candidate, query string) (Candidate, error) {
	needle := strings.ToLower(query)

	var matches []Candidate
	for _, cand := range candidates {
		if strings.Contains(strings.ToLower(cand.Name), needle) {
			matches = append(matches, cand)
		}
	}

	switch len(matches) {
	case 0:
		return Candidate{}, fmt.Errorf("%w for %q", errNoMatch, query)
	case 1:
		return matches[0], nil
	}

	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.Name
	}
	return Candidate{}, fmt.Errorf("%w: %q matches %s",
		errAmbiguousMatch, query, strings.Join(names, ", "))
}
