package entities

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Importance is a coarse ranking of a place used to narrow the question pool.
type Importance int

const (
	ImportanceMinor    Importance = 1 // everything else
	ImportanceRegional Importance = 2 // regional cities
	ImportanceMajor    Importance = 3 // major cities and divisions
)

// AllImportances lists the defined tiers from highest to lowest.
var AllImportances = []Importance{ImportanceMajor, ImportanceRegional, ImportanceMinor}

// Valid reports whether the tier is one of the defined ones.
func (i Importance) Valid() bool {
	return i >= ImportanceMinor && i <= ImportanceMajor
}

// Label returns the user-facing description of the tier.
func (i Importance) Label() string {
	switch i {
	case ImportanceMajor:
		return "主要都市・州名"
	case ImportanceRegional:
		return "地方都市"
	default:
		return "それ以外"
	}
}

// ImportanceFilter is a set of tiers eligible for sampling.
// An empty filter, or one that covers every tier, does not restrict anything.
type ImportanceFilter map[Importance]struct{}

// NewImportanceFilter builds a filter from the given tiers, ignoring undefined ones.
func NewImportanceFilter(tiers ...Importance) ImportanceFilter {
	f := make(ImportanceFilter, len(tiers))
	for _, t := range tiers {
		if t.Valid() {
			f[t] = struct{}{}
		}
	}
	return f
}

// DefaultImportanceFilter returns the filter new users start with.
func DefaultImportanceFilter() ImportanceFilter {
	return NewImportanceFilter(ImportanceRegional, ImportanceMajor)
}

// Unrestricted reports whether the filter lets every record through.
func (f ImportanceFilter) Unrestricted() bool {
	if len(f) == 0 {
		return true
	}
	for _, t := range AllImportances {
		if _, ok := f[t]; !ok {
			return false
		}
	}
	return true
}

// Has reports whether the tier is explicitly selected.
func (f ImportanceFilter) Has(t Importance) bool {
	_, ok := f[t]
	return ok
}

// Allows reports whether a record of the given tier belongs to the pool.
func (f ImportanceFilter) Allows(t Importance) bool {
	if f.Unrestricted() {
		return true
	}
	return f.Has(t)
}

// Toggle returns a copy of the filter with the tier flipped.
// Deselecting the last tier selects all of them again.
func (f ImportanceFilter) Toggle(t Importance) ImportanceFilter {
	next := f.Clone()
	if next.Has(t) {
		delete(next, t)
	} else if t.Valid() {
		next[t] = struct{}{}
	}
	if len(next) == 0 {
		return NewImportanceFilter(AllImportances...)
	}
	return next
}

// Clone returns an independent copy of the filter.
func (f ImportanceFilter) Clone() ImportanceFilter {
	out := make(ImportanceFilter, len(f))
	for t := range f {
		out[t] = struct{}{}
	}
	return out
}

// Tiers returns the selected tiers in ascending order.
func (f ImportanceFilter) Tiers() []Importance {
	out := make([]Importance, 0, len(f))
	for t := range f {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// String encodes the filter as a comma separated list, e.g. "2,3".
func (f ImportanceFilter) String() string {
	tiers := f.Tiers()
	parts := make([]string, 0, len(tiers))
	for _, t := range tiers {
		parts = append(parts, strconv.Itoa(int(t)))
	}
	return strings.Join(parts, ",")
}

// ParseImportanceFilter decodes the form produced by ImportanceFilter.String.
func ParseImportanceFilter(s string) (ImportanceFilter, error) {
	f := make(ImportanceFilter)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("parse importance %q: %w", part, err)
		}
		t := Importance(n)
		if !t.Valid() {
			return nil, fmt.Errorf("importance out of range: %d", n)
		}
		f[t] = struct{}{}
	}
	return f, nil
}
