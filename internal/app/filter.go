package app

import (
	"strings"

	"travel_console/internal/domain"
)

type Status string

const (
	StatusAll      Status = "all"
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// ParseStatus maps a query value to a Status; anything unknown is "all".
func ParseStatus(s string) Status {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusActive:
		return StatusActive
	case StatusInactive:
		return StatusInactive
	}
	return StatusAll
}

// Filter is the list-screen filter state. All set fields must match.
type Filter struct {
	Search string
	Status Status
	CityID string // hotels
	Type   string // contacts
}

func (f Filter) query() string { return strings.ToLower(strings.TrimSpace(f.Search)) }

func (f Filter) anyStatus() bool { return f.Status == StatusAll || f.Status == "" }

func (f Filter) status(active bool) bool {
	switch f.Status {
	case StatusActive:
		return active
	case StatusInactive:
		return !active
	}
	return true
}

// Apply returns the items keep accepts, preserving order. A nil keep returns
// the list unchanged.
func Apply[T any](items []T, keep func(T) bool) []T {
	if keep == nil {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// Cities builds the predicate for the cities screen; nil when f filters nothing.
func (f Filter) Cities() func(domain.City) bool {
	q := f.query()
	if q == "" && f.anyStatus() {
		return nil
	}
	return func(c domain.City) bool {
		return f.status(c.Active) && (q == "" || c.Name.Match(q))
	}
}

func (f Filter) Hotels() func(domain.Hotel) bool {
	q := f.query()
	if q == "" && f.CityID == "" && f.anyStatus() {
		return nil
	}
	return func(h domain.Hotel) bool {
		if !f.status(h.Active) {
			return false
		}
		if f.CityID != "" && h.CityID != f.CityID {
			return false
		}
		return q == "" || h.Name.Match(q)
	}
}

func (f Filter) Contacts() func(domain.Contact) bool {
	q := f.query()
	if q == "" && f.Type == "" && f.anyStatus() {
		return nil
	}
	return func(c domain.Contact) bool {
		if !f.status(c.Active) {
			return false
		}
		if f.Type != "" && c.Type != f.Type {
			return false
		}
		if q == "" {
			return true
		}
		return c.Name.Match(q) ||
			strings.Contains(strings.ToLower(c.Phone), q) ||
			strings.Contains(strings.ToLower(c.Email), q)
	}
}

func (f Filter) Languages() func(domain.Language) bool {
	q := f.query()
	if q == "" && f.anyStatus() {
		return nil
	}
	return func(l domain.Language) bool {
		if !f.status(l.Active) {
			return false
		}
		return q == "" ||
			strings.Contains(strings.ToLower(l.Code), q) ||
			strings.Contains(strings.ToLower(l.Name), q)
	}
}
