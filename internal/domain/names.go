package domain

import "strings"

// Names maps a language code (en, fr, ar, ...) to a localized display name.
type Names map[string]string

// HasAny reports whether at least one language has a non-blank value.
func (n Names) HasAny() bool {
	for _, v := range n {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

// Match reports whether any populated value contains q, ignoring case.
// q is expected to be lower-cased already.
func (n Names) Match(q string) bool {
	for _, v := range n {
		if v == "" {
			continue
		}
		if strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}

// Clone returns a copy that does not share the backing map.
func (n Names) Clone() Names {
	if n == nil {
		return nil
	}
	out := make(Names, len(n))
	for k, v := range n {
		out[k] = v
	}
	return out
}
