package domain

// Language is a supported content language. Code is the identifier and
// cannot change after creation. Only active languages show up as name
// fields in other forms.
type Language struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
	Audit
}

func (l Language) Key() string    { return l.Code }
func (l Language) IsActive() bool { return l.Active }

func (l Language) WithActive(active bool) Language {
	l.Active = active
	return l
}

// ActiveCodes returns the codes of the active languages in input order.
func ActiveCodes(ls []Language) []string {
	out := make([]string, 0, len(ls))
	for _, l := range ls {
		if l.Active {
			out = append(out, l.Code)
		}
	}
	return out
}

func (l Language) WithKey(key string) Language {
	l.Code = key
	return l
}
