package domain

// Contact is a public contact channel (phone line, email, social link).
type Contact struct {
	ID     string `json:"id,omitempty"`
	Name   Names  `json:"name"`
	Type   string `json:"contact_type"`
	Link   string `json:"link,omitempty"`
	Icon   string `json:"icon,omitempty"`
	Phone  string `json:"phone,omitempty"`
	Email  string `json:"email,omitempty"`
	Active bool   `json:"active"`
	Audit
}

func (c Contact) Key() string    { return c.ID }
func (c Contact) IsActive() bool { return c.Active }

func (c Contact) WithActive(active bool) Contact {
	c.Name = c.Name.Clone()
	c.Active = active
	return c
}

func (c Contact) WithKey(key string) Contact {
	c.ID = key
	return c
}
