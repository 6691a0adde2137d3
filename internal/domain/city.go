package domain

type City struct {
	ID     string `json:"id,omitempty"`
	Name   Names  `json:"name"`
	Active bool   `json:"active"`
	Audit
}

func (c City) Key() string    { return c.ID }
func (c City) IsActive() bool { return c.Active }

func (c City) WithActive(active bool) City {
	c.Name = c.Name.Clone()
	c.Active = active
	return c
}

func (c City) WithKey(key string) City {
	c.ID = key
	return c
}
