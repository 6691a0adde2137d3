package domain

type Hotel struct {
	ID     string  `json:"id,omitempty"`
	Name   Names   `json:"name"`
	CityID string  `json:"city_id"`
	Rating float64 `json:"rating"`
	Price  float64 `json:"price"`
	Active bool    `json:"active"`
	Audit
}

func (h Hotel) Key() string    { return h.ID }
func (h Hotel) IsActive() bool { return h.Active }

func (h Hotel) WithActive(active bool) Hotel {
	h.Name = h.Name.Clone()
	h.Active = active
	return h
}

func (h Hotel) WithKey(key string) Hotel {
	h.ID = key
	return h
}
