package domain

import "time"

// Entity is implemented by every record a console screen lists.
// WithActive and WithKey return copies with only that field changed.
type Entity[T any] interface {
	Key() string
	IsActive() bool
	WithActive(active bool) T
	WithKey(key string) T
}

// Audit fields are set by the server; all optional.
type Audit struct {
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	CreatedBy string     `json:"created_by,omitempty"`
	UpdatedBy string     `json:"updated_by,omitempty"`
}

// Resource names as exposed by the upstream API and the console routes.
const (
	ResourceCities    = "cities"
	ResourceHotels    = "hotels"
	ResourceContacts  = "contacts"
	ResourceLanguages = "languages"
)
