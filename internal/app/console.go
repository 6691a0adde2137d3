package app

import (
	"context"
	"errors"
	"time"

	"travel_console/internal/domain"
)

// Backend is the set of upstream collections the console manages.
type Backend struct {
	Cities    domain.Resource[domain.City]
	Hotels    domain.Resource[domain.Hotel]
	Contacts  domain.Resource[domain.Contact]
	Languages domain.Resource[domain.Language]
	Users     domain.UserCreator
}

// Console groups the screens of the admin console.
type Console struct {
	Cities    *Screen[domain.City]
	Hotels    *Screen[domain.Hotel]
	Contacts  *Screen[domain.Contact]
	Languages *Screen[domain.Language]
	Catalog   *Catalog
	Journal   domain.BulkJournal

	users domain.UserCreator
}

type ConsoleConfig struct {
	Workers int
	Cache   domain.Cache
	Journal domain.BulkJournal
	// CacheTTL for the active-language list
	CacheTTL time.Duration
}

func NewConsole(b Backend, cfg ConsoleConfig) *Console {
	cat := NewCatalog(b.Languages, cfg.Cache, cfg.CacheTTL)
	return &Console{
		Cities: NewScreen(domain.ResourceCities, b.Cities, Options[domain.City]{
			Workers: cfg.Workers, Journal: cfg.Journal, Validate: CityForm(cat),
		}),
		Hotels: NewScreen(domain.ResourceHotels, b.Hotels, Options[domain.Hotel]{
			Workers: cfg.Workers, Journal: cfg.Journal, Validate: HotelForm(cat),
		}),
		Contacts: NewScreen(domain.ResourceContacts, b.Contacts, Options[domain.Contact]{
			Workers: cfg.Workers, Journal: cfg.Journal, Validate: ContactForm(cat),
		}),
		Languages: NewScreen(domain.ResourceLanguages, b.Languages, Options[domain.Language]{
			Workers: cfg.Workers, Journal: cfg.Journal, Validate: LanguageForm(), OnChange: cat.Invalidate,
		}),
		Catalog: cat,
		Journal: cfg.Journal,
		users:   b.Users,
	}
}

// CreateUser validates the restricted-role form and submits it.
func (c *Console) CreateUser(ctx context.Context, u domain.NewUser) (domain.User, error) {
	u, err := ValidateNewUser(u)
	if err != nil {
		return domain.User{}, err
	}
	return c.users.CreateUser(ctx, u)
}

// CreateLanguage maps a uniqueness conflict to its own message.
func (c *Console) CreateLanguage(ctx context.Context, l domain.Language) (domain.Language, error) {
	out, err := c.Languages.Create(ctx, l)
	if errors.Is(err, domain.ErrConflict) {
		var ae *domain.APIError
		fields := map[string]string{"code": MsgLanguageConflict}
		if errors.As(err, &ae) && len(ae.Fields) > 0 {
			fields = ae.Fields
		}
		return out, &domain.APIError{Status: 409, Message: MsgLanguageConflict, Fields: fields}
	}
	return out, err
}

// RetryRun re-reconciles the failed ids of a journaled run on its screen.
func (c *Console) RetryRun(ctx context.Context, runID string) (BulkResult, error) {
	if c.Journal == nil {
		return BulkResult{}, domain.ErrNotFound
	}
	run, err := c.Journal.GetRun(ctx, runID)
	if err != nil {
		return BulkResult{}, err
	}
	switch run.Resource {
	case domain.ResourceCities:
		return c.Cities.retry(ctx, run)
	case domain.ResourceHotels:
		return c.Hotels.retry(ctx, run)
	case domain.ResourceContacts:
		return c.Contacts.retry(ctx, run)
	case domain.ResourceLanguages:
		return c.Languages.retry(ctx, run)
	}
	return BulkResult{}, domain.ErrNotFound
}
