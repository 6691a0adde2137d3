package app_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel_console/internal/app"
	"travel_console/internal/domain"
)

func catalogWith(langs ...domain.Language) *app.Catalog {
	return app.NewCatalog(&fakeResource[domain.Language]{items: langs}, &fakeCache{}, 0)
}

func TestHotelForm(t *testing.T) {
	v := app.HotelForm(catalogWith(domain.Language{Code: "en", Active: true}, domain.Language{Code: "fr"}))
	ctx := context.Background()

	out, err := v(ctx, nil, domain.Hotel{Name: domain.Names{"en": "Ritz", "fr": "Ritz FR", "xx": "?"}, CityID: "c1", Rating: 4.5, Price: 10})
	require.NoError(t, err)
	assert.Equal(t, domain.Names{"en": "Ritz"}, out.Name, "inactive and unknown languages are dropped")

	_, err = v(ctx, nil, domain.Hotel{Name: domain.Names{"fr": "Only French"}, CityID: "c1"})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, app.MsgNameRequired, domain.Message(err))

	_, err = v(ctx, nil, domain.Hotel{Name: domain.Names{"en": "x"}, Rating: 6, Price: -1})
	require.ErrorIs(t, err, domain.ErrValidation)
	fields := domain.FieldErrors(err)
	assert.Contains(t, fields, "city_id")
	assert.Contains(t, fields, "rating")
	assert.Contains(t, fields, "price")
}

func TestContactForm(t *testing.T) {
	v := app.ContactForm(nil)
	ctx := context.Background()

	_, err := v(ctx, nil, domain.Contact{Name: domain.Names{"en": "Help"}})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = v(ctx, nil, domain.Contact{Name: domain.Names{"en": "Help"}, Type: "email", Email: "nope"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	out, err := v(ctx, nil, domain.Contact{Name: domain.Names{"ar": "مساعدة"}, Type: " email ", Email: "help@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "email", out.Type)
}

func TestLanguageForm(t *testing.T) {
	v := app.LanguageForm()
	ctx := context.Background()

	out, err := v(ctx, nil, domain.Language{Code: " FR ", Name: "French"})
	require.NoError(t, err)
	assert.Equal(t, "fr", out.Code)

	for _, code := range []string{"", "f", "fra", "f1"} {
		_, err := v(ctx, nil, domain.Language{Code: code, Name: "x"})
		assert.ErrorIs(t, err, domain.ErrValidation, code)
	}
	_, err = v(ctx, nil, domain.Language{Code: "de"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestValidateNewUser(t *testing.T) {
	_, err := app.ValidateNewUser(domain.NewUser{Name: "A", Email: "a@b.co", Password: "longenough", Role: "admin"})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, domain.FieldErrors(err), "role")

	u, err := app.ValidateNewUser(domain.NewUser{Name: " Ana ", Email: "ana@example.com", Password: "longenough", Role: "Editor"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.Name)
	assert.Equal(t, domain.RoleEditor, u.Role)

	_, err = app.ValidateNewUser(domain.NewUser{})
	fields := domain.FieldErrors(err)
	for _, k := range []string{"name", "email", "password", "role"} {
		assert.Contains(t, fields, k)
	}
}

func TestCatalog_CachesUntilInvalidated(t *testing.T) {
	langs := &fakeResource[domain.Language]{items: []domain.Language{{Code: "en", Active: true}, {Code: "ar", Active: true}}}
	cat := app.NewCatalog(langs, &fakeCache{}, 0)
	ctx := context.Background()

	codes, err := cat.ActiveCodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "ar"}, codes)

	langs.items = []domain.Language{{Code: "en", Active: true}}
	codes, _ = cat.ActiveCodes(ctx)
	assert.Equal(t, []string{"en", "ar"}, codes, "served from cache")

	cat.Invalidate(ctx)
	codes, _ = cat.ActiveCodes(ctx)
	assert.Equal(t, []string{"en"}, codes)
}

func TestCityForm_UpdateKeepsInactiveTranslations(t *testing.T) {
	res := &fakeResource[domain.City]{items: []domain.City{
		{ID: "sev", Name: domain.Names{"en": "Seville", "es": "Sevilla"}, Active: true},
	}}
	cat := catalogWith(domain.Language{Code: "en", Active: true}, domain.Language{Code: "es"})
	s := loadedCities(t, res, app.Options[domain.City]{Validate: app.CityForm(cat)})

	out, err := s.Update(context.Background(), "sev", domain.City{Name: domain.Names{"en": "Seville!"}, Active: true})
	require.NoError(t, err)
	require.Len(t, res.updates, 1)
	assert.Equal(t, domain.Names{"en": "Seville!", "es": "Sevilla"}, res.updates[0].Name)
	assert.Equal(t, "Sevilla", out.Name["es"])

	// a submitted value for an inactive language does not overwrite the stored one
	_, err = s.Update(context.Background(), "sev", domain.City{Name: domain.Names{"en": "Seville", "es": "changed"}})
	require.NoError(t, err)
	assert.Equal(t, "Sevilla", res.updates[1].Name["es"])
}

func TestCatalog_CacheWriteFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	langs := &fakeResource[domain.Language]{items: []domain.Language{{Code: "en", Active: true}}}
	cat := app.NewCatalog(langs, &fakeCache{setErr: errBoom}, 0)

	codes, err := cat.ActiveCodes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"en"}, codes)
	assert.Contains(t, buf.String(), "language cache write failed")
}
