package app

import (
	"context"
	"net/mail"
	"strings"

	"travel_console/internal/domain"
)

const (
	MsgNameRequired     = "Please provide a name in at least one language."
	MsgLanguageConflict = "Language code already exists."
)

func invalid(msg string, fields map[string]string) error {
	return &domain.ValidationError{Message: msg, Fields: fields}
}

// cleanNames trims values and keeps only active language codes. Stored
// translations in languages that are not editable right now are carried over
// from prev, since the update replaces the whole record upstream. When the
// catalog cannot be read the submitted keys are kept; the server decides.
func cleanNames(ctx context.Context, cat *Catalog, prev, n domain.Names) (domain.Names, error) {
	allowed := map[string]bool{}
	if cat != nil {
		if codes, err := cat.ActiveCodes(ctx); err == nil {
			for _, c := range codes {
				allowed[c] = true
			}
		}
	}
	out := make(domain.Names, len(n))
	for k, v := range n {
		k = strings.ToLower(strings.TrimSpace(k))
		if len(allowed) > 0 && !allowed[k] {
			continue
		}
		out[k] = strings.TrimSpace(v)
	}
	if !out.HasAny() {
		return nil, invalid(MsgNameRequired, map[string]string{"name": MsgNameRequired})
	}
	if len(allowed) > 0 {
		for k, v := range prev {
			if !allowed[k] {
				out[k] = v
			}
		}
	}
	return out, nil
}

func CityForm(cat *Catalog) Validator[domain.City] {
	return func(ctx context.Context, old *domain.City, v domain.City) (domain.City, error) {
		var prev domain.Names
		if old != nil {
			prev = old.Name
		}
		names, err := cleanNames(ctx, cat, prev, v.Name)
		if err != nil {
			return v, err
		}
		v.Name = names
		return v, nil
	}
}

func HotelForm(cat *Catalog) Validator[domain.Hotel] {
	return func(ctx context.Context, old *domain.Hotel, v domain.Hotel) (domain.Hotel, error) {
		var prev domain.Names
		if old != nil {
			prev = old.Name
		}
		names, err := cleanNames(ctx, cat, prev, v.Name)
		if err != nil {
			return v, err
		}
		v.Name = names
		fields := map[string]string{}
		if strings.TrimSpace(v.CityID) == "" {
			fields["city_id"] = "Please choose a city."
		}
		if v.Rating < 0 || v.Rating > 5 {
			fields["rating"] = "Rating must be between 0 and 5."
		}
		if v.Price < 0 {
			fields["price"] = "Price cannot be negative."
		}
		if len(fields) > 0 {
			return v, invalid("Please fix the highlighted fields.", fields)
		}
		return v, nil
	}
}

func ContactForm(cat *Catalog) Validator[domain.Contact] {
	return func(ctx context.Context, old *domain.Contact, v domain.Contact) (domain.Contact, error) {
		var prev domain.Names
		if old != nil {
			prev = old.Name
		}
		names, err := cleanNames(ctx, cat, prev, v.Name)
		if err != nil {
			return v, err
		}
		v.Name = names
		v.Type = strings.TrimSpace(v.Type)
		if v.Type == "" {
			return v, invalid("Please choose a contact type.", map[string]string{"contact_type": "required"})
		}
		if v.Email != "" {
			if _, err := mail.ParseAddress(v.Email); err != nil {
				return v, invalid("Please enter a valid email address.", map[string]string{"email": "invalid"})
			}
		}
		return v, nil
	}
}

// LanguageForm enforces a two-letter code that never changes after creation.
func LanguageForm() Validator[domain.Language] {
	return func(_ context.Context, old *domain.Language, v domain.Language) (domain.Language, error) {
		v.Code = strings.ToLower(strings.TrimSpace(v.Code))
		v.Name = strings.TrimSpace(v.Name)
		if old != nil {
			if v.Code != "" && v.Code != old.Code {
				return v, invalid("Language code cannot be changed.", map[string]string{"code": "immutable"})
			}
			v.Code = old.Code
		} else if !isLangCode(v.Code) {
			return v, invalid("Language code must be exactly two letters.", map[string]string{"code": "invalid"})
		}
		if v.Name == "" {
			return v, invalid("Please provide a language name.", map[string]string{"name": "required"})
		}
		return v, nil
	}
}

func isLangCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}

// ValidateNewUser checks the restricted-role user form.
func ValidateNewUser(u domain.NewUser) (domain.NewUser, error) {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.TrimSpace(u.Email)
	u.Role = strings.ToLower(strings.TrimSpace(u.Role))
	fields := map[string]string{}
	if u.Name == "" {
		fields["name"] = "required"
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		fields["email"] = "invalid"
	}
	if len(u.Password) < 8 {
		fields["password"] = "must be at least 8 characters"
	}
	if u.Role != domain.RoleEditor && u.Role != domain.RoleViewer {
		fields["role"] = "must be editor or viewer"
	}
	if len(fields) > 0 {
		return u, invalid("Please fix the highlighted fields.", fields)
	}
	return u, nil
}
