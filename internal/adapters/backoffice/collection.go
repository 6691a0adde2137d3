package backoffice

import (
	"context"
	"net/http"
	"net/url"

	"travel_console/internal/domain"
)

// Collection is one REST resource (cities, hotels, ...) of the upstream API.
type Collection[T any] struct {
	c    *Client
	path string
}

var (
	_ domain.Resource[domain.City]     = (*Collection[domain.City])(nil)
	_ domain.Resource[domain.Hotel]    = (*Collection[domain.Hotel])(nil)
	_ domain.Resource[domain.Contact]  = (*Collection[domain.Contact])(nil)
	_ domain.Resource[domain.Language] = (*Collection[domain.Language])(nil)
)

func (r *Collection[T]) item(id string) string { return r.path + "/" + url.PathEscape(id) }

func (r *Collection[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	if _, err := r.c.do(ctx, http.MethodGet, r.path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var out T
	_, err := r.c.do(ctx, http.MethodGet, r.item(id), nil, &out)
	return out, err
}

// Create returns the stored record; when the server answers without a body
// the submitted value is returned.
func (r *Collection[T]) Create(ctx context.Context, v T) (T, error) {
	var out T
	ok, err := r.c.do(ctx, http.MethodPost, r.path, v, &out)
	if err != nil {
		var zero T
		return zero, err
	}
	if !ok {
		return v, nil
	}
	return out, nil
}

// Update sends the full payload v.
func (r *Collection[T]) Update(ctx context.Context, id string, v T) (T, error) {
	var out T
	ok, err := r.c.do(ctx, http.MethodPut, r.item(id), v, &out)
	if err != nil {
		var zero T
		return zero, err
	}
	if !ok {
		return v, nil
	}
	return out, nil
}

func (r *Collection[T]) Delete(ctx context.Context, id string) error {
	_, err := r.c.do(ctx, http.MethodDelete, r.item(id), nil, nil)
	return err
}
