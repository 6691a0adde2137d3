package app

import (
	"context"

	"github.com/google/uuid"

	"travel_console/internal/domain"
)

// RequestDelete opens a confirmation for id and returns its one-shot token.
func (s *Screen[T]) RequestDelete(id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[id]; !ok {
		return "", domain.ErrNotFound
	}
	token := uuid.NewString()
	s.pending[token] = id
	return token, nil
}

// CancelDelete drops a pending confirmation.
func (s *Screen[T]) CancelDelete(token string) {
	s.mu.Lock()
	delete(s.pending, token)
	s.mu.Unlock()
}

// ConfirmDelete consumes token and deletes id if the token was issued for it.
func (s *Screen[T]) ConfirmDelete(ctx context.Context, id, token string) error {
	s.mu.Lock()
	pid, ok := s.pending[token]
	if ok && pid == id {
		delete(s.pending, token)
	}
	s.mu.Unlock()
	if !ok {
		return &domain.ValidationError{Message: "Delete confirmation expired. Please try again."}
	}
	if pid != id {
		return &domain.ValidationError{Message: "Delete confirmation does not match this record."}
	}
	return s.Delete(ctx, id)
}

// Delete removes id upstream and, on success, exactly that record locally.
// Callers are responsible for having confirmed.
func (s *Screen[T]) Delete(ctx context.Context, id string) error {
	if err := s.res.Delete(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	if i, ok := s.index[id]; ok {
		s.items = append(s.items[:i:i], s.items[i+1:]...)
		delete(s.selected, id)
		s.reindex()
	}
	for tok, pid := range s.pending {
		if pid == id {
			delete(s.pending, tok)
		}
	}
	s.mu.Unlock()
	s.changed(ctx)
	return nil
}
