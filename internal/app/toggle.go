package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"travel_console/internal/domain"
)

// Toggle flips active on one record. The server wants the full record, so the
// current local copy is resent with only active changed. Local state is
// patched on success and left alone on failure.
func (s *Screen[T]) Toggle(ctx context.Context, id string) (T, error) {
	var zero T

	s.mu.Lock()
	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return zero, domain.ErrNotFound
	}
	if _, busy := s.toggling[id]; busy {
		s.mu.Unlock()
		return zero, domain.ErrBusy
	}
	s.toggling[id] = struct{}{}
	cur := s.items[i]
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.toggling, id)
		s.mu.Unlock()
	}()

	out, err := s.res.Update(ctx, id, cur.WithActive(!cur.IsActive()))
	if err != nil {
		log.Warn().Err(err).Str("screen", s.name).Str("id", id).Msg("toggle failed")
		return zero, err
	}
	out = out.WithKey(id)
	s.patch(out)
	s.changed(ctx)
	return out, nil
}
