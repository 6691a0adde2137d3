package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"travel_console/internal/domain"
)

// State of a list screen. An error is terminal until Load is called again.
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

// Validator checks and normalizes a form submission before any request is
// sent. old is nil on create.
type Validator[T any] func(ctx context.Context, old *T, v T) (T, error)

type Options[T any] struct {
	Workers  int                   // bulk concurrency, default 8
	Journal  domain.BulkJournal    // optional
	Validate Validator[T]          // optional
	OnChange func(context.Context) // called after any successful mutation
}

// Screen owns the in-memory list behind one console screen: the ordered
// records, an id index, the selection, and the per-row / batch busy flags.
// Only the screen mutates its list.
type Screen[T domain.Entity[T]] struct {
	name string
	res  domain.Resource[T]
	opts Options[T]

	mu       sync.RWMutex
	state    State
	fetched  bool
	err      error
	items    []T
	index    map[string]int
	selected map[string]struct{}
	toggling map[string]struct{}
	bulk     bool
	pending  map[string]string // delete confirmation token -> id
}

func NewScreen[T domain.Entity[T]](name string, res domain.Resource[T], opts Options[T]) *Screen[T] {
	if opts.Workers <= 0 {
		opts.Workers = 8
	}
	return &Screen[T]{
		name:     name,
		res:      res,
		opts:     opts,
		state:    StateLoading,
		index:    map[string]int{},
		selected: map[string]struct{}{},
		toggling: map[string]struct{}{},
		pending:  map[string]string{},
	}
}

func (s *Screen[T]) Name() string { return s.name }

// Load fetches the full collection: loading -> ready, or loading -> error.
func (s *Screen[T]) Load(ctx context.Context) error {
	s.mu.Lock()
	s.state = StateLoading
	s.err = nil
	s.mu.Unlock()

	items, err := s.res.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetched = true
	if err != nil {
		s.state = StateError
		s.err = err
		log.Warn().Err(err).Str("screen", s.name).Msg("list load failed")
		return err
	}
	s.items = items
	s.reindex()
	s.state = StateReady
	return nil
}

// EnsureLoaded loads on first use and otherwise reports the current outcome.
func (s *Screen[T]) EnsureLoaded(ctx context.Context) error {
	s.mu.RLock()
	fetched, err := s.fetched, s.err
	s.mu.RUnlock()
	if !fetched {
		return s.Load(ctx)
	}
	return err
}

// Status returns the screen state and the last load error.
func (s *Screen[T]) Status() (State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, s.err
}

// Items returns a copy of the full list in server order.
func (s *Screen[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Screen[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i, ok := s.index[id]; ok {
		return s.items[i], true
	}
	var zero T
	return zero, false
}

// Filter returns the visible subset for keep (nil keeps everything).
func (s *Screen[T]) Filter(keep func(T) bool) []T {
	return Apply(s.Items(), keep)
}

// Busy reports whether id is being toggled and whether a batch is running.
func (s *Screen[T]) Busy(id string) (toggling, bulk bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, toggling = s.toggling[id]
	return toggling, s.bulk
}

// ---- selection ----

func (s *Screen[T]) Select(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if _, ok := s.index[id]; ok {
			s.selected[id] = struct{}{}
		}
	}
}

// Selection returns the selected ids in list order.
func (s *Screen[T]) Selection() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.selected))
	for _, it := range s.items {
		if _, ok := s.selected[it.Key()]; ok {
			out = append(out, it.Key())
		}
	}
	return out
}

// ---- create / update ----

func (s *Screen[T]) Create(ctx context.Context, v T) (T, error) {
	var zero T
	if s.opts.Validate != nil {
		nv, err := s.opts.Validate(ctx, nil, v)
		if err != nil {
			return zero, err
		}
		v = nv
	}
	out, err := s.res.Create(ctx, v)
	if err != nil {
		return zero, err
	}
	s.mu.Lock()
	s.items = append(s.items, out)
	s.reindex()
	s.mu.Unlock()
	s.changed(ctx)
	return out, nil
}

// Update sends the full payload for id and replaces the local record.
func (s *Screen[T]) Update(ctx context.Context, id string, v T) (T, error) {
	var zero T
	old, ok := s.Get(id)
	if !ok {
		got, err := s.res.Get(ctx, id)
		if err != nil {
			return zero, err
		}
		old = got
	}
	if s.opts.Validate != nil {
		nv, err := s.opts.Validate(ctx, &old, v)
		if err != nil {
			return zero, err
		}
		v = nv
	}
	v = v.WithKey(id)
	out, err := s.res.Update(ctx, id, v)
	if err != nil {
		return zero, err
	}
	out = out.WithKey(id)
	s.patch(out)
	s.changed(ctx)
	return out, nil
}

// ---- internals ----

// reindex rebuilds the id index and drops selections of vanished ids.
// Callers hold mu.
func (s *Screen[T]) reindex() {
	s.index = make(map[string]int, len(s.items))
	for i, it := range s.items {
		s.index[it.Key()] = i
	}
	for id := range s.selected {
		if _, ok := s.index[id]; !ok {
			delete(s.selected, id)
		}
	}
}

func (s *Screen[T]) patch(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.index[v.Key()]; ok {
		s.items[i] = v
	}
}

func (s *Screen[T]) changed(ctx context.Context) {
	if s.opts.OnChange != nil {
		s.opts.OnChange(ctx)
	}
}
