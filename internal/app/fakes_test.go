package app_test

import (
	"context"
	"sync"
	"sync/atomic"

	"travel_console/internal/domain"
)

// ---- fakes ----

// fakeResource is an in-memory upstream collection. fail maps an id to the
// error its Update/Delete should return.
type fakeResource[T domain.Entity[T]] struct {
	mu      sync.Mutex
	items   []T
	fail    map[string]error
	listErr error
	updates []T
	deletes []string
	calls   int32
}

func (f *fakeResource[T]) List(ctx context.Context) ([]T, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]T, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeResource[T]) Get(ctx context.Context, id string) (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range f.items {
		if it.Key() == id {
			return it, nil
		}
	}
	var zero T
	return zero, &domain.APIError{Status: 404, Message: "not found"}
}

func (f *fakeResource[T]) Create(ctx context.Context, v T) (T, error) {
	atomic.AddInt32(&f.calls, 1)
	if err := f.fail[""]; err != nil {
		var zero T
		return zero, err
	}
	if v.Key() == "" {
		v = v.WithKey("new-1")
	}
	f.mu.Lock()
	f.items = append(f.items, v)
	f.mu.Unlock()
	return v, nil
}

func (f *fakeResource[T]) Update(ctx context.Context, id string, v T) (T, error) {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	f.updates = append(f.updates, v)
	f.mu.Unlock()
	if err := f.fail[id]; err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

func (f *fakeResource[T]) Delete(ctx context.Context, id string) error {
	atomic.AddInt32(&f.calls, 1)
	if err := f.fail[id]; err != nil {
		return err
	}
	f.mu.Lock()
	f.deletes = append(f.deletes, id)
	f.mu.Unlock()
	return nil
}

func (f *fakeResource[T]) Calls() int { return int(atomic.LoadInt32(&f.calls)) }

type fakeCache struct {
	mu    sync.Mutex
	store  map[string][]string
	dels   int
	setErr error
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	*(dst.(*[]string)) = v
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	if c.store == nil {
		c.store = map[string][]string{}
	}
	c.store[key] = v.([]string)
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dels++
	delete(c.store, key)
	return nil
}

type memJournal struct {
	mu   sync.Mutex
	runs map[string]domain.BulkRun
}

func (j *memJournal) SaveRun(ctx context.Context, run domain.BulkRun) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.runs == nil {
		j.runs = map[string]domain.BulkRun{}
	}
	j.runs[run.ID] = run
	return nil
}

func (j *memJournal) GetRun(ctx context.Context, id string) (domain.BulkRun, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	r, ok := j.runs[id]
	if !ok {
		return domain.BulkRun{}, domain.ErrNotFound
	}
	return r, nil
}

var errBoom = &domain.APIError{Status: 500, Message: "boom"}

func city(id string, active bool, en string) domain.City {
	return domain.City{ID: id, Name: domain.Names{"en": en}, Active: active}
}

func (j *memJournal) ListRuns(ctx context.Context, resource string, limit int) ([]domain.BulkRun, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []domain.BulkRun
	for _, r := range j.runs {
		if resource == "" || r.Resource == resource {
			r.Items = nil
			out = append(out, r)
		}
	}
	return out, nil
}
