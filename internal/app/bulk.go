package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"travel_console/internal/adapters/observability"
	"travel_console/internal/domain"
)

// BulkResult is the outcome of one bulk activation/deactivation.
// Unchanged ids were already at the target, or unknown to the screen, and
// got no request.
type BulkResult struct {
	RunID     string            `json:"run_id,omitempty"`
	Target    bool              `json:"target"`
	Succeeded []string          `json:"succeeded"`
	Failed    map[string]string `json:"failed"` // id -> reason
	Unchanged []string          `json:"unchanged"`
}

// Summary is the user-facing message; empty unless something failed.
func (r BulkResult) Summary() string {
	if len(r.Failed) == 0 {
		return ""
	}
	verb := "deactivated"
	if r.Target {
		verb = "activated"
	}
	return fmt.Sprintf("%d %s, %d failed.", len(r.Succeeded), verb, len(r.Failed))
}

// BulkApply reconciles the current selection to target.
func (s *Screen[T]) BulkApply(ctx context.Context, target bool) (BulkResult, error) {
	return s.Reconcile(ctx, s.Selection(), target)
}

// Reconcile sets active = target on every id that differs from it, one update
// per record, all in flight together (bounded by Options.Workers). Every
// outcome is awaited; a failure never stops the others and nothing is
// retried. Only succeeded records are patched locally, and the selection is
// cleared whatever happened. An empty ids list is a no-op.
//
// The batch is not tied to the caller's cancellation: once started it runs
// to completion.
func (s *Screen[T]) Reconcile(ctx context.Context, ids []string, target bool) (BulkResult, error) {
	res := BulkResult{Target: target, Failed: map[string]string{}}
	if len(ids) == 0 {
		return res, nil
	}

	s.mu.Lock()
	if s.bulk {
		s.mu.Unlock()
		return BulkResult{}, domain.ErrBusy
	}
	s.bulk = true
	started := time.Now()

	var todo []T
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		i, ok := s.index[id]
		if !ok || s.items[i].IsActive() == target {
			res.Unchanged = append(res.Unchanged, id)
			continue
		}
		todo = append(todo, s.items[i])
	}
	s.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	errs := s.dispatch(ctx, todo, target)

	s.mu.Lock()
	for i, cur := range todo {
		id := cur.Key()
		if errs[i] != nil {
			res.Failed[id] = domain.Message(errs[i])
			log.Warn().Err(errs[i]).Str("screen", s.name).Str("id", id).Bool("target", target).
				Msg("bulk item failed")
			continue
		}
		res.Succeeded = append(res.Succeeded, id)
		if j, ok := s.index[id]; ok {
			s.items[j] = s.items[j].WithActive(target)
		}
	}
	s.selected = map[string]struct{}{}
	s.bulk = false
	s.mu.Unlock()

	observability.ObserveBulk(s.name, domain.OutcomeSucceeded, len(res.Succeeded))
	observability.ObserveBulk(s.name, domain.OutcomeFailed, len(res.Failed))
	observability.ObserveBulk(s.name, domain.OutcomeUnchanged, len(res.Unchanged))

	if len(res.Succeeded) > 0 {
		s.changed(ctx)
	}
	s.journal(ctx, &res, started)

	log.Info().Str("screen", s.name).Bool("target", target).
		Int("succeeded", len(res.Succeeded)).Int("failed", len(res.Failed)).Int("unchanged", len(res.Unchanged)).
		Msg("bulk reconcile done")
	return res, nil
}

// dispatch sends one update per record and returns the errors by position.
func (s *Screen[T]) dispatch(ctx context.Context, todo []T, target bool) []error {
	errs := make([]error, len(todo))
	sem := semaphore.NewWeighted(int64(s.opts.Workers))
	var wg sync.WaitGroup

	for i, cur := range todo {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			errs[i] = err
			continue
		}
		wg.Add(1)
		go func(i int, cur T) {
			defer wg.Done()
			defer sem.Release(1)
			_, errs[i] = s.res.Update(ctx, cur.Key(), cur.WithActive(target))
		}(i, cur)
	}
	wg.Wait()
	return errs
}

func (s *Screen[T]) journal(ctx context.Context, res *BulkResult, started time.Time) {
	if s.opts.Journal == nil {
		return
	}
	run := domain.BulkRun{
		ID:         uuid.NewString(),
		Resource:   s.name,
		Target:     res.Target,
		Succeeded:  len(res.Succeeded),
		Failed:     len(res.Failed),
		Unchanged:  len(res.Unchanged),
		StartedAt:  started.UTC(),
		FinishedAt: time.Now().UTC(),
	}
	for _, id := range res.Succeeded {
		run.Items = append(run.Items, domain.BulkItem{EntityID: id, Outcome: domain.OutcomeSucceeded})
	}
	for id, reason := range res.Failed {
		run.Items = append(run.Items, domain.BulkItem{EntityID: id, Outcome: domain.OutcomeFailed, Reason: reason})
	}
	for _, id := range res.Unchanged {
		run.Items = append(run.Items, domain.BulkItem{EntityID: id, Outcome: domain.OutcomeUnchanged})
	}
	if err := s.opts.Journal.SaveRun(ctx, run); err != nil {
		log.Error().Err(err).Str("screen", s.name).Msg("bulk journal write failed")
		return
	}
	res.RunID = run.ID
}

// retry re-reconciles only the ids that failed in run.
func (s *Screen[T]) retry(ctx context.Context, run domain.BulkRun) (BulkResult, error) {
	if err := s.EnsureLoaded(ctx); err != nil {
		return BulkResult{}, err
	}
	return s.Reconcile(ctx, run.FailedIDs(), run.Target)
}
