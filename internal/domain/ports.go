package domain

import (
	"context"
	"time"
)

// Resource is the upstream REST collection for one entity type.
// Update always sends the full payload.
type Resource[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, v T) (T, error)
	Update(ctx context.Context, id string, v T) (T, error)
	Delete(ctx context.Context, id string) error
}

type UserCreator interface {
	CreateUser(ctx context.Context, u NewUser) (User, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Bulk run outcomes per item.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
	OutcomeUnchanged = "unchanged"
)

type BulkItem struct {
	EntityID string `json:"entity_id"`
	Outcome  string `json:"outcome"`
	Reason   string `json:"reason,omitempty"`
}

type BulkRun struct {
	ID         string     `json:"id"`
	Resource   string     `json:"resource"`
	Target     bool       `json:"target"`
	Succeeded  int        `json:"succeeded"`
	Failed     int        `json:"failed"`
	Unchanged  int        `json:"unchanged"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`
	Items      []BulkItem `json:"items,omitempty"`
}

// FailedIDs returns the ids whose update errored during the run.
func (r BulkRun) FailedIDs() []string {
	var out []string
	for _, it := range r.Items {
		if it.Outcome == OutcomeFailed {
			out = append(out, it.EntityID)
		}
	}
	return out
}

// BulkJournal records bulk runs with per-item reasons.
type BulkJournal interface {
	SaveRun(ctx context.Context, run BulkRun) error
	GetRun(ctx context.Context, id string) (BulkRun, error)
	ListRuns(ctx context.Context, resource string, limit int) ([]BulkRun, error)
}
