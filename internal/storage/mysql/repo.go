package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"travel_console/internal/domain"
)

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Journal persists bulk runs and their per-item outcomes.
type Journal struct{ db *sql.DB }

func New(db *sql.DB) *Journal { return &Journal{db: db} }

var _ domain.BulkJournal = (*Journal)(nil)

func (j *Journal) SaveRun(ctx context.Context, run domain.BulkRun) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, insertRunSQL,
		run.ID,
		run.Resource,
		run.Target,
		run.Succeeded,
		run.Failed,
		run.Unchanged,
		run.StartedAt,
		run.FinishedAt,
	); err != nil {
		return fmt.Errorf("insert bulk run %s: %w", run.ID, err)
	}

	if len(run.Items) > 0 {
		values := make([]string, 0, len(run.Items))
		args := make([]any, 0, len(run.Items)*4) // 4 params per row
		for _, it := range run.Items {
			values = append(values, "(?,?,?,?)")
			args = append(args, run.ID, it.EntityID, it.Outcome, valStr(it.Reason))
		}
		q := insertItemsPrefix + strings.Join(values, ",") + insertItemsOnDup
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert bulk items %s: %w", run.ID, err)
		}
	}
	return tx.Commit()
}

func (j *Journal) GetRun(ctx context.Context, id string) (domain.BulkRun, error) {
	run, err := scanRun(j.db.QueryRowContext(ctx, getRunSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.BulkRun{}, domain.ErrNotFound
		}
		return domain.BulkRun{}, err
	}

	rows, err := j.db.QueryContext(ctx, listItemsSQL, id)
	if err != nil {
		return domain.BulkRun{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var it domain.BulkItem
		var reason sql.NullString
		if err := rows.Scan(&it.EntityID, &it.Outcome, &reason); err != nil {
			return domain.BulkRun{}, err
		}
		if reason.Valid {
			it.Reason = reason.String
		}
		run.Items = append(run.Items, it)
	}
	if err := rows.Err(); err != nil {
		return domain.BulkRun{}, err
	}
	return run, nil
}

// ListRuns returns the newest runs for resource without their items.
func (j *Journal) ListRuns(ctx context.Context, resource string, limit int) ([]domain.BulkRun, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := j.db.QueryContext(ctx, listRunsSQL, resource, resource, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.BulkRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

type scanner interface{ Scan(dest ...any) error }

func scanRun(s scanner) (domain.BulkRun, error) {
	var run domain.BulkRun
	err := s.Scan(
		&run.ID,
		&run.Resource,
		&run.Target,
		&run.Succeeded,
		&run.Failed,
		&run.Unchanged,
		&run.StartedAt,
		&run.FinishedAt,
	)
	return run, err
}
