package mysql

const insertRunSQL = `
INSERT INTO bulk_runs
  (id, resource, target, succeeded, failed, unchanged, started_at, finished_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
`

const insertItemsPrefix = "INSERT INTO bulk_run_items\n  (run_id, entity_id, outcome, reason)\nVALUES "

// A retried id can only appear once per run; keep the last outcome.
const insertItemsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  outcome = VALUES(outcome),\n" +
	"  reason  = VALUES(reason)\n"

const getRunSQL = `
SELECT id, resource, target, succeeded, failed, unchanged, started_at, finished_at
FROM bulk_runs
WHERE id = ?
`

// Failed first so the reasons are on top, then by entity id.
const listItemsSQL = `
SELECT entity_id, outcome, reason
FROM bulk_run_items
WHERE run_id = ?
ORDER BY outcome = 'failed' DESC, entity_id
`

// An empty resource lists runs of every screen.
const listRunsSQL = `
SELECT id, resource, target, succeeded, failed, unchanged, started_at, finished_at
FROM bulk_runs
WHERE (? = '' OR resource = ?)
ORDER BY started_at DESC, id
LIMIT ?
`
