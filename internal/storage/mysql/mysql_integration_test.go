//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"travel_console/internal/domain"
	mysqlrepo "travel_console/internal/storage/mysql"
)

// ---------- small helpers ----------
func migrationsDir(t *testing.T) string {
	t.Helper()
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return filepath.Join("..", "..", "..", "migrations")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir(t)

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("dockertest: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=console",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Skipf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/console?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

// ---------- the test ----------
func TestJournal_MySQL_SaveGetList(t *testing.T) {
	db := startMySQL(t)
	j := mysqlrepo.New(db)
	ctx := context.Background()

	start := time.Now().UTC().Truncate(time.Millisecond)
	run := domain.BulkRun{
		ID:         uuid.NewString(),
		Resource:   domain.ResourceHotels,
		Target:     true,
		Succeeded:  1,
		Failed:     1,
		Unchanged:  1,
		StartedAt:  start,
		FinishedAt: start.Add(300 * time.Millisecond),
		Items: []domain.BulkItem{
			{EntityID: "A", Outcome: domain.OutcomeSucceeded},
			{EntityID: "B", Outcome: domain.OutcomeUnchanged},
			{EntityID: "C", Outcome: domain.OutcomeFailed, Reason: "price is required"},
		},
	}
	if err := j.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := j.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if !got.Target || got.Resource != domain.ResourceHotels || got.Failed != 1 || len(got.Items) != 3 {
		t.Fatalf("unexpected run: %+v", got)
	}
	if got.Items[0].EntityID != "C" || got.Items[0].Reason != "price is required" {
		t.Fatalf("failed items should come first with reason: %+v", got.Items)
	}
	if ids := got.FailedIDs(); len(ids) != 1 || ids[0] != "C" {
		t.Fatalf("FailedIDs: %v", ids)
	}

	runs, err := j.ListRuns(ctx, domain.ResourceHotels, 10)
	if err != nil || len(runs) != 1 || runs[0].ID != run.ID {
		t.Fatalf("ListRuns: %v %+v", err, runs)
	}

	other := run
	other.ID = uuid.NewString()
	other.Resource = domain.ResourceCities
	other.Items = nil
	if err := j.SaveRun(ctx, other); err != nil {
		t.Fatalf("SaveRun cities: %v", err)
	}
	runs, err = j.ListRuns(ctx, domain.ResourceHotels, 10)
	if err != nil || len(runs) != 1 {
		t.Fatalf("ListRuns(hotels) should stay filtered: %v %+v", err, runs)
	}
	all, err := j.ListRuns(ctx, "", 10)
	if err != nil || len(all) != 2 {
		t.Fatalf("ListRuns without resource should list every screen: %v %+v", err, all)
	}

	if _, err := j.GetRun(ctx, uuid.NewString()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
