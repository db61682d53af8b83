package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/casevault/casevault/pkg/stores"
)

func setupTestStore(t *testing.T) *stores.SQLiteStore {
	t.Helper()

	store, err := stores.NewSQLiteStore(stores.Config{
		Path: filepath.Join(t.TempDir(), "casevault.db"),
	})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	ctx := context.Background()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate store: %v", err)
	}

	t.Cleanup(func() { store.Close() })
	return store
}

func TestIngestFile(t *testing.T) {
	store := setupTestStore(t)
	ingestor := NewIngestor(store, nil, nil, nil)

	path := writeManifest(t, "auth_suite.yaml", `
cases:
  - test_login
  - test_logout
`)

	ctx := context.Background()
	result, err := ingestor.IngestFile(ctx, path)
	if err != nil {
		t.Fatalf("failed to ingest manifest: %v", err)
	}

	if result.IngestID == "" {
		t.Error("expected ingest id to be assigned")
	}
	if result.Filename != "auth_suite.yaml" {
		t.Errorf("expected filename auth_suite.yaml, got %s", result.Filename)
	}
	if len(result.TestCaseIDs) != 2 {
		t.Fatalf("expected 2 test case ids, got %d", len(result.TestCaseIDs))
	}

	file, ok, err := store.GetTestCaseFile(ctx, result.FileID)
	if err != nil || !ok {
		t.Fatalf("expected file record: ok=%v err=%v", ok, err)
	}
	if file.Filename != "auth_suite.yaml" {
		t.Errorf("unexpected stored filename: %s", file.Filename)
	}
	if _, err := time.Parse(time.RFC3339, file.UploadDate); err != nil {
		t.Errorf("expected RFC 3339 upload date, got %q", file.UploadDate)
	}

	cases, err := store.ListTestCasesByFile(ctx, result.FileID)
	if err != nil {
		t.Fatalf("failed to list cases: %v", err)
	}
	if len(cases) != 2 {
		t.Errorf("expected 2 stored cases, got %d", len(cases))
	}
}

func TestIngestFileParseFailure(t *testing.T) {
	store := setupTestStore(t)
	ingestor := NewIngestor(store, nil, nil, nil)

	path := writeManifest(t, "broken.yaml", "cases: [\n")

	if _, err := ingestor.IngestFile(context.Background(), path); err == nil {
		t.Fatal("expected error for malformed manifest")
	}

	files, err := store.ListTestCaseFiles(context.Background())
	if err != nil {
		t.Fatalf("failed to list files: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("expected no file records after parse failure, got %d", len(files))
	}
}

func TestIngestFileExplicitFilename(t *testing.T) {
	store := setupTestStore(t)
	ingestor := NewIngestor(store, nil, nil, nil)

	path := writeManifest(t, "upload-20240315.json", `{"filename": "regression.json", "cases": ["test_checkout"]}`)

	result, err := ingestor.IngestFile(context.Background(), path)
	if err != nil {
		t.Fatalf("failed to ingest manifest: %v", err)
	}
	if result.Filename != "regression.json" {
		t.Errorf("expected recorded filename regression.json, got %s", result.Filename)
	}
}

func TestWatcherIngestsExistingManifest(t *testing.T) {
	store := setupTestStore(t)
	ingestor := NewIngestor(store, nil, nil, nil)

	dir := t.TempDir()
	manifest := filepath.Join(dir, "smoke.yaml")
	if err := os.WriteFile(manifest, []byte("cases:\n  - test_boot\n"), 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	watcher, err := NewWatcher(dir, ingestor, nil, nil)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()

	waitForCases(t, store, 1)

	cancel()
	select {
	case err := <-done:
		if err != nil && err != context.Canceled {
			t.Errorf("unexpected watcher error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancellation")
	}
}

func TestWatcherIngestsNewManifest(t *testing.T) {
	store := setupTestStore(t)
	ingestor := NewIngestor(store, nil, nil, nil)

	dir := t.TempDir()
	watcher, err := NewWatcher(dir, ingestor, nil, nil)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = watcher.Run(ctx) }()

	// Give the watch a moment to attach before creating the manifest.
	time.Sleep(200 * time.Millisecond)

	manifest := filepath.Join(dir, "new_suite.yaml")
	if err := os.WriteFile(manifest, []byte("cases:\n  - test_new\n  - test_other\n"), 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	waitForCases(t, store, 2)
}

func TestNewWatcherRequiresDir(t *testing.T) {
	if _, err := NewWatcher("", nil, nil, nil); err == nil {
		t.Fatal("expected error for empty uploads directory")
	}
}

// waitForCases polls the store until the expected number of test cases
// is visible or the deadline passes.
func waitForCases(t *testing.T, store stores.Store, want int) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		cases, err := store.ListTestCases(context.Background())
		if err != nil {
			t.Fatalf("failed to list cases: %v", err)
		}
		if len(cases) >= want {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("expected %d ingested cases before deadline", want)
}
