package stores_test

import (
	"context"
	"fmt"
	"log"

	"github.com/casevault/casevault/pkg/stores"
)

// ExampleNewSQLiteStore demonstrates creating and initializing a new SQLite store.
func ExampleNewSQLiteStore() {
	store, err := stores.NewSQLiteStore(stores.Config{
		Path: ":memory:", // Use in-memory database for example
	})
	if err != nil {
		log.Fatal(err)
	}

	// Initialize the database connection
	ctx := context.Background()
	if err := store.Init(ctx); err != nil {
		log.Fatal(err)
	}

	// Create the schema
	if err := store.Migrate(ctx); err != nil {
		log.Fatal(err)
	}

	defer store.Close()

	// Store is now ready to use
	fmt.Println("Store initialized successfully")
	// Output: Store initialized successfully
}

// ExampleSQLiteStore_CreateTestCaseFile demonstrates inserting a file
// record and reading it back.
func ExampleSQLiteStore_CreateTestCaseFile() {
	store, _ := stores.NewSQLiteStore(stores.Config{Path: ":memory:"})
	ctx := context.Background()
	_ = store.Init(ctx)
	_ = store.Migrate(ctx)
	defer store.Close()

	fileID, err := store.CreateTestCaseFile(ctx, "cases.json", "2024-01-01T00:00:00Z")
	if err != nil {
		log.Fatal(err)
	}

	file, ok, err := store.GetTestCaseFile(ctx, fileID)
	if err != nil {
		log.Fatal(err)
	}
	if !ok {
		log.Fatal("file not found")
	}

	fmt.Printf("File %d: %s uploaded %s\n", file.FileID, file.Filename, file.UploadDate)
	// Output: File 1: cases.json uploaded 2024-01-01T00:00:00Z
}

// ExampleSQLiteStore_CreateTestCase demonstrates inserting test cases
// that belong to a file.
func ExampleSQLiteStore_CreateTestCase() {
	store, _ := stores.NewSQLiteStore(stores.Config{Path: ":memory:"})
	ctx := context.Background()
	_ = store.Init(ctx)
	_ = store.Migrate(ctx)
	defer store.Close()

	fileID, _ := store.CreateTestCaseFile(ctx, "auth_suite.yaml", "2024-01-01T00:00:00Z")

	for _, name := range []string{"test_login", "test_logout"} {
		if _, err := store.CreateTestCase(ctx, name, fileID); err != nil {
			log.Fatal(err)
		}
	}

	cases, err := store.ListTestCasesByFile(ctx, fileID)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Case count: %d\n", len(cases))
	// Output: Case count: 2
}
