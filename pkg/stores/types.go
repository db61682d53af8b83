package stores

import (
	"context"
)

// TestCaseFile represents one uploaded file contributing test cases.
type TestCaseFile struct {
	FileID     int64  `json:"file_id"`
	Filename   string `json:"filename"`
	UploadDate string `json:"upload_date"` // RFC 3339 UTC
}

// TestCase represents one named test case belonging to a file.
type TestCase struct {
	TCID   int64  `json:"tc_id"`
	Name   string `json:"name"`
	FileID int64  `json:"file_id"`
}

// Store defines the interface for the persistence layer
type Store interface {
	// Lifecycle
	Init(ctx context.Context) error
	Close() error
	Migrate(ctx context.Context) error

	// TestCaseFile operations
	CreateTestCaseFile(ctx context.Context, filename, uploadDate string) (int64, error)
	GetTestCaseFile(ctx context.Context, fileID int64) (*TestCaseFile, bool, error)
	ListTestCaseFiles(ctx context.Context) ([]*TestCaseFile, error)
	DeleteTestCaseFile(ctx context.Context, fileID int64) error

	// TestCase operations
	CreateTestCase(ctx context.Context, name string, fileID int64) (int64, error)
	ListTestCasesByFile(ctx context.Context, fileID int64) ([]*TestCase, error)
	ListTestCases(ctx context.Context) ([]*TestCase, error)

	// Utility
	HealthCheck(ctx context.Context) error
}
