package stores

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	// SQLite driver
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// Config holds SQLite store configuration
type Config struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewSQLiteStore creates a new SQLite store instance
func NewSQLiteStore(cfg Config) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	return &SQLiteStore{
		path: cfg.Path,
	}, nil
}

// Init initializes the database connection and enables WAL mode.
func (s *SQLiteStore) Init(ctx context.Context) error {
	// Open database with SQLite-specific connection parameters
	dsn := fmt.Sprintf("%s?_txlock=immediate&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)", s.path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return &SchemaError{Op: "open", Err: err}
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return &SchemaError{Op: "ping", Err: err}
	}

	// Ensure foreign keys are enabled (connection-level setting)
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return &SchemaError{Op: "enable foreign keys", Err: err}
	}

	s.db = db
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Migrate creates the test_case_files and test_cases tables. It is
// idempotent: repeated calls leave the schema and existing rows intact.
func (s *SQLiteStore) Migrate(_ context.Context) error {
	if s.db == nil {
		return &SchemaError{Op: "migrate", Err: errors.New("database not initialized")}
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return &SchemaError{Op: "migrate", Err: err}
	}

	driver, err := sqlite3.WithInstance(s.db, &sqlite3.Config{})
	if err != nil {
		return &SchemaError{Op: "migrate", Err: err}
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite3", driver)
	if err != nil {
		return &SchemaError{Op: "migrate", Err: err}
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return &SchemaError{Op: "migrate", Err: err}
	}

	return nil
}

// CreateTestCaseFile inserts one file record and returns its assigned
// file_id. An empty uploadDate defaults to the current UTC time in
// RFC 3339 form. The row is committed before the call returns.
func (s *SQLiteStore) CreateTestCaseFile(ctx context.Context, filename, uploadDate string) (int64, error) {
	if filename == "" {
		return 0, &ConstraintError{Op: "create test case file", Err: errors.New("filename is required")}
	}
	if uploadDate == "" {
		uploadDate = time.Now().UTC().Format(time.RFC3339)
	}

	query := `INSERT INTO test_case_files (filename, upload_date) VALUES (?, ?)`

	result, err := s.db.ExecContext(ctx, query, filename, uploadDate)
	if err != nil {
		return 0, classify("create test case file", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, &StorageError{Op: "create test case file", Err: err}
	}

	return id, nil
}

// GetTestCaseFile retrieves a single file record by id. The second
// return value reports whether the record exists; a missing record is
// not an error.
func (s *SQLiteStore) GetTestCaseFile(ctx context.Context, fileID int64) (*TestCaseFile, bool, error) {
	query := `
		SELECT file_id, filename, upload_date
		FROM test_case_files
		WHERE file_id = ?
	`

	file := &TestCaseFile{}
	err := s.db.QueryRowContext(ctx, query, fileID).Scan(
		&file.FileID,
		&file.Filename,
		&file.UploadDate,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, classify("get test case file", err)
	}

	return file, true, nil
}

// ListTestCaseFiles retrieves all file records. Ordering is whatever
// the engine produces absent an ORDER BY clause.
func (s *SQLiteStore) ListTestCaseFiles(ctx context.Context) ([]*TestCaseFile, error) {
	query := `SELECT file_id, filename, upload_date FROM test_case_files`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, classify("list test case files", err)
	}
	defer rows.Close()

	files := []*TestCaseFile{}
	for rows.Next() {
		file := &TestCaseFile{}
		if err := rows.Scan(&file.FileID, &file.Filename, &file.UploadDate); err != nil {
			return nil, &StorageError{Op: "list test case files", Err: err}
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "list test case files", Err: err}
	}

	return files, nil
}

// DeleteTestCaseFile deletes a file record. The schema's ON DELETE
// CASCADE rule removes the file's test cases in the same statement.
func (s *SQLiteStore) DeleteTestCaseFile(ctx context.Context, fileID int64) error {
	query := `DELETE FROM test_case_files WHERE file_id = ?`

	result, err := s.db.ExecContext(ctx, query, fileID)
	if err != nil {
		return classify("delete test case file", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return &StorageError{Op: "delete test case file", Err: err}
	}

	if rows == 0 {
		return &StorageError{Op: "delete test case file", Err: fmt.Errorf("%w: file_id %d", ErrNotFound, fileID)}
	}

	return nil
}

// CreateTestCase inserts one test case record and returns its assigned
// tc_id. The fileID is not pre-checked; a dangling reference surfaces
// as a ConstraintError from the engine and no row is inserted.
func (s *SQLiteStore) CreateTestCase(ctx context.Context, name string, fileID int64) (int64, error) {
	if name == "" {
		return 0, &ConstraintError{Op: "create test case", Err: errors.New("name is required")}
	}

	query := `INSERT INTO test_cases (name, file_id) VALUES (?, ?)`

	result, err := s.db.ExecContext(ctx, query, name, fileID)
	if err != nil {
		return 0, classify("create test case", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, &StorageError{Op: "create test case", Err: err}
	}

	return id, nil
}

// ListTestCasesByFile retrieves all test cases whose file_id matches.
// A file with no cases and a file that does not exist both yield an
// empty slice.
func (s *SQLiteStore) ListTestCasesByFile(ctx context.Context, fileID int64) ([]*TestCase, error) {
	query := `SELECT tc_id, name, file_id FROM test_cases WHERE file_id = ?`

	rows, err := s.db.QueryContext(ctx, query, fileID)
	if err != nil {
		return nil, classify("list test cases by file", err)
	}
	defer rows.Close()

	cases := []*TestCase{}
	for rows.Next() {
		tc := &TestCase{}
		if err := rows.Scan(&tc.TCID, &tc.Name, &tc.FileID); err != nil {
			return nil, &StorageError{Op: "list test cases by file", Err: err}
		}
		cases = append(cases, tc)
	}

	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "list test cases by file", Err: err}
	}

	return cases, nil
}

// ListTestCases retrieves every test case record across all files.
func (s *SQLiteStore) ListTestCases(ctx context.Context) ([]*TestCase, error) {
	query := `SELECT tc_id, name, file_id FROM test_cases`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, classify("list test cases", err)
	}
	defer rows.Close()

	cases := []*TestCase{}
	for rows.Next() {
		tc := &TestCase{}
		if err := rows.Scan(&tc.TCID, &tc.Name, &tc.FileID); err != nil {
			return nil, &StorageError{Op: "list test cases", Err: err}
		}
		cases = append(cases, tc)
	}

	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "list test cases", Err: err}
	}

	return cases, nil
}

// HealthCheck verifies the database connection is healthy
func (s *SQLiteStore) HealthCheck(ctx context.Context) error {
	if s.db == nil {
		return &StorageError{Op: "health check", Err: errors.New("database not initialized")}
	}

	if err := s.db.PingContext(ctx); err != nil {
		return &StorageError{Op: "health check", Err: err}
	}
	return nil
}
