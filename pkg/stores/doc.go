// Package stores provides the persistence layer for CaseVault.
// It includes SQLite-based storage with WAL mode, embedded schema
// migrations, and CRUD operations for test case files and the test
// cases extracted from them.
package stores
