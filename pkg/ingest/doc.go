// Package ingest parses uploaded test case manifests and writes the
// resulting file and test case records through the store. It also
// provides a directory watcher that ingests manifests as they arrive.
package ingest
