package ingest

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return path
}

func TestParseManifestYAML(t *testing.T) {
	path := writeManifest(t, "auth_suite.yaml", `
filename: auth_suite.yaml
cases:
  - test_login
  - test_logout
`)

	m, err := ParseManifest(path)
	if err != nil {
		t.Fatalf("failed to parse manifest: %v", err)
	}

	if m.Filename != "auth_suite.yaml" {
		t.Errorf("expected filename auth_suite.yaml, got %s", m.Filename)
	}
	if len(m.Cases) != 2 || m.Cases[0] != "test_login" || m.Cases[1] != "test_logout" {
		t.Errorf("unexpected cases: %v", m.Cases)
	}
}

func TestParseManifestJSON(t *testing.T) {
	path := writeManifest(t, "cases.json", `{"cases": ["test_signup"]}`)

	m, err := ParseManifest(path)
	if err != nil {
		t.Fatalf("failed to parse manifest: %v", err)
	}

	if len(m.Cases) != 1 || m.Cases[0] != "test_signup" {
		t.Errorf("unexpected cases: %v", m.Cases)
	}
}

func TestParseManifestDefaultsFilename(t *testing.T) {
	path := writeManifest(t, "smoke.yml", "cases:\n  - test_boot\n")

	m, err := ParseManifest(path)
	if err != nil {
		t.Fatalf("failed to parse manifest: %v", err)
	}

	if m.Filename != "smoke.yml" {
		t.Errorf("expected filename to default to smoke.yml, got %s", m.Filename)
	}
}

func TestParseManifestRejectsEmptyCases(t *testing.T) {
	path := writeManifest(t, "empty.yaml", "cases: []\n")

	if _, err := ParseManifest(path); err == nil {
		t.Fatal("expected error for manifest without cases")
	}
}

func TestParseManifestRejectsEmptyName(t *testing.T) {
	path := writeManifest(t, "blank.yaml", "cases:\n  - \"\"\n")

	if _, err := ParseManifest(path); err == nil {
		t.Fatal("expected error for empty case name")
	}
}

func TestParseManifestUnsupportedFormat(t *testing.T) {
	path := writeManifest(t, "cases.txt", "test_login\n")

	if _, err := ParseManifest(path); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestParseManifestMissingFile(t *testing.T) {
	if _, err := ParseManifest(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing manifest")
	}
}

func TestSupportedManifest(t *testing.T) {
	for path, want := range map[string]bool{
		"a.yaml": true,
		"a.YML":  true,
		"a.json": true,
		"a.txt":  false,
		"a":      false,
	} {
		if got := SupportedManifest(path); got != want {
			t.Errorf("SupportedManifest(%q) = %v, want %v", path, got, want)
		}
	}
}
