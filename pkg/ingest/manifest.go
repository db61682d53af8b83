package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Manifest is the parsed form of an uploaded test case file: a list of
// named test cases, optionally carrying an explicit filename to record.
type Manifest struct {
	// Filename recorded in the store. Defaults to the manifest's base name.
	Filename string `yaml:"filename" json:"filename"`

	// Cases are the test case names extracted from the upload.
	Cases []string `yaml:"cases" json:"cases" validate:"required,min=1,dive,required"`
}

var manifestValidate = validator.New()

// SupportedManifest reports whether the path has a manifest extension
// the parser understands.
func SupportedManifest(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// ParseManifest reads and validates a manifest from disk. The format is
// chosen by file extension: YAML for .yaml/.yml, JSON for .json.
func ParseManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	m := &Manifest{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, m); err != nil {
			return nil, fmt.Errorf("failed to parse YAML manifest %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, m); err != nil {
			return nil, fmt.Errorf("failed to parse JSON manifest %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported manifest format: %s", filepath.Ext(path))
	}

	if m.Filename == "" {
		m.Filename = filepath.Base(path)
	}

	if err := manifestValidate.Struct(m); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}

	return m, nil
}
