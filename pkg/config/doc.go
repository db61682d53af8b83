// Package config loads and validates CaseVault configuration from an
// optional YAML file layered over built-in defaults.
package config
