// Package telemetry provides structured logging, Prometheus metrics,
// and OpenTelemetry tracing for CaseVault.
package telemetry
