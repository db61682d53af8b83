package telemetry

import (
	"context"
	"testing"
	"time"
)

func TestDefaultConfigValidates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []func(*Config){
		func(c *Config) { c.ServiceName = "" },
		func(c *Config) { c.Logging.Level = "loud" },
		func(c *Config) { c.Logging.Format = "xml" },
		func(c *Config) { c.Tracing.Enabled = true; c.Tracing.Exporter = "carrier-pigeon" },
		func(c *Config) { c.Tracing.SamplingRate = 1.5 },
		func(c *Config) { c.Metrics.Enabled = true; c.Metrics.ListenAddress = "" },
	}

	for i, mutate := range cases {
		cfg := DefaultConfig()
		mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}

func TestLoggerFields(t *testing.T) {
	logger, err := NewLogger(LoggingConfig{Level: "debug", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	// Field helpers must not panic and must return derived loggers.
	derived := logger.NewComponentLogger("stores").
		WithFileID(1).
		WithTestCaseID(2).
		WithIngestID("abc").
		WithField("extra", "value")
	if derived == nil {
		t.Fatal("expected derived logger")
	}
	derived.Debug("field helpers work")
}

func TestLoggerContextRoundTrip(t *testing.T) {
	logger, err := NewLogger(LoggingConfig{Level: "info", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	ctx := logger.WithContext(context.Background())
	if FromContext(ctx) != logger {
		t.Error("expected logger from context")
	}

	// A bare context yields a usable default logger.
	if FromContext(context.Background()) == nil {
		t.Error("expected fallback logger")
	}
}

func TestMetricsDisabledIsNoOp(t *testing.T) {
	m, err := NewMetrics(MetricsConfig{Enabled: false})
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}

	// No-op metrics must tolerate every record call.
	m.RecordInsert("test_case_file")
	m.RecordQuery("list_files")
	m.RecordDelete()
	m.RecordError("storage")
	m.RecordIngest("succeeded", time.Second, 3)
	m.RecordWatcherEvent("CREATE")
}

func TestMetricsEnabled(t *testing.T) {
	m, err := NewMetrics(MetricsConfig{
		Enabled:       true,
		ListenAddress: ":0",
		Path:          "/metrics",
		Namespace:     "casevault",
	})
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}

	m.RecordInsert("test_case_file")
	m.RecordInsert("test_case")
	m.RecordQuery("list_files")
	m.RecordDelete()
	m.RecordError("constraint")
	m.RecordIngest("succeeded", 250*time.Millisecond, 2)
	m.RecordWatcherEvent("CREATE")

	if m.Handler() == nil {
		t.Error("expected metrics handler")
	}
}

func TestNoOpTracer(t *testing.T) {
	tracer, err := NewTracer(TracingConfig{Enabled: false}, "casevault", "test", "test")
	if err != nil {
		t.Fatalf("failed to create tracer: %v", err)
	}

	ctx, span := tracer.StartStoreSpan(context.Background(), "create_test_case_file")
	RecordSuccess(span)
	span.End()

	_, span = tracer.StartIngestSpan(ctx, "ingest-1", "uploads/a.yaml")
	RecordError(span, context.Canceled)
	span.End()

	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("failed to shut down tracer: %v", err)
	}
}
