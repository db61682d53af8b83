package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/casevault/casevault/pkg/stores"
	"github.com/casevault/casevault/pkg/telemetry"
)

// Ingestor writes parsed manifests through the store. Each ingest
// inserts one file record and one test case per extracted name; inserts
// commit individually, so a failure leaves prior rows in place.
type Ingestor struct {
	store   stores.Store
	logger  *telemetry.Logger
	metrics *telemetry.Metrics
	tracer  *telemetry.Tracer
}

// Result describes one completed ingest.
type Result struct {
	IngestID    string  `json:"ingest_id"`
	FileID      int64   `json:"file_id"`
	Filename    string  `json:"filename"`
	TestCaseIDs []int64 `json:"tc_ids"`
}

// NewIngestor creates an ingestor over the given store. Metrics and
// tracer may be nil when telemetry is disabled.
func NewIngestor(store stores.Store, logger *telemetry.Logger, metrics *telemetry.Metrics, tracer *telemetry.Tracer) *Ingestor {
	if logger == nil {
		logger = telemetry.FromContext(context.Background())
	}
	if metrics == nil {
		metrics = &telemetry.Metrics{}
	}
	return &Ingestor{
		store:   store,
		logger:  logger.NewComponentLogger("ingest"),
		metrics: metrics,
		tracer:  tracer,
	}
}

// IngestFile parses the manifest at path and persists its contents.
func (i *Ingestor) IngestFile(ctx context.Context, path string) (*Result, error) {
	ingestID := uuid.NewString()
	logger := i.logger.WithIngestID(ingestID)
	timer := telemetry.NewTimer()

	var end func(err error)
	if i.tracer != nil {
		spanCtx, span := i.tracer.StartIngestSpan(ctx, ingestID, path)
		ctx = spanCtx
		end = func(err error) {
			if err != nil {
				telemetry.RecordError(span, err)
			} else {
				telemetry.RecordSuccess(span)
			}
			span.End()
		}
	} else {
		end = func(error) {}
	}

	logger.Infof("ingesting manifest %s", path)

	manifest, err := ParseManifest(path)
	if err != nil {
		i.metrics.RecordIngest("failed", timer.Duration(), 0)
		end(err)
		return nil, err
	}

	fileID, err := i.store.CreateTestCaseFile(ctx, manifest.Filename, "")
	if err != nil {
		i.metrics.RecordError(stores.ErrorClass(err))
		i.metrics.RecordIngest("failed", timer.Duration(), 0)
		end(err)
		return nil, fmt.Errorf("failed to persist file record for %s: %w", path, err)
	}
	i.metrics.RecordInsert("test_case_file")

	result := &Result{
		IngestID: ingestID,
		FileID:   fileID,
		Filename: manifest.Filename,
	}

	for _, name := range manifest.Cases {
		tcID, err := i.store.CreateTestCase(ctx, name, fileID)
		if err != nil {
			i.metrics.RecordError(stores.ErrorClass(err))
			i.metrics.RecordIngest("failed", timer.Duration(), len(result.TestCaseIDs))
			end(err)
			return nil, fmt.Errorf("failed to persist test case %q: %w", name, err)
		}
		i.metrics.RecordInsert("test_case")
		result.TestCaseIDs = append(result.TestCaseIDs, tcID)
	}

	i.metrics.RecordIngest("succeeded", timer.Duration(), len(result.TestCaseIDs))
	end(nil)

	logger.WithFileID(fileID).Infof("ingested %d test cases from %s", len(result.TestCaseIDs), manifest.Filename)

	return result, nil
}
