package rag

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/akolanti/DocSearch/internal/config"
	"github.com/akolanti/DocSearch/internal/domain/docmodel"
	"github.com/akolanti/DocSearch/internal/domain/jobModel"
	"github.com/akolanti/DocSearch/internal/metrics"
	"github.com/akolanti/DocSearch/internal/rag/consolidate"
	"github.com/akolanti/DocSearch/internal/rag/docstore"
	"github.com/akolanti/DocSearch/internal/rag/embedding"
	"github.com/akolanti/DocSearch/internal/rag/ingest"
	"github.com/akolanti/DocSearch/internal/rag/llm"
	"github.com/akolanti/DocSearch/internal/rag/retrieval"
	"github.com/akolanti/DocSearch/internal/rag/vision"
	"github.com/akolanti/DocSearch/pkg/logger_i"
)

/*
ARCHITECTURE NOTE: OPAQUE INTERFACE PATTERN
---------------------------------------------------------

1. Service (Interface):
  - Real work happens down low bruh
  - This is the PUBLIC contract.
  - It defines the "behavior" (what the worker and handlers can do).
  - We expose this to keep callers decoupled from our specific logic.

2. service (Private Struct):
  - down low stuff
  - This is the PRIVATE implementation.
  - It holds the "state" (document store and model clients).
  - It is lowercase to prevent external packages from accessing our
    internal dependencies (docstore, llmProvider) directly.

3. Pointer Receiver (*service):
  - By defining methods on (*service), the struct IMPLICITLY satisfies
    the Service interface.
  - if it quacks like a duck, -it's a duck (Duck Typing)

4. Dependency Injection (NewService):
  - This constructor links the private struct to the public interface.
  - It allows us to swap real stores for mocks during testing without
    changing the callers' code.
*/

// Service is the one entry point workers and handlers use. Search and
// answer generation run inline, ingestion and consolidation run as jobs.
type Service interface {
	IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job
	ConsolidateDocuments(ctx context.Context, job jobModel.Job) jobModel.Job
	Search(ctx context.Context, query string, opts docmodel.FilterOptions, topK int) ([]docmodel.SearchResult, error)
	GenerateAnswer(ctx context.Context, query string, results []docmodel.SearchResult) string
}

type service struct {
	store       docstore.Store
	llmProvider llm.Provider
	embedder    embedding.Embedder
	pipeline    *ingest.Pipeline
	consolidate *consolidate.Engine
	retrieval   *retrieval.Engine
	logger      *logger_i.Logger
}

// NewService constructor
func NewService(store docstore.Store, provider llm.Provider, em embedding.Embedder, renderer vision.Renderer, analyzer vision.Analyzer) Service {
	return &service{
		store:       store,
		llmProvider: provider,
		embedder:    em,
		pipeline:    ingest.NewPipeline(store, em, renderer, analyzer),
		consolidate: consolidate.NewEngine(store, em, provider),
		retrieval:   retrieval.NewEngine(store, em, provider),
		logger:      logger_i.NewLogger("RAG Service :"),
	}
}

func (s *service) IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job {
	inMethodLogger := s.logger.With("traceId", job.TraceId, "JobId", job.Id)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()

	job = logOutput(job, jobModel.IngestProcessing, inMethodLogger)

	result, err := s.pipeline.Ingest(ctx, job.JobPayload.IngestURL, job.JobPayload.IngestFileName)
	job.JobPayload.PagesProcessed = result.PagesProcessed
	job.JobPayload.Errors = result.Errors
	metrics.AddPagesIngested(result.PagesProcessed)

	if rmErr := os.Remove(job.JobPayload.IngestURL); rmErr != nil {
		inMethodLogger.Error("Error removing uploaded file", "error", rmErr)
	}

	if err != nil {
		return s.jobError(job, err, "INGESTION_FAILURE", !errors.Is(err, ingest.ErrUnsupportedFormat))
	}
	if result.PagesProcessed == 0 {
		return s.jobError(job, errors.New("no pages were stored"), "INGESTION_FAILURE", true)
	}

	job.Status = jobModel.JobStatusComplete
	job.CurrentStep = jobModel.Complete
	return job
}

func (s *service) ConsolidateDocuments(ctx context.Context, job jobModel.Job) jobModel.Job {
	inMethodLogger := s.logger.With("traceId", job.TraceId, "JobId", job.Id)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_consolidation", time.Since(start)) }()

	job = logOutput(job, jobModel.ConsolidateProcessing, inMethodLogger)

	report := s.consolidate.Consolidate(ctx, job.JobPayload.ExcludeFolders)
	job.JobPayload.FoldersProcessed = report.Processed
	job.JobPayload.Errors = report.Errors
	metrics.AddFoldersConsolidated(report.Processed)

	if report.Processed == 0 && len(report.Errors) > 0 {
		return s.jobError(job, errors.New(report.Errors[0]), "CONSOLIDATION_FAILURE", true)
	}

	job.Status = jobModel.JobStatusComplete
	job.CurrentStep = jobModel.Complete
	return job
}

func (s *service) Search(ctx context.Context, query string, opts docmodel.FilterOptions, topK int) ([]docmodel.SearchResult, error) {
	processContext, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	return s.executeSearchStep(processContext, query, opts, topK)
}

func (s *service) GenerateAnswer(ctx context.Context, query string, results []docmodel.SearchResult) string {
	logger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	logger.Debug("GenerateAnswer", "results", len(results))

	return s.executeAnswerStep(ctx, query, results)
}
