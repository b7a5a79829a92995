package rag

import (
	"context"
	"net/http"
	"time"

	"github.com/akolanti/DocSearch/internal/domain/docmodel"
	"github.com/akolanti/DocSearch/internal/domain/jobModel"
	"github.com/akolanti/DocSearch/internal/metrics"
	"github.com/akolanti/DocSearch/pkg/logger_i"
)

func logOutput(job jobModel.Job, status jobModel.InternalStatus, log *logger_i.Logger) jobModel.Job {
	job.CurrentStep = status
	log.Debug("ProcessJob", "Current Status", job.CurrentStep)
	return job
}

func (s *service) jobError(job jobModel.Job, err error, message string, canRetry bool) jobModel.Job {
	s.logger.Error(message, "error", err)

	job.Error = jobModel.JobError{
		Code:    http.StatusInternalServerError,
		Message: "Internal Server Error",
		Retry:   canRetry,
	}
	job.Status = jobModel.JobStatusError
	return job
}

func (s *service) executeSearchStep(ctx context.Context, query string, opts docmodel.FilterOptions, topK int) ([]docmodel.SearchResult, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	return s.retrieval.Search(ctx, query, opts, topK)
}

func (s *service) executeAnswerStep(ctx context.Context, query string, results []docmodel.SearchResult) string {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	return s.retrieval.GenerateAnswer(ctx, query, results)
}
