package jobModel

import (
	"context"
	"time"
)

type JobStatus string
type InternalStatus string

type JobType string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	IngestInit       InternalStatus = "IngestInit"
	IngestProcessing InternalStatus = "IngestProcessing"

	ConsolidateInit       InternalStatus = "ConsolidateInit"
	ConsolidateProcessing InternalStatus = "ConsolidateProcessing"

	DocStoreCall     InternalStatus = "DocStore"
	LLMCall          InternalStatus = "LLM"
	EmbeddingAPICall InternalStatus = "EmbeddingAPI"
	VisionAPICall    InternalStatus = "VisionAPI"
	RedisCall        InternalStatus = "Redis"

	Error InternalStatus = "Error"

	Complete InternalStatus = "Complete"

	JobTypeIngest      JobType = "Ingest"
	JobTypeConsolidate JobType = "Consolidate"
)

type Job struct {
	Id          string         `json:"id"`
	TraceId     string         `json:"trace_id"`
	JobType     JobType        `json:"job_type"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	IngestFileName string `json:"ingest_file_name,omitempty"`
	IngestURL      string `json:"ingest_url,omitempty"`
	PagesProcessed int    `json:"pages_processed,omitempty"`

	ExcludeFolders   []string `json:"exclude_folders,omitempty"`
	FoldersProcessed int      `json:"folders_processed,omitempty"`

	Errors []string `json:"errors,omitempty"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}
