package api

import "time"

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type Result struct {
	Status        string         `json:"status"`
	IngestOutcome *IngestOutcome `json:"ingest_outcome,omitempty"`
}

// IngestOutcome reports what a background job produced. Ingest jobs
// fill PagesProcessed, consolidation jobs fill FoldersProcessed.
type IngestOutcome struct {
	DocumentName     string   `json:"document_name,omitempty"`
	PagesProcessed   int      `json:"pages_processed,omitempty"`
	FoldersProcessed int      `json:"folders_processed,omitempty"`
	Errors           []string `json:"errors,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

// requests---------------------

type SearchRequest struct {
	Query         string         `json:"query" validate:"required"`
	MaxDocuments  int            `json:"max_documents,omitempty"`
	IncludeImages bool           `json:"include_images,omitempty"`
	FilterOptions *FilterOptions `json:"filter_options,omitempty"`
}

type FilterOptions struct {
	ConsolidatedOnly  *bool  `json:"consolidated_only,omitempty"`
	FolderName        string `json:"folder_name,omitempty"`
	ExcludeExceptions bool   `json:"exclude_exceptions,omitempty"`
}

type ConsolidateRequest struct {
	ExcludeFolders []string `json:"exclude_folders,omitempty"`
}

type JobStatusRequest struct {
	JobId string `json:"job_id" validate:"required"`
}

// responses---------------------

type SearchResponse struct {
	Answer          string           `json:"answer"`
	SourceDocuments []SourceDocument `json:"source_documents"`
	Images          []ImageInfo      `json:"images,omitempty"`
}

type SourceDocument struct {
	Id         string        `json:"id"`
	FolderName string        `json:"folder_name"`
	PageNumber string        `json:"page_number,omitempty"`
	Score      float32       `json:"searchScore"`
	Text       string        `json:"text"`
	Summary    string        `json:"summary,omitempty"`
	Images     []ImageInfo   `json:"images,omitempty"`
	Elements   []ElementInfo `json:"elements,omitempty"`
}

type ImageInfo struct {
	Image       string `json:"image"`
	Description string `json:"description,omitempty"`
}

type ElementInfo struct {
	Id          string `json:"id"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	PageNumber  string `json:"page_number,omitempty"`
}

// FolderView is one folder's pages, in page order.
type FolderView struct {
	FolderName string       `json:"folder_name"`
	Pages      []FolderPage `json:"pages"`
}

type FolderPage struct {
	Id         string `json:"id"`
	PageNumber string `json:"page_number"`
	Summary    string `json:"summary,omitempty"`
	Text       string `json:"text,omitempty"`
}

type DocumentListResponse struct {
	Documents []DocumentInfo `json:"documents"`
	Total     int            `json:"total"`
}

type DocumentInfo struct {
	Id             string `json:"id"`
	FolderName     string `json:"folder_name"`
	Summary        string `json:"summary,omitempty"`
	IsConsolidated bool   `json:"is_consolidated"`
	PageCount      int    `json:"page_count,omitempty"`
}

type DeleteResponse struct {
	Deleted int    `json:"deleted"`
	Target  string `json:"target"`
}

type HealthResponse struct {
	Status        string `json:"status" example:"ok"`
	DocumentStore bool   `json:"document_store"`
}
