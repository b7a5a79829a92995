package docmodel

import "time"

// ImageRef is an inline-encoded image attached to a page, together with
// the description the vision analyzer produced for it.
type ImageRef struct {
	Image          string `json:"image"`
	Description    string `json:"description,omitempty"`
	RelatedTextIDs []int  `json:"related_text_ids,omitempty"`
}

type Coordinates struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// ElementRecord is one structural element (text block or image region)
// identified on a page. Ids are local to the page until consolidation
// re-tags them with a composite "p{page}_{id}" form.
type ElementRecord struct {
	ID             string       `json:"id"`
	Type           string       `json:"type"` //"text" or "image"
	ContentType    string       `json:"content_type,omitempty"`
	Content        string       `json:"content,omitempty"`
	Summary        string       `json:"summary,omitempty"`
	Description    string       `json:"description,omitempty"`
	Coordinates    *Coordinates `json:"coordinates,omitempty"`
	PageNumber     string       `json:"page_number,omitempty"`
	RelatedTextIDs []int        `json:"related_text_ids,omitempty"`
}

// PageEntry is the per-page sub-record kept inside a consolidated
// document, sorted by numeric page order.
type PageEntry struct {
	PageNumber string          `json:"page_number"`
	Text       string          `json:"text_content"`
	Summary    string          `json:"page_summary,omitempty"`
	Images     []ImageRef      `json:"images,omitempty"`
	Elements   []ElementRecord `json:"elements,omitempty"`
}

// Record is the unit the document store persists. Page records and
// consolidated documents share this shape; IsConsolidated and
// ContentType tag which variant a record is, and the variant-specific
// fields stay empty on the other kind. Unknown fields read back from
// the store are kept in Extra so re-upserting never drops them.
type Record struct {
	ID          string `json:"_id"`
	FolderName  string `json:"folder_name"`
	PageNumber  string `json:"page_number,omitempty"`
	Description string `json:"description,omitempty"`
	PageSummary string `json:"page_summary,omitempty"`

	//consolidated-document fields
	DocumentSummary string          `json:"document_summary,omitempty"`
	FullText        string          `json:"full_text,omitempty"`
	PageSummaries   []string        `json:"page_summaries,omitempty"`
	Pages           []PageEntry     `json:"pages,omitempty"`
	AllImages       []ImageRef      `json:"all_images,omitempty"`
	AllElements     []ElementRecord `json:"all_elements,omitempty"`

	Images   []ImageRef      `json:"images,omitempty"`
	Elements []ElementRecord `json:"elements,omitempty"`

	Embedding []float32 `json:"combined_embedding,omitempty"`

	IsConsolidated bool   `json:"is_consolidated"`
	IsException    bool   `json:"is_exception_doc,omitempty"`
	Superseded     bool   `json:"superseded,omitempty"`
	ContentType    string `json:"content_type,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`

	Extra map[string]any `json:"-"`
}

// NewPageRecord builds a raw page record with its deterministic id set.
func NewPageRecord(folder string, pageNumber string) Record {
	return Record{
		ID:          PageID(folder, pageNumber),
		FolderName:  folder,
		PageNumber:  pageNumber,
		ContentType: "processed_page",
	}
}

// NewConsolidatedDocument builds the aggregate record for a folder.
func NewConsolidatedDocument(folder string) Record {
	return Record{
		ID:             DocID(folder),
		FolderName:     folder,
		IsConsolidated: true,
		ContentType:    "consolidated_document",
	}
}

// SearchResult is one ranked hit returned by the retrieval engine. It
// is request-scoped and never persisted.
type SearchResult struct {
	ID         string          `json:"id"`
	FolderName string          `json:"folder_name"`
	PageNumber string          `json:"page_number"`
	Score      float32         `json:"searchScore"`
	Text       string          `json:"text"`
	Summary    string          `json:"summary,omitempty"`
	Images     []ImageRef      `json:"images,omitempty"`
	Elements   []ElementRecord `json:"elements,omitempty"`
}

// FilterOptions narrows a retrieval call. Superseded raw pages are
// always excluded so a folder never shows up twice after its pages
// were folded into a consolidated document.
type FilterOptions struct {
	ConsolidatedOnly  *bool
	FolderName        string
	ExcludeExceptions bool
}

// IngestResult summarises one document ingestion run. Per-page failures
// are recorded here instead of aborting the document.
type IngestResult struct {
	DocumentName   string       `json:"document_name"`
	PagesProcessed int          `json:"pages_processed"`
	Pages          []PageStatus `json:"pages"`
	Errors         []string     `json:"errors,omitempty"`
}

type PageStatus struct {
	PageNumber string `json:"page_number"`
	Summary    string `json:"summary,omitempty"`
	Failed     bool   `json:"failed,omitempty"`
}

// ConsolidationReport summarises one consolidation batch. A single
// folder's failure lands in Errors and never stops the batch.
type ConsolidationReport struct {
	TotalFolders int      `json:"total_folders"`
	Processed    int      `json:"processed_documents"`
	Errors       []string `json:"errors,omitempty"`
}
