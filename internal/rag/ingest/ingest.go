package ingest

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/akolanti/DocSearch/internal/config"
	"github.com/akolanti/DocSearch/internal/domain/docmodel"
	"github.com/akolanti/DocSearch/internal/rag/docstore"
	"github.com/akolanti/DocSearch/internal/rag/embedding"
	"github.com/akolanti/DocSearch/internal/rag/vision"
	"github.com/akolanti/DocSearch/pkg/logger_i"
)

type rawPage struct {
	Number  int    `json:"number"`
	Content string `json:"content"`
}

var logger *logger_i.Logger

// Pipeline turns a source file into one stored record per page. Vision
// analysis and embeddings both degrade rather than abort: a page that
// fails analysis is stored as a placeholder so the document's page set
// stays complete.
type Pipeline struct {
	store    docstore.Store
	embedder embedding.Embedder
	renderer vision.Renderer
	analyzer vision.Analyzer
}

func NewPipeline(store docstore.Store, embedder embedding.Embedder, renderer vision.Renderer, analyzer vision.Analyzer) *Pipeline {
	if logger == nil {
		logger = logger_i.NewLogger("Document Ingestion ")
	}
	return &Pipeline{
		store:    store,
		embedder: embedder,
		renderer: renderer,
		analyzer: analyzer,
	}
}

// Ingest processes every page of the file at docPath under the document
// name docName. Page failures are isolated; a context cancellation
// stops the remaining pages but keeps what was already stored.
func (p *Pipeline) Ingest(ctx context.Context, docPath string, docName string) (docmodel.IngestResult, error) {
	logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	result := docmodel.IngestResult{DocumentName: docName}

	docType := getDocType(docPath)
	logger.Debug("Processing document", "filename", docName, "type", docType)
	if docType == docTypeErr {
		return result, fmt.Errorf("%w: %s", ErrUnsupportedFormat, docPath)
	}

	rawPages, err := extractText(docPath, docType)
	if err != nil {
		logger.Error("Error extracting document content", "error", err)
		return result, err
	}
	logger.Debug("Processing document", "number of raw pages", len(rawPages))

	for _, page := range rawPages {
		select {
		case <-ctx.Done():
			result.Errors = append(result.Errors, "ingestion cancelled")
			return result, ctx.Err()
		default:
		}

		rec, pageErr := p.processPage(ctx, docPath, docName, page)
		status := docmodel.PageStatus{PageNumber: rec.PageNumber, Summary: rec.PageSummary}
		if pageErr != nil {
			logger.Error("Error processing page", "page", page.Number, "error", pageErr)
			status.Failed = true
			result.Errors = append(result.Errors, fmt.Sprintf("page %d: %v", page.Number, pageErr))
		}

		if _, err := p.store.Upsert(ctx, rec); err != nil {
			logger.Error("Error storing page", "page", page.Number, "error", err)
			status.Failed = true
			result.Errors = append(result.Errors, fmt.Sprintf("page %d: store: %v", page.Number, err))
		} else {
			result.PagesProcessed++
		}
		result.Pages = append(result.Pages, status)
	}

	return result, nil
}

// processPage builds the record for one page. Any failure past text
// extraction yields a placeholder record, never an empty slot.
func (p *Pipeline) processPage(ctx context.Context, docPath string, docName string, page rawPage) (docmodel.Record, error) {
	pageNum := strconv.Itoa(page.Number)
	rec := docmodel.NewPageRecord(docName, pageNum)

	text := strings.TrimSpace(page.Content)
	if text == "" {
		text = config.NoTextSentinel
	}
	rec.Description = text

	imageURI, err := p.renderer.RenderPage(ctx, docPath, page.Number-1)
	if err != nil {
		return rec, fmt.Errorf("rendering: %w", err)
	}

	analysis, err := p.analyzer.AnalyzePage(ctx, imageURI, text)
	if err != nil {
		return rec, fmt.Errorf("analyzing: %w", err)
	}

	rec.PageSummary = analysis.PageSummary
	rec.Elements = analysis.Elements
	rec.Images = collectPageImages(imageURI, analysis.Elements)
	rec.Embedding = p.embedText(ctx, rec)
	return rec, nil
}

// collectPageImages attaches the page image to each image-typed element
// the analyzer found. A page without image elements still carries one
// whole-page image so answers can cite it.
func collectPageImages(imageURI string, elements []docmodel.ElementRecord) []docmodel.ImageRef {
	var images []docmodel.ImageRef
	for _, el := range elements {
		if el.Type != "image" {
			continue
		}
		images = append(images, docmodel.ImageRef{
			Image:       imageURI,
			Description: el.Description,
		})
	}
	if len(images) == 0 && imageURI != "" {
		images = append(images, docmodel.ImageRef{Image: imageURI, Description: "full page"})
	}
	return images
}

func (p *Pipeline) embedText(ctx context.Context, rec docmodel.Record) []float32 {
	var sb strings.Builder
	fmt.Fprintf(&sb, "folder: %s, page: %s", rec.FolderName, rec.PageNumber)
	if rec.PageSummary != "" {
		sb.WriteString(", summary: " + rec.PageSummary)
	}
	text := rec.Description
	if len(text) > config.PageEmbedTextCharLimit {
		text = text[:config.PageEmbedTextCharLimit]
	}
	sb.WriteString("\n" + text)
	for _, img := range rec.Images {
		if img.Description != "" {
			sb.WriteString("\n" + img.Description)
		}
	}

	vec, err := p.embedder.GetEmbedding(ctx, sb.String())
	if err != nil || len(vec) == 0 {
		return embedding.ZeroVector(p.embedder.Dimension())
	}
	return vec
}
