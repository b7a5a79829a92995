package consolidate

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/akolanti/DocSearch/internal/config"
	"github.com/akolanti/DocSearch/internal/domain/docmodel"
	"github.com/akolanti/DocSearch/internal/rag/docstore"
	"github.com/akolanti/DocSearch/internal/rag/embedding"
	"github.com/akolanti/DocSearch/internal/rag/llm"
	"github.com/akolanti/DocSearch/pkg/logger_i"
)

var logger *logger_i.Logger

// Engine folds the raw page records of each folder into one
// consolidated document record. Pages that were folded in are flagged
// superseded rather than deleted, so the raw data survives.
type Engine struct {
	store    docstore.Store
	embedder embedding.Embedder
	llm      llm.Provider
}

func NewEngine(store docstore.Store, embedder embedding.Embedder, provider llm.Provider) *Engine {
	if logger == nil {
		logger = logger_i.NewLogger("Consolidation ")
	}
	return &Engine{
		store:    store,
		embedder: embedder,
		llm:      provider,
	}
}

// Consolidate processes every folder that still has live page records.
// Folders named in excludeFolders are flagged as exception documents
// and skipped. One folder failing never stops the batch.
func (e *Engine) Consolidate(ctx context.Context, excludeFolders []string) docmodel.ConsolidationReport {
	logger := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	report := docmodel.ConsolidationReport{}

	consolidated := false
	pages, err := e.store.Find(ctx, docstore.Filter{
		IsConsolidated:    &consolidated,
		ExcludeSuperseded: true,
	}, config.ConsolidationScanLimit)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("scanning pages: %v", err))
		return report
	}

	//excluded folders are flagged directly: they keep their exception
	//mark even when every page was already superseded by an earlier run
	excluded := make(map[string]bool, len(excludeFolders))
	for _, f := range excludeFolders {
		excluded[f] = true
		if _, err := e.store.SetFlagByFolder(ctx, f, docmodel.FieldIsException, true); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: flagging exception: %v", f, err))
		}
	}

	folders := groupByFolder(pages)
	report.TotalFolders = len(folders)

	names := make([]string, 0, len(folders))
	for name := range folders {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if excluded[name] {
			logger.Info("Skipping excluded folder", "folder", name)
			continue
		}

		if err := e.consolidateFolder(ctx, name, folders[name]); err != nil {
			logger.Error("Error consolidating folder", "folder", name, "error", err)
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		report.Processed++
	}

	return report
}

func groupByFolder(pages []docmodel.Record) map[string][]docmodel.Record {
	folders := make(map[string][]docmodel.Record)
	for _, p := range pages {
		folders[p.FolderName] = append(folders[p.FolderName], p)
	}
	return folders
}

func (e *Engine) consolidateFolder(ctx context.Context, folder string, pages []docmodel.Record) error {
	sort.SliceStable(pages, func(i, j int) bool {
		return docmodel.SafeInt(pages[i].PageNumber) < docmodel.SafeInt(pages[j].PageNumber)
	})

	doc := e.buildDocument(ctx, folder, pages)

	//hide the raw pages first; a replaced consolidated record from an
	//earlier run is fully overwritten by the upsert below anyway
	if _, err := e.store.SetFlagByFolder(ctx, folder, docmodel.FieldSuperseded, true); err != nil {
		return fmt.Errorf("superseding pages: %w", err)
	}

	if _, err := e.store.Upsert(ctx, doc); err != nil {
		//best effort rollback so the folder stays searchable
		if _, rbErr := e.store.SetFlagByFolder(ctx, folder, docmodel.FieldSuperseded, false); rbErr != nil {
			logger.Error("Rollback failed", "folder", folder, "error", rbErr)
		}
		return fmt.Errorf("storing consolidated document: %w", err)
	}

	logger.Info("Consolidated folder", "folder", folder, "pages", len(pages))
	return nil
}

func (e *Engine) buildDocument(ctx context.Context, folder string, pages []docmodel.Record) docmodel.Record {
	doc := docmodel.NewConsolidatedDocument(folder)

	var fullText strings.Builder
	fmt.Fprintf(&fullText, "Document: %s", folder)

	for _, page := range pages {
		fmt.Fprintf(&fullText, "\n\nPage %s:\n%s", page.PageNumber, page.Description)

		if page.PageSummary != "" {
			doc.PageSummaries = append(doc.PageSummaries, page.PageSummary)
		}

		entry := docmodel.PageEntry{
			PageNumber: page.PageNumber,
			Text:       page.Description,
			Summary:    page.PageSummary,
			Images:     page.Images,
			Elements:   page.Elements,
		}
		doc.Pages = append(doc.Pages, entry)

		for _, el := range page.Elements {
			el.ID = fmt.Sprintf("p%s_%s", page.PageNumber, el.ID)
			el.PageNumber = page.PageNumber
			doc.AllElements = append(doc.AllElements, el)
		}
		for _, img := range page.Images {
			if len(doc.AllImages) >= config.ConsolidatedImageCap {
				break
			}
			doc.AllImages = append(doc.AllImages, img)
		}
	}

	doc.FullText = fullText.String()
	doc.DocumentSummary = e.summarize(ctx, folder, doc.PageSummaries, len(pages))
	doc.Embedding = e.embedDocument(ctx, doc)
	return doc
}

// summarize asks the llm for a whole-document summary from the first
// page summaries. Any failure falls back to a minimal generated one.
func (e *Engine) summarize(ctx context.Context, folder string, pageSummaries []string, pageCount int) string {
	fallback := fmt.Sprintf("%s document (%d pages)", folder, pageCount)
	if e.llm == nil || len(pageSummaries) == 0 {
		return fallback
	}

	limit := config.DocSummaryPageLimit
	if len(pageSummaries) < limit {
		limit = len(pageSummaries)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Document: %s\n\nPage summaries:\n", folder)
	for _, s := range pageSummaries[:limit] {
		sb.WriteString("- " + s + "\n")
	}
	sb.WriteString("\nSummarize the whole document in at most 100 words.")

	summary, err := e.llm.Complete(ctx, llm.Request{
		System:      config.SummarySystemPrompt,
		User:        sb.String(),
		Temperature: config.SummaryTemperature,
		MaxTokens:   config.SummaryMaxTokens,
	})
	if err != nil || strings.TrimSpace(summary) == "" {
		logger.Warn("Summary generation failed, using fallback", "folder", folder, "error", err)
		return fallback
	}
	return strings.TrimSpace(summary)
}

// embedDocument embeds a digest of the document rather than its whole
// text: name, summary, the first page summaries and a capped slice of
// the full text.
func (e *Engine) embedDocument(ctx context.Context, doc docmodel.Record) []float32 {
	var sb strings.Builder
	sb.WriteString(doc.FolderName)
	sb.WriteString(" " + doc.DocumentSummary)

	limit := config.DocEmbedSummaryCount
	if len(doc.PageSummaries) < limit {
		limit = len(doc.PageSummaries)
	}
	for _, s := range doc.PageSummaries[:limit] {
		sb.WriteString(" " + s)
	}

	text := doc.FullText
	if len(text) > config.DocEmbedTextCharLimit {
		text = text[:config.DocEmbedTextCharLimit]
	}
	sb.WriteString(" " + text)

	vec, err := e.embedder.GetEmbedding(ctx, sb.String())
	if err != nil || len(vec) == 0 {
		return embedding.ZeroVector(e.embedder.Dimension())
	}
	return vec
}
