package retrieval

import (
	"context"
	"sort"

	"github.com/akolanti/DocSearch/internal/config"
	"github.com/akolanti/DocSearch/internal/domain/docmodel"
	"github.com/akolanti/DocSearch/internal/rag/docstore"
	"github.com/akolanti/DocSearch/internal/rag/embedding"
	"github.com/akolanti/DocSearch/internal/rag/llm"
	"github.com/akolanti/DocSearch/pkg/logger_i"
)

var logger *logger_i.Logger

// Engine answers search queries against the document store. Every
// degradation path returns empty results rather than an error: a search
// endpoint that 500s on a cold store helps nobody.
type Engine struct {
	store    docstore.Store
	embedder embedding.Embedder
	llm      llm.Provider
}

func NewEngine(store docstore.Store, embedder embedding.Embedder, provider llm.Provider) *Engine {
	if logger == nil {
		logger = logger_i.NewLogger("Retrieval ")
	}
	return &Engine{
		store:    store,
		embedder: embedder,
		llm:      provider,
	}
}

// Search embeds the query and returns the topK best matching records.
// The store is over-fetched so post-filtering still fills topK results.
func (e *Engine) Search(ctx context.Context, query string, opts docmodel.FilterOptions, topK int) ([]docmodel.SearchResult, error) {
	logger := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	if e.store == nil {
		logger.Warn("Search with no document store, returning empty results")
		return nil, nil
	}

	if topK <= 0 {
		topK = config.DefaultTopK
	}
	if topK > config.MaxTopK {
		topK = config.MaxTopK
	}

	vector, err := e.embedder.GetEmbedding(ctx, query)
	if err != nil || len(vector) == 0 {
		logger.Error("Query embedding failed, searching with zero vector", "error", err)
		vector = embedding.ZeroVector(e.embedder.Dimension())
	}

	filter := docstore.Filter{
		IsConsolidated:    opts.ConsolidatedOnly,
		ExcludeExceptions: opts.ExcludeExceptions,
		ExcludeSuperseded: true,
	}
	if opts.FolderName != "" {
		filter.FolderName = &opts.FolderName
	}

	hits, err := e.store.VectorSearch(ctx, vector, topK*config.OverFetchFactor, filter)
	if err != nil {
		logger.Error("Vector search failed", "error", err)
		return nil, err
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > topK {
		hits = hits[:topK]
	}

	results := make([]docmodel.SearchResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, toSearchResult(hit))
	}
	return results, nil
}

// toSearchResult flattens the stored record into the response shape.
// Consolidated documents surface their document-level fields where page
// records surface per-page ones.
func toSearchResult(hit docstore.ScoredRecord) docmodel.SearchResult {
	rec := hit.Record

	text := rec.Description
	if text == "" {
		text = rec.FullText
	}
	summary := rec.PageSummary
	if rec.IsConsolidated {
		summary = rec.DocumentSummary
	}
	images := rec.Images
	if rec.IsConsolidated && len(rec.AllImages) > 0 {
		images = rec.AllImages
	}
	elements := rec.Elements
	if rec.IsConsolidated && len(rec.AllElements) > 0 {
		elements = rec.AllElements
	}

	return docmodel.SearchResult{
		ID:         rec.ID,
		FolderName: rec.FolderName,
		PageNumber: rec.PageNumber,
		Score:      hit.Score,
		Text:       text,
		Summary:    summary,
		Images:     dedupeImages(images),
		Elements:   elements,
	}
}

// dedupeImages drops repeated image payloads, keeping first-seen order.
func dedupeImages(images []docmodel.ImageRef) []docmodel.ImageRef {
	if len(images) < 2 {
		return images
	}
	seen := make(map[string]bool, len(images))
	out := images[:0:0]
	for _, img := range images {
		if seen[img.Image] {
			continue
		}
		seen[img.Image] = true
		out = append(out, img)
	}
	return out
}

// CollectImages gathers response images across results, capped per
// document and for the response overall.
func CollectImages(results []docmodel.SearchResult) []docmodel.ImageRef {
	var out []docmodel.ImageRef
	for _, res := range results {
		perDoc := 0
		for _, img := range res.Images {
			if perDoc >= config.ImagesPerDocument || len(out) >= config.ImagesPerResponse {
				break
			}
			out = append(out, img)
			perDoc++
		}
		if len(out) >= config.ImagesPerResponse {
			break
		}
	}
	return out
}

// GenerateAnswer synthesises an answer to the query from the retrieved
// documents. A missing answer model and an empty result set each get
// their own canned answer; an llm failure is reported inside the answer
// text so search responses stay well formed.
func (e *Engine) GenerateAnswer(ctx context.Context, query string, results []docmodel.SearchResult) string {
	if e.llm == nil {
		return config.AnswerUnavailableAnswer
	}
	if len(results) == 0 {
		return config.NoResultsAnswer
	}

	answer, err := e.llm.Complete(ctx, llm.Request{
		System:      config.AnswerSystemPrompt,
		User:        buildAnswerPrompt(query, results),
		Temperature: config.AnswerTemperature,
		MaxTokens:   config.AnswerMaxTokens,
	})
	if err != nil {
		logger.Error("Answer generation failed", "error", err)
		return "Error generating answer: " + err.Error()
	}
	return answer
}
