package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/akolanti/DocSearch/internal/config"
	"github.com/akolanti/DocSearch/internal/domain/docmodel"
	"github.com/akolanti/DocSearch/internal/rag/docstore"
	"github.com/akolanti/DocSearch/internal/rag/llm"
)

// MockStore implements docstore.Store
type MockStore struct {
	OnVectorSearch func(ctx context.Context, vector []float32, k int, filter docstore.Filter) ([]docstore.ScoredRecord, error)
	OnFind         func(ctx context.Context, filter docstore.Filter, limit int) ([]docmodel.Record, error)
}

func (m *MockStore) Upsert(ctx context.Context, rec docmodel.Record) (docmodel.Record, error) {
	return rec, nil
}

func (m *MockStore) Find(ctx context.Context, filter docstore.Filter, limit int) ([]docmodel.Record, error) {
	if m.OnFind != nil {
		return m.OnFind(ctx, filter, limit)
	}
	return nil, nil
}

func (m *MockStore) VectorSearch(ctx context.Context, vector []float32, k int, filter docstore.Filter) ([]docstore.ScoredRecord, error) {
	if m.OnVectorSearch != nil {
		return m.OnVectorSearch(ctx, vector, k, filter)
	}
	return nil, nil
}

func (m *MockStore) SetFlagByFolder(ctx context.Context, folder string, field string, value bool) (int, error) {
	return 0, nil
}

func (m *MockStore) DeleteByID(ctx context.Context, id string) (int, error) { return 0, nil }

func (m *MockStore) DeleteByFolder(ctx context.Context, folder string) (int, error) { return 0, nil }

type MockEmbedder struct {
	OnGetEmbedding func(ctx context.Context, text string) ([]float32, error)
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, text)
	}
	return []float32{0.1, 0.2}, nil
}

func (m *MockEmbedder) Dimension() int { return 2 }

type MockLLM struct {
	OnComplete func(ctx context.Context, req llm.Request) (string, error)
}

func (m *MockLLM) Complete(ctx context.Context, req llm.Request) (string, error) {
	if m.OnComplete != nil {
		return m.OnComplete(ctx, req)
	}
	return "mocked llm response", nil
}

func scored(folder, page string, score float32) docstore.ScoredRecord {
	rec := docmodel.NewPageRecord(folder, page)
	rec.Description = "text of " + folder + " " + page
	rec.PageSummary = "summary of " + folder
	return docstore.ScoredRecord{Record: rec, Score: score}
}

func TestSearch_RanksAndTruncates(t *testing.T) {
	store := &MockStore{
		OnVectorSearch: func(ctx context.Context, v []float32, k int, f docstore.Filter) ([]docstore.ScoredRecord, error) {
			if k != 2*config.OverFetchFactor {
				t.Errorf("over-fetch k = %d; want %d", k, 2*config.OverFetchFactor)
			}
			//deliberately unsorted
			return []docstore.ScoredRecord{
				scored("b", "1", 0.5),
				scored("a", "1", 0.9),
				scored("c", "1", 0.1),
			}, nil
		},
	}

	e := NewEngine(store, &MockEmbedder{}, &MockLLM{})
	results, err := e.Search(context.Background(), "query", docmodel.FilterOptions{}, 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].FolderName != "a" || results[1].FolderName != "b" {
		t.Errorf("ranking wrong: %s, %s", results[0].FolderName, results[1].FolderName)
	}
}

func TestSearch_NilStoreReturnsEmpty(t *testing.T) {
	e := NewEngine(nil, &MockEmbedder{}, &MockLLM{})
	results, err := e.Search(context.Background(), "query", docmodel.FilterOptions{}, 3)
	if err != nil {
		t.Fatalf("expected graceful empty result, got error %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestSearch_EmbeddingFailureUsesZeroVector(t *testing.T) {
	var captured []float32
	store := &MockStore{
		OnVectorSearch: func(ctx context.Context, v []float32, k int, f docstore.Filter) ([]docstore.ScoredRecord, error) {
			captured = v
			return nil, nil
		},
	}
	embedder := &MockEmbedder{
		OnGetEmbedding: func(ctx context.Context, text string) ([]float32, error) {
			return nil, errors.New("api limit")
		},
	}

	e := NewEngine(store, embedder, &MockLLM{})
	if _, err := e.Search(context.Background(), "query", docmodel.FilterOptions{}, 3); err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(captured) != 2 {
		t.Fatalf("zero vector not substituted: %v", captured)
	}
	for _, v := range captured {
		if v != 0 {
			t.Errorf("substituted vector not zero: %v", captured)
		}
	}
}

func TestSearch_PassesFilter(t *testing.T) {
	var captured docstore.Filter
	store := &MockStore{
		OnVectorSearch: func(ctx context.Context, v []float32, k int, f docstore.Filter) ([]docstore.ScoredRecord, error) {
			captured = f
			return nil, nil
		},
	}

	consolidated := true
	e := NewEngine(store, &MockEmbedder{}, &MockLLM{})
	_, err := e.Search(context.Background(), "query", docmodel.FilterOptions{
		ConsolidatedOnly:  &consolidated,
		FolderName:        "handbook",
		ExcludeExceptions: true,
	}, 3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if captured.FolderName == nil || *captured.FolderName != "handbook" {
		t.Error("folder filter not forwarded")
	}
	if captured.IsConsolidated == nil || !*captured.IsConsolidated {
		t.Error("consolidated filter not forwarded")
	}
	if !captured.ExcludeExceptions {
		t.Error("exception filter not forwarded")
	}
	if !captured.ExcludeSuperseded {
		t.Error("superseded records must always be excluded from search")
	}
}

func TestGenerateAnswer_ProviderUnavailable(t *testing.T) {
	e := NewEngine(&MockStore{}, &MockEmbedder{}, nil)

	results := []docmodel.SearchResult{{ID: "handbook_page_1", FolderName: "handbook", PageNumber: "1", Score: 0.9}}
	if answer := e.GenerateAnswer(context.Background(), "anything", results); answer != config.AnswerUnavailableAnswer {
		t.Errorf("got %q; want canned unavailable answer", answer)
	}

	//the unavailable answer wins even with nothing retrieved
	if answer := e.GenerateAnswer(context.Background(), "anything", nil); answer != config.AnswerUnavailableAnswer {
		t.Errorf("got %q; want canned unavailable answer", answer)
	}
}

func TestGenerateAnswer_NoResults(t *testing.T) {
	e := NewEngine(&MockStore{}, &MockEmbedder{}, &MockLLM{})
	answer := e.GenerateAnswer(context.Background(), "anything", nil)
	if answer != config.NoResultsAnswer {
		t.Errorf("got %q; want canned no-results answer", answer)
	}
}

func TestGenerateAnswer_ContextFormat(t *testing.T) {
	var prompt string
	mockLLM := &MockLLM{
		OnComplete: func(ctx context.Context, req llm.Request) (string, error) {
			prompt = req.User
			return "the answer", nil
		},
	}

	longText := strings.Repeat("x", config.ContextTextCharLimit+50)
	result := docmodel.SearchResult{
		ID:         "handbook_page_2",
		FolderName: "handbook",
		PageNumber: "2",
		Score:      0.87654321,
		Text:       longText,
		Summary:    "page summary",
		Images: []docmodel.ImageRef{
			{Image: "i1", Description: "chart one"},
			{Image: "i2", Description: "chart two"},
			{Image: "i3", Description: "chart three"},
			{Image: "i4", Description: "chart four"},
			{Image: "i5", Description: "chart five"},
		},
	}

	e := NewEngine(&MockStore{}, &MockEmbedder{}, mockLLM)
	answer := e.GenerateAnswer(context.Background(), "what is in the handbook?", []docmodel.SearchResult{result})
	if answer != "the answer" {
		t.Fatalf("answer = %q", answer)
	}

	if !strings.Contains(prompt, "Document 1: handbook (page 2)") {
		t.Errorf("document header missing:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Relevance score: 0.8765") {
		t.Errorf("score not formatted to 4 decimals:\n%s", prompt)
	}
	if !strings.Contains(prompt, longText[:config.ContextTextCharLimit]+"...") {
		t.Error("text not truncated with ellipsis")
	}
	if strings.Contains(prompt, longText) {
		t.Error("full text leaked into the prompt")
	}
	if !strings.Contains(prompt, "chart three") || strings.Contains(prompt, "chart four") {
		t.Errorf("image description cap not applied:\n%s", prompt)
	}
	if !strings.Contains(prompt, "+2 more") {
		t.Errorf("remaining-images marker missing:\n%s", prompt)
	}
	if !strings.Contains(prompt, "User question: what is in the handbook?") {
		t.Error("user question missing from prompt")
	}
}

func TestGenerateAnswer_LLMFailure(t *testing.T) {
	mockLLM := &MockLLM{
		OnComplete: func(ctx context.Context, req llm.Request) (string, error) {
			return "", errors.New("model overloaded")
		},
	}

	e := NewEngine(&MockStore{}, &MockEmbedder{}, mockLLM)
	answer := e.GenerateAnswer(context.Background(), "q", []docmodel.SearchResult{
		{ID: "x", FolderName: "f", Text: "t", Score: 0.5},
	})
	if !strings.Contains(answer, "Error generating answer") {
		t.Errorf("failure not surfaced in answer: %q", answer)
	}
}

func TestCollectImages_Caps(t *testing.T) {
	var results []docmodel.SearchResult
	for d := 0; d < 6; d++ {
		res := docmodel.SearchResult{ID: fmt.Sprintf("doc%d", d)}
		for i := 0; i < 4; i++ {
			res.Images = append(res.Images, docmodel.ImageRef{
				Image: fmt.Sprintf("d%d-i%d", d, i),
			})
		}
		results = append(results, res)
	}

	images := CollectImages(results)
	if len(images) != config.ImagesPerResponse {
		t.Fatalf("expected %d images, got %d", config.ImagesPerResponse, len(images))
	}
	//per-document cap means the first doc contributes exactly two
	if images[0].Image != "d0-i0" || images[1].Image != "d0-i1" || images[2].Image != "d1-i0" {
		t.Errorf("per-document cap not applied: %v", images[:3])
	}
}

func TestDedupeImages(t *testing.T) {
	images := []docmodel.ImageRef{
		{Image: "a", Description: "first"},
		{Image: "b"},
		{Image: "a", Description: "duplicate"},
	}
	out := dedupeImages(images)
	if len(out) != 2 {
		t.Fatalf("expected 2 images, got %d", len(out))
	}
	if out[0].Image != "a" || out[0].Description != "first" || out[1].Image != "b" {
		t.Errorf("first-seen order lost: %v", out)
	}
}
