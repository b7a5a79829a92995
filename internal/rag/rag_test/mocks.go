package rag_test

import (
	"context"

	"github.com/akolanti/DocSearch/internal/domain/docmodel"
	"github.com/akolanti/DocSearch/internal/rag/docstore"
	"github.com/akolanti/DocSearch/internal/rag/llm"
	"github.com/akolanti/DocSearch/internal/rag/vision"
)

// MockStore implements docstore.Store
type MockStore struct {
	// Control fields to simulate different behaviors
	OnUpsert          func(ctx context.Context, rec docmodel.Record) (docmodel.Record, error)
	OnFind            func(ctx context.Context, filter docstore.Filter, limit int) ([]docmodel.Record, error)
	OnVectorSearch    func(ctx context.Context, vector []float32, k int, filter docstore.Filter) ([]docstore.ScoredRecord, error)
	OnSetFlagByFolder func(ctx context.Context, folder string, field string, value bool) (int, error)

	Upserted []docmodel.Record
}

func (m *MockStore) Upsert(ctx context.Context, rec docmodel.Record) (docmodel.Record, error) {
	if m.OnUpsert != nil {
		return m.OnUpsert(ctx, rec)
	}
	m.Upserted = append(m.Upserted, rec)
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
	if m.OnSetFlagByFolder != nil {
		return m.OnSetFlagByFolder(ctx, folder, field, value)
	}
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

// MockLLM implements llm.Provider
type MockLLM struct {
	OnComplete func(ctx context.Context, req llm.Request) (string, error)
}

func (m *MockLLM) Complete(ctx context.Context, req llm.Request) (string, error) {
	if m.OnComplete != nil {
		return m.OnComplete(ctx, req)
	}
	return "mocked llm response", nil
}

type MockRenderer struct {
	OnRenderPage func(ctx context.Context, filePath string, pageIndex int) (string, error)
}

func (m *MockRenderer) RenderPage(ctx context.Context, filePath string, pageIndex int) (string, error) {
	if m.OnRenderPage != nil {
		return m.OnRenderPage(ctx, filePath, pageIndex)
	}
	return "data:image/jpeg;base64,aaaa", nil
}

type MockAnalyzer struct {
	OnAnalyzePage func(ctx context.Context, imageDataURI string, pageText string) (vision.Analysis, error)
}

func (m *MockAnalyzer) AnalyzePage(ctx context.Context, imageDataURI string, pageText string) (vision.Analysis, error) {
	if m.OnAnalyzePage != nil {
		return m.OnAnalyzePage(ctx, imageDataURI, pageText)
	}
	return vision.Analysis{PageSummary: "mocked page summary"}, nil
}
