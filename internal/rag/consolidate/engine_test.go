package consolidate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/akolanti/DocSearch/internal/config"
	"github.com/akolanti/DocSearch/internal/domain/docmodel"
	"github.com/akolanti/DocSearch/internal/rag/docstore"
	"github.com/akolanti/DocSearch/internal/rag/docstore/memoryStore"
	"github.com/akolanti/DocSearch/internal/rag/llm"
)

type MockEmbedder struct{}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.5, 0.5}, nil
}

func (m *MockEmbedder) Dimension() int { return 2 }

type MockLLM struct {
	OnComplete func(ctx context.Context, req llm.Request) (string, error)
}

func (m *MockLLM) Complete(ctx context.Context, req llm.Request) (string, error) {
	if m.OnComplete != nil {
		return m.OnComplete(ctx, req)
	}
	return "mocked summary", nil
}

func seedPage(t *testing.T, store docstore.Store, folder, page, text string) {
	t.Helper()
	rec := docmodel.NewPageRecord(folder, page)
	rec.Description = text
	rec.PageSummary = "summary of page " + page
	if _, err := store.Upsert(context.Background(), rec); err != nil {
		t.Fatalf("seeding page %s/%s: %v", folder, page, err)
	}
}

func findDoc(t *testing.T, store docstore.Store, folder string) docmodel.Record {
	t.Helper()
	consolidated := true
	docs, err := store.Find(context.Background(), docstore.Filter{
		FolderName:     &folder,
		IsConsolidated: &consolidated,
	}, 10)
	if err != nil {
		t.Fatalf("finding consolidated doc: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 consolidated doc for %s, got %d", folder, len(docs))
	}
	return docs[0]
}

func TestConsolidate_OrdersPagesNumerically(t *testing.T) {
	store := memoryStore.InitMemoryStore(&MockEmbedder{})
	for _, page := range []string{"3", "1", "page 2", "10"} {
		seedPage(t, store, "handbook", page, "content "+page)
	}

	e := NewEngine(store, &MockEmbedder{}, &MockLLM{})
	report := e.Consolidate(context.Background(), nil)
	if len(report.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", report.Errors)
	}
	if report.Processed != 1 {
		t.Fatalf("Processed = %d; want 1", report.Processed)
	}

	doc := findDoc(t, store, "handbook")
	wantOrder := []string{"1", "page 2", "3", "10"}
	if len(doc.Pages) != len(wantOrder) {
		t.Fatalf("expected %d pages, got %d", len(wantOrder), len(doc.Pages))
	}
	for i, want := range wantOrder {
		if doc.Pages[i].PageNumber != want {
			t.Errorf("page %d = %q; want %q", i, doc.Pages[i].PageNumber, want)
		}
	}

	//full text follows the same order
	idx1 := strings.Index(doc.FullText, "Page 1:")
	idx2 := strings.Index(doc.FullText, "Page page 2:")
	idx3 := strings.Index(doc.FullText, "Page 3:")
	idx10 := strings.Index(doc.FullText, "Page 10:")
	if idx1 < 0 || !(idx1 < idx2 && idx2 < idx3 && idx3 < idx10) {
		t.Errorf("full text page order wrong:\n%s", doc.FullText)
	}
	if !strings.HasPrefix(doc.FullText, "Document: handbook") {
		t.Errorf("full text header wrong:\n%s", doc.FullText)
	}
}

func TestConsolidate_SupersedesPages(t *testing.T) {
	store := memoryStore.InitMemoryStore(&MockEmbedder{})
	seedPage(t, store, "handbook", "1", "content")

	e := NewEngine(store, &MockEmbedder{}, &MockLLM{})
	if report := e.Consolidate(context.Background(), nil); report.Processed != 1 {
		t.Fatalf("Processed = %d; want 1", report.Processed)
	}

	consolidated := false
	pages, err := store.Find(context.Background(), docstore.Filter{
		IsConsolidated:    &consolidated,
		ExcludeSuperseded: true,
	}, 10)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if len(pages) != 0 {
		t.Errorf("raw pages still live after consolidation: %d", len(pages))
	}

	doc := findDoc(t, store, "handbook")
	if doc.Superseded {
		t.Error("fresh consolidated document must not be superseded")
	}
}

func TestConsolidate_CompositeElementIDs(t *testing.T) {
	store := memoryStore.InitMemoryStore(&MockEmbedder{})
	rec := docmodel.NewPageRecord("handbook", "4")
	rec.Description = "content"
	rec.Elements = []docmodel.ElementRecord{
		{ID: "element_0", Type: "chart", Description: "revenue chart"},
	}
	if _, err := store.Upsert(context.Background(), rec); err != nil {
		t.Fatalf("seeding: %v", err)
	}

	e := NewEngine(store, &MockEmbedder{}, &MockLLM{})
	e.Consolidate(context.Background(), nil)

	doc := findDoc(t, store, "handbook")
	if len(doc.AllElements) != 1 {
		t.Fatalf("expected 1 element, got %d", len(doc.AllElements))
	}
	el := doc.AllElements[0]
	if el.ID != "p4_element_0" {
		t.Errorf("element id = %q; want p4_element_0", el.ID)
	}
	if el.PageNumber != "4" {
		t.Errorf("element page = %q; want 4", el.PageNumber)
	}
	//per-page entries keep the original ids
	if doc.Pages[0].Elements[0].ID != "element_0" {
		t.Errorf("page entry element id mutated: %q", doc.Pages[0].Elements[0].ID)
	}
}

func TestConsolidate_ImageCap(t *testing.T) {
	store := memoryStore.InitMemoryStore(&MockEmbedder{})
	perPage := config.ConsolidatedImageCap/2 + 3
	for _, page := range []string{"1", "2"} {
		rec := docmodel.NewPageRecord("handbook", page)
		rec.Description = "content"
		for i := 0; i < perPage; i++ {
			rec.Images = append(rec.Images, docmodel.ImageRef{
				Image:       fmt.Sprintf("p%s-img%d", page, i),
				Description: "figure",
			})
		}
		if _, err := store.Upsert(context.Background(), rec); err != nil {
			t.Fatalf("seeding: %v", err)
		}
	}

	e := NewEngine(store, &MockEmbedder{}, &MockLLM{})
	e.Consolidate(context.Background(), nil)

	doc := findDoc(t, store, "handbook")
	if len(doc.AllImages) != config.ConsolidatedImageCap {
		t.Errorf("AllImages = %d; want cap %d", len(doc.AllImages), config.ConsolidatedImageCap)
	}
}

func TestConsolidate_SummaryFromLLM(t *testing.T) {
	store := memoryStore.InitMemoryStore(&MockEmbedder{})
	seedPage(t, store, "handbook", "1", "content")

	var prompt string
	mockLLM := &MockLLM{
		OnComplete: func(ctx context.Context, req llm.Request) (string, error) {
			prompt = req.User
			return "  An employee handbook.  ", nil
		},
	}

	e := NewEngine(store, &MockEmbedder{}, mockLLM)
	e.Consolidate(context.Background(), nil)

	doc := findDoc(t, store, "handbook")
	if doc.DocumentSummary != "An employee handbook." {
		t.Errorf("summary = %q", doc.DocumentSummary)
	}
	if !strings.Contains(prompt, "- summary of page 1") {
		t.Errorf("page summaries missing from prompt:\n%s", prompt)
	}
}

func TestConsolidate_SummaryFallback(t *testing.T) {
	tests := []struct {
		name string
		llm  llm.Provider
	}{
		{name: "no llm configured", llm: nil},
		{name: "llm error", llm: &MockLLM{
			OnComplete: func(ctx context.Context, req llm.Request) (string, error) {
				return "", errors.New("model overloaded")
			},
		}},
		{name: "empty completion", llm: &MockLLM{
			OnComplete: func(ctx context.Context, req llm.Request) (string, error) {
				return "   ", nil
			},
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := memoryStore.InitMemoryStore(&MockEmbedder{})
			seedPage(t, store, "handbook", "1", "content")
			seedPage(t, store, "handbook", "2", "content")

			e := NewEngine(store, &MockEmbedder{}, tc.llm)
			e.Consolidate(context.Background(), nil)

			doc := findDoc(t, store, "handbook")
			if doc.DocumentSummary != "handbook document (2 pages)" {
				t.Errorf("fallback summary = %q", doc.DocumentSummary)
			}
		})
	}
}

func TestConsolidate_ExcludedFolderFlagged(t *testing.T) {
	store := memoryStore.InitMemoryStore(&MockEmbedder{})
	seedPage(t, store, "keep-raw", "1", "content")
	seedPage(t, store, "handbook", "1", "content")

	e := NewEngine(store, &MockEmbedder{}, &MockLLM{})
	report := e.Consolidate(context.Background(), []string{"keep-raw"})

	if report.TotalFolders != 2 {
		t.Errorf("TotalFolders = %d; want 2", report.TotalFolders)
	}
	if report.Processed != 1 {
		t.Errorf("Processed = %d; want 1", report.Processed)
	}

	folder := "keep-raw"
	pages, err := store.Find(context.Background(), docstore.Filter{FolderName: &folder}, 10)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 surviving page, got %d", len(pages))
	}
	if !pages[0].IsException {
		t.Error("excluded folder not flagged as exception")
	}
	if pages[0].Superseded {
		t.Error("excluded folder must not be superseded")
	}
}

func TestConsolidate_ExcludedFolderFlaggedWhenSuperseded(t *testing.T) {
	store := memoryStore.InitMemoryStore(&MockEmbedder{})
	seedPage(t, store, "keep-raw", "1", "content")

	//a previous run already superseded every page of the folder
	if _, err := store.SetFlagByFolder(context.Background(), "keep-raw", docmodel.FieldSuperseded, true); err != nil {
		t.Fatalf("SetFlagByFolder failed: %v", err)
	}

	e := NewEngine(store, &MockEmbedder{}, &MockLLM{})
	e.Consolidate(context.Background(), []string{"keep-raw"})

	folder := "keep-raw"
	pages, err := store.Find(context.Background(), docstore.Filter{FolderName: &folder}, 10)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	if !pages[0].IsException {
		t.Error("excluded folder with only superseded pages not flagged as exception")
	}
}

func TestConsolidate_ErrorIsolation(t *testing.T) {
	inner := memoryStore.InitMemoryStore(&MockEmbedder{})
	seedPage(t, inner, "bad-folder", "1", "content")
	seedPage(t, inner, "good-folder", "1", "content")

	store := &failingStore{Store: inner, failFolder: "bad-folder"}
	e := NewEngine(store, &MockEmbedder{}, &MockLLM{})
	report := e.Consolidate(context.Background(), nil)

	if report.Processed != 1 {
		t.Errorf("Processed = %d; want 1", report.Processed)
	}
	if len(report.Errors) != 1 || !strings.Contains(report.Errors[0], "bad-folder") {
		t.Errorf("Errors = %v", report.Errors)
	}

	findDoc(t, inner, "good-folder")
}

// failingStore rejects upserts for one folder and delegates everything
// else to the wrapped store.
type failingStore struct {
	docstore.Store
	failFolder string
}

func (f *failingStore) Upsert(ctx context.Context, rec docmodel.Record) (docmodel.Record, error) {
	if rec.FolderName == f.failFolder {
		return rec, errors.New("storage rejected write")
	}
	return f.Store.Upsert(ctx, rec)
}

func TestConsolidate_RollbackOnUpsertFailure(t *testing.T) {
	inner := memoryStore.InitMemoryStore(&MockEmbedder{})
	seedPage(t, inner, "bad-folder", "1", "content")

	store := &failingStore{Store: inner, failFolder: "bad-folder"}
	e := NewEngine(store, &MockEmbedder{}, &MockLLM{})
	report := e.Consolidate(context.Background(), nil)
	if len(report.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", report.Errors)
	}

	//the folder stays searchable after the failed run
	folder := "bad-folder"
	pages, err := inner.Find(context.Background(), docstore.Filter{
		FolderName:        &folder,
		ExcludeSuperseded: true,
	}, 10)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if len(pages) != 1 {
		t.Errorf("expected rolled-back page to be live, got %d records", len(pages))
	}
}
