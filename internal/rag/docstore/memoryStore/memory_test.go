package memoryStore

import (
	"context"
	"testing"
	"time"

	"github.com/akolanti/DocSearch/internal/domain/docmodel"
	"github.com/akolanti/DocSearch/internal/rag/docstore"
)

type mockEmbedder struct {
	OnGetEmbedding func(ctx context.Context, text string) ([]float32, error)
}

func (m *mockEmbedder) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, text)
	}
	return []float32{1, 0, 0}, nil
}

func (m *mockEmbedder) Dimension() int { return 3 }

func pageRecord(folder, page string, vec []float32) docmodel.Record {
	rec := docmodel.NewPageRecord(folder, page)
	rec.Description = "content of " + folder + " page " + page
	rec.Embedding = vec
	return rec
}

func TestUpsert_ReplacesAndKeepsCreatedAt(t *testing.T) {
	s := InitMemoryStore(&mockEmbedder{})
	ctx := context.Background()

	first, err := s.Upsert(ctx, pageRecord("handbook", "1", []float32{1, 0, 0}))
	if err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if first.CreatedAt.IsZero() {
		t.Fatal("CreatedAt not stamped on insert")
	}

	time.Sleep(5 * time.Millisecond)

	update := pageRecord("handbook", "1", []float32{0, 1, 0})
	update.Description = "revised content"
	second, err := s.Upsert(ctx, update)
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("replace lost CreatedAt: %v vs %v", second.CreatedAt, first.CreatedAt)
	}
	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Error("UpdatedAt not advanced on replace")
	}

	all, _ := s.Find(ctx, docstore.Filter{}, 0)
	if len(all) != 1 {
		t.Fatalf("upsert duplicated the record: %d records", len(all))
	}
	if all[0].Description != "revised content" {
		t.Errorf("replace kept stale content: %s", all[0].Description)
	}
}

func TestFind_FilterExactness(t *testing.T) {
	s := InitMemoryStore(&mockEmbedder{})
	ctx := context.Background()

	s.Upsert(ctx, pageRecord("handbook", "1", []float32{1, 0, 0}))
	s.Upsert(ctx, pageRecord("handbook", "2", []float32{0, 1, 0}))
	s.Upsert(ctx, pageRecord("policy", "1", []float32{0, 0, 1}))

	doc := docmodel.NewConsolidatedDocument("handbook")
	doc.Embedding = []float32{1, 1, 0}
	s.Upsert(ctx, doc)

	folder := "handbook"
	consolidated := false
	pages, err := s.Find(ctx, docstore.Filter{FolderName: &folder, IsConsolidated: &consolidated}, 0)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if len(pages) != 2 {
		t.Errorf("expected 2 handbook pages, got %d", len(pages))
	}
	for _, p := range pages {
		if p.FolderName != "handbook" || p.IsConsolidated {
			t.Errorf("filter leaked record %+v", p)
		}
	}

	consolidatedOnly := true
	docs, _ := s.Find(ctx, docstore.Filter{IsConsolidated: &consolidatedOnly}, 0)
	if len(docs) != 1 || docs[0].ID != "doc_handbook" {
		t.Errorf("consolidated filter got %+v", docs)
	}
}

func TestFind_Limit(t *testing.T) {
	s := InitMemoryStore(&mockEmbedder{})
	ctx := context.Background()

	for _, p := range []string{"1", "2", "3", "4"} {
		s.Upsert(ctx, pageRecord("handbook", p, []float32{1, 0, 0}))
	}

	got, _ := s.Find(ctx, docstore.Filter{}, 2)
	if len(got) != 2 {
		t.Errorf("limit ignored: got %d records", len(got))
	}
}

func TestVectorSearch_RanksByCosine(t *testing.T) {
	s := InitMemoryStore(&mockEmbedder{})
	ctx := context.Background()

	s.Upsert(ctx, pageRecord("near", "1", []float32{1, 0, 0}))
	s.Upsert(ctx, pageRecord("mid", "1", []float32{1, 1, 0}))
	s.Upsert(ctx, pageRecord("far", "1", []float32{0, 0, 1}))

	hits, err := s.VectorSearch(ctx, []float32{1, 0, 0}, 2, docstore.Filter{})
	if err != nil {
		t.Fatalf("VectorSearch failed: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].FolderName != "near" || hits[1].FolderName != "mid" {
		t.Errorf("ranking wrong: %s, %s", hits[0].FolderName, hits[1].FolderName)
	}
	if hits[0].Score < hits[1].Score {
		t.Error("scores not descending")
	}
}

func TestVectorSearch_ExcludesSuperseded(t *testing.T) {
	s := InitMemoryStore(&mockEmbedder{})
	ctx := context.Background()

	s.Upsert(ctx, pageRecord("handbook", "1", []float32{1, 0, 0}))

	doc := docmodel.NewConsolidatedDocument("handbook")
	doc.Embedding = []float32{1, 0, 0}
	s.Upsert(ctx, doc)

	if _, err := s.SetFlagByFolder(ctx, "handbook", docmodel.FieldSuperseded, true); err != nil {
		t.Fatalf("SetFlagByFolder failed: %v", err)
	}
	//re-store the doc cleanly, the folder flag swept it up too
	doc.Superseded = false
	s.Upsert(ctx, doc)

	hits, _ := s.VectorSearch(ctx, []float32{1, 0, 0}, 5, docstore.Filter{ExcludeSuperseded: true})
	if len(hits) != 1 {
		t.Fatalf("expected only the consolidated doc, got %d hits", len(hits))
	}
	if hits[0].ID != "doc_handbook" {
		t.Errorf("superseded page leaked into results: %s", hits[0].ID)
	}
}

func TestDeleteByFolder(t *testing.T) {
	s := InitMemoryStore(&mockEmbedder{})
	ctx := context.Background()

	s.Upsert(ctx, pageRecord("handbook", "1", []float32{1, 0, 0}))
	s.Upsert(ctx, pageRecord("handbook", "2", []float32{0, 1, 0}))
	s.Upsert(ctx, pageRecord("policy", "1", []float32{0, 0, 1}))

	count, err := s.DeleteByFolder(ctx, "handbook")
	if err != nil {
		t.Fatalf("DeleteByFolder failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 deletions, got %d", count)
	}

	remaining, _ := s.Find(ctx, docstore.Filter{}, 0)
	if len(remaining) != 1 || remaining[0].FolderName != "policy" {
		t.Errorf("wrong records remain: %+v", remaining)
	}

	count, _ = s.DeleteByFolder(ctx, "ghost")
	if count != 0 {
		t.Errorf("deleting a missing folder returned %d", count)
	}
}

func TestDeleteByID(t *testing.T) {
	s := InitMemoryStore(&mockEmbedder{})
	ctx := context.Background()

	s.Upsert(ctx, pageRecord("handbook", "1", []float32{1, 0, 0}))

	count, err := s.DeleteByID(ctx, "handbook_page_1")
	if err != nil {
		t.Fatalf("DeleteByID failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 deletion, got %d", count)
	}

	count, _ = s.DeleteByID(ctx, "handbook_page_1")
	if count != 0 {
		t.Errorf("second delete returned %d", count)
	}
}

func TestUpsert_GeneratesMissingEmbedding(t *testing.T) {
	called := false
	s := InitMemoryStore(&mockEmbedder{
		OnGetEmbedding: func(ctx context.Context, text string) ([]float32, error) {
			called = true
			return []float32{0, 1, 0}, nil
		},
	})

	rec := docmodel.NewPageRecord("handbook", "1")
	rec.Description = "no embedding attached"

	stored, err := s.Upsert(context.Background(), rec)
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if !called {
		t.Error("embedder was not consulted for the missing embedding")
	}
	if len(stored.Embedding) != 3 {
		t.Errorf("embedding not attached: %v", stored.Embedding)
	}
}
